package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path/filepath"

	"github.com/nihei9/atnc/compiler"
	verr "github.com/nihei9/atnc/error"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"gopkg.in/guregu/null.v3"
)

type compileFlags struct {
	output              string
	showTransformations bool
	skipSetReduction    bool
}

func newCompileCommand(gs *globalState) *cobra.Command {
	flags := &compileFlags{}
	cmd := &cobra.Command{
		Use:     "compile",
		Short:   "Build the ATN of a grammar and write it as JSON",
		Example: `  atnc compile Expr.g4 -o expr.json`,
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fs := cmd.Flags()
			if fs.Changed("output") {
				gs.config.Output = null.StringFrom(flags.output)
			}
			if fs.Changed("show-transformations") {
				gs.config.ShowTransformations = null.BoolFrom(flags.showTransformations)
			}
			if fs.Changed("skip-set-reduction") {
				gs.config.SkipSetReduction = null.BoolFrom(flags.skipSetReduction)
			}
			return runCompile(gs, cmd.InOrStdin(), args)
		},
	}
	cmd.Flags().StringVarP(&flags.output, "output", "o", "", "output file path (default stdout)")
	cmd.Flags().BoolVar(&flags.showTransformations, "show-transformations", false, "log every block-set rewrite at debug level")
	cmd.Flags().BoolVar(&flags.skipSetReduction, "skip-set-reduction", false, "build the ATN from the blocks as written")
	return cmd
}

func runCompile(gs *globalState, stdin io.Reader, args []string) error {
	src := stdin
	sourceName := "stdin"
	if len(args) > 0 {
		sourceName = args[0]
		b, err := afero.ReadFile(gs.fs, sourceName)
		if err != nil {
			return fmt.Errorf("Cannot open the grammar file %s: %w", sourceName, err)
		}
		src = bytes.NewReader(b)
	}

	opts := []compiler.CompileOption{
		compiler.WithLogger(gs.logger),
		compiler.WithSourceName(sourceName),
	}
	if gs.config.ShowTransformations.Bool {
		opts = append(opts, compiler.ShowTransformations())
	}
	if gs.config.SkipSetReduction.Bool {
		opts = append(opts, compiler.SkipSetReduction())
	}
	res, err := compiler.Compile(src, opts...)
	if err != nil {
		return gs.reportSpecErrors(err, sourceName)
	}

	err = writeDescription(gs, res.Describe(), gs.config.Output.String)
	if err != nil {
		return fmt.Errorf("Cannot write the ATN: %w", err)
	}
	return nil
}

func writeDescription(gs *globalState, desc *compiler.Description, path string) error {
	b, err := json.Marshal(desc)
	if err != nil {
		return err
	}
	if path == "" {
		fmt.Fprintf(gs.stdout, "%v\n", string(b))
		return nil
	}

	dir := filepath.Dir(path)
	err = gs.fs.MkdirAll(dir, 0755)
	if err != nil {
		return err
	}
	return afero.WriteFile(gs.fs, path, append(b, '\n'), 0644)
}

// reportSpecErrors prints the diagnostics err carries and summarizes them. Any other error is
// returned as it is.
func (gs *globalState) reportSpecErrors(err error, sourceName string) error {
	var specErrs verr.SpecErrors
	if !errors.As(err, &specErrs) {
		var specErr *verr.SpecError
		if !errors.As(err, &specErr) {
			return err
		}
		specErrs = verr.SpecErrors{specErr}
	}
	specErrs.Sort()
	c := gs.errorColor()
	for _, e := range specErrs {
		c.Fprintln(gs.stderr, e)
	}
	return fmt.Errorf("%v error(s) found in %v", len(specErrs), sourceName)
}
