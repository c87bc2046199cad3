package main

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/nihei9/atnc/ast"
	verr "github.com/nihei9/atnc/error"
	"github.com/nihei9/atnc/spec"
	"github.com/nihei9/atnc/transform"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

type treeFlags struct {
	raw bool
}

func newTreeCommand(gs *globalState) *cobra.Command {
	flags := &treeFlags{}
	cmd := &cobra.Command{
		Use:     "tree",
		Short:   "Print the AST of a grammar",
		Example: `  atnc tree Expr.g4 --raw`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTree(gs, args[0], flags)
		},
	}
	cmd.Flags().BoolVar(&flags.raw, "raw", false, "print the AST as parsed, without reducing blocks to sets")
	return cmd
}

func runTree(gs *globalState, path string, flags *treeFlags) error {
	src, err := afero.ReadFile(gs.fs, path)
	if err != nil {
		return fmt.Errorf("Cannot open the grammar file %s: %w", path, err)
	}

	root, err := spec.Parse(bytes.NewReader(src))
	if err != nil {
		var specErr *verr.SpecError
		if errors.As(err, &specErr) {
			specErr.SourceName = path
			specErr.Source = src
		}
		return gs.reportSpecErrors(err, path)
	}
	g, err := ast.NewGrammar(root)
	if err != nil {
		return err
	}
	g.FileName = path

	if !flags.raw {
		opts := []transform.TransformOption{
			transform.WithLogger(gs.logger),
		}
		if gs.config.ShowTransformations.Bool {
			opts = append(opts, transform.ShowTransformations())
		}
		err := transform.ReduceBlocksToSets(g, opts...)
		if err != nil {
			return err
		}
	}

	ast.PrintTree(gs.stdout, g.AST)
	return nil
}
