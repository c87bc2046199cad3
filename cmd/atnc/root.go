package main

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/nihei9/atnc/config"
	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"gopkg.in/guregu/null.v3"
)

// globalState is what every command shares. Tests replace the file system and the streams.
type globalState struct {
	fs        afero.Fs
	stdout    io.Writer
	stderr    io.Writer
	lookupEnv func(key string) (string, bool)

	logger *logrus.Logger
	config config.Config
}

func newGlobalState() *globalState {
	logger := logrus.New()
	logger.SetOutput(os.Stderr)
	return &globalState{
		fs:        afero.NewOsFs(),
		stdout:    os.Stdout,
		stderr:    os.Stderr,
		lookupEnv: os.LookupEnv,
		logger:    logger,
		config:    config.NewConfig(),
	}
}

type rootFlags struct {
	configPath string
	logLevel   string
	logFormat  string
	noColor    bool
}

func newRootCommand(gs *globalState) *cobra.Command {
	flags := &rootFlags{}
	cmd := &cobra.Command{
		Use:   "atnc",
		Short: "Build the ATN of an ANTLR grammar",
		Long: `atnc reads an ANTLR 4 grammar and builds its augmented transition network:
- compile writes the ATN as JSON.
- show prints a JSON ATN in a readable format.
- tree prints the AST of a grammar.`,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return gs.setup(cmd.Flags(), flags)
		},
	}
	cmd.SetOut(gs.stdout)
	cmd.SetErr(gs.stderr)

	pf := cmd.PersistentFlags()
	pf.StringVarP(&flags.configPath, "config", "c", "", fmt.Sprintf("configuration file (default %v when it exists)", config.DefaultFileName))
	pf.StringVar(&flags.logLevel, "log-level", "", "log level: trace, debug, info, warn or error")
	pf.StringVar(&flags.logFormat, "log-format", "", "log format: text or json")
	pf.BoolVar(&flags.noColor, "no-color", false, "disable colored output")

	cmd.AddCommand(
		newCompileCommand(gs),
		newShowCommand(gs),
		newTreeCommand(gs),
	)
	return cmd
}

// setup loads the configuration, lets the flags set on the command line override it, and
// configures the logger.
func (gs *globalState) setup(fs *pflag.FlagSet, flags *rootFlags) error {
	cfg, err := config.Load(gs.fs, flags.configPath, gs.lookupEnv)
	if err != nil {
		return err
	}
	flagConf := config.Config{}
	if fs.Changed("log-level") {
		flagConf.LogLevel = null.StringFrom(flags.logLevel)
	}
	if fs.Changed("log-format") {
		flagConf.LogFormat = null.StringFrom(flags.logFormat)
	}
	if fs.Changed("no-color") {
		flagConf.NoColor = null.BoolFrom(flags.noColor)
	}
	cfg = cfg.Apply(flagConf)
	err = cfg.Validate()
	if err != nil {
		return err
	}
	gs.config = cfg

	level, err := logrus.ParseLevel(cfg.LogLevel.String)
	if err != nil {
		return err
	}
	gs.logger.SetLevel(level)
	gs.logger.SetOutput(gs.stderr)
	switch cfg.LogFormat.String {
	case config.LogFormatJSON:
		gs.logger.SetFormatter(&logrus.JSONFormatter{})
	default:
		gs.logger.SetFormatter(&logrus.TextFormatter{
			DisableColors: cfg.NoColor.Bool,
		})
	}
	if cfg.NoColor.Bool {
		color.NoColor = true
	}
	return nil
}

// errorColor returns the color diagnostics are printed in.
func (gs *globalState) errorColor() *color.Color {
	c := color.New(color.FgRed)
	if gs.config.NoColor.Bool {
		c.DisableColor()
	}
	return c
}
