package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/arloliu/relo"
	"github.com/arloliu/relo/format"
)

// globalFlags are shared by every subcommand.
type globalFlags struct {
	logLevel  string
	logFile   string
	bigEndian bool
	detect    bool
	relocs    string

	logger *zap.Logger
}

func newRootCommand() *cobra.Command {
	g := &globalFlags{}

	root := &cobra.Command{
		Use:           "relo",
		Short:         "Inspect and convert relocatable asset files and BIXF trees",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			logger, err := newLogger(g.logLevel, g.logFile, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			g.logger = logger

			return nil
		},
		PersistentPostRun: func(_ *cobra.Command, _ []string) {
			if g.logger != nil {
				_ = g.logger.Sync()
			}
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&g.logLevel, "log-level", "warn", "log level: debug, info, warn or error")
	pf.StringVar(&g.logFile, "log-file", "", "write logs to this file with rotation instead of stderr")
	pf.BoolVar(&g.bigEndian, "big-endian", false, "read files in the big-endian console variant")
	pf.BoolVar(&g.detect, "detect-endian", false, "pick the byte order from the file size field")
	pf.StringVar(&g.relocs, "relocs-in", "plain", "relocation table format of input files: plain or bbin")

	root.AddCommand(newInspectCommand(g), newRepackCommand(g), newBIXFCommand(g))

	return root
}

// loadOptions returns the facade options for reading input files.
func (g *globalFlags) loadOptions() ([]relo.Option, error) {
	r, ok := format.ParseRelocationFormat(g.relocs)
	if !ok {
		return nil, fmt.Errorf("unknown relocation format %q", g.relocs)
	}

	opts := []relo.Option{relo.WithRelocations(r), relo.WithLogger(g.logger)}
	if g.bigEndian {
		opts = append(opts, relo.WithBigEndian())
	}

	if g.detect {
		opts = append(opts, relo.WithDetectEndian())
	}

	return opts, nil
}

func newLogger(level, file string, stderr io.Writer) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid --log-level: %w", err)
	}

	sink := zapcore.AddSync(stderr)
	encoder := zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig())

	if file != "" {
		sink = zapcore.AddSync(&lumberjack.Logger{
			Filename:   file,
			MaxSize:    10, // megabytes
			MaxBackups: 3,
			MaxAge:     28, // days
		})
		encoder = zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig())
	}

	return zap.New(zapcore.NewCore(encoder, sink, lvl)), nil
}
