package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"

	"github.com/vito/generics/pkg/ioctx"
	"github.com/vito/generics/pkg/typeset"
)

// Config holds the application configuration
type Config struct {
	Debug  bool
	Config string
	Site   string
}

func main() {
	var cfg Config
	rootCmd := newRootCmd(&cfg)

	ctx := context.Background()
	ctx = ioctx.StdoutToContext(ctx, os.Stdout)
	ctx = ioctx.StderrToContext(ctx, os.Stderr)
	if err := fang.Execute(ctx, rootCmd,
		fang.WithVersion("v0.1.0"),
		fang.WithCommit("dev"),
		fang.WithErrorHandler(func(w io.Writer, styles fang.Styles, err error) {
			_, _ = fmt.Fprintln(w, err.Error())
		}),
	); err != nil {
		os.Exit(1)
	}
}

func newRootCmd(cfg *Config) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "generics",
		Short: "Explore a universe of generic type declarations",
		Long: `generics loads type declarations from a generics.toml file and answers
questions about them: resolved members, assignability, erasure and
declaration validity.

Types are written as class file signatures ("Ljava/util/List<TT;>;") or,
for plain class types, as dotted names ("java.lang.String").`,
		Example: `  # Show the hierarchy and resolved members of a type
  generics resolve 'Ljava/util/ArrayList<Ljava/lang/String;>;'

  # Check an assignment, with type variables of demo.Box in scope
  generics assign --in demo.Box 'Ljava/util/List<+TT;>;' 'Ljava/util/ArrayList<TT;>;'

  # Validate every declaration with debug logging
  generics -d validate`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cmd.SetContext(setupLogging(cmd.Context(), cfg.Debug))
			return nil
		},
	}

	rootCmd.PersistentFlags().BoolVarP(&cfg.Debug, "debug", "d", false, "Enable debug logging")
	rootCmd.PersistentFlags().StringVarP(&cfg.Config, "config", "c", "", "Path to generics.toml (searched from the working directory if not specified)")

	rootCmd.AddCommand(
		resolveCmd(cfg),
		assignCmd(cfg),
		eraseCmd(cfg),
		detachCmd(cfg),
		validateCmd(cfg),
	)
	return rootCmd
}

func setupLogging(ctx context.Context, debug bool) context.Context {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}

	handler := slog.NewTextHandler(ioctx.StderrFromContext(ctx), &slog.HandlerOptions{
		Level: level,
	})
	logger := slog.New(handler)
	slog.SetDefault(logger)
	return ioctx.LoggerToContext(ctx, logger)
}

func loadUniverse(ctx context.Context, cfg *Config) (*typeset.Universe, error) {
	path := cfg.Config
	if path == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, err
		}
		path, err = typeset.FindConfig(cwd)
		if err != nil {
			return nil, fmt.Errorf("failed to find %s: %w", typeset.ConfigName, err)
		}
		if path == "" {
			return nil, fmt.Errorf("no %s found; pass --config", typeset.ConfigName)
		}
	}
	ioctx.LoggerFromContext(ctx).Debug("loading universe", "path", path)
	return typeset.Load(ctx, path)
}
