package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"

	"github.com/kitedit/kite/pkg/app"
	"github.com/kitedit/kite/pkg/ioctx"
)

func main() {
	var debug bool
	var reconfigure bool
	exitCode := 0

	rootCmd := &cobra.Command{
		Use:   "kite [paths...]",
		Short: "A terminal text editor",
		Long: `Kite is a terminal text editor with multi-cursor editing, tree-sitter
syntax highlighting, and language server integration.`,
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			err := run(cmd.Context(), args, reconfigure, debug)
			exitCode = exitCodeFor(err)
			return err
		},
	}

	rootCmd.Flags().BoolVarP(&debug, "debug", "d", false, "Enable debug logging")
	rootCmd.Flags().BoolVarP(&reconfigure, "reconfigure", "r", false, "Back up the existing config and write a fresh default")

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
		if exitCode == 0 {
			exitCode = 1
		}
		os.Exit(exitCode)
	}
	os.Exit(exitCode)
}

// exitCodeFor maps a run failure to the exit code §6 specifies: 0 normal,
// 2 failed backup of old config, 3 failed to load config, 4 failed to write
// fresh config, 5 no usable start directory. Any other error (e.g. the
// terminal itself failing to start) falls back to 1.
func exitCodeFor(err error) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, app.ErrConfigBackupFailed):
		return 2
	case errors.Is(err, app.ErrConfigLoadFailed):
		return 3
	case errors.Is(err, app.ErrConfigWriteFailed):
		return 4
	case errors.Is(err, app.ErrNoStartDirectory):
		return 5
	default:
		return 1
	}
}

func run(ctx context.Context, paths []string, reconfigure, debug bool) error {
	a, err := app.New(ctx, app.Options{Paths: paths, Reconfigure: reconfigure, Debug: debug})
	if err != nil {
		return fmt.Errorf("failed to start kite: %w", err)
	}
	return a.Run(ctx)
}
