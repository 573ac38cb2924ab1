// Package cli provides the command-line interface for enriching OpenAPI
// documents with XML documentation comments.
package cli

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/lmittmann/tint"
	"github.com/spf13/cobra"
	slogctx "github.com/veqryn/slog-context"
	"gitlab.com/tozd/go/errors"
)

// NewRootCommand builds the openapi-xmldoc command tree.
func NewRootCommand() *cobra.Command {
	var (
		logLevel string
		noColor  bool
	)

	rootCmd := &cobra.Command{
		Use:           "openapi-xmldoc",
		Short:         "Enrich OpenAPI documents with XML documentation comments",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			var level slog.Level
			if err := level.UnmarshalText([]byte(logLevel)); err != nil {
				return errors.Errorf("invalid log level %q", logLevel)
			}
			logger := newLogger(cmd.ErrOrStderr(), level, noColor)
			cmd.SetContext(slogctx.NewCtx(cmd.Context(), logger))
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Log level: debug, info, warn or error")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable colored log output")

	rootCmd.AddCommand(newEnrichCommand())
	rootCmd.AddCommand(newValidateCommand())

	return rootCmd
}

// Execute creates and runs the root command.
func Execute(ctx context.Context) error {
	return NewRootCommand().ExecuteContext(ctx)
}

func newLogger(w io.Writer, level slog.Level, noColor bool) *slog.Logger {
	handler := tint.NewHandler(w, &tint.Options{
		Level:      level,
		TimeFormat: time.TimeOnly,
		NoColor:    noColor,
	})
	return slog.New(slogctx.NewHandler(handler, nil))
}
