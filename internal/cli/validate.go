package cli

import (
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	slogctx "github.com/veqryn/slog-context"
	"gitlab.com/tozd/go/errors"

	specvalidator "github.com/example/openapi-xmldoc/internal/validator"
)

func newValidateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "validate FILE",
		Short: "Validate an OpenAPI document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(filepath.Clean(args[0]))
			if err != nil {
				return errors.Errorf("read spec: %w", err)
			}
			if err := specvalidator.Validate(cmd.Context(), data); err != nil {
				return err
			}
			slogctx.Info(cmd.Context(), "document is valid", "path", args[0])
			return nil
		},
	}
}
