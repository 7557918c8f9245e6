// Package cli implements docctl, the operator command line for the document service.
package cli

import (
	"encoding/json"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spec-kit/document-service/internal/config"
	"github.com/spec-kit/document-service/internal/observability"
)

// loader returns the runtime configuration. Tests replace it.
type loader func() (*config.Config, error)

// NewRootCmd builds the docctl command tree.
func NewRootCmd() *cobra.Command {
	return newRootCmd(config.Load)
}

func newRootCmd(load loader) *cobra.Command {
	root := &cobra.Command{
		Use:           "docctl",
		Short:         "Operator tooling for the document service",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newTokenCmd(load), newMigrateCmd(load), newUserCmd(load))
	return root
}

func newLogger(cfg *config.Config) *zap.Logger {
	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		return zap.NewNop()
	}
	return logger
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
