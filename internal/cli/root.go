// Package cli implements gdhgen, which renders exported table snapshots
// without a running server.
package cli

import (
	"github.com/spf13/cobra"

	"game-data-hub/internal/codegen"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	NoColor bool
}

// NewRootCommand creates the gdhgen root command. A nil registry uses the
// built-in generators.
func NewRootCommand(registry *codegen.Registry) *cobra.Command {
	if registry == nil {
		registry = codegen.DefaultRegistry()
	}
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "gdhgen",
		Short: "Render game data snapshots into engine formats",
		Long: `gdhgen renders a table snapshot (as returned by GET /api/v1/tables/{id}/snapshot)
into Unity, Unreal, JSON Schema, Avro or YAML output.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().BoolVar(&opts.NoColor, "no-color", false, "disable colored output")

	cmd.AddCommand(NewGenerateCommand(opts, registry))
	cmd.AddCommand(NewFormatsCommand(opts, registry))

	return cmd
}
