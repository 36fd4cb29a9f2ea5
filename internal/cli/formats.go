package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"game-data-hub/internal/codegen"
)

// NewFormatsCommand creates the formats command.
func NewFormatsCommand(rootOpts *RootOptions, registry *codegen.Registry) *cobra.Command {
	return &cobra.Command{
		Use:   "formats",
		Short: "List the available output formats",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			name := newPainter(rootOpts, color.FgCyan)

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "FORMAT\tEXTENSION\tMIME TYPE")
			for _, f := range registry.Formats() {
				fmt.Fprintf(w, "%s\t%s\t%s\n", name.Sprint(f.Name), f.Extension, f.MimeType)
			}
			return w.Flush()
		},
	}
}
