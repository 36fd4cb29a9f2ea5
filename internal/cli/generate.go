package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"game-data-hub/internal/codegen"
)

type generateOptions struct {
	format string
	input  string
	out    string
}

// NewGenerateCommand creates the generate command.
func NewGenerateCommand(rootOpts *RootOptions, registry *codegen.Registry) *cobra.Command {
	opts := &generateOptions{}

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Render a snapshot file in one format",
		Long: `Render a snapshot file in one format.

The input is JSON of the form {"schema": {...}, "data": {"rows": [...]}}.
Reads stdin when --input is "-". Writes stdout unless --out is given.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(rootOpts, opts, registry, cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.format, "format", "f", "", "output format (see gdhgen formats)")
	cmd.Flags().StringVarP(&opts.input, "input", "i", "-", "snapshot file, - for stdin")
	cmd.Flags().StringVarP(&opts.out, "out", "o", "", "output file")
	_ = cmd.MarkFlagRequired("format")

	return cmd
}

func runGenerate(rootOpts *RootOptions, opts *generateOptions, registry *codegen.Registry, cmd *cobra.Command) error {
	generator, err := registry.Get(opts.format)
	if err != nil {
		return err
	}

	var in io.Reader = cmd.InOrStdin()
	if opts.input != "-" {
		f, err := os.Open(opts.input)
		if err != nil {
			return fmt.Errorf("open input: %w", err)
		}
		defer f.Close()
		in = f
	}

	snapshot, err := codegen.DecodeSnapshot(in)
	if err != nil {
		return err
	}

	content, err := generator.Generate(snapshot.Data, snapshot.Schema)
	if err != nil {
		return err
	}

	if opts.out == "" {
		_, err = fmt.Fprintln(cmd.OutOrStdout(), content)
		return err
	}

	if err := os.WriteFile(opts.out, []byte(content+"\n"), 0o644); err != nil {
		return fmt.Errorf("write output: %w", err)
	}

	ok := newPainter(rootOpts, color.FgGreen)
	fmt.Fprintf(cmd.ErrOrStderr(), "%s %s (%d rows, %s)\n",
		ok.Sprint("wrote"), opts.out, len(snapshot.Data.Rows), generator.Name())
	return nil
}

// newPainter returns a color printer honoring --no-color
func newPainter(opts *RootOptions, attr color.Attribute) *color.Color {
	c := color.New(attr)
	if opts.NoColor {
		c.DisableColor()
	}
	return c
}
