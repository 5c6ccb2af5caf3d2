package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ramlens/ramlens/ram/render"
	"github.com/ramlens/ramlens/ram/simplify"
	"github.com/ramlens/ramlens/souffle"
)

// NewExplainCommand creates the explain command: render the compiled plan as
// a non-functional Python-like program.
func NewExplainCommand(opts *RootOptions) *cobra.Command {
	return newRenderCommand(opts, "explain",
		"Render the compiled plan as a Python-like program",
		render.PythonNotation{})
}

// NewPlanCommand creates the plan command: render the compiled plan in
// set/logic notation.
func NewPlanCommand(opts *RootOptions) *cobra.Command {
	return newRenderCommand(opts, "plan",
		"Render the compiled plan in set/logic notation",
		render.SetNotation{})
}

func newRenderCommand(opts *RootOptions, name, short string, notation render.Notation) *cobra.Command {
	return &cobra.Command{
		Use:   name + " <file>...",
		Short: short,
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireSingleFile(opts, args); err != nil {
				return err
			}
			return forEachFile(cmd, args, func(file string) error {
				catalog, err := loadCatalog(cmd.Context(), opts, file)
				if err != nil {
					return err
				}
				prog, err := loadProgram(cmd.Context(), opts, file, souffle.TransformedRAM)
				if err != nil {
					return err
				}
				doc, err := render.New(notation, catalog).Render(simplify.Simplify(prog))
				if err != nil {
					return err
				}
				fmt.Fprint(cmd.OutOrStdout(), doc)
				return nil
			})
		},
	}
}
