package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ramlens/ramlens/souffle"
)

// NewParseCommand creates the parse command: parse the RAM dump for each
// program and throw the result away. Useful when debugging the dialect.
func NewParseCommand(opts *RootOptions) *cobra.Command {
	var initial bool

	cmd := &cobra.Command{
		Use:   "parse <file>...",
		Short: "Parse RAM dumps and discard the result",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireSingleFile(opts, args); err != nil {
				return err
			}
			version := souffle.TransformedRAM
			if initial {
				version = souffle.InitialRAM
			}
			return forEachFile(cmd, args, func(file string) error {
				prog, err := loadProgram(cmd.Context(), opts, file, version)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s: %d subroutines\n", file, len(prog.Subroutines))
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&initial, "initial", false, "parse the initial RAM instead of the transformed RAM")
	return cmd
}
