package cli

import (
	"fmt"
	"io"
	"sort"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/ramlens/ramlens/ram/analysis"
	"github.com/ramlens/ramlens/souffle"
)

// NewIndexesCommand creates the indexes command: list the secondary indexes
// the compiler plans to build for each input program.
func NewIndexesCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "indexes <file>...",
		Short: "List indexes generated by the compiler",
		Long: `List the BTree indexes the compiler plans to build, inferred from the
on-index scans visible in the RAM dump. The list is conservative: some
indexes may not be included, and some listed may not be built.`,
		Args: cobra.MinimumNArgs(1),
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
				indexes, err := analysis.Infer(prog, catalog)
				if err != nil {
					return err
				}
				writeIndexes(cmd.OutOrStdout(), indexes)
				return nil
			})
		},
	}
}

func writeIndexes(w io.Writer, indexes map[string][]analysis.BTreeIndex) {
	fmt.Fprintln(w, color.YellowString(analysis.Disclaimer))

	names := make([]string, 0, len(indexes))
	for name := range indexes {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		fmt.Fprintln(w, name)
		for _, idx := range indexes[name] {
			fmt.Fprintf(w, "\t%s\n", idx.TypeString())
		}
	}
}
