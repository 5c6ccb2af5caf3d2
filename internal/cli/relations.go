package cli

import (
	"fmt"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/renderer"
	"github.com/olekukonko/tablewriter/tw"
	"github.com/spf13/cobra"

	"github.com/ramlens/ramlens/ram"
	"github.com/ramlens/ramlens/souffle"
)

// NewRelationsCommand creates the relations command: list the relation
// schemas declared by each input program.
func NewRelationsCommand(opts *RootOptions) *cobra.Command {
	var format string
	var fromSource bool

	cmd := &cobra.Command{
		Use:   "relations <file>...",
		Short: "List relations in the input programs",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireSingleFile(opts, args); err != nil {
				return err
			}
			if format != "plain" && format != "table" {
				return fmt.Errorf("unrecognized format %q (want plain or table)", format)
			}
			return forEachFile(cmd, args, func(file string) error {
				var catalog ram.Catalog
				var err error
				if fromSource {
					// Declarations straight from the source, macro-expanded.
					// Names are unqualified in this form.
					var src string
					if src, err = souffle.Preprocess(cmd.Context(), file); err != nil {
						return err
					}
					catalog, err = souffle.ParseDeclarations(src)
				} else {
					catalog, err = loadCatalog(cmd.Context(), opts, file)
				}
				if err != nil {
					return err
				}
				if format == "table" {
					fmt.Fprint(cmd.OutOrStdout(), relationTable(catalog))
					return nil
				}
				for _, name := range catalog.Names() {
					fmt.Fprintln(cmd.OutOrStdout(), catalog[name])
				}
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&format, "format", "plain", "output format: plain or table")
	cmd.Flags().BoolVar(&fromSource, "source", false, "extract declarations from the preprocessed source instead of the transformed dump")
	return cmd
}

// relationTable renders the catalog as a markdown table, one relation per
// row.
func relationTable(catalog ram.Catalog) string {
	out := &strings.Builder{}
	table := tablewriter.NewTable(out,
		tablewriter.WithRenderer(renderer.NewMarkdown()),
		tablewriter.WithHeaderAutoFormat(tw.Off),
	)
	table.Header([]string{"Relation", "Attributes", "Arity"})

	for _, name := range catalog.Names() {
		rel := catalog[name]
		attrs := make([]string, len(rel.Attrs))
		for i, a := range rel.Attrs {
			attrs[i] = a.Name + ":" + a.Type
		}
		table.Append([]string{rel.Name, strings.Join(attrs, ", "), fmt.Sprintf("%d", len(rel.Attrs))})
	}

	table.Render()
	return out.String()
}
