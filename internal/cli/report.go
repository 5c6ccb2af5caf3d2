package cli

import (
	"fmt"
	"io"
	"sync"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/ramlens/ramlens/ram"
	"github.com/ramlens/ramlens/ram/analysis"
	"github.com/ramlens/ramlens/ram/render"
	"github.com/ramlens/ramlens/ram/simplify"
	"github.com/ramlens/ramlens/souffle"
)

// NewReportCommand creates the report command: relations, indexes and both
// plan notations for each input program in one pass. The three analyses
// share the immutable tree and catalog, so they run concurrently; each one
// owns its own traversal state.
func NewReportCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "report <file>...",
		Short: "Full diagnostic report for the input programs",
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
				return writeReport(cmd.OutOrStdout(), prog, catalog)
			})
		},
	}
}

func writeReport(w io.Writer, prog *ram.Program, catalog ram.Catalog) error {
	simplified := simplify.Simplify(prog)

	var (
		wg       sync.WaitGroup
		indexes  map[string][]analysis.BTreeIndex
		pyDoc    *render.Document
		setDoc   *render.Document
		indexErr error
		pyErr    error
		setErr   error
	)

	wg.Add(3)
	go func() {
		defer wg.Done()
		indexes, indexErr = analysis.Infer(prog, catalog)
	}()
	go func() {
		defer wg.Done()
		pyDoc, pyErr = render.New(render.PythonNotation{}, catalog).Render(simplified)
	}()
	go func() {
		defer wg.Done()
		setDoc, setErr = render.New(render.SetNotation{}, catalog).Render(simplified)
	}()
	wg.Wait()

	for _, err := range []error{indexErr, pyErr, setErr} {
		if err != nil {
			return err
		}
	}

	heading := color.New(color.FgCyan, color.Bold)
	fmt.Fprintln(w, heading.Sprint("== Relations =="))
	for _, name := range catalog.Names() {
		fmt.Fprintln(w, catalog[name])
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, heading.Sprint("== Indexes =="))
	writeIndexes(w, indexes)

	fmt.Fprintln(w)
	fmt.Fprintln(w, heading.Sprint("== Plan (Python notation) =="))
	fmt.Fprint(w, pyDoc)

	fmt.Fprintln(w)
	fmt.Fprintln(w, heading.Sprint("== Plan (set notation) =="))
	fmt.Fprint(w, setDoc)
	return nil
}
