// Package cli wires the analysis passes into the ramlens command tree.
package cli

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

// RootOptions holds flags shared by every subcommand.
type RootOptions struct {
	Verbose bool

	// IRFile and DeclsFile bypass the compiler invocation and read the RAM
	// dump / transformed Datalog from files instead. Single-file mode only.
	IRFile    string
	DeclsFile string
}

// NewRootCommand builds the ramlens command tree.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "ramlens",
		Short: "Inspect Souffle's compiled evaluation plans",
		Long: `ramlens parses the RAM intermediate representation the Souffle compiler
emits for a Datalog program and answers three questions about it: which
relation schemas the program uses, which secondary indexes the compiler
plans to build, and what the compiled evaluation plan actually does.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := slog.LevelWarn
			if opts.Verbose {
				level = slog.LevelDebug
			}
			handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
			slog.SetDefault(slog.New(handler))
		},
	}

	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "enable debug logging")
	cmd.PersistentFlags().StringVar(&opts.IRFile, "ir", "", "read the RAM dump from a file instead of invoking souffle")
	cmd.PersistentFlags().StringVar(&opts.DeclsFile, "decls", "", "read transformed Datalog from a file instead of invoking souffle")

	cmd.AddCommand(
		NewParseCommand(opts),
		NewRelationsCommand(opts),
		NewIndexesCommand(opts),
		NewExplainCommand(opts),
		NewPlanCommand(opts),
		NewReportCommand(opts),
	)
	return cmd
}

// forEachFile runs fn per input program. One program's failure is reported
// and does not abort the others; the summary error makes the process exit
// non-zero when anything failed.
func forEachFile(cmd *cobra.Command, files []string, fn func(file string) error) error {
	failed := 0
	for _, file := range files {
		if err := fn(file); err != nil {
			failed++
			fmt.Fprintf(cmd.ErrOrStderr(), "%s: %v\n", file, err)
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d programs failed", failed, len(files))
	}
	return nil
}
