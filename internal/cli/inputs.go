package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/ramlens/ramlens/ram"
	"github.com/ramlens/ramlens/ram/parser"
	"github.com/ramlens/ramlens/souffle"
)

// loadProgram obtains and parses the RAM dump for a source file.
func loadProgram(ctx context.Context, opts *RootOptions, file string, version souffle.RAMVersion) (*ram.Program, error) {
	var src string
	var err error
	if opts.IRFile != "" {
		slog.Debug("reading RAM dump", "path", opts.IRFile)
		var raw []byte
		if raw, err = os.ReadFile(opts.IRFile); err != nil {
			return nil, fmt.Errorf("reading RAM dump: %w", err)
		}
		src = string(raw)
	} else {
		slog.Debug("invoking souffle for RAM dump", "file", file, "version", version)
		if src, err = souffle.ShowRAM(ctx, file, version); err != nil {
			return nil, err
		}
	}
	return parser.Parse(src)
}

// loadCatalog obtains the schema catalog for a source file from its
// transformed Datalog, where relation declarations carry qualified names.
func loadCatalog(ctx context.Context, opts *RootOptions, file string) (ram.Catalog, error) {
	var src string
	var err error
	if opts.DeclsFile != "" {
		slog.Debug("reading transformed Datalog", "path", opts.DeclsFile)
		var raw []byte
		if raw, err = os.ReadFile(opts.DeclsFile); err != nil {
			return nil, fmt.Errorf("reading transformed Datalog: %w", err)
		}
		src = string(raw)
	} else {
		slog.Debug("invoking souffle for transformed Datalog", "file", file)
		if src, err = souffle.ShowTransformed(ctx, file); err != nil {
			return nil, err
		}
	}
	return souffle.ParseDeclarations(src)
}

// requireSingleFile guards commands whose bypass flags only make sense for
// one program at a time.
func requireSingleFile(opts *RootOptions, files []string) error {
	if len(files) > 1 && (opts.IRFile != "" || opts.DeclsFile != "") {
		return fmt.Errorf("--ir and --decls apply to a single input program")
	}
	return nil
}
