// Package souffle talks to the external collaborators: the Souffle compiler
// (for IR and transformed-source dumps) and the C preprocessor (for macro
// expansion), and extracts the schema catalog from transformed Datalog text.
package souffle

import (
	"context"
	"fmt"
	"os/exec"
	"path/filepath"
)

// RAMVersion selects which RAM dump the compiler emits.
type RAMVersion string

const (
	InitialRAM     RAMVersion = "initial-ram"
	TransformedRAM RAMVersion = "transformed-ram"
)

// ShowRAM invokes the compiler in show-IR mode and returns the RAM text for
// a source file. The compiler runs in the file's directory so relative
// includes and fact paths resolve the way a normal run would.
func ShowRAM(ctx context.Context, file string, version RAMVersion) (string, error) {
	return runSouffle(ctx, file, "--show="+string(version))
}

// ShowTransformed returns the transformed Datalog for a source file.
// Relation declarations carry qualified names only in this form.
func ShowTransformed(ctx context.Context, file string) (string, error) {
	return runSouffle(ctx, file, "--show=transformed-datalog")
}

func runSouffle(ctx context.Context, file string, showFlag string) (string, error) {
	dir, base := filepath.Split(file)
	if dir == "" {
		dir = "."
	}

	cmd := exec.CommandContext(ctx, "souffle", showFlag, base)
	cmd.Dir = dir
	out, err := cmd.Output()
	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			return "", &CompilerInvocationError{File: base, ExitCode: exitErr.ExitCode()}
		}
		return "", fmt.Errorf("invoking souffle on %s: %w", base, err)
	}
	return string(out), nil
}

// Preprocess runs the C preprocessor over a non-transformed source file so
// relation extraction can see through macros.
func Preprocess(ctx context.Context, file string) (string, error) {
	dir, base := filepath.Split(file)
	if dir == "" {
		dir = "."
	}

	cmd := exec.CommandContext(ctx, "cpp", base, "-o", "-")
	cmd.Dir = dir
	out, err := cmd.Output()
	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			return "", &PreprocessingError{File: base, ExitCode: exitErr.ExitCode()}
		}
		return "", fmt.Errorf("invoking preprocessor on %s: %w", base, err)
	}
	return string(out), nil
}
