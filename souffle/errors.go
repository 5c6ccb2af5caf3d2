package souffle

import "fmt"

// CompilerInvocationError reports a failed souffle subprocess while
// extracting the IR or the transformed source.
type CompilerInvocationError struct {
	File     string
	ExitCode int
}

func (e *CompilerInvocationError) Error() string {
	return fmt.Sprintf("souffle process failed on source file %s: exit code %d", e.File, e.ExitCode)
}

// PreprocessingError reports a failed macro-expansion subprocess.
type PreprocessingError struct {
	File     string
	ExitCode int
}

func (e *PreprocessingError) Error() string {
	return fmt.Sprintf("preprocessor failed on source file %s: exit code %d", e.File, e.ExitCode)
}
