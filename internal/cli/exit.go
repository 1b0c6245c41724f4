package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
)

// Exit codes.
const (
	// ExitSuccess indicates the command completed successfully.
	ExitSuccess = 0

	// ExitGeneralError indicates an unspecified error or a failed creation.
	ExitGeneralError = 1

	// ExitInvalidParameters indicates invalid template options.
	ExitInvalidParameters = 2

	// ExitNoMatch indicates no template matched the query.
	ExitNoMatch = 3

	// ExitAmbiguous indicates several templates matched the query.
	ExitAmbiguous = 4

	// ExitOverwrite indicates creation was blocked by existing files.
	ExitOverwrite = 5

	// ExitCancelled indicates the user interrupted the command.
	ExitCancelled = 130
)

// ExitError carries an exit code. Printed is set when the command already
// wrote its diagnostic.
type ExitError struct {
	Code    int
	Err     error
	Printed bool
}

func (e *ExitError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("exit status %d", e.Code)
	}
	return e.Err.Error()
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// printed wraps err with code after the diagnostic has been written.
func printed(code int, err error) error {
	return &ExitError{Code: code, Err: err, Printed: true}
}

// exitCode maps an error returned by the command tree to a process exit code
// and prints it unless it was already reported.
func exitCode(w io.Writer, err error) int {
	if err == nil {
		return ExitSuccess
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		if !exitErr.Printed {
			fmt.Fprintf(w, "Error: %v\n", err)
		}
		return exitErr.Code
	}
	if errors.Is(err, context.Canceled) {
		return ExitCancelled
	}
	fmt.Fprintf(w, "Error: %v\n", err)
	return ExitGeneralError
}
