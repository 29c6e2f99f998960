package cli

import (
	"errors"
	"fmt"

	"github.com/sdejongh/geotagsync/pkg/models"
)

// Process exit codes
const (
	ExitOK      = 0
	ExitFailure = 1
	ExitUsage   = 2
)

// ExitCode maps an error returned by a command to the process status.
// Usage errors exit 2, anything else 1.
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}
	var ae *models.ArgumentError
	if errors.As(err, &ae) {
		return ExitUsage
	}
	return ExitFailure
}

// reportedError marks an error the formatter has already shown
type reportedError struct {
	err error
}

func (e *reportedError) Error() string { return e.err.Error() }
func (e *reportedError) Unwrap() error { return e.err }

func argumentErrorf(format string, args ...interface{}) error {
	return &models.ArgumentError{Message: fmt.Sprintf(format, args...)}
}
