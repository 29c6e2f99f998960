// Package output renders run progress and results for humans or scripts.
package output

import (
	"fmt"
	"io"
	"os"

	"github.com/sdejongh/geotagsync/pkg/models"
)

// Formatter defines the interface for output formatting
type Formatter interface {
	// Start begins output for a run
	Start(w io.Writer, report *models.RunReport) error

	// Classified reports both file lists before any decision is made
	Classified(set models.ClassifiedFileSet) error

	// Complete displays the decision and, when one ran, the propagation
	Complete(report *models.RunReport) error

	// Error reports a run that aborted
	Error(err error) error

	// Name returns the formatter name
	Name() string
}

// Options tunes formatter output
type Options struct {
	Color bool
	// Quiet suppresses everything but the final summary and errors
	Quiet bool
	// ErrWriter receives errors from the human formatter (os.Stderr when nil)
	ErrWriter io.Writer
}

// New returns the formatter registered under format
func New(format string, opts Options) (Formatter, error) {
	switch format {
	case "human", "":
		return NewHumanFormatter(opts), nil
	case "json":
		return NewJSONFormatter(), nil
	default:
		return nil, fmt.Errorf("unknown output format: %s (must be human or json)", format)
	}
}

func stdoutIfNil(w io.Writer) io.Writer {
	if w == nil {
		return os.Stdout
	}
	return w
}
