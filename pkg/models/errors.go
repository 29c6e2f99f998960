package models

import (
	"fmt"
	"strings"
)

// InvalidPathError reports a missing or unusable search root
type InvalidPathError struct {
	Path   string
	Reason string
}

func (e *InvalidPathError) Error() string {
	return fmt.Sprintf("invalid path %q: %s", e.Path, e.Reason)
}

// ArgumentError reports bad command-line usage
type ArgumentError struct {
	Message string
}

func (e *ArgumentError) Error() string {
	return e.Message
}

// ToolInvocationError reports a failure of the external metadata tool:
// binary missing, crash, timeout or an unexpected exit status.
type ToolInvocationError struct {
	Op       string
	ExitCode int
	Stderr   string
	Err      error
}

func (e *ToolInvocationError) Error() string {
	var b strings.Builder
	b.WriteString("metadata tool ")
	b.WriteString(e.Op)
	b.WriteString(" failed")
	if e.ExitCode > 0 {
		fmt.Fprintf(&b, " (exit status %d)", e.ExitCode)
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	if stderr := strings.TrimSpace(e.Stderr); stderr != "" {
		b.WriteString(": ")
		b.WriteString(stderr)
	}
	return b.String()
}

func (e *ToolInvocationError) Unwrap() error {
	return e.Err
}

// AmbiguousReferenceError is guidance rather than a failure: several files
// could serve as the reference and the user has to pick one.
type AmbiguousReferenceError struct {
	Candidates int
}

func (e *AmbiguousReferenceError) Error() string {
	return fmt.Sprintf("found %d geotagged files; specify which one to use as the reference photo", e.Candidates)
}
