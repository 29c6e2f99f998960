package metadata

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/sdejongh/geotagsync/pkg/models"
)

// DefaultProgram is the ExifTool binary looked up in PATH
const DefaultProgram = "exiftool"

// captureDateLayout is the EXIF timestamp layout
const captureDateLayout = "2006:01:02 15:04:05"

// exitConditionFailed is returned by ExifTool when every file failed -if
const exitConditionFailed = 2

// rawOutputExt is the extension of files produced by ConvertRaw
const rawOutputExt = ".jpg"

// ExifTool implements Tool on top of the exiftool command-line program
type ExifTool struct {
	program string
	runner  Runner
	timeout time.Duration
}

// Option configures an ExifTool
type Option func(*ExifTool)

// WithRunner replaces the subprocess runner, mainly for tests
func WithRunner(r Runner) Option {
	return func(e *ExifTool) {
		e.runner = r
	}
}

// WithTimeout bounds every tool run (0 = no limit)
func WithTimeout(d time.Duration) Option {
	return func(e *ExifTool) {
		e.timeout = d
	}
}

// NewExifTool creates an ExifTool using program (DefaultProgram when empty)
func NewExifTool(program string, opts ...Option) *ExifTool {
	if program == "" {
		program = DefaultProgram
	}

	e := &ExifTool{
		program: program,
		runner:  ExecRunner{},
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Program returns the configured binary
func (e *ExifTool) Program() string {
	return e.program
}

// Version returns the version reported by the tool
func (e *ExifTool) Version(ctx context.Context) (string, error) {
	inv := Invocation{Program: e.program, Args: []string{"-ver"}}

	result, err := e.run(ctx, "version", inv)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(result.Stdout), nil
}

// QueryCommand returns the invocation used by Query
func (e *ExifTool) QueryCommand(q Query) Invocation {
	field := q.OutputField
	if field == "" {
		field = DefaultOutputField
	}

	args := []string{"-q"}
	if q.Recursive {
		args = append(args, "-r")
	}
	args = append(args, "-if", q.Predicate.Condition, "-p", field)
	for _, ext := range q.Predicate.ExcludeExtensions {
		args = append(args, "--ext", ext)
	}
	args = append(args, operand(q.Root))

	return Invocation{Program: e.program, Args: args}
}

// Query implements Querier
func (e *ExifTool) Query(ctx context.Context, q Query) ([]string, error) {
	inv := e.QueryCommand(q)

	result, err := e.invoke(ctx, inv)
	if err != nil {
		return nil, invocationError("query", result, err)
	}

	switch {
	case result.ExitCode == 0:
	case result.ExitCode == exitConditionFailed:
		// Every file failed the condition: nothing matches
		return []string{}, nil
	case isNoMatch(result.Stderr):
		return []string{}, nil
	default:
		return nil, invocationError("query", result, nil)
	}

	return splitLines(result.Stdout), nil
}

// CopyCommand implements TagCopier. Targets travel on stdin through the
// argfile reader ("-@ -"), one path per line.
func (e *ExifTool) CopyCommand(req CopyRequest) Invocation {
	group := req.FieldGroup
	if group == "" {
		group = DefaultFieldGroup
	}

	stdin := make([]string, 0, len(req.Targets))
	for _, target := range req.Targets {
		stdin = append(stdin, argfileLine(target))
	}

	return Invocation{
		Program: e.program,
		Args: []string{
			"-overwrite_original",
			"-tagsFromFile", operand(req.Reference),
			"-" + group,
			"-@", "-",
		},
		Stdin: stdin,
	}
}

// CopyTags implements TagCopier
func (e *ExifTool) CopyTags(ctx context.Context, req CopyRequest) error {
	if len(req.Targets) == 0 {
		return nil
	}

	for _, p := range append([]string{req.Reference}, req.Targets...) {
		if strings.ContainsAny(p, "\n\r") {
			return &models.ToolInvocationError{
				Op:  "copy",
				Err: fmt.Errorf("path contains a line break: %q", p),
			}
		}
	}

	_, err := e.run(ctx, "copy", e.CopyCommand(req))
	return err
}

// SetCaptureDate implements DateStamper
func (e *ExifTool) SetCaptureDate(ctx context.Context, path string, at time.Time) error {
	inv := Invocation{
		Program: e.program,
		Args: []string{
			"-overwrite_original",
			"-AllDates=" + at.Format(captureDateLayout),
			operand(path),
		},
	}

	_, err := e.run(ctx, "set-date", inv)
	return err
}

// RawOutputPath returns the JPEG path ConvertRaw produces for source
func RawOutputPath(source string) string {
	return strings.TrimSuffix(source, filepath.Ext(source)) + rawOutputExt
}

// ConvertRaw implements RawConverter by extracting the embedded full-size JPEG
func (e *ExifTool) ConvertRaw(ctx context.Context, source string) (string, bool, error) {
	output := RawOutputPath(source)

	if _, err := os.Stat(output); err == nil {
		return output, true, nil
	} else if !os.IsNotExist(err) {
		return output, false, fmt.Errorf("failed to check output %s: %w", output, err)
	}

	inv := Invocation{
		Program: e.program,
		Args:    []string{"-b", "-JpgFromRaw", "-w", "%d%f" + rawOutputExt, operand(source)},
	}
	if _, err := e.run(ctx, "convert", inv); err != nil {
		return output, false, err
	}

	if _, err := os.Stat(output); err != nil {
		return output, false, &models.ToolInvocationError{
			Op:  "convert",
			Err: fmt.Errorf("no embedded JPEG written for %s", source),
		}
	}

	return output, false, nil
}

// invoke runs inv under the configured timeout
func (e *ExifTool) invoke(ctx context.Context, inv Invocation) (*Result, error) {
	if e.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.timeout)
		defer cancel()
	}
	return e.runner.Run(ctx, inv)
}

// run executes inv and treats any non-zero exit status as a failure
func (e *ExifTool) run(ctx context.Context, op string, inv Invocation) (*Result, error) {
	result, err := e.invoke(ctx, inv)
	if err != nil {
		return result, invocationError(op, result, err)
	}
	if result.ExitCode != 0 {
		return result, invocationError(op, result, nil)
	}
	return result, nil
}

func invocationError(op string, result *Result, err error) error {
	tie := &models.ToolInvocationError{Op: op, Err: err}
	if result != nil {
		tie.ExitCode = result.ExitCode
		tie.Stderr = result.Stderr
	}
	if errors.Is(err, os.ErrNotExist) || errors.Is(err, exec.ErrNotFound) {
		tie.Err = fmt.Errorf("metadata tool not found: %w", err)
	}
	return tie
}

// isNoMatch reports diagnostics meaning "nothing to scan" rather than failure
func isNoMatch(stderr string) bool {
	s := strings.ToLower(stderr)
	return strings.Contains(s, "no matching files") || strings.Contains(s, "file not found")
}

func splitLines(s string) []string {
	lines := strings.Split(s, "\n")
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		line = strings.TrimSuffix(line, "\r")
		if line == "" {
			continue
		}
		out = append(out, line)
	}
	return out
}

// operand keeps a relative path from being parsed as an option
func operand(p string) string {
	if strings.HasPrefix(p, "-") {
		return "./" + p
	}
	return p
}

// argfileLine keeps a relative path from being read as an argfile comment or
// losing leading whitespace
func argfileLine(p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	switch p[0] {
	case '#', ' ', '\t', '-':
		return "./" + p
	}
	return p
}
