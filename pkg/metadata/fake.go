package metadata

import (
	"context"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// Stamp records one SetCaptureDate call on a Fake
type Stamp struct {
	Path string
	At   time.Time
}

// Fake is an in-memory Tool for tests. Files maps a path to whether it
// carries a geotag; CopyTags marks its targets as geotagged so repeated runs
// behave like the real overwrite-in-place tool.
type Fake struct {
	Program string

	// Files maps path -> has GPS latitude
	Files map[string]bool

	// Matches overrides query results per predicate name
	Matches map[string][]string

	// Converted lists RAW outputs that already exist
	Converted map[string]bool

	// Injected failures
	QueryErr   error
	CopyErr    error
	StampErr   error
	ConvertErr error

	mu          sync.Mutex
	queries     []Query
	copies      []CopyRequest
	stamps      []Stamp
	conversions []string
}

// NewFake creates a Fake holding files
func NewFake(files map[string]bool) *Fake {
	if files == nil {
		files = make(map[string]bool)
	}
	return &Fake{
		Program:   DefaultProgram,
		Files:     files,
		Matches:   make(map[string][]string),
		Converted: make(map[string]bool),
	}
}

// Query implements Querier. Results come back in map order, which is
// deliberately unsorted.
func (f *Fake) Query(ctx context.Context, q Query) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.queries = append(f.queries, q)
	if f.QueryErr != nil {
		return nil, f.QueryErr
	}

	if matches, ok := f.Matches[q.Predicate.Name]; ok {
		var out []string
		for _, p := range matches {
			if underRoot(q.Root, p, q.Recursive) {
				out = append(out, p)
			}
		}
		return out, nil
	}

	var out []string
	for p, geotagged := range f.Files {
		if !underRoot(q.Root, p, q.Recursive) {
			continue
		}
		switch q.Predicate.Name {
		case HasGPSLatitude.Name:
			if geotagged {
				out = append(out, p)
			}
		case LacksGPSLatitude.Name:
			if !geotagged {
				out = append(out, p)
			}
		}
	}
	return out, nil
}

// CopyCommand implements TagCopier using the ExifTool command layout
func (f *Fake) CopyCommand(req CopyRequest) Invocation {
	return NewExifTool(f.Program).CopyCommand(req)
}

// CopyTags implements TagCopier
func (f *Fake) CopyTags(ctx context.Context, req CopyRequest) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	targets := make([]string, len(req.Targets))
	copy(targets, req.Targets)
	f.copies = append(f.copies, CopyRequest{Reference: req.Reference, Targets: targets, FieldGroup: req.FieldGroup})

	if f.CopyErr != nil {
		return f.CopyErr
	}
	for _, t := range targets {
		f.Files[t] = true
	}
	return nil
}

// SetCaptureDate implements DateStamper
func (f *Fake) SetCaptureDate(ctx context.Context, path string, at time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.StampErr != nil {
		return f.StampErr
	}
	f.stamps = append(f.stamps, Stamp{Path: path, At: at})
	return nil
}

// ConvertRaw implements RawConverter
func (f *Fake) ConvertRaw(ctx context.Context, source string) (string, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	output := RawOutputPath(source)
	if f.Converted[output] {
		return output, true, nil
	}
	if f.ConvertErr != nil {
		return output, false, f.ConvertErr
	}
	f.Converted[output] = true
	f.conversions = append(f.conversions, source)
	return output, false, nil
}

// Queries returns the recorded queries
func (f *Fake) Queries() []Query {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Query(nil), f.queries...)
}

// Copies returns the recorded copy requests
func (f *Fake) Copies() []CopyRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]CopyRequest(nil), f.copies...)
}

// Stamps returns the recorded date stamps
func (f *Fake) Stamps() []Stamp {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Stamp(nil), f.stamps...)
}

// Conversions returns the RAW sources converted so far
func (f *Fake) Conversions() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.conversions...)
}

func underRoot(root, p string, recursive bool) bool {
	root = filepath.Clean(root)
	dir := filepath.Dir(filepath.Clean(p))
	if dir == root {
		return true
	}
	if !recursive {
		return false
	}
	prefix := root
	if !strings.HasSuffix(prefix, string(filepath.Separator)) {
		prefix += string(filepath.Separator)
	}
	return strings.HasPrefix(dir, prefix)
}

var _ Tool = (*Fake)(nil)
var _ Tool = (*ExifTool)(nil)
