// Package metadata wraps the external image metadata tool. Every read and
// write of image metadata goes through the interfaces defined here; the
// package never decodes image files itself.
package metadata

import (
	"context"
	"fmt"
	"time"
)

// DefaultOutputField is the per-file output format used by queries
const DefaultOutputField = "$Directory/$FileName"

// DefaultFieldGroup is the tag group copied from the reference photo
const DefaultFieldGroup = "gps:all"

// Predicate selects files by a metadata condition
type Predicate struct {
	// Name identifies the predicate in logs and test doubles
	Name string

	// Condition is the tool-side expression, e.g. "$GPSLatitude"
	Condition string

	// ExcludeExtensions lists extensions (without dot) the query skips
	ExcludeExtensions []string
}

var (
	// HasGPSLatitude matches files carrying a GPS latitude
	HasGPSLatitude = Predicate{Name: "has-gps-latitude", Condition: "$GPSLatitude"}

	// LacksGPSLatitude matches files without a GPS latitude
	LacksGPSLatitude = Predicate{Name: "lacks-gps-latitude", Condition: "not $GPSLatitude"}
)

// CaptureYearMismatch matches files whose first available capture timestamp
// (DateTimeOriginal, then CreateDate, then ModifyDate) is missing or does not
// fall in year. RAW .cr2 files are skipped.
func CaptureYearMismatch(year int) Predicate {
	return Predicate{
		Name:              fmt.Sprintf("capture-year-mismatch-%04d", year),
		Condition:         fmt.Sprintf("not (($DateTimeOriginal or $CreateDate or $ModifyDate) =~ /^%04d/)", year),
		ExcludeExtensions: []string{"cr2"},
	}
}

// Query describes one scan of a directory tree
type Query struct {
	Root        string
	Predicate   Predicate
	Recursive   bool
	OutputField string // defaults to DefaultOutputField
}

// CopyRequest describes a batch tag copy from one reference into targets.
// Targets are overwritten in place.
type CopyRequest struct {
	Reference  string
	Targets    []string
	FieldGroup string // defaults to DefaultFieldGroup
}

// Querier lists files matching a predicate
type Querier interface {
	// Query returns one path per matching file, in tool order
	Query(ctx context.Context, q Query) ([]string, error)
}

// TagCopier copies tag groups between files
type TagCopier interface {
	// CopyTags performs the copy with a single tool invocation
	CopyTags(ctx context.Context, req CopyRequest) error

	// CopyCommand returns the exact invocation CopyTags would run
	CopyCommand(req CopyRequest) Invocation
}

// DateStamper sets capture timestamps
type DateStamper interface {
	// SetCaptureDate overwrites the canonical capture-date fields of path
	SetCaptureDate(ctx context.Context, path string, at time.Time) error
}

// RawConverter extracts JPEGs from RAW files
type RawConverter interface {
	// ConvertRaw writes a JPEG with the same base name next to source.
	// When the output already exists nothing is written and skipped is true.
	ConvertRaw(ctx context.Context, source string) (output string, skipped bool, err error)
}

// Tool is the full metadata tool surface
type Tool interface {
	Querier
	TagCopier
	DateStamper
	RawConverter
}
