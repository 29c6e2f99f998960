package models

import "sort"

// ClassifiedFileSet holds the result of one scan of a search root
type ClassifiedFileSet struct {
	// WithGeotag lists files carrying a GPS latitude, sorted ascending
	WithGeotag []string `json:"with_geotag"`

	// WithoutGeotag lists files lacking a GPS latitude, sorted ascending
	WithoutGeotag []string `json:"without_geotag"`
}

// NewClassifiedFileSet normalizes raw scan output into a ClassifiedFileSet.
// Both lists are sorted and deduplicated. A path reported by both scans is
// kept in WithGeotag only.
func NewClassifiedFileSet(withGeotag, withoutGeotag []string) ClassifiedFileSet {
	with := sortedUnique(withGeotag)

	seen := make(map[string]struct{}, len(with))
	for _, p := range with {
		seen[p] = struct{}{}
	}

	without := make([]string, 0, len(withoutGeotag))
	for _, p := range sortedUnique(withoutGeotag) {
		if _, dup := seen[p]; dup {
			continue
		}
		without = append(without, p)
	}

	return ClassifiedFileSet{
		WithGeotag:    with,
		WithoutGeotag: without,
	}
}

// Total returns the number of classified files
func (s ClassifiedFileSet) Total() int {
	return len(s.WithGeotag) + len(s.WithoutGeotag)
}

func sortedUnique(paths []string) []string {
	out := make([]string, 0, len(paths))
	out = append(out, paths...)
	sort.Strings(out)

	n := 0
	for i, p := range out {
		if i > 0 && p == out[n-1] {
			continue
		}
		out[n] = p
		n++
	}
	return out[:n]
}

// PropagationPlan describes one geotag copy: the reference photo and the
// files receiving its GPS fields. ReferencePhoto never appears in Targets.
type PropagationPlan struct {
	ReferencePhoto string   `json:"reference_photo"`
	Targets        []string `json:"targets"`
}

// PropagationResult is the outcome of executing a PropagationPlan
type PropagationResult struct {
	// FilesAttempted is the number of targets handed to the metadata tool
	FilesAttempted int `json:"files_attempted"`

	// DryRun is set when no mutation was performed
	DryRun bool `json:"dry_run"`

	// Command is the rendered command for dry runs
	Command string `json:"command,omitempty"`
}
