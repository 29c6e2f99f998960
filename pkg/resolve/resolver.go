// Package resolve decides which photo, if any, supplies the geotag for a run.
package resolve

import (
	"path/filepath"

	"github.com/sdejongh/geotagsync/pkg/models"
)

// Resolve maps a classified set and an optional explicit reference to an
// outcome. Checks run in a fixed order:
//
//  1. an explicit reference is used verbatim
//  2. nothing lacks a geotag: no action
//  3. exactly one geotagged file: auto-select it
//  4. no geotagged file: no reference available
//  5. otherwise the choice is ambiguous
func Resolve(set models.ClassifiedFileSet, explicitRef string) models.ResolutionOutcome {
	switch {
	case explicitRef != "":
		return models.ExplicitReference(explicitRef)
	case len(set.WithoutGeotag) == 0:
		return models.NoActionNeeded()
	case len(set.WithGeotag) == 1:
		return models.AutoSelected(set.WithGeotag[0])
	case len(set.WithGeotag) == 0:
		return models.NoReferenceAvailable()
	default:
		return models.Ambiguous(len(set.WithGeotag))
	}
}

// Plan builds the propagation plan for outcomes that carry a reference. The
// targets are the files lacking a geotag, in classification order, with the
// reference itself removed. The reference is matched by file path, so
// "ref.jpg", "./ref.jpg" and its absolute form name the same file.
func Plan(outcome models.ResolutionOutcome, set models.ClassifiedFileSet) (models.PropagationPlan, bool) {
	if !outcome.HasReference() {
		return models.PropagationPlan{}, false
	}

	targets := make([]string, 0, len(set.WithoutGeotag))
	for _, p := range set.WithoutGeotag {
		if samePath(p, outcome.Reference) {
			continue
		}
		targets = append(targets, p)
	}

	return models.PropagationPlan{
		ReferencePhoto: outcome.Reference,
		Targets:        targets,
	}, true
}

func samePath(a, b string) bool {
	if a == b || filepath.Clean(a) == filepath.Clean(b) {
		return true
	}
	absA, errA := filepath.Abs(a)
	absB, errB := filepath.Abs(b)
	return errA == nil && errB == nil && absA == absB
}
