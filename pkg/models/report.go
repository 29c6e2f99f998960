package models

import (
	"time"
)

// RunReport represents the results of a propagation run
type RunReport struct {
	// Run details
	RunID      string
	SearchPath string
	DryRun     bool

	// Timing
	StartTime time.Time
	EndTime   time.Time
	Duration  time.Duration

	// Files is the classification the decision was based on
	Files ClassifiedFileSet

	// Outcome is the resolver decision
	Outcome ResolutionOutcome

	// Plan is set when a reference was resolved
	Plan *PropagationPlan

	// Result is set when the executor ran
	Result *PropagationResult

	// Overall status
	Status RunStatus
}

// RunStatus represents the overall result
type RunStatus string

const (
	// StatusSuccess indicates geotags were propagated (or would be, in a dry run)
	StatusSuccess RunStatus = "success"
	// StatusNoAction indicates every file already had a geotag
	StatusNoAction RunStatus = "no_action"
	// StatusAmbiguous indicates the user must choose a reference
	StatusAmbiguous RunStatus = "ambiguous"
	// StatusNoReference indicates no geotagged file was found
	StatusNoReference RunStatus = "no_reference"
	// StatusFailed indicates the run aborted
	StatusFailed RunStatus = "failed"
)

// StatusFor maps a resolver outcome to the status of a completed run
func StatusFor(outcome ResolutionOutcome) RunStatus {
	switch outcome.Kind {
	case OutcomeNoActionNeeded:
		return StatusNoAction
	case OutcomeAmbiguous:
		return StatusAmbiguous
	case OutcomeNoReferenceAvailable:
		return StatusNoReference
	default:
		return StatusSuccess
	}
}
