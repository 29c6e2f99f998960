package models

// OutcomeKind identifies how a reference photo was (or was not) chosen
type OutcomeKind string

const (
	// OutcomeNoActionNeeded indicates every file already carries a geotag
	OutcomeNoActionNeeded OutcomeKind = "no_action_needed"
	// OutcomeAutoSelected indicates the only geotagged file was picked
	OutcomeAutoSelected OutcomeKind = "auto_selected"
	// OutcomeAmbiguous indicates several geotagged candidates exist
	OutcomeAmbiguous OutcomeKind = "ambiguous"
	// OutcomeNoReferenceAvailable indicates no geotagged file exists
	OutcomeNoReferenceAvailable OutcomeKind = "no_reference_available"
	// OutcomeExplicitReference indicates the user named the reference
	OutcomeExplicitReference OutcomeKind = "explicit_reference"
)

// ResolutionOutcome is the decision taken by the resolver for one run
type ResolutionOutcome struct {
	Kind OutcomeKind `json:"kind"`

	// Reference is set for OutcomeAutoSelected and OutcomeExplicitReference
	Reference string `json:"reference,omitempty"`

	// CandidateCount is set for OutcomeAmbiguous
	CandidateCount int `json:"candidate_count,omitempty"`
}

// NoActionNeeded returns the outcome for a fully geotagged tree
func NoActionNeeded() ResolutionOutcome {
	return ResolutionOutcome{Kind: OutcomeNoActionNeeded}
}

// AutoSelected returns the outcome for a single geotagged candidate
func AutoSelected(reference string) ResolutionOutcome {
	return ResolutionOutcome{Kind: OutcomeAutoSelected, Reference: reference}
}

// Ambiguous returns the outcome for several geotagged candidates
func Ambiguous(count int) ResolutionOutcome {
	return ResolutionOutcome{Kind: OutcomeAmbiguous, CandidateCount: count}
}

// NoReferenceAvailable returns the outcome when nothing carries a geotag
func NoReferenceAvailable() ResolutionOutcome {
	return ResolutionOutcome{Kind: OutcomeNoReferenceAvailable}
}

// ExplicitReference returns the outcome for a user-supplied reference
func ExplicitReference(reference string) ResolutionOutcome {
	return ResolutionOutcome{Kind: OutcomeExplicitReference, Reference: reference}
}

// HasReference reports whether propagation can proceed
func (o ResolutionOutcome) HasReference() bool {
	return o.Kind == OutcomeAutoSelected || o.Kind == OutcomeExplicitReference
}

// Err returns guidance for outcomes the user has to act on. It is nil for
// every outcome except OutcomeAmbiguous.
func (o ResolutionOutcome) Err() error {
	if o.Kind == OutcomeAmbiguous {
		return &AmbiguousReferenceError{Candidates: o.CandidateCount}
	}
	return nil
}
