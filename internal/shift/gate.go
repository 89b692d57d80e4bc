package shift

import "sort"

// Phase identifies which side of the session the gate is checking.
type Phase string

const (
	PhaseOpening Phase = "opening"
	PhaseClosing Phase = "closing"
)

// Evidence is a tagged variant: either a present image reference or absent.
// Modeling it this way keeps the gate exhaustive instead of threading
// nullable strings through the decision logic.
type Evidence struct {
	url     string
	present bool
}

// EvidenceAt wraps a stored image reference.
func EvidenceAt(url string) Evidence {
	return Evidence{url: url, present: true}
}

// NoEvidence is the absent variant.
func NoEvidence() Evidence {
	return Evidence{}
}

// EvidenceFrom converts a nullable stored reference into the variant form.
func EvidenceFrom(url *string) Evidence {
	if url == nil || *url == "" {
		return NoEvidence()
	}
	return EvidenceAt(*url)
}

// Present reports whether an image reference exists.
func (e Evidence) Present() bool { return e.present }

// URL returns the image reference; empty when absent.
func (e Evidence) URL() string { return e.url }

// EntryEvidence is the gate's view of one ledger row: which category it
// covers and whether each phase has an image attached.
type EntryEvidence struct {
	Category string
	Opening  Evidence
	Closing  Evidence
}

// GateResult is the outcome of a readiness check. Missing is sorted so
// repeated evaluations over the same state are identical.
type GateResult struct {
	Ready               bool
	Missing             []string
	PendingTransactions int
}

// Evaluate decides whether the given phase transition is currently permitted.
//
// A required category is satisfied when its entry carries evidence for the
// phase being checked. For the closing phase the gate additionally requires
// zero pending exempt-category transactions; that count is reported
// separately from the missing-evidence list because the caller reacts to the
// two differently.
func Evaluate(phase Phase, required []string, entries []EntryEvidence, pendingTransactions int) GateResult {
	byCategory := make(map[string]EntryEvidence, len(entries))
	for _, e := range entries {
		byCategory[e.Category] = e
	}

	var missing []string
	for _, category := range required {
		entry, ok := byCategory[category]
		if !ok {
			missing = append(missing, category)
			continue
		}

		satisfied := false
		switch phase {
		case PhaseOpening:
			satisfied = entry.Opening.Present()
		case PhaseClosing:
			satisfied = entry.Closing.Present()
		}
		if !satisfied {
			missing = append(missing, category)
		}
	}
	sort.Strings(missing)

	result := GateResult{Missing: missing}
	if phase == PhaseClosing {
		result.PendingTransactions = pendingTransactions
	}
	result.Ready = len(missing) == 0 && result.PendingTransactions == 0
	return result
}
