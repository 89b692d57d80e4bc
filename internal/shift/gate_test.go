package shift

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEvaluateOpening(t *testing.T) {
	required := []string{"counter-a", "counter-b", "safe"}

	entries := []EntryEvidence{
		{Category: "counter-a", Opening: EvidenceAt("https://img/1.jpg")},
		{Category: "safe", Opening: NoEvidence()},
	}

	result := Evaluate(PhaseOpening, required, entries, 0)
	assert.False(t, result.Ready)
	assert.Equal(t, []string{"counter-b", "safe"}, result.Missing)
	assert.Zero(t, result.PendingTransactions)

	entries = append(entries, EntryEvidence{Category: "counter-b", Opening: EvidenceAt("https://img/2.jpg")})
	entries[1].Opening = EvidenceAt("https://img/3.jpg")

	result = Evaluate(PhaseOpening, required, entries, 0)
	assert.True(t, result.Ready)
	assert.Empty(t, result.Missing)
}

func TestEvaluateClosingRequiresClosingEvidence(t *testing.T) {
	required := []string{"counter-a"}

	// Opening evidence alone does not satisfy the closing phase.
	entries := []EntryEvidence{
		{Category: "counter-a", Opening: EvidenceAt("https://img/1.jpg")},
	}

	result := Evaluate(PhaseClosing, required, entries, 0)
	assert.False(t, result.Ready)
	assert.Equal(t, []string{"counter-a"}, result.Missing)

	entries[0].Closing = EvidenceAt("https://img/2.jpg")
	result = Evaluate(PhaseClosing, required, entries, 0)
	assert.True(t, result.Ready)
}

func TestEvaluateClosingPendingTransactions(t *testing.T) {
	required := []string{"counter-a"}
	entries := []EntryEvidence{
		{Category: "counter-a", Closing: EvidenceAt("https://img/1.jpg")},
	}

	// All evidence present but one unconfirmed transaction: not ready, and
	// the two failure kinds are reported separately.
	result := Evaluate(PhaseClosing, required, entries, 1)
	assert.False(t, result.Ready)
	assert.Empty(t, result.Missing)
	assert.Equal(t, 1, result.PendingTransactions)

	result = Evaluate(PhaseClosing, required, entries, 0)
	assert.True(t, result.Ready)
}

func TestEvaluateOpeningIgnoresPendingTransactions(t *testing.T) {
	required := []string{"counter-a"}
	entries := []EntryEvidence{
		{Category: "counter-a", Opening: EvidenceAt("https://img/1.jpg")},
	}

	result := Evaluate(PhaseOpening, required, entries, 3)
	assert.True(t, result.Ready)
	assert.Zero(t, result.PendingTransactions)
}

func TestEvaluateIdempotent(t *testing.T) {
	required := []string{"b", "a", "c"}
	entries := []EntryEvidence{
		{Category: "c", Opening: EvidenceAt("https://img/1.jpg")},
	}

	first := Evaluate(PhaseOpening, required, entries, 0)
	second := Evaluate(PhaseOpening, required, entries, 0)
	assert.Equal(t, first, second)
	assert.Equal(t, []string{"a", "b"}, first.Missing)
}

func TestEvaluateRandomSubsets(t *testing.T) {
	// Ready iff every required category carries evidence for the phase.
	rng := rand.New(rand.NewSource(42))

	for trial := 0; trial < 200; trial++ {
		n := 1 + rng.Intn(8)
		required := make([]string, n)
		for i := range required {
			required[i] = fmt.Sprintf("cat-%02d", i)
		}

		var entries []EntryEvidence
		covered := make(map[string]bool)
		for i, category := range required {
			switch rng.Intn(3) {
			case 0:
				// no entry at all
			case 1:
				entries = append(entries, EntryEvidence{Category: category})
			case 2:
				entries = append(entries, EntryEvidence{
					Category: category,
					Closing:  EvidenceAt(fmt.Sprintf("https://img/%d.jpg", i)),
				})
				covered[category] = true
			}
		}

		result := Evaluate(PhaseClosing, required, entries, 0)
		assert.Equal(t, len(covered) == len(required), result.Ready)
		assert.Len(t, result.Missing, len(required)-len(covered))
		for _, missing := range result.Missing {
			assert.False(t, covered[missing])
		}
	}
}

func TestEvidenceFrom(t *testing.T) {
	assert.False(t, EvidenceFrom(nil).Present())

	empty := ""
	assert.False(t, EvidenceFrom(&empty).Present())

	url := "https://img/1.jpg"
	ev := EvidenceFrom(&url)
	assert.True(t, ev.Present())
	assert.Equal(t, url, ev.URL())
}
