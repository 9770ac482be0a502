// Package classify assigns a claim-type label, confidence, and handling
// priority to claim text. The default backend is a naive Bayes model trained
// from the configured samples; LLM backends are available for deployments
// that want them. All backends honour the same contract: confidence is 0
// whenever no claim type could be assigned, and priority is always derived
// from the keyword rule, never from confidence.
package classify

import (
	"context"
	"strings"

	"github.com/akarpov/claimroute/internal/model"
)

// Classifier labels claim text
type Classifier interface {
	// Name returns the backend name
	Name() string

	// Classify assigns a claim type to the text. A failure to classify is
	// returned as an error with a zero Classification, never a panic.
	Classify(ctx context.Context, text string) (model.Classification, error)
}

// highPriorityKeywords escalate a claim to High priority when any of them
// appears in the claim text (case-insensitive substring match)
var highPriorityKeywords = []string{"major", "fire", "totaled", "emergency", "collision"}

// PriorityFor derives handling priority from claim text
func PriorityFor(text string) model.Priority {
	lower := strings.ToLower(text)
	for _, kw := range highPriorityKeywords {
		if strings.Contains(lower, kw) {
			return model.PriorityHigh
		}
	}
	return model.PriorityMedium
}
