package classify

import (
	"fmt"
	"strings"

	"golang.org/x/time/rate"

	"github.com/akarpov/claimroute/internal/model"
)

// New builds the configured classifier backend. The model is constructed
// exactly once here and handed to the pipeline; nothing lazily initialises a
// shared classifier later.
func New(cfg *model.Config) (Classifier, error) {
	provider := strings.ToLower(cfg.Classifier.Provider)

	switch provider {
	case "", "bayes":
		return NewBayesClassifier(cfg.TrainingData)

	case "openai":
		return NewOpenAIClassifier(cfg.Classifier, cfg.Labels(), newLimiter(cfg.RateLimiting))

	case "ollama":
		return NewOllamaClassifier(cfg.Classifier, cfg.Labels(), newLimiter(cfg.RateLimiting))

	default:
		return nil, fmt.Errorf("unknown classification provider: %s (supported: bayes, openai, ollama)", cfg.Classifier.Provider)
	}
}

// newLimiter throttles outbound provider requests
func newLimiter(cfg model.RateLimitConfig) *rate.Limiter {
	rps := cfg.RequestsPerSecond
	if rps <= 0 {
		rps = 2
	}
	burst := cfg.BurstSize
	if burst <= 0 {
		burst = 5
	}
	return rate.NewLimiter(rate.Limit(rps), burst)
}
