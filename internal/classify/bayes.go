package classify

import (
	"context"
	"fmt"
	"math"
	"strings"
	"unicode"

	"github.com/akarpov/claimroute/internal/model"
)

// BayesClassifier is a multinomial naive Bayes text classifier with add-one
// smoothing, trained once at startup from the configured samples. Training
// and classification are deterministic; the trained model is read-only and
// safe for concurrent use.
type BayesClassifier struct {
	labels     []string
	docCount   map[string]int
	wordCount  map[string]map[string]int
	totalWords map[string]int
	vocabSize  int
	totalDocs  int
}

// NewBayesClassifier trains a classifier from labelled samples. Fewer than
// two samples or two distinct labels cannot produce a usable model and fail
// construction; the caller treats that as startup-fatal.
func NewBayesClassifier(samples []model.TrainingSample) (*BayesClassifier, error) {
	if len(samples) < 2 {
		return nil, fmt.Errorf("training data must contain at least 2 samples, got %d", len(samples))
	}

	c := &BayesClassifier{
		docCount:   make(map[string]int),
		wordCount:  make(map[string]map[string]int),
		totalWords: make(map[string]int),
	}

	vocab := make(map[string]bool)
	for _, s := range samples {
		tokens := tokenize(s.Description)
		if len(tokens) == 0 {
			return nil, fmt.Errorf("training sample %q has no usable tokens", s.Description)
		}

		if c.docCount[s.ClaimType] == 0 {
			c.labels = append(c.labels, s.ClaimType)
			c.wordCount[s.ClaimType] = make(map[string]int)
		}
		c.docCount[s.ClaimType]++
		c.totalDocs++

		for _, tok := range tokens {
			vocab[tok] = true
			c.wordCount[s.ClaimType][tok]++
			c.totalWords[s.ClaimType]++
		}
	}

	if len(c.labels) < 2 {
		return nil, fmt.Errorf("training data must contain at least 2 distinct claim types, got %d", len(c.labels))
	}

	c.vocabSize = len(vocab)
	return c, nil
}

// Name returns the backend name
func (c *BayesClassifier) Name() string {
	return "bayes"
}

// Labels returns the claim-type labels the model can assign
func (c *BayesClassifier) Labels() []string {
	return c.labels
}

// Classify assigns the most probable claim type to the text. Confidence is
// the normalised posterior of the winning label.
func (c *BayesClassifier) Classify(_ context.Context, text string) (model.Classification, error) {
	tokens := tokenize(text)
	if len(tokens) == 0 {
		return model.Classification{}, fmt.Errorf("no usable tokens in claim text")
	}

	// Log-space posterior per label: log P(label) + sum log P(token|label)
	logProbs := make([]float64, len(c.labels))
	for i, label := range c.labels {
		lp := math.Log(float64(c.docCount[label]) / float64(c.totalDocs))
		denom := float64(c.totalWords[label] + c.vocabSize)
		for _, tok := range tokens {
			lp += math.Log(float64(c.wordCount[label][tok]+1) / denom)
		}
		logProbs[i] = lp
	}

	// Normalise via softmax to get a confidence in [0,1]
	maxLP := logProbs[0]
	for _, lp := range logProbs[1:] {
		if lp > maxLP {
			maxLP = lp
		}
	}

	var sum float64
	probs := make([]float64, len(logProbs))
	for i, lp := range logProbs {
		probs[i] = math.Exp(lp - maxLP)
		sum += probs[i]
	}

	best := 0
	for i := range probs {
		probs[i] /= sum
		if probs[i] > probs[best] {
			best = i
		}
	}

	return model.Classification{
		ClaimType:  c.labels[best],
		Confidence: probs[best],
		Priority:   PriorityFor(text),
	}, nil
}

// tokenize lowercases and splits on non-alphanumeric runes
func tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}
