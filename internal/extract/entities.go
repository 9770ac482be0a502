package extract

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/akarpov/claimroute/internal/model"
)

// EntityExtractor pulls structured fields out of claim document text with
// field-label regexes and lightweight heuristics.
type EntityExtractor struct {
	policyNo   *regexp.Regexp
	claimValue *regexp.Regexp
	persons    *regexp.Regexp
	dates      []*regexp.Regexp
}

// NewEntityExtractor creates an entity extractor
func NewEntityExtractor() *EntityExtractor {
	return &EntityExtractor{
		policyNo:   regexp.MustCompile(`(?i)Policy\s*No\.?[\s:#]+([A-Za-z0-9\-]+)`),
		claimValue: regexp.MustCompile(`(?i)Claim\s*Amount[\s:]+\$?([\d,]+\.?\d*)`),
		// Name continuation must not cross line ends, or the capture would
		// swallow the next field label
		persons: regexp.MustCompile(`(?im)(?:claimant|insured|policy[ \t]*holder)(?:[ \t]*name)?[ \t]*[:\-][ \t]*([A-Z][A-Za-z.'\-]*(?:[ \t]+[A-Z][A-Za-z.'\-]*){0,3})`),
		dates: []*regexp.Regexp{
			regexp.MustCompile(`\b\d{4}-\d{2}-\d{2}\b`),
			regexp.MustCompile(`\b\d{1,2}[/.]\d{1,2}[/.]\d{2,4}\b`),
			regexp.MustCompile(`\b(?:January|February|March|April|May|June|July|August|September|October|November|December)\s+\d{1,2},?\s+\d{4}\b`),
			regexp.MustCompile(`\b\d{1,2}\s+(?:January|February|March|April|May|June|July|August|September|October|November|December)\s+\d{4}\b`),
		},
	}
}

// Extract builds the entity record for one document's text
func (e *EntityExtractor) Extract(text string) model.ExtractedEntities {
	entities := model.ExtractedEntities{}

	if m := e.policyNo.FindStringSubmatch(text); m != nil {
		entities.PolicyNumber = strings.TrimSpace(m[1])
	}

	if m := e.claimValue.FindStringSubmatch(text); m != nil {
		raw := strings.ReplaceAll(m[1], ",", "")
		if v, err := strconv.ParseFloat(raw, 64); err == nil {
			entities.ClaimValue = &v
		}
	}

	entities.PersonNames = e.extractPersons(text)
	entities.Dates = e.extractDates(text)

	return entities
}

// extractPersons collects names from labelled lines (Claimant:, Insured:, ...)
func (e *EntityExtractor) extractPersons(text string) []string {
	var names []string
	seen := make(map[string]bool)

	for _, m := range e.persons.FindAllStringSubmatch(text, -1) {
		name := strings.TrimSpace(m[1])
		key := strings.ToLower(name)
		if name != "" && !seen[key] {
			seen[key] = true
			names = append(names, name)
		}
	}

	return names
}

// extractDates collects date strings in document order, deduplicated
func (e *EntityExtractor) extractDates(text string) []string {
	type match struct {
		pos  int
		text string
	}

	var matches []match
	for _, re := range e.dates {
		for _, loc := range re.FindAllStringIndex(text, -1) {
			matches = append(matches, match{pos: loc[0], text: text[loc[0]:loc[1]]})
		}
	}

	// Stable document order across the different patterns
	for i := 1; i < len(matches); i++ {
		for j := i; j > 0 && matches[j-1].pos > matches[j].pos; j-- {
			matches[j-1], matches[j] = matches[j], matches[j-1]
		}
	}

	var dates []string
	seen := make(map[string]bool)
	for _, m := range matches {
		if !seen[m.text] {
			seen[m.text] = true
			dates = append(dates, m.text)
		}
	}

	return dates
}
