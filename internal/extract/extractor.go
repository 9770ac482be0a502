package extract

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/akarpov/claimroute/internal/cache"
	"github.com/akarpov/claimroute/internal/model"
)

// Extractor is the extraction collaborator: it reads a claim document and
// produces raw text plus structured entities. Results are cached keyed by the
// document's content hash, so re-processing an unchanged file skips the parse.
type Extractor struct {
	entities *EntityExtractor
	cache    cache.Cache // nil disables caching
}

// NewExtractor creates a document extractor with an optional result cache
func NewExtractor(c cache.Cache) *Extractor {
	return &Extractor{
		entities: NewEntityExtractor(),
		cache:    c,
	}
}

// cachedExtraction is the cache payload for one document
type cachedExtraction struct {
	Entities model.ExtractedEntities `json:"entities"`
	Text     string                  `json:"text"`
}

// Extract produces the entities and raw text for one document. An unreadable
// or blank document yields an error; callers treat that as the extraction
// stage failing, never as a crash.
func (e *Extractor) Extract(path string) (model.ExtractedEntities, string, error) {
	var key string
	if e.cache != nil {
		if raw, err := os.ReadFile(path); err == nil {
			key = cache.Key(raw)
			if data, found := e.cache.Get(key); found {
				var entry cachedExtraction
				if err := json.Unmarshal(data, &entry); err == nil {
					return entry.Entities, entry.Text, nil
				}
			}
		}
	}

	text, err := readDocument(path)
	if err != nil {
		return model.ExtractedEntities{}, "", fmt.Errorf("extract %s: %w", path, err)
	}

	entities := e.entities.Extract(text)

	if e.cache != nil && key != "" {
		if data, err := json.Marshal(cachedExtraction{Entities: entities, Text: text}); err == nil {
			_ = e.cache.Set(key, data, 0)
		}
	}

	return entities, text, nil
}
