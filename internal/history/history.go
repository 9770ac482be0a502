// Package history persists an append-only log of pipeline outcomes.
package history

import (
	"context"
	"time"

	"github.com/akarpov/claimroute/internal/model"
)

// Entry is one recorded pipeline run
type Entry struct {
	Document     string
	Status       model.Status
	Reason       string
	PolicyNumber string
	ClaimType    string
	Confidence   float64
	Compliant    bool
	Decision     model.Decision
	RecordedAt   time.Time
}

// Store records and queries pipeline outcomes
type Store interface {
	Record(ctx context.Context, e Entry) error
	Recent(ctx context.Context, limit int) ([]Entry, error)
	Close() error
}

// EntryFromResult flattens a pipeline result into a history entry
func EntryFromResult(document string, res *model.Result) Entry {
	e := Entry{
		Document:   document,
		Status:     res.Status,
		Reason:     res.Reason,
		RecordedAt: time.Now().UTC(),
	}

	if res.Extracted != nil {
		e.PolicyNumber = res.Extracted.PolicyNumber
	}
	if res.Classification != nil {
		e.ClaimType = res.Classification.ClaimType
		e.Confidence = res.Classification.Confidence
	}
	if res.Compliance != nil {
		e.Compliant = res.Compliance.IsCompliant
	}
	if res.Routing != nil {
		e.Decision = res.Routing.Decision
		if e.Reason == "" {
			e.Reason = res.Routing.Reason
		}
	}

	return e
}

// NopStore discards everything; used when history is disabled
type NopStore struct{}

// Record discards the entry
func (NopStore) Record(context.Context, Entry) error { return nil }

// Recent returns nothing
func (NopStore) Recent(context.Context, int) ([]Entry, error) { return nil, nil }

// Close is a no-op
func (NopStore) Close() error { return nil }
