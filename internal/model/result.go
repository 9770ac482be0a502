package model

import "time"

// Status discriminates the two result shapes every pipeline run produces
type Status string

const (
	StatusSuccess Status = "Success"
	StatusFailed  Status = "Failed"
)

// Result is the final record for one pipeline run.
// On Success all sections are populated; on Failed only Status and Reason
// are set, never partial data from incomplete stages.
type Result struct {
	Status Status `json:"status"`
	Reason string `json:"reason,omitempty"` // Failure cause; empty on success

	Document    string    `json:"document,omitempty"`
	ProcessedAt time.Time `json:"processed_at,omitempty"`

	Extracted      *ExtractedEntities `json:"extracted_data,omitempty"`
	Classification *Classification    `json:"classification,omitempty"`
	Compliance     *ComplianceResult  `json:"compliance,omitempty"`
	Routing        *RoutingDecision   `json:"final_routing,omitempty"`
}

// FailedResult builds the minimal failure record
func FailedResult(reason string) *Result {
	return &Result{
		Status: StatusFailed,
		Reason: reason,
	}
}
