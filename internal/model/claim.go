package model

// ExtractedEntities holds the structured fields pulled out of a claim document
type ExtractedEntities struct {
	PersonNames  []string `json:"person_names,omitempty"` // Names found near claimant/insured labels
	Dates        []string `json:"dates,omitempty"`        // Date strings in document order
	PolicyNumber string   `json:"policy_number,omitempty"`
	ClaimValue   *float64 `json:"claim_value,omitempty"` // nil when the document carries no amount
}

// Priority is the handling urgency derived from claim text keywords
type Priority string

const (
	PriorityHigh   Priority = "High"
	PriorityMedium Priority = "Medium"
)

// Classification is the claim-type label produced by the classifier
type Classification struct {
	ClaimType  string   `json:"type,omitempty"`     // Empty when classification failed
	Confidence float64  `json:"confidence"`         // In [0,1]; 0 whenever ClaimType is empty
	Priority   Priority `json:"priority,omitempty"` // Always set when ClaimType is set
}

// ComplianceResult is the outcome of checking a claim against its policy
type ComplianceResult struct {
	IsCompliant bool   `json:"compliant"`
	Reason      string `json:"details"` // Always populated, success or failure
}

// Decision identifies the downstream queue or treatment for a claim
type Decision string

const (
	DecisionManualReview   Decision = "Flag for Manual Review"
	DecisionAutoDeny       Decision = "Auto-Deny"
	DecisionSeniorAdjuster Decision = "Route to Senior Adjuster"
	DecisionSTP            Decision = "Route to Straight-Through Processing (STP)"
	DecisionGeneralQueue   Decision = "Route to General Claims Queue"
)

// RoutingDecision is the final routing outcome with its explanation
type RoutingDecision struct {
	Decision Decision `json:"decision"`
	Reason   string   `json:"reason"`
}

// ClaimRecord aggregates everything the routing engine needs for one claim.
// Assembled by the pipeline; never persisted beyond a single run.
type ClaimRecord struct {
	Entities         ExtractedEntities
	ClaimType        string
	Confidence       float64
	Priority         Priority
	Value            *float64 // Copied from entities; nil means no amount extracted
	IsCompliant      bool
	ComplianceReason string
}

// Policy is a coverage agreement: covered claim types plus exclusion phrases.
// Exclusions are lowercase phrases matched as substrings of claim text, in
// stored order.
type Policy struct {
	ID         string   `json:"id" yaml:"-"`
	Coverage   []string `json:"coverage" yaml:"coverage"`
	Exclusions []string `json:"exclusions" yaml:"exclusions"`
}

// Covers reports whether the policy covers the given claim type
func (p Policy) Covers(claimType string) bool {
	for _, c := range p.Coverage {
		if c == claimType {
			return true
		}
	}
	return false
}
