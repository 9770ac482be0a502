// Package compliance validates claims against the policy store.
package compliance

import (
	"fmt"
	"strings"

	"github.com/akarpov/claimroute/internal/model"
	"github.com/akarpov/claimroute/internal/policy"
)

// Engine checks claims against policy coverage and exclusion rules.
// It is stateless apart from the read-only store and safe for concurrent use.
type Engine struct {
	store *policy.Store
}

// NewEngine creates a compliance engine over the given policy store
func NewEngine(store *policy.Store) *Engine {
	return &Engine{store: store}
}

// Check verifies a claim against its policy. Rules are evaluated in order
// and the first failing rule wins; later rules are not evaluated. The result
// always carries a populated reason, and nothing here escalates to an error:
// a violation is a normal terminal outcome, not a fault.
func (e *Engine) Check(policyNumber, claimType, claimText string) (result model.ComplianceResult) {
	defer func() {
		if r := recover(); r != nil {
			result = model.ComplianceResult{
				IsCompliant: false,
				Reason:      fmt.Sprintf("Compliance check failed: %v", r),
			}
		}
	}()

	// Rule 1: all three inputs are required
	if policyNumber == "" || claimType == "" || claimText == "" {
		return model.ComplianceResult{
			IsCompliant: false,
			Reason:      "Invalid Data (Missing Policy No., Claim Type, or Claim Details)",
		}
	}

	// Rule 2: policy number format
	if !policy.ValidNumber(policyNumber) {
		return model.ComplianceResult{
			IsCompliant: false,
			Reason:      fmt.Sprintf("Invalid Policy Number format: %s", policyNumber),
		}
	}

	// Rule 3: policy must exist
	pol, ok := e.store.Lookup(policyNumber)
	if !ok {
		return model.ComplianceResult{
			IsCompliant: false,
			Reason:      fmt.Sprintf("Policy %s not found", policyNumber),
		}
	}

	// Rule 4: claim type must be covered
	if !pol.Covers(claimType) {
		return model.ComplianceResult{
			IsCompliant: false,
			Reason:      fmt.Sprintf("Claim type '%s' is not covered.", claimType),
		}
	}

	// Rule 5: exclusion phrases, in stored order, matched as substrings of
	// the lowercased claim text. Substring, not whole-word: "war" matches
	// inside "warranty".
	lowerText := strings.ToLower(claimText)
	for _, exclusion := range pol.Exclusions {
		if strings.Contains(lowerText, exclusion) {
			return model.ComplianceResult{
				IsCompliant: false,
				Reason:      fmt.Sprintf("Claim rejected due to exclusion clause: '%s'.", exclusion),
			}
		}
	}

	return model.ComplianceResult{
		IsCompliant: true,
		Reason:      "Compliant",
	}
}
