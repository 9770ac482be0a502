// Package routing decides which downstream queue a claim record receives.
package routing

import (
	"fmt"

	"github.com/akarpov/claimroute/internal/model"
)

// Engine is a pure decision function over a claim record and the configured
// thresholds. No hidden state: identical inputs always yield identical
// decisions.
type Engine struct {
	confidenceThreshold float64
	rules               model.RoutingRules
}

// NewEngine creates a routing engine with the given thresholds
func NewEngine(confidenceThreshold float64, rules model.RoutingRules) *Engine {
	return &Engine{
		confidenceThreshold: confidenceThreshold,
		rules:               rules,
	}
}

// Route evaluates the routing rules top to bottom; the first matching rule
// wins. The rules are not independent predicates, so reordering them changes
// behaviour.
func (e *Engine) Route(rec model.ClaimRecord) (decision model.RoutingDecision) {
	defer func() {
		if r := recover(); r != nil {
			decision = model.RoutingDecision{
				Decision: model.DecisionManualReview,
				Reason:   fmt.Sprintf("Routing error: %v", r),
			}
		}
	}()

	// Rule 1: low classification confidence
	if rec.Confidence < e.confidenceThreshold {
		return model.RoutingDecision{
			Decision: model.DecisionManualReview,
			Reason:   fmt.Sprintf("Low classification confidence (%.2f)", rec.Confidence),
		}
	}

	// Rule 2: non-compliant claims are denied outright
	if !rec.IsCompliant {
		return model.RoutingDecision{
			Decision: model.DecisionAutoDeny,
			Reason:   fmt.Sprintf("Non-compliant: %s", rec.ComplianceReason),
		}
	}

	// Rule 3: high priority or high value
	if rec.Priority == model.PriorityHigh || (rec.Value != nil && *rec.Value > e.rules.HighValueThreshold) {
		return model.RoutingDecision{
			Decision: model.DecisionSeniorAdjuster,
			Reason:   "High priority or high value claim",
		}
	}

	// Rule 4: straight-through processing for simple low-value claims.
	// Requires a value to be present: a claim with no extracted amount is
	// not a zero-value claim and must fall through to the general queue.
	if rec.Value != nil && *rec.Value <= e.rules.STPThreshold {
		return model.RoutingDecision{
			Decision: model.DecisionSTP,
			Reason:   "Low-value, compliant claim",
		}
	}

	// Rule 5: everything else
	return model.RoutingDecision{
		Decision: model.DecisionGeneralQueue,
		Reason:   "Standard claim",
	}
}
