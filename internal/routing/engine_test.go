package routing

import (
	"strings"
	"testing"

	"github.com/akarpov/claimroute/internal/model"
)

func testRules() model.RoutingRules {
	return model.RoutingRules{
		HighValueThreshold: 10000,
		STPThreshold:       1000,
	}
}

func fv(v float64) *float64 { return &v }

func TestEngine_LowConfidence(t *testing.T) {
	engine := NewEngine(0.6, testRules())

	dec := engine.Route(model.ClaimRecord{
		ClaimType:   "collision",
		Confidence:  0.45,
		IsCompliant: true,
		Value:       fv(500),
	})

	if dec.Decision != model.DecisionManualReview {
		t.Errorf("expected manual review, got %q", dec.Decision)
	}
	if dec.Reason != "Low classification confidence (0.45)" {
		t.Errorf("unexpected reason: %q", dec.Reason)
	}
}

func TestEngine_ConfidenceAtThresholdPasses(t *testing.T) {
	engine := NewEngine(0.6, testRules())

	// The cutoff is strictly below the threshold: exactly 0.60 is not flagged
	dec := engine.Route(model.ClaimRecord{
		Confidence:  0.6,
		IsCompliant: true,
		Value:       fv(500),
	})
	if dec.Decision == model.DecisionManualReview {
		t.Errorf("confidence at threshold must not be flagged, got %q (%s)", dec.Decision, dec.Reason)
	}
}

func TestEngine_NonCompliantDenied(t *testing.T) {
	engine := NewEngine(0.6, testRules())

	dec := engine.Route(model.ClaimRecord{
		Confidence:       0.9,
		IsCompliant:      false,
		ComplianceReason: "Policy PN-BOAT-9999 not found",
		Value:            fv(50000),
	})

	if dec.Decision != model.DecisionAutoDeny {
		t.Errorf("expected auto-deny, got %q", dec.Decision)
	}
	if dec.Reason != "Non-compliant: Policy PN-BOAT-9999 not found" {
		t.Errorf("unexpected reason: %q", dec.Reason)
	}
}

func TestEngine_LowConfidenceBeatsNonCompliance(t *testing.T) {
	engine := NewEngine(0.6, testRules())

	// Both rule 1 and rule 2 match; rule order means manual review wins
	dec := engine.Route(model.ClaimRecord{
		Confidence:       0.2,
		IsCompliant:      false,
		ComplianceReason: "Claim type 'fire' is not covered.",
	})
	if dec.Decision != model.DecisionManualReview {
		t.Errorf("expected manual review to win over auto-deny, got %q", dec.Decision)
	}
}

func TestEngine_HighPriority(t *testing.T) {
	engine := NewEngine(0.6, testRules())

	dec := engine.Route(model.ClaimRecord{
		Confidence:  0.8,
		IsCompliant: true,
		Priority:    model.PriorityHigh,
		Value:       fv(200),
	})

	if dec.Decision != model.DecisionSeniorAdjuster {
		t.Errorf("expected senior adjuster, got %q", dec.Decision)
	}
	if dec.Reason != "High priority or high value claim" {
		t.Errorf("unexpected reason: %q", dec.Reason)
	}
}

func TestEngine_HighValue(t *testing.T) {
	engine := NewEngine(0.6, testRules())

	dec := engine.Route(model.ClaimRecord{
		Confidence:  0.8,
		IsCompliant: true,
		Priority:    model.PriorityMedium,
		Value:       fv(25000),
	})
	if dec.Decision != model.DecisionSeniorAdjuster {
		t.Errorf("expected senior adjuster for high value, got %q", dec.Decision)
	}

	// Exactly at the threshold is not "above"
	dec = engine.Route(model.ClaimRecord{
		Confidence:  0.8,
		IsCompliant: true,
		Priority:    model.PriorityMedium,
		Value:       fv(10000),
	})
	if dec.Decision == model.DecisionSeniorAdjuster {
		t.Errorf("value at threshold must not escalate, got %q", dec.Decision)
	}
}

func TestEngine_StraightThrough(t *testing.T) {
	engine := NewEngine(0.6, testRules())

	for _, v := range []float64{0, 500, 1000} {
		dec := engine.Route(model.ClaimRecord{
			Confidence:  0.9,
			IsCompliant: true,
			Priority:    model.PriorityMedium,
			Value:       fv(v),
		})
		if dec.Decision != model.DecisionSTP {
			t.Errorf("value %.0f: expected STP, got %q", v, dec.Decision)
		}
		if dec.Reason != "Low-value, compliant claim" {
			t.Errorf("value %.0f: unexpected reason: %q", v, dec.Reason)
		}
	}
}

func TestEngine_MissingValueFallsToGeneralQueue(t *testing.T) {
	engine := NewEngine(0.6, testRules())

	// No extracted amount is not a zero amount: the claim must not take the
	// STP path
	dec := engine.Route(model.ClaimRecord{
		Confidence:  0.9,
		IsCompliant: true,
		Priority:    model.PriorityMedium,
		Value:       nil,
	})
	if dec.Decision != model.DecisionGeneralQueue {
		t.Errorf("expected general queue, got %q", dec.Decision)
	}
	if dec.Reason != "Standard claim" {
		t.Errorf("unexpected reason: %q", dec.Reason)
	}
}

func TestEngine_GeneralQueue(t *testing.T) {
	engine := NewEngine(0.6, testRules())

	dec := engine.Route(model.ClaimRecord{
		Confidence:  0.8,
		IsCompliant: true,
		Priority:    model.PriorityMedium,
		Value:       fv(5000),
	})
	if dec.Decision != model.DecisionGeneralQueue {
		t.Errorf("expected general queue, got %q", dec.Decision)
	}
}

func TestEngine_Deterministic(t *testing.T) {
	engine := NewEngine(0.6, testRules())

	rec := model.ClaimRecord{
		ClaimType:   "collision",
		Confidence:  0.75,
		IsCompliant: true,
		Priority:    model.PriorityMedium,
		Value:       fv(7500),
	}

	first := engine.Route(rec)
	for i := 0; i < 10; i++ {
		if got := engine.Route(rec); got != first {
			t.Fatalf("run %d: decision changed from %+v to %+v", i, first, got)
		}
	}
}

func TestEngine_RecoversFromInternalFault(t *testing.T) {
	// A fault while routing becomes a manual-review decision, never a crash
	var engine *Engine

	dec := engine.Route(model.ClaimRecord{Confidence: 0.9, IsCompliant: true})
	if dec.Decision != model.DecisionManualReview {
		t.Errorf("expected manual review, got %q", dec.Decision)
	}
	if !strings.HasPrefix(dec.Reason, "Routing error:") {
		t.Errorf("expected diagnostic reason, got %q", dec.Reason)
	}
}

func TestEngine_ConfidenceFormatting(t *testing.T) {
	engine := NewEngine(0.6, testRules())

	dec := engine.Route(model.ClaimRecord{Confidence: 0.333333})
	if !strings.Contains(dec.Reason, "(0.33)") {
		t.Errorf("expected two-decimal confidence in reason, got %q", dec.Reason)
	}
}
