package classify

import (
	"strings"
	"testing"
)

var testLabels = []string{"collision", "theft", "fire"}

func TestParseLabelResponse_CleanJSON(t *testing.T) {
	label, conf, err := parseLabelResponse(`{"claim_type": "theft", "confidence": 0.91}`, testLabels)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if label != "theft" {
		t.Errorf("expected theft, got %q", label)
	}
	if conf != 0.91 {
		t.Errorf("expected 0.91, got %v", conf)
	}
}

func TestParseLabelResponse_CodeFence(t *testing.T) {
	raw := "```json\n{\"claim_type\": \"fire\", \"confidence\": 0.8}\n```"
	label, _, err := parseLabelResponse(raw, testLabels)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if label != "fire" {
		t.Errorf("expected fire, got %q", label)
	}
}

func TestParseLabelResponse_SurroundingProse(t *testing.T) {
	raw := `Based on the document, here is my answer: {"claim_type": "collision", "confidence": 0.75} Let me know if you need more.`
	label, _, err := parseLabelResponse(raw, testLabels)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if label != "collision" {
		t.Errorf("expected collision, got %q", label)
	}
}

func TestParseLabelResponse_CaseInsensitiveLabel(t *testing.T) {
	label, _, err := parseLabelResponse(`{"claim_type": "Fire", "confidence": 0.7}`, testLabels)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	// The configured label spelling wins, not the model's
	if label != "fire" {
		t.Errorf("expected canonical label, got %q", label)
	}
}

func TestParseLabelResponse_Failures(t *testing.T) {
	cases := []struct {
		name string
		raw  string
	}{
		{"no JSON", "I cannot classify this document."},
		{"malformed JSON", `{"claim_type": fire}`},
		{"unknown label", `{"claim_type": "unknown", "confidence": 0.9}`},
		{"empty label", `{"claim_type": "", "confidence": 0.9}`},
		{"out-of-set label", `{"claim_type": "flood", "confidence": 0.9}`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, _, err := parseLabelResponse(tc.raw, testLabels); err == nil {
				t.Errorf("expected error for %q", tc.raw)
			}
		})
	}
}

func TestParseLabelResponse_ConfidenceClamped(t *testing.T) {
	_, conf, err := parseLabelResponse(`{"claim_type": "theft", "confidence": 1.7}`, testLabels)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if conf != 1 {
		t.Errorf("expected confidence clamped to 1, got %v", conf)
	}

	_, conf, err = parseLabelResponse(`{"claim_type": "theft", "confidence": -0.5}`, testLabels)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if conf != 0 {
		t.Errorf("expected confidence clamped to 0, got %v", conf)
	}
}

func TestBuildPrompt(t *testing.T) {
	prompt := buildPrompt(testLabels, "kitchen fire with smoke damage")

	for _, label := range testLabels {
		if !strings.Contains(prompt, "- "+label) {
			t.Errorf("expected prompt to list label %q", label)
		}
	}
	if !strings.Contains(prompt, "kitchen fire with smoke damage") {
		t.Error("expected prompt to include the claim text")
	}
	if !strings.Contains(prompt, `"unknown"`) {
		t.Error("expected prompt to offer the unknown escape hatch")
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("short", 10); got != "short" {
		t.Errorf("expected unchanged string, got %q", got)
	}
	if got := truncate("a long response body", 6); got != "a long..." {
		t.Errorf("unexpected truncation: %q", got)
	}
}
