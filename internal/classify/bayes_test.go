package classify

import (
	"context"
	"testing"

	"github.com/akarpov/claimroute/internal/model"
)

func trainingSamples() []model.TrainingSample {
	return []model.TrainingSample{
		{Description: "vehicle collision on the highway, bumper damage", ClaimType: "collision"},
		{Description: "rear-end collision at an intersection, airbag deployed", ClaimType: "collision"},
		{Description: "car was stolen from the parking lot overnight", ClaimType: "theft"},
		{Description: "break-in, laptop and jewellery stolen from the house", ClaimType: "theft"},
		{Description: "kitchen fire caused smoke damage to the ceiling", ClaimType: "fire"},
		{Description: "electrical fire in the garage destroyed stored tools", ClaimType: "fire"},
	}
}

func TestNewBayesClassifier_Validation(t *testing.T) {
	if _, err := NewBayesClassifier(nil); err == nil {
		t.Error("expected error for empty training data")
	}

	if _, err := NewBayesClassifier([]model.TrainingSample{
		{Description: "only one sample", ClaimType: "collision"},
	}); err == nil {
		t.Error("expected error for a single sample")
	}

	if _, err := NewBayesClassifier([]model.TrainingSample{
		{Description: "sample one about collisions", ClaimType: "collision"},
		{Description: "sample two about collisions", ClaimType: "collision"},
	}); err == nil {
		t.Error("expected error for a single distinct label")
	}

	if _, err := NewBayesClassifier([]model.TrainingSample{
		{Description: "valid collision sample text", ClaimType: "collision"},
		{Description: "!!! ...", ClaimType: "theft"},
	}); err == nil {
		t.Error("expected error for a sample with no usable tokens")
	}
}

func TestBayesClassifier_Classify(t *testing.T) {
	c, err := NewBayesClassifier(trainingSamples())
	if err != nil {
		t.Fatalf("train: %v", err)
	}

	cases := []struct {
		text string
		want string
	}{
		{"my car was stolen from the driveway", "theft"},
		{"collision with another vehicle, front bumper crushed", "collision"},
		{"fire in the kitchen, smoke everywhere", "fire"},
	}

	for _, tc := range cases {
		got, err := c.Classify(context.Background(), tc.text)
		if err != nil {
			t.Errorf("%q: unexpected error: %v", tc.text, err)
			continue
		}
		if got.ClaimType != tc.want {
			t.Errorf("%q: expected %q, got %q (confidence %.2f)", tc.text, tc.want, got.ClaimType, got.Confidence)
		}
		if got.Confidence <= 0 || got.Confidence > 1 {
			t.Errorf("%q: confidence out of range: %v", tc.text, got.Confidence)
		}
	}
}

func TestBayesClassifier_Deterministic(t *testing.T) {
	c, err := NewBayesClassifier(trainingSamples())
	if err != nil {
		t.Fatalf("train: %v", err)
	}

	text := "vehicle collision near the office, bumper and hood damage"
	first, err := c.Classify(context.Background(), text)
	if err != nil {
		t.Fatalf("classify: %v", err)
	}
	for i := 0; i < 5; i++ {
		got, err := c.Classify(context.Background(), text)
		if err != nil {
			t.Fatalf("classify run %d: %v", i, err)
		}
		if got != first {
			t.Fatalf("run %d: result changed from %+v to %+v", i, first, got)
		}
	}
}

func TestBayesClassifier_NoUsableTokens(t *testing.T) {
	c, err := NewBayesClassifier(trainingSamples())
	if err != nil {
		t.Fatalf("train: %v", err)
	}

	if _, err := c.Classify(context.Background(), "!!! ???"); err == nil {
		t.Error("expected error for text with no tokens")
	}
}

func TestBayesClassifier_Labels(t *testing.T) {
	c, err := NewBayesClassifier(trainingSamples())
	if err != nil {
		t.Fatalf("train: %v", err)
	}

	want := []string{"collision", "theft", "fire"}
	got := c.Labels()
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("label %d: expected %q, got %q", i, want[i], got[i])
		}
	}
}

func TestPriorityFor(t *testing.T) {
	cases := []struct {
		text string
		want model.Priority
	}{
		{"major water damage in the basement", model.PriorityHigh},
		{"kitchen FIRE with smoke damage", model.PriorityHigh},
		{"the vehicle was totaled", model.PriorityHigh},
		{"emergency repairs needed", model.PriorityHigh},
		{"collision at low speed", model.PriorityHigh},
		{"cracked window pane", model.PriorityMedium},
		{"", model.PriorityMedium},
	}

	for _, tc := range cases {
		if got := PriorityFor(tc.text); got != tc.want {
			t.Errorf("%q: expected %q, got %q", tc.text, tc.want, got)
		}
	}
}

func TestTokenize(t *testing.T) {
	got := tokenize("Rear-End Collision, $4,250 damage!")
	want := []string{"rear", "end", "collision", "4", "250", "damage"}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("token %d: expected %q, got %q", i, want[i], got[i])
		}
	}
}
