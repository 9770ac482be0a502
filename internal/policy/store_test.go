package policy

import (
	"testing"

	"github.com/akarpov/claimroute/internal/model"
)

func validPolicies() map[string]model.Policy {
	return map[string]model.Policy{
		"PN-AUTO-1001": {
			Coverage:   []string{"collision", "theft"},
			Exclusions: []string{"racing", "off-road"},
		},
		"PN-HOME-2002": {
			Coverage:   []string{"fire", "water damage"},
			Exclusions: []string{"flood", "war"},
		},
	}
}

func TestValidNumber(t *testing.T) {
	cases := []struct {
		number string
		want   bool
	}{
		{"PN-AUTO-1001", true},
		{"PN-A-1", true},
		{"PN-HOMEOWNERS-202400", true},
		{"pn-auto-1001", false},
		{"PN-auto-1001", false},
		{"PN-AUTO1001", false},
		{"PN--1001", false},
		{"PN-AUTO-", false},
		{"PN-AUTO-1001-X", false},
		{"XX-AUTO-1001", false},
		{"", false},
		{" PN-AUTO-1001", false},
	}

	for _, tc := range cases {
		if got := ValidNumber(tc.number); got != tc.want {
			t.Errorf("%q: expected %v, got %v", tc.number, tc.want, got)
		}
	}
}

func TestNewStore(t *testing.T) {
	store, err := NewStore(validPolicies())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if store.Len() != 2 {
		t.Errorf("expected 2 policies, got %d", store.Len())
	}

	p, ok := store.Lookup("PN-AUTO-1001")
	if !ok {
		t.Fatal("expected lookup hit")
	}
	if p.ID != "PN-AUTO-1001" {
		t.Errorf("expected id to be filled in, got %q", p.ID)
	}
	if !p.Covers("collision") || p.Covers("fire") {
		t.Errorf("unexpected coverage: %v", p.Coverage)
	}

	if _, ok := store.Lookup("PN-BOAT-9999"); ok {
		t.Error("expected lookup miss for unknown policy")
	}
}

func TestNewStore_Invalid(t *testing.T) {
	if _, err := NewStore(nil); err == nil {
		t.Error("expected error for empty policy map")
	}

	if _, err := NewStore(map[string]model.Policy{
		"bad-id": {Coverage: []string{"collision"}},
	}); err == nil {
		t.Error("expected error for malformed policy id")
	}

	if _, err := NewStore(map[string]model.Policy{
		"PN-AUTO-1001": {},
	}); err == nil {
		t.Error("expected error for empty coverage")
	}
}

func TestStore_AllSorted(t *testing.T) {
	store, err := NewStore(validPolicies())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	all := store.All()
	if len(all) != 2 {
		t.Fatalf("expected 2 policies, got %d", len(all))
	}
	if all[0].ID != "PN-AUTO-1001" || all[1].ID != "PN-HOME-2002" {
		t.Errorf("expected sorted ids, got %s, %s", all[0].ID, all[1].ID)
	}
}
