package policy

import (
	"fmt"
	"regexp"
	"sort"

	"github.com/akarpov/claimroute/internal/model"
)

// NumberPattern is the required policy number format: PN-<letters>-<digits>
var NumberPattern = regexp.MustCompile(`^PN-[A-Z]+-\d+$`)

// ValidNumber reports whether a policy number matches the required format
func ValidNumber(policyNumber string) bool {
	return NumberPattern.MatchString(policyNumber)
}

// Store is the read-only policy database. It is built once at startup and
// never mutated afterwards, so concurrent readers need no locking.
type Store struct {
	policies map[string]model.Policy
}

// NewStore builds a store from the configured policy map. Construction fails
// on any malformed policy; a partial rule set must not reach the pipeline.
func NewStore(policies map[string]model.Policy) (*Store, error) {
	if len(policies) == 0 {
		return nil, fmt.Errorf("no policies configured")
	}

	stored := make(map[string]model.Policy, len(policies))
	for id, p := range policies {
		if !ValidNumber(id) {
			return nil, fmt.Errorf("policy %q: id does not match PN-<LETTERS>-<DIGITS>", id)
		}
		if len(p.Coverage) == 0 {
			return nil, fmt.Errorf("policy %q: empty coverage set", id)
		}
		p.ID = id
		stored[id] = p
	}

	return &Store{policies: stored}, nil
}

// Lookup returns the policy for the given number
func (s *Store) Lookup(policyNumber string) (model.Policy, bool) {
	p, ok := s.policies[policyNumber]
	return p, ok
}

// Len returns the number of stored policies
func (s *Store) Len() int {
	return len(s.policies)
}

// All returns every policy sorted by id, for inspection commands
func (s *Store) All() []model.Policy {
	out := make([]model.Policy, 0, len(s.policies))
	for _, p := range s.policies {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
