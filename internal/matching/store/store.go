package store

import (
	"cmp"
	"context"
	"slices"
	"strings"
	"sync"

	"github.com/juju/clock"

	"github.com/MrJamesThe3rd/finboard/internal/matching"
)

// Store keeps categorisation rules in memory.
type Store struct {
	clock clock.Clock

	mu     sync.RWMutex
	rules  []*matching.Rule
	lastID int64
}

func New(clk clock.Clock) *Store {
	return &Store{clock: clk}
}

// FindMatch picks the rule whose pattern occurs in description, ignoring
// case. Longer patterns win; among equal lengths the newest rule wins.
func (s *Store) FindMatch(_ context.Context, userID int64, description string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	haystack := strings.ToLower(description)

	var best *matching.Rule

	for _, r := range s.rules {
		if r.UserID != userID || !strings.Contains(haystack, strings.ToLower(r.Pattern)) {
			continue
		}

		if best == nil || len(r.Pattern) > len(best.Pattern) ||
			(len(r.Pattern) == len(best.Pattern) && r.ID > best.ID) {
			best = r
		}
	}

	if best == nil {
		return "", nil
	}

	return best.Category, nil
}

func (s *Store) CreateRule(_ context.Context, userID int64, pattern, category string) (*matching.Rule, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.lastID++

	r := &matching.Rule{
		ID:        s.lastID,
		UserID:    userID,
		Pattern:   pattern,
		Category:  category,
		CreatedAt: s.clock.Now(),
	}
	s.rules = append(s.rules, r)

	c := *r

	return &c, nil
}

// GetRulesByUser returns the user's rules, newest first.
func (s *Store) GetRulesByUser(_ context.Context, userID int64) ([]*matching.Rule, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rules := make([]*matching.Rule, 0)

	for _, r := range s.rules {
		if r.UserID == userID {
			c := *r
			rules = append(rules, &c)
		}
	}

	slices.SortFunc(rules, func(a, b *matching.Rule) int {
		return cmp.Compare(b.ID, a.ID)
	})

	return rules, nil
}
