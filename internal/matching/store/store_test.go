package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/juju/clock/testclock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/finboard/internal/matching/store"
)

func TestStore_FindMatch(t *testing.T) {
	ctx := context.Background()
	s := store.New(testclock.NewClock(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)))

	for _, r := range []struct {
		user              int64
		pattern, category string
	}{
		{1, "continente", "Groceries"},
		{1, "CONTINENTE BOM DIA", "Convenience"},
		{1, "uber", "Transport"},
		{1, "uber eats", "Food"},
		{1, "UBER EATS", "Takeaway"},
		{2, "netflix", "Entertainment"},
	} {
		_, err := s.CreateRule(ctx, r.user, r.pattern, r.category)
		require.NoError(t, err)
	}

	type testCase struct {
		name        string
		userID      int64
		description string
		want        string
	}

	tests := []testCase{
		{name: "CaseInsensitive", userID: 1, description: "COMPRA CONTINENTE LISBOA", want: "Groceries"},
		{name: "LongestPatternWins", userID: 1, description: "compra continente bom dia 123", want: "Convenience"},
		{name: "NewestWinsTie", userID: 1, description: "Uber Eats order", want: "Takeaway"},
		{name: "ShortPattern", userID: 1, description: "uber trip", want: "Transport"},
		{name: "NoMatch", userID: 1, description: "rent", want: ""},
		{name: "OtherUsersRulesIgnored", userID: 1, description: "NETFLIX.COM", want: ""},
		{name: "OwnRules", userID: 2, description: "NETFLIX.COM", want: "Entertainment"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := s.FindMatch(ctx, tc.userID, tc.description)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestStore_GetRulesByUser(t *testing.T) {
	ctx := context.Background()
	s := store.New(testclock.NewClock(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)))

	_, err := s.CreateRule(ctx, 1, "a", "A")
	require.NoError(t, err)
	_, err = s.CreateRule(ctx, 2, "b", "B")
	require.NoError(t, err)
	_, err = s.CreateRule(ctx, 1, "c", "C")
	require.NoError(t, err)

	rules, err := s.GetRulesByUser(ctx, 1)
	require.NoError(t, err)
	require.Len(t, rules, 2)
	assert.Equal(t, "c", rules[0].Pattern)
	assert.Equal(t, "a", rules[1].Pattern)

	none, err := s.GetRulesByUser(ctx, 3)
	require.NoError(t, err)
	assert.Empty(t, none)
}
