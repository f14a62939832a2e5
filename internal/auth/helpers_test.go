package auth_test

import (
	"testing"
	"time"

	"github.com/juju/clock/testclock"

	"github.com/MrJamesThe3rd/finboard/internal/auth"
	"github.com/MrJamesThe3rd/finboard/internal/password"
	"github.com/MrJamesThe3rd/finboard/internal/session"
	"github.com/MrJamesThe3rd/finboard/internal/store"
)

func newRealService(t *testing.T) (*auth.Service, *testclock.Clock, *store.Store) {
	t.Helper()

	clk := testclock.NewClock(time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC))
	st := store.New(clk)
	hasher := password.NewHasher(password.Params{N: 1024, R: 8, P: 1, KeyLen: 64, SaltLen: 16})

	return auth.NewService(st, hasher, session.NewStore(clk, 24*time.Hour)), clk, st
}
