package client_test

import (
	"bytes"
	"context"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/juju/clock/testclock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/finboard/internal/app"
	"github.com/MrJamesThe3rd/finboard/internal/client"
	"github.com/MrJamesThe3rd/finboard/internal/config"
	"github.com/MrJamesThe3rd/finboard/internal/password"
)

func newServer(t *testing.T) *httptest.Server {
	t.Helper()

	cfg, err := config.Load()
	require.NoError(t, err)

	clk := testclock.NewClock(time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC))
	a := app.New(cfg, clk, app.WithPasswordParams(password.Params{N: 1024, R: 8, P: 1, KeyLen: 64, SaltLen: 16}))

	srv := httptest.NewServer(a.Handler())
	t.Cleanup(srv.Close)

	return srv
}

func newClient(t *testing.T, baseURL, cookieFile string) *client.Client {
	t.Helper()

	c, err := client.New(baseURL, cookieFile)
	require.NoError(t, err)

	return c
}

var alice = client.Credentials{Email: "alice@example.com", Password: "pw123456"}

func TestClient_Session(t *testing.T) {
	srv := newServer(t)
	ctx := context.Background()
	c := newClient(t, srv.URL, "")

	_, err := c.CurrentUser(ctx)
	assert.ErrorIs(t, err, client.ErrUnauthorized)

	u, err := c.Register(ctx, alice)
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", u.Email)
	assert.Equal(t, "alice@example.com", u.DisplayName())

	_, err = c.Register(ctx, alice)

	var apiErr *client.Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 409, apiErr.StatusCode)

	me, err := c.CurrentUser(ctx)
	require.NoError(t, err)
	assert.Equal(t, u.ID, me.ID)

	name := "Alice"
	me, err = c.UpdateProfile(ctx, client.ProfileUpdate{FirstName: &name})
	require.NoError(t, err)
	assert.Equal(t, "Alice", me.DisplayName())

	require.NoError(t, c.Logout(ctx))

	_, err = c.CurrentUser(ctx)
	assert.ErrorIs(t, err, client.ErrUnauthorized)

	_, err = c.Login(ctx, client.Credentials{Email: alice.Email, Password: "wrong-password"})
	assert.ErrorIs(t, err, client.ErrUnauthorized)

	_, err = c.Login(ctx, alice)
	require.NoError(t, err)
}

func TestClient_PersistsSession(t *testing.T) {
	srv := newServer(t)
	ctx := context.Background()
	file := filepath.Join(t.TempDir(), "cookies")

	first := newClient(t, srv.URL, file)

	_, err := first.Register(ctx, alice)
	require.NoError(t, err)
	require.NoError(t, first.Close())

	second := newClient(t, srv.URL, file)

	me, err := second.CurrentUser(ctx)
	require.NoError(t, err)
	assert.Equal(t, alice.Email, me.Email)
}

func TestClient_Dashboard(t *testing.T) {
	srv := newServer(t)
	ctx := context.Background()
	c := newClient(t, srv.URL, "")

	_, err := c.Register(ctx, alice)
	require.NoError(t, err)

	acc, err := c.CreateAccount(ctx, client.NewAccount{Name: "Main", Type: "checking", Balance: 100})
	require.NoError(t, err)

	_, err = c.CreateAccount(ctx, client.NewAccount{Name: "Bad", Type: "crypto"})

	var apiErr *client.Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 400, apiErr.StatusCode)
	assert.Contains(t, apiErr.Error(), "Type")

	_, err = c.Learn(ctx, "coffee", "Dining")
	require.NoError(t, err)

	rules, err := c.Rules(ctx)
	require.NoError(t, err)
	require.Len(t, rules, 1)

	tx, err := c.CreateTransaction(ctx, client.NewTransaction{
		AccountID:   acc.ID,
		Description: "Morning Coffee",
		Amount:      -4.5,
		Date:        "2024-06-10",
	})
	require.NoError(t, err)
	require.NotNil(t, tx.Category)
	assert.Equal(t, "Dining", *tx.Category)

	category, err := c.Suggest(ctx, "COFFEE SHOP")
	require.NoError(t, err)
	assert.Equal(t, "Dining", category)

	res, err := c.Import(ctx, acc.ID, "", "statement.csv", strings.NewReader(
		"Date,Description,Amount\n2024-06-01,Salary,1500\n2024-05-20,Rent,-700\n",
	))
	require.NoError(t, err)
	assert.Equal(t, 2, res.Imported)

	got, err := c.Account(ctx, acc.ID)
	require.NoError(t, err)
	assert.InDelta(t, 895.5, got.Balance, 0.001)

	june := client.Filter{
		Start: time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2024, 6, 30, 0, 0, 0, 0, time.UTC),
	}

	txs, err := c.Transactions(ctx, june)
	require.NoError(t, err)
	assert.Len(t, txs, 2)

	all, err := c.AccountTransactions(ctx, acc.ID)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	summary, err := c.Summary(ctx, june)
	require.NoError(t, err)
	assert.InDelta(t, 1500, summary.Income, 0.001)
	assert.InDelta(t, 4.5, summary.Expenses, 0.001)

	var buf bytes.Buffer

	filename, err := c.Export(ctx, june, &buf)
	require.NoError(t, err)
	assert.Equal(t, "transactions_20240615.csv", filename)
	assert.True(t, strings.HasPrefix(buf.String(), "Date,Description,Amount,Category,Account\n"))
	assert.Contains(t, buf.String(), "Morning Coffee,-4.50,Dining,Main")

	require.NoError(t, c.DeleteAccount(ctx, acc.ID))

	_, err = c.Account(ctx, acc.ID)
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 404, apiErr.StatusCode)
}
