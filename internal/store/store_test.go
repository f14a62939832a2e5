package store_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/juju/clock/testclock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/finboard/internal/account"
	"github.com/MrJamesThe3rd/finboard/internal/store"
	"github.com/MrJamesThe3rd/finboard/internal/transaction"
	"github.com/MrJamesThe3rd/finboard/internal/user"
)

var epoch = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

func newStore(t *testing.T) (*store.Store, *testclock.Clock) {
	t.Helper()

	clk := testclock.NewClock(epoch)

	return store.New(clk), clk
}

func mustUser(t *testing.T, s *store.Store, email string) *user.User {
	t.Helper()

	u, err := s.CreateUser(context.Background(), user.CreateParams{Email: email, PasswordHash: "k.s"})
	require.NoError(t, err)

	return u
}

func mustAccount(t *testing.T, s *store.Store, ownerID int64, balance int64) *account.Account {
	t.Helper()

	a, err := s.CreateAccount(context.Background(), account.CreateParams{
		Name:        "Test",
		Type:        account.TypeBank,
		Institution: "Test Bank",
		Number:      "XXXX0001",
		Balance:     decimal.NewFromInt(balance),
	}, ownerID)
	require.NoError(t, err)

	return a
}

func post(t *testing.T, s *store.Store, accountID int64, amount string, date time.Time) *transaction.Transaction {
	t.Helper()

	tx, err := s.CreateTransaction(context.Background(), transaction.CreateParams{
		AccountID:   accountID,
		Description: "tx " + amount,
		Amount:      decimal.RequireFromString(amount),
		Date:        date,
	})
	require.NoError(t, err)

	return tx
}

func TestStore_Scenario(t *testing.T) {
	ctx := context.Background()
	s, _ := newStore(t)

	alice := mustUser(t, s, "alice@example.com")
	acc := mustAccount(t, s, alice.ID, 100)

	accs, err := s.GetAccountsByUser(ctx, alice.ID)
	require.NoError(t, err)
	require.Len(t, accs, 1)
	assert.True(t, accs[0].Balance.Equal(decimal.NewFromInt(100)))

	post(t, s, acc.ID, "-25", epoch)

	got, err := s.GetAccountByID(ctx, acc.ID)
	require.NoError(t, err)
	assert.True(t, got.Balance.Equal(decimal.NewFromInt(75)), "balance is %s", got.Balance)

	txs, err := s.GetTransactionsByAccount(ctx, acc.ID)
	require.NoError(t, err)
	require.Len(t, txs, 1)
	assert.True(t, txs[0].Amount.Equal(decimal.NewFromInt(-25)))
}

func TestStore_CreateUser(t *testing.T) {
	ctx := context.Background()
	s, _ := newStore(t)

	first := mustUser(t, s, "alice@example.com")
	assert.Equal(t, int64(1), first.ID)
	assert.Equal(t, epoch, first.CreatedAt)
	assert.Nil(t, first.Username)
	assert.Nil(t, first.Phone)

	_, err := s.CreateUser(ctx, user.CreateParams{Email: "alice@example.com", PasswordHash: "x.y"})
	assert.ErrorIs(t, err, user.ErrDuplicateEmail)

	// Exact matching: a different case is a different email.
	upper, err := s.CreateUser(ctx, user.CreateParams{Email: "Alice@example.com", PasswordHash: "x.y"})
	require.NoError(t, err)
	assert.Equal(t, int64(2), upper.ID)

	got, err := s.GetUserByEmail(ctx, "alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, first.ID, got.ID)

	_, err = s.GetUserByEmail(ctx, "nobody@example.com")
	assert.ErrorIs(t, err, user.ErrNotFound)

	_, err = s.GetUserByID(ctx, 99)
	assert.ErrorIs(t, err, user.ErrNotFound)
}

func TestStore_UpdateUser(t *testing.T) {
	ctx := context.Background()
	s, _ := newStore(t)

	u := mustUser(t, s, "alice@example.com")
	first := "Alice"

	got, err := s.UpdateUser(ctx, u.ID, user.UpdateParams{FirstName: &first})
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)
	assert.Equal(t, "Alice", *got.FirstName)
	assert.Equal(t, "alice@example.com", got.Email)
	assert.Equal(t, "k.s", got.PasswordHash)

	_, err = s.UpdateUser(ctx, 42, user.UpdateParams{FirstName: &first})
	assert.ErrorIs(t, err, user.ErrNotFound)

	_, err = s.GetUserByID(ctx, 42)
	assert.ErrorIs(t, err, user.ErrNotFound, "update must not create a record")
}

func TestStore_ReturnedRecordsAreCopies(t *testing.T) {
	ctx := context.Background()
	s, _ := newStore(t)

	u := mustUser(t, s, "alice@example.com")
	u.Email = "mallory@example.com"

	got, err := s.GetUserByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", got.Email)

	withProfile, err := s.CreateUser(ctx, user.CreateParams{
		Email:     "bob@example.com",
		Username:  new("bob"),
		FirstName: new("Bob"),
		LastName:  new("Builder"),
		Phone:     new("555-0100"),
	})
	require.NoError(t, err)

	*withProfile.Username = "mallory"
	*withProfile.FirstName = "M"
	*withProfile.LastName = "M"
	*withProfile.Phone = "0"

	fetched, err := s.GetUserByEmail(ctx, "bob@example.com")
	require.NoError(t, err)
	assert.Equal(t, "bob", *fetched.Username)
	assert.Equal(t, "Bob", *fetched.FirstName)
	assert.Equal(t, "Builder", *fetched.LastName)
	assert.Equal(t, "555-0100", *fetched.Phone)

	*fetched.Username = "eve"

	again, err := s.GetUserByID(ctx, fetched.ID)
	require.NoError(t, err)
	assert.Equal(t, "bob", *again.Username)

	acc := mustAccount(t, s, got.ID, 10)
	acc.Balance = decimal.NewFromInt(1_000_000)

	stored, err := s.GetAccountByID(ctx, acc.ID)
	require.NoError(t, err)
	assert.True(t, stored.Balance.Equal(decimal.NewFromInt(10)))
}

func TestStore_CreateAccountRequiresOwner(t *testing.T) {
	s, _ := newStore(t)

	_, err := s.CreateAccount(context.Background(), account.CreateParams{Name: "x"}, 7)
	assert.ErrorIs(t, err, user.ErrNotFound)
}

func TestStore_UpdateAccount(t *testing.T) {
	ctx := context.Background()
	s, clk := newStore(t)

	u := mustUser(t, s, "alice@example.com")
	acc := mustAccount(t, s, u.ID, 10)
	assert.Equal(t, epoch, acc.LastUpdated)

	clk.Advance(time.Hour)

	name := "Renamed"
	got, err := s.UpdateAccount(ctx, acc.ID, account.UpdateParams{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "Renamed", got.Name)
	assert.Equal(t, epoch.Add(time.Hour), got.LastUpdated)
	assert.Equal(t, epoch, got.CreatedAt)
	assert.True(t, got.Balance.Equal(decimal.NewFromInt(10)))

	_, err = s.UpdateAccount(ctx, 99, account.UpdateParams{Name: &name})
	assert.ErrorIs(t, err, account.ErrNotFound)
}

func TestStore_BalanceTracksPostedAmounts(t *testing.T) {
	ctx := context.Background()
	s, clk := newStore(t)

	u := mustUser(t, s, "alice@example.com")
	acc := mustAccount(t, s, u.ID, 250)

	amounts := []string{"-10.10", "0.20", "-0.30", "1200", "-999.99", "0.01"}
	want := decimal.NewFromInt(250)

	for _, a := range amounts {
		clk.Advance(time.Minute)
		post(t, s, acc.ID, a, clk.Now())
		want = want.Add(decimal.RequireFromString(a))
	}

	got, err := s.GetAccountByID(ctx, acc.ID)
	require.NoError(t, err)
	assert.True(t, got.Balance.Equal(want), "want %s, got %s", want, got.Balance)
	assert.Equal(t, clk.Now(), got.LastUpdated, "posting advances LastUpdated")
}

func TestStore_ConcurrentPostsKeepBalance(t *testing.T) {
	ctx := context.Background()
	s, _ := newStore(t)

	u := mustUser(t, s, "alice@example.com")
	acc := mustAccount(t, s, u.ID, 0)

	const workers, perWorker = 8, 50

	var wg sync.WaitGroup

	for w := range workers {
		wg.Add(1)

		go func() {
			defer wg.Done()

			for range perWorker {
				amount := decimal.NewFromInt(int64(w + 1))
				_, err := s.CreateTransaction(ctx, transaction.CreateParams{
					AccountID:   acc.ID,
					Description: "concurrent",
					Amount:      amount,
					Date:        epoch,
				})
				assert.NoError(t, err)
			}
		}()
	}

	wg.Wait()

	// sum over w of (w+1)*perWorker = perWorker * workers*(workers+1)/2
	want := decimal.NewFromInt(perWorker * workers * (workers + 1) / 2)

	got, err := s.GetAccountByID(ctx, acc.ID)
	require.NoError(t, err)
	assert.True(t, got.Balance.Equal(want), "want %s, got %s", want, got.Balance)

	txs, err := s.GetTransactionsByAccount(ctx, acc.ID)
	require.NoError(t, err)
	assert.Len(t, txs, workers*perWorker)
}

func TestStore_CreateTransactionUnknownAccount(t *testing.T) {
	ctx := context.Background()
	s, _ := newStore(t)

	_, err := s.CreateTransaction(ctx, transaction.CreateParams{AccountID: 5, Description: "x", Date: epoch})
	assert.ErrorIs(t, err, account.ErrNotFound)

	_, err = s.GetTransaction(ctx, 1)
	assert.ErrorIs(t, err, transaction.ErrNotFound)
}

func TestStore_TransactionsNewestFirst(t *testing.T) {
	ctx := context.Background()
	s, _ := newStore(t)

	alice := mustUser(t, s, "alice@example.com")
	bob := mustUser(t, s, "bob@example.com")

	a1 := mustAccount(t, s, alice.ID, 0)
	a2 := mustAccount(t, s, alice.ID, 0)
	b1 := mustAccount(t, s, bob.ID, 0)

	day := func(d int) time.Time { return time.Date(2024, 5, d, 0, 0, 0, 0, time.UTC) }

	// Inserted out of order on purpose.
	post(t, s, a1.ID, "-1", day(3))
	post(t, s, a2.ID, "-2", day(10))
	post(t, s, a1.ID, "-3", day(1))
	post(t, s, b1.ID, "-4", day(20))
	post(t, s, a1.ID, "-5", day(7))

	byAccount, err := s.GetTransactionsByAccount(ctx, a1.ID)
	require.NoError(t, err)
	assert.Equal(t, []time.Time{day(7), day(3), day(1)}, dates(byAccount))

	forUser, err := s.GetAllTransactionsForUser(ctx, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, []time.Time{day(10), day(7), day(3), day(1)}, dates(forUser))

	none, err := s.GetAllTransactionsForUser(ctx, 404)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestStore_DeleteAccountCascadesAndNeverReusesIDs(t *testing.T) {
	ctx := context.Background()
	s, _ := newStore(t)

	u := mustUser(t, s, "alice@example.com")
	acc := mustAccount(t, s, u.ID, 0)
	tx := post(t, s, acc.ID, "-1", epoch)

	existed, err := s.DeleteAccount(ctx, acc.ID)
	require.NoError(t, err)
	assert.True(t, existed)

	existed, err = s.DeleteAccount(ctx, acc.ID)
	require.NoError(t, err)
	assert.False(t, existed)

	_, err = s.GetTransaction(ctx, tx.ID)
	assert.ErrorIs(t, err, transaction.ErrNotFound)

	all, err := s.GetAllTransactionsForUser(ctx, u.ID)
	require.NoError(t, err)
	assert.Empty(t, all)

	next := mustAccount(t, s, u.ID, 0)
	assert.Equal(t, acc.ID+1, next.ID)

	nextTx := post(t, s, next.ID, "1", epoch)
	assert.Equal(t, tx.ID+1, nextTx.ID)
}

func dates(txs []*transaction.Transaction) []time.Time {
	out := make([]time.Time, 0, len(txs))
	for _, tx := range txs {
		out = append(out, tx.Date)
	}

	return out
}
