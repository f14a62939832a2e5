package api_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/finboard/internal/account"
	"github.com/MrJamesThe3rd/finboard/internal/auth"
	"github.com/MrJamesThe3rd/finboard/internal/http/api"
	"github.com/MrJamesThe3rd/finboard/internal/transaction"
	"github.com/MrJamesThe3rd/finboard/internal/user"
	"github.com/MrJamesThe3rd/finboard/internal/validation"
)

func TestError(t *testing.T) {
	type testCase struct {
		name       string
		err        error
		wantStatus int
		wantMsg    string
	}

	tests := []testCase{
		{name: "Validation", err: validation.Field("email", "is required"), wantStatus: http.StatusBadRequest, wantMsg: "invalid input"},
		{name: "Duplicate", err: user.ErrDuplicateEmail, wantStatus: http.StatusConflict, wantMsg: "email already registered"},
		{name: "InvalidCredentials", err: auth.ErrInvalidCredentials, wantStatus: http.StatusUnauthorized, wantMsg: "invalid email or password"},
		{name: "Unauthenticated", err: auth.ErrUnauthenticated, wantStatus: http.StatusUnauthorized, wantMsg: "not authenticated"},
		{name: "Forbidden", err: account.ErrForbidden, wantStatus: http.StatusForbidden, wantMsg: "forbidden"},
		{name: "WrappedNotFound", err: fmt.Errorf("loading: %w", account.ErrNotFound), wantStatus: http.StatusNotFound, wantMsg: "account not found"},
		{name: "TransactionNotFound", err: transaction.ErrNotFound, wantStatus: http.StatusNotFound, wantMsg: "transaction not found"},
		{name: "Internal", err: errors.New("digest abc.def broke"), wantStatus: http.StatusInternalServerError, wantMsg: "internal error"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			api.Error(rec, httptest.NewRequest(http.MethodGet, "/", nil), tc.err)

			assert.Equal(t, tc.wantStatus, rec.Code)
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

			var body api.ErrorResponse
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
			assert.Equal(t, tc.wantMsg, body.Message)
		})
	}
}

func TestPathID(t *testing.T) {
	type testCase struct {
		path    string
		want    int64
		wantErr bool
	}

	tests := []testCase{
		{path: "/items/12", want: 12},
		{path: "/items/0", wantErr: true},
		{path: "/items/-3", wantErr: true},
		{path: "/items/abc", wantErr: true},
	}

	for _, tc := range tests {
		t.Run(tc.path, func(t *testing.T) {
			var (
				got int64
				err error
			)

			r := chi.NewRouter()
			r.Get("/items/{id}", func(_ http.ResponseWriter, req *http.Request) {
				got, err = api.PathID(req, "id")
			})
			r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, tc.path, nil))

			if tc.wantErr {
				var verr *validation.Error
				assert.ErrorAs(t, err, &verr)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestListFilter(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/?start_date=2024-05-01&end_date=2024-05-31&category=Food", nil)

	f, err := api.ListFilter(req)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC), *f.StartDate)
	assert.Equal(t, time.Date(2024, 5, 31, 23, 59, 59, 999999999, time.UTC), *f.EndDate)
	assert.Equal(t, "Food", *f.Category)

	_, err = api.ListFilter(httptest.NewRequest(http.MethodGet, "/?start_date=01-05-2024", nil))
	assert.Error(t, err)

	_, err = api.ListFilter(httptest.NewRequest(http.MethodGet, "/?start_date=2024-05-02&end_date=2024-05-01", nil))
	assert.Error(t, err)
}

func TestContextUser(t *testing.T) {
	assert.Zero(t, api.UserID(context.Background()))

	ctx := api.WithUser(context.Background(), user.Profile{ID: 7, Email: "a@example.com"})
	assert.Equal(t, int64(7), api.UserID(ctx))

	u, ok := api.CurrentUser(ctx)
	require.True(t, ok)
	assert.Equal(t, "a@example.com", u.Email)
}
