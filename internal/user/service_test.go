package user_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/finboard/internal/user"
	"github.com/MrJamesThe3rd/finboard/internal/validation"
)

func TestUser_ProfileOmitsDigest(t *testing.T) {
	name := "alice"
	u := &user.User{
		ID:           7,
		Email:        "alice@example.com",
		PasswordHash: "secret.digest",
		Username:     &name,
		CreatedAt:    time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}

	p := u.Profile()
	assert.Equal(t, int64(7), p.ID)
	assert.Equal(t, "alice@example.com", p.Email)
	assert.Equal(t, &name, p.Username)
	assert.Nil(t, p.Phone)
}

func TestService_UpdateProfile(t *testing.T) {
	first := "Alice"
	tooLong := string(make([]byte, 101))

	type testCase struct {
		name      string
		params    user.UpdateParams
		setupMock func(m *user.MockRepository)
		wantErr   error
		wantValid bool
	}

	tests := []testCase{
		{
			name:   "Success",
			params: user.UpdateParams{FirstName: &first},
			setupMock: func(m *user.MockRepository) {
				m.EXPECT().
					UpdateUser(gomock.Any(), int64(1), user.UpdateParams{FirstName: &first}).
					Return(&user.User{ID: 1, Email: "a@example.com", PasswordHash: "h.s", FirstName: &first}, nil)
			},
		},
		{
			name:   "NotFound",
			params: user.UpdateParams{FirstName: &first},
			setupMock: func(m *user.MockRepository) {
				m.EXPECT().
					UpdateUser(gomock.Any(), int64(1), gomock.Any()).
					Return(nil, user.ErrNotFound)
			},
			wantErr: user.ErrNotFound,
		},
		{
			name:      "Invalid",
			params:    user.UpdateParams{LastName: &tooLong},
			wantValid: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)

			repo := user.NewMockRepository(ctrl)
			if tt.setupMock != nil {
				tt.setupMock(repo)
			}

			svc := user.NewService(repo)
			got, err := svc.UpdateProfile(context.Background(), 1, tt.params)

			if tt.wantValid {
				var vErr *validation.Error
				assert.True(t, errors.As(err, &vErr))

				return
			}

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, &first, got.FirstName)
		})
	}
}

func TestService_Profile(t *testing.T) {
	ctrl := gomock.NewController(t)

	repo := user.NewMockRepository(ctrl)
	repo.EXPECT().GetUserByID(gomock.Any(), int64(3)).Return(&user.User{ID: 3, Email: "c@example.com"}, nil)

	got, err := user.NewService(repo).Profile(context.Background(), 3)
	require.NoError(t, err)
	assert.Equal(t, "c@example.com", got.Email)
}
