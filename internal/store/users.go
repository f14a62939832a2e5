package store

import (
	"context"

	"github.com/MrJamesThe3rd/finboard/internal/user"
)

// CreateUser stores a new user. params.PasswordHash must already be a digest.
// Emails are matched exactly; a second user with the same email is rejected
// with user.ErrDuplicateEmail.
func (s *Store) CreateUser(_ context.Context, params user.CreateParams) (*user.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.findUserByEmail(params.Email) != nil {
		return nil, user.ErrDuplicateEmail
	}

	s.lastUserID++

	u := &user.User{
		ID:           s.lastUserID,
		Email:        params.Email,
		PasswordHash: params.PasswordHash,
		Username:     cloneString(params.Username),
		FirstName:    cloneString(params.FirstName),
		LastName:     cloneString(params.LastName),
		Phone:        cloneString(params.Phone),
		CreatedAt:    s.clock.Now(),
	}
	s.users[u.ID] = u

	return cloneUser(u), nil
}

func (s *Store) GetUserByID(_ context.Context, id int64) (*user.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[id]
	if !ok {
		return nil, user.ErrNotFound
	}

	return cloneUser(u), nil
}

func (s *Store) GetUserByEmail(_ context.Context, email string) (*user.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u := s.findUserByEmail(email)
	if u == nil {
		return nil, user.ErrNotFound
	}

	return cloneUser(u), nil
}

// UpdateUser merges the non-nil profile fields onto the user. The id, email
// and password digest are never touched.
func (s *Store) UpdateUser(_ context.Context, id int64, params user.UpdateParams) (*user.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[id]
	if !ok {
		return nil, user.ErrNotFound
	}

	if params.Username != nil {
		u.Username = cloneString(params.Username)
	}

	if params.FirstName != nil {
		u.FirstName = cloneString(params.FirstName)
	}

	if params.LastName != nil {
		u.LastName = cloneString(params.LastName)
	}

	if params.Phone != nil {
		u.Phone = cloneString(params.Phone)
	}

	return cloneUser(u), nil
}

func (s *Store) findUserByEmail(email string) *user.User {
	for _, u := range s.users {
		if u.Email == email {
			return u
		}
	}

	return nil
}
