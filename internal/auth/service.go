package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/MrJamesThe3rd/finboard/internal/metrics"
	"github.com/MrJamesThe3rd/finboard/internal/session"
	"github.com/MrJamesThe3rd/finboard/internal/user"
	"github.com/MrJamesThe3rd/finboard/internal/validation"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=auth
type Repository interface {
	CreateUser(ctx context.Context, params user.CreateParams) (*user.User, error)
	GetUserByID(ctx context.Context, id int64) (*user.User, error)
	GetUserByEmail(ctx context.Context, email string) (*user.User, error)
}

type Hasher interface {
	Hash(plaintext string) (string, error)
	Verify(plaintext, digest string) bool
}

type Sessions interface {
	Create(userID int64) (session.Session, error)
	Resolve(id string) (int64, error)
	Destroy(id string)
}

type Recorder interface {
	Registered()
	LoginAttempt(outcome string)
}

// RegisterHook runs after a user is stored and before the session is issued.
// A failing hook is logged and does not undo the registration.
type RegisterHook func(ctx context.Context, u *user.User) error

type Option func(*Service)

func WithRegisterHook(hook RegisterHook) Option {
	return func(s *Service) {
		s.hooks = append(s.hooks, hook)
	}
}

func WithRecorder(r Recorder) Option {
	return func(s *Service) {
		s.recorder = r
	}
}

type Service struct {
	repo     Repository
	hasher   Hasher
	sessions Sessions
	recorder Recorder
	hooks    []RegisterHook

	decoyOnce   sync.Once
	decoyDigest string
}

func NewService(repo Repository, hasher Hasher, sessions Sessions, opts ...Option) *Service {
	s := &Service{
		repo:     repo,
		hasher:   hasher,
		sessions: sessions,
		recorder: nopRecorder{},
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Register creates the user and logs them in.
func (s *Service) Register(ctx context.Context, params RegisterParams) (Result, error) {
	params.Email = strings.TrimSpace(params.Email)

	if err := validation.Struct(params); err != nil {
		return Result{}, err
	}

	_, err := s.repo.GetUserByEmail(ctx, params.Email)
	if err == nil {
		return Result{}, user.ErrDuplicateEmail
	}

	if !errors.Is(err, user.ErrNotFound) {
		return Result{}, fmt.Errorf("looking up email: %w", err)
	}

	digest, err := s.hasher.Hash(params.Password)
	if err != nil {
		return Result{}, fmt.Errorf("hashing password: %w", err)
	}

	u, err := s.repo.CreateUser(ctx, user.CreateParams{
		Email:        params.Email,
		PasswordHash: digest,
		Username:     params.Username,
		FirstName:    params.FirstName,
		LastName:     params.LastName,
		Phone:        params.Phone,
	})
	if err != nil {
		if errors.Is(err, user.ErrDuplicateEmail) {
			return Result{}, err
		}

		return Result{}, fmt.Errorf("creating user: %w", err)
	}

	s.recorder.Registered()

	for _, hook := range s.hooks {
		if err := hook(ctx, u); err != nil {
			slog.Error("register hook failed", "user_id", u.ID, "error", err)
		}
	}

	return s.startSession(u)
}

// Login checks the credentials and starts a new session.
func (s *Service) Login(ctx context.Context, params LoginParams) (Result, error) {
	params.Email = strings.TrimSpace(params.Email)

	if err := validation.Struct(params); err != nil {
		return Result{}, err
	}

	u, err := s.repo.GetUserByEmail(ctx, params.Email)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			// Unknown emails pay for a key derivation too so response time
			// does not tell them apart from a wrong password.
			s.hasher.Verify(params.Password, s.decoy())
			return Result{}, s.rejectLogin(params.Email)
		}

		s.recorder.LoginAttempt(metrics.OutcomeError)

		return Result{}, fmt.Errorf("looking up email: %w", err)
	}

	if !s.hasher.Verify(params.Password, u.PasswordHash) {
		return Result{}, s.rejectLogin(params.Email)
	}

	res, err := s.startSession(u)
	if err != nil {
		s.recorder.LoginAttempt(metrics.OutcomeError)
		return Result{}, err
	}

	s.recorder.LoginAttempt(metrics.OutcomeSuccess)

	return res, nil
}

// Logout ends the session. Unknown or empty ids are not an error.
func (s *Service) Logout(sessionID string) {
	if sessionID == "" {
		return
	}

	s.sessions.Destroy(sessionID)
}

// CurrentUser resolves the session to the safe view of its user.
func (s *Service) CurrentUser(ctx context.Context, sessionID string) (user.Profile, error) {
	if sessionID == "" {
		return user.Profile{}, ErrUnauthenticated
	}

	userID, err := s.sessions.Resolve(sessionID)
	if err != nil {
		return user.Profile{}, ErrUnauthenticated
	}

	u, err := s.repo.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			slog.Error("session references missing user", "user_id", userID)
			s.sessions.Destroy(sessionID)

			return user.Profile{}, ErrUnauthenticated
		}

		return user.Profile{}, fmt.Errorf("loading session user: %w", err)
	}

	return u.Profile(), nil
}

func (s *Service) startSession(u *user.User) (Result, error) {
	sess, err := s.sessions.Create(u.ID)
	if err != nil {
		return Result{}, fmt.Errorf("creating session: %w", err)
	}

	return Result{User: u.Profile(), Session: sess}, nil
}

// decoy returns a digest of a throwaway password, derived once with the
// service's own hasher.
func (s *Service) decoy() string {
	s.decoyOnce.Do(func() {
		digest, err := s.hasher.Hash("finboard-decoy-password")
		if err != nil {
			slog.Error("failed to derive decoy digest", "error", err)
			return
		}

		s.decoyDigest = digest
	})

	return s.decoyDigest
}

func (s *Service) rejectLogin(email string) error {
	slog.Info("login rejected", "email", email)
	s.recorder.LoginAttempt(metrics.OutcomeInvalidCredentials)

	return ErrInvalidCredentials
}

type nopRecorder struct{}

func (nopRecorder) Registered()         {}
func (nopRecorder) LoginAttempt(string) {}
