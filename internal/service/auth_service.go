package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"golang.org/x/crypto/bcrypt"

	"github.com/Tomlord1122/todo-tracker/internal/domain"
	"github.com/Tomlord1122/todo-tracker/internal/form"
	"github.com/Tomlord1122/todo-tracker/internal/repository"
	"github.com/Tomlord1122/todo-tracker/internal/session"
)

// Identity is the authenticated caller threaded through every protected
// handler.
type Identity struct {
	UserID   uint
	Username string
	Token    string
}

// AuthService signs users up, logs them in and out and resolves session
// tokens back to users.
type AuthService interface {
	Signup(ctx context.Context, in form.SignupInput) (*Identity, error)
	Login(ctx context.Context, in form.LoginInput) (*Identity, error)
	Logout(ctx context.Context, token string) error
	CurrentUser(ctx context.Context, token string) (*Identity, error)
}

type authService struct {
	users    repository.UserRepository
	sessions session.Store
	cost     int
	logger   *slog.Logger
}

// dummyHash is compared against when the username is unknown so that a
// failed login costs the same either way.
var dummyHash, _ = bcrypt.GenerateFromPassword([]byte("not-a-real-password"), bcrypt.DefaultCost)

func NewAuthService(users repository.UserRepository, sessions session.Store, logger *slog.Logger) AuthService {
	return &authService{
		users:    users,
		sessions: sessions,
		cost:     bcrypt.DefaultCost,
		logger:   logger.With("component", "auth"),
	}
}

// Signup creates the account and opens a session for it. Mismatched
// passwords and taken usernames are reported before anything is written.
func (s *authService) Signup(ctx context.Context, in form.SignupInput) (*Identity, error) {
	if in.Password1 != in.Password2 {
		return nil, domain.ErrPasswordMismatch
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password1), s.cost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &domain.User{Username: in.Username, PasswordHash: string(hash)}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, domain.ErrDuplicateUsername) {
			return nil, err
		}
		return nil, fmt.Errorf("create user: %w", err)
	}
	s.logger.Info("user signed up", "user_id", user.ID)

	return s.openSession(ctx, user)
}

func (s *authService) Login(ctx context.Context, in form.LoginInput) (*Identity, error) {
	user, err := s.users.FindByUsername(ctx, in.Username)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(in.Password))
			return nil, domain.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("find user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)); err != nil {
		s.logger.Info("login failed", "user_id", user.ID)
		return nil, domain.ErrInvalidCredentials
	}

	return s.openSession(ctx, user)
}

func (s *authService) Logout(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	if err := s.sessions.Delete(ctx, token); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

// CurrentUser returns domain.ErrNotFound when the token does not name a
// live session of an existing user.
func (s *authService) CurrentUser(ctx context.Context, token string) (*Identity, error) {
	if token == "" {
		return nil, domain.ErrNotFound
	}
	sess, err := s.sessions.Get(ctx, token)
	if err != nil {
		return nil, err
	}
	user, err := s.users.FindByID(ctx, sess.UserID)
	if err != nil {
		return nil, err
	}
	return &Identity{UserID: user.ID, Username: user.Username, Token: token}, nil
}

func (s *authService) openSession(ctx context.Context, user *domain.User) (*Identity, error) {
	sess, err := s.sessions.Create(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}
	return &Identity{UserID: user.ID, Username: user.Username, Token: sess.Token}, nil
}
