package service

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/Tomlord1122/todo-tracker/internal/domain"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type mockUserRepository struct {
	createFn         func(user *domain.User) error
	findByIDFn       func(id uint) (*domain.User, error)
	findByUsernameFn func(username string) (*domain.User, error)
	created          []domain.User
}

func (m *mockUserRepository) Create(_ context.Context, user *domain.User) error {
	if m.createFn != nil {
		if err := m.createFn(user); err != nil {
			return err
		}
	}
	m.created = append(m.created, *user)
	return nil
}

func (m *mockUserRepository) FindByID(_ context.Context, id uint) (*domain.User, error) {
	if m.findByIDFn != nil {
		return m.findByIDFn(id)
	}
	return nil, domain.ErrNotFound
}

func (m *mockUserRepository) FindByUsername(_ context.Context, username string) (*domain.User, error) {
	if m.findByUsernameFn != nil {
		return m.findByUsernameFn(username)
	}
	return nil, domain.ErrNotFound
}

func (m *mockUserRepository) Delete(context.Context, uint) error {
	return nil
}

type mockSessionStore struct {
	sessions map[string]domain.Session
	next     int
}

func newMockSessionStore() *mockSessionStore {
	return &mockSessionStore{sessions: make(map[string]domain.Session)}
}

func (m *mockSessionStore) Create(_ context.Context, userID uint) (domain.Session, error) {
	m.next++
	s := domain.Session{Token: string(rune('a' + m.next)), UserID: userID, ExpiresAt: time.Now().Add(time.Hour)}
	m.sessions[s.Token] = s
	return s, nil
}

func (m *mockSessionStore) Get(_ context.Context, token string) (domain.Session, error) {
	s, ok := m.sessions[token]
	if !ok {
		return domain.Session{}, domain.ErrNotFound
	}
	return s, nil
}

func (m *mockSessionStore) Delete(_ context.Context, token string) error {
	delete(m.sessions, token)
	return nil
}
