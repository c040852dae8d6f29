// Package repotest holds in-memory repositories and session storage with
// the same ownership and uniqueness rules as the GORM implementations.
package repotest

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/Tomlord1122/todo-tracker/internal/domain"
)

type TodoRepository struct {
	mu     sync.Mutex
	nextID uint
	todos  map[uint]domain.Todo
}

func NewTodoRepository() *TodoRepository {
	return &TodoRepository{todos: make(map[uint]domain.Todo)}
}

func (r *TodoRepository) Create(_ context.Context, todo *domain.Todo) error {
	if err := todo.BeforeSave(nil); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	todo.ID = r.nextID
	todo.CreatedAt = time.Now().UTC()
	r.todos[todo.ID] = *todo
	return nil
}

func (r *TodoRepository) find(ownerID uint, completed bool) []domain.Todo {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Todo
	for _, t := range r.todos {
		if t.OwnerID == ownerID && t.Completed == completed {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (r *TodoRepository) FindActive(_ context.Context, ownerID uint) ([]domain.Todo, error) {
	return r.find(ownerID, false), nil
}

func (r *TodoRepository) FindCompleted(_ context.Context, ownerID uint) ([]domain.Todo, error) {
	out := r.find(ownerID, true)
	sort.SliceStable(out, func(i, j int) bool { return out[i].CompletedAt.After(*out[j].CompletedAt) })
	return out, nil
}

func (r *TodoRepository) FindByIDAndOwner(_ context.Context, id, ownerID uint) (*domain.Todo, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.todos[id]
	if !ok || t.OwnerID != ownerID {
		return nil, domain.ErrNotFound
	}
	return &t, nil
}

func (r *TodoRepository) Update(_ context.Context, todo *domain.Todo) error {
	if err := todo.BeforeSave(nil); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.todos[todo.ID]
	if !ok || stored.OwnerID != todo.OwnerID {
		return domain.ErrNotFound
	}
	todo.CreatedAt = stored.CreatedAt
	r.todos[todo.ID] = *todo
	return nil
}

func (r *TodoRepository) Delete(_ context.Context, id, ownerID uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.todos[id]
	if !ok || t.OwnerID != ownerID {
		return domain.ErrNotFound
	}
	delete(r.todos, id)
	return nil
}

// All returns every todo of ownerID, active ones first.
func (r *TodoRepository) All(ownerID uint) []domain.Todo {
	return append(r.find(ownerID, false), r.find(ownerID, true)...)
}

// Count returns the number of stored todos across all owners.
func (r *TodoRepository) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.todos)
}

type UserRepository struct {
	mu     sync.Mutex
	nextID uint
	users  map[uint]domain.User
}

func NewUserRepository() *UserRepository {
	return &UserRepository{users: make(map[uint]domain.User)}
}

func (r *UserRepository) Create(_ context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Username == user.Username {
			return domain.ErrDuplicateUsername
		}
	}
	r.nextID++
	user.ID = r.nextID
	user.CreatedAt = time.Now().UTC()
	r.users[user.ID] = *user
	return nil
}

func (r *UserRepository) FindByID(_ context.Context, id uint) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &u, nil
}

func (r *UserRepository) FindByUsername(_ context.Context, username string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Username == username {
			return &u, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *UserRepository) Delete(_ context.Context, id uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.users, id)
	return nil
}

// Count returns the number of accounts.
func (r *UserRepository) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.users)
}

// SessionStore keeps sessions in a map. Tokens are sequential.
type SessionStore struct {
	mu       sync.Mutex
	next     int
	sessions map[string]domain.Session
}

func NewSessionStore() *SessionStore {
	return &SessionStore{sessions: make(map[string]domain.Session)}
}

func (s *SessionStore) Create(_ context.Context, userID uint) (domain.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.next++
	sess := domain.Session{
		Token:     fmt.Sprintf("session-%d", s.next),
		UserID:    userID,
		ExpiresAt: time.Now().Add(time.Hour),
		CreatedAt: time.Now(),
	}
	s.sessions[sess.Token] = sess
	return sess, nil
}

func (s *SessionStore) Get(_ context.Context, token string) (domain.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[token]
	if !ok || sess.Expired(time.Now()) {
		return domain.Session{}, domain.ErrNotFound
	}
	return sess, nil
}

func (s *SessionStore) Delete(_ context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, token)
	return nil
}

// Len returns the number of live and expired sessions held.
func (s *SessionStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}
