// Package session issues and resolves the opaque tokens that identify an
// authenticated user between requests.
package session

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Tomlord1122/todo-tracker/internal/domain"
)

// Store persists sessions. Get returns domain.ErrNotFound for unknown or
// expired tokens.
type Store interface {
	Create(ctx context.Context, userID uint) (domain.Session, error)
	Get(ctx context.Context, token string) (domain.Session, error)
	Delete(ctx context.Context, token string) error
}

// NewToken returns 64 hex characters drawn from two random UUIDs.
func NewToken() string {
	return strings.ReplaceAll(uuid.NewString()+uuid.NewString(), "-", "")
}

type clock func() time.Time

func utcNow() time.Time { return time.Now().UTC() }
