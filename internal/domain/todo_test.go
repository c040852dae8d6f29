package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTodoComplete(t *testing.T) {
	todo := &Todo{Title: "Pay bills", OwnerID: 1}
	require.NoError(t, todo.CheckCompletion())

	at := time.Date(2024, 1, 2, 15, 4, 5, 0, time.UTC)
	todo.Complete(at)

	assert.True(t, todo.Completed)
	require.NotNil(t, todo.CompletedAt)
	assert.True(t, at.Equal(*todo.CompletedAt))
	assert.NoError(t, todo.CheckCompletion())

	todo.Complete(at.Add(time.Hour))
	assert.True(t, at.Equal(*todo.CompletedAt), "second completion keeps the first date")
}

func TestTodoCheckCompletion(t *testing.T) {
	now := time.Now()

	assert.ErrorIs(t, (&Todo{Completed: true}).CheckCompletion(), ErrCompletionInvariant)
	assert.ErrorIs(t, (&Todo{CompletedAt: &now}).CheckCompletion(), ErrCompletionInvariant)
	assert.NoError(t, (&Todo{Completed: true, CompletedAt: &now}).CheckCompletion())
}

func TestTodoBeforeSave(t *testing.T) {
	assert.ErrorIs(t, (&Todo{Title: "x"}).BeforeSave(nil), ErrMissingOwner)
	assert.ErrorIs(t, (&Todo{Title: "x", OwnerID: 1, Completed: true}).BeforeSave(nil), ErrCompletionInvariant)
	assert.NoError(t, (&Todo{Title: "x", OwnerID: 1}).BeforeSave(nil))
}

func TestSessionExpired(t *testing.T) {
	now := time.Now()
	s := Session{ExpiresAt: now.Add(time.Minute)}

	assert.False(t, s.Expired(now))
	assert.True(t, s.Expired(now.Add(time.Minute)))
}

func TestValidationError(t *testing.T) {
	assert.Equal(t, "title: is required", NewValidationError("title", "is required").Error())
	assert.Equal(t, "bad input", (&ValidationError{Message: "bad input"}).Error())
}
