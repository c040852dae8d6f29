package form

import (
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Tomlord1122/todo-tracker/internal/domain"
)

func TestParseTodo(t *testing.T) {
	tests := []struct {
		name    string
		values  url.Values
		field   string
		wantErr bool
	}{
		{name: "title only", values: url.Values{"title": {"Buy milk"}}},
		{name: "all fields", values: url.Values{
			"title": {"Pay bills"}, "memo": {"electricity"}, "due_date": {"2024-01-01"}, "important": {"on"},
		}},
		{name: "missing title", values: url.Values{"memo": {"x"}}, field: "title", wantErr: true},
		{name: "blank title", values: url.Values{"title": {"   "}}, field: "title", wantErr: true},
		{name: "long title", values: url.Values{"title": {strings.Repeat("a", 101)}}, field: "title", wantErr: true},
		{name: "bad due date", values: url.Values{"title": {"x"}, "due_date": {"2024-13-01"}}, field: "due_date", wantErr: true},
		{name: "bad completed date", values: url.Values{"title": {"x"}, "completed_at": {"yesterday"}}, field: "completed_at", wantErr: true},
		{name: "unknown field", values: url.Values{"title": {"x"}, "priority": {"high"}}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := ParseTodo(tt.values)
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}
			var verr *domain.ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.field, verr.Field)
		})
	}
}

func TestParseTodoPayload(t *testing.T) {
	_, p, err := ParseTodo(url.Values{
		"title":     {"  Pay bills "},
		"due_date":  {"2024-01-01"},
		"important": {"on"},
	})
	require.NoError(t, err)

	assert.Equal(t, "Pay bills", p.Title)
	assert.True(t, p.Important)
	require.NotNil(t, p.DueDate)
	assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), *p.DueDate)
	assert.Nil(t, p.CompletedAt)
}

func TestOwnerFieldsAreIgnored(t *testing.T) {
	_, p, err := ParseTodo(url.Values{"title": {"Buy milk"}, "owner": {"2"}, "user_id": {"99"}})
	require.NoError(t, err)

	todo, err := p.NewTodo(7)
	require.NoError(t, err)
	assert.Equal(t, uint(7), todo.OwnerID)
	assert.False(t, todo.Completed)
	assert.Nil(t, todo.CompletedAt)
}

func TestNewTodoRejectsCompletionDate(t *testing.T) {
	_, p, err := ParseTodo(url.Values{"title": {"x"}, "completed_at": {"2024-01-01"}})
	require.NoError(t, err)

	_, err = p.NewTodo(1)
	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "completed_at", verr.Field)
}

func TestApplyTo(t *testing.T) {
	created := time.Date(2023, 5, 1, 0, 0, 0, 0, time.UTC)
	done := time.Date(2023, 6, 1, 10, 0, 0, 0, time.UTC)

	t.Run("keeps identity and completion", func(t *testing.T) {
		todo := &domain.Todo{ID: 4, OwnerID: 2, CreatedAt: created, Title: "old", Completed: true, CompletedAt: &done}
		_, p, err := ParseTodo(url.Values{"title": {"new"}, "memo": {"m"}})
		require.NoError(t, err)

		require.NoError(t, p.ApplyTo(todo))
		assert.Equal(t, uint(4), todo.ID)
		assert.Equal(t, uint(2), todo.OwnerID)
		assert.Equal(t, created, todo.CreatedAt)
		assert.Equal(t, "new", todo.Title)
		assert.True(t, todo.Completed)
		assert.Equal(t, &done, todo.CompletedAt)
	})

	t.Run("re-dates a completed todo", func(t *testing.T) {
		todo := &domain.Todo{ID: 4, OwnerID: 2, Title: "old", Completed: true, CompletedAt: &done}
		_, p, err := ParseTodo(url.Values{"title": {"t"}, "completed_at": {"2023-07-01"}})
		require.NoError(t, err)

		require.NoError(t, p.ApplyTo(todo))
		assert.Equal(t, time.Date(2023, 7, 1, 0, 0, 0, 0, time.UTC), *todo.CompletedAt)
		assert.NoError(t, todo.CheckCompletion())
	})

	t.Run("same day keeps the completion time", func(t *testing.T) {
		todo := &domain.Todo{ID: 4, OwnerID: 2, Title: "old", Completed: true, CompletedAt: &done}
		_, p, err := ParseTodo(url.Values{"title": {"renamed"}, "completed_at": {InputFromTodo(todo).CompletedAt}})
		require.NoError(t, err)

		require.NoError(t, p.ApplyTo(todo))
		assert.Equal(t, "renamed", todo.Title)
		assert.Equal(t, done, *todo.CompletedAt)
	})

	t.Run("rejects completion date on active todo", func(t *testing.T) {
		todo := &domain.Todo{ID: 4, OwnerID: 2, Title: "old"}
		_, p, err := ParseTodo(url.Values{"title": {"t"}, "completed_at": {"2023-07-01"}})
		require.NoError(t, err)

		assert.Error(t, p.ApplyTo(todo))
		assert.Equal(t, "old", todo.Title, "rejected edits are not partially applied")
		assert.Nil(t, todo.CompletedAt)
	})
}

func TestParseTodoKeepsMemo(t *testing.T) {
	_, p, err := ParseTodo(url.Values{"title": {"  Trip  "}, "memo": {"\n  pack:\n  - boots\n"}})
	require.NoError(t, err)
	assert.Equal(t, "Trip", p.Title)
	assert.Equal(t, "\n  pack:\n  - boots\n", p.Memo)
}

func TestInputFromTodo(t *testing.T) {
	due := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	in := InputFromTodo(&domain.Todo{Title: "Buy milk", DueDate: &due})

	assert.Equal(t, "Buy milk", in.Title)
	assert.Equal(t, "2024-01-01", in.DueDate)
	assert.Empty(t, in.CompletedAt)
}
