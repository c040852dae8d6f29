package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Tomlord1122/todo-tracker/internal/database/dbtest"
	"github.com/Tomlord1122/todo-tracker/internal/domain"
)

var todoColumns = []string{"id", "title", "memo", "created_at", "due_date", "completed_at", "important", "completed", "owner_id"}

func TestFindActiveFiltersByOwner(t *testing.T) {
	db, mock := dbtest.NewMock(t)
	repo := NewGormTodoRepository(db)

	now := time.Now()
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "todos" WHERE owner_id = $1 AND completed = $2 ORDER BY id`)).
		WithArgs(uint(3), false).
		WillReturnRows(sqlmock.NewRows(todoColumns).
			AddRow(1, "Buy milk", "", now, nil, nil, false, false, 3).
			AddRow(2, "Walk dog", "", now, nil, nil, true, false, 3))

	todos, err := repo.FindActive(context.Background(), 3)
	require.NoError(t, err)
	require.Len(t, todos, 2)
	assert.Equal(t, "Buy milk", todos[0].Title)
	assert.True(t, todos[1].Important)
}

func TestFindCompletedOrdersByCompletionDate(t *testing.T) {
	db, mock := dbtest.NewMock(t)
	repo := NewGormTodoRepository(db)

	mock.ExpectQuery(`SELECT \* FROM "todos" WHERE owner_id = \$1 AND completed = \$2 ORDER BY completed_at DESC,\s?id DESC`).
		WithArgs(uint(3), true).
		WillReturnRows(sqlmock.NewRows(todoColumns))

	todos, err := repo.FindCompleted(context.Background(), 3)
	require.NoError(t, err)
	assert.Empty(t, todos)
}

func TestFindByIDAndOwnerNotFound(t *testing.T) {
	db, mock := dbtest.NewMock(t)
	repo := NewGormTodoRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "todos" WHERE id = $1 AND owner_id = $2`)).
		WillReturnRows(sqlmock.NewRows(todoColumns))

	todo, err := repo.FindByIDAndOwner(context.Background(), 10, 4)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Nil(t, todo)
}

func TestUpdateScopedToOwner(t *testing.T) {
	db, mock := dbtest.NewMock(t)
	repo := NewGormTodoRepository(db)

	t.Run("no matching row", func(t *testing.T) {
		mock.ExpectExec(`UPDATE "todos" SET .* WHERE owner_id = \$\d+ AND .*"id" = \$\d+`).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.Update(context.Background(), &domain.Todo{ID: 5, OwnerID: 9, Title: "x"})
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("updated", func(t *testing.T) {
		mock.ExpectExec(`UPDATE "todos" SET .* WHERE owner_id = \$\d+ AND .*"id" = \$\d+`).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := repo.Update(context.Background(), &domain.Todo{ID: 5, OwnerID: 2, Title: "x"})
		assert.NoError(t, err)
	})
}

func TestUpdateRejectsBrokenCompletion(t *testing.T) {
	db, _ := dbtest.NewMock(t)
	repo := NewGormTodoRepository(db)

	err := repo.Update(context.Background(), &domain.Todo{ID: 5, OwnerID: 2, Title: "x", Completed: true})
	assert.ErrorIs(t, err, domain.ErrCompletionInvariant)
}

func TestDeleteScopedToOwner(t *testing.T) {
	db, mock := dbtest.NewMock(t)
	repo := NewGormTodoRepository(db)

	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM "todos" WHERE id = $1 AND owner_id = $2`)).
		WithArgs(uint(5), uint(2)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Delete(context.Background(), 5, 2)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCreateRequiresOwner(t *testing.T) {
	db, _ := dbtest.NewMock(t)
	repo := NewGormTodoRepository(db)

	err := repo.Create(context.Background(), &domain.Todo{Title: "orphan"})
	assert.ErrorIs(t, err, domain.ErrMissingOwner)
}
