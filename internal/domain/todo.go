package domain

import (
	"time"

	"gorm.io/gorm"
)

// TitleMaxLength bounds Todo.Title.
const TitleMaxLength = 100

// Todo is a single task owned by exactly one user. Completed and
// CompletedAt always move together: a todo is completed if and only if it
// carries a completion time.
type Todo struct {
	ID          uint       `gorm:"primaryKey"`
	Title       string     `gorm:"size:100;not null"`
	Memo        string     `gorm:"type:text;not null;default:''"`
	CreatedAt   time.Time  `gorm:"autoCreateTime;not null;<-:create"`
	DueDate     *time.Time `gorm:"type:date"`
	CompletedAt *time.Time `gorm:"check:chk_todos_completion,completed = (completed_at IS NOT NULL)"`
	Important   bool       `gorm:"not null;default:false"`
	Completed   bool       `gorm:"not null;default:false;index:idx_todos_owner_completed,priority:2"`

	OwnerID uint  `gorm:"not null;<-:create;index:idx_todos_owner_completed,priority:1"`
	Owner   *User `gorm:"foreignKey:OwnerID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

// Complete marks the todo completed at the given instant. Completing an
// already completed todo keeps its original completion time.
func (t *Todo) Complete(at time.Time) {
	if t.Completed {
		return
	}
	at = at.UTC()
	t.CompletedAt = &at
	t.Completed = true
}

// CheckCompletion reports ErrCompletionInvariant when Completed and
// CompletedAt disagree.
func (t *Todo) CheckCompletion() error {
	if t.Completed != (t.CompletedAt != nil) {
		return ErrCompletionInvariant
	}
	return nil
}

// BeforeSave refuses to persist a todo whose completion fields disagree or
// that has no owner.
func (t *Todo) BeforeSave(tx *gorm.DB) error {
	if t.OwnerID == 0 {
		return ErrMissingOwner
	}
	return t.CheckCompletion()
}
