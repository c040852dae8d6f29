// Package form turns submitted HTML form values into typed, validated
// payloads. A submission is accepted or rejected as a whole.
package form

import (
	"errors"
	"fmt"
	"net/url"
	"reflect"
	"sort"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/Tomlord1122/todo-tracker/internal/domain"
)

// DateLayout is the accepted calendar date format.
const DateLayout = "2006-01-02"

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		return f.Tag.Get("form")
	})
	registerUsernameRule(v)
	return v
}

// todoFields are the keys a todo form may carry.
var todoFields = map[string]bool{
	"title":        true,
	"memo":         true,
	"due_date":     true,
	"completed_at": true,
	"important":    true,
}

// ownerFields look like ownership but are never trusted: the owner is
// always the requester.
var ownerFields = map[string]bool{
	"owner":    true,
	"owner_id": true,
	"user":     true,
	"user_id":  true,
}

// TodoInput is the raw todo submission.
type TodoInput struct {
	Title       string `form:"title" validate:"required,max=100"`
	Memo        string `form:"memo"`
	DueDate     string `form:"due_date" validate:"omitempty,datetime=2006-01-02"`
	CompletedAt string `form:"completed_at" validate:"omitempty,datetime=2006-01-02"`
	Important   bool   `form:"important"`
}

// TodoPayload is a validated todo submission. Optional dates are nil when
// the field was left blank.
type TodoPayload struct {
	Title       string
	Memo        string
	DueDate     *time.Time
	CompletedAt *time.Time
	Important   bool
}

// ParseTodo decodes and validates a todo submission. Unknown keys fail the
// whole submission; owner-like keys are dropped.
func ParseTodo(values url.Values) (TodoInput, TodoPayload, error) {
	in := TodoInput{
		Title:       strings.TrimSpace(values.Get("title")),
		Memo:        values.Get("memo"),
		DueDate:     strings.TrimSpace(values.Get("due_date")),
		CompletedAt: strings.TrimSpace(values.Get("completed_at")),
		Important:   checkbox(values.Get("important")),
	}

	if err := rejectUnknown(values, todoFields, ownerFields); err != nil {
		return in, TodoPayload{}, err
	}
	if err := validate.Struct(in); err != nil {
		return in, TodoPayload{}, translate(err)
	}

	p := TodoPayload{
		Title:     in.Title,
		Memo:      in.Memo,
		Important: in.Important,
	}
	var err error
	if p.DueDate, err = parseDate("due_date", in.DueDate); err != nil {
		return in, TodoPayload{}, err
	}
	if p.CompletedAt, err = parseDate("completed_at", in.CompletedAt); err != nil {
		return in, TodoPayload{}, err
	}
	return in, p, nil
}

// NewTodo builds a todo for ownerID from a create submission. The owner is
// always the caller's, never a submitted value.
func (p TodoPayload) NewTodo(ownerID uint) (*domain.Todo, error) {
	if p.CompletedAt != nil {
		return nil, domain.NewValidationError("completed_at", "cannot be set on a new todo")
	}
	return &domain.Todo{
		Title:     p.Title,
		Memo:      p.Memo,
		DueDate:   p.DueDate,
		Important: p.Important,
		OwnerID:   ownerID,
	}, nil
}

// ApplyTo merges an edit onto an existing todo. Identity, owner, creation
// time and completion state are kept; completed_at may only re-date an
// already completed todo, and a date on the stored day keeps the stored time.
func (p TodoPayload) ApplyTo(todo *domain.Todo) error {
	if p.CompletedAt != nil && !todo.Completed {
		return domain.NewValidationError("completed_at", "can only be set on a completed todo")
	}
	todo.Title = p.Title
	todo.Memo = p.Memo
	todo.DueDate = p.DueDate
	todo.Important = p.Important
	if p.CompletedAt != nil && !sameDay(*p.CompletedAt, todo.CompletedAt) {
		at := *p.CompletedAt
		todo.CompletedAt = &at
	}
	return nil
}

// InputFromTodo pre-fills a form with the todo's current state.
func InputFromTodo(todo *domain.Todo) TodoInput {
	in := TodoInput{
		Title:     todo.Title,
		Memo:      todo.Memo,
		Important: todo.Important,
	}
	if todo.DueDate != nil {
		in.DueDate = todo.DueDate.Format(DateLayout)
	}
	if todo.CompletedAt != nil {
		in.CompletedAt = todo.CompletedAt.UTC().Format(DateLayout)
	}
	return in
}

func sameDay(d time.Time, t *time.Time) bool {
	if t == nil {
		return false
	}
	y1, m1, d1 := d.UTC().Date()
	y2, m2, d2 := t.UTC().Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}

func checkbox(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "on", "true", "1", "yes":
		return true
	}
	return false
}

func parseDate(field, v string) (*time.Time, error) {
	if v == "" {
		return nil, nil
	}
	d, err := time.Parse(DateLayout, v)
	if err != nil {
		return nil, domain.NewValidationError(field, "must be a valid date (YYYY-MM-DD)")
	}
	return &d, nil
}

func rejectUnknown(values url.Values, allowed, ignored map[string]bool) error {
	var unknown []string
	for key := range values {
		if !allowed[key] && !ignored[key] {
			unknown = append(unknown, key)
		}
	}
	if len(unknown) == 0 {
		return nil
	}
	sort.Strings(unknown)
	return &domain.ValidationError{Message: fmt.Sprintf("unrecognized field(s): %s", strings.Join(unknown, ", "))}
}

// translate turns the first validator failure into a ValidationError with
// a sentence a user can act on.
func translate(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return &domain.ValidationError{Message: "bad input data, please try again"}
	}
	fe := verrs[0]
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return domain.NewValidationError(field, "is required")
	case "max":
		return domain.NewValidationError(field, "must be at most %s characters", fe.Param())
	case "datetime":
		return domain.NewValidationError(field, "must be a valid date (YYYY-MM-DD)")
	case "eqfield":
		return domain.ErrPasswordMismatch
	case "username":
		return domain.NewValidationError(field, "may contain only letters, digits and @/./+/-/_")
	default:
		return domain.NewValidationError(field, "is invalid")
	}
}
