package server

import (
	"errors"
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/Tomlord1122/todo-tracker/internal/domain"
	"github.com/Tomlord1122/todo-tracker/internal/form"
	"github.com/Tomlord1122/todo-tracker/internal/service"
)

const activeListPath = "/current"

func (s *Server) createTodoFormHandler(w http.ResponseWriter, r *http.Request, id service.Identity) {
	s.render(w, r, http.StatusOK, "create", view{User: &id, Form: form.TodoInput{}})
}

func (s *Server) createTodoHandler(w http.ResponseWriter, r *http.Request, id service.Identity) {
	values, ok := s.parseForm(w, r)
	if !ok {
		s.render(w, r, http.StatusBadRequest, "create", view{User: &id, Form: form.TodoInput{}, Error: badInput})
		return
	}

	in, payload, err := form.ParseTodo(values)
	if err == nil {
		_, err = s.todoService.CreateTodo(r.Context(), id, payload)
		if err == nil {
			http.Redirect(w, r, activeListPath, http.StatusSeeOther)
			return
		}
	}

	if isValidation(err) {
		s.render(w, r, http.StatusBadRequest, "create", view{User: &id, Form: in, Error: err.Error()})
		return
	}
	s.logger.Error("create todo", "err", err, "user_id", id.UserID)
	s.renderError(w, r, &id, http.StatusInternalServerError)
}

func (s *Server) activeTodosHandler(w http.ResponseWriter, r *http.Request, id service.Identity) {
	todos, err := s.todoService.ListActive(r.Context(), id)
	if err != nil {
		s.logger.Error("list active todos", "err", err, "user_id", id.UserID)
		s.renderError(w, r, &id, http.StatusInternalServerError)
		return
	}
	s.render(w, r, http.StatusOK, "current", view{User: &id, Todos: todos})
}

func (s *Server) completedTodosHandler(w http.ResponseWriter, r *http.Request, id service.Identity) {
	todos, err := s.todoService.ListCompleted(r.Context(), id)
	if err != nil {
		s.logger.Error("list completed todos", "err", err, "user_id", id.UserID)
		s.renderError(w, r, &id, http.StatusInternalServerError)
		return
	}
	s.render(w, r, http.StatusOK, "completed", view{User: &id, Todos: todos})
}

func (s *Server) viewTodoHandler(w http.ResponseWriter, r *http.Request, id service.Identity) {
	todoID, ok := todoIDParam(r)
	if !ok {
		s.renderError(w, r, &id, http.StatusNotFound)
		return
	}

	todo, err := s.todoService.GetTodo(r.Context(), id, todoID)
	if err != nil {
		s.handleTodoError(w, r, id, err, "get todo")
		return
	}
	s.render(w, r, http.StatusOK, "view", view{User: &id, Todo: todo, Form: form.InputFromTodo(todo)})
}

func (s *Server) editTodoHandler(w http.ResponseWriter, r *http.Request, id service.Identity) {
	todoID, ok := todoIDParam(r)
	if !ok {
		s.renderError(w, r, &id, http.StatusNotFound)
		return
	}

	todo, err := s.todoService.GetTodo(r.Context(), id, todoID)
	if err != nil {
		s.handleTodoError(w, r, id, err, "get todo")
		return
	}

	values, ok := s.parseForm(w, r)
	if !ok {
		s.render(w, r, http.StatusBadRequest, "view", view{User: &id, Todo: todo, Form: form.InputFromTodo(todo), Error: badInput})
		return
	}

	in, payload, err := form.ParseTodo(values)
	if err == nil {
		_, err = s.todoService.UpdateTodo(r.Context(), id, todoID, payload)
		if err == nil {
			http.Redirect(w, r, activeListPath, http.StatusSeeOther)
			return
		}
	}

	if isValidation(err) {
		s.render(w, r, http.StatusBadRequest, "view", view{User: &id, Todo: todo, Form: in, Error: err.Error()})
		return
	}
	s.handleTodoError(w, r, id, err, "update todo")
}

func (s *Server) completeTodoHandler(w http.ResponseWriter, r *http.Request, id service.Identity) {
	todoID, ok := todoIDParam(r)
	if !ok {
		s.renderError(w, r, &id, http.StatusNotFound)
		return
	}
	if _, err := s.todoService.CompleteTodo(r.Context(), id, todoID); err != nil {
		s.handleTodoError(w, r, id, err, "complete todo")
		return
	}
	http.Redirect(w, r, activeListPath, http.StatusSeeOther)
}

func (s *Server) deleteTodoHandler(w http.ResponseWriter, r *http.Request, id service.Identity) {
	todoID, ok := todoIDParam(r)
	if !ok {
		s.renderError(w, r, &id, http.StatusNotFound)
		return
	}
	if err := s.todoService.DeleteTodo(r.Context(), id, todoID); err != nil {
		s.handleTodoError(w, r, id, err, "delete todo")
		return
	}
	http.Redirect(w, r, activeListPath, http.StatusSeeOther)
}

// handleTodoError maps a lookup failure to a page. A todo that is missing
// and one owned by someone else both render the same 404.
func (s *Server) handleTodoError(w http.ResponseWriter, r *http.Request, id service.Identity, err error, op string) {
	if errors.Is(err, domain.ErrNotFound) {
		s.renderError(w, r, &id, http.StatusNotFound)
		return
	}
	s.logger.Error(op, "err", err, "user_id", id.UserID)
	s.renderError(w, r, &id, http.StatusInternalServerError)
}

const badInput = "Bad input data. Please try again."

func (s *Server) parseForm(w http.ResponseWriter, r *http.Request) (url.Values, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, maxFormBytes)
	if err := r.ParseForm(); err != nil {
		return nil, false
	}
	return r.PostForm, true
}

// todoIDParam reads {id}. Malformed ids are treated like unknown ones.
func todoIDParam(r *http.Request) (uint, bool) {
	id, err := strconv.ParseUint(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}
