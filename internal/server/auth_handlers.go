package server

import (
	"errors"
	"net/http"

	"github.com/Tomlord1122/todo-tracker/internal/domain"
	"github.com/Tomlord1122/todo-tracker/internal/form"
	"github.com/Tomlord1122/todo-tracker/internal/service"
)

func (s *Server) homeHandler(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, http.StatusOK, "home", view{User: s.optionalIdentity(r)})
}

func (s *Server) signupFormHandler(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, http.StatusOK, "signup", view{})
}

func (s *Server) signupHandler(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxFormBytes)
	if err := r.ParseForm(); err != nil {
		s.render(w, r, http.StatusBadRequest, "signup", view{Error: "Bad input data. Please try again."})
		return
	}

	in, err := form.ParseSignup(r.PostForm)
	if err == nil {
		var id *service.Identity
		id, err = s.authService.Signup(r.Context(), in)
		if err == nil {
			s.setSessionCookie(w, id.Token)
			http.Redirect(w, r, "/current", http.StatusSeeOther)
			return
		}
	}

	msg, status := authErrorMessage(err)
	if status == http.StatusInternalServerError {
		s.logger.Error("signup", "err", err)
	}
	s.render(w, r, status, "signup", view{Error: msg, Form: signupEcho{Username: in.Username}})
}

func (s *Server) loginFormHandler(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, http.StatusOK, "login", view{Next: r.URL.Query().Get("next")})
}

func (s *Server) loginHandler(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxFormBytes)
	if err := r.ParseForm(); err != nil {
		s.render(w, r, http.StatusBadRequest, "login", view{Error: "Bad input data. Please try again."})
		return
	}
	next := r.PostForm.Get("next")

	in, err := form.ParseLogin(r.PostForm)
	if err == nil {
		var id *service.Identity
		id, err = s.authService.Login(r.Context(), in)
		if err == nil {
			s.setSessionCookie(w, id.Token)
			http.Redirect(w, r, safeNext(next), http.StatusSeeOther)
			return
		}
	}

	// Any login failure reads the same so the page does not reveal which
	// usernames exist.
	msg, status := "Incorrect username or password", http.StatusUnauthorized
	if !errors.Is(err, domain.ErrInvalidCredentials) && !isValidation(err) {
		s.logger.Error("login", "err", err)
		msg, status = "Something went wrong. Please try again.", http.StatusInternalServerError
	}
	s.render(w, r, status, "login", view{Error: msg, Next: next, Form: signupEcho{Username: in.Username}})
}

func (s *Server) logoutHandler(w http.ResponseWriter, r *http.Request, id service.Identity) {
	if err := s.authService.Logout(r.Context(), id.Token); err != nil {
		s.logger.Error("logout", "err", err, "user_id", id.UserID)
	}
	s.clearSessionCookie(w)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// signupEcho re-fills the username after a failed attempt. Passwords are
// never echoed.
type signupEcho struct {
	Username string
}

func authErrorMessage(err error) (string, int) {
	var verr *domain.ValidationError
	switch {
	case errors.Is(err, domain.ErrPasswordMismatch):
		return "Passwords did not match", http.StatusBadRequest
	case errors.Is(err, domain.ErrDuplicateUsername):
		return "That username has already been taken. Please choose a new one", http.StatusConflict
	case errors.As(err, &verr):
		return verr.Error(), http.StatusBadRequest
	default:
		return "Something went wrong. Please try again.", http.StatusInternalServerError
	}
}

func isValidation(err error) bool {
	var verr *domain.ValidationError
	return errors.As(err, &verr)
}
