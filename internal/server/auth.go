package server

import (
	"errors"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/Tomlord1122/todo-tracker/internal/domain"
	"github.com/Tomlord1122/todo-tracker/internal/service"
)

type cookieSettings struct {
	name   string
	maxAge time.Duration
	secure bool
}

// authedHandlerFunc receives the caller's identity explicitly instead of
// digging it out of the request.
type authedHandlerFunc func(w http.ResponseWriter, r *http.Request, id service.Identity)

// authed guards a protected route: callers without a live session are sent
// to the login page and never reach h.
func (s *Server) authed(h authedHandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := s.identify(r)
		if err != nil {
			if !errors.Is(err, domain.ErrNotFound) {
				s.logger.Error("resolve session", "err", err)
				s.renderError(w, r, nil, http.StatusInternalServerError)
				return
			}
			s.clearSessionCookie(w)
			target := "/login?next=" + url.QueryEscape(r.URL.RequestURI())
			http.Redirect(w, r, target, http.StatusSeeOther)
			return
		}
		h(w, r, *id)
	}
}

// identify resolves the session cookie. Requests without one get
// domain.ErrNotFound.
func (s *Server) identify(r *http.Request) (*service.Identity, error) {
	c, err := r.Cookie(s.cookies.name)
	if err != nil || c.Value == "" {
		return nil, domain.ErrNotFound
	}
	return s.authService.CurrentUser(r.Context(), c.Value)
}

// optionalIdentity is identify for public pages, where a broken session
// just means anonymous.
func (s *Server) optionalIdentity(r *http.Request) *service.Identity {
	id, err := s.identify(r)
	if err != nil {
		return nil
	}
	return id
}

func (s *Server) setSessionCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     s.cookies.name,
		Value:    token,
		Path:     "/",
		MaxAge:   int(s.cookies.maxAge.Seconds()),
		HttpOnly: true,
		Secure:   s.cookies.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func (s *Server) clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     s.cookies.name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   s.cookies.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// safeNext keeps post-login redirects on this site.
func safeNext(next string) string {
	if next == "" || !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.Contains(next, `\`) {
		return "/current"
	}
	return next
}
