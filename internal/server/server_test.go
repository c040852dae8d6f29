package server

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/Tomlord1122/todo-tracker/internal/repository/repotest"
	"github.com/Tomlord1122/todo-tracker/internal/service"
)

type testApp struct {
	handler  http.Handler
	todos    *repotest.TodoRepository
	users    *repotest.UserRepository
	sessions *repotest.SessionStore
	clock    time.Time
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	return newTestAppWith(t, slog.New(slog.NewTextHandler(io.Discard, nil)), nil)
}

func newTestAppWith(t *testing.T, logger *slog.Logger, origins []string) *testApp {
	t.Helper()

	app := &testApp{
		todos:    repotest.NewTodoRepository(),
		users:    repotest.NewUserRepository(),
		sessions: repotest.NewSessionStore(),
		clock:    time.Date(2024, 3, 1, 8, 30, 0, 0, time.UTC),
	}

	views, err := NewRenderer()
	require.NoError(t, err)

	srv := &Server{
		todoService: service.NewTodoService(app.todos, func() time.Time { return app.clock }, logger),
		authService: service.NewAuthService(app.users, app.sessions, logger),
		db:          &fakeDB{status: "up"},
		views:       views,
		cookies:     cookieSettings{name: "todo_session", maxAge: time.Hour},
		origins:     origins,
		logger:      logger,
	}
	app.handler = srv.RegisterRoutes()
	return app
}

type fakeDB struct {
	status string
}

func (f *fakeDB) Health() map[string]string       { return map[string]string{"status": f.status} }
func (f *fakeDB) Migrate(context.Context) error { return nil }
func (f *fakeDB) Close() error                  { return nil }
func (f *fakeDB) GetDB() *gorm.DB               { return nil }

func (a *testApp) do(t *testing.T, method, path string, form url.Values, cookie *http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}
	req := httptest.NewRequest(method, path, body)
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	if cookie != nil {
		req.AddCookie(cookie)
	}
	rec := httptest.NewRecorder()
	a.handler.ServeHTTP(rec, req)
	return rec
}

func sessionCookie(t *testing.T, rec *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range rec.Result().Cookies() {
		if c.Name == "todo_session" && c.Value != "" {
			return c
		}
	}
	t.Fatalf("no session cookie in response")
	return nil
}

func (a *testApp) signup(t *testing.T, username string) *http.Cookie {
	t.Helper()
	rec := a.do(t, http.MethodPost, "/signup", url.Values{
		"username": {username}, "password1": {"s3cret-pw"}, "password2": {"s3cret-pw"},
	}, nil)
	require.Equal(t, http.StatusSeeOther, rec.Code, rec.Body.String())
	return sessionCookie(t, rec)
}

func (a *testApp) createTodo(t *testing.T, cookie *http.Cookie, form url.Values) {
	t.Helper()
	rec := a.do(t, http.MethodPost, "/create", form, cookie)
	require.Equal(t, http.StatusSeeOther, rec.Code, rec.Body.String())
	require.Equal(t, "/current", rec.Header().Get("Location"))
}
