package server

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// maxFormBytes caps submitted form bodies.
const maxFormBytes = 1 << 20

func (s *Server) RegisterRoutes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.RequestLogger(&requestLogger{logger: s.logger}))
	r.Use(middleware.Recoverer)
	r.Use(middleware.GetHead)

	// cors treats an empty origin list as "allow all", so cross-origin
	// access stays off unless origins are configured.
	if len(s.origins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   s.origins,
			AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Content-Type", "X-CSRF-Token"},
			ExposedHeaders:   []string{"Link"},
			AllowCredentials: true,
			MaxAge:           300,
		}))
	}

	r.NotFound(s.notFoundHandler)
	r.MethodNotAllowed(s.methodNotAllowedHandler)

	r.Get("/", s.homeHandler)
	r.Get("/health", s.healthHandler)

	r.Get("/signup", s.signupFormHandler)
	r.Post("/signup", s.signupHandler)
	r.Get("/login", s.loginFormHandler)
	r.Post("/login", s.loginHandler)
	r.Post("/logout", s.authed(s.logoutHandler))

	r.Get("/create", s.authed(s.createTodoFormHandler))
	r.Post("/create", s.authed(s.createTodoHandler))
	r.Get("/current", s.authed(s.activeTodosHandler))
	r.Get("/completed", s.authed(s.completedTodosHandler))

	r.Route("/todo/{id}", func(r chi.Router) {
		r.Get("/", s.authed(s.viewTodoHandler))
		r.Post("/", s.authed(s.editTodoHandler))
		r.Post("/complete", s.authed(s.completeTodoHandler))
		r.Post("/delete", s.authed(s.deleteTodoHandler))
	})

	return r
}

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	healthStats := s.db.Health()
	if status, ok := healthStats["status"]; ok && status == "down" {
		respondWithJSON(w, http.StatusServiceUnavailable, healthStats)
		return
	}
	respondWithJSON(w, http.StatusOK, healthStats)
}

func respondWithJSON(w http.ResponseWriter, code int, payload any) {
	response, err := json.Marshal(payload)
	if err != nil {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"Internal server error preparing response"}`))
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_, _ = w.Write(response)
}
