// Package server wires the HTTP routes to handlers over the store.
package server

import (
	"html/template"
	"log/slog"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"blog/internal/models"
	"blog/internal/store"
)

// Server holds dependencies for the HTTP handlers.
type Server struct {
	store      *store.Store
	tmpl       map[string]*template.Template
	router     *chi.Mux
	logger     *slog.Logger
	CookieName string
	SessionTTL time.Duration
}

// New parses the templates and configures the routes.
func New(st *store.Store, templateDir string, sessionTTL time.Duration, logger *slog.Logger) (*Server, error) {
	templates := map[string]*template.Template{}
	layout := filepath.Join(templateDir, "layout.html")
	pages, err := filepath.Glob(filepath.Join(templateDir, "*.html"))
	if err != nil {
		return nil, err
	}
	for _, page := range pages {
		if filepath.Base(page) == "layout.html" {
			continue
		}
		t, err := template.ParseFiles(layout, page)
		if err != nil {
			return nil, err
		}
		name := strings.TrimSuffix(filepath.Base(page), ".html")
		templates[name] = t
	}

	s := &Server{
		store:      st,
		tmpl:       templates,
		router:     chi.NewRouter(),
		logger:     logger,
		CookieName: "session_id",
		SessionTTL: sessionTTL,
	}
	s.setupRoutes()
	return s, nil
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) setupRoutes() {
	s.router.Use(middleware.Recoverer)

	s.router.Get("/", s.handleIndex)
	s.router.HandleFunc("/login", s.handleLogin)
	s.router.HandleFunc("/logout", s.handleLogout)
	s.router.HandleFunc("/new_user.html", s.handleNewUser)
	s.router.HandleFunc("/new_post", s.requireAuth(s.handleNewPost))
	s.router.Get("/user/{username}", s.handleViewUser)
	s.router.Get("/post/{id}", s.handleViewPost)
	s.router.Get("/tag/{name}", s.handleViewTag)
	s.router.Get("/category/{name}", s.handleViewCategory)
	s.router.HandleFunc("/post_comment/{id}", s.handlePostComment)
}

func (s *Server) render(w http.ResponseWriter, name string, data map[string]any) {
	t, ok := s.tmpl[name]
	if !ok {
		http.Error(w, "template not found", http.StatusInternalServerError)
		return
	}
	if err := t.ExecuteTemplate(w, "layout", data); err != nil {
		s.logger.Error("render template", "template", name, "error", err)
	}
}

// requireAuth resolves the session and redirects unauthenticated requests
// to the home page.
func (s *Server) requireAuth(next func(http.ResponseWriter, *http.Request, *models.User)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := s.currentUser(r)
		if user == nil {
			http.Redirect(w, r, "/", http.StatusSeeOther)
			return
		}
		next(w, r, user)
	}
}

// currentUser resolves the session cookie to a user, rejecting expired and
// revoked sessions. Returns nil when the request is unauthenticated.
func (s *Server) currentUser(r *http.Request) *models.User {
	cookie, err := r.Cookie(s.CookieName)
	if err != nil {
		return nil
	}
	sess, err := s.store.GetSession(r.Context(), cookie.Value)
	if err != nil || sess.RevokedAt != nil || sess.ExpiresAt.Before(time.Now()) {
		return nil
	}
	user, err := s.store.GetUserByID(r.Context(), sess.UserID)
	if err != nil {
		return nil
	}
	return user
}

func atoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}

func itoa(i int) string {
	return strconv.Itoa(i)
}
