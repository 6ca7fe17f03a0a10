package server

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"blog/internal/auth"
	domainerrors "blog/internal/errors"
	"blog/internal/forms"
	"blog/internal/models"
)

// handleIndex renders the home page with the five most recent posts and a
// login form.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	posts, err := s.store.ListLatestPosts(r.Context(), 5)
	if err != nil {
		s.logger.Error("list latest posts", "error", err)
		http.Error(w, "error", http.StatusInternalServerError)
		return
	}
	s.render(w, "index", map[string]any{
		"Posts": posts,
		"User":  s.currentUser(r),
		"Flash": popFlash(w, r),
	})
}

// handleLogin validates credentials and establishes a session. Non-POST
// requests are redirected home without action. The failure notice never
// distinguishes an unknown username from a wrong password.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	form := forms.LoginFromRequest(r)
	if err := forms.Validate(form); err != nil {
		setFlash(w, "Invalid login information")
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	user, err := s.store.GetUserByUsername(r.Context(), form.Username)
	if err != nil || !auth.CheckPassword(user.PasswordHash, form.Password) {
		setFlash(w, "Invalid login information")
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	if err := s.startSession(w, r, user); err != nil {
		s.logger.Error("create session", "user", user.Username, "error", err)
		http.Error(w, "could not create session", http.StatusInternalServerError)
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// handleLogout unconditionally terminates the session.
func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(s.CookieName); err == nil {
		if err := s.store.RevokeSession(r.Context(), cookie.Value); err != nil {
			s.logger.Error("revoke session", "error", err)
		}
		http.SetCookie(w, &http.Cookie{Name: s.CookieName, Path: "/", MaxAge: -1, HttpOnly: true})
	}
	setFlash(w, "You are now logged out")
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// handleNewUser renders the registration form on GET and creates a user on
// POST. A malformed submission is rejected outright rather than redirected;
// a successful one immediately authenticates a session for the new user.
func (s *Server) handleNewUser(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.render(w, "new_user", map[string]any{
			"User":  s.currentUser(r),
			"Flash": popFlash(w, r),
		})
		return
	}

	form := forms.RegisterFromRequest(r)
	if err := forms.Validate(form); err != nil {
		http.Error(w, "Invalid User", http.StatusForbidden)
		return
	}

	hash, err := auth.HashPassword(form.Password)
	if err != nil {
		s.logger.Error("hash password", "error", err)
		http.Error(w, "error", http.StatusInternalServerError)
		return
	}

	user, err := s.store.CreateUser(r.Context(), form.Username, hash, form.FirstName, form.LastName, form.Email)
	if err != nil {
		if domainerrors.Is(err, domainerrors.ErrAlreadyExists) {
			http.Error(w, "Invalid User", http.StatusForbidden)
			return
		}
		s.logger.Error("create user", "username", form.Username, "error", err)
		http.Error(w, "error", http.StatusInternalServerError)
		return
	}

	if err := s.startSession(w, r, user); err != nil {
		s.logger.Error("create session", "user", user.Username, "error", err)
		http.Error(w, "could not create session", http.StatusInternalServerError)
		return
	}
	setFlash(w, "Welcome "+user.Username)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// handleNewPost renders the creation form on GET and creates a post on
// POST. Tag labels are deduplicated before lookup so repeated labels in the
// input never produce duplicate rows or associations.
func (s *Server) handleNewPost(w http.ResponseWriter, r *http.Request, user *models.User) {
	if r.Method != http.MethodPost {
		s.render(w, "new_post", map[string]any{
			"User":  user,
			"Flash": popFlash(w, r),
		})
		return
	}

	form := forms.PostFromRequest(r)
	if err := forms.Validate(form); err != nil {
		setFlash(w, "Invalid post")
		http.Redirect(w, r, "/new_post", http.StatusSeeOther)
		return
	}

	ctx := r.Context()
	tags, err := s.store.FindOrCreateTags(ctx, form.Labels())
	if err != nil {
		s.logger.Error("resolve tags", "error", err)
		http.Error(w, "could not create post", http.StatusInternalServerError)
		return
	}
	category, err := s.store.FindOrCreateCategory(ctx, form.Category)
	if err != nil {
		s.logger.Error("resolve category", "name", form.Category, "error", err)
		http.Error(w, "could not create post", http.StatusInternalServerError)
		return
	}

	tagIDs := make([]int, len(tags))
	for i, t := range tags {
		tagIDs[i] = t.ID
	}
	if _, err := s.store.CreatePost(ctx, user.ID, category.ID, form.Title, form.Body, time.Now(), tagIDs); err != nil {
		s.logger.Error("create post", "user", user.Username, "error", err)
		http.Error(w, "could not create post", http.StatusInternalServerError)
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// handleViewUser renders a user's page.
func (s *Server) handleViewUser(w http.ResponseWriter, r *http.Request) {
	user, err := s.store.GetUserByUsername(r.Context(), chi.URLParam(r, "username"))
	if err != nil {
		http.NotFound(w, r)
		return
	}
	posts, err := s.store.ListPostsByUser(r.Context(), user.ID)
	if err != nil {
		s.logger.Error("list posts by user", "user", user.Username, "error", err)
		http.Error(w, "error", http.StatusInternalServerError)
		return
	}
	s.render(w, "user", map[string]any{
		"Profile": user,
		"Posts":   posts,
		"User":    s.currentUser(r),
		"Flash":   popFlash(w, r),
	})
}

// handleViewPost renders a post with its comments and an empty comment form.
func (s *Server) handleViewPost(w http.ResponseWriter, r *http.Request) {
	id := atoi(chi.URLParam(r, "id"))
	if id == 0 {
		http.NotFound(w, r)
		return
	}
	post, err := s.store.GetPost(r.Context(), id)
	if err != nil {
		http.NotFound(w, r)
		return
	}
	comments, err := s.store.ListCommentsByPost(r.Context(), id)
	if err != nil {
		s.logger.Error("list comments", "post", id, "error", err)
		http.Error(w, "error", http.StatusInternalServerError)
		return
	}
	s.render(w, "post", map[string]any{
		"Post":     post,
		"Comments": comments,
		"User":     s.currentUser(r),
		"Flash":    popFlash(w, r),
	})
}

// handleViewTag renders the posts carrying a tag.
func (s *Server) handleViewTag(w http.ResponseWriter, r *http.Request) {
	tag, err := s.store.GetTagByLabel(r.Context(), chi.URLParam(r, "name"))
	if err != nil {
		http.NotFound(w, r)
		return
	}
	posts, err := s.store.ListPostsByTag(r.Context(), tag.ID)
	if err != nil {
		s.logger.Error("list posts by tag", "tag", tag.Label, "error", err)
		http.Error(w, "error", http.StatusInternalServerError)
		return
	}
	s.render(w, "tag", map[string]any{
		"Tag":   tag,
		"Posts": posts,
		"User":  s.currentUser(r),
		"Flash": popFlash(w, r),
	})
}

// handleViewCategory renders the posts in a category.
func (s *Server) handleViewCategory(w http.ResponseWriter, r *http.Request) {
	category, err := s.store.GetCategoryByName(r.Context(), chi.URLParam(r, "name"))
	if err != nil {
		http.NotFound(w, r)
		return
	}
	posts, err := s.store.ListPostsByCategory(r.Context(), category.ID)
	if err != nil {
		s.logger.Error("list posts by category", "category", category.Name, "error", err)
		http.Error(w, "error", http.StatusInternalServerError)
		return
	}
	s.render(w, "category", map[string]any{
		"Category": category,
		"Posts":    posts,
		"User":     s.currentUser(r),
		"Flash":    popFlash(w, r),
	})
}

// handlePostComment creates a comment on a post. The target post must exist
// whatever the session state; unauthenticated submissions create nothing
// and bounce back to the post view.
func (s *Server) handlePostComment(w http.ResponseWriter, r *http.Request) {
	id := atoi(chi.URLParam(r, "id"))
	if r.Method != http.MethodPost {
		http.Redirect(w, r, "/post/"+itoa(id), http.StatusSeeOther)
		return
	}
	if _, err := s.store.GetPost(r.Context(), id); err != nil {
		http.NotFound(w, r)
		return
	}

	user := s.currentUser(r)
	if user == nil {
		http.Redirect(w, r, "/post/"+itoa(id), http.StatusSeeOther)
		return
	}

	form := forms.CommentFromRequest(r)
	if err := forms.Validate(form); err != nil {
		setFlash(w, "Invalid comment")
		http.Redirect(w, r, "/post/"+itoa(id), http.StatusSeeOther)
		return
	}

	if err := s.store.CreateComment(r.Context(), id, user.ID, form.Body, time.Now()); err != nil {
		s.logger.Error("create comment", "post", id, "user", user.Username, "error", err)
		http.Error(w, "could not create comment", http.StatusInternalServerError)
		return
	}
	setFlash(w, "Comment Posted!")
	http.Redirect(w, r, "/post/"+itoa(id), http.StatusSeeOther)
}

// startSession creates a session row for the user and sets the cookie.
func (s *Server) startSession(w http.ResponseWriter, r *http.Request, user *models.User) error {
	sid := uuid.NewString()
	expires := time.Now().Add(s.SessionTTL)
	if err := s.store.CreateSession(r.Context(), user.ID, sid, expires); err != nil {
		return err
	}
	http.SetCookie(w, &http.Cookie{
		Name:     s.CookieName,
		Value:    sid,
		Path:     "/",
		Expires:  expires,
		HttpOnly: true,
	})
	return nil
}
