// Package forms defines the typed form inputs and their validation.
package forms

import (
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	domainerrors "blog/internal/errors"
)

// validate is the shared validator instance for form validation.
var validate = func() *validator.Validate {
	v := validator.New()
	// Use form tag names for field names in error details.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := fld.Tag.Get("form")
		if name == "" {
			return fld.Name
		}
		return name
	})
	return v
}()

// Login carries the credentials submitted to the login route.
type Login struct {
	Username string `form:"username" validate:"required"`
	Password string `form:"password" validate:"required"`
}

// Register carries the fields submitted when creating a user.
type Register struct {
	Username  string `form:"username" validate:"required"`
	FirstName string `form:"first_name" validate:"required"`
	LastName  string `form:"last_name" validate:"required"`
	Email     string `form:"email" validate:"required,email"`
	Password  string `form:"password" validate:"required"`
}

// Post carries the fields submitted when creating a post. Tags is a single
// string of space-separated labels.
type Post struct {
	Title    string `form:"title" validate:"required"`
	Category string `form:"category" validate:"required"`
	Body     string `form:"body" validate:"required"`
	Tags     string `form:"tags" validate:"required"`
}

// Comment carries the body submitted when commenting on a post.
type Comment struct {
	Body string `form:"body" validate:"required"`
}

// Labels splits the tags string on spaces, dropping empty labels produced
// by repeated spaces. Duplicates are preserved here; the store dedupes.
func (p Post) Labels() []string {
	var labels []string
	for _, label := range strings.Split(p.Tags, " ") {
		if label != "" {
			labels = append(labels, label)
		}
	}
	return labels
}

// LoginFromRequest reads a login form from the request.
func LoginFromRequest(r *http.Request) Login {
	return Login{
		Username: r.FormValue("username"),
		Password: r.FormValue("password"),
	}
}

// RegisterFromRequest reads a registration form from the request.
func RegisterFromRequest(r *http.Request) Register {
	return Register{
		Username:  r.FormValue("username"),
		FirstName: r.FormValue("first_name"),
		LastName:  r.FormValue("last_name"),
		Email:     r.FormValue("email"),
		Password:  r.FormValue("password"),
	}
}

// PostFromRequest reads a post form from the request.
func PostFromRequest(r *http.Request) Post {
	return Post{
		Title:    r.FormValue("title"),
		Category: r.FormValue("category"),
		Body:     r.FormValue("body"),
		Tags:     r.FormValue("tags"),
	}
}

// CommentFromRequest reads a comment form from the request.
func CommentFromRequest(r *http.Request) Comment {
	return Comment{Body: r.FormValue("body")}
}

// Validate checks a form struct and converts failures to a domain
// validation error with per-field details.
func Validate(form any) error {
	err := validate.Struct(form)
	if err == nil {
		return nil
	}
	var validationErrs validator.ValidationErrors
	if !domainerrors.As(err, &validationErrs) {
		return err
	}
	fields := make(map[string]string, len(validationErrs))
	for _, e := range validationErrs {
		fields[e.Field()] = friendlyMessage(e)
	}
	return domainerrors.ValidationWithDetails("validation failed", fields)
}

func friendlyMessage(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	default:
		return "is invalid"
	}
}
