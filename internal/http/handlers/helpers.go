package handlers

import (
	"encoding/json"
	"net/http"
	"regexp"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/hongminglow/jbudget-be/internal/auth"
	"github.com/hongminglow/jbudget-be/internal/http/respond"
	"github.com/hongminglow/jbudget-be/internal/models"
)

const maxBodyBytes = 1 << 20

var (
	emailRegex = regexp.MustCompile(`^[a-zA-Z0-9](\.?[a-zA-Z0-9_%+-])*@[a-zA-Z0-9-]+(\.[a-zA-Z0-9-]+)*\.[a-zA-Z]{2,}$`)
	colorRegex = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)
)

// fieldErrors collects validation failures in the order they were found.
type fieldErrors []respond.FieldError

func (f *fieldErrors) add(path, msg string) {
	*f = append(*f, respond.FieldError{Path: path, Msg: msg})
}

// decodeJSON reads the request body into dst, answering 400 itself on failure.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid JSON payload")
		return false
	}
	return true
}

// currentUser returns the user the auth middleware attached. Routes that call it
// are always wrapped by that middleware.
func currentUser(r *http.Request) models.User {
	s, _ := auth.SessionFrom(r.Context())
	return s.User
}

// serverError logs an unexpected failure and hides its details from the client.
func serverError(w http.ResponseWriter, r *http.Request, log logrus.FieldLogger, op string, err error) {
	entry := log.WithError(err).WithField("op", op)
	if s, ok := auth.SessionFrom(r.Context()); ok {
		entry = entry.WithField("user_id", s.User.ID)
	}
	entry.Error("request failed")
	respond.Error(w, http.StatusInternalServerError, "Server error")
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func validEmail(email string) bool {
	return len(email) <= 255 && emailRegex.MatchString(email)
}
