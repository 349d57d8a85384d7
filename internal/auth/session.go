package auth

import (
	"context"

	"github.com/hongminglow/jbudget-be/internal/models"
)

type contextKey string

const sessionKey contextKey = "session"

// Session is the authenticated caller of a request.
type Session struct {
	User models.User
}

// WithSession returns a copy of ctx carrying s.
func WithSession(ctx context.Context, s Session) context.Context {
	return context.WithValue(ctx, sessionKey, s)
}

// SessionFrom extracts the session placed by the authentication middleware.
func SessionFrom(ctx context.Context) (Session, bool) {
	s, ok := ctx.Value(sessionKey).(Session)
	return s, ok
}
