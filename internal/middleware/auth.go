package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/hongminglow/jbudget-be/internal/auth"
	"github.com/hongminglow/jbudget-be/internal/http/respond"
	"github.com/hongminglow/jbudget-be/internal/storage"
)

// Authenticate returns middleware that requires a valid access token in the
// Authorization header and attaches the token's user to the request context.
func Authenticate(tokens *auth.TokenManager, users storage.UserStore, log logrus.FieldLogger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw, ok := bearerToken(r)
			if !ok {
				respond.Error(w, http.StatusUnauthorized, "No token, authorization denied")
				return
			}
			userID, err := tokens.Parse(raw, auth.AccessToken)
			if err != nil {
				respond.Error(w, http.StatusUnauthorized, "Token is not valid")
				return
			}
			user, err := users.FindUserByID(r.Context(), userID)
			if err != nil {
				if errors.Is(err, storage.ErrNotFound) {
					respond.Error(w, http.StatusUnauthorized, "User not found")
					return
				}
				log.WithError(err).WithField("user_id", userID).Error("authenticate: load user")
				respond.Error(w, http.StatusInternalServerError, "Server error")
				return
			}
			ctx := auth.WithSession(r.Context(), auth.Session{User: user})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
