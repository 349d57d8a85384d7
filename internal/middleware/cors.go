package middleware

import (
	"net/http"
	"slices"
	"strings"

	"github.com/rs/cors"
)

// CORS adds Access-Control headers for allowed origins and answers preflight
// requests. A "*" entry allows every origin; the request origin is echoed back
// in that case so credentialed requests keep working.
func CORS(allowedOrigins []string, next http.Handler) http.Handler {
	opts := cors.Options{
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           600,
	}
	if slices.Contains(allowedOrigins, "*") {
		opts.AllowOriginFunc = func(string) bool { return true }
	} else {
		for _, origin := range allowedOrigins {
			opts.AllowedOrigins = append(opts.AllowedOrigins, strings.TrimRight(origin, "/"))
		}
	}
	return cors.New(opts).Handler(next)
}
