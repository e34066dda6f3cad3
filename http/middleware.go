package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/sagarc03/galleria"
)

// TokenAuthenticator checks a session token against the expected credentials.
// *galleria.SessionCodec implements it.
type TokenAuthenticator interface {
	Authenticate(token string, want galleria.Credentials) error
}

// SessionConfig describes how requests prove they are logged in.
type SessionConfig struct {
	CookieName  string
	Credentials galleria.Credentials
	Tokens      TokenAuthenticator
}

// HasSession reports whether r carries a valid session cookie for cfg.
func HasSession(r *http.Request, cfg SessionConfig) bool {
	c, err := r.Cookie(cfg.CookieName)
	if err != nil {
		return false
	}

	if err := cfg.Tokens.Authenticate(c.Value, cfg.Credentials); err != nil {
		slog.Debug("session rejected", "err", err, "expired", galleria.IsExpired(err))
		return false
	}

	return true
}

// SessionMiddleware redirects requests without a valid session to the login
// page. Auth failures never produce an error response.
func SessionMiddleware(cfg SessionConfig) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !HasSession(r, cfg) {
				http.Redirect(w, r, "/login", http.StatusFound)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// RequestLogger logs one line per request through slog.
func RequestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()

		defer func() {
			slog.Info("request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration", time.Since(start),
				"remote", r.RemoteAddr,
				"request_id", middleware.GetReqID(r.Context()),
			)
		}()

		next.ServeHTTP(ww, r)
	})
}
