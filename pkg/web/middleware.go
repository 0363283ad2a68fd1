package web

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/marambaia/drawdex/pkg/logging"
	"github.com/marambaia/drawdex/pkg/session"
)

// securityHeadersMiddleware adds standard security headers to responses.
func (s *Server) securityHeadersMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		headers := w.Header()
		headers.Set("X-Content-Type-Options", "nosniff")
		headers.Set("X-Frame-Options", "DENY")
		headers.Set("Referrer-Policy", "strict-origin-when-cross-origin")
		next.ServeHTTP(w, r)
	})
}

// corsMiddleware adds CORS headers based on the allowed origins configuration.
func (s *Server) corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if origin != "" && s.isOriginAllowed(origin) {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Credentials", "true")
		}
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) isOriginAllowed(origin string) bool {
	origin = strings.TrimRight(strings.TrimSpace(origin), "/")
	for _, allowed := range s.cfg.Server.AllowedOrigins {
		allowed = strings.TrimRight(strings.TrimSpace(allowed), "/")
		if allowed == "*" || strings.EqualFold(allowed, origin) {
			return true
		}
	}
	return false
}

// sessionMiddleware attaches the login session from the cookie if present
// and not expired. Expired sessions are deleted on sight, so a stale cookie
// behaves exactly like no cookie.
func (s *Server) sessionMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess := s.sessionFromCookie(r)
		if sess != nil {
			ctx := context.WithValue(r.Context(), sessionContextKey, sess)
			next.ServeHTTP(w, r.WithContext(ctx))
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) sessionFromCookie(r *http.Request) *session.Session {
	cookie, err := r.Cookie(s.cookieName())
	if err != nil || cookie.Value == "" {
		return nil
	}

	sess, err := s.sessions.GetSession(cookie.Value)
	if err != nil {
		s.logger.Error(logging.CategorySession, "lookup_failed", "", map[string]any{
			"error": err.Error(),
		})
		return nil
	}
	if sess == nil {
		return nil
	}

	if session.IsExpired(*sess, s.clock(), s.sessionTTL()) {
		if err := s.sessions.DeleteSession(sess.ID); err != nil {
			s.logger.Error(logging.CategorySession, "delete_failed", "", map[string]any{
				"error": err.Error(),
			})
		}
		s.logger.Info(logging.CategorySession, "expired", "", map[string]any{
			"identifier": string(sess.Identifier),
		})
		return nil
	}

	if err := s.sessions.TouchSession(sess.ID); err != nil {
		s.logger.Warn(logging.CategorySession, "touch_failed", "", map[string]any{
			"error": err.Error(),
		})
	}
	return sess
}

// requireSession rejects unauthenticated requests.
func (s *Server) requireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if sessionFromContext(r.Context()) == nil {
			respondError(w, http.StatusUnauthorized, errors.New("authentication required"))
			return
		}
		next.ServeHTTP(w, r)
	})
}

func sessionFromContext(ctx context.Context) *session.Session {
	sess, _ := ctx.Value(sessionContextKey).(*session.Session)
	return sess
}
