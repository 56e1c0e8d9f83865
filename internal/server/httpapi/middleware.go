package httpapi

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/dmitrijs2005/workboard/internal/common"
	"github.com/dmitrijs2005/workboard/internal/server/auth"
	"github.com/dmitrijs2005/workboard/internal/server/services"
)

const sessionCookieName = "workboard_session"

type ctxKey int

const sessionCtxKey ctxKey = iota

// sessionFromContext returns the acting session, or the zero Session when
// the request is anonymous.
func sessionFromContext(ctx context.Context) services.Session {
	if sess, ok := ctx.Value(sessionCtxKey).(services.Session); ok {
		return sess
	}
	return services.Session{}
}

// requestToken extracts the bearer token from the Authorization header,
// falling back to the session cookie.
func requestToken(r *http.Request) string {
	if h := r.Header.Get("Authorization"); strings.HasPrefix(h, "Bearer ") {
		return strings.TrimPrefix(h, "Bearer ")
	}
	if c, err := r.Cookie(sessionCookieName); err == nil {
		return c.Value
	}
	return ""
}

// withSession resolves the request's token to a live server-side session and
// stores it in the context. A missing, invalid or expired token leaves the
// request anonymous; handlers that need an identity wrap with requireAuth.
func (s *Server) withSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := requestToken(r)
		if token == "" {
			next.ServeHTTP(w, r)
			return
		}

		claims, err := auth.ParseToken(token, s.jwtSecret)
		if err != nil {
			next.ServeHTTP(w, r)
			return
		}

		if _, err := s.sessions.Get(r.Context(), claims.SessionID); err != nil {
			if !errors.Is(err, common.ErrorNotFound) {
				s.logger.Error(r.Context(), "failed to load session", "error", err.Error())
				s.writeError(w, http.StatusInternalServerError, "internal error")
				return
			}
			// Token outlived its server-side session.
			next.ServeHTTP(w, r)
			return
		}

		sess := services.Session{ID: claims.SessionID, UserID: claims.UserID}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), sessionCtxKey, sess)))
	})
}

// requireAuth rejects anonymous requests before they reach the handler.
func (s *Server) requireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if sessionFromContext(r.Context()).ID == "" {
			s.writeError(w, http.StatusUnauthorized, "You must be logged in")
			return
		}
		next(w, r)
	}
}

// logRequests emits one structured line per request.
func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		next.ServeHTTP(w, r)
		s.logger.Debug(r.Context(), "request handled", "method", r.Method, "path", r.URL.Path)
	})
}
