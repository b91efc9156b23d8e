package middleware

import (
	"context"
	"net/http"
	"strings"

	"dog-adoption-search/internal/session"
)

type ctxKey string

const sessionKey ctxKey = "session"

const (
	SessionCookie = "dogsearch_session"
	SessionHeader = "X-Session-ID"
)

// SessionContext:
// - Busca el id en la cookie de sesión y, si no está, en el header X-Session-ID.
// - Si la sesión existe (y no expiró) la deja en el context.
// - Si no hay sesión, el request sigue igual; los handlers decidirán si exigen auth.
func SessionContext(sessions *session.Manager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := SessionID(r)
			if id == "" || sessions == nil {
				next.ServeHTTP(w, r)
				return
			}

			sess, ok := sessions.Get(id)
			if !ok {
				next.ServeHTTP(w, r)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithSession(r.Context(), sess)))
		})
	}
}

// SessionID extrae el id de sesión del request (cookie primero).
func SessionID(r *http.Request) string {
	if c, err := r.Cookie(SessionCookie); err == nil {
		if v := strings.TrimSpace(c.Value); v != "" {
			return v
		}
	}
	return strings.TrimSpace(r.Header.Get(SessionHeader))
}

func WithSession(ctx context.Context, s *session.Session) context.Context {
	return context.WithValue(ctx, sessionKey, s)
}

func GetSession(ctx context.Context) (*session.Session, bool) {
	v := ctx.Value(sessionKey)
	if v == nil {
		return nil, false
	}
	s, ok := v.(*session.Session)
	return s, ok && s != nil
}
