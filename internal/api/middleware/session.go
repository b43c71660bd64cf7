package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"regexp"

	"github.com/google/uuid"
)

type sessionContextKey struct{}

const (
	SessionHeader     = "X-Session-ID"
	DefaultCookieName = "hweibo_session"
)

var validSessionID = regexp.MustCompile(`^[A-Za-z0-9_-]{8,128}$`)

type SessionMiddleware struct {
	cookieName string
	secure     bool
}

func NewSessionMiddleware(cookieName string, secure bool) *SessionMiddleware {
	if cookieName == "" {
		cookieName = DefaultCookieName
	}
	return &SessionMiddleware{cookieName: cookieName, secure: secure}
}

// Identify attaches a session id to the request. It takes the X-Session-ID
// header first, then the session cookie, and otherwise issues a new id and
// sets the cookie.
func (m *SessionMiddleware) Identify(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {

		logger := LoggerFromContext(r.Context())

		id := r.Header.Get(SessionHeader)
		if id == "" {
			if c, err := r.Cookie(m.cookieName); err == nil {
				id = c.Value
			}
		}

		if !validSessionID.MatchString(id) {
			if id != "" {
				logger.Warn("Ignoring malformed session id")
			}
			id = uuid.NewString()
			http.SetCookie(w, &http.Cookie{
				Name:     m.cookieName,
				Value:    id,
				Path:     "/",
				HttpOnly: true,
				Secure:   m.secure,
				SameSite: http.SameSiteLaxMode,
			})
		}

		w.Header().Set(SessionHeader, id)

		logger = logger.With(slog.String("session_id", id))
		ctx := context.WithValue(WithLogger(r.Context(), logger), sessionContextKey{}, id)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func WithSessionID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, sessionContextKey{}, id)
}

func SessionIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(sessionContextKey{}).(string)
	return id, ok && id != ""
}
