package middleware_test

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/Gsweya/hweibo-prototype/internal/api/middleware"
	"github.com/Gsweya/hweibo-prototype/internal/utils/response"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func okHandler(seen *string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if seen != nil {
			*seen, _ = middleware.SessionIDFromContext(r.Context())
		}
		w.WriteHeader(http.StatusTeapot)
	})
}

func TestLogging(t *testing.T) {
	t.Run("Success - Keeps incoming correlation id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/cart", nil)
		req.Header.Set("X-Request-ID", "req-123")
		rr := httptest.NewRecorder()

		middleware.Logging(okHandler(nil)).ServeHTTP(rr, req)

		assert.Equal(t, "req-123", rr.Header().Get("X-Request-ID"))
		assert.Equal(t, http.StatusTeapot, rr.Code)
	})

	t.Run("Success - Generates correlation id", func(t *testing.T) {
		rr := httptest.NewRecorder()

		middleware.Logging(okHandler(nil)).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))

		assert.Len(t, rr.Header().Get("X-Request-ID"), 36)
	})

	t.Run("Success - Logger reaches the handler", func(t *testing.T) {
		var got bool
		next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, got = r.Context().Value(middleware.LoggerKey).(*slog.Logger)
		})

		middleware.Logging(next).ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

		assert.True(t, got)
	})
}

func TestSessionMiddleware(t *testing.T) {
	m := middleware.NewSessionMiddleware("", false)

	t.Run("Success - Header wins", func(t *testing.T) {
		var seen string
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(middleware.SessionHeader, "header-session-1")
		req.AddCookie(&http.Cookie{Name: middleware.DefaultCookieName, Value: "cookie-session-1"})
		rr := httptest.NewRecorder()

		m.Identify(okHandler(&seen)).ServeHTTP(rr, req)

		assert.Equal(t, "header-session-1", seen)
		assert.Empty(t, rr.Result().Cookies())
		assert.Equal(t, "header-session-1", rr.Header().Get(middleware.SessionHeader))
	})

	t.Run("Success - Cookie is used", func(t *testing.T) {
		var seen string
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.AddCookie(&http.Cookie{Name: middleware.DefaultCookieName, Value: "cookie-session-1"})

		m.Identify(okHandler(&seen)).ServeHTTP(httptest.NewRecorder(), req)

		assert.Equal(t, "cookie-session-1", seen)
	})

	t.Run("Success - New session issues a cookie", func(t *testing.T) {
		var seen string
		rr := httptest.NewRecorder()

		m.Identify(okHandler(&seen)).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))

		cookies := rr.Result().Cookies()
		require.Len(t, cookies, 1)
		assert.Equal(t, middleware.DefaultCookieName, cookies[0].Name)
		assert.Equal(t, seen, cookies[0].Value)
		assert.True(t, cookies[0].HttpOnly)
	})

	t.Run("Success - Malformed id is replaced", func(t *testing.T) {
		var seen string
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(middleware.SessionHeader, "../../etc/passwd")

		m.Identify(okHandler(&seen)).ServeHTTP(httptest.NewRecorder(), req)

		assert.NotEqual(t, "../../etc/passwd", seen)
		assert.Len(t, seen, 36)
	})
}

type fakeLimiter struct {
	allowed   bool
	remaining int
	retry     time.Duration
	err       error
	keys      []string
}

func (f *fakeLimiter) Allow(_ context.Context, key string) (bool, int, time.Duration, error) {
	f.keys = append(f.keys, key)
	return f.allowed, f.remaining, f.retry, f.err
}

type countingLimiter struct {
	limit int
	seen  map[string]int
}

func (c *countingLimiter) Allow(_ context.Context, key string) (bool, int, time.Duration, error) {
	if c.seen == nil {
		c.seen = make(map[string]int)
	}
	c.seen[key]++
	remaining := c.limit - c.seen[key]
	if remaining < 0 {
		return false, 0, time.Second, nil
	}
	return true, remaining, 0, nil
}

func TestRateLimit(t *testing.T) {
	t.Run("Success - Allowed request passes", func(t *testing.T) {
		limiter := &fakeLimiter{allowed: true, remaining: 4}
		req := httptest.NewRequest(http.MethodPost, "/api/search", nil)
		req = req.WithContext(middleware.WithSessionID(req.Context(), "sess-12345"))
		rr := httptest.NewRecorder()

		middleware.RateLimit(limiter, nil)(okHandler(nil)).ServeHTTP(rr, req)

		assert.Equal(t, http.StatusTeapot, rr.Code)
		assert.Equal(t, "4", rr.Header().Get("X-RateLimit-Remaining"))
		assert.Equal(t, []string{"192.0.2.1"}, limiter.keys)
	})

	t.Run("Failure - Rejected request", func(t *testing.T) {
		limiter := &fakeLimiter{allowed: false, retry: 1500 * time.Millisecond}
		rejected := 0
		rr := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/search", nil)
		req.RemoteAddr = "10.0.0.7:5555"

		middleware.RateLimit(limiter, func() { rejected++ })(okHandler(nil)).ServeHTTP(rr, req)

		assert.Equal(t, http.StatusTooManyRequests, rr.Code)
		assert.Equal(t, "2", rr.Header().Get("Retry-After"))
		assert.Equal(t, 1, rejected)
		assert.Equal(t, []string{"10.0.0.7"}, limiter.keys)
		var resp response.APIResponse
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
		assert.Equal(t, "TOO_MANY_REQUESTS", resp.Error.Code)
	})

	t.Run("Failure - Cookieless requests from one address share a limit", func(t *testing.T) {
		// Arrange
		limiter := &countingLimiter{limit: 1}
		h := middleware.NewSessionMiddleware("", false).Identify(
			middleware.RateLimit(limiter, nil)(okHandler(nil)))

		// Act
		codes := make([]int, 0, 5)
		for range 5 {
			req := httptest.NewRequest(http.MethodPost, "/api/ai/prompts", nil)
			req.RemoteAddr = "10.0.0.9:" + strconv.Itoa(40000+len(codes))
			rr := httptest.NewRecorder()
			h.ServeHTTP(rr, req)
			codes = append(codes, rr.Code)
		}

		// Assert
		assert.Equal(t, []int{
			http.StatusTeapot,
			http.StatusTooManyRequests,
			http.StatusTooManyRequests,
			http.StatusTooManyRequests,
			http.StatusTooManyRequests,
		}, codes)
		assert.Equal(t, map[string]int{"10.0.0.9": 5}, limiter.seen)
	})

	t.Run("Success - Limiter error fails open", func(t *testing.T) {
		limiter := &fakeLimiter{err: errors.New("redis down")}
		rr := httptest.NewRecorder()

		middleware.RateLimit(limiter, nil)(okHandler(nil)).ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/", nil))

		assert.Equal(t, http.StatusTeapot, rr.Code)
	})
}
