package middleware

import (
	"context"
	"log/slog"
	"math"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/Gsweya/hweibo-prototype/internal/errors"
	"github.com/Gsweya/hweibo-prototype/internal/utils/response"
)

type Limiter interface {
	Allow(ctx context.Context, key string) (allowed bool, remaining int, retryAfter time.Duration, err error)
}

// RateLimit throttles next per client address. Session ids are minted for any
// request without a cookie, so they cannot key the limit. A failing limiter
// lets requests through.
func RateLimit(limiter Limiter, onReject func()) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {

			logger := LoggerFromContext(r.Context())

			allowed, remaining, retryAfter, err := limiter.Allow(r.Context(), clientIP(r))
			if err != nil {
				logger.Error("Rate limiter unavailable, allowing request", slog.String("error", err.Error()))
				next.ServeHTTP(w, r)
				return
			}

			w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(remaining))

			if !allowed {
				if onReject != nil {
					onReject()
				}
				seconds := int(math.Ceil(retryAfter.Seconds()))
				w.Header().Set("Retry-After", strconv.Itoa(seconds))
				response.Error(w, errors.TooManyRequestsError("Too many requests").
					WithDetail("retry after "+strconv.Itoa(seconds)+"s"))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
