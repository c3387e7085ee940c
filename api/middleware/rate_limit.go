package middleware

import (
	"fmt"
	"net/http"
	"time"

	"github.com/flo-kian-baban/connex-backend/api/responses"
	pkgerrors "github.com/flo-kian-baban/connex-backend/pkg/errors"
	"github.com/flo-kian-baban/connex-backend/pkg/logger"
)

const (
	apiRateLimitWindow = time.Minute
	apiRateLimitMax    = 120
)

// RateLimit applies a fixed-window per-user cap to authenticated API traffic.
// It runs after Auth, so the user id is already in the context. A nil store
// disables the limiter.
func RateLimit(store rateLimiterStore, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if store == nil {
				next.ServeHTTP(w, r)
				return
			}

			userID := UserIDFromContext(r.Context())
			if userID == "" {
				next.ServeHTTP(w, r)
				return
			}

			key := fmt.Sprintf("rl:api:%s", userID)
			count, err := store.IncrWithTTL(r.Context(), key, apiRateLimitWindow)
			if err != nil {
				// The limiter is best-effort; a Redis hiccup must not take
				// down the API.
				if logg != nil {
					logg.Warn(logg.WithField(r.Context(), "rate_limit_key", key), "rate limit check failed, allowing request")
				}
				next.ServeHTTP(w, r)
				return
			}

			if count > apiRateLimitMax {
				w.Header().Set("Retry-After", fmt.Sprintf("%d", int(apiRateLimitWindow.Seconds())))
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeRateLimit, "too many requests"))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
