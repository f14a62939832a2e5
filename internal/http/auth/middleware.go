package auth

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/MrJamesThe3rd/finboard/internal/http/api"
	"github.com/MrJamesThe3rd/finboard/internal/metrics"
)

// RequireSession rejects requests without a valid session with 401 and
// clears any stale cookie. Authenticated requests carry the user in their
// context (see api.CurrentUser).
func (h *Handler) RequireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sessionID, err := h.cookies.SessionID(r)
		if err != nil {
			slog.Warn("rejected session cookie", "error", err)
		}

		profile, err := h.auth.CurrentUser(r.Context(), sessionID)
		if err != nil {
			if h.cookies.Present(r) {
				h.cookies.Clear(w)
			}

			api.Error(w, r, err)

			return
		}

		next.ServeHTTP(w, r.WithContext(api.WithUser(r.Context(), profile)))
	})
}

// RateLimit throttles the wrapped handler per client IP.
func (h *Handler) RateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ok, wait := h.limiter.Allow(r)
		if !ok {
			h.recorder.LoginAttempt(metrics.OutcomeRateLimited)

			w.Header().Set("Retry-After", retryAfter(wait))
			api.Message(w, http.StatusTooManyRequests, "too many login attempts, try again later")

			return
		}

		next.ServeHTTP(w, r)
	})
}

func retryAfter(d time.Duration) string {
	secs := int(d.Round(time.Second) / time.Second)
	return strconv.Itoa(max(secs, 1))
}
