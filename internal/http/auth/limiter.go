package auth

import (
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/juju/clock"
	"golang.org/x/time/rate"
)

// idleLimiter is how long a client's limiter is kept after its last request.
const idleLimiter = 10 * time.Minute

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// Limiter throttles requests per client IP with a token bucket.
type Limiter struct {
	clock clock.Clock
	limit rate.Limit
	burst int

	mu       sync.Mutex
	visitors map[string]*visitor
}

// NewLimiter allows perMinute requests per client on average with bursts of
// up to burst.
func NewLimiter(perMinute, burst int, clk clock.Clock) *Limiter {
	return &Limiter{
		clock:    clk,
		limit:    rate.Every(time.Minute / time.Duration(max(perMinute, 1))),
		burst:    max(burst, 1),
		visitors: make(map[string]*visitor),
	}
}

// Allow reports whether the client behind r may proceed, and if not, how long
// it should wait.
func (l *Limiter) Allow(r *http.Request) (bool, time.Duration) {
	now := l.clock.Now()
	key := clientIP(r)

	l.mu.Lock()
	defer l.mu.Unlock()

	for k, v := range l.visitors {
		if now.Sub(v.lastSeen) > idleLimiter {
			delete(l.visitors, k)
		}
	}

	v, ok := l.visitors[key]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.visitors[key] = v
	}

	v.lastSeen = now

	res := v.limiter.ReserveN(now, 1)
	if delay := res.DelayFrom(now); delay > 0 {
		res.CancelAt(now)
		return false, delay
	}

	return true, 0
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}

	return host
}
