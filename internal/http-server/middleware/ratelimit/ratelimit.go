// Package ratelimit throttles requests per client address.
package ratelimit

import (
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"museumBooker/internal/lib/api/response"

	"github.com/go-chi/render"
	"golang.org/x/time/rate"
)

const DefaultIdleTTL = 10 * time.Minute

type client struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

type Limiter struct {
	mu        sync.Mutex
	clients   map[string]*client
	rps       rate.Limit
	burst     int
	idleTTL   time.Duration
	lastSweep time.Time
	now       func() time.Time
}

// New allows rps requests per second per client with bursts of up to burst.
// A non-positive rps disables limiting. Clients idle for longer than idleTTL
// are forgotten; a non-positive idleTTL means DefaultIdleTTL.
func New(rps float64, burst int, idleTTL time.Duration) *Limiter {
	if burst < 1 {
		burst = 1
	}
	if idleTTL <= 0 {
		idleTTL = DefaultIdleTTL
	}

	return &Limiter{
		clients: make(map[string]*client),
		rps:     rate.Limit(rps),
		burst:   burst,
		idleTTL: idleTTL,
		now:     time.Now,
	}
}

func (l *Limiter) get(addr string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	l.sweep(now)

	c, ok := l.clients[addr]
	if !ok {
		c = &client{limiter: rate.NewLimiter(l.rps, l.burst)}
		l.clients[addr] = c
	}
	c.lastSeen = now

	return c.limiter
}

// sweep drops idle clients, at most once per idleTTL. l.mu must be held.
func (l *Limiter) sweep(now time.Time) {
	if now.Sub(l.lastSweep) < l.idleTTL {
		return
	}
	l.lastSweep = now

	for addr, c := range l.clients {
		if now.Sub(c.lastSeen) > l.idleTTL {
			delete(l.clients, addr)
		}
	}
}

func (l *Limiter) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()

	return len(l.clients)
}

func (l *Limiter) Middleware(log *slog.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if l.rps <= 0 {
			return next
		}

		log := log.With(slog.String("component", "middleware/ratelimit"))

		fn := func(w http.ResponseWriter, r *http.Request) {
			addr := clientIP(r)

			if !l.get(addr).Allow() {
				log.Warn("rate limit exceeded", slog.String("client", addr))
				render.Status(r, http.StatusTooManyRequests)
				render.JSON(w, r, response.ErrorKind(response.KindRateLimited, "rate limit exceeded, try again later"))
				return
			}

			next.ServeHTTP(w, r)
		}

		return http.HandlerFunc(fn)
	}
}

// clientIP expects RemoteAddr to be already rewritten by middleware.RealIP.
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
