package http

import (
	"net"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// DefaultIdleTimeout is how long a client's limiter is kept after its last
// request.
const DefaultIdleTimeout = 10 * time.Minute

// ClientLimiter provides per-client rate limiting using token buckets. Each
// client address gets its own limiter, which is dropped once the client has
// been idle for IdleTimeout.
type ClientLimiter struct {
	// IdleTimeout defaults to DefaultIdleTimeout.
	IdleTimeout time.Duration

	// Now returns the current time. Defaults to time.Now.
	Now func() time.Time

	mu        sync.Mutex
	clients   map[string]*client
	lastSweep time.Time
	rps       float64
	burst     int
}

type client struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewClientLimiter creates a ClientLimiter allowing rps requests per second
// with the given burst per client.
func NewClientLimiter(rps float64, burst int) *ClientLimiter {
	return &ClientLimiter{
		IdleTimeout: DefaultIdleTimeout,
		Now:         time.Now,
		clients:     make(map[string]*client),
		rps:         rps,
		burst:       max(burst, 1),
	}
}

// Allow reports whether the client at addr may make a request now.
// addr may carry a port, which is ignored.
func (l *ClientLimiter) Allow(addr string) bool {
	host := addr
	if h, _, err := net.SplitHostPort(addr); err == nil {
		host = h
	}

	l.mu.Lock()
	now := l.Now()
	l.sweep(now)
	c, ok := l.clients[host]
	if !ok {
		c = &client{limiter: rate.NewLimiter(rate.Limit(l.rps), l.burst)}
		l.clients[host] = c
	}
	c.lastSeen = now
	l.mu.Unlock()

	return c.limiter.AllowN(now, 1)
}

// Len returns the number of clients currently tracked.
func (l *ClientLimiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.clients)
}

// sweep drops idle clients, at most once per IdleTimeout. Callers hold mu.
func (l *ClientLimiter) sweep(now time.Time) {
	idle := l.IdleTimeout
	if idle <= 0 {
		idle = DefaultIdleTimeout
	}
	if now.Sub(l.lastSweep) < idle {
		return
	}
	l.lastSweep = now
	for host, c := range l.clients {
		if now.Sub(c.lastSeen) >= idle {
			delete(l.clients, host)
		}
	}
}
