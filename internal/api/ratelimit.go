package api

import (
	"net"
	"net/http"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"survivors/internal/config"

	"golang.org/x/time/rate"
)

// Lane selects the bucket a route draws from. Each client IP gets one
// bucket per lane, so a browser streaming input at frame rate cannot
// starve its own pause, reward and command calls.
type Lane string

const (
	LaneInput   Lane = "input"
	LaneControl Lane = "control"
)

// clientIdleTTL is how long an unused bucket survives the sweep.
const clientIdleTTL = 10 * time.Minute

type clientBucket struct {
	limiter  *rate.Limiter
	lastSeen atomic.Int64 // unix nano
}

type laneBuckets struct {
	limit    config.RateLimit
	clients  sync.Map // ip -> *clientBucket
	allowed  atomic.Uint64
	rejected atomic.Uint64
}

func (l *laneBuckets) bucket(ip string, now int64) *rate.Limiter {
	if v, ok := l.clients.Load(ip); ok {
		b := v.(*clientBucket)
		b.lastSeen.Store(now)
		return b.limiter
	}
	b := &clientBucket{limiter: rate.NewLimiter(rate.Limit(l.limit.PerSecond), l.limit.Burst)}
	b.lastSeen.Store(now)
	v, _ := l.clients.LoadOrStore(ip, b)
	return v.(*clientBucket).limiter
}

// LaneStats counts decisions for one lane.
type LaneStats struct {
	Allowed  uint64 `json:"allowed"`
	Rejected uint64 `json:"rejected"`
	Clients  int    `json:"clients"`
}

// ClientLimiter rate limits HTTP requests per client IP and lane, with
// limits taken from the server configuration.
type ClientLimiter struct {
	lanes    map[Lane]*laneBuckets
	now      func() time.Time
	stopChan chan struct{}
	stopOnce sync.Once
}

// NewClientLimiter builds the input and control lanes from cfg and starts
// the idle sweep. Call Stop to release it.
func NewClientLimiter(cfg config.ServerConfig) *ClientLimiter {
	cl := &ClientLimiter{
		lanes: map[Lane]*laneBuckets{
			LaneInput:   {limit: cfg.InputRate},
			LaneControl: {limit: cfg.ControlRate},
		},
		now:      time.Now,
		stopChan: make(chan struct{}),
	}
	go cl.sweepLoop()
	return cl
}

// Stop ends the idle sweep.
func (cl *ClientLimiter) Stop() {
	cl.stopOnce.Do(func() { close(cl.stopChan) })
}

// lane returns the named lane; unknown names share the control lane.
func (cl *ClientLimiter) lane(name Lane) *laneBuckets {
	if l, ok := cl.lanes[name]; ok {
		return l
	}
	return cl.lanes[LaneControl]
}

// Allow takes one token from ip's bucket in the given lane.
func (cl *ClientLimiter) Allow(name Lane, ip string) bool {
	l := cl.lane(name)
	if l.bucket(ip, cl.now().UnixNano()).Allow() {
		l.allowed.Add(1)
		return true
	}
	l.rejected.Add(1)
	return false
}

// Middleware rejects requests over the lane's limit with 429.
func (cl *ClientLimiter) Middleware(name Lane) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !cl.Allow(name, ClientIP(r)) {
				RecordConnectionRejected("rate_limit")
				w.Header().Set("Retry-After", "1")
				http.Error(w, "Too Many Requests", http.StatusTooManyRequests)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// Stats reports every lane by name.
func (cl *ClientLimiter) Stats() map[Lane]LaneStats {
	out := make(map[Lane]LaneStats, len(cl.lanes))
	for name, l := range cl.lanes {
		clients := 0
		l.clients.Range(func(_, _ interface{}) bool {
			clients++
			return true
		})
		out[name] = LaneStats{Allowed: l.allowed.Load(), Rejected: l.rejected.Load(), Clients: clients}
	}
	return out
}

func (cl *ClientLimiter) sweepLoop() {
	ticker := time.NewTicker(clientIdleTTL / 2)
	defer ticker.Stop()

	for {
		select {
		case <-cl.stopChan:
			return
		case <-ticker.C:
			cl.sweep(clientIdleTTL)
		}
	}
}

// sweep forgets buckets untouched for longer than idle.
func (cl *ClientLimiter) sweep(idle time.Duration) {
	cutoff := cl.now().Add(-idle).UnixNano()
	for _, l := range cl.lanes {
		l.clients.Range(func(key, value interface{}) bool {
			if value.(*clientBucket).lastSeen.Load() < cutoff {
				l.clients.Delete(key)
			}
			return true
		})
	}
}

// ClientIP is the address a request is attributed to. X-Forwarded-For and
// X-Real-IP are trusted as sent, so deploy behind a proxy that sets them.
func ClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		return strings.TrimSpace(first)
	}
	if xri := strings.TrimSpace(r.Header.Get("X-Real-IP")); xri != "" {
		return xri
	}
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}

// ConnLimiter caps concurrent WebSocket connections per client IP.
type ConnLimiter struct {
	mu       sync.Mutex
	open     map[string]int
	maxPerIP int
	rejected atomic.Uint64
}

// NewConnLimiter allows maxPerIP open connections per IP.
func NewConnLimiter(maxPerIP int) *ConnLimiter {
	return &ConnLimiter{open: make(map[string]int), maxPerIP: maxPerIP}
}

// Acquire reserves a slot for ip. Every true result needs a Release.
func (c *ConnLimiter) Acquire(ip string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.open[ip] >= c.maxPerIP {
		c.rejected.Add(1)
		return false
	}
	c.open[ip]++
	return true
}

// Release frees a slot reserved by Acquire.
func (c *ConnLimiter) Release(ip string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if n := c.open[ip]; n > 1 {
		c.open[ip] = n - 1
	} else {
		delete(c.open, ip)
	}
}

// Open returns the connections currently held by ip.
func (c *ConnLimiter) Open(ip string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.open[ip]
}

// Rejected counts refused connections.
func (c *ConnLimiter) Rejected() uint64 { return c.rejected.Load() }
