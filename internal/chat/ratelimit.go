package chat

import (
	"sync"
	"time"
)

// RateLimiter implements per-client command rate limiting
type RateLimiter struct {
	mu           sync.Mutex
	clientCounts map[string]*clientLimit
	config       RateLimitConfig
	now          func() time.Time
	stopChan     chan struct{}
	stopOnce     sync.Once
}

type clientLimit struct {
	count     int
	windowEnd time.Time
	lastCmd   time.Time
}

// RateLimitConfig configures rate limiting behavior
type RateLimitConfig struct {
	// MaxPerWindow is max commands per window
	MaxPerWindow int
	// WindowDuration is the window size
	WindowDuration time.Duration
	// CooldownDuration is minimum time between commands
	CooldownDuration time.Duration
}

// DefaultRateLimitConfig for console commands
var DefaultRateLimitConfig = RateLimitConfig{
	MaxPerWindow:     5,                      // 5 commands
	WindowDuration:   5 * time.Second,        // per 5 seconds
	CooldownDuration: 200 * time.Millisecond, // between commands
}

// NewRateLimiter creates a new rate limiter. Call Stop to release the
// cleanup goroutine.
func NewRateLimiter(cfg RateLimitConfig) *RateLimiter {
	rl := &RateLimiter{
		clientCounts: make(map[string]*clientLimit),
		config:       cfg,
		now:          time.Now,
		stopChan:     make(chan struct{}),
	}

	go rl.cleanup()

	return rl
}

// Allow checks if a client can execute a command
func (rl *RateLimiter) Allow(client string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()

	limit, exists := rl.clientCounts[client]
	if !exists {
		rl.clientCounts[client] = &clientLimit{
			count:     1,
			windowEnd: now.Add(rl.config.WindowDuration),
			lastCmd:   now,
		}
		return true
	}

	if now.Sub(limit.lastCmd) < rl.config.CooldownDuration {
		return false
	}

	if now.After(limit.windowEnd) {
		limit.count = 1
		limit.windowEnd = now.Add(rl.config.WindowDuration)
		limit.lastCmd = now
		return true
	}

	if limit.count >= rl.config.MaxPerWindow {
		return false
	}

	limit.count++
	limit.lastCmd = now
	return true
}

// Stop ends the cleanup goroutine
func (rl *RateLimiter) Stop() {
	rl.stopOnce.Do(func() { close(rl.stopChan) })
}

// cleanup removes idle clients every minute
func (rl *RateLimiter) cleanup() {
	ticker := time.NewTicker(1 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-rl.stopChan:
			return
		case <-ticker.C:
			rl.prune(5 * time.Minute)
		}
	}
}

func (rl *RateLimiter) prune(idle time.Duration) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	cutoff := rl.now().Add(-idle)
	for key, limit := range rl.clientCounts {
		if limit.lastCmd.Before(cutoff) {
			delete(rl.clientCounts, key)
		}
	}
}
