package api

import (
	"strings"
	"sync"
)

var (
	originsMu      sync.RWMutex
	allowedOrigins = []string{"http://localhost:*", "http://127.0.0.1:*"}
)

// SetAllowedOrigins replaces the origins accepted for CORS and WebSocket
// upgrades. A trailing ":*" matches any port.
func SetAllowedOrigins(origins []string) {
	originsMu.Lock()
	allowedOrigins = append([]string(nil), origins...)
	originsMu.Unlock()
}

// AllowedOrigins returns a copy of the accepted origins.
func AllowedOrigins() []string {
	originsMu.RLock()
	defer originsMu.RUnlock()
	return append([]string(nil), allowedOrigins...)
}

// IsAllowedOrigin checks if an origin is in the allowed list
func IsAllowedOrigin(origin string) bool {
	if origin == "" {
		return false
	}

	originsMu.RLock()
	defer originsMu.RUnlock()
	for _, allowed := range allowedOrigins {
		if origin == allowed {
			return true
		}
		if base, ok := strings.CutSuffix(allowed, ":*"); ok {
			if origin == base || strings.HasPrefix(origin, base+":") {
				return true
			}
		}
	}
	return false
}
