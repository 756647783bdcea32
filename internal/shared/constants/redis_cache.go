package constants

import (
	"time"
)

// Redis key layout for railbook
// Pattern: railbook:{module}:{identifier}:{params?}

// ================== TTL DURATIONS ==================

const (
	TTL_SESSION_DEFAULT = 24 * time.Hour  // browsing session lifetime
	TTL_DASHBOARD       = 5 * time.Minute // admin catalog overview
)

// ================== REDIS KEY PREFIXES ==================

const (
	CACHE_PREFIX = "railbook"
)

// ================== SESSION MODULE ==================

const (
	CACHE_KEY_SESSION = CACHE_PREFIX + ":session:" // + session-id:key
)

// ================== RATE LIMIT MODULE ==================

const (
	CACHE_KEY_RATE_LIMIT = CACHE_PREFIX + ":ratelimit:" // + limit-type:client-ip
)

// ================== DASHBOARD MODULE ==================

const (
	CACHE_KEY_DASHBOARD_OVERVIEW = CACHE_PREFIX + ":dashboard:overview"
)

// ================== HELPER FUNCTIONS ==================

// BuildSessionKey -> "railbook:session:<sid>:<key>"
func BuildSessionKey(sessionID, key string) string {
	return CACHE_KEY_SESSION + sessionID + ":" + key
}

// BuildSessionPattern matches every key of one session
func BuildSessionPattern(sessionID string) string {
	return CACHE_KEY_SESSION + sessionID + ":*"
}

// BuildRateLimitKey -> "railbook:ratelimit:<type>:<ip>"
func BuildRateLimitKey(limitType, clientIP string) string {
	return CACHE_KEY_RATE_LIMIT + limitType + ":" + clientIP
}
