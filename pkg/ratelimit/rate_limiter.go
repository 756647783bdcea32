package ratelimit

import (
	"context"
	"fmt"
	"time"

	"railbook/internal/shared/constants"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

type RateLimitType string

const (
	RateLimitTypeDefault RateLimitType = "default"
	RateLimitTypePublic  RateLimitType = "public"
	RateLimitTypeAuth    RateLimitType = "auth"
	RateLimitTypeBooking RateLimitType = "booking"
	RateLimitTypePayment RateLimitType = "payment"
	RateLimitTypeAdmin   RateLimitType = "admin"
	RateLimitTypeHealth  RateLimitType = "health"
)

// Config holds per-class request budgets for one window
type Config struct {
	Enabled         bool          `json:"enabled"`
	WindowDuration  time.Duration `json:"window_duration"`
	DefaultRequests int           `json:"default_requests"`
	PublicRequests  int           `json:"public_requests"`
	AuthRequests    int           `json:"auth_requests"`
	BookingRequests int           `json:"booking_requests"`
	PaymentRequests int           `json:"payment_requests"`
	AdminRequests   int           `json:"admin_requests"`
	HealthRequests  int           `json:"health_requests"`
	WhitelistedIPs  []string      `json:"whitelisted_ips"`
}

// Result represents rate limit check result
type Result struct {
	Allowed   bool  `json:"allowed"`
	Limit     int   `json:"limit"`
	Remaining int   `json:"remaining"`
	ResetTime int64 `json:"reset_time"`
}

// RateLimiter handles rate limiting using Redis
type RateLimiter struct {
	client *redis.Client
	config *Config
	now    func() time.Time
}

func NewRateLimiter(client *redis.Client, config *Config) *RateLimiter {
	return &RateLimiter{
		client: client,
		config: config,
		now:    time.Now,
	}
}

// sliding window over a sorted set scored in milliseconds
var slidingWindowScript = redis.NewScript(`
	local key = KEYS[1]
	local window_start = tonumber(ARGV[1])
	local now = tonumber(ARGV[2])
	local limit = tonumber(ARGV[3])
	local window_ms = tonumber(ARGV[4])
	local member = ARGV[5]

	redis.call('ZREMRANGEBYSCORE', key, '-inf', window_start)

	local current_count = redis.call('ZCARD', key)

	if current_count >= limit then
		redis.call('PEXPIRE', key, window_ms)
		return {0, 0}
	end

	redis.call('ZADD', key, now, member)
	redis.call('PEXPIRE', key, window_ms)

	return {1, limit - current_count - 1}
`)

// IsAllowed checks if request is allowed
func (r *RateLimiter) IsAllowed(ctx context.Context, clientIP string, limitType RateLimitType) (*Result, error) {
	limit := r.getLimit(limitType)
	now := r.now()

	if !r.config.Enabled || r.isWhitelisted(clientIP) {
		return &Result{
			Allowed:   true,
			Limit:     limit,
			Remaining: limit,
			ResetTime: now.Add(r.config.WindowDuration).Unix(),
		}, nil
	}

	key := constants.BuildRateLimitKey(string(limitType), clientIP)
	return r.checkLimit(ctx, key, limit, now)
}

func (r *RateLimiter) checkLimit(ctx context.Context, key string, limit int, now time.Time) (*Result, error) {
	windowStart := now.Add(-r.config.WindowDuration)

	result, err := slidingWindowScript.Run(ctx, r.client, []string{key},
		windowStart.UnixMilli(),
		now.UnixMilli(),
		limit,
		r.config.WindowDuration.Milliseconds(),
		uuid.NewString(),
	).Int64Slice()
	if err != nil {
		return nil, fmt.Errorf("redis eval failed: %w", err)
	}
	if len(result) != 2 {
		return nil, fmt.Errorf("unexpected redis response")
	}

	return &Result{
		Allowed:   result[0] == 1,
		Limit:     limit,
		Remaining: int(result[1]),
		ResetTime: now.Add(r.config.WindowDuration).Unix(),
	}, nil
}

func (r *RateLimiter) getLimit(limitType RateLimitType) int {
	switch limitType {
	case RateLimitTypePublic:
		return r.config.PublicRequests
	case RateLimitTypeAuth:
		return r.config.AuthRequests
	case RateLimitTypeBooking:
		return r.config.BookingRequests
	case RateLimitTypePayment:
		return r.config.PaymentRequests
	case RateLimitTypeAdmin:
		return r.config.AdminRequests
	case RateLimitTypeHealth:
		return r.config.HealthRequests
	default:
		return r.config.DefaultRequests
	}
}

func (r *RateLimiter) isWhitelisted(ip string) bool {
	for _, whitelistedIP := range r.config.WhitelistedIPs {
		if ip == whitelistedIP {
			return true
		}
	}
	return false
}
