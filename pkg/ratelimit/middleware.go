package ratelimit

import (
	"fmt"
	"net"
	"net/http"
	"strings"

	"railbook/internal/shared/metrics"
	"railbook/internal/shared/utils/response"
	"railbook/pkg/logger"

	"github.com/gin-gonic/gin"
)

// Middleware applies the limiter to every request
func Middleware(rateLimiter *RateLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		clientIP := getClientIP(c)
		limitType := getRateLimitType(c.FullPath())

		result, err := rateLimiter.IsAllowed(c.Request.Context(), clientIP, limitType)
		if err != nil {
			logger.GetDefault().ErrorWithContext(c.Request.Context(), "Rate limit check failed", err, map[string]interface{}{
				"ip":   clientIP,
				"type": string(limitType),
			})
			response.RespondJSON(c, "error", http.StatusInternalServerError,
				"Rate limit check failed", nil, nil)
			c.Abort()
			return
		}

		c.Header("X-RateLimit-Limit", fmt.Sprintf("%d", result.Limit))
		c.Header("X-RateLimit-Remaining", fmt.Sprintf("%d", result.Remaining))
		c.Header("X-RateLimit-Reset", fmt.Sprintf("%d", result.ResetTime))

		if !result.Allowed {
			metrics.RateLimited.WithLabelValues(string(limitType)).Inc()
			logger.GetDefault().LogRateLimitExceeded(c.Request.Context(), clientIP, c.FullPath())
			response.RespondJSON(c, "error", http.StatusTooManyRequests,
				"Rate limit exceeded", nil, map[string]interface{}{
					"limit":      result.Limit,
					"reset_time": result.ResetTime,
				})
			c.Abort()
			return
		}

		c.Next()
	}
}

func getRateLimitType(path string) RateLimitType {
	switch {
	case strings.HasPrefix(path, "/health"),
		strings.HasPrefix(path, "/ping"),
		strings.HasPrefix(path, "/metrics"):
		return RateLimitTypeHealth

	case strings.Contains(path, "/admin/"):
		return RateLimitTypeAdmin

	case strings.Contains(path, "/auth/"):
		return RateLimitTypeAuth

	case strings.Contains(path, "/payments"):
		return RateLimitTypePayment

	case strings.Contains(path, "/booking"),
		strings.HasSuffix(path, "/select"):
		return RateLimitTypeBooking

	case strings.Contains(path, "/search"),
		strings.Contains(path, "/trains"):
		return RateLimitTypePublic

	default:
		return RateLimitTypeDefault
	}
}

// extracts real client IP
func getClientIP(c *gin.Context) string {
	xForwardedFor := c.GetHeader("X-Forwarded-For")
	if xForwardedFor != "" {
		ips := strings.Split(xForwardedFor, ",")
		if len(ips) > 0 {
			ip := strings.TrimSpace(ips[0])
			if net.ParseIP(ip) != nil {
				return ip
			}
		}
	}

	xRealIP := c.GetHeader("X-Real-IP")
	if xRealIP != "" {
		if net.ParseIP(xRealIP) != nil {
			return xRealIP
		}
	}

	ip, _, err := net.SplitHostPort(c.Request.RemoteAddr)
	if err != nil {
		return c.Request.RemoteAddr
	}

	return ip
}
