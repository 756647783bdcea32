package middleware

import (
	"net/http"
	"regexp"

	"railbook/internal/shared/config"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ContextKeySessionID is where the session middleware leaves the client's id
const ContextKeySessionID = "session_id"

var sessionIDPattern = regexp.MustCompile(`^[A-Za-z0-9-]{8,64}$`)

// Session resolves the client session from the configured header or cookie.
// A fresh uuid is issued when the client has none or sends a malformed one,
// and the id is echoed back in both places.
func Session(cfg config.SessionConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		sid := c.GetHeader(cfg.HeaderName)
		if sid == "" {
			if cookie, err := c.Cookie(cfg.CookieName); err == nil {
				sid = cookie
			}
		}
		if !sessionIDPattern.MatchString(sid) {
			sid = uuid.NewString()
		}

		c.Set(ContextKeySessionID, sid)
		c.Header(cfg.HeaderName, sid)
		c.SetSameSite(http.SameSiteLaxMode)
		c.SetCookie(cfg.CookieName, sid, int(cfg.TTL.Seconds()), "/", "", false, true)

		c.Next()
	}
}

// SessionID returns the id set by Session, or "" outside of it
func SessionID(c *gin.Context) string {
	return c.GetString(ContextKeySessionID)
}
