package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	SessionCookie = "pos_session"
	SessionHeader = "X-Session-Id"
	KeySession    = "session_id"
)

// Session resolves the cart key from the header or cookie, issuing a new
// cookie when the request carries neither.
func Session() gin.HandlerFunc {
	return func(c *gin.Context) {
		sid := c.GetHeader(SessionHeader)
		if sid == "" {
			sid, _ = c.Cookie(SessionCookie)
		}
		if _, err := uuid.Parse(sid); err != nil {
			sid = uuid.NewString()
			c.SetSameSite(http.SameSiteLaxMode)
			c.SetCookie(SessionCookie, sid, 0, "/", "", false, true)
		}
		c.Header(SessionHeader, sid)
		c.Set(KeySession, sid)
		c.Next()
	}
}
