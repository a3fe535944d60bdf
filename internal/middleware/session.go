package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const sessionCookieMaxAge = 60 * 60 * 24 * 365

// CartSession assigns an anonymous session ID for cart scoping. The cart
// survives as long as the cookie does; there is no account linkage.
func CartSession(cookieName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID, err := c.Cookie(cookieName)
		if err != nil || sessionID == "" {
			sessionID = uuid.NewString()
			c.SetSameSite(http.SameSiteStrictMode)
			c.SetCookie(cookieName, sessionID, sessionCookieMaxAge, "/", "", false, true)
		}
		c.Set("cartSession", sessionID)
		c.Next()
	}
}

func GetCartSession(c *gin.Context) string {
	id, _ := c.Get("cartSession")
	s, _ := id.(string)
	return s
}
