package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/EthanNaitwe/KampalaGrocery/domain"
)

// SessionCookie is the cookie carrying the session id.
const SessionCookie = "grocery_sid"

const userKey = "user"

// SessionAuth authenticates a request from its session cookie. The sid
// must resolve to an unexpired session whose user still exists.
func SessionAuth(authSvc domain.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		sid, err := c.Cookie(SessionCookie)
		if err != nil || sid == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized"})
			c.Abort()
			return
		}

		user, err := authSvc.CurrentUser(c.Request.Context(), sid)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized"})
			c.Abort()
			return
		}

		c.Set(userKey, user)
		c.Next()
	}
}

// RequireAdmin gates a route on the resolved user's admin flag. It must
// run after SessionAuth.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		user := CurrentUser(c)
		if user == nil || !user.IsAdmin {
			c.JSON(http.StatusForbidden, gin.H{"message": "Admin access required"})
			c.Abort()
			return
		}
		c.Next()
	}
}

// CurrentUser returns the user SessionAuth resolved, or nil.
func CurrentUser(c *gin.Context) *domain.User {
	v, ok := c.Get(userKey)
	if !ok {
		return nil
	}
	user, _ := v.(*domain.User)
	return user
}
