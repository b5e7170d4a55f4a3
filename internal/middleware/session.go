package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/rv-work/Mini-Buyers/internal/domain/auth"
)

// Session resolves the demo-user cookie to a known user and stores the
// user id in the request context. Handlers read it and pass it on
// explicitly; nothing below the handler layer touches the session.
func Session(users *auth.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := c.Cookie(auth.SessionCookie)
		if err != nil || id == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"error":   gin.H{"code": "UNAUTHORIZED", "message": "Login required: POST /auth/demo"},
			})
			return
		}

		user, err := users.GetByID(c.Request.Context(), id)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
				"success": false,
				"error":   gin.H{"code": "INTERNAL_ERROR", "message": "Internal server error"},
			})
			return
		}
		if user == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"error":   gin.H{"code": "UNAUTHORIZED", "message": "Unknown session, log in again"},
			})
			return
		}

		c.Set("user_id", user.ID)
		c.Next()
	}
}
