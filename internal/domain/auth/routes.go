package auth

import "github.com/gin-gonic/gin"

// RegisterRoutes registers the public auth surrogate routes.
func RegisterRoutes(r *gin.RouterGroup, h *Handler) {
	r.POST("/auth/demo", h.Demo)
}
