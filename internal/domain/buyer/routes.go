package buyer

import "github.com/gin-gonic/gin"

// RegisterRoutes registers the lead CRUD and import/export routes.
// Static segments are registered before the :id wildcard.
func RegisterRoutes(r *gin.RouterGroup, h *Handler) {
	leads := r.Group("/leads")
	{
		leads.GET("", h.List)
		leads.POST("", h.Create)
		leads.GET("/export", h.Export)
		leads.GET("/template", h.Template)
		leads.POST("/import", h.Import)
		leads.GET("/:id", h.Get)
		leads.PUT("/:id", h.Update)
		leads.DELETE("/:id", h.Delete)
	}
}
