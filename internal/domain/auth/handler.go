package auth

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/rv-work/Mini-Buyers/internal/pkg/response"
)

const cookieMaxAge = 30 * 24 * 60 * 60 // 30 days

// Handler handles the demo login surrogate
type Handler struct {
	repo         *Repository
	cookieSecure bool
}

// NewHandler creates auth handler
func NewHandler(repo *Repository, cookieSecure bool) *Handler {
	return &Handler{repo: repo, cookieSecure: cookieSecure}
}

// Demo handles POST /auth/demo
// @Summary Demo login/logout
// @Description action=login upserts the demo user and sets the session cookie; action=logout clears it
// @Tags Auth
// @Accept x-www-form-urlencoded
// @Produce json
// @Param action formData string true "login or logout"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /auth/demo [post]
func (h *Handler) Demo(c *gin.Context) {
	switch c.PostForm("action") {
	case "login":
		user, err := h.repo.Upsert(c.Request.Context(), DemoEmail, "Demo User")
		if err != nil {
			_ = c.Error(err)
			response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error")
			return
		}
		c.SetSameSite(http.SameSiteLaxMode)
		c.SetCookie(SessionCookie, user.ID, cookieMaxAge, "/", "", h.cookieSecure, true)
		response.Success(c, http.StatusOK, user)

	case "logout":
		c.SetSameSite(http.SameSiteLaxMode)
		c.SetCookie(SessionCookie, "", -1, "/", "", h.cookieSecure, true)
		response.Message(c, http.StatusOK, "Logged out")

	default:
		response.Error(c, http.StatusBadRequest, "INVALID_ACTION", "Invalid action")
	}
}
