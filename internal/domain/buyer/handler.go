package buyer

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/rv-work/Mini-Buyers/internal/pkg/response"
)

// Handler handles buyer HTTP requests
type Handler struct {
	service *Service
}

// NewHandler creates buyer handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// List handles GET /leads
// @Summary List buyer leads
// @Description Paginated, filterable list sorted by last update descending
// @Tags Leads
// @Produce json
// @Param search query string false "Substring match on name, email or phone"
// @Param city query string false "Filter by city"
// @Param propertyType query string false "Filter by property type"
// @Param status query string false "Filter by status"
// @Param timeline query string false "Filter by timeline"
// @Param page query int false "Page (1-based)" default(1)
// @Success 200 {object} response.Response{data=ListResponse}
// @Router /leads [get]
func (h *Handler) List(c *gin.Context) {
	filters, ferrs := ParseFilters(c.Query)
	if len(ferrs) > 0 {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid filters", ferrs)
		return
	}
	page := ParsePage(c.Query("page"))

	list, err := h.service.List(c.Request.Context(), filters, page)
	if err != nil {
		h.respondError(c, err)
		return
	}
	response.Success(c, http.StatusOK, list)
}

// Get handles GET /leads/:id
// @Summary Get one lead with its change history
// @Tags Leads
// @Produce json
// @Param id path string true "Lead ID"
// @Success 200 {object} response.Response{data=BuyerDetail}
// @Failure 404 {object} response.Response
// @Router /leads/{id} [get]
func (h *Handler) Get(c *gin.Context) {
	detail, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	response.Success(c, http.StatusOK, detail)
}

// Create handles POST /leads
// @Summary Create a buyer lead
// @Tags Leads
// @Accept json
// @Produce json
// @Param request body BuyerInput true "Lead fields"
// @Success 201 {object} response.Response{data=Buyer}
// @Failure 400 {object} response.Response
// @Failure 429 {object} response.Response
// @Router /leads [post]
func (h *Handler) Create(c *gin.Context) {
	var in BuyerInput
	if err := c.ShouldBindJSON(&in); err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_JSON", "Invalid JSON body")
		return
	}

	b, err := h.service.Create(c.Request.Context(), userID(c), in)
	if err != nil {
		h.respondError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, b)
}

// Update handles PUT /leads/:id
// @Summary Update a buyer lead
// @Description Requires the previously observed updatedAt as concurrency token
// @Tags Leads
// @Accept json
// @Produce json
// @Param id path string true "Lead ID"
// @Param request body UpdateBuyerRequest true "Lead fields plus observed updatedAt"
// @Success 200 {object} response.Response{data=Buyer}
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 409 {object} response.Response
// @Failure 429 {object} response.Response
// @Router /leads/{id} [put]
func (h *Handler) Update(c *gin.Context) {
	var req UpdateBuyerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_JSON", "Invalid JSON body")
		return
	}

	b, err := h.service.Update(c.Request.Context(), userID(c), c.Param("id"), req.BuyerInput, req.UpdatedAt)
	if err != nil {
		h.respondError(c, err)
		return
	}
	response.Success(c, http.StatusOK, b)
}

// Delete handles DELETE /leads/:id
// @Summary Delete a buyer lead and its history
// @Tags Leads
// @Produce json
// @Param id path string true "Lead ID"
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /leads/{id} [delete]
func (h *Handler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), userID(c), c.Param("id")); err != nil {
		h.respondError(c, err)
		return
	}
	response.Message(c, http.StatusOK, "Buyer deleted successfully")
}

// Export handles GET /leads/export
// @Summary Export filtered leads as CSV
// @Tags Leads
// @Produce text/csv
// @Router /leads/export [get]
func (h *Handler) Export(c *gin.Context) {
	filters, ferrs := ParseFilters(c.Query)
	if len(ferrs) > 0 {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid filters", ferrs)
		return
	}

	buyers, err := h.service.Export(c.Request.Context(), filters)
	if err != nil {
		h.respondError(c, err)
		return
	}

	filename := fmt.Sprintf("buyers-export-%s.csv", time.Now().Format("2006-01-02"))
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, "text/csv", []byte(ExportCSV(buyers)))
}

// Template handles GET /leads/template
// @Summary Download the CSV import template
// @Tags Leads
// @Produce text/csv
// @Router /leads/template [get]
func (h *Handler) Template(c *gin.Context) {
	c.Header("Content-Disposition", `attachment; filename="buyers-template.csv"`)
	c.Data(http.StatusOK, "text/csv", []byte(TemplateCSV()))
}

// Import handles POST /leads/import
// @Summary Bulk import up to 200 leads
// @Description Per-row validation with atomic insertion of the valid subset
// @Tags Leads
// @Accept json
// @Produce json
// @Param request body ImportRequest true "Rows to import"
// @Success 200 {object} response.Response{data=ImportResult}
// @Failure 400 {object} response.Response
// @Failure 500 {object} response.Response
// @Router /leads/import [post]
func (h *Handler) Import(c *gin.Context) {
	var req ImportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_JSON", "Invalid JSON body")
		return
	}
	if len(req.Rows) == 0 {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "No data provided")
		return
	}
	if len(req.Rows) > MaxImportRows {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR",
			fmt.Sprintf("Maximum %d rows allowed", MaxImportRows))
		return
	}

	result, err := h.service.Import(c.Request.Context(), userID(c), req.Rows)
	if err != nil {
		if errors.Is(err, ErrTransactionFailed) {
			// The per-row outcomes are still reported; inserted stays 0.
			response.ErrorWithDetails(c, http.StatusInternalServerError, "TRANSACTION_FAILED",
				"Failed to insert data. Transaction rolled back.", result)
			return
		}
		h.respondError(c, err)
		return
	}
	response.Success(c, http.StatusOK, result)
}

// respondError maps domain errors to stable wire codes. Anything
// unrecognized is logged by the error middleware and rendered opaque.
func (h *Handler) respondError(c *gin.Context, err error) {
	var verr *ValidationError
	switch {
	case errors.As(err, &verr):
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "Validation failed", verr.Fields)
	case errors.Is(err, ErrNotFound):
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "Buyer not found")
	case errors.Is(err, ErrForbidden):
		response.Error(c, http.StatusForbidden, "FORBIDDEN", "You don't own this buyer")
	case errors.Is(err, ErrStaleRecord):
		response.Error(c, http.StatusConflict, "CONFLICT", "Record has been updated by another user. Please refresh and try again.")
	case errors.Is(err, ErrRateLimited):
		response.Error(c, http.StatusTooManyRequests, "RATE_LIMITED", "Too many requests. Please try again later.")
	default:
		_ = c.Error(err)
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error")
	}
}

// userID reads the acting user set by the session middleware.
func userID(c *gin.Context) string {
	return c.GetString("user_id")
}
