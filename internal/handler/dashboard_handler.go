package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/teachnotes/teachnotes-api/internal/service"
	"github.com/teachnotes/teachnotes-api/pkg/response"
)

// DashboardHandler serves the per-teacher dashboard payload.
type DashboardHandler struct {
	service *service.DashboardService
}

// NewDashboardHandler constructs a dashboard handler.
func NewDashboardHandler(svc *service.DashboardService) *DashboardHandler {
	return &DashboardHandler{service: svc}
}

// Overview godoc
// @Summary Current user's subjects with note counts plus recent notes
// @Tags Dashboard
// @Produce json
// @Success 200 {object} service.DashboardOverview
// @Failure 401 {object} response.ErrorBody
// @Router /api/dashboard [get]
func (h *DashboardHandler) Overview(c *gin.Context) {
	overview, err := h.service.Overview(c.Request.Context(), currentUserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, overview)
}
