package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/teachnotes/teachnotes-api/internal/service"
	appErrors "github.com/teachnotes/teachnotes-api/pkg/errors"
	"github.com/teachnotes/teachnotes-api/pkg/response"
)

// SubjectHandler handles subject reads and form actions.
type SubjectHandler struct {
	service *service.SubjectService
}

// NewSubjectHandler constructs a subject handler.
func NewSubjectHandler(svc *service.SubjectService) *SubjectHandler {
	return &SubjectHandler{service: svc}
}

// ListOwned godoc
// @Summary List the current user's subjects (id and name)
// @Tags Subjects
// @Produce json
// @Success 200 {array} models.SubjectRef
// @Failure 401 {object} response.ErrorBody
// @Router /api/subjects [get]
func (h *SubjectHandler) ListOwned(c *gin.Context) {
	refs, err := h.service.ListOwnedRefs(c.Request.Context(), currentUserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, refs)
}

// ListAll godoc
// @Summary List all subjects with teacher names and note counts
// @Tags Subjects
// @Produce json
// @Success 200 {array} models.SubjectOverview
// @Failure 401 {object} response.ErrorBody
// @Router /api/subjects/all [get]
func (h *SubjectHandler) ListAll(c *gin.Context) {
	subjects, err := h.service.ListAll(c.Request.Context(), currentUserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, subjects)
}

// Get godoc
// @Summary Fetch one subject with its notes (owner only)
// @Tags Subjects
// @Produce json
// @Param id path string true "Subject ID"
// @Success 200 {object} service.SubjectDetail
// @Failure 401 {object} response.ErrorBody
// @Failure 403 {object} response.ErrorBody
// @Failure 404 {object} response.ErrorBody
// @Router /api/subjects/{id} [get]
func (h *SubjectHandler) Get(c *gin.Context) {
	subject, err := h.service.Get(c.Request.Context(), currentUserID(c), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, subject)
}

// Create godoc
// @Summary Create a subject owned by the current user
// @Tags Subjects
// @Accept x-www-form-urlencoded
// @Param name formData string true "Name"
// @Param description formData string false "Description"
// @Success 303
// @Failure 400 {object} response.ErrorBody
// @Failure 401 {object} response.ErrorBody
// @Router /subjects [post]
func (h *SubjectHandler) Create(c *gin.Context) {
	var req service.SubjectRequest
	if err := c.ShouldBind(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid subject payload"))
		return
	}

	if _, err := h.service.Create(c.Request.Context(), currentUserID(c), req); err != nil {
		response.Error(c, err)
		return
	}
	response.Redirect(c, "/subjects")
}

// Update godoc
// @Summary Update a subject (owner only)
// @Tags Subjects
// @Accept x-www-form-urlencoded
// @Param id path string true "Subject ID"
// @Param name formData string true "Name"
// @Param description formData string false "Description"
// @Success 303
// @Failure 400 {object} response.ErrorBody
// @Failure 401 {object} response.ErrorBody
// @Failure 403 {object} response.ErrorBody
// @Failure 404 {object} response.ErrorBody
// @Router /subjects/{id} [post]
func (h *SubjectHandler) Update(c *gin.Context) {
	var req service.SubjectRequest
	if err := c.ShouldBind(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid subject payload"))
		return
	}

	id := c.Param("id")
	if _, err := h.service.Update(c.Request.Context(), currentUserID(c), id, req); err != nil {
		response.Error(c, err)
		return
	}
	response.Redirect(c, "/subjects/"+id)
}

// Delete godoc
// @Summary Delete a subject (owner only)
// @Tags Subjects
// @Param id path string true "Subject ID"
// @Success 303
// @Failure 401 {object} response.ErrorBody
// @Failure 403 {object} response.ErrorBody
// @Failure 404 {object} response.ErrorBody
// @Router /subjects/{id}/delete [post]
func (h *SubjectHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), currentUserID(c), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.Redirect(c, "/subjects")
}
