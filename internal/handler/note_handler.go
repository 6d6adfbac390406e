package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/teachnotes/teachnotes-api/internal/service"
	appErrors "github.com/teachnotes/teachnotes-api/pkg/errors"
	"github.com/teachnotes/teachnotes-api/pkg/response"
)

// NoteHandler handles note reads and form actions.
type NoteHandler struct {
	service *service.NoteService
}

// NewNoteHandler constructs a note handler.
func NewNoteHandler(svc *service.NoteService) *NoteHandler {
	return &NoteHandler{service: svc}
}

// Get godoc
// @Summary Fetch one note with its subject (owner only)
// @Tags Notes
// @Produce json
// @Param id path string true "Note ID"
// @Success 200 {object} models.NoteDetail
// @Failure 401 {object} response.ErrorBody
// @Failure 403 {object} response.ErrorBody
// @Failure 404 {object} response.ErrorBody
// @Router /api/notes/{id} [get]
func (h *NoteHandler) Get(c *gin.Context) {
	note, err := h.service.Get(c.Request.Context(), currentUserID(c), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, note)
}

// Create godoc
// @Summary Create a note on a subject the current user owns
// @Tags Notes
// @Accept x-www-form-urlencoded
// @Param title formData string true "Title"
// @Param content formData string true "Content"
// @Param topic formData string true "Topic"
// @Param subject formData string true "Subject ID"
// @Success 303
// @Failure 400 {object} response.ErrorBody
// @Failure 401 {object} response.ErrorBody
// @Failure 403 {object} response.ErrorBody
// @Failure 404 {object} response.ErrorBody
// @Router /notes [post]
func (h *NoteHandler) Create(c *gin.Context) {
	var req service.NoteRequest
	if err := c.ShouldBind(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid note payload"))
		return
	}

	note, err := h.service.Create(c.Request.Context(), currentUserID(c), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Redirect(c, "/subjects/"+note.SubjectID)
}

// Update godoc
// @Summary Update a note (owner only)
// @Tags Notes
// @Accept x-www-form-urlencoded
// @Param id path string true "Note ID"
// @Param title formData string true "Title"
// @Param content formData string true "Content"
// @Param topic formData string true "Topic"
// @Param subject formData string true "Subject ID"
// @Success 303
// @Failure 400 {object} response.ErrorBody
// @Failure 401 {object} response.ErrorBody
// @Failure 403 {object} response.ErrorBody
// @Failure 404 {object} response.ErrorBody
// @Router /notes/{id} [post]
func (h *NoteHandler) Update(c *gin.Context) {
	var req service.NoteRequest
	if err := c.ShouldBind(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid note payload"))
		return
	}

	id := c.Param("id")
	if _, err := h.service.Update(c.Request.Context(), currentUserID(c), id, req); err != nil {
		response.Error(c, err)
		return
	}
	response.Redirect(c, "/notes/"+id)
}

// Delete godoc
// @Summary Delete a note (owner only)
// @Tags Notes
// @Param id path string true "Note ID"
// @Success 303
// @Failure 401 {object} response.ErrorBody
// @Failure 403 {object} response.ErrorBody
// @Failure 404 {object} response.ErrorBody
// @Router /notes/{id}/delete [post]
func (h *NoteHandler) Delete(c *gin.Context) {
	subjectID, err := h.service.Delete(c.Request.Context(), currentUserID(c), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Redirect(c, "/subjects/"+subjectID)
}
