package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/teachnotes/teachnotes-api/internal/middleware"
	"github.com/teachnotes/teachnotes-api/internal/models"
	"github.com/teachnotes/teachnotes-api/internal/service"
	appErrors "github.com/teachnotes/teachnotes-api/pkg/errors"
	"github.com/teachnotes/teachnotes-api/pkg/response"
)

// AuthHandler wires the registration, login, and logout actions.
type AuthHandler struct {
	service  *service.AuthService
	sessions *middleware.SessionManager
}

// NewAuthHandler creates a new handler.
func NewAuthHandler(svc *service.AuthService, sessions *middleware.SessionManager) *AuthHandler {
	return &AuthHandler{service: svc, sessions: sessions}
}

// Register godoc
// @Summary Register a teacher account
// @Tags Authentication
// @Accept x-www-form-urlencoded
// @Param name formData string true "Display name"
// @Param email formData string true "Email"
// @Param password formData string true "Password"
// @Success 303
// @Failure 400 {object} response.ErrorBody
// @Failure 409 {object} response.ErrorBody
// @Router /auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req service.RegisterRequest
	if err := c.ShouldBind(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid registration payload"))
		return
	}

	user, err := h.service.Register(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	h.sessions.Issue(c, user.ID)
	response.Redirect(c, "/dashboard")
}

// Login godoc
// @Summary Authenticate by email and password
// @Tags Authentication
// @Accept x-www-form-urlencoded
// @Param email formData string true "Email"
// @Param password formData string true "Password"
// @Success 303
// @Failure 400 {object} response.ErrorBody
// @Failure 401 {object} response.ErrorBody
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req service.LoginRequest
	if err := c.ShouldBind(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid login payload"))
		return
	}

	user, err := h.service.Login(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	h.sessions.Issue(c, user.ID)
	response.Redirect(c, "/dashboard")
}

// Me godoc
// @Summary Describe the authenticated user
// @Tags Authentication
// @Produce json
// @Success 200 {object} models.UserInfo
// @Failure 401 {object} response.ErrorBody
// @Router /api/me [get]
func (h *AuthHandler) Me(c *gin.Context) {
	user := middleware.UserFromContext(c)
	if user == nil {
		response.Error(c, appErrors.ErrUnauthenticated)
		return
	}
	response.JSON(c, http.StatusOK, models.UserInfo{
		ID:       user.ID,
		Email:    user.Email,
		FullName: user.FullName,
		Role:     user.Role,
	})
}

// Logout godoc
// @Summary Clear the current session
// @Tags Authentication
// @Success 303
// @Router /auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	h.sessions.Clear(c)
	response.Redirect(c, "/login")
}
