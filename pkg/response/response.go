package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	appErrors "github.com/teachnotes/teachnotes-api/pkg/errors"
)

// ErrorBody is the uniform user-facing error payload. Internal detail stays
// server-side; only the mapped message crosses the wire.
type ErrorBody struct {
	Error string `json:"error"`
}

// JSON sends a success payload.
func JSON(c *gin.Context, status int, data interface{}) {
	c.Header("Cache-Control", "no-store")
	c.Header("Pragma", "no-cache")
	c.JSON(status, data)
}

// Created responds with HTTP 201 Created.
func Created(c *gin.Context, data interface{}) {
	JSON(c, http.StatusCreated, data)
}

// Error converts the error into the uniform {error: string} body.
func Error(c *gin.Context, err error) {
	appErr := appErrors.FromError(err)
	c.Header("Cache-Control", "no-store")
	c.Header("Pragma", "no-cache")
	c.JSON(appErr.Status, ErrorBody{Error: appErr.Message})
}

// Redirect signals the caller to navigate to the resulting resource after a
// successful form action.
func Redirect(c *gin.Context, location string) {
	c.Redirect(http.StatusSeeOther, location)
}

// NoContent sends a 204 response.
func NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}
