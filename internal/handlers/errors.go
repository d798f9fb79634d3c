package handlers

import (
	"errors"
	"log"
	"net/http"

	"medinote-backend/internal/apperr"
	"medinote-backend/internal/models"

	"github.com/gin-gonic/gin"
)

// respondError maps the error taxonomy onto HTTP statuses. Anything not in
// the taxonomy is a store or internal failure: logged with context, never
// leaked to the client.
func respondError(c *gin.Context, err error) {
	switch {
	case apperr.IsValidation(err):
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: err.Error()})
	case errors.Is(err, apperr.ErrNotFound):
		c.JSON(http.StatusNotFound, models.ErrorResponse{Error: err.Error()})
	case errors.Is(err, apperr.ErrAccessDenied):
		c.JSON(http.StatusForbidden, models.ErrorResponse{Error: "Access denied"})
	default:
		log.Printf("Error handling %s %s: %v", c.Request.Method, c.Request.URL.Path, err)
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "internal server error"})
	}
}
