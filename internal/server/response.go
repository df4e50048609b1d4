package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/hammamikhairi/ottopantry/internal/domain"
)

// APIError is the body of every error response.
type APIError struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

// ErrorEnvelope wraps APIError as {"error": {...}}.
type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

func respondError(c *gin.Context, status int, code string, err error) {
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	c.AbortWithStatusJSON(status, ErrorEnvelope{
		Error: APIError{Message: msg, Code: code},
	})
}

// respondErr maps a domain error to its status and code.
func respondErr(c *gin.Context, err error) {
	status, code := classify(err)
	respondError(c, status, code, err)
}

func respondOK(c *gin.Context, payload any) {
	c.JSON(http.StatusOK, payload)
}

func classify(err error) (int, string) {
	switch {
	case errors.Is(err, domain.ErrTooLarge):
		return http.StatusBadRequest, "too_large"
	case errors.Is(err, domain.ErrUnsupported):
		return http.StatusBadRequest, "unsupported_media"
	case errors.Is(err, domain.ErrNoIngredients):
		return http.StatusBadRequest, "no_ingredients"
	case errors.Is(err, domain.ErrInvalidInput):
		return http.StatusBadRequest, "invalid_input"
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, "not_found"
	case errors.Is(err, domain.ErrUnconfigured):
		return http.StatusConflict, "unconfigured"
	case errors.Is(err, domain.ErrAlreadyExists):
		return http.StatusConflict, "already_exists"
	default:
		return http.StatusInternalServerError, "internal"
	}
}
