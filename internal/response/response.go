// Package response holds the JSON envelope and error-to-status mapping
// shared by all HTTP handlers.
package response

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/pawshelf/service-petphoto/internal/domain"
)

// Success writes a 200 response with the standard envelope.
func Success(c *gin.Context, data any) {
	c.JSON(http.StatusOK, gin.H{"success": true, "data": data})
}

// Created writes a 201 response with the standard envelope.
func Created(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, gin.H{"success": true, "data": data})
}

// BadRequest writes a 400 response with a plain error message.
func BadRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": message})
}

// FieldError describes a single failed validation constraint.
type FieldError struct {
	Field         string `json:"field"`
	RejectedValue any    `json:"rejected_value,omitempty"`
	Message       string `json:"message"`
}

// ValidationFailed renders request binding failures. Validator errors
// become structured per-field entries; anything else degrades to a
// plain bad-request message.
func ValidationFailed(c *gin.Context, err error) {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		BadRequest(c, err.Error())
		return
	}

	fields := make([]FieldError, len(verrs))
	for i, fe := range verrs {
		fields[i] = FieldError{
			Field:         fe.Field(),
			RejectedValue: fe.Value(),
			Message:       fmt.Sprintf("failed on the '%s' rule", fe.Tag()),
		}
	}

	c.JSON(http.StatusBadRequest, gin.H{
		"success":   false,
		"timestamp": time.Now().UTC(),
		"status":    http.StatusBadRequest,
		"error":     "Bad Request",
		"message":   "Validation failed for one or more fields",
		"path":      c.Request.URL.Path,
		"errors":    fields,
	})
}

// Error maps an application error to its HTTP status. Untyped errors
// are treated as internal failures and their details are not leaked.
func Error(c *gin.Context, err error) {
	var appErr *domain.AppError
	if errors.As(err, &appErr) {
		c.JSON(statusFor(appErr.Kind), gin.H{"success": false, "error": appErr.Message})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "internal server error"})
}

func statusFor(kind domain.ErrorKind) int {
	switch kind {
	case domain.KindNotFound:
		return http.StatusNotFound
	case domain.KindValidation:
		return http.StatusBadRequest
	case domain.KindConflict:
		return http.StatusConflict
	case domain.KindForbidden:
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}
