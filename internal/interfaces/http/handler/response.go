package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/lindabi/backend/internal/domain/shared"
)

// APIResponse is the standard response envelope
type APIResponse struct {
	Success bool       `json:"success"`
	Data    any        `json:"data,omitempty"`
	Error   *ErrorInfo `json:"error,omitempty"`
}

// ErrorInfo carries a machine-readable error code and a message
type ErrorInfo struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// BaseHandler provides common handler utilities
type BaseHandler struct{}

// Success sends a 200 response with data
func (h *BaseHandler) Success(c *gin.Context, data any) {
	c.JSON(http.StatusOK, APIResponse{Success: true, Data: data})
}

// Created sends a 201 created response
func (h *BaseHandler) Created(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, APIResponse{Success: true, Data: data})
}

// NoContent sends a 204 no content response
func (h *BaseHandler) NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

// Error sends an error response with the given status code
func (h *BaseHandler) Error(c *gin.Context, statusCode int, code, message string) {
	c.JSON(statusCode, APIResponse{Success: false, Error: &ErrorInfo{Code: code, Message: message}})
}

// BadRequest sends a 400 bad request response
func (h *BaseHandler) BadRequest(c *gin.Context, message string) {
	h.Error(c, http.StatusBadRequest, "BAD_REQUEST", message)
}

// HandleError maps domain errors onto HTTP status codes
func (h *BaseHandler) HandleError(c *gin.Context, err error) {
	var domainErr *shared.DomainError
	switch {
	case errors.Is(err, shared.ErrNotFound):
		h.Error(c, http.StatusNotFound, "NOT_FOUND", "Resource not found")
	case errors.Is(err, shared.ErrAlreadyExists):
		h.Error(c, http.StatusConflict, "ALREADY_EXISTS", "Resource already exists")
	case errors.As(err, &domainErr):
		status := http.StatusBadRequest
		if domainErr.Code == "INVALID_STATUS_TRANSITION" || errors.Is(err, shared.ErrInvalidState) {
			status = http.StatusUnprocessableEntity
		}
		h.Error(c, status, domainErr.Code, domainErr.Message)
	default:
		h.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error")
	}
}

// tenantID extracts the tenant from the X-Tenant-ID header
func tenantID(c *gin.Context) (uuid.UUID, error) {
	value := c.GetHeader("X-Tenant-ID")
	if value == "" {
		return uuid.Nil, errors.New("tenant ID not found in request")
	}
	return uuid.Parse(value)
}

// actorID extracts the acting user from the X-User-ID header
func actorID(c *gin.Context) (uuid.UUID, error) {
	value := c.GetHeader("X-User-ID")
	if value == "" {
		return uuid.Nil, errors.New("user ID not found in request")
	}
	return uuid.Parse(value)
}
