package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"iolist/internal/domain"
	"iolist/internal/middleware"
	"iolist/internal/service"
)

// APIResponse is the standard envelope for all API responses.
type APIResponse struct {
	Success bool               `json:"success"`
	Data    interface{}        `json:"data,omitempty"`
	Error   *APIError          `json:"error,omitempty"`
	Meta    *PagMeta           `json:"meta,omitempty"`
	Stats   *domain.ParseStats `json:"stats,omitempty"`
}

// APIError holds error details in the response.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// PagMeta holds pagination metadata.
type PagMeta struct {
	Total  int `json:"total"`
	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}

// RespondOK sends a 200 success response.
func RespondOK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, APIResponse{Success: true, Data: data})
}

// RespondWithStats sends a 200 success response carrying parse stats.
func RespondWithStats(c *gin.Context, data interface{}, stats domain.ParseStats) {
	c.JSON(http.StatusOK, APIResponse{Success: true, Data: data, Stats: &stats})
}

// RespondPaginated sends a 200 success response with pagination metadata.
func RespondPaginated(c *gin.Context, data interface{}, meta PagMeta) {
	c.JSON(http.StatusOK, APIResponse{Success: true, Data: data, Meta: &meta})
}

// RespondError sends an error response with the given status code.
func RespondError(c *gin.Context, status int, code, msg string) {
	c.JSON(status, APIResponse{
		Success: false,
		Error:   &APIError{Code: code, Message: msg},
	})
}

// MapDomainError translates domain errors to HTTP status codes and error codes.
func MapDomainError(err error) (status int, code, msg string) {
	switch {
	case errors.Is(err, domain.ErrNoResults):
		return http.StatusNotFound, "NO_RESULTS", "No results available"
	case errors.Is(err, domain.ErrRunNotFound):
		return http.StatusNotFound, "RUN_NOT_FOUND", "parse run not found"
	case errors.Is(err, domain.ErrDeviceNotFound):
		return http.StatusNotFound, "DEVICE_NOT_FOUND", "device not found in parse run"
	case errors.Is(err, domain.ErrDrawingNotArchived):
		return http.StatusNotFound, "DRAWING_NOT_ARCHIVED", "the drawing of this run was not archived"
	case errors.Is(err, domain.ErrRunModified):
		return http.StatusConflict, "RUN_MODIFIED", "parse run was modified concurrently; retry the request"
	case errors.Is(err, domain.ErrRunFailed):
		return http.StatusConflict, "RUN_FAILED", "parse run has no tables; the drawing could not be read"
	case errors.Is(err, domain.ErrInvalidIODevice):
		return http.StatusBadRequest, "INVALID_IO_DEVICE", "io_device must be a non-negative integer"
	case errors.Is(err, domain.ErrUnsupportedFileType):
		return http.StatusBadRequest, "UNSUPPORTED_FILE_TYPE", "unsupported file type; allowed: dxf"
	case errors.Is(err, domain.ErrFileTooLarge):
		return http.StatusRequestEntityTooLarge, "FILE_TOO_LARGE", "file exceeds maximum allowed size"
	case errors.Is(err, domain.ErrDrawingRead):
		return http.StatusUnprocessableEntity, "DRAWING_UNREADABLE", err.Error()
	case errors.Is(err, domain.ErrCatalogLoad):
		return http.StatusInternalServerError, "CATALOG_UNAVAILABLE", "component catalog could not be loaded"
	case errors.Is(err, service.ErrCatalogReadOnly):
		return http.StatusConflict, "CATALOG_READ_ONLY", "configured catalog source cannot be written"
	default:
		return http.StatusInternalServerError, "INTERNAL_ERROR", "an internal error occurred"
	}
}

// HandleError maps a domain error and sends the appropriate error response.
func HandleError(c *gin.Context, err error) {
	status, code, msg := MapDomainError(err)
	if status >= 500 {
		zap.L().Error("internal error",
			zap.String("request_id", middleware.GetRequestID(c)),
			zap.String("path", c.Request.URL.Path),
			zap.Error(err))
	}
	_ = c.Error(err)
	RespondError(c, status, code, msg)
}
