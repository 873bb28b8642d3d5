package handler

import "iolist/internal/domain"

// Swagger type definitions for API documentation.
// These types are used by swag to generate OpenAPI documentation.

// Response wraps a successful response.
type Response struct {
	Success bool        `json:"success" example:"true"`
	Data    interface{} `json:"data,omitempty"`
	Meta    *PagMeta    `json:"meta,omitempty"`
}

// UploadResponse is the body of a successful upload.
type UploadResponse struct {
	Success bool              `json:"success" example:"true"`
	Data    UploadData        `json:"data"`
	Stats   domain.ParseStats `json:"stats"`
}

// ErrorResponseBody wraps an error response.
type ErrorResponseBody struct {
	Success bool      `json:"success" example:"false"`
	Error   *APIError `json:"error"`
}

// LegacyErrorBody is the flat error body of the results and catalog endpoints.
type LegacyErrorBody struct {
	Error string `json:"error" example:"No results available"`
}
