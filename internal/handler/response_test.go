package handler_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"iolist/internal/domain"
	"iolist/internal/handler"
	"iolist/internal/service"
)

func TestMapDomainError(t *testing.T) {
	tests := []struct {
		err    error
		status int
		code   string
	}{
		{domain.ErrNoResults, http.StatusNotFound, "NO_RESULTS"},
		{fmt.Errorf("sequence 3: %w", domain.ErrDeviceNotFound), http.StatusNotFound, "DEVICE_NOT_FOUND"},
		{fmt.Errorf("updating run: %w", domain.ErrRunModified), http.StatusConflict, "RUN_MODIFIED"},
		{domain.ErrRunFailed, http.StatusConflict, "RUN_FAILED"},
		{domain.ErrFileTooLarge, http.StatusRequestEntityTooLarge, "FILE_TOO_LARGE"},
		{service.ErrCatalogReadOnly, http.StatusConflict, "CATALOG_READ_ONLY"},
		{errors.New("connection reset"), http.StatusInternalServerError, "INTERNAL_ERROR"},
	}
	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			status, code, msg := handler.MapDomainError(tt.err)
			assert.Equal(t, tt.status, status)
			assert.Equal(t, tt.code, code)
			assert.NotEmpty(t, msg)
		})
	}
}
