package handler

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"iolist/internal/domain"
	"iolist/internal/service"
)

// maxCatalogBytes bounds an imported catalog document.
const maxCatalogBytes = 8 << 20

// CatalogHandler serves the component catalog.
type CatalogHandler struct {
	catalogService service.CatalogService
}

// NewCatalogHandler creates a new CatalogHandler.
func NewCatalogHandler(catalogService service.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalogService: catalogService}
}

// Get handles GET /api/v1/component_db
// @Summary Component catalog
// @Description Return the component catalog as a JSON object in catalog order
// @Tags catalog
// @Produce json
// @Success 200 {object} map[string]domain.ComponentDefinition "Catalog"
// @Failure 500 {object} LegacyErrorBody "Catalog unavailable"
// @Router /component_db [get]
func (h *CatalogHandler) Get(c *gin.Context) {
	cat, err := h.catalogService.Catalog(c.Request.Context())
	if err != nil {
		respondLegacyError(c, err)
		return
	}
	c.JSON(http.StatusOK, cat)
}

// Import handles PUT /api/v1/component_db
// @Summary Replace the component catalog
// @Description Replace the stored catalog with a JSON, YAML or XLSX document. Only available with the postgres catalog source.
// @Tags catalog
// @Accept json
// @Accept application/yaml
// @Accept application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Produce json
// @Success 200 {object} Response{data=CatalogImportResult} "Catalog replaced"
// @Failure 400 {object} ErrorResponseBody "Invalid catalog document"
// @Failure 409 {object} ErrorResponseBody "Catalog source is read-only"
// @Router /component_db [put]
func (h *CatalogHandler) Import(c *gin.Context) {
	data, err := io.ReadAll(io.LimitReader(c.Request.Body, maxCatalogBytes))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "could not read request body")
		return
	}

	cat, err := h.catalogService.Import(c.Request.Context(), data)
	if err != nil {
		if errors.Is(err, domain.ErrCatalogLoad) {
			RespondError(c, http.StatusBadRequest, "INVALID_CATALOG", err.Error())
			return
		}
		HandleError(c, err)
		return
	}

	defective := 0
	for _, e := range cat.Entries() {
		if e.Definition.Check() != nil {
			defective++
		}
	}
	RespondOK(c, CatalogImportResult{Entries: cat.Len(), Defective: defective})
}

// CatalogImportResult summarizes an import.
type CatalogImportResult struct {
	Entries   int `json:"entries" example:"42"`
	Defective int `json:"defective" example:"0"`
}
