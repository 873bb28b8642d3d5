package handler

import (
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"iolist/internal/domain"
	"iolist/internal/middleware"
	"iolist/internal/service"
)

// IOListHandler handles drawing upload and result endpoints.
type IOListHandler struct {
	ioListService service.IOListService
}

// NewIOListHandler creates a new IOListHandler.
func NewIOListHandler(ioListService service.IOListService) *IOListHandler {
	return &IOListHandler{ioListService: ioListService}
}

// UploadData is the data block of a successful upload. Table keys use
// underscores here, unlike the stored result.
type UploadData struct {
	TotalIOList     []domain.IODevice           `json:"Total_IO_List"`
	IOConfiguration []domain.IOConfigurationRow `json:"IO_Configuration"`
	Timestamp       string                      `json:"timestamp"`
	SourceFile      string                      `json:"source_file"`
	RunID           uuid.UUID                   `json:"run_id"`
}

func newUploadData(run *domain.ParseRun) UploadData {
	data := UploadData{
		TotalIOList:     run.Result.TotalIOList,
		IOConfiguration: run.Result.IOConfiguration,
		Timestamp:       run.Result.Timestamp,
		SourceFile:      run.Result.SourceFile,
		RunID:           run.ID,
	}
	if data.TotalIOList == nil {
		data.TotalIOList = []domain.IODevice{}
	}
	if data.IOConfiguration == nil {
		data.IOConfiguration = []domain.IOConfigurationRow{}
	}
	return data
}

// RunSummary is a stored run without its tables.
type RunSummary struct {
	ID          uuid.UUID        `json:"id"`
	SourceFile  string           `json:"source_file"`
	Status      domain.RunStatus `json:"status"`
	DeviceCount int              `json:"device_count"`
	TotalIO     int              `json:"total_io"`
	Error       string           `json:"error,omitempty"`
	CreatedAt   time.Time        `json:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at"`
}

// Upload handles POST /api/v1/upload
// @Summary Upload a drawing
// @Description Parse a DXF drawing into the Total IO List and IO Configuration tables
// @Tags iolist
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "DXF drawing"
// @Success 200 {object} UploadResponse "Drawing parsed"
// @Failure 400 {object} ErrorResponseBody "Missing file or unsupported type"
// @Failure 413 {object} ErrorResponseBody "File too large"
// @Failure 422 {object} ErrorResponseBody "Drawing unreadable"
// @Failure 500 {object} ErrorResponseBody "Catalog unavailable"
// @Router /upload [post]
func (h *IOListHandler) Upload(c *gin.Context) {
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		RespondError(c, http.StatusBadRequest, "MISSING_FILE", "No file part")
		return
	}
	defer func() { _ = file.Close() }()

	name := filepath.Base(header.Filename)
	if header.Filename == "" || name == "." {
		RespondError(c, http.StatusBadRequest, "MISSING_FILE", "No selected file")
		return
	}

	run, err := h.ioListService.ParseDrawing(c.Request.Context(), service.ParseInput{
		FileName: name,
		Size:     header.Size,
		Body:     file,
	})
	if err != nil {
		var readErr *domain.DrawingReadError
		if errors.As(err, &readErr) && run != nil {
			c.JSON(http.StatusUnprocessableEntity, APIResponse{
				Success: false,
				Data:    gin.H{"run_id": run.ID, "result": run.Result},
				Error:   &APIError{Code: "DRAWING_UNREADABLE", Message: readErr.Error()},
			})
			return
		}
		HandleError(c, err)
		return
	}

	RespondWithStats(c, newUploadData(run), run.Stats())
}

// Latest handles GET /api/v1/results
// @Summary Latest result
// @Description Return the most recent parse result in its stored shape
// @Tags iolist
// @Produce json
// @Success 200 {object} domain.ParseResult "Latest result"
// @Failure 404 {object} LegacyErrorBody "No results available"
// @Router /results [get]
func (h *IOListHandler) Latest(c *gin.Context) {
	run, err := h.ioListService.Latest(c.Request.Context())
	if err != nil {
		respondLegacyError(c, err)
		return
	}
	c.JSON(http.StatusOK, run.Result)
}

// GetResult handles GET /api/v1/results/:id
// @Summary Get a result
// @Description Return one stored parse result in its stored shape
// @Tags iolist
// @Produce json
// @Param id path string true "Run ID"
// @Success 200 {object} domain.ParseResult "Result"
// @Failure 400 {object} LegacyErrorBody "Invalid ID"
// @Failure 404 {object} LegacyErrorBody "Run not found"
// @Router /results/{id} [get]
func (h *IOListHandler) GetResult(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid run ID"})
		return
	}
	run, err := h.ioListService.GetByID(c.Request.Context(), id)
	if err != nil {
		respondLegacyError(c, err)
		return
	}
	c.JSON(http.StatusOK, run.Result)
}

// ListRuns handles GET /api/v1/runs
// @Summary List runs
// @Description List stored parse runs, newest first
// @Tags iolist
// @Produce json
// @Param offset query int false "Offset for pagination" default(0)
// @Param limit query int false "Limit for pagination (max 100)" default(20)
// @Success 200 {object} Response{data=[]RunSummary,meta=PagMeta} "List of runs"
// @Router /runs [get]
func (h *IOListHandler) ListRuns(c *gin.Context) {
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	runs, total, err := h.ioListService.List(c.Request.Context(), offset, limit)
	if err != nil {
		HandleError(c, err)
		return
	}

	summaries := make([]RunSummary, 0, len(runs))
	for i := range runs {
		r := &runs[i]
		summaries = append(summaries, RunSummary{
			ID:          r.ID,
			SourceFile:  r.SourceFile,
			Status:      r.Status,
			DeviceCount: r.DeviceCount,
			TotalIO:     r.TotalIO,
			Error:       r.Result.Error,
			CreatedAt:   r.CreatedAt,
			UpdatedAt:   r.UpdatedAt,
		})
	}
	RespondPaginated(c, summaries, PagMeta{Total: total, Offset: offset, Limit: limit})
}

// ReassignDeviceRequest is the body of PATCH /results/:id/devices/:sequence.
type ReassignDeviceRequest struct {
	IODevice *int `json:"io_device" binding:"required" example:"12"`
}

// ReassignDevice handles PATCH /api/v1/results/:id/devices/:sequence
// @Summary Re-address a device
// @Description Set a device's IO Device number and renumber its wiring rows
// @Tags iolist
// @Accept json
// @Produce json
// @Param id path string true "Run ID"
// @Param sequence path int true "Device sequence number"
// @Param body body ReassignDeviceRequest true "New IO device"
// @Success 200 {object} Response{data=domain.ParseResult} "Updated result"
// @Failure 400 {object} ErrorResponseBody "Invalid request"
// @Failure 404 {object} ErrorResponseBody "Run or device not found"
// @Failure 409 {object} ErrorResponseBody "Run has no tables or was modified concurrently"
// @Router /results/{id}/devices/{sequence} [patch]
func (h *IOListHandler) ReassignDevice(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid run ID")
		return
	}
	sequence, err := strconv.Atoi(c.Param("sequence"))
	if err != nil || sequence < 1 {
		RespondError(c, http.StatusBadRequest, "INVALID_SEQUENCE", "sequence must be a positive integer")
		return
	}

	var req ReassignDeviceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}

	run, err := h.ioListService.ReassignDevice(c.Request.Context(), id, sequence, *req.IODevice)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondWithStats(c, run.Result, run.Stats())
}

// ExportXLSX handles GET /api/v1/results/:id/export.xlsx
// @Summary Export as Excel
// @Description Download both tables as an XLSX workbook
// @Tags iolist
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param id path string true "Run ID"
// @Success 200 {file} binary "Workbook"
// @Failure 404 {object} ErrorResponseBody "Run not found"
// @Failure 409 {object} ErrorResponseBody "Run has no tables"
// @Router /results/{id}/export.xlsx [get]
func (h *IOListHandler) ExportXLSX(c *gin.Context) {
	h.export(c, service.ExportXLSX)
}

// ExportCSV handles GET /api/v1/results/:id/export.csv
// @Summary Export as CSV
// @Description Download the IO Configuration table as CSV with a UTF-8 BOM
// @Tags iolist
// @Produce text/csv
// @Param id path string true "Run ID"
// @Success 200 {file} binary "CSV file"
// @Failure 404 {object} ErrorResponseBody "Run not found"
// @Failure 409 {object} ErrorResponseBody "Run has no tables"
// @Router /results/{id}/export.csv [get]
func (h *IOListHandler) ExportCSV(c *gin.Context) {
	h.export(c, service.ExportCSV)
}

func (h *IOListHandler) export(c *gin.Context, format service.ExportFormat) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid run ID")
		return
	}
	out, err := h.ioListService.Export(c.Request.Context(), id, format)
	if err != nil {
		HandleError(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, out.FileName))
	c.Data(http.StatusOK, out.ContentType, out.Data)
}

// DrawingURL handles GET /api/v1/results/:id/drawing
// @Summary Drawing download link
// @Description Get a presigned download URL for the archived drawing of a run
// @Tags iolist
// @Produce json
// @Param id path string true "Run ID"
// @Success 200 {object} Response{data=DrawingLink} "Download link"
// @Failure 404 {object} ErrorResponseBody "Run not found or drawing not archived"
// @Router /results/{id}/drawing [get]
func (h *IOListHandler) DrawingURL(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid run ID")
		return
	}
	url, err := h.ioListService.DrawingURL(c.Request.Context(), id)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, DrawingLink{RunID: id, DownloadURL: url})
}

// DrawingLink is the body of a drawing download response.
type DrawingLink struct {
	RunID       uuid.UUID `json:"run_id"`
	DownloadURL string    `json:"download_url"`
}

// respondLegacyError answers with the flat {"error": "..."} body the
// results endpoints have always used.
func respondLegacyError(c *gin.Context, err error) {
	status, _, msg := MapDomainError(err)
	if status >= 500 {
		zap.L().Error("internal error",
			zap.String("request_id", middleware.GetRequestID(c)),
			zap.String("path", c.Request.URL.Path),
			zap.Error(err))
	}
	_ = c.Error(err)
	c.JSON(status, gin.H{"error": msg})
}
