package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/garyjia/coretax-converter/internal/converter"
	"github.com/garyjia/coretax-converter/pkg/utils"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// Handlers contains all HTTP request handlers
type Handlers struct {
	pipeline      *converter.Pipeline
	maxUploadSize int64
	logger        *zap.Logger
}

// NewHandlers creates a new Handlers instance
func NewHandlers(pipeline *converter.Pipeline, maxUploadSize int64, logger *zap.Logger) *Handlers {
	return &Handlers{
		pipeline:      pipeline,
		maxUploadSize: maxUploadSize,
		logger:        logger,
	}
}

// ErrorResponse is the JSON body returned on conversion failure.
type ErrorResponse struct {
	Kind   string `json:"kind"`
	Detail string `json:"detail"`
}

// Index serves the upload page.
func (h *Handlers) Index(c *gin.Context) {
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(uploadPage))
}

// HealthCheck reports service liveness. It does not touch the pipeline.
func (h *Handlers) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "coretax-converter",
		"time":    time.Now().Format(time.RFC3339),
	})
}

// Convert accepts an ERP sales spreadsheet and returns the Core Tax import
// workbook as a download. The conversion report travels in response headers
// so the body stays a plain file.
func (h *Handlers) Convert(c *gin.Context) {
	conversionID := uuid.NewString()

	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Kind: "bad_request", Detail: "missing uploaded file"})
		return
	}

	if !utils.IsExcelFile(fileHeader.Filename) {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Kind:   "bad_request",
			Detail: "please upload an Excel file (.xlsx or .xls)",
		})
		return
	}
	if h.maxUploadSize > 0 && fileHeader.Size > h.maxUploadSize {
		c.JSON(http.StatusRequestEntityTooLarge, ErrorResponse{
			Kind:   "bad_request",
			Detail: fmt.Sprintf("file exceeds the %d byte upload limit", h.maxUploadSize),
		})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Kind: "bad_request", Detail: "failed to open uploaded file"})
		return
	}
	defer file.Close()

	input, err := io.ReadAll(file)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Kind: "bad_request", Detail: "failed to read uploaded file"})
		return
	}

	h.logger.Info("Conversion requested",
		zap.String("conversion_id", conversionID),
		zap.String("filename", utils.SanitizeString(fileHeader.Filename)),
		zap.Int64("size", fileHeader.Size))

	output, report, err := h.pipeline.Convert(input)
	if err != nil {
		h.writeConversionError(c, conversionID, err)
		return
	}

	filename := fmt.Sprintf("CoreTax_Import_%s.xlsx", time.Now().Format("20060102_150405"))

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	c.Header("X-Conversion-Id", conversionID)
	c.Header("X-Total-Rows", fmt.Sprintf("%d", report.TotalRows))
	c.Header("X-Converted-Rows", fmt.Sprintf("%d", report.ConvertedRows))
	c.Header("X-Skipped-Rows", fmt.Sprintf("%d", len(report.SkippedRows)))
	if reportJSON, jerr := json.Marshal(report); jerr == nil {
		c.Header("X-Conversion-Report", string(reportJSON))
	}

	c.Data(http.StatusOK, xlsxContentType, output)
}

// writeConversionError maps pipeline error kinds to HTTP statuses.
func (h *Handlers) writeConversionError(c *gin.Context, conversionID string, err error) {
	var convErr *converter.ConversionError
	if !errors.As(err, &convErr) {
		h.logger.Error("Unexpected conversion failure",
			zap.String("conversion_id", conversionID),
			zap.Error(err))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Kind: "internal", Detail: "conversion failed"})
		return
	}

	status := http.StatusBadRequest
	switch convErr.Kind {
	case converter.KindInconsistentInvoice:
		status = http.StatusUnprocessableEntity
	case converter.KindSerialization:
		status = http.StatusInternalServerError
	}

	h.logger.Warn("Conversion rejected",
		zap.String("conversion_id", conversionID),
		zap.String("kind", convErr.Kind),
		zap.String("detail", convErr.Detail))

	c.Header("X-Conversion-Id", conversionID)
	c.JSON(status, ErrorResponse{Kind: convErr.Kind, Detail: convErr.Detail})
}
