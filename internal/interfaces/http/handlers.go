package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/garyjia/docscore/internal/extract"
	"github.com/garyjia/docscore/internal/models"
	"github.com/garyjia/docscore/internal/pipeline"
	"github.com/garyjia/docscore/internal/repository"
	"github.com/garyjia/docscore/pkg/utils"
)

const (
	defaultListLimit = 20
	maxListLimit     = 100
	exportLimit      = 10000

	xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// Scorer runs the scoring pipeline
type Scorer interface {
	Run(in models.DocumentInput) (*models.PipelineResult, error)
}

// AssessmentStore persists scored documents
type AssessmentStore interface {
	Create(ctx context.Context, a *models.Assessment) error
	GetByID(ctx context.Context, id string) (*models.Assessment, error)
	List(ctx context.Context, limit, offset int) ([]*models.Assessment, error)
}

// DocumentExtractor pulls raw text out of a stored upload
type DocumentExtractor interface {
	extract.TextExtractor
	Supports(filename string) bool
}

// QRRenderer renders a payment payload as a PNG
type QRRenderer interface {
	Render(payload models.PaymentPayload) ([]byte, error)
}

// Exporter writes assessments as a spreadsheet
type Exporter interface {
	Write(w io.Writer, assessments []*models.Assessment) error
}

// UploadSaver stores uploaded files
type UploadSaver interface {
	Save(id, filename string, content []byte) (string, error)
}

// Handlers contains all HTTP request handlers
type Handlers struct {
	deps           Dependencies
	maxUploadBytes int64
	logger         *zap.Logger
}

// NewHandlers creates a new Handlers instance
func NewHandlers(deps Dependencies, maxUploadBytes int64, logger *zap.Logger) *Handlers {
	return &Handlers{
		deps:           deps,
		maxUploadBytes: maxUploadBytes,
		logger:         logger,
	}
}

// Response represents a standard JSON response
type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
	Detail  string      `json:"detail,omitempty"`
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	Version   string `json:"version"`
}

// ListRequest represents query parameters for listing assessments
type ListRequest struct {
	Limit  int `form:"limit"`
	Offset int `form:"offset"`
}

// HealthCheck handles GET /health
func (h *Handlers) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, Response{
		Success: true,
		Data: HealthResponse{
			Status:    "healthy",
			Timestamp: time.Now().UTC().Format(time.RFC3339),
			Version:   "1.0.0",
		},
	})
}

// AnalyzeDocument handles POST /api/v1/documents/analyze
func (h *Handlers) AnalyzeDocument(c *gin.Context) {
	h.limitBody(c)

	body, err := c.GetRawData()
	if err != nil {
		if isTooLarge(err) {
			tooLarge(c, "request body too large")
			return
		}
		badRequest(c, "failed to read request body")
		return
	}

	if err := validateAnalyzeRequest(body); err != nil {
		h.logger.Debug("Rejected analyze request", zap.Error(err))
		badRequest(c, err.Error())
		return
	}

	var in models.DocumentInput
	if err := json.Unmarshal(body, &in); err != nil {
		badRequest(c, "invalid JSON body")
		return
	}

	h.score(c, uuid.NewString(), in.WithDefaults())
}

// UploadDocument handles POST /api/v1/documents/upload
func (h *Handlers) UploadDocument(c *gin.Context) {
	h.limitBody(c)

	fh, err := c.FormFile("file")
	if err != nil {
		if isTooLarge(err) {
			tooLarge(c, "file too large")
			return
		}
		badRequest(c, "multipart field 'file' is required")
		return
	}

	filename := utils.SanitizeFilename(fh.Filename)
	if filename == "" {
		badRequest(c, "invalid filename")
		return
	}

	if !h.deps.Extractor.Supports(filename) {
		badRequest(c, "unsupported file type")
		return
	}

	f, err := fh.Open()
	if err != nil {
		h.internalError(c, "failed to read upload", err)
		return
	}
	defer f.Close()

	content, err := io.ReadAll(f)
	if err != nil {
		h.internalError(c, "failed to read upload", err)
		return
	}

	id := uuid.NewString()
	path, err := h.deps.Uploads.Save(id, filename, content)
	if err != nil {
		h.internalError(c, "failed to store upload", err)
		return
	}

	ctx := c.Request.Context()
	text, err := h.deps.Extractor.ExtractText(ctx, path)
	if err != nil {
		h.logger.Warn("Text extraction failed",
			zap.String("id", id),
			zap.String("path", path),
			zap.Error(err))
		c.JSON(http.StatusUnprocessableEntity, Response{
			Success: false,
			Error:   "extraction_failed",
			Detail:  err.Error(),
		})
		return
	}

	fields, err := h.deps.Fields.ExtractFields(ctx, text)
	if err != nil {
		h.internalError(c, "field extraction failed", err)
		return
	}

	h.score(c, id, fields.ToInput(filename, text).WithDefaults())
}

// score runs the pipeline, persists the assessment and writes the response
func (h *Handlers) score(c *gin.Context, id string, in models.DocumentInput) {
	result, err := h.deps.Scorer.Run(in)
	if err != nil {
		var perr *pipeline.ProcessingError
		if errors.As(err, &perr) {
			c.JSON(http.StatusUnprocessableEntity, Response{
				Success: false,
				Error:   "processing_failed",
				Detail:  perr.Detail,
			})
			return
		}
		h.internalError(c, "scoring failed", err)
		return
	}

	assessment := &models.Assessment{
		ID:        id,
		Result:    *result,
		CreatedAt: time.Now().UTC(),
	}

	if err := h.deps.Store.Create(c.Request.Context(), assessment); err != nil {
		h.internalError(c, "failed to store assessment", err)
		return
	}

	h.logger.Info("Document scored",
		zap.String("id", id),
		zap.String("filename", in.Filename),
		zap.String("verdict", string(result.Approval.Verdict)))

	c.JSON(http.StatusCreated, Response{
		Success: true,
		Data:    assessment,
	})
}

// ListAssessments handles GET /api/v1/documents
func (h *Handlers) ListAssessments(c *gin.Context) {
	var req ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		badRequest(c, "invalid query parameters")
		return
	}

	if req.Limit <= 0 || req.Limit > maxListLimit {
		req.Limit = defaultListLimit
	}
	if req.Offset < 0 {
		req.Offset = 0
	}

	assessments, err := h.deps.Store.List(c.Request.Context(), req.Limit, req.Offset)
	if err != nil {
		h.internalError(c, "failed to retrieve assessments", err)
		return
	}

	if assessments == nil {
		assessments = []*models.Assessment{}
	}

	c.JSON(http.StatusOK, Response{
		Success: true,
		Data:    assessments,
	})
}

// GetAssessment handles GET /api/v1/documents/:id
func (h *Handlers) GetAssessment(c *gin.Context) {
	assessment, ok := h.lookup(c)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, Response{
		Success: true,
		Data:    assessment,
	})
}

// PaymentQR handles GET /api/v1/documents/:id/payment-qr
func (h *Handlers) PaymentQR(c *gin.Context) {
	assessment, ok := h.lookup(c)
	if !ok {
		return
	}

	png, err := h.deps.QR.Render(assessment.Result.Payment)
	if err != nil {
		h.internalError(c, "failed to render payment QR", err)
		return
	}

	c.Data(http.StatusOK, "image/png", png)
}

// ExportAssessments handles GET /api/v1/documents/export
func (h *Handlers) ExportAssessments(c *gin.Context) {
	assessments, err := h.deps.Store.List(c.Request.Context(), exportLimit, 0)
	if err != nil {
		h.internalError(c, "failed to retrieve assessments", err)
		return
	}

	var buf bytes.Buffer
	if err := h.deps.Exporter.Write(&buf, assessments); err != nil {
		h.internalError(c, "failed to export assessments", err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="assessments.xlsx"`)
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}

// lookup loads the assessment named by the :id path parameter, writing
// the error response itself when it cannot
func (h *Handlers) lookup(c *gin.Context) (*models.Assessment, bool) {
	id := c.Param("id")

	assessment, err := h.deps.Store.GetByID(c.Request.Context(), id)
	if errors.Is(err, repository.ErrNotFound) {
		c.JSON(http.StatusNotFound, Response{
			Success: false,
			Error:   "assessment not found",
		})
		return nil, false
	}
	if err != nil {
		h.internalError(c, "failed to retrieve assessment", err)
		return nil, false
	}

	return assessment, true
}

func (h *Handlers) internalError(c *gin.Context, msg string, err error) {
	h.logger.Error(msg, zap.String("path", c.Request.URL.Path), zap.Error(err))
	c.JSON(http.StatusInternalServerError, Response{
		Success: false,
		Error:   msg,
	})
}

// limitBody caps the request body at maxUploadBytes
func (h *Handlers) limitBody(c *gin.Context) {
	if h.maxUploadBytes > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUploadBytes)
	}
}

func isTooLarge(err error) bool {
	var maxErr *http.MaxBytesError
	return errors.As(err, &maxErr)
}

func tooLarge(c *gin.Context, msg string) {
	c.JSON(http.StatusRequestEntityTooLarge, Response{
		Success: false,
		Error:   msg,
	})
}

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, Response{
		Success: false,
		Error:   msg,
	})
}
