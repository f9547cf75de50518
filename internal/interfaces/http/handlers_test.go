package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/garyjia/docscore/internal/extract"
	"github.com/garyjia/docscore/internal/metrics"
	"github.com/garyjia/docscore/internal/models"
	"github.com/garyjia/docscore/internal/payment"
	"github.com/garyjia/docscore/internal/pipeline"
	"github.com/garyjia/docscore/internal/report"
	"github.com/garyjia/docscore/internal/repository"
	"github.com/garyjia/docscore/internal/storage"
)

// MockStore mocks the AssessmentStore interface
type MockStore struct {
	mock.Mock
}

func (m *MockStore) Create(ctx context.Context, a *models.Assessment) error {
	args := m.Called(ctx, a)
	return args.Error(0)
}

func (m *MockStore) GetByID(ctx context.Context, id string) (*models.Assessment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Assessment), args.Error(1)
}

func (m *MockStore) List(ctx context.Context, limit, offset int) ([]*models.Assessment, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Assessment), args.Error(1)
}

// fakeExtractor returns fixed text for .pdf uploads
type fakeExtractor struct {
	text string
	err  error
}

func (f fakeExtractor) Supports(filename string) bool {
	return strings.HasSuffix(strings.ToLower(filename), ".pdf")
}

func (f fakeExtractor) ExtractText(ctx context.Context, path string) (string, error) {
	return f.text, f.err
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
	Detail  string          `json:"detail"`
}

func newTestServer(t *testing.T, store *MockStore, extractor DocumentExtractor) *Server {
	t.Helper()
	return newTestServerWithConfig(t, DefaultServerConfig(), store, extractor)
}

func newTestServerWithConfig(t *testing.T, cfg ServerConfig, store *MockStore, extractor DocumentExtractor) *Server {
	t.Helper()

	logger := zap.NewNop()
	reg := prometheus.NewRegistry()

	deps := Dependencies{
		Scorer:    pipeline.New(metrics.NewPipelineMetrics(reg), logger),
		Store:     store,
		Extractor: extractor,
		Fields:    extract.NewStubFieldExtractor(),
		QR:        payment.NewQRRenderer(128),
		Exporter:  report.NewXLSXExporter(logger),
		Uploads:   storage.NewUploadStorage(t.TempDir(), logger),
		Gatherer:  reg,
	}

	return NewServer(cfg, deps, logger)
}

func do(s *Server, req *http.Request) (*httptest.ResponseRecorder, envelope) {
	w := httptest.NewRecorder()
	s.Router().ServeHTTP(w, req)

	var env envelope
	_ = json.Unmarshal(w.Body.Bytes(), &env)
	return w, env
}

func storedAssessment() *models.Assessment {
	return &models.Assessment{
		ID: "a-1",
		Result: models.PipelineResult{
			Filename:      "demo.pdf",
			InvoiceNumber: "INV-2026-001",
			TotalAmount:   1200,
			Payment: models.PaymentPayload{
				Amount:    1200,
				Reference: "INV-2026-001",
				Currency:  models.PaymentCurrency,
				QRString:  "PAYMENT|AMOUNT:1200|REF:INV-2026-001",
			},
		},
	}
}

func TestHealthCheck(t *testing.T) {
	s := newTestServer(t, &MockStore{}, fakeExtractor{})

	w, env := do(s, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, env.Success)
	assert.Contains(t, string(env.Data), "healthy")
}

func TestAnalyzeDocument(t *testing.T) {
	tests := []struct {
		name        string
		body        string
		wantStatus  int
		wantVerdict models.Verdict
		wantError   string
	}{
		{
			name:        "valid invoice passes",
			body:        `{"filename":"demo.pdf","text":"Invoice INV-2026-001 VAT 19%","vendor_name":"Demo Vendor GmbH","invoice_number":"INV-2026-001","total_amount":1200,"tax_amount":228,"currency":"EUR"}`,
			wantStatus:  http.StatusCreated,
			wantVerdict: models.VerdictPass,
		},
		{
			name:        "zero tax needs info",
			body:        `{"text":"invoice","invoice_number":"INV-1","total_amount":500,"tax_amount":0}`,
			wantStatus:  http.StatusCreated,
			wantVerdict: models.VerdictNeedsInfo,
		},
		{
			name:        "large amount fails",
			body:        `{"text":"invoice","invoice_number":"INV-2","total_amount":60000,"tax_amount":11400}`,
			wantStatus:  http.StatusCreated,
			wantVerdict: models.VerdictFail,
		},
		{
			name:       "negative amount rejected",
			body:       `{"total_amount":-1}`,
			wantStatus: http.StatusBadRequest,
			wantError:  "request validation failed",
		},
		{
			name:        "unknown fields ignored",
			body:        `{"text":"invoice","total_amount":1200,"tax_amount":228,"source":"scanner-3"}`,
			wantStatus:  http.StatusCreated,
			wantVerdict: models.VerdictPass,
		},
		{
			name:       "wrong type rejected",
			body:       `{"total_amount":"1200"}`,
			wantStatus: http.StatusBadRequest,
			wantError:  "request validation failed",
		},
		{
			name:       "malformed JSON rejected",
			body:       `{"total_amount":`,
			wantStatus: http.StatusBadRequest,
			wantError:  "invalid JSON body",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := &MockStore{}
			store.On("Create", mock.Anything, mock.AnythingOfType("*models.Assessment")).Return(nil).Maybe()
			s := newTestServer(t, store, fakeExtractor{})

			req := httptest.NewRequest(http.MethodPost, "/api/v1/documents/analyze", strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/json")
			w, env := do(s, req)

			assert.Equal(t, tt.wantStatus, w.Code)
			if tt.wantError != "" {
				assert.False(t, env.Success)
				assert.Contains(t, env.Error, tt.wantError)
				store.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
				return
			}

			require.True(t, env.Success)
			var a models.Assessment
			require.NoError(t, json.Unmarshal(env.Data, &a))
			assert.NotEmpty(t, a.ID)
			assert.Equal(t, tt.wantVerdict, a.Result.Approval.Verdict)
			store.AssertNumberOfCalls(t, "Create", 1)
		})
	}
}

func TestAnalyzeDocument_AppliesDefaults(t *testing.T) {
	store := &MockStore{}
	store.On("Create", mock.Anything, mock.MatchedBy(func(a *models.Assessment) bool {
		return a.Result.Filename == models.DefaultFilename && a.Result.Currency == models.DefaultCurrency
	})).Return(nil)
	s := newTestServer(t, store, fakeExtractor{})

	w, _ := do(s, httptest.NewRequest(http.MethodPost, "/api/v1/documents/analyze", strings.NewReader(`{}`)))

	assert.Equal(t, http.StatusCreated, w.Code)
	store.AssertExpectations(t)
}

func TestAnalyzeDocument_StoreFailure(t *testing.T) {
	store := &MockStore{}
	store.On("Create", mock.Anything, mock.Anything).Return(errors.New("disk full"))
	s := newTestServer(t, store, fakeExtractor{})

	w, env := do(s, httptest.NewRequest(http.MethodPost, "/api/v1/documents/analyze", strings.NewReader(`{"total_amount":10}`)))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "failed to store assessment", env.Error)
}

func TestAnalyzeDocument_BodyTooLarge(t *testing.T) {
	cfg := DefaultServerConfig()
	cfg.MaxUploadBytes = 64
	store := &MockStore{}
	s := newTestServerWithConfig(t, cfg, store, fakeExtractor{})

	body := `{"text":"` + strings.Repeat("x", 256) + `"}`
	w, env := do(s, httptest.NewRequest(http.MethodPost, "/api/v1/documents/analyze", strings.NewReader(body)))

	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	assert.Equal(t, "request body too large", env.Error)
	store.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func multipartUpload(t *testing.T, field, filename string, content []byte) *http.Request {
	t.Helper()

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile(field, filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/documents/upload", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func TestUploadDocument(t *testing.T) {
	t.Run("extracts and scores the upload", func(t *testing.T) {
		store := &MockStore{}
		store.On("Create", mock.Anything, mock.MatchedBy(func(a *models.Assessment) bool {
			return a.Result.Filename == "scan.pdf" && a.Result.InvoiceNumber == "INV-2026-001"
		})).Return(nil)
		s := newTestServer(t, store, fakeExtractor{text: "Invoice INV-2026-001"})

		w, env := do(s, multipartUpload(t, "file", "scan.pdf", []byte("%PDF-1.4")))

		assert.Equal(t, http.StatusCreated, w.Code)
		require.True(t, env.Success)

		var a models.Assessment
		require.NoError(t, json.Unmarshal(env.Data, &a))
		assert.Equal(t, models.DocumentTypeInvoice, a.Result.DocumentType.Label)
		assert.Equal(t, models.VerdictPass, a.Result.Approval.Verdict)
		store.AssertExpectations(t)
	})

	t.Run("missing file field", func(t *testing.T) {
		s := newTestServer(t, &MockStore{}, fakeExtractor{})

		w, env := do(s, multipartUpload(t, "document", "scan.pdf", []byte("x")))

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, env.Error, "'file' is required")
	})

	t.Run("file too large", func(t *testing.T) {
		cfg := DefaultServerConfig()
		cfg.MaxUploadBytes = 1024
		store := &MockStore{}
		s := newTestServerWithConfig(t, cfg, store, fakeExtractor{text: "Invoice"})

		w, env := do(s, multipartUpload(t, "file", "scan.pdf", bytes.Repeat([]byte("a"), 64<<10)))

		assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
		assert.Equal(t, "file too large", env.Error)
		store.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("filename that is only an extension", func(t *testing.T) {
		store := &MockStore{}
		s := newTestServer(t, store, fakeExtractor{text: "Invoice"})

		w, env := do(s, multipartUpload(t, "file", ".pdf", []byte("%PDF-1.4")))

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "invalid filename", env.Error)
		store.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("unsupported type", func(t *testing.T) {
		s := newTestServer(t, &MockStore{}, fakeExtractor{})

		w, env := do(s, multipartUpload(t, "file", "notes.docx", []byte("x")))

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "unsupported file type", env.Error)
	})

	t.Run("extraction failure", func(t *testing.T) {
		s := newTestServer(t, &MockStore{}, fakeExtractor{err: extract.ErrUnsupportedType})

		w, env := do(s, multipartUpload(t, "file", "scan.pdf", []byte("x")))

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		assert.Equal(t, "extraction_failed", env.Error)
	})
}

func TestListAssessments(t *testing.T) {
	tests := []struct {
		name       string
		query      string
		wantLimit  int
		wantOffset int
	}{
		{"defaults", "", 20, 0},
		{"explicit", "?limit=5&offset=10", 5, 10},
		{"limit above max", "?limit=500", 20, 0},
		{"negative offset", "?offset=-3", 20, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := &MockStore{}
			store.On("List", mock.Anything, tt.wantLimit, tt.wantOffset).Return(nil, nil)
			s := newTestServer(t, store, fakeExtractor{})

			w, env := do(s, httptest.NewRequest(http.MethodGet, "/api/v1/documents"+tt.query, nil))

			assert.Equal(t, http.StatusOK, w.Code)
			assert.JSONEq(t, `[]`, string(env.Data))
			store.AssertExpectations(t)
		})
	}
}

func TestGetAssessment(t *testing.T) {
	store := &MockStore{}
	store.On("GetByID", mock.Anything, "a-1").Return(storedAssessment(), nil)
	store.On("GetByID", mock.Anything, "missing").Return(nil, repository.ErrNotFound)
	store.On("GetByID", mock.Anything, "broken").Return(nil, errors.New("db down"))
	s := newTestServer(t, store, fakeExtractor{})

	w, env := do(s, httptest.NewRequest(http.MethodGet, "/api/v1/documents/a-1", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, string(env.Data), `"id":"a-1"`)

	w, env = do(s, httptest.NewRequest(http.MethodGet, "/api/v1/documents/missing", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "assessment not found", env.Error)

	w, _ = do(s, httptest.NewRequest(http.MethodGet, "/api/v1/documents/broken", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestPaymentQR(t *testing.T) {
	store := &MockStore{}
	store.On("GetByID", mock.Anything, "a-1").Return(storedAssessment(), nil)
	s := newTestServer(t, store, fakeExtractor{})

	w := httptest.NewRecorder()
	s.Router().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/documents/a-1/payment-qr", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "image/png", w.Header().Get("Content-Type"))
	assert.True(t, bytes.HasPrefix(w.Body.Bytes(), []byte("\x89PNG")))
}

func TestExportAssessments(t *testing.T) {
	store := &MockStore{}
	store.On("List", mock.Anything, exportLimit, 0).Return([]*models.Assessment{storedAssessment()}, nil)
	s := newTestServer(t, store, fakeExtractor{})

	w := httptest.NewRecorder()
	s.Router().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/documents/export", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, xlsxContentType, w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "assessments.xlsx")
	// xlsx is a zip container
	assert.True(t, bytes.HasPrefix(w.Body.Bytes(), []byte("PK")))
}

func TestMetricsEndpoint(t *testing.T) {
	store := &MockStore{}
	store.On("Create", mock.Anything, mock.Anything).Return(nil)
	s := newTestServer(t, store, fakeExtractor{})

	do(s, httptest.NewRequest(http.MethodPost, "/api/v1/documents/analyze", strings.NewReader(`{"total_amount":10,"tax_amount":1}`)))

	w := httptest.NewRecorder()
	s.Router().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "docscore_pipeline_runs_total")
}
