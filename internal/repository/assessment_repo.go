package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/garyjia/docscore/internal/models"
	"go.uber.org/zap"
)

// ErrNotFound is returned when no assessment has the requested ID
var ErrNotFound = errors.New("assessment not found")

// AssessmentRepository handles assessment database operations
type AssessmentRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewAssessmentRepository creates a new assessment repository
func NewAssessmentRepository(db *sql.DB, logger *zap.Logger) *AssessmentRepository {
	return &AssessmentRepository{
		db:     db,
		logger: logger,
	}
}

// Create stores an assessment. The full result is kept as JSON; the
// indexed columns exist for listing and filtering only.
func (r *AssessmentRepository) Create(ctx context.Context, a *models.Assessment) error {
	resultJSON, err := json.Marshal(a.Result)
	if err != nil {
		return fmt.Errorf("failed to marshal result: %w", err)
	}

	query := `
		INSERT INTO assessments (
			id, filename, invoice_number, document_type, direction,
			verdict, fraud_score, vat_rate, result_json, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err = r.db.ExecContext(ctx, query,
		a.ID,
		a.Result.Filename,
		a.Result.InvoiceNumber,
		a.Result.DocumentType.Label,
		a.Result.Direction.Label,
		string(a.Result.Approval.Verdict),
		a.Result.Fraud.Score,
		a.Result.Vat.VatRate,
		string(resultJSON),
		a.CreatedAt.UTC(),
	)
	if err != nil {
		r.logger.Error("Failed to create assessment", zap.String("id", a.ID), zap.Error(err))
		return fmt.Errorf("failed to create assessment: %w", err)
	}

	return nil
}

// GetByID retrieves an assessment by ID
func (r *AssessmentRepository) GetByID(ctx context.Context, id string) (*models.Assessment, error) {
	query := `
		SELECT id, result_json, created_at
		FROM assessments
		WHERE id = ?
	`

	a, err := scanAssessment(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		r.logger.Error("Failed to get assessment", zap.String("id", id), zap.Error(err))
		return nil, fmt.Errorf("failed to get assessment: %w", err)
	}

	return a, nil
}

// List returns assessments, newest first
func (r *AssessmentRepository) List(ctx context.Context, limit, offset int) ([]*models.Assessment, error) {
	query := `
		SELECT id, result_json, created_at
		FROM assessments
		ORDER BY created_at DESC, id
		LIMIT ? OFFSET ?
	`

	rows, err := r.db.QueryContext(ctx, query, limit, offset)
	if err != nil {
		r.logger.Error("Failed to list assessments", zap.Error(err))
		return nil, fmt.Errorf("failed to list assessments: %w", err)
	}
	defer rows.Close()

	var assessments []*models.Assessment
	for rows.Next() {
		a, err := scanAssessment(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan assessment: %w", err)
		}
		assessments = append(assessments, a)
	}

	return assessments, rows.Err()
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanAssessment(row rowScanner) (*models.Assessment, error) {
	var (
		a          models.Assessment
		resultJSON string
		createdAt  time.Time
	)

	if err := row.Scan(&a.ID, &resultJSON, &createdAt); err != nil {
		return nil, err
	}

	if err := json.Unmarshal([]byte(resultJSON), &a.Result); err != nil {
		return nil, fmt.Errorf("failed to unmarshal result for %s: %w", a.ID, err)
	}
	a.CreatedAt = createdAt

	return &a, nil
}
