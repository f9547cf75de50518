// Package pipeline runs the scoring stages over one document and assembles
// the PipelineResult.
package pipeline

import (
	"errors"
	"fmt"
	"time"

	"github.com/garyjia/docscore/internal/models"
	"github.com/garyjia/docscore/internal/scoring"
	"github.com/garyjia/docscore/pkg/utils"
	"go.uber.org/zap"
)

// Recorder receives run outcomes, typically Prometheus collectors
type Recorder interface {
	ObserveRun(verdict, documentType string, elapsed time.Duration)
	ObserveFailure(elapsed time.Duration)
}

type nopRecorder struct{}

func (nopRecorder) ObserveRun(string, string, time.Duration) {}
func (nopRecorder) ObserveFailure(time.Duration)             {}

// stages holds the stage functions so tests can substitute a faulty one
type stages struct {
	classifyDocument  func(text string) models.ClassificationResult
	classifyDirection func(text string) models.ClassificationResult
	evaluateVat       func(total, tax float64) models.VatAssessment
	scoreFraud        func(total float64) models.FraudAssessment
	decideApproval    func(fraudScore float64, issues []models.ComplianceIssue) models.ApprovalDecision
	mapEsg            func(vendorName string) models.EsgAssessment
	buildPayment      func(amount float64, invoiceNumber string) models.PaymentPayload
}

func defaultStages() stages {
	return stages{
		classifyDocument:  scoring.ClassifyDocument,
		classifyDirection: scoring.ClassifyDirection,
		evaluateVat:       scoring.EvaluateVat,
		scoreFraud:        scoring.ScoreFraud,
		decideApproval:    scoring.DecideApproval,
		mapEsg:            scoring.MapEsg,
		buildPayment:      scoring.BuildPaymentPayload,
	}
}

// Pipeline orchestrates the scoring stages. It holds no per-run state and
// is safe for concurrent use.
type Pipeline struct {
	stages   stages
	recorder Recorder
	logger   *zap.Logger
}

// New creates a pipeline. recorder may be nil.
func New(recorder Recorder, logger *zap.Logger) *Pipeline {
	if recorder == nil {
		recorder = nopRecorder{}
	}
	return &Pipeline{
		stages:   defaultStages(),
		recorder: recorder,
		logger:   logger,
	}
}

// Run scores one document. It returns either a complete result or a
// *ProcessingError, never both.
func (p *Pipeline) Run(in models.DocumentInput) (*models.PipelineResult, error) {
	start := time.Now()

	p.logger.Debug("Starting pipeline run",
		zap.String("filename", in.Filename),
		zap.String("invoice_number", in.InvoiceNumber),
		zap.Int("text_length", len(in.Text)))

	result, err := p.runStages(in)
	elapsed := time.Since(start)

	if err != nil {
		p.recorder.ObserveFailure(elapsed)
		p.logger.Error("Pipeline run failed",
			zap.String("filename", in.Filename),
			zap.Duration("elapsed", elapsed),
			zap.Error(err))
		return nil, err
	}

	p.recorder.ObserveRun(string(result.Approval.Verdict), result.DocumentType.Label, elapsed)
	p.logger.Info("Pipeline run completed",
		zap.String("filename", in.Filename),
		zap.String("document_type", result.DocumentType.Label),
		zap.String("verdict", string(result.Approval.Verdict)),
		zap.Float64("fraud_score", result.Fraud.Score),
		zap.Duration("elapsed", elapsed))

	return result, nil
}

// runStages is the failure boundary: precondition violations and stage
// panics both come back as *ProcessingError.
func (p *Pipeline) runStages(in models.DocumentInput) (result *models.PipelineResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			result = nil
			err = &ProcessingError{Detail: fmt.Sprintf("stage panicked: %v", r)}
		}
	}()

	if err := checkPreconditions(in); err != nil {
		return nil, &ProcessingError{Detail: err.Error(), Err: err}
	}

	s := p.stages
	vat := s.evaluateVat(in.TotalAmount, in.TaxAmount)
	fraud := s.scoreFraud(in.TotalAmount)

	return &models.PipelineResult{
		Filename:      in.Filename,
		VendorName:    in.VendorName,
		InvoiceNumber: in.InvoiceNumber,
		InvoiceDate:   in.InvoiceDate,
		TotalAmount:   in.TotalAmount,
		TaxAmount:     in.TaxAmount,
		Currency:      in.Currency,
		DocumentType:  s.classifyDocument(in.Text),
		Direction:     s.classifyDirection(in.Text),
		Vat:           vat,
		Fraud:         fraud,
		Approval:      s.decideApproval(fraud.Score, vat.Issues),
		Esg:           s.mapEsg(in.VendorName),
		Payment:       s.buildPayment(in.TotalAmount, in.InvoiceNumber),
	}, nil
}

// checkPreconditions enforces the numeric contract the stages assume
func checkPreconditions(in models.DocumentInput) error {
	return errors.Join(
		utils.ValidateAmount("total_amount", in.TotalAmount),
		utils.ValidateAmount("tax_amount", in.TaxAmount),
	)
}
