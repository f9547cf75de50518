package extract

import (
	"context"

	"github.com/garyjia/docscore/internal/models"
)

// FieldExtractor pulls structured invoice fields out of document text
type FieldExtractor interface {
	ExtractFields(ctx context.Context, text string) (models.ExtractedFields, error)
}

// StubFieldExtractor returns a fixed demo record regardless of the text.
// It stands in until a real field extractor is wired.
type StubFieldExtractor struct{}

// NewStubFieldExtractor creates the stub extractor
func NewStubFieldExtractor() *StubFieldExtractor {
	return &StubFieldExtractor{}
}

// ExtractFields implements FieldExtractor
func (StubFieldExtractor) ExtractFields(ctx context.Context, _ string) (models.ExtractedFields, error) {
	if err := ctx.Err(); err != nil {
		return models.ExtractedFields{}, err
	}

	return models.ExtractedFields{
		VendorName:    "Demo Vendor GmbH",
		InvoiceNumber: "INV-2026-001",
		InvoiceDate:   "2026-01-15",
		TotalAmount:   1200,
		TaxAmount:     228,
		Currency:      "EUR",
	}, nil
}
