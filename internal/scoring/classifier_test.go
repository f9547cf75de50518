package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/garyjia/docscore/internal/models"
)

func TestClassifyDocument(t *testing.T) {
	tests := []struct {
		name               string
		text               string
		expectedLabel      string
		expectedConfidence float64
	}{
		{"prescription keyword", "Prescription for amoxicillin", models.DocumentTypePrescription, 0.90},
		{"doctor keyword", "Dr. Weber, family doctor", models.DocumentTypePrescription, 0.90},
		{"sick note", "Sick note for 3 days", models.DocumentTypeSickNote, 0.90},
		{"medical leave", "employee on medical leave", models.DocumentTypeSickNote, 0.90},
		{"receipt", "RECEIPT no. 4411", models.DocumentTypeReceipt, 0.85},
		{"paid", "Amount paid in cash", models.DocumentTypeReceipt, 0.85},
		{"offer", "Our offer is valid for 30 days", models.DocumentTypeOffer, 0.80},
		{"quotation", "Quotation Q-17", models.DocumentTypeOffer, 0.80},
		{"invoice", "Invoice #123", models.DocumentTypeInvoice, 0.95},
		{"vat", "VAT 19% included", models.DocumentTypeInvoice, 0.95},
		{"no keyword", "lorem ipsum dolor", models.DocumentTypeOther, 0.50},
		{"empty text", "", models.DocumentTypeOther, 0.50},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ClassifyDocument(tt.text)

			assert.Equal(t, tt.expectedLabel, result.Label)
			assert.Equal(t, tt.expectedConfidence, result.Confidence)
		})
	}
}

func TestClassifyDocument_CaseInsensitive(t *testing.T) {
	assert.Equal(t, ClassifyDocument("invoice #123"), ClassifyDocument("INVOICE #123"))
	assert.Equal(t, ClassifyDirection("bill to"), ClassifyDirection("BILL TO"))
}

func TestClassifyDocument_FirstMatchWins(t *testing.T) {
	// prescription is checked before invoice even though invoice has higher confidence
	result := ClassifyDocument("Invoice for prescription glasses, VAT included")

	assert.Equal(t, models.DocumentTypePrescription, result.Label)
	assert.Equal(t, 0.90, result.Confidence)

	result = ClassifyDocument("receipt for the offer")
	assert.Equal(t, models.DocumentTypeReceipt, result.Label)
}

func TestClassifyDirection(t *testing.T) {
	tests := []struct {
		name               string
		text               string
		expectedLabel      string
		expectedConfidence float64
	}{
		{"bill to", "Bill To: ACME Corp", models.DirectionOutgoing, 0.75},
		{"customer", "Customer number 991", models.DirectionOutgoing, 0.75},
		{"supplier", "Supplier: Demo Vendor GmbH", models.DirectionIncoming, 0.75},
		{"payable", "Accounts payable", models.DirectionIncoming, 0.75},
		{"customer before supplier", "supplier and customer", models.DirectionOutgoing, 0.75},
		{"no keyword", "invoice #123", models.DirectionUnknown, 0.40},
		{"empty text", "", models.DirectionUnknown, 0.40},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ClassifyDirection(tt.text)

			assert.Equal(t, tt.expectedLabel, result.Label)
			assert.Equal(t, tt.expectedConfidence, result.Confidence)
		})
	}
}

func TestClassifiers_UnrecognizedText(t *testing.T) {
	for _, text := range []string{"", "hello world", "12345", "Grüße aus Berlin"} {
		assert.Equal(t, models.ClassificationResult{Label: models.DocumentTypeOther, Confidence: 0.50}, ClassifyDocument(text))
		assert.Equal(t, models.ClassificationResult{Label: models.DirectionUnknown, Confidence: 0.40}, ClassifyDirection(text))
	}
}

func TestMapEsg(t *testing.T) {
	tests := []struct {
		vendor   string
		category string
		co2e     float64
	}{
		{"Stadtwerke Energy AG", "High Emissions", 120},
		{"GREEN ENERGY Ltd", "High Emissions", 120},
		{"Demo Vendor GmbH", "General", 25},
		{"", "General", 25},
	}

	for _, tt := range tests {
		t.Run(tt.vendor, func(t *testing.T) {
			result := MapEsg(tt.vendor)

			assert.Equal(t, tt.category, result.Category)
			assert.Equal(t, tt.co2e, result.Co2eKg)
		})
	}
}
