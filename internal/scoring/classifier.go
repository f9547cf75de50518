package scoring

import (
	"strings"

	"github.com/garyjia/docscore/internal/models"
)

var documentRules = []rule[models.ClassificationResult]{
	{containsAny("prescription", "doctor"), models.ClassificationResult{Label: models.DocumentTypePrescription, Confidence: 0.90}},
	{containsAny("sick note", "medical leave"), models.ClassificationResult{Label: models.DocumentTypeSickNote, Confidence: 0.90}},
	{containsAny("receipt", "paid"), models.ClassificationResult{Label: models.DocumentTypeReceipt, Confidence: 0.85}},
	{containsAny("offer", "quotation"), models.ClassificationResult{Label: models.DocumentTypeOffer, Confidence: 0.80}},
	{containsAny("invoice", "vat"), models.ClassificationResult{Label: models.DocumentTypeInvoice, Confidence: 0.95}},
}

var unclassifiedDocument = models.ClassificationResult{Label: models.DocumentTypeOther, Confidence: 0.50}

var directionRules = []rule[models.ClassificationResult]{
	{containsAny("bill to", "customer"), models.ClassificationResult{Label: models.DirectionOutgoing, Confidence: 0.75}},
	{containsAny("supplier", "payable"), models.ClassificationResult{Label: models.DirectionIncoming, Confidence: 0.75}},
}

var unknownDirection = models.ClassificationResult{Label: models.DirectionUnknown, Confidence: 0.40}

// ClassifyDocument infers the document type from keywords.
// Rules are checked in order and the first match wins.
func ClassifyDocument(text string) models.ClassificationResult {
	return firstMatch(documentRules, strings.ToLower(text), unclassifiedDocument)
}

// ClassifyDirection infers whether the document is incoming or outgoing
func ClassifyDirection(text string) models.ClassificationResult {
	return firstMatch(directionRules, strings.ToLower(text), unknownDirection)
}
