package models

import "time"

// Document type labels
const (
	DocumentTypePrescription = "prescription"
	DocumentTypeSickNote     = "sick_note"
	DocumentTypeReceipt      = "receipt"
	DocumentTypeOffer        = "offer"
	DocumentTypeInvoice      = "invoice"
	DocumentTypeOther        = "other"
)

// Direction labels
const (
	DirectionIncoming = "incoming"
	DirectionOutgoing = "outgoing"
	DirectionUnknown  = "unknown"
)

// ClassificationResult is a label with a confidence in [0, 1]
type ClassificationResult struct {
	Label      string  `json:"label"`
	Confidence float64 `json:"confidence"`
}

// Severity of a compliance issue
type Severity string

const (
	SeverityHigh   Severity = "HIGH"
	SeverityMedium Severity = "MEDIUM"
	SeverityLow    Severity = "LOW"
)

// ComplianceIssue represents a single finding of the VAT evaluator
type ComplianceIssue struct {
	Severity Severity `json:"severity"`
	Message  string   `json:"message"`
}

// VatAssessment represents the VAT compliance evaluation.
// Issues keep evaluation order, not severity order.
type VatAssessment struct {
	VatRate           float64           `json:"vat_rate"`
	VatAmountComputed float64           `json:"vat_amount_computed"`
	Issues            []ComplianceIssue `json:"issues"`
}

// Fraud flag names
const (
	FlagHighAmount = "high_amount"
)

// FraudAssessment represents the threshold-based anomaly score
type FraudAssessment struct {
	Score float64         `json:"score"`
	Flags map[string]bool `json:"flags"`
}

// Verdict is the terminal output of the approval aggregator
type Verdict string

const (
	VerdictPass      Verdict = "PASS"
	VerdictFail      Verdict = "FAIL"
	VerdictNeedsInfo Verdict = "NEEDS_INFO"
)

// ApprovalDecision represents the final approval outcome.
// NeedsInfoFields is a set, kept sorted so output is stable.
type ApprovalDecision struct {
	Verdict         Verdict  `json:"verdict"`
	Confidence      float64  `json:"confidence"`
	Reasons         []string `json:"reasons"`
	NeedsInfoFields []string `json:"needs_info_fields"`
}

// EsgAssessment represents the emissions category derived from the vendor
type EsgAssessment struct {
	Category string  `json:"category"`
	Co2eKg   float64 `json:"co2e_kg"`
}

// PaymentCurrency is the only currency payment payloads are issued in
const PaymentCurrency = "EUR"

// PaymentPayload represents the data encoded into a payment QR code
type PaymentPayload struct {
	Amount    float64 `json:"amount"`
	Reference string  `json:"reference"`
	Currency  string  `json:"currency"`
	QRString  string  `json:"qr_string"`
}

// PipelineResult is the full response record: the extracted fields plus
// every assessment produced from the same DocumentInput.
type PipelineResult struct {
	Filename      string  `json:"filename"`
	VendorName    string  `json:"vendor_name"`
	InvoiceNumber string  `json:"invoice_number"`
	InvoiceDate   string  `json:"invoice_date"`
	TotalAmount   float64 `json:"total_amount"`
	TaxAmount     float64 `json:"tax_amount"`
	Currency      string  `json:"currency"`

	DocumentType ClassificationResult `json:"document_type"`
	Direction    ClassificationResult `json:"direction"`
	Vat          VatAssessment        `json:"vat"`
	Fraud        FraudAssessment      `json:"fraud"`
	Approval     ApprovalDecision     `json:"approval"`
	Esg          EsgAssessment        `json:"esg"`
	Payment      PaymentPayload       `json:"payment"`
}

// Assessment is a persisted pipeline result
type Assessment struct {
	ID        string         `json:"id"`
	Result    PipelineResult `json:"result"`
	CreatedAt time.Time      `json:"created_at"`
}
