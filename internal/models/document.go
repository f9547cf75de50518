package models

// DocumentInput is the shared record every scoring stage reads.
// It is built once per request and never mutated by the pipeline.
type DocumentInput struct {
	Filename      string  `json:"filename"`
	Text          string  `json:"text"`
	VendorName    string  `json:"vendor_name"`
	InvoiceNumber string  `json:"invoice_number"`
	InvoiceDate   string  `json:"invoice_date"`
	TotalAmount   float64 `json:"total_amount"`
	TaxAmount     float64 `json:"tax_amount"`
	Currency      string  `json:"currency"`
}

// Input defaults applied by transport collaborators, never by the pipeline
const (
	DefaultFilename = "unknown.pdf"
	DefaultCurrency = "EUR"
)

// WithDefaults fills the collaborator-level defaults for absent fields
func (in DocumentInput) WithDefaults() DocumentInput {
	if in.Filename == "" {
		in.Filename = DefaultFilename
	}
	if in.Currency == "" {
		in.Currency = DefaultCurrency
	}
	return in
}

// ExtractedFields represents the structured fields pulled out of document text
type ExtractedFields struct {
	VendorName    string  `json:"vendor_name"`
	InvoiceNumber string  `json:"invoice_number"`
	InvoiceDate   string  `json:"invoice_date"`
	TotalAmount   float64 `json:"total_amount"`
	TaxAmount     float64 `json:"tax_amount"`
	Currency      string  `json:"currency"`
}

// ToInput merges extracted fields with the raw text into a pipeline input
func (f ExtractedFields) ToInput(filename, text string) DocumentInput {
	return DocumentInput{
		Filename:      filename,
		Text:          text,
		VendorName:    f.VendorName,
		InvoiceNumber: f.InvoiceNumber,
		InvoiceDate:   f.InvoiceDate,
		TotalAmount:   f.TotalAmount,
		TaxAmount:     f.TaxAmount,
		Currency:      f.Currency,
	}
}
