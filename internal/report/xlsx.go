// Package report exports stored assessments as spreadsheets.
package report

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/garyjia/docscore/internal/models"
)

// SheetName is the worksheet holding the exported assessments
const SheetName = "Assessments"

var header = []interface{}{
	"ID", "Filename", "Vendor", "Invoice Number", "Total", "Tax", "Currency",
	"Document Type", "Direction", "VAT Rate", "Fraud Score", "Verdict", "Reasons",
	"ESG Category", "CO2e (kg)", "Created At",
}

// XLSXExporter writes assessments into a single-sheet workbook
type XLSXExporter struct {
	logger *zap.Logger
}

// NewXLSXExporter creates a new exporter
func NewXLSXExporter(logger *zap.Logger) *XLSXExporter {
	return &XLSXExporter{logger: logger}
}

// Write renders one header row plus one row per assessment to w
func (e *XLSXExporter) Write(w io.Writer, assessments []*models.Assessment) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}

	if err := f.SetSheetRow(SheetName, "A1", &header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for i, a := range assessments {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}

		row := toRow(a)
		if err := f.SetSheetRow(SheetName, cell, &row); err != nil {
			return fmt.Errorf("failed to write row for %s: %w", a.ID, err)
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}

	e.logger.Info("Assessments exported", zap.Int("rows", len(assessments)))
	return nil
}

func toRow(a *models.Assessment) []interface{} {
	r := a.Result
	return []interface{}{
		a.ID,
		r.Filename,
		r.VendorName,
		r.InvoiceNumber,
		r.TotalAmount,
		r.TaxAmount,
		r.Currency,
		r.DocumentType.Label,
		r.Direction.Label,
		r.Vat.VatRate,
		r.Fraud.Score,
		string(r.Approval.Verdict),
		strings.Join(r.Approval.Reasons, "; "),
		r.Esg.Category,
		r.Esg.Co2eKg,
		a.CreatedAt.UTC().Format(time.RFC3339),
	}
}
