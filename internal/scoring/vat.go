package scoring

import "github.com/garyjia/docscore/internal/models"

// MaxPlausibleVatRate is the rate above which a document is flagged
const MaxPlausibleVatRate = 0.25

type vatCheck struct {
	fires func(rate, tax float64) bool
	issue models.ComplianceIssue
}

// Both checks run independently; order here is the order issues are reported in.
var vatChecks = []vatCheck{
	{
		fires: func(rate, _ float64) bool { return rate > MaxPlausibleVatRate },
		issue: models.ComplianceIssue{Severity: models.SeverityHigh, Message: "VAT rate unusually high"},
	},
	{
		fires: func(_, tax float64) bool { return tax == 0 },
		issue: models.ComplianceIssue{Severity: models.SeverityMedium, Message: "No VAT detected (check compliance)"},
	},
}

// EvaluateVat computes the effective VAT rate and reports compliance issues.
// The rate is 0 whenever total or tax is not positive; a zero total and a
// zero tax are not told apart.
func EvaluateVat(total, tax float64) models.VatAssessment {
	rate := 0.0
	if total > 0 && tax > 0 {
		rate = roundTo(tax/total, 2)
	}

	issues := make([]models.ComplianceIssue, 0, len(vatChecks))
	for _, check := range vatChecks {
		if check.fires(rate, tax) {
			issues = append(issues, check.issue)
		}
	}

	return models.VatAssessment{
		VatRate:           rate,
		VatAmountComputed: roundTo(total*rate, 2),
		Issues:            issues,
	}
}
