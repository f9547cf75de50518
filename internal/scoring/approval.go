package scoring

import "github.com/garyjia/docscore/internal/models"

// FraudFailThreshold is the fraud score above which a document fails outright
const FraudFailThreshold = 0.7

type approvalRule struct {
	applies func(fraudScore float64, issues []models.ComplianceIssue) bool
	decide  func(issues []models.ComplianceIssue) models.ApprovalDecision
}

// Priority order: fraud beats compliance, compliance beats pass.
var approvalRules = []approvalRule{
	{
		applies: func(fraudScore float64, _ []models.ComplianceIssue) bool {
			return fraudScore > FraudFailThreshold
		},
		decide: func(_ []models.ComplianceIssue) models.ApprovalDecision {
			return models.ApprovalDecision{
				Verdict:         models.VerdictFail,
				Confidence:      0.90,
				Reasons:         []string{"Fraud score too high"},
				NeedsInfoFields: []string{},
			}
		},
	},
	{
		applies: func(_ float64, issues []models.ComplianceIssue) bool {
			return len(issues) > 0
		},
		decide: func(issues []models.ComplianceIssue) models.ApprovalDecision {
			reasons := make([]string, 0, len(issues))
			for _, issue := range issues {
				reasons = append(reasons, issue.Message)
			}
			return models.ApprovalDecision{
				Verdict:         models.VerdictNeedsInfo,
				Confidence:      0.75,
				Reasons:         reasons,
				NeedsInfoFields: []string{"tax_amount"},
			}
		},
	},
}

func passDecision() models.ApprovalDecision {
	return models.ApprovalDecision{
		Verdict:         models.VerdictPass,
		Confidence:      0.95,
		Reasons:         []string{"Invoice looks valid"},
		NeedsInfoFields: []string{},
	}
}

// DecideApproval combines the fraud score and compliance issues into one verdict.
// The first applicable rule decides; there is no weighting between inputs.
func DecideApproval(fraudScore float64, issues []models.ComplianceIssue) models.ApprovalDecision {
	for _, r := range approvalRules {
		if r.applies(fraudScore, issues) {
			return r.decide(issues)
		}
	}
	return passDecision()
}
