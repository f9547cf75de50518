package scoring

import (
	"math"

	"github.com/garyjia/docscore/internal/models"
)

// HighAmountThreshold marks totals that raise the high_amount flag
const HighAmountThreshold = 10000

type amountThreshold struct {
	above  float64
	weight float64
}

// Weights are additive: a total above both thresholds collects both.
// This is a placeholder heuristic, not a statistical model.
var fraudThresholds = []amountThreshold{
	{above: HighAmountThreshold, weight: 0.5},
	{above: 50000, weight: 0.8},
}

// ScoreFraud returns an anomaly score in [0, 1] derived from the total amount
func ScoreFraud(total float64) models.FraudAssessment {
	score := 0.0
	for _, t := range fraudThresholds {
		if total > t.above {
			score += t.weight
		}
	}

	return models.FraudAssessment{
		Score: math.Min(score, 1.0),
		Flags: map[string]bool{
			models.FlagHighAmount: total > HighAmountThreshold,
		},
	}
}
