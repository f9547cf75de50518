package scoring

import (
	"strings"

	"github.com/garyjia/docscore/internal/models"
)

var esgRules = []rule[models.EsgAssessment]{
	{containsAny("energy"), models.EsgAssessment{Category: "High Emissions", Co2eKg: 120}},
}

var generalEsg = models.EsgAssessment{Category: "General", Co2eKg: 25}

// MapEsg maps a vendor name to an emissions category
func MapEsg(vendorName string) models.EsgAssessment {
	return firstMatch(esgRules, strings.ToLower(vendorName), generalEsg)
}
