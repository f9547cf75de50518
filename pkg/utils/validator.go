package utils

import (
	"fmt"
	"math"
	"path/filepath"
	"regexp"
	"strings"
)

var (
	controlChars   = regexp.MustCompile(`[\x00-\x1f\x7f]`)
	unsafeFilename = regexp.MustCompile(`[^a-zA-Z0-9._\-]+`)
)

// ValidateAmount validates a monetary amount: finite and non-negative
func ValidateAmount(name string, amount float64) error {
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		return fmt.Errorf("%s must be a finite number: %v", name, amount)
	}

	if amount < 0 {
		return fmt.Errorf("%s must not be negative: %.2f", name, amount)
	}

	return nil
}

// SanitizeString removes control characters
func SanitizeString(s string) string {
	return controlChars.ReplaceAllString(s, "")
}

// SanitizeFilename reduces an uploaded filename to a safe base name. It
// returns "" when nothing usable is left, including names that are only
// an extension such as ".pdf".
func SanitizeFilename(name string) string {
	base := filepath.Base(strings.ReplaceAll(SanitizeString(name), "\\", "/"))
	base = unsafeFilename.ReplaceAllString(base, "_")

	clean := strings.Trim(base, "._")
	if ext := filepath.Ext(base); len(ext) > 1 && filepath.Ext(clean) != ext {
		return ""
	}
	return clean
}
