package scoring

import (
	"strconv"

	"github.com/garyjia/docscore/internal/models"
)

// BuildPaymentPayload formats the payment QR payload.
// Amount and reference are not validated.
func BuildPaymentPayload(amount float64, invoiceNumber string) models.PaymentPayload {
	return models.PaymentPayload{
		Amount:    amount,
		Reference: invoiceNumber,
		Currency:  models.PaymentCurrency,
		QRString:  "PAYMENT|AMOUNT:" + FormatAmount(amount) + "|REF:" + invoiceNumber,
	}
}

// FormatAmount renders an amount in its shortest plain decimal form:
// no exponent, no grouping, no trailing zeros.
func FormatAmount(amount float64) string {
	return strconv.FormatFloat(amount, 'f', -1, 64)
}
