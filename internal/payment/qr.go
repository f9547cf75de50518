// Package payment renders payment payloads as scannable QR images.
package payment

import (
	"bytes"
	"fmt"
	"image/png"

	"github.com/makiuchi-d/gozxing"
	"github.com/makiuchi-d/gozxing/qrcode"
	"github.com/makiuchi-d/gozxing/qrcode/decoder"

	"github.com/garyjia/docscore/internal/models"
)

// QRRenderer encodes payment payloads into PNG QR codes
type QRRenderer struct {
	size   int
	writer gozxing.Writer
}

// NewQRRenderer creates a renderer producing size x size images
func NewQRRenderer(size int) *QRRenderer {
	return &QRRenderer{
		size:   size,
		writer: qrcode.NewQRCodeWriter(),
	}
}

// Render returns the PNG encoding of the payload's QR string
func (r *QRRenderer) Render(payload models.PaymentPayload) ([]byte, error) {
	if payload.QRString == "" {
		return nil, fmt.Errorf("payment payload has no QR string")
	}

	hints := map[gozxing.EncodeHintType]interface{}{
		gozxing.EncodeHintType_ERROR_CORRECTION: decoder.ErrorCorrectionLevel_M,
		gozxing.EncodeHintType_MARGIN:           2,
	}

	matrix, err := r.writer.Encode(payload.QRString, gozxing.BarcodeFormat_QR_CODE, r.size, r.size, hints)
	if err != nil {
		return nil, fmt.Errorf("failed to encode QR code: %w", err)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, matrix); err != nil {
		return nil, fmt.Errorf("failed to encode PNG: %w", err)
	}

	return buf.Bytes(), nil
}
