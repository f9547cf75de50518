// Package extract provides the upstream collaborators of the scoring
// pipeline: raw text extraction from uploaded files and field extraction
// from that text.
package extract

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gen2brain/go-fitz"
	"github.com/otiai10/gosseract/v2"
	"go.uber.org/zap"
)

// ErrUnsupportedType is returned for files no extractor can read
var ErrUnsupportedType = errors.New("unsupported file type")

// TextExtractor turns a stored document into plain text
type TextExtractor interface {
	ExtractText(ctx context.Context, path string) (string, error)
}

// PDFTextExtractor reads the text layer of PDF pages using MuPDF
type PDFTextExtractor struct {
	maxPages int
	logger   *zap.Logger
}

// NewPDFTextExtractor creates a PDF extractor reading at most maxPages pages.
// maxPages <= 0 reads every page.
func NewPDFTextExtractor(maxPages int, logger *zap.Logger) *PDFTextExtractor {
	return &PDFTextExtractor{
		maxPages: maxPages,
		logger:   logger,
	}
}

// ExtractText concatenates page text, newline separated
func (e *PDFTextExtractor) ExtractText(ctx context.Context, path string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	doc, err := fitz.New(path)
	if err != nil {
		return "", fmt.Errorf("failed to open PDF: %w", err)
	}
	defer doc.Close()

	pageCount := doc.NumPage()
	if e.maxPages > 0 && pageCount > e.maxPages {
		e.logger.Debug("Truncating PDF pages",
			zap.String("path", path),
			zap.Int("total_pages", pageCount),
			zap.Int("max_pages", e.maxPages))
		pageCount = e.maxPages
	}

	pages := make([]string, 0, pageCount)
	for n := 0; n < pageCount; n++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}

		text, err := doc.Text(n)
		if err != nil {
			e.logger.Warn("Failed to extract page text",
				zap.String("path", path),
				zap.Int("page", n),
				zap.Error(err))
			continue
		}
		pages = append(pages, strings.TrimSpace(text))
	}

	return strings.Join(pages, "\n"), nil
}

// ImageTextExtractor runs Tesseract OCR over scanned images
type ImageTextExtractor struct {
	tessdataPrefix string
	language       string
	logger         *zap.Logger
}

// NewImageTextExtractor creates an OCR extractor. An empty tessdataPrefix
// uses the Tesseract default.
func NewImageTextExtractor(tessdataPrefix, language string, logger *zap.Logger) *ImageTextExtractor {
	return &ImageTextExtractor{
		tessdataPrefix: tessdataPrefix,
		language:       language,
		logger:         logger,
	}
}

// ExtractText performs OCR on the image at path
func (e *ImageTextExtractor) ExtractText(ctx context.Context, path string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	client := gosseract.NewClient()
	defer client.Close()

	if e.tessdataPrefix != "" {
		client.SetTessdataPrefix(e.tessdataPrefix)
	}

	if err := client.SetLanguage(e.language); err != nil {
		return "", fmt.Errorf("failed to set OCR language: %w", err)
	}

	if err := client.SetImage(path); err != nil {
		return "", fmt.Errorf("failed to set image: %w", err)
	}

	text, err := client.Text()
	if err != nil {
		return "", fmt.Errorf("OCR extraction failed: %w", err)
	}

	e.logger.Debug("OCR completed", zap.String("path", path), zap.Int("length", len(text)))

	return strings.TrimSpace(text), nil
}

// Router dispatches extraction by file extension
type Router struct {
	byExt map[string]TextExtractor
}

// NewRouter routes .pdf to pdf and common image extensions to image
func NewRouter(pdf, image TextExtractor) *Router {
	return &Router{
		byExt: map[string]TextExtractor{
			".pdf":  pdf,
			".png":  image,
			".jpg":  image,
			".jpeg": image,
			".tif":  image,
			".tiff": image,
		},
	}
}

// Supports reports whether a file with this name can be extracted
func (r *Router) Supports(filename string) bool {
	_, ok := r.byExt[strings.ToLower(filepath.Ext(filename))]
	return ok
}

// ExtractText implements TextExtractor
func (r *Router) ExtractText(ctx context.Context, path string) (string, error) {
	ext := strings.ToLower(filepath.Ext(path))
	extractor, ok := r.byExt[ext]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedType, ext)
	}

	if _, err := os.Stat(path); err != nil {
		return "", fmt.Errorf("document not readable: %w", err)
	}

	return extractor.ExtractText(ctx, path)
}
