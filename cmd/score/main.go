package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/garyjia/docscore/internal/extract"
	"github.com/garyjia/docscore/internal/models"
	"github.com/garyjia/docscore/internal/pipeline"
)

func main() {
	vendor := flag.String("vendor", "", "Vendor name")
	invoice := flag.String("invoice", "", "Invoice number")
	date := flag.String("date", "", "Invoice date")
	total := flag.Float64("total", 0, "Total amount")
	tax := flag.Float64("tax", 0, "Tax amount")
	currency := flag.String("currency", "", "Currency code (default EUR)")
	tessdata := flag.String("tessdata", os.Getenv("TESSDATA_PREFIX"), "Tesseract data directory for image input")
	timeout := flag.Duration("timeout", 60*time.Second, "Extraction timeout")
	verbose := flag.Bool("verbose", false, "Verbose output")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: score [flags] [file]\n\nReads document text from file (.txt, .pdf or image) or stdin.\n\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	var logger *zap.Logger
	var err error
	if *verbose {
		logger, err = zap.NewDevelopment()
	} else {
		logger = zap.NewNop()
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	filename, text, err := readDocument(ctx, flag.Arg(0), *tessdata, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %v\n", err)
		os.Exit(1)
	}

	in := models.DocumentInput{
		Filename:      filename,
		Text:          text,
		VendorName:    *vendor,
		InvoiceNumber: *invoice,
		InvoiceDate:   *date,
		TotalAmount:   *total,
		TaxAmount:     *tax,
		Currency:      *currency,
	}.WithDefaults()

	result, err := pipeline.New(nil, logger).Run(in)
	if err != nil {
		printJSON(map[string]string{
			"error":  "processing_failed",
			"detail": err.Error(),
		})
		os.Exit(1)
	}

	printJSON(result)
}

// readDocument returns the filename and raw text for path, or stdin when
// path is empty. PDFs and images go through the extractors.
func readDocument(ctx context.Context, path, tessdata string, logger *zap.Logger) (string, string, error) {
	if path == "" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", "", fmt.Errorf("failed to read stdin: %w", err)
		}
		return "", string(data), nil
	}

	router := extract.NewRouter(
		extract.NewPDFTextExtractor(0, logger),
		extract.NewImageTextExtractor(tessdata, "eng", logger),
	)

	name := filepath.Base(path)
	if router.Supports(name) {
		text, err := router.ExtractText(ctx, path)
		if err != nil {
			return "", "", err
		}
		return name, text, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", "", fmt.Errorf("failed to read %s: %w", path, err)
	}
	return name, string(data), nil
}

func printJSON(v interface{}) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: failed to encode output: %v\n", err)
		os.Exit(1)
	}
}
