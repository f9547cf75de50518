package http

import (
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

const analyzeRequestSchema = `{
	"type": "object",
	"properties": {
		"filename":       {"type": "string"},
		"text":           {"type": "string"},
		"vendor_name":    {"type": "string"},
		"invoice_number": {"type": "string"},
		"invoice_date":   {"type": "string"},
		"total_amount":   {"type": "number", "minimum": 0},
		"tax_amount":     {"type": "number", "minimum": 0},
		"currency":       {"type": "string"}
	}
}`

var analyzeSchema = mustSchema(analyzeRequestSchema)

func mustSchema(src string) *gojsonschema.Schema {
	schema, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(src))
	if err != nil {
		panic(fmt.Sprintf("invalid request schema: %v", err))
	}
	return schema
}

// validateAnalyzeRequest checks a raw request body against the analyze schema
func validateAnalyzeRequest(body []byte) error {
	result, err := analyzeSchema.Validate(gojsonschema.NewBytesLoader(body))
	if err != nil {
		return fmt.Errorf("invalid JSON body: %w", err)
	}

	if !result.Valid() {
		errs := make([]string, len(result.Errors()))
		for i, desc := range result.Errors() {
			errs[i] = desc.String()
		}
		return fmt.Errorf("request validation failed: %s", strings.Join(errs, "; "))
	}

	return nil
}
