// Package validation checks inbound request payloads against JSON schemas
// before any business logic runs.
package validation

import (
	"fmt"

	"github.com/xeipuuv/gojsonschema"
)

// PlaceOrderSchema describes the structural shape of a place-order body.
// Presence rules with caller-facing messages (email, at least one line
// item) are enforced in the handlers; this catches type mismatches early.
var PlaceOrderSchema = map[string]interface{}{
	"type": "object",
	"properties": map[string]interface{}{
		"customer_info": map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"first_name": map[string]interface{}{"type": "string"},
				"last_name":  map[string]interface{}{"type": "string"},
				"email":      map[string]interface{}{"type": "string"},
				"phone":      map[string]interface{}{"type": "string"},
			},
		},
		"line_items": map[string]interface{}{
			"type": "array",
			"items": map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"variant_id": map[string]interface{}{"type": "integer"},
					"quantity":   map[string]interface{}{"type": "integer"},
				},
				"required": []interface{}{"variant_id", "quantity"},
			},
		},
		"billing_address":      map[string]interface{}{"type": "object"},
		"shipping_address":     map[string]interface{}{"type": "object"},
		"special_instructions": map[string]interface{}{"type": "string"},
		"call_id":              map[string]interface{}{"type": "string"},
	},
}

// CheckInventorySchema describes the structural shape of a check-inventory body.
var CheckInventorySchema = map[string]interface{}{
	"type": "object",
	"properties": map[string]interface{}{
		"product_name":    map[string]interface{}{"type": "string"},
		"variant_details": map[string]interface{}{"type": "string"},
		"line_items": map[string]interface{}{
			"type": "array",
			"items": map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"variant_id": map[string]interface{}{"type": "integer"},
					"quantity":   map[string]interface{}{"type": "integer"},
				},
				"required": []interface{}{"variant_id", "quantity"},
			},
		},
		"call_id": map[string]interface{}{"type": "string"},
	},
}

// Validate checks data against schema and returns a single descriptive
// error when the document does not conform.
func Validate(data map[string]interface{}, schema map[string]interface{}) error {
	schemaLoader := gojsonschema.NewGoLoader(schema)
	documentLoader := gojsonschema.NewGoLoader(data)

	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return fmt.Errorf("validation error: %w", err)
	}

	if !result.Valid() {
		errs := make([]string, len(result.Errors()))
		for i, desc := range result.Errors() {
			errs[i] = desc.String()
		}
		return fmt.Errorf("payload validation failed: %v", errs)
	}

	return nil
}
