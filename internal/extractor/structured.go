package extractor

import (
	"encoding/json"

	"seoAnalyzerGO/internal/document"
	"seoAnalyzerGO/internal/models"
)

// InvalidJSONLD is recorded once for every JSON-LD block that fails to parse
const InvalidJSONLD = "Invalid JSON-LD structure"

// StructuredData collects the schema.org types declared in JSON-LD blocks.
// A block that does not parse is noted in Errors and the rest are still read.
func StructuredData(doc *document.Document) models.StructuredData {
	scripts := doc.All(`script[type="application/ld+json"]`)

	data := models.StructuredData{
		HasSchema: len(scripts) > 0,
		Types:     []string{},
		Errors:    []string{},
	}

	for _, script := range scripts {
		var payload any
		if err := json.Unmarshal([]byte(script.Text()), &payload); err != nil {
			data.Errors = append(data.Errors, InvalidJSONLD)
			continue
		}
		data.Types = append(data.Types, schemaTypes(payload)...)
	}

	return data
}

// schemaTypes returns the @type values of a JSON-LD payload. Top-level
// arrays and @graph containers are walked one level deep.
func schemaTypes(payload any) []string {
	var types []string

	switch v := payload.(type) {
	case []any:
		for _, item := range v {
			if obj, ok := item.(map[string]any); ok {
				types = append(types, objectTypes(obj)...)
			}
		}
	case map[string]any:
		types = append(types, objectTypes(v)...)
		if graph, ok := v["@graph"].([]any); ok {
			for _, item := range graph {
				if obj, ok := item.(map[string]any); ok {
					types = append(types, objectTypes(obj)...)
				}
			}
		}
	}

	return types
}

func objectTypes(obj map[string]any) []string {
	switch t := obj["@type"].(type) {
	case string:
		return []string{t}
	case []any:
		var types []string
		for _, item := range t {
			if s, ok := item.(string); ok {
				types = append(types, s)
			}
		}
		return types
	}
	return nil
}
