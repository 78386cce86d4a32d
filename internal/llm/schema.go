package llm

import (
	"strings"

	"github.com/sashabaranov/go-openai/jsonschema"
)

// JSONSchema renders d as a plain JSON Schema document.  Leaf nodes carry no
// empty "properties" key, which some validators reject.
func JSONSchema(d jsonschema.Definition) map[string]interface{} {
	return schemaDocument(d, func(t jsonschema.DataType) string { return string(t) })
}

// geminiSchema renders d in the OpenAPI subset accepted by Gemini's
// responseSchema, which spells types in upper case.
func geminiSchema(d jsonschema.Definition) map[string]interface{} {
	return schemaDocument(d, func(t jsonschema.DataType) string { return strings.ToUpper(string(t)) })
}

func schemaDocument(d jsonschema.Definition, typeName func(jsonschema.DataType) string) map[string]interface{} {
	doc := map[string]interface{}{"type": typeName(d.Type)}
	if d.Description != "" {
		doc["description"] = d.Description
	}
	if len(d.Enum) > 0 {
		doc["enum"] = d.Enum
	}
	if len(d.Properties) > 0 {
		props := make(map[string]interface{}, len(d.Properties))
		for name, p := range d.Properties {
			props[name] = schemaDocument(p, typeName)
		}
		doc["properties"] = props
	}
	if len(d.Required) > 0 {
		doc["required"] = d.Required
	}
	if d.Items != nil {
		doc["items"] = schemaDocument(*d.Items, typeName)
	}
	return doc
}
