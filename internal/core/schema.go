package core

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/samber/lo"
	"github.com/sashabaranov/go-openai/jsonschema"
	"github.com/xeipuuv/gojsonschema"

	"drspecialist/internal/llm"
	"drspecialist/pkg"
)

// ResponseSchemaName labels ResponseSchema for providers that need a name.
const ResponseSchemaName = "specialist_recommendation"

// ResponseSchema is the shape the model is asked to answer in.
var ResponseSchema = jsonschema.Definition{
	Type: jsonschema.Object,
	Properties: map[string]jsonschema.Definition{
		"specialist": {
			Type: jsonschema.Object,
			Properties: map[string]jsonschema.Definition{
				"specialistName": {Type: jsonschema.String},
				"category":       {Type: jsonschema.String},
				"description":    {Type: jsonschema.String},
				"commonConditions": {
					Type:  jsonschema.Array,
					Items: &jsonschema.Definition{Type: jsonschema.String},
				},
				"whenToSeeThem":  {Type: jsonschema.String},
				"urgencyWarning": {Type: jsonschema.String},
			},
			Required: []string{"specialistName", "category", "description", "commonConditions", "whenToSeeThem"},
		},
		"explanation": {Type: jsonschema.String},
	},
	Required: []string{"specialist", "explanation"},
}

var responseValidator = mustCompile(ResponseSchema)

func mustCompile(d jsonschema.Definition) *gojsonschema.Schema {
	s, err := gojsonschema.NewSchema(gojsonschema.NewGoLoader(llm.JSONSchema(d)))
	if err != nil {
		panic(fmt.Sprintf("compile response schema: %v", err))
	}
	return s
}

// ParseResult decodes and validates a model reply.  It never returns a
// partially populated result.
func ParseResult(text string) (*pkg.SearchResult, error) {
	if strings.TrimSpace(text) == "" {
		return nil, upstreamFailure(llm.ErrEmptyResponse)
	}

	res, err := responseValidator.Validate(gojsonschema.NewStringLoader(text))
	if err != nil {
		// gojsonschema reports undecodable documents as an error, not a result.
		return nil, shapeFailure(fmt.Errorf("decode reply: %w", err))
	}
	if !res.Valid() {
		msgs := lo.Map(res.Errors(), func(desc gojsonschema.ResultError, _ int) string {
			return desc.String()
		})
		return nil, shapeFailure(fmt.Errorf("reply does not match schema: %s", strings.Join(msgs, "; ")))
	}

	var result pkg.SearchResult
	if err := json.Unmarshal([]byte(text), &result); err != nil {
		return nil, shapeFailure(fmt.Errorf("decode reply: %w", err))
	}
	if err := checkPopulated(&result); err != nil {
		return nil, shapeFailure(err)
	}
	if result.Specialist.CommonConditions == nil {
		result.Specialist.CommonConditions = []string{}
	}
	return &result, nil
}

// checkPopulated rejects required strings that are present but blank, which
// the schema alone lets through.
func checkPopulated(r *pkg.SearchResult) error {
	required := map[string]string{
		"specialist.specialistName": r.Specialist.SpecialistName,
		"specialist.category":       r.Specialist.Category,
		"specialist.description":    r.Specialist.Description,
		"specialist.whenToSeeThem":  r.Specialist.WhenToSeeThem,
		"explanation":               r.Explanation,
	}
	blank := lo.Keys(lo.PickBy(required, func(_ string, v string) bool {
		return strings.TrimSpace(v) == ""
	}))
	if len(blank) > 0 {
		sort.Strings(blank)
		return fmt.Errorf("required fields are blank: %s", strings.Join(blank, ", "))
	}
	return nil
}
