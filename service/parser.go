package service

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"github.com/sharanry/legal-assistant/model"
)

// ParseAnalysis turns raw model text into a typed analysis result. The
// pipeline is: strip prose wrapping, normalize severities, validate against
// the schema, then decode. Validation failures report every violation
// found, not just the first.
func ParseAnalysis(raw string) (*model.AnalysisResult, error) {
	payload, err := extractJSONPayload(raw)
	if err != nil {
		return nil, &SchemaViolationError{Violations: []string{
			"response is not structured data: no JSON object found (the model may have answered in prose)",
		}}
	}

	var doc map[string]any
	if err := json.Unmarshal([]byte(payload), &doc); err != nil {
		return nil, &SchemaViolationError{Violations: []string{
			fmt.Sprintf("invalid JSON: %v (the model may have truncated or malformed its output)", err),
		}}
	}

	normalizeSeverities(doc)

	if violations := validateAnalysis(doc); len(violations) > 0 {
		return nil, &SchemaViolationError{Violations: violations}
	}

	normalized, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to re-encode model output: %w", err)
	}

	var result model.AnalysisResult
	if err := json.Unmarshal(normalized, &result); err != nil {
		return nil, &SchemaViolationError{Violations: []string{
			fmt.Sprintf("decode into analysis result: %v", err),
		}}
	}

	result.FillMetadataDefaults()
	return &result, nil
}

var analysisSchemaCompiled = mustCompileSchema()

func mustCompileSchema() *jsonschema.Schema {
	b, err := json.Marshal(analysisSchema())
	if err != nil {
		panic(fmt.Sprintf("marshal analysis schema: %v", err))
	}
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("analysis.json", bytes.NewReader(b)); err != nil {
		panic(fmt.Sprintf("add analysis schema: %v", err))
	}
	schema, err := compiler.Compile("analysis.json")
	if err != nil {
		panic(fmt.Sprintf("compile analysis schema: %v", err))
	}
	return schema
}

// validateAnalysis checks the decoded document against the analysis schema
// and flattens the error tree into one message per violation.
func validateAnalysis(doc map[string]any) []string {
	err := analysisSchemaCompiled.Validate(doc)
	if err == nil {
		return nil
	}

	var ve *jsonschema.ValidationError
	if !errors.As(err, &ve) {
		return []string{err.Error()}
	}
	return collectViolations(ve)
}

func collectViolations(ve *jsonschema.ValidationError) []string {
	if len(ve.Causes) == 0 {
		loc := ve.InstanceLocation
		if loc == "" {
			loc = "(root)"
		}
		return []string{fmt.Sprintf("%s: %s", loc, ve.Message)}
	}

	var out []string
	for _, cause := range ve.Causes {
		out = append(out, collectViolations(cause)...)
	}
	return out
}
