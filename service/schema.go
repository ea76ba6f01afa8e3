package service

import "github.com/sharanry/legal-assistant/model"

// analysisSchema returns the JSON-Schema the model output must satisfy, as
// a generic map. Unknown extra properties are tolerated; what matters is
// that the required structure is present and correctly typed.
func analysisSchema() map[string]any {
	str := func() map[string]any {
		return map[string]any{"type": "string"}
	}

	issue := map[string]any{
		"type":     "object",
		"required": []string{"severity", "description", "recommendation"},
		"properties": map[string]any{
			"severity": map[string]any{
				"type": "string",
				"enum": []string{model.SeverityHigh, model.SeverityMedium, model.SeverityLow},
			},
			"description":    str(),
			"recommendation": str(),
		},
	}
	issues := map[string]any{
		"type":  "array",
		"items": issue,
	}

	criticalClause := map[string]any{
		"type":     "object",
		"required": []string{"present"},
		"properties": map[string]any{
			"present":         map[string]any{"type": "boolean"},
			"title":           str(),
			"summary":         str(),
			"location":        str(),
			"potentialIssues": issues,
		},
	}

	clause := map[string]any{
		"type":     "object",
		"required": []string{"type", "title", "summary"},
		"properties": map[string]any{
			"type":            str(),
			"title":           str(),
			"summary":         str(),
			"location":        str(),
			"potentialIssues": issues,
		},
	}

	return map[string]any{
		"type":     "object",
		"required": []string{"metadata", "criticalClauses", "clauses"},
		"properties": map[string]any{
			"metadata": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"contractType": str(),
					"parties": map[string]any{
						"type": "object",
						"properties": map[string]any{
							"provider": str(),
							"client":   str(),
						},
					},
					"effectiveDate": str(),
					"contractValue": str(),
				},
			},
			"criticalClauses": map[string]any{
				"type":     "object",
				"required": []string{"indemnification", "termination", "liability"},
				"properties": map[string]any{
					"indemnification": criticalClause,
					"termination":     criticalClause,
					"liability":       criticalClause,
				},
			},
			"clauses": map[string]any{
				"type":  "array",
				"items": clause,
			},
		},
	}
}
