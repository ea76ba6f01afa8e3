package service

import (
	"errors"
	"strings"

	"github.com/sharanry/legal-assistant/model"
)

var errNoJSONPayload = errors.New("no JSON object found in model output")

// extractJSONPayload strips the prose and markdown fencing models like to
// wrap around their output and returns the first balanced top-level JSON
// object. This is pre-processing only; schema validation happens after.
func extractJSONPayload(raw string) (string, error) {
	s := strings.TrimSpace(raw)

	// Prefer a fenced block when present.
	if idx := strings.Index(s, "```"); idx != -1 {
		rest := s[idx+3:]
		rest = strings.TrimPrefix(rest, "json")
		if end := strings.Index(rest, "```"); end != -1 {
			if obj, err := firstJSONObject(rest[:end]); err == nil {
				return obj, nil
			}
		}
	}

	return firstJSONObject(s)
}

// firstJSONObject scans for the first '{' and returns the substring up to
// its balancing '}'. Braces inside JSON strings are skipped.
func firstJSONObject(s string) (string, error) {
	start := strings.IndexByte(s, '{')
	if start == -1 {
		return "", errNoJSONPayload
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(s); i++ {
		c := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return s[start : i+1], nil
			}
		}
	}

	return "", errNoJSONPayload
}

// normalizeSeverities lowercases issue severities in place so the schema's
// enum accepts case variants like "High". Operates on the decoded document
// before validation.
func normalizeSeverities(doc map[string]any) {
	if critical, ok := doc["criticalClauses"].(map[string]any); ok {
		for _, v := range critical {
			if clause, ok := v.(map[string]any); ok {
				normalizeIssueSeverities(clause)
			}
		}
	}
	if clauses, ok := doc["clauses"].([]any); ok {
		for _, v := range clauses {
			if clause, ok := v.(map[string]any); ok {
				normalizeIssueSeverities(clause)
			}
		}
	}
}

func normalizeIssueSeverities(clause map[string]any) {
	issues, ok := clause["potentialIssues"].([]any)
	if !ok {
		return
	}
	for _, v := range issues {
		issue, ok := v.(map[string]any)
		if !ok {
			continue
		}
		if sev, ok := issue["severity"].(string); ok {
			issue["severity"] = model.CanonicalSeverity(sev)
		}
	}
}
