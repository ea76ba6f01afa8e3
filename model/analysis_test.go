package model

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestValidSeverity(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"high", true},
		{"medium", true},
		{"low", true},
		{"HIGH", true},
		{"  Medium ", true},
		{"critical", false},
		{"", false},
	}

	for _, tt := range tests {
		if got := ValidSeverity(tt.input); got != tt.want {
			t.Errorf("ValidSeverity(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestCanonicalSeverity(t *testing.T) {
	if got := CanonicalSeverity("  HIGH "); got != "high" {
		t.Errorf("Expected 'high', got %q", got)
	}
}

func TestFillMetadataDefaults(t *testing.T) {
	r := &AnalysisResult{}
	r.Metadata.ContractType = "SaaS Agreement"
	r.Metadata.Parties.Provider = "  "

	r.FillMetadataDefaults()

	if r.Metadata.ContractType != "SaaS Agreement" {
		t.Errorf("Expected contract type to be preserved, got %q", r.Metadata.ContractType)
	}
	if r.Metadata.Parties.Provider != NotSpecified {
		t.Errorf("Expected provider default, got %q", r.Metadata.Parties.Provider)
	}
	if r.Metadata.Parties.Client != NotSpecified {
		t.Errorf("Expected client default, got %q", r.Metadata.Parties.Client)
	}
	if r.Metadata.EffectiveDate != NotSpecified {
		t.Errorf("Expected effective date default, got %q", r.Metadata.EffectiveDate)
	}
	if r.Metadata.ContractValue != NotSpecified {
		t.Errorf("Expected contract value default, got %q", r.Metadata.ContractValue)
	}
}

// The frontend depends on these exact field names; a rename here is a
// breaking change even if Go code still compiles.
func TestAnalysisResultWireFieldNames(t *testing.T) {
	r := AnalysisResult{
		Clauses: []Clause{
			{
				Type:    "payment",
				Title:   "Payment Terms",
				Summary: "Net 30",
				PotentialIssues: []Issue{
					{Severity: "low", Description: "d", Recommendation: "r"},
				},
			},
		},
	}
	r.CriticalClauses.Indemnification.Present = true

	data, err := json.Marshal(r)
	if err != nil {
		t.Fatalf("Failed to marshal: %v", err)
	}

	for _, field := range []string{
		`"metadata"`, `"contractType"`, `"parties"`, `"provider"`, `"client"`,
		`"effectiveDate"`, `"contractValue"`,
		`"criticalClauses"`, `"indemnification"`, `"termination"`, `"liability"`,
		`"present"`, `"clauses"`, `"potentialIssues"`,
		`"severity"`, `"description"`, `"recommendation"`,
	} {
		if !strings.Contains(string(data), field) {
			t.Errorf("Expected wire field %s in JSON output", field)
		}
	}
}

func TestJobTerminal(t *testing.T) {
	tests := []struct {
		status string
		want   bool
	}{
		{StatusProcessing, false},
		{StatusCompleted, true},
		{StatusError, true},
	}

	for _, tt := range tests {
		j := &Job{Status: tt.status}
		if got := j.Terminal(); got != tt.want {
			t.Errorf("Terminal() with status %s = %v, want %v", tt.status, got, tt.want)
		}
	}
}
