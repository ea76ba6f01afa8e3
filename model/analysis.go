package model

import "strings"

// NotSpecified is the placeholder for metadata fields the model could not find.
const NotSpecified = "not specified"

// Severity levels for clause issues
const (
	SeverityHigh   = "high"
	SeverityMedium = "medium"
	SeverityLow    = "low"
)

// AnalysisResult is the structured contract analysis returned to the client.
// Field names are the wire contract with the frontend and must not change.
type AnalysisResult struct {
	Metadata        Metadata        `json:"metadata"`
	CriticalClauses CriticalClauses `json:"criticalClauses"`
	Clauses         []Clause        `json:"clauses"`
}

type Metadata struct {
	ContractType  string  `json:"contractType"`
	Parties       Parties `json:"parties"`
	EffectiveDate string  `json:"effectiveDate"`
	ContractValue string  `json:"contractValue"`
}

type Parties struct {
	Provider string `json:"provider"`
	Client   string `json:"client"`
}

// CriticalClauses always carries all three keys; the model emits
// present=false placeholders when a clause is absent from the contract.
type CriticalClauses struct {
	Indemnification CriticalClause `json:"indemnification"`
	Termination     CriticalClause `json:"termination"`
	Liability       CriticalClause `json:"liability"`
}

type CriticalClause struct {
	Present         bool    `json:"present"`
	Title           string  `json:"title,omitempty"`
	Summary         string  `json:"summary,omitempty"`
	Location        string  `json:"location,omitempty"`
	PotentialIssues []Issue `json:"potentialIssues,omitempty"`
}

type Clause struct {
	Type            string  `json:"type"`
	Title           string  `json:"title"`
	Summary         string  `json:"summary"`
	Location        string  `json:"location,omitempty"`
	PotentialIssues []Issue `json:"potentialIssues,omitempty"`
}

type Issue struct {
	Severity       string `json:"severity"`
	Description    string `json:"description"`
	Recommendation string `json:"recommendation"`
}

// ValidSeverity reports whether s is an allowed severity level (case-insensitive).
func ValidSeverity(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case SeverityHigh, SeverityMedium, SeverityLow:
		return true
	}
	return false
}

// CanonicalSeverity lowercases and trims a severity value.
func CanonicalSeverity(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// FillMetadataDefaults replaces empty metadata fields with the
// "not specified" placeholder. Each field defaults independently.
func (r *AnalysisResult) FillMetadataDefaults() {
	fill := func(s *string) {
		if strings.TrimSpace(*s) == "" {
			*s = NotSpecified
		}
	}
	fill(&r.Metadata.ContractType)
	fill(&r.Metadata.Parties.Provider)
	fill(&r.Metadata.Parties.Client)
	fill(&r.Metadata.EffectiveDate)
	fill(&r.Metadata.ContractValue)
}
