package service

import "strings"

// maxPromptTextRunes bounds how much contract text goes into one prompt so
// a huge upload cannot blow the model's context window.
const maxPromptTextRunes = 100_000

// AnalysisFormat is the output contract sent to the model. The frontend
// renders criticalClauses unconditionally, so the instruction to emit
// present=false placeholders for absent clauses is load-bearing.
const AnalysisFormat = `{
    "metadata": {
    "contractType": "type of contract (e.g., SaaS Agreement, Service Agreement)",
    "parties": {
        "provider": "name of the service provider/vendor",
        "client": "name of the client/customer"
    },
    "effectiveDate": "contract effective date if mentioned",
    "contractValue": "contract value if mentioned"
    },
    "criticalClauses": {
        "indemnification": {
            "present": boolean,
            "title": "clause title",
            "summary": "brief summary",
            "location": "section number or page",
            "potentialIssues": [
            {
                "severity": "high|medium|low",
                "description": "description of the potential issue",
                "recommendation": "recommended action or improvement"
            }
            ]
        },
        "termination": {
            "present": boolean,
            "title": "clause title",
            "summary": "brief summary",
            "location": "section number or page",
            "potentialIssues": [
            {
                "severity": "high|medium|low",
                "description": "description of the potential issue",
                "recommendation": "recommended action or improvement"
            }
            ]
        },
        "liability": {
            "present": boolean,
            "title": "clause title",
            "summary": "brief summary",
            "location": "section number or page",
            "potentialIssues": [
            {
                "severity": "high|medium|low",
                "description": "description of the potential issue",
                "recommendation": "recommended action or improvement"
            }
            ]
        }
    },
    "clauses": [
      {
          "type": "clause type",
          "title": "clause title",
          "summary": "brief summary",
          "location": "section number or page",
          "potentialIssues": [
          {
              "severity": "high|medium|low",
              "description": "description of the potential issue",
              "recommendation": "recommended action or improvement"
          }
          ]
      }
    ]
}`

// BuildPrompt renders the extracted contract text and the output format
// into a single model instruction. Pure function: same inputs, same prompt.
func BuildPrompt(text, format string) string {
	var b strings.Builder

	b.WriteString("Analyze this contract and extract metadata, clauses, and potential issues. ")
	b.WriteString("Make sure to ALWAYS include Indemnification, Termination, and Liability clauses if they are present in the contract, ")
	b.WriteString("even if there are other clauses that might seem more important. ")
	b.WriteString("For each of indemnification, termination, and liability, always emit the object: ")
	b.WriteString(`set "present" to false and leave the other fields empty when the clause is absent. `)
	b.WriteString("Format the response as JSON with the following structure:\n")
	b.WriteString(format)
	b.WriteString("\n\nPay special attention to Indemnification, Termination, and Liability clauses. ")
	b.WriteString("These MUST be included in the analysis if they are present in the contract.\n")
	b.WriteString("\nContract text:\n")
	b.WriteString(truncateRunes(text, maxPromptTextRunes))

	return b.String()
}

func truncateRunes(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit]) + "\n…(truncated)"
}
