package analyzer

import (
	"regexp"
	"strings"

	"github.com/use-agent/ratescope/models"
)

// Label-based field extraction. Each field carries a prioritized synonym
// list; patterns are tried in order and the first match wins. The capture
// shapes are deliberately loose heuristics over an uncontrolled page — a
// free-text block runs until a blank line, the next label-like "Token:", or
// end of text, and a score is the 1-3 digit run right after the label.

// linePatterns captures the remainder of the label's line.
func linePatterns(labels ...string) []*regexp.Regexp {
	pats := make([]*regexp.Regexp, len(labels))
	for i, lab := range labels {
		pats[i] = regexp.MustCompile(`(?i)` + regexp.QuoteMeta(lab) + `\s*[:\-]?\s*([^\n]+)`)
	}
	return pats
}

// blockPatterns captures a multi-line block after the label.
func blockPatterns(labels ...string) []*regexp.Regexp {
	pats := make([]*regexp.Regexp, len(labels))
	for i, lab := range labels {
		pats[i] = regexp.MustCompile(`(?is)` + regexp.QuoteMeta(lab) +
			`\s*[:\-]?\s*(.+?)(?:\n\s*\n|\n[A-Z][^\n]{0,60}:\s|$)`)
	}
	return pats
}

// scorePatterns captures a 1-3 digit run after the label.
func scorePatterns(labels ...string) []*regexp.Regexp {
	pats := make([]*regexp.Regexp, len(labels))
	for i, lab := range labels {
		pats[i] = regexp.MustCompile(`(?i)` + regexp.QuoteMeta(lab) + `\s*[:\-]?\s*(\d{1,3})`)
	}
	return pats
}

var (
	companyPats     = linePatterns("Company", "Site Name", "Website Name")
	descriptionPats = blockPatterns("Description of Website", "Description", "Site Description")

	overallPats   = scorePatterns("Overall Score", "Score", "Total Score")
	consumerPats  = scorePatterns("Consumer Score", "Customer Score", "End-user Score")
	developerPats = scorePatterns("Developer Score", "Engineer Score", "Dev Score")
	investorPats  = scorePatterns("Investor Score")
	clarityPats   = scorePatterns("Clarity Score", "Readability Score")
	visualPats    = scorePatterns("Visual Design Score", "Design Score")
	uxPats        = scorePatterns("UX Score", "Usability Score")
	trustPats     = scorePatterns("Trust Score", "Credibility Score")
	valuePropPats = scorePatterns("Value Prop Score", "Value Proposition Score")
)

// grabFirst returns the first pattern's trimmed capture, or the missing
// sentinel when no synonym matches. Scanning stops at the first hit.
func grabFirst(raw string, pats []*regexp.Regexp) string {
	for _, re := range pats {
		if m := re.FindStringSubmatch(raw); m != nil {
			return strings.TrimSpace(m[1])
		}
	}
	return models.Missing
}

// ParseFields turns one URL's raw extracted text into the fixed field set.
// The URL field is always the caller's normalized URL, never extracted, and
// the raw text is kept verbatim under the internal audit key. Parsing never
// fails: unmatched fields hold the missing sentinel.
func ParseFields(url, raw string) models.ParsedFields {
	return models.ParsedFields{
		models.FieldCompany:      grabFirst(raw, companyPats),
		models.FieldURL:          url,
		models.FieldOverallScore: grabFirst(raw, overallPats),
		models.FieldDescription:  grabFirst(raw, descriptionPats),
		models.FieldConsumer:     grabFirst(raw, consumerPats),
		models.FieldDeveloper:    grabFirst(raw, developerPats),
		models.FieldInvestor:     grabFirst(raw, investorPats),
		models.FieldClarity:      grabFirst(raw, clarityPats),
		models.FieldVisualDesign: grabFirst(raw, visualPats),
		models.FieldUX:           grabFirst(raw, uxPats),
		models.FieldTrust:        grabFirst(raw, trustPats),
		models.FieldValueProp:    grabFirst(raw, valuePropPats),
		models.FieldRaw:          raw,
	}
}
