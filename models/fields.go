package models

// Field keys of a parsed analysis. These are the stable identifiers used in
// event payloads, the Excel export, and the front-end table.
const (
	FieldCompany      = "Company"
	FieldURL          = "URL"
	FieldOverallScore = "Overall Score"
	FieldDescription  = "Description of Website"
	FieldConsumer     = "Consumer Score"
	FieldDeveloper    = "Developer Score"
	FieldInvestor     = "Investor Score"
	FieldClarity      = "Clarity Score"
	FieldVisualDesign = "Visual Design Score"
	FieldUX           = "UX Score"
	FieldTrust        = "Trust Score"
	FieldValueProp    = "Value Prop Score"

	// FieldRaw holds the verbatim extracted text for audit and debugging.
	// It is not part of the table schema.
	FieldRaw = "_raw"
)

// Missing is the sentinel value for a field whose label never matched.
const Missing = "-"

// ParsedFields maps field keys to their extracted string values.
// Every key in TableRows is always present; missing extractions hold Missing.
type ParsedFields map[string]string

// TableRow is a (field key, display label) pair. It marshals as a two-element
// JSON array, matching the wire schema of the init event.
type TableRow [2]string

// Key returns the stable field key.
func (r TableRow) Key() string { return r[0] }

// Label returns the human-facing column label.
func (r TableRow) Label() string { return r[1] }

// TableRows is the fixed column schema, declared once per run in the init
// event and reused by the Excel export. Order is the display order.
var TableRows = []TableRow{
	{FieldCompany, "Company"},
	{FieldURL, "URL"},
	{FieldOverallScore, "Overall Score"},
	{FieldDescription, "Description of Website"},
	{FieldConsumer, "Audience Perspective → Consumer"},
	{FieldDeveloper, "Audience Perspective → Developer"},
	{FieldInvestor, "Audience Perspective → Investor"},
	{FieldClarity, "Technical Criteria → Clarity"},
	{FieldVisualDesign, "Technical Criteria → Visual Design"},
	{FieldUX, "Technical Criteria → UX"},
	{FieldTrust, "Technical Criteria → Trust"},
	{FieldValueProp, "Value Proposition"},
}
