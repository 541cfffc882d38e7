package models

// Server-sent event names, in the order they appear on the stream.
const (
	EventInit     = "init"
	EventStartURL = "start_url"
	EventProgress = "progress"
	EventDebug    = "debug"
	EventResult   = "result"
	EventDone     = "done"
)

// Event is one record on the analysis stream: a name plus its JSON payload.
type Event struct {
	Name string
	Data any
}

// InitPayload declares the run: URL count, the fixed column schema, and the
// session ID the client later uses to download the Excel report.
type InitPayload struct {
	Total     int        `json:"total"`
	Rows      []TableRow `json:"rows"`
	SessionID string     `json:"session_id,omitempty"`
}

// StartURLPayload opens one URL's event block. Index is 1-based.
type StartURLPayload struct {
	Index int    `json:"index"`
	URL   string `json:"url"`
}

// ProgressPayload reports one of the fixed-weight pipeline phases.
type ProgressPayload struct {
	Index int    `json:"index"`
	Phase string `json:"phase"`
	P     int    `json:"p"`
	Of    int    `json:"of"`
}

// DebugPayload carries one line of the per-attempt debug log.
type DebugPayload struct {
	Index   int    `json:"index"`
	Message string `json:"message"`
}

// ResultPayload closes one URL's block. Exactly one of Data or Error is set:
// Data on successful extraction, Error when no result text was found.
type ResultPayload struct {
	Index int          `json:"index"`
	URL   string       `json:"url"`
	Data  ParsedFields `json:"data,omitempty"`
	Error string       `json:"error,omitempty"`
}

// DonePayload is the single terminal event of a run.
type DonePayload struct {
	OK bool `json:"ok"`
}
