package analyzer

import "fmt"

// DebugLog is the append-only diagnostic trail of one analysis attempt.
// Each attempt owns its own log; it is never shared across URLs and never
// persisted beyond the response stream.
type DebugLog struct {
	lines []string
}

// NewDebugLog returns an empty log.
func NewDebugLog() *DebugLog {
	return &DebugLog{}
}

// Add appends one human-readable line.
func (l *DebugLog) Add(msg string) {
	l.lines = append(l.lines, msg)
}

// Addf appends one formatted line.
func (l *DebugLog) Addf(format string, args ...any) {
	l.lines = append(l.lines, fmt.Sprintf(format, args...))
}

// Lines returns the accumulated lines in append order.
func (l *DebugLog) Lines() []string {
	return l.lines
}
