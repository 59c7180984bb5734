package output

import (
	"encoding/json"
	"io"
	"time"
)

// CurrentSchemaVersion is the schema version for all JSON outputs
const CurrentSchemaVersion = "1.0.0"

// Envelope wraps every JSON result with the command that produced it.
type Envelope struct {
	SchemaVersion string `json:"schemaVersion"`
	Command       string `json:"command"`
	Target        string `json:"target,omitempty"`
	Result        any    `json:"result"`
	ElapsedMs     int64  `json:"elapsedMs"`
}

// NewEnvelope wraps result for command run against target since start.
func NewEnvelope(command, target string, result any, start time.Time) *Envelope {
	return &Envelope{
		SchemaVersion: CurrentSchemaVersion,
		Command:       command,
		Target:        target,
		Result:        result,
		ElapsedMs:     MeasureElapsed(start),
	}
}

// WriteJSON writes v as indented JSON.
func WriteJSON(w io.Writer, v any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

// MeasureElapsed returns elapsed time in milliseconds since start
func MeasureElapsed(start time.Time) int64 {
	return time.Since(start).Milliseconds()
}
