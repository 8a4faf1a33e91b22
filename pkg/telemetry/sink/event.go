package sink

import (
	"encoding/json"
	"time"
)

// Event levels.
const (
	LevelInfo  = "info"
	LevelError = "error"
)

// Event is one telemetry record. The gateway emits exactly one per request.
type Event struct {
	// Time is when the request completed.
	Time time.Time

	// Level is info for served requests, error for failures.
	Level string

	// Message is the human-readable summary.
	Message string

	// Logger identifies the emitting component.
	Logger string

	// Fields carries structured request attributes (request_id, provider,
	// outcome, latency_ms, ...).
	Fields map[string]interface{}
}

// hecEnvelope is the wire format the collector expects at
// /services/collector/event/1.0.
type hecEnvelope struct {
	Time       float64     `json:"time"`
	Host       string      `json:"host,omitempty"`
	Source     string      `json:"source,omitempty"`
	SourceType string      `json:"sourcetype,omitempty"`
	Index      string      `json:"index,omitempty"`
	Event      hecEventRec `json:"event"`
}

// hecEventRec is the envelope's event payload.
type hecEventRec struct {
	Message string                 `json:"message"`
	Level   string                 `json:"level"`
	Logger  string                 `json:"logger,omitempty"`
	Fields  map[string]interface{} `json:"fields,omitempty"`
}

// encodeBatch renders events as concatenated JSON envelopes, the batch
// format the collector accepts in a single POST.
func encodeBatch(events []Event, config Config) ([]byte, error) {
	var out []byte
	for _, e := range events {
		envelope := hecEnvelope{
			Time:       float64(e.Time.UnixNano()) / float64(time.Second),
			Host:       config.Host,
			Source:     config.Source,
			SourceType: config.SourceType,
			Index:      config.Index,
			Event: hecEventRec{
				Message: e.Message,
				Level:   e.Level,
				Logger:  e.Logger,
				Fields:  e.Fields,
			},
		}

		encoded, err := json.Marshal(envelope)
		if err != nil {
			return nil, err
		}
		out = append(out, encoded...)
		out = append(out, '\n')
	}
	return out, nil
}
