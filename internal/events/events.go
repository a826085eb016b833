// Package events carries server-sent updates from the engine to any
// attached UI. Handlers publish serialized envelopes into the Hub and the
// /events stream relays them to every subscriber.
package events

import (
	"encoding/json"
	"time"
)

// Event names the engine publishes.
const (
	EventPing       = "ping"
	EventJobCreated = "job_created"
	EventJobUpdated = "job_updated"
	EventScanDone   = "scan_done"
)

// Event is the wire envelope for one update.
type Event struct {
	Type      string          `json:"type"`
	Version   int             `json:"v"`
	At        time.Time       `json:"at"`
	RequestID string          `json:"request_id,omitempty"`
	Data      json.RawMessage `json:"data,omitempty"`
}

// MakeEvent serializes one envelope. Marshal failures are not possible for
// the payload shapes the engine publishes, so they are ignored.
func MakeEvent(reqID, typ string, v int, data any) string {
	var raw json.RawMessage
	if data != nil {
		b, _ := json.Marshal(data)
		raw = b
	}
	e := Event{
		Type:      typ,
		Version:   v,
		At:        time.Now().UTC(),
		RequestID: reqID,
		Data:      raw,
	}
	b, _ := json.Marshal(e)
	return string(b)
}
