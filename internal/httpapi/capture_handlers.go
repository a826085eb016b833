package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"jobsift-engine/internal/events"
	"jobsift-engine/internal/ingest"
)

type CaptureHandler struct {
	Pipeline *ingest.Pipeline
	Hub      *events.Hub
}

// Capture accepts a pre-extracted job from the browser extension. A new
// identity comes back 201; a known one comes back 200 after its blank
// fields were filled in.
func (h CaptureHandler) Capture(w http.ResponseWriter, r *http.Request) {
	var c ingest.Capture
	if err := json.NewDecoder(r.Body).Decode(&c); err != nil {
		WriteError(w, r, http.StatusBadRequest, "invalid_json", err.Error())
		return
	}

	res, err := h.Pipeline.IngestCapture(r.Context(), c)
	if err != nil {
		if errors.Is(err, ingest.ErrCaptureIncomplete) {
			WriteError(w, r, http.StatusBadRequest, "incomplete_capture", err.Error())
			return
		}
		WriteError(w, r, http.StatusInternalServerError, "capture_failed", err.Error())
		return
	}

	if res.Created {
		reqID := RequestIDFrom(r.Context())
		h.Hub.Publish(events.MakeEvent(reqID, events.EventJobCreated, 1, map[string]any{"id": res.JobID}))
		WriteJSON(w, http.StatusCreated, res)
		return
	}
	writeJSON(w, res)
}
