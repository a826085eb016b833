package httpapi

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"jobsift-engine/internal/domain"
	"jobsift-engine/internal/events"
	"jobsift-engine/internal/store"
)

type JobsHandler struct {
	Store *store.DB
	Hub   *events.Hub
}

// List supports ?status=, ?min_score= and ?limit= filters and returns the
// jobs together with the dashboard stats.
func (h JobsHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	opts := store.ListJobsOpts{Status: domain.Status(q.Get("status"))}
	if opts.Status != "" && !domain.ValidStatus(opts.Status) {
		WriteError(w, r, http.StatusBadRequest, "invalid_status", "unknown status "+string(opts.Status))
		return
	}
	if v := q.Get("min_score"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			WriteError(w, r, http.StatusBadRequest, "invalid_min_score", "min_score must be a non-negative integer")
			return
		}
		opts.MinScore = n
	}
	if v := q.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			WriteError(w, r, http.StatusBadRequest, "invalid_limit", "limit must be a positive integer")
			return
		}
		opts.Limit = n
	}

	jobs, err := h.Store.ListJobs(r.Context(), opts)
	if err != nil {
		WriteError(w, r, http.StatusInternalServerError, "list_failed", err.Error())
		return
	}
	stats, err := h.Store.JobStats(r.Context())
	if err != nil {
		WriteError(w, r, http.StatusInternalServerError, "stats_failed", err.Error())
		return
	}
	if jobs == nil {
		jobs = []domain.Job{}
	}
	writeJSON(w, map[string]any{"jobs": jobs, "stats": stats})
}

type patchJobReq struct {
	Status string `json:"status"`
}

// PatchByPath handles PATCH /jobs/{id} status moves.
func (h JobsHandler) PatchByPath(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, "/jobs/")
	if id == "" || strings.Contains(id, "/") {
		WriteError(w, r, http.StatusBadRequest, "invalid_id", "invalid job id")
		return
	}

	var req patchJobReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, r, http.StatusBadRequest, "invalid_json", err.Error())
		return
	}

	status := domain.Status(req.Status)
	if !domain.ValidStatus(status) {
		WriteError(w, r, http.StatusBadRequest, "invalid_status", "unknown status "+req.Status)
		return
	}

	if err := h.Store.UpdateStatus(r.Context(), id, status); err != nil {
		if strings.Contains(err.Error(), "not found") {
			WriteError(w, r, http.StatusNotFound, "not_found", err.Error())
			return
		}
		WriteError(w, r, http.StatusInternalServerError, "update_failed", err.Error())
		return
	}

	reqID := RequestIDFrom(r.Context())
	h.Hub.Publish(events.MakeEvent(reqID, events.EventJobUpdated, 1, map[string]any{"id": id, "status": status}))
	writeJSON(w, map[string]any{"ok": true, "id": id, "status": status})
}

// GetByPath handles GET /jobs/{id}.
func (h JobsHandler) GetByPath(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, "/jobs/")
	if id == "" || strings.Contains(id, "/") {
		WriteError(w, r, http.StatusBadRequest, "invalid_id", "invalid job id")
		return
	}

	job, err := h.Store.GetJob(r.Context(), id)
	if err != nil {
		WriteError(w, r, http.StatusInternalServerError, "get_failed", err.Error())
		return
	}
	if job == nil {
		WriteError(w, r, http.StatusNotFound, "not_found", "job "+id+" not found")
		return
	}
	writeJSON(w, job)
}
