package handlers

import (
	"net/http"

	"github.com/structfs/structfs/pkg/mount"
	"github.com/structfs/structfs/pkg/path"
	"github.com/structfs/structfs/pkg/value"
)

// HealthHandler handles health check endpoints.
//
// Health endpoints are unauthenticated and report on the MountStore's live
// mount table rather than any single store's internals.
type HealthHandler struct {
	mounts *mount.Store
}

// NewHealthHandler creates a new health handler. mounts may be nil, in which
// case readiness always reports unhealthy.
func NewHealthHandler(mounts *mount.Store) *HealthHandler {
	return &HealthHandler{mounts: mounts}
}

// Liveness handles GET /health - simple liveness probe.
func (h *HealthHandler) Liveness(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthyResponse(map[string]string{
		"service": "structfs",
	}))
}

// Readiness handles GET /health/ready - readiness probe.
//
// Returns 503 if the MountStore hasn't been wired, or if nothing is mounted
// yet (a server with no mounts can't serve any path).
func (h *HealthHandler) Readiness(w http.ResponseWriter, r *http.Request) {
	if h.mounts == nil {
		writeJSON(w, http.StatusServiceUnavailable, unhealthyResponse("mount store not initialized"))
		return
	}

	rec, err := h.mounts.Read(r.Context(), path.MustParse("_mounts"))
	if err != nil {
		writeJSON(w, http.StatusServiceUnavailable, unhealthyResponse(err.Error()))
		return
	}

	names := mountNames(rec)
	if len(names) == 0 {
		writeJSON(w, http.StatusServiceUnavailable, unhealthyResponse("no mounts configured"))
		return
	}

	writeJSON(w, http.StatusOK, healthyResponse(map[string]interface{}{
		"mounts": names,
	}))
}

// MountsResponse represents the detailed mount listing response.
type MountsResponse struct {
	Mounts []string `json:"mounts"`
}

// Mounts handles GET /health/mounts - the current mount table.
func (h *HealthHandler) Mounts(w http.ResponseWriter, r *http.Request) {
	if h.mounts == nil {
		writeJSON(w, http.StatusServiceUnavailable, unhealthyResponse("mount store not initialized"))
		return
	}

	rec, err := h.mounts.Read(r.Context(), path.MustParse("_mounts"))
	if err != nil {
		writeJSON(w, http.StatusServiceUnavailable, unhealthyResponseWithData(err.Error()))
		return
	}

	writeJSON(w, http.StatusOK, healthyResponse(MountsResponse{Mounts: mountNames(rec)}))
}

func mountNames(rec *value.Record) []string {
	if rec == nil {
		return nil
	}
	v, ok := rec.AsValue()
	if !ok {
		return nil
	}
	arr, ok := v.AsArray()
	if !ok {
		return nil
	}
	names := make([]string, 0, len(arr))
	for _, e := range arr {
		if s, ok := e.AsString(); ok {
			names = append(names, s)
		}
	}
	return names
}
