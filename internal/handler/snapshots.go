package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// SaveSnapshotRequest names the snapshot of the current graph
type SaveSnapshotRequest struct {
	Name        string `json:"name" validate:"required,max=128"`
	Description string `json:"description,omitempty" validate:"max=1024"`
}

// ListSnapshots returns stored snapshot summaries
func (h *SceneHandler) ListSnapshots(w http.ResponseWriter, r *http.Request) {
	list, err := h.graphs.ListSnapshots(r.Context())
	if err != nil {
		h.fail(w, "Failed to list snapshots", err)
		return
	}
	h.writeJSON(w, list, http.StatusOK)
}

// SaveSnapshot stores the current graph
func (h *SceneHandler) SaveSnapshot(w http.ResponseWriter, r *http.Request) {
	var req SaveSnapshotRequest
	if !h.decode(w, r, &req) {
		return
	}
	snap, err := h.graphs.SaveSnapshot(r.Context(), req.Name, req.Description)
	if err != nil {
		h.fail(w, "Failed to save snapshot", err)
		return
	}
	snap.Graph = nil
	h.writeJSON(w, snap, http.StatusCreated)
}

// GetSnapshot returns one snapshot with its graph
func (h *SceneHandler) GetSnapshot(w http.ResponseWriter, r *http.Request) {
	snap, err := h.graphs.GetSnapshot(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, "Failed to get snapshot", err)
		return
	}
	h.writeJSON(w, snap, http.StatusOK)
}

// DeleteSnapshot removes a snapshot
func (h *SceneHandler) DeleteSnapshot(w http.ResponseWriter, r *http.Request) {
	if err := h.graphs.DeleteSnapshot(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.fail(w, "Failed to delete snapshot", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// LoadSnapshot rebuilds the scene from a snapshot
func (h *SceneHandler) LoadSnapshot(w http.ResponseWriter, r *http.Request) {
	info, err := h.graphs.LoadSnapshot(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, "Failed to load snapshot", err)
		return
	}
	h.writeJSON(w, info, http.StatusOK)
}
