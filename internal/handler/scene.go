package handler

import (
	"net/http"

	"ast3d/internal/service"
)

// PointerRequest carries normalized device coordinates
type PointerRequest struct {
	X float32 `json:"x" validate:"gte=-1,lte=1"`
	Y float32 `json:"y" validate:"gte=-1,lte=1"`
}

// ClickRequest is a left or right click. NodeID clicks a node directly
// instead of picking under X/Y.
type ClickRequest struct {
	PointerRequest
	Button string `json:"button" validate:"required,oneof=left right"`
	NodeID string `json:"node_id,omitempty"`
}

// PointerResponse reports the node under the pointer and whether state changed
type PointerResponse struct {
	ID      string `json:"id,omitempty"`
	Changed bool   `json:"changed"`
}

// VisibilityRequest lists the node types to show; null shows every type
type VisibilityRequest struct {
	Types []string `json:"types"`
}

// LightsRequest toggles lit materials
type LightsRequest struct {
	Enabled bool `json:"enabled"`
}

// GetScene returns the drawable state of the current frame
func (h *SceneHandler) GetScene(w http.ResponseWriter, r *http.Request) {
	h.do(w, r, func(s *service.Session) (interface{}, error) {
		return s.Scene(), nil
	})
}

// GetStats returns engine statistics
func (h *SceneHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	h.do(w, r, func(s *service.Session) (interface{}, error) {
		return s.Stats(), nil
	})
}

// SetVisibility applies a node type filter
func (h *SceneHandler) SetVisibility(w http.ResponseWriter, r *http.Request) {
	var req VisibilityRequest
	if !h.decode(w, r, &req) {
		return
	}
	h.do(w, r, func(s *service.Session) (interface{}, error) {
		s.SetVisibleTypes(req.Types)
		return s.Stats(), nil
	})
}

// SetHighlight updates highlight depth and dimming
func (h *SceneHandler) SetHighlight(w http.ResponseWriter, r *http.Request) {
	var req service.HighlightSettings
	if !h.decode(w, r, &req) {
		return
	}
	h.do(w, r, func(s *service.Session) (interface{}, error) {
		return s.SetHighlight(req), nil
	})
}

// PointerMove updates hover
func (h *SceneHandler) PointerMove(w http.ResponseWriter, r *http.Request) {
	var req PointerRequest
	if !h.decode(w, r, &req) {
		return
	}
	h.do(w, r, func(s *service.Session) (interface{}, error) {
		id, changed := s.PointerMove(req.X, req.Y)
		return PointerResponse{ID: id, Changed: changed}, nil
	})
}

// PointerClick selects and frames (left) or clears and restores (right)
func (h *SceneHandler) PointerClick(w http.ResponseWriter, r *http.Request) {
	var req ClickRequest
	if !h.decode(w, r, &req) {
		return
	}
	h.do(w, r, func(s *service.Session) (interface{}, error) {
		switch {
		case req.Button == "right":
			s.RightClick()
			return PointerResponse{Changed: true}, nil
		case req.NodeID != "":
			return PointerResponse{ID: req.NodeID, Changed: s.ClickNode(req.NodeID)}, nil
		default:
			id, changed := s.LeftClick(req.X, req.Y)
			return PointerResponse{ID: id, Changed: changed}, nil
		}
	})
}

// RestoreCamera clears highlight state and animates back to the restore point
func (h *SceneHandler) RestoreCamera(w http.ResponseWriter, r *http.Request) {
	h.do(w, r, func(s *service.Session) (interface{}, error) {
		s.RightClick()
		return s.Stats(), nil
	})
}

// SnapshotCamera stores the current pose as the restore point
func (h *SceneHandler) SnapshotCamera(w http.ResponseWriter, r *http.Request) {
	h.do(w, r, func(s *service.Session) (interface{}, error) {
		s.SnapshotRestorePoint()
		return s.Scene().Camera, nil
	})
}

// SetLights toggles lighting
func (h *SceneHandler) SetLights(w http.ResponseWriter, r *http.Request) {
	var req LightsRequest
	if !h.decode(w, r, &req) {
		return
	}
	h.do(w, r, func(s *service.Session) (interface{}, error) {
		s.SetLighting(req.Enabled)
		return req, nil
	})
}
