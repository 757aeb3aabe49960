package handler

import (
	"bytes"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"ast3d/internal/astsource"
	"ast3d/internal/config"
	"ast3d/internal/service"
)

// ParseRequest is source code to parse. Language may be omitted when
// Filename has a known extension.
type ParseRequest struct {
	Language string `json:"language,omitempty"`
	Filename string `json:"filename,omitempty"`
	Source   string `json:"source" validate:"required"`
}

// StyleResponse is the effective style plus the available templates
type StyleResponse struct {
	config.StyleConfig
	Templates []string `json:"templates"`
}

// LoadGraph rebuilds the scene from a JSON or YAML graph body
func (h *SceneHandler) LoadGraph(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	info, err := h.graphs.Import(r.Context(), r.Body, formatFor(r))
	if err != nil {
		h.fail(w, "Failed to load graph", err)
		return
	}
	h.writeJSON(w, info, http.StatusOK)
}

// ImportGraph is LoadGraph for uploads that name their format explicitly
func (h *SceneHandler) ImportGraph(w http.ResponseWriter, r *http.Request) {
	if r.URL.Query().Get("format") == "" {
		h.writeError(w, "Missing format", "use ?format=json or ?format=yaml", http.StatusBadRequest)
		return
	}
	h.LoadGraph(w, r)
}

// ExportGraph writes the current graph
func (h *SceneHandler) ExportGraph(w http.ResponseWriter, r *http.Request) {
	format := r.URL.Query().Get("format")
	if format == "" {
		format = "json"
	}
	// buffer so a failed export can still report an error status
	var buf bytes.Buffer
	if err := h.graphs.Export(r.Context(), &buf, format); err != nil {
		h.fail(w, "Failed to export graph", err)
		return
	}

	contentType := "application/json"
	if format != "json" {
		contentType = "application/x-yaml"
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=graph.%s", format))
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}

// ClearGraph empties the scene
func (h *SceneHandler) ClearGraph(w http.ResponseWriter, r *http.Request) {
	h.do(w, r, func(s *service.Session) (interface{}, error) {
		return map[string]int{"released": s.Clear()}, nil
	})
}

// ParseSource builds the scene from source code via tree-sitter
func (h *SceneHandler) ParseSource(w http.ResponseWriter, r *http.Request) {
	var req ParseRequest
	if !h.decode(w, r, &req) {
		return
	}

	var (
		lang astsource.Language
		err  error
	)
	switch {
	case req.Language != "":
		lang, err = astsource.ParseLanguage(req.Language)
	case req.Filename != "":
		lang, err = astsource.LanguageForPath(req.Filename)
	default:
		h.writeError(w, "Missing language", "set language or filename", http.StatusBadRequest)
		return
	}
	if err != nil {
		h.fail(w, "Unsupported language", err)
		return
	}

	res, err := h.graphs.ParseSource(r.Context(), lang, []byte(req.Source))
	if err != nil {
		h.fail(w, "Failed to parse source", err)
		return
	}
	h.writeJSON(w, res, http.StatusOK)
}

// GetStyle returns the effective style
func (h *SceneHandler) GetStyle(w http.ResponseWriter, r *http.Request) {
	h.do(w, r, func(s *service.Session) (interface{}, error) {
		return StyleResponse{StyleConfig: s.Style(), Templates: config.TemplateNames()}, nil
	})
}

// ApplyTemplate switches the style template and rebuilds
func (h *SceneHandler) ApplyTemplate(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	h.do(w, r, func(s *service.Session) (interface{}, error) {
		return s.ApplyTemplate(name)
	})
}

// SetNodeStyle overrides the style of one node type and rebuilds
func (h *SceneHandler) SetNodeStyle(w http.ResponseWriter, r *http.Request) {
	nodeType := chi.URLParam(r, "type")
	var req config.NodeStyle
	if !h.decode(w, r, &req) {
		return
	}
	info, err := service.Query(r.Context(), h.engine, func(s *service.Session) (*service.RebuildInfo, error) {
		return s.SetNodeStyle(nodeType, req)
	})
	if err != nil {
		h.writeError(w, "Invalid node style", err.Error(), http.StatusBadRequest)
		return
	}
	h.writeJSON(w, info, http.StatusOK)
}

// SetLinkColors replaces the link colors
func (h *SceneHandler) SetLinkColors(w http.ResponseWriter, r *http.Request) {
	var req config.LinkColors
	if !h.decode(w, r, &req) {
		return
	}
	h.do(w, r, func(s *service.Session) (interface{}, error) {
		s.SetLinkColors(req)
		return s.Style().LinkColors, nil
	})
}
