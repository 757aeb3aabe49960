package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"ast3d/internal/astsource"
	"ast3d/internal/codec"
	"ast3d/internal/config"
	"ast3d/internal/domain"
	"ast3d/internal/logging"
	"ast3d/internal/repository"
	"ast3d/internal/service"
)

// maxBodyBytes caps request bodies, source uploads included
const maxBodyBytes = 16 << 20

var validate = validator.New()

// ErrorResponse is the body of every failed request
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// SceneHandler serves the engine API
type SceneHandler struct {
	engine *service.Engine
	graphs *service.GraphService
	logger *zap.Logger
}

// NewSceneHandler creates a new scene handler
func NewSceneHandler(engine *service.Engine, graphs *service.GraphService, logger *zap.Logger) *SceneHandler {
	return &SceneHandler{
		engine: engine,
		graphs: graphs,
		logger: logging.OrNop(logger).Named("http"),
	}
}

// do runs fn on the engine and writes its result, or the mapped error
func (h *SceneHandler) do(w http.ResponseWriter, r *http.Request, fn func(*service.Session) (interface{}, error)) {
	out, err := service.Query(r.Context(), h.engine, fn)
	if err != nil {
		h.fail(w, "Engine request failed", err)
		return
	}
	h.writeJSON(w, out, http.StatusOK)
}

// decode reads a JSON body into v and validates it
func (h *SceneHandler) decode(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		h.writeError(w, "Invalid request body", err.Error(), http.StatusBadRequest)
		return false
	}
	if err := validate.Struct(v); err != nil {
		h.writeError(w, "Validation failed", err.Error(), http.StatusBadRequest)
		return false
	}
	return true
}

// fail maps err to a status code and writes it
func (h *SceneHandler) fail(w http.ResponseWriter, msg string, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		h.logger.Error(msg, zap.Error(err))
	} else {
		h.logger.Debug(msg, zap.Error(err))
	}
	h.writeError(w, msg, err.Error(), status)
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrInvalidGraph),
		errors.Is(err, astsource.ErrUnsupportedLanguage),
		errors.Is(err, codec.ErrUnknownFormat),
		errors.Is(err, codec.ErrMalformed):
		return http.StatusBadRequest
	case errors.Is(err, config.ErrUnknownTemplate),
		errors.Is(err, repository.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrEngineStopped),
		errors.Is(err, context.Canceled),
		errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

// formatFor picks the codec format from ?format= or the Content-Type header
func formatFor(r *http.Request) string {
	if f := r.URL.Query().Get("format"); f != "" {
		return f
	}
	if strings.Contains(r.Header.Get("Content-Type"), "yaml") {
		return "yaml"
	}
	return "json"
}

// Helper methods

func (h *SceneHandler) writeJSON(w http.ResponseWriter, data interface{}, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Warn("failed to encode JSON", zap.Error(err))
	}
}

func (h *SceneHandler) writeError(w http.ResponseWriter, error, details string, statusCode int) {
	h.writeJSON(w, ErrorResponse{Error: error, Details: details}, statusCode)
}
