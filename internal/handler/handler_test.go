package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"ast3d/internal/astsource"
	"ast3d/internal/codec"
	"ast3d/internal/config"
	"ast3d/internal/domain"
	"ast3d/internal/repository"
	"ast3d/internal/repository/sqlite"
	"ast3d/internal/scene"
	"ast3d/internal/service"
)

const graphJSON = `{
  "nodes": [
    {"id": "r", "type": "Program", "children": ["c"]},
    {"id": "c", "type": "FunctionDeclaration", "scopeLevel": 1, "parent": "r"}
  ],
  "edges": [{"source": "r", "target": "c", "relationshipType": "parent-child"}]
}`

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	logger := zaptest.NewLogger(t)

	style, err := config.NewStyle(config.DefaultStyleConfig())
	require.NoError(t, err)
	bus := service.NewEventBus()
	session := service.NewSession(config.DefaultEngineConfig(), style, bus, logger)
	engine := service.NewEngine(session, time.Millisecond, logger)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = engine.Run(ctx)
	}()

	repo, err := sqlite.New(":memory:", logger)
	require.NoError(t, err)

	graphs := service.NewGraphService(engine, repo, astsource.NewParser(astsource.DefaultOptions(), logger), bus, logger)
	srv := httptest.NewServer(NewRouter(NewSceneHandler(engine, graphs, logger), RouterOptions{}, logger))

	t.Cleanup(func() {
		srv.Close()
		cancel()
		<-done
		repo.Close()
		session.Close()
	})
	return srv
}

func call(t *testing.T, srv *httptest.Server, method, path, contentType, body string) (*http.Response, []byte) {
	t.Helper()
	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	req, err := http.NewRequest(method, srv.URL+path, rd)
	require.NoError(t, err)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, data
}

func callJSON(t *testing.T, srv *httptest.Server, method, path, body string) (*http.Response, []byte) {
	return call(t, srv, method, path, "application/json", body)
}

func loadGraph(t *testing.T, srv *httptest.Server) {
	t.Helper()
	resp, body := callJSON(t, srv, http.MethodPost, "/api/graph", graphJSON)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
}

func TestLoadGraphAndScene(t *testing.T) {
	srv := newTestServer(t)

	resp, body := callJSON(t, srv, http.MethodPost, "/api/graph", graphJSON)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	var info service.RebuildInfo
	require.NoError(t, json.Unmarshal(body, &info))
	assert.Equal(t, 2, info.Nodes)
	assert.Equal(t, 1, info.Edges)

	resp, body = callJSON(t, srv, http.MethodGet, "/api/scene", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var snap scene.Snapshot
	require.NoError(t, json.Unmarshal(body, &snap))
	assert.Len(t, snap.Nodes, 2)
	assert.Len(t, snap.Edges, 1)
	assert.True(t, snap.Lighting)
}

func TestLoadGraphErrors(t *testing.T) {
	srv := newTestServer(t)

	tests := []struct {
		name        string
		path        string
		contentType string
		body        string
		status      int
	}{
		{"malformed json", "/api/graph", "application/json", "{", http.StatusBadRequest},
		{"empty node id", "/api/graph", "application/json", `{"nodes":[{"type":"Program"}]}`, http.StatusBadRequest},
		{"unknown format", "/api/graph?format=toml", "", "x", http.StatusBadRequest},
		{"import without format", "/api/graph/import", "application/json", graphJSON, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, body := call(t, srv, http.MethodPost, tt.path, tt.contentType, tt.body)
			assert.Equal(t, tt.status, resp.StatusCode, string(body))
			var er ErrorResponse
			require.NoError(t, json.Unmarshal(body, &er))
			assert.NotEmpty(t, er.Error)
		})
	}
}

func TestImportExportYAML(t *testing.T) {
	srv := newTestServer(t)

	yamlGraph := "nodes:\n  - id: a\n    type: Program\n  - id: b\n    type: Identifier\n    scope_level: 1\nedges:\n  - source: a\n    target: b\n"
	resp, body := call(t, srv, http.MethodPost, "/api/graph/import?format=yaml", "", yamlGraph)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))

	resp, body = call(t, srv, http.MethodGet, "/api/graph/export?format=yaml", "", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/x-yaml", resp.Header.Get("Content-Type"))
	assert.Contains(t, string(body), "id: b")

	resp, body = call(t, srv, http.MethodGet, "/api/graph/export", "", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), `"id": "a"`)

	resp, _ = callJSON(t, srv, http.MethodDelete, "/api/graph", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestParseSource(t *testing.T) {
	srv := newTestServer(t)

	tests := []struct {
		name   string
		body   string
		status int
	}{
		{"go by language", `{"language":"go","source":"package main\nfunc main() {}\n"}`, http.StatusOK},
		{"python by filename", `{"filename":"app.py","source":"def f():\n    pass\n"}`, http.StatusOK},
		{"unsupported language", `{"language":"cobol","source":"x"}`, http.StatusBadRequest},
		{"no language", `{"source":"x"}`, http.StatusBadRequest},
		{"missing source", `{"language":"go"}`, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, body := callJSON(t, srv, http.MethodPost, "/api/parse", tt.body)
			assert.Equal(t, tt.status, resp.StatusCode, string(body))
		})
	}

	_, body := callJSON(t, srv, http.MethodPost, "/api/parse", tests[0].body)
	var res service.ParseResult
	require.NoError(t, json.Unmarshal(body, &res))
	assert.Equal(t, astsource.Go, res.Language)
	assert.Contains(t, res.Rebuild.Types, "FunctionDeclaration")
}

func TestInteraction(t *testing.T) {
	srv := newTestServer(t)
	loadGraph(t, srv)

	resp, body := callJSON(t, srv, http.MethodPost, "/api/pointer/click", `{"button":"left","node_id":"c"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	var pr PointerResponse
	require.NoError(t, json.Unmarshal(body, &pr))
	assert.True(t, pr.Changed)

	_, body = callJSON(t, srv, http.MethodGet, "/api/stats", "")
	var stats service.SessionStats
	require.NoError(t, json.Unmarshal(body, &stats))
	assert.Equal(t, "c", stats.Selected)

	resp, _ = callJSON(t, srv, http.MethodPost, "/api/pointer/click", `{"button":"middle"}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp, _ = callJSON(t, srv, http.MethodPost, "/api/pointer/move", `{"x":2,"y":0}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp, _ = callJSON(t, srv, http.MethodPost, "/api/pointer/move", `{"x":0.9,"y":0.9}`)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = callJSON(t, srv, http.MethodPost, "/api/camera/restore", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	_, body = callJSON(t, srv, http.MethodGet, "/api/stats", "")
	require.NoError(t, json.Unmarshal(body, &stats))
	assert.Empty(t, stats.Selected)

	resp, _ = callJSON(t, srv, http.MethodPost, "/api/camera/snapshot", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestSettings(t *testing.T) {
	srv := newTestServer(t)
	loadGraph(t, srv)

	resp, _ := callJSON(t, srv, http.MethodPut, "/api/visibility", `{"types":["Program"]}`)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	_, body := callJSON(t, srv, http.MethodGet, "/api/scene", "")
	var snap scene.Snapshot
	require.NoError(t, json.Unmarshal(body, &snap))
	assert.False(t, snap.Edges[0].Visible)

	resp, _ = callJSON(t, srv, http.MethodPut, "/api/highlight", `{"depth":-1}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp, _ = callJSON(t, srv, http.MethodPut, "/api/highlight", `{"depth":2,"non_connected_opacity":0.4}`)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = callJSON(t, srv, http.MethodPut, "/api/lights", `{"enabled":false}`)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	_, body = callJSON(t, srv, http.MethodGet, "/api/scene", "")
	require.NoError(t, json.Unmarshal(body, &snap))
	assert.False(t, snap.Lighting)

	_, body = callJSON(t, srv, http.MethodGet, "/api/style", "")
	var style StyleResponse
	require.NoError(t, json.Unmarshal(body, &style))
	assert.Equal(t, "default", style.Template)
	assert.Equal(t, 2, style.Highlight.Depth)
	assert.Equal(t, config.TemplateNames(), style.Templates)
}

func TestHighlightDepthLimit(t *testing.T) {
	srv := newTestServer(t)
	loadGraph(t, srv)

	tests := []struct {
		name string
		body string
		want int
	}{
		{"zero", `{"depth":0}`, http.StatusOK},
		{"config maximum", `{"depth":64}`, http.StatusOK},
		{"over maximum", `{"depth":65}`, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, body := callJSON(t, srv, http.MethodPut, "/api/highlight", tt.body)
			assert.Equal(t, tt.want, resp.StatusCode, string(body))
		})
	}

	cfg := config.DefaultConfig()
	cfg.Style.Highlight.Depth = 64
	assert.NoError(t, cfg.Validate(), "a depth accepted over HTTP is also valid in config")
	cfg.Style.Highlight.Depth = 65
	assert.Error(t, cfg.Validate())
}

func TestStyleEndpoints(t *testing.T) {
	srv := newTestServer(t)
	loadGraph(t, srv)

	resp, _ := callJSON(t, srv, http.MethodPost, "/api/style/template/neon", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp, body := callJSON(t, srv, http.MethodPost, "/api/style/template/pastel", "")
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))

	resp, _ = callJSON(t, srv, http.MethodPut, "/api/style/node/Program", `{"shape":"torus","color":"#ff0000"}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp, _ = callJSON(t, srv, http.MethodPut, "/api/style/node/Program", `{"shape":"box","color":"#00ff00"}`)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = callJSON(t, srv, http.MethodPut, "/api/style/links", `{"normal":"#111111","dependency":"#222222","root":"#282828","hover":"#333333","hover_secondary":"#FFA500","selected":"#444444","normal_opacity":0.5}`)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp, _ = callJSON(t, srv, http.MethodPut, "/api/style/links", `{"normal_opacity":3}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestSnapshotEndpoints(t *testing.T) {
	srv := newTestServer(t)
	loadGraph(t, srv)

	resp, _ := callJSON(t, srv, http.MethodPost, "/api/snapshots", `{}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, body := callJSON(t, srv, http.MethodPost, "/api/snapshots", `{"name":"two nodes"}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))
	var snap domain.Snapshot
	require.NoError(t, json.Unmarshal(body, &snap))
	require.NotEmpty(t, snap.ID)
	assert.Nil(t, snap.Graph)

	_, body = callJSON(t, srv, http.MethodGet, "/api/snapshots", "")
	var list []domain.Snapshot
	require.NoError(t, json.Unmarshal(body, &list))
	assert.Len(t, list, 1)

	resp, body = callJSON(t, srv, http.MethodGet, "/api/snapshots/"+snap.ID, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var full domain.Snapshot
	require.NoError(t, json.Unmarshal(body, &full))
	require.NotNil(t, full.Graph)
	assert.Len(t, full.Graph.Nodes, 2)

	resp, _ = callJSON(t, srv, http.MethodPost, "/api/snapshots/"+snap.ID+"/load", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = callJSON(t, srv, http.MethodDelete, "/api/snapshots/"+snap.ID, "")
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	resp, _ = callJSON(t, srv, http.MethodGet, "/api/snapshots/"+snap.ID, "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestHealthAndMetrics(t *testing.T) {
	srv := newTestServer(t)
	loadGraph(t, srv)

	resp, body := call(t, srv, http.MethodGet, "/health", "", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"status":"healthy"}`, string(body))

	resp, body = call(t, srv, http.MethodGet, "/metrics", "", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, bytes.Contains(body, []byte("ast3d_rebuild_seconds")))
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{config.ErrUnknownTemplate, http.StatusNotFound},
		{repository.ErrNotFound, http.StatusNotFound},
		{astsource.ErrUnsupportedLanguage, http.StatusBadRequest},
		{service.ErrEngineStopped, http.StatusServiceUnavailable},
		{context.Canceled, http.StatusServiceUnavailable},
		{fmt.Errorf("decode: %w", codec.ErrMalformed), http.StatusBadRequest},
		{io.ErrUnexpectedEOF, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, statusFor(tt.err), tt.err.Error())
	}
}
