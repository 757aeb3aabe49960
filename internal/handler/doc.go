// Package handler implements the HTTP API that drives the scene engine.
//
// Every request that touches engine state runs on the engine goroutine via
// service.Query, so handlers never share the Session concurrently.
//
// # Response Format
//
// Success responses return JSON. Errors return {error, details} with a
// status mapped from the sentinel errors: invalid graphs and unsupported
// languages are 400, unknown templates and snapshots are 404, a stopped
// engine is 503.
//
// # Routes
//
// /api/scene, /api/stats, /api/graph (load, clear, import, export),
// /api/parse, /api/visibility, /api/highlight, /api/lights,
// /api/pointer/{move,click}, /api/camera/{restore,snapshot}, /api/style,
// /api/snapshots, plus /events (SSE), /metrics and /health.
package handler
