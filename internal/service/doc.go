// Package service hosts the scene engine and the graph sources that feed it.
//
// # Session and Engine
//
// Session owns the pool, view, builder, highlighter, camera controller and
// input dispatcher. Engine runs a single goroutine that ticks frames at the
// configured rate and executes queued commands, so HTTP handlers reach the
// Session only through Engine.Do and Query.
//
// # Graph sources
//
// GraphService loads graphs from request bodies (JSON/YAML), tree-sitter
// parses of source code, files on disk and stored snapshots.
//
// # Event System
//
// The Session and GraphService publish events via EventBus: rebuilds, hover
// and selection changes, settings, camera state and frame redraws. The SSE
// hub relays them to connected clients.
package service
