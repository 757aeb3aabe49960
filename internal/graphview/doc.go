// Package graphview maps graph input onto the scene and keeps its visual state.
//
// The View indexes live node and edge objects by id and type. The Builder
// replaces the scene contents wholesale from a node and edge list, drawing
// objects from the pool and recentering the result. SetVisibleTypes filters
// by node type, and the Highlighter recolors the view for hover and
// selection by walking parent-child edges to a bounded depth.
//
// Edges never hold node pointers: scene.EdgeData carries endpoint ids that
// resolve through the View at access time.
package graphview
