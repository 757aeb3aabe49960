// Package domain defines the input types of the ast3d graph visualizer.
//
// A Graph is a flat list of GraphNode values (typed AST-like nodes with a scope
// level, children and an optional parent) plus a list of GraphEdge values
// (source, target and a relationship type). Graphs are supplied wholesale on every
// rebuild; there is no incremental diff API. A Snapshot is a Graph stored
// under a name together with the style template it was viewed with.
//
// # Relationship Types
//
// parent-child edges drive highlight propagation and camera framing.
// dependency edges link uses to declarations. other covers everything else.
//
// # Design Principles
//
// - No rendering, database or transport dependencies
// - Value types that are safe to copy into scene objects
package domain
