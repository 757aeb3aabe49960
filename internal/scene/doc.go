// Package scene is a headless scene graph: the capability the visualizer core
// renders into.
//
// It provides vectors and bounding volumes, geometry primitives described by
// parameters, materials, LOD node containers, two-point lines, a Group whose
// children are a tagged Element variant (node or edge), a perspective Camera with
// ray picking, and a Snapshot for handing a frame to an external Renderer.
//
// Nothing here rasterizes. Geometry keeps only its parameters and bounds.
package scene
