package scene

// Scene is the root of the headless scene graph: the graph group, the camera
// and the lighting switch. A Renderer draws it; the scene itself never rasterizes.
type Scene struct {
	Graph  *Group
	Camera *Camera

	lighting bool
}

// Renderer draws a scene. Implemented by the host (GPU, browser bridge, tests).
type Renderer interface {
	Render(s *Scene)
}

// New creates a scene with an empty graph group and lights on
func New(camera *Camera) *Scene {
	return &Scene{
		Graph:    NewGroup(),
		Camera:   camera,
		lighting: true,
	}
}

// Lighting reports whether lit materials are in use
func (s *Scene) Lighting() bool {
	return s.lighting
}

// SetLighting swaps every node mesh between lit and unlit materials
func (s *Scene) SetLighting(on bool) {
	s.lighting = on
	for _, n := range s.Graph.Nodes() {
		n.SetLighting(on)
	}
}

// NodeState is the drawable state of one node object
type NodeState struct {
	ID          string  `json:"id"`
	Type        string  `json:"type"`
	Position    Vector3 `json:"position"`
	Scale       float32 `json:"scale"`
	Color       Color   `json:"color"`
	Opacity     float32 `json:"opacity"`
	Visible     bool    `json:"visible"`
	RenderOrder int     `json:"render_order"`
	Shape       Shape   `json:"shape"`
	Size        float32 `json:"size"`
}

// EdgeState is the drawable state of one edge object
type EdgeState struct {
	Source       string  `json:"source"`
	Target       string  `json:"target"`
	Relationship string  `json:"relationship"`
	Start        Vector3 `json:"start"`
	End          Vector3 `json:"end"`
	Color        Color   `json:"color"`
	Opacity      float32 `json:"opacity"`
	Visible      bool    `json:"visible"`
	RenderOrder  int     `json:"render_order"`
}

// Snapshot is a serializable copy of everything a renderer needs for one frame
type Snapshot struct {
	Camera   Pose        `json:"camera"`
	FOV      float32     `json:"fov"`
	Lighting bool        `json:"lighting"`
	Nodes    []NodeState `json:"nodes"`
	Edges    []EdgeState `json:"edges"`
}

// Snapshot captures the current scene state
func (s *Scene) Snapshot() Snapshot {
	snap := Snapshot{
		Camera:   s.Camera.Pose(),
		FOV:      s.Camera.FOV,
		Lighting: s.lighting,
		Nodes:    make([]NodeState, 0),
		Edges:    make([]EdgeState, 0),
	}
	for _, e := range s.Graph.Children() {
		switch e.Kind {
		case KindNode:
			n := e.Node
			st := NodeState{
				ID:          n.Data.ID(),
				Type:        n.Data.Type,
				Position:    n.Position,
				Scale:       n.Scale,
				Color:       n.Color(),
				Opacity:     n.Opacity(),
				Visible:     n.Visible,
				RenderOrder: n.RenderOrder,
			}
			if len(n.Levels) > 0 && n.Levels[0].Mesh.Geometry != nil {
				st.Shape = n.Levels[0].Mesh.Geometry.Spec.Shape
				st.Size = n.Levels[0].Mesh.Geometry.Spec.Size
			}
			snap.Nodes = append(snap.Nodes, st)
		case KindEdge:
			l := e.Edge
			snap.Edges = append(snap.Edges, EdgeState{
				Source:       l.Data.Source,
				Target:       l.Data.Target,
				Relationship: string(l.Data.Relationship),
				Start:        l.Start,
				End:          l.End,
				Color:        l.Material.Color,
				Opacity:      l.Material.Opacity,
				Visible:      l.Visible,
				RenderOrder:  l.RenderOrder,
			})
		}
	}
	return snap
}
