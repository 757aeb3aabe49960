package service

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"ast3d/internal/camera"
	"ast3d/internal/config"
	"ast3d/internal/domain"
	"ast3d/internal/graphview"
	"ast3d/internal/interact"
	"ast3d/internal/logging"
	"ast3d/internal/lod"
	"ast3d/internal/metrics"
	"ast3d/internal/pool"
	"ast3d/internal/scene"
	"ast3d/internal/tween"
)

// Presenter draws a frame. The server presenter forwards snapshots to SSE clients.
type Presenter interface {
	Present(snap scene.Snapshot)
}

// PresenterFunc adapts a function to Presenter
type PresenterFunc func(snap scene.Snapshot)

// Present implements Presenter
func (f PresenterFunc) Present(snap scene.Snapshot) { f(snap) }

// BusPresenter publishes every frame as a scene_redraw event
func BusPresenter(bus *EventBus) Presenter {
	return PresenterFunc(func(snap scene.Snapshot) {
		bus.Publish(Event{Type: EventSceneRedraw, Payload: snap})
	})
}

// SessionStats summarizes engine state for the stats endpoint and CLI
type SessionStats struct {
	Nodes     int          `json:"nodes"`
	Edges     int          `json:"edges"`
	Types     []string     `json:"types"`
	Pool      pool.Stats   `json:"pool"`
	Camera    string       `json:"camera"`
	Selected  string       `json:"selected,omitempty"`
	Hovered   string       `json:"hovered,omitempty"`
	Template  string       `json:"template"`
	Lighting  bool         `json:"lighting"`
	Frames    uint64       `json:"frames"`
	Animating int          `json:"animating"`
	Visible   *[]string    `json:"visible_types,omitempty"`
	Last      *RebuildInfo `json:"last_rebuild,omitempty"`
}

// RebuildInfo is the payload of graph_rebuilt events
type RebuildInfo struct {
	graphview.RebuildResult
	Types []string `json:"types"`
}

// HighlightSettings updates highlight parameters; nil fields are unchanged
type HighlightSettings struct {
	Depth               *int     `json:"depth,omitempty" validate:"omitempty,gte=0,lte=64"`
	NonConnectedOpacity *float32 `json:"non_connected_opacity,omitempty" validate:"omitempty,gte=0,lte=1"`
}

// Session owns every piece of engine state. It is not safe for concurrent
// use; the Engine serializes access to it.
type Session struct {
	cfg    config.EngineConfig
	style  *config.Style
	bus    *EventBus
	logger *zap.Logger

	scene    *scene.Scene
	view     *graphview.View
	pool     *pool.Pool
	placer   *graphview.Placer
	builder  *graphview.Builder
	hl       *graphview.Highlighter
	animator *tween.Animator
	cam      *camera.Controller
	input    *interact.Dispatcher

	presenter Presenter
	graph     *domain.Graph
	last      *RebuildInfo
	dirty     bool
	frames    uint64
}

// NewSession wires the engine components together
func NewSession(cfg config.EngineConfig, style *config.Style, bus *EventBus, logger *zap.Logger) *Session {
	logger = logging.OrNop(logger)
	cc := cfg.Camera

	s := &Session{
		cfg:      cfg,
		style:    style,
		bus:      bus,
		logger:   logger.Named("session"),
		scene:    scene.New(scene.NewPerspectiveCamera(cc.FOV, cc.Aspect, cc.Near, cc.Far)),
		animator: tween.NewAnimator(),
		graph:    domain.NewGraph(),
	}
	s.view = graphview.NewView(s.scene)
	s.pool = pool.New(lod.NewFactory(style, cfg, logger), cfg.Pool, logger)
	s.placer = graphview.NewPlacer(cfg.Placement, cfg.Seed)
	s.builder = graphview.NewBuilder(s.view, s.pool, s.placer, style, logger)
	s.hl = graphview.NewHighlighter(s.view, style, logger)
	s.cam = camera.NewController(s.scene.Camera, s.view, s.animator, cc, logger)
	s.input = interact.New(s.scene, s.view, s.hl, s.cam, logger)

	s.hl.OnRedraw(s.markDirty)
	s.cam.OnStateChange(func(st camera.State) {
		s.publish(EventCameraState, map[string]string{"state": st.String()})
	})
	s.input.OnInfo(func(n *domain.GraphNode) {
		s.publish(EventNodeInfo, n)
	})
	s.input.OnHover(func(id string) {
		s.publish(EventNodeHovered, map[string]string{"id": id})
	})
	s.input.OnSelect(func(id string) {
		if id == "" {
			s.publish(EventSelectionCleared, nil)
			return
		}
		s.publish(EventNodeSelected, map[string]string{"id": id})
	})
	return s
}

// SetPresenter sets the frame consumer
func (s *Session) SetPresenter(p Presenter) {
	s.presenter = p
	s.markDirty()
}

func (s *Session) markDirty() {
	s.dirty = true
}

func (s *Session) publish(t EventType, payload interface{}) {
	s.bus.Publish(Event{Type: t, Payload: payload})
}

// Frame advances animations by dt and presents the scene if anything changed.
// It reports whether a frame was presented.
func (s *Session) Frame(dt time.Duration) bool {
	if s.animator.Active() > 0 {
		s.animator.Advance(dt)
		s.dirty = true
	}
	if !s.dirty || s.presenter == nil {
		return false
	}
	s.dirty = false
	s.frames++
	metrics.FramesTotal.Inc()
	s.presenter.Present(s.scene.Snapshot())
	return true
}

// Rebuild replaces the scene with g. Placement is reseeded so the same graph
// always yields the same layout.
func (s *Session) Rebuild(g *domain.Graph) (*RebuildInfo, error) {
	if g == nil {
		g = domain.NewGraph()
	}
	if err := g.Validate(); err != nil {
		return nil, err
	}
	s.graph = g
	return s.rebuild(), nil
}

func (s *Session) rebuild() *RebuildInfo {
	s.placer.Reseed(s.cfg.Seed)
	res := s.builder.Rebuild(s.graph.Nodes, s.graph.Edges)
	s.hl.Refresh()
	s.markDirty()

	info := &RebuildInfo{RebuildResult: res, Types: s.view.Types()}
	s.last = info
	s.publish(EventGraphRebuilt, info)
	return info
}

// Graph returns the graph of the last rebuild
func (s *Session) Graph() *domain.Graph {
	return s.graph
}

// Clear empties the scene and forgets the current graph
func (s *Session) Clear() int {
	n := s.builder.Clear()
	s.graph = domain.NewGraph()
	s.hl.Clear()
	s.markDirty()
	return n
}

// Style returns the effective style configuration
func (s *Session) Style() config.StyleConfig {
	return s.style.Snapshot()
}

// ApplyTemplate switches the style template and rebuilds so pooled objects
// pick up the new shapes and colors
func (s *Session) ApplyTemplate(name string) (*RebuildInfo, error) {
	if err := s.style.ApplyTemplate(name); err != nil {
		return nil, err
	}
	s.logger.Info("style template applied", zap.String("template", name))
	s.publish(EventSettingsChanged, map[string]string{"template": name})
	return s.rebuild(), nil
}

// ApplyStyle replaces the whole style, as on a config reload, and rebuilds
func (s *Session) ApplyStyle(cfg config.StyleConfig) (*RebuildInfo, error) {
	if err := s.style.Reset(cfg); err != nil {
		return nil, err
	}
	s.logger.Info("style reloaded", zap.String("template", s.style.Template()))
	s.publish(EventSettingsChanged, s.style.Snapshot())
	return s.rebuild(), nil
}

// SetNodeStyle overrides one node type's style and rebuilds
func (s *Session) SetNodeStyle(nodeType string, st config.NodeStyle) (*RebuildInfo, error) {
	if err := s.style.SetNodeStyle(nodeType, st); err != nil {
		return nil, fmt.Errorf("node style %s: %w", nodeType, err)
	}
	s.publish(EventSettingsChanged, map[string]interface{}{"node_type": nodeType, "style": st})
	return s.rebuild(), nil
}

// SetLinkColors replaces the link colors and repaints edges
func (s *Session) SetLinkColors(lc config.LinkColors) {
	s.style.SetLinkColors(lc)
	s.hl.Refresh()
	s.publish(EventSettingsChanged, map[string]interface{}{"link_colors": lc})
}

// SetHighlight updates depth and dimming, then repaints
func (s *Session) SetHighlight(h HighlightSettings) graphview.HighlightResult {
	if h.Depth != nil {
		s.style.SetHighlightDepth(*h.Depth)
	}
	if h.NonConnectedOpacity != nil {
		s.style.SetNonConnectedOpacity(*h.NonConnectedOpacity)
	}
	s.publish(EventSettingsChanged, map[string]interface{}{"highlight": s.style.Highlight()})
	return s.hl.Refresh()
}

// SetLighting switches between lit and unlit materials
func (s *Session) SetLighting(on bool) {
	s.scene.SetLighting(on)
	s.markDirty()
	s.publish(EventSettingsChanged, map[string]bool{"lighting": on})
}

// SetVisibleTypes restricts visibility to types; nil shows every type
func (s *Session) SetVisibleTypes(types []string) {
	if types == nil {
		s.view.ShowAllTypes()
	} else {
		s.view.SetVisibleTypes(types)
	}
	s.hl.Refresh()
	s.markDirty()
	visible, filtered := s.view.VisibleTypes()
	s.publish(EventVisibilityChanged, map[string]interface{}{"types": visible, "filtered": filtered})
}

// PointerMove updates hover from normalized device coordinates
func (s *Session) PointerMove(x, y float32) (string, bool) {
	return s.input.PointerMove(x, y)
}

// LeftClick selects and frames the node under the pointer
func (s *Session) LeftClick(x, y float32) (string, bool) {
	return s.input.LeftClick(x, y)
}

// ClickNode selects and frames a node by id
func (s *Session) ClickNode(id string) bool {
	return s.input.ClickNode(id)
}

// RightClick clears highlight state and restores the camera
func (s *Session) RightClick() {
	s.input.RightClick()
}

// SnapshotRestorePoint stores the current camera pose as the restore point
func (s *Session) SnapshotRestorePoint() {
	s.cam.SnapshotRestorePoint()
}

// Scene returns the current drawable state
func (s *Session) Scene() scene.Snapshot {
	return s.scene.Snapshot()
}

// Stats reports a summary of engine state
func (s *Session) Stats() SessionStats {
	st := SessionStats{
		Nodes:     len(s.view.Nodes()),
		Edges:     len(s.view.Edges()),
		Types:     s.view.Types(),
		Pool:      s.pool.Stats(),
		Camera:    s.cam.State().String(),
		Selected:  s.hl.Selected(),
		Hovered:   s.hl.Hovered(),
		Template:  s.style.Template(),
		Lighting:  s.scene.Lighting(),
		Frames:    s.frames,
		Animating: s.animator.Active(),
		Last:      s.last,
	}
	if types, ok := s.view.VisibleTypes(); ok {
		st.Visible = &types
	}
	return st
}

// Close clears the scene and disposes pooled geometry
func (s *Session) Close() {
	s.builder.Clear()
	s.pool.Close()
}
