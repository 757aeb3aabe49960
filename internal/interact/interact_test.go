package interact

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ast3d/internal/camera"
	"ast3d/internal/config"
	"ast3d/internal/domain"
	"ast3d/internal/graphview"
	"ast3d/internal/lod"
	"ast3d/internal/pool"
	"ast3d/internal/scene"
	"ast3d/internal/tween"
)

type harness struct {
	d        *Dispatcher
	hl       *graphview.Highlighter
	cam      *camera.Controller
	animator *tween.Animator
	view     *graphview.View
	infos    []*domain.GraphNode
	selects  []string
	hovers   []string
}

func newHarness(t *testing.T, tweak ...func(*config.CameraConfig)) *harness {
	t.Helper()
	style, err := config.NewStyle(config.DefaultStyleConfig())
	require.NoError(t, err)
	engine := config.DefaultEngineConfig()
	for _, fn := range tweak {
		fn(&engine.Camera)
	}

	sc := scene.New(scene.NewPerspectiveCamera(engine.Camera.FOV, 1, engine.Camera.Near, engine.Camera.Far))
	view := graphview.NewView(sc)
	p := pool.New(lod.NewFactory(style, engine, nil), engine.Pool, nil)
	builder := graphview.NewBuilder(view, p, graphview.NewPlacer(engine.Placement, 1), style, nil)
	hl := graphview.NewHighlighter(view, style, nil)
	animator := tween.NewAnimator()
	cam := camera.NewController(sc.Camera, view, animator, engine.Camera, nil)

	builder.Rebuild([]domain.GraphNode{
		{ID: "r", Type: "Program", Children: []string{"c"}},
		{ID: "c", Type: "Identifier", ScopeLevel: 1, Parent: "r"},
	}, []domain.GraphEdge{domain.NewGraphEdge("r", "c", domain.RelationshipParentChild)})

	// pin positions so the center of the view hits r and nothing else
	r, _ := view.Node("r")
	c, _ := view.Node("c")
	r.Position = scene.Vector3{}
	c.Position = scene.Vec3(500, 0, -500)

	h := &harness{hl: hl, cam: cam, animator: animator, view: view}
	h.d = New(sc, view, hl, cam, nil)
	h.d.OnInfo(func(n *domain.GraphNode) { h.infos = append(h.infos, n) })
	h.d.OnSelect(func(id string) { h.selects = append(h.selects, id) })
	h.d.OnHover(func(id string) { h.hovers = append(h.hovers, id) })
	return h
}

func TestPick(t *testing.T) {
	h := newHarness(t)
	n, ok := h.d.Pick(0, 0)
	require.True(t, ok)
	assert.Equal(t, "r", n.Data.ID())

	_, ok = h.d.Pick(0.95, 0.95)
	assert.False(t, ok)
}

func TestPointerMoveHover(t *testing.T) {
	h := newHarness(t)

	id, changed := h.d.PointerMove(0, 0)
	assert.Equal(t, "r", id)
	assert.True(t, changed)
	assert.Equal(t, "r", h.hl.Hovered())
	require.Len(t, h.infos, 1)
	assert.Equal(t, "r", h.infos[0].ID)

	_, changed = h.d.PointerMove(0.01, 0)
	assert.False(t, changed, "same node stays hovered")
	assert.Len(t, h.infos, 1)

	id, changed = h.d.PointerMove(0.95, 0.95)
	assert.Empty(t, id)
	assert.True(t, changed)
	assert.Empty(t, h.hl.Hovered())
	require.Len(t, h.infos, 2)
	assert.Nil(t, h.infos[1])
	assert.Equal(t, []string{"r", ""}, h.hovers)

	_, changed = h.d.PointerMove(0.95, 0.95)
	assert.False(t, changed)
}

func TestPointerMoveHoverFocus(t *testing.T) {
	hoverFocus := func(cfg *config.CameraConfig) { cfg.HoverFocus = true }

	tests := []struct {
		name     string
		tweak    []func(*config.CameraConfig)
		selected string
		want     bool
	}{
		{"disabled", nil, "", false},
		{"enabled", []func(*config.CameraConfig){hoverFocus}, "", true},
		{"enabled with selection", []func(*config.CameraConfig){hoverFocus}, "c", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t, tt.tweak...)
			if tt.selected != "" {
				h.hl.Select(tt.selected)
			}

			id, changed := h.d.PointerMove(0, 0)
			require.True(t, changed)
			assert.Equal(t, "r", id)
			assert.Equal(t, tt.want, h.cam.Animating())
			_, hasPoint := h.cam.RestorePoint()
			assert.Equal(t, tt.want, hasPoint)
		})
	}
}

func TestLeftClickFocusesAndSelects(t *testing.T) {
	h := newHarness(t)

	id, ok := h.d.LeftClick(0, 0)
	require.True(t, ok)
	assert.Equal(t, "r", id)
	assert.Equal(t, "r", h.hl.Selected())
	assert.True(t, h.cam.Animating())
	assert.Equal(t, []string{"r"}, h.selects)

	_, ok = h.d.LeftClick(0, 0)
	assert.False(t, ok, "clicks are ignored while animating")
	assert.False(t, h.d.ClickNode("c"))

	_, changed := h.d.PointerMove(0.95, 0.95)
	assert.False(t, changed, "hover suppressed while animating")

	h.animator.Advance(2 * time.Second)
	assert.False(t, h.cam.Animating())
	assert.True(t, h.d.ClickNode("c"))
	assert.Equal(t, "c", h.hl.Selected())
}

func TestLeftClickOnNothing(t *testing.T) {
	h := newHarness(t)
	_, ok := h.d.LeftClick(0.95, 0.95)
	assert.False(t, ok)
	assert.False(t, h.cam.Animating())
	assert.Empty(t, h.hl.Selected())
}

func TestRightClickClearsAndRestores(t *testing.T) {
	h := newHarness(t)
	overview := h.view.Scene().Camera.Pose()

	h.d.PointerMove(0, 0)
	_, ok := h.d.LeftClick(0, 0)
	require.True(t, ok)
	h.animator.Advance(500 * time.Millisecond)

	h.d.RightClick()
	assert.Empty(t, h.hl.Selected())
	assert.Empty(t, h.hl.Hovered())
	assert.True(t, h.cam.Animating())
	assert.Nil(t, h.infos[len(h.infos)-1])
	assert.Equal(t, []string{"r", ""}, h.selects)

	h.animator.Advance(time.Second)
	assert.True(t, scene.ApproxEqual(h.view.Scene().Camera.Position, overview.Position, 1e-3))
	for _, n := range h.view.Nodes() {
		assert.Equal(t, float32(1), n.Opacity())
	}
}

func TestClickNodeUnknown(t *testing.T) {
	h := newHarness(t)
	assert.False(t, h.d.ClickNode("missing"))
}
