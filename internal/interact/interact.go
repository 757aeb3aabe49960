// Package interact turns pointer input into hover, selection and camera moves.
package interact

import (
	"go.uber.org/zap"

	"ast3d/internal/camera"
	"ast3d/internal/domain"
	"ast3d/internal/graphview"
	"ast3d/internal/logging"
	"ast3d/internal/scene"
)

// InfoFunc receives the payload of the hovered or selected node, or nil when
// the pointer leaves every node
type InfoFunc func(node *domain.GraphNode)

// Dispatcher routes pointer events to the highlighter and camera controller
type Dispatcher struct {
	scene  *scene.Scene
	view   *graphview.View
	hl     *graphview.Highlighter
	cam    *camera.Controller
	logger *zap.Logger

	onInfo   InfoFunc
	onSelect func(id string)
	onHover  func(id string)
}

// New creates a dispatcher
func New(s *scene.Scene, view *graphview.View, hl *graphview.Highlighter, cam *camera.Controller, logger *zap.Logger) *Dispatcher {
	return &Dispatcher{
		scene:  s,
		view:   view,
		hl:     hl,
		cam:    cam,
		logger: logging.OrNop(logger).Named("interact"),
	}
}

// OnInfo sets the info panel callback
func (d *Dispatcher) OnInfo(fn InfoFunc) { d.onInfo = fn }

// OnSelect sets a callback run after a node is selected ("" on clear)
func (d *Dispatcher) OnSelect(fn func(id string)) { d.onSelect = fn }

// OnHover sets a callback run when the hovered node changes ("" on leave)
func (d *Dispatcher) OnHover(fn func(id string)) { d.onHover = fn }

// Pick returns the nearest visible node under normalized device coordinates
func (d *Dispatcher) Pick(x, y float32) (*scene.LOD, bool) {
	ray := d.scene.Camera.RayFromNDC(x, y)
	hits := scene.Raycast(ray, d.view.VisibleNodes())
	if len(hits) == 0 {
		return nil, false
	}
	return hits[0].Node, true
}

// PointerMove updates hover from the pointer position. Hover detection is
// suppressed while the camera animates. Entering a node with nothing
// selected asks the camera for a hover focus. It returns the hovered id and
// whether hover changed.
func (d *Dispatcher) PointerMove(x, y float32) (string, bool) {
	if d.cam.Animating() {
		return d.hl.Hovered(), false
	}

	n, ok := d.Pick(x, y)
	if !ok {
		if d.hl.Hovered() == "" {
			return "", false
		}
		d.hl.Hover("")
		d.info(nil)
		d.hovered("")
		return "", true
	}

	id := n.Data.ID()
	if _, changed := d.hl.Hover(id); !changed {
		return id, false
	}
	d.info(&n.Data.Node)
	d.hovered(id)
	if d.hl.Selected() == "" {
		d.cam.FocusHover(id)
	}
	return id, true
}

// LeftClick picks the node under the pointer and focuses it. The click is
// ignored while the camera animates or when it hits nothing.
func (d *Dispatcher) LeftClick(x, y float32) (string, bool) {
	if d.cam.Animating() {
		d.logger.Debug("click ignored while animating")
		return "", false
	}
	n, ok := d.Pick(x, y)
	if !ok {
		return "", false
	}
	return n.Data.ID(), d.focus(n)
}

// ClickNode focuses a node by id as if it had been clicked
func (d *Dispatcher) ClickNode(id string) bool {
	if d.cam.Animating() {
		d.logger.Debug("click ignored while animating", zap.String("id", id))
		return false
	}
	n, ok := d.view.Node(id)
	if !ok || !n.Visible {
		d.logger.Debug("click on node not in scene", zap.String("id", id))
		return false
	}
	return d.focus(n)
}

func (d *Dispatcher) focus(n *scene.LOD) bool {
	id := n.Data.ID()
	if !d.cam.Focus(id) {
		return false
	}
	d.hl.Select(id)
	d.info(&n.Data.Node)
	if d.onSelect != nil {
		d.onSelect(id)
	}
	return true
}

// RightClick clears hover and selection and returns the camera to the
// restore point
func (d *Dispatcher) RightClick() {
	hadHover := d.hl.Hovered() != ""
	d.hl.Clear()
	d.cam.Restore()
	d.info(nil)
	if hadHover {
		d.hovered("")
	}
	if d.onSelect != nil {
		d.onSelect("")
	}
}

func (d *Dispatcher) info(n *domain.GraphNode) {
	if d.onInfo == nil {
		return
	}
	if n == nil {
		d.onInfo(nil)
		return
	}
	c := n.Clone()
	d.onInfo(&c)
}

func (d *Dispatcher) hovered(id string) {
	if d.onHover != nil {
		d.onHover(id)
	}
}
