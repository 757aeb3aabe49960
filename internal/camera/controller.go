// Package camera frames a focused node's neighborhood with an animated camera move.
//
// The controller is Idle or Animating. A focus request while Animating is
// rejected, not queued. The first focus records the pose it started from as
// the restore point; Restore animates back to it.
package camera

import (
	"time"

	"cogentcore.org/core/math32"
	"go.uber.org/zap"

	"ast3d/internal/config"
	"ast3d/internal/logging"
	"ast3d/internal/metrics"
	"ast3d/internal/scene"
	"ast3d/internal/tween"
)

// State is the animation state of the controller
type State int

const (
	StateIdle State = iota
	StateAnimating
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateAnimating:
		return "animating"
	}
	return "unknown"
}

// Neighborhood resolves the nodes around a focus node
type Neighborhood interface {
	Node(id string) (*scene.LOD, bool)
	// Children returns the nodes reached over parent-child edges from id
	Children(id string) []*scene.LOD
	// Connected returns the nodes sharing any edge with id
	Connected(id string) []*scene.LOD
}

// Scope selects which neighbors a focus frames
type Scope int

const (
	// ScopeChildren frames the node and its parent-child children
	ScopeChildren Scope = iota
	// ScopeConnected frames the node and every directly connected node
	ScopeConnected
)

// Controller drives the camera between overview and focus poses
type Controller struct {
	cam      *scene.Camera
	nodes    Neighborhood
	animator *tween.Animator
	cfg      config.CameraConfig
	logger   *zap.Logger

	state    State
	kind     string
	current  tween.Handle
	restore  scene.Pose
	hasPoint bool
	onState  func(State)
}

// NewController creates an idle controller. The camera is moved to the
// configured initial pose.
func NewController(cam *scene.Camera, nodes Neighborhood, animator *tween.Animator, cfg config.CameraConfig, logger *zap.Logger) *Controller {
	cam.SetPose(scene.Pose{Position: cfg.Position, Target: cfg.Target})
	return &Controller{
		cam:      cam,
		nodes:    nodes,
		animator: animator,
		cfg:      cfg,
		logger:   logging.OrNop(logger).Named("camera"),
	}
}

// OnStateChange sets a callback run on every Idle/Animating transition
func (c *Controller) OnStateChange(fn func(State)) {
	c.onState = fn
}

// State returns the current animation state
func (c *Controller) State() State {
	return c.state
}

// Animating reports whether a camera tween is in flight
func (c *Controller) Animating() bool {
	return c.state == StateAnimating
}

// RestorePoint returns the recorded overview pose
func (c *Controller) RestorePoint() (scene.Pose, bool) {
	return c.restore, c.hasPoint
}

// SnapshotRestorePoint records the current camera pose as the restore point,
// replacing any earlier one
func (c *Controller) SnapshotRestorePoint() {
	c.restore = c.cam.Pose()
	c.hasPoint = true
}

// Focus animates the camera to frame id and its children. It returns false
// when the request is rejected: an animation is running or id is not live.
func (c *Controller) Focus(id string) bool {
	return c.FocusScope(id, ScopeChildren)
}

// FocusHover frames id and every node connected to it when hover focus is
// enabled. It returns false when disabled or rejected like Focus.
func (c *Controller) FocusHover(id string) bool {
	if !c.cfg.HoverFocus {
		return false
	}
	return c.FocusScope(id, ScopeConnected)
}

// FocusScope is Focus with an explicit neighborhood
func (c *Controller) FocusScope(id string, scope Scope) bool {
	if c.state == StateAnimating {
		c.logger.Debug("focus rejected while animating", zap.String("id", id))
		metrics.CameraAnimationsTotal.WithLabelValues("focus", "rejected").Inc()
		return false
	}
	n, ok := c.nodes.Node(id)
	if !ok {
		c.logger.Warn("focus on unknown node", zap.String("id", id))
		return false
	}

	if !c.hasPoint {
		c.SnapshotRestorePoint()
	}

	group := []*scene.LOD{n}
	switch scope {
	case ScopeConnected:
		group = append(group, c.nodes.Connected(id)...)
	default:
		group = append(group, c.nodes.Children(id)...)
	}
	target := c.FramingPose(scene.NodeBounds(group))

	c.animate("focus", target, c.cfg.FocusDuration.Duration())
	c.logger.Debug("focus",
		zap.String("id", id),
		zap.Int("framed", len(group)),
		zap.Any("target", target.Target),
	)
	return true
}

// Restore cancels any camera animation and tweens back to the restore point.
// It returns false when no restore point has been recorded.
func (c *Controller) Restore() bool {
	if !c.hasPoint {
		return false
	}
	if c.state == StateAnimating {
		c.animator.Cancel(c.current)
		metrics.CameraAnimationsTotal.WithLabelValues(c.kind, "cancelled").Inc()
	}
	c.animate("restore", c.restore, c.cfg.RestoreDuration.Duration())
	return true
}

// FramingPose returns the pose that fits box in view with the configured
// margin, looking at the box center from above and to the side
func (c *Controller) FramingPose(box scene.Box3) scene.Pose {
	center := scene.BoxCenter(box)
	maxDim := scene.BoxExtent(box)
	d := math32.Abs(maxDim/2/math32.Tan(c.cam.FOVRadians()/2)) * c.cfg.Margin
	if c.cfg.MinDistance > 0 {
		d = math32.Max(d, c.cfg.MinDistance)
	}
	if c.cfg.MaxDistance > 0 {
		d = math32.Min(d, c.cfg.MaxDistance)
	}
	return scene.Pose{
		Position: center.Add(scene.Vec3(d, d/2, d)),
		Target:   center,
	}
}

func (c *Controller) animate(kind string, to scene.Pose, dur time.Duration) {
	c.kind = kind
	c.setState(StateAnimating)
	metrics.CameraAnimationsTotal.WithLabelValues(kind, "started").Inc()

	var h tween.Handle
	h = tween.Start(c.animator, tween.Task[scene.Pose]{
		From:     c.cam.Pose(),
		To:       to,
		Duration: dur,
		Ease:     tween.OutQuad,
		Lerp:     scene.Pose.Lerp,
		OnUpdate: c.cam.SetPose,
		OnComplete: func() {
			if c.current != h {
				return
			}
			c.current = tween.Handle{}
			metrics.CameraAnimationsTotal.WithLabelValues(kind, "completed").Inc()
			c.setState(StateIdle)
		},
	})
	c.current = h
}

func (c *Controller) setState(s State) {
	if c.state == s {
		return
	}
	c.state = s
	if c.onState != nil {
		c.onState(s)
	}
}
