package config

import (
	"time"

	"ast3d/internal/scene"
)

// Config is the root configuration structure
type Config struct {
	Version  int            `yaml:"version"`
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Log      LogConfig      `yaml:"log"`
	Style    StyleConfig    `yaml:"style"`
	Engine   EngineConfig   `yaml:"engine"`
}

// ServerConfig holds HTTP settings
type ServerConfig struct {
	Addr string `yaml:"addr" validate:"required"`
}

// DatabaseConfig holds snapshot store settings
type DatabaseConfig struct {
	Path string `yaml:"path" validate:"required"`
}

// LogConfig selects the logger flavor
type LogConfig struct {
	Level       string `yaml:"level" validate:"omitempty,oneof=debug info warn error"`
	Development bool   `yaml:"development"`
}

// NodeStyle is the appearance of one node type
type NodeStyle struct {
	Shape scene.Shape `yaml:"shape" json:"shape"`
	Color scene.Color `yaml:"color" json:"color"`
}

// LinkColors are the edge colors per interaction state
type LinkColors struct {
	Normal         scene.Color `yaml:"normal" json:"normal"`
	Dependency     scene.Color `yaml:"dependency" json:"dependency"`
	// Root colors edges leaving the program root
	Root           scene.Color `yaml:"root" json:"root"`
	Hover          scene.Color `yaml:"hover" json:"hover"`
	HoverSecondary scene.Color `yaml:"hover_secondary" json:"hover_secondary"`
	Selected       scene.Color `yaml:"selected" json:"selected"`
	NormalOpacity  float32     `yaml:"normal_opacity" json:"normal_opacity" validate:"gte=0,lte=1"`
}

// HighlightConfig holds the highlight engine scalars
type HighlightConfig struct {
	Depth               int     `yaml:"depth" json:"depth" validate:"gte=0,lte=64"`
	NonConnectedOpacity float32 `yaml:"non_connected_opacity" json:"non_connected_opacity" validate:"gte=0,lte=1"`
}

// StyleConfig is the style section: a template plus overrides
type StyleConfig struct {
	Template   string               `yaml:"template" json:"template"`
	NodeTypes  map[string]NodeStyle `yaml:"node_types,omitempty" json:"node_types,omitempty"`
	LinkColors LinkColors           `yaml:"link_colors" json:"link_colors"`
	Highlight  HighlightConfig      `yaml:"highlight" json:"highlight"`
}

// EngineConfig tunes the scene engine
type EngineConfig struct {
	Seed      uint64          `yaml:"seed"`
	FrameRate int             `yaml:"frame_rate" validate:"gte=1,lte=240"`
	LODTiers  []LODTier       `yaml:"lod_tiers" validate:"min=1,dive"`
	Geometry  GeometryConfig  `yaml:"geometry"`
	Placement PlacementConfig `yaml:"placement"`
	Pool      PoolConfig      `yaml:"pool"`
	Camera    CameraConfig    `yaml:"camera"`
}

// LODTier is one detail level: used from Distance outward, with geometry
// complexity scaled by SegmentMultiplier
type LODTier struct {
	Distance          float32      `yaml:"distance" validate:"gte=0"`
	Detail            scene.Detail `yaml:"detail" validate:"required"`
	SegmentMultiplier float32      `yaml:"segment_multiplier" validate:"gt=0,lte=1"`
}

// GeometryConfig sizes node geometry
type GeometryConfig struct {
	BaseSize          float32 `yaml:"base_size" validate:"gt=0"`
	PerChildGrowth    float32 `yaml:"per_child_growth" validate:"gte=0"`
	SizeCap           float32 `yaml:"size_cap" validate:"gtefield=BaseSize"`
	ReferenceSegments int     `yaml:"reference_segments" validate:"gte=1"`
	MinWidthSegments  int     `yaml:"min_width_segments" validate:"gte=3"`
	MinHeightSegments int     `yaml:"min_height_segments" validate:"gte=2"`
	ReferenceDetail   int     `yaml:"reference_detail" validate:"gte=0"`
	PolyhedronScale   float32 `yaml:"polyhedron_scale" validate:"gt=0"`
}

// PlacementConfig controls randomized radial placement
type PlacementConfig struct {
	SpawnBase        float32  `yaml:"spawn_base" validate:"gt=0"`
	SpawnMultiplier  float32  `yaml:"spawn_multiplier" validate:"gte=1"`
	VerticalSpacing  float32  `yaml:"vertical_spacing" validate:"gte=0"`
	Jitter           float32  `yaml:"jitter" validate:"gte=0"`
	LiftBase         float32  `yaml:"lift_base" validate:"gte=0"`
	LiftPerChild     float32  `yaml:"lift_per_child" validate:"gte=0"`
	RootLiftPerChild float32  `yaml:"root_lift_per_child" validate:"gte=0"`
	LocalRadius      float32  `yaml:"local_radius" validate:"gt=0"`
	RootTypes        []string `yaml:"root_types"`
}

// PoolConfig bounds the render object pool's free lists
type PoolConfig struct {
	MaxFreePerType int `yaml:"max_free_per_type" validate:"gte=0"`
	MaxFreeEdges   int `yaml:"max_free_edges" validate:"gte=0"`
}

// CameraConfig sets the camera and the framing animation
type CameraConfig struct {
	FOV             float32       `yaml:"fov" validate:"gt=0,lt=180"`
	Aspect          float32       `yaml:"aspect" validate:"gt=0"`
	Near            float32       `yaml:"near" validate:"gt=0"`
	Far             float32       `yaml:"far" validate:"gtfield=Near"`
	Position        scene.Vector3 `yaml:"position"`
	Target          scene.Vector3 `yaml:"target"`
	Margin          float32       `yaml:"margin" validate:"gte=1"`
	FocusDuration   Duration      `yaml:"focus_duration"`
	RestoreDuration Duration      `yaml:"restore_duration"`
	MinDistance     float32       `yaml:"min_distance" validate:"gte=0"`
	MaxDistance     float32       `yaml:"max_distance" validate:"gtfield=MinDistance"`
	// HoverFocus frames a hovered node's connected neighborhood while nothing is selected
	HoverFocus bool `yaml:"hover_focus"`
}

// Duration wraps time.Duration for YAML unmarshaling
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler
func (d *Duration) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	*d = Duration(parsed)
	return nil
}

// MarshalYAML implements yaml.Marshaler
func (d Duration) MarshalYAML() (interface{}, error) {
	return time.Duration(d).String(), nil
}

// Duration returns the underlying time.Duration
func (d Duration) Duration() time.Duration {
	return time.Duration(d)
}
