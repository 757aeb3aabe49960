// Package config provides configuration management for ast3d.
//
// The config file carries server, database, logging, style and engine settings.
// Style settings are served to the engine through the StyleProvider interface
// rather than read from a global, so every component can be built with its own.
//
// Config file locations (priority order):
//  1. $AST3D_CONFIG
//  2. ./ast3d.yaml
//  3. $XDG_CONFIG_HOME/ast3d/config.yaml
//  4. ~/.config/ast3d/config.yaml
//  5. /etc/ast3d/config.yaml
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"ast3d/internal/scene"
)

// Load finds and loads the config file, or returns defaults if none found
func Load() (*Config, string, error) {
	path := FindConfigPath()

	if path == "" {
		// No config found - return defaults
		return DefaultConfig(), "", nil
	}

	return LoadFromPath(path)
}

// LoadFromPath loads config from a specific path. Keys missing from the file
// keep their default values.
func LoadFromPath(path string) (*Config, string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, path, fmt.Errorf("read config: %w", err)
	}

	cfg, err := Parse(data)
	if err != nil {
		return nil, path, err
	}
	return cfg, path, nil
}

// Parse decodes YAML over the defaults and validates the result
func Parse(data []byte) (*Config, error) {
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes config to the specified path
func (c *Config) Save(path string) error {
	if err := EnsureConfigDir(path); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	return os.WriteFile(path, data, 0644)
}

// Validate checks field ranges
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if _, ok := templates[c.Style.Template]; !ok {
		return fmt.Errorf("invalid config: %w: %s", ErrUnknownTemplate, c.Style.Template)
	}
	return nil
}

// DefaultConfig returns sensible defaults for a new installation
func DefaultConfig() *Config {
	return &Config{
		Version:  1,
		Server:   ServerConfig{Addr: ":3000"},
		Database: DatabaseConfig{Path: "./ast3d.db"},
		Log:      LogConfig{Level: "info"},
		Style:    DefaultStyleConfig(),
		Engine:   DefaultEngineConfig(),
	}
}

// DefaultStyleConfig returns the default template with stock link colors
func DefaultStyleConfig() StyleConfig {
	return StyleConfig{
		Template: DefaultTemplate,
		LinkColors: LinkColors{
			Normal:         0xAAAAAA,
			Dependency:     0x989898,
			Root:           0x282828,
			Hover:          0x00FF00,
			HoverSecondary: 0xFFA500,
			Selected:       0x00FF00,
			NormalOpacity:  0.5,
		},
		Highlight: HighlightConfig{
			Depth:               1,
			NonConnectedOpacity: 0.2,
		},
	}
}

// DefaultEngineConfig returns the stock engine tuning
func DefaultEngineConfig() EngineConfig {
	return EngineConfig{
		Seed:      1,
		FrameRate: 60,
		LODTiers: []LODTier{
			{Distance: 0, Detail: scene.DetailHigh, SegmentMultiplier: 0.5},
			{Distance: 50, Detail: scene.DetailMedium, SegmentMultiplier: 0.25},
			{Distance: 150, Detail: scene.DetailLow, SegmentMultiplier: 0.1},
		},
		Geometry: GeometryConfig{
			BaseSize:          2,
			PerChildGrowth:    0.5,
			SizeCap:           10,
			ReferenceSegments: 32,
			MinWidthSegments:  8,
			MinHeightSegments: 6,
			ReferenceDetail:   2,
			PolyhedronScale:   1.25,
		},
		Placement: PlacementConfig{
			SpawnBase:        112.5,
			SpawnMultiplier:  1.25,
			VerticalSpacing:  100,
			Jitter:           5,
			LiftBase:         5,
			LiftPerChild:     3,
			RootLiftPerChild: 1.5,
			LocalRadius:      40,
			RootTypes:        []string{"Program"},
		},
		Pool: PoolConfig{
			MaxFreePerType: 512,
			MaxFreeEdges:   4096,
		},
		Camera: CameraConfig{
			FOV:             30,
			Aspect:          1,
			Near:            0.1,
			Far:             5000,
			Position:        scene.Vec3(200, 200, 300),
			Margin:          1.5,
			FocusDuration:   Duration(1400 * time.Millisecond),
			RestoreDuration: Duration(time.Second),
			MinDistance:     10,
			MaxDistance:     4000,
		},
	}
}

// applyDefaults fills in values a file may have blanked out
func (c *Config) applyDefaults() {
	if c.Version == 0 {
		c.Version = 1
	}
	if c.Server.Addr == "" {
		c.Server.Addr = ":3000"
	}
	if c.Database.Path == "" {
		c.Database.Path = "./ast3d.db"
	}
	if c.Style.Template == "" {
		c.Style.Template = DefaultTemplate
	}
	if len(c.Engine.LODTiers) == 0 {
		c.Engine.LODTiers = DefaultEngineConfig().LODTiers
	}
	if c.Engine.FrameRate == 0 {
		c.Engine.FrameRate = 60
	}
}

// FrameInterval returns the period between frames
func (e EngineConfig) FrameInterval() time.Duration {
	return time.Second / time.Duration(e.FrameRate)
}
