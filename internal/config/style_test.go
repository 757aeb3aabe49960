package config

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ast3d/internal/scene"
)

func TestStyleLookup(t *testing.T) {
	cfg := DefaultStyleConfig()
	cfg.NodeTypes = map[string]NodeStyle{
		"Program":   {Shape: scene.ShapeBox, Color: 0x123456},
		"ColorOnly": {Color: 0xABCDEF},
	}
	s, err := NewStyle(cfg)
	require.NoError(t, err)

	tests := []struct {
		name     string
		nodeType string
		want     NodeStyle
		ok       bool
	}{
		{"override wins", "Program", NodeStyle{scene.ShapeBox, 0x123456}, true},
		{"template", "ClassDeclaration", NodeStyle{scene.ShapeBox, 0x9C27B0}, true},
		{"partial override gets fallback shape", "ColorOnly", NodeStyle{scene.ShapeSphere, 0xABCDEF}, true},
		{"unknown type", "Mystery", NodeStyle{scene.ShapeSphere, scene.NeutralGray}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := s.NodeStyle(tt.nodeType)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.ok, ok)
		})
	}
}

func TestApplyTemplate(t *testing.T) {
	s, err := NewStyle(DefaultStyleConfig())
	require.NoError(t, err)
	require.NoError(t, s.SetNodeStyle("Program", NodeStyle{Shape: scene.ShapeCube, Color: 1}))

	require.NoError(t, s.ApplyTemplate("monochrome"))
	assert.Equal(t, "monochrome", s.Template())
	got, ok := s.NodeStyle("Program")
	assert.True(t, ok)
	assert.Equal(t, scene.Color(0xFFFFFF), got.Color, "overrides dropped with the old template")

	err = s.ApplyTemplate("neon")
	assert.True(t, errors.Is(err, ErrUnknownTemplate))
	assert.Equal(t, "monochrome", s.Template())
}

func TestSetNodeStyleRejectsUnknownShape(t *testing.T) {
	s, err := NewStyle(DefaultStyleConfig())
	require.NoError(t, err)
	assert.Error(t, s.SetNodeStyle("X", NodeStyle{Shape: "torus"}))
}

func TestStyleReset(t *testing.T) {
	s, err := NewStyle(DefaultStyleConfig())
	require.NoError(t, err)
	require.NoError(t, s.SetNodeStyle("Program", NodeStyle{Color: 0x123456}))

	cfg := DefaultStyleConfig()
	cfg.Template = "pastel"
	cfg.Highlight.Depth = 3
	require.NoError(t, s.Reset(cfg))
	assert.Equal(t, "pastel", s.Template())
	assert.Equal(t, 3, s.Highlight().Depth)
	assert.NotEqual(t, 0x123456, int(s.Snapshot().NodeTypes["Program"].Color))

	bad := DefaultStyleConfig()
	bad.NodeTypes = map[string]NodeStyle{"X": {Shape: "torus"}}
	assert.Error(t, s.Reset(bad))
	bad = DefaultStyleConfig()
	bad.Template = "neon"
	assert.ErrorIs(t, s.Reset(bad), ErrUnknownTemplate)
	assert.Equal(t, "pastel", s.Template())
}

func TestHighlightSetters(t *testing.T) {
	s, err := NewStyle(DefaultStyleConfig())
	require.NoError(t, err)

	s.SetHighlightDepth(-3)
	assert.Equal(t, 0, s.Highlight().Depth)
	s.SetHighlightDepth(4)
	assert.Equal(t, 4, s.Highlight().Depth)

	s.SetNonConnectedOpacity(2)
	assert.Equal(t, float32(1), s.Highlight().NonConnectedOpacity)
	s.SetNonConnectedOpacity(0.3)
	assert.Equal(t, float32(0.3), s.Highlight().NonConnectedOpacity)
}

func TestTemplateNames(t *testing.T) {
	assert.Equal(t, []string{"default", "monochrome", "pastel"}, TemplateNames())

	tpl, err := LookupTemplate("default")
	require.NoError(t, err)
	tpl.NodeTypes["Program"] = NodeStyle{}
	again, _ := LookupTemplate("default")
	assert.NotEqual(t, NodeStyle{}, again.NodeTypes["Program"], "lookup returns a copy")
}

func TestStyleSnapshot(t *testing.T) {
	s, err := NewStyle(DefaultStyleConfig())
	require.NoError(t, err)
	require.NoError(t, s.SetNodeStyle("Custom", NodeStyle{Color: 0x010203}))

	snap := s.Snapshot()
	assert.Equal(t, DefaultTemplate, snap.Template)
	assert.Equal(t, NodeStyle{scene.ShapeSphere, 0x010203}, snap.NodeTypes["Custom"])
	assert.Contains(t, snap.NodeTypes, "Program")
}
