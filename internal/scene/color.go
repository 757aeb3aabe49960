package scene

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// Color is a 24-bit RGB color stored as 0xRRGGBB
type Color uint32

// Common colors
const (
	Black       Color = 0x000000
	White       Color = 0xFFFFFF
	NeutralGray Color = 0x808080
)

// ParseColor accepts "#rrggbb", "rrggbb", "0xrrggbb" or a decimal integer
func ParseColor(s string) (Color, error) {
	s = strings.TrimSpace(s)
	switch {
	case strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X"):
		v, err := strconv.ParseUint(s[2:], 16, 32)
		if err != nil {
			return 0, fmt.Errorf("parse color %q: %w", s, err)
		}
		return Color(v & 0xFFFFFF), nil
	case strings.HasPrefix(s, "#"):
		c, err := colorful.Hex(s)
		if err != nil {
			return 0, fmt.Errorf("parse color %q: %w", s, err)
		}
		return FromColorful(c), nil
	case len(s) == 6:
		if c, err := colorful.Hex("#" + s); err == nil {
			return FromColorful(c), nil
		}
	}
	v, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("parse color %q: %w", s, err)
	}
	return Color(v & 0xFFFFFF), nil
}

// FromColorful converts a colorful.Color, clamping to the RGB gamut
func FromColorful(c colorful.Color) Color {
	r, g, b := c.Clamped().RGB255()
	return Color(uint32(r)<<16 | uint32(g)<<8 | uint32(b))
}

// Colorful returns the color as a colorful.Color
func (c Color) Colorful() colorful.Color {
	return colorful.Color{
		R: float64((c>>16)&0xFF) / 255,
		G: float64((c>>8)&0xFF) / 255,
		B: float64(c&0xFF) / 255,
	}
}

// Lerp blends linearly in RGB from c to o by t in [0,1]
func (c Color) Lerp(o Color, t float64) Color {
	return FromColorful(c.Colorful().BlendRgb(o.Colorful(), t))
}

// Scale multiplies each channel by k
func (c Color) Scale(k float64) Color {
	cc := c.Colorful()
	return FromColorful(colorful.Color{R: cc.R * k, G: cc.G * k, B: cc.B * k})
}

// Hex returns the "#rrggbb" form
func (c Color) Hex() string {
	return fmt.Sprintf("#%06x", uint32(c)&0xFFFFFF)
}

func (c Color) String() string {
	return c.Hex()
}

// MarshalText implements encoding.TextMarshaler
func (c Color) MarshalText() ([]byte, error) {
	return []byte(c.Hex()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (c *Color) UnmarshalText(text []byte) error {
	parsed, err := ParseColor(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// UnmarshalYAML accepts both quoted strings and bare integers
func (c *Color) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var s string
	if err := unmarshal(&s); err == nil {
		return c.UnmarshalText([]byte(s))
	}
	var n uint32
	if err := unmarshal(&n); err != nil {
		return err
	}
	*c = Color(n & 0xFFFFFF)
	return nil
}

// MarshalYAML implements yaml.Marshaler
func (c Color) MarshalYAML() (interface{}, error) {
	return c.Hex(), nil
}
