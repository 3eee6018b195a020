package mapicon

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"
)

// Color is an RGBA color configured as a hex string: #RGB, #RGBA, #RRGGBB
// or #RRGGBBAA.
type Color struct {
	R, G, B, A uint8
}

func White() Color { return Color{255, 255, 255, 255} }
func Black() Color { return Color{0, 0, 0, 255} }

func (c Color) NRGBA() color.NRGBA {
	return color.NRGBA{R: c.R, G: c.G, B: c.B, A: c.A}
}

// ParseColor decodes a hex color string.
func ParseColor(s string) (Color, error) {
	hex, ok := strings.CutPrefix(s, "#")
	if !ok {
		return Color{}, fmt.Errorf("color %q missing # prefix", s)
	}
	switch len(hex) {
	case 3, 4:
		var doubled strings.Builder
		for _, r := range hex {
			doubled.WriteRune(r)
			doubled.WriteRune(r)
		}
		hex = doubled.String()
	case 6, 8:
	default:
		return Color{}, fmt.Errorf("color %q has invalid length %d", s, len(hex))
	}

	channel := func(i int) (uint8, error) {
		v, err := strconv.ParseUint(hex[i:i+2], 16, 8)
		return uint8(v), err
	}
	var out Color
	var err error
	if out.R, err = channel(0); err != nil {
		return Color{}, fmt.Errorf("color %q: %w", s, err)
	}
	if out.G, err = channel(2); err != nil {
		return Color{}, fmt.Errorf("color %q: %w", s, err)
	}
	if out.B, err = channel(4); err != nil {
		return Color{}, fmt.Errorf("color %q: %w", s, err)
	}
	out.A = 255
	if len(hex) == 8 {
		if out.A, err = channel(6); err != nil {
			return Color{}, fmt.Errorf("color %q: %w", s, err)
		}
	}
	return out, nil
}

func (c Color) String() string {
	return fmt.Sprintf("#%02X%02X%02X%02X", c.R, c.G, c.B, c.A)
}

func (c *Color) UnmarshalYAML(unmarshal func(any) error) error {
	var raw string
	if err := unmarshal(&raw); err != nil {
		return err
	}
	parsed, err := ParseColor(raw)
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

func (c Color) MarshalYAML() (any, error) {
	return c.String(), nil
}
