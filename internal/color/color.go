// Package color parses and formats the color values carried by operation
// properties. Components are non-linear sRGB in the 0..1 range with straight
// (non-premultiplied) alpha.
package color

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
	"golang.org/x/image/colornames"
)

// ErrInvalidColor is returned for strings Parse does not understand.
var ErrInvalidColor = errors.New("invalid color")

// Color is an sRGB color with alpha.
type Color struct {
	R, G, B, A float64
}

// Parse accepts CSS/SVG color names, `#rgb`, `#rrggbb`, `#rrggbbaa`,
// `rgb(r, g, b)` and `rgba(r, g, b, a)` with components in 0..1.
func Parse(s string) (Color, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Color{}, fmt.Errorf("%w: empty string", ErrInvalidColor)
	}

	lower := strings.ToLower(s)
	switch {
	case strings.HasPrefix(lower, "#"):
		return parseHex(lower)
	case strings.HasPrefix(lower, "rgba(") || strings.HasPrefix(lower, "rgb("):
		return parseFunctional(lower)
	}

	if lower == "transparent" {
		return Color{}, nil
	}
	named, ok := colornames.Map[lower]
	if !ok {
		return Color{}, fmt.Errorf("%w: unknown color name %q", ErrInvalidColor, s)
	}
	return Color{
		R: float64(named.R) / 255,
		G: float64(named.G) / 255,
		B: float64(named.B) / 255,
		A: float64(named.A) / 255,
	}, nil
}

func parseHex(s string) (Color, error) {
	alpha := 1.0
	if len(s) == 9 {
		a, err := strconv.ParseUint(s[7:], 16, 8)
		if err != nil {
			return Color{}, fmt.Errorf("%w: bad alpha in %q", ErrInvalidColor, s)
		}
		alpha = float64(a) / 255
		s = s[:7]
	}
	c, err := colorful.Hex(s)
	if err != nil {
		return Color{}, fmt.Errorf("%w: %v", ErrInvalidColor, err)
	}
	return Color{R: c.R, G: c.G, B: c.B, A: alpha}, nil
}

func parseFunctional(s string) (Color, error) {
	open := strings.IndexByte(s, '(')
	if !strings.HasSuffix(s, ")") {
		return Color{}, fmt.Errorf("%w: missing closing parenthesis in %q", ErrInvalidColor, s)
	}
	fn := s[:open]
	parts := strings.Split(s[open+1:len(s)-1], ",")

	want := 3
	if fn == "rgba" {
		want = 4
	}
	if len(parts) != want {
		return Color{}, fmt.Errorf("%w: %s() takes %d components, got %d", ErrInvalidColor, fn, want, len(parts))
	}

	comps := []float64{0, 0, 0, 1}
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return Color{}, fmt.Errorf("%w: component %d of %q: %v", ErrInvalidColor, i, s, err)
		}
		if v < 0 || v > 1 {
			return Color{}, fmt.Errorf("%w: component %d of %q outside 0..1", ErrInvalidColor, i, s)
		}
		comps[i] = v
	}
	return Color{R: comps[0], G: comps[1], B: comps[2], A: comps[3]}, nil
}

// String returns the canonical `rgba(r, g, b, a)` form, which Parse accepts.
func (c Color) String() string {
	return fmt.Sprintf("rgba(%s, %s, %s, %s)", formatComponent(c.R), formatComponent(c.G), formatComponent(c.B), formatComponent(c.A))
}

func formatComponent(v float64) string {
	return strconv.FormatFloat(v, 'f', 4, 64)
}

// Hex returns the `#rrggbb` form, dropping alpha.
func (c Color) Hex() string {
	return colorful.Color{R: c.R, G: c.G, B: c.B}.Clamped().Hex()
}
