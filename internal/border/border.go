// Package border renders window borders. It is presentation only: it
// consumes a container's resolved outer and inner geometry and produces
// pixel writes into an RGBA buffer, with no knowledge of the tree.
package border

import (
	"fmt"
	"image"
	"image/color"

	"github.com/alderwm/alder/internal/surface"
)

// Color is an opaque RGB border color.
type Color struct {
	R, G, B uint8
}

// ParseColor parses "#rrggbb" (or "rrggbb") into a Color.
func ParseColor(s string) (Color, error) {
	if len(s) > 0 && s[0] == '#' {
		s = s[1:]
	}
	if len(s) != 6 {
		return Color{}, fmt.Errorf("invalid color %q: want rrggbb", s)
	}
	var c Color
	if _, err := fmt.Sscanf(s, "%02x%02x%02x", &c.R, &c.G, &c.B); err != nil {
		return Color{}, fmt.Errorf("invalid color %q: %w", s, err)
	}
	return c, nil
}

func (c Color) rgba() color.RGBA {
	return color.RGBA{R: c.R, G: c.G, B: c.B, A: 0xff}
}

// Style describes how a border is drawn.
type Style struct {
	Thickness uint32
	Color     Color
}

// Render draws the border between outer and inner into a fresh RGBA
// buffer sized to outer. Coordinates inside the buffer are relative to
// outer's origin. Every pixel of outer not covered by inner is border.
func Render(outer, inner surface.Geometry, style Style) *image.RGBA {
	buf := image.NewRGBA(image.Rect(0, 0, int(outer.Width), int(outer.Height)))
	Draw(buf, outer, inner, style)
	return buf
}

// Draw writes the four border edges into buf, which must be sized to
// outer. The edge math mirrors the per-side renderers: top runs from
// the outer top edge down to the view, bottom from the view to the
// outer bottom edge, left and right fill the remaining flanks.
func Draw(buf *image.RGBA, outer, inner surface.Geometry, style Style) {
	// Inner rectangle relative to the outer origin, clamped to outer.
	ix := int(inner.X - outer.X)
	iy := int(inner.Y - outer.Y)
	iw := int(inner.Width)
	ih := int(inner.Height)
	ow := int(outer.Width)
	oh := int(outer.Height)

	if ix < 0 {
		iw += ix
		ix = 0
	}
	if iy < 0 {
		ih += iy
		iy = 0
	}
	if ix+iw > ow {
		iw = ow - ix
	}
	if iy+ih > oh {
		ih = oh - iy
	}
	if iw < 0 {
		iw = 0
	}
	if ih < 0 {
		ih = 0
	}

	col := style.Color.rgba()
	fillRect(buf, 0, 0, ow, iy, col)              // top
	fillRect(buf, 0, iy+ih, ow, oh-(iy+ih), col)  // bottom
	fillRect(buf, 0, iy, ix, ih, col)             // left
	fillRect(buf, ix+iw, iy, ow-(ix+iw), ih, col) // right
}

func fillRect(buf *image.RGBA, x, y, w, h int, col color.RGBA) {
	if w <= 0 || h <= 0 {
		return
	}
	for row := y; row < y+h; row++ {
		for px := x; px < x+w; px++ {
			buf.SetRGBA(px, row, col)
		}
	}
}
