// Package ansi renders image buffers as truecolor half-block art for
// terminal preview. One character cell shows two vertically stacked
// pixels via the upper-half-block glyph.
package ansi

import (
	"image"
	"strconv"
	"strings"
)

const (
	esc   = "\x1b"
	csi   = esc + "["
	reset = csi + "0m"
)

// ClearScreen clears the entire screen.
func ClearScreen() string { return csi + "2J" }

// MoveTo positions the cursor at row, col (1-based).
func MoveTo(row, col int) string {
	return csi + strconv.Itoa(row) + ";" + strconv.Itoa(col) + "H"
}

// HideCursor hides the terminal cursor.
func HideCursor() string { return csi + "?25l" }

// ShowCursor shows the terminal cursor.
func ShowCursor() string { return csi + "?25h" }

// EnableAltScreen switches to the alternate screen buffer.
func EnableAltScreen() string { return csi + "?1049h" }

// DisableAltScreen switches back from the alternate screen buffer.
func DisableAltScreen() string { return csi + "?1049l" }

// Checkerboard greys for transparent pixels, alternating per cell.
var checker = [2][3]uint8{{40, 40, 48}, {56, 56, 66}}

// RenderImage draws img as half-block art, at most maxW columns wide.
// Transparent pixels show a checkerboard so alpha edges are visible.
// Uses a combined SGR per cell to avoid state leakage between cells.
func RenderImage(img image.Image, maxW int) string {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if maxW > 0 && w > maxW {
		w = maxW
	}

	var sb strings.Builder
	for y := 0; y < h; y += 2 {
		for x := 0; x < w; x++ {
			tr, tg, tb := pixelAt(img, bounds.Min.X+x, bounds.Min.Y+y, x, y)
			br, bg, bb := pixelAt(img, bounds.Min.X+x, bounds.Min.Y+y+1, x, y+1)

			sb.WriteString("\x1b[0;38;2;")
			sb.WriteString(strconv.Itoa(int(tr)))
			sb.WriteByte(';')
			sb.WriteString(strconv.Itoa(int(tg)))
			sb.WriteByte(';')
			sb.WriteString(strconv.Itoa(int(tb)))
			sb.WriteString(";48;2;")
			sb.WriteString(strconv.Itoa(int(br)))
			sb.WriteByte(';')
			sb.WriteString(strconv.Itoa(int(bg)))
			sb.WriteByte(';')
			sb.WriteString(strconv.Itoa(int(bb)))
			sb.WriteByte('m')
			sb.WriteRune('▀')
		}
		sb.WriteString(reset)
		sb.WriteByte('\n')
	}
	return sb.String()
}

// pixelAt samples a pixel, substituting the checkerboard for
// transparent or out-of-bounds positions.
func pixelAt(img image.Image, px, py, cx, cy int) (uint8, uint8, uint8) {
	bounds := img.Bounds()
	if py >= bounds.Max.Y {
		c := checker[(cx/4+cy/4)%2]
		return c[0], c[1], c[2]
	}
	r, g, b, a := img.At(px, py).RGBA()
	if a < 0x8000 {
		c := checker[(cx/4+cy/4)%2]
		return c[0], c[1], c[2]
	}
	return uint8(r >> 8), uint8(g >> 8), uint8(b >> 8)
}
