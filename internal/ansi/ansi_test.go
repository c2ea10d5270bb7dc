package ansi

import (
	"image"
	"image/color"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRenderImageDimensions(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 4, 6))
	out := RenderImage(img, 0)

	// Two pixel rows per text line.
	assert.Equal(t, 3, strings.Count(out, "\n"))
	assert.Equal(t, 12, strings.Count(out, "▀"))
}

func TestRenderImageColors(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 1, 2))
	img.SetNRGBA(0, 0, color.NRGBA{R: 255, A: 255})
	img.SetNRGBA(0, 1, color.NRGBA{B: 255, A: 255})

	out := RenderImage(img, 0)
	assert.Contains(t, out, "38;2;255;0;0")
	assert.Contains(t, out, "48;2;0;0;255")
}

func TestRenderImageTransparencyChecker(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 1, 2)) // fully transparent
	out := RenderImage(img, 0)
	assert.Contains(t, out, "38;2;40;40;48")
}

func TestRenderImageRespectsMaxWidth(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 10, 2))
	out := RenderImage(img, 4)
	assert.Equal(t, 4, strings.Count(out, "▀"))
}

func TestRenderOddHeightPadsWithChecker(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 2, 3))
	for y := 0; y < 3; y++ {
		for x := 0; x < 2; x++ {
			img.SetNRGBA(x, y, color.NRGBA{G: 255, A: 255})
		}
	}
	out := RenderImage(img, 0)
	// Last line's bottom half falls outside the image.
	assert.Equal(t, 2, strings.Count(out, "\n"))
	assert.Contains(t, out, "48;2;40;40;48")
}
