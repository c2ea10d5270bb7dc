package slicer

import (
	"image"
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"spriteforge/internal/compose"
)

// testRaster builds a sheet whose every pixel encodes its row in the
// red channel, so tests can tell which source row a frame came from.
func testRaster(frameW, frameH, rows, cols int, facings []string) *compose.Raster {
	img := image.NewNRGBA(image.Rect(0, 0, cols*frameW, rows*frameH))
	for y := 0; y < rows*frameH; y++ {
		for x := 0; x < cols*frameW; x++ {
			img.SetNRGBA(x, y, color.NRGBA{R: uint8(y / frameH), A: 255})
		}
	}
	return &compose.Raster{
		Pix:  img,
		Grid: compose.Grid{FrameW: frameW, FrameH: frameH, Rows: rows, Cols: cols, RowFacings: facings},
	}
}

func rowOf(f Frame) int {
	return int(f.Image.NRGBAAt(0, 0).R)
}

func TestSliceFrameCount(t *testing.T) {
	s := NewSlicer(nil)
	r := testRaster(2, 2, 4, 3, nil)

	frames, manifest, err := s.Slice(r, "walk", Options{})
	require.NoError(t, err)
	assert.Len(t, frames, 12)
	assert.Equal(t, 12, manifest.TotalFrames())
	assert.Equal(t, [2]int{2, 2}, manifest.FrameSize)
	assert.Equal(t, "walk", manifest.Animation)
	assert.Equal(t, 8, manifest.FPS)
}

// Unlabeled multi-row sheets take facings from the row-index table and
// are already in canonical order.
func TestSliceDefaultFacingAssignment(t *testing.T) {
	s := NewSlicer(nil)
	r := testRaster(2, 2, 4, 2, nil)

	_, manifest, err := s.Slice(r, "walk", Options{})
	require.NoError(t, err)
	assert.Equal(t, []string{"back", "left", "front", "right"}, manifest.Orientations)
}

// Canonicalization law: rows labeled with the full cycle in any order
// come out as back, left, front, right.
func TestSliceCanonicalizesRowOrder(t *testing.T) {
	s := NewSlicer(nil)
	r := testRaster(2, 2, 4, 2, []string{"front", "back", "right", "left"})

	frames, manifest, err := s.Slice(r, "walk", Options{})
	require.NoError(t, err)
	assert.Equal(t, []string{"back", "left", "front", "right"}, manifest.Orientations)

	// The first output frames come from source row 1 ("back").
	assert.Equal(t, "back", frames[0].Facing)
	assert.Equal(t, 1, rowOf(frames[0]))
	// Then row 3 ("left"), row 0 ("front"), row 2 ("right").
	assert.Equal(t, 3, rowOf(frames[2]))
	assert.Equal(t, 0, rowOf(frames[4]))
	assert.Equal(t, 2, rowOf(frames[6]))
}

func TestSliceExtraRowsKeepOriginalOrder(t *testing.T) {
	s := NewSlicer(nil)
	r := testRaster(2, 2, 6, 1, []string{"death", "front", "back", "right", "left", "cast"})

	frames, manifest, err := s.Slice(r, "walk", Options{})
	require.NoError(t, err)
	assert.Equal(t, []string{"back", "left", "front", "right", "death", "cast"}, manifest.Orientations)
	// Extra rows trail in original order.
	assert.Equal(t, "death", frames[4].Facing)
	assert.Equal(t, 0, rowOf(frames[4]))
	assert.Equal(t, "cast", frames[5].Facing)
	assert.Equal(t, 5, rowOf(frames[5]))
}

func TestSliceIncompleteCycleKeepsOriginalOrder(t *testing.T) {
	s := NewSlicer(nil)
	r := testRaster(2, 2, 3, 1, []string{"front", "back", "left"})

	_, manifest, err := s.Slice(r, "walk", Options{})
	require.NoError(t, err)
	assert.Equal(t, []string{"front", "back", "left"}, manifest.Orientations)
}

func TestSliceSingleUnlabeledRowIsFront(t *testing.T) {
	s := NewSlicer(nil)
	r := testRaster(4, 4, 1, 6, nil)

	frames, manifest, err := s.Slice(r, "idle", Options{})
	require.NoError(t, err)
	assert.Equal(t, []string{"front"}, manifest.Orientations)
	assert.Len(t, frames, 6)
	assert.Equal(t, []string{
		"frame_000.png", "frame_001.png", "frame_002.png",
		"frame_003.png", "frame_004.png", "frame_005.png",
	}, manifest.Frames["front"])
}

func TestSliceIndivisibleRasterIsFatal(t *testing.T) {
	s := NewSlicer(nil)
	r := testRaster(2, 2, 2, 2, nil)
	r.Grid.FrameW = 3 // 4 % 3 != 0

	_, _, err := s.Slice(r, "walk", Options{})
	var gerr *compose.GeometryError
	require.ErrorAs(t, err, &gerr)
	assert.Contains(t, gerr.Error(), "4x4")
	assert.Contains(t, gerr.Error(), "3x2")
}

func TestSliceWritesFramesAndManifest(t *testing.T) {
	s := NewSlicer(nil)
	r := testRaster(2, 2, 4, 2, nil)
	outDir := filepath.Join(t.TempDir(), "out", "walk")

	_, manifest, err := s.Slice(r, "walk", DefaultOptions(outDir))
	require.NoError(t, err)

	for _, facing := range manifest.Orientations {
		for _, name := range manifest.Frames[facing] {
			_, err := os.Stat(filepath.Join(outDir, facing, name))
			assert.NoError(t, err, "%s/%s missing", facing, name)
		}
	}

	// No staging leftovers beside the output.
	entries, err := os.ReadDir(filepath.Dir(outDir))
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "walk", entries[0].Name())

	// Round-trip through the written manifest.
	read, err := ReadManifest(filepath.Join(outDir, ManifestName))
	require.NoError(t, err)
	assert.Equal(t, manifest.FrameSize, read.FrameSize)
	assert.Equal(t, manifest.Orientations, read.Orientations)
	assert.Equal(t, 8, read.TotalFrames())
}

func TestSliceFlatLayout(t *testing.T) {
	s := NewSlicer(nil)
	r := testRaster(2, 2, 2, 1, []string{"front", "back"})
	outDir := filepath.Join(t.TempDir(), "walk")

	opts := DefaultOptions(outDir)
	opts.OrientationDirs = false
	opts.PadWidth = 2

	_, _, err := s.Slice(r, "walk", opts)
	require.NoError(t, err)

	_, err = os.Stat(filepath.Join(outDir, "front_frame_00.png"))
	assert.NoError(t, err)
	_, err = os.Stat(filepath.Join(outDir, "back_frame_00.png"))
	assert.NoError(t, err)
}

func TestSlicePadWidth(t *testing.T) {
	s := NewSlicer(nil)
	r := testRaster(2, 2, 1, 2, nil)

	frames, _, err := s.Slice(r, "idle", Options{PadWidth: 5})
	require.NoError(t, err)
	assert.Equal(t, "frame_00000.png", frames[0].Name)
	assert.Equal(t, "frame_00001.png", frames[1].Name)
}
