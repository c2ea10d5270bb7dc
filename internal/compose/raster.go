// Package compose rasterizes a validated Build into one spritesheet
// per animation by alpha-compositing layer art in a fixed z-order.
package compose

import (
	"fmt"
	"image"
)

// Grid describes the frame geometry of a composed sheet.
type Grid struct {
	FrameW, FrameH int
	Rows, Cols     int
	// RowFacings optionally labels each row with an orientation.
	// Empty means the slicer falls back to its row-index table.
	RowFacings []string
}

// Raster is an in-memory composed spritesheet plus its grid geometry.
// It is not persisted here; encoding and storage belong to callers.
type Raster struct {
	Pix  *image.NRGBA
	Grid Grid
}

// GeometryError is the fatal mismatch between declared frame geometry
// and actual pixel dimensions, or between the geometries of two
// layers. Dimensions are never guessed, cropped or stretched.
type GeometryError struct {
	Subject string
	Detail  string
}

func (e *GeometryError) Error() string {
	return fmt.Sprintf("geometry mismatch in %s: %s", e.Subject, e.Detail)
}
