// Package slicer cuts a composed spritesheet into per-animation,
// per-facing frame files and writes the manifest describing them.
package slicer

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"spriteforge/internal/compose"
)

// Options configures one slice run. DefaultOptions supplies the
// documented defaults; a zero FPS or PadWidth is corrected to them.
type Options struct {
	FPS             int
	PadWidth        int
	OrientationDirs bool
	// OutDir is where frames and the manifest land. Empty keeps the
	// run in memory: frames and manifest are returned, nothing is
	// written.
	OutDir string
}

// DefaultOptions returns the documented defaults: 8 fps, 3-digit
// indices, per-orientation directories.
func DefaultOptions(outDir string) Options {
	return Options{FPS: 8, PadWidth: 3, OrientationDirs: true, OutDir: outDir}
}

func (o *Options) normalize() {
	if o.FPS <= 0 {
		o.FPS = 8
	}
	if o.PadWidth <= 0 {
		o.PadWidth = 3
	}
}

// Frame is one extracted animation frame.
type Frame struct {
	Facing string
	Index  int
	Name   string
	Image  *image.NRGBA
}

// Slicer extracts frames from composed rasters.
type Slicer struct {
	log *zap.Logger
}

// NewSlicer builds a slicer; a nil logger is silenced.
func NewSlicer(log *zap.Logger) *Slicer {
	if log == nil {
		log = zap.NewNop()
	}
	return &Slicer{log: log}
}

// Slice cuts the raster into frames, reorders rows into the canonical
// back/left/front/right cycle when possible, and (with an OutDir)
// writes frame files plus the manifest. Output is staged in a sibling
// directory and renamed into place so a failed run leaves no
// half-written frame directory behind.
func (s *Slicer) Slice(r *compose.Raster, animation string, opts Options) ([]Frame, *Manifest, error) {
	opts.normalize()

	bounds := r.Pix.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if r.Grid.FrameW <= 0 || r.Grid.FrameH <= 0 {
		return nil, nil, &compose.GeometryError{
			Subject: animation,
			Detail:  fmt.Sprintf("frame size %dx%d", r.Grid.FrameW, r.Grid.FrameH),
		}
	}
	if w%r.Grid.FrameW != 0 || h%r.Grid.FrameH != 0 {
		return nil, nil, &compose.GeometryError{
			Subject: animation,
			Detail: fmt.Sprintf("raster %dx%d is not a multiple of frame %dx%d",
				w, h, r.Grid.FrameW, r.Grid.FrameH),
		}
	}

	rows := h / r.Grid.FrameH
	cols := w / r.Grid.FrameW
	facings := rowFacings(rows, r.Grid.RowFacings)
	order := canonicalOrder(facings)

	manifest := &Manifest{
		Animation: animation,
		FPS:       opts.FPS,
		FrameSize: [2]int{r.Grid.FrameW, r.Grid.FrameH},
		Frames:    make(map[string][]string),
	}

	var frames []Frame
	counters := make(map[string]int)
	for _, row := range order {
		facing := facings[row]
		if _, seen := counters[facing]; !seen {
			manifest.Orientations = append(manifest.Orientations, facing)
		}
		for col := 0; col < cols; col++ {
			idx := counters[facing]
			counters[facing]++

			rect := image.Rect(
				col*r.Grid.FrameW, row*r.Grid.FrameH,
				(col+1)*r.Grid.FrameW, (row+1)*r.Grid.FrameH,
			)
			frame := Frame{
				Facing: facing,
				Index:  idx,
				Name:   fmt.Sprintf("frame_%0*d.png", opts.PadWidth, idx),
				Image:  extract(r.Pix, rect),
			}
			frames = append(frames, frame)
			manifest.Frames[facing] = append(manifest.Frames[facing], frame.Name)
		}
	}

	if opts.OutDir != "" {
		if err := s.writeFrames(frames, manifest, opts); err != nil {
			return nil, nil, err
		}
	}
	return frames, manifest, nil
}

// writeFrames stages all output and renames it into place.
func (s *Slicer) writeFrames(frames []Frame, manifest *Manifest, opts Options) error {
	parent := filepath.Dir(opts.OutDir)
	if err := os.MkdirAll(parent, 0o755); err != nil {
		return fmt.Errorf("create output parent: %w", err)
	}
	staging, err := os.MkdirTemp(parent, ".slicing-*")
	if err != nil {
		return fmt.Errorf("create staging dir: %w", err)
	}
	defer os.RemoveAll(staging)

	for _, f := range frames {
		var path string
		if opts.OrientationDirs {
			dir := filepath.Join(staging, f.Facing)
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return fmt.Errorf("create facing dir %s: %w", f.Facing, err)
			}
			path = filepath.Join(dir, f.Name)
		} else {
			path = filepath.Join(staging, f.Facing+"_"+f.Name)
		}
		if err := encodePNG(path, f.Image); err != nil {
			return err
		}
	}

	if err := writeManifest(manifest, filepath.Join(staging, ManifestName)); err != nil {
		return err
	}

	if err := os.RemoveAll(opts.OutDir); err != nil {
		return fmt.Errorf("clear output dir: %w", err)
	}
	if err := os.Rename(staging, opts.OutDir); err != nil {
		return fmt.Errorf("move frames into place: %w", err)
	}
	s.log.Info("sliced animation",
		zap.String("animation", manifest.Animation),
		zap.Int("frames", manifest.TotalFrames()),
		zap.String("dir", opts.OutDir))
	return nil
}

func encodePNG(path string, img *image.NRGBA) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create frame %s: %w", path, err)
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("encode frame %s: %w", path, err)
	}
	return f.Close()
}

// extract copies the frame rectangle into its own zero-based image.
func extract(src *image.NRGBA, rect image.Rectangle) *image.NRGBA {
	out := image.NewNRGBA(image.Rect(0, 0, rect.Dx(), rect.Dy()))
	for y := 0; y < rect.Dy(); y++ {
		srcOff := src.PixOffset(rect.Min.X, rect.Min.Y+y)
		dstOff := out.PixOffset(0, y)
		copy(out.Pix[dstOff:dstOff+rect.Dx()*4], src.Pix[srcOff:srcOff+rect.Dx()*4])
	}
	return out
}
