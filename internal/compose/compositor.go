package compose

import (
	"fmt"
	"image"
	"image/draw"
	"image/png"
	"os"
	"sort"

	"go.uber.org/zap"

	"spriteforge/internal/build"
	"spriteforge/internal/catalog"
)

// Compositor stacks a Build's visible layers into one raster per
// animation. It assumes the Build already passed validation.
type Compositor struct {
	catalog *catalog.Catalog
	log     *zap.Logger
}

// NewCompositor builds a compositor over the given catalog.
func NewCompositor(cat *catalog.Catalog, log *zap.Logger) *Compositor {
	if log == nil {
		log = zap.NewNop()
	}
	return &Compositor{catalog: cat, log: log}
}

// layerArt is one decoded layer ready for stacking.
type layerArt struct {
	layer  *build.Layer
	img    *image.NRGBA
	facing []string
	frameW int
	frameH int
	z      int
	idx    int
}

// Compose rasterizes the build for one animation. Invisible layers are
// omitted entirely rather than composited transparent. Layers with
// disagreeing frame sizes or row counts are a fatal GeometryError.
// Output is deterministic: identical inputs yield identical pixels.
func (c *Compositor) Compose(b *build.Build, animation string) (*Raster, error) {
	var arts []*layerArt
	for i := range b.Layers {
		l := &b.Layers[i]
		if !l.IsVisible() {
			c.log.Debug("skipping hidden layer", zap.String("category", l.Category))
			continue
		}

		art, err := c.loadLayer(l, animation, i)
		if err != nil {
			return nil, err
		}
		arts = append(arts, art)
	}
	if len(arts) == 0 {
		return nil, fmt.Errorf("compose %s: no visible layers", animation)
	}

	if err := checkGeometry(arts); err != nil {
		return nil, err
	}

	// Stable order: configured z first, declaration order second.
	sort.SliceStable(arts, func(i, j int) bool {
		if arts[i].z != arts[j].z {
			return arts[i].z < arts[j].z
		}
		return arts[i].idx < arts[j].idx
	})

	// Canvas covers the union of all layer bounds.
	frameW, frameH := arts[0].frameW, arts[0].frameH
	var unionW, unionH int
	for _, a := range arts {
		if w := a.img.Bounds().Dx(); w > unionW {
			unionW = w
		}
		if h := a.img.Bounds().Dy(); h > unionH {
			unionH = h
		}
	}

	canvas := image.NewNRGBA(image.Rect(0, 0, unionW, unionH))
	for _, a := range arts {
		src := a.img
		if a.layer.Tint != nil {
			tinted, err := applyTint(src, *a.layer.Tint)
			if err != nil {
				return nil, fmt.Errorf("layer %s: %w", a.layer.Category, err)
			}
			src = tinted
		}

		at := image.Point{}
		if a.layer.Offset != nil {
			at = image.Point{X: a.layer.Offset.X, Y: a.layer.Offset.Y}
		}
		rect := src.Bounds().Add(at)
		draw.Draw(canvas, rect, src, src.Bounds().Min, draw.Over)
	}

	grid := Grid{
		FrameW: frameW,
		FrameH: frameH,
		Rows:   unionH / frameH,
		Cols:   unionW / frameW,
	}
	// Row labels come from the body layer's definition when declared.
	for _, a := range arts {
		if len(a.facing) > 0 {
			grid.RowFacings = a.facing
			break
		}
	}

	return &Raster{Pix: canvas, Grid: grid}, nil
}

// loadLayer resolves a layer to its image asset and decodes it.
func (c *Compositor) loadLayer(l *build.Layer, animation string, idx int) (*layerArt, error) {
	def, ok := c.catalog.EntryByPath(l.Category)
	if !ok {
		return nil, fmt.Errorf("compose: no catalog definition for category %q", l.Category)
	}
	if !def.SupportsAnimation(animation) {
		return nil, fmt.Errorf("compose: category %q does not support animation %q", l.Category, animation)
	}

	path := c.catalog.AssetPath(l.Category, l.Variant, animation)
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open layer asset %s: %w", path, err)
	}
	defer f.Close()

	img, err := png.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode layer asset %s: %w", path, err)
	}

	frameW, frameH := def.FrameGeometry()
	bounds := img.Bounds()
	if bounds.Dx()%frameW != 0 || bounds.Dy()%frameH != 0 {
		return nil, &GeometryError{
			Subject: path,
			Detail: fmt.Sprintf("sheet %dx%d is not a multiple of frame %dx%d",
				bounds.Dx(), bounds.Dy(), frameW, frameH),
		}
	}

	z := zFor(l.Category)
	if l.Z != nil {
		z = *l.Z
	}

	return &layerArt{
		layer:  l,
		img:    toNRGBA(img),
		facing: def.RowFacings,
		frameW: frameW,
		frameH: frameH,
		z:      z,
		idx:    idx,
	}, nil
}

// checkGeometry rejects layer stacks whose declared frame sizes or row
// counts disagree. The compositor never guesses a common geometry.
func checkGeometry(arts []*layerArt) error {
	ref := arts[0]
	refRows := ref.img.Bounds().Dy() / ref.frameH
	for _, a := range arts[1:] {
		if a.frameW != ref.frameW || a.frameH != ref.frameH {
			return &GeometryError{
				Subject: a.layer.Category,
				Detail: fmt.Sprintf("frame %dx%d disagrees with %s frame %dx%d",
					a.frameW, a.frameH, ref.layer.Category, ref.frameW, ref.frameH),
			}
		}
		if rows := a.img.Bounds().Dy() / a.frameH; rows != refRows {
			return &GeometryError{
				Subject: a.layer.Category,
				Detail: fmt.Sprintf("%d rows disagree with %s's %d rows",
					rows, ref.layer.Category, refRows),
			}
		}
	}
	return nil
}

// applyTint multiplies opaque channels by the tint color, leaving
// alpha untouched.
func applyTint(src *image.NRGBA, tint build.Tint) (*image.NRGBA, error) {
	tr, tg, tb, err := tint.RGB()
	if err != nil {
		return nil, err
	}

	out := image.NewNRGBA(src.Bounds())
	copy(out.Pix, src.Pix)
	for i := 0; i < len(out.Pix); i += 4 {
		out.Pix[i+0] = uint8(uint16(out.Pix[i+0]) * uint16(tr) / 255)
		out.Pix[i+1] = uint8(uint16(out.Pix[i+1]) * uint16(tg) / 255)
		out.Pix[i+2] = uint8(uint16(out.Pix[i+2]) * uint16(tb) / 255)
	}
	return out, nil
}

// toNRGBA normalizes any decoded image into NRGBA so byte-level
// determinism does not depend on the source PNG's color model.
func toNRGBA(img image.Image) *image.NRGBA {
	if n, ok := img.(*image.NRGBA); ok {
		return n
	}
	out := image.NewNRGBA(image.Rect(0, 0, img.Bounds().Dx(), img.Bounds().Dy()))
	draw.Draw(out, out.Bounds(), img, img.Bounds().Min, draw.Src)
	return out
}
