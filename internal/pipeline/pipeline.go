// Package pipeline wires the stages together: resolve -> enforce ->
// validate -> compose -> slice. Each stage completes fully before the
// next begins; concurrent runs share only the read-only catalog.
package pipeline

import (
	"fmt"
	"path/filepath"

	"go.uber.org/zap"

	"spriteforge/internal/build"
	"spriteforge/internal/catalog"
	"spriteforge/internal/compose"
	"spriteforge/internal/resolve"
	"spriteforge/internal/slicer"
)

// Options configures a pipeline run.
type Options struct {
	CatalogDir string
	AssetDir   string
	// OutDir receives one subdirectory per animation. Empty skips
	// composition and slicing (resolve-only runs).
	OutDir string

	Animations      []string
	FPS             int
	PadWidth        int
	OrientationDirs bool

	// SynonymsPath optionally replaces the built-in colour dictionary.
	SynonymsPath string

	Logger *zap.Logger
}

// DefaultOptions fills in the documented defaults.
func DefaultOptions() Options {
	return Options{
		Animations:      []string{"idle"},
		FPS:             8,
		PadWidth:        3,
		OrientationDirs: true,
	}
}

// Result carries every artifact of a full run.
type Result struct {
	Build     *build.Build
	Trace     resolve.Trace
	Manifests map[string]*slicer.Manifest
}

// Run executes the whole pipeline for one selection. Fatal errors
// surface from the stage that detects them; the trace accumulated so
// far is returned alongside so callers can explain partial failures.
func Run(sel resolve.Selection, opts Options) (*Result, error) {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	if len(opts.Animations) == 0 {
		opts.Animations = []string{"idle"}
	}

	cat, err := catalog.Open(opts.CatalogDir, opts.AssetDir, log)
	if err != nil {
		return nil, err
	}

	synonyms := resolve.Synonyms(nil)
	if opts.SynonymsPath != "" {
		synonyms, err = resolve.LoadSynonyms(opts.SynonymsPath)
		if err != nil {
			return nil, err
		}
	}

	resolver := resolve.NewResolver(cat, synonyms, log)
	b, trace, err := resolver.Resolve(sel, opts.Animations)
	if err != nil {
		return &Result{Trace: trace}, err
	}

	resolve.EnforceBodyVariant(b, trace)

	validator := build.NewValidator(cat.Contract())
	if err := validator.Validate(b); err != nil {
		return &Result{Build: b, Trace: trace}, err
	}

	result := &Result{
		Build:     b,
		Trace:     trace,
		Manifests: make(map[string]*slicer.Manifest),
	}
	if opts.OutDir == "" {
		return result, nil
	}

	compositor := compose.NewCompositor(cat, log)
	framer := slicer.NewSlicer(log)
	for _, anim := range opts.Animations {
		raster, err := compositor.Compose(b, anim)
		if err != nil {
			return result, fmt.Errorf("compose %s: %w", anim, err)
		}

		sliceOpts := slicer.Options{
			FPS:             opts.FPS,
			PadWidth:        opts.PadWidth,
			OrientationDirs: opts.OrientationDirs,
			OutDir:          filepath.Join(opts.OutDir, anim),
		}
		_, manifest, err := framer.Slice(raster, anim, sliceOpts)
		if err != nil {
			return result, fmt.Errorf("slice %s: %w", anim, err)
		}
		result.Manifests[anim] = manifest
	}

	log.Info("pipeline complete",
		zap.String("build", b.ID),
		zap.Int("layers", len(b.Layers)),
		zap.Strings("animations", opts.Animations))
	return result, nil
}
