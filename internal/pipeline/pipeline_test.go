package pipeline

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"spriteforge/internal/resolve"
)

// fixtureDirs writes a catalog and asset tree covering a full run:
// body, head and hair, all 2x2 frames in 4x8 sheets (2 cols, 4 rows).
func fixtureDirs(t *testing.T) (defsDir, assetDir string) {
	t.Helper()
	root := t.TempDir()
	defsDir = filepath.Join(root, "defs")
	assetDir = filepath.Join(root, "assets")
	require.NoError(t, os.MkdirAll(defsDir, 0o755))

	defs := map[string]string{
		"body_base.json": `{
			"layer_1": {"female": "body/bodies/female"},
			"variants": ["amber", "pale"],
			"animations": ["idle"],
			"frame_size": [2, 2]
		}`,
		"heads_round.json": `{
			"layer_1": {"female": "head/heads/round"},
			"variants": ["pale", "amber"],
			"animations": ["idle"],
			"frame_size": [2, 2]
		}`,
		"hair_long.json": `{
			"layer_1": {"female": "hair/long/adult"},
			"variants": ["red", "blue"],
			"animations": ["idle"],
			"frame_size": [2, 2]
		}`,
	}
	for name, content := range defs {
		require.NoError(t, os.WriteFile(filepath.Join(defsDir, name), []byte(content), 0o644))
	}

	sheets := map[string]color.NRGBA{
		filepath.Join("body", "bodies", "female", "amber", "idle.png"): {R: 200, A: 255},
		filepath.Join("head", "heads", "round", "amber", "idle.png"):   {G: 200, A: 255},
		filepath.Join("hair", "long", "adult", "red", "idle.png"):      {B: 200, A: 255},
	}
	for rel, c := range sheets {
		path := filepath.Join(assetDir, rel)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		img := image.NewNRGBA(image.Rect(0, 0, 4, 8))
		for y := 0; y < 8; y++ {
			for x := 0; x < 4; x++ {
				img.SetNRGBA(x, y, c)
			}
		}
		f, err := os.Create(path)
		require.NoError(t, err)
		require.NoError(t, png.Encode(f, img))
		require.NoError(t, f.Close())
	}
	return defsDir, assetDir
}

func testSelection() resolve.Selection {
	return resolve.Selection{
		BodyType: "female",
		HeadType: "heads_round.json",
		Categories: []resolve.CategoryRef{
			{Category: "hair", PreferredColour: "crimson", Items: []string{"hair_long.json"}},
		},
	}
}

func TestRunEndToEnd(t *testing.T) {
	defsDir, assetDir := fixtureDirs(t)
	outDir := filepath.Join(t.TempDir(), "out")

	opts := DefaultOptions()
	opts.CatalogDir = defsDir
	opts.AssetDir = assetDir
	opts.OutDir = outDir

	result, err := Run(testSelection(), opts)
	require.NoError(t, err)
	require.NotNil(t, result.Build)

	// Head colour reconciled to the body's even though the head
	// definition prefers pale.
	assert.Equal(t, result.Build.BodyLayer().Variant, result.Build.HeadLayer().Variant)
	assert.Equal(t, "amber", result.Build.HeadLayer().Variant)

	// Synonym tier resolved crimson hair to red.
	require.Len(t, result.Build.Layers, 3)
	assert.Equal(t, "red", result.Build.Layers[2].Variant)

	// Sliced output: 4 rows x 2 cols of 2x2 frames.
	manifest := result.Manifests["idle"]
	require.NotNil(t, manifest)
	assert.Equal(t, [2]int{2, 2}, manifest.FrameSize)
	assert.Equal(t, 8, manifest.TotalFrames())
	assert.Equal(t, []string{"back", "left", "front", "right"}, manifest.Orientations)

	_, err = os.Stat(filepath.Join(outDir, "idle", "back", "frame_000.png"))
	assert.NoError(t, err)
	_, err = os.Stat(filepath.Join(outDir, "idle", "manifest.json"))
	assert.NoError(t, err)
}

func TestRunResolveOnly(t *testing.T) {
	defsDir, assetDir := fixtureDirs(t)

	opts := DefaultOptions()
	opts.CatalogDir = defsDir
	opts.AssetDir = assetDir

	result, err := Run(testSelection(), opts)
	require.NoError(t, err)
	assert.NotNil(t, result.Build)
	assert.Empty(t, result.Manifests)
}

func TestRunRequiredFailureCarriesTrace(t *testing.T) {
	defsDir, assetDir := fixtureDirs(t)

	opts := DefaultOptions()
	opts.CatalogDir = defsDir
	opts.AssetDir = assetDir

	sel := testSelection()
	sel.HeadType = "heads_missing.json"

	result, err := Run(sel, opts)
	require.Error(t, err)

	var rerr *resolve.RequiredCategoryError
	require.ErrorAs(t, err, &rerr)
	assert.Equal(t, "head", rerr.Category)
	require.NotNil(t, result)
	assert.NotEmpty(t, result.Trace)
}

func TestRunMissingCatalogDirIsFatal(t *testing.T) {
	opts := DefaultOptions()
	opts.CatalogDir = filepath.Join(t.TempDir(), "nope")

	_, err := Run(testSelection(), opts)
	assert.Error(t, err)
}

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "spriteforge.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
catalog_dir: defs
asset_dir: assets
animations: [idle, walk]
fps: 12
frame_pad_width: 4
orientation_directories: false
`), 0o644))

	opts, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "defs", opts.CatalogDir)
	assert.Equal(t, []string{"idle", "walk"}, opts.Animations)
	assert.Equal(t, 12, opts.FPS)
	assert.Equal(t, 4, opts.PadWidth)
	assert.False(t, opts.OrientationDirs)
}

func TestLoadConfigDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "spriteforge.yaml")
	require.NoError(t, os.WriteFile(path, []byte("catalog_dir: defs\n"), 0o644))

	opts, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"idle"}, opts.Animations)
	assert.Equal(t, 8, opts.FPS)
	assert.Equal(t, 3, opts.PadWidth)
	assert.True(t, opts.OrientationDirs)
}
