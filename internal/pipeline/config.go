package pipeline

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// FileConfig is the optional spriteforge.yaml consumed by the CLI.
// Flags override anything set here.
type FileConfig struct {
	CatalogDir      string   `yaml:"catalog_dir"`
	AssetDir        string   `yaml:"asset_dir"`
	OutDir          string   `yaml:"out_dir"`
	Animations      []string `yaml:"animations"`
	FPS             int      `yaml:"fps"`
	PadWidth        int      `yaml:"frame_pad_width"`
	OrientationDirs *bool    `yaml:"orientation_directories"`
	SynonymsPath    string   `yaml:"synonyms"`
}

// LoadConfig reads a YAML config file and applies it over defaults.
func LoadConfig(path string) (Options, error) {
	opts := DefaultOptions()

	data, err := os.ReadFile(path)
	if err != nil {
		return opts, fmt.Errorf("read config %s: %w", path, err)
	}
	var fc FileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return opts, fmt.Errorf("parse config %s: %w", path, err)
	}

	if fc.CatalogDir != "" {
		opts.CatalogDir = fc.CatalogDir
	}
	if fc.AssetDir != "" {
		opts.AssetDir = fc.AssetDir
	}
	if fc.OutDir != "" {
		opts.OutDir = fc.OutDir
	}
	if len(fc.Animations) > 0 {
		opts.Animations = fc.Animations
	}
	if fc.FPS > 0 {
		opts.FPS = fc.FPS
	}
	if fc.PadWidth > 0 {
		opts.PadWidth = fc.PadWidth
	}
	if fc.OrientationDirs != nil {
		opts.OrientationDirs = *fc.OrientationDirs
	}
	if fc.SynonymsPath != "" {
		opts.SynonymsPath = fc.SynonymsPath
	}
	return opts, nil
}
