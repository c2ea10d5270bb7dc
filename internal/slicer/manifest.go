package slicer

import (
	"encoding/json"
	"fmt"
	"os"
)

// ManifestName is the filename written next to the sliced frames.
const ManifestName = "manifest.json"

// Manifest records how a sliced animation is laid out on disk.
type Manifest struct {
	Animation    string              `json:"animation"`
	FPS          int                 `json:"fps"`
	FrameSize    [2]int              `json:"frame_size"`
	Orientations []string            `json:"orientations"`
	Frames       map[string][]string `json:"frames"`
}

// TotalFrames counts frames across all output folders.
func (m *Manifest) TotalFrames() int {
	n := 0
	for _, frames := range m.Frames {
		n += len(frames)
	}
	return n
}

func writeManifest(m *Manifest, path string) error {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal manifest: %w", err)
	}
	data = append(data, '\n')
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write manifest: %w", err)
	}
	return nil
}

// ReadManifest loads a manifest written by Slice.
func ReadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read manifest %s: %w", path, err)
	}
	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse manifest %s: %w", path, err)
	}
	return &m, nil
}
