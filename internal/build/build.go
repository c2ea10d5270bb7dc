// Package build defines the validated layer-stack contract handed from
// resolution to composition, and the validator that gates it.
package build

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Tags stamped on every Build so external storage collaborators can
// recognize the document shape.
const (
	SchemaTag = "spriteforge.build/v1"
	Generator = "spriteforge"
)

// Category namespaces that must appear exactly once per Build.
const (
	BodyNamespace = "body/"
	HeadNamespace = "head/"
)

// Offset shifts a layer by whole pixels before compositing.
type Offset struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Tint multiplies layer pixels by a #RRGGBB color.
type Tint struct {
	Color string `json:"color"`
}

// RGB parses the tint color. Invalid colors report an error rather
// than tinting to black.
func (t Tint) RGB() (r, g, b uint8, err error) {
	s := strings.TrimPrefix(t.Color, "#")
	if len(s) != 6 {
		return 0, 0, 0, fmt.Errorf("tint color %q: want #RRGGBB", t.Color)
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return 0, 0, 0, fmt.Errorf("tint color %q: %w", t.Color, err)
	}
	return uint8(v >> 16), uint8(v >> 8), uint8(v), nil
}

// Layer is one category+variant selection with optional visual
// modifiers. A nil Visible means visible.
type Layer struct {
	Category string  `json:"category" jsonschema:"required"`
	Variant  string  `json:"variant" jsonschema:"required"`
	Visible  *bool   `json:"visible,omitempty"`
	Z        *int    `json:"z,omitempty"`
	Offset   *Offset `json:"offset,omitempty"`
	Tint     *Tint   `json:"tint,omitempty"`
}

// IsVisible reports whether the layer takes part in composition.
func (l *Layer) IsVisible() bool {
	return l.Visible == nil || *l.Visible
}

// Build is the validated contract: an ordered layer stack plus the
// animations requested for it. Immutable once validation passes.
type Build struct {
	Schema     string    `json:"schema" jsonschema:"required"`
	Generator  string    `json:"generator" jsonschema:"required"`
	ID         string    `json:"id,omitempty"`
	CreatedAt  time.Time `json:"created_at,omitempty"`
	Animations []string  `json:"animations" jsonschema:"required"`
	Layers     []Layer   `json:"layers" jsonschema:"required"`
}

// BodyLayer returns the single layer under the body namespace, or nil.
func (b *Build) BodyLayer() *Layer {
	return b.layerIn(BodyNamespace)
}

// HeadLayer returns the single layer under the head namespace, or nil.
func (b *Build) HeadLayer() *Layer {
	return b.layerIn(HeadNamespace)
}

func (b *Build) layerIn(ns string) *Layer {
	for i := range b.Layers {
		if strings.HasPrefix(b.Layers[i].Category, ns) {
			return &b.Layers[i]
		}
	}
	return nil
}
