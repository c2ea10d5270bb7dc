package catalog

import "strings"

// Default sheet geometry when a definition does not declare frame_size.
const (
	DefaultFrameW = 64
	DefaultFrameH = 64
)

// Entry is one asset definition file: a per-body-type category path,
// the allowed color variants, and the animations the art supports.
type Entry struct {
	Name       string            `json:"name,omitempty"`
	Layer1     map[string]string `json:"layer_1"`
	Variants   []string          `json:"variants"`
	Animations []string          `json:"animations,omitempty"`
	FrameSize  []int             `json:"frame_size,omitempty"`
	RowFacings []string          `json:"row_facings,omitempty"`
}

// PathFor returns the category path for the given body type.
// "child" falls back to the "teen" path when no child-specific
// art exists. Returns "" when the entry has no path for the body type.
func (e *Entry) PathFor(bodyType string) string {
	if p, ok := e.Layer1[bodyType]; ok && p != "" {
		return p
	}
	if bodyType == "child" {
		return e.Layer1["teen"]
	}
	return ""
}

// FrameGeometry returns the declared frame size, or the default 64x64.
func (e *Entry) FrameGeometry() (w, h int) {
	if len(e.FrameSize) == 2 && e.FrameSize[0] > 0 && e.FrameSize[1] > 0 {
		return e.FrameSize[0], e.FrameSize[1]
	}
	return DefaultFrameW, DefaultFrameH
}

// SupportsAnimation reports whether the entry's art covers the given
// animation. An entry with no declared animations supports everything.
func (e *Entry) SupportsAnimation(name string) bool {
	if len(e.Animations) == 0 {
		return true
	}
	for _, a := range e.Animations {
		if a == name {
			return true
		}
	}
	return false
}

// CategoryOf returns the category name an item file belongs to: the
// filename prefix before the first underscore (hair_long.json -> hair).
// Files without an underscore are their own category.
func CategoryOf(file string) string {
	base := strings.TrimSuffix(file, ".json")
	if i := strings.Index(base, "_"); i > 0 {
		return base[:i]
	}
	return base
}
