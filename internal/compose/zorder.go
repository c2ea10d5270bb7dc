package compose

import "strings"

// zOrder is the fixed global stacking table, keyed by the first
// segment of a category path. Body sits beneath head, head beneath
// clothing, clothing beneath accessories. This is configuration, not
// inference; per-layer z overrides shift within it.
var zOrder = map[string]int{
	"body":        0,
	"head":        10,
	"clothes":     20,
	"accessories": 30,
}

// zUnknown places categories outside the table above everything.
const zUnknown = 40

func zFor(categoryPath string) int {
	ns := categoryPath
	if i := strings.Index(categoryPath, "/"); i > 0 {
		ns = categoryPath[:i]
	}
	if z, ok := zOrder[ns]; ok {
		return z
	}
	return zUnknown
}
