package resolve

// Trace notes. Downstream consumers key off these strings to explain
// why a layer resolved the way it did (or not at all).
const (
	NoteDirectMatch          = "direct_match"
	NoteDictMatch            = "dict_match"
	NoteFallbackFirstVariant = "fallback_first_variant"
	NoteNoPreferredColour    = "no_preferred_colour"
	NoteNoVariantResolved    = "no_variant_resolved"
	NoteUnknownCategory      = "unknown_category_in_reference"
	NoteNoCompatibleItem     = "no_compatible_item_found"
	NoteItemNotLoadable      = "item_not_loadable"
	NoteNoPathForBodyType    = "no_path_for_body_type"
)

// Entry is the audit record of one resolution attempt. Append-only;
// the invariant enforcer is the only later stage allowed to add notes.
type Entry struct {
	Category        string   `json:"category"`
	PreferredColour string   `json:"preferred_colour"`
	Item            string   `json:"item"`
	ResolvedPath    string   `json:"resolved_path,omitempty"`
	Variant         string   `json:"variant,omitempty"`
	Notes           []string `json:"notes"`
}

// Trace is the ordered attempt log for one resolution.
type Trace []Entry

func (t *Trace) add(e Entry) {
	*t = append(*t, e)
}
