package resolve

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"spriteforge/internal/build"
	"spriteforge/internal/catalog"
)

// DefaultBodyItem is the canonical body definition tried when the
// caller does not name body candidates of its own.
const DefaultBodyItem = "body_base.json"

// RequiredCategoryError is the fatal failure for an unresolvable body
// or head; no partial build is ever returned alongside it.
type RequiredCategoryError struct {
	Category string
}

func (e *RequiredCategoryError) Error() string {
	return fmt.Sprintf("required_category_unresolved: %s", e.Category)
}

// Resolver owns the selection -> layer stack translation. It only
// reads the catalog; its sole side effect is trace accumulation.
type Resolver struct {
	catalog  *catalog.Catalog
	synonyms Synonyms
	log      *zap.Logger
}

// NewResolver builds a resolver. A nil synonyms dictionary gets the
// compiled-in default; a nil logger is silenced.
func NewResolver(cat *catalog.Catalog, syn Synonyms, log *zap.Logger) *Resolver {
	if syn == nil {
		syn = DefaultSynonyms()
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Resolver{catalog: cat, synonyms: syn, log: log}
}

// Resolve produces an ordered layer stack from the selection. Body and
// head are required and abort the whole resolution on failure; every
// other category degrades to a trace note. Categories are processed in
// exactly the order the caller gave them.
func (r *Resolver) Resolve(sel Selection, animations []string) (*build.Build, Trace, error) {
	if err := sel.Check(); err != nil {
		return nil, nil, err
	}
	if len(animations) == 0 {
		animations = []string{"idle"}
	}

	var trace Trace
	b := &build.Build{
		Schema:     build.SchemaTag,
		Generator:  build.Generator,
		ID:         uuid.NewString(),
		CreatedAt:  time.Now().UTC(),
		Animations: animations,
	}

	// Body first: it is always required and its variant is the
	// single source of truth for head colour later.
	bodyRef, rest := splitRef(sel.Categories, "body")
	bodyItems := bodyRef.Items
	if len(bodyItems) == 0 {
		bodyItems = []string{DefaultBodyItem}
	}
	bodyLayer := r.resolveCandidates(sel.BodyType, "body", bodyItems, bodyRef.PreferredColour, &trace)
	if bodyLayer == nil {
		return nil, trace, &RequiredCategoryError{Category: "body"}
	}
	b.Layers = append(b.Layers, *bodyLayer)

	// Head: the selection's head_type is the sole candidate.
	headRef, rest := splitRef(rest, "head")
	headLayer := r.resolveCandidates(sel.BodyType, "head", []string{sel.HeadType}, headRef.PreferredColour, &trace)
	if headLayer == nil {
		return nil, trace, &RequiredCategoryError{Category: "head"}
	}
	b.Layers = append(b.Layers, *headLayer)

	// Optional categories, in caller order, each degrading gracefully.
	for _, ref := range rest {
		if !r.catalog.KnownCategory(ref.Category) {
			// Possibly a typo upstream rather than a genuine gap,
			// so this gets a warn-level signal on top of the note.
			r.log.Warn("unknown category in selection",
				zap.String("category", ref.Category))
			trace.add(Entry{
				Category:        ref.Category,
				PreferredColour: ref.PreferredColour,
				Notes:           []string{NoteUnknownCategory},
			})
			continue
		}

		candidates := intersectOrdered(ref.Items, r.catalog.ItemsFor(ref.Category))
		if len(ref.Items) == 0 {
			candidates = r.catalog.ItemsFor(ref.Category)
		}

		layer := r.resolveCandidates(sel.BodyType, ref.Category, candidates, ref.PreferredColour, &trace)
		if layer == nil {
			trace.add(Entry{
				Category:        ref.Category,
				PreferredColour: ref.PreferredColour,
				Notes:           []string{NoteNoCompatibleItem},
			})
			continue
		}
		b.Layers = append(b.Layers, *layer)
	}

	return b, trace, nil
}

// resolveCandidates tries each candidate item in order and returns the
// first that yields both a category path and a variant. Every attempt
// leaves a trace entry.
func (r *Resolver) resolveCandidates(bodyType, category string, items []string, preferred string, trace *Trace) *build.Layer {
	for _, item := range items {
		entry := Entry{
			Category:        category,
			PreferredColour: preferred,
			Item:            item,
		}

		def, ok := r.catalog.Entry(item)
		if !ok {
			entry.Notes = append(entry.Notes, NoteItemNotLoadable)
			trace.add(entry)
			continue
		}

		path := def.PathFor(bodyType)
		if path == "" {
			entry.Notes = append(entry.Notes, NoteNoPathForBodyType)
			trace.add(entry)
			continue
		}
		entry.ResolvedPath = path

		variant, note := r.selectVariant(preferred, def.Variants)
		entry.Notes = append(entry.Notes, note)
		if variant == "" {
			trace.add(entry)
			continue
		}
		entry.Variant = variant
		trace.add(entry)

		return &build.Layer{Category: path, Variant: variant}
	}
	return nil
}

// variantOutcome is the tagged result of one resolution strategy.
type variantOutcome struct {
	variant string
	note    string
	ok      bool
}

// selectVariant applies the fallback tiers in fixed order, stopping at
// the first strategy that produces a variant:
//
//	direct match -> synonym dictionary -> first allowed variant
//
// A blank preferred colour skips straight to the final tier with its
// own note so consumers can tell the two fallbacks apart.
func (r *Resolver) selectVariant(preferred string, allowed []string) (string, string) {
	if len(allowed) == 0 {
		return "", NoteNoVariantResolved
	}
	if strings.TrimSpace(preferred) == "" {
		return allowed[0], NoteNoPreferredColour
	}

	strategies := []func(string, []string) variantOutcome{
		directMatch,
		r.dictMatch,
		fallbackFirst,
	}
	for _, strategy := range strategies {
		if out := strategy(preferred, allowed); out.ok {
			return out.variant, out.note
		}
	}
	return "", NoteNoVariantResolved
}

// directMatch compares the preferred colour against allowed variants
// case- and whitespace-insensitively.
func directMatch(preferred string, allowed []string) variantOutcome {
	want := normalizeColour(preferred)
	for _, v := range allowed {
		if normalizeColour(v) == want {
			return variantOutcome{variant: v, note: NoteDirectMatch, ok: true}
		}
	}
	return variantOutcome{}
}

// dictMatch tries each dictionary synonym, in dictionary order,
// against the allowed variants.
func (r *Resolver) dictMatch(preferred string, allowed []string) variantOutcome {
	for _, syn := range r.synonyms.Lookup(preferred) {
		if out := directMatch(syn, allowed); out.ok {
			return variantOutcome{variant: out.variant, note: NoteDictMatch, ok: true}
		}
	}
	return variantOutcome{}
}

// fallbackFirst annotates the choice as low-confidence for downstream
// consumers.
func fallbackFirst(_ string, allowed []string) variantOutcome {
	return variantOutcome{variant: allowed[0], note: NoteFallbackFirstVariant, ok: true}
}

// splitRef pulls the ref for a required category name out of the list,
// leaving the remainder in caller order.
func splitRef(refs []CategoryRef, name string) (CategoryRef, []CategoryRef) {
	var found CategoryRef
	rest := make([]CategoryRef, 0, len(refs))
	taken := false
	for _, ref := range refs {
		if !taken && ref.Category == name {
			found = ref
			taken = true
			continue
		}
		rest = append(rest, ref)
	}
	return found, rest
}

// intersectOrdered keeps wanted items that are known, preserving the
// caller's preference order.
func intersectOrdered(wanted, known []string) []string {
	var out []string
	for _, w := range wanted {
		for _, k := range known {
			if w == k {
				out = append(out, w)
				break
			}
		}
	}
	return out
}
