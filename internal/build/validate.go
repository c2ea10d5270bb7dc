package build

import (
	"fmt"
	"strings"
)

// FieldError names one failed check on a Build.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError aggregates every field failure found in one pass.
type ValidationError struct {
	Fields []FieldError `json:"fields"`
}

func (e *ValidationError) Error() string {
	msgs := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		msgs[i] = f.Field + ": " + f.Message
	}
	return "invalid build: " + strings.Join(msgs, "; ")
}

// Validator checks a Build against the catalog's category/variant
// contract. It never mutates the build and is safe to call repeatedly.
type Validator struct {
	allowed map[string][]string // category path -> allowed variants
}

// NewValidator takes the contract mapping produced by the catalog.
func NewValidator(contract map[string][]string) *Validator {
	return &Validator{allowed: contract}
}

// Validate returns a *ValidationError listing every failed check, or
// nil. The head/body variant equality is re-checked here independently
// of the enforcer so a Build arriving from any path is still gated.
func (v *Validator) Validate(b *Build) error {
	var fields []FieldError

	if b.Schema != SchemaTag {
		fields = append(fields, FieldError{"schema", fmt.Sprintf("unknown schema tag %q", b.Schema)})
	}

	bodies, heads := 0, 0
	for i := range b.Layers {
		l := &b.Layers[i]
		name := fmt.Sprintf("layers[%d]", i)

		if strings.HasPrefix(l.Category, BodyNamespace) {
			bodies++
		}
		if strings.HasPrefix(l.Category, HeadNamespace) {
			heads++
		}

		variants, known := v.allowed[l.Category]
		if !known {
			fields = append(fields, FieldError{name + ".category", fmt.Sprintf("unknown category %q", l.Category)})
			continue
		}
		if !contains(variants, l.Variant) {
			fields = append(fields, FieldError{
				name + ".variant",
				fmt.Sprintf("variant %q not allowed for %s (allowed: %s)", l.Variant, l.Category, strings.Join(variants, ", ")),
			})
		}
	}

	if bodies != 1 {
		fields = append(fields, FieldError{"layers", fmt.Sprintf("want exactly one body layer, have %d", bodies)})
	}
	if heads != 1 {
		fields = append(fields, FieldError{"layers", fmt.Sprintf("want exactly one head layer, have %d", heads)})
	}

	if body, head := b.BodyLayer(), b.HeadLayer(); body != nil && head != nil {
		if body.Variant != head.Variant {
			fields = append(fields, FieldError{
				"layers",
				fmt.Sprintf("head variant %q does not match body variant %q", head.Variant, body.Variant),
			})
		}
	}

	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}

func contains(ss []string, s string) bool {
	for _, v := range ss {
		if v == s {
			return true
		}
	}
	return false
}
