// Package resolve turns a semantic character selection into a
// validated-ready layer stack, recording every attempt in a trace.
package resolve

import (
	"encoding/json"
	"fmt"
)

// BodyTypes enumerates the accepted body_type values.
var BodyTypes = []string{"male", "muscular", "female", "teen", "child"}

// CategoryRef is one caller-ordered category request: a category name,
// a preferred colour, and the candidate item files to try first.
type CategoryRef struct {
	Category        string   `json:"category"`
	PreferredColour string   `json:"preferred_colour"`
	Items           []string `json:"items"`
}

// Selection is the inbound semantic description of a character.
// Immutable once passed to the resolver.
type Selection struct {
	BodyType   string        `json:"body_type"`
	HeadType   string        `json:"head_type"`
	Categories []CategoryRef `json:"categories"`
}

// ParseSelection decodes and checks an untyped selection payload at
// the boundary; nothing unvalidated flows past here.
func ParseSelection(data []byte) (Selection, error) {
	var sel Selection
	if err := json.Unmarshal(data, &sel); err != nil {
		return sel, fmt.Errorf("parse selection: %w", err)
	}
	if err := sel.Check(); err != nil {
		return sel, err
	}
	return sel, nil
}

// Check verifies the selection's own shape (catalog agreement is the
// resolver's job).
func (s Selection) Check() error {
	if !validBodyType(s.BodyType) {
		return fmt.Errorf("selection: unknown body_type %q", s.BodyType)
	}
	if s.HeadType == "" {
		return fmt.Errorf("selection: head_type is required")
	}
	for i, ref := range s.Categories {
		if ref.Category == "" {
			return fmt.Errorf("selection: categories[%d] has no category name", i)
		}
	}
	return nil
}

func validBodyType(bt string) bool {
	for _, v := range BodyTypes {
		if v == bt {
			return true
		}
	}
	return false
}
