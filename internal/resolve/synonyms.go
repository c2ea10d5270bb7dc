package resolve

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Synonyms maps a preferred colour name to the variant names to try in
// its place, in order. Keys and values are matched case- and
// whitespace-insensitively.
type Synonyms map[string][]string

// DefaultSynonyms is the compiled-in colour dictionary. Art packs
// rarely name variants the way people (or LLMs) describe colours, so
// this maps common descriptions onto typical pack palettes.
func DefaultSynonyms() Synonyms {
	return Synonyms{
		"crimson":   {"red", "ruby", "maroon"},
		"scarlet":   {"red", "ruby"},
		"maroon":    {"red", "brown"},
		"navy":      {"blue", "dark_blue"},
		"azure":     {"blue", "light_blue", "sky"},
		"teal":      {"cyan", "green"},
		"emerald":   {"green", "forest"},
		"olive":     {"green", "brown"},
		"gold":      {"yellow", "blonde", "amber"},
		"amber":     {"yellow", "orange"},
		"blonde":    {"yellow", "gold"},
		"violet":    {"purple", "lavender"},
		"lavender":  {"purple", "violet"},
		"magenta":   {"pink", "purple"},
		"rose":      {"pink", "red"},
		"chestnut":  {"brown", "auburn"},
		"auburn":    {"brown", "red"},
		"tan":       {"brown", "beige"},
		"beige":     {"tan", "brown"},
		"ivory":     {"white", "cream"},
		"cream":     {"white", "ivory"},
		"silver":    {"gray", "grey", "white"},
		"charcoal":  {"black", "gray", "grey"},
		"ebony":     {"black"},
		"grey":      {"gray"},
		"gray":      {"grey"},
		"turquoise": {"cyan", "teal", "blue"},
	}
}

// LoadSynonyms reads a YAML dictionary of colour -> [variants].
// The result replaces, not merges, the default dictionary.
func LoadSynonyms(path string) (Synonyms, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read synonyms %s: %w", path, err)
	}
	var s Synonyms
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parse synonyms %s: %w", path, err)
	}
	return s, nil
}

// Lookup returns the synonym list for a colour, in dictionary order.
func (s Synonyms) Lookup(colour string) []string {
	return s[normalizeColour(colour)]
}

// normalizeColour lowercases and strips all whitespace so "Dark Blue"
// and "dark_blue " compare equal to "darkblue"-style variant names.
func normalizeColour(c string) string {
	c = strings.ToLower(c)
	return strings.Map(func(r rune) rune {
		if r == ' ' || r == '\t' {
			return -1
		}
		return r
	}, c)
}
