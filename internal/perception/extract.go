// Package perception turns raw observation text into tagged object mentions.
package perception

import "strings"

// DefaultSeparator joins class and instance in a mention, e.g. "apple_3".
const DefaultSeparator = "_"

const trailingPunct = ".,;:!?"

// Mention is one concrete object or receptacle instance seen in an observation.
type Mention struct {
	ID    string
	Class string
}

// Mentions is an ordered, duplicate-free list of mentions.
type Mentions []Mention

// Map returns the mention to class mapping.
func (ms Mentions) Map() map[string]string {
	out := make(map[string]string, len(ms))
	for _, m := range ms {
		out[m.ID] = m.Class
	}
	return out
}

// IDs returns the mention identifiers in order.
func (ms Mentions) IDs() []string {
	out := make([]string, len(ms))
	for i, m := range ms {
		out[i] = m.ID
	}
	return out
}

// OfClass lists the mentions of class, in order.
func (ms Mentions) OfClass(class string) []string {
	var out []string
	for _, m := range ms {
		if m.Class == class {
			out = append(out, m.ID)
		}
	}
	return out
}

// Extractor extracts mentions using a configurable separator.
type Extractor struct {
	Separator string
}

// Extract uses the default separator. Tokens with an empty class are dropped.
func Extract(text string) Mentions {
	return Extractor{}.Extract(text)
}

// Extract splits text on whitespace and keeps tokens containing the separator.
// Tokens with an empty class, such as "_foo", are dropped. Text without tagged tokens
// yields an empty result.
func (e Extractor) Extract(text string) Mentions {
	sep := e.Separator
	if sep == "" {
		sep = DefaultSeparator
	}

	var out Mentions
	seen := make(map[string]bool)
	for _, tok := range strings.Fields(text) {
		if !strings.Contains(tok, sep) {
			continue
		}
		id := strings.TrimRight(tok, trailingPunct)
		class, _, _ := strings.Cut(id, sep)
		if class == "" || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, Mention{ID: id, Class: class})
	}
	return out
}
