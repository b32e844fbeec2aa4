package sections

import (
	"bytes"
	"encoding/json"
	"strings"
)

// OrderedLines maps a label to its content lines and remembers the order in
// which labels were first added.
type OrderedLines struct {
	keys  []string
	lines map[string][]string
}

func NewOrderedLines() *OrderedLines {
	return &OrderedLines{lines: make(map[string][]string)}
}

// Append adds lines under key, creating the entry on first use.
func (o *OrderedLines) Append(key string, lines ...string) {
	existing, ok := o.lines[key]
	if !ok {
		o.keys = append(o.keys, key)
		existing = make([]string, 0, len(lines))
	}
	o.lines[key] = append(existing, lines...)
}

// Keys returns labels in insertion order.
func (o *OrderedLines) Keys() []string {
	return append([]string(nil), o.keys...)
}

// Get returns the lines stored under key.
func (o *OrderedLines) Get(key string) []string {
	return o.lines[key]
}

func (o *OrderedLines) Len() int {
	return len(o.keys)
}

// Map returns a plain map copy.
func (o *OrderedLines) Map() map[string][]string {
	result := make(map[string][]string, len(o.keys))
	for _, key := range o.keys {
		result[key] = append([]string(nil), o.lines[key]...)
	}
	return result
}

// MarshalJSON encodes the entries as a JSON object keeping insertion order.
func (o *OrderedLines) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, key := range o.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(key)
		if err != nil {
			return nil, err
		}
		v, err := json.Marshal(o.lines[key])
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

type flattenVisitor struct {
	out *OrderedLines
}

func (f *flattenVisitor) VisitSection(*Section) bool { return true }

func (f *flattenVisitor) VisitSubsection(_ *Section, sub *Subsection) {
	if sub.IsEmpty() {
		return
	}
	f.out.Append(sub.Title, sub.Lines...)
}

// Flatten collects the content lines of every non-empty subsection keyed by
// its title. Titles repeated across sections have their lines concatenated
// in document order. Section headers never appear as keys.
func Flatten(tree *Tree) *OrderedLines {
	v := &flattenVisitor{out: NewOrderedLines()}
	Walk(tree, v)
	return v.out
}

func hasContent(lines []string) bool {
	for _, line := range lines {
		if strings.TrimSpace(line) != "" {
			return true
		}
	}
	return false
}
