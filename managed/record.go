package managed

import (
	"github.com/beevik/etree"
)

// Record is one flat service record mapping element tags to text content.
// A key whose element was present but empty maps to nil, which keeps "empty"
// distinguishable from "absent".
type Record map[string]*string

// Get returns the value for key, or "" when the key is absent or empty.
func (r Record) Get(key string) string {
	if v, ok := r[key]; ok && v != nil {
		return *v
	}
	return ""
}

// Has reports whether the key appeared as an element, empty or not.
func (r Record) Has(key string) bool {
	_, ok := r[key]
	return ok
}

// recordFromElement maps the element children of el, tag to text. Non-element
// children are skipped; empty text becomes nil.
func recordFromElement(el *etree.Element) Record {
	children := el.ChildElements()
	rec := make(Record, len(children))
	for _, child := range children {
		if text := child.Text(); text != "" {
			v := text
			rec[child.Tag] = &v
		} else {
			rec[child.Tag] = nil
		}
	}
	return rec
}

// collectRecords applies recordFromElement to every element child of el in
// document order.
func collectRecords(el *etree.Element) []Record {
	children := el.ChildElements()
	records := make([]Record, 0, len(children))
	for _, child := range children {
		records = append(records, recordFromElement(child))
	}
	return records
}
