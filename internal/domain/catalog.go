package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// ComponentDefinition describes one catalog entry. Inputs and Outputs are
// name templates using the {full_text}, {position} and {num} placeholders.
type ComponentDefinition struct {
	Component   string   `json:"Component" yaml:"Component"`
	Subtype     string   `json:"Subtype" yaml:"Subtype"`
	IOType      string   `json:"IO_Type" yaml:"IO_Type"`
	Inputs      []string `json:"Inputs" yaml:"Inputs"`
	Outputs     []string `json:"Outputs" yaml:"Outputs"`
	InputCable  string   `json:"Input_Cable" yaml:"Input_Cable"`
	OutputCable string   `json:"Output_Cable" yaml:"Output_Cable"`

	// Defects lists problems found while loading the entry, such as a
	// missing required key.
	Defects []string `json:"-" yaml:"-"`
}

// Required catalog keys.
const (
	KeyComponent = "Component"
	KeySubtype   = "Subtype"
	KeyIOType    = "IO_Type"
)

// Check reports a definition that cannot produce an inventory row.
func (d *ComponentDefinition) Check() error {
	if len(d.Defects) > 0 {
		return fmt.Errorf("invalid catalog entry: %s", strings.Join(d.Defects, "; "))
	}
	return nil
}

// CatalogEntry pairs a recognition prefix with its definition.
type CatalogEntry struct {
	Prefix     string
	Definition ComponentDefinition
}

// Catalog is an ordered prefix -> definition mapping. Iteration order is
// the order of the source document and decides which prefix wins.
type Catalog struct {
	entries []CatalogEntry
	index   map[string]int
}

// NewCatalog builds a catalog. A repeated prefix keeps its first position
// and takes the last definition.
func NewCatalog(entries []CatalogEntry) *Catalog {
	c := &Catalog{index: make(map[string]int, len(entries))}
	for _, e := range entries {
		c.put(e)
	}
	return c
}

func (c *Catalog) put(e CatalogEntry) {
	if i, ok := c.index[e.Prefix]; ok {
		c.entries[i].Definition = e.Definition
		return
	}
	c.index[e.Prefix] = len(c.entries)
	c.entries = append(c.entries, e)
}

// Entries returns the entries in catalog order.
func (c *Catalog) Entries() []CatalogEntry {
	if c == nil {
		return nil
	}
	return c.entries
}

// Lookup returns the definition registered for prefix.
func (c *Catalog) Lookup(prefix string) (*ComponentDefinition, bool) {
	if c == nil {
		return nil, false
	}
	i, ok := c.index[prefix]
	if !ok {
		return nil, false
	}
	return &c.entries[i].Definition, true
}

// Len returns the number of prefixes.
func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.entries)
}

// MarshalJSON writes the catalog as a JSON object in catalog order.
func (c *Catalog) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, e := range c.Entries() {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(e.Prefix)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(e.Definition)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
