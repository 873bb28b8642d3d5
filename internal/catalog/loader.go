// Package catalog reads component catalogs from JSON, YAML or XLSX
// documents without losing the order of their keys.
package catalog

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"iolist/internal/domain"
)

var (
	errEmptyDocument = errors.New("empty catalog document")
	errNotMapping    = errors.New("catalog document must be a mapping of prefix to component")
	errTrailingData  = errors.New("unexpected data after catalog object")
)

var utf8BOM = []byte("\xef\xbb\xbf")

// entryDocument mirrors one catalog value. IO_Type is kept as a node so
// that numbers and strings are both accepted.
type entryDocument struct {
	Component   string    `yaml:"Component"`
	Subtype     string    `yaml:"Subtype"`
	IOType      yaml.Node `yaml:"IO_Type"`
	Inputs      []string  `yaml:"Inputs"`
	Outputs     []string  `yaml:"Outputs"`
	InputCable  string    `yaml:"Input_Cable"`
	OutputCable string    `yaml:"Output_Cable"`
}

var requiredKeys = []string{domain.KeyComponent, domain.KeySubtype, domain.KeyIOType}

// Parse decodes a JSON or YAML catalog document. Entries that cannot be
// decoded are kept with their defects recorded so that they still claim
// their prefix during matching.
func Parse(data []byte) (*domain.Catalog, error) {
	var root yaml.Node
	if looksLikeJSON(data) {
		doc, err := parseJSON(data)
		if err != nil {
			return nil, fmt.Errorf("decoding catalog: %w", err)
		}
		root = *doc
	} else if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("decoding catalog: %w", err)
	}
	if root.Kind != yaml.DocumentNode || len(root.Content) == 0 {
		return nil, errEmptyDocument
	}
	doc := root.Content[0]
	if doc.Kind != yaml.MappingNode {
		return nil, errNotMapping
	}

	entries := make([]domain.CatalogEntry, 0, len(doc.Content)/2)
	for i := 0; i+1 < len(doc.Content); i += 2 {
		key, value := doc.Content[i], doc.Content[i+1]
		entries = append(entries, domain.CatalogEntry{
			Prefix:     key.Value,
			Definition: decodeEntry(value),
		})
	}
	return domain.NewCatalog(entries), nil
}

func decodeEntry(node *yaml.Node) domain.ComponentDefinition {
	def := domain.ComponentDefinition{Inputs: []string{}, Outputs: []string{}}
	if node.Kind != yaml.MappingNode {
		def.Defects = append(def.Defects, fmt.Sprintf("line %d: entry is not a mapping", node.Line))
		return def
	}

	present := make(map[string]bool, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		present[node.Content[i].Value] = true
	}
	for _, k := range requiredKeys {
		if !present[k] {
			def.Defects = append(def.Defects, "missing "+k)
		}
	}

	var doc entryDocument
	if err := node.Decode(&doc); err != nil {
		def.Defects = append(def.Defects, fmt.Sprintf("line %d: %v", node.Line, err))
		return def
	}

	def.Component = doc.Component
	def.Subtype = doc.Subtype
	def.IOType = scalarInteger(&doc.IOType)
	def.InputCable = doc.InputCable
	def.OutputCable = doc.OutputCable
	if doc.Inputs != nil {
		def.Inputs = doc.Inputs
	}
	if doc.Outputs != nil {
		def.Outputs = doc.Outputs
	}
	return def
}

// scalarInteger renders an IO_Type node as text. Floats are truncated and
// booleans become 0 or 1; strings are left for the aggregator to convert.
func scalarInteger(n *yaml.Node) string {
	if n.Kind != yaml.ScalarNode {
		return ""
	}
	switch n.Tag {
	case "!!float":
		f, err := strconv.ParseFloat(n.Value, 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return n.Value
		}
		return strconv.FormatInt(int64(f), 10)
	case "!!bool":
		var b bool
		if err := n.Decode(&b); err == nil {
			if b {
				return "1"
			}
			return "0"
		}
	case "!!null":
		return ""
	}
	return n.Value
}

func looksLikeJSON(data []byte) bool {
	trimmed := bytes.TrimLeft(data, " \t\r\n\ufeff")
	return len(trimmed) > 0 && trimmed[0] == '{'
}

// jsonTree builds a yaml node tree from a JSON document token by token, so
// that JSON catalogs share the YAML decoding path without going through the
// YAML parser. Duplicate keys keep their first position and last value.
type jsonTree struct {
	dec  *json.Decoder
	data []byte
}

func parseJSON(data []byte) (*yaml.Node, error) {
	data = bytes.TrimPrefix(data, utf8BOM)
	t := &jsonTree{dec: json.NewDecoder(bytes.NewReader(data)), data: data}
	t.dec.UseNumber()

	tok, err := t.dec.Token()
	if err != nil {
		return nil, err
	}
	node, err := t.value(tok)
	if err != nil {
		return nil, err
	}
	if _, err := t.dec.Token(); !errors.Is(err, io.EOF) {
		return nil, errTrailingData
	}
	return &yaml.Node{Kind: yaml.DocumentNode, Line: 1, Content: []*yaml.Node{node}}, nil
}

func (t *jsonTree) line() int {
	off := int(t.dec.InputOffset())
	if off > len(t.data) {
		off = len(t.data)
	}
	return bytes.Count(t.data[:off], []byte{'\n'}) + 1
}

func (t *jsonTree) value(tok json.Token) (*yaml.Node, error) {
	line := t.line()
	switch v := tok.(type) {
	case json.Delim:
		switch v {
		case '{':
			return t.object(line)
		case '[':
			return t.array(line)
		}
		return nil, fmt.Errorf("line %d: unexpected %q", line, v)
	case string:
		return scalarNode("!!str", v, line), nil
	case json.Number:
		tag := "!!int"
		if strings.ContainsAny(v.String(), ".eE") {
			tag = "!!float"
		}
		return scalarNode(tag, v.String(), line), nil
	case bool:
		return scalarNode("!!bool", strconv.FormatBool(v), line), nil
	case nil:
		return scalarNode("!!null", "null", line), nil
	}
	return nil, fmt.Errorf("line %d: unexpected token %v", line, tok)
}

func (t *jsonTree) object(line int) (*yaml.Node, error) {
	node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map", Line: line}
	index := make(map[string]int)
	for t.dec.More() {
		tok, err := t.dec.Token()
		if err != nil {
			return nil, err
		}
		key, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("line %d: object key is not a string", t.line())
		}
		keyNode := scalarNode("!!str", key, t.line())

		tok, err = t.dec.Token()
		if err != nil {
			return nil, err
		}
		val, err := t.value(tok)
		if err != nil {
			return nil, err
		}
		if i, dup := index[key]; dup {
			node.Content[i+1] = val
			continue
		}
		index[key] = len(node.Content)
		node.Content = append(node.Content, keyNode, val)
	}
	if _, err := t.dec.Token(); err != nil {
		return nil, err
	}
	return node, nil
}

func (t *jsonTree) array(line int) (*yaml.Node, error) {
	node := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq", Line: line}
	for t.dec.More() {
		tok, err := t.dec.Token()
		if err != nil {
			return nil, err
		}
		val, err := t.value(tok)
		if err != nil {
			return nil, err
		}
		node.Content = append(node.Content, val)
	}
	if _, err := t.dec.Token(); err != nil {
		return nil, err
	}
	return node, nil
}

func scalarNode(tag, value string, line int) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: tag, Value: value, Line: line}
}
