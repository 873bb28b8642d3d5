package catalog

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"iolist/internal/domain"
)

// Workbook column headers. Matching ignores case and surrounding spaces.
const (
	ColPrefix      = "Prefix"
	ColInputs      = "Inputs"
	ColOutputs     = "Outputs"
	ColInputCable  = "Input_Cable"
	ColOutputCable = "Output_Cable"
)

var errNoPrefixColumn = errors.New("catalog sheet has no Prefix column")

var zipMagic = []byte("PK\x03\x04")

// Decode reads a catalog document in any supported format: an XLSX
// workbook, or JSON or YAML text.
func Decode(data []byte) (*domain.Catalog, error) {
	if bytes.HasPrefix(data, zipMagic) {
		return ParseWorkbook(bytes.NewReader(data))
	}
	return Parse(data)
}

// ParseWorkbook reads a catalog from the first sheet of an XLSX workbook.
// Row 1 holds headers; every later row with a prefix becomes an entry.
// Inputs and Outputs cells list one template per line or separated by ';'.
func ParseWorkbook(r io.Reader) (*domain.Catalog, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("opening catalog workbook: %w", err)
	}
	defer func() { _ = f.Close() }()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, errEmptyDocument
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("reading sheet %s: %w", sheets[0], err)
	}
	if len(rows) == 0 {
		return nil, errEmptyDocument
	}

	cols := make(map[string]int, len(rows[0]))
	for i, h := range rows[0] {
		cols[strings.ToLower(strings.TrimSpace(h))] = i
	}
	prefixCol, ok := cols[strings.ToLower(ColPrefix)]
	if !ok {
		return nil, errNoPrefixColumn
	}

	cell := func(row []string, name string) (string, bool) {
		i, ok := cols[strings.ToLower(name)]
		if !ok || i >= len(row) {
			return "", false
		}
		v := strings.TrimSpace(row[i])
		return v, v != ""
	}

	var entries []domain.CatalogEntry
	for n, row := range rows[1:] {
		if prefixCol >= len(row) || strings.TrimSpace(row[prefixCol]) == "" {
			continue
		}
		def := domain.ComponentDefinition{Inputs: []string{}, Outputs: []string{}}
		for _, k := range requiredKeys {
			v, ok := cell(row, k)
			if !ok {
				def.Defects = append(def.Defects, fmt.Sprintf("row %d: missing %s", n+2, k))
				continue
			}
			switch k {
			case domain.KeyComponent:
				def.Component = v
			case domain.KeySubtype:
				def.Subtype = v
			case domain.KeyIOType:
				def.IOType = v
			}
		}
		if v, ok := cell(row, ColInputs); ok {
			def.Inputs = splitTemplates(v)
		}
		if v, ok := cell(row, ColOutputs); ok {
			def.Outputs = splitTemplates(v)
		}
		def.InputCable, _ = cell(row, ColInputCable)
		def.OutputCable, _ = cell(row, ColOutputCable)

		entries = append(entries, domain.CatalogEntry{
			Prefix:     strings.TrimSpace(row[prefixCol]),
			Definition: def,
		})
	}
	if len(entries) == 0 {
		return nil, errEmptyDocument
	}
	return domain.NewCatalog(entries), nil
}

func splitTemplates(s string) []string {
	out := []string{}
	for _, part := range strings.FieldsFunc(s, func(r rune) bool { return r == '\n' || r == ';' }) {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
