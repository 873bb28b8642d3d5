package dxf

import (
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"

	"iolist/internal/domain"
)

const (
	sectionHeader   = "HEADER"
	sectionEntities = "ENTITIES"

	varACADVer  = "$ACADVER"
	varCodePage = "$DWGCODEPAGE"

	// unicodeVersion is the first release (AutoCAD 2007) that stores text
	// as UTF-8.
	unicodeVersion = "AC1021"
)

var codePages = map[string]*charmap.Charmap{
	"ANSI_874":  charmap.Windows874,
	"ANSI_1250": charmap.Windows1250,
	"ANSI_1251": charmap.Windows1251,
	"ANSI_1252": charmap.Windows1252,
	"ANSI_1253": charmap.Windows1253,
	"ANSI_1254": charmap.Windows1254,
	"ANSI_1255": charmap.Windows1255,
	"ANSI_1256": charmap.Windows1256,
	"ANSI_1257": charmap.Windows1257,
	"ANSI_1258": charmap.Windows1258,
}

var unicodeEscape = regexp.MustCompile(`\\U\+([0-9A-Fa-f]{4})`)

type entityState struct {
	typ     string
	layer   string
	block   string
	text    string
	paper   bool
	attribs []string
}

func (e *entityState) apply(pr pair) {
	switch pr.code {
	case codeLayer:
		e.layer = pr.value
	case codeName:
		if e.typ == domain.EntityTypeInsert {
			e.block = pr.value
		}
	case codeText:
		e.text = pr.value
	case codePaperSpace:
		e.paper = strings.TrimSpace(pr.value) == "1"
	}
}

// parser is the section/entity state machine fed one pair at a time.
type parser struct {
	section         string
	inSection       bool
	wantSectionName bool
	sawEntities     bool
	sawEOF          bool

	headerVar string
	acadVer   string
	codePage  string
	decoder   *encoding.Decoder
	decoderOK bool

	cur      *entityState
	insert   *entityState
	entities []domain.Entity
}

func newParser() *parser {
	return &parser{}
}

// feed consumes one pair and reports whether the EOF marker was reached.
func (p *parser) feed(pr pair) bool {
	if pr.code == codeEntityType {
		switch pr.value {
		case "SECTION":
			p.closeEntity()
			p.inSection = true
			p.wantSectionName = true
			return false
		case "ENDSEC":
			p.closeEntity()
			p.flushInsert()
			p.inSection = false
			p.section = ""
			return false
		case "EOF":
			p.closeEntity()
			p.flushInsert()
			p.sawEOF = true
			return true
		}
		if p.section == sectionEntities {
			p.closeEntity()
			p.cur = &entityState{typ: strings.ToUpper(strings.TrimSpace(pr.value))}
		}
		return false
	}

	if p.wantSectionName && pr.code == codeName {
		p.section = strings.ToUpper(strings.TrimSpace(pr.value))
		p.wantSectionName = false
		if p.section == sectionEntities {
			p.sawEntities = true
		}
		return false
	}

	switch p.section {
	case sectionHeader:
		p.headerPair(pr)
	case sectionEntities:
		if p.cur != nil {
			p.cur.apply(pr)
		}
	}
	return false
}

func (p *parser) headerPair(pr pair) {
	if pr.code == codeVariable {
		p.headerVar = strings.TrimSpace(pr.value)
		return
	}
	switch {
	case p.headerVar == varACADVer && pr.code == codeText:
		p.acadVer = strings.TrimSpace(pr.value)
	case p.headerVar == varCodePage && pr.code == codeTextExtra:
		p.codePage = strings.ToUpper(strings.TrimSpace(pr.value))
	}
}

// closeEntity finishes the entity under construction. ATTRIBs attach to
// the open INSERT; SEQEND or any other entity closes it.
func (p *parser) closeEntity() {
	c := p.cur
	p.cur = nil
	if c == nil {
		return
	}
	switch c.typ {
	case domain.EntityTypeAttrib:
		if p.insert != nil {
			p.insert.attribs = append(p.insert.attribs, c.text)
		}
	case "SEQEND":
		p.flushInsert()
	case domain.EntityTypeInsert:
		p.flushInsert()
		p.insert = c
	default:
		p.flushInsert()
		p.emit(c)
	}
}

func (p *parser) flushInsert() {
	if p.insert == nil {
		return
	}
	p.emit(p.insert)
	p.insert = nil
}

// emit appends a model-space entity with its texts decoded.
func (p *parser) emit(c *entityState) {
	if c.paper {
		return
	}
	e := domain.Entity{
		Type:      c.typ,
		Layer:     p.decode(c.layer),
		BlockName: p.decode(c.block),
	}
	if c.typ == domain.EntityTypeInsert {
		e.Attributes = make([]string, 0, len(c.attribs))
		for _, a := range c.attribs {
			e.Attributes = append(e.Attributes, p.decode(a))
		}
	}
	p.entities = append(p.entities, e)
}

func (p *parser) textDecoder() *encoding.Decoder {
	if p.decoderOK {
		return p.decoder
	}
	p.decoderOK = true
	if p.acadVer == "" || p.acadVer >= unicodeVersion {
		return nil
	}
	if cm, ok := codePages[p.codePage]; ok {
		p.decoder = cm.NewDecoder()
	}
	return p.decoder
}

func (p *parser) decode(s string) string {
	if s == "" {
		return s
	}
	if dec := p.textDecoder(); dec != nil {
		if out, err := dec.String(s); err == nil {
			s = out
		}
	}
	return unescapeUnicode(s)
}

// unescapeUnicode replaces \U+XXXX sequences with the code point.
func unescapeUnicode(s string) string {
	if !strings.Contains(s, `\U+`) {
		return s
	}
	return unicodeEscape.ReplaceAllStringFunc(s, func(m string) string {
		n, err := strconv.ParseUint(m[3:], 16, 32)
		if err != nil {
			return m
		}
		return string(rune(n))
	})
}

func (p *parser) finish() ([]domain.Entity, error) {
	if p.inSection && !p.sawEOF {
		return nil, ErrUnclosedSection
	}
	if !p.sawEntities {
		return nil, ErrNoEntities
	}
	if p.entities == nil {
		return []domain.Entity{}, nil
	}
	return p.entities, nil
}
