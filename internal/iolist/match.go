package iolist

import (
	"strings"

	"iolist/internal/domain"
)

// MatchPrefix returns the first catalog prefix, in catalog order, that
// recognizes text. A prefix recognizes text when text starts with it or,
// for Siemens-style texts, when it occurs anywhere in text once '=' and '+'
// are removed.
func MatchPrefix(text string, catalog *domain.Catalog) (string, bool) {
	siemens := IsSiemensStyle(text)
	var cleaned string
	if siemens {
		cleaned = strings.NewReplacer("=", "", "+", "").Replace(text)
	}

	for _, e := range catalog.Entries() {
		if strings.HasPrefix(text, e.Prefix) {
			return e.Prefix, true
		}
		if siemens && strings.Contains(cleaned, e.Prefix) {
			return e.Prefix, true
		}
	}
	return "", false
}
