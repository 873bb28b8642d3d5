package iolist_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"iolist/internal/domain"
	"iolist/internal/iolist"
)

func catalogOf(prefixes ...string) *domain.Catalog {
	entries := make([]domain.CatalogEntry, 0, len(prefixes))
	for _, p := range prefixes {
		entries = append(entries, domain.CatalogEntry{
			Prefix:     p,
			Definition: domain.ComponentDefinition{Component: p, Subtype: "io", IOType: "1"},
		})
	}
	return domain.NewCatalog(entries)
}

func TestMatchPrefix_DirectPrefix(t *testing.T) {
	cat := catalogOf("FOO", "BAR")

	prefix, ok := iolist.MatchPrefix("BAR_00123", cat)

	assert.True(t, ok)
	assert.Equal(t, "BAR", prefix)
}

func TestMatchPrefix_FirstInCatalogOrderWins(t *testing.T) {
	short := catalogOf("FO", "FOO")
	long := catalogOf("FOO", "FO")

	p1, ok1 := iolist.MatchPrefix("FOO_00123", short)
	p2, ok2 := iolist.MatchPrefix("FOO_00123", long)

	assert.True(t, ok1)
	assert.True(t, ok2)
	assert.Equal(t, "FO", p1)
	assert.Equal(t, "FOO", p2)
}

func TestMatchPrefix_SiemensSubstring(t *testing.T) {
	cat := catalogOf("FOO", "200U")

	prefix, ok := iolist.MatchPrefix("=Z01+01055-200U0", cat)

	assert.True(t, ok)
	assert.Equal(t, "200U", prefix)
}

func TestMatchPrefix_SiemensSubstringIgnoresMarkers(t *testing.T) {
	// "Z0101055" only exists once '=' and '+' are stripped.
	cat := catalogOf("Z0101055")

	prefix, ok := iolist.MatchPrefix("=Z01+01055-200U0", cat)

	assert.True(t, ok)
	assert.Equal(t, "Z0101055", prefix)
}

func TestMatchPrefix_SubstringOnlyForSiemens(t *testing.T) {
	cat := catalogOf("200U")

	_, ok := iolist.MatchPrefix("X-200U0", cat)

	assert.False(t, ok)
}

func TestMatchPrefix_NoMatch(t *testing.T) {
	_, ok := iolist.MatchPrefix("XYZ", catalogOf("FOO"))
	assert.False(t, ok)
}

func TestMatchPrefix_EmptyCatalog(t *testing.T) {
	_, ok := iolist.MatchPrefix("FOO", domain.NewCatalog(nil))
	assert.False(t, ok)
}
