package dxf_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"iolist/internal/domain"
	"iolist/internal/dxf"
)

// drawing joins code/value pairs into DXF text.
func drawing(pairs ...string) string {
	var b strings.Builder
	for i := 0; i+1 < len(pairs); i += 2 {
		b.WriteString("  " + pairs[i] + "\r\n")
		b.WriteString(pairs[i+1] + "\r\n")
	}
	return b.String()
}

func insertWithAttribs(layer, block string, texts ...string) []string {
	pairs := []string{"0", "INSERT", "8", layer, "2", block, "66", "1"}
	for _, t := range texts {
		pairs = append(pairs, "0", "ATTRIB", "8", layer, "2", "TAG", "1", t)
	}
	return append(pairs, "0", "SEQEND", "8", layer)
}

func entitiesSection(body ...[]string) []string {
	pairs := []string{"0", "SECTION", "2", "ENTITIES"}
	for _, b := range body {
		pairs = append(pairs, b...)
	}
	return append(pairs, "0", "ENDSEC")
}

func read(t *testing.T, src string) ([]domain.Entity, error) {
	t.Helper()
	return dxf.NewReader().Read(context.Background(), strings.NewReader(src))
}

func TestRead_InsertsAndAttributesInFileOrder(t *testing.T) {
	var pairs []string
	pairs = append(pairs, entitiesSection(
		insertWithAttribs("0_SA-Comp_Profinet", "SENSOR", "FOO_00123", "note"),
		[]string{"0", "LINE", "8", "GEOM", "10", "0.0"},
		insertWithAttribs("0_SA-Comp_Safety", "ESTOP", "XYZ"),
		[]string{"0", "INSERT", "8", "0", "2", "FRAME"},
	)...)
	pairs = append(pairs, "0", "EOF")

	entities, err := read(t, drawing(pairs...))

	require.NoError(t, err)
	require.Len(t, entities, 4)
	assert.Equal(t, domain.Entity{
		Type: "INSERT", Layer: "0_SA-Comp_Profinet", BlockName: "SENSOR",
		Attributes: []string{"FOO_00123", "note"},
	}, entities[0])
	assert.Equal(t, "LINE", entities[1].Type)
	assert.Equal(t, []string{"XYZ"}, entities[2].Attributes)
	assert.Equal(t, "FRAME", entities[3].BlockName)
	assert.Empty(t, entities[3].Attributes)
}

func TestRead_SkipsPaperSpaceAndOtherSections(t *testing.T) {
	pairs := []string{
		"0", "SECTION", "2", "BLOCKS",
		"0", "BLOCK", "2", "SENSOR", "0", "ATTDEF", "1", "default", "0", "ENDBLK",
		"0", "ENDSEC",
	}
	pairs = append(pairs, entitiesSection(
		[]string{"0", "INSERT", "8", "L", "2", "PAPER", "67", "1", "0", "ATTRIB", "1", "FOO_1", "0", "SEQEND"},
		insertWithAttribs("L", "MODEL", "FOO_2"),
	)...)
	pairs = append(pairs, "0", "EOF")

	entities, err := read(t, drawing(pairs...))

	require.NoError(t, err)
	require.Len(t, entities, 1)
	assert.Equal(t, "MODEL", entities[0].BlockName)
	assert.Equal(t, []string{"FOO_2"}, entities[0].Attributes)
}

func TestRead_DecodesLegacyCodePage(t *testing.T) {
	pairs := []string{
		"0", "SECTION", "2", "HEADER",
		"9", "$ACADVER", "1", "AC1015",
		"9", "$DWGCODEPAGE", "3", "ANSI_1252",
		"0", "ENDSEC",
	}
	// 0xE4 is "ä" in Windows-1252.
	pairs = append(pairs, entitiesSection(insertWithAttribs("L", "B", "K\xe4fig \\U+00B0"))...)
	pairs = append(pairs, "0", "EOF")

	entities, err := read(t, drawing(pairs...))

	require.NoError(t, err)
	require.Len(t, entities, 1)
	assert.Equal(t, []string{"Käfig °"}, entities[0].Attributes)
}

func TestRead_UTF8ForModernVersions(t *testing.T) {
	pairs := []string{
		"0", "SECTION", "2", "HEADER",
		"9", "$ACADVER", "1", "AC1027",
		"9", "$DWGCODEPAGE", "3", "ANSI_1252",
		"0", "ENDSEC",
	}
	pairs = append(pairs, entitiesSection(insertWithAttribs("L", "B", "Käfig"))...)
	pairs = append(pairs, "0", "EOF")

	entities, err := read(t, drawing(pairs...))

	require.NoError(t, err)
	assert.Equal(t, []string{"Käfig"}, entities[0].Attributes)
}

func TestRead_EmptyEntitiesSection(t *testing.T) {
	entities, err := read(t, drawing(append(entitiesSection(), "0", "EOF")...))

	require.NoError(t, err)
	assert.NotNil(t, entities)
	assert.Empty(t, entities)
}

func lineOf(err error) int {
	var lined interface{ LineNumber() int }
	if errors.As(err, &lined) {
		return lined.LineNumber()
	}
	return 0
}

func TestRead_Errors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want error
		line int
	}{
		{"binary", "AutoCAD Binary DXF\r\n\x1a\x00", dxf.ErrBinaryDXF, 0},
		{"no entities", drawing("0", "SECTION", "2", "HEADER", "0", "ENDSEC", "0", "EOF"), dxf.ErrNoEntities, 0},
		{"unclosed", drawing("0", "SECTION", "2", "ENTITIES", "0", "INSERT"), dxf.ErrUnclosedSection, 0},
		{"bad group code", "  0\nSECTION\nabc\nENTITIES\n", dxf.ErrInvalidGroupCode, 3},
		{"truncated", "  0\nSECTION\n  2\n", dxf.ErrTruncated, 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entities, err := read(t, tt.src)

			assert.Nil(t, entities)
			assert.True(t, errors.Is(err, tt.want), "got %v", err)
			assert.Equal(t, tt.line, lineOf(err))
		})
	}
}

func TestRead_HonorsCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := dxf.NewReader().Read(ctx, strings.NewReader(drawing(entitiesSection()...)))

	assert.ErrorIs(t, err, context.Canceled)
}
