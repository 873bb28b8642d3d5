package iolist_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"iolist/internal/domain"
	"iolist/internal/iolist"
)

func TestCompareNatural(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"2.00100", "10.00050", -1},
		{"10.00010", "2.00020", 1},
		{"2.00005", "2.00020", -1},
		{"02.00005", "2.00005", 0},
		{"abc", "ABC", 0},
		{"ABC", "01.00000", 1},
		{"a1", "a1b", -1},
		{"", "1", -1},
	}
	for _, tt := range tests {
		t.Run(tt.a+"_vs_"+tt.b, func(t *testing.T) {
			assert.Equal(t, tt.want, iolist.CompareNatural(tt.a, tt.b))
		})
	}
}

func TestSortDevices(t *testing.T) {
	devices := []domain.IODevice{
		{Sequence: 1, Position: "10.00010"},
		{Sequence: 2, Position: "2.00020"},
		{Sequence: 3, Position: "2.00005"},
	}

	iolist.SortDevices(devices)

	var got []string
	for _, d := range devices {
		got = append(got, d.Position)
	}
	assert.Equal(t, []string{"2.00005", "2.00020", "10.00010"}, got)
}

func TestSortDevices_StableForEqualPositions(t *testing.T) {
	devices := []domain.IODevice{
		{Sequence: 1, Position: "01.00000"},
		{Sequence: 2, Position: "00.10000"},
		{Sequence: 3, Position: "01.00000"},
	}

	iolist.SortDevices(devices)

	assert.Equal(t, 2, devices[0].Sequence)
	assert.Equal(t, 1, devices[1].Sequence)
	assert.Equal(t, 3, devices[2].Sequence)
}
