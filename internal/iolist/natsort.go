package iolist

import (
	"sort"
	"strings"

	"iolist/internal/domain"
)

// naturalRuns splits s into alternating non-digit and digit runs. The
// result always starts and ends with a (possibly empty) non-digit run, so
// digit runs sit at odd indices.
func naturalRuns(s string) []string {
	runs := make([]string, 0, 4)
	start, inDigits := 0, false
	for i := 0; i < len(s); i++ {
		isDigit := s[i] >= '0' && s[i] <= '9'
		if isDigit != inDigits {
			runs = append(runs, s[start:i])
			start, inDigits = i, isDigit
		}
	}
	runs = append(runs, s[start:])
	if inDigits {
		runs = append(runs, "")
	}
	return runs
}

// compareDigitRuns compares two ASCII digit strings by numeric value.
func compareDigitRuns(a, b string) int {
	a = strings.TrimLeft(a, "0")
	b = strings.TrimLeft(b, "0")
	if len(a) != len(b) {
		if len(a) < len(b) {
			return -1
		}
		return 1
	}
	return strings.Compare(a, b)
}

// CompareNatural orders strings by their digit runs numerically and their
// other runs case-insensitively, so "2.00100" sorts before "10.00050".
func CompareNatural(a, b string) int {
	ra, rb := naturalRuns(a), naturalRuns(b)
	for i := 0; i < len(ra) && i < len(rb); i++ {
		var c int
		if i%2 == 1 {
			c = compareDigitRuns(ra[i], rb[i])
		} else {
			c = strings.Compare(strings.ToLower(ra[i]), strings.ToLower(rb[i]))
		}
		if c != 0 {
			return c
		}
	}
	switch {
	case len(ra) < len(rb):
		return -1
	case len(ra) > len(rb):
		return 1
	}
	return 0
}

// SortDevices orders the inventory by position in natural order. Devices
// with equal positions keep their stream order.
func SortDevices(devices []domain.IODevice) {
	sort.SliceStable(devices, func(i, j int) bool {
		return CompareNatural(devices[i].Position, devices[j].Position) < 0
	})
}
