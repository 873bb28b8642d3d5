package iolist

import (
	"strings"
	"unicode"
)

// siemensMarker opens a Siemens-style reference designation such as
// =Z01+01055-200U0.
const siemensMarker = "=Z"

// positionWidth is the digit count of a canonical position code: two for
// the area, five for the location.
const (
	areaDigits     = 2
	locationDigits = 5
	positionWidth  = areaDigits + locationDigits
)

// IsSiemensStyle reports whether text uses the =Z...+NNNNN-... dialect.
func IsSiemensStyle(text string) bool {
	return strings.HasPrefix(text, siemensMarker)
}

// NormalizePosition converts an attribute text matched by prefix into an
// "AA.BBBBB" position code. Siemens-style texts that lack the +/- segment
// come back unchanged; texts without any digit after the prefix yield the
// prefix itself.
func NormalizePosition(text, prefix string) string {
	if IsSiemensStyle(text) {
		return normalizeSiemens(text)
	}

	rest := text
	if strings.HasPrefix(text, prefix+"_") {
		rest = text[len(prefix)+1:]
	} else if len(prefix) <= len(text) {
		rest = text[len(prefix):]
	}

	digits := extractDigits(rest)
	switch n := len(digits); {
	case n == 0:
		return prefix
	case n >= positionWidth:
		return string(digits[:areaDigits]) + "." + string(digits[areaDigits:positionWidth])
	case n >= areaDigits:
		return string(digits[:areaDigits]) + "." + padRight(string(digits[areaDigits:]), locationDigits)
	default:
		padded := []rune(padRight(string(digits), positionWidth))
		return string(padded[:areaDigits]) + "." + string(padded[areaDigits:positionWidth])
	}
}

// normalizeSiemens takes the block between the first '+' and the next '-'.
func normalizeSiemens(text string) string {
	parts := strings.Split(text, "+")
	if len(parts) < 2 {
		return text
	}
	block := []rune(strings.Split(parts[1], "-")[0])
	if len(block) <= areaDigits {
		return string(block) + "." + padRight("", locationDigits)
	}
	return string(block[:areaDigits]) + "." + padRight(string(block[areaDigits:]), locationDigits)
}

// otherDigits lists the characters outside category Nd whose numeric type
// is Digit: superscripts, subscripts and the circled, parenthesized and
// punctuated digit forms. They count as digits alongside Nd.
var otherDigits = &unicode.RangeTable{
	R16: []unicode.Range16{
		{Lo: 0x00b2, Hi: 0x00b3, Stride: 1},
		{Lo: 0x00b9, Hi: 0x00b9, Stride: 1},
		{Lo: 0x1369, Hi: 0x1371, Stride: 1},
		{Lo: 0x19da, Hi: 0x19da, Stride: 1},
		{Lo: 0x2070, Hi: 0x2070, Stride: 1},
		{Lo: 0x2074, Hi: 0x2079, Stride: 1},
		{Lo: 0x2080, Hi: 0x2089, Stride: 1},
		{Lo: 0x2460, Hi: 0x2468, Stride: 1},
		{Lo: 0x2474, Hi: 0x247c, Stride: 1},
		{Lo: 0x2488, Hi: 0x2490, Stride: 1},
		{Lo: 0x24ea, Hi: 0x24ea, Stride: 1},
		{Lo: 0x24f5, Hi: 0x24fd, Stride: 1},
		{Lo: 0x24ff, Hi: 0x24ff, Stride: 1},
		{Lo: 0x2776, Hi: 0x277e, Stride: 1},
		{Lo: 0x2780, Hi: 0x2788, Stride: 1},
		{Lo: 0x278a, Hi: 0x2792, Stride: 1},
	},
	R32: []unicode.Range32{
		{Lo: 0x10a40, Hi: 0x10a43, Stride: 1},
		{Lo: 0x10e60, Hi: 0x10e68, Stride: 1},
		{Lo: 0x11052, Hi: 0x1105a, Stride: 1},
		{Lo: 0x1e8c7, Hi: 0x1e8cf, Stride: 1},
		{Lo: 0x1f100, Hi: 0x1f10a, Stride: 1},
	},
	LatinOffset: 2,
}

func extractDigits(s string) []rune {
	var digits []rune
	for _, r := range s {
		if unicode.IsDigit(r) || unicode.Is(otherDigits, r) {
			digits = append(digits, r)
		}
	}
	return digits
}

// padRight appends '0' until s is width runes long. Longer strings are
// returned as they are.
func padRight(s string, width int) string {
	n := len([]rune(s))
	if n >= width {
		return s
	}
	return s + strings.Repeat("0", width-n)
}
