package model

import "strconv"

type valueKind uint8

const (
	kindMissing valueKind = iota
	kindText
	kindNumber
)

// RawValue is a source cell before normalization: decorated text, an
// already numeric value, or nothing at all.
type RawValue struct {
	kind valueKind
	text string
	num  float64
}

func Missing() RawValue {
	return RawValue{}
}

func Text(s string) RawValue {
	return RawValue{kind: kindText, text: s}
}

func Number(f float64) RawValue {
	return RawValue{kind: kindNumber, num: f}
}

// naMarkers are the usual spellings of an absent value in CSV exports.
// InsideAirbnb writes "N/A" for unknown host response rates.
var naMarkers = map[string]struct{}{
	"":         {},
	"#N/A":     {},
	"#N/A N/A": {},
	"#NA":      {},
	"-1.#IND":  {},
	"-1.#QNAN": {},
	"-NaN":     {},
	"-nan":     {},
	"1.#IND":   {},
	"1.#QNAN":  {},
	"<NA>":     {},
	"N/A":      {},
	"NA":       {},
	"NULL":     {},
	"NaN":      {},
	"None":     {},
	"n/a":      {},
	"nan":      {},
	"null":     {},
}

// IsNA reports whether a raw CSV cell marks an absent value.
func IsNA(s string) bool {
	_, ok := naMarkers[s]
	return ok
}

// Cell maps a CSV cell to a RawValue. Empty cells and NA markers are missing.
func Cell(s string) RawValue {
	if IsNA(s) {
		return Missing()
	}
	return Text(s)
}

func (v RawValue) IsMissing() bool {
	return v.kind == kindMissing
}

// AsText reports the text form and whether the value came in as text.
func (v RawValue) AsText() (string, bool) {
	return v.text, v.kind == kindText
}

// AsNumber reports the numeric form and whether the value came in as a number.
func (v RawValue) AsNumber() (float64, bool) {
	return v.num, v.kind == kindNumber
}

func (v RawValue) String() string {
	switch v.kind {
	case kindText:
		return v.text
	case kindNumber:
		return strconv.FormatFloat(v.num, 'f', -1, 64)
	default:
		return ""
	}
}
