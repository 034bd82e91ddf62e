package layout

import (
	"strconv"
	"strings"
)

// This file defines unit-safe types for font sizes and line heights as they
// appear in scene files. Layout itself works in pixels.

// Unit is the unit a length was written with in a scene file.
type Unit int

const (
	UnitNone Unit = iota // unit-less numbers like factors
	UnitPX               // CSS pixels
	UnitPT               // points
)

// Conversion constants between pt and px (CSS reference: 96px per inch).
const (
	PtToPx = 96.0 / 72.0
	PxToPt = 1.0 / PtToPx
)

// UnitToString returns a short string for a Unit value.
func UnitToString(u Unit) string {
	switch u {
	case UnitPX:
		return "px"
	case UnitPT:
		return "pt"
	default:
		return ""
	}
}

// Length preserves a numeric value with its unit.
type Length struct {
	Value float64 `json:"value"`
	Unit  Unit    `json:"unit"`
}

func (l Length) IsZero() bool { return l.Value == 0 }

// ToPX converts to pixels. Unit-less values are taken as pixels already.
func (l Length) ToPX() float64 {
	if l.Unit == UnitPT {
		return l.Value * PtToPx
	}
	return l.Value
}

// ParseLength parses "64px", "36pt" or a bare number.
func ParseLength(value string) (Length, bool) {
	lower := strings.ToLower(strings.TrimSpace(value))
	if lower == "" {
		return Length{}, false
	}
	unit := UnitNone
	num := lower
	for _, suf := range []struct {
		s string
		u Unit
	}{{"px", UnitPX}, {"pt", UnitPT}} {
		if strings.HasSuffix(lower, suf.s) {
			unit = suf.u
			num = strings.TrimSpace(strings.TrimSuffix(lower, suf.s))
			break
		}
	}
	f, err := strconv.ParseFloat(num, 64)
	if err != nil {
		return Length{}, false
	}
	return Length{Value: f, Unit: unit}, true
}

// LineHeightKind distinguishes factor-based vs absolute line-height specification.
type LineHeightKind int

const (
	LineHeightFactor LineHeightKind = iota
	LineHeightAbsolute
)

// LineHeightSpec preserves author intent: a factor (1.4x) or an absolute length (90px).
type LineHeightSpec struct {
	Kind   LineHeightKind `json:"kind"`
	Factor float64        `json:"factor,omitempty"`
	Len    Length         `json:"len,omitempty"`
}

// ParseLineHeight accepts "1.4x", "1.4" (factor) or "90px"/"60pt" (absolute).
func ParseLineHeight(value string) (LineHeightSpec, bool) {
	v := strings.ToLower(strings.TrimSpace(value))
	if strings.HasSuffix(v, "x") && !strings.HasSuffix(v, "px") {
		f, err := strconv.ParseFloat(strings.TrimSuffix(v, "x"), 64)
		if err != nil || f <= 0 {
			return LineHeightSpec{}, false
		}
		return LineHeightSpec{Kind: LineHeightFactor, Factor: f}, true
	}
	l, ok := ParseLength(v)
	if !ok || l.Value <= 0 {
		return LineHeightSpec{}, false
	}
	if l.Unit == UnitNone {
		return LineHeightSpec{Kind: LineHeightFactor, Factor: l.Value}, true
	}
	return LineHeightSpec{Kind: LineHeightAbsolute, Len: l}, true
}

// FactorFor resolves the spec into a line-height factor for the given font size (px).
func (s LineHeightSpec) FactorFor(fontSizePX float64) float64 {
	switch s.Kind {
	case LineHeightFactor:
		if s.Factor > 0 {
			return s.Factor
		}
	case LineHeightAbsolute:
		if fontSizePX > 0 {
			return s.Len.ToPX() / fontSizePX
		}
	}
	return DefaultLineHeightFactor
}
