package layout

import (
	"fmt"
	"strconv"
	"strings"
)

// This file defines unit-safe lengths. Layout works in pixels of the page
// raster, physical sizes are resolved against the output DPI.

// Unit represents the unit a length was written in.
type Unit int

const (
	UnitNone Unit = iota // unit-less numbers, read as pixels
	UnitPX               // raster pixels
	UnitMM               // millimeters
	UnitCM               // centimeters
	UnitIN               // inches
	UnitPT               // points
)

// Conversion constants between pt, mm and inches.
const (
	PtToMm  = 0.352777
	MmToPt  = 1.0 / PtToMm
	MmPerIn = 25.4
)

// UnitToString returns a short string for a Unit value.
func UnitToString(u Unit) string {
	switch u {
	case UnitPX:
		return "px"
	case UnitMM:
		return "mm"
	case UnitCM:
		return "cm"
	case UnitIN:
		return "in"
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

// ToMM converts the length to millimeters, pixels are resolved at dpi.
func (l Length) ToMM(dpi float64) float64 {
	switch l.Unit {
	case UnitMM:
		return l.Value
	case UnitCM:
		return l.Value * 10
	case UnitIN:
		return l.Value * MmPerIn
	case UnitPT:
		return l.Value * PtToMm
	default:
		return PxToMm(l.Value, dpi)
	}
}

// ToPX converts the length to raster pixels at dpi.
func (l Length) ToPX(dpi float64) float64 {
	switch l.Unit {
	case UnitPX, UnitNone:
		return l.Value
	case UnitIN:
		return l.Value * dpi
	default:
		return l.ToMM(dpi) * dpi / MmPerIn
	}
}

func (l Length) String() string {
	u := UnitToString(l.Unit)
	if u == "" {
		u = "px"
	}
	return strconv.FormatFloat(l.Value, 'f', -1, 64) + u
}

// MarshalText lets lengths round-trip through configuration files.
func (l Length) MarshalText() ([]byte, error) {
	return []byte(l.String()), nil
}

// UnmarshalText parses values like "1530px", "8.5in" or "279.4mm".
func (l *Length) UnmarshalText(text []byte) error {
	v, err := ParseLength(string(text))
	if err != nil {
		return err
	}
	*l = v
	return nil
}

// ParseLength parses a length string preserving its unit.
func ParseLength(value string) (Length, error) {
	v := strings.ToLower(strings.TrimSpace(value))
	if v == "" {
		return Length{}, fmt.Errorf("empty length")
	}
	unit := UnitNone
	num := v
	for _, suf := range []struct {
		s string
		u Unit
	}{{"px", UnitPX}, {"mm", UnitMM}, {"cm", UnitCM}, {"in", UnitIN}, {"pt", UnitPT}} {
		if strings.HasSuffix(v, suf.s) {
			unit = suf.u
			num = strings.TrimSpace(strings.TrimSuffix(v, suf.s))
			break
		}
	}
	f, err := strconv.ParseFloat(num, 64)
	if err != nil {
		return Length{}, fmt.Errorf("invalid length %q: %w", value, err)
	}
	if f < 0 {
		return Length{}, fmt.Errorf("negative length %q", value)
	}
	return Length{Value: f, Unit: unit}, nil
}

// PxToMm converts raster pixels to millimeters at dpi.
func PxToMm(px, dpi float64) float64 {
	if dpi <= 0 {
		return px
	}
	return px * MmPerIn / dpi
}

// PxToPt converts a pixel font size to points for canvases that draw one
// pixel as one millimeter.
func PxToPt(px float64) float64 { return px * MmToPt }
