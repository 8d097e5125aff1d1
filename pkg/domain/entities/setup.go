package entities

import (
	"fmt"
	"strconv"
	"strings"
)

// WheelSize identifies a nominal wheel size
type WheelSize string

const (
	Wheel700C WheelSize = "700c"
	Wheel650B WheelSize = "650b"
	Wheel26   WheelSize = "26-inch"
	Wheel275  WheelSize = "27.5-inch"
	Wheel29   WheelSize = "29-inch"
)

// DefaultRimMM is the 700c diameter used when a wheel size is unknown
const DefaultRimMM = 622.0

// rimDiametersMM maps each wheel size to its nominal bead seat diameter
var rimDiametersMM = map[WheelSize]float64{
	Wheel700C: 622,
	Wheel650B: 584,
	Wheel26:   559,
	Wheel275:  584,
	Wheel29:   622,
}

// WheelSizes lists the supported wheel sizes in display order
var WheelSizes = []WheelSize{Wheel700C, Wheel650B, Wheel26, Wheel275, Wheel29}

// wheelSizeAliases maps common short labels to their canonical size
var wheelSizeAliases = map[string]WheelSize{
	"700":  Wheel700C,
	"650":  Wheel650B,
	"26":   Wheel26,
	"27.5": Wheel275,
	"29":   Wheel29,
}

// NormalizeWheelSize trims and lower-cases a label and resolves short aliases
// such as "26" or "27.5". Unknown labels are returned trimmed but otherwise
// unchanged so callers can still apply their own fallback.
func NormalizeWheelSize(s string) WheelSize {
	label := strings.ToLower(strings.TrimSpace(s))
	if w, ok := wheelSizeAliases[label]; ok {
		return w
	}
	if _, ok := rimDiametersMM[WheelSize(label)]; ok {
		return WheelSize(label)
	}
	return WheelSize(strings.TrimSpace(s))
}

// String method for WheelSize
func (w WheelSize) String() string {
	return string(w)
}

// RimDiameterMM returns the nominal diameter, false for unknown sizes
func (w WheelSize) RimDiameterMM() (float64, bool) {
	d, ok := rimDiametersMM[w]
	return d, ok
}

// ParseWheelSize validates a wheel size label
func ParseWheelSize(s string) (WheelSize, error) {
	w := NormalizeWheelSize(s)
	if _, ok := rimDiametersMM[w]; !ok {
		return "", fmt.Errorf("%w: %q", ErrInvalidWheelSize, s)
	}
	return w, nil
}

// ParseTireWidth converts a tire width given as text into millimeters
func ParseTireWidth(s string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSuffix(strings.TrimSpace(s), "mm"), 64)
	if err != nil {
		return 0, fmt.Errorf("invalid tire width %q: %w", s, err)
	}
	if v < 0 {
		return 0, fmt.Errorf("tire width cannot be negative, got %g", v)
	}
	return v, nil
}

// BikeType selects derailleur limits and chain line standards
type BikeType string

const (
	Road   BikeType = "road"
	Gravel BikeType = "gravel"
	MTB    BikeType = "mtb"
)

// String method for BikeType
func (b BikeType) String() string {
	return string(b)
}

// ParseBikeType validates a bike type label
func ParseBikeType(s string) (BikeType, error) {
	switch b := BikeType(strings.ToLower(strings.TrimSpace(s))); b {
	case Road, Gravel, MTB:
		return b, nil
	default:
		return "", fmt.Errorf("unknown bike type: %q (expected road, gravel or mtb)", s)
	}
}

// SpeedUnit selects the unit of reported speeds
type SpeedUnit string

const (
	KMH SpeedUnit = "kmh"
	MPH SpeedUnit = "mph"
)

// String method for SpeedUnit
func (u SpeedUnit) String() string {
	return string(u)
}

// Suffix returns the display suffix for the unit
func (u SpeedUnit) Suffix() string {
	if u == MPH {
		return "mph"
	}
	return "km/h"
}

// ParseSpeedUnit validates a speed unit label
func ParseSpeedUnit(s string) (SpeedUnit, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "kmh", "km/h", "kph":
		return KMH, nil
	case "mph":
		return MPH, nil
	default:
		return "", fmt.Errorf("unknown speed unit: %q (expected kmh or mph)", s)
	}
}

// Setup pairs a crankset and cassette with a wheel and tire
type Setup struct {
	Crankset    *Component `json:"crankset,omitempty"`
	Cassette    *Component `json:"cassette,omitempty"`
	WheelSize   WheelSize  `json:"wheelSize,omitempty"`
	TireWidthMM float64    `json:"tireWidth,omitempty"`
}

// IsComplete reports whether every field is present and both components carry teeth
func (s *Setup) IsComplete() bool {
	return s != nil &&
		s.Crankset.HasTeeth() &&
		s.Cassette.HasTeeth() &&
		s.WheelSize != "" &&
		s.TireWidthMM > 0
}

// Describe renders the setup as stable text lines, used for diffs
func (s *Setup) Describe() string {
	var b strings.Builder
	fmt.Fprintf(&b, "crankset: %s\n", s.Crankset.Label())
	if s.Crankset != nil {
		fmt.Fprintf(&b, "chainrings: %s\n", joinTeeth(s.Crankset.Teeth))
		fmt.Fprintf(&b, "crankset speeds: %s\n", s.Crankset.Speeds)
	}
	fmt.Fprintf(&b, "cassette: %s\n", s.Cassette.Label())
	if s.Cassette != nil {
		fmt.Fprintf(&b, "cogs: %s\n", joinTeeth(s.Cassette.Teeth))
		fmt.Fprintf(&b, "cassette speeds: %s\n", s.Cassette.Speeds)
	}
	fmt.Fprintf(&b, "wheel: %s\n", s.WheelSize)
	fmt.Fprintf(&b, "tire: %gmm\n", s.TireWidthMM)
	return b.String()
}

func joinTeeth(teeth []int) string {
	parts := make([]string, len(teeth))
	for i, t := range teeth {
		parts[i] = strconv.Itoa(t)
	}
	return strings.Join(parts, "/")
}
