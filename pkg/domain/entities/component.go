package entities

import (
	"fmt"
	"regexp"
	"strconv"
)

// ComponentID uniquely identifies a catalog component
type ComponentID string

// ComponentKind represents the drivetrain role of a component
type ComponentKind string

const (
	Crankset ComponentKind = "crankset"
	Cassette ComponentKind = "cassette"
)

// String method for ComponentKind
func (k ComponentKind) String() string {
	return string(k)
}

// ParseComponentKind converts a catalog label into a ComponentKind
func ParseComponentKind(s string) (ComponentKind, error) {
	switch ComponentKind(s) {
	case Crankset, Cassette:
		return ComponentKind(s), nil
	default:
		return "", fmt.Errorf("unknown component kind: %q", s)
	}
}

var speedsPattern = regexp.MustCompile(`(\d+)-speed`)

// Component is a crankset or cassette specification. Only Teeth, Speeds,
// Weight and Model take part in calculations.
type Component struct {
	ID       ComponentID   `json:"id" yaml:"id"`
	Kind     ComponentKind `json:"kind" yaml:"kind"`
	BikeType BikeType      `json:"bikeType" yaml:"bike_type"`
	Model    string        `json:"model" yaml:"model"`
	Variant  string        `json:"variant" yaml:"variant"`
	Teeth    []int         `json:"teeth" yaml:"teeth"`
	Speeds   string        `json:"speeds" yaml:"speeds"`
	Weight   float64       `json:"weight" yaml:"weight"` // grams
	Price    float64       `json:"price,omitempty" yaml:"price"`
}

// NewComponent creates a validated Component
func NewComponent(
	id ComponentID,
	kind ComponentKind,
	bikeType BikeType,
	model, variant string,
	teeth []int,
	speeds string,
	weight, price float64,
) (*Component, error) {
	c := &Component{
		ID:       id,
		Kind:     kind,
		BikeType: bikeType,
		Model:    model,
		Variant:  variant,
		Teeth:    append([]int(nil), teeth...),
		Speeds:   speeds,
		Weight:   weight,
		Price:    price,
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Validate checks the invariants of a catalog component
func (c *Component) Validate() error {
	if string(c.ID) == "" {
		return fmt.Errorf("component id cannot be empty")
	}
	if _, err := ParseComponentKind(string(c.Kind)); err != nil {
		return fmt.Errorf("component %s: %w", c.ID, err)
	}
	if c.BikeType != "" {
		if _, err := ParseBikeType(string(c.BikeType)); err != nil {
			return fmt.Errorf("component %s: %w", c.ID, err)
		}
	}
	if len(c.Teeth) == 0 {
		return fmt.Errorf("component %s: teeth cannot be empty", c.ID)
	}
	for _, t := range c.Teeth {
		if t <= 0 {
			return fmt.Errorf("component %s: tooth count must be positive, got %d", c.ID, t)
		}
	}
	if c.Weight < 0 {
		return fmt.Errorf("component %s: weight cannot be negative, got %g", c.ID, c.Weight)
	}
	if c.Price < 0 {
		return fmt.Errorf("component %s: price cannot be negative, got %g", c.ID, c.Price)
	}
	return nil
}

// HasTeeth reports whether the component carries tooth data
func (c *Component) HasTeeth() bool {
	return c != nil && len(c.Teeth) > 0
}

// MinTeeth returns the smallest tooth count. Callers must check HasTeeth first.
func (c *Component) MinTeeth() int {
	m := c.Teeth[0]
	for _, t := range c.Teeth[1:] {
		if t < m {
			m = t
		}
	}
	return m
}

// MaxTeeth returns the largest tooth count. Callers must check HasTeeth first.
func (c *Component) MaxTeeth() int {
	m := c.Teeth[0]
	for _, t := range c.Teeth[1:] {
		if t > m {
			m = t
		}
	}
	return m
}

// SpeedCount extracts N from a "<N>-speed" label, 0 when unknown
func (c *Component) SpeedCount() int {
	if c == nil {
		return 0
	}
	return ParseSpeedCount(c.Speeds)
}

// ParseSpeedCount extracts N from a "<N>-speed" label, 0 when unknown
func ParseSpeedCount(label string) int {
	m := speedsPattern.FindStringSubmatch(label)
	if m == nil {
		return 0
	}
	n, err := strconv.Atoi(m[1])
	if err != nil || n <= 0 {
		return 0
	}
	return n
}

// Label renders the component for display, falling back to the id
func (c *Component) Label() string {
	if c == nil {
		return "(none)"
	}
	label := c.Model
	if c.Variant != "" {
		label += " " + c.Variant
	}
	if label == "" {
		label = string(c.ID)
	}
	return label
}

// CranksetFromChainrings adapts a bare chainring list to a Component
func CranksetFromChainrings(chainrings []int) *Component {
	return &Component{Kind: Crankset, Teeth: append([]int(nil), chainrings...)}
}

// CassetteFromCogs adapts a bare cog list to a Component
func CassetteFromCogs(cogs []int) *Component {
	return &Component{Kind: Cassette, Teeth: append([]int(nil), cogs...)}
}
