package services

import (
	"fmt"
	"math"

	"github.com/shopspring/decimal"

	"github.com/vsinha/gearcalc/pkg/domain/entities"
)

const (
	// CadenceRPM is the fixed pedalling cadence used for every speed figure
	CadenceRPM = 90.0

	// mm/min to km/h
	mmPerMinuteToKMH = 60 * 1e-6
	kmhToMPH         = 0.621371
	mmPerInch        = 25.4

	// ChainWeightGrams and DerailleurWeightGrams are added by the full comparison formulas
	ChainWeightGrams      = 257.0
	DerailleurWeightGrams = 232.0
	DrivetrainOverhead    = ChainWeightGrams + DerailleurWeightGrams
)

// SetupMetrics holds the derived performance figures of a setup.
// Values are full precision; use the Display helpers for presentation.
type SetupMetrics struct {
	HighRatio        float64            `json:"highRatio"`
	LowRatio         float64            `json:"lowRatio"`
	HighSpeed        float64            `json:"highSpeed"`
	LowSpeed         float64            `json:"lowSpeed"`
	HighGearInches   float64            `json:"highGearInches"`
	LowGearInches    float64            `json:"lowGearInches"`
	CircumferenceMM  float64            `json:"circumferenceMm"`
	TotalWeight      float64            `json:"totalWeight"`
	GearRangePercent float64            `json:"gearRangePercent"`
	SpeedUnit        entities.SpeedUnit `json:"speedUnit"`
}

// Comparison holds proposed minus current deltas
type Comparison struct {
	SpeedChange  float64            `json:"speedChange"`
	WeightChange float64            `json:"weightChange"`
	RangeChange  float64            `json:"rangeChange"`
	SpeedUnit    entities.SpeedUnit `json:"speedUnit"`
}

// SetupComparison pairs the metrics of two setups with their deltas
type SetupComparison struct {
	Current    *SetupMetrics `json:"current"`
	Proposed   *SetupMetrics `json:"proposed"`
	Comparison Comparison    `json:"comparison"`
}

// StrictCircumference returns the wheel circumference in mm and fails with
// ErrInvalidWheelSize for sizes outside the rim table.
func StrictCircumference(wheel entities.WheelSize, tireWidthMM float64) (float64, error) {
	rim, ok := wheel.RimDiameterMM()
	if !ok {
		return 0, fmt.Errorf("%w: %q", entities.ErrInvalidWheelSize, wheel)
	}
	return math.Pi * (rim + 2*tireWidthMM), nil
}

// CircumferenceWithFallback returns the wheel circumference in mm, treating
// unknown wheel sizes as 700c.
func CircumferenceWithFallback(wheel entities.WheelSize, tireWidthMM float64) float64 {
	rim, ok := wheel.RimDiameterMM()
	if !ok {
		rim = entities.DefaultRimMM
	}
	return math.Pi * (rim + 2*tireWidthMM)
}

// GearRatio divides chainring teeth by cog teeth. cog must be non-zero.
func GearRatio(chainring, cog int) float64 {
	return float64(chainring) / float64(cog)
}

// SpeedAtCadence returns the road speed for a gear ratio at the given cadence
func SpeedAtCadence(gearRatio, circumferenceMM, cadenceRPM float64, unit entities.SpeedUnit) float64 {
	mmPerMinute := gearRatio * circumferenceMM * cadenceRPM
	kmh := mmPerMinute * mmPerMinuteToKMH
	if unit == entities.MPH {
		return kmh * kmhToMPH
	}
	return kmh
}

// GearInches returns the equivalent direct-drive wheel diameter in inches
func GearInches(gearRatio float64, wheel entities.WheelSize, tireWidthMM float64) (float64, error) {
	rim, ok := wheel.RimDiameterMM()
	if !ok {
		return 0, fmt.Errorf("%w: %q", entities.ErrInvalidWheelSize, wheel)
	}
	return gearRatio * (rim + 2*tireWidthMM) / mmPerInch, nil
}

// DisplaySpeed rounds a speed to one decimal place
func DisplaySpeed(v float64) decimal.Decimal {
	return decimal.NewFromFloat(v).Round(1)
}

// DisplayRatio rounds a ratio to two decimal places
func DisplayRatio(v float64) decimal.Decimal {
	return decimal.NewFromFloat(v).Round(2)
}

// DisplayWhole rounds weights and percentages to whole numbers
func DisplayWhole(v float64) decimal.Decimal {
	return decimal.NewFromFloat(v).Round(0)
}

// QuickMetrics computes the metrics of a setup without drivetrain overhead.
// The gear range is the spread between the highest and lowest ratio.
func QuickMetrics(setup *entities.Setup, unit entities.SpeedUnit) (*SetupMetrics, error) {
	if err := requireSetup(setup); err != nil {
		return nil, err
	}
	circumference, err := StrictCircumference(setup.WheelSize, setup.TireWidthMM)
	if err != nil {
		return nil, err
	}
	m := baseMetrics(setup, circumference, unit)
	m.TotalWeight = setup.Crankset.Weight + setup.Cassette.Weight
	m.GearRangePercent = (m.HighRatio/m.LowRatio - 1) * 100
	return m, nil
}

// FullComparisonMetrics computes the metrics used by the detailed comparison:
// chain and derailleur mass are added to the weight, the gear range is taken
// from the cassette alone and unknown wheel sizes fall back to 700c.
func FullComparisonMetrics(setup *entities.Setup, unit entities.SpeedUnit) (*SetupMetrics, error) {
	if err := requireSetup(setup); err != nil {
		return nil, err
	}
	circumference := CircumferenceWithFallback(setup.WheelSize, setup.TireWidthMM)
	m := baseMetrics(setup, circumference, unit)
	m.TotalWeight = setup.Crankset.Weight + setup.Cassette.Weight + DrivetrainOverhead
	minCog, maxCog := setup.Cassette.MinTeeth(), setup.Cassette.MaxTeeth()
	m.GearRangePercent = (float64(maxCog)/float64(minCog) - 1) * 100
	return m, nil
}

// CompareSetups compares two setups with QuickMetrics
func CompareSetups(current, proposed *entities.Setup, unit entities.SpeedUnit) (*SetupComparison, error) {
	return compareWith(QuickMetrics, current, proposed, unit)
}

// CompareSetupsFull compares two setups with FullComparisonMetrics
func CompareSetupsFull(current, proposed *entities.Setup, unit entities.SpeedUnit) (*SetupComparison, error) {
	return compareWith(FullComparisonMetrics, current, proposed, unit)
}

type metricsFunc func(*entities.Setup, entities.SpeedUnit) (*SetupMetrics, error)

func compareWith(calc metricsFunc, current, proposed *entities.Setup, unit entities.SpeedUnit) (*SetupComparison, error) {
	cur, err := calc(current, unit)
	if err != nil {
		return nil, fmt.Errorf("current setup: %w", err)
	}
	prop, err := calc(proposed, unit)
	if err != nil {
		return nil, fmt.Errorf("proposed setup: %w", err)
	}
	return &SetupComparison{
		Current:  cur,
		Proposed: prop,
		Comparison: Comparison{
			SpeedChange:  prop.HighSpeed - cur.HighSpeed,
			WeightChange: prop.TotalWeight - cur.TotalWeight,
			RangeChange:  prop.GearRangePercent - cur.GearRangePercent,
			SpeedUnit:    unit,
		},
	}, nil
}

func requireSetup(setup *entities.Setup) error {
	if setup == nil || setup.Crankset == nil || setup.Cassette == nil || setup.WheelSize == "" {
		return fmt.Errorf("%w: crankset, cassette and wheel size are required", entities.ErrIncompleteSetup)
	}
	if !setup.Crankset.HasTeeth() {
		return fmt.Errorf("crankset: %w", entities.ErrMissingTeeth)
	}
	if !setup.Cassette.HasTeeth() {
		return fmt.Errorf("cassette: %w", entities.ErrMissingTeeth)
	}
	return nil
}

func baseMetrics(setup *entities.Setup, circumference float64, unit entities.SpeedUnit) *SetupMetrics {
	high := GearRatio(setup.Crankset.MaxTeeth(), setup.Cassette.MinTeeth())
	low := GearRatio(setup.Crankset.MinTeeth(), setup.Cassette.MaxTeeth())

	// gear inches use the same diameter as the circumference
	diameterIn := circumference / math.Pi / mmPerInch

	return &SetupMetrics{
		HighRatio:       high,
		LowRatio:        low,
		HighSpeed:       SpeedAtCadence(high, circumference, CadenceRPM, unit),
		LowSpeed:        SpeedAtCadence(low, circumference, CadenceRPM, unit),
		HighGearInches:  high * diameterIn,
		LowGearInches:   low * diameterIn,
		CircumferenceMM: circumference,
		SpeedUnit:       unit,
	}
}
