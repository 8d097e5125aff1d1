package services

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vsinha/gearcalc/pkg/domain/entities"
	fixtures "github.com/vsinha/gearcalc/pkg/infrastructure/testing"
)

func TestGearRatio(t *testing.T) {
	assert.Equal(t, 5.0, GearRatio(50, 10))
	assert.InDelta(t, 1.214, GearRatio(34, 28), 0.001)
}

func TestStrictCircumference(t *testing.T) {
	tests := []struct {
		name     string
		wheel    entities.WheelSize
		tire     float64
		expected float64
	}{
		{"road_700x25", entities.Wheel700C, 25, math.Pi * 672},
		{"gravel_650bx47", entities.Wheel650B, 47, math.Pi * 678},
		{"mtb_26x2.1", entities.Wheel26, 53, math.Pi * 665},
		{"mtb_29x2.4", entities.Wheel29, 61, math.Pi * 744},
		{"mtb_27.5x2.3", entities.Wheel275, 58, math.Pi * 700},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := StrictCircumference(tt.wheel, tt.tire)
			require.NoError(t, err)
			assert.InDelta(t, tt.expected, got, 1e-9)
		})
	}

	// π × (622 + 2 × 25); the often quoted 2110.18 mm does not follow from this formula
	got, err := StrictCircumference(entities.Wheel700C, 25)
	require.NoError(t, err)
	assert.InDelta(t, 2111.15, got, 0.1)
}

func TestStrictCircumference_InvalidWheelSize(t *testing.T) {
	_, err := StrictCircumference("24-inch", 25)
	require.Error(t, err)
	assert.ErrorIs(t, err, entities.ErrInvalidWheelSize)
}

func TestCircumferenceWithFallback(t *testing.T) {
	strict, err := StrictCircumference(entities.Wheel700C, 28)
	require.NoError(t, err)

	assert.Equal(t, strict, CircumferenceWithFallback(entities.Wheel700C, 28))
	assert.Equal(t, strict, CircumferenceWithFallback("unknown", 28), "unknown sizes fall back to 700c")
}

func TestSpeedAtCadence(t *testing.T) {
	kmh := SpeedAtCadence(2.0, 2100, CadenceRPM, entities.KMH)
	assert.InDelta(t, 22.68, kmh, 1e-9)
	assert.Equal(t, "22.7", DisplaySpeed(kmh).String())

	mph := SpeedAtCadence(2.0, 2100, CadenceRPM, entities.MPH)
	assert.InDelta(t, kmh*0.621371, mph, 1e-9)
	assert.Equal(t, "14.1", DisplaySpeed(mph).String())
}

func TestGearInches(t *testing.T) {
	got, err := GearInches(2.0, entities.Wheel700C, 25)
	require.NoError(t, err)
	assert.InDelta(t, 52.9, got, 0.05)

	doubled, err := GearInches(4.0, entities.Wheel700C, 25)
	require.NoError(t, err)
	assert.InDelta(t, 2*got, doubled, 1e-9, "gear inches scale linearly with the ratio")

	_, err = GearInches(2.0, "", 25)
	assert.ErrorIs(t, err, entities.ErrInvalidWheelSize)
}

func TestQuickMetrics(t *testing.T) {
	m, err := QuickMetrics(fixtures.RoadCompact(), entities.KMH)
	require.NoError(t, err)

	assert.InDelta(t, 50.0/11, m.HighRatio, 1e-9)
	assert.InDelta(t, 34.0/28, m.LowRatio, 1e-9)
	assert.InDelta(t, 51.819, m.HighSpeed, 0.001)
	assert.InDelta(t, 13.843, m.LowSpeed, 0.001)
	assert.InDelta(t, 120.26, m.HighGearInches, 0.01)
	assert.InDelta(t, 32.13, m.LowGearInches, 0.01)
	assert.Equal(t, 950.0, m.TotalWeight)
	assert.InDelta(t, 274.33, m.GearRangePercent, 0.01)
	assert.Equal(t, "51.8", DisplaySpeed(m.HighSpeed).String())
}

func TestQuickMetrics_Errors(t *testing.T) {
	full := fixtures.RoadCompact()

	tests := []struct {
		name   string
		setup  *entities.Setup
		target error
	}{
		{"nil_setup", nil, entities.ErrIncompleteSetup},
		{"missing_crankset", &entities.Setup{Cassette: full.Cassette, WheelSize: entities.Wheel700C, TireWidthMM: 25}, entities.ErrIncompleteSetup},
		{"missing_cassette", &entities.Setup{Crankset: full.Crankset, WheelSize: entities.Wheel700C, TireWidthMM: 25}, entities.ErrIncompleteSetup},
		{"missing_wheel", &entities.Setup{Crankset: full.Crankset, Cassette: full.Cassette, TireWidthMM: 25}, entities.ErrIncompleteSetup},
		{"unknown_wheel", &entities.Setup{Crankset: full.Crankset, Cassette: full.Cassette, WheelSize: "24-inch", TireWidthMM: 25}, entities.ErrInvalidWheelSize},
		{"empty_teeth", &entities.Setup{Crankset: fixtures.Crankset("11-speed", 700), Cassette: full.Cassette, WheelSize: entities.Wheel700C, TireWidthMM: 25}, entities.ErrMissingTeeth},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := QuickMetrics(tt.setup, entities.KMH)
			assert.ErrorIs(t, err, tt.target)
		})
	}
}

func TestFullComparisonMetrics(t *testing.T) {
	setup := fixtures.RoadCompact()

	quick, err := QuickMetrics(setup, entities.KMH)
	require.NoError(t, err)
	full, err := FullComparisonMetrics(setup, entities.KMH)
	require.NoError(t, err)

	assert.Equal(t, quick.TotalWeight+489, full.TotalWeight)
	assert.InDelta(t, (28.0/11-1)*100, full.GearRangePercent, 1e-9)
	assert.NotEqual(t, quick.GearRangePercent, full.GearRangePercent)
	assert.Equal(t, quick.HighSpeed, full.HighSpeed)

	setup.WheelSize = "unknown"
	fallback, err := FullComparisonMetrics(setup, entities.KMH)
	require.NoError(t, err, "full comparison falls back to 700c")
	assert.Equal(t, quick.HighSpeed, fallback.HighSpeed)
}

func TestCompareSetups(t *testing.T) {
	current := fixtures.RoadCompact()
	proposed := fixtures.RoadCompact()
	proposed.Crankset = fixtures.Crankset("11-speed", 680, 52, 36)
	proposed.Cassette = fixtures.Cassette("11-speed", 300, 11, 12, 13, 14, 16, 18, 20, 22, 25, 28, 32)

	result, err := CompareSetups(current, proposed, entities.KMH)
	require.NoError(t, err)

	assert.InDelta(t, result.Proposed.HighSpeed-result.Current.HighSpeed, result.Comparison.SpeedChange, 1e-12)
	assert.InDelta(t, 30.0, result.Comparison.WeightChange, 1e-9)
	assert.InDelta(t, result.Proposed.GearRangePercent-result.Current.GearRangePercent, result.Comparison.RangeChange, 1e-12)
	assert.Equal(t, entities.KMH, result.Comparison.SpeedUnit)
	assert.Greater(t, result.Comparison.SpeedChange, 0.0)
}

func TestCompareSetups_SameSetupHasNoChange(t *testing.T) {
	for _, compare := range []func(a, b *entities.Setup, u entities.SpeedUnit) (*SetupComparison, error){CompareSetups, CompareSetupsFull} {
		for _, setup := range []*entities.Setup{fixtures.RoadCompact(), fixtures.GravelOneBy()} {
			result, err := compare(setup, setup, entities.MPH)
			require.NoError(t, err)
			assert.Zero(t, result.Comparison.SpeedChange)
			assert.Zero(t, result.Comparison.WeightChange)
			assert.Zero(t, result.Comparison.RangeChange)
		}
	}
}

func TestCompareSetups_PropagatesSide(t *testing.T) {
	_, err := CompareSetups(fixtures.RoadCompact(), &entities.Setup{}, entities.KMH)
	require.Error(t, err)
	assert.ErrorIs(t, err, entities.ErrIncompleteSetup)
	assert.Contains(t, err.Error(), "proposed setup")
}

func TestMetrics_Idempotent(t *testing.T) {
	setup := fixtures.GravelOneBy()
	first, err := QuickMetrics(setup, entities.KMH)
	require.NoError(t, err)
	second, err := QuickMetrics(setup, entities.KMH)
	require.NoError(t, err)
	assert.Equal(t, *first, *second)
}
