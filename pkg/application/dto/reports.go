package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/vsinha/gearcalc/pkg/domain/entities"
	"github.com/vsinha/gearcalc/pkg/domain/services"
)

// SetupRequest names a setup by catalog ids. Wheel size and tire width are
// taken as entered by the user.
type SetupRequest struct {
	CranksetID entities.ComponentID `json:"cranksetId"`
	CassetteID entities.ComponentID `json:"cassetteId"`
	WheelSize  string               `json:"wheelSize"`
	TireWidth  string               `json:"tireWidth"`
}

// ComparisonMode selects the metric formulas used by a comparison
type ComparisonMode string

const (
	// ModeQuick uses strict circumference and max/min ratio range
	ModeQuick ComparisonMode = "quick"
	// ModeFull adds drivetrain overhead weight and uses the cassette range
	ModeFull ComparisonMode = "full"
)

// MetricsView is SetupMetrics rounded for display
type MetricsView struct {
	HighRatio        decimal.Decimal `json:"highRatio"`
	LowRatio         decimal.Decimal `json:"lowRatio"`
	HighSpeed        decimal.Decimal `json:"highSpeed"`
	LowSpeed         decimal.Decimal `json:"lowSpeed"`
	HighGearInches   decimal.Decimal `json:"highGearInches"`
	LowGearInches    decimal.Decimal `json:"lowGearInches"`
	TotalWeight      decimal.Decimal `json:"totalWeight"`
	GearRangePercent decimal.Decimal `json:"gearRangePercent"`
	SpeedUnit        string          `json:"speedUnit"`
}

// NewMetricsView rounds speeds to one decimal, ratios to two, and gear
// inches, weight and range to whole numbers
func NewMetricsView(m *services.SetupMetrics) MetricsView {
	if m == nil {
		return MetricsView{}
	}
	return MetricsView{
		HighRatio:        services.DisplayRatio(m.HighRatio),
		LowRatio:         services.DisplayRatio(m.LowRatio),
		HighSpeed:        services.DisplaySpeed(m.HighSpeed),
		LowSpeed:         services.DisplaySpeed(m.LowSpeed),
		HighGearInches:   services.DisplayWhole(m.HighGearInches),
		LowGearInches:    services.DisplayWhole(m.LowGearInches),
		TotalWeight:      services.DisplayWhole(m.TotalWeight),
		GearRangePercent: services.DisplayWhole(m.GearRangePercent),
		SpeedUnit:        m.SpeedUnit.Suffix(),
	}
}

// ChangesView is a Comparison rounded for display
type ChangesView struct {
	SpeedChange  decimal.Decimal `json:"speedChange"`
	WeightChange decimal.Decimal `json:"weightChange"`
	RangeChange  decimal.Decimal `json:"rangeChange"`
	SpeedUnit    string          `json:"speedUnit"`
}

// NewChangesView rounds comparison deltas for display
func NewChangesView(c services.Comparison) ChangesView {
	return ChangesView{
		SpeedChange:  services.DisplaySpeed(c.SpeedChange),
		WeightChange: services.DisplayWhole(c.WeightChange),
		RangeChange:  services.DisplayWhole(c.RangeChange),
		SpeedUnit:    c.SpeedUnit.Suffix(),
	}
}

// EvaluationReport is everything known about a single setup
type EvaluationReport struct {
	Fingerprint   string                           `json:"fingerprint"`
	Setup         *entities.Setup                  `json:"setup"`
	BikeType      entities.BikeType                `json:"bikeType"`
	Metrics       MetricsView                      `json:"metrics"`
	RawMetrics    *services.SetupMetrics           `json:"-"`
	Compatibility *entities.CompatibilityResult    `json:"compatibility"`
	Summary       *services.CompatibilitySummary   `json:"summary"`
	GearAnalysis  *services.GearRatioAnalysis      `json:"gearAnalysis"`
	Overlap       *services.GearOverlap            `json:"overlap"`
	Installation  *services.InstallationAssessment `json:"installation"`
	Derailleur    *services.DerailleurReport       `json:"derailleur"`
	EvaluatedAt   time.Time                        `json:"evaluatedAt"`
}

// ComparisonReport compares a current setup with a proposed one
type ComparisonReport struct {
	ID              uuid.UUID                      `json:"id"`
	Mode            ComparisonMode                 `json:"mode"`
	BikeType        entities.BikeType              `json:"bikeType"`
	Current         *entities.Setup                `json:"current"`
	Proposed        *entities.Setup                `json:"proposed"`
	CurrentMetrics  MetricsView                    `json:"currentMetrics"`
	ProposedMetrics MetricsView                    `json:"proposedMetrics"`
	Changes         ChangesView                    `json:"changes"`
	Raw             *services.SetupComparison      `json:"-"`
	Compatibility   *entities.CompatibilityResult  `json:"compatibility"`
	Summary         *services.CompatibilitySummary `json:"summary"`
	CreatedAt       time.Time                      `json:"createdAt"`
}
