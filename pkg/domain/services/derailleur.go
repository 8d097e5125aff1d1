package services

import (
	"fmt"

	"github.com/vsinha/gearcalc/pkg/domain/entities"
)

// Thresholds of the quick derailleur check
const (
	standardMaxCog      = 34
	standardMaxCapacity = 37
	minExtremeRatio     = 0.8
)

// DerailleurReport is the outcome of the quick derailleur check
type DerailleurReport struct {
	Capacity int      `json:"capacity"`
	Warnings []string `json:"warnings"`
}

// CheckDerailleurCompatibility runs the quick capacity check on a crankset and
// cassette pair. Unlike CompatibilityChecker it is strict: both components
// must carry tooth data or ErrMissingTeeth is returned.
func CheckDerailleurCompatibility(crankset, cassette *entities.Component) (*DerailleurReport, error) {
	if !crankset.HasTeeth() {
		return nil, fmt.Errorf("crankset: %w", entities.ErrMissingTeeth)
	}
	if !cassette.HasTeeth() {
		return nil, fmt.Errorf("cassette: %w", entities.ErrMissingTeeth)
	}

	minRing, maxCog := crankset.MinTeeth(), cassette.MaxTeeth()
	capacity := TotalCapacity(crankset, cassette)

	report := &DerailleurReport{Capacity: capacity, Warnings: []string{}}

	if maxCog > standardMaxCog {
		report.Warnings = append(report.Warnings,
			fmt.Sprintf("Large cassette (%dT) may require long-cage derailleur", maxCog))
	}
	if capacity > standardMaxCapacity {
		report.Warnings = append(report.Warnings,
			fmt.Sprintf("Total capacity (%dT) exceeds standard derailleur limits", capacity))
	}
	if GearRatio(minRing, maxCog) < minExtremeRatio {
		report.Warnings = append(report.Warnings,
			fmt.Sprintf("Extreme gear ratios (%d/%d) may cause chain line issues", minRing, maxCog))
	}
	return report, nil
}

// TotalCapacity is the chainring difference plus the cassette range, in teeth.
// Both components must carry tooth data.
func TotalCapacity(crankset, cassette *entities.Component) int {
	return (crankset.MaxTeeth() - crankset.MinTeeth()) + (cassette.MaxTeeth() - cassette.MinTeeth())
}
