package services

import (
	"fmt"
	"math"

	"github.com/vsinha/gearcalc/pkg/domain/entities"
)

const (
	overlapThreshold     = 0.1
	maxOverlapPercent    = 30
	doubleChainringCount = 2
)

// RatioAnalysis summarizes the ratio envelope of every chainring/cog combination
type RatioAnalysis struct {
	MinRatio    float64 `json:"minRatio"`
	MaxRatio    float64 `json:"maxRatio"`
	RatioSpread float64 `json:"ratioSpread"`
	TotalGears  int     `json:"totalGears"`
}

// GearRatioAnalysis holds ratio warnings and suggestions for a bike type
type GearRatioAnalysis struct {
	Warnings        []string      `json:"warnings"`
	Recommendations []string      `json:"recommendations"`
	Analysis        RatioAnalysis `json:"analysis"`
}

// GearOverlap describes duplicate ratios across two chainrings
type GearOverlap struct {
	Percentage int      `json:"percentage"`
	Overlaps   []string `json:"overlaps"`
}

// AnalyzeGearRatios computes the ratio envelope of a setup and compares it with
// the expectations of the bike type. Missing tooth data yields an empty result.
func (c *CompatibilityChecker) AnalyzeGearRatios(setup *entities.Setup, bikeType entities.BikeType) *GearRatioAnalysis {
	result := &GearRatioAnalysis{
		Warnings:        []string{},
		Recommendations: []string{},
	}
	if setup == nil || !setup.Crankset.HasTeeth() || !setup.Cassette.HasTeeth() {
		return result
	}

	chainrings := setup.Crankset.Teeth
	cogs := setup.Cassette.Teeth

	minRatio, maxRatio := math.Inf(1), math.Inf(-1)
	for _, ring := range chainrings {
		for _, cog := range cogs {
			r := GearRatio(ring, cog)
			minRatio = math.Min(minRatio, r)
			maxRatio = math.Max(maxRatio, r)
		}
	}

	result.Analysis = RatioAnalysis{
		MinRatio:    minRatio,
		MaxRatio:    maxRatio,
		RatioSpread: maxRatio / minRatio,
		TotalGears:  len(chainrings) * len(cogs),
	}

	warnings, recommendations := bikeTypeRecommendations(bikeType, minRatio, maxRatio, result.Analysis.RatioSpread)
	result.Warnings = append(result.Warnings, warnings...)
	result.Recommendations = append(result.Recommendations, recommendations...)

	if len(chainrings) == doubleChainringCount {
		overlap := c.AnalyzeGearOverlap(chainrings, cogs)
		if overlap.Percentage > maxOverlapPercent {
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("High gear overlap (%d%%): many ratios are duplicated across chainrings", overlap.Percentage))
			result.Recommendations = append(result.Recommendations,
				"Consider a 1x drivetrain to remove redundant gears")
		}
	}

	return result
}

// bikeTypeRecommendations applies the ratio thresholds of each bike type
func bikeTypeRecommendations(bikeType entities.BikeType, minRatio, maxRatio, spread float64) (warnings, recommendations []string) {
	switch bikeType {
	case entities.Road:
		if minRatio > 1.5 {
			warnings = append(warnings,
				fmt.Sprintf("Lowest gear ratio (%.2f) may struggle on climbs", minRatio))
		}
		if maxRatio < 3.5 {
			warnings = append(warnings,
				fmt.Sprintf("Highest gear ratio (%.2f) gives limited top speed", maxRatio))
		}
		if spread > 4.5 {
			recommendations = append(recommendations,
				fmt.Sprintf("Wide %.1fx range suits mixed terrain and long climbs", spread))
		}
	case entities.Gravel:
		if minRatio > 1.2 {
			warnings = append(warnings,
				fmt.Sprintf("Lowest gear ratio (%.2f) may be too tall for loaded or steep gravel", minRatio))
		}
		if spread < 3.5 {
			warnings = append(warnings,
				fmt.Sprintf("Gear range (%.1fx) is narrow for varied gravel terrain", spread))
		}
	case entities.MTB:
		if minRatio > 1.0 {
			warnings = append(warnings,
				fmt.Sprintf("Lowest gear ratio (%.2f) may be too tall for technical climbs", minRatio))
		}
		if maxRatio > 3.0 {
			recommendations = append(recommendations,
				fmt.Sprintf("Highest gear ratio (%.2f) is tall for trail riding; a smaller chainring would add climbing range", maxRatio))
		}
	}
	return warnings, recommendations
}

// AnalyzeGearOverlap counts cog pairs whose small-ring and big-ring ratios fall
// within 0.1 of each other. It only applies to exactly two chainrings.
func (c *CompatibilityChecker) AnalyzeGearOverlap(chainrings, cogs []int) *GearOverlap {
	result := &GearOverlap{Overlaps: []string{}}
	if len(chainrings) != doubleChainringCount || len(cogs) == 0 {
		return result
	}

	small, big := chainrings[0], chainrings[1]
	if small > big {
		small, big = big, small
	}

	count := 0
	for i, cog := range cogs {
		for j, other := range cogs {
			if i == j {
				continue
			}
			smallRatio := GearRatio(small, cog)
			bigRatio := GearRatio(big, other)
			if math.Abs(smallRatio-bigRatio) < overlapThreshold {
				result.Overlaps = append(result.Overlaps,
					fmt.Sprintf("%d×%d ≈ %d×%d", small, cog, big, other))
				count++
			}
		}
	}

	result.Percentage = int(math.Round(float64(count) / float64(len(cogs)*2) * 100))
	return result
}
