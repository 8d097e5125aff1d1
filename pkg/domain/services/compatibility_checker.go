package services

import (
	"fmt"

	"github.com/vsinha/gearcalc/pkg/domain/entities"
)

// CageType names a rear derailleur cage length
type CageType string

const (
	ShortCage     CageType = "shortCage"
	MediumCage    CageType = "mediumCage"
	LongCage      CageType = "longCage"
	ExtraLongCage CageType = "extraLongCage"
)

// String returns a human-readable cage name
func (c CageType) String() string {
	switch c {
	case ShortCage:
		return "short-cage"
	case MediumCage:
		return "medium-cage"
	case LongCage:
		return "long-cage"
	case ExtraLongCage:
		return "extra-long-cage"
	default:
		return string(c)
	}
}

// CageTier is the capacity envelope of one derailleur cage
type CageTier struct {
	Cage        CageType
	MaxCapacity int
	MaxCog      int
}

// Satisfies reports whether the tier can handle the given capacity and largest cog
func (t CageTier) Satisfies(totalCapacity, maxCog int) bool {
	return totalCapacity <= t.MaxCapacity && maxCog <= t.MaxCog
}

// ChainLineStandard is the ideal chain line for a bike type, in mm
type ChainLineStandard struct {
	IdealMM     float64
	ToleranceMM float64
}

// defaultDerailleurTiers lists cage tiers per bike type. Order matters: the
// first satisfying tier is the recommended cage.
var defaultDerailleurTiers = map[entities.BikeType][]CageTier{
	entities.Road: {
		{Cage: ShortCage, MaxCapacity: 29, MaxCog: 32},
		{Cage: MediumCage, MaxCapacity: 35, MaxCog: 36},
		{Cage: LongCage, MaxCapacity: 41, MaxCog: 42},
	},
	entities.Gravel: {
		{Cage: MediumCage, MaxCapacity: 35, MaxCog: 42},
		{Cage: LongCage, MaxCapacity: 41, MaxCog: 50},
	},
	entities.MTB: {
		{Cage: MediumCage, MaxCapacity: 35, MaxCog: 46},
		{Cage: LongCage, MaxCapacity: 41, MaxCog: 52},
		{Cage: ExtraLongCage, MaxCapacity: 47, MaxCog: 52},
	},
}

var defaultChainLineStandards = map[entities.BikeType]ChainLineStandard{
	entities.Road:   {IdealMM: 43.5, ToleranceMM: 2.5},
	entities.Gravel: {IdealMM: 45, ToleranceMM: 3},
	entities.MTB:    {IdealMM: 52, ToleranceMM: 4},
}

const (
	roadMaxCogBeforeGRX    = 36
	gravelMaxCogBeforeMTB  = 50
	minDoubleBigBigRatio   = 1.5
	maxDoubleSmallSmall    = 3.5
	maxSingleCassetteRange = 5.0
	chainLengthMaxCog      = 46
	legacySpeedThreshold   = 10
)

// CompatibilityChecker evaluates a setup for mechanical compatibility.
// It holds only configuration; every method is side-effect free.
type CompatibilityChecker struct {
	derailleurTiers    map[entities.BikeType][]CageTier
	chainLineStandards map[entities.BikeType]ChainLineStandard
}

// NewCompatibilityChecker creates a checker with the standard limit tables
func NewCompatibilityChecker() *CompatibilityChecker {
	return &CompatibilityChecker{
		derailleurTiers:    defaultDerailleurTiers,
		chainLineStandards: defaultChainLineStandards,
	}
}

// DerailleurTiers returns the ordered cage tiers for a bike type. Unknown bike
// types use the road table.
func (c *CompatibilityChecker) DerailleurTiers(bikeType entities.BikeType) []CageTier {
	tiers, ok := c.derailleurTiers[bikeType]
	if !ok {
		tiers = c.derailleurTiers[entities.Road]
	}
	return append([]CageTier(nil), tiers...)
}

// ChainLineStandard returns the chain line target for a bike type. Unknown bike
// types use the road standard.
func (c *CompatibilityChecker) ChainLineStandard(bikeType entities.BikeType) ChainLineStandard {
	std, ok := c.chainLineStandards[bikeType]
	if !ok {
		std = c.chainLineStandards[entities.Road]
	}
	return std
}

// CheckCompatibility evaluates derailleur capacity, speed matching, chain line
// and chain length. A setup without a crankset or cassette yields the default
// compatible result. Missing tooth data skips the affected checks.
func (c *CompatibilityChecker) CheckCompatibility(setup *entities.Setup, bikeType entities.BikeType) *entities.CompatibilityResult {
	result := entities.NewCompatibilityResult()
	if setup == nil || setup.Crankset == nil || setup.Cassette == nil {
		return result
	}

	c.checkDerailleurCapacity(setup, bikeType, result)
	c.checkSpeedCompatibility(setup, result)
	c.checkChainLine(setup, bikeType, result)
	c.checkChainLength(setup, result)

	result.Status = result.DeriveStatus()
	return result
}

// checkDerailleurCapacity finds the first cage tier that fits the drivetrain
func (c *CompatibilityChecker) checkDerailleurCapacity(setup *entities.Setup, bikeType entities.BikeType, result *entities.CompatibilityResult) {
	if !setup.Crankset.HasTeeth() || !setup.Cassette.HasTeeth() {
		return
	}

	totalCapacity := TotalCapacity(setup.Crankset, setup.Cassette)
	maxCog := setup.Cassette.MaxTeeth()

	var recommended *CageTier
	tiers := c.DerailleurTiers(bikeType)
	for i := range tiers {
		if tiers[i].Satisfies(totalCapacity, maxCog) {
			recommended = &tiers[i]
			break
		}
	}

	if recommended == nil {
		result.Checks.DerailleurCapacity = false
		result.CriticalIssues = append(result.CriticalIssues,
			fmt.Sprintf("Derailleur capacity exceeded: %dT total capacity with %dT largest cog exceeds every %s derailleur option",
				totalCapacity, maxCog, bikeType))
		result.ActionItems = append(result.ActionItems,
			"Reduce the chainring difference or choose a narrower-range cassette")
	} else if recommended.Cage == LongCage || recommended.Cage == ExtraLongCage {
		result.MinorWarnings = append(result.MinorWarnings,
			fmt.Sprintf("Recommended %s derailleur (%dT total capacity, %dT largest cog)",
				recommended.Cage, totalCapacity, maxCog))
	}

	switch {
	case bikeType == entities.Road && maxCog > roadMaxCogBeforeGRX:
		result.MinorWarnings = append(result.MinorWarnings,
			fmt.Sprintf("%dT cog exceeds road derailleur limits; a GRX or MTB derailleur may be needed", maxCog))
	case bikeType == entities.Gravel && maxCog > gravelMaxCogBeforeMTB:
		result.MinorWarnings = append(result.MinorWarnings,
			fmt.Sprintf("%dT cog exceeds typical gravel range; check derailleur and hanger compatibility", maxCog))
	}
}

// checkSpeedCompatibility compares the speed counts of both components
func (c *CompatibilityChecker) checkSpeedCompatibility(setup *entities.Setup, result *entities.CompatibilityResult) {
	crankSpeeds := setup.Crankset.SpeedCount()
	cassetteSpeeds := setup.Cassette.SpeedCount()

	if crankSpeeds == 0 || cassetteSpeeds == 0 {
		result.MinorWarnings = append(result.MinorWarnings,
			"Speed compatibility cannot be determined from component specifications")
		result.ActionItems = append(result.ActionItems,
			"Verify speed compatibility manually before purchasing")
		return
	}

	if crankSpeeds != cassetteSpeeds {
		result.Checks.SpeedCompatibility = false
		result.CriticalIssues = append(result.CriticalIssues,
			fmt.Sprintf("Speed mismatch: %d-speed crankset with %d-speed cassette", crankSpeeds, cassetteSpeeds))
		result.ActionItems = append(result.ActionItems,
			fmt.Sprintf("Choose components with matching speed ratings (both %d-speed or both %d-speed)", crankSpeeds, cassetteSpeeds))
		if abs(crankSpeeds-cassetteSpeeds) == 1 {
			result.ActionItems = append(result.ActionItems,
				fmt.Sprintf("%d-speed and %d-speed parts may work with careful adjustment, but shifting will not be ideal", crankSpeeds, cassetteSpeeds))
		}
		return
	}

	result.ActionItems = append(result.ActionItems,
		fmt.Sprintf("%d-speed components are perfectly matched", crankSpeeds))
	if crankSpeeds < legacySpeedThreshold {
		result.MinorWarnings = append(result.MinorWarnings,
			fmt.Sprintf("%d-speed is older technology with limited replacement part availability", crankSpeeds))
		result.ActionItems = append(result.ActionItems,
			"Consider upgrading to an 11 or 12-speed drivetrain")
	}
}

// checkChainLine flags extreme cross-chaining on doubles and wide 1x cassettes
func (c *CompatibilityChecker) checkChainLine(setup *entities.Setup, bikeType entities.BikeType, result *entities.CompatibilityResult) {
	if !setup.Crankset.HasTeeth() || !setup.Cassette.HasTeeth() {
		return
	}

	rings := len(setup.Crankset.Teeth)
	minCog, maxCog := setup.Cassette.MinTeeth(), setup.Cassette.MaxTeeth()
	std := c.ChainLineStandard(bikeType)

	switch {
	case rings > 1:
		bigBig := GearRatio(setup.Crankset.MaxTeeth(), maxCog)
		smallSmall := GearRatio(setup.Crankset.MinTeeth(), minCog)
		if bigBig < minDoubleBigBigRatio || smallSmall > maxDoubleSmallSmall {
			result.MinorWarnings = append(result.MinorWarnings,
				fmt.Sprintf("Extreme cross-chain combinations will stray from the %.1fmm (±%.1fmm) chain line", std.IdealMM, std.ToleranceMM))
			result.ActionItems = append(result.ActionItems,
				"Avoid big-ring/big-cog and small-ring/small-cog combinations")
		}
	case rings == 1:
		if float64(maxCog)/float64(minCog) > maxSingleCassetteRange {
			result.MinorWarnings = append(result.MinorWarnings,
				fmt.Sprintf("Wide range cassette (%d-%dT) may cause chain line issues at the extremes", minCog, maxCog))
			result.ActionItems = append(result.ActionItems,
				"Use a narrow-wide chainring and a clutch derailleur to keep the chain secure")
		}
		result.ActionItems = append(result.ActionItems,
			"1x systems keep an excellent chain line through the middle of the cassette")
	}
}

// checkChainLength flags doubles paired with very large cogs
func (c *CompatibilityChecker) checkChainLength(setup *entities.Setup, result *entities.CompatibilityResult) {
	if !setup.Crankset.HasTeeth() || !setup.Cassette.HasTeeth() {
		return
	}
	maxCog := setup.Cassette.MaxTeeth()
	if len(setup.Crankset.Teeth) > 1 && maxCog > chainLengthMaxCog {
		result.MinorWarnings = append(result.MinorWarnings,
			fmt.Sprintf("%dT cog with a double chainring may require a longer chain", maxCog))
		result.ActionItems = append(result.ActionItems,
			"Check chain length during installation (big ring to big cog plus two links)")
	}
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
