package services

import (
	"strings"

	"github.com/vsinha/gearcalc/pkg/domain/entities"
)

// InstallationComplexity grades how involved an installation is
type InstallationComplexity string

const (
	ComplexityBasic    InstallationComplexity = "basic"
	ComplexityModerate InstallationComplexity = "moderate"
	ComplexityAdvanced InstallationComplexity = "advanced"
)

// InstallationAssessment estimates the effort needed to install a setup
type InstallationAssessment struct {
	Complexity      InstallationComplexity `json:"complexity"`
	Recommendations []string               `json:"recommendations"`
	RequiredTools   []string               `json:"requiredTools"`
	EstimatedTime   string                 `json:"estimatedTime"`
}

// AssessInstallationComplexity counts the factors that make an installation
// harder: electronic shifting, press-fit bottom brackets and XD/XDR driver bodies.
func (c *CompatibilityChecker) AssessInstallationComplexity(setup *entities.Setup) *InstallationAssessment {
	assessment := &InstallationAssessment{
		Recommendations: []string{},
		RequiredTools:   []string{"Chain tool", "Cassette lockring tool", "Chain whip", "Torque wrench"},
	}

	var crankset, cassette *entities.Component
	if setup != nil {
		crankset, cassette = setup.Crankset, setup.Cassette
	}

	factors := 0
	if hasElectronicShifting(crankset) || hasElectronicShifting(cassette) {
		factors++
		assessment.Recommendations = append(assessment.Recommendations,
			"Electronic shifting needs firmware updates and system calibration")
		assessment.RequiredTools = append(assessment.RequiredTools, "Di2 diagnostic tool or E-Tube app")
	}
	if crankset != nil && containsAny(crankset.Model, "BB30", "PF30") {
		factors++
		assessment.Recommendations = append(assessment.Recommendations,
			"Press-fit bottom bracket requires a bearing press and removal tools")
		assessment.RequiredTools = append(assessment.RequiredTools, "Bottom bracket press")
	}
	if cassette != nil && containsAny(cassette.Model, "XDR", "XD") {
		factors++
		assessment.Recommendations = append(assessment.Recommendations,
			"XD/XDR cassette requires a matching freehub driver body")
		assessment.RequiredTools = append(assessment.RequiredTools, "Freehub body tool")
	}

	switch {
	case factors == 0:
		assessment.Complexity = ComplexityBasic
		assessment.EstimatedTime = "30-60 minutes"
	case factors <= 2:
		assessment.Complexity = ComplexityModerate
		assessment.EstimatedTime = "1-2 hours"
	default:
		assessment.Complexity = ComplexityAdvanced
		assessment.EstimatedTime = "2-3 hours"
	}

	assessment.Recommendations = append(assessment.Recommendations,
		"Professional installation recommended for optimal shifting performance")
	return assessment
}

func hasElectronicShifting(c *entities.Component) bool {
	return c != nil && strings.Contains(c.Speeds, "Di2")
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
