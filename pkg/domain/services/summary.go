package services

import (
	"encoding/json"
	"fmt"

	"github.com/vsinha/gearcalc/pkg/domain/entities"
)

const maxSummaryActionItems = 3

// CompatibilitySummary is the UI-facing digest of a compatibility result
type CompatibilitySummary struct {
	Status         entities.CompatibilityStatus `json:"status"`
	Title          string                       `json:"title"`
	Message        string                       `json:"message"`
	ActionItems    []string                     `json:"actionItems"`
	CriticalIssues []string                     `json:"criticalIssues"`
	MinorWarnings  []string                     `json:"minorWarnings"`
}

var summaryTitles = map[entities.CompatibilityStatus]string{
	entities.StatusCompatible: "Fully Compatible",
	entities.StatusWarning:    "Compatible with Warnings",
	entities.StatusError:      "Compatibility Issues Found",
}

// GenerateCompatibilitySummary condenses a result into a title, a message with
// correctly pluralized counts and at most three action items.
func GenerateCompatibilitySummary(result *entities.CompatibilityResult) *CompatibilitySummary {
	if result == nil {
		result = entities.NewCompatibilityResult()
	}

	status := result.Status
	if _, ok := summaryTitles[status]; !ok {
		status = result.DeriveStatus()
	}

	actions := result.ActionItems
	if len(actions) > maxSummaryActionItems {
		actions = actions[:maxSummaryActionItems]
	}

	return &CompatibilitySummary{
		Status:         status,
		Title:          summaryTitles[status],
		Message:        summaryMessage(status, len(result.CriticalIssues), len(result.MinorWarnings)),
		ActionItems:    append([]string{}, actions...),
		CriticalIssues: append([]string{}, result.CriticalIssues...),
		MinorWarnings:  append([]string{}, result.MinorWarnings...),
	}
}

func summaryMessage(status entities.CompatibilityStatus, issues, warnings int) string {
	switch status {
	case entities.StatusError:
		if issues == 1 {
			return "1 critical issue prevents this setup from working properly"
		}
		return fmt.Sprintf("%d critical issues prevent this setup from working properly", issues)
	case entities.StatusWarning:
		if warnings == 1 {
			return "Setup will work, but 1 minor consideration should be reviewed"
		}
		return fmt.Sprintf("Setup will work, but %d minor considerations should be reviewed", warnings)
	default:
		return "All components work together without compatibility concerns"
	}
}

// compatibilityPayload accepts both the current field names and the legacy
// overall/issues/warnings/recommendations shape.
type compatibilityPayload struct {
	Status          *entities.CompatibilityStatus `json:"status"`
	Overall         *entities.CompatibilityStatus `json:"overall"`
	CriticalIssues  []string                      `json:"criticalIssues"`
	Issues          []string                      `json:"issues"`
	MinorWarnings   []string                      `json:"minorWarnings"`
	Warnings        []string                      `json:"warnings"`
	ActionItems     []string                      `json:"actionItems"`
	Recommendations []string                      `json:"recommendations"`
	Checks          *entities.CompatibilityChecks `json:"checks"`
}

// ParseCompatibilityResult decodes a stored compatibility result in either the
// current or the legacy field layout. Current field names take precedence.
func ParseCompatibilityResult(data []byte) (*entities.CompatibilityResult, error) {
	var p compatibilityPayload
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("failed to decode compatibility result: %w", err)
	}

	result := entities.NewCompatibilityResult()
	result.CriticalIssues = firstNonNil(p.CriticalIssues, p.Issues)
	result.MinorWarnings = firstNonNil(p.MinorWarnings, p.Warnings)
	result.ActionItems = firstNonNil(p.ActionItems, p.Recommendations)
	if p.Checks != nil {
		result.Checks = *p.Checks
	}

	switch {
	case p.Status != nil:
		result.Status = *p.Status
	case p.Overall != nil:
		result.Status = *p.Overall
	default:
		result.Status = result.DeriveStatus()
	}
	return result, nil
}

func firstNonNil(lists ...[]string) []string {
	for _, l := range lists {
		if l != nil {
			return l
		}
	}
	return []string{}
}
