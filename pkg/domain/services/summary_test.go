package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vsinha/gearcalc/pkg/domain/entities"
)

func TestGenerateCompatibilitySummary(t *testing.T) {
	tests := []struct {
		name    string
		result  *entities.CompatibilityResult
		status  entities.CompatibilityStatus
		title   string
		message string
		actions int
	}{
		{
			name:    "compatible",
			result:  entities.NewCompatibilityResult(),
			status:  entities.StatusCompatible,
			title:   "Fully Compatible",
			message: "All components work together without compatibility concerns",
		},
		{
			name: "single_warning",
			result: &entities.CompatibilityResult{
				Status:        entities.StatusWarning,
				MinorWarnings: []string{"w1"},
				ActionItems:   []string{"a1"},
			},
			status:  entities.StatusWarning,
			title:   "Compatible with Warnings",
			message: "Setup will work, but 1 minor consideration should be reviewed",
			actions: 1,
		},
		{
			name: "several_warnings",
			result: &entities.CompatibilityResult{
				Status:        entities.StatusWarning,
				MinorWarnings: []string{"w1", "w2", "w3"},
			},
			status:  entities.StatusWarning,
			title:   "Compatible with Warnings",
			message: "Setup will work, but 3 minor considerations should be reviewed",
		},
		{
			name: "single_issue",
			result: &entities.CompatibilityResult{
				Status:         entities.StatusError,
				CriticalIssues: []string{"i1"},
				ActionItems:    []string{"a1", "a2", "a3", "a4", "a5"},
			},
			status:  entities.StatusError,
			title:   "Compatibility Issues Found",
			message: "1 critical issue prevents this setup from working properly",
			actions: 3,
		},
		{
			name: "several_issues",
			result: &entities.CompatibilityResult{
				Status:         entities.StatusError,
				CriticalIssues: []string{"i1", "i2"},
			},
			status:  entities.StatusError,
			title:   "Compatibility Issues Found",
			message: "2 critical issues prevent this setup from working properly",
		},
		{
			name: "unknown_status_is_derived",
			result: &entities.CompatibilityResult{
				CriticalIssues: []string{"i1"},
				MinorWarnings:  []string{"w1"},
			},
			status:  entities.StatusError,
			title:   "Compatibility Issues Found",
			message: "1 critical issue prevents this setup from working properly",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			summary := GenerateCompatibilitySummary(tt.result)
			assert.Equal(t, tt.status, summary.Status)
			assert.Equal(t, tt.title, summary.Title)
			assert.Equal(t, tt.message, summary.Message)
			assert.Len(t, summary.ActionItems, tt.actions)
		})
	}
}

func TestGenerateCompatibilitySummary_KeepsFirstActions(t *testing.T) {
	result := &entities.CompatibilityResult{
		Status:      entities.StatusCompatible,
		ActionItems: []string{"a1", "a2", "a3", "a4"},
	}

	summary := GenerateCompatibilitySummary(result)

	assert.Equal(t, []string{"a1", "a2", "a3"}, summary.ActionItems)
	summary.ActionItems[0] = "changed"
	assert.Equal(t, "a1", result.ActionItems[0], "summary must not alias the result")
}

func TestGenerateCompatibilitySummary_FromChecker(t *testing.T) {
	checker := NewCompatibilityChecker()
	setup := &entities.Setup{
		Crankset: entities.CranksetFromChainrings([]int{50, 34}),
		Cassette: entities.CassetteFromCogs([]int{11, 28}),
	}
	setup.Crankset.Speeds = "10-speed"
	setup.Cassette.Speeds = "11-speed"

	summary := GenerateCompatibilitySummary(checker.CheckCompatibility(setup, entities.Road))

	assert.Equal(t, entities.StatusError, summary.Status)
	assert.Equal(t, []string{"Speed mismatch: 10-speed crankset with 11-speed cassette"}, summary.CriticalIssues)
}

func TestParseCompatibilityResult(t *testing.T) {
	t.Run("current_shape", func(t *testing.T) {
		data := []byte(`{
			"status": "warning",
			"criticalIssues": [],
			"minorWarnings": ["w1"],
			"actionItems": ["a1"],
			"checks": {"derailleurCapacity": true, "chainLength": true, "speedCompatibility": true, "chainLine": false}
		}`)
		result, err := ParseCompatibilityResult(data)
		require.NoError(t, err)
		assert.Equal(t, entities.StatusWarning, result.Status)
		assert.Equal(t, []string{"w1"}, result.MinorWarnings)
		assert.Equal(t, []string{"a1"}, result.ActionItems)
		assert.Empty(t, result.CriticalIssues)
		assert.False(t, result.Checks.ChainLine)
	})

	t.Run("legacy_shape", func(t *testing.T) {
		data := []byte(`{"overall": "error", "issues": ["i1"], "warnings": ["w1", "w2"], "recommendations": ["r1"]}`)
		result, err := ParseCompatibilityResult(data)
		require.NoError(t, err)
		assert.Equal(t, entities.StatusError, result.Status)
		assert.Equal(t, []string{"i1"}, result.CriticalIssues)
		assert.Equal(t, []string{"w1", "w2"}, result.MinorWarnings)
		assert.Equal(t, []string{"r1"}, result.ActionItems)
		assert.True(t, result.Checks.DerailleurCapacity, "missing checks default to passing")
	})

	t.Run("current_names_win", func(t *testing.T) {
		data := []byte(`{"status": "compatible", "overall": "error", "actionItems": ["new"], "recommendations": ["old"]}`)
		result, err := ParseCompatibilityResult(data)
		require.NoError(t, err)
		assert.Equal(t, entities.StatusCompatible, result.Status)
		assert.Equal(t, []string{"new"}, result.ActionItems)
	})

	t.Run("status_derived_when_absent", func(t *testing.T) {
		result, err := ParseCompatibilityResult([]byte(`{"warnings": ["w1"]}`))
		require.NoError(t, err)
		assert.Equal(t, entities.StatusWarning, result.Status)
		assert.Equal(t, "Compatible with Warnings", GenerateCompatibilitySummary(result).Title)
	})

	t.Run("invalid_json", func(t *testing.T) {
		_, err := ParseCompatibilityResult([]byte(`{`))
		assert.ErrorContains(t, err, "failed to decode compatibility result")
	})
}
