package entities

// CompatibilityStatus is the overall verdict of a compatibility check
type CompatibilityStatus string

const (
	StatusCompatible CompatibilityStatus = "compatible"
	StatusWarning    CompatibilityStatus = "warning"
	StatusError      CompatibilityStatus = "error"
)

// String method for CompatibilityStatus
func (s CompatibilityStatus) String() string {
	return string(s)
}

// CompatibilityChecks records which mechanical checks passed
type CompatibilityChecks struct {
	DerailleurCapacity bool `json:"derailleurCapacity"`
	ChainLength        bool `json:"chainLength"`
	SpeedCompatibility bool `json:"speedCompatibility"`
	ChainLine          bool `json:"chainLine"`
}

// CompatibilityResult is the outcome of a compatibility check. It is built
// fresh per check and not modified after it is returned.
type CompatibilityResult struct {
	Status         CompatibilityStatus `json:"status"`
	CriticalIssues []string            `json:"criticalIssues"`
	MinorWarnings  []string            `json:"minorWarnings"`
	ActionItems    []string            `json:"actionItems"`
	Checks         CompatibilityChecks `json:"checks"`
}

// NewCompatibilityResult returns the default result: compatible, every check passing
func NewCompatibilityResult() *CompatibilityResult {
	return &CompatibilityResult{
		Status:         StatusCompatible,
		CriticalIssues: []string{},
		MinorWarnings:  []string{},
		ActionItems:    []string{},
		Checks: CompatibilityChecks{
			DerailleurCapacity: true,
			ChainLength:        true,
			SpeedCompatibility: true,
			ChainLine:          true,
		},
	}
}

// DeriveStatus applies the precedence error > warning > compatible
func (r *CompatibilityResult) DeriveStatus() CompatibilityStatus {
	switch {
	case len(r.CriticalIssues) > 0:
		return StatusError
	case len(r.MinorWarnings) > 0:
		return StatusWarning
	default:
		return StatusCompatible
	}
}
