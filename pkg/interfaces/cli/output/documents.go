package output

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/pmezard/go-difflib/difflib"

	"github.com/vsinha/gearcalc/pkg/application/dto"
	"github.com/vsinha/gearcalc/pkg/domain/entities"
	"github.com/vsinha/gearcalc/pkg/domain/services"
)

var statusIcons = map[entities.CompatibilityStatus]string{
	entities.StatusCompatible: "✅",
	entities.StatusWarning:    "⚠️ ",
	entities.StatusError:      "❌",
}

// CatalogDocument lists catalog components
type CatalogDocument struct {
	Components []*entities.Component
}

func (d CatalogDocument) Name() string       { return "catalog" }
func (d CatalogDocument) Value() interface{} { return d.Components }

func (d CatalogDocument) WriteText(w io.Writer) error {
	p := &printer{w: w}
	p.printf("%-32s %-9s %-7s %-28s %-22s %-14s %8s\n", "ID", "Kind", "Bike", "Model", "Teeth", "Speeds", "Weight")
	p.printf("%-32s %-9s %-7s %-28s %-22s %-14s %8s\n",
		strings.Repeat("-", 32), strings.Repeat("-", 9), strings.Repeat("-", 7), strings.Repeat("-", 28),
		strings.Repeat("-", 22), strings.Repeat("-", 14), strings.Repeat("-", 8))
	for _, c := range d.Components {
		p.printf("%-32s %-9s %-7s %-28s %-22s %-14s %7.0fg\n",
			c.ID, c.Kind, c.BikeType, truncate(c.Model, 28), truncate(teeth(c.Teeth), 22), c.Speeds, c.Weight)
	}
	p.printf("\n%d components\n", len(d.Components))
	return p.err
}

func (d CatalogDocument) WriteMarkdown(w io.Writer) error {
	p := &printer{w: w}
	p.println("## 🚲 Component Catalog")
	p.println("")
	p.println("| ID | Kind | Bike | Model | Teeth | Speeds | Weight |")
	p.println("|----|------|------|-------|-------|--------|--------|")
	for _, c := range d.Components {
		p.printf("| `%s` | %s | %s | %s | %s | %s | %.0f g |\n",
			c.ID, c.Kind, c.BikeType, c.Model, teeth(c.Teeth), c.Speeds, c.Weight)
	}
	return p.err
}

// MetricsDocument renders the performance metrics of an evaluation
type MetricsDocument struct {
	Report *dto.EvaluationReport
}

type metricsValue struct {
	Fingerprint string                         `json:"fingerprint"`
	Setup       *entities.Setup                `json:"setup"`
	Metrics     dto.MetricsView                `json:"metrics"`
	Derailleur  *services.DerailleurReport     `json:"derailleur,omitempty"`
	Summary     *services.CompatibilitySummary `json:"summary"`
}

func (d MetricsDocument) Name() string { return "metrics" }

func (d MetricsDocument) Value() interface{} {
	return metricsValue{
		Fingerprint: d.Report.Fingerprint,
		Setup:       d.Report.Setup,
		Metrics:     d.Report.Metrics,
		Derailleur:  d.Report.Derailleur,
		Summary:     d.Report.Summary,
	}
}

func (d MetricsDocument) WriteText(w io.Writer) error {
	r := d.Report
	m := r.Metrics
	p := &printer{w: w}
	p.println("🚲 Setup Metrics")
	p.println("================")
	writeSetupText(p, r.Setup)
	p.println("")
	p.printf("Top speed @ %.0f rpm:  %s %s  (ratio %s, %s gear inches)\n",
		services.CadenceRPM, m.HighSpeed, m.SpeedUnit, m.HighRatio, m.HighGearInches)
	p.printf("Climbing speed:      %s %s  (ratio %s, %s gear inches)\n",
		m.LowSpeed, m.SpeedUnit, m.LowRatio, m.LowGearInches)
	p.printf("Gear range:          %s%%\n", m.GearRangePercent)
	p.printf("Weight:              %s g\n", m.TotalWeight)
	if r.Derailleur != nil {
		p.printf("Derailleur capacity: %dT\n", r.Derailleur.Capacity)
		p.list("  ⚠️  ", r.Derailleur.Warnings)
	}
	if r.Summary != nil {
		p.printf("\n%s %s: %s\n", statusIcons[r.Summary.Status], r.Summary.Title, r.Summary.Message)
	}
	return p.err
}

func (d MetricsDocument) WriteMarkdown(w io.Writer) error {
	r := d.Report
	m := r.Metrics
	p := &printer{w: w}
	p.println("## 🚲 Setup Metrics")
	p.println("")
	writeSetupMarkdown(p, r.Setup)
	p.println("")
	p.println("| Metric | High gear | Low gear |")
	p.println("|--------|-----------|----------|")
	p.printf("| **Speed @ %.0f rpm** | %s %s | %s %s |\n", services.CadenceRPM, m.HighSpeed, m.SpeedUnit, m.LowSpeed, m.SpeedUnit)
	p.printf("| **Ratio** | %s | %s |\n", m.HighRatio, m.LowRatio)
	p.printf("| **Gear inches** | %s | %s |\n", m.HighGearInches, m.LowGearInches)
	p.println("")
	p.printf("- **Gear range:** %s%%\n", m.GearRangePercent)
	p.printf("- **Weight:** %s g\n", m.TotalWeight)
	if r.Derailleur != nil {
		p.printf("- **Derailleur capacity:** %dT\n", r.Derailleur.Capacity)
	}
	if r.Summary != nil {
		p.printf("- **Compatibility:** %s %s\n", statusIcons[r.Summary.Status], r.Summary.Title)
	}
	return p.err
}

// CheckDocument renders a compatibility result with its summary
type CheckDocument struct {
	Setup    *entities.Setup
	BikeType entities.BikeType
	Result   *entities.CompatibilityResult
	Summary  *services.CompatibilitySummary
}

type checkValue struct {
	BikeType entities.BikeType              `json:"bikeType"`
	Result   *entities.CompatibilityResult  `json:"result"`
	Summary  *services.CompatibilitySummary `json:"summary"`
}

func (d CheckDocument) Name() string { return "compatibility" }

func (d CheckDocument) Value() interface{} {
	return checkValue{BikeType: d.BikeType, Result: d.Result, Summary: d.Summary}
}

func (d CheckDocument) WriteText(w io.Writer) error {
	p := &printer{w: w}
	p.printf("🔧 Compatibility Check (%s)\n", d.BikeType)
	p.println("==========================")
	writeSetupText(p, d.Setup)
	p.println("")
	p.printf("%s %s\n", statusIcons[d.Summary.Status], d.Summary.Title)
	p.printf("%s\n", d.Summary.Message)
	if len(d.Result.CriticalIssues) > 0 {
		p.println("\nCritical issues:")
		p.list("  ❌ ", d.Result.CriticalIssues)
	}
	if len(d.Result.MinorWarnings) > 0 {
		p.println("\nWarnings:")
		p.list("  ⚠️  ", d.Result.MinorWarnings)
	}
	if len(d.Result.ActionItems) > 0 {
		p.println("\nAction items:")
		p.list("  • ", d.Result.ActionItems)
	}
	p.println("\nChecks:")
	writeCheck(p, "Derailleur capacity", d.Result.Checks.DerailleurCapacity)
	writeCheck(p, "Chain length", d.Result.Checks.ChainLength)
	writeCheck(p, "Speed compatibility", d.Result.Checks.SpeedCompatibility)
	writeCheck(p, "Chain line", d.Result.Checks.ChainLine)
	return p.err
}

func (d CheckDocument) WriteMarkdown(w io.Writer) error {
	p := &printer{w: w}
	p.printf("## %s %s\n\n", statusIcons[d.Summary.Status], d.Summary.Title)
	p.printf("%s\n", d.Summary.Message)
	writeMarkdownList(p, "### ❌ Critical Issues", d.Result.CriticalIssues)
	writeMarkdownList(p, "### ⚠️ Warnings", d.Result.MinorWarnings)
	writeMarkdownList(p, "### Next Steps", d.Summary.ActionItems)
	return p.err
}

// AnalysisDocument renders the gear ratio analysis of a setup
type AnalysisDocument struct {
	Setup    *entities.Setup
	BikeType entities.BikeType
	Analysis *services.GearRatioAnalysis
	Overlap  *services.GearOverlap
}

type analysisValue struct {
	BikeType entities.BikeType           `json:"bikeType"`
	Analysis *services.GearRatioAnalysis `json:"analysis"`
	Overlap  *services.GearOverlap       `json:"overlap"`
}

func (d AnalysisDocument) Name() string { return "gear-analysis" }

func (d AnalysisDocument) Value() interface{} {
	return analysisValue{BikeType: d.BikeType, Analysis: d.Analysis, Overlap: d.Overlap}
}

func (d AnalysisDocument) WriteText(w io.Writer) error {
	a := d.Analysis.Analysis
	p := &printer{w: w}
	p.printf("📈 Gear Analysis (%s)\n", d.BikeType)
	p.println("====================")
	writeSetupText(p, d.Setup)
	p.println("")
	p.printf("Ratios:      %s - %s\n", services.DisplayRatio(a.MinRatio), services.DisplayRatio(a.MaxRatio))
	p.printf("Spread:      %sx\n", services.DisplayRatio(a.RatioSpread))
	p.printf("Total gears: %d\n", a.TotalGears)
	if d.Overlap != nil && len(d.Overlap.Overlaps) > 0 {
		p.printf("Overlap:     %d%%\n", d.Overlap.Percentage)
		p.list("  ", d.Overlap.Overlaps)
	}
	if len(d.Analysis.Warnings) > 0 {
		p.println("\nWarnings:")
		p.list("  ⚠️  ", d.Analysis.Warnings)
	}
	if len(d.Analysis.Recommendations) > 0 {
		p.println("\nRecommendations:")
		p.list("  • ", d.Analysis.Recommendations)
	}
	return p.err
}

func (d AnalysisDocument) WriteMarkdown(w io.Writer) error {
	a := d.Analysis.Analysis
	p := &printer{w: w}
	p.printf("## 📈 Gear Analysis (%s)\n\n", d.BikeType)
	p.println("| Metric | Value |")
	p.println("|--------|-------|")
	p.printf("| **Lowest ratio** | %s |\n", services.DisplayRatio(a.MinRatio))
	p.printf("| **Highest ratio** | %s |\n", services.DisplayRatio(a.MaxRatio))
	p.printf("| **Spread** | %sx |\n", services.DisplayRatio(a.RatioSpread))
	p.printf("| **Total gears** | %d |\n", a.TotalGears)
	if d.Overlap != nil {
		p.printf("| **Overlap** | %d%% |\n", d.Overlap.Percentage)
	}
	writeMarkdownList(p, "### ⚠️ Warnings", d.Analysis.Warnings)
	writeMarkdownList(p, "### Recommendations", d.Analysis.Recommendations)
	return p.err
}

// InstallationDocument renders an installation assessment
type InstallationDocument struct {
	Setup      *entities.Setup
	Assessment *services.InstallationAssessment
}

func (d InstallationDocument) Name() string       { return "installation" }
func (d InstallationDocument) Value() interface{} { return d.Assessment }

func (d InstallationDocument) WriteText(w io.Writer) error {
	a := d.Assessment
	p := &printer{w: w}
	p.println("🛠  Installation Assessment")
	p.println("==========================")
	writeSetupText(p, d.Setup)
	p.println("")
	p.printf("Complexity:     %s\n", a.Complexity)
	p.printf("Estimated time: %s\n", a.EstimatedTime)
	p.println("\nRequired tools:")
	p.list("  • ", a.RequiredTools)
	p.println("\nRecommendations:")
	p.list("  • ", a.Recommendations)
	return p.err
}

func (d InstallationDocument) WriteMarkdown(w io.Writer) error {
	a := d.Assessment
	p := &printer{w: w}
	p.println("## 🛠 Installation Assessment")
	p.println("")
	p.printf("- **Complexity:** %s\n", a.Complexity)
	p.printf("- **Estimated time:** %s\n", a.EstimatedTime)
	writeMarkdownList(p, "### Required Tools", a.RequiredTools)
	writeMarkdownList(p, "### Recommendations", a.Recommendations)
	return p.err
}

// ComparisonDocument renders a comparison report with a diff of the setups
type ComparisonDocument struct {
	Report *dto.ComparisonReport
	Diff   string
}

// NewComparisonDocument builds the document and its setup diff
func NewComparisonDocument(report *dto.ComparisonReport) (ComparisonDocument, error) {
	diff, err := SetupDiff(report.Current, report.Proposed)
	if err != nil {
		return ComparisonDocument{}, err
	}
	return ComparisonDocument{Report: report, Diff: diff}, nil
}

type comparisonValue struct {
	*dto.ComparisonReport
	Diff string `json:"diff"`
}

func (d ComparisonDocument) Name() string { return "comparison-" + d.Report.ID.String() }

func (d ComparisonDocument) Value() interface{} {
	return comparisonValue{ComparisonReport: d.Report, Diff: d.Diff}
}

func (d ComparisonDocument) WriteText(w io.Writer) error {
	r := d.Report
	cur, prop, ch := r.CurrentMetrics, r.ProposedMetrics, r.Changes
	p := &printer{w: w}
	p.printf("⚖️  Setup Comparison (%s mode)\n", r.Mode)
	p.println("=================================")
	p.printf("Report: %s\n\n", r.ID)
	p.printf("%-18s %14s %14s %12s\n", "", "Current", "Proposed", "Change")
	p.printf("%-18s %14s %14s %12s\n", "Top speed", cur.HighSpeed.String()+" "+cur.SpeedUnit, prop.HighSpeed.String()+" "+prop.SpeedUnit, signed(ch.SpeedChange.String())+" "+ch.SpeedUnit)
	p.printf("%-18s %14s %14s %12s\n", "Climbing speed", cur.LowSpeed.String()+" "+cur.SpeedUnit, prop.LowSpeed.String()+" "+prop.SpeedUnit, "")
	p.printf("%-18s %14s %14s %12s\n", "Weight", cur.TotalWeight.String()+" g", prop.TotalWeight.String()+" g", signed(ch.WeightChange.String())+" g")
	p.printf("%-18s %14s %14s %12s\n", "Gear range", cur.GearRangePercent.String()+"%", prop.GearRangePercent.String()+"%", signed(ch.RangeChange.String())+"%")
	if d.Diff != "" {
		p.println("\nChanged components:")
		p.printf("%s", d.Diff)
	}
	if r.Summary != nil {
		p.printf("\nProposed setup: %s %s\n", statusIcons[r.Summary.Status], r.Summary.Title)
		p.list("  ❌ ", r.Summary.CriticalIssues)
		p.list("  ⚠️  ", r.Summary.MinorWarnings)
	}
	return p.err
}

func (d ComparisonDocument) WriteMarkdown(w io.Writer) error {
	r := d.Report
	cur, prop, ch := r.CurrentMetrics, r.ProposedMetrics, r.Changes
	p := &printer{w: w}
	p.printf("## ⚖️ Setup Comparison (%s mode)\n\n", r.Mode)
	p.println("| Metric | Current | Proposed | Change |")
	p.println("|--------|---------|----------|--------|")
	p.printf("| **Top speed** | %s %s | %s %s | %s %s |\n", cur.HighSpeed, cur.SpeedUnit, prop.HighSpeed, prop.SpeedUnit, signed(ch.SpeedChange.String()), ch.SpeedUnit)
	p.printf("| **Climbing speed** | %s %s | %s %s | |\n", cur.LowSpeed, cur.SpeedUnit, prop.LowSpeed, prop.SpeedUnit)
	p.printf("| **Weight** | %s g | %s g | %s g |\n", cur.TotalWeight, prop.TotalWeight, signed(ch.WeightChange.String()))
	p.printf("| **Gear range** | %s%% | %s%% | %s%% |\n", cur.GearRangePercent, prop.GearRangePercent, signed(ch.RangeChange.String()))
	if d.Diff != "" {
		p.println("")
		p.println("```diff")
		p.printf("%s", d.Diff)
		p.println("```")
	}
	if r.Summary != nil {
		p.printf("\n**Proposed setup:** %s %s\n", statusIcons[r.Summary.Status], r.Summary.Title)
		writeMarkdownList(p, "### ❌ Critical Issues", r.Summary.CriticalIssues)
		writeMarkdownList(p, "### ⚠️ Warnings", r.Summary.MinorWarnings)
	}
	return p.err
}

// SetupDiff returns a unified diff of two setup descriptions, empty when equal
func SetupDiff(current, proposed *entities.Setup) (string, error) {
	diff := difflib.UnifiedDiff{
		A:        difflib.SplitLines(describe(current)),
		B:        difflib.SplitLines(describe(proposed)),
		FromFile: "current",
		ToFile:   "proposed",
		Context:  1,
	}
	text, err := difflib.GetUnifiedDiffString(diff)
	if err != nil {
		return "", fmt.Errorf("failed to diff setups: %w", err)
	}
	return text, nil
}

func describe(s *entities.Setup) string {
	if s == nil {
		return ""
	}
	return s.Describe()
}

func writeSetupText(p *printer, s *entities.Setup) {
	if s == nil {
		return
	}
	p.printf("Crankset: %s (%s)\n", s.Crankset.Label(), teethOf(s.Crankset))
	p.printf("Cassette: %s (%s)\n", s.Cassette.Label(), teethOf(s.Cassette))
	if s.WheelSize != "" {
		p.printf("Wheel:    %s × %gmm\n", s.WheelSize, s.TireWidthMM)
	}
}

func writeSetupMarkdown(p *printer, s *entities.Setup) {
	if s == nil {
		return
	}
	p.printf("- **Crankset:** %s (%s)\n", s.Crankset.Label(), teethOf(s.Crankset))
	p.printf("- **Cassette:** %s (%s)\n", s.Cassette.Label(), teethOf(s.Cassette))
	if s.WheelSize != "" {
		p.printf("- **Wheel:** %s × %gmm\n", s.WheelSize, s.TireWidthMM)
	}
}

func writeMarkdownList(p *printer, heading string, items []string) {
	if len(items) == 0 {
		return
	}
	p.printf("\n%s\n\n", heading)
	p.list("- ", items)
}

func writeCheck(p *printer, name string, ok bool) {
	icon := "✅"
	if !ok {
		icon = "❌"
	}
	p.printf("  %s %s\n", icon, name)
}

func teethOf(c *entities.Component) string {
	if c == nil {
		return "-"
	}
	return teeth(c.Teeth)
}

func teeth(t []int) string {
	if len(t) == 0 {
		return "-"
	}
	parts := make([]string, len(t))
	for i, n := range t {
		parts[i] = strconv.Itoa(n)
	}
	return strings.Join(parts, "/")
}

func signed(s string) string {
	if strings.HasPrefix(s, "-") || s == "0" {
		return s
	}
	return "+" + s
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
