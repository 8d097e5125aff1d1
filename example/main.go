package main

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/vsinha/gearcalc/pkg/application/dto"
	"github.com/vsinha/gearcalc/pkg/application/services/drivetrain"
	"github.com/vsinha/gearcalc/pkg/domain/entities"
	"github.com/vsinha/gearcalc/pkg/infrastructure/repositories/catalog"
	"github.com/vsinha/gearcalc/pkg/infrastructure/repositories/memory"
)

func main() {
	ctx := context.Background()

	// Load the built-in catalog
	components, err := catalog.NewLoader().LoadDefault()
	if err != nil {
		fmt.Printf("❌ Catalog failed: %v\n", err)
		return
	}

	repo := memory.NewComponentRepository(len(components))
	service, err := drivetrain.NewDrivetrainService(repo, drivetrain.WithLogger(zerolog.Nop()))
	if err != nil {
		fmt.Printf("❌ Service failed: %v\n", err)
		return
	}
	if err := service.LoadCatalog(components, "built-in"); err != nil {
		fmt.Printf("❌ Catalog failed: %v\n", err)
		return
	}

	// A compact road bike getting a wide range gravel-friendly cassette
	current := dto.SetupRequest{
		CranksetID: "shimano-105-r7000-50-34",
		CassetteID: "shimano-105-r7000-11-28",
		WheelSize:  "700c",
		TireWidth:  "28",
	}
	proposed := current
	proposed.CassetteID = "shimano-105-r7000-11-34"

	fmt.Println("🚲 Evaluating current setup...")
	report, err := service.Evaluate(ctx, current, entities.Road, entities.KMH)
	if err != nil {
		fmt.Printf("❌ Evaluation failed: %v\n", err)
		return
	}
	fmt.Printf("Top speed: %s %s, climbing speed: %s %s\n",
		report.Metrics.HighSpeed, report.Metrics.SpeedUnit,
		report.Metrics.LowSpeed, report.Metrics.SpeedUnit)
	fmt.Printf("Gear overlap: %d%%\n", report.Overlap.Percentage)
	fmt.Println()

	fmt.Println("⚖️  Comparing with an 11-34 cassette...")
	comparison, err := service.Compare(ctx, current, proposed, entities.Road, entities.KMH, dto.ModeFull)
	if err != nil {
		fmt.Printf("❌ Comparison failed: %v\n", err)
		return
	}
	fmt.Printf("Speed change: %s %s\n", comparison.Changes.SpeedChange, comparison.Changes.SpeedUnit)
	fmt.Printf("Weight change: %s g\n", comparison.Changes.WeightChange)
	fmt.Printf("Range change: %s%%\n", comparison.Changes.RangeChange)
	fmt.Println()

	fmt.Printf("🔧 %s: %s\n", comparison.Summary.Title, comparison.Summary.Message)
	for _, issue := range comparison.Summary.CriticalIssues {
		fmt.Printf("  ❌ %s\n", issue)
	}
	for _, warning := range comparison.Summary.MinorWarnings {
		fmt.Printf("  ⚠️  %s\n", warning)
	}
	for _, action := range comparison.Summary.ActionItems {
		fmt.Printf("  • %s\n", action)
	}
}
