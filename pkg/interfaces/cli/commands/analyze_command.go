package commands

import (
	"github.com/urfave/cli/v2"

	"github.com/vsinha/gearcalc/pkg/domain/entities"
	"github.com/vsinha/gearcalc/pkg/interfaces/cli/output"
)

func analyzeCommand() *cli.Command {
	return &cli.Command{
		Name:   "analyze",
		Usage:  "Analyze gear ratio spread and chainring overlap",
		Flags:  setupFlags("", "", ""),
		Action: runAnalyze,
	}
}

func runAnalyze(c *cli.Context) error {
	r, err := newRuntime(c)
	if err != nil {
		return err
	}

	setup, err := r.resolveSetup(c, "")
	if err != nil {
		return err
	}
	checker := r.service.Checker()

	return r.write(output.AnalysisDocument{
		Setup:    setup,
		BikeType: r.bikeType,
		Analysis: checker.AnalyzeGearRatios(setup, r.bikeType),
		Overlap:  checker.AnalyzeGearOverlap(teethOf(setup.Crankset), teethOf(setup.Cassette)),
	})
}

func installCommand() *cli.Command {
	return &cli.Command{
		Name:   "install",
		Usage:  "Estimate installation complexity, time and tools",
		Flags:  setupFlags("", "", ""),
		Action: runInstall,
	}
}

func runInstall(c *cli.Context) error {
	r, err := newRuntime(c)
	if err != nil {
		return err
	}

	setup, err := r.resolveSetup(c, "")
	if err != nil {
		return err
	}
	return r.write(output.InstallationDocument{
		Setup:      setup,
		Assessment: r.service.Checker().AssessInstallationComplexity(setup),
	})
}

func teethOf(c *entities.Component) []int {
	if c == nil {
		return nil
	}
	return c.Teeth
}
