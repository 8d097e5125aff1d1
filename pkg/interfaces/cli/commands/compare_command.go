package commands

import (
	"github.com/urfave/cli/v2"

	"github.com/vsinha/gearcalc/pkg/application/dto"
	"github.com/vsinha/gearcalc/pkg/interfaces/cli/output"
)

const (
	currentPrefix  = "current-"
	proposedPrefix = "proposed-"
)

func compareCommand() *cli.Command {
	flags := []cli.Flag{
		&cli.StringFlag{
			Name:    "mode",
			Aliases: []string{"m"},
			Value:   string(dto.ModeQuick),
			Usage:   "Comparison formulas (quick, full)",
		},
	}
	flags = append(flags, setupFlags(currentPrefix, defaultWheelSize, defaultTireWidth)...)
	flags = append(flags, setupFlags(proposedPrefix, "", "")...)

	return &cli.Command{
		Name:  "compare",
		Usage: "Compare a current setup with a proposed upgrade",
		Description: "The proposed setup reuses the current wheel and tire unless " +
			"--proposed-wheel or --proposed-tire is given. Compatibility is checked " +
			"for the proposed setup only.",
		Flags:  flags,
		Action: runCompare,
	}
}

func runCompare(c *cli.Context) error {
	r, err := newRuntime(c)
	if err != nil {
		return err
	}

	current := setupRequest(c, currentPrefix)
	proposed := setupRequest(c, proposedPrefix)
	if proposed.WheelSize == "" {
		proposed.WheelSize = current.WheelSize
	}
	if proposed.TireWidth == "" {
		proposed.TireWidth = current.TireWidth
	}

	report, err := r.service.Compare(c.Context, current, proposed, r.bikeType, r.unit, dto.ComparisonMode(c.String("mode")))
	if err != nil {
		return err
	}

	doc, err := output.NewComparisonDocument(report)
	if err != nil {
		return err
	}
	return r.write(doc)
}
