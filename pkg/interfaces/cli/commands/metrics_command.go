package commands

import (
	"github.com/urfave/cli/v2"

	"github.com/vsinha/gearcalc/pkg/interfaces/cli/output"
)

func metricsCommand() *cli.Command {
	return &cli.Command{
		Name:      "metrics",
		Usage:     "Calculate speed, ratio, gear inch and weight figures of a setup",
		UsageText: "gearcalc metrics --crankset ID --cassette ID [--wheel 700c] [--tire 25]",
		Flags:     setupFlags("", defaultWheelSize, defaultTireWidth),
		Action:    runMetrics,
	}
}

func runMetrics(c *cli.Context) error {
	r, err := newRuntime(c)
	if err != nil {
		return err
	}

	report, err := r.service.Evaluate(c.Context, setupRequest(c, ""), r.bikeType, r.unit)
	if err != nil {
		return err
	}
	return r.write(output.MetricsDocument{Report: report})
}
