package commands

import (
	"github.com/urfave/cli/v2"

	"github.com/vsinha/gearcalc/pkg/domain/entities"
	"github.com/vsinha/gearcalc/pkg/interfaces/cli/output"
)

// ExitIncompatible is returned by check --fail-on-error for setups with critical issues
const ExitIncompatible = 2

func checkCommand() *cli.Command {
	return &cli.Command{
		Name:  "check",
		Usage: "Check crankset, cassette and derailleur compatibility",
		Flags: append(setupFlags("", "", ""),
			&cli.BoolFlag{
				Name:  "fail-on-error",
				Usage: "Exit with status 2 when critical issues are found",
			},
		),
		Action: runCheck,
	}
}

func runCheck(c *cli.Context) error {
	r, err := newRuntime(c)
	if err != nil {
		return err
	}

	setup, err := r.resolveSetup(c, "")
	if err != nil {
		return err
	}
	result, summary := r.service.CheckSetup(setup, r.bikeType)

	doc := output.CheckDocument{Setup: setup, BikeType: r.bikeType, Result: result, Summary: summary}
	if err := r.write(doc); err != nil {
		return err
	}

	if c.Bool("fail-on-error") && result.Status == entities.StatusError {
		return cli.Exit(summary.Message, ExitIncompatible)
	}
	return nil
}
