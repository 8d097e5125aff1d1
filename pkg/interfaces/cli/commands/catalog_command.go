package commands

import (
	"github.com/urfave/cli/v2"

	"github.com/vsinha/gearcalc/pkg/domain/entities"
	"github.com/vsinha/gearcalc/pkg/interfaces/cli/output"
)

func catalogCommand() *cli.Command {
	return &cli.Command{
		Name:  "catalog",
		Usage: "List catalog components",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "kind",
				Aliases: []string{"k"},
				Usage:   "Only list this kind (crankset, cassette)",
			},
			&cli.StringFlag{
				Name:  "type",
				Usage: "Only list components for this bike type (road, gravel, mtb)",
			},
		},
		Action: runCatalog,
	}
}

func runCatalog(c *cli.Context) error {
	r, err := newRuntime(c)
	if err != nil {
		return err
	}

	var kind entities.ComponentKind
	if s := c.String("kind"); s != "" {
		if kind, err = entities.ParseComponentKind(s); err != nil {
			return err
		}
	}
	var bikeType entities.BikeType
	if s := c.String("type"); s != "" {
		if bikeType, err = entities.ParseBikeType(s); err != nil {
			return err
		}
	}

	components, err := r.service.ListComponents(kind, bikeType)
	if err != nil {
		return err
	}
	return r.write(output.CatalogDocument{Components: components})
}
