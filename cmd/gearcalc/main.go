// gearcalc compares bicycle drivetrain setups and checks component compatibility.
//
// Usage:
//
//	gearcalc catalog --kind cassette --type road
//	gearcalc metrics --crankset ID --cassette ID --wheel 700c --tire 28
//	gearcalc check --crankset ID --cassette ID --fail-on-error
//	gearcalc compare --current-crankset ID --current-cassette ID --proposed-cassette ID
package main

import (
	"fmt"
	"os"

	"github.com/vsinha/gearcalc/pkg/infrastructure/config"
	"github.com/vsinha/gearcalc/pkg/interfaces/cli/commands"
)

var (
	version = "dev"
	commit  = "none"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	app := commands.NewApp(cfg, fmt.Sprintf("%s (commit: %s)", version, commit))
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
