package commands

import (
	"fmt"
	"io"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"

	"github.com/vsinha/gearcalc/pkg/infrastructure/config"
)

const (
	flagCatalog   = "catalog"
	flagBikeType  = "bike-type"
	flagUnit      = "unit"
	flagLogLevel  = "log-level"
	flagFormat    = "format"
	flagOutputDir = "output-dir"
	flagVerbose   = "verbose"
	flagCacheSize = "cache-size"
)

// NewApp builds the gearcalc command line application. Flag defaults come
// from cfg; each global flag can also be set through its GEARCALC_* variable.
func NewApp(cfg *config.Config, version string) *cli.App {
	return &cli.App{
		Name:    "gearcalc",
		Usage:   "Bicycle drivetrain performance and compatibility calculator",
		Version: version,

		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    flagCatalog,
				Aliases: []string{"c"},
				Value:   cfg.CatalogPath,
				Usage:   "Component catalog file (.csv, .yaml or .jsonc); the built-in catalog when empty",
				EnvVars: []string{config.EnvCatalog},
			},
			&cli.StringFlag{
				Name:    flagBikeType,
				Aliases: []string{"b"},
				Value:   string(cfg.BikeType),
				Usage:   "Bike type (road, gravel, mtb)",
				EnvVars: []string{config.EnvBikeType},
			},
			&cli.StringFlag{
				Name:    flagUnit,
				Aliases: []string{"u"},
				Value:   string(cfg.SpeedUnit),
				Usage:   "Speed unit (kmh, mph)",
				EnvVars: []string{config.EnvSpeedUnit},
			},
			&cli.StringFlag{
				Name:    flagLogLevel,
				Value:   cfg.LogLevel.String(),
				Usage:   "Log level (debug, info, warn, error)",
				EnvVars: []string{config.EnvLogLevel},
			},
			&cli.StringFlag{
				Name:    flagFormat,
				Aliases: []string{"f"},
				Value:   string(defaultFormat),
				Usage:   "Output format (text, json, markdown)",
			},
			&cli.StringFlag{
				Name:    flagOutputDir,
				Aliases: []string{"o"},
				Value:   cfg.OutputDir,
				Usage:   "Save results into this directory instead of printing them",
				EnvVars: []string{config.EnvOutputDir},
			},
			&cli.BoolFlag{
				Name:    flagVerbose,
				Value:   cfg.Verbose,
				Usage:   "Log catalog loading and calculation events",
				EnvVars: []string{config.EnvVerbose},
			},
			&cli.IntFlag{
				Name:    flagCacheSize,
				Value:   cfg.CacheSize,
				Usage:   "Number of setup evaluations kept in memory",
				EnvVars: []string{config.EnvCacheSize},
			},
		},

		Before: func(c *cli.Context) error {
			return configureLogging(c)
		},

		Commands: []*cli.Command{
			catalogCommand(),
			metricsCommand(),
			checkCommand(),
			analyzeCommand(),
			installCommand(),
			compareCommand(),
		},
	}
}

// configureLogging points the global logger at stderr so stdout only carries results
func configureLogging(c *cli.Context) error {
	level, err := zerolog.ParseLevel(c.String(flagLogLevel))
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", c.String(flagLogLevel), err)
	}
	if c.Bool(flagVerbose) && level > zerolog.InfoLevel {
		level = zerolog.InfoLevel
	}

	var out io.Writer = c.App.ErrWriter
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: out, NoColor: true}).
		Level(level).
		With().
		Timestamp().
		Logger()
	return nil
}
