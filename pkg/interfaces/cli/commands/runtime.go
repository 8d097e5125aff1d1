package commands

import (
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"

	"github.com/vsinha/gearcalc/pkg/application/dto"
	"github.com/vsinha/gearcalc/pkg/application/services/drivetrain"
	"github.com/vsinha/gearcalc/pkg/domain/entities"
	"github.com/vsinha/gearcalc/pkg/infrastructure/events"
	"github.com/vsinha/gearcalc/pkg/infrastructure/repositories/catalog"
	"github.com/vsinha/gearcalc/pkg/infrastructure/repositories/memory"
	"github.com/vsinha/gearcalc/pkg/interfaces/cli/output"
)

const (
	defaultFormat    = output.FormatText
	defaultWheelSize = "700c"
	defaultTireWidth = "25"
	builtinCatalog   = "built-in"
)

var drivetrainEvents = []string{
	events.CatalogLoadedEvent,
	events.SetupEvaluatedEvent,
	events.SetupsComparedEvent,
}

// runtime is everything a command action needs, built from the global flags
type runtime struct {
	service  *drivetrain.DrivetrainService
	writer   *output.Writer
	bikeType entities.BikeType
	unit     entities.SpeedUnit
	logger   zerolog.Logger
}

func newRuntime(c *cli.Context) (*runtime, error) {
	bikeType, err := entities.ParseBikeType(c.String(flagBikeType))
	if err != nil {
		return nil, err
	}
	unit, err := entities.ParseSpeedUnit(c.String(flagUnit))
	if err != nil {
		return nil, err
	}
	format, err := output.ParseFormat(c.String(flagFormat))
	if err != nil {
		return nil, err
	}

	logger := log.Logger
	components, source, err := loadCatalog(c.String(flagCatalog))
	if err != nil {
		return nil, err
	}

	store := events.NewInMemoryEventStore()
	if c.Bool(flagVerbose) {
		if err := store.Subscribe(drivetrainEvents, eventLogger(logger)); err != nil {
			return nil, fmt.Errorf("failed to subscribe event logger: %w", err)
		}
	}

	repo := memory.NewComponentRepository(len(components))
	service, err := drivetrain.NewDrivetrainService(repo,
		drivetrain.WithEventStore(store),
		drivetrain.WithLogger(logger),
		drivetrain.WithCacheSize(c.Int(flagCacheSize)),
	)
	if err != nil {
		return nil, err
	}
	if err := service.LoadCatalog(components, source); err != nil {
		return nil, err
	}

	writer := output.NewWriter(output.Config{
		Format:    format,
		OutputDir: c.String(flagOutputDir),
		Stdout:    c.App.Writer,
		Logger:    &logger,
	})

	return &runtime{
		service:  service,
		writer:   writer,
		bikeType: bikeType,
		unit:     unit,
		logger:   logger,
	}, nil
}

func loadCatalog(path string) ([]*entities.Component, string, error) {
	loader := catalog.NewLoader()
	if strings.TrimSpace(path) == "" {
		components, err := loader.LoadDefault()
		return components, builtinCatalog, err
	}
	components, err := loader.Load(path)
	if err != nil {
		return nil, "", fmt.Errorf("error loading catalog: %w", err)
	}
	return components, path, nil
}

// eventLogger reports every published event at info level
func eventLogger(logger zerolog.Logger) events.EventHandler {
	return events.HandlerFunc(func(event events.Event) error {
		logger.Info().
			Str("event", event.Type()).
			Str("stream", event.StreamID()).
			Int("version", event.Version()).
			Interface("data", event.Data()).
			Msg("event published")
		return nil
	})
}

func (r *runtime) write(doc output.Document) error {
	_, err := r.writer.Write(doc)
	return err
}

// setupFlags declares the component and wheel flags of one setup. prefix is
// empty for single-setup commands and "current-"/"proposed-" for compare.
func setupFlags(prefix string, wheelDefault, tireDefault string) []cli.Flag {
	label := strings.TrimSuffix(prefix, "-")
	if label != "" {
		label += " "
	}
	return []cli.Flag{
		&cli.StringFlag{
			Name:  prefix + "crankset",
			Usage: "Catalog id of the " + label + "crankset",
		},
		&cli.StringFlag{
			Name:  prefix + "cassette",
			Usage: "Catalog id of the " + label + "cassette",
		},
		&cli.StringFlag{
			Name:  prefix + "wheel",
			Value: wheelDefault,
			Usage: "Wheel size of the " + label + "setup (700c, 650b, 26-inch, 27.5-inch, 29-inch; 26, 27.5 and 29 are accepted)",
		},
		&cli.StringFlag{
			Name:  prefix + "tire",
			Value: tireDefault,
			Usage: "Tire width in mm of the " + label + "setup",
		},
	}
}

func setupRequest(c *cli.Context, prefix string) dto.SetupRequest {
	return dto.SetupRequest{
		CranksetID: entities.ComponentID(c.String(prefix + "crankset")),
		CassetteID: entities.ComponentID(c.String(prefix + "cassette")),
		WheelSize:  c.String(prefix + "wheel"),
		TireWidth:  c.String(prefix + "tire"),
	}
}

// resolveSetup looks up the setup named by the command flags
func (r *runtime) resolveSetup(c *cli.Context, prefix string) (*entities.Setup, error) {
	return r.service.ResolveSetup(setupRequest(c, prefix))
}
