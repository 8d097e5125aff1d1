package drivetrain

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/vsinha/gearcalc/pkg/application/dto"
	"github.com/vsinha/gearcalc/pkg/domain/entities"
	"github.com/vsinha/gearcalc/pkg/domain/repositories"
	"github.com/vsinha/gearcalc/pkg/domain/services"
	"github.com/vsinha/gearcalc/pkg/infrastructure/events"
)

// DefaultCacheSize bounds the evaluation cache when no size is configured
const DefaultCacheSize = 128

// fingerprintNamespace scopes setup fingerprints (UUIDv5)
var fingerprintNamespace = uuid.MustParse("6f1c5a8e-3d2b-4c7a-9e0f-5b8d2a1c4e7f")

// Option configures a DrivetrainService
type Option func(*DrivetrainService)

// WithEventStore publishes evaluation events to store
func WithEventStore(store events.EventStore) Option {
	return func(s *DrivetrainService) {
		s.eventStore = store
	}
}

// WithLogger replaces the global logger
func WithLogger(logger zerolog.Logger) Option {
	return func(s *DrivetrainService) {
		s.logger = logger
	}
}

// WithCacheSize sets the number of memoized evaluations
func WithCacheSize(size int) Option {
	return func(s *DrivetrainService) {
		s.cacheSize = size
	}
}

// WithClock overrides time.Now for report timestamps
func WithClock(now func() time.Time) Option {
	return func(s *DrivetrainService) {
		s.now = now
	}
}

// DrivetrainService resolves catalog setups and runs the metrics calculator
// and compatibility checker over them
type DrivetrainService struct {
	repo       repositories.ComponentRepository
	checker    *services.CompatibilityChecker
	eventStore events.EventStore
	logger     zerolog.Logger
	cacheSize  int
	cache      *lru.Cache[string, *dto.EvaluationReport]
	now        func() time.Time
}

// NewDrivetrainService creates a service over a component catalog
func NewDrivetrainService(repo repositories.ComponentRepository, opts ...Option) (*DrivetrainService, error) {
	if repo == nil {
		return nil, errors.New("component repository is required")
	}

	s := &DrivetrainService{
		repo:       repo,
		checker:    services.NewCompatibilityChecker(),
		eventStore: events.NewInMemoryEventStore(),
		logger:     log.Logger,
		cacheSize:  DefaultCacheSize,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}

	cache, err := lru.New[string, *dto.EvaluationReport](s.cacheSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create evaluation cache: %w", err)
	}
	s.cache = cache
	return s, nil
}

// Checker returns the compatibility checker used by the service
func (s *DrivetrainService) Checker() *services.CompatibilityChecker {
	return s.checker
}

// Events returns the event store evaluations are published to
func (s *DrivetrainService) Events() events.EventStore {
	return s.eventStore
}

// LoadCatalog adds components to the catalog and clears memoized evaluations
func (s *DrivetrainService) LoadCatalog(components []*entities.Component, source string) error {
	if err := s.repo.LoadComponents(components); err != nil {
		return fmt.Errorf("failed to load catalog %s: %w", source, err)
	}
	s.cache.Purge()

	s.logger.Debug().Str("source", source).Int("components", len(components)).Msg("catalog loaded")
	s.publish(events.NewCatalogLoadedEvent(events.CatalogLoaded{
		Source:     source,
		Components: len(components),
	}))
	return nil
}

// ListComponents returns catalog components filtered by kind and bike type
func (s *DrivetrainService) ListComponents(kind entities.ComponentKind, bikeType entities.BikeType) ([]*entities.Component, error) {
	return s.repo.ListComponents(kind, bikeType)
}

// ResolveSetup builds a Setup from catalog ids. Missing ids leave the
// component nil. Wheel size aliases are normalized but unknown sizes are kept
// as entered so the strict and fallback metric paths can each apply their own rules.
func (s *DrivetrainService) ResolveSetup(req dto.SetupRequest) (*entities.Setup, error) {
	setup := &entities.Setup{
		WheelSize: entities.NormalizeWheelSize(req.WheelSize),
	}

	var err error
	if setup.Crankset, err = s.resolveComponent(req.CranksetID, entities.Crankset); err != nil {
		return nil, dto.NewCalculationError("failed to resolve setup", err)
	}
	if setup.Cassette, err = s.resolveComponent(req.CassetteID, entities.Cassette); err != nil {
		return nil, dto.NewCalculationError("failed to resolve setup", err)
	}

	if strings.TrimSpace(req.TireWidth) != "" {
		width, err := entities.ParseTireWidth(req.TireWidth)
		if err != nil {
			return nil, dto.NewCalculationError("failed to resolve setup", fmt.Errorf("%w: %v", dto.ErrInvalidInput, err))
		}
		setup.TireWidthMM = width
	}

	return setup, nil
}

func (s *DrivetrainService) resolveComponent(id entities.ComponentID, kind entities.ComponentKind) (*entities.Component, error) {
	if id == "" {
		return nil, nil
	}
	c, err := s.repo.GetComponent(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s %s", dto.ErrComponentNotFound, kind, id)
	}
	if c.Kind != kind {
		return nil, fmt.Errorf("%w: %s is a %s, not a %s", dto.ErrInvalidInput, id, c.Kind, kind)
	}
	return c, nil
}

// Evaluate resolves a setup and evaluates it
func (s *DrivetrainService) Evaluate(
	ctx context.Context,
	req dto.SetupRequest,
	bikeType entities.BikeType,
	unit entities.SpeedUnit,
) (*dto.EvaluationReport, error) {
	setup, err := s.ResolveSetup(req)
	if err != nil {
		return nil, err
	}
	return s.EvaluateSetup(ctx, setup, bikeType, unit)
}

// EvaluateSetup computes quick metrics, compatibility, gear analysis and the
// installation assessment of a setup. Results are memoized per fingerprint;
// callers must not modify returned reports.
func (s *DrivetrainService) EvaluateSetup(
	ctx context.Context,
	setup *entities.Setup,
	bikeType entities.BikeType,
	unit entities.SpeedUnit,
) (*dto.EvaluationReport, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	fingerprint := Fingerprint(setup, bikeType, unit)
	logger := s.logger.With().Str("fingerprint", fingerprint).Str("bike_type", string(bikeType)).Logger()

	if report, ok := s.cache.Get(fingerprint); ok {
		logger.Debug().Msg("evaluation cache hit")
		s.publishEvaluated(report, true)
		return report, nil
	}

	metrics, err := services.QuickMetrics(setup, unit)
	if err != nil {
		logger.Warn().Err(err).Msg("setup metrics calculation failed")
		return nil, dto.NewCalculationError("failed to calculate setup metrics", err)
	}

	compatibility := s.checker.CheckCompatibility(setup, bikeType)
	report := &dto.EvaluationReport{
		Fingerprint:   fingerprint,
		Setup:         setup,
		BikeType:      bikeType,
		Metrics:       dto.NewMetricsView(metrics),
		RawMetrics:    metrics,
		Compatibility: compatibility,
		Summary:       services.GenerateCompatibilitySummary(compatibility),
		GearAnalysis:  s.checker.AnalyzeGearRatios(setup, bikeType),
		Overlap:       s.checker.AnalyzeGearOverlap(setup.Crankset.Teeth, setup.Cassette.Teeth),
		Installation:  s.checker.AssessInstallationComplexity(setup),
		EvaluatedAt:   s.now(),
	}
	derailleur, err := services.CheckDerailleurCompatibility(setup.Crankset, setup.Cassette)
	if err != nil {
		logger.Warn().Err(err).Msg("derailleur check failed")
		return nil, dto.NewCalculationError("failed to check derailleur capacity", err)
	}
	report.Derailleur = derailleur

	s.cache.Add(fingerprint, report)
	logger.Debug().
		Str("status", string(compatibility.Status)).
		Float64("high_speed", metrics.HighSpeed).
		Msg("setup evaluated")
	s.publishEvaluated(report, false)
	return report, nil
}

// Compare resolves two setups and compares them
func (s *DrivetrainService) Compare(
	ctx context.Context,
	current, proposed dto.SetupRequest,
	bikeType entities.BikeType,
	unit entities.SpeedUnit,
	mode dto.ComparisonMode,
) (*dto.ComparisonReport, error) {
	currentSetup, err := s.ResolveSetup(current)
	if err != nil {
		return nil, fmt.Errorf("current setup: %w", err)
	}
	proposedSetup, err := s.ResolveSetup(proposed)
	if err != nil {
		return nil, fmt.Errorf("proposed setup: %w", err)
	}
	return s.CompareSetups(ctx, currentSetup, proposedSetup, bikeType, unit, mode)
}

// CompareSetups computes metrics for both setups with the formulas of mode
// and checks the proposed setup for compatibility
func (s *DrivetrainService) CompareSetups(
	ctx context.Context,
	current, proposed *entities.Setup,
	bikeType entities.BikeType,
	unit entities.SpeedUnit,
	mode dto.ComparisonMode,
) (*dto.ComparisonReport, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var (
		comparison *services.SetupComparison
		err        error
	)
	switch mode {
	case dto.ModeQuick, "":
		mode = dto.ModeQuick
		comparison, err = services.CompareSetups(current, proposed, unit)
	case dto.ModeFull:
		comparison, err = services.CompareSetupsFull(current, proposed, unit)
	default:
		return nil, dto.NewCalculationError("failed to compare setups",
			fmt.Errorf("%w: unknown comparison mode %q", dto.ErrInvalidInput, mode))
	}
	if err != nil {
		s.logger.Warn().Err(err).Str("mode", string(mode)).Msg("setup comparison failed")
		return nil, dto.NewCalculationError("failed to compare setups", err)
	}

	compatibility := s.checker.CheckCompatibility(proposed, bikeType)
	report := &dto.ComparisonReport{
		ID:              uuid.New(),
		Mode:            mode,
		BikeType:        bikeType,
		Current:         current,
		Proposed:        proposed,
		CurrentMetrics:  dto.NewMetricsView(comparison.Current),
		ProposedMetrics: dto.NewMetricsView(comparison.Proposed),
		Changes:         dto.NewChangesView(comparison.Comparison),
		Raw:             comparison,
		Compatibility:   compatibility,
		Summary:         services.GenerateCompatibilitySummary(compatibility),
		CreatedAt:       s.now(),
	}

	s.logger.Debug().
		Str("report_id", report.ID.String()).
		Str("mode", string(mode)).
		Float64("speed_change", comparison.Comparison.SpeedChange).
		Msg("setups compared")
	s.publish(events.NewSetupsComparedEvent(events.SetupsCompared{
		ReportID:       report.ID.String(),
		Mode:           string(mode),
		SpeedChange:    comparison.Comparison.SpeedChange,
		WeightChange:   comparison.Comparison.WeightChange,
		RangeChange:    comparison.Comparison.RangeChange,
		ProposedStatus: string(compatibility.Status),
	}))
	return report, nil
}

// CheckSetup runs only the compatibility checker. It never fails: missing
// components produce the default compatible result.
func (s *DrivetrainService) CheckSetup(setup *entities.Setup, bikeType entities.BikeType) (*entities.CompatibilityResult, *services.CompatibilitySummary) {
	result := s.checker.CheckCompatibility(setup, bikeType)
	return result, services.GenerateCompatibilitySummary(result)
}

func (s *DrivetrainService) publishEvaluated(report *dto.EvaluationReport, cached bool) {
	s.publish(events.NewSetupEvaluatedEvent(events.SetupEvaluated{
		Fingerprint:    report.Fingerprint,
		BikeType:       string(report.BikeType),
		Status:         string(report.Compatibility.Status),
		CriticalIssues: len(report.Compatibility.CriticalIssues),
		MinorWarnings:  len(report.Compatibility.MinorWarnings),
		Cached:         cached,
	}))
}

func (s *DrivetrainService) publish(event events.Event) {
	if s.eventStore == nil {
		return
	}
	if err := events.Publish(s.eventStore, event); err != nil {
		s.logger.Warn().Err(err).Str("event", event.Type()).Msg("failed to publish event")
	}
}

// Fingerprint identifies a setup evaluation: component data, wheel, tire,
// bike type and unit. Equal inputs always produce the same fingerprint.
func Fingerprint(setup *entities.Setup, bikeType entities.BikeType, unit entities.SpeedUnit) string {
	var b strings.Builder
	if setup != nil {
		b.WriteString(setup.Describe())
		for _, c := range []*entities.Component{setup.Crankset, setup.Cassette} {
			if c != nil {
				fmt.Fprintf(&b, "%s|%g\n", c.ID, c.Weight)
			}
		}
	}
	fmt.Fprintf(&b, "%s|%s", bikeType, unit)
	return uuid.NewSHA1(fingerprintNamespace, []byte(b.String())).String()
}
