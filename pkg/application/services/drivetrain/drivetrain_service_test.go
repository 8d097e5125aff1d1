package drivetrain

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vsinha/gearcalc/pkg/application/dto"
	"github.com/vsinha/gearcalc/pkg/domain/entities"
	"github.com/vsinha/gearcalc/pkg/infrastructure/events"
	fixtures "github.com/vsinha/gearcalc/pkg/infrastructure/testing"
)

var fixedTime = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

func newTestService(t *testing.T, opts ...Option) (*DrivetrainService, *events.InMemoryEventStore) {
	t.Helper()
	store := events.NewInMemoryEventStore()
	opts = append([]Option{
		WithEventStore(store),
		WithLogger(zerolog.Nop()),
		WithClock(func() time.Time { return fixedTime }),
	}, opts...)
	svc, err := NewDrivetrainService(fixtures.BuildCatalog(), opts...)
	require.NoError(t, err)
	return svc, store
}

func roadRequest() dto.SetupRequest {
	return dto.SetupRequest{
		CranksetID: "shimano-105-50-34",
		CassetteID: "shimano-105-11-28",
		WheelSize:  "700c",
		TireWidth:  "25mm",
	}
}

func requireCalculationError(t *testing.T, err error, code dto.ErrorCode) {
	t.Helper()
	var calcErr *dto.CalculationError
	require.True(t, errors.As(err, &calcErr), "expected CalculationError, got %v", err)
	assert.Equal(t, code, calcErr.Code)
	assert.True(t, calcErr.Recoverable)
}

func TestNewDrivetrainService_Validation(t *testing.T) {
	_, err := NewDrivetrainService(nil)
	assert.Error(t, err)

	_, err = NewDrivetrainService(fixtures.BuildCatalog(), WithCacheSize(0))
	assert.ErrorContains(t, err, "failed to create evaluation cache")
}

func TestResolveSetup(t *testing.T) {
	svc, _ := newTestService(t)

	setup, err := svc.ResolveSetup(roadRequest())
	require.NoError(t, err)
	assert.Equal(t, []int{50, 34}, setup.Crankset.Teeth)
	assert.Equal(t, 11, len(setup.Cassette.Teeth))
	assert.Equal(t, entities.Wheel700C, setup.WheelSize)
	assert.Equal(t, 25.0, setup.TireWidthMM)
	assert.True(t, setup.IsComplete())

	req := roadRequest()
	req.WheelSize = " 27.5 "
	aliased, err := svc.ResolveSetup(req)
	require.NoError(t, err)
	assert.Equal(t, entities.Wheel275, aliased.WheelSize)

	req.WheelSize = "24-inch"
	unknown, err := svc.ResolveSetup(req)
	require.NoError(t, err)
	assert.Equal(t, entities.WheelSize("24-inch"), unknown.WheelSize, "unknown sizes are kept for the fallback path")

	partial, err := svc.ResolveSetup(dto.SetupRequest{CranksetID: "sram-gx-32"})
	require.NoError(t, err)
	assert.Nil(t, partial.Cassette)
	assert.False(t, partial.IsComplete())
}

func TestResolveSetup_Errors(t *testing.T) {
	svc, _ := newTestService(t)

	tests := []struct {
		name string
		req  dto.SetupRequest
		code dto.ErrorCode
	}{
		{"unknown_crankset", dto.SetupRequest{CranksetID: "campagnolo-record"}, dto.CodeComponentNotFound},
		{"unknown_cassette", dto.SetupRequest{CassetteID: "campagnolo-11-29"}, dto.CodeComponentNotFound},
		{"cassette_as_crankset", dto.SetupRequest{CranksetID: "shimano-105-11-28"}, dto.CodeInvalidInput},
		{"bad_tire_width", dto.SetupRequest{TireWidth: "wide"}, dto.CodeInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.ResolveSetup(tt.req)
			requireCalculationError(t, err, tt.code)
		})
	}
}

func TestEvaluate(t *testing.T) {
	svc, store := newTestService(t)

	report, err := svc.Evaluate(context.Background(), roadRequest(), entities.Road, entities.KMH)
	require.NoError(t, err)

	assert.Equal(t, "51.8", report.Metrics.HighSpeed.String())
	assert.Equal(t, "13.8", report.Metrics.LowSpeed.String())
	assert.Equal(t, "4.55", report.Metrics.HighRatio.String())
	assert.Equal(t, "1.21", report.Metrics.LowRatio.String())
	assert.Equal(t, "120", report.Metrics.HighGearInches.String())
	assert.Equal(t, "1026", report.Metrics.TotalWeight.String())
	assert.Equal(t, "km/h", report.Metrics.SpeedUnit)

	assert.Equal(t, entities.StatusCompatible, report.Compatibility.Status)
	assert.Equal(t, "Fully Compatible", report.Summary.Title)
	assert.Equal(t, 22, report.GearAnalysis.Analysis.TotalGears)
	assert.Equal(t, 23, report.Overlap.Percentage)
	assert.Equal(t, 33, report.Derailleur.Capacity)
	assert.Equal(t, fixedTime, report.EvaluatedAt)
	assert.NotEmpty(t, report.Fingerprint)

	stream, err := store.ReadEvents(events.SetupStream(report.Fingerprint), 1)
	require.NoError(t, err)
	require.Len(t, stream, 1)
	evaluated := stream[0].Data().(events.SetupEvaluated)
	assert.Equal(t, "compatible", evaluated.Status)
	assert.False(t, evaluated.Cached)
}

func TestEvaluate_UsesCache(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()

	first, err := svc.Evaluate(ctx, roadRequest(), entities.Road, entities.KMH)
	require.NoError(t, err)
	second, err := svc.Evaluate(ctx, roadRequest(), entities.Road, entities.KMH)
	require.NoError(t, err)
	assert.Same(t, first, second)

	mph, err := svc.Evaluate(ctx, roadRequest(), entities.Road, entities.MPH)
	require.NoError(t, err)
	assert.NotSame(t, first, mph)
	assert.Equal(t, "mph", mph.Metrics.SpeedUnit)

	stream, err := store.ReadEvents(events.SetupStream(first.Fingerprint), 1)
	require.NoError(t, err)
	require.Len(t, stream, 2)
	assert.Equal(t, 2, stream[1].Version())
	assert.True(t, stream[1].Data().(events.SetupEvaluated).Cached)
}

func TestEvaluate_StrictPathErrors(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	tests := []struct {
		name string
		req  dto.SetupRequest
		code dto.ErrorCode
	}{
		{"missing_cassette", dto.SetupRequest{CranksetID: "shimano-105-50-34", WheelSize: "700c", TireWidth: "25"}, dto.CodeIncompleteSetup},
		{"missing_wheel", dto.SetupRequest{CranksetID: "shimano-105-50-34", CassetteID: "shimano-105-11-28"}, dto.CodeIncompleteSetup},
		{"unknown_wheel", dto.SetupRequest{CranksetID: "shimano-105-50-34", CassetteID: "shimano-105-11-28", WheelSize: "24-inch", TireWidth: "25"}, dto.CodeInvalidWheelSize},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			report, err := svc.Evaluate(ctx, tt.req, entities.Road, entities.KMH)
			assert.Nil(t, report)
			requireCalculationError(t, err, tt.code)
		})
	}
}

func TestEvaluateSetup_MissingTeeth(t *testing.T) {
	svc, store := newTestService(t)
	setup := fixtures.RoadCompact()
	setup.Cassette.Teeth = nil

	report, err := svc.EvaluateSetup(context.Background(), setup, entities.Road, entities.KMH)
	assert.Nil(t, report)
	requireCalculationError(t, err, dto.CodeMissingTeeth)
	assert.Equal(t, 0, store.Len(), "failed evaluations publish nothing")
}

func TestEvaluate_CancelledContext(t *testing.T) {
	svc, _ := newTestService(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := svc.Evaluate(ctx, roadRequest(), entities.Road, entities.KMH)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestCompare(t *testing.T) {
	svc, store := newTestService(t)
	proposed := roadRequest()
	proposed.CranksetID = "shimano-tiagra-50-34"

	report, err := svc.Compare(context.Background(), roadRequest(), proposed, entities.Road, entities.KMH, dto.ModeQuick)
	require.NoError(t, err)

	assert.NotEqual(t, uuid.Nil, report.ID)
	assert.Equal(t, dto.ModeQuick, report.Mode)
	assert.Equal(t, "88", report.Changes.WeightChange.String())
	assert.True(t, report.Changes.SpeedChange.IsZero())
	assert.Equal(t, entities.StatusError, report.Compatibility.Status)
	assert.Equal(t, "Compatibility Issues Found", report.Summary.Title)
	assert.Equal(t, fixedTime, report.CreatedAt)

	all, err := store.ReadAllEvents(0)
	require.NoError(t, err)
	require.Len(t, all, 1)
	compared := all[0].Data().(events.SetupsCompared)
	assert.Equal(t, report.ID.String(), compared.ReportID)
	assert.Equal(t, "error", compared.ProposedStatus)
}

func TestCompare_Modes(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	proposed := dto.SetupRequest{CranksetID: "sram-gx-32", CassetteID: "sram-gx-10-52", WheelSize: "700c", TireWidth: "25"}

	quick, err := svc.Compare(ctx, roadRequest(), proposed, entities.MTB, entities.KMH, "")
	require.NoError(t, err)
	assert.Equal(t, dto.ModeQuick, quick.Mode)

	full, err := svc.Compare(ctx, roadRequest(), proposed, entities.MTB, entities.KMH, dto.ModeFull)
	require.NoError(t, err)
	assert.Equal(t, dto.ModeFull, full.Mode)
	assert.InDelta(t, quick.Raw.Current.TotalWeight+489, full.Raw.Current.TotalWeight, 1e-9)
	assert.Equal(t, quick.Changes.WeightChange.String(), full.Changes.WeightChange.String(), "overhead cancels out in the delta")
	assert.NotEqual(t, quick.Changes.RangeChange.String(), full.Changes.RangeChange.String())

	_, err = svc.Compare(ctx, roadRequest(), proposed, entities.MTB, entities.KMH, "detailed")
	requireCalculationError(t, err, dto.CodeInvalidInput)
}

func TestCompare_FullModeFallsBackOnUnknownWheel(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	current := roadRequest()
	current.WheelSize = "24-inch"

	_, err := svc.Compare(ctx, current, roadRequest(), entities.Road, entities.KMH, dto.ModeQuick)
	requireCalculationError(t, err, dto.CodeInvalidWheelSize)
	assert.Contains(t, err.Error(), "current setup")

	report, err := svc.Compare(ctx, current, roadRequest(), entities.Road, entities.KMH, dto.ModeFull)
	require.NoError(t, err)
	assert.True(t, report.Changes.SpeedChange.IsZero())
}

func TestCompare_WheelAliases(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	tests := []struct {
		wheel string
		rim   float64
	}{
		{"26", 559},
		{"27.5", 584},
		{"29", 622},
		{"650B", 584},
	}

	for _, tt := range tests {
		t.Run(tt.wheel, func(t *testing.T) {
			req := roadRequest()
			req.WheelSize = tt.wheel

			for _, mode := range []dto.ComparisonMode{dto.ModeQuick, dto.ModeFull} {
				report, err := svc.Compare(ctx, req, req, entities.Road, entities.KMH, mode)
				require.NoError(t, err, mode)
				assert.InDelta(t, math.Pi*(tt.rim+2*25), report.Raw.Current.CircumferenceMM, 1e-9, mode)
			}
		})
	}
}

func TestCompare_ResolveErrorsNameTheSide(t *testing.T) {
	svc, _ := newTestService(t)
	bad := dto.SetupRequest{CranksetID: "nope"}

	_, err := svc.Compare(context.Background(), roadRequest(), bad, entities.Road, entities.KMH, dto.ModeQuick)
	requireCalculationError(t, err, dto.CodeComponentNotFound)
	assert.Contains(t, err.Error(), "proposed setup")
}

func TestLoadCatalog(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()

	first, err := svc.Evaluate(ctx, roadRequest(), entities.Road, entities.KMH)
	require.NoError(t, err)

	extra := fixtures.MustCreateComponent("shimano-grx-48-31", entities.Crankset, entities.Gravel, "Shimano GRX RX810", []int{48, 31}, "11-speed", 714)
	require.NoError(t, svc.LoadCatalog([]*entities.Component{extra}, "shop.yaml"))

	again, err := svc.Evaluate(ctx, roadRequest(), entities.Road, entities.KMH)
	require.NoError(t, err)
	assert.NotSame(t, first, again, "loading a catalog clears the cache")

	err = svc.LoadCatalog([]*entities.Component{extra}, "shop.yaml")
	assert.ErrorContains(t, err, "duplicate component id")

	catalogEvents, err := store.ReadEvents("catalog", 1)
	require.NoError(t, err)
	require.Len(t, catalogEvents, 1)
	assert.Equal(t, events.CatalogLoaded{Source: "shop.yaml", Components: 1}, catalogEvents[0].Data())

	gravel, err := svc.ListComponents(entities.Crankset, entities.Gravel)
	require.NoError(t, err)
	assert.Len(t, gravel, 2)
}

func TestCheckSetup(t *testing.T) {
	svc, _ := newTestService(t)

	result, summary := svc.CheckSetup(fixtures.GravelOneBy(), entities.MTB)
	assert.Equal(t, entities.StatusWarning, result.Status)
	assert.Equal(t, "Compatible with Warnings", summary.Title)

	result, summary = svc.CheckSetup(nil, entities.Road)
	assert.Equal(t, entities.StatusCompatible, result.Status)
	assert.Equal(t, "Fully Compatible", summary.Title)
}

func TestFingerprint(t *testing.T) {
	a := Fingerprint(fixtures.RoadCompact(), entities.Road, entities.KMH)
	assert.Equal(t, a, Fingerprint(fixtures.RoadCompact(), entities.Road, entities.KMH))
	assert.NotEqual(t, a, Fingerprint(fixtures.RoadCompact(), entities.Gravel, entities.KMH))

	heavier := fixtures.RoadCompact()
	heavier.Cassette.Weight++
	assert.NotEqual(t, a, Fingerprint(heavier, entities.Road, entities.KMH))

	_, err := uuid.Parse(a)
	assert.NoError(t, err)
}
