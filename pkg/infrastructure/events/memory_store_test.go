package events

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingHandler struct {
	types  map[string]bool
	seen   []Event
	failOn string
}

func (h *recordingHandler) Handle(event Event) error {
	h.seen = append(h.seen, event)
	if event.Type() == h.failOn {
		return errors.New("handler failure")
	}
	return nil
}

func (h *recordingHandler) CanHandle(eventType string) bool {
	return h.types == nil || h.types[eventType]
}

func TestInMemoryEventStore_VersionsPerStream(t *testing.T) {
	store := NewInMemoryEventStore()

	first := NewSetupEvaluatedEvent(SetupEvaluated{Fingerprint: "abc", Status: "compatible"})
	second := NewSetupEvaluatedEvent(SetupEvaluated{Fingerprint: "abc", Status: "compatible", Cached: true})
	other := NewCatalogLoadedEvent(CatalogLoaded{Source: "builtin", Components: 25})

	require.NoError(t, Publish(store, first))
	require.NoError(t, Publish(store, other))
	require.NoError(t, Publish(store, second))

	stream, err := store.ReadEvents(SetupStream("abc"), 0)
	require.NoError(t, err)
	require.Len(t, stream, 2)
	assert.Equal(t, 1, stream[0].Version())
	assert.Equal(t, 2, stream[1].Version())
	assert.Equal(t, first.ID(), stream[0].ID())
	assert.True(t, stream[1].Data().(SetupEvaluated).Cached)

	catalog, err := store.ReadEvents("catalog", 1)
	require.NoError(t, err)
	require.Len(t, catalog, 1)
	assert.Equal(t, 25, catalog[0].Data().(CatalogLoaded).Components)

	fromTwo, err := store.ReadEvents(SetupStream("abc"), 2)
	require.NoError(t, err)
	assert.Len(t, fromTwo, 1)

	none, err := store.ReadEvents(SetupStream("abc"), 3)
	require.NoError(t, err)
	assert.Empty(t, none)

	missing, err := store.ReadEvents("unknown", 1)
	require.NoError(t, err)
	assert.Empty(t, missing)
}

func TestInMemoryEventStore_ReadAllEvents(t *testing.T) {
	store := NewInMemoryEventStore()
	for i := 0; i < 3; i++ {
		require.NoError(t, Publish(store, NewSetupsComparedEvent(SetupsCompared{Mode: "quick"})))
	}

	all, err := store.ReadAllEvents(-1)
	require.NoError(t, err)
	assert.Len(t, all, 3)
	assert.Equal(t, 3, all[2].Version())

	tail, err := store.ReadAllEvents(2)
	require.NoError(t, err)
	assert.Len(t, tail, 1)

	empty, err := store.ReadAllEvents(5)
	require.NoError(t, err)
	assert.Empty(t, empty)
	assert.Equal(t, 3, store.Len())
}

func TestInMemoryEventStore_NotifiesSubscribersSynchronously(t *testing.T) {
	store := NewInMemoryEventStore()
	evaluations := &recordingHandler{}
	filtered := &recordingHandler{types: map[string]bool{SetupsComparedEvent: true}}

	require.NoError(t, store.Subscribe([]string{SetupEvaluatedEvent}, evaluations))
	require.NoError(t, store.Subscribe([]string{SetupEvaluatedEvent, SetupsComparedEvent}, filtered))

	var funcCalls int
	require.NoError(t, store.Subscribe([]string{SetupsComparedEvent}, HandlerFunc(func(Event) error {
		funcCalls++
		return nil
	})))

	require.NoError(t, Publish(store, NewSetupEvaluatedEvent(SetupEvaluated{Fingerprint: "x"})))
	require.NoError(t, Publish(store, NewSetupsComparedEvent(SetupsCompared{ReportID: "r1"})))

	require.Len(t, evaluations.seen, 1)
	assert.Equal(t, SetupEvaluatedEvent, evaluations.seen[0].Type())
	require.Len(t, filtered.seen, 1, "CanHandle filters event types")
	assert.Equal(t, SetupsComparedEvent, filtered.seen[0].Type())
	assert.Equal(t, 1, funcCalls)
}

func TestInMemoryEventStore_HandlerErrorDoesNotFailAppend(t *testing.T) {
	store := NewInMemoryEventStore()
	failing := &recordingHandler{failOn: CatalogLoadedEvent}
	require.NoError(t, store.Subscribe([]string{CatalogLoadedEvent}, failing))

	err := Publish(store, NewCatalogLoadedEvent(CatalogLoaded{Source: "catalog.yaml"}))
	require.NoError(t, err)
	assert.Len(t, failing.seen, 1)
	assert.Equal(t, 1, store.Len())
}

func TestInMemoryEventStore_Unsubscribe(t *testing.T) {
	store := NewInMemoryEventStore()
	handler := &recordingHandler{}
	fn := HandlerFunc(func(Event) error { return nil })

	require.NoError(t, store.Subscribe([]string{SetupEvaluatedEvent}, handler))
	require.NoError(t, store.Subscribe([]string{SetupEvaluatedEvent}, fn))
	require.NotPanics(t, func() {
		require.NoError(t, store.Unsubscribe(handler))
	})

	require.NoError(t, Publish(store, NewSetupEvaluatedEvent(SetupEvaluated{Fingerprint: "x"})))
	assert.Empty(t, handler.seen)
}

func TestNewEvent_AssignsIDs(t *testing.T) {
	a := NewEvent("t", "s", nil)
	b := NewEvent("t", "s", nil)
	assert.NotEmpty(t, a.ID())
	assert.NotEqual(t, a.ID(), b.ID())
	assert.Equal(t, 1, a.Version())
	assert.False(t, a.Timestamp().IsZero())
}

func TestInMemoryEventStore_RejectsNil(t *testing.T) {
	store := NewInMemoryEventStore()

	assert.Error(t, store.AppendEvent("catalog", nil))
	assert.Error(t, store.Subscribe([]string{CatalogLoadedEvent}, nil))
	assert.Equal(t, 0, store.Len())
}

func TestInMemoryEventStore_StreamsIndexTheLog(t *testing.T) {
	store := NewInMemoryEventStore()
	for _, fp := range []string{"a", "b", "a", "a"} {
		require.NoError(t, Publish(store, NewSetupEvaluatedEvent(SetupEvaluated{Fingerprint: fp})))
	}

	all, err := store.ReadAllEvents(0)
	require.NoError(t, err)
	require.Len(t, all, 4)

	stream, err := store.ReadEvents(SetupStream("a"), 2)
	require.NoError(t, err)
	require.Len(t, stream, 2)
	assert.Equal(t, 2, stream[0].Version())
	assert.Equal(t, 3, stream[1].Version())
	assert.Equal(t, all[2].ID(), stream[0].ID())
	assert.Equal(t, all[3].ID(), stream[1].ID())
}
