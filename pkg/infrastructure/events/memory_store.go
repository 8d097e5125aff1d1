package events

import (
	"errors"
	"reflect"
	"sync"

	"github.com/rs/zerolog/log"
)

// InMemoryEventStore is a single append-only log for the process. Streams are
// index lists into the log, so an event's version is its position in its
// stream plus one. Subscribers run synchronously after the event is stored.
type InMemoryEventStore struct {
	mu          sync.RWMutex
	log         []Event
	streams     map[string][]int
	subscribers map[string][]EventHandler
}

func NewInMemoryEventStore() *InMemoryEventStore {
	return &InMemoryEventStore{
		streams:     make(map[string][]int),
		subscribers: make(map[string][]EventHandler),
	}
}

var _ EventStore = (*InMemoryEventStore)(nil)

func (s *InMemoryEventStore) AppendEvent(streamID string, event Event) error {
	if event == nil {
		return errors.New("event is required")
	}

	s.mu.Lock()
	stored := BaseEvent{
		EventID:      event.ID(),
		EventType:    event.Type(),
		Stream:       streamID,
		EventData:    event.Data(),
		EventTime:    event.Timestamp(),
		EventVersion: len(s.streams[streamID]) + 1,
	}
	s.streams[streamID] = append(s.streams[streamID], len(s.log))
	s.log = append(s.log, stored)
	handlers := append([]EventHandler(nil), s.subscribers[stored.EventType]...)
	s.mu.Unlock()

	for _, handler := range handlers {
		if !handler.CanHandle(stored.EventType) {
			continue
		}
		if err := handler.Handle(stored); err != nil {
			log.Warn().Err(err).
				Str("event", stored.EventType).
				Str("stream", streamID).
				Msg("event handler failed")
		}
	}
	return nil
}

// ReadEvents returns a stream from fromVersion on; versions start at 1
func (s *InMemoryEventStore) ReadEvents(streamID string, fromVersion int) ([]Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	positions := s.streams[streamID]
	if fromVersion < 1 {
		fromVersion = 1
	}
	out := []Event{}
	for _, pos := range positions[min(fromVersion-1, len(positions)):] {
		out = append(out, s.log[pos])
	}
	return out, nil
}

// ReadAllEvents returns the log from a zero-based position on
func (s *InMemoryEventStore) ReadAllEvents(fromPosition int) ([]Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	fromPosition = max(fromPosition, 0)
	if fromPosition >= len(s.log) {
		return []Event{}, nil
	}
	return append([]Event(nil), s.log[fromPosition:]...), nil
}

// Len returns the total number of stored events
func (s *InMemoryEventStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.log)
}

func (s *InMemoryEventStore) Subscribe(eventTypes []string, handler EventHandler) error {
	if handler == nil {
		return errors.New("event handler is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, eventType := range eventTypes {
		s.subscribers[eventType] = append(s.subscribers[eventType], handler)
	}
	return nil
}

// Unsubscribe removes a handler. HandlerFunc values are not comparable, so
// only handlers with comparable dynamic types can be removed.
func (s *InMemoryEventStore) Unsubscribe(handler EventHandler) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for eventType, handlers := range s.subscribers {
		kept := handlers[:0:0]
		for _, h := range handlers {
			if !sameHandler(h, handler) {
				kept = append(kept, h)
			}
		}
		s.subscribers[eventType] = kept
	}
	return nil
}

func sameHandler(a, b EventHandler) bool {
	ta, tb := reflect.TypeOf(a), reflect.TypeOf(b)
	if ta == nil || ta != tb || !ta.Comparable() {
		return false
	}
	return a == b
}
