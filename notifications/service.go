package notifications

import (
	"sync"
	"time"
)

// EventType represents the type of notification event
type EventType string

const (
	EventTypingFrame    EventType = "typing-frame"
	EventDeckChanged    EventType = "deck-changed"
	EventSummaryUpdated EventType = "summary-updated"
	EventProjectLoaded  EventType = "project-loaded"
	EventDocsUpdated    EventType = "docs-updated"
	EventConnected      EventType = "connected"
)

// Event represents a notification event
type Event struct {
	Type      EventType `json:"type"`
	Timestamp int64     `json:"timestamp"`
	SlideID   string    `json:"slideId,omitempty"`
	Data      any       `json:"data,omitempty"`
}

// Service manages SSE subscriptions and event broadcasting
type Service struct {
	mu          sync.RWMutex
	subscribers map[chan Event]struct{}
	done        chan struct{}
}

var (
	service     *Service
	serviceOnce sync.Once
)

// GetService returns the singleton notification service
func GetService() *Service {
	serviceOnce.Do(func() {
		service = NewService()
	})
	return service
}

// NewService creates a new notification service
func NewService() *Service {
	return &Service{
		subscribers: make(map[chan Event]struct{}),
		done:        make(chan struct{}),
	}
}

// Subscribe creates a new subscription channel.
// Returns the event channel and an unsubscribe function.
func (s *Service) Subscribe() (<-chan Event, func()) {
	ch := make(chan Event, 32)

	s.mu.Lock()
	s.subscribers[ch] = struct{}{}
	s.mu.Unlock()

	unsubscribe := func() {
		s.mu.Lock()
		defer s.mu.Unlock()

		if _, exists := s.subscribers[ch]; exists {
			delete(s.subscribers, ch)
			close(ch)
		}
	}

	return ch, unsubscribe
}

// Notify broadcasts an event to all subscribers. A subscriber that cannot
// keep up misses the event; every event carries enough state to catch up on
// the next one.
func (s *Service) Notify(event Event) {
	if event.Timestamp == 0 {
		event.Timestamp = time.Now().UnixMilli()
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	for ch := range s.subscribers {
		select {
		case ch <- event:
		default:
		}
	}
}

// NotifyTypingFrame sends one frame of a typing animation
func (s *Service) NotifyTypingFrame(frame any) {
	s.Notify(Event{
		Type: EventTypingFrame,
		Data: frame,
	})
}

// NotifyDeckChanged sends a deck-changed event carrying the full slide list
func (s *Service) NotifyDeckChanged(deck any) {
	s.Notify(Event{
		Type: EventDeckChanged,
		Data: deck,
	})
}

// NotifySummaryUpdated sends a summary-updated event for one slide
func (s *Service) NotifySummaryUpdated(slideID, summary string) {
	s.Notify(Event{
		Type:    EventSummaryUpdated,
		SlideID: slideID,
		Data: map[string]interface{}{
			"summary": summary,
		},
	})
}

// NotifyProjectLoaded signals that the deck was replaced by a saved project
func (s *Service) NotifyProjectLoaded(name string) {
	s.Notify(Event{
		Type: EventProjectLoaded,
		Data: map[string]interface{}{
			"name": name,
		},
	})
}

// NotifyDocsUpdated signals that the scraped docs context changed
func (s *Service) NotifyDocsUpdated(pages int) {
	s.Notify(Event{
		Type: EventDocsUpdated,
		Data: map[string]interface{}{
			"pages": pages,
		},
	})
}

// Shutdown closes the notification service
func (s *Service) Shutdown() {
	s.mu.Lock()
	defer s.mu.Unlock()

	close(s.done)

	for ch := range s.subscribers {
		close(ch)
	}
	s.subscribers = make(map[chan Event]struct{})
}

// SubscriberCount returns the number of active subscribers
func (s *Service) SubscriberCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.subscribers)
}
