package notifications

import (
	"testing"
	"time"
)

func TestSubscribeReceivesEvents(t *testing.T) {
	s := NewService()
	defer s.Shutdown()

	events, unsubscribe := s.Subscribe()
	defer unsubscribe()

	s.NotifySummaryUpdated("slide-3", "Counts button presses")

	select {
	case ev := <-events:
		if ev.Type != EventSummaryUpdated {
			t.Errorf("event type = %s", ev.Type)
		}
		if ev.SlideID != "slide-3" {
			t.Errorf("slide id = %s", ev.SlideID)
		}
		if ev.Timestamp == 0 {
			t.Error("timestamp not set")
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for event")
	}
}

func TestUnsubscribeClosesChannel(t *testing.T) {
	s := NewService()
	defer s.Shutdown()

	events, unsubscribe := s.Subscribe()
	unsubscribe()

	select {
	case _, ok := <-events:
		if ok {
			t.Error("expected closed channel after unsubscribe")
		}
	case <-time.After(time.Second):
		t.Fatal("channel not closed")
	}

	if s.SubscriberCount() != 0 {
		t.Errorf("subscriber count = %d", s.SubscriberCount())
	}

	// Unsubscribing twice must not panic
	unsubscribe()
}

func TestNotifySkipsFullSubscribers(t *testing.T) {
	s := NewService()
	defer s.Shutdown()

	events, unsubscribe := s.Subscribe()
	defer unsubscribe()

	// Overfill the buffered channel; extra events are dropped, not blocked
	for i := 0; i < 100; i++ {
		s.NotifyDeckChanged(nil)
	}

	received := 0
	for {
		select {
		case <-events:
			received++
		default:
			if received == 0 || received > 100 {
				t.Errorf("received %d events", received)
			}
			return
		}
	}
}

func TestShutdownClosesAllSubscribers(t *testing.T) {
	s := NewService()

	a, _ := s.Subscribe()
	b, _ := s.Subscribe()
	s.Shutdown()

	for _, ch := range []<-chan Event{a, b} {
		select {
		case _, ok := <-ch:
			if ok {
				t.Error("expected closed channel after shutdown")
			}
		case <-time.After(time.Second):
			t.Fatal("channel not closed after shutdown")
		}
	}
}
