// Package events records session analytics events.
package events

import (
	"fmt"
	"sync"
	"time"
)

// Event types emitted by a deck session.
const (
	SessionStarted     = "session_started"
	SessionEnded       = "session_ended"
	DeckGenerated      = "deck_generated"
	DeckGenerateFailed = "deck_generate_failed"
	SlideshowOpened    = "slideshow_opened"
	SlideshowClosed    = "slideshow_closed"
	ExportSaved        = "export_saved"
	ExportFailed       = "export_failed"
	DailyImageLoaded   = "daily_image_loaded"
	DailyImageFailed   = "daily_image_failed"
)

// Event is one analytics record.
type Event struct {
	SessionID string
	DeckID    string
	EventType string
	Data      map[string]any
	CreatedAt time.Time
}

// EventLogger defines event logging behavior.
type EventLogger interface {
	LogEvent(event Event) error
}

// NopEventLogger ignores all events.
type NopEventLogger struct{}

func (NopEventLogger) LogEvent(Event) error {
	return nil
}

// MemoryEventLogger stores events in memory for tests.
type MemoryEventLogger struct {
	mu     sync.Mutex
	events []Event
}

func NewMemoryEventLogger() *MemoryEventLogger {
	return &MemoryEventLogger{
		events: []Event{},
	}
}

func (l *MemoryEventLogger) LogEvent(event Event) error {
	if event.EventType == "" {
		return fmt.Errorf("event_type is required")
	}
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now()
	}

	l.mu.Lock()
	l.events = append(l.events, event)
	l.mu.Unlock()

	return nil
}

func (l *MemoryEventLogger) Events() []Event {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]Event{}, l.events...)
}

// Types returns the event types logged so far, in order.
func (l *MemoryEventLogger) Types() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	types := make([]string, len(l.events))
	for i, e := range l.events {
		types[i] = e.EventType
	}
	return types
}
