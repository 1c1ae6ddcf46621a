// Package session implements the deck session controller: the form, the
// generate state machine, the embedded slideshow lifecycle, exports and the
// daily image panel for one user session.
package session

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/p-n-ai/pai-deck/internal/deck"
	"github.com/p-n-ai/pai-deck/internal/events"
	"github.com/p-n-ai/pai-deck/internal/export"
	"github.com/p-n-ai/pai-deck/internal/gateway"
)

const (
	msgGenerateFailed   = "Failed to generate deck"
	msgExportFailed     = "Failed to export deck"
	msgDailyImageFailed = "Failed to load Astronomy Picture of the Day"
)

var (
	// ErrGenerateInFlight is returned by Generate while another generate
	// call is running. The rejected call changes nothing.
	ErrGenerateInFlight = errors.New("deck generation already in progress")
	// ErrClosed is returned by Generate after Close.
	ErrClosed = errors.New("session closed")
)

// Phase is the state of the generate sub-flow.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseGenerating
	PhaseReady
	PhaseFailed
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseGenerating:
		return "generating"
	case PhaseReady:
		return "ready"
	case PhaseFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// SlideshowPhase is the state of the embedded slideshow.
type SlideshowPhase int

const (
	SlideshowClosed SlideshowPhase = iota
	// SlideshowOpening covers both "construction scheduled" and "open but
	// no widget could be bound". No widget is live while opening;
	// a regenerate keeps the old widget in SlideshowOpen until the rebind
	// turn detaches it.
	SlideshowOpening
	SlideshowOpen
)

func (p SlideshowPhase) String() string {
	switch p {
	case SlideshowClosed:
		return "closed"
	case SlideshowOpening:
		return "opening"
	case SlideshowOpen:
		return "open"
	default:
		return "unknown"
	}
}

// Form holds the values the user edits before submitting.
type Form struct {
	Topic      string
	GradeLevel string
	Locale     string
}

// Request builds the GenerateRequest submitted for these values. The topic
// is sent as typed; validating it is the deck service's job.
func (f Form) Request() deck.GenerateRequest {
	return deck.GenerateRequest{
		Topic:      f.Topic,
		GradeLevel: strings.TrimSpace(f.GradeLevel),
		Locale:     deck.NormalizeLocale(f.Locale),
	}
}

// Saver performs the "save as file" side effect.
type Saver interface {
	Save(ctx context.Context, name string, data []byte) error
}

// Config holds dependencies for a Controller.
type Config struct {
	Gateway gateway.Gateway
	Saver   Saver
	// Loop defers widget construction. Defaults to a new Loop that the
	// caller drains via Controller.Loop().
	Loop *Loop
	// Widgets and Surface are optional; without them the slideshow opens
	// but stays inert.
	Widgets WidgetFactory
	Surface Surface
	Events  events.EventLogger
	Form    Form
	// DailyImageDate is passed to FetchDailyImage; empty means today.
	DailyImageDate string
	SessionID      string
}

// State is a snapshot of everything the display layer renders.
type State struct {
	SessionID       string
	Form            Form
	Phase           Phase
	Deck            *deck.LessonDeck
	HasEnrichment   bool
	LastRequest     *deck.GenerateRequest
	Loading         bool
	Error           string
	Slideshow       SlideshowPhase
	SlideshowOpen   bool
	WidgetLive      bool
	DailyImage      *deck.DailyImage
	DailyImageError string
}

// Controller owns the state of one deck session. It is safe for concurrent
// use.
type Controller struct {
	gw      gateway.Gateway
	saver   Saver
	loop    *Loop
	widgets WidgetFactory
	surface Surface
	events  events.EventLogger

	id        string
	imageDate string

	mu          sync.Mutex
	form        Form
	phase       Phase
	current     *deck.LessonDeck
	lastRequest *deck.GenerateRequest
	loading     bool
	errMsg      string

	slideshow SlideshowPhase
	open      bool
	pending   *Task
	openSeq   uint64
	widget    any

	started    bool
	closed     bool
	dailyImage *deck.DailyImage
	dailyErr   string
}

// New creates a session controller.
func New(cfg Config) *Controller {
	loop := cfg.Loop
	if loop == nil {
		loop = NewLoop()
	}
	ev := cfg.Events
	if ev == nil {
		ev = events.NopEventLogger{}
	}
	id := cfg.SessionID
	if id == "" {
		id = uuid.NewString()
	}
	return &Controller{
		gw:        cfg.Gateway,
		saver:     cfg.Saver,
		loop:      loop,
		widgets:   cfg.Widgets,
		surface:   cfg.Surface,
		events:    ev,
		id:        id,
		imageDate: cfg.DailyImageDate,
		form:      cfg.Form,
	}
}

// ID returns the session identifier.
func (c *Controller) ID() string { return c.id }

// Loop returns the loop widget construction is deferred onto.
func (c *Controller) Loop() *Loop { return c.loop }

// SetForm replaces the form values used by the next Generate.
func (c *Controller) SetForm(f Form) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.form = f
}

// State returns a snapshot of the session.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return State{
		SessionID:       c.id,
		Form:            c.form,
		Phase:           c.phase,
		Deck:            c.current,
		HasEnrichment:   c.current != nil && deck.HasEnrichment(c.current.Enrichment),
		LastRequest:     c.lastRequest,
		Loading:         c.loading,
		Error:           c.errMsg,
		Slideshow:       c.slideshow,
		SlideshowOpen:   c.open,
		WidgetLive:      c.widget != nil,
		DailyImage:      c.dailyImage,
		DailyImageError: c.dailyErr,
	}
}

// Generate submits the current form. Gateway failures are recorded in the
// session error message, never returned; the previous deck is kept. A call
// made while another is in flight returns ErrGenerateInFlight and does
// nothing.
func (c *Controller) Generate(ctx context.Context) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrClosed
	}
	if c.phase == PhaseGenerating {
		c.mu.Unlock()
		slog.Warn("generate ignored, request in flight", "session_id", c.id)
		return ErrGenerateInFlight
	}
	req := c.form.Request()
	c.lastRequest = &req
	c.phase = PhaseGenerating
	c.loading = true
	c.errMsg = ""
	c.mu.Unlock()

	slog.Info("generating deck",
		"session_id", c.id,
		"topic", req.Topic,
		"grade_level", req.GradeLevel,
		"locale", req.Locale,
	)

	d, err := c.gw.GenerateDeck(ctx, req)

	c.mu.Lock()
	c.loading = false
	if err != nil {
		c.phase = PhaseFailed
		c.errMsg = gateway.UserMessage(err, msgGenerateFailed)
		c.mu.Unlock()

		slog.Error("deck generation failed", "session_id", c.id, "error", err)
		c.logEvent("", events.DeckGenerateFailed, map[string]any{
			"topic": req.Topic,
			"error": err.Error(),
		})
		return nil
	}

	c.current = &d
	c.phase = PhaseReady
	c.errMsg = ""
	if c.open && !c.closed {
		// Rebind the slideshow to the new deck.
		c.scheduleConstructLocked()
	}
	c.mu.Unlock()

	c.logEvent(d.ID, events.DeckGenerated, map[string]any{
		"topic":      d.Topic,
		"slides":     len(d.Slides),
		"enrichment": deck.HasEnrichment(d.Enrichment),
	})
	return nil
}

// Start loads the daily image once. Failure is kept in the panel's own
// error and has no effect on the rest of the session.
func (c *Controller) Start(ctx context.Context) {
	c.mu.Lock()
	if c.started || c.closed {
		c.mu.Unlock()
		return
	}
	c.started = true
	c.mu.Unlock()

	c.logEvent("", events.SessionStarted, nil)

	img, err := c.gw.FetchDailyImage(ctx, c.imageDate)

	c.mu.Lock()
	if err != nil {
		c.dailyErr = gateway.UserMessage(err, msgDailyImageFailed)
	} else {
		c.dailyImage = &img
	}
	c.mu.Unlock()

	if err != nil {
		slog.Warn("daily image unavailable", "session_id", c.id, "error", err)
		c.logEvent("", events.DailyImageFailed, map[string]any{"error": err.Error()})
		return
	}
	c.logEvent("", events.DailyImageLoaded, map[string]any{"date": img.Date, "title": img.Title})
}

// Close ends the session and destroys any live widget.
func (c *Controller) Close() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	widget := c.closeSlideshowLocked()
	c.mu.Unlock()

	c.destroyHandle(widget)

	c.logEvent("", events.SessionEnded, nil)
	return nil
}

func (c *Controller) setError(msg string) {
	c.mu.Lock()
	c.errMsg = msg
	c.mu.Unlock()
}

func (c *Controller) logEvent(deckID, eventType string, data map[string]any) {
	if err := c.events.LogEvent(events.Event{
		SessionID: c.id,
		DeckID:    deckID,
		EventType: eventType,
		Data:      data,
	}); err != nil {
		slog.Warn("failed to log event", "type", eventType, "error", err)
	}
}

// snapshot returns the current deck, or nil if there is none or the
// session is closed.
func (c *Controller) snapshot() *deck.LessonDeck {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil
	}
	return c.current
}

var _ Saver = (*export.DirSaver)(nil)
