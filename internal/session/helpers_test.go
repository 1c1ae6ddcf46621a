package session_test

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/p-n-ai/pai-deck/internal/deck"
	"github.com/p-n-ai/pai-deck/internal/events"
	"github.com/p-n-ai/pai-deck/internal/gateway"
	"github.com/p-n-ai/pai-deck/internal/session"
)

func testDeck(id string, slides int) deck.LessonDeck {
	d := deck.LessonDeck{
		ID:        id,
		Topic:     "spiral galaxies",
		CreatedAt: time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC),
	}
	types := []string{
		deck.SlideKeyVisual,
		deck.SlideExplanation,
		deck.SlideWhyItMatters,
		deck.SlideQuestion,
		deck.SlideFurtherReading,
	}
	for i := 0; i < slides; i++ {
		d.Slides = append(d.Slides, deck.Slide{
			Type:  types[i%len(types)],
			Title: fmt.Sprintf("slide %d", i+1),
		})
	}
	return d
}

// fakeWidget records every capability call made on it.
type fakeWidget struct {
	id        int
	container any
	opts      session.WidgetOptions
	calls     []string
	destroyed bool
	failInit  bool
	onInit    func()
}

func (w *fakeWidget) Initialize() error {
	w.calls = append(w.calls, "initialize")
	if w.onInit != nil {
		w.onInit()
	}
	if w.failInit {
		return fmt.Errorf("init failed")
	}
	return nil
}

func (w *fakeWidget) Sync() error {
	w.calls = append(w.calls, "sync")
	return nil
}

func (w *fakeWidget) Layout() error {
	w.calls = append(w.calls, "layout")
	return nil
}

func (w *fakeWidget) JumpTo(index int) error {
	w.calls = append(w.calls, fmt.Sprintf("jump:%d", index))
	return nil
}

func (w *fakeWidget) Destroy() error {
	w.calls = append(w.calls, "destroy")
	w.destroyed = true
	return nil
}

type fakeFactory struct {
	mu       sync.Mutex
	built    []*fakeWidget
	err      error
	failInit bool
	onInit   func()
}

func (f *fakeFactory) Construct(container any, opts session.WidgetOptions) (any, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	w := &fakeWidget{id: len(f.built) + 1, container: container, opts: opts, failInit: f.failInit, onInit: f.onInit}
	f.built = append(f.built, w)
	return w, nil
}

func (f *fakeFactory) live() []*fakeWidget {
	f.mu.Lock()
	defer f.mu.Unlock()
	var live []*fakeWidget
	for _, w := range f.built {
		if !w.destroyed {
			live = append(live, w)
		}
	}
	return live
}

type memSaver struct {
	mu    sync.Mutex
	files map[string][]byte
	err   error
}

func newMemSaver() *memSaver {
	return &memSaver{files: map[string][]byte{}}
}

func (s *memSaver) Save(_ context.Context, name string, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.files[name] = data
	return nil
}

func (s *memSaver) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.files)
}

type fixture struct {
	gw      *gateway.MockGateway
	saver   *memSaver
	factory *fakeFactory
	events  *events.MemoryEventLogger
	ctrl    *session.Controller
}

func newFixture(d deck.LessonDeck) *fixture {
	f := &fixture{
		gw:      gateway.NewMockGateway(d),
		saver:   newMemSaver(),
		factory: &fakeFactory{},
		events:  events.NewMemoryEventLogger(),
	}
	f.ctrl = session.New(session.Config{
		Gateway: f.gw,
		Saver:   f.saver,
		Widgets: f.factory,
		Surface: session.SurfaceFunc(func() (any, bool) { return "reveal-root", true }),
		Events:  f.events,
		Form:    session.Form{Topic: "spiral galaxies", GradeLevel: "8-10", Locale: "en"},
	})
	return f
}
