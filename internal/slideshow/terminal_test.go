package slideshow

import (
	"bytes"
	"strings"
	"testing"

	"github.com/p-n-ai/pai-deck/internal/deck"
	"github.com/p-n-ai/pai-deck/internal/session"
)

func testOptions() session.WidgetOptions {
	return session.DefaultWidgetOptions(deck.LessonDeck{
		ID:    "deck-1",
		Topic: "spiral galaxies",
		Slides: []deck.Slide{
			{Type: deck.SlideKeyVisual, Title: "Spiral galaxies", ImageURL: "https://images.nasa.gov/m51.jpg", Attribution: "NASA"},
			{Type: deck.SlideExplanation, Text: "Stars, gas and dust orbit a bright central bulge."},
			{Type: deck.SlideQuestion, Title: "Why do arms not wind up?"},
		},
	})
}

func TestTerminalFactory_RequiresWriter(t *testing.T) {
	if _, err := (TerminalFactory{}).Construct("not-a-writer", testOptions()); err == nil {
		t.Fatal("Construct() should fail for non-writer container")
	}
}

func TestTerminal_BringUpAndNavigate(t *testing.T) {
	var buf bytes.Buffer
	h, err := (TerminalFactory{Width: 40}).Construct(&buf, testOptions())
	if err != nil {
		t.Fatalf("Construct() error = %v", err)
	}
	term := h.(*Terminal)

	for _, step := range []func() error{term.Initialize, term.Sync, term.Layout, func() error { return term.JumpTo(0) }} {
		if err := step(); err != nil {
			t.Fatalf("bring-up error = %v", err)
		}
	}

	out := buf.String()
	for _, want := range []string{"spiral galaxies", "Spiral galaxies", "[image] https://images.nasa.gov/m51.jpg", "(NASA)", "1/3", "[n]ext"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}

	if ok, err := term.Prev(); ok || err != nil {
		t.Errorf("Prev() on first slide = %v, %v", ok, err)
	}
	if ok, err := term.Next(); !ok || err != nil {
		t.Fatalf("Next() = %v, %v", ok, err)
	}
	if !strings.Contains(buf.String(), "EXPLANATION") {
		t.Error("untitled slide should fall back to its type")
	}
	term.Next()
	if ok, _ := term.Next(); ok {
		t.Error("Next() on last slide should report false")
	}
	if term.Current() != 2 {
		t.Errorf("Current() = %d, want 2", term.Current())
	}
}

func TestTerminal_JumpOutOfRange(t *testing.T) {
	var buf bytes.Buffer
	h, _ := (TerminalFactory{}).Construct(&buf, testOptions())
	term := h.(*Terminal)
	term.Initialize()
	term.Sync()

	if err := term.JumpTo(7); err == nil {
		t.Error("JumpTo(7) should fail")
	}
}

func TestTerminal_DestroyIsFinal(t *testing.T) {
	var buf bytes.Buffer
	h, _ := (TerminalFactory{}).Construct(&buf, testOptions())
	term := h.(*Terminal)
	term.Initialize()
	term.Sync()

	if err := term.Destroy(); err != nil {
		t.Fatalf("Destroy() error = %v", err)
	}
	if err := term.Destroy(); err != nil {
		t.Fatalf("second Destroy() error = %v", err)
	}
	if err := term.JumpTo(0); err == nil {
		t.Error("JumpTo() after Destroy should fail")
	}
}

func TestWrap(t *testing.T) {
	got := wrap("one two three four", 9)
	want := "one two\nthree\nfour"
	if got != want {
		t.Errorf("wrap() = %q, want %q", got, want)
	}
}

func TestTerminal_WithController(t *testing.T) {
	var buf bytes.Buffer
	d := testOptions().Deck
	ctrl := session.New(session.Config{
		Gateway: newStaticGateway(d),
		Widgets: TerminalFactory{Width: 50},
		Surface: session.SurfaceFunc(func() (any, bool) { return &buf, true }),
	})
	ctrl.Generate(t.Context())

	ctrl.OpenSlideshow()
	ctrl.Loop().RunPending()

	if !ctrl.State().WidgetLive {
		t.Fatal("terminal widget should be live")
	}
	if !strings.Contains(buf.String(), "1/3") {
		t.Errorf("first slide not rendered:\n%s", buf.String())
	}

	ctrl.CloseSlideshow()
	if ctrl.State().WidgetLive {
		t.Error("widget should be gone after close")
	}
}
