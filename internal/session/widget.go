package session

import (
	"errors"

	"github.com/p-n-ai/pai-deck/internal/deck"
)

// ErrWidgetUnavailable means the presentation capability or its container
// is missing. It degrades the slideshow only.
var ErrWidgetUnavailable = errors.New("slideshow widget unavailable")

// WidgetFactory is the ambient presentation capability. Construct binds a
// new widget to container and returns its handle. Handles are checked for
// the optional Initializer, Syncer, Layouter, Jumper and Destroyer
// capabilities; none is required.
type WidgetFactory interface {
	Construct(container any, opts WidgetOptions) (any, error)
}

// WidgetFactoryFunc adapts a function to WidgetFactory.
type WidgetFactoryFunc func(container any, opts WidgetOptions) (any, error)

func (f WidgetFactoryFunc) Construct(container any, opts WidgetOptions) (any, error) {
	return f(container, opts)
}

// Surface resolves the container the widget binds to. ok is false while
// the presentation area is not on screen.
type Surface interface {
	Container() (container any, ok bool)
}

// SurfaceFunc adapts a function to Surface.
type SurfaceFunc func() (any, bool)

func (f SurfaceFunc) Container() (any, bool) { return f() }

// WidgetOptions are passed to Construct.
type WidgetOptions struct {
	Deck                 deck.LessonDeck
	Embedded             bool
	Hash                 bool
	Controls             bool
	Progress             bool
	Transition           string
	BackgroundTransition string
}

// DefaultWidgetOptions returns the embedded slideshow settings for d.
func DefaultWidgetOptions(d deck.LessonDeck) WidgetOptions {
	return WidgetOptions{
		Deck:                 d,
		Embedded:             true,
		Hash:                 false,
		Controls:             true,
		Progress:             true,
		Transition:           "slide",
		BackgroundTransition: "fade",
	}
}

// Optional widget handle capabilities.
type (
	Initializer interface{ Initialize() error }
	Syncer      interface{ Sync() error }
	Layouter    interface{ Layout() error }
	Jumper      interface{ JumpTo(index int) error }
	Destroyer   interface{ Destroy() error }
)

// bringUp drives a fresh handle through initialize, sync, layout and a jump
// to the first slide, skipping whatever the handle does not support.
func bringUp(handle any) error {
	if h, ok := handle.(Initializer); ok {
		if err := h.Initialize(); err != nil {
			return err
		}
	}
	if h, ok := handle.(Syncer); ok {
		if err := h.Sync(); err != nil {
			return err
		}
	}
	if h, ok := handle.(Layouter); ok {
		if err := h.Layout(); err != nil {
			return err
		}
	}
	if h, ok := handle.(Jumper); ok {
		if err := h.JumpTo(0); err != nil {
			return err
		}
	}
	return nil
}

// destroy tears a handle down if it supports it.
func destroy(handle any) error {
	if h, ok := handle.(Destroyer); ok {
		return h.Destroy()
	}
	return nil
}
