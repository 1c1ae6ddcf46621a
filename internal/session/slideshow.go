package session

import (
	"fmt"
	"log/slog"

	"github.com/p-n-ai/pai-deck/internal/deck"
	"github.com/p-n-ai/pai-deck/internal/events"
)

// OpenSlideshow shows the current deck as a slideshow. The widget is
// constructed on the next loop turn, after the presentation surface has been
// rendered. Opening again replaces the pending construction and destroys the
// live widget before the new one is built. Without a deck this is a no-op.
func (c *Controller) OpenSlideshow() {
	c.mu.Lock()
	if c.closed || c.current == nil {
		c.mu.Unlock()
		return
	}
	deckID := c.current.ID
	c.open = true
	c.slideshow = SlideshowOpening
	old := c.detachWidgetLocked()
	c.scheduleConstructLocked()
	c.mu.Unlock()

	c.destroyHandle(old)
	c.logEvent(deckID, events.SlideshowOpened, nil)
}

// CloseSlideshow cancels any pending construction and destroys the live
// widget. Calling it when nothing is open does nothing.
func (c *Controller) CloseSlideshow() {
	c.mu.Lock()
	wasOpen := c.open
	old := c.closeSlideshowLocked()
	c.mu.Unlock()

	c.destroyHandle(old)
	if wasOpen {
		c.logEvent("", events.SlideshowClosed, nil)
	}
}

// closeSlideshowLocked resets the slideshow state and returns the detached
// widget, which the caller destroys after unlocking.
func (c *Controller) closeSlideshowLocked() any {
	if c.pending != nil {
		c.pending.Cancel()
		c.pending = nil
	}
	// A construction already taken off the loop sees the bumped sequence
	// and discards its handle.
	c.openSeq++
	c.open = false
	c.slideshow = SlideshowClosed
	return c.detachWidgetLocked()
}

func (c *Controller) scheduleConstructLocked() {
	if c.pending != nil {
		c.pending.Cancel()
	}
	c.openSeq++
	seq := c.openSeq
	c.pending = c.loop.Post(func() { c.construct(seq) })
}

// construct runs the widget's code without holding c.mu, so a widget may
// read session state and a slow bring-up never blocks the controller.
func (c *Controller) construct(seq uint64) {
	c.mu.Lock()
	if c.closed || !c.open || seq != c.openSeq || c.current == nil {
		c.mu.Unlock()
		return
	}
	c.pending = nil
	old := c.detachWidgetLocked()
	c.slideshow = SlideshowOpening
	d := *c.current
	c.mu.Unlock()

	c.destroyHandle(old)

	handle, ok := c.buildWidget(d)
	if !ok {
		return
	}

	c.mu.Lock()
	if c.closed || !c.open || seq != c.openSeq {
		c.mu.Unlock()
		slog.Debug("slideshow construction superseded", "session_id", c.id, "deck_id", d.ID)
		c.destroyHandle(handle)
		return
	}
	c.widget = handle
	c.slideshow = SlideshowOpen
	c.mu.Unlock()

	slog.Debug("slideshow widget ready", "session_id", c.id, "deck_id", d.ID)
}

// buildWidget constructs and brings up a widget for d. ok is false when the
// capability or its container is missing or bring-up failed.
func (c *Controller) buildWidget(d deck.LessonDeck) (any, bool) {
	if c.widgets == nil {
		slog.Warn("slideshow widget failed to load", "session_id", c.id, "error", ErrWidgetUnavailable)
		return nil, false
	}
	var container any
	ok := false
	if c.surface != nil {
		container, ok = c.surface.Container()
	}
	if !ok || container == nil {
		slog.Warn("slideshow container missing", "session_id", c.id, "error", ErrWidgetUnavailable)
		return nil, false
	}

	handle, err := c.widgets.Construct(container, DefaultWidgetOptions(d))
	if err != nil {
		slog.Warn("slideshow widget construction failed",
			"session_id", c.id,
			"error", fmt.Errorf("%w: %v", ErrWidgetUnavailable, err),
		)
		return nil, false
	}
	if handle == nil {
		slog.Warn("slideshow widget returned no handle", "session_id", c.id, "error", ErrWidgetUnavailable)
		return nil, false
	}

	if err := bringUp(handle); err != nil {
		slog.Warn("slideshow bring-up failed", "session_id", c.id, "error", err)
		c.destroyHandle(handle)
		return nil, false
	}
	return handle, true
}

func (c *Controller) detachWidgetLocked() any {
	h := c.widget
	c.widget = nil
	return h
}

// destroyHandle tears down a detached handle. It must be called without
// c.mu held.
func (c *Controller) destroyHandle(handle any) {
	if handle == nil {
		return
	}
	if err := destroy(handle); err != nil {
		slog.Warn("slideshow widget destroy failed", "session_id", c.id, "error", err)
	}
}

// Widget returns the live widget handle, if any. Callers may assert it to
// navigation capabilities such as Jumper.
func (c *Controller) Widget() (any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.widget, c.widget != nil
}
