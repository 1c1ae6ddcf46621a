// Package slideshow provides presentation widgets for the session
// controller: a terminal presenter and a remote presenter driven over
// WebSocket.
package slideshow

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/p-n-ai/pai-deck/internal/deck"
	"github.com/p-n-ai/pai-deck/internal/session"
)

const defaultWidth = 72

// TerminalFactory builds Terminal widgets. The container must be an
// io.Writer.
type TerminalFactory struct {
	Width int
}

func (f TerminalFactory) Construct(container any, opts session.WidgetOptions) (any, error) {
	out, ok := container.(io.Writer)
	if !ok {
		return nil, fmt.Errorf("terminal presenter needs an io.Writer container, got %T", container)
	}
	width := f.Width
	if width <= 0 {
		width = defaultWidth
	}
	return &Terminal{out: out, opts: opts, width: width}, nil
}

// Terminal renders one slide at a time as text.
type Terminal struct {
	mu        sync.Mutex
	out       io.Writer
	opts      session.WidgetOptions
	slides    []deck.Slide
	width     int
	current   int
	ready     bool
	destroyed bool
}

func (t *Terminal) Initialize() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.destroyed {
		return errDestroyed
	}
	t.ready = true
	_, err := fmt.Fprintf(t.out, "%s\n%s\n", rule(t.width, '='), center(t.opts.Deck.Topic, t.width))
	return err
}

// Sync reloads the slides from the deck the widget was built with.
func (t *Terminal) Sync() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.destroyed {
		return errDestroyed
	}
	t.slides = append([]deck.Slide(nil), t.opts.Deck.Slides...)
	if t.current >= len(t.slides) {
		t.current = 0
	}
	return nil
}

func (t *Terminal) Layout() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.destroyed {
		return errDestroyed
	}
	if t.width < 20 {
		t.width = 20
	}
	return nil
}

func (t *Terminal) JumpTo(index int) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.showLocked(index)
}

// Next advances one slide. It reports false on the last slide.
func (t *Terminal) Next() (bool, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.current+1 >= len(t.slides) {
		return false, nil
	}
	return true, t.showLocked(t.current + 1)
}

// Prev goes back one slide. It reports false on the first slide.
func (t *Terminal) Prev() (bool, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.current == 0 {
		return false, nil
	}
	return true, t.showLocked(t.current - 1)
}

// Current returns the index of the slide on screen.
func (t *Terminal) Current() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.current
}

func (t *Terminal) Destroy() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.destroyed {
		return nil
	}
	t.destroyed = true
	t.slides = nil
	_, err := fmt.Fprintln(t.out, rule(t.width, '='))
	return err
}

func (t *Terminal) showLocked(index int) error {
	if t.destroyed {
		return errDestroyed
	}
	if !t.ready {
		return fmt.Errorf("terminal presenter not initialized")
	}
	if len(t.slides) == 0 {
		_, err := fmt.Fprintln(t.out, center("(no slides)", t.width))
		return err
	}
	if index < 0 || index >= len(t.slides) {
		return fmt.Errorf("slide %d out of range [0,%d)", index, len(t.slides))
	}
	t.current = index
	s := t.slides[index]

	var b strings.Builder
	b.WriteString(rule(t.width, '-'))
	b.WriteByte('\n')
	title := s.Title
	if title == "" {
		title = s.Type
	}
	b.WriteString(title)
	b.WriteByte('\n')
	if s.Text != "" {
		b.WriteByte('\n')
		b.WriteString(wrap(s.Text, t.width))
		b.WriteByte('\n')
	}
	if s.ImageURL != "" {
		fmt.Fprintf(&b, "\n[image] %s\n", s.ImageURL)
	}
	if s.Attribution != "" {
		fmt.Fprintf(&b, "(%s)\n", s.Attribution)
	}
	if t.opts.Progress {
		fmt.Fprintf(&b, "%s\n", progressBar(index+1, len(t.slides), t.width))
	}
	if t.opts.Controls {
		b.WriteString("[n]ext  [p]rev  [q]uit\n")
	}

	_, err := io.WriteString(t.out, b.String())
	return err
}

func rule(width int, ch rune) string {
	return strings.Repeat(string(ch), width)
}

func center(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return strings.Repeat(" ", (width-len(s))/2) + s
}

func progressBar(n, total, width int) string {
	label := fmt.Sprintf(" %d/%d", n, total)
	bar := width - len(label) - 2
	if bar < 1 {
		return label
	}
	filled := bar * n / total
	return "[" + strings.Repeat("#", filled) + strings.Repeat(".", bar-filled) + "]" + label
}

func wrap(text string, width int) string {
	var lines []string
	for _, para := range strings.Split(text, "\n") {
		line := ""
		for _, word := range strings.Fields(para) {
			if line != "" && len(line)+1+len(word) > width {
				lines = append(lines, line)
				line = word
				continue
			}
			if line == "" {
				line = word
			} else {
				line += " " + word
			}
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}
