package slideshow

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"

	"github.com/p-n-ai/pai-deck/internal/deck"
	"github.com/p-n-ai/pai-deck/internal/session"
)

const defaultRemoteTimeout = 5 * time.Second

var errDestroyed = errors.New("widget destroyed")

// RemoteFactory builds Remote widgets. The container is the presenter
// page's WebSocket URL.
type RemoteFactory struct {
	HTTPClient *http.Client
	Timeout    time.Duration
}

func (f RemoteFactory) Construct(container any, opts session.WidgetOptions) (any, error) {
	url, ok := container.(string)
	if !ok || url == "" {
		return nil, fmt.Errorf("remote presenter needs a WebSocket URL container, got %T", container)
	}
	timeout := f.Timeout
	if timeout <= 0 {
		timeout = defaultRemoteTimeout
	}
	return &Remote{url: url, client: f.HTTPClient, timeout: timeout, opts: opts}, nil
}

// Command is one message sent to the presenter page.
type Command struct {
	Type    string           `json:"type"`
	Deck    *deck.LessonDeck `json:"deck,omitempty"`
	Options *RemoteOptions   `json:"options,omitempty"`
	Index   int              `json:"index"`
}

// RemoteOptions mirrors the widget settings on the wire.
type RemoteOptions struct {
	Embedded             bool   `json:"embedded"`
	Hash                 bool   `json:"hash"`
	Controls             bool   `json:"controls"`
	Progress             bool   `json:"progress"`
	Transition           string `json:"transition"`
	BackgroundTransition string `json:"backgroundTransition"`
}

// Remote drives a browser-side slideshow over a WebSocket connection opened
// by Initialize and closed by Destroy.
type Remote struct {
	url     string
	client  *http.Client
	timeout time.Duration
	opts    session.WidgetOptions

	mu        sync.Mutex
	conn      *websocket.Conn
	destroyed bool
}

func (r *Remote) Initialize() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.destroyed {
		return errDestroyed
	}

	ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
	defer cancel()

	conn, _, err := websocket.Dial(ctx, r.url, &websocket.DialOptions{HTTPClient: r.client})
	if err != nil {
		return fmt.Errorf("dial presenter: %w", err)
	}
	r.conn = conn

	d := r.opts.Deck
	return r.sendLocked(Command{
		Type: "init",
		Deck: &d,
		Options: &RemoteOptions{
			Embedded:             r.opts.Embedded,
			Hash:                 r.opts.Hash,
			Controls:             r.opts.Controls,
			Progress:             r.opts.Progress,
			Transition:           r.opts.Transition,
			BackgroundTransition: r.opts.BackgroundTransition,
		},
	})
}

func (r *Remote) Sync() error {
	return r.send(Command{Type: "sync"})
}

func (r *Remote) Layout() error {
	return r.send(Command{Type: "layout"})
}

func (r *Remote) JumpTo(index int) error {
	return r.send(Command{Type: "slide", Index: index})
}

func (r *Remote) Destroy() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.destroyed {
		return nil
	}
	r.destroyed = true
	if r.conn == nil {
		return nil
	}

	if err := r.sendLocked(Command{Type: "destroy"}); err != nil {
		slog.Debug("presenter destroy message not delivered", "error", err)
	}
	err := r.conn.Close(websocket.StatusNormalClosure, "slideshow closed")
	r.conn = nil
	if err != nil && websocket.CloseStatus(err) != websocket.StatusNormalClosure {
		return fmt.Errorf("close presenter: %w", err)
	}
	return nil
}

func (r *Remote) send(cmd Command) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.destroyed {
		return errDestroyed
	}
	return r.sendLocked(cmd)
}

func (r *Remote) sendLocked(cmd Command) error {
	if r.conn == nil {
		return fmt.Errorf("presenter not connected")
	}
	ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
	defer cancel()
	if err := wsjson.Write(ctx, r.conn, cmd); err != nil {
		return fmt.Errorf("send %s: %w", cmd.Type, err)
	}
	return nil
}
