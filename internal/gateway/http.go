package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/p-n-ai/pai-deck/internal/deck"
)

const defaultBaseURL = "http://localhost:8080"

// HTTPGateway talks to the deck service over its JSON/HTTP API.
type HTTPGateway struct {
	baseURL string
	client  *http.Client
}

// Option configures an HTTPGateway.
type Option func(*HTTPGateway)

// WithBaseURL sets the deck service base URL.
func WithBaseURL(u string) Option {
	return func(g *HTTPGateway) {
		g.baseURL = strings.TrimRight(u, "/")
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(g *HTTPGateway) {
		g.client = client
	}
}

// NewHTTPGateway creates a gateway for the deck service.
func NewHTTPGateway(opts ...Option) *HTTPGateway {
	g := &HTTPGateway{
		baseURL: defaultBaseURL,
		client:  http.DefaultClient,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

func (g *HTTPGateway) GenerateDeck(ctx context.Context, req deck.GenerateRequest) (deck.LessonDeck, error) {
	const op = "generate deck"

	body, err := json.Marshal(req)
	if err != nil {
		return deck.LessonDeck{}, fmt.Errorf("marshal request: %w", err)
	}

	respBody, err := g.do(ctx, op, http.MethodPost, "/api/decks/generate", bytes.NewReader(body))
	if err != nil {
		return deck.LessonDeck{}, err
	}

	if err := deck.ValidateDeckJSON(respBody); err != nil {
		return deck.LessonDeck{}, fmt.Errorf("%s: %w: %v", op, ErrMalformedResponse, err)
	}
	var d deck.LessonDeck
	if err := json.Unmarshal(respBody, &d); err != nil {
		return deck.LessonDeck{}, fmt.Errorf("%s: %w: %v", op, ErrMalformedResponse, err)
	}

	slog.Debug("deck generated", "deck_id", d.ID, "topic", d.Topic, "slides", len(d.Slides))
	return d, nil
}

func (g *HTTPGateway) ExportHTML(ctx context.Context, deckID string) ([]byte, error) {
	return g.export(ctx, deckID, deck.ExtHTML)
}

func (g *HTTPGateway) ExportPDF(ctx context.Context, deckID string) ([]byte, error) {
	return g.export(ctx, deckID, deck.ExtPDF)
}

func (g *HTTPGateway) export(ctx context.Context, deckID, format string) ([]byte, error) {
	op := "export " + format
	path := "/api/decks/" + url.PathEscape(deckID) + "/export/" + format
	return g.do(ctx, op, http.MethodGet, path, nil)
}

func (g *HTTPGateway) FetchDailyImage(ctx context.Context, date string) (deck.DailyImage, error) {
	const op = "fetch daily image"

	path := "/api/apod"
	if date != "" {
		path += "?" + url.Values{"date": {date}}.Encode()
	}

	respBody, err := g.do(ctx, op, http.MethodGet, path, nil)
	if err != nil {
		return deck.DailyImage{}, err
	}

	if err := deck.ValidateDailyImageJSON(respBody); err != nil {
		return deck.DailyImage{}, fmt.Errorf("%s: %w: %v", op, ErrMalformedResponse, err)
	}
	var img deck.DailyImage
	if err := json.Unmarshal(respBody, &img); err != nil {
		return deck.DailyImage{}, fmt.Errorf("%s: %w: %v", op, ErrMalformedResponse, err)
	}
	return img, nil
}

// do performs one round trip and maps failures onto the error taxonomy.
func (g *HTTPGateway) do(ctx context.Context, op, method, path string, body io.Reader) ([]byte, error) {
	httpReq, err := http.NewRequestWithContext(ctx, method, g.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	if body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}

	resp, err := g.client.Do(httpReq)
	if err != nil {
		return nil, &TransportError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{Op: op, Err: fmt.Errorf("read response: %w", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, statusError(op, resp.StatusCode, respBody)
	}
	return respBody, nil
}

// serviceError is the error body the deck service sends with non-2xx
// statuses.
type serviceError struct {
	Message string `json:"message"`
	Error   string `json:"error"`
	Errors  []struct {
		Field          string `json:"field"`
		DefaultMessage string `json:"defaultMessage"`
	} `json:"errors"`
}

func statusError(op string, status int, body []byte) error {
	msg := errorMessage(body)
	switch status {
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return &ValidationError{Op: op, StatusCode: status, Message: msg}
	default:
		return &ServerError{Op: op, StatusCode: status, Message: msg}
	}
}

func errorMessage(body []byte) string {
	var se serviceError
	if err := json.Unmarshal(body, &se); err != nil {
		return ""
	}
	if se.Message != "" {
		return se.Message
	}
	if len(se.Errors) > 0 && se.Errors[0].DefaultMessage != "" {
		if se.Errors[0].Field != "" {
			return se.Errors[0].Field + " " + se.Errors[0].DefaultMessage
		}
		return se.Errors[0].DefaultMessage
	}
	return se.Error
}
