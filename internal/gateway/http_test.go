package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/p-n-ai/pai-deck/internal/deck"
)

const deckJSON = `{
	"id": "deck-42",
	"topic": "spiral galaxies",
	"createdAt": "2025-03-01T10:00:00Z",
	"slides": [
		{"type": "KEY_VISUAL", "title": "Spiral galaxies", "imageUrl": "https://images.nasa.gov/a.jpg"},
		{"type": "EXPLANATION", "text": "Stars orbit the core."},
		{"type": "WHY_IT_MATTERS"},
		{"type": "QUESTION"},
		{"type": "FURTHER_READING"}
	],
	"enrichment": {"vocabulary": [{"term": "spiral arm", "definition": "a curved band of stars"}], "_meta": {"model": "llama"}}
}`

func TestHTTPGateway_GenerateDeck(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s, want POST", r.Method)
		}
		if r.URL.Path != "/api/decks/generate" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if r.Header.Get("Content-Type") != "application/json" {
			t.Errorf("unexpected content type: %s", r.Header.Get("Content-Type"))
		}

		var req deck.GenerateRequest
		json.NewDecoder(r.Body).Decode(&req)
		if req.Topic != "spiral galaxies" || req.GradeLevel != "8-10" || req.Locale != "en" {
			t.Errorf("unexpected request: %+v", req)
		}

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(deckJSON))
	}))
	defer server.Close()

	gw := NewHTTPGateway(WithBaseURL(server.URL))

	d, err := gw.GenerateDeck(context.Background(), deck.GenerateRequest{
		Topic:      "spiral galaxies",
		GradeLevel: "8-10",
		Locale:     "en",
	})
	if err != nil {
		t.Fatalf("GenerateDeck() error = %v", err)
	}
	if d.ID != "deck-42" {
		t.Errorf("ID = %q, want deck-42", d.ID)
	}
	if len(d.Slides) != 5 {
		t.Fatalf("len(Slides) = %d, want 5", len(d.Slides))
	}
	if d.Slides[0].Type != deck.SlideKeyVisual || d.Slides[4].Type != deck.SlideFurtherReading {
		t.Errorf("slide order not preserved: %+v", d.Slides)
	}
	if d.Enrichment == nil || d.Enrichment.Meta == nil || d.Enrichment.Meta.Model != "llama" {
		t.Errorf("Enrichment = %+v, want meta model llama", d.Enrichment)
	}
}

func TestHTTPGateway_GenerateDeck_Errors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		check  func(t *testing.T, err error)
	}{
		{
			name:   "server-error-with-message",
			status: http.StatusInternalServerError,
			body:   `{"status":500,"error":"Internal Server Error","message":"upstream NASA timeout"}`,
			check: func(t *testing.T, err error) {
				var se *ServerError
				if !errors.As(err, &se) {
					t.Fatalf("error = %T, want *ServerError", err)
				}
				if se.StatusCode != 500 || se.Message != "upstream NASA timeout" {
					t.Errorf("ServerError = %+v", se)
				}
			},
		},
		{
			name:   "server-error-without-body",
			status: http.StatusBadGateway,
			body:   ``,
			check: func(t *testing.T, err error) {
				var se *ServerError
				if !errors.As(err, &se) {
					t.Fatalf("error = %T, want *ServerError", err)
				}
				if se.Message != "" {
					t.Errorf("Message = %q, want empty", se.Message)
				}
				if se.UserMessage() == "" {
					t.Error("UserMessage() should never be empty")
				}
			},
		},
		{
			name:   "validation-error",
			status: http.StatusBadRequest,
			body:   `{"status":400,"error":"Bad Request","errors":[{"field":"topic","defaultMessage":"must not be blank"}]}`,
			check: func(t *testing.T, err error) {
				var ve *ValidationError
				if !errors.As(err, &ve) {
					t.Fatalf("error = %T, want *ValidationError", err)
				}
				if ve.Message != "topic must not be blank" {
					t.Errorf("Message = %q", ve.Message)
				}
			},
		},
		{
			name:   "malformed-success-body",
			status: http.StatusOK,
			body:   `{"slides": "nope"}`,
			check: func(t *testing.T, err error) {
				if !errors.Is(err, ErrMalformedResponse) {
					t.Errorf("error = %v, want ErrMalformedResponse", err)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer server.Close()

			gw := NewHTTPGateway(WithBaseURL(server.URL))
			_, err := gw.GenerateDeck(context.Background(), deck.GenerateRequest{Topic: "x"})
			if err == nil {
				t.Fatal("GenerateDeck() should return error")
			}
			tt.check(t, err)
		})
	}
}

func TestHTTPGateway_TransportError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	gw := NewHTTPGateway(WithBaseURL(url))
	_, err := gw.GenerateDeck(context.Background(), deck.GenerateRequest{Topic: "x"})

	var te *TransportError
	if !errors.As(err, &te) {
		t.Fatalf("error = %v, want *TransportError", err)
	}
}

func TestHTTPGateway_Export(t *testing.T) {
	var paths []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.URL.EscapedPath())
		if r.Method != http.MethodGet {
			t.Errorf("method = %s, want GET", r.Method)
		}
		w.Write([]byte("payload:" + r.URL.Path))
	}))
	defer server.Close()

	gw := NewHTTPGateway(WithBaseURL(server.URL + "/"))

	html, err := gw.ExportHTML(context.Background(), "deck-1")
	if err != nil {
		t.Fatalf("ExportHTML() error = %v", err)
	}
	if string(html) != "payload:/api/decks/deck-1/export/html" {
		t.Errorf("html = %q", html)
	}

	pdf, err := gw.ExportPDF(context.Background(), "deck 2")
	if err != nil {
		t.Fatalf("ExportPDF() error = %v", err)
	}
	if string(pdf) != "payload:/api/decks/deck 2/export/pdf" {
		t.Errorf("pdf = %q", pdf)
	}
	if paths[1] != "/api/decks/deck%202/export/pdf" {
		t.Errorf("escaped path = %q", paths[1])
	}
}

func TestHTTPGateway_Export_NotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"message":"Deck not found: deck-9"}`))
	}))
	defer server.Close()

	gw := NewHTTPGateway(WithBaseURL(server.URL))
	_, err := gw.ExportPDF(context.Background(), "deck-9")

	var se *ServerError
	if !errors.As(err, &se) || se.StatusCode != http.StatusNotFound {
		t.Fatalf("error = %v, want 404 ServerError", err)
	}
	if got := UserMessage(err, "fallback"); got != "Deck not found: deck-9" {
		t.Errorf("UserMessage() = %q", got)
	}
}

func TestHTTPGateway_FetchDailyImage(t *testing.T) {
	tests := []struct {
		name      string
		date      string
		wantQuery string
	}{
		{"today", "", ""},
		{"explicit-date", "2024-12-25", "date=2024-12-25"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Path != "/api/apod" {
					t.Errorf("unexpected path: %s", r.URL.Path)
				}
				if r.URL.RawQuery != tt.wantQuery {
					t.Errorf("query = %q, want %q", r.URL.RawQuery, tt.wantQuery)
				}
				w.Write([]byte(`{"title":"Andromeda","media_type":"image","thumbnail_url":"t.jpg","service_version":"v1"}`))
			}))
			defer server.Close()

			gw := NewHTTPGateway(WithBaseURL(server.URL))
			img, err := gw.FetchDailyImage(context.Background(), tt.date)
			if err != nil {
				t.Fatalf("FetchDailyImage() error = %v", err)
			}
			if img.Title != "Andromeda" || img.MediaType != "image" || img.ThumbnailURL != "t.jpg" || img.ServiceVersion != "v1" {
				t.Errorf("unexpected image: %+v", img)
			}
		})
	}
}

func TestUserMessage_Fallback(t *testing.T) {
	if got := UserMessage(errors.New("boom"), "Failed to generate deck"); got != "Failed to generate deck" {
		t.Errorf("UserMessage() = %q, want fallback", got)
	}
	if got := UserMessage(&ValidationError{StatusCode: 400}, "x"); got == "x" || got == "" {
		t.Errorf("ValidationError without message should use its own default, got %q", got)
	}
}
