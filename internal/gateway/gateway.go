// Package gateway is the typed boundary to the deck service. Every operation
// is a single request/response round trip: no caching, no retries.
package gateway

import (
	"context"

	"github.com/p-n-ai/pai-deck/internal/deck"
)

// Gateway is implemented by anything that can reach the deck service.
type Gateway interface {
	GenerateDeck(ctx context.Context, req deck.GenerateRequest) (deck.LessonDeck, error)
	ExportHTML(ctx context.Context, deckID string) ([]byte, error)
	ExportPDF(ctx context.Context, deckID string) ([]byte, error)
	// FetchDailyImage loads the picture for date (YYYY-MM-DD). An empty
	// date means today, as decided by the service.
	FetchDailyImage(ctx context.Context, date string) (deck.DailyImage, error)
}
