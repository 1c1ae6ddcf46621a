package gateway

import (
	"context"
	"sync"

	"github.com/p-n-ai/pai-deck/internal/deck"
)

// MockGateway is a test double for Gateway. Calls are counted; a non-nil
// Block channel holds GenerateDeck until it is closed.
type MockGateway struct {
	Deck        deck.LessonDeck
	DailyImage  deck.DailyImage
	HTML        []byte
	PDF         []byte
	GenerateErr error
	ExportErr   error
	ImageErr    error
	Block       chan struct{}

	mu           sync.Mutex
	lastRequest  *deck.GenerateRequest
	generates    int
	exports      []string
	imageDates   []string
	generateSeen chan struct{}
}

// NewMockGateway creates a MockGateway that returns d from GenerateDeck.
func NewMockGateway(d deck.LessonDeck) *MockGateway {
	return &MockGateway{
		Deck: d,
		HTML: []byte("<html></html>"),
		PDF:  []byte("%PDF-1.7"),
	}
}

// GenerateStarted returns a channel that receives once per GenerateDeck
// call, before any Block wait.
func (m *MockGateway) GenerateStarted() <-chan struct{} {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.generateSeen == nil {
		m.generateSeen = make(chan struct{}, 16)
	}
	return m.generateSeen
}

func (m *MockGateway) GenerateDeck(ctx context.Context, req deck.GenerateRequest) (deck.LessonDeck, error) {
	m.mu.Lock()
	m.lastRequest = &req
	m.generates++
	seen := m.generateSeen
	m.mu.Unlock()

	if seen != nil {
		seen <- struct{}{}
	}
	if m.Block != nil {
		select {
		case <-m.Block:
		case <-ctx.Done():
			return deck.LessonDeck{}, &TransportError{Op: "generate deck", Err: ctx.Err()}
		}
	}
	if m.GenerateErr != nil {
		return deck.LessonDeck{}, m.GenerateErr
	}
	return m.Deck, nil
}

func (m *MockGateway) ExportHTML(_ context.Context, deckID string) ([]byte, error) {
	m.recordExport(deckID + "/" + deck.ExtHTML)
	if m.ExportErr != nil {
		return nil, m.ExportErr
	}
	return m.HTML, nil
}

func (m *MockGateway) ExportPDF(_ context.Context, deckID string) ([]byte, error) {
	m.recordExport(deckID + "/" + deck.ExtPDF)
	if m.ExportErr != nil {
		return nil, m.ExportErr
	}
	return m.PDF, nil
}

func (m *MockGateway) FetchDailyImage(_ context.Context, date string) (deck.DailyImage, error) {
	m.mu.Lock()
	m.imageDates = append(m.imageDates, date)
	m.mu.Unlock()
	if m.ImageErr != nil {
		return deck.DailyImage{}, m.ImageErr
	}
	return m.DailyImage, nil
}

func (m *MockGateway) recordExport(key string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.exports = append(m.exports, key)
}

// LastRequest returns the last GenerateDeck request, if any.
func (m *MockGateway) LastRequest() *deck.GenerateRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastRequest
}

// GenerateCalls returns the number of GenerateDeck calls.
func (m *MockGateway) GenerateCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.generates
}

// Exports returns "<deckID>/<format>" for every export call, in order.
func (m *MockGateway) Exports() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string{}, m.exports...)
}

// DailyImageDates returns the date argument of every FetchDailyImage call.
func (m *MockGateway) DailyImageDates() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string{}, m.imageDates...)
}
