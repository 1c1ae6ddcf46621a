// Package deck defines the lesson deck data model shared by the gateway and
// the session controller.
package deck

import "time"

// Slide types produced by the deck service, in presentation order.
const (
	SlideKeyVisual      = "KEY_VISUAL"
	SlideExplanation    = "EXPLANATION"
	SlideWhyItMatters   = "WHY_IT_MATTERS"
	SlideQuestion       = "QUESTION"
	SlideFurtherReading = "FURTHER_READING"
)

// GenerateRequest asks the deck service for a new lesson deck.
type GenerateRequest struct {
	Topic      string `json:"topic"`
	GradeLevel string `json:"gradeLevel,omitempty"`
	Locale     string `json:"locale,omitempty"`
}

// LessonDeck is a generated slide deck. ID is assigned by the deck service
// and is the key for exports.
type LessonDeck struct {
	ID         string          `json:"id"`
	Topic      string          `json:"topic"`
	CreatedAt  time.Time       `json:"createdAt"`
	Slides     []Slide         `json:"slides"`
	Enrichment *DeckEnrichment `json:"enrichment,omitempty"`
}

// Slide is one unit of deck content. Type is the discriminator.
type Slide struct {
	Type        string `json:"type"`
	Title       string `json:"title,omitempty"`
	Text        string `json:"text,omitempty"`
	ImageURL    string `json:"imageUrl,omitempty"`
	Attribution string `json:"attribution,omitempty"`
}

// VocabularyItem is a term with its definition.
type VocabularyItem struct {
	Term       string `json:"term"`
	Definition string `json:"definition"`
}

// EnrichmentMeta describes how the enrichment was produced.
type EnrichmentMeta struct {
	Model string `json:"model,omitempty"`
}

// DeckEnrichment is optional pedagogical content attached to a deck.
// Any field may be empty.
type DeckEnrichment struct {
	Hook              string           `json:"hook,omitempty"`
	SimpleExplanation string           `json:"simple_explanation,omitempty"`
	WhyItMatters      string           `json:"why_it_matters,omitempty"`
	ClassQuestion     string           `json:"class_question,omitempty"`
	Vocabulary        []VocabularyItem `json:"vocabulary,omitempty"`
	FunFact           string           `json:"fun_fact,omitempty"`
	Attribution       string           `json:"attribution,omitempty"`
	Meta              *EnrichmentMeta  `json:"meta,omitempty"`
}

// DailyImage is the Astronomy Picture of the Day shown beside the deck.
type DailyImage struct {
	Date           string `json:"date,omitempty"`
	Title          string `json:"title,omitempty"`
	Explanation    string `json:"explanation,omitempty"`
	MediaType      string `json:"media_type,omitempty"`
	URL            string `json:"url,omitempty"`
	HDURL          string `json:"hdurl,omitempty"`
	ThumbnailURL   string `json:"thumbnail_url,omitempty"`
	Copyright      string `json:"copyright,omitempty"`
	ServiceVersion string `json:"service_version,omitempty"`
}

// IsEmpty reports whether the service returned no picture at all.
func (d DailyImage) IsEmpty() bool {
	return d == DailyImage{}
}
