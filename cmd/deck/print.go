package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/p-n-ai/pai-deck/internal/presets"
	"github.com/p-n-ai/pai-deck/internal/session"
)

func printDeck(w io.Writer, st session.State) {
	d := st.Deck
	fmt.Fprintf(w, "\n# %s\n", d.Topic)
	if st.LastRequest != nil && st.LastRequest.GradeLevel != "" {
		fmt.Fprintf(w, "Grade %s", st.LastRequest.GradeLevel)
		if st.LastRequest.Locale != "" {
			fmt.Fprintf(w, " · %s", st.LastRequest.Locale)
		}
		fmt.Fprintln(w)
	}

	for i, s := range d.Slides {
		title := s.Title
		if title == "" {
			title = s.Type
		}
		fmt.Fprintf(w, "\n%d. %s\n", i+1, title)
		if s.Text != "" {
			fmt.Fprintf(w, "   %s\n", s.Text)
		}
		if s.ImageURL != "" {
			fmt.Fprintf(w, "   image: %s\n", s.ImageURL)
		}
		if s.Attribution != "" {
			fmt.Fprintf(w, "   (%s)\n", s.Attribution)
		}
	}

	if !st.HasEnrichment {
		return
	}
	e := d.Enrichment
	fmt.Fprintln(w, "\n## Lesson notes")
	field := func(label, v string) {
		if strings.TrimSpace(v) != "" {
			fmt.Fprintf(w, "%s: %s\n", label, v)
		}
	}
	field("Hook", e.Hook)
	field("Simple explanation", e.SimpleExplanation)
	field("Why it matters", e.WhyItMatters)
	field("Class question", e.ClassQuestion)
	if len(e.Vocabulary) > 0 {
		fmt.Fprintln(w, "Vocabulary:")
		for _, v := range e.Vocabulary {
			fmt.Fprintf(w, "  - %s: %s\n", v.Term, v.Definition)
		}
	}
	field("Fun fact", e.FunFact)
	field("Attribution", e.Attribution)
	if e.Meta != nil {
		field("Model", e.Meta.Model)
	}
}

func printDailyImage(w io.Writer, st session.State) {
	switch {
	case st.DailyImageError != "":
		fmt.Fprintf(w, "Daily image: %s\n", st.DailyImageError)
	case st.DailyImage != nil && !st.DailyImage.IsEmpty():
		img := st.DailyImage
		fmt.Fprintf(w, "Daily image (%s): %s\n", img.Date, img.Title)
		url := img.URL
		if img.MediaType == "video" && img.ThumbnailURL != "" {
			url = img.ThumbnailURL
		}
		if url != "" {
			fmt.Fprintf(w, "  %s\n", url)
		}
		if img.Copyright != "" {
			fmt.Fprintf(w, "  © %s\n", strings.TrimSpace(img.Copyright))
		}
	}
}

func printPresets(w io.Writer, all []presets.Preset) {
	if len(all) == 0 {
		fmt.Fprintln(w, "No presets.")
		return
	}
	for _, p := range all {
		fmt.Fprintf(w, "%-16s %s (%s", p.ID, p.Name, p.Topic)
		if p.GradeLevel != "" {
			fmt.Fprintf(w, ", grade %s", p.GradeLevel)
		}
		if p.Locale != "" {
			fmt.Fprintf(w, ", %s", p.Locale)
		}
		fmt.Fprintln(w, ")")
		if notes := strings.TrimSpace(p.Notes); notes != "" {
			fmt.Fprintf(w, "%-16s %s\n", "", notes)
		}
	}
}
