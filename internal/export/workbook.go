package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/p-n-ai/pai-deck/internal/deck"
)

const (
	slidesSheet     = "Slides"
	vocabularySheet = "Vocabulary"
	lessonSheet     = "Lesson"
)

// Workbook renders d as an XLSX file: one row per slide in presentation
// order, plus vocabulary and lesson notes sheets when the deck is enriched.
func Workbook(d deck.LessonDeck) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", slidesSheet); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}

	rows := [][]any{{"#", "Type", "Title", "Text", "Image", "Attribution"}}
	for i, s := range d.Slides {
		rows = append(rows, []any{i + 1, s.Type, s.Title, s.Text, s.ImageURL, s.Attribution})
	}
	if err := writeRows(f, slidesSheet, rows); err != nil {
		return nil, err
	}

	if e := d.Enrichment; deck.HasEnrichment(e) {
		if len(e.Vocabulary) > 0 {
			if _, err := f.NewSheet(vocabularySheet); err != nil {
				return nil, fmt.Errorf("add sheet: %w", err)
			}
			vocab := [][]any{{"Term", "Definition"}}
			for _, v := range e.Vocabulary {
				vocab = append(vocab, []any{v.Term, v.Definition})
			}
			if err := writeRows(f, vocabularySheet, vocab); err != nil {
				return nil, err
			}
		}

		if _, err := f.NewSheet(lessonSheet); err != nil {
			return nil, fmt.Errorf("add sheet: %w", err)
		}
		notes := [][]any{
			{"Hook", e.Hook},
			{"Simple explanation", e.SimpleExplanation},
			{"Why it matters", e.WhyItMatters},
			{"Class question", e.ClassQuestion},
			{"Fun fact", e.FunFact},
			{"Attribution", e.Attribution},
		}
		if e.Meta != nil && e.Meta.Model != "" {
			notes = append(notes, []any{"Model", e.Meta.Model})
		}
		if err := writeRows(f, lessonSheet, notes); err != nil {
			return nil, err
		}
	}

	if err := f.SetDocProps(&excelize.DocProperties{
		Title:   d.Topic,
		Subject: "Lesson deck " + d.ID,
	}); err != nil {
		return nil, fmt.Errorf("set doc props: %w", err)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func writeRows(f *excelize.File, sheet string, rows [][]any) error {
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return fmt.Errorf("cell name: %w", err)
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("write %s row %d: %w", sheet, i+1, err)
		}
	}
	return nil
}
