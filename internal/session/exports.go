package session

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/p-n-ai/pai-deck/internal/deck"
	"github.com/p-n-ai/pai-deck/internal/events"
	"github.com/p-n-ai/pai-deck/internal/export"
	"github.com/p-n-ai/pai-deck/internal/gateway"
)

// ExportHTML saves the current deck as HTML and returns the file name, or
// "" when nothing was saved. Without a deck it makes no call at all.
func (c *Controller) ExportHTML(ctx context.Context) string {
	return c.export(ctx, deck.ExtHTML, func(ctx context.Context, d deck.LessonDeck) ([]byte, error) {
		return c.gw.ExportHTML(ctx, d.ID)
	})
}

// ExportPDF saves the current deck as PDF. See ExportHTML.
func (c *Controller) ExportPDF(ctx context.Context) string {
	return c.export(ctx, deck.ExtPDF, func(ctx context.Context, d deck.LessonDeck) ([]byte, error) {
		return c.gw.ExportPDF(ctx, d.ID)
	})
}

// ExportWorkbook saves the current deck as an XLSX workbook built locally.
func (c *Controller) ExportWorkbook(ctx context.Context) string {
	return c.export(ctx, deck.ExtXLSX, func(_ context.Context, d deck.LessonDeck) ([]byte, error) {
		return export.Workbook(d)
	})
}

func (c *Controller) export(ctx context.Context, ext string, fetch func(context.Context, deck.LessonDeck) ([]byte, error)) string {
	d := c.snapshot()
	if d == nil {
		return ""
	}
	if c.saver == nil {
		slog.Warn("export skipped, no saver configured", "session_id", c.id, "format", ext)
		return ""
	}

	data, err := fetch(ctx, *d)
	if err != nil {
		c.setError(gateway.UserMessage(err, msgExportFailed))
		slog.Error("deck export failed", "session_id", c.id, "deck_id", d.ID, "format", ext, "error", err)
		c.logEvent(d.ID, events.ExportFailed, map[string]any{"format": ext, "error": err.Error()})
		return ""
	}

	name := deck.Filename(d.Topic, ext)
	if err := c.saver.Save(ctx, name, data); err != nil {
		c.setError(fmt.Sprintf("Failed to save %s", name))
		slog.Error("saving export failed", "session_id", c.id, "file", name, "error", err)
		c.logEvent(d.ID, events.ExportFailed, map[string]any{"format": ext, "error": err.Error()})
		return ""
	}

	c.logEvent(d.ID, events.ExportSaved, map[string]any{
		"format": ext,
		"file":   name,
		"bytes":  len(data),
		"digest": export.Digest(data),
	})
	return name
}
