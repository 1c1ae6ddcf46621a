// Command deck runs one lesson deck session from the terminal: it loads the
// daily image, generates a deck, prints it, optionally presents it as a
// slideshow and saves the requested exports.
package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/p-n-ai/pai-deck/internal/deck"
	"github.com/p-n-ai/pai-deck/internal/events"
	"github.com/p-n-ai/pai-deck/internal/export"
	"github.com/p-n-ai/pai-deck/internal/gateway"
	"github.com/p-n-ai/pai-deck/internal/platform/cache"
	"github.com/p-n-ai/pai-deck/internal/platform/config"
	"github.com/p-n-ai/pai-deck/internal/platform/database"
	"github.com/p-n-ai/pai-deck/internal/presets"
	"github.com/p-n-ai/pai-deck/internal/session"
	"github.com/p-n-ai/pai-deck/internal/slideshow"
)

var errGenerateFailed = errors.New("deck generation failed")

type options struct {
	topic       string
	gradeLevel  string
	locale      string
	preset      string
	listPresets bool
	slideshow   bool
	exports     []string
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	slog.SetDefault(newLogger(cfg.Log, os.Stderr))

	opts, err := parseFlags(os.Args[1:])
	if err != nil {
		slog.Error("invalid arguments", "error", err)
		os.Exit(2)
	}
	if err := cfg.Validate(); err != nil {
		slog.Error("invalid config", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	if err := run(ctx, cfg, opts, os.Stdin, os.Stdout); err != nil {
		if !errors.Is(err, errGenerateFailed) {
			slog.Error("session failed", "error", err)
		}
		stop()
		os.Exit(1)
	}
}

func parseFlags(args []string) (options, error) {
	var (
		opts    options
		exports string
	)
	fs := flag.NewFlagSet("deck", flag.ContinueOnError)
	fs.StringVar(&opts.topic, "topic", "", "deck topic (overrides LEARN_FORM_TOPIC)")
	fs.StringVar(&opts.gradeLevel, "grade", "", "grade level, e.g. 8-10")
	fs.StringVar(&opts.locale, "locale", "", "content locale, e.g. en")
	fs.StringVar(&opts.preset, "preset", "", "preset ID from LEARN_PRESETS_PATH")
	fs.BoolVar(&opts.listPresets, "list-presets", false, "print the available presets and exit")
	fs.BoolVar(&opts.slideshow, "slideshow", false, "present the deck as a slideshow")
	fs.StringVar(&exports, "export", "", "comma-separated exports to save: html,pdf,xlsx")
	if err := fs.Parse(args); err != nil {
		return options{}, err
	}

	var err error
	opts.exports, err = parseExports(exports)
	return opts, err
}

func parseExports(s string) ([]string, error) {
	var out []string
	seen := make(map[string]bool)
	for _, f := range strings.Split(s, ",") {
		f = strings.ToLower(strings.TrimSpace(f))
		if f == "" || seen[f] {
			continue
		}
		switch f {
		case deck.ExtHTML, deck.ExtPDF, deck.ExtXLSX:
		default:
			return nil, fmt.Errorf("unknown export format %q", f)
		}
		seen[f] = true
		out = append(out, f)
	}
	return out, nil
}

func newLogger(cfg config.LogConfig, w io.Writer) *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		level = slog.LevelInfo
	}
	hopts := &slog.HandlerOptions{Level: level}
	if strings.EqualFold(cfg.Format, "json") {
		return slog.New(slog.NewJSONHandler(w, hopts))
	}
	return slog.New(slog.NewTextHandler(w, hopts))
}

// resolveForm layers the preset and then the flags over the configured form.
func resolveForm(cfg *config.Config, opts options, loader *presets.Loader) (session.Form, error) {
	form := session.Form{
		Topic:      cfg.Form.Topic,
		GradeLevel: cfg.Form.GradeLevel,
		Locale:     cfg.Form.Locale,
	}
	if opts.preset != "" {
		if loader == nil {
			return form, fmt.Errorf("preset %q requested but LEARN_PRESETS_PATH is not set", opts.preset)
		}
		p, ok := loader.Get(opts.preset)
		if !ok {
			return form, fmt.Errorf("unknown preset %q", opts.preset)
		}
		form.Topic = p.Topic
		if p.GradeLevel != "" {
			form.GradeLevel = p.GradeLevel
		}
		if p.Locale != "" {
			form.Locale = p.Locale
		}
	}
	if opts.topic != "" {
		form.Topic = opts.topic
	}
	if opts.gradeLevel != "" {
		form.GradeLevel = opts.gradeLevel
	}
	if opts.locale != "" {
		form.Locale = opts.locale
	}
	return form, nil
}

// openEvents builds the configured event sink. The returned func releases
// its connections.
func openEvents(ctx context.Context, cfg *config.Config) (events.EventLogger, func(), error) {
	switch cfg.Events.Sink {
	case "memory":
		mem := events.NewMemoryEventLogger()
		return mem, func() {
			slog.Info("session events", "types", mem.Types())
		}, nil

	case "postgres":
		db, err := database.New(ctx, cfg.Database.URL, cfg.Database.MaxConns, cfg.Database.MinConns)
		if err != nil {
			return nil, nil, fmt.Errorf("connect events database: %w", err)
		}
		if err := db.Migrate(ctx, events.Schema); err != nil {
			db.Close()
			return nil, nil, err
		}
		return events.NewPostgresEventLogger(db.Pool), func() {
			if err := db.HealthCheck(context.Background()); err != nil {
				slog.Warn("events database lost during session, some events may be missing", "error", err)
			}
			db.Close()
		}, nil

	case "redis":
		c, err := cache.New(ctx, cfg.Cache.URL)
		if err != nil {
			return nil, nil, fmt.Errorf("connect events cache: %w", err)
		}
		stream := cfg.Events.Stream
		return events.NewRedisEventLogger(c.Client, stream), func() {
			ctx := context.Background()
			if err := c.HealthCheck(ctx); err != nil {
				slog.Warn("events cache lost during session, some events may be missing", "error", err)
			} else if n, err := c.StreamLen(ctx, stream); err == nil {
				slog.Info("session events appended", "stream", stream, "entries", n)
			}
			c.Close()
		}, nil

	default:
		return events.NopEventLogger{}, func() {}, nil
	}
}

// newWidgets returns the presentation capability for the configured mode.
// Mode "none" leaves both nil and the slideshow stays inert.
func newWidgets(cfg *config.Config, out io.Writer) (session.WidgetFactory, session.Surface) {
	switch cfg.Slideshow.Mode {
	case "terminal":
		return slideshow.TerminalFactory{}, session.SurfaceFunc(func() (any, bool) { return out, true })
	case "remote":
		url := cfg.Slideshow.RemoteURL
		return slideshow.RemoteFactory{}, session.SurfaceFunc(func() (any, bool) { return url, url != "" })
	default:
		return nil, nil
	}
}

func run(ctx context.Context, cfg *config.Config, opts options, in io.Reader, out io.Writer) error {
	var loader *presets.Loader
	if cfg.PresetsPath != "" {
		var err error
		if loader, err = presets.NewLoader(cfg.PresetsPath); err != nil {
			return err
		}
	}
	if opts.listPresets {
		if loader == nil {
			return fmt.Errorf("LEARN_PRESETS_PATH is not set")
		}
		printPresets(out, loader.All())
		return nil
	}

	form, err := resolveForm(cfg, opts, loader)
	if err != nil {
		return err
	}

	sink, closeSink, err := openEvents(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeSink()

	var saver session.Saver
	if len(opts.exports) > 0 {
		ds, err := export.NewDirSaver(cfg.ExportDir)
		if err != nil {
			return err
		}
		saver = ds
	}

	gw := gateway.NewHTTPGateway(
		gateway.WithBaseURL(cfg.DeckAPI.URL),
		gateway.WithHTTPClient(&http.Client{Timeout: cfg.DeckAPI.Timeout}),
	)
	widgets, surface := newWidgets(cfg, out)

	ctrl := session.New(session.Config{
		Gateway:        gw,
		Saver:          saver,
		Widgets:        widgets,
		Surface:        surface,
		Events:         sink,
		Form:           form,
		DailyImageDate: cfg.APODDate,
	})
	defer ctrl.Close()

	slog.Info("session started", "session_id", ctrl.ID(), "api", cfg.DeckAPI.URL)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		ctrl.Start(gctx)
		return nil
	})
	g.Go(func() error {
		return ctrl.Generate(gctx)
	})
	if err := g.Wait(); err != nil {
		return err
	}

	st := ctrl.State()
	printDailyImage(out, st)
	if st.Deck == nil {
		fmt.Fprintf(out, "\nError: %s\n", st.Error)
		return errGenerateFailed
	}
	printDeck(out, st)

	if opts.slideshow {
		present(ctrl, in, out)
	}

	for _, format := range opts.exports {
		var name string
		switch format {
		case deck.ExtHTML:
			name = ctrl.ExportHTML(ctx)
		case deck.ExtPDF:
			name = ctrl.ExportPDF(ctx)
		case deck.ExtXLSX:
			name = ctrl.ExportWorkbook(ctx)
		}
		if name == "" {
			fmt.Fprintf(out, "Export %s failed: %s\n", format, ctrl.State().Error)
			continue
		}
		fmt.Fprintf(out, "Saved %s\n", name)
	}
	return nil
}

// present opens the slideshow, gives it its loop turn and then hands
// navigation to the reader until it quits or runs dry.
func present(ctrl *session.Controller, in io.Reader, out io.Writer) {
	ctrl.OpenSlideshow()
	defer ctrl.CloseSlideshow()

	ctrl.Loop().RunPending()

	h, ok := ctrl.Widget()
	if !ok {
		fmt.Fprintln(out, "Slideshow unavailable.")
		return
	}
	j, ok := h.(session.Jumper)
	st := ctrl.State()
	if !ok || st.Deck == nil {
		return
	}
	navigate(in, j, len(st.Deck.Slides))
}

// stepper is implemented by widgets that track their own position.
type stepper interface {
	Next() (bool, error)
	Prev() (bool, error)
	Current() int
}

// navigate reads n/p/q commands (or a slide number) one per line. n and p
// go through the widget's own stepping when it has one.
func navigate(in io.Reader, j session.Jumper, total int) int {
	st, stepping := j.(stepper)
	current := 0
	sc := bufio.NewScanner(in)
	for sc.Scan() {
		next := current
		step := 0
		switch cmd := strings.TrimSpace(strings.ToLower(sc.Text())); cmd {
		case "", "n", "next":
			next, step = current+1, 1
		case "p", "prev":
			next, step = current-1, -1
		case "q", "quit":
			return current
		default:
			var n int
			if _, err := fmt.Sscanf(cmd, "%d", &n); err != nil {
				continue
			}
			next = n - 1
		}
		if next < 0 || next >= total || next == current {
			continue
		}

		var err error
		switch {
		case stepping && step > 0:
			_, err = st.Next()
		case stepping && step < 0:
			_, err = st.Prev()
		default:
			err = j.JumpTo(next)
		}
		if err != nil {
			slog.Warn("slide navigation failed", "slide", next, "error", err)
			return current
		}
		if stepping {
			current = st.Current()
		} else {
			current = next
		}
	}
	return current
}
