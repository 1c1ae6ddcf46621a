// Package presets loads named topic presets for the generation form.
package presets

import (
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

// Loader loads and caches presets from a YAML file or a directory of them.
type Loader struct {
	root    string
	presets map[string]Preset
	mu      sync.RWMutex
}

// NewLoader creates a loader and reads every preset under root.
func NewLoader(root string) (*Loader, error) {
	l := &Loader{
		root:    root,
		presets: make(map[string]Preset),
	}

	if err := l.loadAll(); err != nil {
		return nil, fmt.Errorf("loading presets: %w", err)
	}

	slog.Info("presets loaded", "path", root, "presets", len(l.presets))
	return l, nil
}

// Get returns a preset by ID.
func (l *Loader) Get(id string) (Preset, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	p, ok := l.presets[id]
	return p, ok
}

// All returns all presets ordered by ID.
func (l *Loader) All() []Preset {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]Preset, 0, len(l.presets))
	for _, p := range l.presets {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (l *Loader) loadAll() error {
	info, err := os.Stat(l.root)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return l.loadFile(l.root)
	}

	return filepath.WalkDir(l.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return nil
		}
		if strings.HasSuffix(path, ".yaml") || strings.HasSuffix(path, ".yml") {
			return l.loadFile(path)
		}
		return nil
	})
}

func (l *Loader) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		slog.Warn("skipping invalid presets YAML", "path", path, "error", err)
		return nil
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	for _, p := range f.Presets {
		if p.ID == "" || strings.TrimSpace(p.Topic) == "" {
			slog.Warn("skipping incomplete preset", "path", path, "id", p.ID)
			continue
		}
		if prev, dup := l.presets[p.ID]; dup {
			slog.Warn("preset redefined", "id", p.ID, "previous_topic", prev.Topic, "path", path)
		}
		l.presets[p.ID] = p
	}
	return nil
}
