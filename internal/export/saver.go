// Package export saves deck artifacts to disk and builds client-side
// exports.
package export

import (
	"context"
	"encoding/hex"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"golang.org/x/crypto/blake2b"
)

// DirSaver writes artifacts into a directory. Each write goes to a temp
// file that is renamed into place, so readers never see a partial file.
type DirSaver struct {
	dir string
}

// NewDirSaver creates a saver rooted at dir, creating it if needed.
func NewDirSaver(dir string) (*DirSaver, error) {
	if dir == "" {
		return nil, fmt.Errorf("export dir is empty")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create export dir: %w", err)
	}
	return &DirSaver{dir: dir}, nil
}

// Dir returns the target directory.
func (s *DirSaver) Dir() string { return s.dir }

// Save writes data to name inside the directory, replacing any existing
// file. name must be a bare file name.
func (s *DirSaver) Save(ctx context.Context, name string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if name == "" || filepath.Base(name) != name || name == "." || name == ".." {
		return fmt.Errorf("invalid file name %q", name)
	}

	tmp, err := os.CreateTemp(s.dir, "."+name+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write %s: %w", name, err)
	}
	if err := tmp.Chmod(0o644); err != nil {
		tmp.Close()
		return fmt.Errorf("chmod %s: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close %s: %w", name, err)
	}

	target := filepath.Join(s.dir, name)
	if err := os.Rename(tmpName, target); err != nil {
		return fmt.Errorf("rename %s: %w", name, err)
	}

	slog.Info("export saved", "path", target, "bytes", len(data))
	return nil
}

// Digest returns the hex BLAKE2b-256 of data.
func Digest(data []byte) string {
	sum := blake2b.Sum256(data)
	return hex.EncodeToString(sum[:])
}
