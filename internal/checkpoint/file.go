package checkpoint

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
)

// FileStore keeps the checkpoint as a small JSON file on local disk.
type FileStore struct {
	path string
	log  *slog.Logger
}

func NewFileStore(path string, log *slog.Logger) *FileStore {
	return &FileStore{path: path, log: log.With("checkpoint", path)}
}

// Load returns the stored page, if any.
func (s *FileStore) Load(_ context.Context) (int, bool) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		s.log.Debug("no checkpoint file")
		return 0, false
	}
	if err != nil {
		s.log.Warn("checkpoint unreadable, ignoring", "error", err)
		return 0, false
	}

	page, err := decode(data)
	if errors.Is(err, errNoPage) {
		s.log.Debug("checkpoint has no completed page")
		return 0, false
	}
	if err != nil {
		s.log.Warn("checkpoint corrupt, ignoring", "error", err)
		return 0, false
	}
	return page, true
}

// syncFile flushes the temporary file to disk before it replaces the
// checkpoint, so the rename never exposes an empty file after a power loss.
var syncFile = (*os.File).Sync

// Save overwrites the checkpoint with page. The write goes to a temporary
// file in the same directory that is then renamed over the old one, so a
// crash leaves either the previous or the new checkpoint.
func (s *FileStore) Save(_ context.Context, page int) error {
	data, err := encode(page)
	if err != nil {
		return err
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create checkpoint dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(s.path)+".*")
	if err != nil {
		return fmt.Errorf("create checkpoint temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write checkpoint: %w", err)
	}
	if err := syncFile(tmp); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("sync checkpoint: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close checkpoint: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replace checkpoint: %w", err)
	}
	return nil
}
