package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/example/reviewbot/internal/logger"
	"github.com/example/reviewbot/pkg/models"
)

// JSONStore keeps the dataset as one indented JSON document on disk.
type JSONStore struct {
	path string
	log  *logger.Logger

	rename func(oldpath, newpath string) error
}

// NewJSONStore returns a store backed by the file at path. The file and its
// directory are created on first save.
func NewJSONStore(path string, log *logger.Logger) *JSONStore {
	return &JSONStore{
		path:   path,
		log:    log.With("store", "json", "path", path),
		rename: os.Rename,
	}
}

// Load reads the document. A missing or blank file is an empty dataset.
func (s *JSONStore) Load(ctx context.Context) (models.Dataset, error) {
	raw, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		s.log.Info("no data file yet, starting empty")
		return models.Dataset{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", s.path, err)
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return models.Dataset{}, nil
	}

	data := models.Dataset{}
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrCorrupt, s.path, err)
	}
	for id, st := range data {
		st.Normalize()
		data[id] = st
	}
	s.log.Debug("dataset loaded", "users", len(data))
	return data, nil
}

// Save writes the document to a temporary file next to the target, syncs it
// and renames it over the target.
func (s *JSONStore) Save(ctx context.Context, data models.Dataset) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if data == nil {
		data = models.Dataset{}
	}
	raw, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode dataset: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(s.path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()
	cleanup := func() {
		tmp.Close()
		os.Remove(tmpName)
	}

	if _, err := tmp.Write(raw); err != nil {
		cleanup()
		return fmt.Errorf("failed to write %s: %w", tmpName, err)
	}
	if err := tmp.Sync(); err != nil {
		cleanup()
		return fmt.Errorf("failed to sync %s: %w", tmpName, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to close %s: %w", tmpName, err)
	}
	if err := s.rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to replace %s: %w", s.path, err)
	}
	s.log.Debug("dataset saved", "users", len(data), "bytes", len(raw))
	return nil
}

func (s *JSONStore) Close() error {
	return nil
}
