package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"parkslot/pkg/logger"
	"parkslot/pkg/model"
)

// FileStore keeps the collection in one JSON file on disk. Writes go to a
// temporary file in the same directory followed by a rename, so a crash
// mid-write never leaves a torn document behind. There is no cross-process
// locking: concurrent writers are last-write-wins.
type FileStore struct {
	path string
	log  *logger.Logger
}

func NewFileStore(path string, log *logger.Logger) *FileStore {
	return &FileStore{
		path: path,
		log:  log,
	}
}

func (s *FileStore) ReadAll(ctx context.Context) ([]model.Booking, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			s.log.Warn("Bookings file unreadable, treating as empty", "path", s.path, "error", err)
		}
		return []model.Booking{}, nil
	}

	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		s.log.Warn("Bookings file corrupt, treating as empty", "path", s.path, "error", err)
		return []model.Booking{}, nil
	}

	if doc.Bookings == nil {
		return []model.Booking{}, nil
	}
	return doc.Bookings, nil
}

func (s *FileStore) WriteAll(ctx context.Context, bookings []model.Booking) error {
	if bookings == nil {
		bookings = []model.Booking{}
	}

	data, err := json.MarshalIndent(document{Bookings: bookings}, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode bookings: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}

	if err := s.writeAndSync(tmp, data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}

	if err := os.Rename(tmp.Name(), s.path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to replace bookings file: %w", err)
	}

	return nil
}

func (s *FileStore) writeAndSync(tmp *os.File, data []byte) error {
	if _, err := tmp.Write(data); err != nil {
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := tmp.Chmod(0o644); err != nil {
		return fmt.Errorf("failed to set temp file permissions: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("failed to sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	return nil
}
