// Package store persists raw title documents and reference feeds on disk,
// addressable by (title, date) and feed-name keys. The analyzer only depends
// on the key scheme, not on where the files live.
package store

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// ErrNotFound is returned when a blob is absent from the store.
var ErrNotFound = errors.New("not found")

const (
	agenciesFile      = "agencies.json"
	titlesSummaryFile = "titles_summary.json"
)

// Store is a filesystem blob store rooted at a data directory.
type Store struct {
	dir string
}

func New(dir string) *Store {
	return &Store{dir: dir}
}

// DocumentKey returns the blob name for one title at one date.
func DocumentKey(title int, date string) string {
	return fmt.Sprintf("title_%d_%s.xml", title, date)
}

// Document returns the raw bytes of one stored title document.
func (s *Store) Document(title int, date string) ([]byte, error) {
	return s.read(DocumentKey(title, date))
}

// PutDocument stores the raw bytes of one title document.
func (s *Store) PutDocument(title int, date string, data []byte) error {
	return s.write(DocumentKey(title, date), data)
}

// HasDocument reports whether a title document is present locally.
func (s *Store) HasDocument(title int, date string) bool {
	_, err := os.Stat(filepath.Join(s.dir, DocumentKey(title, date)))
	return err == nil
}

// Agencies returns the raw agency reference feed.
func (s *Store) Agencies() ([]byte, error) {
	return s.read(agenciesFile)
}

// PutAgencies stores the raw agency reference feed.
func (s *Store) PutAgencies(data []byte) error {
	return s.write(agenciesFile, data)
}

// TitlesSummary returns the raw titles summary feed.
func (s *Store) TitlesSummary() ([]byte, error) {
	return s.read(titlesSummaryFile)
}

// PutTitlesSummary stores the raw titles summary feed.
func (s *Store) PutTitlesSummary(data []byte) error {
	return s.write(titlesSummaryFile, data)
}

func (s *Store) read(name string) ([]byte, error) {
	data, err := os.ReadFile(filepath.Join(s.dir, name))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%s: %w", name, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", name, err)
	}
	return data, nil
}

// write replaces the blob atomically: a torn XML document would otherwise
// survive a crash or a concurrent writer and poison every later parse.
func (s *Store) write(name string, data []byte) error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}

	tmp, err := os.CreateTemp(s.dir, name+".tmp")
	if err != nil {
		return fmt.Errorf("write %s: %w", name, err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write %s: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("write %s: %w", name, err)
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", name, err)
	}
	if err := os.Rename(tmp.Name(), filepath.Join(s.dir, name)); err != nil {
		return fmt.Errorf("write %s: %w", name, err)
	}
	return nil
}
