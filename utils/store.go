package utils

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"planner-api/models"
)

// Store loads and saves the whole document. Every call works on the full
// state; implementations do not cache between calls and do not lock.
type Store interface {
	Init() error
	Load() (*models.Document, error)
	Save(doc *models.Document) error
	Close() error
}

// Store drivers accepted by OpenStore.
const (
	DriverFile   = "file"
	DriverSQLite = "sqlite"
)

// OpenStore returns an initialized store for driver. path is the JSON file
// for DriverFile and the database file for DriverSQLite.
func OpenStore(driver, path string) (Store, error) {
	var store Store
	switch driver {
	case DriverFile:
		store = NewFileStore(path)
	case DriverSQLite:
		s, err := NewSQLiteStore(path)
		if err != nil {
			return nil, err
		}
		store = s
	default:
		return nil, fmt.Errorf("unknown store driver %q", driver)
	}

	if err := store.Init(); err != nil {
		store.Close()
		return nil, err
	}
	return store, nil
}

// FileStore keeps the document as an indented JSON file.
type FileStore struct {
	path string
}

// NewFileStore returns a store backed by the JSON file at path.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Path returns the backing file path.
func (s *FileStore) Path() string {
	return s.path
}

// Init writes an empty document if the file does not exist yet.
func (s *FileStore) Init() error {
	_, err := os.Stat(s.path)
	if err == nil {
		return nil
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("stat data file: %w", err)
	}
	return s.Save(models.NewDocument())
}

// Load reads and parses the data file.
func (s *FileStore) Load() (*models.Document, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("read data file: %w", err)
	}

	var doc models.Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse data file: %w", err)
	}
	return &doc, nil
}

// Save replaces the data file with doc, using a temp file and rename so a
// failed write never leaves a truncated file behind.
func (s *FileStore) Save(doc *models.Document) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal data file: %w", err)
	}
	data = append(data, '\n')

	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(s.path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp data file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write data file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("sync data file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close data file: %w", err)
	}
	if err := os.Chmod(tmpName, 0644); err != nil {
		return fmt.Errorf("chmod data file: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		return fmt.Errorf("replace data file: %w", err)
	}
	return nil
}

// Close is a no-op; the file is opened per call.
func (s *FileStore) Close() error {
	return nil
}
