package storage

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

const (
	storeFileName = "store.yaml"
	storeVersion  = "1.0"
)

// StoreFile represents the top-level structure of store.yaml.
type StoreFile struct {
	Version string            `yaml:"version"`
	Entries map[string]string `yaml:"entries"`
}

// FileStore is a Store backed by a single store.yaml document in a
// directory. Every Get reads the document from disk and every Set rewrites
// it whole, so the file is the only state.
type FileStore struct {
	basePath string
}

// NewFileStore creates a FileStore that keeps store.yaml in basePath. The
// directory is created on the first Set.
func NewFileStore(basePath string) *FileStore {
	return &FileStore{basePath: basePath}
}

// Path returns the location of the backing document.
func (s *FileStore) Path() string {
	return filepath.Join(s.basePath, storeFileName)
}

func (s *FileStore) lockPath() string {
	return filepath.Join(s.basePath, ".store.lock")
}

func (s *FileStore) Get(key string) (string, bool, error) {
	sf, err := s.load()
	if err != nil {
		return "", false, err
	}
	value, ok := sf.Entries[key]
	return value, ok, nil
}

func (s *FileStore) Set(key, value string) error {
	if err := os.MkdirAll(s.basePath, 0o750); err != nil {
		return fmt.Errorf("saving store: creating directory: %w", err)
	}

	unlock, err := lockFile(s.lockPath())
	if err != nil {
		return fmt.Errorf("saving store: %w", err)
	}
	defer func() { _ = unlock() }()

	sf, err := s.load()
	if err != nil {
		// An unreadable document is replaced rather than left blocking writes.
		sf = newStoreFile()
	}
	sf.Entries[key] = value

	data, err := yaml.Marshal(&sf)
	if err != nil {
		return fmt.Errorf("saving store: marshaling YAML: %w", err)
	}
	return writeFileAtomic(s.Path(), data)
}

// Close is a no-op; FileStore holds no open handles between calls.
func (s *FileStore) Close() error {
	return nil
}

func newStoreFile() StoreFile {
	return StoreFile{
		Version: storeVersion,
		Entries: make(map[string]string),
	}
}

func (s *FileStore) load() (StoreFile, error) {
	data, err := os.ReadFile(s.Path())
	if err != nil {
		if os.IsNotExist(err) {
			return newStoreFile(), nil
		}
		return StoreFile{}, fmt.Errorf("loading store: %w", err)
	}

	var sf StoreFile
	if err := yaml.Unmarshal(data, &sf); err != nil {
		return StoreFile{}, fmt.Errorf("loading store: parsing YAML: %w", err)
	}
	if sf.Entries == nil {
		sf.Entries = make(map[string]string)
	}
	if sf.Version == "" {
		sf.Version = storeVersion
	}
	return sf, nil
}

// writeFileAtomic writes data to a temporary file next to path and renames
// it into place, so readers never observe a partially written document.
func writeFileAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".store-*.tmp")
	if err != nil {
		return fmt.Errorf("saving store: creating temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("saving store: writing file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("saving store: closing file: %w", err)
	}
	if err := os.Chmod(tmpName, 0o600); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("saving store: setting permissions: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("saving store: renaming file: %w", err)
	}
	return nil
}
