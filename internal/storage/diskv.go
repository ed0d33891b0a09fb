package storage

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/peterbourgon/diskv/v3"
)

// DiskvStore keeps one file per namespace under a directory. It needs no
// schema and suits syncing the snapshot through a file-sync tool.
type DiskvStore struct {
	dir string
	d   *diskv.Diskv
}

func NewDiskvStore(dir string) *DiskvStore {
	return &DiskvStore{dir: dir}
}

func (s *DiskvStore) Init() error {
	if err := os.MkdirAll(s.dir, 0700); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}
	s.open()
	return nil
}

func (s *DiskvStore) Open() error {
	info, err := os.Stat(s.dir)
	if err != nil || !info.IsDir() {
		return fmt.Errorf("storage not initialized at %s, run 'daybook init' first", s.dir)
	}
	s.open()
	return nil
}

func (s *DiskvStore) open() {
	if s.d != nil {
		return
	}
	s.d = diskv.New(diskv.Options{
		BasePath:     s.dir,
		Transform:    func(string) []string { return []string{} },
		CacheSizeMax: 1024 * 1024,
		FilePerm:     0600,
		PathPerm:     0700,
		// Writes go through a temp file and rename, so a crash never leaves half a snapshot.
		TempDir: filepath.Join(s.dir, ".tmp"),
	})
}

func (s *DiskvStore) Load(namespace string) ([]byte, error) {
	s.open()
	if !s.d.Has(namespace) {
		return nil, ErrNotFound
	}
	data, err := s.d.Read(namespace)
	if err != nil {
		return nil, fmt.Errorf("failed to load snapshot: %w", err)
	}
	return data, nil
}

func (s *DiskvStore) Save(namespace string, data []byte) error {
	s.open()
	if err := s.d.Write(namespace, data); err != nil {
		return fmt.Errorf("failed to save snapshot: %w", err)
	}
	return nil
}

func (s *DiskvStore) Close() error { return nil }

func (s *DiskvStore) Location() string { return diskvScheme + s.dir }
