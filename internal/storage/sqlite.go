package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/julianstephens/daybook/internal/logger"
	"github.com/julianstephens/daybook/internal/migration"
	"github.com/julianstephens/daybook/migrations"
)

type SQLiteStore struct {
	path string
	db   *sql.DB
}

func NewSQLiteStore(path string) *SQLiteStore {
	return &SQLiteStore{path: path}
}

func (s *SQLiteStore) Init() error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := s.open(); err != nil {
		return err
	}
	if err := s.runner().Migrate(); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Open() error {
	if s.db != nil {
		return nil
	}
	if _, err := os.Stat(s.path); os.IsNotExist(err) {
		return fmt.Errorf("storage not initialized at %s, run 'daybook init' first", s.path)
	}
	if err := s.open(); err != nil {
		return err
	}
	return s.runner().ValidateVersion()
}

func (s *SQLiteStore) open() error {
	if s.db != nil {
		return nil
	}
	db, err := sql.Open("sqlite", s.path)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	// One writer; avoids SQLITE_BUSY between the TUI and a notify daemon.
	db.SetMaxOpenConns(1)
	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		db.Close()
		return fmt.Errorf("failed to configure database: %w", err)
	}
	s.db = db
	return nil
}

func (s *SQLiteStore) runner() *sqlRunner {
	return &sqlRunner{db: s.db, dir: "sqlite", driver: migration.DriverSQLite}
}

func (s *SQLiteStore) Load(namespace string) ([]byte, error) {
	if s.db == nil {
		return nil, errors.New("storage not opened")
	}
	var data []byte
	err := s.db.QueryRow("SELECT data FROM snapshots WHERE namespace = ?", namespace).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load snapshot: %w", err)
	}
	return data, nil
}

func (s *SQLiteStore) Save(namespace string, data []byte) error {
	if s.db == nil {
		return errors.New("storage not opened")
	}
	_, err := s.db.Exec(`
		INSERT INTO snapshots (namespace, data, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(namespace) DO UPDATE SET
			previous = snapshots.data,
			data = excluded.data,
			updated_at = excluded.updated_at`,
		namespace, data, time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("failed to save snapshot: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Close() error {
	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

func (s *SQLiteStore) Location() string { return s.path }

// Path is the database file, used by the backup manager.
func (s *SQLiteStore) Path() string { return s.path }

// sqlRunner binds the embedded migrations of one backend to a connection.
type sqlRunner struct {
	db     *sql.DB
	dir    string
	driver migration.Driver
}

func (r *sqlRunner) build() (*migration.Runner, error) {
	sub, err := fs.Sub(migrations.FS, r.dir)
	if err != nil {
		return nil, fmt.Errorf("failed to access %s migrations: %w", r.dir, err)
	}
	return migration.NewRunner(r.db, sub, r.driver), nil
}

func (r *sqlRunner) Migrate() error {
	runner, err := r.build()
	if err != nil {
		return err
	}
	_, err = runner.ApplyMigrations(func(msg string) {
		logger.Info(msg, "backend", r.dir)
	})
	return err
}

func (r *sqlRunner) ValidateVersion() error {
	runner, err := r.build()
	if err != nil {
		return err
	}
	return runner.ValidateVersion()
}

// Versions reports the applied and the newest embedded schema version.
func (r *sqlRunner) Versions() (current, latest int, err error) {
	if r.db == nil {
		return 0, 0, errors.New("storage not opened")
	}
	runner, err := r.build()
	if err != nil {
		return 0, 0, err
	}
	if current, err = runner.GetCurrentVersion(); err != nil {
		return 0, 0, err
	}
	if latest, err = runner.GetLatestVersion(); err != nil {
		return 0, 0, err
	}
	return current, latest, nil
}

func (s *SQLiteStore) SchemaVersion() (current, latest int, err error) {
	return s.runner().Versions()
}
