package backup

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/julianstephens/daybook/internal/clock"
	"github.com/julianstephens/daybook/internal/constants"
	"github.com/julianstephens/daybook/internal/storage"
)

func setupTestDB(t *testing.T, payload string) string {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "daybook.db")
	store := storage.NewSQLiteStore(dbPath)
	if err := store.Init(); err != nil {
		t.Fatalf("failed to init database: %v", err)
	}
	if err := store.Save(constants.SnapshotNamespace, []byte(payload)); err != nil {
		t.Fatalf("failed to save snapshot: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("failed to close database: %v", err)
	}
	return dbPath
}

func loadSnapshot(t *testing.T, dbPath string) string {
	t.Helper()

	store := storage.NewSQLiteStore(dbPath)
	if err := store.Open(); err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	defer store.Close()
	data, err := store.Load(constants.SnapshotNamespace)
	if err != nil {
		t.Fatalf("failed to load snapshot: %v", err)
	}
	return string(data)
}

func TestCreate(t *testing.T) {
	dbPath := setupTestDB(t, `{"version":1}`)
	clk := clock.NewFixed(time.Date(2024, 3, 13, 9, 30, 0, 0, time.Local))
	mgr := NewManager(dbPath, clk)

	path, err := mgr.Create()
	if err != nil {
		t.Fatalf("Create() failed: %v", err)
	}
	if want := "daybook-20240313-0930.db"; filepath.Base(path) != want {
		t.Errorf("backup name = %s, want %s", filepath.Base(path), want)
	}
	if got := loadSnapshot(t, path); got != `{"version":1}` {
		t.Errorf("backup content = %s", got)
	}

	second, err := mgr.Create()
	if err != nil {
		t.Fatalf("second Create() failed: %v", err)
	}
	if want := "daybook-20240313-093000.db"; filepath.Base(second) != want {
		t.Errorf("collision name = %s, want %s", filepath.Base(second), want)
	}
	third, err := mgr.Create()
	if err != nil {
		t.Fatalf("third Create() failed: %v", err)
	}
	if want := "daybook-20240313-093000-1.db"; filepath.Base(third) != want {
		t.Errorf("counter name = %s, want %s", filepath.Base(third), want)
	}

	backups, err := mgr.List()
	if err != nil {
		t.Fatalf("List() failed: %v", err)
	}
	if len(backups) != 3 {
		t.Errorf("expected 3 backups, got %d", len(backups))
	}
}

func TestCreateMissingDatabase(t *testing.T) {
	mgr := NewManager(filepath.Join(t.TempDir(), "missing.db"), nil)
	if _, err := mgr.Create(); err == nil {
		t.Error("expected error for missing database")
	}
}

func TestRotation(t *testing.T) {
	dbPath := setupTestDB(t, `{}`)
	clk := clock.NewFixed(time.Date(2024, 1, 1, 8, 0, 0, 0, time.Local))
	mgr := NewManager(dbPath, clk)

	for i := 0; i < constants.MaxBackups+3; i++ {
		if _, err := mgr.Create(); err != nil {
			t.Fatalf("Create() #%d failed: %v", i, err)
		}
		clk.Advance(time.Hour)
	}

	backups, err := mgr.List()
	if err != nil {
		t.Fatalf("List() failed: %v", err)
	}
	if len(backups) != constants.MaxBackups {
		t.Fatalf("expected %d backups after rotation, got %d", constants.MaxBackups, len(backups))
	}
	newest := clk.Now().Add(-time.Hour)
	if !backups[0].Timestamp.Equal(newest.Truncate(time.Minute)) {
		t.Errorf("newest backup = %v, want %v", backups[0].Timestamp, newest)
	}
	for i := 1; i < len(backups); i++ {
		if backups[i].Timestamp.After(backups[i-1].Timestamp) {
			t.Errorf("backups not sorted newest first at %d", i)
		}
	}
}

func TestListIgnoresForeignFiles(t *testing.T) {
	dbPath := setupTestDB(t, `{}`)
	mgr := NewManager(dbPath, nil)
	if err := os.MkdirAll(mgr.Dir(), 0700); err != nil {
		t.Fatal(err)
	}
	for _, name := range []string{"notes.txt", "daybook-garbage.db", "other-20240101-1200.db"} {
		if err := os.WriteFile(filepath.Join(mgr.Dir(), name), []byte("x"), 0600); err != nil {
			t.Fatal(err)
		}
	}

	backups, err := mgr.List()
	if err != nil {
		t.Fatalf("List() failed: %v", err)
	}
	if len(backups) != 0 {
		t.Errorf("expected no backups, got %v", backups)
	}
}

func TestListWithoutDirectory(t *testing.T) {
	mgr := NewManager(filepath.Join(t.TempDir(), "daybook.db"), nil)
	backups, err := mgr.List()
	if err != nil || len(backups) != 0 {
		t.Errorf("List() = %v, %v; want empty", backups, err)
	}
}

func TestRestore(t *testing.T) {
	dbPath := setupTestDB(t, `{"version":1}`)
	clk := clock.NewFixed(time.Date(2024, 3, 13, 9, 30, 0, 0, time.Local))
	mgr := NewManager(dbPath, clk)

	backupPath, err := mgr.Create()
	if err != nil {
		t.Fatalf("Create() failed: %v", err)
	}

	store := storage.NewSQLiteStore(dbPath)
	if err := store.Open(); err != nil {
		t.Fatal(err)
	}
	if err := store.Save(constants.SnapshotNamespace, []byte(`{"version":2}`)); err != nil {
		t.Fatal(err)
	}
	store.Close()

	clk.Advance(time.Minute)
	safety, err := mgr.Restore(mgr.Resolve(filepath.Base(backupPath)))
	if err != nil {
		t.Fatalf("Restore() failed: %v", err)
	}
	if got := loadSnapshot(t, dbPath); got != `{"version":1}` {
		t.Errorf("restored content = %s, want version 1", got)
	}
	if safety == "" {
		t.Fatal("expected a safety backup of the replaced database")
	}
	if got := loadSnapshot(t, safety); got != `{"version":2}` {
		t.Errorf("safety backup content = %s, want version 2", got)
	}
}

func TestRestoreRejectsInvalidFile(t *testing.T) {
	dbPath := setupTestDB(t, `{}`)
	mgr := NewManager(dbPath, nil)

	bogus := filepath.Join(t.TempDir(), "bogus.db")
	if err := os.WriteFile(bogus, []byte("not a database at all, just text"), 0600); err != nil {
		t.Fatal(err)
	}
	if _, err := mgr.Restore(bogus); err == nil {
		t.Error("expected error restoring a non-sqlite file")
	}
	if _, err := mgr.Restore(filepath.Join(t.TempDir(), "missing.db")); err == nil {
		t.Error("expected error restoring a missing file")
	}
}
