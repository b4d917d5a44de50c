package database

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/lawnchairsociety/mazequest/internal/maze"
	"github.com/lawnchairsociety/mazequest/internal/persistence"
)

func openTestDB(t *testing.T) *Database {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "saves.db"))
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func testSnapshot(slot string, mapIndex int) *persistence.Snapshot {
	g, err := maze.NewSeededGenerator(int64(mapIndex) + 1).Generate(7, 7, 3)
	if err != nil {
		panic(err)
	}
	goal, _ := g.Find(maze.Goal)
	visited := make([][]bool, g.Rows)
	for r := range visited {
		visited[r] = make([]bool, g.Cols)
	}
	visited[0][0] = true

	s := &persistence.Snapshot{
		MapIndex:   mapIndex,
		Grid:       g.Codes(),
		Player:     maze.Origin,
		Goal:       goal,
		Visited:    visited,
		Procedural: true,
	}
	s.Stamp(slot, time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC))
	return s
}

func TestOpen(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.db")

	db, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file was not created")
	}

	var count int
	if err := db.db.QueryRow("SELECT COUNT(*) FROM saves").Scan(&count); err != nil {
		t.Errorf("Failed to query saves table: %v", err)
	}
}

func TestOpenCreatesDirectory(t *testing.T) {
	nestedPath := filepath.Join(t.TempDir(), "nested", "dir", "test.db")

	db, err := Open(nestedPath)
	if err != nil {
		t.Fatalf("Failed to open database with nested path: %v", err)
	}
	defer db.Close()

	if _, err := os.Stat(nestedPath); os.IsNotExist(err) {
		t.Error("Database file was not created in nested directory")
	}
}

func TestOpenWithConfig_UnknownDriver(t *testing.T) {
	_, err := OpenWithConfig(Config{Driver: "oracle"})
	if err == nil {
		t.Error("expected error for unknown driver")
	}
}

func TestMigration_WALModeEnabled(t *testing.T) {
	db := openTestDB(t)

	var mode string
	if err := db.db.QueryRow("PRAGMA journal_mode").Scan(&mode); err != nil {
		t.Fatalf("Failed to query journal mode: %v", err)
	}
	if mode != "wal" {
		t.Errorf("journal_mode = %q, want %q", mode, "wal")
	}
}

func TestMigration_Idempotent(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.db")

	db, err := Open(dbPath)
	if err != nil {
		t.Fatalf("First open failed: %v", err)
	}
	if err := db.Save(testSnapshot("keep", 0)); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	db.Close()

	db, err = Open(dbPath)
	if err != nil {
		t.Fatalf("Second open failed: %v", err)
	}
	defer db.Close()

	if _, err := db.Load("keep"); err != nil {
		t.Errorf("Save did not survive reopening: %v", err)
	}
}

func TestSaveAndLoad(t *testing.T) {
	db := openTestDB(t)
	s := testSnapshot("alpha", 2)

	if err := db.Save(s); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	got, err := db.Load("alpha")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if got.ID != s.ID || got.MapIndex != 2 || !got.Procedural {
		t.Errorf("Load returned %+v, want id %s map 2 procedural", got, s.ID)
	}
	if got.Goal != s.Goal || got.Player != s.Player {
		t.Errorf("positions differ: got goal %v player %v", got.Goal, got.Player)
	}
	if !got.SavedAt.Equal(s.SavedAt) {
		t.Errorf("SavedAt = %v, want %v", got.SavedAt, s.SavedAt)
	}
}

func TestSaveOverwritesSlot(t *testing.T) {
	db := openTestDB(t)

	if err := db.Save(testSnapshot("alpha", 0)); err != nil {
		t.Fatal(err)
	}
	second := testSnapshot("alpha", 3)
	if err := db.Save(second); err != nil {
		t.Fatalf("Overwrite failed: %v", err)
	}

	got, err := db.Load("alpha")
	if err != nil {
		t.Fatal(err)
	}
	if got.MapIndex != 3 || got.ID != second.ID {
		t.Errorf("Load after overwrite = map %d id %s, want map 3 id %s", got.MapIndex, got.ID, second.ID)
	}

	infos, err := db.List()
	if err != nil {
		t.Fatal(err)
	}
	if len(infos) != 1 {
		t.Errorf("List() returned %d saves, want 1", len(infos))
	}
}

func TestLoadMissing(t *testing.T) {
	db := openTestDB(t)

	_, err := db.Load("nothing")
	if !errors.Is(err, persistence.ErrSaveNotFound) {
		t.Errorf("Load(missing) error = %v, want ErrSaveNotFound", err)
	}
}

func TestSaveRejectsInvalid(t *testing.T) {
	db := openTestDB(t)

	bad := testSnapshot("bad", 0)
	bad.Visited = bad.Visited[:1]
	if err := db.Save(bad); !errors.Is(err, persistence.ErrInvalidSnapshot) {
		t.Errorf("Save(invalid) error = %v, want ErrInvalidSnapshot", err)
	}

	if err := db.Save(testSnapshot("Bad Slot", 0)); !errors.Is(err, persistence.ErrInvalidSlot) {
		t.Errorf("Save(bad slot) error = %v, want ErrInvalidSlot", err)
	}
}

func TestLoadCorruptRow(t *testing.T) {
	db := openTestDB(t)

	_, err := db.db.Exec(`INSERT INTO saves (slot, id, map_index, saved_at, snapshot) VALUES ('junk', 'x', 0, '', '{"grid": []}')`)
	if err != nil {
		t.Fatal(err)
	}

	if _, err := db.Load("junk"); !errors.Is(err, persistence.ErrInvalidSnapshot) {
		t.Errorf("Load(corrupt) error = %v, want ErrInvalidSnapshot", err)
	}
}

func TestListAndDelete(t *testing.T) {
	db := openTestDB(t)

	for i, slot := range []string{"charlie", "alpha", "bravo"} {
		if err := db.Save(testSnapshot(slot, i)); err != nil {
			t.Fatalf("Save(%s) failed: %v", slot, err)
		}
	}

	infos, err := db.List()
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	var order []string
	for _, info := range infos {
		order = append(order, info.Slot)
	}
	if fmt.Sprint(order) != "[alpha bravo charlie]" {
		t.Errorf("List order = %v, want [alpha bravo charlie]", order)
	}
	if infos[0].MapIndex != 1 {
		t.Errorf("alpha MapIndex = %d, want 1", infos[0].MapIndex)
	}

	if err := db.Delete("bravo"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if err := db.Delete("bravo"); !errors.Is(err, persistence.ErrSaveNotFound) {
		t.Errorf("second Delete error = %v, want ErrSaveNotFound", err)
	}

	infos, _ = db.List()
	if len(infos) != 2 {
		t.Errorf("List after delete returned %d saves, want 2", len(infos))
	}
}

func TestClose(t *testing.T) {
	db, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}

	if err := db.Close(); err != nil {
		t.Errorf("Failed to close database: %v", err)
	}

	var count int
	if err := db.db.QueryRow("SELECT COUNT(*) FROM saves").Scan(&count); err == nil {
		t.Error("Expected error when querying closed database")
	}
}
