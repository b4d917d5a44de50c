package persistence

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/lawnchairsociety/mazequest/internal/logger"
)

const saveExt = ".json"

// JSONStore keeps one JSON file per slot inside a directory.
type JSONStore struct {
	dir   string
	mutex sync.RWMutex
}

// NewJSONStore creates the save directory if needed.
func NewJSONStore(dir string) (*JSONStore, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create save directory: %w", err)
	}
	return &JSONStore{dir: dir}, nil
}

func (js *JSONStore) path(slot string) string {
	return filepath.Join(js.dir, slot+saveExt)
}

// Save writes the snapshot to its slot file. The write goes through a
// temporary file so a crash never leaves a half-written save.
func (js *JSONStore) Save(s *Snapshot) error {
	if err := ValidateSlot(s.Slot); err != nil {
		return err
	}
	if err := s.Validate(); err != nil {
		return err
	}

	data, err := Encode(s)
	if err != nil {
		return err
	}

	js.mutex.Lock()
	defer js.mutex.Unlock()

	tmp := js.path(s.Slot) + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("failed to write save %q: %w", s.Slot, err)
	}
	if err := os.Rename(tmp, js.path(s.Slot)); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("failed to write save %q: %w", s.Slot, err)
	}

	logger.Debug("Snapshot written", "slot", s.Slot, "id", s.ID, "dir", js.dir)
	return nil
}

// Load reads the snapshot stored in slot.
func (js *JSONStore) Load(slot string) (*Snapshot, error) {
	if err := ValidateSlot(slot); err != nil {
		return nil, err
	}

	js.mutex.RLock()
	data, err := os.ReadFile(js.path(slot))
	js.mutex.RUnlock()
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrSaveNotFound, slot)
		}
		return nil, fmt.Errorf("failed to read save %q: %w", slot, err)
	}

	return Decode(data)
}

// List returns every readable save, sorted by slot name. Files that fail to
// decode are skipped and logged.
func (js *JSONStore) List() ([]SaveInfo, error) {
	js.mutex.RLock()
	defer js.mutex.RUnlock()

	entries, err := os.ReadDir(js.dir)
	if err != nil {
		return nil, fmt.Errorf("failed to list saves: %w", err)
	}

	var infos []SaveInfo
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, saveExt) {
			continue
		}
		data, err := os.ReadFile(filepath.Join(js.dir, name))
		if err != nil {
			logger.Warning("Failed to read save file", "file", name, "error", err)
			continue
		}
		s, err := Decode(data)
		if err != nil {
			logger.Warning("Skipping invalid save file", "file", name, "error", err)
			continue
		}
		infos = append(infos, s.Info())
	}

	sort.Slice(infos, func(i, j int) bool { return infos[i].Slot < infos[j].Slot })
	return infos, nil
}

// Delete removes a slot.
func (js *JSONStore) Delete(slot string) error {
	if err := ValidateSlot(slot); err != nil {
		return err
	}

	js.mutex.Lock()
	defer js.mutex.Unlock()

	if err := os.Remove(js.path(slot)); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("%w: %s", ErrSaveNotFound, slot)
		}
		return fmt.Errorf("failed to delete save %q: %w", slot, err)
	}
	return nil
}

// Close is a no-op; files are closed after every operation.
func (js *JSONStore) Close() error {
	return nil
}
