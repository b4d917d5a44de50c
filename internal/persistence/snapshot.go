// Package persistence defines the saved-game snapshot and the stores that
// keep snapshots in named slots.
package persistence

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/google/uuid"

	"github.com/lawnchairsociety/mazequest/internal/maze"
)

// DefaultSlot is used when the player saves or loads without naming a slot.
const DefaultSlot = "default"

var (
	ErrSaveNotFound    = errors.New("save not found")
	ErrInvalidSnapshot = errors.New("invalid snapshot")
	ErrInvalidSlot     = errors.New("invalid save slot name")
)

var slotPattern = regexp.MustCompile(`^[a-z0-9_-]{1,32}$`)

// Snapshot is the flat record of one game session.
type Snapshot struct {
	ID             string     `json:"id"`
	Slot           string     `json:"slot"`
	SavedAt        time.Time  `json:"saved_at"`
	MapIndex       int        `json:"map_index"`
	Grid           [][]int    `json:"grid"`
	Player         maze.Coord `json:"player"`
	Goal           maze.Coord `json:"goal"`
	Visited        [][]bool   `json:"visited"`
	RiddleAnswered bool       `json:"riddle_answered"`
	Procedural     bool       `json:"procedural"`
}

// SaveInfo summarizes a stored snapshot for listings.
type SaveInfo struct {
	Slot     string
	ID       string
	SavedAt  time.Time
	MapIndex int
}

// Info returns the listing summary of the snapshot.
func (s *Snapshot) Info() SaveInfo {
	return SaveInfo{Slot: s.Slot, ID: s.ID, SavedAt: s.SavedAt, MapIndex: s.MapIndex}
}

// Stamp assigns a fresh ID, the slot name and the save time.
func (s *Snapshot) Stamp(slot string, now time.Time) {
	s.ID = uuid.NewString()
	s.Slot = slot
	s.SavedAt = now.UTC()
}

// ValidateSlot checks that a slot name is safe to use as a file name or key.
func ValidateSlot(slot string) error {
	if !slotPattern.MatchString(slot) {
		return fmt.Errorf("%w: %q", ErrInvalidSlot, slot)
	}
	return nil
}

// Validate checks the snapshot's shape: a rectangular grid of known codes,
// a visited matrix of the same size, a player standing on an open cell and
// exactly one goal.
func (s *Snapshot) Validate() error {
	if s.MapIndex < 0 {
		return fmt.Errorf("%w: negative map index %d", ErrInvalidSnapshot, s.MapIndex)
	}

	g, err := maze.FromCodes(s.Grid)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidSnapshot, err)
	}
	for r, row := range g.Cells {
		for c, v := range row {
			if !v.Valid() {
				return fmt.Errorf("%w: unknown cell code %d at (%d,%d)", ErrInvalidSnapshot, int(v), r, c)
			}
		}
	}

	if len(s.Visited) != g.Rows {
		return fmt.Errorf("%w: visited has %d rows, grid has %d", ErrInvalidSnapshot, len(s.Visited), g.Rows)
	}
	for r, row := range s.Visited {
		if len(row) != g.Cols {
			return fmt.Errorf("%w: visited row %d has %d columns, grid has %d", ErrInvalidSnapshot, r, len(row), g.Cols)
		}
	}

	if !g.Open(s.Player) {
		return fmt.Errorf("%w: player at %v is not on an open cell", ErrInvalidSnapshot, s.Player)
	}
	if g.At(s.Goal) != maze.Goal {
		return fmt.Errorf("%w: no goal at %v", ErrInvalidSnapshot, s.Goal)
	}
	if goals := g.Count(func(c maze.CellCode) bool { return c == maze.Goal }); goals != 1 {
		return fmt.Errorf("%w: found %d goal cells, want 1", ErrInvalidSnapshot, goals)
	}
	return nil
}

// Encode serializes a snapshot to indented JSON.
func Encode(s *Snapshot) ([]byte, error) {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode snapshot: %w", err)
	}
	return data, nil
}

// Decode parses and validates a JSON snapshot.
func Decode(data []byte) (*Snapshot, error) {
	var s Snapshot
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSnapshot, err)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}
