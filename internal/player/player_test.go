package player

import (
	"strings"
	"testing"

	"github.com/lawnchairsociety/mazequest/internal/maze"
)

func TestNew_StartsAtOrigin(t *testing.T) {
	p := New(3, 4)

	if p.Position != maze.Origin {
		t.Errorf("Position = %v, want origin", p.Position)
	}
	if !p.Visited(maze.Origin) {
		t.Error("start cell should be visited")
	}
	if p.VisitedCount() != 1 {
		t.Errorf("VisitedCount() = %d, want 1", p.VisitedCount())
	}
}

func TestMoveToAndRetreat(t *testing.T) {
	p := New(3, 3)
	a := maze.Coord{Row: 0, Col: 1}
	b := maze.Coord{Row: 0, Col: 2}

	p.MoveTo(a)
	p.MoveTo(b)
	if p.Previous != a || p.Position != b {
		t.Fatalf("after two moves: prev %v pos %v", p.Previous, p.Position)
	}

	p.Retreat()
	if p.Position != a {
		t.Errorf("Retreat() put player at %v, want %v", p.Position, a)
	}
	if p.Stats.Moves != 2 {
		t.Errorf("Moves = %d, want 2", p.Stats.Moves)
	}
}

func TestReset_ClearsVisited(t *testing.T) {
	p := New(3, 3)
	p.MoveTo(maze.Coord{Row: 1, Col: 0})
	p.MarkVisited(maze.Coord{Row: 1, Col: 0})

	p.Reset(5, 5)

	if p.Position != maze.Origin {
		t.Errorf("Position = %v after reset", p.Position)
	}
	if p.Visited(maze.Coord{Row: 1, Col: 0}) {
		t.Error("visited flag survived reset")
	}
	if len(p.VisitedGrid()) != 5 {
		t.Errorf("visited grid rows = %d, want 5", len(p.VisitedGrid()))
	}
}

func TestVisited_OutOfRange(t *testing.T) {
	p := New(2, 2)
	p.MarkVisited(maze.Coord{Row: 9, Col: 9}) // ignored

	if p.Visited(maze.Coord{Row: -1, Col: 0}) || p.Visited(maze.Coord{Row: 9, Col: 9}) {
		t.Error("out-of-range cells should never be visited")
	}
}

func TestVisitedGrid_IsCopy(t *testing.T) {
	p := New(2, 2)
	grid := p.VisitedGrid()
	grid[1][1] = true

	if p.Visited(maze.Coord{Row: 1, Col: 1}) {
		t.Error("mutating the copy changed the player")
	}
}

func TestRestore(t *testing.T) {
	p := New(2, 2)
	visited := [][]bool{{true, true}, {false, true}}

	if err := p.Restore(maze.Coord{Row: 1, Col: 1}, visited); err != nil {
		t.Fatalf("Restore failed: %v", err)
	}
	if p.Position != (maze.Coord{Row: 1, Col: 1}) || p.Previous != p.Position {
		t.Errorf("Restore position: pos %v prev %v", p.Position, p.Previous)
	}
	if p.VisitedCount() != 3 {
		t.Errorf("VisitedCount() = %d, want 3", p.VisitedCount())
	}

	if err := p.Restore(maze.Coord{Row: 4, Col: 0}, visited); err == nil {
		t.Error("expected error for position outside grid")
	}
}

func TestStatisticsSummary(t *testing.T) {
	s := NewStatistics()
	s.RecordMove()
	s.RecordMapCompleted()
	s.RecordRiddle(true)
	s.RecordRiddle(false)
	s.RecordEncounter("pirates", true)
	s.RecordEncounter("pirates", false)

	if s.EncountersByKind["pirates"] != 2 {
		t.Errorf("EncountersByKind[pirates] = %d, want 2", s.EncountersByKind["pirates"])
	}

	summary := s.Summary()
	for _, want := range []string{"Steps taken:       1", "Maps completed:    1", "wrong guesses: 1", "1 won, 1 lost"} {
		if !strings.Contains(summary, want) {
			t.Errorf("Summary missing %q:\n%s", want, summary)
		}
	}
}
