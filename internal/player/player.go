// Package player tracks where the explorer stands and what they have seen.
package player

import (
	"fmt"

	"github.com/lawnchairsociety/mazequest/internal/maze"
)

// Player is the explorer's position and per-map memory. It never touches the
// grid; walls and goals belong to the map.
type Player struct {
	Position maze.Coord
	Previous maze.Coord
	visited  [][]bool
	Stats    *Statistics
}

// New places a player at the start of a rows x cols map.
func New(rows, cols int) *Player {
	p := &Player{Stats: NewStatistics()}
	p.Reset(rows, cols)
	return p
}

// Reset moves the player back to the start and forgets every visited cell.
// Called whenever a new map is entered.
func (p *Player) Reset(rows, cols int) {
	p.Position = maze.Origin
	p.Previous = maze.Origin
	p.visited = make([][]bool, rows)
	for r := range p.visited {
		p.visited[r] = make([]bool, cols)
	}
	p.MarkVisited(maze.Origin)
}

// MoveTo steps onto c, remembering where the player came from.
func (p *Player) MoveTo(c maze.Coord) {
	p.Previous = p.Position
	p.Position = c
	p.Stats.RecordMove()
}

// Retreat sends the player back to the cell they came from.
func (p *Player) Retreat() {
	p.Position = p.Previous
}

// MarkVisited flags c as seen. Out-of-range cells are ignored.
func (p *Player) MarkVisited(c maze.Coord) {
	if p.inRange(c) {
		p.visited[c.Row][c.Col] = true
	}
}

// Visited reports whether c has been seen on the current map.
func (p *Player) Visited(c maze.Coord) bool {
	return p.inRange(c) && p.visited[c.Row][c.Col]
}

// VisitedCount returns how many cells have been seen.
func (p *Player) VisitedCount() int {
	n := 0
	for _, row := range p.visited {
		for _, v := range row {
			if v {
				n++
			}
		}
	}
	return n
}

// VisitedGrid returns a copy of the visited flags.
func (p *Player) VisitedGrid() [][]bool {
	out := make([][]bool, len(p.visited))
	for r := range p.visited {
		out[r] = append([]bool(nil), p.visited[r]...)
	}
	return out
}

// Restore replaces position and visited flags, e.g. after loading a save.
// The previous cell is set to the restored position.
func (p *Player) Restore(pos maze.Coord, visited [][]bool) error {
	if pos.Row < 0 || pos.Row >= len(visited) || pos.Col < 0 || pos.Col >= len(visited[pos.Row]) {
		return fmt.Errorf("position %v outside visited grid", pos)
	}
	p.visited = make([][]bool, len(visited))
	for r := range visited {
		p.visited[r] = append([]bool(nil), visited[r]...)
	}
	p.Position = pos
	p.Previous = pos
	return nil
}

func (p *Player) inRange(c maze.Coord) bool {
	return c.Row >= 0 && c.Row < len(p.visited) && c.Col >= 0 && c.Col < len(p.visited[c.Row])
}
