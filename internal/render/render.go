// Package render draws maps as text, plain or coloured with lipgloss.
package render

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/lawnchairsociety/mazequest/internal/maze"
)

// Map glyphs.
const (
	GlyphPlayer  = 'P'
	GlyphWall    = '#'
	GlyphGoal    = 'G'
	GlyphFloor   = '.'
	GlyphMonster = 'M'
	GlyphWitches = 'W'
	GlyphPirates = 'X'
	GlyphTribe   = 'T'
)

var (
	playerStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("11"))
	wallStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	goalStyle      = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("10"))
	floorStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("7"))
	encounterStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	frameStyle     = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("2")).
			Padding(0, 1)
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FAFAFA"))
)

// VisitedFunc reports whether the player has seen a cell.
type VisitedFunc func(maze.Coord) bool

// Renderer turns a grid into text.
type Renderer struct {
	color bool
}

// New creates a renderer. With color off the output is bare ASCII, which is
// what network clients receive.
func New(color bool) *Renderer {
	return &Renderer{color: color}
}

// Color reports whether the renderer emits ANSI styling.
func (r *Renderer) Color() bool {
	return r.color
}

// Glyph returns the character drawn for a cell. Encounters stay hidden as
// floor until the player has visited them.
func Glyph(code maze.CellCode, seen bool) rune {
	switch code {
	case maze.Wall:
		return GlyphWall
	case maze.Goal:
		return GlyphGoal
	case maze.Monster, maze.Witches, maze.Pirates, maze.Tribe:
		if !seen {
			return GlyphFloor
		}
		return encounterGlyphs[code]
	}
	return GlyphFloor
}

var encounterGlyphs = map[maze.CellCode]rune{
	maze.Monster: GlyphMonster,
	maze.Witches: GlyphWitches,
	maze.Pirates: GlyphPirates,
	maze.Tribe:   GlyphTribe,
}

// Map draws the grid one line per row with the player marked.
// visited may be nil.
func (r *Renderer) Map(g *maze.Grid, player maze.Coord, visited VisitedFunc) string {
	var b strings.Builder
	for row := 0; row < g.Rows; row++ {
		for col := 0; col < g.Cols; col++ {
			p := maze.Coord{Row: row, Col: col}
			if p == player {
				b.WriteString(r.paint(GlyphPlayer))
				continue
			}
			seen := visited != nil && visited(p)
			b.WriteString(r.paint(Glyph(g.At(p), seen)))
		}
		if row < g.Rows-1 {
			b.WriteByte('\n')
		}
	}

	if !r.color {
		return b.String()
	}
	return frameStyle.Render(b.String())
}

// Title formats a heading line.
func (r *Renderer) Title(s string) string {
	if !r.color {
		return s
	}
	return titleStyle.Render(s)
}

// Legend explains the glyphs.
func (r *Renderer) Legend() string {
	entries := []struct {
		glyph rune
		label string
	}{
		{GlyphPlayer, "you"},
		{GlyphWall, "wall"},
		{GlyphFloor, "floor"},
		{GlyphGoal, "goal"},
		{GlyphMonster, "monster"},
		{GlyphWitches, "witches"},
		{GlyphPirates, "pirates"},
		{GlyphTribe, "tribe"},
	}

	parts := make([]string, len(entries))
	for i, e := range entries {
		parts[i] = r.paint(e.glyph) + " " + e.label
	}
	return strings.Join(parts, "  ")
}

func (r *Renderer) paint(glyph rune) string {
	s := string(glyph)
	if !r.color {
		return s
	}
	switch glyph {
	case GlyphPlayer:
		return playerStyle.Render(s)
	case GlyphWall:
		return wallStyle.Render(s)
	case GlyphGoal:
		return goalStyle.Render(s)
	case GlyphFloor:
		return floorStyle.Render(s)
	}
	return encounterStyle.Render(s)
}
