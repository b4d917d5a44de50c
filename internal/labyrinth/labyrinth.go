// Package labyrinth serves the sequence of maps a player walks through:
// the hand-made map files first, then endless generated territory.
package labyrinth

import (
	"errors"
	"fmt"

	"github.com/lawnchairsociety/mazequest/internal/logger"
	"github.com/lawnchairsociety/mazequest/internal/maze"
)

// MinDimension is the smallest procedural map side. Below it the farthest
// cell can be the start itself, leaving a goal the player can never enter.
const MinDimension = 3

// ErrMapTooSmall is returned for procedural dimensions below MinDimension.
var ErrMapTooSmall = errors.New("procedural map too small")

// Config describes the procedural maps served after the static files run out
type Config struct {
	Rows       int
	Cols       int
	Encounters int
}

// Validate rejects dimensions that cannot yield a reachable goal.
func (c Config) Validate() error {
	if c.Rows < MinDimension || c.Cols < MinDimension {
		return fmt.Errorf("%w: %dx%d, need at least %dx%d", ErrMapTooSmall, c.Rows, c.Cols, MinDimension, MinDimension)
	}
	return nil
}

// Labyrinth hands out maps by index
type Labyrinth struct {
	files     []string
	generator *maze.Generator
	config    Config
}

// New creates a labyrinth over the given map files
func New(files []string, gen *maze.Generator, cfg Config) *Labyrinth {
	return &Labyrinth{
		files:     append([]string(nil), files...),
		generator: gen,
		config:    cfg,
	}
}

// StaticCount returns the number of file-based maps
func (l *Labyrinth) StaticCount() int {
	return len(l.files)
}

// IsProcedural returns true if the map at index is generated rather than loaded
func (l *Labyrinth) IsProcedural(index int) bool {
	return index >= len(l.files)
}

// Map returns a fresh grid for the map at index.
func (l *Labyrinth) Map(index int) (*maze.Grid, error) {
	if index < 0 {
		return nil, fmt.Errorf("invalid map index %d", index)
	}

	if !l.IsProcedural(index) {
		g, err := LoadMapFile(l.files[index])
		if err != nil {
			return nil, err
		}
		logger.Info("Static map loaded", "index", index, "file", l.files[index], "rows", g.Rows, "cols", g.Cols)
		return g, nil
	}

	if l.generator == nil {
		return nil, fmt.Errorf("no generator configured for procedural map %d", index)
	}
	if err := l.config.Validate(); err != nil {
		return nil, err
	}

	g, err := l.generator.Generate(l.config.Rows, l.config.Cols, l.config.Encounters)
	if err != nil {
		return nil, fmt.Errorf("failed to generate map %d: %w", index, err)
	}
	logger.Info("Procedural map generated",
		"index", index,
		"rows", g.Rows,
		"cols", g.Cols,
		"encounters", g.Count(maze.CellCode.IsEncounter))
	return g, nil
}
