package labyrinth

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/lawnchairsociety/mazequest/internal/maze"
)

// ErrMalformedMapFile is returned for map files that do not follow the
// "<rows> <cols>" header plus digit-row layout.
var ErrMalformedMapFile = errors.New("malformed map file")

// LoadMapFile reads a static map from disk
func LoadMapFile(filename string) (*maze.Grid, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open map file: %w", err)
	}
	defer f.Close()

	g, err := ParseMap(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	return g, nil
}

// ParseMap parses the static map format. The first line holds the
// dimensions, every following line one row of single-digit cell codes.
func ParseMap(r io.Reader) (*maze.Grid, error) {
	scanner := bufio.NewScanner(r)

	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			return nil, fmt.Errorf("failed to read map: %w", err)
		}
		return nil, fmt.Errorf("%w: missing dimension line", ErrMalformedMapFile)
	}
	rows, cols, err := parseHeader(scanner.Text())
	if err != nil {
		return nil, err
	}

	var lines []string
	for scanner.Scan() {
		lines = append(lines, strings.TrimSpace(scanner.Text()))
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read map: %w", err)
	}
	// Trailing blank lines are tolerated
	for len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}

	if len(lines) != rows {
		return nil, fmt.Errorf("%w: header declares %d rows, found %d", ErrMalformedMapFile, rows, len(lines))
	}

	g, err := maze.NewGrid(rows, cols)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedMapFile, err)
	}

	for r, line := range lines {
		if len(line) != cols {
			return nil, fmt.Errorf("%w: row %d has %d cells, want %d", ErrMalformedMapFile, r+1, len(line), cols)
		}
		for c, ch := range line {
			if ch < '0' || ch > '9' {
				return nil, fmt.Errorf("%w: row %d col %d: non-digit %q", ErrMalformedMapFile, r+1, c+1, ch)
			}
			code := maze.CellCode(ch - '0')
			if !code.Valid() {
				return nil, fmt.Errorf("%w: row %d col %d: unknown cell code %d", ErrMalformedMapFile, r+1, c+1, code)
			}
			g.Cells[r][c] = code
		}
	}

	if err := validate(g); err != nil {
		return nil, err
	}
	return g, nil
}

// parseHeader parses the "<rows> <cols>" line
func parseHeader(line string) (int, int, error) {
	fields := strings.Fields(line)
	if len(fields) != 2 {
		return 0, 0, fmt.Errorf("%w: dimension line %q", ErrMalformedMapFile, line)
	}

	rows, err := strconv.Atoi(fields[0])
	if err != nil {
		return 0, 0, fmt.Errorf("%w: rows %q", ErrMalformedMapFile, fields[0])
	}
	cols, err := strconv.Atoi(fields[1])
	if err != nil {
		return 0, 0, fmt.Errorf("%w: cols %q", ErrMalformedMapFile, fields[1])
	}
	if rows <= 0 || cols <= 0 {
		return 0, 0, fmt.Errorf("%w: dimensions %dx%d", ErrMalformedMapFile, rows, cols)
	}
	return rows, cols, nil
}

// validate enforces the playable-map invariants: one goal and an open start
func validate(g *maze.Grid) error {
	goals := g.Count(func(c maze.CellCode) bool { return c == maze.Goal })
	if goals != 1 {
		return fmt.Errorf("%w: found %d goal cells, want 1", ErrMalformedMapFile, goals)
	}
	if !g.Open(maze.Origin) {
		return fmt.Errorf("%w: start cell is a wall", ErrMalformedMapFile)
	}
	return nil
}

// WriteMap writes g in the static map format
func WriteMap(w io.Writer, g *maze.Grid) error {
	bw := bufio.NewWriter(w)
	if _, err := fmt.Fprintf(bw, "%d %d\n", g.Rows, g.Cols); err != nil {
		return err
	}
	if _, err := bw.WriteString(g.String()); err != nil {
		return err
	}
	return bw.Flush()
}

// SaveMapFile writes g to filename in the static map format
func SaveMapFile(filename string, g *maze.Grid) error {
	f, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("failed to create map file: %w", err)
	}

	if err := WriteMap(f, g); err != nil {
		f.Close()
		return fmt.Errorf("failed to write map file: %w", err)
	}
	return f.Close()
}
