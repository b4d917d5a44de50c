package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/lawnchairsociety/mazequest/internal/labyrinth"
	"github.com/lawnchairsociety/mazequest/internal/maze"
	"github.com/lawnchairsociety/mazequest/internal/render"
)

func main() {
	rows := flag.Int("rows", 21, "Number of rows")
	cols := flag.Int("cols", 21, "Number of columns")
	encounters := flag.Int("encounters", maze.DefaultEncounterCount, "Number of encounter cells")
	seed := flag.Int64("seed", 0, "Generation seed (default: random based on current time)")
	outputFile := flag.String("out", "", "Write the map file here (empty for stdout)")
	preview := flag.Bool("render", false, "Print a rendered preview with every encounter revealed")
	color := flag.Bool("color", true, "Use color in the preview")
	flag.Parse()

	if *seed == 0 {
		*seed = time.Now().UnixNano()
	}

	g, err := maze.NewSeededGenerator(*seed).Generate(*rows, *cols, *encounters)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error generating maze: %v\n", err)
		os.Exit(1)
	}

	if *outputFile == "" {
		if err := labyrinth.WriteMap(os.Stdout, g); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing map: %v\n", err)
			os.Exit(1)
		}
	} else {
		if err := labyrinth.SaveMapFile(*outputFile, g); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing map: %v\n", err)
			os.Exit(1)
		}
		fmt.Fprintf(os.Stderr, "Map written to %s (seed %d)\n", *outputFile, *seed)
	}

	if *preview {
		r := render.New(*color)
		revealed := func(maze.Coord) bool { return true }
		fmt.Fprintln(os.Stderr, r.Title(fmt.Sprintf("%dx%d, seed %d", g.Rows, g.Cols, *seed)))
		fmt.Fprintln(os.Stderr, r.Map(g, maze.Origin, revealed))
		fmt.Fprintln(os.Stderr, r.Legend())
	}
}
