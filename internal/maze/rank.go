package maze

import (
	"fmt"

	"github.com/zyedidia/generic/mapset"
)

// FarthestCell returns the passage cell with the greatest BFS distance from
// start. Only Passage cells are traversed, so it must run before the goal or
// any encounters are written. Ties go to the cell discovered first.
// If nothing else is reachable, start itself is returned.
func FarthestCell(g *Grid, start Coord) (Coord, error) {
	if !g.Open(start) {
		return Coord{}, fmt.Errorf("%w: %v", ErrUnreachableStart, start)
	}

	farthest := start
	maxDist := 0
	bfs(g, start, func(p Coord, dist int) {
		if dist > maxDist {
			maxDist = dist
			farthest = p
		}
	})
	return farthest, nil
}

// Distances returns the BFS hop count from start to every reachable passage.
func Distances(g *Grid, start Coord) (map[Coord]int, error) {
	if !g.Open(start) {
		return nil, fmt.Errorf("%w: %v", ErrUnreachableStart, start)
	}

	dist := make(map[Coord]int)
	bfs(g, start, func(p Coord, d int) {
		dist[p] = d
	})
	return dist, nil
}

// bfs walks passage cells outward from start, calling visit for every
// dequeued cell in FIFO order.
func bfs(g *Grid, start Coord, visit func(Coord, int)) {
	type queued struct {
		pos  Coord
		dist int
	}

	visited := mapset.New[Coord]()
	visited.Put(start)
	queue := []queued{{pos: start}}

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		visit(current.pos, current.dist)

		for _, dir := range AllDirections() {
			next := current.pos.Step(dir, 1)
			if g.At(next) != Passage || visited.Has(next) {
				continue
			}
			visited.Put(next)
			queue = append(queue, queued{pos: next, dist: current.dist + 1})
		}
	}
}
