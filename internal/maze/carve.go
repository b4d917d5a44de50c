package maze

import "math/rand"

// move is a carve step from an intersection to a neighbor two cells away.
type move struct {
	wall   Coord
	target Coord
}

// Carve builds a perfect maze on a rows x cols grid using an iterative DFS
// backtracker. Intersections sit on even coordinates; the odd cells between
// them are walls that get knocked down as the walk advances.
//
// When rows or cols is even, the last row or column can never be an
// intersection and stays wall.
func Carve(rows, cols int, rng *rand.Rand) (*Grid, error) {
	g, err := NewGrid(rows, cols)
	if err != nil {
		return nil, err
	}

	g.Set(Origin, Passage)
	stack := []Coord{Origin}

	for len(stack) > 0 {
		current := stack[len(stack)-1]

		candidates := g.carveCandidates(current)
		if len(candidates) == 0 {
			stack = stack[:len(stack)-1]
			continue
		}

		next := candidates[rng.Intn(len(candidates))]
		g.Set(next.wall, Passage)
		g.Set(next.target, Passage)
		stack = append(stack, next.target)
	}

	return g, nil
}

// carveCandidates lists the unvisited intersections reachable from p.
// Both the target and the wall in between must still be solid, otherwise
// carving would join two already connected regions and form a loop.
func (g *Grid) carveCandidates(p Coord) []move {
	var result []move
	for _, dir := range AllDirections() {
		target := p.Step(dir, 2)
		if !g.InBounds(target) {
			continue
		}
		wall := p.Step(dir, 1)
		if g.At(target) == Wall && g.At(wall) == Wall {
			result = append(result, move{wall: wall, target: target})
		}
	}
	return result
}
