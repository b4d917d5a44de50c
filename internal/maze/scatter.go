package maze

import "math/rand"

// Scatter tags up to count random passage cells with encounter kinds and
// returns how many were placed. The start cell and any goal cell are never
// picked. Asking for more than the grid can hold places what fits.
//
// Scatter is not idempotent: call it once per freshly carved grid.
func Scatter(g *Grid, count int, kinds []CellCode, rng *rand.Rand) int {
	if count <= 0 || len(kinds) == 0 {
		return 0
	}

	var candidates []Coord
	for r, row := range g.Cells {
		for c, v := range row {
			p := Coord{Row: r, Col: c}
			if v == Passage && p != Origin {
				candidates = append(candidates, p)
			}
		}
	}

	rng.Shuffle(len(candidates), func(i, j int) {
		candidates[i], candidates[j] = candidates[j], candidates[i]
	})

	placed := 0
	for placed < count && len(candidates) > 0 {
		cell := candidates[len(candidates)-1]
		candidates = candidates[:len(candidates)-1]
		g.Set(cell, kinds[rng.Intn(len(kinds))])
		placed++
	}
	return placed
}
