package maze

import (
	"math/rand"
)

// DefaultEncounterCount is the number of encounter cells per procedural map.
const DefaultEncounterCount = 5

// Generator produces finished maps: carved, goal placed, encounters scattered.
// All randomness comes from Rand, consumed in a fixed order, so two
// generators with the same seed produce identical grids.
type Generator struct {
	Rand  *rand.Rand
	Kinds []CellCode
}

// NewGenerator creates a generator drawing from rng
func NewGenerator(rng *rand.Rand) *Generator {
	return &Generator{
		Rand:  rng,
		Kinds: EncounterKinds(),
	}
}

// NewSeededGenerator creates a generator with its own seeded source
func NewSeededGenerator(seed int64) *Generator {
	return NewGenerator(rand.New(rand.NewSource(seed)))
}

// Generate runs carve, goal placement and encounter scattering, in that
// order. The ranker must see only walls and passages, and the scatterer must
// see the goal so it can skip it.
func (gen *Generator) Generate(rows, cols, encounterCount int) (*Grid, error) {
	g, err := Carve(rows, cols, gen.Rand)
	if err != nil {
		return nil, err
	}

	goal, err := FarthestCell(g, Origin)
	if err != nil {
		return nil, err
	}
	g.Set(goal, Goal)

	Scatter(g, encounterCount, gen.Kinds, gen.Rand)
	return g, nil
}
