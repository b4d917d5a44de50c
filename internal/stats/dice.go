// Package stats provides dice rolling for encounter checks.
package stats

import (
	"math/rand"
	"regexp"
	"strconv"
)

// Dice rolls polyhedral dice from a single random source, so a seeded
// session replays the same rolls.
type Dice struct {
	rng *rand.Rand
}

// NewDice creates dice drawing from rng
func NewDice(rng *rand.Rand) *Dice {
	return &Dice{rng: rng}
}

// D20 rolls a 20-sided die (1-20)
func (d *Dice) D20() int {
	return d.rng.Intn(20) + 1
}

// Roll rolls n dice with the specified number of sides and returns the total
func (d *Dice) Roll(n, sides int) int {
	if sides <= 0 {
		return 0
	}
	total := 0
	for i := 0; i < n; i++ {
		total += d.rng.Intn(sides) + 1
	}
	return total
}

// RollWithBonus rolls n dice with the specified number of sides and adds a bonus
func (d *Dice) RollWithBonus(n, sides, bonus int) int {
	return d.Roll(n, sides) + bonus
}

// diceNotationRegex matches dice notation like "1d6", "2d4+1", "1d8-2"
var diceNotationRegex = regexp.MustCompile(`^(\d+)d(\d+)([+-]\d+)?$`)

// Notation is a parsed dice expression such as 2d6+1.
type Notation struct {
	Count int
	Sides int
	Bonus int
}

// ParseNotation parses dice notation.
// Supports formats: "1d6", "2d4", "1d8+2", "2d6-1"
func ParseNotation(notation string) (Notation, bool) {
	matches := diceNotationRegex.FindStringSubmatch(notation)
	if matches == nil {
		return Notation{}, false
	}

	count, _ := strconv.Atoi(matches[1])
	sides, _ := strconv.Atoi(matches[2])
	if sides == 0 {
		return Notation{}, false
	}

	bonus := 0
	if matches[3] != "" {
		bonus, _ = strconv.Atoi(matches[3])
	}

	return Notation{Count: count, Sides: sides, Bonus: bonus}, true
}

// Max returns the highest possible result.
func (n Notation) Max() int {
	return n.Count*n.Sides + n.Bonus
}

// RollNotation parses dice notation and returns the roll result.
// Returns 0 if the notation is invalid
func (d *Dice) RollNotation(notation string) int {
	n, ok := ParseNotation(notation)
	if !ok {
		return 0
	}
	return d.RollWithBonus(n.Count, n.Sides, n.Bonus)
}
