// Package encounter resolves the narrative events hidden in maze cells.
package encounter

import (
	"errors"
	"fmt"
	"strings"

	"github.com/lawnchairsociety/mazequest/internal/logger"
	"github.com/lawnchairsociety/mazequest/internal/maze"
	"github.com/lawnchairsociety/mazequest/internal/stats"
	"github.com/lawnchairsociety/mazequest/internal/text"
)

// DefaultRoll is the check rolled when an encounter names no dice.
const DefaultRoll = "1d20"

var ErrNotEncounter = errors.New("cell is not an encounter")

// defaults apply to kinds text.yaml does not describe.
var defaults = map[maze.CellCode]text.EncounterText{
	maze.Monster: {
		Difficulty: 12,
		Intro:      "A monster bars the corridor, all teeth and hunger.",
		Success:    "You outwit the beast and slip past.",
		Failure:    "The monster drives you back the way you came.",
	},
	maze.Witches: {
		Difficulty: 10,
		Intro:      "A coven of witches stirs a cauldron in the dark.",
		Success:    "You answer their chant correctly and they let you pass.",
		Failure:    "A hex sends you stumbling back.",
	},
	maze.Pirates: {
		Difficulty: 11,
		Intro:      "Pirates, lost far from any sea, demand a toll.",
		Success:    "You bluff your way through their ranks.",
		Failure:    "They shove you back with a roar of laughter.",
	},
	maze.Tribe: {
		Difficulty: 8,
		Intro:      "A wandering tribe watches you from the shadows.",
		Success:    "They share a meal and point the way forward.",
		Failure:    "Spears are raised and you retreat.",
	},
}

// Outcome is the result of one encounter check.
type Outcome struct {
	Kind       maze.CellCode
	Roll       int
	Difficulty int
	Success    bool
	Narrative  string
}

// Resolver rolls encounter checks against their difficulty.
type Resolver struct {
	dice *stats.Dice
	text *text.Text
}

// NewResolver creates a resolver. txt may be nil, in which case built-in
// narratives are used.
func NewResolver(dice *stats.Dice, txt *text.Text) *Resolver {
	return &Resolver{dice: dice, text: txt}
}

// Describe returns the narrative and check for a kind.
func (r *Resolver) Describe(kind maze.CellCode) (text.EncounterText, error) {
	if !kind.IsEncounter() {
		return text.EncounterText{}, fmt.Errorf("%w: %v", ErrNotEncounter, kind)
	}

	def := defaults[kind]
	if r.text == nil {
		return def, nil
	}
	e, ok := r.text.GetEncounter(kind.String())
	if !ok {
		return def, nil
	}
	if e.Difficulty <= 0 {
		e.Difficulty = def.Difficulty
	}
	if e.Intro == "" {
		e.Intro = def.Intro
	}
	if e.Success == "" {
		e.Success = def.Success
	}
	if e.Failure == "" {
		e.Failure = def.Failure
	}
	return e, nil
}

// Resolve rolls the check for kind. A roll meeting the difficulty succeeds.
func (r *Resolver) Resolve(kind maze.CellCode) (Outcome, error) {
	e, err := r.Describe(kind)
	if err != nil {
		return Outcome{}, err
	}

	notation := e.Roll
	n, ok := stats.ParseNotation(notation)
	if !ok {
		notation = DefaultRoll
		n, _ = stats.ParseNotation(DefaultRoll)
	}
	if e.Difficulty > n.Max() {
		logger.Warning("Encounter cannot be won", "kind", kind.String(), "roll", notation, "difficulty", e.Difficulty)
	}

	roll := r.dice.RollNotation(notation)
	out := Outcome{
		Kind:       kind,
		Roll:       roll,
		Difficulty: e.Difficulty,
		Success:    roll >= e.Difficulty,
	}

	result := e.Failure
	if out.Success {
		result = e.Success
	}

	var b strings.Builder
	b.WriteString(e.Intro)
	fmt.Fprintf(&b, "\nYou roll %s: %d against %d.\n", notation, roll, e.Difficulty)
	b.WriteString(result)
	out.Narrative = b.String()
	return out, nil
}
