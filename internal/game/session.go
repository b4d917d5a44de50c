// Package game runs one player's walk through the labyrinth: the riddle gate
// at the start of every map, movement, encounters and saved games.
package game

import (
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/lawnchairsociety/mazequest/internal/command"
	"github.com/lawnchairsociety/mazequest/internal/encounter"
	"github.com/lawnchairsociety/mazequest/internal/help"
	"github.com/lawnchairsociety/mazequest/internal/labyrinth"
	"github.com/lawnchairsociety/mazequest/internal/logger"
	"github.com/lawnchairsociety/mazequest/internal/maze"
	"github.com/lawnchairsociety/mazequest/internal/persistence"
	"github.com/lawnchairsociety/mazequest/internal/player"
	"github.com/lawnchairsociety/mazequest/internal/render"
	"github.com/lawnchairsociety/mazequest/internal/stats"
	"github.com/lawnchairsociety/mazequest/internal/text"
)

var (
	ErrRiddlePending  = errors.New("riddle not answered")
	ErrBlocked        = errors.New("path blocked")
	ErrNoGoal         = errors.New("map has no goal")
	ErrSavingDisabled = errors.New("saving is disabled")
)

var _ command.SessionInterface = (*Session)(nil)

// Options configures a session.
type Options struct {
	MapFiles         []string
	Maze             labyrinth.Config
	Seed             int64
	Text             *text.Text        // nil uses built-in text
	Help             *help.Help        // nil uses a built-in command list
	Store            persistence.Store // nil disables save and load
	Color            bool
	ShowMapEveryTurn bool
	ID               string
}

// StepResult describes what happened on one move.
type StepResult struct {
	From        maze.Coord
	To          maze.Coord
	Encounter   *encounter.Outcome
	GoalReached bool
}

// Session is a single player's game. It is not safe for concurrent use;
// the server gives every connection its own session.
type Session struct {
	id       string
	opts     Options
	lab      *labyrinth.Labyrinth
	resolver *encounter.Resolver
	renderer *render.Renderer
	text     *text.Text
	msgs     text.MessageText
	log      *slog.Logger

	grid           *maze.Grid
	goal           maze.Coord
	mapIndex       int
	riddleAnswered bool
	player         *player.Player
	quit           bool
}

// NewSession builds a session and enters the first map. Procedural maps draw
// from a source seeded with opts.Seed, encounter dice from opts.Seed+1.
func NewSession(opts Options) (*Session, error) {
	if opts.ID == "" {
		opts.ID = uuid.NewString()
	}

	txt := opts.Text
	if txt == nil {
		var err error
		if txt, err = text.Parse(nil); err != nil {
			return nil, err
		}
	}

	if err := opts.Maze.Validate(); err != nil {
		return nil, err
	}

	gen := maze.NewGenerator(rand.New(rand.NewSource(opts.Seed)))
	dice := stats.NewDice(rand.New(rand.NewSource(opts.Seed + 1)))

	s := &Session{
		id:       opts.ID,
		opts:     opts,
		lab:      labyrinth.New(opts.MapFiles, gen, opts.Maze),
		resolver: encounter.NewResolver(dice, txt),
		renderer: render.New(opts.Color),
		text:     txt,
		msgs:     txt.Messages(),
		log:      logger.With("session", opts.ID),
		player:   player.New(1, 1),
	}

	if err := s.enterMap(0); err != nil {
		return nil, err
	}
	s.log.Info("Session started", "seed", opts.Seed, "static_maps", s.lab.StaticCount())
	return s, nil
}

// ID returns the session identifier used in logs.
func (s *Session) ID() string { return s.id }

// MapIndex returns the zero-based index of the current map.
func (s *Session) MapIndex() int { return s.mapIndex }

// Position returns the player's cell.
func (s *Session) Position() maze.Coord { return s.player.Position }

// Grid returns the current map. Callers must not modify it.
func (s *Session) Grid() *maze.Grid { return s.grid }

// Player returns the explorer.
func (s *Session) Player() *player.Player { return s.player }

// RiddlePending reports whether the current map's riddle is still unanswered.
func (s *Session) RiddlePending() bool { return !s.riddleAnswered }

// Done reports whether the player has quit.
func (s *Session) Done() bool { return s.quit }

// GoalReached reports whether the player stands on the goal.
func (s *Session) GoalReached() bool { return s.player.Position == s.goal }

func (s *Session) enterMap(index int) error {
	g, err := s.lab.Map(index)
	if err != nil {
		return err
	}
	goal, ok := g.Find(maze.Goal)
	if !ok {
		return fmt.Errorf("%w: map %d", ErrNoGoal, index)
	}

	s.grid = g
	s.goal = goal
	s.mapIndex = index
	s.riddleAnswered = false
	s.player.Reset(g.Rows, g.Cols)

	s.log.Debug("Entered map", "index", index, "procedural", s.lab.IsProcedural(index), "goal", goal.String())
	return nil
}

// CanMove reports whether a step in dir lands on an open cell.
func (s *Session) CanMove(dir maze.Direction) bool {
	return s.grid.Open(s.player.Position.Step(dir, 1))
}

// Step moves the player one cell. Unvisited encounter cells are resolved on
// entry: a win marks the cell seen, a loss sends the player back. Reaching
// the goal loads the next map.
func (s *Session) Step(dir maze.Direction) (StepResult, error) {
	if !s.riddleAnswered {
		return StepResult{}, ErrRiddlePending
	}
	if !s.CanMove(dir) {
		return StepResult{}, ErrBlocked
	}

	target := s.player.Position.Step(dir, 1)
	result := StepResult{From: s.player.Position, To: target}
	s.player.MoveTo(target)

	code := s.grid.At(target)
	if code.IsEncounter() && !s.player.Visited(target) {
		out, err := s.resolver.Resolve(code)
		if err != nil {
			s.player.Retreat()
			return result, err
		}
		result.Encounter = &out
		s.player.Stats.RecordEncounter(code.String(), out.Success)
		s.log.Debug("Encounter resolved", "kind", code.String(), "roll", out.Roll, "difficulty", out.Difficulty, "success", out.Success)

		if !out.Success {
			s.player.Retreat()
			result.To = s.player.Position
			return result, nil
		}
	}
	s.player.MarkVisited(target)

	if code == maze.Goal {
		result.GoalReached = true
		s.player.Stats.RecordMapCompleted()
		s.log.Info("Goal reached", "map", s.mapIndex)
		if err := s.enterMap(s.mapIndex + 1); err != nil {
			return result, err
		}
	}
	return result, nil
}

// Move is the command form of Step.
func (s *Session) Move(dir maze.Direction) string {
	previous := s.mapIndex
	result, err := s.Step(dir)
	switch {
	case errors.Is(err, ErrRiddlePending):
		return s.msgs.RiddleBlocked + "\n" + s.riddlePrompt()
	case errors.Is(err, ErrBlocked):
		return s.msgs.Blocked
	case err != nil:
		s.log.Error("Move failed", "direction", dir.String(), "error", err)
		return fmt.Sprintf("Something went wrong: %v", err)
	}

	var parts []string
	if result.Encounter != nil {
		parts = append(parts, result.Encounter.Narrative)
		if !result.Encounter.Success {
			parts = append(parts, fmt.Sprintf("You fall back %s.", dir.Opposite()))
		}
	}

	if result.GoalReached {
		parts = append(parts, s.msgs.GoalReached, fmt.Sprintf(s.msgs.NextMap, s.mapIndex+1))
		if s.lab.IsProcedural(s.mapIndex) && !s.lab.IsProcedural(previous) {
			parts = append(parts, s.msgs.Procedural)
		}
		parts = append(parts, s.drawMap(), s.riddlePrompt())
		return strings.Join(parts, "\n")
	}

	if s.opts.ShowMapEveryTurn {
		parts = append(parts, s.drawMap())
	} else if len(parts) == 0 {
		parts = append(parts, fmt.Sprintf("You walk %s.", dir))
	}
	return strings.Join(parts, "\n")
}

// AnswerRiddle checks answer against the current map's riddle and opens the
// path when it matches.
func (s *Session) AnswerRiddle(answer string) bool {
	ok := s.text.GetRiddle(s.mapIndex).Matches(answer)
	s.player.Stats.RecordRiddle(ok)
	if ok {
		s.riddleAnswered = true
	}
	return ok
}

// Answer is the command form of AnswerRiddle.
func (s *Session) Answer(answer string) string {
	if s.riddleAnswered {
		return "There is no riddle to answer here."
	}
	if !s.AnswerRiddle(answer) {
		return s.msgs.RiddleWrong
	}
	return s.msgs.RiddleCorrect + "\n" + s.drawMap()
}

// Look draws the current map with its title and legend.
func (s *Session) Look() string {
	title := fmt.Sprintf("Map %d", s.mapIndex+1)
	if s.lab.IsProcedural(s.mapIndex) {
		title += " (uncharted)"
	}

	out := s.renderer.Title(title) + "\n" + s.drawMap() + "\n" + s.renderer.Legend()
	if !s.riddleAnswered {
		out += "\n" + s.riddlePrompt()
	}
	return out
}

// Intro is the text shown when a session begins.
func (s *Session) Intro() string {
	var parts []string
	if banner := s.text.GetWelcomeBanner(); banner != "" {
		parts = append(parts, banner)
	}
	parts = append(parts, s.text.GetStartLine(), s.drawMap(), s.riddlePrompt())
	return strings.Join(parts, "\n")
}

func (s *Session) drawMap() string {
	return s.renderer.Map(s.grid, s.player.Position, s.player.Visited)
}

func (s *Session) riddlePrompt() string {
	r := s.text.GetRiddle(s.mapIndex)
	return r.Intro + "\n" + r.Question
}

// Snapshot captures the session state for saving.
func (s *Session) Snapshot() *persistence.Snapshot {
	return &persistence.Snapshot{
		MapIndex:       s.mapIndex,
		Grid:           s.grid.Codes(),
		Player:         s.player.Position,
		Goal:           s.goal,
		Visited:        s.player.VisitedGrid(),
		RiddleAnswered: s.riddleAnswered,
		Procedural:     s.lab.IsProcedural(s.mapIndex),
	}
}

// Restore replaces the session state with a snapshot. The session is left
// untouched if the snapshot is invalid.
func (s *Session) Restore(snap *persistence.Snapshot) error {
	if err := snap.Validate(); err != nil {
		return err
	}
	if snap.Procedural != s.lab.IsProcedural(snap.MapIndex) {
		return fmt.Errorf("%w: map %d procedural flag is %v, labyrinth says %v",
			persistence.ErrInvalidSnapshot, snap.MapIndex, snap.Procedural, s.lab.IsProcedural(snap.MapIndex))
	}
	g, err := maze.FromCodes(snap.Grid)
	if err != nil {
		return fmt.Errorf("%w: %v", persistence.ErrInvalidSnapshot, err)
	}
	if err := s.player.Restore(snap.Player, snap.Visited); err != nil {
		return fmt.Errorf("%w: %v", persistence.ErrInvalidSnapshot, err)
	}

	s.grid = g
	s.goal = snap.Goal
	s.mapIndex = snap.MapIndex
	s.riddleAnswered = snap.RiddleAnswered
	return nil
}

// SaveGame stores the current state under slot.
func (s *Session) SaveGame(slot string) (*persistence.Snapshot, error) {
	if s.opts.Store == nil {
		return nil, ErrSavingDisabled
	}
	slot = slotOrDefault(slot)
	if err := persistence.ValidateSlot(slot); err != nil {
		return nil, err
	}

	snap := s.Snapshot()
	snap.Stamp(slot, time.Now())
	if err := s.opts.Store.Save(snap); err != nil {
		return nil, err
	}
	s.log.Info("Game saved", "slot", slot, "id", snap.ID, "map", snap.MapIndex)
	return snap, nil
}

// LoadGame restores the state stored under slot.
func (s *Session) LoadGame(slot string) (*persistence.Snapshot, error) {
	if s.opts.Store == nil {
		return nil, ErrSavingDisabled
	}
	slot = slotOrDefault(slot)
	if err := persistence.ValidateSlot(slot); err != nil {
		return nil, err
	}

	snap, err := s.opts.Store.Load(slot)
	if err != nil {
		return nil, err
	}
	if err := s.Restore(snap); err != nil {
		return nil, err
	}
	s.log.Info("Game loaded", "slot", slot, "id", snap.ID, "map", snap.MapIndex)
	return snap, nil
}

func slotOrDefault(slot string) string {
	slot = strings.ToLower(strings.TrimSpace(slot))
	if slot == "" {
		return persistence.DefaultSlot
	}
	return slot
}

// Save is the command form of SaveGame.
func (s *Session) Save(slot string) string {
	snap, err := s.SaveGame(slot)
	if err != nil {
		return s.storageError("save", err)
	}
	return fmt.Sprintf("Game saved to slot '%s'.", snap.Slot)
}

// Load is the command form of LoadGame.
func (s *Session) Load(slot string) string {
	snap, err := s.LoadGame(slot)
	if err != nil {
		return s.storageError("load", err)
	}
	return fmt.Sprintf("Game loaded from slot '%s'.\n%s", snap.Slot, s.Look())
}

// ListSaves lists the stored slots.
func (s *Session) ListSaves() string {
	if s.opts.Store == nil {
		return "Saving is disabled."
	}
	saves, err := s.opts.Store.List()
	if err != nil {
		return s.storageError("list", err)
	}
	if len(saves) == 0 {
		return "No saved games."
	}

	var b strings.Builder
	b.WriteString("Saved games:")
	for _, info := range saves {
		fmt.Fprintf(&b, "\n  %-16s map %-4d %s", info.Slot, info.MapIndex+1, info.SavedAt.Local().Format("2006-01-02 15:04"))
	}
	return b.String()
}

func (s *Session) storageError(op string, err error) string {
	switch {
	case errors.Is(err, ErrSavingDisabled):
		return "Saving is disabled."
	case errors.Is(err, persistence.ErrInvalidSlot):
		return "Slot names may use lowercase letters, digits, '-' and '_' (up to 32 characters)."
	case errors.Is(err, persistence.ErrSaveNotFound):
		return "No save in that slot."
	case errors.Is(err, persistence.ErrInvalidSnapshot):
		s.log.Warn("Rejected corrupt save", "op", op, "error", err)
		return "That save is damaged and cannot be loaded."
	}
	s.log.Error("Storage operation failed", "op", op, "error", err)
	return fmt.Sprintf("Could not %s: %v", op, err)
}

// Help returns help text for a topic.
func (s *Session) Help(topic string) string {
	if s.opts.Help == nil {
		return builtinHelp
	}
	return s.opts.Help.GetHelpText(topic)
}

const builtinHelp = `Commands:
  north, south, east, west (n, s, e, w)  move one cell
  look, map                              show the map
  answer <text>                          answer the riddle
  save [slot], load [slot], saves        manage saved games
  stats                                  show your progress
  quit                                   leave the labyrinth`

// Stats summarizes the player's progress.
func (s *Session) Stats() string {
	return fmt.Sprintf("Current map:       %d\nCells explored:    %d\n%s",
		s.mapIndex+1, s.player.VisitedCount(), s.player.Stats.Summary())
}

// Quit ends the session.
func (s *Session) Quit() string {
	s.quit = true
	s.log.Info("Session ended", "map", s.mapIndex, "moves", s.player.Stats.Moves)
	return s.msgs.Goodbye
}
