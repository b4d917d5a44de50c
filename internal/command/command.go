// Package command parses player input and dispatches it to a game session.
package command

import (
	"errors"
	"fmt"
	"strings"

	"github.com/lawnchairsociety/mazequest/internal/maze"
)

// SessionInterface defines the methods we need from a game session.
// Declared here so the game package can import command without a cycle.
type SessionInterface interface {
	Move(dir maze.Direction) string
	Look() string
	Answer(answer string) string
	RiddlePending() bool
	Save(slot string) string
	Load(slot string) string
	ListSaves() string
	Help(topic string) string
	Stats() string
	Quit() string
}

type Command struct {
	Name string
	Args []string
	Raw  string
}

// RequireArgs checks if the command has at least the minimum number of arguments
// Returns an error with the usage message if not enough arguments are provided
func (c *Command) RequireArgs(min int, usage string) error {
	if len(c.Args) < min {
		return errors.New(usage)
	}
	return nil
}

// Rest joins all arguments back into one string.
func (c *Command) Rest() string {
	return strings.Join(c.Args, " ")
}

func ParseCommand(input string) *Command {
	raw := strings.TrimSpace(input)
	parts := strings.Fields(raw)
	if len(parts) == 0 {
		return &Command{Name: "", Args: []string{}}
	}

	return &Command{
		Name: strings.ToLower(parts[0]),
		Args: parts[1:],
		Raw:  raw,
	}
}

// IsQuit reports whether the command ends the session.
func (c *Command) IsQuit() bool {
	return c.Name == "quit" || c.Name == "exit"
}

// isMeta reports commands that work while the riddle blocks the way.
func (c *Command) isMeta() bool {
	switch c.Name {
	case "help", "?", "look", "l", "map", "save", "load", "saves", "stats", "answer":
		return true
	}
	return false
}

// isMovement reports commands that try to walk.
func (c *Command) isMovement() bool {
	switch c.Name {
	case "go", "move", "walk", "north", "n", "south", "s", "east", "e", "west", "w":
		return true
	}
	return false
}

// Execute runs the command against the session and returns the text to show.
// While a riddle is pending, movement is refused by the session and any other
// input that is not a meta command is taken as an answer.
func (c *Command) Execute(s SessionInterface) string {
	if c.Name == "" {
		return "Type a direction (north, south, east, west) or 'help'."
	}
	if c.IsQuit() {
		return s.Quit()
	}

	if s.RiddlePending() && !c.isMeta() && !c.isMovement() {
		return s.Answer(c.Raw)
	}

	switch c.Name {
	case "go", "move", "walk":
		return c.executeGo(s)
	case "north", "n", "south", "s", "east", "e", "west", "w":
		dir, _ := maze.ParseDirection(c.Name)
		return s.Move(dir)
	case "look", "l", "map":
		return s.Look()
	case "answer":
		if err := c.RequireArgs(1, "Usage: answer <your answer>"); err != nil {
			return err.Error()
		}
		return s.Answer(c.Rest())
	case "save":
		return s.Save(c.Rest())
	case "load":
		return s.Load(c.Rest())
	case "saves":
		return s.ListSaves()
	case "help", "?":
		return s.Help(c.Rest())
	case "stats":
		return s.Stats()
	default:
		return fmt.Sprintf("Unknown command: %s. Type 'help' for available commands.", c.Name)
	}
}

func (c *Command) executeGo(s SessionInterface) string {
	if err := c.RequireArgs(1, "Go where? (north/south/east/west)"); err != nil {
		return err.Error()
	}
	dir, ok := maze.ParseDirection(c.Args[0])
	if !ok {
		return "Invalid direction. Try again."
	}
	return s.Move(dir)
}
