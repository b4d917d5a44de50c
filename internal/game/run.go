package game

import (
	"errors"
	"fmt"
	"io"

	"github.com/lawnchairsociety/mazequest/internal/command"
)

// Client is a line-oriented connection to a player.
type Client interface {
	ReadLine() (string, error)
	WriteLine(line string) error
}

// Run plays the session over client until the player quits or the
// connection ends. A closed connection is not an error.
func (s *Session) Run(client Client) error {
	if err := client.WriteLine(s.Intro()); err != nil {
		return fmt.Errorf("failed to write intro: %w", err)
	}

	for !s.quit {
		line, err := client.ReadLine()
		if err != nil {
			if errors.Is(err, io.EOF) {
				s.log.Info("Client disconnected", "map", s.mapIndex)
				return nil
			}
			return fmt.Errorf("failed to read input: %w", err)
		}

		cmd := command.ParseCommand(line)
		s.log.Debug("Command received", "command", cmd.Name, "args", len(cmd.Args))

		if err := client.WriteLine(cmd.Execute(s)); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
		if cmd.IsQuit() {
			s.log.Info("Player quit", "map", s.mapIndex, "explored", s.player.VisitedCount())
		}
	}
	return nil
}
