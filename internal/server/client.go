package server

import "github.com/lawnchairsociety/mazequest/internal/game"

// Client abstracts the connection layer for telnet, WebSocket and console
// players. Every Client can drive a game session.
type Client interface {
	game.Client

	// Close closes the connection.
	Close() error

	// RemoteAddr returns the client's address for logging.
	RemoteAddr() string
}
