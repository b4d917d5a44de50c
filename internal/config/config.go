// Package config loads the game configuration from YAML, a .env file and
// environment overrides.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/lawnchairsociety/mazequest/internal/database"
	"github.com/lawnchairsociety/mazequest/internal/labyrinth"
)

// Storage backends.
const (
	BackendJSON     = "json"
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
)

// ErrInvalidConfig is returned by Validate.
var ErrInvalidConfig = errors.New("invalid configuration")

// GameConfig holds every tunable of a game process.
type GameConfig struct {
	Maze    MazeConfig    `yaml:"maze"`
	Maps    MapsConfig    `yaml:"maps"`
	Storage StorageConfig `yaml:"storage"`
	Display DisplayConfig `yaml:"display"`
	Server  ServerConfig  `yaml:"server"`
}

// MazeConfig sizes the procedural maps served after the static files.
type MazeConfig struct {
	// Seed drives every generated map. 0 picks a time-based seed at start-up.
	Seed       int64 `yaml:"seed"`
	Rows       int   `yaml:"rows"`
	Cols       int   `yaml:"cols"`
	Encounters int   `yaml:"encounters"`
}

// MapsConfig lists the hand-made maps played before procedural territory.
type MapsConfig struct {
	Dir   string   `yaml:"dir"`
	Files []string `yaml:"files"`
}

// StorageConfig selects where snapshots are kept.
type StorageConfig struct {
	// Backend is "json", "sqlite" or "postgres".
	Backend    string         `yaml:"backend"`
	SaveDir    string         `yaml:"save_dir"`
	SQLitePath string         `yaml:"sqlite_path"`
	Postgres   PostgresConfig `yaml:"postgres"`
}

// PostgresConfig holds PostgreSQL connection settings.
type PostgresConfig struct {
	Host                   string `yaml:"host"`
	Port                   int    `yaml:"port"`
	User                   string `yaml:"user"`
	Password               string `yaml:"password"`
	Database               string `yaml:"database"`
	SSLMode                string `yaml:"sslmode"`
	MaxOpenConns           int    `yaml:"max_open_conns"`
	MaxIdleConns           int    `yaml:"max_idle_conns"`
	ConnMaxLifetimeMinutes int    `yaml:"conn_max_lifetime_minutes"`
}

// DisplayConfig controls map rendering.
type DisplayConfig struct {
	// Color enables ANSI colour on the console. Network clients always get plain text.
	Color bool `yaml:"color"`

	// ShowMapEveryTurn prints the map after every successful move.
	ShowMapEveryTurn bool `yaml:"show_map_every_turn"`
}

// ServerConfig holds network play settings.
type ServerConfig struct {
	TelnetAddress    string            `yaml:"telnet_address"`
	WebSocketAddress string            `yaml:"websocket_address"`
	WebSocket        WebSocketConfig   `yaml:"websocket"`
	Connections      ConnectionsConfig `yaml:"connections"`
}

// ConnectionsConfig holds connection limit settings.
type ConnectionsConfig struct {
	// MaxPerIP is the maximum concurrent connections allowed from a single IP address.
	// 0 means unlimited.
	MaxPerIP int `yaml:"max_per_ip"`

	// MaxTotal is the maximum total concurrent connections to the server.
	// 0 means unlimited.
	MaxTotal int `yaml:"max_total"`
}

// WebSocketConfig holds WebSocket-specific settings.
type WebSocketConfig struct {
	// AllowedOrigins is a list of origins allowed to connect via WebSocket.
	// Empty list enforces same-origin policy.
	// Use "*" to allow all origins.
	AllowedOrigins []string `yaml:"allowed_origins"`

	// MaxMessageSize is the maximum WebSocket message size in bytes.
	MaxMessageSize int64 `yaml:"max_message_size"`
}

// DefaultConfig returns the configuration used when no file is present.
func DefaultConfig() *GameConfig {
	pg := database.DefaultPostgresConfig()
	return &GameConfig{
		Maze: MazeConfig{
			Rows:       21,
			Cols:       21,
			Encounters: 5,
		},
		Maps: MapsConfig{
			Dir:   "data/maps",
			Files: []string{"map1.txt", "map2.txt", "map3.txt"},
		},
		Storage: StorageConfig{
			Backend:    BackendJSON,
			SaveDir:    "data/saves",
			SQLitePath: "data/mazequest.db",
			Postgres: PostgresConfig{
				Host:                   pg.Host,
				Port:                   pg.Port,
				User:                   pg.User,
				Database:               pg.Database,
				SSLMode:                pg.SSLMode,
				MaxOpenConns:           pg.MaxOpenConns,
				MaxIdleConns:           pg.MaxIdleConns,
				ConnMaxLifetimeMinutes: int(pg.ConnMaxLifetime / time.Minute),
			},
		},
		Display: DisplayConfig{
			Color:            true,
			ShowMapEveryTurn: true,
		},
		Server: ServerConfig{
			TelnetAddress:    ":4000",
			WebSocketAddress: ":4443",
			WebSocket: WebSocketConfig{
				AllowedOrigins: []string{}, // Same-origin only by default
				MaxMessageSize: 4096,
			},
			Connections: ConnectionsConfig{
				MaxPerIP: 3,
				MaxTotal: 100,
			},
		},
	}
}

// LoadConfig loads configuration from a YAML file.
// A .env file in the working directory is loaded first (if present), then
// the YAML is decoded over the defaults and environment overrides applied.
// A missing YAML file is not an error.
func LoadConfig(path string) (*GameConfig, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return DefaultConfig(), fmt.Errorf("failed to load .env: %w", err)
	}

	config := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, config); err != nil {
				return DefaultConfig(), fmt.Errorf("failed to parse config %s: %w", path, err)
			}
		case !os.IsNotExist(err):
			return config, err
		}
	}

	if err := config.applyEnv(); err != nil {
		return config, err
	}
	return config, nil
}

// applyEnv overrides settings from environment variables.
func (c *GameConfig) applyEnv() error {
	ints := []struct {
		key string
		dst *int
	}{
		{"MAZE_ROWS", &c.Maze.Rows},
		{"MAZE_COLS", &c.Maze.Cols},
		{"MAZE_ENCOUNTERS", &c.Maze.Encounters},
		{"PG_PORT", &c.Storage.Postgres.Port},
	}
	for _, v := range ints {
		raw := os.Getenv(v.key)
		if raw == "" {
			continue
		}
		n, err := strconv.Atoi(raw)
		if err != nil {
			return fmt.Errorf("%w: %s=%q is not a number", ErrInvalidConfig, v.key, raw)
		}
		*v.dst = n
	}

	if raw := os.Getenv("MAZE_SEED"); raw != "" {
		seed, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return fmt.Errorf("%w: MAZE_SEED=%q is not a number", ErrInvalidConfig, raw)
		}
		c.Maze.Seed = seed
	}

	strs := []struct {
		key string
		dst *string
	}{
		{"STORAGE_BACKEND", &c.Storage.Backend},
		{"STORAGE_SAVE_DIR", &c.Storage.SaveDir},
		{"SQLITE_PATH", &c.Storage.SQLitePath},
		{"PG_HOST", &c.Storage.Postgres.Host},
		{"PG_USER", &c.Storage.Postgres.User},
		{"PG_PASSWORD", &c.Storage.Postgres.Password},
		{"PG_DATABASE", &c.Storage.Postgres.Database},
		{"PG_SSLMODE", &c.Storage.Postgres.SSLMode},
	}
	for _, v := range strs {
		if raw := os.Getenv(v.key); raw != "" {
			*v.dst = raw
		}
	}
	return nil
}

// Validate rejects settings the game cannot run with.
func (c *GameConfig) Validate() error {
	if c.Maze.Rows < labyrinth.MinDimension || c.Maze.Cols < labyrinth.MinDimension {
		return fmt.Errorf("%w: maze dimensions %dx%d must be at least %d", ErrInvalidConfig, c.Maze.Rows, c.Maze.Cols, labyrinth.MinDimension)
	}
	if c.Maze.Encounters < 0 {
		return fmt.Errorf("%w: encounter count %d is negative", ErrInvalidConfig, c.Maze.Encounters)
	}

	switch c.Storage.Backend {
	case BackendJSON:
		if c.Storage.SaveDir == "" {
			return fmt.Errorf("%w: json storage needs save_dir", ErrInvalidConfig)
		}
	case BackendSQLite:
		if c.Storage.SQLitePath == "" {
			return fmt.Errorf("%w: sqlite storage needs sqlite_path", ErrInvalidConfig)
		}
	case BackendPostgres:
		if c.Storage.Postgres.Host == "" || c.Storage.Postgres.Database == "" {
			return fmt.Errorf("%w: postgres storage needs host and database", ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("%w: unknown storage backend %q", ErrInvalidConfig, c.Storage.Backend)
	}
	return nil
}

// MapPaths returns the static map files joined with the maps directory.
func (c *MapsConfig) MapPaths() []string {
	paths := make([]string, 0, len(c.Files))
	for _, f := range c.Files {
		if filepath.IsAbs(f) || c.Dir == "" {
			paths = append(paths, f)
		} else {
			paths = append(paths, filepath.Join(c.Dir, f))
		}
	}
	return paths
}

// ResolveSeed returns the configured seed, or a time-based one when unset.
// The second result reports whether the seed was picked at random.
func (c *MazeConfig) ResolveSeed() (int64, bool) {
	if c.Seed != 0 {
		return c.Seed, false
	}
	return time.Now().UnixNano(), true
}

// DatabaseConfig converts the storage settings for the SQL save store.
func (c *StorageConfig) DatabaseConfig() database.Config {
	if c.Backend == BackendPostgres {
		return database.Config{
			Driver: string(database.DialectPostgres),
			Postgres: database.PostgresConfig{
				Host:            c.Postgres.Host,
				Port:            c.Postgres.Port,
				User:            c.Postgres.User,
				Password:        c.Postgres.Password,
				Database:        c.Postgres.Database,
				SSLMode:         c.Postgres.SSLMode,
				MaxOpenConns:    c.Postgres.MaxOpenConns,
				MaxIdleConns:    c.Postgres.MaxIdleConns,
				ConnMaxLifetime: time.Duration(c.Postgres.ConnMaxLifetimeMinutes) * time.Minute,
			},
		}
	}
	return database.DefaultConfig(c.SQLitePath)
}

// IsOriginAllowed checks if the given origin is allowed based on the config.
// Returns true if:
// - AllowedOrigins contains "*" (allow all)
// - AllowedOrigins contains the exact origin
// - AllowedOrigins is empty and origin matches the request host (same-origin)
func (c *WebSocketConfig) IsOriginAllowed(origin, requestHost string) bool {
	if len(c.AllowedOrigins) == 0 {
		return isSameOrigin(origin, requestHost)
	}

	for _, allowed := range c.AllowedOrigins {
		if allowed == "*" || allowed == origin {
			return true
		}
	}
	return false
}

// isSameOrigin checks if the origin matches the request host.
func isSameOrigin(origin, requestHost string) bool {
	if origin == "" {
		return true // non-browser client
	}

	originHost := origin
	if idx := strings.Index(origin, "://"); idx != -1 {
		originHost = origin[idx+3:]
	}
	originHost = strings.TrimSuffix(originHost, "/")

	return originHost == requestHost
}
