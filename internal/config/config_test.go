package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Maze.Rows != 21 || cfg.Maze.Cols != 21 {
		t.Errorf("expected 21x21 maze by default, got %dx%d", cfg.Maze.Rows, cfg.Maze.Cols)
	}
	if cfg.Maze.Encounters != 5 {
		t.Errorf("expected 5 encounters by default, got %d", cfg.Maze.Encounters)
	}
	if cfg.Storage.Backend != BackendJSON {
		t.Errorf("expected json backend by default, got %q", cfg.Storage.Backend)
	}
	if len(cfg.Server.WebSocket.AllowedOrigins) != 0 {
		t.Errorf("expected empty allowed origins by default, got %v", cfg.Server.WebSocket.AllowedOrigins)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config does not validate: %v", err)
	}
}

func TestLoadConfig_FileNotExists(t *testing.T) {
	cfg, err := LoadConfig("/nonexistent/path/config.yaml")
	if err != nil {
		t.Errorf("expected no error for missing file, got %v", err)
	}
	if cfg == nil {
		t.Fatal("expected default config for missing file, got nil")
	}
	if cfg.Maze.Rows != DefaultConfig().Maze.Rows {
		t.Errorf("expected default rows, got %d", cfg.Maze.Rows)
	}
}

func TestLoadConfig_ValidFile(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")

	content := `
maze:
  seed: 42
  rows: 15
  cols: 31
  encounters: 8
maps:
  dir: levels
  files: [first.txt, /abs/second.txt]
storage:
  backend: sqlite
  sqlite_path: /tmp/saves.db
display:
  color: false
server:
  telnet_address: ":5000"
  websocket:
    allowed_origins:
      - "https://example.com"
    max_message_size: 8192
`
	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(configPath)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Maze.Seed != 42 || cfg.Maze.Rows != 15 || cfg.Maze.Cols != 31 || cfg.Maze.Encounters != 8 {
		t.Errorf("maze section not decoded: %+v", cfg.Maze)
	}
	if cfg.Storage.Backend != BackendSQLite || cfg.Storage.SQLitePath != "/tmp/saves.db" {
		t.Errorf("storage section not decoded: %+v", cfg.Storage)
	}
	if cfg.Display.Color {
		t.Error("expected color disabled")
	}
	// Keys absent from the file keep their defaults
	if !cfg.Display.ShowMapEveryTurn {
		t.Error("expected show_map_every_turn to keep its default")
	}
	if cfg.Server.WebSocketAddress != ":4443" {
		t.Errorf("expected default websocket address, got %q", cfg.Server.WebSocketAddress)
	}
	if cfg.Server.WebSocket.MaxMessageSize != 8192 {
		t.Errorf("expected max message size 8192, got %d", cfg.Server.WebSocket.MaxMessageSize)
	}

	paths := cfg.Maps.MapPaths()
	if len(paths) != 2 || paths[0] != filepath.Join("levels", "first.txt") || paths[1] != "/abs/second.txt" {
		t.Errorf("MapPaths() = %v", paths)
	}
}

func TestLoadConfig_InvalidYAML(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(configPath, []byte("maze: [broken"), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(configPath)
	if err == nil {
		t.Error("expected parse error")
	}
	if cfg == nil || cfg.Maze.Rows != 21 {
		t.Error("expected defaults alongside parse error")
	}
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	t.Setenv("MAZE_SEED", "7")
	t.Setenv("MAZE_ROWS", "9")
	t.Setenv("MAZE_COLS", "11")
	t.Setenv("MAZE_ENCOUNTERS", "2")
	t.Setenv("STORAGE_BACKEND", "postgres")
	t.Setenv("PG_HOST", "db.internal")
	t.Setenv("PG_PORT", "6543")
	t.Setenv("PG_PASSWORD", "hunter2")

	cfg, err := LoadConfig("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Maze.Seed != 7 || cfg.Maze.Rows != 9 || cfg.Maze.Cols != 11 || cfg.Maze.Encounters != 2 {
		t.Errorf("maze env overrides not applied: %+v", cfg.Maze)
	}
	if cfg.Storage.Backend != BackendPostgres {
		t.Errorf("Backend = %q, want postgres", cfg.Storage.Backend)
	}

	db := cfg.Storage.DatabaseConfig()
	if db.Driver != "postgres" || db.Postgres.Host != "db.internal" || db.Postgres.Port != 6543 || db.Postgres.Password != "hunter2" {
		t.Errorf("DatabaseConfig() = %+v", db)
	}
	if db.Postgres.ConnMaxLifetime != 5*time.Minute {
		t.Errorf("ConnMaxLifetime = %v, want 5m", db.Postgres.ConnMaxLifetime)
	}
}

func TestLoadConfig_BadEnvNumber(t *testing.T) {
	t.Setenv("MAZE_ROWS", "many")

	_, err := LoadConfig("")
	if !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("expected ErrInvalidConfig, got %v", err)
	}
}

func TestLoadConfig_DotEnv(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, ".env"), []byte("MAZE_COLS=13\nSTORAGE_SAVE_DIR=/var/saves\n"), 0644); err != nil {
		t.Fatal(err)
	}
	t.Chdir(dir)
	t.Setenv("MAZE_COLS", "")
	t.Setenv("STORAGE_SAVE_DIR", "")
	os.Unsetenv("MAZE_COLS")
	os.Unsetenv("STORAGE_SAVE_DIR")

	cfg, err := LoadConfig("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Maze.Cols != 13 {
		t.Errorf("Cols = %d, want 13 from .env", cfg.Maze.Cols)
	}
	if cfg.Storage.SaveDir != "/var/saves" {
		t.Errorf("SaveDir = %q, want /var/saves from .env", cfg.Storage.SaveDir)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *GameConfig)
	}{
		{"zero rows", func(c *GameConfig) { c.Maze.Rows = 0 }},
		{"negative cols", func(c *GameConfig) { c.Maze.Cols = -3 }},
		{"start is the goal", func(c *GameConfig) { c.Maze.Rows, c.Maze.Cols = 2, 2 }},
		{"single row", func(c *GameConfig) { c.Maze.Rows = 1 }},
		{"negative encounters", func(c *GameConfig) { c.Maze.Encounters = -1 }},
		{"unknown backend", func(c *GameConfig) { c.Storage.Backend = "redis" }},
		{"json without dir", func(c *GameConfig) { c.Storage.SaveDir = "" }},
		{"sqlite without path", func(c *GameConfig) { c.Storage.Backend = BackendSQLite; c.Storage.SQLitePath = "" }},
		{"postgres without host", func(c *GameConfig) { c.Storage.Backend = BackendPostgres; c.Storage.Postgres.Host = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			if err := cfg.Validate(); !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("Validate() = %v, want ErrInvalidConfig", err)
			}
		})
	}
}

func TestResolveSeed(t *testing.T) {
	fixed := MazeConfig{Seed: 99}
	if seed, random := fixed.ResolveSeed(); seed != 99 || random {
		t.Errorf("ResolveSeed() = %d, %v; want 99, false", seed, random)
	}

	var unset MazeConfig
	if seed, random := unset.ResolveSeed(); seed == 0 || !random {
		t.Errorf("ResolveSeed() = %d, %v; want non-zero, true", seed, random)
	}
}

func TestDatabaseConfig_SQLite(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Storage.Backend = BackendSQLite

	db := cfg.Storage.DatabaseConfig()
	if db.Driver != "sqlite" || db.SQLitePath != "data/mazequest.db" {
		t.Errorf("DatabaseConfig() = %+v", db)
	}
}

func TestIsOriginAllowed_EmptyList_SameOrigin(t *testing.T) {
	cfg := WebSocketConfig{AllowedOrigins: []string{}}

	if !cfg.IsOriginAllowed("", "localhost:4443") {
		t.Error("expected empty origin to be allowed (same-origin)")
	}
	if !cfg.IsOriginAllowed("http://localhost:4443", "localhost:4443") {
		t.Error("expected matching origin to be allowed (same-origin)")
	}
	if cfg.IsOriginAllowed("http://evil.com", "localhost:4443") {
		t.Error("expected different origin to be rejected (same-origin policy)")
	}
}

func TestIsOriginAllowed_List(t *testing.T) {
	wildcard := WebSocketConfig{AllowedOrigins: []string{"*"}}
	if !wildcard.IsOriginAllowed("http://anything.com", "localhost:4443") {
		t.Error("expected wildcard to allow any origin")
	}

	exact := WebSocketConfig{AllowedOrigins: []string{"https://example.com"}}
	if !exact.IsOriginAllowed("https://example.com", "localhost:4443") {
		t.Error("expected exact match to be allowed")
	}
	if exact.IsOriginAllowed("https://example.com:8080", "localhost:4443") {
		t.Error("expected partial match to be rejected")
	}
}

func TestIsSameOrigin(t *testing.T) {
	tests := []struct {
		origin      string
		requestHost string
		expected    bool
	}{
		{"", "localhost:4443", true},
		{"http://localhost:4443", "localhost:4443", true},
		{"https://localhost:4443/", "localhost:4443", true},
		{"http://example.com", "localhost:4443", false},
		{"http://localhost:3000", "localhost:4443", false},
		{"ws://localhost:4443", "localhost:4443", true},
	}

	for _, tt := range tests {
		result := isSameOrigin(tt.origin, tt.requestHost)
		if result != tt.expected {
			t.Errorf("isSameOrigin(%q, %q) = %v, want %v",
				tt.origin, tt.requestHost, result, tt.expected)
		}
	}
}
