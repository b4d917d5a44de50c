package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/lawnchairsociety/mazequest/internal/config"
	"github.com/lawnchairsociety/mazequest/internal/database"
	"github.com/lawnchairsociety/mazequest/internal/game"
	"github.com/lawnchairsociety/mazequest/internal/help"
	"github.com/lawnchairsociety/mazequest/internal/labyrinth"
	"github.com/lawnchairsociety/mazequest/internal/logger"
	"github.com/lawnchairsociety/mazequest/internal/persistence"
	"github.com/lawnchairsociety/mazequest/internal/server"
	"github.com/lawnchairsociety/mazequest/internal/text"
)

func main() {
	configFile := flag.String("config", "data/config.yaml", "Path to game config YAML file")
	loggingConfig := flag.String("logging", "data/logging.yaml", "Path to logging config YAML file")
	textFile := flag.String("text", "data/text.yaml", "Path to text YAML file")
	helpFile := flag.String("help-file", "data/help.yaml", "Path to help YAML file")
	seed := flag.Int64("seed", 0, "Maze seed (default: config value, else random)")
	serve := flag.Bool("serve", false, "Serve the game over telnet and WebSocket instead of playing locally")
	loadSlot := flag.String("load", "", "Load this save slot before playing")
	noColor := flag.Bool("no-color", false, "Disable colored map output")
	flag.Parse()

	logConfig, _ := logger.LoadConfig(*loggingConfig)
	if err := logger.Initialize(logConfig); err != nil {
		log.Printf("Failed to initialize logger: %v", err)
	}

	cfg, err := config.LoadConfig(*configFile)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if *seed != 0 {
		cfg.Maze.Seed = *seed
	}
	if *noColor {
		cfg.Display.Color = false
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid config: %v", err)
	}

	mazeSeed, random := cfg.Maze.ResolveSeed()
	logger.Info("Maze seed selected", "seed", mazeSeed, "random", random)

	if err := text.Initialize(*textFile); err != nil {
		logger.Warning("Failed to load text config, using fallback text", "path", *textFile, "error", err)
	}
	if err := help.Initialize(*helpFile); err != nil {
		logger.Warning("Failed to load help config, using built-in help", "path", *helpFile, "error", err)
	}

	store, err := openStore(&cfg.Storage)
	if err != nil {
		log.Fatalf("Failed to open save store: %v", err)
	}
	defer store.Close()

	opts := game.Options{
		MapFiles: cfg.Maps.MapPaths(),
		Maze: labyrinth.Config{
			Rows:       cfg.Maze.Rows,
			Cols:       cfg.Maze.Cols,
			Encounters: cfg.Maze.Encounters,
		},
		Seed:             mazeSeed,
		Text:             text.GetInstance(),
		Help:             help.GetInstance(),
		Store:            store,
		Color:            cfg.Display.Color,
		ShowMapEveryTurn: cfg.Display.ShowMapEveryTurn,
	}
	if *serve {
		runServer(cfg, opts)
		return
	}

	if err := playLocal(opts, *loadSlot); err != nil {
		logger.Error("Game ended with error", "error", err)
		os.Exit(1)
	}
}

// openStore returns the save store selected by the storage backend.
func openStore(cfg *config.StorageConfig) (persistence.Store, error) {
	switch cfg.Backend {
	case config.BackendJSON:
		logger.Info("Using JSON save store", "dir", cfg.SaveDir)
		return persistence.NewJSONStore(cfg.SaveDir)
	case config.BackendSQLite, config.BackendPostgres:
		db, err := database.OpenWithConfig(cfg.DatabaseConfig())
		if err != nil {
			return nil, err
		}
		logger.Info("Using SQL save store", "backend", cfg.Backend)
		return db, nil
	}
	return nil, fmt.Errorf("%w: unknown storage backend %q", config.ErrInvalidConfig, cfg.Backend)
}

func playLocal(opts game.Options, loadSlot string) error {
	session, err := game.NewSession(opts)
	if err != nil {
		return err
	}

	client := server.NewConsoleClient(os.Stdin, os.Stdout, "> ")
	if loadSlot != "" {
		client.WriteLine(session.Load(loadSlot))
	}
	return session.Run(client)
}

func runServer(cfg *config.GameConfig, opts game.Options) {
	srv := server.NewServer(cfg.Server, opts)

	if len(cfg.Server.WebSocket.AllowedOrigins) == 0 {
		logger.Info("WebSocket CORS policy", "mode", "same-origin")
	} else if len(cfg.Server.WebSocket.AllowedOrigins) == 1 && cfg.Server.WebSocket.AllowedOrigins[0] == "*" {
		logger.Warning("WebSocket CORS allows all origins (not recommended for production)")
	} else {
		logger.Info("WebSocket CORS policy", "allowed_origins", cfg.Server.WebSocket.AllowedOrigins)
	}

	go func() {
		if err := srv.Start(); err != nil {
			log.Fatalf("Telnet server error: %v", err)
		}
	}()

	if cfg.Server.WebSocketAddress != "" {
		go func() {
			if err := srv.StartWebSocket(cfg.Server.WebSocketAddress); err != nil {
				log.Fatalf("WebSocket server error: %v", err)
			}
		}()
	}

	logger.Always("Maze server running",
		"telnet", cfg.Server.TelnetAddress,
		"websocket", cfg.Server.WebSocketAddress)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	logger.Info("Shutting down server")
	srv.Shutdown()
	logger.Info("Server stopped")
}
