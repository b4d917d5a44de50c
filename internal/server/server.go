// Package server hosts game sessions over telnet and WebSocket. Every
// connection gets its own session with its own random sources, so players
// never share a maze or a die.
package server

import (
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/lawnchairsociety/mazequest/internal/config"
	"github.com/lawnchairsociety/mazequest/internal/game"
	"github.com/lawnchairsociety/mazequest/internal/logger"
)

type Server struct {
	config      config.ServerConfig
	template    game.Options
	listener    net.Listener
	httpServer  *http.Server
	connLimiter *ConnLimiter

	clients  map[string]Client
	sessions int64
	mu       sync.Mutex

	shutdown     chan struct{}
	shutdownOnce sync.Once
	StartTime    time.Time
}

// NewServer creates a server. template is copied for every session; its
// Seed is the base seed, and session n plays with Seed+2n so its maze and
// dice sources never overlap another session's.
func NewServer(cfg config.ServerConfig, template game.Options) *Server {
	return &Server{
		config:      cfg,
		template:    template,
		connLimiter: NewConnLimiter(cfg.Connections),
		clients:     make(map[string]Client),
		shutdown:    make(chan struct{}),
		StartTime:   time.Now(),
	}
}

// Start listens on the telnet address and serves until Shutdown.
func (s *Server) Start() error {
	listener, err := net.Listen("tcp", s.config.TelnetAddress)
	if err != nil {
		return fmt.Errorf("failed to start server: %w", err)
	}
	return s.Serve(listener)
}

// Serve accepts telnet connections on listener until Shutdown.
func (s *Server) Serve(listener net.Listener) error {
	s.mu.Lock()
	s.listener = listener
	s.mu.Unlock()

	logger.Info("Server listening", "address", listener.Addr().String())

	for {
		conn, err := listener.Accept()
		if err != nil {
			select {
			case <-s.shutdown:
				return nil
			default:
			}
			if errors.Is(err, net.ErrClosed) {
				return nil
			}
			logger.Error("Error accepting connection", "error", err)
			continue
		}

		go s.handleConnection(conn)
	}
}

func (s *Server) handleConnection(conn net.Conn) {
	remoteAddr := conn.RemoteAddr().String()
	ip := extractIP(remoteAddr)

	if !s.connLimiter.TryAcquire(ip) {
		logger.Warning("Connection rejected - limit exceeded",
			"remote_addr", remoteAddr,
			"ip", ip)
		conn.Write([]byte("Too many connections. Please try again later.\r\n"))
		conn.Close()
		return
	}

	defer func() {
		s.connLimiter.Release(ip)
		conn.Close()
	}()

	s.handleClient(NewTelnetClient(conn))
}

// nextOptions returns the options for a new session.
func (s *Server) nextOptions() game.Options {
	s.mu.Lock()
	n := s.sessions
	s.sessions++
	s.mu.Unlock()

	opts := s.template
	opts.ID = uuid.NewString()
	opts.Seed = s.template.Seed + 2*n
	opts.Color = false // ANSI styling is for the local console only
	return opts
}

// handleClient plays one session over client. Shared by telnet and WebSocket.
func (s *Server) handleClient(client Client) {
	opts := s.nextOptions()
	log := logger.With("session", opts.ID, "remote_addr", client.RemoteAddr())

	select {
	case <-s.shutdown:
		client.WriteLine("The labyrinth is closing. Please try again later.")
		return
	default:
	}

	session, err := game.NewSession(opts)
	if err != nil {
		log.Error("Failed to start session", "error", err)
		client.WriteLine("The labyrinth could not be opened. Please try again later.")
		return
	}

	s.mu.Lock()
	s.clients[opts.ID] = client
	s.mu.Unlock()
	log.Info("Client connected", "seed", opts.Seed)

	defer func() {
		s.mu.Lock()
		delete(s.clients, opts.ID)
		s.mu.Unlock()
		log.Info("Client disconnected", "map", session.MapIndex())
	}()

	if err := session.Run(client); err != nil {
		select {
		case <-s.shutdown:
		default:
			log.Warn("Session ended with error", "error", err)
		}
	}
}

// Handler returns the HTTP handler serving WebSocket play at /ws.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWebSocketUpgrade)
	return mux
}

// StartWebSocket serves WebSocket play on address until Shutdown.
func (s *Server) StartWebSocket(address string) error {
	srv := &http.Server{
		Addr:              address,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	s.mu.Lock()
	s.httpServer = srv
	s.mu.Unlock()

	logger.Info("WebSocket server listening", "address", address)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("websocket server failed: %w", err)
	}
	return nil
}

// handleWebSocketUpgrade upgrades an HTTP connection to WebSocket.
func (s *Server) handleWebSocketUpgrade(w http.ResponseWriter, r *http.Request) {
	clientIP := getRealIP(r)

	if !s.connLimiter.TryAcquire(clientIP) {
		logger.Warning("WebSocket connection rejected - limit exceeded",
			"remote_addr", r.RemoteAddr,
			"client_ip", clientIP)
		http.Error(w, "Too many connections. Please try again later.", http.StatusTooManyRequests)
		return
	}

	upgrader := websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			allowed := s.config.WebSocket.IsOriginAllowed(origin, r.Host)
			if !allowed {
				logger.Warning("WebSocket connection rejected - origin not allowed",
					"origin", origin,
					"host", r.Host,
					"remote_addr", r.RemoteAddr)
			}
			return allowed
		},
	}

	wsConn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Debug("WebSocket upgrade failed", "error", err)
		s.connLimiter.Release(clientIP)
		return
	}
	if s.config.WebSocket.MaxMessageSize > 0 {
		wsConn.SetReadLimit(s.config.WebSocket.MaxMessageSize)
	}

	go s.handleWebSocketConnection(wsConn, clientIP)
}

func (s *Server) handleWebSocketConnection(wsConn *websocket.Conn, clientIP string) {
	client := NewWebSocketClient(wsConn)
	defer func() {
		s.connLimiter.Release(clientIP)
		client.Close()
	}()

	s.handleClient(client)
}

// getRealIP returns the client IP, preferring proxy headers
// (X-Forwarded-For, then X-Real-IP) over the socket address.
func getRealIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		// "client, proxy1, proxy2": the first entry is the original client
		first, _, _ := strings.Cut(xff, ",")
		if clientIP := strings.TrimSpace(first); clientIP != "" {
			return clientIP
		}
	}

	if xri := strings.TrimSpace(r.Header.Get("X-Real-IP")); xri != "" {
		return xri
	}

	return extractIP(r.RemoteAddr)
}

// ActiveSessions returns the number of connected players.
func (s *Server) ActiveSessions() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.clients)
}

// GetUptime returns how long the server has been running.
func (s *Server) GetUptime() time.Duration {
	return time.Since(s.StartTime)
}

// Shutdown stops accepting connections and disconnects every player.
// Safe to call more than once.
func (s *Server) Shutdown() {
	s.shutdownOnce.Do(func() {
		close(s.shutdown)

		s.mu.Lock()
		if s.listener != nil {
			s.listener.Close()
		}
		if s.httpServer != nil {
			s.httpServer.Close()
		}
		clients := make([]Client, 0, len(s.clients))
		for _, c := range s.clients {
			clients = append(clients, c)
		}
		s.mu.Unlock()

		for _, c := range clients {
			c.Close()
		}

		logger.Info("Server shutdown complete", "disconnected", len(clients))
	})
}
