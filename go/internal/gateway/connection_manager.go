package gateway

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/mcdev12/podracer/go/internal/views"
)

// ConnectionManager owns every open page session
type ConnectionManager struct {
	connections map[uuid.UUID]*Connection
	mu          sync.RWMutex

	upgrader websocket.Upgrader
	config   ConnectionConfig
	sessions SessionFactory
}

// ConnectionConfig holds configuration for WebSocket connections
type ConnectionConfig struct {
	WriteTimeout    time.Duration
	ReadTimeout     time.Duration
	PingInterval    time.Duration
	MaxMessageSize  int64
	ReadBufferSize  int
	WriteBufferSize int
	SendBufferSize  int
	CheckOrigin     func(r *http.Request) bool
}

// DefaultConnectionConfig returns default WebSocket configuration
func DefaultConnectionConfig() ConnectionConfig {
	return ConnectionConfig{
		WriteTimeout:    10 * time.Second,
		ReadTimeout:     60 * time.Second,
		PingInterval:    30 * time.Second,
		MaxMessageSize:  1024,
		ReadBufferSize:  1024,
		WriteBufferSize: 4096,
		SendBufferSize:  256,
		CheckOrigin: func(r *http.Request) bool {
			return true
		},
	}
}

// NewConnectionManager creates a new WebSocket connection manager
func NewConnectionManager(config ConnectionConfig, sessions SessionFactory) *ConnectionManager {
	return &ConnectionManager{
		connections: make(map[uuid.UUID]*Connection),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  config.ReadBufferSize,
			WriteBufferSize: config.WriteBufferSize,
			CheckOrigin:     config.CheckOrigin,
		},
		config:   config,
		sessions: sessions,
	}
}

// UpgradeConnection upgrades an HTTP connection to WebSocket and starts a fresh race session on it
func (cm *ConnectionManager) UpgradeConnection(parent context.Context, w http.ResponseWriter, r *http.Request) (*Connection, error) {
	conn, err := cm.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to upgrade connection: %w", err)
	}

	connection := newConnection(parent, conn, cm)
	connection.Session = cm.sessions(connection.ID, views.Mounter(connection))

	cm.registerConnection(connection)

	go connection.writePump()
	go connection.readPump()
	go connection.Session.Load(connection.ctx)

	log.Info().
		Str("connection_id", connection.ID.String()).
		Str("remote_addr", r.RemoteAddr).
		Msg("WebSocket connection established")

	return connection, nil
}

func (cm *ConnectionManager) registerConnection(conn *Connection) {
	cm.mu.Lock()
	defer cm.mu.Unlock()

	cm.connections[conn.ID] = conn

	log.Debug().
		Str("connection_id", conn.ID.String()).
		Int("total_connections", len(cm.connections)).
		Msg("connection registered")
}

func (cm *ConnectionManager) unregisterConnection(conn *Connection) {
	cm.mu.Lock()
	defer cm.mu.Unlock()

	if _, exists := cm.connections[conn.ID]; exists {
		delete(cm.connections, conn.ID)
		log.Info().
			Str("connection_id", conn.ID.String()).
			Dur("connected_for", time.Since(conn.ConnectedAt)).
			Msg("connection unregistered")
	}
}

// Count returns the number of open connections
func (cm *ConnectionManager) Count() int {
	cm.mu.RLock()
	defer cm.mu.RUnlock()
	return len(cm.connections)
}

// CloseAll closes every open connection
func (cm *ConnectionManager) CloseAll() {
	cm.mu.RLock()
	open := make([]*Connection, 0, len(cm.connections))
	for _, conn := range cm.connections {
		open = append(open, conn)
	}
	cm.mu.RUnlock()

	for _, conn := range open {
		conn.Close()
	}
}

// ConnectionStats describes the open sessions
type ConnectionStats struct {
	TotalConnections int              `json:"total_connections"`
	Phases           map[string]int   `json:"phases"`
	Connections      []ConnectionInfo `json:"connections"`
}

// ConnectionInfo describes one open session
type ConnectionInfo struct {
	ID          string    `json:"id"`
	Phase       string    `json:"phase"`
	ConnectedAt time.Time `json:"connected_at"`
	LastPing    time.Time `json:"last_ping"`
}

// GetConnectionStats returns statistics about active connections
func (cm *ConnectionManager) GetConnectionStats() ConnectionStats {
	cm.mu.RLock()
	defer cm.mu.RUnlock()

	stats := ConnectionStats{
		TotalConnections: len(cm.connections),
		Phases:           make(map[string]int),
		Connections:      make([]ConnectionInfo, 0, len(cm.connections)),
	}
	for _, conn := range cm.connections {
		info := ConnectionInfo{
			ID:          conn.ID.String(),
			ConnectedAt: conn.ConnectedAt,
			LastPing:    conn.LastPing(),
		}
		if conn.Session != nil {
			info.Phase = conn.Session.Phase().String()
			stats.Phases[info.Phase]++
		}
		stats.Connections = append(stats.Connections, info)
	}
	return stats
}
