package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/a-h/templ"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/mcdev12/podracer/go/internal/dispatch"
	"github.com/mcdev12/podracer/go/internal/views"
)

var ErrConnectionClosed = errors.New("connection closed")

// Connection is one browser page: a websocket plus the race session behind it
type Connection struct {
	ID      uuid.UUID
	Conn    *websocket.Conn
	Manager *ConnectionManager
	Session Session

	ConnectedAt time.Time

	send      chan []byte
	done      chan struct{}
	ctx       context.Context
	cancel    context.CancelFunc
	closeOnce sync.Once

	mu       sync.Mutex
	lastPing time.Time
}

func newConnection(parent context.Context, conn *websocket.Conn, cm *ConnectionManager) *Connection {
	ctx, cancel := context.WithCancel(parent)
	now := time.Now()
	return &Connection{
		ID:          uuid.New(),
		Conn:        conn,
		Manager:     cm,
		ConnectedAt: now,
		send:        make(chan []byte, cm.config.SendBufferSize),
		done:        make(chan struct{}),
		ctx:         ctx,
		cancel:      cancel,
		lastPing:    now,
	}
}

// RenderAt renders c and sends it to the browser for the target mount point
func (c *Connection) RenderAt(ctx context.Context, target views.MountPoint, comp templ.Component) error {
	html, err := views.RenderString(ctx, comp)
	if err != nil {
		return err
	}

	data, err := json.Marshal(ServerMessage{Type: MessageTypeRender, Target: string(target), HTML: html})
	if err != nil {
		return fmt.Errorf("failed to marshal render message: %w", err)
	}

	select {
	case c.send <- data:
		return nil
	case <-c.done:
		return ErrConnectionClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

// LastPing returns when the browser last answered a ping
func (c *Connection) LastPing() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastPing
}

func (c *Connection) touch() {
	c.mu.Lock()
	c.lastPing = time.Now()
	c.mu.Unlock()
}

// Close stops the session and closes the websocket. Safe to call more than once.
func (c *Connection) Close() {
	c.closeOnce.Do(func() {
		c.cancel()
		close(c.done)
		c.Manager.unregisterConnection(c)
		c.Conn.Close()
	})
}

// writePump handles sending messages to the WebSocket connection
func (c *Connection) writePump() {
	ticker := time.NewTicker(c.Manager.config.PingInterval)
	defer func() {
		ticker.Stop()
		c.Close()
	}()

	for {
		select {
		case message := <-c.send:
			c.Conn.SetWriteDeadline(time.Now().Add(c.Manager.config.WriteTimeout))
			if err := c.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
				log.Error().
					Err(err).
					Str("connection_id", c.ID.String()).
					Msg("failed to write message to WebSocket")
				return
			}

		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(c.Manager.config.WriteTimeout))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				log.Error().
					Err(err).
					Str("connection_id", c.ID.String()).
					Msg("failed to send ping")
				return
			}

		case <-c.done:
			c.Conn.SetWriteDeadline(time.Now().Add(c.Manager.config.WriteTimeout))
			c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
			return
		}
	}
}

// readPump handles reading messages from the WebSocket connection
func (c *Connection) readPump() {
	defer c.Close()

	c.Conn.SetReadLimit(c.Manager.config.MaxMessageSize)
	c.Conn.SetReadDeadline(time.Now().Add(c.Manager.config.ReadTimeout))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(c.Manager.config.ReadTimeout))
		c.touch()
		return nil
	})

	for {
		_, message, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Error().
					Err(err).
					Str("connection_id", c.ID.String()).
					Msg("unexpected WebSocket close error")
			}
			return
		}

		c.handleClientMessage(message)
		c.Conn.SetReadDeadline(time.Now().Add(c.Manager.config.ReadTimeout))
	}
}

// handleClientMessage turns a browser message into a session action
func (c *Connection) handleClientMessage(message []byte) {
	var msg ClientMessage
	if err := json.Unmarshal(message, &msg); err != nil {
		log.Warn().Err(err).Str("connection_id", c.ID.String()).Msg("discarding malformed client message")
		return
	}

	if msg.Type != MessageTypeClick {
		log.Debug().
			Str("connection_id", c.ID.String()).
			Str("type", string(msg.Type)).
			Msg("ignoring client message")
		return
	}

	action := dispatch.Action{Role: msg.Role, ID: msg.ID}
	if err := c.Session.Dispatch(c.ctx, action); err != nil {
		log.Warn().
			Err(err).
			Str("connection_id", c.ID.String()).
			Str("role", msg.Role).
			Str("id", msg.ID).
			Msg("action failed")
	}
}
