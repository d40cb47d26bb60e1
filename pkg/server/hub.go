// Package server exposes the live session over websockets: a Hub that
// tracks connections and relays session events, and the per-client
// Connection pumps.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/tecu23/hex-server/internal/messages"
	"github.com/tecu23/hex-server/pkg/command"
	"github.com/tecu23/hex-server/pkg/events"
	"github.com/tecu23/hex-server/pkg/game"
	"github.com/tecu23/hex-server/pkg/metrics"
	"github.com/tecu23/hex-server/pkg/session"
)

const broadcastBuffer = 256

// HubOption configures a Hub.
type HubOption func(*Hub)

func WithMetrics(mt *metrics.Metrics) HubOption {
	return func(h *Hub) { h.metrics = mt }
}

// WithClockInterval sets how often CLOCK_UPDATE is broadcast while a timed
// game is active. Zero disables it.
func WithClockInterval(d time.Duration) HubOption {
	return func(h *Hub) { h.clockInterval = d }
}

// Hub keeps track of all active connections. Commands read from a
// connection go to the seated player of the same name; session events
// published by the manager are broadcast to every connection.
type Hub struct {
	mu          sync.RWMutex         // Mutex to protect direct access to the connections map.
	connections map[*Connection]bool // Registered connections

	register   chan *Connection // Incoming registration
	unregister chan *Connection // Incoming unregistration
	broadcast  chan []byte      // Channel to broadcast to everyone

	env       *session.Environment
	publisher *events.Publisher
	metrics   *metrics.Metrics
	logger    *zap.Logger

	clockInterval time.Duration
	subs          []events.SubscriptionID

	done     chan struct{}
	shutOnce sync.Once
}

// NewHub creates a new hub and subscribes it to the session events of
// publisher.
func NewHub(env *session.Environment, publisher *events.Publisher, logger *zap.Logger, opts ...HubOption) *Hub {
	if logger == nil {
		logger = zap.NewNop()
	}
	h := &Hub{
		connections:   make(map[*Connection]bool),
		register:      make(chan *Connection),
		unregister:    make(chan *Connection),
		broadcast:     make(chan []byte, broadcastBuffer),
		env:           env,
		publisher:     publisher,
		logger:        logger,
		clockInterval: time.Second,
		done:          make(chan struct{}),
	}
	for _, opt := range opts {
		opt(h)
	}

	h.subs = []events.SubscriptionID{
		publisher.Subscribe(events.EventCommandExecuted, h.onCommandExecuted),
		publisher.Subscribe(events.EventGameFinished, h.onGameFinished),
		publisher.Subscribe(events.EventSessionLoaded, h.onSessionLoaded),
	}
	return h
}

// Run is the main execution of the hub. It returns after Shutdown.
func (h *Hub) Run() {
	var tick <-chan time.Time
	if h.clockInterval > 0 {
		ticker := time.NewTicker(h.clockInterval)
		defer ticker.Stop()
		tick = ticker.C
	}

	for {
		select {
		case conn := <-h.register:
			h.registerConnection(conn)

		case conn := <-h.unregister:
			h.unregisterConnection(conn)

		case msg := <-h.broadcast:
			h.fanOut(msg)

		case <-tick:
			h.broadcastClock()

		case <-h.done:
			h.closeAll()
			return
		}
	}
}

// Shutdown unsubscribes the hub and closes every connection.
func (h *Hub) Shutdown() {
	h.shutOnce.Do(func() {
		for _, id := range h.subs {
			h.publisher.Unsubscribe(id)
		}
		close(h.done)
	})
}

// Serve wraps an upgraded socket in a Connection for player, registers it
// and starts its pumps.
func (h *Hub) Serve(ws *websocket.Conn, player string) *Connection {
	conn := NewConnection(ws, h, player, h.logger)
	h.Register(conn)
	go conn.WritePump()
	go conn.ReadPump()
	return conn
}

func (h *Hub) Register(conn *Connection) {
	select {
	case h.register <- conn:
	case <-h.done:
		close(conn.send)
	}
}

func (h *Hub) Unregister(conn *Connection) {
	select {
	case h.unregister <- conn:
	case <-h.done:
	}
}

// Len returns the number of registered connections.
func (h *Hub) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.connections)
}

func (h *Hub) registerConnection(conn *Connection) {
	h.mu.Lock()
	h.connections[conn] = true
	count := len(h.connections)
	h.mu.Unlock()

	h.metrics.ConnectionOpened()
	h.logger.Info("connection registered",
		zap.String("connection_id", conn.ID.String()),
		zap.String("player", conn.Player),
		zap.Int("connections", count),
	)

	payload := messages.ConnectedPayload{
		ConnectionID: conn.ID.String(),
		Player:       conn.Player,
	}
	m := h.env.Manager()
	if m != nil {
		payload.SessionID = m.ID().String()
	}
	conn.SendJSON(messages.OutboundMessage{Event: messages.EventConnected, Payload: payload})

	if m != nil {
		conn.SendJSON(messages.OutboundMessage{
			Event:   messages.EventGameState,
			Payload: messages.NewGameState(m.Snapshot()),
		})
	}
}

func (h *Hub) unregisterConnection(conn *Connection) {
	h.mu.Lock()
	_, ok := h.connections[conn]
	if ok {
		h.drop(conn)
	}
	count := len(h.connections)
	h.mu.Unlock()

	if !ok {
		return
	}
	h.logger.Info("connection unregistered",
		zap.String("connection_id", conn.ID.String()),
		zap.Int("connections", count),
	)
	h.publisher.Publish(events.Event{
		Type: events.EventConnectionClosed,
		Payload: map[string]string{
			"connection_id": conn.ID.String(),
			"player":        conn.Player,
		},
	})
}

// drop removes conn. Callers hold h.mu.
func (h *Hub) drop(conn *Connection) {
	delete(h.connections, conn)
	close(conn.send)
	h.metrics.ConnectionClosed()
}

func (h *Hub) fanOut(msg []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for conn := range h.connections {
		select {
		case conn.send <- msg:
		default:
			h.logger.Warn("dropping slow connection", zap.String("connection_id", conn.ID.String()))
			h.drop(conn)
		}
	}
}

func (h *Hub) sendTo(conn *Connection, msg []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if !h.connections[conn] {
		return
	}
	select {
	case conn.send <- msg:
	default:
		h.logger.Warn("send buffer full, message dropped", zap.String("connection_id", conn.ID.String()))
	}
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for conn := range h.connections {
		h.drop(conn)
	}
}

// Broadcast queues msg for every connection.
func (h *Hub) Broadcast(msg messages.OutboundMessage) {
	data, err := json.Marshal(msg)
	if err != nil {
		h.logger.Error("error marshaling broadcast", zap.String("event", msg.Event), zap.Error(err))
		return
	}
	select {
	case h.broadcast <- data:
	case <-h.done:
	default:
		h.logger.Warn("broadcast buffer full, message dropped", zap.String("event", msg.Event))
	}
}

func (h *Hub) broadcastClock() {
	if h.Len() == 0 {
		return
	}
	m := h.env.Manager()
	if m == nil {
		return
	}
	snap := m.Snapshot()
	if !snap.Timed || snap.State != game.Active || snap.ClockErr != nil {
		return
	}
	h.Broadcast(messages.OutboundMessage{
		Event:   messages.EventClockUpdate,
		Payload: messages.NewClockUpdate(snap),
	})
}

func (h *Hub) onCommandExecuted(e events.Event) {
	n, ok := e.Payload.(session.Notification)
	if !ok {
		return
	}
	h.Broadcast(messages.OutboundMessage{
		Event:   messages.EventCommandResult,
		Payload: messages.NewCommandResult(n),
	})
}

func (h *Hub) onGameFinished(e events.Event) {
	snap, ok := e.Payload.(session.Snapshot)
	if !ok {
		return
	}
	h.Broadcast(messages.OutboundMessage{
		Event: messages.EventGameOver,
		Payload: messages.GameOverPayload{
			Reason: snap.EndReason.String(),
			Winner: snap.WinnerName,
		},
	})
}

func (h *Hub) onSessionLoaded(e events.Event) {
	m, ok := e.Payload.(*session.Manager)
	if !ok {
		return
	}
	h.Broadcast(messages.OutboundMessage{
		Event:   messages.EventGameState,
		Payload: messages.NewGameState(m.Snapshot()),
	})
}

// handleInbound decodes one client message and routes it. Game commands
// are submitted through the seated player matching the connection; their
// outcome reaches every client as COMMAND_RESULT.
func (h *Hub) handleInbound(ctx context.Context, conn *Connection, msg messages.InboundMessage) {
	switch msg.Type {
	case messages.TypeGetState:
		m := h.env.Manager()
		if m == nil {
			conn.SendError(session.ErrNoEnvironment.Error())
			return
		}
		conn.SendJSON(messages.OutboundMessage{
			Event:   messages.EventGameState,
			Payload: messages.NewGameState(m.Snapshot()),
		})

	case messages.TypeMakeMove:
		var payload messages.MakeMovePayload
		if err := json.Unmarshal(msg.Payload, &payload); err != nil || payload.X == nil || payload.Y == nil {
			conn.SendError("Invalid MAKE_MOVE payload")
			return
		}
		h.submit(ctx, conn, command.NewMove(conn.Player, *payload.X, *payload.Y))

	case messages.TypePause:
		h.submit(ctx, conn, command.NewPause(conn.Player))

	case messages.TypeResume:
		h.submit(ctx, conn, command.NewResume(conn.Player))

	case messages.TypeResign:
		h.submit(ctx, conn, command.NewResign(conn.Player))

	default:
		conn.SendError(fmt.Sprintf("Unknown message type %q", msg.Type))
	}
}

func (h *Hub) submit(ctx context.Context, conn *Connection, cmd command.Command) {
	p, ok := h.env.Player(conn.Player)
	if !ok {
		conn.SendError(fmt.Sprintf("%s is not seated in the current session", conn.Player))
		return
	}
	if err := p.Submit(ctx, cmd); err != nil {
		h.logger.Debug("submit failed",
			zap.String("connection_id", conn.ID.String()),
			zap.String("kind", string(cmd.Kind())),
			zap.Error(err),
		)
		conn.SendError(err.Error())
	}
}
