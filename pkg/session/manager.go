// Package session runs one live game: a FIFO of commands drained by a
// single loop, observers notified after every command, and the players
// and environment around it.
package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/tecu23/hex-server/pkg/command"
	"github.com/tecu23/hex-server/pkg/events"
	"github.com/tecu23/hex-server/pkg/game"
	"github.com/tecu23/hex-server/pkg/metrics"
)

var (
	ErrAlreadyRunning = errors.New("session manager is already running")
	ErrNilCommand     = errors.New("nil command")
	ErrNotAttached    = errors.New("player is not attached to a session")
	ErrWrongPlayer    = errors.New("command belongs to another player")
	ErrNoEnvironment  = errors.New("no active session")
)

// Default player names used when a session is created without them.
const (
	DefaultBlueName = "BluePlayer"
	DefaultRedName  = "RedPlayer"

	DefaultQueueCapacity = 64
)

// Observer is notified once per executed command, in attachment order.
type Observer interface {
	Update(cmd command.Command, res command.Result)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(cmd command.Command, res command.Result)

func (f ObserverFunc) Update(cmd command.Command, res command.Result) { f(cmd, res) }

// ObserverID identifies an attached observer.
type ObserverID = events.SubscriptionID

// Notification is the payload of EventCommandExecuted.
type Notification struct {
	Command  command.Command
	Result   command.Result
	Snapshot Snapshot
}

// Option configures a Manager.
type Option func(*Manager)

func WithLogger(logger *zap.Logger) Option {
	return func(m *Manager) {
		if logger != nil {
			m.logger = logger
		}
	}
}

func WithMetrics(mt *metrics.Metrics) Option {
	return func(m *Manager) { m.metrics = mt }
}

// WithPublisher shares a publisher between sessions, e.g. with a transport
// that listens to every session.
func WithPublisher(p *events.Publisher) Option {
	return func(m *Manager) {
		if p != nil {
			m.publisher = p
		}
	}
}

func WithQueueCapacity(n int) Option {
	return func(m *Manager) {
		if n > 0 {
			m.capacity = n
		}
	}
}

// Manager owns one game and serializes every command against it. Commands
// are executed by Run under the write lock; observers are notified after
// the lock is released and before the next command is dequeued.
type Manager struct {
	id uuid.UUID

	mu      sync.RWMutex
	match   game.Match
	players command.Players

	capacity int
	queue    chan command.Command

	runMu   sync.Mutex
	running bool
	stop    chan struct{}

	obsMu     sync.Mutex
	observers map[ObserverID]struct{}

	publisher *events.Publisher
	logger    *zap.Logger
	metrics   *metrics.Metrics
}

// NewManager creates a stopped manager around match. Empty names fall
// back to DefaultBlueName and DefaultRedName.
func NewManager(match game.Match, players command.Players, opts ...Option) *Manager {
	if players.Blue == "" {
		players.Blue = DefaultBlueName
	}
	if players.Red == "" {
		players.Red = DefaultRedName
	}

	m := &Manager{
		id:        uuid.New(),
		match:     match,
		players:   players,
		capacity:  DefaultQueueCapacity,
		observers: make(map[ObserverID]struct{}),
		logger:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.publisher == nil {
		m.publisher = events.NewPublisher(m.logger)
	}
	m.queue = make(chan command.Command, m.capacity)
	m.logger = m.logger.With(zap.String("session_id", m.id.String()))
	return m
}

func (m *Manager) ID() uuid.UUID { return m.id }

// Players returns the names bound to each color.
func (m *Manager) Players() command.Players { return m.players }

// Publisher returns the publisher notifications go through.
func (m *Manager) Publisher() *events.Publisher { return m.publisher }

// CurrentPlayerName is the name of the player on turn.
func (m *Manager) CurrentPlayerName() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.players.NameOf(m.match.CurrentPlayer())
}

// Pending returns the number of queued commands.
func (m *Manager) Pending() int { return len(m.queue) }

// Enqueue appends cmd to the FIFO. It is safe for concurrent producers and
// blocks only while the queue is full.
func (m *Manager) Enqueue(ctx context.Context, cmd command.Command) error {
	if cmd == nil {
		return ErrNilCommand
	}
	select {
	case m.queue <- cmd:
		m.metrics.SetQueueDepth(len(m.queue))
		m.logger.Debug("command queued",
			zap.String("command_id", cmd.ID().String()),
			zap.String("kind", string(cmd.Kind())),
			zap.String("player", cmd.Player()),
		)
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Run drains the queue until Stop is called or ctx is done. Only one Run
// may be active at a time. A command already dequeued always completes
// and is notified.
func (m *Manager) Run(ctx context.Context) error {
	m.runMu.Lock()
	if m.running {
		m.runMu.Unlock()
		return ErrAlreadyRunning
	}
	m.running = true
	stop := make(chan struct{})
	m.stop = stop
	m.runMu.Unlock()

	defer func() {
		m.runMu.Lock()
		m.running = false
		m.stop = nil
		m.runMu.Unlock()
	}()

	m.logger.Info("session manager started")
	for {
		select {
		case <-ctx.Done():
			m.logger.Info("session manager stopped", zap.Error(ctx.Err()))
			return ctx.Err()
		case <-stop:
			m.logger.Info("session manager stopped")
			return nil
		case cmd := <-m.queue:
			m.process(cmd)
		}
	}
}

// Stop ends a running loop after the command in flight. Queued commands
// stay queued for the next Run.
func (m *Manager) Stop() {
	m.runMu.Lock()
	defer m.runMu.Unlock()
	if m.stop != nil {
		close(m.stop)
		m.stop = nil
	}
}

// Running reports whether Run is active.
func (m *Manager) Running() bool {
	m.runMu.Lock()
	defer m.runMu.Unlock()
	return m.running
}

func (m *Manager) process(cmd command.Command) {
	start := time.Now()

	m.mu.Lock()
	wasOver := m.match.IsOver()
	res := cmd.Execute(m.match, m.players)
	finished := !wasOver && m.match.IsOver()
	snap := m.snapshotLocked()
	m.mu.Unlock()

	took := time.Since(start)
	m.metrics.ObserveCommand(string(cmd.Kind()), res.Success, took)
	m.metrics.SetQueueDepth(len(m.queue))

	fields := []zap.Field{
		zap.String("command_id", cmd.ID().String()),
		zap.String("kind", string(cmd.Kind())),
		zap.String("player", cmd.Player()),
		zap.Duration("took", took),
	}
	if res.Success {
		m.logger.Debug("command executed", append(fields, zap.String("data", res.Data))...)
	} else {
		m.logger.Info("command failed", append(fields, zap.Error(res.Err))...)
	}

	m.publisher.Publish(events.Event{
		Type:      events.EventCommandExecuted,
		SessionID: m.id.String(),
		Payload:   Notification{Command: cmd, Result: res, Snapshot: snap},
	})

	if finished {
		m.metrics.GameFinished(snap.EndReason.String())
		m.logger.Info("game finished",
			zap.Stringer("reason", snap.EndReason),
			zap.String("winner", snap.WinnerName),
		)
		m.publisher.Publish(events.Event{
			Type:      events.EventGameFinished,
			SessionID: m.id.String(),
			Payload:   snap,
		})
	}
}

// Attach registers o for command notifications of this session.
func (m *Manager) Attach(o Observer) ObserverID {
	sessionID := m.id.String()
	id := m.publisher.Subscribe(events.EventCommandExecuted, func(e events.Event) {
		if e.SessionID != sessionID {
			return
		}
		n, ok := e.Payload.(Notification)
		if !ok {
			return
		}
		o.Update(n.Command, n.Result)
	})

	m.obsMu.Lock()
	m.observers[id] = struct{}{}
	m.obsMu.Unlock()
	return id
}

// Detach removes an observer. It reports whether id was attached here.
func (m *Manager) Detach(id ObserverID) bool {
	m.obsMu.Lock()
	_, ok := m.observers[id]
	delete(m.observers, id)
	m.obsMu.Unlock()

	if !ok {
		return false
	}
	return m.publisher.Unsubscribe(id)
}

// Observers returns the number of attached observers.
func (m *Manager) Observers() int {
	m.obsMu.Lock()
	defer m.obsMu.Unlock()
	return len(m.observers)
}

// Inspect runs fn with the game under the read lock. fn must not mutate
// the game nor call back into the manager's write side.
func (m *Manager) Inspect(fn func(game.Match)) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	fn(m.match)
}

// Snapshot returns a consistent copy of the game's observable state.
func (m *Manager) Snapshot() Snapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.snapshotLocked()
}

// currentMatch exposes the game for Environment.Export.
func (m *Manager) currentMatch() game.Match {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.match
}
