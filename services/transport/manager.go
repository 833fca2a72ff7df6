// Package transport supplies the per-identity realtime event channel used
// for cross-participant notifications, degrading to a deterministic local
// mock when no live channel implementation is available.
package transport

import (
	"fmt"
	"sync"
	"time"

	"servicesync/models"

	"go.uber.org/zap"
)

// Bounded reconnect policy and mock settle delay. Fixed constants, not
// exponential, matching the channel's built-in policy.
const (
	reconnectAttempts = 5
	reconnectDelay    = time.Second
	mockSettleDelay   = time.Second
)

// EventLeaveRoom is the teardown notice emitted before closing a live
// channel.
const EventLeaveRoom = "leaveRoom"

// Status is the connection status signal exposed to consumers.
type Status struct {
	Connected     bool       `json:"connected"`
	Connecting    bool       `json:"connecting"`
	Err           string     `json:"error,omitempty"`
	LastConnected *time.Time `json:"lastConnected,omitempty"`
	UsingMock     bool       `json:"usingMock"`
}

// Manager owns one live-or-mocked channel for a participant identity.
// A released manager never fires another callback or mutates consumer state.
type Manager struct {
	participantID string
	sched         Scheduler
	bus           *EventBus
	log           *zap.Logger

	mu        sync.Mutex
	status    Status
	ch        Channel
	attempts  int
	released  bool
	timers    []TaskHandle
	listeners []func(Status)
}

// NewManager constructs a manager for participantID and starts connecting.
// An empty participantID yields a manager that never attempts connection.
// Construction never panics or returns an error: initialization failures
// surface as an Error status with UsingMock set.
func NewManager(participantID string, factory ChannelFactory, sched Scheduler, bus *EventBus, log *zap.Logger) *Manager {
	if sched == nil {
		sched = NewScheduler()
	}
	if bus == nil {
		bus = NewEventBus()
	}
	if log == nil {
		log = zap.NewNop()
	}
	m := &Manager{
		participantID: participantID,
		sched:         sched,
		bus:           bus,
		log:           log,
	}

	if participantID == "" {
		m.log.Debug("transport: no participant id, staying idle")
		return m
	}

	defer func() {
		if r := recover(); r != nil {
			m.log.Error("transport: channel init failed", zap.Any("panic", r))
			m.mu.Lock()
			m.status = Status{Err: fmt.Sprintf("transport init failed: %v", r), UsingMock: true}
			m.mu.Unlock()
			m.enterMock()
		}
	}()

	var ch Channel
	if factory != nil {
		ch = factory(participantID)
	}
	if ch == nil {
		m.log.Info("transport: no live channel available, using mock",
			zap.String("participant", participantID))
		m.enterMock()
		return m
	}

	m.mu.Lock()
	m.ch = ch
	m.status = Status{Connecting: true}
	m.mu.Unlock()
	m.connect()
	return m
}

// Bus returns the process-wide event bus inbound events are broadcast on.
func (m *Manager) Bus() *EventBus {
	return m.bus
}

// Status returns the current connection status.
func (m *Manager) Status() Status {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.status
}

// OnStatus registers a listener for status changes and returns a cancel
// func. The listener is invoked outside the manager's lock.
func (m *Manager) OnStatus(fn func(Status)) (cancel func()) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.listeners = append(m.listeners, fn)
	idx := len(m.listeners) - 1
	return func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		m.listeners[idx] = nil
	}
}

func (m *Manager) notify() {
	m.mu.Lock()
	status := m.status
	listeners := make([]func(Status), 0, len(m.listeners))
	for _, fn := range m.listeners {
		if fn != nil {
			listeners = append(listeners, fn)
		}
	}
	m.mu.Unlock()
	for _, fn := range listeners {
		fn(status)
	}
}

func (m *Manager) schedule(d time.Duration, fn func()) {
	m.mu.Lock()
	if m.released {
		m.mu.Unlock()
		return
	}
	handle := m.sched.After(d, fn)
	m.timers = append(m.timers, handle)
	m.mu.Unlock()
}

// enterMock swaps in the mock channel and schedules the settle transition
// to a connected-equivalent state.
func (m *Manager) enterMock() {
	m.mu.Lock()
	if m.released {
		m.mu.Unlock()
		return
	}
	m.ch = NewMockChannel()
	m.status.UsingMock = true
	m.status.Connecting = false
	m.mu.Unlock()
	m.notify()

	m.schedule(mockSettleDelay, func() {
		m.mu.Lock()
		if m.released {
			m.mu.Unlock()
			return
		}
		now := time.Now()
		m.status.Connected = true
		m.status.LastConnected = &now
		m.mu.Unlock()
		m.log.Debug("transport: mock channel settled")
		m.notify()
	})
}

func (m *Manager) connect() {
	m.mu.Lock()
	if m.released {
		m.mu.Unlock()
		return
	}
	ch := m.ch
	m.mu.Unlock()

	err := ch.Connect(ChannelCallbacks{
		OnConnect:    m.handleConnect,
		OnDisconnect: m.handleDisconnect,
		OnError:      m.handleError,
		OnEvent:      m.handleEvent,
	})
	if err != nil {
		m.handleError(err)
		m.scheduleReconnect()
	}
}

func (m *Manager) handleConnect() {
	m.mu.Lock()
	if m.released {
		m.mu.Unlock()
		return
	}
	now := time.Now()
	m.status.Connected = true
	m.status.Connecting = false
	m.status.Err = ""
	m.status.LastConnected = &now
	m.attempts = 0
	ch := m.ch
	m.mu.Unlock()

	m.log.Info("transport: connected", zap.String("participant", m.participantID))
	if err := ch.Join(RoomForUser(m.participantID)); err != nil {
		m.log.Warn("transport: failed to join identity room", zap.Error(err))
	}
	m.notify()
}

func (m *Manager) handleDisconnect(reason string) {
	m.mu.Lock()
	if m.released {
		m.mu.Unlock()
		return
	}
	m.status.Connected = false
	m.mu.Unlock()

	m.log.Warn("transport: disconnected", zap.String("reason", reason))
	m.notify()
	m.scheduleReconnect()
}

func (m *Manager) handleError(err error) {
	m.mu.Lock()
	if m.released {
		m.mu.Unlock()
		return
	}
	m.status.Connected = false
	m.status.Connecting = false
	m.status.Err = err.Error()
	m.mu.Unlock()

	m.log.Warn("transport: channel error", zap.Error(err))
	m.notify()
}

// handleEvent decodes an inbound event and broadcasts it process-wide.
// Delivery order follows arrival order on this manager's channel.
func (m *Manager) handleEvent(name string, payload []byte) {
	m.mu.Lock()
	if m.released {
		m.mu.Unlock()
		return
	}
	m.mu.Unlock()

	decoded, err := DecodeEvent(name, payload)
	if err != nil {
		m.log.Warn("transport: dropping malformed event",
			zap.String("event", name), zap.Error(err))
		return
	}
	m.bus.Publish(name, decoded)
}

func (m *Manager) scheduleReconnect() {
	m.mu.Lock()
	if m.released || m.status.UsingMock {
		m.mu.Unlock()
		return
	}
	m.attempts++
	if m.attempts > reconnectAttempts {
		m.status.Connecting = false
		if m.status.Err == "" {
			m.status.Err = "reconnect attempts exhausted"
		}
		m.mu.Unlock()
		m.notify()
		return
	}
	m.status.Connecting = true
	m.mu.Unlock()
	m.notify()

	m.schedule(reconnectDelay, m.connect)
}

// EmitLocation sends a location update for the session. It is a no-op when
// not connected; in mock mode the intent is only recorded and never fails.
func (m *Manager) EmitLocation(sessionID, location string) {
	m.mu.Lock()
	ch := m.ch
	status := m.status
	released := m.released
	m.mu.Unlock()

	if released || ch == nil || !status.Connected {
		return
	}
	if status.UsingMock {
		m.log.Debug("transport: mock would emit location",
			zap.String("session", sessionID), zap.String("location", location))
	}
	err := ch.Emit(models.EventHostessLocation, models.HostessLocationEvent{
		HostessID: m.participantID,
		SessionID: sessionID,
		Location:  location,
		Timestamp: time.Now(),
	})
	if err != nil {
		m.log.Warn("transport: emit location failed", zap.Error(err))
	}
}

// JoinRoom re-addresses the channel to an additional scope. No-op when not
// connected or in mock mode.
func (m *Manager) JoinRoom(roomID string) {
	m.mu.Lock()
	ch := m.ch
	status := m.status
	released := m.released
	m.mu.Unlock()

	if released || ch == nil || status.UsingMock || !status.Connected {
		return
	}
	if err := ch.Join(roomID); err != nil {
		m.log.Warn("transport: join room failed",
			zap.String("room", roomID), zap.Error(err))
		return
	}
	m.log.Debug("transport: joined room", zap.String("room", roomID))
}

// Close releases the manager: leave-room notice on a live channel, then
// close, cancel every pending timer and drop all listeners. No inbound
// callback fires after Close returns.
func (m *Manager) Close() error {
	m.mu.Lock()
	if m.released {
		m.mu.Unlock()
		return nil
	}
	m.released = true
	ch := m.ch
	usingMock := m.status.UsingMock
	timers := m.timers
	m.timers = nil
	m.listeners = nil
	m.status = Status{UsingMock: usingMock}
	m.mu.Unlock()

	for _, t := range timers {
		t.Cancel()
	}

	if ch == nil {
		return nil
	}
	if !usingMock {
		if err := ch.Emit(EventLeaveRoom, RoomForUser(m.participantID)); err != nil {
			m.log.Debug("transport: leave-room notice failed", zap.Error(err))
		}
	}
	return ch.Close()
}
