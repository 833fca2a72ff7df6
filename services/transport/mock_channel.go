package transport

import "sync"

// RecordedEmit is one send intent captured by the mock channel.
type RecordedEmit struct {
	Name    string
	Payload any
}

// MockChannel substitutes for a live channel when none is discoverable.
// Every send becomes a no-op that only records intent; it must never fail.
type MockChannel struct {
	mu     sync.Mutex
	emits  []RecordedEmit
	rooms  []string
	closed bool
}

// NewMockChannel creates an empty mock channel.
func NewMockChannel() *MockChannel {
	return &MockChannel{}
}

func (c *MockChannel) Connect(cb ChannelCallbacks) error {
	return nil
}

func (c *MockChannel) Emit(name string, payload any) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.emits = append(c.emits, RecordedEmit{Name: name, Payload: payload})
	return nil
}

func (c *MockChannel) Join(room string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.rooms = append(c.rooms, room)
	return nil
}

func (c *MockChannel) Leave(room string) error {
	return nil
}

func (c *MockChannel) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	return nil
}

// Emits returns the recorded send intents, oldest first.
func (c *MockChannel) Emits() []RecordedEmit {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]RecordedEmit, len(c.emits))
	copy(out, c.emits)
	return out
}

// Rooms returns the rooms joined so far.
func (c *MockChannel) Rooms() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]string, len(c.rooms))
	copy(out, c.rooms)
	return out
}
