package transport

import (
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"servicesync/models"
)

// fakeScheduler queues scheduled callbacks until the test fires them. It
// never runs a callback synchronously inside After.
type fakeScheduler struct {
	mu    sync.Mutex
	tasks []*fakeTask
}

type fakeTask struct {
	fn        func()
	cancelled bool
}

func (t *fakeTask) Cancel() { t.cancelled = true }

func (s *fakeScheduler) After(d time.Duration, fn func()) TaskHandle {
	s.mu.Lock()
	defer s.mu.Unlock()
	task := &fakeTask{fn: fn}
	s.tasks = append(s.tasks, task)
	return task
}

// fire runs every queued, uncancelled task once and returns how many ran.
func (s *fakeScheduler) fire() int {
	s.mu.Lock()
	pending := s.tasks
	s.tasks = nil
	s.mu.Unlock()

	ran := 0
	for _, task := range pending {
		if !task.cancelled {
			task.fn()
			ran++
		}
	}
	return ran
}

// scriptedChannel is a controllable live channel for driving the manager.
type scriptedChannel struct {
	mu           sync.Mutex
	connectErr   error
	connectCalls int
	cb           ChannelCallbacks
	emits        []RecordedEmit
	joined       []string
	closed       bool
}

func (c *scriptedChannel) Connect(cb ChannelCallbacks) error {
	c.mu.Lock()
	c.connectCalls++
	c.cb = cb
	err := c.connectErr
	c.mu.Unlock()
	if err != nil {
		return err
	}
	cb.OnConnect()
	return nil
}

func (c *scriptedChannel) Emit(name string, payload any) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.emits = append(c.emits, RecordedEmit{Name: name, Payload: payload})
	return nil
}

func (c *scriptedChannel) Join(room string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.joined = append(c.joined, room)
	return nil
}

func (c *scriptedChannel) Leave(room string) error { return nil }

func (c *scriptedChannel) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	return nil
}

func TestNilFactoryFallsBackToMock(t *testing.T) {
	sched := &fakeScheduler{}
	m := NewManager("hostess-1", nil, sched, NewEventBus(), nil)
	defer m.Close()

	status := m.Status()
	if !status.UsingMock {
		t.Fatal("expected UsingMock before settle")
	}
	if status.Connected {
		t.Fatal("mock must not report connected before the settle delay")
	}

	sched.fire()

	status = m.Status()
	if !status.Connected || !status.UsingMock {
		t.Fatalf("after settle: %+v, want connected mock", status)
	}
	if status.LastConnected == nil {
		t.Fatal("LastConnected should be stamped on settle")
	}
}

func TestEmptyParticipantStaysIdle(t *testing.T) {
	sched := &fakeScheduler{}
	m := NewManager("", nil, sched, NewEventBus(), nil)
	defer m.Close()

	if got := m.Status(); got.Connected || got.Connecting || got.UsingMock {
		t.Fatalf("idle manager has status %+v", got)
	}
	if ran := sched.fire(); ran != 0 {
		t.Fatalf("idle manager scheduled %d tasks", ran)
	}
}

func TestMockEmitsNeverFail(t *testing.T) {
	sched := &fakeScheduler{}
	m := NewManager("hostess-1", nil, sched, NewEventBus(), nil)
	defer m.Close()
	sched.fire()

	for i := 0; i < 3; i++ {
		m.EmitLocation("sess-1", "kitchen_exit")
	}
	if status := m.Status(); status.Err != "" {
		t.Fatalf("mock emit surfaced error %q", status.Err)
	}
}

func TestLiveConnectJoinsIdentityRoom(t *testing.T) {
	ch := &scriptedChannel{}
	factory := func(participantID string) Channel { return ch }
	sched := &fakeScheduler{}
	m := NewManager("hostess-7", factory, sched, NewEventBus(), nil)
	defer m.Close()

	status := m.Status()
	if !status.Connected || status.UsingMock {
		t.Fatalf("status = %+v, want live connected", status)
	}
	if len(ch.joined) != 1 || ch.joined[0] != RoomForUser("hostess-7") {
		t.Fatalf("joined rooms = %v, want identity room", ch.joined)
	}
}

func TestReconnectIsBounded(t *testing.T) {
	ch := &scriptedChannel{connectErr: errors.New("backend down")}
	factory := func(participantID string) Channel { return ch }
	sched := &fakeScheduler{}
	m := NewManager("hostess-1", factory, sched, NewEventBus(), nil)
	defer m.Close()

	// Drain reconnect timers until the manager gives up.
	for i := 0; i < 20; i++ {
		if sched.fire() == 0 {
			break
		}
	}

	status := m.Status()
	if status.Connected || status.Connecting {
		t.Fatalf("status = %+v, want settled failure", status)
	}
	if status.Err == "" {
		t.Fatal("expected an error after exhausting reconnect attempts")
	}
	// Initial attempt plus the bounded retries.
	if ch.connectCalls != reconnectAttempts+1 {
		t.Fatalf("connect called %d times, want %d", ch.connectCalls, reconnectAttempts+1)
	}
}

func TestInboundEventsReachTheBus(t *testing.T) {
	ch := &scriptedChannel{}
	factory := func(participantID string) Channel { return ch }
	bus := NewEventBus()
	m := NewManager("nurse-1", factory, &fakeScheduler{}, bus, nil)
	defer m.Close()

	var got []models.NurseAlertEvent
	bus.Subscribe(models.EventNurseAlert, func(payload any) {
		if e, ok := payload.(models.NurseAlertEvent); ok {
			got = append(got, e)
		}
	})

	for _, count := range []int{8, 9, 10} {
		payload, _ := json.Marshal(models.NurseAlertEvent{MealCount: count, MealType: models.MealLunch, WardID: "ward-3"})
		ch.cb.OnEvent(models.EventNurseAlert, payload)
	}

	if len(got) != 3 {
		t.Fatalf("bus saw %d nurse alerts, want 3", len(got))
	}
	// Delivery follows arrival order on the channel.
	for i, want := range []int{8, 9, 10} {
		if got[i].MealCount != want {
			t.Fatalf("event %d has MealCount %d, want %d", i, got[i].MealCount, want)
		}
	}
	if got[0].WardID != "ward-3" {
		t.Fatalf("decoded event = %+v", got[0])
	}
}

func TestMalformedEventsAreDropped(t *testing.T) {
	ch := &scriptedChannel{}
	factory := func(participantID string) Channel { return ch }
	bus := NewEventBus()
	m := NewManager("nurse-1", factory, &fakeScheduler{}, bus, nil)
	defer m.Close()

	delivered := 0
	bus.Subscribe(models.EventNurseAlert, func(any) { delivered++ })

	ch.cb.OnEvent(models.EventNurseAlert, []byte("{not json"))
	if delivered != 0 {
		t.Fatalf("malformed event was delivered %d times", delivered)
	}
}

func TestCloseCancelsTimersAndSilencesCallbacks(t *testing.T) {
	sched := &fakeScheduler{}
	m := NewManager("hostess-1", nil, sched, NewEventBus(), nil)

	if err := m.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	// The settle timer was pending at close; it must not fire.
	if ran := sched.fire(); ran != 0 {
		t.Fatalf("%d timers fired after Close", ran)
	}
	if status := m.Status(); status.Connected {
		t.Fatal("closed manager reports connected")
	}
}

func TestCloseEmitsLeaveRoomOnLiveChannel(t *testing.T) {
	ch := &scriptedChannel{}
	factory := func(participantID string) Channel { return ch }
	m := NewManager("hostess-9", factory, &fakeScheduler{}, NewEventBus(), nil)

	if err := m.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if !ch.closed {
		t.Fatal("underlying channel was not closed")
	}
	last := ch.emits[len(ch.emits)-1]
	if last.Name != EventLeaveRoom {
		t.Fatalf("last emit = %q, want leave-room notice", last.Name)
	}

	// Late callbacks after Close must not resurrect status.
	ch.cb.OnDisconnect("late")
	if status := m.Status(); status.Err != "" || status.Connecting {
		t.Fatalf("late callback mutated status: %+v", status)
	}
}

func TestStatusListenersObserveTransitions(t *testing.T) {
	sched := &fakeScheduler{}
	m := NewManager("hostess-1", nil, sched, NewEventBus(), nil)
	defer m.Close()

	var seen []Status
	cancel := m.OnStatus(func(s Status) { seen = append(seen, s) })
	sched.fire()
	cancel()

	if len(seen) == 0 {
		t.Fatal("listener saw no transitions")
	}
	final := seen[len(seen)-1]
	if !final.Connected || !final.UsingMock {
		t.Fatalf("final observed status = %+v", final)
	}
}
