package notification

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"servicesync/models"
	"servicesync/services/transport"
)

// fakeScheduler queues callbacks until fired so tests control the clock.
// Callbacks must never run inside After: the dispatcher schedules while
// holding its own lock.
type fakeScheduler struct {
	mu    sync.Mutex
	tasks []*fakeTask
}

type fakeTask struct {
	fn        func()
	cancelled bool
}

func (t *fakeTask) Cancel() { t.cancelled = true }

func (s *fakeScheduler) After(d time.Duration, fn func()) transport.TaskHandle {
	s.mu.Lock()
	defer s.mu.Unlock()
	task := &fakeTask{fn: fn}
	s.tasks = append(s.tasks, task)
	return task
}

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

func emergency(n int) models.EmergencyAlertEvent {
	return models.EmergencyAlertEvent{
		Type:        "fire",
		Description: fmt.Sprintf("drill %d", n),
		Location:    "west wing",
	}
}

func TestRoleFilterForHostess(t *testing.T) {
	d := NewDispatcher(models.RoleHostess, nil, &fakeScheduler{}, nil, nil)
	defer d.Close()

	d.HandleEvent(models.EventNurseAlert, models.NurseAlertEvent{MealCount: 5, MealType: models.MealLunch, WardID: "ward-2"})
	d.HandleEvent(models.EventSessionStarted, models.SessionStartedEvent{HostessID: "h1", WardID: "ward-2"})
	d.HandleEvent(models.EventEmergencyAlert, emergency(1))
	d.HandleEvent(models.EventNurseResponse, models.NurseResponseEvent{NurseID: "n9"})

	items := d.Notifications()
	if len(items) != 2 {
		t.Fatalf("hostess sees %d notifications, want 2", len(items))
	}
	// Newest first.
	if items[0].Type != models.NotifNurseAlert || items[1].Type != models.NotifEmergency {
		t.Fatalf("unexpected order: %s then %s", items[0].Type, items[1].Type)
	}
}

func TestRoleFilterForNurseAndAdmin(t *testing.T) {
	nurse := NewDispatcher(models.RoleNurse, nil, &fakeScheduler{}, nil, nil)
	defer nurse.Close()
	admin := NewDispatcher(models.RoleAdmin, nil, &fakeScheduler{}, nil, nil)
	defer admin.Close()

	alert := models.NurseAlertEvent{MealCount: 5, MealType: models.MealSupper, WardID: "ward-4"}
	started := models.SessionStartedEvent{HostessID: "h2", WardID: "ward-4"}

	for _, d := range []*Dispatcher{nurse, admin} {
		d.HandleEvent(models.EventNurseAlert, alert)
		d.HandleEvent(models.EventSessionStarted, started)
	}

	if got := nurse.Notifications(); len(got) != 1 || got[0].Type != models.NotifNurseAlert {
		t.Fatalf("nurse notifications = %+v", got)
	}
	if got := admin.Notifications(); len(got) != 1 || got[0].Type != models.NotifSessionUpdate {
		t.Fatalf("admin notifications = %+v", got)
	}
}

func TestNurseAlertMessageFormat(t *testing.T) {
	d := NewDispatcher(models.RoleNurse, nil, &fakeScheduler{}, nil, nil)
	defer d.Close()

	d.HandleEvent(models.EventNurseAlert, models.NurseAlertEvent{MealCount: 7, MealType: models.MealBreakfast, WardID: "Ward 3B"})

	items := d.Notifications()
	if len(items) != 1 {
		t.Fatalf("got %d notifications, want 1", len(items))
	}
	want := "7 breakfast meals ready at Ward 3B"
	if items[0].Message != want {
		t.Fatalf("message = %q, want %q", items[0].Message, want)
	}
	if items[0].Priority != models.PriorityHigh {
		t.Fatalf("priority = %s, want high", items[0].Priority)
	}
}

func TestHistoryBoundKeepsNewestTen(t *testing.T) {
	sched := &fakeScheduler{}
	d := NewDispatcher(models.RoleAdmin, nil, sched, nil, nil)
	defer d.Close()

	for i := 1; i <= 11; i++ {
		d.HandleEvent(models.EventEmergencyAlert, emergency(i))
	}

	items := d.Notifications()
	if len(items) != 10 {
		t.Fatalf("history holds %d items, want 10", len(items))
	}
	// Oldest entry (drill 1) was evicted; newest (drill 11) leads.
	if items[0].Message != "fire: drill 11 at west wing" {
		t.Fatalf("newest message = %q", items[0].Message)
	}
	if items[9].Message != "fire: drill 2 at west wing" {
		t.Fatalf("oldest retained message = %q", items[9].Message)
	}
	if got := d.UnreadCount(); got != 10 {
		t.Fatalf("unread = %d, want 10 after eviction accounting", got)
	}
}

func TestLowPriorityAutoDismiss(t *testing.T) {
	sched := &fakeScheduler{}
	d := NewDispatcher(models.RoleAdmin, nil, sched, nil, nil)
	defer d.Close()

	d.HandleEvent(models.EventSessionCompleted, models.SessionCompletedEvent{HostessID: "h1", Duration: 22 * time.Minute})
	if got := d.UnreadCount(); got != 1 {
		t.Fatalf("unread = %d before dismiss", got)
	}

	if ran := sched.fire(); ran != 1 {
		t.Fatalf("%d dismiss timers fired, want 1", ran)
	}
	if got := d.UnreadCount(); got != 0 {
		t.Fatalf("unread = %d after auto-dismiss, want 0", got)
	}
	if items := d.Notifications(); !items[0].Read {
		t.Fatal("low priority notification not marked read")
	}
}

func TestHighPriorityNeverAutoDismisses(t *testing.T) {
	sched := &fakeScheduler{}
	d := NewDispatcher(models.RoleAdmin, nil, sched, nil, nil)
	defer d.Close()

	d.HandleEvent(models.EventEmergencyAlert, emergency(1))
	if ran := sched.fire(); ran != 0 {
		t.Fatalf("%d timers scheduled for a critical notification", ran)
	}
	if got := d.UnreadCount(); got != 1 {
		t.Fatalf("unread = %d, want 1", got)
	}
}

func TestMarkReadIsIdempotentAndFloored(t *testing.T) {
	d := NewDispatcher(models.RoleAdmin, nil, &fakeScheduler{}, nil, nil)
	defer d.Close()

	d.HandleEvent(models.EventEmergencyAlert, emergency(1))
	id := d.Notifications()[0].ID

	d.MarkRead(id)
	d.MarkRead(id)
	d.MarkRead("no-such-id")

	if got := d.UnreadCount(); got != 0 {
		t.Fatalf("unread = %d, want 0", got)
	}
}

func TestClearAllEmptiesHistoryAndTimers(t *testing.T) {
	sched := &fakeScheduler{}
	d := NewDispatcher(models.RoleAdmin, nil, sched, nil, nil)
	defer d.Close()

	d.HandleEvent(models.EventSessionCompleted, models.SessionCompletedEvent{HostessID: "h1"})
	d.HandleEvent(models.EventEmergencyAlert, emergency(1))
	d.ClearAll()

	if got := d.Notifications(); len(got) != 0 {
		t.Fatalf("history holds %d items after clear", len(got))
	}
	if got := d.UnreadCount(); got != 0 {
		t.Fatalf("unread = %d after clear", got)
	}
	if ran := sched.fire(); ran != 0 {
		t.Fatalf("%d cancelled timers still fired", ran)
	}
}

func TestBusSubscriptionAndClose(t *testing.T) {
	bus := transport.NewEventBus()
	d := NewDispatcher(models.RoleNurse, bus, &fakeScheduler{}, nil, nil)

	bus.Publish(models.EventNurseAlert, models.NurseAlertEvent{MealCount: 3, MealType: models.MealLunch, WardID: "ward-1"})
	if got := d.Notifications(); len(got) != 1 {
		t.Fatalf("bus-fed dispatcher has %d items, want 1", len(got))
	}

	d.Close()
	bus.Publish(models.EventNurseAlert, models.NurseAlertEvent{MealCount: 4, MealType: models.MealLunch, WardID: "ward-1"})
	if got := d.Notifications(); len(got) != 1 {
		t.Fatalf("closed dispatcher accepted an event, history = %d", len(got))
	}
}
