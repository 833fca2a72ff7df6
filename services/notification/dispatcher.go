// Package notification turns inbound transport events into a role-scoped,
// bounded notification history with read/unread accounting.
package notification

import (
	"fmt"
	"sync"
	"time"

	"servicesync/models"
	"servicesync/services/transport"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	// historyLimit bounds the retained history; older items are dropped,
	// not archived.
	historyLimit = 10
	// autoDismissDelay is how long a low priority notification stays
	// unread without user action.
	autoDismissDelay = 5 * time.Second
)

// Dispatcher consumes transport events for one participant role.
type Dispatcher struct {
	role     models.Role
	sched    transport.Scheduler
	notifier SystemNotifier
	log      *zap.Logger

	mu      sync.Mutex
	items   []models.Notification
	unread  int
	timers  map[string]transport.TaskHandle
	cancels []func()
	closed  bool
}

// NewDispatcher builds a dispatcher for role and, when bus is non-nil,
// subscribes it to the full inbound event set.
func NewDispatcher(role models.Role, bus *transport.EventBus, sched transport.Scheduler, notifier SystemNotifier, log *zap.Logger) *Dispatcher {
	if sched == nil {
		sched = transport.NewScheduler()
	}
	if notifier == nil {
		notifier = NoopNotifier{}
	}
	if log == nil {
		log = zap.NewNop()
	}
	d := &Dispatcher{
		role:     role,
		sched:    sched,
		notifier: notifier,
		log:      log,
		timers:   make(map[string]transport.TaskHandle),
	}

	if bus != nil {
		for _, event := range []string{
			models.EventNurseAlert,
			models.EventEmergencyAlert,
			models.EventSessionStarted,
			models.EventSessionCompleted,
			models.EventNurseResponse,
			models.EventHostessLocation,
		} {
			name := event
			d.cancels = append(d.cancels, bus.Subscribe(name, func(payload any) {
				d.HandleEvent(name, payload)
			}))
		}
	}
	return d
}

// HandleEvent applies the role filter and materializes a notification for
// events addressed to this dispatcher's role.
func (d *Dispatcher) HandleEvent(name string, payload any) {
	switch name {
	case models.EventNurseAlert:
		e, ok := payload.(models.NurseAlertEvent)
		if !ok || d.role != models.RoleNurse {
			return
		}
		d.add(models.NotifNurseAlert, "Meal Delivery Alert",
			fmt.Sprintf("%d %s meals ready at %s", e.MealCount, e.MealType, e.WardID),
			models.PriorityHigh, e)

	case models.EventEmergencyAlert:
		e, ok := payload.(models.EmergencyAlertEvent)
		if !ok {
			return
		}
		// Emergencies reach every role.
		d.add(models.NotifEmergency, "Emergency Alert",
			fmt.Sprintf("%s: %s at %s", e.Type, e.Description, e.Location),
			models.PriorityCritical, e)

	case models.EventSessionStarted:
		e, ok := payload.(models.SessionStartedEvent)
		if !ok || d.role != models.RoleAdmin {
			return
		}
		d.add(models.NotifSessionUpdate, "New Session Started",
			fmt.Sprintf("%s started delivery to %s", e.HostessID, e.WardID),
			models.PriorityMedium, e)

	case models.EventSessionCompleted:
		e, ok := payload.(models.SessionCompletedEvent)
		if !ok || d.role != models.RoleAdmin {
			return
		}
		d.add(models.NotifSessionUpdate, "Session Completed",
			fmt.Sprintf("%s completed delivery (%dmin)", e.HostessID, int(e.Duration.Minutes())),
			models.PriorityLow, e)

	case models.EventNurseResponse:
		e, ok := payload.(models.NurseResponseEvent)
		if !ok || d.role != models.RoleHostess {
			return
		}
		d.add(models.NotifNurseAlert, "Nurse Ready",
			fmt.Sprintf("Nurse %s acknowledged and is ready to receive meals", e.NurseID),
			models.PriorityHigh, e)

	case models.EventHostessLocation:
		e, ok := payload.(models.HostessLocationEvent)
		if !ok || d.role != models.RoleAdmin || e.Location != "ward_arrival" {
			return
		}
		d.add(models.NotifSessionUpdate, "Hostess Arrived",
			fmt.Sprintf("%s arrived at destination ward", e.HostessID),
			models.PriorityLow, e)
	}
}

func (d *Dispatcher) add(typ models.NotificationType, title, message string, priority models.Priority, data any) {
	n := models.Notification{
		ID:        uuid.New().String(),
		Type:      typ,
		Title:     title,
		Message:   message,
		Timestamp: time.Now(),
		Priority:  priority,
		Data:      data,
	}

	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return
	}
	d.items = append([]models.Notification{n}, d.items...)
	if len(d.items) > historyLimit {
		for _, evicted := range d.items[historyLimit:] {
			if !evicted.Read {
				d.unread--
			}
			d.cancelTimerLocked(evicted.ID)
		}
		d.items = d.items[:historyLimit]
	}
	d.unread++

	if priority == models.PriorityLow {
		id := n.ID
		d.timers[id] = d.sched.After(autoDismissDelay, func() {
			d.MarkRead(id)
		})
	}
	notifier := d.notifier
	d.mu.Unlock()

	// OS-level echo: side effect only, must never block or fail the
	// internal update.
	if notifier.IsPermitted() {
		go func() {
			defer func() { _ = recover() }()
			notifier.Notify(title, message)
		}()
	}
}

func (d *Dispatcher) cancelTimerLocked(id string) {
	if t, ok := d.timers[id]; ok {
		t.Cancel()
		delete(d.timers, id)
	}
}

// MarkRead flags the notification read and decrements the unread counter,
// floored at zero.
func (d *Dispatcher) MarkRead(id string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return
	}
	for i := range d.items {
		if d.items[i].ID != id {
			continue
		}
		if !d.items[i].Read {
			d.items[i].Read = true
			if d.unread > 0 {
				d.unread--
			}
		}
		d.cancelTimerLocked(id)
		return
	}
}

// ClearAll empties the history and cancels every pending dismiss timer.
func (d *Dispatcher) ClearAll() {
	d.mu.Lock()
	defer d.mu.Unlock()
	for id := range d.timers {
		d.timers[id].Cancel()
		delete(d.timers, id)
	}
	d.items = nil
	d.unread = 0
}

// Notifications returns the history, newest first.
func (d *Dispatcher) Notifications() []models.Notification {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]models.Notification, len(d.items))
	copy(out, d.items)
	return out
}

// UnreadCount returns the number of unread notifications.
func (d *Dispatcher) UnreadCount() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.unread
}

// Close unsubscribes from the bus and cancels pending timers. A closed
// dispatcher ignores further events.
func (d *Dispatcher) Close() {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return
	}
	d.closed = true
	cancels := d.cancels
	d.cancels = nil
	for id := range d.timers {
		d.timers[id].Cancel()
		delete(d.timers, id)
	}
	d.mu.Unlock()

	for _, cancel := range cancels {
		cancel()
	}
}
