package transport

import (
	"encoding/json"

	"servicesync/models"
)

// ChannelCallbacks are invoked by a live channel implementation. Inbound
// events on one channel arrive in order from a single goroutine.
type ChannelCallbacks struct {
	OnConnect    func()
	OnDisconnect func(reason string)
	OnError      func(err error)
	OnEvent      func(name string, payload []byte)
}

// Channel is one bidirectional event pipe. The manager owns at most one.
type Channel interface {
	// Connect starts the channel. It returns quickly; completion is
	// signalled through the callbacks.
	Connect(cb ChannelCallbacks) error
	Emit(name string, payload any) error
	Join(room string) error
	Leave(room string) error
	Close() error
}

// ChannelFactory yields a live channel for a participant, or nil when no
// live implementation is available. The manager consumes the capability and
// never performs detection itself.
type ChannelFactory func(participantID string) Channel

// wireMessage is the JSON envelope carried on the realtime backend.
type wireMessage struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

// DecodeEvent maps a raw inbound payload onto its typed schema. Unknown
// event names decode into a generic map so the bus can still carry them.
func DecodeEvent(name string, payload []byte) (any, error) {
	var (
		out any
		err error
	)
	switch name {
	case models.EventNurseAlert:
		var e models.NurseAlertEvent
		err = json.Unmarshal(payload, &e)
		out = e
	case models.EventEmergencyAlert:
		var e models.EmergencyAlertEvent
		err = json.Unmarshal(payload, &e)
		out = e
	case models.EventSessionStarted:
		var e models.SessionStartedEvent
		err = json.Unmarshal(payload, &e)
		out = e
	case models.EventSessionCompleted:
		var e models.SessionCompletedEvent
		err = json.Unmarshal(payload, &e)
		out = e
	case models.EventNurseResponse:
		var e models.NurseResponseEvent
		err = json.Unmarshal(payload, &e)
		out = e
	case models.EventHostessLocation:
		var e models.HostessLocationEvent
		err = json.Unmarshal(payload, &e)
		out = e
	case models.EventSessionUpdate:
		var e models.SessionUpdateEvent
		err = json.Unmarshal(payload, &e)
		out = e
	default:
		var e map[string]any
		err = json.Unmarshal(payload, &e)
		out = e
	}
	if err != nil {
		return nil, err
	}
	return out, nil
}
