package transport

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// Publisher is the server-side send path: it addresses events to rooms.
// With no live backend it falls back to the local bus, so a single-process
// deployment (or the mock world) still sees every event.
type Publisher struct {
	client *redis.Client
	bus    *EventBus
	log    *zap.Logger
}

// NewPublisher builds a publisher over an optional redis client.
func NewPublisher(client *redis.Client, bus *EventBus, log *zap.Logger) *Publisher {
	if bus == nil {
		bus = NewEventBus()
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Publisher{client: client, bus: bus, log: log}
}

// PublishToRoom delivers one event to every subscriber of the room.
func (p *Publisher) PublishToRoom(ctx context.Context, room, event string, payload any) error {
	if p.client == nil {
		p.bus.Publish(event, payload)
		return nil
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode %s event: %w", event, err)
	}
	wire, err := json.Marshal(wireMessage{Event: event, Data: data})
	if err != nil {
		return err
	}
	if err := p.client.Publish(ctx, roomKeyPrefix+room, wire).Err(); err != nil {
		return fmt.Errorf("publish %s to %s: %w", event, room, err)
	}
	return nil
}
