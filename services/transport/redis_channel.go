package transport

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
)

const (
	roomKeyPrefix = "servicesync:room:"
	ingestChannel = "servicesync:ingest"
)

// RoomForUser is the per-identity addressed delivery scope joined right
// after a successful handshake.
func RoomForUser(participantID string) string {
	return "user_" + participantID
}

// RoomForWard scopes nurse alerts to one ward's staff.
func RoomForWard(wardID string) string {
	return "ward_" + wardID
}

// RoomForAdmins carries supervisor-facing session traffic.
const RoomForAdmins = "admins"

// RedisChannel is the live channel implementation over redis pub/sub.
// Rooms map to redis channels; emits go to the shared ingest channel.
type RedisChannel struct {
	client *redis.Client

	mu     sync.Mutex
	pubsub *redis.PubSub
	cb     ChannelCallbacks
	cancel context.CancelFunc
	closed bool
}

// NewRedisChannel wraps an already-initialized redis client.
func NewRedisChannel(client *redis.Client) *RedisChannel {
	return &RedisChannel{client: client}
}

// RedisChannelFactory returns a ChannelFactory over client. A nil client
// yields a factory that reports no live channel, which sends the manager
// into mock mode.
func RedisChannelFactory(client *redis.Client) ChannelFactory {
	return func(participantID string) Channel {
		if client == nil {
			return nil
		}
		return NewRedisChannel(client)
	}
}

func (c *RedisChannel) Connect(cb ChannelCallbacks) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return fmt.Errorf("channel closed")
	}

	ctx, cancel := context.WithCancel(context.Background())

	pingCtx, pingCancel := context.WithTimeout(ctx, 2*time.Second)
	err := c.client.Ping(pingCtx).Err()
	pingCancel()
	if err != nil {
		cancel()
		return fmt.Errorf("realtime handshake failed: %w", err)
	}

	c.cb = cb
	c.cancel = cancel
	// Subscribe with no channels yet; rooms are joined after connect.
	c.pubsub = c.client.Subscribe(ctx)

	go c.receive()

	if cb.OnConnect != nil {
		cb.OnConnect()
	}
	return nil
}

// receive delivers inbound messages in arrival order from one goroutine.
func (c *RedisChannel) receive() {
	ch := c.pubsub.Channel()
	for msg := range ch {
		var wire wireMessage
		if err := json.Unmarshal([]byte(msg.Payload), &wire); err != nil {
			if c.cb.OnError != nil {
				c.cb.OnError(fmt.Errorf("malformed realtime message: %w", err))
			}
			continue
		}
		if c.cb.OnEvent != nil {
			c.cb.OnEvent(wire.Event, wire.Data)
		}
	}

	c.mu.Lock()
	closed := c.closed
	c.mu.Unlock()
	if !closed && c.cb.OnDisconnect != nil {
		c.cb.OnDisconnect("realtime stream ended")
	}
}

func (c *RedisChannel) Emit(name string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode %s event: %w", name, err)
	}
	wire, err := json.Marshal(wireMessage{Event: name, Data: data})
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	return c.client.Publish(ctx, ingestChannel, wire).Err()
}

func (c *RedisChannel) Join(room string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.pubsub == nil || c.closed {
		return fmt.Errorf("channel not connected")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	return c.pubsub.Subscribe(ctx, roomKeyPrefix+room)
}

func (c *RedisChannel) Leave(room string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.pubsub == nil || c.closed {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	return c.pubsub.Unsubscribe(ctx, roomKeyPrefix+room)
}

func (c *RedisChannel) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil
	}
	c.closed = true
	if c.cancel != nil {
		c.cancel()
	}
	if c.pubsub != nil {
		return c.pubsub.Close()
	}
	return nil
}
