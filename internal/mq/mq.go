// Package mq moves contact form submissions from the HTTP server to the
// mail worker over RabbitMQ or Google Cloud Pub/Sub.
package mq

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/alternativa-centar/site/config"
)

// Message is a broker-agnostic payload delivered to subscribers.
type Message struct {
	ID         string
	Data       []byte
	Attributes map[string]string
}

// Handler processes a message. Returning an error nacks it for redelivery.
type Handler func(ctx context.Context, msg Message) error

// Backend is implemented by each broker client.
type Backend interface {
	Publish(ctx context.Context, channel string, data []byte, attrs map[string]string) (string, error)
	Subscribe(ctx context.Context, channel string, handler Handler) error
	Close() error
}

// MQ wraps a backend with JSON helpers.
type MQ struct {
	backend Backend
}

func New(backend Backend) *MQ {
	return &MQ{backend: backend}
}

// FromConfig connects to the configured broker. It returns nil when the
// backend is "none".
func FromConfig(ctx context.Context, cfg config.BrokerConfig) (*MQ, error) {
	switch cfg.Backend {
	case "", "none":
		return nil, nil
	case "rabbitmq":
		client, err := NewRabbitMQClient(cfg.RabbitMQ)
		if err != nil {
			return nil, fmt.Errorf("connect rabbitmq: %w", err)
		}
		return New(client), nil
	case "pubsub":
		client, err := NewPubSubClient(ctx, cfg.PubSub)
		if err != nil {
			return nil, fmt.Errorf("connect pubsub: %w", err)
		}
		return New(client), nil
	default:
		return nil, fmt.Errorf("unknown broker backend %q", cfg.Backend)
	}
}

func (m *MQ) Publish(ctx context.Context, channel string, data []byte, attrs map[string]string) (string, error) {
	return m.backend.Publish(ctx, channel, data, attrs)
}

// PublishJSON encodes v and publishes it with a content-type attribute.
func (m *MQ) PublishJSON(ctx context.Context, channel string, v any) (string, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("encode message: %w", err)
	}
	return m.backend.Publish(ctx, channel, data, map[string]string{"content-type": "application/json"})
}

func (m *MQ) Subscribe(ctx context.Context, channel string, handler Handler) error {
	return m.backend.Subscribe(ctx, channel, handler)
}

// SubscribeJSON decodes each message into a fresh T before calling handle.
// Undecodable messages are dropped instead of redelivered forever.
func SubscribeJSON[T any](ctx context.Context, m *MQ, channel string, handle func(context.Context, T) error, onDrop func(Message, error)) error {
	return m.Subscribe(ctx, channel, func(ctx context.Context, msg Message) error {
		var payload T
		if err := json.Unmarshal(msg.Data, &payload); err != nil {
			if onDrop != nil {
				onDrop(msg, err)
			}
			return nil
		}
		return handle(ctx, payload)
	})
}

func (m *MQ) Close() error {
	return m.backend.Close()
}
