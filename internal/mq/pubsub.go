package mq

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"cloud.google.com/go/pubsub"
	"github.com/alternativa-centar/site/config"
	"google.golang.org/api/option"
)

// Contact submissions wait at most a week for a working mail relay, and a
// failed delivery is retried with backoff instead of immediately.
const (
	pubsubAckDeadline   = 60 * time.Second
	pubsubRetention     = 7 * 24 * time.Hour
	pubsubMinBackoff    = 10 * time.Second
	pubsubMaxBackoff    = 10 * time.Minute
	pubsubLabelApp      = "alternativa"
	pubsubLabelConsumer = "contact-mailer"
)

// PubSubClient delivers contact submissions through Google Cloud Pub/Sub.
// Each channel is a topic with one mailer subscription.
type PubSubClient struct {
	client             *pubsub.Client
	subscriptionSuffix string
	maxInFlight        int

	mu     sync.Mutex
	topics map[string]*pubsub.Topic
}

func NewPubSubClient(ctx context.Context, cfg config.PubSubConfig) (*PubSubClient, error) {
	if strings.TrimSpace(cfg.ProjectID) == "" {
		return nil, errors.New("PUBSUB_PROJECT_ID is required with the pubsub broker")
	}

	var opts []option.ClientOption
	if strings.TrimSpace(cfg.CredentialsFile) != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsFile))
	}

	client, err := pubsub.NewClient(ctx, cfg.ProjectID, opts...)
	if err != nil {
		return nil, fmt.Errorf("pubsub client: %w", err)
	}

	maxInFlight := cfg.MaxInFlight
	if maxInFlight < 1 {
		maxInFlight = 1
	}

	return &PubSubClient{
		client:             client,
		subscriptionSuffix: cfg.SubscriptionSuffix,
		maxInFlight:        maxInFlight,
		topics:             map[string]*pubsub.Topic{},
	}, nil
}

// Publish sends a message to the channel's topic. Topics are created on
// first use and reused for the life of the client.
func (p *PubSubClient) Publish(ctx context.Context, channel string, data []byte, attrs map[string]string) (string, error) {
	topic, err := p.topic(ctx, channel)
	if err != nil {
		return "", err
	}
	id, err := topic.Publish(ctx, &pubsub.Message{Data: data, Attributes: attrs}).Get(ctx)
	if err != nil {
		return "", fmt.Errorf("publish to %s: %w", channel, err)
	}
	return id, nil
}

// Subscribe receives from the channel's mailer subscription until ctx is
// done. At most maxInFlight messages are handled at once so the mail relay
// is not flooded.
func (p *PubSubClient) Subscribe(ctx context.Context, channel string, handler Handler) error {
	topic, err := p.topic(ctx, channel)
	if err != nil {
		return err
	}

	sub, err := p.ensureSubscription(ctx, p.subscriptionName(channel), topic)
	if err != nil {
		return err
	}
	sub.ReceiveSettings.MaxOutstandingMessages = p.maxInFlight
	sub.ReceiveSettings.NumGoroutines = 1

	return sub.Receive(ctx, func(ctx context.Context, msg *pubsub.Message) {
		err := handler(ctx, Message{
			ID:         msg.ID,
			Data:       msg.Data,
			Attributes: msg.Attributes,
		})
		if err != nil {
			msg.Nack()
			return
		}
		msg.Ack()
	})
}

// Close flushes pending publishes and closes the client.
func (p *PubSubClient) Close() error {
	p.mu.Lock()
	for name, topic := range p.topics {
		topic.Stop()
		delete(p.topics, name)
	}
	p.mu.Unlock()
	return p.client.Close()
}

func (p *PubSubClient) topic(ctx context.Context, channel string) (*pubsub.Topic, error) {
	if strings.TrimSpace(channel) == "" {
		return nil, errors.New("pubsub channel is required")
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if topic, ok := p.topics[channel]; ok {
		return topic, nil
	}

	topic := p.client.Topic(channel)
	exists, err := topic.Exists(ctx)
	if err != nil {
		return nil, fmt.Errorf("check topic %s: %w", channel, err)
	}
	if !exists {
		topic, err = p.client.CreateTopicWithConfig(ctx, channel, &pubsub.TopicConfig{
			Labels:            map[string]string{"app": pubsubLabelApp},
			RetentionDuration: pubsubRetention,
		})
		if err != nil {
			return nil, fmt.Errorf("create topic %s: %w", channel, err)
		}
	}
	p.topics[channel] = topic
	return topic, nil
}

func (p *PubSubClient) ensureSubscription(ctx context.Context, name string, topic *pubsub.Topic) (*pubsub.Subscription, error) {
	sub := p.client.Subscription(name)
	exists, err := sub.Exists(ctx)
	if err != nil {
		return nil, fmt.Errorf("check subscription %s: %w", name, err)
	}
	if exists {
		return sub, nil
	}
	sub, err = p.client.CreateSubscription(ctx, name, subscriptionConfig(topic))
	if err != nil {
		return nil, fmt.Errorf("create subscription %s: %w", name, err)
	}
	return sub, nil
}

func subscriptionConfig(topic *pubsub.Topic) pubsub.SubscriptionConfig {
	return pubsub.SubscriptionConfig{
		Topic:             topic,
		AckDeadline:       pubsubAckDeadline,
		RetentionDuration: pubsubRetention,
		RetryPolicy: &pubsub.RetryPolicy{
			MinimumBackoff: pubsubMinBackoff,
			MaximumBackoff: pubsubMaxBackoff,
		},
		Labels: map[string]string{
			"app":      pubsubLabelApp,
			"consumer": pubsubLabelConsumer,
		},
	}
}

// subscriptionName names the mailer's subscription on a channel, e.g.
// "contact-submissions-mailer".
func (p *PubSubClient) subscriptionName(channel string) string {
	suffix := p.subscriptionSuffix
	if suffix == "" {
		suffix = "-mailer"
	}
	return channel + suffix
}
