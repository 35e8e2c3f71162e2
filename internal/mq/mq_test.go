package mq

import (
	"context"
	"errors"
	"testing"

	"github.com/alternativa-centar/site/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memoryBackend struct {
	published []Message
	closed    bool
}

func (m *memoryBackend) Publish(_ context.Context, _ string, data []byte, attrs map[string]string) (string, error) {
	m.published = append(m.published, Message{ID: "msg-1", Data: data, Attributes: attrs})
	return "msg-1", nil
}

func (m *memoryBackend) Subscribe(ctx context.Context, _ string, handler Handler) error {
	for _, msg := range m.published {
		if err := handler(ctx, msg); err != nil {
			return err
		}
	}
	return nil
}

func (m *memoryBackend) Close() error {
	m.closed = true
	return nil
}

type greeting struct {
	Name string `json:"name"`
}

func TestPublishAndSubscribeJSON(t *testing.T) {
	backend := &memoryBackend{}
	queue := New(backend)
	ctx := context.Background()

	id, err := queue.PublishJSON(ctx, "greetings", greeting{Name: "Ana"})
	require.NoError(t, err)
	assert.Equal(t, "msg-1", id)
	assert.Equal(t, "application/json", backend.published[0].Attributes["content-type"])

	var got []greeting
	err = SubscribeJSON(ctx, queue, "greetings", func(_ context.Context, g greeting) error {
		got = append(got, g)
		return nil
	}, nil)
	require.NoError(t, err)
	assert.Equal(t, []greeting{{Name: "Ana"}}, got)

	require.NoError(t, queue.Close())
	assert.True(t, backend.closed)
}

func TestSubscribeJSONDropsUndecodable(t *testing.T) {
	backend := &memoryBackend{published: []Message{{ID: "bad", Data: []byte("{")}}}
	queue := New(backend)

	var dropped string
	err := SubscribeJSON(context.Background(), queue, "greetings", func(context.Context, greeting) error {
		return errors.New("should not be called")
	}, func(msg Message, _ error) {
		dropped = msg.ID
	})
	require.NoError(t, err)
	assert.Equal(t, "bad", dropped)
}

func TestFromConfig(t *testing.T) {
	queue, err := FromConfig(context.Background(), config.BrokerConfig{Backend: "none"})
	require.NoError(t, err)
	assert.Nil(t, queue)

	_, err = FromConfig(context.Background(), config.BrokerConfig{Backend: "kafka"})
	assert.Error(t, err)

	_, err = FromConfig(context.Background(), config.BrokerConfig{Backend: "rabbitmq"})
	assert.ErrorContains(t, err, "rabbitmq url is required")
}

func TestPubSubMailerSubscription(t *testing.T) {
	p := &PubSubClient{}
	assert.Equal(t, "contact-submissions-mailer", p.subscriptionName("contact-submissions"))

	p.subscriptionSuffix = "-staging"
	assert.Equal(t, "contact-submissions-staging", p.subscriptionName("contact-submissions"))

	cfg := subscriptionConfig(nil)
	assert.Equal(t, pubsubAckDeadline, cfg.AckDeadline)
	assert.Equal(t, pubsubRetention, cfg.RetentionDuration)
	require.NotNil(t, cfg.RetryPolicy)
	assert.Equal(t, pubsubMinBackoff, cfg.RetryPolicy.MinimumBackoff)
	assert.Equal(t, pubsubMaxBackoff, cfg.RetryPolicy.MaximumBackoff)
	assert.Equal(t, "contact-mailer", cfg.Labels["consumer"])
}
