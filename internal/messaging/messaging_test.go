package messaging

import (
	"context"
	"testing"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// Publish must leave the message topic empty: the writer is already
// bound to a topic, and kafka-go refuses messages that name one too.
// That refusal happens before any broker I/O, so a cancelled context
// against an unreachable address is enough to tell the two apart.
func TestPublishWithTopicBoundWriter(t *testing.T) {
	writer := &kafka.Writer{
		Addr:  kafka.TCP("127.0.0.1:1"),
		Topic: "payments.events",
	}
	t.Cleanup(func() { _ = writer.Close() })

	client := &kafkaClient{writer: writer, topic: "payments.events", logger: zap.NewNop()}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := client.Publish(ctx, []byte("BWP-4F21A9C3"), []byte(`{}`))
	require.Error(t, err)
	assert.NotContains(t, err.Error(), "Topic must not be specified")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestNoopClientPublish(t *testing.T) {
	client := noopClient{topic: "payments.events"}
	require.NoError(t, client.Publish(context.Background(), nil, nil))
	assert.Equal(t, "payments.events", client.Topic())
}
