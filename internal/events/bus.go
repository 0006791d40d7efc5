package events

import (
	"context"
	"fmt"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/bytedance/sonic"
	"go.uber.org/zap"
)

// outputBuffer is the per-subscriber channel size.
const outputBuffer = 256

// Bus is an in-process publish/subscribe channel for submission lifecycle events.
type Bus struct {
	pubsub *gochannel.GoChannel
	logger *zap.Logger
}

// NewBus creates a new in-process event bus.
func NewBus(logger *zap.Logger) *Bus {
	logger = logger.Named("events")

	return &Bus{
		pubsub: gochannel.NewGoChannel(gochannel.Config{
			OutputChannelBuffer: outputBuffer,
		}, NewLoggerAdapter(logger)),
		logger: logger,
	}
}

// PublishReceived announces a newly stored submission.
func (b *Bus) PublishReceived(_ context.Context, event SubmissionReceived) error {
	return b.publish(TopicSubmissionReceived, event)
}

// PublishDecided announces a review decision.
func (b *Bus) PublishDecided(_ context.Context, event SubmissionDecided) error {
	return b.publish(TopicSubmissionDecided, event)
}

// Subscribe returns a channel of messages for the topic. It closes when ctx is done.
func (b *Bus) Subscribe(ctx context.Context, topic string) (<-chan *message.Message, error) {
	messages, err := b.pubsub.Subscribe(ctx, topic)
	if err != nil {
		return nil, fmt.Errorf("failed to subscribe to %s: %w", topic, err)
	}

	return messages, nil
}

// Close stops the bus and closes all subscriber channels.
func (b *Bus) Close() error {
	return b.pubsub.Close()
}

func (b *Bus) publish(topic string, payload any) error {
	data, err := sonic.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to encode %s event: %w", topic, err)
	}

	msg := message.NewMessage(watermill.NewUUID(), data)
	if err := b.pubsub.Publish(topic, msg); err != nil {
		return fmt.Errorf("failed to publish %s event: %w", topic, err)
	}

	b.logger.Debug("Published event", zap.String("topic", topic), zap.String("messageID", msg.UUID))

	return nil
}

// Decode unmarshals a message payload into T.
func Decode[T any](msg *message.Message) (T, error) {
	var event T
	if err := sonic.Unmarshal(msg.Payload, &event); err != nil {
		return event, fmt.Errorf("failed to decode event %s: %w", msg.UUID, err)
	}

	return event, nil
}
