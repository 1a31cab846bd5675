package kafka

import (
	"context"
	"fmt"

	"github.com/segmentio/kafka-go"

	"github.com/andreyxaxa/photo-thumbnailer/pkg/kafka/consumer"
)

// EventConsumer reads object-created notifications. Offsets are committed
// by the caller once a notification has been handled.
type EventConsumer struct {
	*consumer.Consumer
}

func NewEventConsumer(consumer *consumer.Consumer) *EventConsumer {
	return &EventConsumer{consumer}
}

// ReadEvent returns the next message with a body. Empty messages carry no
// notification and are committed on the spot.
func (ec *EventConsumer) ReadEvent(ctx context.Context) (kafka.Message, error) {
	for {
		msg, err := ec.Reader.FetchMessage(ctx)
		if err != nil {
			return kafka.Message{}, fmt.Errorf("EventConsumer - ReadEvent - ec.Reader.FetchMessage: %w", err)
		}

		if len(msg.Value) > 0 {
			return msg, nil
		}

		err = ec.Reader.CommitMessages(ctx, msg)
		if err != nil {
			return kafka.Message{}, fmt.Errorf("EventConsumer - ReadEvent - skip empty at %d/%d: %w", msg.Partition, msg.Offset, err)
		}
	}
}

func (ec *EventConsumer) CommitEvent(ctx context.Context, event kafka.Message) error {
	err := ec.Reader.CommitMessages(ctx, event)
	if err != nil {
		return fmt.Errorf("EventConsumer - CommitEvent - partition %d offset %d: %w", event.Partition, event.Offset, err)
	}

	return nil
}

func (ec *EventConsumer) Close() error {
	err := ec.Consumer.Close()
	if err != nil {
		return fmt.Errorf("EventConsumer - Close: %w", err)
	}

	return nil
}
