package infrastructure

import (
	"context"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/andreyxaxa/photo-thumbnailer/internal/entity"
)

type (
	EventsSender interface {
		SendEvents(ctx context.Context, events []*entity.OutboxEvent) error
		Close() error
	}

	EventsReceiver interface {
		ReadEvent(ctx context.Context) (kafka.Message, error)
		CommitEvent(ctx context.Context, event kafka.Message) error
		Close() error
	}

	Thumbnailer interface {
		Probe(data []byte) (width, height int, err error)
		Thumbnail(data []byte, width int, ext string) ([]byte, error)
	}

	IngestionMetrics interface {
		ThumbnailProcessed(width int, err error)
		InvocationFinished(outcome string, elapsed time.Duration)
	}
)
