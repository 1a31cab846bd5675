package repo

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/andreyxaxa/photo-thumbnailer/internal/entity"
)

type (
	// ObjectRepo is a blob store bound to a single bucket.
	ObjectRepo interface {
		Bucket() string
		Put(ctx context.Context, key string, data []byte, contentType string) error
		Get(ctx context.Context, key string) ([]byte, error)
	}

	// PhotoRepo is the metadata store. Both writes are upserts on ID and only
	// touch the fields they name, so they may land in either order.
	PhotoRepo interface {
		Upsert(ctx context.Context, photo *entity.PhotoRecord) error
		UpsertThumbnails(ctx context.Context, id string, thumbnails []string, status entity.PhotoStatus, at time.Time) error
		GetByID(ctx context.Context, id string) (*entity.PhotoRecord, error)
	}

	OutboxRepo interface {
		Create(ctx context.Context, event *entity.OutboxEvent) error
		GetPendingEvents(ctx context.Context, limit int, maxRetries int) ([]*entity.OutboxEvent, error)
		MarkAsProcessingBatch(ctx context.Context, IDs uuid.UUIDs) error
		MarkAsProcessedBatch(ctx context.Context, IDs uuid.UUIDs) error
		IncrementRetryCountBatch(ctx context.Context, IDs uuid.UUIDs) error
		MarkMaxRetriesAsFailed(ctx context.Context, maxRetries int) error
		DeleteProcessedAndFailed(ctx context.Context) (int64, error)
	}

	Transactor interface {
		WithinTransaction(ctx context.Context, f func(ctx context.Context) error) error
	}
)
