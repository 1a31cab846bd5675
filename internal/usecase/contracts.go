package usecase

import (
	"context"

	"github.com/andreyxaxa/photo-thumbnailer/internal/dto"
	"github.com/andreyxaxa/photo-thumbnailer/internal/entity"
)

type (
	// PhotoUseCase is the request path: upload and retrieval.
	PhotoUseCase interface {
		Upload(ctx context.Context, contentType string, data []byte) (*entity.PhotoRecord, error)
		Get(ctx context.Context, id string) (*entity.PhotoRecord, error)
	}

	// OutboxUseCase feeds the relay that publishes object-created notifications.
	OutboxUseCase interface {
		GetPendingEvents(ctx context.Context, maxRetries, limit int) ([]*entity.OutboxEvent, error)
		MarkAsProcessingBatch(ctx context.Context, events []*entity.OutboxEvent) error
		MarkAsProcessedBatch(ctx context.Context, events []*entity.OutboxEvent) error
		IncrementRetryCountBatch(ctx context.Context, events []*entity.OutboxEvent) error
		MarkMaxRetriesAsFailed(ctx context.Context, maxRetries int) error
		CleanupOutbox(ctx context.Context) error
	}

	// IngestionUseCase derives thumbnails for one object-created notification.
	IngestionUseCase interface {
		Ingest(ctx context.Context, event dto.ObjectCreated) (*dto.IngestReport, error)
	}
)
