package photo

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/andreyxaxa/photo-thumbnailer/internal/dto"
	"github.com/andreyxaxa/photo-thumbnailer/internal/entity"
	"github.com/andreyxaxa/photo-thumbnailer/internal/repo"
	"github.com/andreyxaxa/photo-thumbnailer/pkg/logger"
	"github.com/andreyxaxa/photo-thumbnailer/pkg/types/errs"
)

const octetStream = "application/octet-stream"

type Config struct {
	// PublicBaseURL is the content-delivery origin, e.g. "https://d111.cloudfront.net".
	PublicBaseURL string
	// RejectUnsupported refuses content types other than JPEG and PNG.
	// When false they are stored under a bare "{id}" key, which ingestion rejects.
	RejectUnsupported bool
	// NotifyViaOutbox records an object-created notification in the outbox,
	// in the same transaction as the photo, for stores that cannot emit one.
	NotifyViaOutbox bool
}

type UseCase struct {
	sources    repo.ObjectRepo
	photos     repo.PhotoRepo
	outbox     repo.OutboxRepo
	transactor repo.Transactor

	cfg    Config
	logger logger.Interface

	newID func() uuid.UUID
	now   func() time.Time
}

func New(
	sources repo.ObjectRepo,
	photos repo.PhotoRepo,
	outbox repo.OutboxRepo,
	transactor repo.Transactor,
	cfg Config,
	l logger.Interface,
) *UseCase {
	return &UseCase{
		sources:    sources,
		photos:     photos,
		outbox:     outbox,
		transactor: transactor,
		cfg:        cfg,
		logger:     l,
		newID:      uuid.New,
		now:        time.Now,
	}
}

// Upload stores the original and creates its Pending record. A failure after
// the blob write leaves the blob behind; nothing is cleaned up.
func (uc *UseCase) Upload(ctx context.Context, contentType string, data []byte) (*entity.PhotoRecord, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("PhotoUseCase - Upload: %w", errs.ErrEmptyPayload)
	}

	ext, supported := entity.ExtensionFor(contentType)
	if !supported {
		if uc.cfg.RejectUnsupported {
			return nil, fmt.Errorf("PhotoUseCase - Upload - %q: %w", contentType, errs.ErrUnsupportedContentType)
		}

		uc.logger.Warn("PhotoUseCase - Upload - storing unsupported content type %q without extension", contentType)
	}

	id := uc.newID()
	key := entity.EncodeSourceKey(id, ext)

	storedType := contentType
	if !supported {
		storedType = octetStream
	}

	// 1. blob
	err := uc.sources.Put(ctx, key, data, storedType)
	if err != nil {
		return nil, fmt.Errorf("PhotoUseCase - Upload - uc.sources.Put: %w", err)
	}

	now := uc.now().UTC()
	photo := &entity.PhotoRecord{
		ID:        id.String(),
		ImageName: entity.PublicURL(uc.cfg.PublicBaseURL, key),
		Status:    entity.PhotoPending,
		CreatedAt: now,
		UpdatedAt: now,
	}

	// 2. record
	if !uc.cfg.NotifyViaOutbox {
		err = uc.photos.Upsert(ctx, photo)
		if err != nil {
			return nil, fmt.Errorf("PhotoUseCase - Upload - uc.photos.Upsert: %w", err)
		}

		return photo, nil
	}

	// 2'. record and notification together
	err = uc.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := uc.photos.Upsert(ctx, photo); err != nil {
			return fmt.Errorf("uc.photos.Upsert: %w", err)
		}

		event, err := uc.objectCreatedEvent(photo.ID, key, now)
		if err != nil {
			return err
		}

		if err := uc.outbox.Create(ctx, event); err != nil {
			return fmt.Errorf("uc.outbox.Create: %w", err)
		}

		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("PhotoUseCase - Upload - uc.transactor.WithinTransaction: %w", err)
	}

	return photo, nil
}

func (uc *UseCase) Get(ctx context.Context, id string) (*entity.PhotoRecord, error) {
	photo, err := uc.photos.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("PhotoUseCase - Get - uc.photos.GetByID: %w", err)
	}

	return photo, nil
}

func (uc *UseCase) objectCreatedEvent(photoID, key string, at time.Time) (*entity.OutboxEvent, error) {
	payload, err := dto.EncodeNotification(at, dto.ObjectCreated{
		Bucket: uc.sources.Bucket(),
		Key:    key,
	})
	if err != nil {
		return nil, fmt.Errorf("PhotoUseCase - objectCreatedEvent: %w", err)
	}

	return &entity.OutboxEvent{
		ID:          uuid.New(),
		AggregateID: photoID,
		Payload:     payload,
		Status:      entity.OutboxPending,
		CreatedAt:   at,
	}, nil
}
