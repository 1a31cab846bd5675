package inmemory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/andreyxaxa/photo-thumbnailer/internal/entity"
	"github.com/andreyxaxa/photo-thumbnailer/pkg/types/errs"
)

// PhotoRepo mirrors the upsert semantics of persistent.PhotoRepo.
type PhotoRepo struct {
	mu     sync.RWMutex
	photos map[string]entity.PhotoRecord
	writes int

	// UpsertHook and UpsertThumbnailsHook fail the matching write when they return an error.
	UpsertHook           func(photo *entity.PhotoRecord) error
	UpsertThumbnailsHook func(id string, thumbnails []string) error
}

func NewPhotoRepo() *PhotoRepo {
	return &PhotoRepo{photos: make(map[string]entity.PhotoRecord)}
}

func (r *PhotoRepo) Upsert(_ context.Context, photo *entity.PhotoRecord) error {
	if r.UpsertHook != nil {
		if err := r.UpsertHook(photo); err != nil {
			return fmt.Errorf("inmemory.PhotoRepo - Upsert: %w", err)
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.writes++

	existing, ok := r.photos[photo.ID]
	if !ok {
		p := *photo
		p.Thumbnails = nil
		r.photos[photo.ID] = p

		return nil
	}

	existing.ImageName = photo.ImageName
	existing.UpdatedAt = photo.UpdatedAt
	r.photos[photo.ID] = existing

	return nil
}

func (r *PhotoRepo) UpsertThumbnails(
	_ context.Context,
	id string,
	thumbnails []string,
	status entity.PhotoStatus,
	at time.Time,
) error {
	if r.UpsertThumbnailsHook != nil {
		if err := r.UpsertThumbnailsHook(id, thumbnails); err != nil {
			return fmt.Errorf("inmemory.PhotoRepo - UpsertThumbnails: %w", err)
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.writes++

	existing, ok := r.photos[id]
	if !ok {
		existing = entity.PhotoRecord{ID: id, CreatedAt: at}
	}

	if existing.Status == entity.PhotoPopulated && status != entity.PhotoPopulated {
		return nil
	}

	existing.Thumbnails = append([]string{}, thumbnails...)
	existing.Status = status
	existing.UpdatedAt = at
	r.photos[id] = existing

	return nil
}

func (r *PhotoRepo) GetByID(_ context.Context, id string) (*entity.PhotoRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.photos[id]
	if !ok {
		return nil, fmt.Errorf("inmemory.PhotoRepo - GetByID: %w", errs.ErrRecordNotFound)
	}

	p.Thumbnails = append([]string(nil), p.Thumbnails...)

	return &p, nil
}

func (r *PhotoRepo) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.photos)
}

// Writes counts successful upserts of either kind.
func (r *PhotoRepo) Writes() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.writes
}
