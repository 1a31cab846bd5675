package persistent

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"github.com/andreyxaxa/photo-thumbnailer/internal/entity"
	"github.com/andreyxaxa/photo-thumbnailer/pkg/postgres"
	"github.com/andreyxaxa/photo-thumbnailer/pkg/types/errs"
)

const (
	// Table
	photosTable = "photos"

	// Columns
	idColumn         = "id"
	imageNameColumn  = "image_name"
	thumbnailsColumn = "thumbnails"
	statusColumn     = "status"
	createdAtColumn  = "created_at"
	updatedAtColumn  = "updated_at"
)

// populated rows only accept another populated write
const onConflictThumbnails = "ON CONFLICT (" + idColumn + ") DO UPDATE SET " +
	thumbnailsColumn + " = EXCLUDED." + thumbnailsColumn + ", " +
	statusColumn + " = EXCLUDED." + statusColumn + ", " +
	updatedAtColumn + " = EXCLUDED." + updatedAtColumn + " " +
	"WHERE " + photosTable + "." + statusColumn + " <> ? OR EXCLUDED." + statusColumn + " = ?"

type PhotoRepo struct {
	*postgres.Postgres
}

func NewPhotoRepo(pg *postgres.Postgres) *PhotoRepo {
	return &PhotoRepo{pg}
}

// Upsert writes id and image_name. An existing row keeps its thumbnails and
// status, so a worker that got there first is not overwritten.
func (r *PhotoRepo) Upsert(ctx context.Context, photo *entity.PhotoRecord) error {
	sql, args, err := r.Builder.
		Insert(photosTable).
		Columns(
			idColumn,
			imageNameColumn,
			statusColumn,
			createdAtColumn,
			updatedAtColumn,
		).
		Values(
			photo.ID,
			photo.ImageName,
			photo.Status,
			photo.CreatedAt,
			photo.UpdatedAt,
		).
		Suffix(
			"ON CONFLICT (" + idColumn + ") DO UPDATE SET " +
				imageNameColumn + " = EXCLUDED." + imageNameColumn + ", " +
				updatedAtColumn + " = EXCLUDED." + updatedAtColumn,
		).
		ToSql()
	if err != nil {
		return fmt.Errorf("PhotoRepo - Upsert - r.Builder.ToSql: %w", err)
	}

	executor := r.GetExecutor(ctx)

	_, err = executor.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("PhotoRepo - Upsert - executor.Exec: %w", err)
	}

	return nil
}

// UpsertThumbnails replaces the thumbnails list wholesale (last writer wins).
// A populated row is never moved back to pending: such a write is a no-op.
func (r *PhotoRepo) UpsertThumbnails(
	ctx context.Context,
	id string,
	thumbnails []string,
	status entity.PhotoStatus,
	at time.Time,
) error {
	if thumbnails == nil {
		thumbnails = []string{}
	}

	sql, args, err := r.Builder.
		Insert(photosTable).
		Columns(
			idColumn,
			thumbnailsColumn,
			statusColumn,
			createdAtColumn,
			updatedAtColumn,
		).
		Values(
			id,
			thumbnails,
			status,
			at,
			at,
		).
		Suffix(onConflictThumbnails, entity.PhotoPopulated, entity.PhotoPopulated).
		ToSql()
	if err != nil {
		return fmt.Errorf("PhotoRepo - UpsertThumbnails - r.Builder.ToSql: %w", err)
	}

	executor := r.GetExecutor(ctx)

	_, err = executor.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("PhotoRepo - UpsertThumbnails - executor.Exec: %w", err)
	}

	return nil
}

func (r *PhotoRepo) GetByID(ctx context.Context, id string) (*entity.PhotoRecord, error) {
	sql, args, err := r.Builder.
		Select(
			idColumn,
			imageNameColumn,
			thumbnailsColumn,
			statusColumn,
			createdAtColumn,
			updatedAtColumn,
		).
		From(photosTable).
		Where(squirrel.Eq{idColumn: id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("PhotoRepo - GetByID - r.Builder.ToSql: %w", err)
	}

	executor := r.GetExecutor(ctx)

	var photo entity.PhotoRecord
	err = executor.QueryRow(ctx, sql, args...).Scan(
		&photo.ID,
		&photo.ImageName,
		&photo.Thumbnails,
		&photo.Status,
		&photo.CreatedAt,
		&photo.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("PhotoRepo - GetByID: %w", errs.ErrRecordNotFound)
		}

		return nil, fmt.Errorf("PhotoRepo - GetByID - executor.QueryRow.Scan: %w", err)
	}

	return &photo, nil
}
