package ingestion

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/andreyxaxa/photo-thumbnailer/internal/dto"
	"github.com/andreyxaxa/photo-thumbnailer/internal/entity"
	"github.com/andreyxaxa/photo-thumbnailer/internal/infrastructure"
	"github.com/andreyxaxa/photo-thumbnailer/internal/infrastructure/metrics"
	"github.com/andreyxaxa/photo-thumbnailer/internal/repo"
	"github.com/andreyxaxa/photo-thumbnailer/pkg/logger"
	"github.com/andreyxaxa/photo-thumbnailer/pkg/types/errs"
)

type Config struct {
	// Widths are processed in the given order; config.New sorts them ascending.
	Widths        []int
	PublicBaseURL string
}

// UseCase turns one object-created notification into thumbnails:
//
//	Start -> Downloaded -> {Resizing(w) -> Uploaded(w)}* -> MetadataUpdated -> Done
//
// A failed download aborts. A failed width is recorded and the loop moves on.
// Nothing is retried here; redelivery is the transport's business.
type UseCase struct {
	sources     repo.ObjectRepo
	thumbnails  repo.ObjectRepo
	photos      repo.PhotoRepo
	thumbnailer infrastructure.Thumbnailer
	metrics     infrastructure.IngestionMetrics

	cfg    Config
	logger logger.Interface

	now func() time.Time
}

func New(
	sources repo.ObjectRepo,
	thumbnails repo.ObjectRepo,
	photos repo.PhotoRepo,
	thumbnailer infrastructure.Thumbnailer,
	m infrastructure.IngestionMetrics,
	cfg Config,
	l logger.Interface,
) *UseCase {
	return &UseCase{
		sources:     sources,
		thumbnails:  thumbnails,
		photos:      photos,
		thumbnailer: thumbnailer,
		metrics:     m,
		cfg:         cfg,
		logger:      l,
		now:         time.Now,
	}
}

// Ingest returns the per-width report whenever downloading succeeded, even
// if the final metadata write failed.
func (uc *UseCase) Ingest(ctx context.Context, event dto.ObjectCreated) (*dto.IngestReport, error) {
	start := time.Now()

	report, err := uc.ingest(ctx, event)

	uc.metrics.InvocationFinished(outcome(report, err), time.Since(start))

	return report, err
}

func (uc *UseCase) ingest(ctx context.Context, event dto.ObjectCreated) (*dto.IngestReport, error) {
	if event.Bucket != "" && event.Bucket != uc.sources.Bucket() {
		return nil, fmt.Errorf("IngestionUseCase - Ingest - bucket %q: %w", event.Bucket, errs.ErrForeignBucket)
	}

	key, err := entity.ParseSourceKey(event.Key)
	if err != nil {
		return nil, fmt.Errorf("IngestionUseCase - Ingest - entity.ParseSourceKey: %w", err)
	}

	// 1. download
	data, err := uc.sources.Get(ctx, event.Key)
	if err != nil {
		return nil, fmt.Errorf("IngestionUseCase - Ingest - uc.sources.Get: %w", err)
	}

	_, _, err = uc.thumbnailer.Probe(data)
	if err != nil {
		return nil, fmt.Errorf("IngestionUseCase - Ingest - uc.thumbnailer.Probe: %w", err)
	}

	report := &dto.IngestReport{
		ID:      key.ID.String(),
		Key:     event.Key,
		Results: make([]entity.ThumbnailResult, 0, len(uc.cfg.Widths)),
	}

	// 2. widths, one after another
	for _, width := range uc.cfg.Widths {
		res := uc.derive(ctx, key, data, width)
		if res.Err != nil {
			uc.logger.Error(res.Err, "IngestionUseCase - Ingest - id=%s width=%d", report.ID, width)
		}

		uc.metrics.ThumbnailProcessed(width, res.Err)
		report.Results = append(report.Results, res)
	}

	// 3. one metadata write with whatever succeeded
	urls := report.URLs()

	status := entity.PhotoPopulated
	if len(urls) == 0 {
		status = entity.PhotoPending
	}

	err = uc.photos.UpsertThumbnails(ctx, report.ID, urls, status, uc.now().UTC())
	if err != nil {
		return report, fmt.Errorf("IngestionUseCase - Ingest - uc.photos.UpsertThumbnails: %w", err)
	}

	return report, nil
}

func (uc *UseCase) derive(ctx context.Context, key entity.SourceKey, data []byte, width int) entity.ThumbnailResult {
	res := entity.ThumbnailResult{
		Width: width,
		Key:   entity.ThumbnailKey(key.ID, width, key.Ext),
	}

	thumb, err := uc.thumbnailer.Thumbnail(data, width, key.Ext)
	if err != nil {
		res.Err = fmt.Errorf("uc.thumbnailer.Thumbnail: %w", err)

		return res
	}

	err = uc.thumbnails.Put(ctx, res.Key, thumb, entity.ContentTypeFor(key.Ext))
	if err != nil {
		res.Err = fmt.Errorf("uc.thumbnails.Put: %w", err)

		return res
	}

	res.URL = entity.PublicURL(uc.cfg.PublicBaseURL, res.Key)

	return res
}

func outcome(report *dto.IngestReport, err error) string {
	switch {
	case report == nil:
		return metrics.OutcomeAborted
	case err != nil:
		return metrics.OutcomeMetadataFailed
	case len(report.Failed()) > 0:
		return metrics.OutcomeDegraded
	default:
		return metrics.OutcomeCompleted
	}
}

// Permanent reports whether err can never succeed on redelivery.
func Permanent(err error) bool {
	return errors.Is(err, errs.ErrMalformedKey) ||
		errors.Is(err, errs.ErrForeignBucket) ||
		errors.Is(err, errs.ErrMalformedNotification) ||
		errors.Is(err, errs.ErrDecodeImage) ||
		errors.Is(err, errs.ErrObjectNotFound)
}
