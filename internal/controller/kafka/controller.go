package kafka

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/andreyxaxa/photo-thumbnailer/internal/dto"
	"github.com/andreyxaxa/photo-thumbnailer/internal/infrastructure"
	"github.com/andreyxaxa/photo-thumbnailer/internal/usecase"
	"github.com/andreyxaxa/photo-thumbnailer/internal/usecase/ingestion"
	"github.com/andreyxaxa/photo-thumbnailer/pkg/logger"
)

// KafkaController feeds object-created notifications to the ingestion use
// case. Messages are spread over workers; the records of one message are
// ingested one after another by the worker that took it.
type KafkaController struct {
	ing    usecase.IngestionUseCase
	er     infrastructure.EventsReceiver
	logger logger.Interface

	commitTimeout  time.Duration
	processTimeout time.Duration
	readBackoff    time.Duration

	workers int
	ctx     context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup

	started atomic.Bool
}

func New(
	ing usecase.IngestionUseCase,
	er infrastructure.EventsReceiver,
	l logger.Interface,
	commitTimeout time.Duration,
	processTimeout time.Duration,
	readBackoff time.Duration,
	workers int,
) *KafkaController {
	if workers < 1 {
		workers = 1
	}

	return &KafkaController{
		ing:            ing,
		er:             er,
		logger:         l,
		commitTimeout:  commitTimeout,
		processTimeout: processTimeout,
		readBackoff:    readBackoff,
		workers:        workers,
	}
}

func (c *KafkaController) Start(ctx context.Context) error {
	if !c.started.CompareAndSwap(false, true) {
		return fmt.Errorf("KafkaController - Start - controller already started")
	}

	c.ctx, c.cancel = context.WithCancel(ctx)

	tasks := make(chan kafka.Message, c.workers*2)

	for i := 0; i < c.workers; i++ {
		c.wg.Add(1)
		go c.worker(tasks)
	}

	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		defer close(tasks)

		for {
			select {
			case <-c.ctx.Done():
				return
			default:
				// 1. read
				event, err := c.er.ReadEvent(c.ctx)
				if err != nil {
					if c.ctx.Err() != nil {
						return
					}
					c.logger.Error(err, "KafkaController - Start - c.er.ReadEvent")

					c.sleep(c.readBackoff)

					continue
				}

				// 2. hand off to workers
				select {
				case tasks <- event:
				case <-c.ctx.Done():
					return
				}
			}
		}
	}()

	return nil
}

// processEvent ingests every object-created record of one message. Permanent
// failures are logged and skipped; the first transient one stops the message
// so it is not committed.
func (c *KafkaController) processEvent(ctx context.Context, event kafka.Message) error {
	created, err := dto.ParseNotification(event.Value)
	if err != nil {
		return fmt.Errorf("KafkaController - processEvent - dto.ParseNotification: %w", err)
	}

	for _, oc := range created {
		report, err := c.ing.Ingest(ctx, oc)
		if err != nil {
			if ingestion.Permanent(err) {
				c.logger.Warn("KafkaController - processEvent - skipping %s/%s: %v", oc.Bucket, oc.Key, err)

				continue
			}

			return fmt.Errorf("KafkaController - processEvent - c.ing.Ingest(%s): %w", oc.Key, err)
		}

		c.logger.Info("KafkaController - processEvent - id=%s thumbnails=%d failed=%d",
			report.ID, report.Succeeded(), len(report.Failed()))
	}

	return nil
}

func (c *KafkaController) worker(tasks <-chan kafka.Message) {
	defer c.wg.Done()

	for event := range tasks {
		c.handle(event)
	}
}

func (c *KafkaController) handle(event kafka.Message) {
	defer func() {
		if r := recover(); r != nil {
			c.logger.Error(fmt.Errorf("panic %v", r), "KafkaController - handle - panic at offset %d", event.Offset)
		}
	}()

	processCtx, processCancel := context.WithTimeout(c.ctx, c.processTimeout)
	err := c.processEvent(processCtx, event)
	processCancel()
	if err != nil {
		if !ingestion.Permanent(err) {
			// left uncommitted for redelivery
			c.logger.Error(err, "KafkaController - handle - c.processEvent")

			return
		}
		c.logger.Warn("KafkaController - handle - dropping message at offset %d: %v", event.Offset, err)
	}

	commitCtx, commitCancel := context.WithTimeout(c.ctx, c.commitTimeout)
	err = c.er.CommitEvent(commitCtx, event)
	commitCancel()
	if err != nil && !errors.Is(err, context.Canceled) {
		c.logger.Error(err, "KafkaController - handle - c.er.CommitEvent")
	}
}

func (c *KafkaController) sleep(d time.Duration) {
	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-t.C:
	case <-c.ctx.Done():
	}
}

func (c *KafkaController) Shutdown(ctx context.Context) error {
	if !c.started.Load() {
		return nil
	}

	if c.cancel != nil {
		c.cancel()
	}

	done := make(chan struct{})

	go func() {
		c.wg.Wait()
		c.er.Close()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("KafkaController - Shutdown: %w", ctx.Err())
	}
}
