package kafka_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	kafkactrl "github.com/andreyxaxa/photo-thumbnailer/internal/controller/kafka"
	"github.com/andreyxaxa/photo-thumbnailer/internal/dto"
	"github.com/andreyxaxa/photo-thumbnailer/pkg/logger"
	"github.com/andreyxaxa/photo-thumbnailer/pkg/types/errs"
)

type receiver struct {
	msgs chan kafka.Message

	mu        sync.Mutex
	committed []int64
	closed    bool
}

func newReceiver(msgs ...kafka.Message) *receiver {
	r := &receiver{msgs: make(chan kafka.Message, len(msgs))}
	for _, m := range msgs {
		r.msgs <- m
	}

	return r
}

func (r *receiver) ReadEvent(ctx context.Context) (kafka.Message, error) {
	select {
	case m := <-r.msgs:
		return m, nil
	case <-ctx.Done():
		return kafka.Message{}, ctx.Err()
	}
}

func (r *receiver) CommitEvent(_ context.Context, event kafka.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.committed = append(r.committed, event.Offset)

	return nil
}

func (r *receiver) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.closed = true

	return nil
}

func (r *receiver) Committed() []int64 {
	r.mu.Lock()
	defer r.mu.Unlock()

	return append([]int64(nil), r.committed...)
}

type ingester struct {
	mu    sync.Mutex
	seen  []dto.ObjectCreated
	errs  map[string]error
	panic string
}

func (i *ingester) Ingest(_ context.Context, event dto.ObjectCreated) (*dto.IngestReport, error) {
	if event.Key == i.panic {
		panic("boom")
	}

	i.mu.Lock()
	i.seen = append(i.seen, event)
	i.mu.Unlock()

	if err := i.errs[event.Key]; err != nil {
		return nil, err
	}

	return &dto.IngestReport{Key: event.Key}, nil
}

func (i *ingester) Seen() []dto.ObjectCreated {
	i.mu.Lock()
	defer i.mu.Unlock()

	return append([]dto.ObjectCreated(nil), i.seen...)
}

func message(t *testing.T, offset int64, keys ...string) kafka.Message {
	t.Helper()

	events := make([]dto.ObjectCreated, 0, len(keys))
	for _, k := range keys {
		events = append(events, dto.ObjectCreated{Bucket: "photos-source", Key: k})
	}

	b, err := dto.EncodeNotification(time.Now(), events...)
	require.NoError(t, err)

	return kafka.Message{Offset: offset, Value: b}
}

func run(t *testing.T, ing *ingester, rcv *receiver, workers int, wait func() bool) {
	t.Helper()

	c := kafkactrl.New(ing, rcv, logger.Nop(), time.Second, time.Second, 10*time.Millisecond, workers)
	require.NoError(t, c.Start(context.Background()))
	require.Error(t, c.Start(context.Background()))

	require.Eventually(t, wait, 2*time.Second, 5*time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, c.Shutdown(ctx))

	rcv.mu.Lock()
	defer rcv.mu.Unlock()
	assert.True(t, rcv.closed)
}

func TestController_CommitsAfterIngest(t *testing.T) {
	ing := &ingester{}
	rcv := newReceiver(message(t, 1, "a.jpg", "b.png"), message(t, 2, "c.jpg"))

	run(t, ing, rcv, 2, func() bool { return len(rcv.Committed()) == 2 })

	assert.ElementsMatch(t, []int64{1, 2}, rcv.Committed())
	assert.ElementsMatch(t, []string{"a.jpg", "b.png", "c.jpg"}, keys(ing.Seen()))
}

func TestController_RecordsOfOneMessageInOrder(t *testing.T) {
	ing := &ingester{}
	rcv := newReceiver(message(t, 7, "1.jpg", "2.jpg", "3.jpg"))

	run(t, ing, rcv, 4, func() bool { return len(rcv.Committed()) == 1 })

	assert.Equal(t, []string{"1.jpg", "2.jpg", "3.jpg"}, keys(ing.Seen()))
}

func TestController_TransientFailureIsNotCommitted(t *testing.T) {
	ing := &ingester{errs: map[string]error{"a.jpg": errors.New("s3 timeout")}}
	rcv := newReceiver(message(t, 1, "a.jpg", "b.jpg"), message(t, 2, "c.jpg"))

	run(t, ing, rcv, 1, func() bool { return len(rcv.Committed()) == 1 })

	assert.Equal(t, []int64{2}, rcv.Committed())
	// the rest of a failed message is left for redelivery
	assert.Equal(t, []string{"a.jpg", "c.jpg"}, keys(ing.Seen()))
}

func TestController_PermanentFailureIsCommitted(t *testing.T) {
	ing := &ingester{errs: map[string]error{"a": errs.ErrMalformedKey}}
	rcv := newReceiver(message(t, 1, "a", "b.jpg"))

	run(t, ing, rcv, 1, func() bool { return len(rcv.Committed()) == 1 })

	assert.Equal(t, []string{"a", "b.jpg"}, keys(ing.Seen()))
}

func TestController_MalformedMessageIsCommitted(t *testing.T) {
	ing := &ingester{}
	rcv := newReceiver(kafka.Message{Offset: 3, Value: []byte("{not json")})

	run(t, ing, rcv, 1, func() bool { return len(rcv.Committed()) == 1 })

	assert.Empty(t, ing.Seen())
}

func TestController_SurvivesPanic(t *testing.T) {
	ing := &ingester{panic: "bad.jpg"}
	rcv := newReceiver(message(t, 1, "bad.jpg"), message(t, 2, "good.jpg"))

	run(t, ing, rcv, 1, func() bool { return len(rcv.Committed()) == 1 })

	assert.Equal(t, []int64{2}, rcv.Committed())
}

func TestController_ShutdownBeforeStart(t *testing.T) {
	c := kafkactrl.New(&ingester{}, newReceiver(), logger.Nop(), time.Second, time.Second, time.Millisecond, 1)

	assert.NoError(t, c.Shutdown(context.Background()))
}

func keys(events []dto.ObjectCreated) []string {
	out := make([]string, 0, len(events))
	for _, e := range events {
		out = append(out, e.Key)
	}

	return out
}
