package outbox_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andreyxaxa/photo-thumbnailer/internal/controller/worker/outbox"
	"github.com/andreyxaxa/photo-thumbnailer/internal/dto"
	"github.com/andreyxaxa/photo-thumbnailer/internal/entity"
	"github.com/andreyxaxa/photo-thumbnailer/internal/repo/inmemory"
	"github.com/andreyxaxa/photo-thumbnailer/internal/usecase/photo"
	"github.com/andreyxaxa/photo-thumbnailer/pkg/logger"
)

type sender struct {
	mu     sync.Mutex
	sent   []*entity.OutboxEvent
	err    error
	closed bool
}

func (s *sender) SendEvents(_ context.Context, events []*entity.OutboxEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.err != nil {
		return s.err
	}
	s.sent = append(s.sent, events...)

	return nil
}

func (s *sender) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.closed = true

	return nil
}

func (s *sender) Sent() []*entity.OutboxEvent {
	s.mu.Lock()
	defer s.mu.Unlock()

	return append([]*entity.OutboxEvent(nil), s.sent...)
}

func setup(t *testing.T, uploads int) (*photo.UseCase, *inmemory.OutboxRepo) {
	t.Helper()

	repo := inmemory.NewOutboxRepo()
	uc := photo.New(
		inmemory.NewObjectRepo("photos-source"),
		inmemory.NewPhotoRepo(),
		repo,
		&inmemory.Transactor{},
		photo.Config{PublicBaseURL: "https://cdn.example.com", NotifyViaOutbox: true},
		logger.Nop(),
	)

	for i := 0; i < uploads; i++ {
		_, err := uc.Upload(context.Background(), "image/jpeg", []byte{1})
		require.NoError(t, err)
	}

	return uc, repo
}

func allInStatus(repo *inmemory.OutboxRepo, status entity.OutboxStatus) bool {
	for _, e := range repo.Events() {
		if e.Status != status {
			return false
		}
	}

	return true
}

func TestOutboxRelay_PublishesPending(t *testing.T) {
	uc, repo := setup(t, 3)
	s := &sender{}

	relay := outbox.New(uc, s, logger.Nop(),
		5*time.Millisecond, time.Hour, time.Hour, time.Second, 2, 3)
	require.NoError(t, relay.Start(context.Background()))

	require.Eventually(t, func() bool {
		return len(s.Sent()) == 3 && allInStatus(repo, entity.OutboxProcessed)
	}, 2*time.Second, 5*time.Millisecond)

	require.NoError(t, relay.Shutdown(context.Background()))
	assert.True(t, s.closed)

	for _, e := range s.Sent() {
		created, err := dto.ParseNotification(e.Payload)
		require.NoError(t, err)
		require.Len(t, created, 1)
		assert.Equal(t, e.AggregateID+".jpg", created[0].Key)
	}
}

func TestOutboxRelay_GivesUpAfterMaxRetries(t *testing.T) {
	uc, repo := setup(t, 2)
	s := &sender{err: errors.New("broker down")}

	relay := outbox.New(uc, s, logger.Nop(),
		5*time.Millisecond, time.Hour, 5*time.Millisecond, time.Second, 10, 2)
	require.NoError(t, relay.Start(context.Background()))

	require.Eventually(t, func() bool {
		return allInStatus(repo, entity.OutboxFailed)
	}, 2*time.Second, 5*time.Millisecond)

	require.NoError(t, relay.Shutdown(context.Background()))

	for _, e := range repo.Events() {
		assert.Equal(t, 2, e.RetryCount)
	}
	assert.Empty(t, s.Sent())
}

func TestOutboxRelay_CleansUp(t *testing.T) {
	uc, repo := setup(t, 2)
	s := &sender{}

	relay := outbox.New(uc, s, logger.Nop(),
		5*time.Millisecond, 20*time.Millisecond, time.Hour, time.Second, 10, 3)
	require.NoError(t, relay.Start(context.Background()))

	require.Eventually(t, func() bool {
		return len(s.Sent()) == 2 && len(repo.Events()) == 0
	}, 2*time.Second, 5*time.Millisecond)

	require.NoError(t, relay.Shutdown(context.Background()))
}

func TestOutboxRelay_StartTwice(t *testing.T) {
	uc, _ := setup(t, 0)

	relay := outbox.New(uc, &sender{}, logger.Nop(),
		time.Hour, time.Hour, time.Hour, time.Second, 10, 3)
	require.NoError(t, relay.Start(context.Background()))
	assert.Error(t, relay.Start(context.Background()))
	require.NoError(t, relay.Shutdown(context.Background()))
}
