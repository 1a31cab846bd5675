package s3client_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andreyxaxa/photo-thumbnailer/pkg/s3client"
)

const listBuckets = `<?xml version="1.0" encoding="UTF-8"?>
<ListAllMyBucketsResult xmlns="http://s3.amazonaws.com/doc/2006-03-01/"><Owner><ID>owner</ID></Owner><Buckets></Buckets></ListAllMyBucketsResult>`

type warnings struct {
	mu  sync.Mutex
	got []string
}

func (w *warnings) Debug(interface{}, ...interface{}) {}
func (w *warnings) Info(string, ...interface{})       {}
func (w *warnings) Error(interface{}, ...interface{}) {}
func (w *warnings) Fatal(interface{}, ...interface{}) {}

func (w *warnings) Warn(message string, _ ...interface{}) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.got = append(w.got, message)
}

func (w *warnings) Len() int {
	w.mu.Lock()
	defer w.mu.Unlock()

	return len(w.got)
}

func TestNew_Connects(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			w.Header().Set("Content-Type", "application/xml")
			_, _ = w.Write([]byte(listBuckets))
		default:
			w.WriteHeader(http.StatusOK)
		}
	}))
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	c, err := s3client.New(ctx, srv.URL, "key", "secret", s3client.ConnAttempts(1))
	require.NoError(t, err)
	require.NotNil(t, c.Client)

	assert.NoError(t, c.EnsureBucket(ctx, "photos-source"))
}

func TestNew_GivesUpAfterAttempts(t *testing.T) {
	var calls int
	var mu sync.Mutex

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		mu.Lock()
		calls++
		mu.Unlock()

		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	l := &warnings{}
	_, err := s3client.New(ctx, srv.URL, "key", "secret",
		s3client.ConnAttempts(3),
		s3client.ConnTimeout(time.Millisecond),
		s3client.Logger(l),
	)
	require.Error(t, err)

	assert.Equal(t, 2, l.Len())

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, 3, calls)
}
