package metrics_test

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"github.com/andreyxaxa/photo-thumbnailer/internal/infrastructure/metrics"
)

func TestIngestion(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.NewIngestion(reg)

	m.ThumbnailProcessed(50, nil)
	m.ThumbnailProcessed(50, nil)
	m.ThumbnailProcessed(100, errors.New("upload failed"))
	m.InvocationFinished(metrics.OutcomeDegraded, 20*time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.Thumbnails.WithLabelValues("50", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Thumbnails.WithLabelValues("100", "error")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Invocations.WithLabelValues(metrics.OutcomeDegraded)))
	assert.Equal(t, 1, testutil.CollectAndCount(m.Duration))
}
