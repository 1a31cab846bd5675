package config

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// Notification delivery modes.
const (
	// NotifyOutbox: uploads record the notification in the outbox and the
	// relay publishes it to Kafka. For stores without bucket notifications.
	NotifyOutbox = "outbox"
	// NotifyBucket: the object store publishes to Kafka itself.
	NotifyBucket = "bucket"
)

type (
	Config struct {
		HTTP            HTTP
		Log             Log
		PG              PG
		S3              S3
		CDN             CDN
		Thumbnails      Thumbnails
		Upload          Upload
		Notify          Notify
		OutboxRelay     OutboxRelay
		Kafka           Kafka
		KafkaController KafkaController
		Metrics         Metrics
		Swagger         Swagger
	}

	HTTP struct {
		Port            string        `env:"HTTP_PORT,required"`
		UsePreforkMode  bool          `env:"HTTP_USE_PREFORK_MODE" envDefault:"false"`
		ReadTimeout     time.Duration `env:"HTTP_READ_TIMEOUT" envDefault:"10s"`
		WriteTimeout    time.Duration `env:"HTTP_WRITE_TIMEOUT" envDefault:"10s"`
		ShutdownTimeout time.Duration `env:"HTTP_SHUTDOWN_TIMEOUT" envDefault:"3s"`
	}

	Log struct {
		Level string `env:"LOG_LEVEL,required"`
	}

	PG struct {
		PoolMax int    `env:"PG_POOL_MAX,required"`
		URL     string `env:"PG_URL,required"`
	}

	S3 struct {
		Endpoint        string        `env:"S3_ENDPOINT"`
		Region          string        `env:"S3_REGION" envDefault:"garage"`
		AccessKey       string        `env:"S3_ACCESS_KEY,required"`
		SecretKey       string        `env:"S3_SECRET_KEY,required"`
		SourceBucket    string        `env:"S3_SOURCE_BUCKET,required"`
		ThumbnailBucket string        `env:"S3_THUMBNAIL_BUCKET,required"`
		UsePathStyle    bool          `env:"S3_USE_PATH_STYLE" envDefault:"true"`
		CreateBuckets   bool          `env:"S3_CREATE_BUCKETS" envDefault:"true"`
		CfgLoadTimeout  time.Duration `env:"S3_LOAD_CFG_TIMEOUT" envDefault:"10s"`
		ConnAttempts    int           `env:"S3_CONN_ATTEMPTS" envDefault:"10"`
		ConnTimeout     time.Duration `env:"S3_CONN_TIMEOUT" envDefault:"1s"`
	}

	CDN struct {
		Domain string `env:"CDN_DOMAIN,required"`
		Scheme string `env:"CDN_SCHEME" envDefault:"https"`
	}

	Thumbnails struct {
		Widths []int `env:"THUMBNAIL_WIDTHS" envDefault:"50,100,200" envSeparator:","`
	}

	Upload struct {
		MaxSize           int  `env:"UPLOAD_MAX_SIZE" envDefault:"10485760"`
		RejectUnsupported bool `env:"UPLOAD_REJECT_UNSUPPORTED" envDefault:"true"`
	}

	Notify struct {
		Mode string `env:"NOTIFY_MODE" envDefault:"outbox"`
	}

	Kafka struct {
		Brokers []string `env:"KAFKA_BROKERS,required"`
		GroupID string   `env:"KAFKA_GROUP_ID,required"`
		Topic   string   `env:"KAFKA_TOPIC,required"`

		StartFromLatest bool          `env:"KAFKA_START_FROM_LATEST" envDefault:"false"`
		BatchTimeout    time.Duration `env:"KAFKA_PRODUCER_BATCH_TIMEOUT" envDefault:"50ms"`
	}

	OutboxRelay struct {
		PollInterval        time.Duration `env:"OUTBOX_RELAY_POLL_INTERVAL" envDefault:"2s"`
		MarkFailedInterval  time.Duration `env:"OUTBOX_RELAY_MARK_FAILED_INTERVAL" envDefault:"2m"`
		CleanupInterval     time.Duration `env:"OUTBOX_RELAY_CLEANUP_INTERVAL" envDefault:"24h"`
		ProcessBatchTimeout time.Duration `env:"OUTBOX_RELAY_PROCESS_BATCH_TIMEOUT" envDefault:"15s"`
		ShutdownTimeout     time.Duration `env:"OUTBOX_RELAY_SHUTDOWN_TIMEOUT" envDefault:"5s"`
		BatchSize           int           `env:"OUTBOX_RELAY_BATCH_SIZE" envDefault:"100"`
		MaxRetries          int           `env:"OUTBOX_RELAY_MAX_RETRIES" envDefault:"3"`
	}

	KafkaController struct {
		Workers         int           `env:"KAFKA_CONTROLLER_WORKERS" envDefault:"0"` // 0 means runtime.NumCPU()
		CommitTimeout   time.Duration `env:"KAFKA_CONTROLLER_COMMIT_TIMEOUT" envDefault:"2s"`
		ProcessTimeout  time.Duration `env:"KAFKA_CONTROLLER_PROCESS_TIMEOUT" envDefault:"60s"` // one message, every width of every record
		ReadBackoff     time.Duration `env:"KAFKA_CONTROLLER_READ_BACKOFF" envDefault:"1s"`
		ShutdownTimeout time.Duration `env:"KAFKA_CONTROLLER_SHUTDOWN_TIMEOUT" envDefault:"5s"`
	}

	Metrics struct {
		Enabled bool `env:"METRICS_ENABLED" envDefault:"true"`
	}

	Swagger struct {
		Enabled bool `env:"SWAGGER_ENABLED" envDefault:"false"`
	}
)

func New() (*Config, error) {
	cfg := &Config{}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config error: %w", err)
	}

	if err := cfg.normalize(); err != nil {
		return nil, fmt.Errorf("config error: %w", err)
	}

	return cfg, nil
}

// PublicBaseURL is the origin thumbnails and originals are served from.
func (c *Config) PublicBaseURL() string {
	return c.CDN.Scheme + "://" + strings.TrimRight(c.CDN.Domain, "/")
}

func (c *Config) normalize() error {
	widths, err := NormalizeWidths(c.Thumbnails.Widths)
	if err != nil {
		return err
	}
	c.Thumbnails.Widths = widths

	c.Notify.Mode = strings.ToLower(strings.TrimSpace(c.Notify.Mode))
	if c.Notify.Mode != NotifyOutbox && c.Notify.Mode != NotifyBucket {
		return fmt.Errorf("NOTIFY_MODE must be %q or %q, got %q", NotifyOutbox, NotifyBucket, c.Notify.Mode)
	}

	if c.Upload.MaxSize <= 0 {
		return fmt.Errorf("UPLOAD_MAX_SIZE must be positive, got %d", c.Upload.MaxSize)
	}

	return nil
}

// NormalizeWidths returns the widths sorted ascending without duplicates.
func NormalizeWidths(widths []int) ([]int, error) {
	if len(widths) == 0 {
		return nil, errors.New("THUMBNAIL_WIDTHS is empty")
	}

	for _, w := range widths {
		if w <= 0 {
			return nil, fmt.Errorf("THUMBNAIL_WIDTHS must be positive, got %d", w)
		}
	}

	out := slices.Clone(widths)
	slices.Sort(out)

	return slices.Compact(out), nil
}
