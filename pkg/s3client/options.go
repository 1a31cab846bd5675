package s3client

import (
	"time"

	"github.com/andreyxaxa/photo-thumbnailer/pkg/logger"
)

type Option func(c *S3Client)

// ConnAttempts bounds how many times New tries to reach the store.
func ConnAttempts(attempts int) Option {
	return func(c *S3Client) {
		if attempts > 0 {
			c.connAttempts = attempts
		}
	}
}

// ConnTimeout is the pause between two connection attempts.
func ConnTimeout(timeout time.Duration) Option {
	return func(c *S3Client) {
		c.connTimeout = timeout
	}
}

func Region(region string) Option {
	return func(c *S3Client) {
		if region != "" {
			c.region = region
		}
	}
}

// UsePathStyle addresses buckets as endpoint/bucket, which self-hosted stores need.
func UsePathStyle(use bool) Option {
	return func(c *S3Client) {
		c.usePathStyle = use
	}
}

// Logger reports failed connection attempts. Silent by default.
func Logger(l logger.Interface) Option {
	return func(c *S3Client) {
		c.logger = l
	}
}
