package persistent

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/andreyxaxa/photo-thumbnailer/pkg/s3client"
	"github.com/andreyxaxa/photo-thumbnailer/pkg/types/errs"
)

type ObjectRepo struct {
	*s3client.S3Client
	bucket string
}

func NewObjectRepo(s3c *s3client.S3Client, bucket string) *ObjectRepo {
	return &ObjectRepo{s3c, bucket}
}

func (r *ObjectRepo) Bucket() string {
	return r.bucket
}

// Put overwrites any object already stored under key.
func (r *ObjectRepo) Put(ctx context.Context, key string, data []byte, contentType string) error {
	_, err := r.Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(r.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(data),
		ContentType:   aws.String(contentType),
		ContentLength: aws.Int64(int64(len(data))),
	})
	if err != nil {
		return fmt.Errorf("ObjectRepo - Put - r.Client.PutObject(%s/%s): %w", r.bucket, key, err)
	}

	return nil
}

func (r *ObjectRepo) Get(ctx context.Context, key string) ([]byte, error) {
	result, err := r.Client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(r.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		var noSuchKey *types.NoSuchKey
		if errors.As(err, &noSuchKey) {
			return nil, fmt.Errorf("ObjectRepo - Get(%s/%s): %w", r.bucket, key, errs.ErrObjectNotFound)
		}

		return nil, fmt.Errorf("ObjectRepo - Get - r.Client.GetObject(%s/%s): %w", r.bucket, key, err)
	}
	defer result.Body.Close()

	b, err := io.ReadAll(result.Body)
	if err != nil {
		return nil, fmt.Errorf("ObjectRepo - Get - io.ReadAll: %w", err)
	}

	return b, nil
}
