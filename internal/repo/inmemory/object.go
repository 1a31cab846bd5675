// Package inmemory implements the repo contracts on maps. Tests use it in
// place of S3 and postgres.
package inmemory

import (
	"context"
	"fmt"
	"sync"

	"github.com/andreyxaxa/photo-thumbnailer/pkg/types/errs"
)

type Object struct {
	Data        []byte
	ContentType string
}

type ObjectRepo struct {
	bucket string

	mu      sync.RWMutex
	objects map[string]Object
	puts    []string

	// PutHook, when set, is called before every Put; a non-nil error fails the Put.
	PutHook func(key string) error
	// GetHook, when set, is called before every Get; a non-nil error fails the Get.
	GetHook func(key string) error
}

func NewObjectRepo(bucket string) *ObjectRepo {
	return &ObjectRepo{
		bucket:  bucket,
		objects: make(map[string]Object),
	}
}

func (r *ObjectRepo) Bucket() string {
	return r.bucket
}

func (r *ObjectRepo) Put(_ context.Context, key string, data []byte, contentType string) error {
	if r.PutHook != nil {
		if err := r.PutHook(key); err != nil {
			return fmt.Errorf("inmemory.ObjectRepo - Put(%s/%s): %w", r.bucket, key, err)
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.objects[key] = Object{
		Data:        append([]byte(nil), data...),
		ContentType: contentType,
	}
	r.puts = append(r.puts, key)

	return nil
}

func (r *ObjectRepo) Get(_ context.Context, key string) ([]byte, error) {
	if r.GetHook != nil {
		if err := r.GetHook(key); err != nil {
			return nil, fmt.Errorf("inmemory.ObjectRepo - Get(%s/%s): %w", r.bucket, key, err)
		}
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	obj, ok := r.objects[key]
	if !ok {
		return nil, fmt.Errorf("inmemory.ObjectRepo - Get(%s/%s): %w", r.bucket, key, errs.ErrObjectNotFound)
	}

	return append([]byte(nil), obj.Data...), nil
}

// Object returns a stored object for assertions.
func (r *ObjectRepo) Object(key string) (Object, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	obj, ok := r.objects[key]

	return obj, ok
}

func (r *ObjectRepo) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.objects)
}

// Puts lists the keys of successful Puts in call order.
func (r *ObjectRepo) Puts() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return append([]string(nil), r.puts...)
}
