package dto

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/andreyxaxa/photo-thumbnailer/pkg/types/errs"
)

const objectCreatedPut = "s3:ObjectCreated:Put"

// S3-compatible bucket notification, the subset both AWS and MinIO emit.
type (
	Notification struct {
		Records []NotificationRecord `json:"Records"`
	}

	NotificationRecord struct {
		EventVersion string         `json:"eventVersion"`
		EventSource  string         `json:"eventSource"`
		EventTime    time.Time      `json:"eventTime"`
		EventName    string         `json:"eventName"`
		S3           NotificationS3 `json:"s3"`
	}

	NotificationS3 struct {
		Bucket NotificationBucket `json:"bucket"`
		Object NotificationObject `json:"object"`
	}

	NotificationBucket struct {
		Name string `json:"name"`
	}

	NotificationObject struct {
		Key  string `json:"key"`
		Size int64  `json:"size,omitempty"`
	}
)

// EncodeNotification renders events the way the object store itself would,
// keys URL-encoded, so both delivery paths share one consumer.
func EncodeNotification(at time.Time, events ...ObjectCreated) ([]byte, error) {
	n := Notification{Records: make([]NotificationRecord, 0, len(events))}

	for _, ev := range events {
		n.Records = append(n.Records, NotificationRecord{
			EventVersion: "2.1",
			EventSource:  "aws:s3",
			EventTime:    at.UTC(),
			EventName:    objectCreatedPut,
			S3: NotificationS3{
				Bucket: NotificationBucket{Name: ev.Bucket},
				Object: NotificationObject{Key: url.QueryEscape(ev.Key)},
			},
		})
	}

	b, err := json.Marshal(n)
	if err != nil {
		return nil, fmt.Errorf("EncodeNotification - json.Marshal: %w", err)
	}

	return b, nil
}

// ParseNotification returns the object-created events carried by a
// notification. Records of other event types are skipped.
func ParseNotification(b []byte) ([]ObjectCreated, error) {
	var n Notification

	err := json.Unmarshal(b, &n)
	if err != nil {
		return nil, fmt.Errorf("ParseNotification - json.Unmarshal: %w: %w", errs.ErrMalformedNotification, err)
	}

	if n.Records == nil {
		return nil, fmt.Errorf("ParseNotification - no Records: %w", errs.ErrMalformedNotification)
	}

	events := make([]ObjectCreated, 0, len(n.Records))
	for _, r := range n.Records {
		if !isObjectCreated(r.EventName) {
			continue
		}

		key, err := url.QueryUnescape(r.S3.Object.Key)
		if err != nil {
			return nil, fmt.Errorf("ParseNotification - url.QueryUnescape: %w: %w", errs.ErrMalformedNotification, err)
		}

		events = append(events, ObjectCreated{
			Bucket: r.S3.Bucket.Name,
			Key:    key,
		})
	}

	return events, nil
}

// AWS emits "ObjectCreated:Put", MinIO "s3:ObjectCreated:Put".
func isObjectCreated(name string) bool {
	return strings.HasPrefix(strings.TrimPrefix(name, "s3:"), "ObjectCreated:")
}
