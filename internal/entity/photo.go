package entity

import "time"

// PhotoRecord is the metadata of one upload. Its ID is also the stem of the
// source object key; that convention is the only link between the two stores.
type PhotoRecord struct {
	ID         string      `json:"id"`
	ImageName  string      `json:"image_name"`
	Thumbnails []string    `json:"thumbnails,omitempty"`
	Status     PhotoStatus `json:"status"`
	CreatedAt  time.Time   `json:"created_at"`
	UpdatedAt  time.Time   `json:"updated_at"`
}
