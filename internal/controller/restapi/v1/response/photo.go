package response

import (
	"time"

	"github.com/andreyxaxa/photo-thumbnailer/internal/entity"
)

type Upload struct {
	ID        string `json:"id" example:"0b7c7f0e-3a57-4d0a-9d55-0d3f1f4d8a11"`
	ImageName string `json:"image_name" example:"https://cdn.example.com/0b7c7f0e-3a57-4d0a-9d55-0d3f1f4d8a11.jpg"`
}

// Photo omits thumbnails until the worker has populated them; clients poll.
type Photo struct {
	ID         string   `json:"id"`
	ImageName  string   `json:"image_name"`
	Thumbnails []string `json:"thumbnails,omitempty"`
	Status     string   `json:"status" example:"populated"`
	CreatedAt  string   `json:"created_at,omitempty"`
	UpdatedAt  string   `json:"updated_at,omitempty"`
}

func NewPhoto(p *entity.PhotoRecord) Photo {
	return Photo{
		ID:         p.ID,
		ImageName:  p.ImageName,
		Thumbnails: p.Thumbnails,
		Status:     string(p.Status),
		CreatedAt:  formatTime(p.CreatedAt),
		UpdatedAt:  formatTime(p.UpdatedAt),
	}
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}

	return t.UTC().Format(time.RFC3339)
}
