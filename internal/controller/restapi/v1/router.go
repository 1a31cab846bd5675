package v1

import (
	"github.com/gofiber/fiber/v2"

	"github.com/andreyxaxa/photo-thumbnailer/internal/usecase"
	"github.com/andreyxaxa/photo-thumbnailer/pkg/logger"
)

func NewPhotoRoutes(router fiber.Router, photo usecase.PhotoUseCase, l logger.Interface) {
	r := &V1{photo: photo, logger: l}

	{
		router.Post("/upload", r.upload)
		router.Get("/thumbnails/:id", r.getThumbnails)
	}
}
