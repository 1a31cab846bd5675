package v1

import (
	"github.com/andreyxaxa/photo-thumbnailer/internal/usecase"
	"github.com/andreyxaxa/photo-thumbnailer/pkg/logger"
)

type V1 struct {
	photo  usecase.PhotoUseCase
	logger logger.Interface
}
