package v1

import (
	"encoding/base64"
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/andreyxaxa/photo-thumbnailer/internal/controller/restapi/v1/response"
	"github.com/andreyxaxa/photo-thumbnailer/internal/controller/restapi/v1/validate"
	"github.com/andreyxaxa/photo-thumbnailer/pkg/types/errs"
)

const headerTransferEncoding = "Content-Transfer-Encoding"

// @Summary  	Upload photo
// @Description Stores the raw image in the source bucket and creates a pending record. Thumbnails are derived asynchronously.
// @Tags 		photos
// @Accept 		image/jpeg,image/png
// @Produce 	json
// @Param 		body body string true "Raw image bytes, or base64 with Content-Transfer-Encoding: base64"
// @Success 	201 {object} response.Upload
// @Failure 	400 {object} response.Error "Empty body or broken base64"
// @Failure 	413 {object} response.Error "Body too large"
// @Failure 	415 {object} response.Error "Unsupported content type"
// @Failure 	500 {object} response.Error "Internal"
// @Router 		/upload [post]
func (r *V1) upload(ctx *fiber.Ctx) error {
	body := ctx.Body()

	if validate.Base64Encoded(ctx.Get(headerTransferEncoding)) {
		decoded, err := base64.StdEncoding.DecodeString(string(body))
		if err != nil {
			return errorResponse(ctx, http.StatusBadRequest, "body is not valid base64")
		}

		body = decoded
	}

	contentType := validate.ContentType(ctx.Get(fiber.HeaderContentType))

	photo, err := r.photo.Upload(ctx.UserContext(), contentType, body)
	if err != nil {
		switch {
		case errors.Is(err, errs.ErrEmptyPayload):
			return errorResponse(ctx, http.StatusBadRequest, "body is empty")
		case errors.Is(err, errs.ErrUnsupportedContentType):
			return errorResponse(ctx, http.StatusUnsupportedMediaType, "unsupported content type. Allowed: image/jpeg, image/png")
		}

		r.logger.Error(err, "restapi - v1 - upload")

		return errorResponse(ctx, http.StatusInternalServerError, "storage problems")
	}

	return ctx.Status(http.StatusCreated).JSON(response.Upload{
		ID:        photo.ID,
		ImageName: photo.ImageName,
	})
}

// @Summary 	Get thumbnails
// @Description Returns the photo record. Thumbnails are absent while the record is pending; poll until status is populated.
// @Tags 		photos
// @Produce 	json
// @Param 		id path string true "Photo ID(uuid)"
// @Success 	200 {object} response.Photo
// @Failure 	404 {object} response.Error "Photo not found"
// @Failure 	500 {object} response.Error "Internal"
// @Router 		/thumbnails/{id} [get]
func (r *V1) getThumbnails(ctx *fiber.Ctx) error {
	photo, err := r.photo.Get(ctx.UserContext(), ctx.Params("id"))
	if err != nil {
		if errors.Is(err, errs.ErrRecordNotFound) {
			return errorResponse(ctx, http.StatusNotFound, "photo not found")
		}
		r.logger.Error(err, "restapi - v1 - getThumbnails")

		return errorResponse(ctx, http.StatusInternalServerError, "storage problems")
	}

	return ctx.Status(http.StatusOK).JSON(response.NewPhoto(photo))
}
