package entity

import (
	"fmt"
	"path"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/andreyxaxa/photo-thumbnailer/pkg/types/errs"
)

const ThumbnailPrefix = "thumbnails/"

var (
	extByContentType = map[string]string{
		"image/jpeg": ".jpg",
		"image/png":  ".png",
	}

	contentTypeByExt = map[string]string{
		".jpg":  "image/jpeg",
		".jpeg": "image/jpeg",
		".png":  "image/png",
	}
)

// SourceKey is a decoded source object key: "{id}{ext}".
type SourceKey struct {
	ID  uuid.UUID
	Ext string
}

func (k SourceKey) String() string {
	return EncodeSourceKey(k.ID, k.Ext)
}

// ExtensionFor maps an upload content type to the extension stored in the key.
func ExtensionFor(contentType string) (string, bool) {
	ext, ok := extByContentType[strings.ToLower(contentType)]

	return ext, ok
}

// ContentTypeFor is the inverse of ExtensionFor; unknown extensions map to octet-stream.
func ContentTypeFor(ext string) string {
	if ct, ok := contentTypeByExt[strings.ToLower(ext)]; ok {
		return ct
	}

	return "application/octet-stream"
}

func EncodeSourceKey(id uuid.UUID, ext string) string {
	return id.String() + ext
}

// ParseSourceKey accepts only keys produced by EncodeSourceKey with a supported
// extension. Anything else, including a bare id, is ErrMalformedKey.
func ParseSourceKey(key string) (SourceKey, error) {
	if strings.ContainsAny(key, `/\`) {
		return SourceKey{}, fmt.Errorf("%q: %w", key, errs.ErrMalformedKey)
	}

	ext := path.Ext(key)
	if _, ok := contentTypeByExt[strings.ToLower(ext)]; !ok {
		return SourceKey{}, fmt.Errorf("%q: unsupported extension: %w", key, errs.ErrMalformedKey)
	}

	stem := strings.TrimSuffix(key, ext)

	id, err := uuid.Parse(stem)
	if err != nil || id.String() != stem {
		return SourceKey{}, fmt.Errorf("%q: id is not a canonical uuid: %w", key, errs.ErrMalformedKey)
	}

	return SourceKey{ID: id, Ext: strings.ToLower(ext)}, nil
}

// ThumbnailKey is "thumbnails/thumbnail_{id}_{width}{ext}".
func ThumbnailKey(id uuid.UUID, width int, ext string) string {
	return ThumbnailPrefix + "thumbnail_" + id.String() + "_" + strconv.Itoa(width) + ext
}

// PublicURL joins the content-delivery base (scheme://domain) with an object key.
func PublicURL(base, key string) string {
	return strings.TrimRight(base, "/") + "/" + key
}
