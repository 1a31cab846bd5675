package errs

import "errors"

var (
	ErrRecordNotFound         = errors.New("record not found")
	ErrObjectNotFound         = errors.New("object not found")
	ErrEmptyPayload           = errors.New("empty payload")
	ErrUnsupportedContentType = errors.New("unsupported content type")
	ErrMalformedKey           = errors.New("malformed object key")
	ErrMalformedNotification  = errors.New("malformed notification")
	ErrForeignBucket          = errors.New("notification for foreign bucket")
	ErrInvalidWidth           = errors.New("invalid thumbnail width")
	ErrDecodeImage            = errors.New("cannot decode image")
)
