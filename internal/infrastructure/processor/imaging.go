package processor

import (
	"bytes"
	"fmt"
	"image"

	"github.com/disintegration/imaging"

	"github.com/andreyxaxa/photo-thumbnailer/pkg/types/errs"
)

// Thumbnailer derives width-driven, aspect-preserving thumbnails.
//
// The output height is round(H * w / W), never less than 1. Widths at or
// above the source width are not upscaled: the source is re-encoded at its
// own size. The output format follows the requested extension, so bytes and
// key always agree. Without one it keeps the source format (PNG stays PNG,
// everything else is written as JPEG).
type Thumbnailer struct {
	filter imaging.ResampleFilter
}

func New() *Thumbnailer {
	return &Thumbnailer{filter: imaging.Lanczos}
}

// Probe decodes data and reports its dimensions.
func (p *Thumbnailer) Probe(data []byte) (int, int, error) {
	img, _, err := decodeImage(data)
	if err != nil {
		return 0, 0, fmt.Errorf("Thumbnailer - Probe - decodeImage: %w", err)
	}

	b := img.Bounds()

	return b.Dx(), b.Dy(), nil
}

func (p *Thumbnailer) Thumbnail(data []byte, width int, ext string) ([]byte, error) {
	if width <= 0 {
		return nil, fmt.Errorf("Thumbnailer - Thumbnail - width %d: %w", width, errs.ErrInvalidWidth)
	}

	img, format, err := decodeImage(data)
	if err != nil {
		return nil, fmt.Errorf("Thumbnailer - Thumbnail - decodeImage: %w", err)
	}

	if width < img.Bounds().Dx() {
		// height 0 lets imaging keep the aspect ratio, rounding to nearest.
		img = imaging.Resize(img, width, 0, p.filter)
	}

	if ext != "" {
		format, err = imaging.FormatFromExtension(ext)
		if err != nil {
			return nil, fmt.Errorf("Thumbnailer - Thumbnail - imaging.FormatFromExtension(%s): %w", ext, err)
		}
	}

	res, err := encodeImage(img, format)
	if err != nil {
		return nil, fmt.Errorf("Thumbnailer - Thumbnail - encodeImage: %w", err)
	}

	return res, nil
}

func decodeImage(data []byte) (image.Image, imaging.Format, error) {
	_, name, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, 0, fmt.Errorf("image.DecodeConfig: %w: %w", errs.ErrDecodeImage, err)
	}

	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, 0, fmt.Errorf("imaging.Decode: %w: %w", errs.ErrDecodeImage, err)
	}

	format, err := imaging.FormatFromExtension(name)
	if err != nil || format != imaging.PNG {
		format = imaging.JPEG
	}

	return img, format, nil
}

func encodeImage(img image.Image, format imaging.Format) ([]byte, error) {
	var buf bytes.Buffer

	err := imaging.Encode(&buf, img, format)
	if err != nil {
		return nil, fmt.Errorf("imaging.Encode: %w", err)
	}

	return buf.Bytes(), nil
}
