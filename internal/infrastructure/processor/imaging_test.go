package processor_test

import (
	"bytes"
	"image"
	"image/color"
	"image/gif"
	"image/jpeg"
	"image/png"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andreyxaxa/photo-thumbnailer/internal/infrastructure/processor"
	"github.com/andreyxaxa/photo-thumbnailer/pkg/types/errs"
)

func newImage(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x % 256), G: uint8(y % 256), B: 128, A: 255})
		}
	}

	return img
}

func jpegBytes(t *testing.T, w, h int) []byte {
	t.Helper()

	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, newImage(w, h), nil))

	return buf.Bytes()
}

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()

	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, newImage(w, h)))

	return buf.Bytes()
}

func config(t *testing.T, data []byte) (image.Config, string) {
	t.Helper()

	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	require.NoError(t, err)

	return cfg, format
}

func TestThumbnail_WidthDrivenHeights(t *testing.T) {
	p := processor.New()
	src := jpegBytes(t, 600, 400)

	for width, height := range map[int]int{50: 33, 100: 67, 200: 133} {
		out, err := p.Thumbnail(src, width, "")
		require.NoError(t, err)

		cfg, format := config(t, out)
		assert.Equal(t, "jpeg", format)
		assert.Equal(t, width, cfg.Width)
		assert.Equal(t, height, cfg.Height, "width %d", width)
	}
}

func TestThumbnail_AspectRatioInvariant(t *testing.T) {
	p := processor.New()

	sizes := [][2]int{{640, 480}, {480, 640}, {1000, 3}, {333, 777}, {201, 200}}
	for _, s := range sizes {
		src := pngBytes(t, s[0], s[1])

		for _, w := range []int{1, 7, 50, 100, 200} {
			if w >= s[0] {
				continue
			}

			out, err := p.Thumbnail(src, w, "")
			require.NoError(t, err)

			cfg, _ := config(t, out)
			want := float64(s[1]) / (float64(s[0]) / float64(w))

			assert.Equal(t, w, cfg.Width)
			assert.GreaterOrEqual(t, cfg.Height, 1)
			assert.LessOrEqual(t, math.Abs(float64(cfg.Height)-math.Max(1, want)), 1.0,
				"src %dx%d width %d", s[0], s[1], w)
		}
	}
}

func TestThumbnail_PreservesPNG(t *testing.T) {
	p := processor.New()

	out, err := p.Thumbnail(pngBytes(t, 300, 150), 100, "")
	require.NoError(t, err)

	cfg, format := config(t, out)
	assert.Equal(t, "png", format)
	assert.Equal(t, 100, cfg.Width)
	assert.Equal(t, 50, cfg.Height)
}

func TestThumbnail_NoUpscale(t *testing.T) {
	p := processor.New()
	src := jpegBytes(t, 120, 80)

	for _, w := range []int{120, 200} {
		out, err := p.Thumbnail(src, w, "")
		require.NoError(t, err)

		cfg, _ := config(t, out)
		assert.Equal(t, 120, cfg.Width)
		assert.Equal(t, 80, cfg.Height)
	}
}

func TestThumbnail_OtherFormatsEncodeAsJPEG(t *testing.T) {
	p := processor.New()

	var buf bytes.Buffer
	require.NoError(t, gif.Encode(&buf, newImage(200, 100), nil))

	out, err := p.Thumbnail(buf.Bytes(), 50, "")
	require.NoError(t, err)

	cfg, format := config(t, out)
	assert.Equal(t, "jpeg", format)
	assert.Equal(t, 50, cfg.Width)
	assert.Equal(t, 25, cfg.Height)
}

func TestThumbnail_FormatFollowsExtension(t *testing.T) {
	p := processor.New()

	out, err := p.Thumbnail(pngBytes(t, 300, 150), 100, ".jpg")
	require.NoError(t, err)
	_, format := config(t, out)
	assert.Equal(t, "jpeg", format)

	out, err = p.Thumbnail(jpegBytes(t, 300, 150), 100, ".png")
	require.NoError(t, err)
	_, format = config(t, out)
	assert.Equal(t, "png", format)
}

func TestThumbnail_InvalidWidth(t *testing.T) {
	p := processor.New()

	for _, w := range []int{0, -10} {
		_, err := p.Thumbnail(jpegBytes(t, 10, 10), w, "")
		assert.ErrorIs(t, err, errs.ErrInvalidWidth)
	}
}

func TestThumbnail_Garbage(t *testing.T) {
	p := processor.New()

	_, err := p.Thumbnail([]byte("definitely not an image"), 50, "")
	assert.ErrorIs(t, err, errs.ErrDecodeImage)

	_, _, err = p.Probe(nil)
	assert.ErrorIs(t, err, errs.ErrDecodeImage)
}

func TestProbe(t *testing.T) {
	w, h, err := processor.New().Probe(jpegBytes(t, 600, 400))
	require.NoError(t, err)
	assert.Equal(t, 600, w)
	assert.Equal(t, 400, h)
}
