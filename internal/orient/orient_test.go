package orient

import (
	"bytes"
	"image"
	"image/color"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromOrientationCode(t *testing.T) {
	tests := []struct {
		code int
		want int
	}{
		{code: 1, want: 0},
		{code: 3, want: 180},
		{code: 6, want: 90},
		{code: 8, want: 270},
		{code: 2, want: 0},
		{code: 0, want: 0},
		{code: 9, want: 0},
		{code: -1, want: 0},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, FromOrientationCode(tt.code), "code %d", tt.code)
	}
}

func TestFromBytesUnreadable(t *testing.T) {
	assert.Equal(t, 0, FromBytes(nil))
	assert.Equal(t, 0, FromBytes([]byte("not an image at all")))
	// Valid JPEG without EXIF still defaults to no rotation
	assert.Equal(t, 0, FromBytes(encodeJPEG(t, testImage(10, 10))))
}

func TestApplySwapsDimensions(t *testing.T) {
	data := encodeJPEG(t, testImage(1200, 800))

	out, w, h, err := Apply(data, 90)
	require.NoError(t, err)
	assert.Equal(t, 800, w)
	assert.Equal(t, 1200, h)
	assert.NotEmpty(t, out)
}

func TestApplyIdentity(t *testing.T) {
	data := encodeJPEG(t, testImage(120, 80))

	_, w, h, err := Apply(data, 0)
	require.NoError(t, err)
	assert.Equal(t, 120, w)
	assert.Equal(t, 80, h)
}

func TestRotateRoundTrip(t *testing.T) {
	img := testImage(120, 80)

	once := Rotate(img, 90)
	assert.Equal(t, 80, once.Bounds().Dx())
	assert.Equal(t, 120, once.Bounds().Dy())

	back := Rotate(once, 270)
	assert.Equal(t, 120, back.Bounds().Dx())
	assert.Equal(t, 80, back.Bounds().Dy())
}

func TestApplyRejectsGarbage(t *testing.T) {
	_, _, _, err := Apply([]byte("garbage"), 90)
	assert.Error(t, err)
}

func TestResolve(t *testing.T) {
	data := encodeJPEG(t, testImage(10, 10))

	t.Run("manual override wins", func(t *testing.T) {
		assert.Equal(t, 90, Resolve(data, 90))
		assert.Equal(t, 270, Resolve(data, 270))
	})

	t.Run("no manual falls back to exif default", func(t *testing.T) {
		assert.Equal(t, 0, Resolve(data, 0))
	})

	t.Run("additive path", func(t *testing.T) {
		// Image has no EXIF, so additive equals the manual value
		assert.Equal(t, 180, ResolveAdditive(data, 180))
		assert.Equal(t, 0, ResolveAdditive(data, 360))
	})
}

func testImage(w, h int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x % 256), G: uint8(y % 256), B: 100, A: 255})
		}
	}
	return img
}

func encodeJPEG(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, imaging.Encode(&buf, img, imaging.JPEG))
	return buf.Bytes()
}
