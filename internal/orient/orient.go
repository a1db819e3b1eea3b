// Package orient corrects the physical orientation of evidence photos.
// Rotation angles are clockwise degrees in {0, 90, 180, 270}.
package orient

import (
	"bytes"
	"fmt"
	"image"

	"github.com/disintegration/imaging"
	"github.com/rwcarlsen/goexif/exif"
)

// FromOrientationCode maps a standard EXIF orientation code to the
// clockwise rotation that corrects it. Mirrored codes (2/4/5/7) and
// anything outside the table map to 0.
func FromOrientationCode(code int) int {
	switch code {
	case 3:
		return 180
	case 6:
		return 90
	case 8:
		return 270
	default:
		return 0
	}
}

// FromBytes reads the EXIF orientation tag from an encoded image and
// returns the correcting rotation. Any read failure is non-fatal and
// yields 0.
func FromBytes(data []byte) int {
	x, err := exif.Decode(bytes.NewReader(data))
	if err != nil {
		return 0
	}
	tag, err := x.Get(exif.Orientation)
	if err != nil {
		return 0
	}
	code, err := tag.Int(0)
	if err != nil {
		return 0
	}
	return FromOrientationCode(code)
}

// Rotate returns img rotated clockwise by degrees
func Rotate(img image.Image, degrees int) image.Image {
	switch normalize(degrees) {
	case 90:
		return imaging.Rotate270(img)
	case 180:
		return imaging.Rotate180(img)
	case 270:
		return imaging.Rotate90(img)
	default:
		return img
	}
}

// Apply decodes data, rotates it clockwise by degrees, and re-encodes
// the result as JPEG. The returned dimensions are those of the rotated
// image (width/height swapped for 90 and 270).
func Apply(data []byte, degrees int) (out []byte, width, height int, err error) {
	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, 0, 0, fmt.Errorf("failed to decode image: %w", err)
	}

	rotated := Rotate(img, degrees)
	bounds := rotated.Bounds()

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, rotated, imaging.JPEG, imaging.JPEGQuality(90)); err != nil {
		return nil, 0, 0, fmt.Errorf("failed to encode rotated image: %w", err)
	}
	return buf.Bytes(), bounds.Dx(), bounds.Dy(), nil
}

// Resolve picks the rotation for a record: a manual override always
// wins over the EXIF-derived value
func Resolve(data []byte, manualRotation int) int {
	if manualRotation != 0 {
		return normalize(manualRotation)
	}
	return FromBytes(data)
}

// ResolveAdditive combines the EXIF-derived rotation with the manual
// override additively (flow-document corrector path)
func ResolveAdditive(data []byte, manualRotation int) int {
	return normalize(FromBytes(data) + manualRotation)
}

func normalize(degrees int) int {
	d := degrees % 360
	if d < 0 {
		d += 360
	}
	// Snap anything off-grid to the nearest supported quarter turn
	switch {
	case d < 45 || d >= 315:
		return 0
	case d < 135:
		return 90
	case d < 225:
		return 180
	default:
		return 270
	}
}
