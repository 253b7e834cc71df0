package media

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"path/filepath"
	"strings"

	"github.com/nfnt/resize"
)

// Bounds for club images.
const (
	LogoSize     = 400
	BannerWidth  = 1500
	BannerHeight = 500
)

// Normalize decodes an image upload, shrinks it to fit maxWidth x maxHeight
// preserving the aspect ratio, and re-encodes it. PNG stays PNG so
// transparency survives; every other format becomes JPEG.
func Normalize(up Upload, maxWidth, maxHeight uint) (Upload, error) {
	img, format, err := image.Decode(bytes.NewReader(up.Data))
	if err != nil {
		return Upload{}, fmt.Errorf("%w: %v", ErrUnsupportedFormat, err)
	}
	img = resize.Thumbnail(maxWidth, maxHeight, img, resize.Lanczos3)

	base := strings.TrimSuffix(up.Filename, filepath.Ext(up.Filename))
	var buf bytes.Buffer
	if format == "png" {
		if err := png.Encode(&buf, img); err != nil {
			return Upload{}, fmt.Errorf("encode png: %w", err)
		}
		return Upload{Filename: base + ".png", ContentType: "image/png", Data: buf.Bytes()}, nil
	}
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: 85}); err != nil {
		return Upload{}, fmt.Errorf("encode jpeg: %w", err)
	}
	return Upload{Filename: base + ".jpg", ContentType: "image/jpeg", Data: buf.Bytes()}, nil
}
