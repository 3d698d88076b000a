package codec

import (
	"errors"
	"fmt"
	"image"
	"os"

	// Register decoders for the supported formats.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/disintegration/imaging"

	"github.com/dfryer1193/img2html/convert/domain"
)

var _ domain.PixelCodec = (*ImagingCodec)(nil)

var supportedFormats = map[string]struct{}{
	"jpeg": {},
	"png":  {},
	"gif":  {},
}

// ImagingCodec implements domain.PixelCodec for JPEG, PNG, and GIF sources.
type ImagingCodec struct{}

func NewImagingCodec() *ImagingCodec {
	return &ImagingCodec{}
}

// Bounds reads only the image header to discover native dimensions.
func (c *ImagingCodec) Bounds(path string) (domain.Dimensions, error) {
	f, err := os.Open(path)
	if err != nil {
		return domain.Dimensions{}, fmt.Errorf("%w: %v", domain.ErrDecode, err)
	}
	defer f.Close()

	cfg, format, err := image.DecodeConfig(f)
	if err != nil {
		if errors.Is(err, image.ErrFormat) {
			return domain.Dimensions{}, fmt.Errorf("%w: %s", domain.ErrUnsupportedFormat, path)
		}
		return domain.Dimensions{}, fmt.Errorf("%w: %s: %v", domain.ErrDecode, path, err)
	}

	if _, ok := supportedFormats[format]; !ok {
		return domain.Dimensions{}, fmt.Errorf("%w: %s (%s)", domain.ErrUnsupportedFormat, path, format)
	}

	return domain.Dimensions{Width: cfg.Width, Height: cfg.Height}, nil
}

// Decode reads the full pixel content of the image at path.
func (c *ImagingCodec) Decode(path string) (image.Image, error) {
	img, err := imaging.Open(path)
	if err != nil {
		if errors.Is(err, imaging.ErrUnsupportedFormat) || errors.Is(err, image.ErrFormat) {
			return nil, fmt.Errorf("%w: %s", domain.ErrUnsupportedFormat, path)
		}
		return nil, fmt.Errorf("%w: %s: %v", domain.ErrDecode, path, err)
	}
	return img, nil
}

// Resize scales img to dims using Lanczos resampling.
func (c *ImagingCodec) Resize(img image.Image, dims domain.Dimensions) image.Image {
	return imaging.Resize(img, dims.Width, dims.Height, imaging.Lanczos)
}
