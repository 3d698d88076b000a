package application

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/dfryer1193/img2html/convert/domain"
	"github.com/rs/zerolog/log"
)

// ConverterService orchestrates a conversion: resolve target dimensions,
// fingerprint the source, and serve from cache or render and persist.
type ConverterService struct {
	codec    domain.PixelCodec
	cache    domain.CacheRepository
	renderer MarkupRenderer

	maxWidth  int
	maxHeight int
}

func NewConverterService(codec domain.PixelCodec, cache domain.CacheRepository, renderer MarkupRenderer, maxWidth, maxHeight int) *ConverterService {
	return &ConverterService{
		codec:     codec,
		cache:     cache,
		renderer:  renderer,
		maxWidth:  maxWidth,
		maxHeight: maxHeight,
	}
}

// ConvertToHTML converts the image at imagePath to pixel-grid markup. The
// second call for an unchanged image and configuration is a cache hit and
// never decodes the full pixel content.
func (s *ConverterService) ConvertToHTML(ctx context.Context, imagePath string) (string, error) {
	info, err := os.Stat(imagePath)
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("%w: %s", domain.ErrNotFound, imagePath)
		}
		return "", fmt.Errorf("failed to stat source image %s: %w", imagePath, err)
	}

	// Dimensions feed the fingerprint, so the header is read even on the hit
	// path. Bounds only decodes metadata, not pixel content.
	source, err := s.codec.Bounds(imagePath)
	if err != nil {
		return "", err
	}

	target := ResolveDimensions(source, s.maxWidth, s.maxHeight)
	key := Fingerprint(imagePath, info.ModTime(), info.Size(), target)

	cached, ok, err := s.cache.Lookup(ctx, key)
	if err != nil {
		return "", err
	}
	if ok {
		log.Debug().Str("path", imagePath).Str("key", string(key)).Msg("Cache hit")
		return cached, nil
	}

	img, err := s.codec.Decode(imagePath)
	if err != nil {
		return "", err
	}

	if target != source {
		img = s.codec.Resize(img, target)
	}

	markup, err := s.renderer.Render(img, filepath.Base(imagePath))
	if err != nil {
		return "", err
	}

	entryPath, err := s.cache.Store(ctx, key, markup)
	if err != nil {
		return "", err
	}

	log.Debug().
		Str("path", imagePath).
		Str("entry", entryPath).
		Int("width", target.Width).
		Int("height", target.Height).
		Msg("Rendered and cached markup")

	return markup, nil
}
