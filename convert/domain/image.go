package domain

import (
	"context"
	"image"
)

// Dimensions is a width/height pair in pixels.
type Dimensions struct {
	Width  int
	Height int
}

// CacheKey is the hex-encoded digest identifying one (image, target size) pair.
type CacheKey string

// PixelCodec abstracts the raster-image capability the converter depends on:
// reading dimensions, decoding to a pixel grid, and resizing that grid.
type PixelCodec interface {
	// Bounds reads only enough of the file to learn its native dimensions.
	// Also validates that the file is one of the supported formats.
	Bounds(path string) (Dimensions, error)

	// Decode reads the full pixel content of the image at path.
	Decode(path string) (image.Image, error)

	// Resize scales img to the given dimensions with smooth interpolation.
	Resize(img image.Image, dims Dimensions) image.Image
}

// CacheRepository persists rendered markup keyed by CacheKey, honoring an
// entry lifetime configured at construction.
type CacheRepository interface {
	// Lookup returns the markup for key if a live entry exists.
	// The second return is false on a miss; expired entries are ignored.
	Lookup(ctx context.Context, key CacheKey) (string, bool, error)

	// Store persists markup under a fresh entry for key and returns the
	// entry's path. Prior entries for the same key are left in place.
	Store(ctx context.Context, key CacheKey, markup string) (string, error)

	// CleanUp deletes every expired entry in the cache directory.
	CleanUp(ctx context.Context) error
}
