package domain

import "errors"

// Conversion failures are fatal for the call that hit them; nothing here is
// retried internally. Callers match with errors.Is.
var (
	// ErrConfig means the cache directory could not be created or made writable.
	ErrConfig = errors.New("cache directory not usable")

	// ErrNotFound means the source image does not exist.
	ErrNotFound = errors.New("source image not found")

	// ErrUnsupportedFormat means the source is not a JPEG, PNG, or GIF.
	ErrUnsupportedFormat = errors.New("unsupported image format")

	// ErrDecode means the codec failed to decode the source image.
	ErrDecode = errors.New("image decode failed")

	// ErrResize means the codec failed to resize the decoded image.
	ErrResize = errors.New("image resize failed")

	// ErrSanitize means the source file name contains bytes outside printable ASCII.
	ErrSanitize = errors.New("file name is not printable ASCII")

	// ErrStorage means a cache read or write failed.
	ErrStorage = errors.New("cache storage failure")
)
