package application

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/dfryer1193/img2html/convert/domain"
)

// Fingerprint derives the cache key for one conversion from the source image's
// identity (path, modification time, byte size) and the target dimensions.
// Fields are NUL-separated so no two distinct input tuples share an encoding;
// NUL cannot appear in a file path or a decimal number. The modification time
// contributes whole seconds, matching the granularity of a filesystem stat.
func Fingerprint(path string, modTime time.Time, byteSize int64, dims domain.Dimensions) domain.CacheKey {
	h := sha256.New()
	fmt.Fprintf(h, "%s\x00%d\x00%d\x00%d\x00%d", path, modTime.Unix(), byteSize, dims.Width, dims.Height)
	return domain.CacheKey(hex.EncodeToString(h.Sum(nil)))
}
