package persistence

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/dfryer1193/img2html/convert/domain"
	"github.com/rs/zerolog/log"
)

// entryExt marks files in the cache directory that belong to this cache.
const entryExt = ".i2html"

var _ domain.CacheRepository = (*FileCacheRepository)(nil)

// FileCacheRepository implements domain.CacheRepository on a plain directory.
// Each entry is a file named "<unix-expiry>-<hex-digest>.i2html" holding raw
// markup; expiry lives in the name, so no separate index is kept. Writers
// never overwrite earlier entries for the same key — stale duplicates
// accumulate until CleanUp removes them.
type FileCacheRepository struct {
	dir      string
	lifetime time.Duration
}

// NewFileCacheRepository prepares dir as a cache directory. The directory is
// created if absent; if it exists but is not writable, a permission fix is
// attempted, and failure to obtain a writable directory is a configuration
// error.
func NewFileCacheRepository(dir string, lifetime time.Duration) (*FileCacheRepository, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("%w: failed to create %s: %v", domain.ErrConfig, dir, err)
	}

	if err := probeWritable(dir); err != nil {
		if chmodErr := os.Chmod(dir, 0755); chmodErr != nil {
			return nil, fmt.Errorf("%w: %s is not writable and chmod failed: %v", domain.ErrConfig, dir, chmodErr)
		}
		if err := probeWritable(dir); err != nil {
			return nil, fmt.Errorf("%w: %s is not writable: %v", domain.ErrConfig, dir, err)
		}
	}

	return &FileCacheRepository{
		dir:      dir,
		lifetime: lifetime,
	}, nil
}

// probeWritable verifies write access by creating and removing a scratch file.
func probeWritable(dir string) error {
	f, err := os.CreateTemp(dir, ".probe-*")
	if err != nil {
		return err
	}
	name := f.Name()
	f.Close()
	return os.Remove(name)
}

// Lookup scans the cache directory for entries belonging to key, in
// lexicographic filename order, and returns the first one whose expiry is
// still in the future. Expired matches are left for the collector.
func (r *FileCacheRepository) Lookup(ctx context.Context, key domain.CacheKey) (string, bool, error) {
	entries, err := os.ReadDir(r.dir)
	if err != nil {
		return "", false, fmt.Errorf("%w: failed to list %s: %v", domain.ErrStorage, r.dir, err)
	}

	suffix := "-" + string(key) + entryExt
	now := time.Now().Unix()

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), suffix) {
			continue
		}

		expiry, err := entryExpiry(entry.Name())
		if err != nil {
			continue
		}
		if now >= expiry {
			continue
		}

		content, err := os.ReadFile(filepath.Join(r.dir, entry.Name()))
		if err != nil {
			// A concurrent collector may remove an entry between the
			// directory listing and the read.
			if os.IsNotExist(err) {
				continue
			}
			return "", false, fmt.Errorf("%w: failed to read %s: %v", domain.ErrStorage, entry.Name(), err)
		}

		return string(content), true, nil
	}

	return "", false, nil
}

// Store writes markup to a fresh entry for key and returns its path. Entries
// are uniquely named by their expiry stamp, so concurrent writers for the
// same key cannot corrupt each other.
func (r *FileCacheRepository) Store(ctx context.Context, key domain.CacheKey, markup string) (string, error) {
	expiry := time.Now().Add(r.lifetime).Unix()
	path := filepath.Join(r.dir, fmt.Sprintf("%d-%s%s", expiry, key, entryExt))

	if err := os.WriteFile(path, []byte(markup), 0644); err != nil {
		return "", fmt.Errorf("%w: failed to write %s: %v", domain.ErrStorage, path, err)
	}

	return path, nil
}

// CleanUp removes every expired entry in the repository's directory.
func (r *FileCacheRepository) CleanUp(ctx context.Context) error {
	return CleanUpCache(r.dir)
}

// CleanUpCache deletes every cache entry in dir whose embedded expiry is in
// the past. It is idempotent and safe to invoke at arbitrary, possibly
// overlapping, times: an entry already removed by a concurrent caller is
// treated as collected, not as an error. Intended to be run on a recurring
// schedule by the host.
func CleanUpCache(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		// A cache directory that was never created holds nothing to collect.
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("%w: failed to list %s: %v", domain.ErrStorage, dir, err)
	}

	now := time.Now().Unix()
	removed := 0

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), entryExt) {
			continue
		}

		expiry, err := entryExpiry(entry.Name())
		if err != nil {
			continue
		}
		if expiry > now {
			continue
		}

		path := filepath.Join(dir, entry.Name())
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("%w: failed to remove %s: %v", domain.ErrStorage, path, err)
		}
		removed++
	}

	if removed > 0 {
		log.Debug().Str("dir", dir).Int("removed", removed).Msg("Collected expired cache entries")
	}

	return nil
}

// entryExpiry parses the unix timestamp prefix out of an entry file name.
func entryExpiry(name string) (int64, error) {
	stamp, _, ok := strings.Cut(name, "-")
	if !ok {
		return 0, fmt.Errorf("malformed cache entry name: %s", name)
	}
	return strconv.ParseInt(stamp, 10, 64)
}
