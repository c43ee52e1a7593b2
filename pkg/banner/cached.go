package banner

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"
)

// DefaultCacheTTL is how long a cached frame is served. Counters in a
// cached frame are at most this old.
const DefaultCacheTTL = 30 * time.Second

const framePattern = "frame-*.cache"

// CacheKey hashes the parts that shape a frame (widget IDs, width, theme,
// format) into a short file-safe key. Parts are NUL-separated.
func CacheKey(parts ...string) string {
	h := sha256.New()
	for _, p := range parts {
		fmt.Fprintf(h, "%s\x00", p)
	}
	return hex.EncodeToString(h.Sum(nil)[:12])
}

// RenderCached serves the frame stored under key in dir while it is younger
// than ttl. Otherwise it calls render and stores the result; a failed store
// is returned alongside the fresh frame. Empty frames are never stored.
func RenderCached(dir, key string, ttl time.Duration, render func() string) (string, error) {
	c := frameCache{dir: dir, path: filepath.Join(dir, "frame-"+key+".cache")}
	if frame, ok := c.load(ttl); ok {
		return frame, nil
	}
	frame := render()
	if frame == "" {
		return "", nil
	}
	return frame, c.store(frame)
}

type frameCache struct {
	dir, path string
}

func (c frameCache) load(ttl time.Duration) (string, bool) {
	info, err := os.Stat(c.path)
	if err != nil || time.Since(info.ModTime()) >= ttl {
		return "", false
	}
	b, err := os.ReadFile(c.path)
	if err != nil {
		return "", false
	}
	return string(b), true
}

// store renames a temp file into place so readers never see a partial frame.
func (c frameCache) store(frame string) (err error) {
	if err := os.MkdirAll(c.dir, 0o755); err != nil {
		return fmt.Errorf("frame cache: %w", err)
	}
	tmp, err := os.CreateTemp(c.dir, ".frame-*")
	if err != nil {
		return fmt.Errorf("frame cache: %w", err)
	}
	defer func() {
		if err != nil {
			_ = os.Remove(tmp.Name())
		}
	}()

	_, err = tmp.WriteString(frame)
	if cerr := tmp.Close(); err == nil {
		err = cerr
	}
	if err == nil {
		err = os.Rename(tmp.Name(), c.path)
	}
	if err != nil {
		return fmt.Errorf("frame cache: %w", err)
	}
	return nil
}

// CleanStaleCache removes cached frames older than maxAge from dir. A
// missing dir is not an error.
func CleanStaleCache(dir string, maxAge time.Duration) error {
	if _, err := os.Stat(dir); errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	paths, err := filepath.Glob(filepath.Join(dir, framePattern))
	if err != nil {
		return err
	}
	for _, p := range paths {
		if info, err := os.Stat(p); err == nil && !info.IsDir() && time.Since(info.ModTime()) > maxAge {
			_ = os.Remove(p)
		}
	}
	return nil
}
