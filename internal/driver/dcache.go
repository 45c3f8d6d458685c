package driver

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/vmihailenco/msgpack/v5"

	"scriptlint/internal/diag"
	"scriptlint/internal/jslint"
	"scriptlint/internal/record"
	"scriptlint/internal/scope"
)

// Current schema version - increment when DiskPayload format changes
const diskCacheSchemaVersion uint16 = 2

// CacheKey addresses the diagnostics of one lint pass.
type CacheKey [sha256.Size]byte

func (k CacheKey) String() string {
	return hex.EncodeToString(k[:])
}

// DiskCache хранит диагностики прошлых прогонов на диске, по ключу из
// текста, окружения и конфигурации линтера.
// Thread-safe for concurrent access.
type DiskCache struct {
	mu  sync.RWMutex
	dir string
}

// DiskPayload is the cached outcome of a successful lint pass. Failed passes
// are never cached.
type DiskPayload struct {
	// Schema version for safe invalidation when format changes
	Schema uint16

	Name        string
	Kind        uint8
	Diagnostics []diag.Diagnostic
	// HasSource is false when the linter returned no text, so a hit must not
	// attach a File either.
	HasSource bool
	Stored    time.Time
}

// OpenDiskCache initializes and returns a disk cache at the standard location.
func OpenDiskCache(app string) (*DiskCache, error) {
	base := os.Getenv("XDG_CACHE_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		base = filepath.Join(home, ".cache")
	}
	return OpenDiskCacheAt(filepath.Join(base, app))
}

// OpenDiskCacheAt opens (creating if needed) a disk cache rooted at dir.
func OpenDiskCacheAt(dir string) (*DiskCache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &DiskCache{dir: dir}, nil
}

// Dir returns the cache root.
func (c *DiskCache) Dir() string {
	if c == nil {
		return ""
	}
	return c.dir
}

func (c *DiskCache) pathFor(key CacheKey) string {
	return filepath.Join(c.dir, "results", key.String()+".mp")
}

// Put serializes and writes a payload to the disk cache.
func (c *DiskCache) Put(key CacheKey, payload *DiskPayload) (err error) {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	p := c.pathFor(key)
	if err = os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(filepath.Dir(p), "tmp-*")
	if err != nil {
		return err
	}
	defer func() {
		// после успешного Rename временного файла уже нет
		if rmErr := os.Remove(f.Name()); rmErr != nil && !errors.Is(rmErr, os.ErrNotExist) && err == nil {
			err = rmErr
		}
	}()

	payload.Schema = diskCacheSchemaVersion
	if err = msgpack.NewEncoder(f).Encode(payload); err != nil {
		_ = f.Close()
		return err
	}
	if err = f.Close(); err != nil {
		return err
	}
	// Атомарная замена
	return os.Rename(f.Name(), p)
}

// Get reads and deserializes a payload from the disk cache. A payload
// written by another schema version counts as a miss.
func (c *DiskCache) Get(key CacheKey, out *DiskPayload) (bool, error) {
	if c == nil {
		return false, nil
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	f, err := os.Open(c.pathFor(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	defer f.Close()

	if err := msgpack.NewDecoder(f).Decode(out); err != nil {
		return false, fmt.Errorf("decode cache entry %s: %w", key, err)
	}
	if out.Schema != diskCacheSchemaVersion {
		return false, nil
	}
	return true, nil
}

// DropAll invalidates the cache.
func (c *DiskCache) DropAll() error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	// тривиально: переименуем каталог и удалим
	old := c.dir + ".old-" + time.Now().Format("20060102150405")
	if err := os.Rename(c.dir, old); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	if err := os.RemoveAll(old); err != nil {
		return err
	}
	return os.MkdirAll(c.dir, 0o755)
}

// ResultKey derives the cache key of one lint pass: the evaluated text, the
// record kind, the environment with its access levels and the linter
// configuration. Any change to one of them is a miss.
func ResultKey(text string, kind record.Kind, env scope.Environment, cfg jslint.Config) CacheKey {
	h := sha256.New()
	fmt.Fprintf(h, "schema=%d\x00kind=%s\x00", diskCacheSchemaVersion, kind)
	fmt.Fprintf(h, "config=%s\x00", configFingerprint(cfg))
	for _, name := range env.Names() {
		fmt.Fprintf(h, "%s=%s\x00", name, env.Access(name))
	}
	h.Write([]byte{0})
	h.Write([]byte(text))

	var key CacheKey
	copy(key[:], h.Sum(nil))
	return key
}

func configFingerprint(cfg jslint.Config) string {
	rules := make([]string, 0, len(cfg.Rules))
	for name, level := range cfg.Rules {
		rules = append(rules, name+":"+level.String())
	}
	sort.Strings(rules)
	return fmt.Sprintf("es%d;%s", cfg.ECMAVersion, strings.Join(rules, ","))
}
