package driver

import (
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/vmihailenco/msgpack/v5"

	"lumen/internal/decl"
	"lumen/internal/naming"
)

// Current schema version. Increment when namesPayload changes.
const namesCacheSchemaVersion uint16 = 1

// NamesCache persists sealed name tables on disk, keyed by the snapshot
// digest. The naming pass is a whole-program fixpoint, so an unchanged
// snapshot reproduces it byte for byte; caching skips the pass entirely.
// Thread-safe for concurrent access.
type NamesCache struct {
	mu  sync.RWMutex
	dir string
}

// namesPayload is the on-disk record: one parallel triple per binding.
type namesPayload struct {
	Schema uint16
	Types  []uint32
	Sigs   []string
	Names  []string
}

// OpenNamesCache initializes and returns a disk cache at the standard
// location.
func OpenNamesCache(app string) (*NamesCache, error) {
	base := os.Getenv("XDG_CACHE_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		base = filepath.Join(home, ".cache")
	}
	dir := filepath.Join(base, app)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &NamesCache{dir: dir}, nil
}

func (c *NamesCache) pathFor(key decl.Digest) string {
	hexKey := hex.EncodeToString(key[:])
	return filepath.Join(c.dir, "names", hexKey+".mp")
}

// Put serializes a sealed table under key. The write is atomic: encode into
// a temp file, then rename over the target.
func (c *NamesCache) Put(key decl.Digest, table *naming.Table) error {
	if c == nil {
		return nil
	}
	entries := table.Entries()
	payload := &namesPayload{
		Schema: namesCacheSchemaVersion,
		Types:  make([]uint32, len(entries)),
		Sigs:   make([]string, len(entries)),
		Names:  make([]string, len(entries)),
	}
	for i, e := range entries {
		payload.Types[i] = uint32(e.Key.Type)
		payload.Sigs[i] = e.Key.Signature
		payload.Names[i] = e.Name
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	p := c.pathFor(key)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(filepath.Dir(p), "tmp-*")
	if err != nil {
		return err
	}
	defer os.Remove(f.Name())

	if err := msgpack.NewEncoder(f).Encode(payload); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	return os.Rename(f.Name(), p)
}

// Get reads the table cached under key, rebuilt and sealed. A miss, a schema
// mismatch or a malformed record all report ok=false.
func (c *NamesCache) Get(key decl.Digest) (*naming.Table, bool, error) {
	if c == nil {
		return nil, false, nil
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	p := c.pathFor(key)
	f, err := os.Open(p)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, false, nil
		}
		return nil, false, err
	}
	defer f.Close()

	var payload namesPayload
	if err := msgpack.NewDecoder(f).Decode(&payload); err != nil {
		return nil, false, err
	}
	if payload.Schema != namesCacheSchemaVersion {
		return nil, false, nil
	}
	if len(payload.Types) != len(payload.Sigs) || len(payload.Types) != len(payload.Names) {
		return nil, false, fmt.Errorf("names cache: ragged record for %s", hex.EncodeToString(key[:8]))
	}

	table := naming.NewTable()
	for i := range payload.Types {
		k := naming.Key{Type: decl.TypeID(payload.Types[i]), Signature: payload.Sigs[i]}
		if err := table.Set(k, payload.Names[i]); err != nil {
			return nil, false, err
		}
	}
	table.Seal()
	return table, true, nil
}

// DropAll invalidates the cache, useful after format changes.
func (c *NamesCache) DropAll() error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	old := c.dir + ".old-" + time.Now().Format("20060102150405")
	if err := os.Rename(c.dir, old); err != nil {
		return err
	}
	return os.RemoveAll(old)
}
