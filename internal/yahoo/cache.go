package yahoo

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/willowtrade/willow/internal/chain"
)

// snapshotCache persists normalized chain snapshots as JSON files under
// a cache directory. Entries expire after the configured TTL; stale
// files are overwritten on the next put.
type snapshotCache struct {
	dir string
	ttl time.Duration

	now func() time.Time
}

func newSnapshotCache(dir string, ttl time.Duration) *snapshotCache {
	return &snapshotCache{dir: dir, ttl: ttl, now: time.Now}
}

func (sc *snapshotCache) path(symbol string, expiration time.Time) string {
	name := fmt.Sprintf("%s_%s.json", symbol, expiration.Format(chain.DateLayout))
	return filepath.Join(sc.dir, name)
}

// get returns the cached snapshot when the file exists and is younger
// than the TTL.
func (sc *snapshotCache) get(symbol string, expiration time.Time) (*chain.Snapshot, bool) {
	path := sc.path(symbol, expiration)

	info, err := os.Stat(path)
	if err != nil {
		return nil, false
	}
	if sc.now().Sub(info.ModTime()) > sc.ttl {
		return nil, false
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, false
	}

	var snap chain.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		// Corrupt entry, drop it.
		os.Remove(path)
		return nil, false
	}
	return &snap, true
}

func (sc *snapshotCache) put(symbol string, expiration time.Time, snap *chain.Snapshot) error {
	if err := os.MkdirAll(sc.dir, 0o755); err != nil {
		return fmt.Errorf("create cache dir: %w", err)
	}

	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}

	if err := os.WriteFile(sc.path(symbol, expiration), data, 0o644); err != nil {
		return fmt.Errorf("write cache file: %w", err)
	}
	return nil
}
