package pcbox

import (
	"hash/fnv"
	"time"
)

// TTL is how long a decoded Storage may be reused before being
// recomputed; PC contents change rarely enough to tolerate a longer
// window than the bag's.
const TTL = 1500 * time.Millisecond

// Cache memoizes the last decoded Storage, keyed by the current box
// index and a digest of the raw box bytes.
type Cache struct {
	key       string
	decodedAt time.Time
	storage   Storage
	valid     bool
}

func key(currentBox int, raw []byte) string {
	h := fnv.New64a()
	h.Write([]byte{byte(currentBox), byte(currentBox >> 8)})
	h.Write(raw)
	sum := h.Sum64()
	return string([]byte{
		byte(sum), byte(sum >> 8), byte(sum >> 16), byte(sum >> 24),
		byte(sum >> 32), byte(sum >> 40), byte(sum >> 48), byte(sum >> 56),
	})
}

// Get returns the cached Storage if it's still within TTL, the raw
// bytes digest is unchanged, and forceRefresh is false.
func (c *Cache) Get(currentBox int, raw []byte, forceRefresh bool, now time.Time) (Storage, bool) {
	if forceRefresh || !c.valid {
		return Storage{}, false
	}
	if now.Sub(c.decodedAt) > TTL {
		return Storage{}, false
	}
	if c.key != key(currentBox, raw) {
		return Storage{}, false
	}
	return c.storage, true
}

// Put stores a freshly decoded Storage under the given inputs' key.
func (c *Cache) Put(currentBox int, raw []byte, st Storage, now time.Time) {
	c.key = key(currentBox, raw)
	c.decodedAt = now
	c.storage = st
	c.valid = true
}

// ForceRefreshMenuTypes names the menuType values that always bypass
// the cache even within TTL: any menu that can move Pokemon or items
// in or out of storage must show live contents.
var ForceRefreshMenuTypes = map[string]bool{
	"pokemonStorage":       true,
	"pokemonStoragePcMenu": true,
	"playerPcMenu":         true,
	"itemStorageList":      true,
	"itemStorageMenu":      true,
}
