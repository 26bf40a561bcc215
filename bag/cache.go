package bag

import (
	"hash/fnv"
	"time"
)

// TTL is how long a decoded Bag may be reused before being recomputed,
// long enough to absorb repeated polls within one interaction.
const TTL = 800 * time.Millisecond

// Cache memoizes the last decoded Bag, keyed by the security key's low
// 16 bits, the pocket descriptors, and a digest of the raw pocket
// bytes, so an unchanged frame reuses the previous parse.
type Cache struct {
	key       string
	decodedAt time.Time
	bag       Bag
	valid     bool
}

// key builds the cache key from the inputs that must all match for a
// cached Bag to still be valid.
func key(securityKeyLow16 uint16, descriptors []Descriptor, pocketData [][]byte) string {
	h := fnv.New64a()
	var buf [2]byte
	buf[0] = byte(securityKeyLow16)
	buf[1] = byte(securityKeyLow16 >> 8)
	h.Write(buf[:])
	for _, d := range descriptors {
		h.Write([]byte(d.Kind))
		var db [8]byte
		db[0] = byte(d.Addr)
		db[1] = byte(d.Addr >> 8)
		db[2] = byte(d.Addr >> 16)
		db[3] = byte(d.Addr >> 24)
		db[4] = byte(d.Capacity)
		db[5] = byte(d.Capacity >> 8)
		h.Write(db[:])
	}
	for _, seg := range pocketData {
		h.Write(seg)
	}
	sum := h.Sum64()
	return string([]byte{
		byte(sum), byte(sum >> 8), byte(sum >> 16), byte(sum >> 24),
		byte(sum >> 32), byte(sum >> 40), byte(sum >> 48), byte(sum >> 56),
	})
}

// Get returns the cached Bag if it's still within TTL and every cache
// key input is unchanged, and forceRefresh is false.
func (c *Cache) Get(securityKeyLow16 uint16, descriptors []Descriptor, pocketData [][]byte, forceRefresh bool, now time.Time) (Bag, bool) {
	if forceRefresh || !c.valid {
		return Bag{}, false
	}
	if now.Sub(c.decodedAt) > TTL {
		return Bag{}, false
	}
	if c.key != key(securityKeyLow16, descriptors, pocketData) {
		return Bag{}, false
	}
	return c.bag, true
}

// Put stores a freshly decoded Bag under the given inputs' key.
func (c *Cache) Put(securityKeyLow16 uint16, descriptors []Descriptor, pocketData [][]byte, b Bag, now time.Time) {
	c.key = key(securityKeyLow16, descriptors, pocketData)
	c.decodedAt = now
	c.bag = b
	c.valid = true
}

// ForceRefreshMenuTypes names the menuType values that always bypass
// the cache even within TTL: any menu that can mutate the bag must
// show live quantities.
var ForceRefreshMenuTypes = map[string]bool{
	"bagMenu":         true,
	"itemStorageList": true,
	"itemStorageMenu": true,
}
