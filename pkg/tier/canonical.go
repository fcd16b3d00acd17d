package tier

import "github.com/gogpu/gg/cache"

// DefaultCanonicalCapacity is the per-shard entry limit of a CanonicalStore.
// With 16 shards the store keeps about 65k identities, far more than a
// viewing session visits.
const DefaultCanonicalCapacity = 4096

// CanonicalStore remembers the Original tier size of each image identity.
// The first size learned for an identity is kept; later reports for the same
// identity are ignored. Entries outlive pane resets and are shared by both
// panes. It is safe for concurrent use.
//
// The store is a bounded LRU. A size is immutable only while its identity
// stays on record: once evicted, the next report for that identity is
// learned afresh, possibly from a different source (a metadata hint instead
// of a decoded Original).
type CanonicalStore struct {
	entries *cache.ShardedCache[string, Dimensions]
}

// NewCanonicalStore creates a store holding roughly capacity*16 identities
// before evicting the least recently used. capacity <= 0 selects
// DefaultCanonicalCapacity.
func NewCanonicalStore(capacity int) *CanonicalStore {
	if capacity <= 0 {
		capacity = DefaultCanonicalCapacity
	}
	return &CanonicalStore{
		entries: cache.NewSharded[string, Dimensions](capacity, cache.StringHasher),
	}
}

// Learn records d for identity unless a size is already known, and returns
// the size now on record. Invalid sizes are not recorded.
func (s *CanonicalStore) Learn(identity string, d Dimensions) Dimensions {
	if !d.Valid() {
		got, _ := s.Lookup(identity)
		return got
	}
	return s.entries.GetOrCreate(identity, func() Dimensions { return d })
}

// Lookup returns the recorded size for identity.
func (s *CanonicalStore) Lookup(identity string) (Dimensions, bool) {
	return s.entries.Get(identity)
}

// Len returns the number of identities on record.
func (s *CanonicalStore) Len() int {
	return s.entries.Len()
}
