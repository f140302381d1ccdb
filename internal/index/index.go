// Package index holds the immutable per-crawl station snapshot and the
// keyword matching that answers user queries against it.
package index

import (
	"strings"
	"sync/atomic"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/pheemnattavich-project/FloodSafe/internal/entities"
	"github.com/pheemnattavich-project/FloodSafe/internal/thai"
)

// matchCacheSize bounds the per-snapshot memoization of keyword lookups.
// The fallback phase scans every record, and users tend to repeat the same
// handful of place names.
const matchCacheSize = 512

// Index is a read-only snapshot of one completed crawl: the ordered records
// plus the lookup structures derived from them. A new crawl builds a whole
// new Index; nothing here is updated in place.
type Index struct {
	records  []entities.StationRecord
	byTambon map[string]int // normalized tambon -> record position, last wins
	surfaces []string       // normalized location+stationName per record

	// matches memoizes keyword -> record position (-1 for a miss). The
	// cache belongs to this snapshot and is dropped with it, so a stale
	// answer can never outlive the data it came from.
	matches *lru.Cache[string, int]
}

// New builds an index from a crawl's output. The slice is copied; the caller
// may reuse its backing array.
func New(records []entities.StationRecord) *Index {
	ix := &Index{
		records:  make([]entities.StationRecord, len(records)),
		byTambon: make(map[string]int, len(records)),
		surfaces: make([]string, len(records)),
	}
	copy(ix.records, records)

	for i, r := range ix.records {
		if key := thai.NormalizePlace(r.Tambon); key != "" {
			// The source lists each station once per crawl; on a duplicate
			// tambon the most recently seen record wins.
			ix.byTambon[key] = i
		}
		ix.surfaces[i] = thai.NormalizePlace(r.Location) + thai.NormalizePlace(r.StationName)
	}

	// lru.New only fails for a non-positive size.
	ix.matches, _ = lru.New[string, int](matchCacheSize)
	return ix
}

// Len returns the number of records in the snapshot.
func (ix *Index) Len() int {
	return len(ix.records)
}

// Records returns a copy of the snapshot's records in crawl order.
func (ix *Index) Records() []entities.StationRecord {
	out := make([]entities.StationRecord, len(ix.records))
	copy(out, ix.records)
	return out
}

// Match answers "which station matches this keyword". Phase one is an exact
// lookup on the normalized tambon, which is unambiguous and preferred.
// Phase two scans the normalized location+name surfaces in index order and
// takes the first substring hit, trading precision for recall when users
// type partial district or station names. No hit in either phase is a
// normal negative result, not an error.
func (ix *Index) Match(keyword string) (entities.StationRecord, bool) {
	key := thai.NormalizePlace(thai.NormalizeWhitespace(keyword))
	if key == "" {
		return entities.StationRecord{}, false
	}

	if pos, ok := ix.matches.Get(key); ok {
		if pos < 0 {
			return entities.StationRecord{}, false
		}
		return ix.records[pos], true
	}

	pos := ix.lookup(key)
	ix.matches.Add(key, pos)
	if pos < 0 {
		return entities.StationRecord{}, false
	}
	return ix.records[pos], true
}

func (ix *Index) lookup(key string) int {
	if pos, ok := ix.byTambon[key]; ok {
		return pos
	}
	for i, surface := range ix.surfaces {
		if strings.Contains(surface, key) {
			return i
		}
	}
	return -1
}

// Store publishes the current Index with an atomic pointer swap. Readers of
// an older snapshot are unaffected by a publish; they finish against the
// index they started with.
type Store struct {
	current atomic.Pointer[Index]
}

// NewStore creates an empty store; Current returns nil until first Publish.
func NewStore() *Store {
	return &Store{}
}

// Publish atomically replaces the current snapshot.
func (s *Store) Publish(ix *Index) {
	s.current.Store(ix)
}

// Current returns the latest published snapshot, or nil before the first one.
func (s *Store) Current() *Index {
	return s.current.Load()
}
