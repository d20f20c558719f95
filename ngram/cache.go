package ngram

import (
	"encoding/binary"

	"github.com/cespare/xxhash/v2"
	"github.com/dgraph-io/ristretto/v2"
)

// queryCache memoizes LogProb results on a frozen store behind a bounded,
// concurrent cache. A miss just re-walks the in-memory node array rather
// than hitting disk, so the cache exists purely to skip that walk for hot
// grams, common in a decoder's inner scoring loop where the same short
// contexts recur heavily across hypotheses.
type queryCache struct {
	cache *ristretto.Cache[uint64, float32]
}

// newQueryCache builds a query cache sized to hold roughly maxEntries
// results; ristretto's NumCounters follows its own guidance of ~10x the
// expected item count for accurate frequency estimation.
func newQueryCache(maxEntries int64) (*queryCache, error) {
	c, err := ristretto.NewCache(&ristretto.Config[uint64, float32]{
		NumCounters: maxEntries * 10,
		MaxCost:     maxEntries,
		BufferItems: 64,
	})
	if err != nil {
		return nil, err
	}
	return &queryCache{cache: c}, nil
}

func gramKey(gram []int32) uint64 {
	buf := make([]byte, 4*len(gram))
	for i, w := range gram {
		binary.LittleEndian.PutUint32(buf[i*4:], uint32(w))
	}
	return xxhash.Sum64(buf)
}

func (c *queryCache) get(gram []int32) (float32, bool) {
	if c == nil {
		return 0, false
	}
	return c.cache.Get(gramKey(gram))
}

func (c *queryCache) set(gram []int32, logProb float32) {
	if c == nil {
		return
	}
	c.cache.Set(gramKey(gram), logProb, 1)
}

// close releases the cache's background goroutines. Safe to call on a nil
// receiver.
func (c *queryCache) close() {
	if c == nil || c.cache == nil {
		return
	}
	c.cache.Close()
}

// EnableQueryCache turns on result memoization for LogProb, sized to hold
// roughly maxEntries distinct grams. A store with caching disabled and one
// with it enabled return identical results; this only affects speed. Call
// it once after a store reaches the frozen phase, before handing it to
// concurrent readers.
func (s *Store) EnableQueryCache(maxEntries int64) error {
	c, err := newQueryCache(maxEntries)
	if err != nil {
		return err
	}
	s.cache = c
	return nil
}

// DisableQueryCache releases the query cache, if any.
func (s *Store) DisableQueryCache() {
	s.cache.close()
	s.cache = nil
}
