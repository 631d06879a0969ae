package search

import (
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/go-crypt/x/blake2b"
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/poiesic/sift/core"
)

// cacheEntry is a cached result list with the time it was captured.
type cacheEntry struct {
	results    []core.SearchResult
	capturedAt time.Time
}

// resultCache is a bounded LRU of result lists whose entries expire after
// a fixed TTL. Entries are deep-copied in and out.
type resultCache struct {
	entries *lru.Cache[[32]byte, *cacheEntry]
	ttl     time.Duration
	now     func() time.Time
}

func newResultCache(size int, ttl time.Duration, now func() time.Time) (*resultCache, error) {
	entries, err := lru.New[[32]byte, *cacheEntry](size)
	if err != nil {
		return nil, err
	}
	return &resultCache{entries: entries, ttl: ttl, now: now}, nil
}

// get returns a copy of the live entry for key. Expired entries are removed.
func (c *resultCache) get(key [32]byte) ([]core.SearchResult, bool) {
	entry, ok := c.entries.Get(key)
	if !ok {
		return nil, false
	}
	if c.now().Sub(entry.capturedAt) >= c.ttl {
		c.entries.Remove(key)
		return nil, false
	}
	return cloneResults(entry.results), true
}

func (c *resultCache) put(key [32]byte, results []core.SearchResult) {
	c.entries.Add(key, &cacheEntry{
		results:    cloneResults(results),
		capturedAt: c.now(),
	})
}

func (c *resultCache) purge() {
	c.entries.Purge()
}

func (c *resultCache) len() int {
	return c.entries.Len()
}

// cacheKey digests the options that select which results a search
// produces: query, search type, rerank flag and threshold, result cap,
// date range and the filter lists. List order does not affect the key.
func cacheKey(opts core.SearchOptions) [32]byte {
	var b strings.Builder
	writeField := func(s string) {
		b.WriteString(strconv.Itoa(len(s)))
		b.WriteByte(':')
		b.WriteString(s)
	}
	writeList := func(list []string) {
		sorted := slices.Clone(list)
		slices.Sort(sorted)
		b.WriteString(strconv.Itoa(len(sorted)))
		b.WriteByte('[')
		for _, s := range sorted {
			writeField(s)
		}
		b.WriteByte(']')
	}

	writeField(opts.Query)
	writeField(string(opts.SearchType))
	writeField(strconv.FormatBool(opts.UseRerank))
	writeField(strconv.FormatFloat(opts.RerankThreshold, 'g', -1, 64))
	writeField(strconv.Itoa(opts.MaxResults))
	if dr := opts.DateRange; dr != nil {
		writeField(dr.Start.UTC().Format(time.RFC3339Nano))
		writeField(dr.End.UTC().Format(time.RFC3339Nano))
	} else {
		writeField("")
	}
	writeList(opts.FileTypes)
	writeList(opts.Tags)
	writeList(opts.Folders)

	h, _ := blake2b.New(32, nil)
	h.Write([]byte(b.String()))
	var key [32]byte
	copy(key[:], h.Sum(nil))
	return key
}

func cloneResults(results []core.SearchResult) []core.SearchResult {
	out := make([]core.SearchResult, len(results))
	for i, r := range results {
		out[i] = r.Clone()
	}
	return out
}
