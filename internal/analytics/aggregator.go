package analytics

import (
	"sort"
	"sync"
)

// Aggregator keeps running query statistics. An EventReader feeds it from
// the analytics topic; the stats handler snapshots it.
type Aggregator struct {
	mu             sync.RWMutex
	totalQueries   int64
	zeroResults    int64
	cacheHits      int64
	cacheMisses    int64
	totalLatencyMs int64
	queryCounts    map[string]int64
}

// Stats is the aggregate view served over HTTP.
type Stats struct {
	TotalQueries int64        `json:"total_queries"`
	ZeroResults  int64        `json:"zero_results"`
	CacheHits    int64        `json:"cache_hits"`
	CacheMisses  int64        `json:"cache_misses"`
	AvgLatencyMs float64      `json:"avg_latency_ms"`
	TopQueries   []QueryCount `json:"top_queries"`
}

// QueryCount is one entry of the top-queries list.
type QueryCount struct {
	Query string `json:"query"`
	Count int64  `json:"count"`
}

// NewAggregator returns an empty Aggregator.
func NewAggregator() *Aggregator {
	return &Aggregator{
		queryCounts: make(map[string]int64),
	}
}

// Record folds a single event into the running statistics.
func (a *Aggregator) Record(event SearchEvent) {
	a.mu.Lock()
	defer a.mu.Unlock()
	switch event.Type {
	case EventSearch, EventPhrase, EventZeroResult:
		a.totalQueries++
		a.totalLatencyMs += event.LatencyMs
		if event.TotalHits == 0 {
			a.zeroResults++
		}
		if event.Query != "" {
			a.queryCounts[event.Query]++
		}
		if event.CacheHit {
			a.cacheHits++
		} else {
			a.cacheMisses++
		}
	case EventCacheHit:
		a.cacheHits++
	case EventCacheMiss:
		a.cacheMisses++
	}
}

// Snapshot returns the current statistics with the top-k query list.
func (a *Aggregator) Snapshot(topK int) Stats {
	a.mu.RLock()
	defer a.mu.RUnlock()
	stats := Stats{
		TotalQueries: a.totalQueries,
		ZeroResults:  a.zeroResults,
		CacheHits:    a.cacheHits,
		CacheMisses:  a.cacheMisses,
	}
	if a.totalQueries > 0 {
		stats.AvgLatencyMs = float64(a.totalLatencyMs) / float64(a.totalQueries)
	}
	top := make([]QueryCount, 0, len(a.queryCounts))
	for q, n := range a.queryCounts {
		top = append(top, QueryCount{Query: q, Count: n})
	}
	sort.Slice(top, func(i, j int) bool {
		if top[i].Count != top[j].Count {
			return top[i].Count > top[j].Count
		}
		return top[i].Query < top[j].Query
	})
	if topK > 0 && len(top) > topK {
		top = top[:topK]
	}
	stats.TopQueries = top
	return stats
}
