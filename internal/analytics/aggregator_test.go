package analytics

import "testing"

func TestAggregatorRecord(t *testing.T) {
	agg := NewAggregator()
	agg.Record(SearchEvent{Type: EventSearch, Query: "cat", TotalHits: 3, LatencyMs: 10})
	agg.Record(SearchEvent{Type: EventSearch, Query: "cat", TotalHits: 3, LatencyMs: 30, CacheHit: true})
	agg.Record(SearchEvent{Type: EventSearch, Query: "dog", TotalHits: 0, LatencyMs: 20})
	agg.Record(SearchEvent{Type: EventPhrase, Query: "phrase:[a b]~2", TotalHits: 1, LatencyMs: 4})

	stats := agg.Snapshot(10)
	if stats.TotalQueries != 4 {
		t.Errorf("TotalQueries = %d, want 4", stats.TotalQueries)
	}
	if stats.ZeroResults != 1 {
		t.Errorf("ZeroResults = %d, want 1", stats.ZeroResults)
	}
	if stats.CacheHits != 1 || stats.CacheMisses != 3 {
		t.Errorf("cache hits/misses = %d/%d, want 1/3", stats.CacheHits, stats.CacheMisses)
	}
	if stats.AvgLatencyMs != 16 {
		t.Errorf("AvgLatencyMs = %v, want 16", stats.AvgLatencyMs)
	}
	if len(stats.TopQueries) == 0 || stats.TopQueries[0].Query != "cat" || stats.TopQueries[0].Count != 2 {
		t.Errorf("TopQueries = %v", stats.TopQueries)
	}
}

func TestAggregatorTopK(t *testing.T) {
	agg := NewAggregator()
	for _, q := range []string{"a", "b", "b", "c", "c", "c"} {
		agg.Record(SearchEvent{Type: EventSearch, Query: q, TotalHits: 1})
	}
	stats := agg.Snapshot(2)
	if len(stats.TopQueries) != 2 {
		t.Fatalf("TopQueries len = %d, want 2", len(stats.TopQueries))
	}
	if stats.TopQueries[0].Query != "c" || stats.TopQueries[1].Query != "b" {
		t.Errorf("TopQueries = %v", stats.TopQueries)
	}
}

func TestAggregatorCacheEvents(t *testing.T) {
	agg := NewAggregator()
	agg.Record(SearchEvent{Type: EventCacheHit})
	agg.Record(SearchEvent{Type: EventCacheMiss})
	agg.Record(SearchEvent{Type: EventCacheMiss})

	stats := agg.Snapshot(1)
	if stats.TotalQueries != 0 {
		t.Errorf("TotalQueries = %d, want 0", stats.TotalQueries)
	}
	if stats.CacheHits != 1 || stats.CacheMisses != 2 {
		t.Errorf("cache hits/misses = %d/%d, want 1/2", stats.CacheHits, stats.CacheMisses)
	}
}
