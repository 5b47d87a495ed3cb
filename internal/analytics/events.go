// Package analytics tracks query activity. The web app publishes search
// events to Kafka through a buffered collector; an aggregator consumes the
// topic and serves running statistics over HTTP.
package analytics

import "time"

type EventType string

const (
	EventSearch     EventType = "search"
	EventPhrase     EventType = "phrase"
	EventZeroResult EventType = "zero_result"
	EventCacheHit   EventType = "cache_hit"
	EventCacheMiss  EventType = "cache_miss"
)

// SearchEvent is emitted once per executed query.
type SearchEvent struct {
	Type      EventType `json:"type"`
	Query     string    `json:"query"`
	TotalHits int       `json:"total_hits"`
	Returned  int       `json:"returned"`
	LatencyMs int64     `json:"latency_ms"`
	CacheHit  bool      `json:"cache_hit"`
	Timestamp time.Time `json:"timestamp"`
	RequestID string    `json:"request_id"`
}
