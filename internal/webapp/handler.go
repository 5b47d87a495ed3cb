// Package webapp exposes a loaded index over HTTP: boolean search, phrase
// search, cache management, and analytics endpoints.
package webapp

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/irsearch/platform/internal/analytics"
	"github.com/irsearch/platform/internal/webapp/cache"
	"github.com/irsearch/platform/internal/webapp/query"
	"github.com/irsearch/platform/pkg/errors"
	"github.com/irsearch/platform/pkg/logger"
	"github.com/irsearch/platform/pkg/metrics"
)

// Handler serves the search API. The cache and collector are optional; a
// nil cache means every query is executed, a nil collector means no
// analytics events are published.
type Handler struct {
	engine       *query.Engine
	cache        *cache.QueryCache
	collector    *analytics.Collector
	metrics      *metrics.Metrics
	defaultLimit int
}

// New creates the API handler.
func New(
	engine *query.Engine,
	queryCache *cache.QueryCache,
	collector *analytics.Collector,
	m *metrics.Metrics,
	defaultLimit int,
) *Handler {
	if defaultLimit <= 0 {
		defaultLimit = 10
	}
	return &Handler{
		engine:       engine,
		cache:        queryCache,
		collector:    collector,
		metrics:      m,
		defaultLimit: defaultLimit,
	}
}

// Search handles GET /api/v1/search?q=<query>&limit=N.
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	q := strings.TrimSpace(r.URL.Query().Get("q"))
	if q == "" {
		writeError(w, errors.New(errors.ErrInvalidInput, http.StatusBadRequest, "missing query parameter q"))
		return
	}
	limit := h.limitParam(r)
	start := time.Now()

	var result *query.Result
	var cacheHit bool
	var err error
	if h.cache != nil {
		result, cacheHit, err = h.cache.GetOrCompute(r.Context(), q, limit, func() (*query.Result, error) {
			return h.engine.Search(q, limit)
		})
	} else {
		result, err = h.engine.Search(q, limit)
	}
	latency := time.Since(start)

	if err != nil {
		h.observeSearch("error", cacheHit, latency, 0)
		logger.FromContext(r.Context()).Error("search failed", "query", q, "error", err)
		writeError(w, err)
		return
	}

	resultType := "ok"
	if result.TotalHits == 0 {
		resultType = "zero_result"
	}
	h.observeSearch(resultType, cacheHit, latency, result.TotalHits)
	h.track(r, analytics.EventSearch, q, result, cacheHit, latency)
	writeJSON(w, http.StatusOK, result)
}

// Phrase handles GET /api/v1/phrase?terms=a,b,c&dist=N&limit=N. The
// boolean grammar has no phrase operator, so proximity search gets its own
// endpoint.
func (h *Handler) Phrase(w http.ResponseWriter, r *http.Request) {
	raw := strings.TrimSpace(r.URL.Query().Get("terms"))
	if raw == "" {
		writeError(w, errors.New(errors.ErrInvalidInput, http.StatusBadRequest, "missing query parameter terms"))
		return
	}
	terms := strings.Split(raw, ",")

	dist := len(terms)
	if v := r.URL.Query().Get("dist"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed < 0 {
			writeError(w, errors.New(errors.ErrInvalidInput, http.StatusBadRequest, "dist must be a non-negative integer"))
			return
		}
		dist = parsed
	}
	limit := h.limitParam(r)

	start := time.Now()
	result, err := h.engine.Phrase(terms, dist, limit)
	latency := time.Since(start)
	if err != nil {
		logger.FromContext(r.Context()).Error("phrase search failed", "terms", raw, "error", err)
		writeError(w, err)
		return
	}
	if h.metrics != nil {
		h.metrics.PhraseQueriesTotal.Inc()
	}
	h.track(r, analytics.EventPhrase, result.Query, result, false, latency)
	writeJSON(w, http.StatusOK, result)
}

// CacheStats handles GET /api/v1/cache/stats.
func (h *Handler) CacheStats(w http.ResponseWriter, r *http.Request) {
	if h.cache == nil {
		writeJSON(w, http.StatusOK, map[string]any{"enabled": false})
		return
	}
	hits, misses := h.cache.Stats()
	writeJSON(w, http.StatusOK, map[string]any{
		"enabled": true,
		"hits":    hits,
		"misses":  misses,
	})
}

// CacheInvalidate handles POST /api/v1/cache/invalidate.
func (h *Handler) CacheInvalidate(w http.ResponseWriter, r *http.Request) {
	if h.cache == nil {
		writeJSON(w, http.StatusOK, map[string]any{"enabled": false})
		return
	}
	if err := h.cache.Invalidate(r.Context()); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"status": "invalidated"})
}

func (h *Handler) limitParam(r *http.Request) int {
	if v := r.URL.Query().Get("limit"); v != "" {
		if limit, err := strconv.Atoi(v); err == nil && limit > 0 {
			return limit
		}
	}
	return h.defaultLimit
}

func (h *Handler) observeSearch(resultType string, cacheHit bool, latency time.Duration, hits int) {
	if h.metrics == nil {
		return
	}
	h.metrics.SearchQueriesTotal.WithLabelValues(resultType).Inc()
	cacheStatus := "miss"
	if cacheHit {
		cacheStatus = "hit"
		h.metrics.CacheHitsTotal.Inc()
	} else {
		h.metrics.CacheMissesTotal.Inc()
	}
	h.metrics.SearchLatency.WithLabelValues(cacheStatus).Observe(latency.Seconds())
	h.metrics.SearchResultsCount.Observe(float64(hits))
}

func (h *Handler) track(r *http.Request, typ analytics.EventType, q string, result *query.Result, cacheHit bool, latency time.Duration) {
	if h.collector == nil {
		return
	}
	event := analytics.SearchEvent{
		Type:      typ,
		Query:     q,
		TotalHits: result.TotalHits,
		Returned:  len(result.Results),
		LatencyMs: latency.Milliseconds(),
		CacheHit:  cacheHit,
		Timestamp: time.Now().UTC(),
		RequestID: r.Header.Get("X-Request-ID"),
	}
	if result.TotalHits == 0 {
		event.Type = analytics.EventZeroResult
	}
	h.collector.Track(event)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("writing response", "error", err)
	}
}

func writeError(w http.ResponseWriter, err error) {
	status := errors.HTTPStatusCode(err)
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
