package webapp

import (
	"context"
	"net/http"
	"time"

	"github.com/irsearch/platform/internal/index"
	"github.com/irsearch/platform/internal/webapp/cache"
)

// Readiness serves the liveness and readiness probes. Liveness is
// unconditional; readiness inspects the loaded index and, when configured,
// the cache connection. The index probe degrades only for an empty index;
// the cache probe degrades when no cache is configured or its ping fails.
type Readiness struct {
	ix    *index.Index
	cache *cache.QueryCache
}

// NewReadiness wires the probes to the loaded index and the (possibly nil)
// query cache.
func NewReadiness(ix *index.Index, queryCache *cache.QueryCache) *Readiness {
	return &Readiness{ix: ix, cache: queryCache}
}

type probeResult struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

type readinessReport struct {
	Status string                 `json:"status"`
	Probes map[string]probeResult `json:"probes"`
}

// Live handles GET /health/live.
func (p *Readiness) Live(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "up"})
}

// Ready handles GET /health/ready. A missing cache degrades the report but
// does not fail it: queries still work without Redis.
func (p *Readiness) Ready(w http.ResponseWriter, r *http.Request) {
	report := readinessReport{
		Status: "up",
		Probes: map[string]probeResult{
			"index": p.probeIndex(),
			"cache": p.probeCache(r.Context()),
		},
	}
	for _, probe := range report.Probes {
		if probe.Status != "up" {
			report.Status = "degraded"
			break
		}
	}
	writeJSON(w, http.StatusOK, report)
}

func (p *Readiness) probeIndex() probeResult {
	if p.ix.DocCount() == 0 {
		return probeResult{Status: "degraded", Message: "empty index"}
	}
	return probeResult{Status: "up"}
}

func (p *Readiness) probeCache(ctx context.Context) probeResult {
	if p.cache == nil {
		return probeResult{Status: "degraded", Message: "not configured"}
	}
	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := p.cache.Ping(pingCtx); err != nil {
		return probeResult{Status: "degraded", Message: err.Error()}
	}
	return probeResult{Status: "up"}
}
