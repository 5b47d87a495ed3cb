package analytics

import (
	"context"
	"log/slog"
	"time"
)

const (
	// gateThreshold is how many consecutive publish failures close the
	// broker off; gateCooldown is how long before the next probe.
	gateThreshold = 5
	gateCooldown  = 30 * time.Second
)

// publishGate stops the collector from paying a publish timeout per event
// while the broker is down. After gateThreshold consecutive failures every
// event is dropped until gateCooldown has passed; the first publish after
// that is the probe. The collector's single publish goroutine is the only
// caller, so there is no locking.
type publishGate struct {
	failures  int
	openUntil time.Time
}

func (g *publishGate) allow(now time.Time) bool {
	return !now.Before(g.openUntil)
}

func (g *publishGate) success() {
	g.failures = 0
	g.openUntil = time.Time{}
}

func (g *publishGate) failure(now time.Time) {
	g.failures++
	if g.failures >= gateThreshold {
		g.openUntil = now.Add(gateCooldown)
	}
}

// Collector buffers search events and publishes them to Kafka without
// blocking the query path.
type Collector struct {
	writer  *EventWriter
	gate    publishGate
	eventCh chan SearchEvent
	logger  *slog.Logger
	done    chan struct{}
}

// NewCollector creates a Collector with the given channel buffer size.
func NewCollector(writer *EventWriter, bufferSize int) *Collector {
	if bufferSize <= 0 {
		bufferSize = 10000
	}
	return &Collector{
		writer:  writer,
		eventCh: make(chan SearchEvent, bufferSize),
		logger:  slog.Default().With("component", "analytics-collector"),
		done:    make(chan struct{}),
	}
}

// Start launches the publish loop. It runs until ctx is cancelled or Close
// is called.
func (c *Collector) Start(ctx context.Context) {
	go func() {
		defer close(c.done)
		for {
			select {
			case event, ok := <-c.eventCh:
				if !ok {
					return
				}
				c.publish(ctx, event)
			case <-ctx.Done():
				c.drainRemaining()
				return
			}
		}
	}()
	c.logger.Info("analytics collector started", "buffer_size", cap(c.eventCh))
}

// Track enqueues an event, dropping it when the buffer is full.
func (c *Collector) Track(event SearchEvent) {
	select {
	case c.eventCh <- event:
	default:
		c.logger.Warn("analytics event dropped (buffer full)")
	}
}

// Close stops accepting events and waits for the publish loop to finish.
func (c *Collector) Close() {
	close(c.eventCh)
	<-c.done
}

func (c *Collector) publish(ctx context.Context, event SearchEvent) {
	now := time.Now()
	if !c.gate.allow(now) {
		c.logger.Debug("analytics event dropped (broker gated)", "type", event.Type)
		return
	}
	if err := c.writer.Publish(ctx, event); err != nil {
		c.gate.failure(now)
		c.logger.Error("failed to publish analytics event",
			"error", err,
			"consecutive_failures", c.gate.failures,
		)
		return
	}
	c.gate.success()
}

func (c *Collector) drainRemaining() {
	for {
		select {
		case event, ok := <-c.eventCh:
			if !ok {
				return
			}
			c.publish(context.Background(), event)
		default:
			return
		}
	}
}
