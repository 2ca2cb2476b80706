package metrics

import (
	"sync"
	"sync/atomic"
	"time"
)

// Collector keeps in-process request counters for /admin/metrics.
type Collector struct {
	started         time.Time
	totalRequests   atomic.Uint64
	errorRequests   atomic.Uint64
	rateLimited     atomic.Uint64
	totalDurationMs atomic.Uint64
	lockFailures    atomic.Uint64

	mu      sync.Mutex
	byRoute map[string]uint64
}

type Snapshot struct {
	UptimeSeconds    int64             `json:"uptimeSeconds"`
	RequestsTotal    uint64            `json:"requestsTotal"`
	ErrorsTotal      uint64            `json:"errorsTotal"`
	RateLimitedTotal uint64            `json:"rateLimitedTotal"`
	LockFailures     uint64            `json:"lockFailuresTotal"`
	AvgDurationMs    float64           `json:"avgDurationMs"`
	ByRoute          map[string]uint64 `json:"byRoute"`
}

func New() *Collector {
	return &Collector{started: time.Now(), byRoute: map[string]uint64{}}
}

// Record counts one finished request. route is the matched pattern, not the
// raw path, so ids do not blow up the map.
func (c *Collector) Record(route string, status int, duration time.Duration) {
	c.totalRequests.Add(1)
	if status >= 500 {
		c.errorRequests.Add(1)
	}
	if status == 429 {
		c.rateLimited.Add(1)
	}
	c.totalDurationMs.Add(uint64(duration.Milliseconds()))
	if route == "" {
		return
	}
	c.mu.Lock()
	c.byRoute[route]++
	c.mu.Unlock()
}

func (c *Collector) LockFailed() {
	c.lockFailures.Add(1)
}

func (c *Collector) Snapshot() Snapshot {
	total := c.totalRequests.Load()
	avg := float64(0)
	if total > 0 {
		avg = float64(c.totalDurationMs.Load()) / float64(total)
	}
	c.mu.Lock()
	routes := make(map[string]uint64, len(c.byRoute))
	for k, v := range c.byRoute {
		routes[k] = v
	}
	c.mu.Unlock()
	return Snapshot{
		UptimeSeconds:    int64(time.Since(c.started).Seconds()),
		RequestsTotal:    total,
		ErrorsTotal:      c.errorRequests.Load(),
		RateLimitedTotal: c.rateLimited.Load(),
		LockFailures:     c.lockFailures.Load(),
		AvgDurationMs:    avg,
		ByRoute:          routes,
	}
}
