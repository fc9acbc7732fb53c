package perf

import (
	"math"
	"sort"
	"sync"
	"sync/atomic"
	"time"
)

// DefaultRingSize is the default capacity of the ring buffer.
const DefaultRingSize = 4096

// Kind distinguishes HTTP requests from storage queries.
type Kind uint8

const (
	KindRequest Kind = iota
	KindQuery
)

// Entry is a single timing sample.
type Entry struct {
	Kind       Kind
	Name       string // "GET /course/{id}" or "QueryRowContext"
	StatusCode int    // 0 for queries
	DurationMs float64
	At         time.Time
}

// Collector keeps the most recent timing samples in a fixed ring.
// Record never blocks on aggregation; Snapshot does the work on read.
type Collector struct {
	mu    sync.Mutex
	ring  []Entry
	next  int
	total atomic.Int64
}

// NewCollector creates a collector holding up to size samples.
// PRE: none (size <= 0 falls back to DefaultRingSize)
// POST: Returns a ready-to-use collector
func NewCollector(size int) *Collector {
	if size <= 0 {
		size = DefaultRingSize
	}
	return &Collector{ring: make([]Entry, size)}
}

// Record stores e, overwriting the oldest sample when full.
// PRE: none
// POST: sample stored, total incremented
func (c *Collector) Record(e Entry) {
	c.mu.Lock()
	c.ring[c.next] = e
	c.next = (c.next + 1) % len(c.ring)
	c.mu.Unlock()
	c.total.Add(1)
}

// TotalRecorded returns the number of samples ever recorded.
func (c *Collector) TotalRecorded() int64 {
	return c.total.Load()
}

// Stat aggregates timings for one request path or query op.
type Stat struct {
	Name    string  `json:"name"`
	Count   int     `json:"count"`
	AvgMs   float64 `json:"avg_ms"`
	MaxMs   float64 `json:"max_ms"`
	Errors  int     `json:"errors"` // responses with status >= 500
	TotalMs float64 `json:"-"`
}

// Snapshot is the aggregated view returned to /api/perf.
type Snapshot struct {
	TotalRecorded  int64   `json:"total_recorded"`
	RequestP50Ms   float64 `json:"request_p50_ms"`
	RequestP95Ms   float64 `json:"request_p95_ms"`
	RequestP99Ms   float64 `json:"request_p99_ms"`
	SlowestPaths   []Stat  `json:"slowest_paths"`
	SlowestQueries []Stat  `json:"slowest_queries"`
}

// Snapshot aggregates samples recorded at or after since.
// PRE: topN > 0
// POST: Returns percentiles and the topN slowest paths and queries by average
func (c *Collector) Snapshot(since time.Time, topN int) Snapshot {
	c.mu.Lock()
	buf := make([]Entry, len(c.ring))
	copy(buf, c.ring)
	c.mu.Unlock()

	var durations []float64
	paths := make(map[string]*Stat)
	queries := make(map[string]*Stat)

	for _, e := range buf {
		if e.At.IsZero() || e.At.Before(since) {
			continue
		}
		target := queries
		if e.Kind == KindRequest {
			durations = append(durations, e.DurationMs)
			target = paths
		}
		s, ok := target[e.Name]
		if !ok {
			s = &Stat{Name: e.Name}
			target[e.Name] = s
		}
		s.Count++
		s.TotalMs += e.DurationMs
		s.MaxMs = math.Max(s.MaxMs, e.DurationMs)
		if e.StatusCode >= 500 {
			s.Errors++
		}
	}

	snap := Snapshot{
		TotalRecorded:  c.TotalRecorded(),
		SlowestPaths:   slowest(paths, topN),
		SlowestQueries: slowest(queries, topN),
	}
	if len(durations) > 0 {
		sort.Float64s(durations)
		snap.RequestP50Ms = percentile(durations, 50)
		snap.RequestP95Ms = percentile(durations, 95)
		snap.RequestP99Ms = percentile(durations, 99)
	}
	return snap
}

// percentile interpolates the p-th percentile of a sorted slice.
func percentile(sorted []float64, p float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	idx := (p / 100) * float64(len(sorted)-1)
	lo := int(math.Floor(idx))
	hi := int(math.Ceil(idx))
	if lo == hi || hi >= len(sorted) {
		return sorted[lo]
	}
	frac := idx - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}

func slowest(stats map[string]*Stat, n int) []Stat {
	list := make([]Stat, 0, len(stats))
	for _, s := range stats {
		s.AvgMs = s.TotalMs / float64(s.Count)
		list = append(list, *s)
	}
	sort.Slice(list, func(i, j int) bool {
		if list[i].AvgMs == list[j].AvgMs {
			return list[i].Name < list[j].Name
		}
		return list[i].AvgMs > list[j].AvgMs
	})
	if len(list) > n {
		list = list[:n]
	}
	return list
}
