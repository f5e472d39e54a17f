package observ

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"
)

// PassStats aggregates formatter pass durations across files. It is safe
// for concurrent use and satisfies format.PassObserver.
type PassStats struct {
	mu     sync.Mutex
	order  []string
	passes map[string]*passTotal
}

type passTotal struct {
	calls int
	total time.Duration
	max   time.Duration
}

// NewPassStats returns an empty PassStats.
func NewPassStats() *PassStats {
	return &PassStats{passes: make(map[string]*passTotal)}
}

// ObservePass records one run of the named pass.
func (s *PassStats) ObservePass(name string, elapsed time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	pt, ok := s.passes[name]
	if !ok {
		pt = &passTotal{}
		s.passes[name] = pt
		s.order = append(s.order, name)
	}
	pt.calls++
	pt.total += elapsed
	if elapsed > pt.max {
		pt.max = elapsed
	}
}

// PassReport is the aggregate for one pass.
type PassReport struct {
	Name    string  `json:"name"`
	Calls   int     `json:"calls"`
	TotalMS float64 `json:"total_ms"`
	MaxMS   float64 `json:"max_ms"`
}

// Report returns per-pass aggregates in first-seen order.
func (s *PassStats) Report() []PassReport {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]PassReport, 0, len(s.order))
	for _, name := range s.order {
		pt := s.passes[name]
		out = append(out, PassReport{
			Name:    name,
			Calls:   pt.calls,
			TotalMS: durationToMillis(pt.total),
			MaxMS:   durationToMillis(pt.max),
		})
	}
	return out
}

// Summary renders the aggregates slowest first.
func (s *PassStats) Summary() string {
	report := s.Report()
	if len(report) == 0 {
		return ""
	}
	sort.SliceStable(report, func(i, j int) bool {
		return report[i].TotalMS > report[j].TotalMS
	})
	var b strings.Builder
	b.WriteString("passes:\n")
	for _, p := range report {
		fmt.Fprintf(&b, "  %-20s %7.2f ms  x%d  (max %.2f ms)\n", p.Name, p.TotalMS, p.Calls, p.MaxMS)
	}
	return b.String()
}
