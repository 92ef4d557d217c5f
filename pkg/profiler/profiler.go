// Package profiler records per-stage latencies of the classification pipeline.
package profiler

import (
	"fmt"
	"io"
	"sort"
	"sync"
	"time"

	"gonum.org/v1/gonum/stat"
)

// Profiler tracks execution times for named pipeline stages
type Profiler struct {
	mu    sync.RWMutex
	times map[string][]time.Duration
}

// NewProfiler creates a new profiler
func NewProfiler() *Profiler {
	return &Profiler{
		times: make(map[string][]time.Duration),
	}
}

// Timer represents a timing operation
type Timer struct {
	profiler *Profiler
	name     string
	start    time.Time
}

// Start begins timing a stage
func (p *Profiler) Start(name string) *Timer {
	return &Timer{
		profiler: p,
		name:     name,
		start:    time.Now(),
	}
}

// Stop completes the timing and records the duration
func (t *Timer) Stop() time.Duration {
	duration := time.Since(t.start)
	t.profiler.Record(t.name, duration)
	return duration
}

// Record manually records a timing
func (p *Profiler) Record(name string, duration time.Duration) {
	p.mu.Lock()
	p.times[name] = append(p.times[name], duration)
	p.mu.Unlock()
}

// Stats contains timing statistics for one stage
type Stats struct {
	Name    string        `json:"name"`
	Count   int           `json:"count"`
	Total   time.Duration `json:"total"`
	Average time.Duration `json:"average"`
	Min     time.Duration `json:"min"`
	Max     time.Duration `json:"max"`
	Median  time.Duration `json:"median"`
	P95     time.Duration `json:"p95"`
	P99     time.Duration `json:"p99"`
}

// GetStats returns timing statistics for a stage
func (p *Profiler) GetStats(name string) *Stats {
	p.mu.RLock()
	times := p.times[name]
	sorted := make([]float64, len(times))
	for i, t := range times {
		sorted[i] = float64(t)
	}
	p.mu.RUnlock()

	if len(sorted) == 0 {
		return &Stats{Name: name}
	}

	sort.Float64s(sorted)

	var total float64
	for _, t := range sorted {
		total += t
	}

	return &Stats{
		Name:    name,
		Count:   len(sorted),
		Total:   time.Duration(total),
		Average: time.Duration(total / float64(len(sorted))),
		Min:     time.Duration(sorted[0]),
		Max:     time.Duration(sorted[len(sorted)-1]),
		Median:  quantile(0.5, sorted),
		P95:     quantile(0.95, sorted),
		P99:     quantile(0.99, sorted),
	}
}

// quantile expects sorted input
func quantile(p float64, sorted []float64) time.Duration {
	return time.Duration(stat.Quantile(p, stat.Empirical, sorted, nil))
}

// GetAllStats returns statistics for all tracked stages sorted by name
func (p *Profiler) GetAllStats() []*Stats {
	p.mu.RLock()
	names := make([]string, 0, len(p.times))
	for name := range p.times {
		names = append(names, name)
	}
	p.mu.RUnlock()

	sort.Strings(names)

	stats := make([]*Stats, 0, len(names))
	for _, name := range names {
		stats = append(stats, p.GetStats(name))
	}

	return stats
}

// Reset clears all timing data
func (p *Profiler) Reset() {
	p.mu.Lock()
	p.times = make(map[string][]time.Duration)
	p.mu.Unlock()
}

// PrintReport writes a formatted timing report to w
func (p *Profiler) PrintReport(w io.Writer) {
	stats := p.GetAllStats()

	if len(stats) == 0 {
		fmt.Fprintln(w, "No timing data available")
		return
	}

	fmt.Fprintf(w, "⏱️  Performance Profile Report\n")
	fmt.Fprintf(w, "═══════════════════════════════════════════════════════════════\n")
	fmt.Fprintf(w, "%-20s %8s %10s %8s %8s %8s %8s %8s\n",
		"Stage", "Count", "Total", "Avg", "Min", "Max", "P95", "P99")
	fmt.Fprintf(w, "─────────────────────────────────────────────────────────────────\n")

	for _, stat := range stats {
		if stat.Count == 0 {
			continue
		}

		fmt.Fprintf(w, "%-20s %8d %10s %8s %8s %8s %8s %8s\n",
			truncate(stat.Name, 20),
			stat.Count,
			FormatDuration(stat.Total),
			FormatDuration(stat.Average),
			FormatDuration(stat.Min),
			FormatDuration(stat.Max),
			FormatDuration(stat.P95),
			FormatDuration(stat.P99),
		)
	}

	fmt.Fprintf(w, "═══════════════════════════════════════════════════════════════\n")
}

// FormatDuration formats a duration with a unit suited to its magnitude
func FormatDuration(d time.Duration) string {
	switch {
	case d < time.Microsecond:
		return fmt.Sprintf("%.0fns", float64(d.Nanoseconds()))
	case d < time.Millisecond:
		return fmt.Sprintf("%.1fμs", float64(d.Nanoseconds())/1000)
	case d < time.Second:
		return fmt.Sprintf("%.2fms", float64(d.Nanoseconds())/1e6)
	default:
		return fmt.Sprintf("%.3fs", d.Seconds())
	}
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}

// Measure times fn under name
func (p *Profiler) Measure(name string, fn func()) time.Duration {
	timer := p.Start(name)
	fn()
	return timer.Stop()
}
