package profiler

import (
	"bytes"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestGetStats(t *testing.T) {
	p := NewProfiler()
	for i := 1; i <= 100; i++ {
		p.Record("classify", time.Duration(i)*time.Millisecond)
	}

	stats := p.GetStats("classify")
	assert.Equal(t, 100, stats.Count)
	assert.Equal(t, 5050*time.Millisecond, stats.Total)
	assert.Equal(t, 50500*time.Microsecond, stats.Average)
	assert.Equal(t, time.Millisecond, stats.Min)
	assert.Equal(t, 100*time.Millisecond, stats.Max)
	assert.Equal(t, 50*time.Millisecond, stats.Median)
	assert.Equal(t, 95*time.Millisecond, stats.P95)
	assert.Equal(t, 99*time.Millisecond, stats.P99)
}

func TestGetStatsUnknownStage(t *testing.T) {
	stats := NewProfiler().GetStats("missing")
	assert.Equal(t, 0, stats.Count)
	assert.Equal(t, "missing", stats.Name)
}

func TestConcurrentRecording(t *testing.T) {
	p := NewProfiler()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				p.Measure("normalize", func() {})
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 800, p.GetStats("normalize").Count)
}

func TestPrintReport(t *testing.T) {
	p := NewProfiler()

	var buf bytes.Buffer
	p.PrintReport(&buf)
	assert.Contains(t, buf.String(), "No timing data available")

	p.Record("train", 2*time.Second)
	p.Record("classify", 300*time.Microsecond)

	buf.Reset()
	p.PrintReport(&buf)
	out := buf.String()
	assert.Contains(t, out, "classify")
	assert.Contains(t, out, "2.000s")
	assert.Contains(t, out, "300.0μs")

	p.Reset()
	assert.Empty(t, p.GetAllStats())
}

func TestFormatDuration(t *testing.T) {
	assert.Equal(t, "500ns", FormatDuration(500*time.Nanosecond))
	assert.Equal(t, "1.50ms", FormatDuration(1500*time.Microsecond))
}
