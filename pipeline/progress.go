package pipeline

import (
	"fmt"
	"io"
	"sync"
	"time"
)

// progressTracker reports embedding progress to a writer at a record-count
// interval. Safe for concurrent use.
type progressTracker struct {
	mu             sync.Mutex
	writer         io.Writer
	total          int
	current        int
	reportInterval int
	lastReported   int
	startTime      time.Time
}

func newProgressTracker(writer io.Writer, total, reportInterval int) *progressTracker {
	if reportInterval <= 0 {
		reportInterval = 1
	}
	return &progressTracker{
		writer:         writer,
		total:          total,
		reportInterval: reportInterval,
		startTime:      time.Now(),
	}
}

// increment advances progress by delta records, reporting when a full
// interval has passed since the last report.
func (p *progressTracker) increment(delta int) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.current += delta
	if p.current > p.total {
		p.current = p.total
	}

	if p.current-p.lastReported >= p.reportInterval {
		p.report()
		p.lastReported = p.current
	}
}

// finish prints the final progress line.
func (p *progressTracker) finish() {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.current = p.total
	if p.writer == nil {
		return
	}
	p.report()
	fmt.Fprintln(p.writer)
}

// report must be called with the lock held.
func (p *progressTracker) report() {
	if p.writer == nil {
		return
	}

	elapsed := time.Since(p.startTime)
	rate := float64(p.current) / elapsed.Seconds()

	percentage := 0.0
	if p.total > 0 {
		percentage = float64(p.current) / float64(p.total) * 100.0
	}

	fmt.Fprintf(p.writer, "\rEmbedding: %d/%d records (%.1f%%) - %.1f records/s",
		p.current, p.total, percentage, rate)
}
