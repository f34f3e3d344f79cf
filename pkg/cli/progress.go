package cli

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"
)

// ProgressReporter reports progress while a batch of queries is checked.
type ProgressReporter interface {
	Start(total int64)
	Update(checked, invalid int64)
	Finish()
	Error(err error)
}

// SimpleProgress is a single-line text progress bar.
type SimpleProgress struct {
	mu      sync.Mutex
	total   int64
	checked int64
	invalid int64
	started time.Time
	writer  io.Writer
}

// NewProgressReporter creates a progress reporter writing to w, os.Stderr
// when w is nil.
func NewProgressReporter(w io.Writer) ProgressReporter {
	if w == nil {
		w = os.Stderr
	}
	return &SimpleProgress{
		writer: w,
	}
}

// Start resets the reporter for total queries.
func (p *SimpleProgress) Start(total int64) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.total = total
	p.checked = 0
	p.invalid = 0
	p.started = time.Now()

	p.render()
}

// Update records how many queries were checked so far and how many of them
// were invalid.
func (p *SimpleProgress) Update(checked, invalid int64) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.checked = checked
	p.invalid = invalid
	p.render()
}

// Finish marks every query as checked.
func (p *SimpleProgress) Finish() {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.checked = p.total
	p.render()
	fmt.Fprintln(p.writer)
}

// Error reports an error that stopped the batch.
func (p *SimpleProgress) Error(err error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	fmt.Fprintf(p.writer, "\n✗ Error: %v\n", err)
}

func (p *SimpleProgress) render() {
	if p.total == 0 {
		return
	}

	percent := float64(p.checked) / float64(p.total) * 100
	barWidth := 40
	filled := int(float64(barWidth) * percent / 100)

	bar := strings.Repeat("█", filled) + strings.Repeat("░", barWidth-filled)

	rate := 0.0
	if elapsed := time.Since(p.started).Seconds(); elapsed > 0 {
		rate = float64(p.checked) / elapsed
	}

	fmt.Fprintf(p.writer, "\rChecking: [%s] %.1f%% (%d/%d, %d invalid) %.1f queries/s",
		bar, percent, p.checked, p.total, p.invalid, rate)
}
