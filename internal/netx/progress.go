// Package netx holds HTTP body helpers for streaming uploads.
package netx

import (
	"io"
	"sync"
)

// ProgressFunc receives the fraction of the file sent, in [0, 1].
type ProgressFunc func(fraction float64)

// Progress clamps reports to [0, 1] and drops any value lower than the last
// one delivered, so observers only ever see a non-decreasing sequence.
type Progress struct {
	mu   sync.Mutex
	fn   ProgressFunc
	last float64
	sent bool
}

func NewProgress(fn ProgressFunc) *Progress {
	return &Progress{fn: fn}
}

func (p *Progress) Report(v float64) {
	if p == nil || p.fn == nil {
		return
	}
	if v < 0 {
		v = 0
	}
	if v > 1 {
		v = 1
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.sent && v <= p.last {
		return
	}
	p.last, p.sent = v, true
	p.fn(v)
}

// Done reports completion.
func (p *Progress) Done() {
	p.Report(1)
}

// maxStreamed is the highest fraction reported while bytes are still in
// flight; 1 is left for Done.
const maxStreamed = 0.99

// countingReader reports read/total after every read. A non-positive total
// disables reporting.
type countingReader struct {
	r     io.Reader
	total int64
	read  int64
	p     *Progress
}

func (c *countingReader) Read(b []byte) (int, error) {
	n, err := c.r.Read(b)
	if n > 0 && c.total > 0 {
		c.read += int64(n)
		c.p.Report(min(float64(c.read)/float64(c.total), maxStreamed))
	}
	return n, err
}
