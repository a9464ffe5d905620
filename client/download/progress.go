package download

import (
	"io"
	"log/slog"
	"time"
)

// progress logs how much of an artifact reached disk: at each quarter when
// the size is known, otherwise at most once per second.
type progress struct {
	w       io.Writer
	logger  *slog.Logger
	path    string
	total   int64
	written int64
	quarter int64
	start   time.Time
	last    time.Time
}

func newProgress(w io.Writer, total int64, path string, logger *slog.Logger) *progress {
	now := time.Now()
	return &progress{w: w, logger: logger, path: path, total: total, start: now, last: now}
}

func (p *progress) Write(b []byte) (int, error) {
	n, err := p.w.Write(b)
	p.written += int64(n)

	if p.total > 0 {
		if q := p.written * 4 / p.total; q > p.quarter {
			p.quarter = q
			p.report()
		}
		return n, err
	}

	if time.Since(p.last) >= time.Second {
		p.last = time.Now()
		p.report()
	}

	return n, err
}

func (p *progress) report() {
	attrs := []any{
		"path", p.path,
		"written", p.written,
		"elapsed", time.Since(p.start).Round(time.Millisecond),
	}
	if p.total > 0 {
		attrs = append(attrs, "total", p.total, "percent", p.written*100/p.total)
	}

	p.logger.Info("artifact download progress", attrs...)
}
