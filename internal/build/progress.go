package build

import (
	"log/slog"
)

// progress logs build position every n records.
type progress struct {
	logger *slog.Logger
	total  int64
	every  int64
}

func newProgress(logger *slog.Logger, total int64, every int) *progress {
	return &progress{
		logger: logger,
		total:  total,
		every:  int64(every),
	}
}

func (p *progress) tick(count int64) {
	if count%p.every != 0 {
		return
	}

	attrs := []any{"indexed", printer.Sprintf("%d", count)}
	if p.total > 0 {
		attrs = append(attrs,
			"total", printer.Sprintf("%d", p.total),
			"percent", printer.Sprintf("%.1f", float64(count)*100/float64(p.total)),
		)
	}
	p.logger.Info("building index", attrs...)
}
