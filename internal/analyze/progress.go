package analyze

import (
	"log/slog"
	"sync/atomic"
)

// progressLogger logs every tenth of the corpus once. Safe for concurrent use.
type progressLogger struct {
	logger   *slog.Logger
	corpusID string
	total    int64
	done     atomic.Int64
	logged   atomic.Int64 // last decile logged
}

func newProgressLogger(logger *slog.Logger, corpusID string, total int) *progressLogger {
	return &progressLogger{logger: logger, corpusID: corpusID, total: int64(total)}
}

func (p *progressLogger) Add(n int) {
	if p.total <= 0 {
		return
	}
	done := p.done.Add(int64(n))
	decile := done * 10 / p.total
	for {
		last := p.logged.Load()
		if decile <= last {
			return
		}
		if p.logged.CompareAndSwap(last, decile) {
			p.logger.Info("Analysis progress", "corpus", p.corpusID, "sentences", done, "total", p.total, "percent", decile*10)
			return
		}
	}
}
