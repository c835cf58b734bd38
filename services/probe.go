package services

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// ProbeRecorder receives the outcome of a probe run.
type ProbeRecorder interface {
	ObserveProbe(total int64, err error)
}

// Probe periodically checks the store and publishes the collection size.
// Its results feed metrics only; responses never read them.
type Probe struct {
	catalog *Catalog
	rec     ProbeRecorder
	log     *zap.Logger
	timeout time.Duration
}

func NewProbe(catalog *Catalog, rec ProbeRecorder, log *zap.Logger, timeout time.Duration) *Probe {
	return &Probe{catalog: catalog, rec: rec, log: log, timeout: timeout}
}

// Run performs one check. It is scheduled by cron.
func (p *Probe) Run() {
	ctx, cancel := context.WithTimeout(context.Background(), p.timeout)
	defer cancel()

	if err := p.catalog.Ping(ctx); err != nil {
		p.rec.ObserveProbe(0, err)
		p.log.Warn("Store probe failed", zap.String("step", "ping"), zap.Error(err))
		return
	}

	total, err := p.catalog.TotalPapers(ctx)
	p.rec.ObserveProbe(total, err)
	if err != nil {
		p.log.Warn("Store probe failed", zap.String("step", "count"), zap.Error(err))
		return
	}
	p.log.Debug("Store probe ok", zap.Int64("total_papers", total))
}
