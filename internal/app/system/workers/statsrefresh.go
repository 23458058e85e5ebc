// internal/app/system/workers/statsrefresh.go
package workers

import (
	"context"
	"sync"
	"time"

	metricsstore "github.com/dalemusser/agenseek/internal/app/store/metrics"
	"github.com/dalemusser/agenseek/internal/app/system/metrics"
	"github.com/dalemusser/agenseek/internal/app/system/timeouts"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// StatsRefresh is a background worker that copies the platform totals into
// Prometheus gauges, so dashboards can graph them without hitting /admin.
type StatsRefresh struct {
	db       *mongo.Database
	metrics  *metrics.Metrics
	log      *zap.Logger
	interval time.Duration
	now      func() time.Time
	stopCh   chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

// NewStatsRefresh creates the worker. interval is how often totals are
// recounted (e.g., 1 minute).
func NewStatsRefresh(db *mongo.Database, m *metrics.Metrics, logger *zap.Logger, interval time.Duration) *StatsRefresh {
	return &StatsRefresh{
		db:       db,
		metrics:  m,
		log:      logger,
		interval: interval,
		now:      time.Now,
		stopCh:   make(chan struct{}),
	}
}

// Start refreshes once and then begins the background loop.
func (w *StatsRefresh) Start() {
	w.wg.Add(1)
	go w.run()
	w.log.Info("stats refresh worker started", zap.Duration("interval", w.interval))
}

// Stop signals the worker to stop and waits for it to finish. It is safe to
// call more than once.
func (w *StatsRefresh) Stop() {
	w.stopOnce.Do(func() {
		close(w.stopCh)
		w.wg.Wait()
		w.log.Info("stats refresh worker stopped")
	})
}

func (w *StatsRefresh) run() {
	defer w.wg.Done()

	w.Refresh()

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-w.stopCh:
			return
		case <-ticker.C:
			w.Refresh()
		}
	}
}

// Refresh recounts the totals and updates the gauges. Counters that fail keep
// their previous value.
func (w *StatsRefresh) Refresh() {
	ctx, cancel := timeouts.WithTimeout(context.Background(), timeouts.Medium(), w.log, "stats refresh")
	defer cancel()

	c, failed := metricsstore.FetchAdminCounts(ctx, w.db, w.now())
	skip := make(map[string]bool, len(failed))
	for _, name := range failed {
		skip[name] = true
	}
	if len(failed) > 0 {
		w.log.Warn("stats refresh incomplete", zap.Strings("failed", failed))
	}

	for name, n := range map[string]int64{
		"users":            c.Users,
		"learners":         c.Learners,
		"admins":           c.Admins,
		"progress_records": c.ProgressRecords,
		"completions":      c.Completions,
		"notes":            c.Notes,
		"tasks":            c.Tasks,
		"active_this_week": c.ActiveThisWeek,
	} {
		if !skip[name] {
			w.metrics.SetPlatform(name, n)
		}
	}
}
