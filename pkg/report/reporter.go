package report

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/robfig/cron/v3"

	"mercator-hq/ganymede/pkg/metrics"
)

// Reporter logs a registry occupancy summary on a cron schedule.
//
// Common cron expressions:
//   - "*/5 * * * *" - every five minutes
//   - "0 * * * *"   - hourly
//   - "0 3 * * *"   - daily at 3 AM
//
// If the schedule is empty, the reporter does nothing.
type Reporter struct {
	reg      *metrics.Registry
	schedule string
	cron     *cron.Cron
	logger   *slog.Logger

	mu      sync.Mutex
	running bool
}

// NewReporter creates a reporter for reg. A nil logger uses slog.Default().
func NewReporter(reg *metrics.Registry, schedule string, logger *slog.Logger) *Reporter {
	if logger == nil {
		logger = slog.Default()
	}
	return &Reporter{
		reg:      reg,
		schedule: schedule,
		cron:     cron.New(),
		logger:   logger.With("component", "report"),
	}
}

// Start begins scheduled reporting. It returns an error for an invalid
// cron expression and is a no-op for an empty schedule.
func (r *Reporter) Start() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.running {
		return nil
	}
	if r.schedule == "" {
		r.logger.Info("report schedule not configured, skipping reporter")
		return nil
	}

	if _, err := cron.ParseStandard(r.schedule); err != nil {
		return fmt.Errorf("invalid cron schedule %q: %w", r.schedule, err)
	}
	if _, err := r.cron.AddFunc(r.schedule, r.Report); err != nil {
		return fmt.Errorf("failed to schedule cardinality report: %w", err)
	}

	r.cron.Start()
	r.running = true
	r.logger.Info("cardinality reporter started", "schedule", r.schedule)
	return nil
}

// Stop halts scheduled reporting. A report in flight finishes first.
func (r *Reporter) Stop() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.running {
		return
	}
	ctx := r.cron.Stop()
	<-ctx.Done()
	r.running = false
	r.logger.Info("cardinality reporter stopped")
}

// Report logs one occupancy summary immediately. It is also the body of
// the scheduled job.
func (r *Reporter) Report() {
	st := r.reg.CollectStats()

	top := ""
	var topCount int64
	for _, f := range st.Families {
		if f.Series > topCount {
			top, topCount = f.Name, f.Series
		}
	}

	r.logger.Info("cardinality report",
		"families", len(st.Families),
		"total_series", st.TotalSeries,
		"rejected_total", st.RejectedTotal,
		"largest_family", top,
		"largest_family_series", topCount,
	)

	for _, f := range st.Families {
		r.logger.Debug("family cardinality",
			"family", f.Name,
			"type", f.Type.String(),
			"series", f.Series,
		)
	}
}
