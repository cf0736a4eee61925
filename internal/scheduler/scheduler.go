// Package scheduler runs the nightly summary job: compute yesterday's totals,
// persist them and fan the result out to the optional integrations.
package scheduler

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/osvalr/cantina/internal/config"
	"github.com/osvalr/cantina/internal/repository/sheets"
	"github.com/osvalr/cantina/internal/service/reporting"
	"github.com/osvalr/cantina/pkg/clients/webhook"
)

// Scheduler manages scheduled tasks. The notifier and exporter may be nil
// when their integrations are not configured.
type Scheduler struct {
	cron         *cron.Cron
	reportingSvc *reporting.Service
	notifier     webhook.Notifier
	exporter     sheets.Exporter
	cfg          config.ReportingConfig
	logger       *zap.Logger
}

// NewScheduler creates a new scheduler instance. The cron runs in the
// configured timezone; an unknown zone falls back to the host's local time.
func NewScheduler(cfg config.ReportingConfig, reportingSvc *reporting.Service, notifier webhook.Notifier, exporter sheets.Exporter, logger *zap.Logger) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}

	location, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		logger.Warn("unknown timezone, using local", zap.String("timezone", cfg.Timezone), zap.Error(err))
		location = time.Local
	}

	return &Scheduler{
		cron:         cron.New(cron.WithLocation(location)),
		reportingSvc: reportingSvc,
		notifier:     notifier,
		exporter:     exporter,
		cfg:          cfg,
		logger:       logger,
	}
}

// Start registers the daily summary job and starts the cron loop.
func (s *Scheduler) Start() {
	s.logger.Info("starting scheduler", zap.String("schedule", s.cfg.CronSchedule))

	if _, err := s.cron.AddFunc(s.cfg.CronSchedule, s.runDailySummary); err != nil {
		s.logger.Error("failed to schedule daily summary", zap.Error(err))
	}

	s.cron.Start()
}

// Stop stops the scheduler.
func (s *Scheduler) Stop() {
	s.logger.Info("stopping scheduler")
	s.cron.Stop()
}

func (s *Scheduler) runDailySummary() {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	summary, err := s.reportingSvc.RunDaily(ctx)
	if err != nil {
		s.logger.Error("daily summary failed", zap.Error(err))
		return
	}

	// Integration failures are logged and swallowed: the summary is already
	// stored and the job must not retry the whole computation.
	if s.notifier != nil {
		if err := s.notifier.NotifySummary(ctx, *summary); err != nil {
			s.logger.Error("summary webhook delivery failed", zap.Error(err))
		}
	}
	if s.exporter != nil {
		if err := s.exporter.AppendSummary(ctx, *summary); err != nil {
			s.logger.Error("summary sheet export failed", zap.Error(err))
		}
	}
}
