package app

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/bobmcallan/finsim/internal/common"
	"github.com/bobmcallan/finsim/internal/interfaces"
)

// Job is a unit of scheduled background work
type Job interface {
	Run(ctx context.Context) error
	Name() string
}

// Scheduler runs jobs on cron schedules
type Scheduler struct {
	cron   *cron.Cron
	ctx    context.Context
	cancel context.CancelFunc
	logger *common.Logger
}

// NewScheduler creates a scheduler accepting standard five-field specs and
// descriptors such as "@hourly" or "@every 30m"
func NewScheduler(logger *common.Logger) *Scheduler {
	ctx, cancel := context.WithCancel(context.Background())
	return &Scheduler{
		cron:   cron.New(),
		ctx:    ctx,
		cancel: cancel,
		logger: logger,
	}
}

// AddJob registers a job on a cron schedule
func (s *Scheduler) AddJob(schedule string, job Job) error {
	_, err := s.cron.AddFunc(schedule, func() { s.run(job) })
	if err != nil {
		return err
	}

	s.logger.Info().
		Str("schedule", schedule).
		Str("job", job.Name()).
		Msg("Job registered")
	return nil
}

func (s *Scheduler) run(job Job) {
	start := time.Now()
	if err := job.Run(s.ctx); err != nil {
		s.logger.Error().Err(err).Str("job", job.Name()).Msg("Job failed")
		return
	}
	s.logger.Debug().Str("job", job.Name()).Dur("elapsed", time.Since(start)).Msg("Job completed")
}

// Start starts the scheduler
func (s *Scheduler) Start() {
	s.cron.Start()
	s.logger.Info().Msg("Scheduler started")
}

// Stop cancels running jobs and waits for them to return
func (s *Scheduler) Stop() {
	s.cancel()
	<-s.cron.Stop().Done()
	s.logger.Info().Msg("Scheduler stopped")
}

// retentionJob deletes archived reports past the retention period
type retentionJob struct {
	reports interfaces.ReportService
	logger  *common.Logger
}

func (j *retentionJob) Name() string { return "report-retention" }

func (j *retentionJob) Run(ctx context.Context) error {
	n, err := j.reports.PurgeExpired(ctx)
	if err != nil {
		return err
	}
	j.logger.Debug().Int("removed", n).Msg("Retention sweep complete")
	return nil
}
