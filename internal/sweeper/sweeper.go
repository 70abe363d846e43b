// Package sweeper periodically purges expired shared reports.
package sweeper

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// Purger deletes shared reports that expired at or before now.
type Purger interface {
	DeleteExpiredReports(ctx context.Context, now time.Time) (int, error)
}

// Job is one purge pass.
type Job struct {
	purger  Purger
	timeout time.Duration
	now     func() time.Time
}

// NewJob creates a purge job. A non-positive timeout defaults to one minute.
func NewJob(p Purger, timeout time.Duration) *Job {
	if timeout <= 0 {
		timeout = time.Minute
	}
	return &Job{purger: p, timeout: timeout, now: time.Now}
}

// Name identifies the job in logs.
func (j *Job) Name() string { return "purge_expired_reports" }

// Run deletes expired reports once and returns how many were removed.
func (j *Job) Run(ctx context.Context) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, j.timeout)
	defer cancel()

	n, err := j.purger.DeleteExpiredReports(ctx, j.now())
	if err != nil {
		return 0, eris.Wrap(err, "sweeper: purge expired reports")
	}
	return n, nil
}

// Sweeper runs a Job on a cron schedule.
type Sweeper struct {
	cron     *cron.Cron
	job      *Job
	schedule string
}

// New schedules job. schedule accepts five-field cron specs and descriptors
// such as "@hourly" or "@every 10m".
func New(schedule string, job *Job) (*Sweeper, error) {
	s := &Sweeper{cron: cron.New(), job: job, schedule: schedule}
	if _, err := s.cron.AddFunc(schedule, s.tick); err != nil {
		return nil, eris.Wrapf(err, "sweeper: invalid schedule %q", schedule)
	}
	return s, nil
}

func (s *Sweeper) tick() {
	n, err := s.job.Run(context.Background())
	if err != nil {
		zap.L().Error("sweeper: job failed", zap.String("job", s.job.Name()), zap.Error(err))
		return
	}
	zap.L().Debug("sweeper: job completed", zap.String("job", s.job.Name()), zap.Int("deleted", n))
}

// Run starts the schedule and blocks until ctx is done, then waits for any
// running pass to finish.
func (s *Sweeper) Run(ctx context.Context) error {
	s.cron.Start()
	zap.L().Info("sweeper started", zap.String("schedule", s.schedule), zap.String("job", s.job.Name()))

	<-ctx.Done()

	<-s.cron.Stop().Done()
	zap.L().Info("sweeper stopped")
	return nil
}
