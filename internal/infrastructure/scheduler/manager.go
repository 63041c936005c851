// Package scheduler runs the periodic background jobs using gocron v2.
package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/go-co-op/gocron/v2"

	"github.com/faqplusplus/faqplusplus/internal/shared/logger"
)

// BatchJob is a scheduled job. Execute returns the number of items it processed.
type BatchJob interface {
	Execute(ctx context.Context) (int, error)
}

// SchedulerManager owns the process-wide gocron scheduler.
type SchedulerManager struct {
	scheduler gocron.Scheduler
	logger    logger.Interface

	started   bool
	startedMu sync.RWMutex
}

func NewSchedulerManager(log logger.Interface) (*SchedulerManager, error) {
	scheduler, err := gocron.NewScheduler(gocron.WithLocation(time.UTC))
	if err != nil {
		return nil, err
	}

	return &SchedulerManager{
		scheduler: scheduler,
		logger:    log,
	}, nil
}

// RegisterPublishJob runs the knowledge base publish pass every interval,
// starting immediately. A run still in progress when the next one is due
// pushes that run back instead of overlapping it.
func (m *SchedulerManager) RegisterPublishJob(job BatchJob, interval, timeout time.Duration) error {
	if interval <= 0 {
		interval = time.Minute
	}
	if timeout <= 0 {
		timeout = 5 * time.Minute
	}

	_, err := m.scheduler.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(func() {
			ctx, cancel := context.WithTimeout(context.Background(), timeout)
			defer cancel()
			m.runPublish(ctx, job)
		}),
		gocron.WithStartAt(gocron.WithStartImmediately()),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
		gocron.WithTags("knowledgebase", "publish"),
		gocron.WithName("knowledgebase-publish"),
	)
	if err != nil {
		return err
	}

	m.logger.Infow("registered publish job", "interval", interval.String(), "timeout", timeout.String())
	return nil
}

func (m *SchedulerManager) runPublish(ctx context.Context, job BatchJob) {
	m.logger.Debugw("publish pass started")

	startTime := time.Now()
	published, err := job.Execute(ctx)
	if err != nil {
		m.logger.Errorw("publish pass failed",
			"error", err,
			"duration", time.Since(startTime),
		)
		return
	}

	if published > 0 {
		m.logger.Infow("publish pass completed",
			"published_languages", published,
			"duration", time.Since(startTime),
		)
	} else {
		m.logger.Debugw("publish pass found nothing to publish",
			"duration", time.Since(startTime),
		)
	}
}

// Start starts the scheduler and all registered jobs.
func (m *SchedulerManager) Start() {
	m.startedMu.Lock()
	defer m.startedMu.Unlock()

	if m.started {
		return
	}

	m.scheduler.Start()
	m.started = true
	m.logger.Infow("scheduler manager started", "job_count", len(m.scheduler.Jobs()))
}

// Stop waits for running jobs to finish, then stops the scheduler.
func (m *SchedulerManager) Stop() error {
	m.startedMu.Lock()
	defer m.startedMu.Unlock()

	if !m.started {
		return nil
	}

	m.logger.Infow("stopping scheduler manager")

	err := m.scheduler.Shutdown()
	m.started = false

	if err != nil {
		m.logger.Errorw("scheduler manager shutdown with error", "error", err)
		return err
	}

	m.logger.Infow("scheduler manager stopped")
	return nil
}

func (m *SchedulerManager) IsStarted() bool {
	m.startedMu.RLock()
	defer m.startedMu.RUnlock()
	return m.started
}

// Jobs returns all registered jobs for inspection.
func (m *SchedulerManager) Jobs() []gocron.Job {
	return m.scheduler.Jobs()
}
