package background

import (
	"context"
	"fmt"
	"sync"
	"time"

	"crmhub/internal/caching"
	"crmhub/internal/jobs"

	"github.com/go-co-op/gocron/v2"
	zlog "github.com/rs/zerolog/log"
)

// JobScheduler runs jobs on cron schedules and records every outcome
type JobScheduler struct {
	scheduler gocron.Scheduler
	runStore  caching.RunStore
	timeout   time.Duration
	jobs      map[string]gocron.Job
	mu        sync.RWMutex
}

// NewJobScheduler creates a scheduler. timeout bounds each run.
func NewJobScheduler(runStore caching.RunStore, timeout time.Duration, opts ...gocron.SchedulerOption) (*JobScheduler, error) {
	scheduler, err := gocron.NewScheduler(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create scheduler: %w", err)
	}
	if runStore == nil {
		runStore = caching.NoopRunStore{}
	}
	return &JobScheduler{
		scheduler: scheduler,
		runStore:  runStore,
		timeout:   timeout,
		jobs:      make(map[string]gocron.Job),
	}, nil
}

// Start starts the job scheduler
func (js *JobScheduler) Start() {
	zlog.Info().Int("jobs", len(js.jobs)).Msg("starting job scheduler")
	js.scheduler.Start()
}

// Stop waits for running jobs and stops the scheduler
func (js *JobScheduler) Stop() error {
	zlog.Info().Msg("stopping job scheduler")
	return js.scheduler.Shutdown()
}

// Schedule registers job under a five-field cron expression. A run still in
// progress when the next one is due causes that next run to be skipped.
func (js *JobScheduler) Schedule(cronExpr string, job jobs.Job) error {
	js.mu.Lock()
	defer js.mu.Unlock()

	if _, exists := js.jobs[job.Name()]; exists {
		return fmt.Errorf("job %s already scheduled", job.Name())
	}

	scheduled, err := js.scheduler.NewJob(
		gocron.CronJob(cronExpr, false),
		gocron.NewTask(js.execute, job),
		gocron.WithName(job.Name()),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		return fmt.Errorf("schedule %s (%q): %w", job.Name(), cronExpr, err)
	}

	js.jobs[job.Name()] = scheduled
	zlog.Info().Str("job", job.Name()).Str("cron", cronExpr).Msg("job scheduled")
	return nil
}

func (js *JobScheduler) execute(job jobs.Job) {
	_ = Execute(context.Background(), js.runStore, js.timeout, job)
}

// Execute runs job under timeout, logs the outcome and records it in store.
// Panics are recovered and reported as failures.
func Execute(ctx context.Context, store caching.RunStore, timeout time.Duration, job jobs.Job) (err error) {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	started := time.Now()
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("job %s panicked: %v", job.Name(), p)
		}

		rec := caching.RunRecord{
			Job:       job.Name(),
			StartedAt: started,
			Duration:  time.Since(started),
			Status:    caching.RunStatusOK,
		}
		event := zlog.Info()
		if err != nil {
			rec.Status = caching.RunStatusError
			rec.Error = err.Error()
			event = zlog.Warn().Err(err)
		}
		event.Str("job", job.Name()).Dur("duration", rec.Duration).Msg("job finished")

		// bookkeeping gets its own deadline so a timed-out job is still recorded
		recordCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if recErr := store.RecordRun(recordCtx, rec); recErr != nil {
			zlog.Warn().Err(recErr).Str("job", job.Name()).Msg("failed to record job run")
		}
	}()

	return job.Run(ctx)
}

// JobStatus describes one scheduled job
type JobStatus struct {
	Name    string    `json:"name"`
	NextRun time.Time `json:"next_run"`
	LastRun time.Time `json:"last_run"`
}

// GetJobStatus returns information about scheduled jobs
func (js *JobScheduler) GetJobStatus() []JobStatus {
	js.mu.RLock()
	defer js.mu.RUnlock()

	status := make([]JobStatus, 0, len(js.jobs))
	for name, job := range js.jobs {
		s := JobStatus{Name: name}
		if next, err := job.NextRun(); err == nil {
			s.NextRun = next
		}
		if last, err := job.LastRun(); err == nil {
			s.LastRun = last
		}
		status = append(status, s)
	}
	return status
}
