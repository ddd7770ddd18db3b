// Package scheduler runs benchmark jobs on cron schedules.
// Each job is tracked in memory with its last and next run times, and a job
// that is still running when its next tick fires is skipped for that tick.
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"

	"github.com/anstrom/sortbench/internal/errors"
	"github.com/anstrom/sortbench/internal/logging"
)

// JobFunc is the work a scheduled job performs.
type JobFunc func(ctx context.Context) error

// Scheduler manages scheduled jobs.
type Scheduler struct {
	cron    *cron.Cron
	jobs    map[uuid.UUID]*ScheduledJob
	logger  *logging.Logger
	mu      sync.RWMutex
	running bool
	ctx     context.Context
	cancel  context.CancelFunc
}

// ScheduledJob is the state of one job.
type ScheduledJob struct {
	ID        uuid.UUID    `json:"id"`
	Name      string       `json:"name"`
	CronExpr  string       `json:"cron_expression"`
	CronID    cron.EntryID `json:"-"`
	LastRun   time.Time    `json:"last_run,omitempty"`
	NextRun   time.Time    `json:"next_run"`
	Running   bool         `json:"running"`
	Runs      int          `json:"runs"`
	Skipped   int          `json:"skipped"`
	LastError string       `json:"last_error,omitempty"`

	fn JobFunc
}

// NewScheduler creates a new job scheduler.
func NewScheduler(logger *logging.Logger) *Scheduler {
	ctx, cancel := context.WithCancel(context.Background())
	if logger == nil {
		logger = logging.Default()
	}

	return &Scheduler{
		cron:   cron.New(),
		jobs:   make(map[uuid.UUID]*ScheduledJob),
		logger: logger.WithComponent("scheduler"),
		ctx:    ctx,
		cancel: cancel,
	}
}

// Start begins the scheduler.
func (s *Scheduler) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return fmt.Errorf("scheduler is already running")
	}

	s.cron.Start()
	s.running = true

	s.logger.Info("Scheduler started", "jobs", len(s.jobs))
	return nil
}

// Stop stops the scheduler and cancels running jobs. It waits for running
// jobs to return.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.running = false
	s.cancel()
	s.mu.Unlock()

	<-s.cron.Stop().Done()
	s.logger.Info("Scheduler stopped")
}

// AddJob schedules fn under a standard 5-field cron expression (descriptors
// such as "@every 1h" are accepted too).
func (s *Scheduler) AddJob(name, cronExpr string, fn JobFunc) (uuid.UUID, error) {
	schedule, err := cron.ParseStandard(cronExpr)
	if err != nil {
		return uuid.Nil, errors.NewConfigFieldError(errors.CodeValidation,
			fmt.Sprintf("invalid cron expression: %v", err), "schedule", cronExpr)
	}

	job := &ScheduledJob{
		ID:       uuid.New(),
		Name:     name,
		CronExpr: cronExpr,
		NextRun:  schedule.Next(time.Now()),
		fn:       fn,
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	job.CronID = s.cron.Schedule(schedule, cron.FuncJob(func() {
		s.execute(job.ID)
	}))
	s.jobs[job.ID] = job

	s.logger.Info("Added scheduled job", "job_id", job.ID, "name", name, "schedule", cronExpr)
	return job.ID, nil
}

// RemoveJob removes a scheduled job.
func (s *Scheduler) RemoveJob(jobID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	job, exists := s.jobs[jobID]
	if !exists {
		return fmt.Errorf("job not found")
	}

	s.cron.Remove(job.CronID)
	delete(s.jobs, jobID)

	s.logger.Info("Removed scheduled job", "job_id", jobID, "name", job.Name)
	return nil
}

// GetJobs returns a copy of every job's state.
func (s *Scheduler) GetJobs() []ScheduledJob {
	s.mu.RLock()
	defer s.mu.RUnlock()

	jobs := make([]ScheduledJob, 0, len(s.jobs))
	for _, job := range s.jobs {
		copied := *job
		copied.fn = nil
		jobs = append(jobs, copied)
	}
	return jobs
}

// execute runs a job unless it is already running.
func (s *Scheduler) execute(jobID uuid.UUID) {
	job, ok := s.prepareJobExecution(jobID)
	if !ok {
		return
	}

	logger := s.logger.WithFields("job_id", jobID, "name", job.Name)
	logger.Info("Scheduled job started")

	err := job.fn(s.ctx)

	s.mu.Lock()
	job.Running = false
	job.Runs++
	if entry := s.cron.Entry(job.CronID); entry.Valid() {
		job.NextRun = entry.Next
	}
	if err != nil {
		job.LastError = err.Error()
	} else {
		job.LastError = ""
	}
	s.mu.Unlock()

	if err != nil {
		logger.Error("Scheduled job failed", "error", err)
		return
	}
	logger.Info("Scheduled job completed")
}

func (s *Scheduler) prepareJobExecution(jobID uuid.UUID) (*ScheduledJob, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	job, exists := s.jobs[jobID]
	if !exists {
		return nil, false
	}
	if job.Running {
		job.Skipped++
		s.logger.Warn("Skipping scheduled job, previous run still active", "job_id", jobID)
		return nil, false
	}

	job.Running = true
	job.LastRun = time.Now()
	return job, true
}
