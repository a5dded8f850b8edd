package job

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
)

// Job is a unit of scheduled work.
type Job func(ctx context.Context) error

type entry struct {
	id      cron.EntryID
	spec    string
	timeout time.Duration
	job     Job
}

// Scheduler runs named jobs on cron specs. A run that is still going when its
// next slot fires is skipped.
type Scheduler struct {
	cron *cron.Cron

	mu   sync.Mutex
	jobs map[string]entry
}

func NewScheduler() *Scheduler {
	return &Scheduler{
		cron: cron.New(cron.WithChain(
			cron.Recover(cron.DefaultLogger),
			cron.SkipIfStillRunning(cron.DefaultLogger),
		)),
		jobs: make(map[string]entry),
	}
}

// AddJob registers job under name. spec accepts standard five-field cron
// expressions and descriptors such as "@every 1m".
func (s *Scheduler) AddJob(name, spec string, timeout time.Duration, job Job) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.jobs[name]; ok {
		return fmt.Errorf("job %s already registered", name)
	}

	id, err := s.cron.AddFunc(spec, func() {
		s.run(context.Background(), name, timeout, job)
	})
	if err != nil {
		return fmt.Errorf("failed to schedule job %s: %w", name, err)
	}

	s.jobs[name] = entry{id: id, spec: spec, timeout: timeout, job: job}
	slog.Info("job scheduled", "job", name, "spec", spec)
	return nil
}

func (s *Scheduler) RemoveJob(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if e, ok := s.jobs[name]; ok {
		s.cron.Remove(e.id)
		delete(s.jobs, name)
		slog.Info("job removed", "job", name)
	}
}

// RunNow executes a registered job immediately on the caller's goroutine.
func (s *Scheduler) RunNow(ctx context.Context, name string) error {
	s.mu.Lock()
	e, ok := s.jobs[name]
	s.mu.Unlock()
	if !ok {
		return fmt.Errorf("job %s not found", name)
	}
	return s.run(ctx, name, e.timeout, e.job)
}

func (s *Scheduler) run(ctx context.Context, name string, timeout time.Duration, job Job) error {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	start := time.Now()
	err := job(ctx)
	if err != nil {
		slog.Error("job failed", "job", name, "error", err, "duration", time.Since(start))
		return err
	}
	slog.Debug("job completed", "job", name, "duration", time.Since(start))
	return nil
}

func (s *Scheduler) Start() {
	slog.Info("starting scheduler")
	s.cron.Start()
}

// Stop halts the scheduler. The returned context is done once running jobs
// have finished.
func (s *Scheduler) Stop() context.Context {
	slog.Info("stopping scheduler")
	return s.cron.Stop()
}

type JobInfo struct {
	Name    string    `json:"name"`
	Spec    string    `json:"spec"`
	NextRun time.Time `json:"next_run"`
	LastRun time.Time `json:"last_run"`
}

func (s *Scheduler) ListJobs() []JobInfo {
	s.mu.Lock()
	defer s.mu.Unlock()

	infos := make([]JobInfo, 0, len(s.jobs))
	for name, e := range s.jobs {
		ce := s.cron.Entry(e.id)
		infos = append(infos, JobInfo{Name: name, Spec: e.spec, NextRun: ce.Next, LastRun: ce.Prev})
	}
	return infos
}
