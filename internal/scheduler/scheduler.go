// Package scheduler runs periodic housekeeping: expiring idle wizards and
// purchase dialogs, revoked sessions and stale dashboard cache entries.
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Job is one sweep. It reports how many items it removed.
type Job struct {
	Name string
	Run  func(ctx context.Context) (int, error)
}

type Scheduler struct {
	mu      sync.Mutex
	cron    *cron.Cron
	logger  *zap.Logger
	running bool
	timeout time.Duration
}

func New(logger *zap.Logger) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Scheduler{
		cron:    cron.New(),
		logger:  logger.Named("scheduler"),
		timeout: 30 * time.Second,
	}
}

// Add registers job under a standard cron spec or descriptor such as "@every 1m".
func (s *Scheduler) Add(spec string, job Job) error {
	_, err := s.cron.AddFunc(spec, func() { s.RunJob(context.Background(), job) })
	if err != nil {
		return fmt.Errorf("schedule %s (%q): %w", job.Name, spec, err)
	}
	return nil
}

// RunJob runs job once with a timeout and logs the outcome.
func (s *Scheduler) RunJob(ctx context.Context, job Job) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	n, err := job.Run(ctx)
	if err != nil {
		s.logger.Warn("sweep failed", zap.String("job", job.Name), zap.Error(err))
		return
	}
	if n > 0 {
		s.logger.Debug("sweep removed items", zap.String("job", job.Name), zap.Int("removed", n))
	}
}

func (s *Scheduler) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return
	}
	s.running = true
	s.cron.Start()
	s.logger.Info("scheduler started", zap.Int("jobs", len(s.cron.Entries())))
}

// Stop waits for running jobs to finish.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.running {
		return
	}
	<-s.cron.Stop().Done()
	s.running = false
}

// Counted adapts a sweep that cannot fail.
func Counted(name string, fn func() int) Job {
	return Job{Name: name, Run: func(context.Context) (int, error) { return fn(), nil }}
}
