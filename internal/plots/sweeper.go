package plots

import (
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Sweepable closes idle sessions and reports how many it closed.
type Sweepable interface {
	Sweep(now time.Time) int
}

// Sweeper runs Sweep on a cron schedule
type Sweeper struct {
	cron     *cron.Cron
	target   Sweepable
	schedule string
	logger   *zap.Logger
	mu       sync.Mutex
	running  bool
}

// NewSweeper creates a sweeper. schedule accepts standard cron specs and
// descriptors such as "@every 1m".
func NewSweeper(target Sweepable, schedule string, logger *zap.Logger) *Sweeper {
	return &Sweeper{
		cron:     cron.New(),
		target:   target,
		schedule: schedule,
		logger:   logger,
	}
}

// Start registers the sweep job and starts the scheduler
func (s *Sweeper) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return fmt.Errorf("session sweeper already running")
	}

	if _, err := s.cron.AddFunc(s.schedule, s.run); err != nil {
		return fmt.Errorf("invalid sweep schedule %q: %w", s.schedule, err)
	}

	s.logger.Info("Starting session sweeper", zap.String("schedule", s.schedule))
	s.cron.Start()
	s.running = true
	return nil
}

// Stop stops the scheduler and waits for a running sweep
func (s *Sweeper) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return
	}

	s.logger.Info("Stopping session sweeper")
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.running = false
}

func (s *Sweeper) run() {
	started := time.Now()
	swept := s.target.Sweep(started)
	if swept > 0 {
		s.logger.Info("Idle plot sessions closed",
			zap.Int("count", swept),
			zap.Duration("duration", time.Since(started)))
	}
}
