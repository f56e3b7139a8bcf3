package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/invoicehub/backend/internal/application/billing"
	"github.com/invoicehub/backend/internal/infrastructure/config"
	"go.uber.org/zap"
)

// OverdueScheduler periodically runs the overdue reconciliation pass across
// all organizations. Between passes the persisted invoice status may lag the
// calendar by at most one interval; read paths that need exact status trigger
// a reconciliation themselves.
type OverdueScheduler struct {
	service   *billing.OverdueService
	logger    *zap.Logger
	config    config.SchedulerConfig
	cancel    context.CancelFunc
	wg        sync.WaitGroup
	mu        sync.Mutex
	isRunning bool
}

// NewOverdueScheduler creates a new overdue scheduler
func NewOverdueScheduler(service *billing.OverdueService, logger *zap.Logger, cfg config.SchedulerConfig) *OverdueScheduler {
	return &OverdueScheduler{
		service: service,
		logger:  logger,
		config:  cfg,
	}
}

// Start starts the reconciliation loop
func (s *OverdueScheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.isRunning {
		s.mu.Unlock()
		return nil
	}
	if !s.config.Enabled {
		s.mu.Unlock()
		s.logger.Info("overdue scheduler is disabled")
		return nil
	}
	s.isRunning = true
	s.mu.Unlock()

	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel

	s.wg.Add(1)
	go s.run(ctx)

	s.logger.Info("overdue scheduler started",
		zap.Duration("interval", s.config.Interval),
		zap.Bool("run_on_start", s.config.RunOnStart),
	)

	return nil
}

// Stop gracefully stops the scheduler
func (s *OverdueScheduler) Stop(ctx context.Context) error {
	s.mu.Lock()
	if !s.isRunning {
		s.mu.Unlock()
		return nil
	}
	s.isRunning = false
	s.mu.Unlock()

	if s.cancel != nil {
		s.cancel()
	}

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		s.logger.Info("overdue scheduler stopped gracefully")
		return nil
	case <-ctx.Done():
		s.logger.Warn("overdue scheduler stop timed out")
		return ctx.Err()
	}
}

// run executes the pass on every tick until the context is cancelled
func (s *OverdueScheduler) run(ctx context.Context) {
	defer s.wg.Done()

	if s.config.RunOnStart {
		s.execute(ctx)
	}

	ticker := time.NewTicker(s.config.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Debug("overdue scheduler loop stopping")
			return
		case <-ticker.C:
			s.execute(ctx)
		}
	}
}

// execute runs one reconciliation pass with a timeout
func (s *OverdueScheduler) execute(ctx context.Context) {
	runCtx, cancel := context.WithTimeout(ctx, s.config.JobTimeout)
	defer cancel()

	startTime := time.Now()
	err := s.service.ReconcileAll(runCtx)
	duration := time.Since(startTime)

	if err != nil {
		s.logger.Error("overdue reconciliation pass failed",
			zap.Duration("duration", duration),
			zap.Error(err),
		)
		return
	}

	s.logger.Info("overdue reconciliation pass completed",
		zap.Duration("duration", duration),
	)
}

// TriggerImmediate runs one reconciliation pass outside the regular schedule
func (s *OverdueScheduler) TriggerImmediate(ctx context.Context) error {
	s.mu.Lock()
	if !s.isRunning {
		s.mu.Unlock()
		return ErrSchedulerNotRunning
	}
	s.wg.Add(1)
	s.mu.Unlock()

	s.logger.Info("triggering immediate overdue reconciliation")

	go func() {
		defer s.wg.Done()
		s.execute(ctx)
	}()

	return nil
}

// IsRunning returns whether the scheduler is running
func (s *OverdueScheduler) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.isRunning
}
