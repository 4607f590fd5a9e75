package app

import (
	"context"
	"sync"
	"time"

	"github.com/fd1az/polygon-arb-bot/internal/apperror"
	"github.com/fd1az/polygon-arb-bot/internal/logger"
)

// Scheduler triggers a trading cycle on a fixed interval. It is a dumb
// clock: it fires whether or not the bot is enabled, and lets the
// controller refuse the trigger. A tick that lands while a cycle is
// still running is dropped, never queued.
type Scheduler struct {
	controller *Controller
	interval   time.Duration
	logger     logger.LoggerInterface

	startOnce sync.Once
	stopOnce  sync.Once
	stop      chan struct{}
	done      chan struct{}
}

// NewScheduler creates a Scheduler firing every interval.
func NewScheduler(controller *Controller, interval time.Duration, log logger.LoggerInterface) *Scheduler {
	return &Scheduler{
		controller: controller,
		interval:   interval,
		logger:     log,
		stop:       make(chan struct{}),
		done:       make(chan struct{}),
	}
}

// Start launches the tick loop. Subsequent calls are no-ops.
func (s *Scheduler) Start(ctx context.Context) {
	s.startOnce.Do(func() {
		go s.run(ctx)
	})
}

// Stop halts the tick loop and waits for it to exit. Safe to call more
// than once. A cycle already in flight finishes on its own.
func (s *Scheduler) Stop() {
	s.stopOnce.Do(func() {
		close(s.stop)
	})
	<-s.done
}

func (s *Scheduler) run(ctx context.Context) {
	defer close(s.done)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.logger.Info(ctx, "scheduler started", "interval", s.interval)

	for {
		select {
		case <-ctx.Done():
			s.logger.Info(ctx, "scheduler stopped", "reason", ctx.Err())
			return
		case <-s.stop:
			s.logger.Info(ctx, "scheduler stopped")
			return
		case <-ticker.C:
			s.tick(ctx)
		}
	}
}

func (s *Scheduler) tick(ctx context.Context) {
	_, err := s.controller.RunCycle(ctx)
	if err == nil {
		return
	}

	switch apperror.GetCode(err) {
	case apperror.CodeTradingDisabled, apperror.CodeCycleInProgress:
		// expected between startbot/stopbot or under a long cycle
		s.logger.Debug(ctx, "tick skipped", "reason", apperror.GetCode(err))
	default:
		s.logger.Error(ctx, "scheduled cycle failed", "error", err)
	}
}
