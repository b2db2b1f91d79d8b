package runs

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/jmehdipour/points-claimer/internal/model"
	"github.com/jmehdipour/points-claimer/internal/util"
	"go.uber.org/zap"
)

var ErrRunInProgress = errors.New("run in progress")

type Runner interface {
	RunWithID(ctx context.Context, runID string) model.RunReport
}

// Service allows at most one pipeline run at a time and remembers the last report.
type Service struct {
	runner Runner
	base   context.Context
	log    *zap.Logger

	running atomic.Bool
	wg      sync.WaitGroup

	mu   sync.RWMutex
	last *model.RunReport
}

// New constructs the service; background runs inherit base (cancel it to stop them).
func New(base context.Context, runner Runner, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{runner: runner, base: base, log: log}
}

// Start launches a run in the background and returns its id.
func (s *Service) Start() (string, error) {
	if !s.running.CompareAndSwap(false, true) {
		return "", ErrRunInProgress
	}

	id := util.NewRunID()
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.execute(s.base, id)
	}()
	return id, nil
}

// RunNow runs synchronously on the caller's goroutine. Wait also covers it.
func (s *Service) RunNow(ctx context.Context) (model.RunReport, error) {
	if !s.running.CompareAndSwap(false, true) {
		return model.RunReport{}, ErrRunInProgress
	}
	s.wg.Add(1)
	defer s.wg.Done()
	return s.execute(ctx, util.NewRunID()), nil
}

func (s *Service) execute(ctx context.Context, id string) model.RunReport {
	defer s.running.Store(false)

	rep := s.runner.RunWithID(ctx, id)

	s.mu.Lock()
	s.last = &rep
	s.mu.Unlock()
	return rep
}

func (s *Service) Last() (model.RunReport, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.last == nil {
		return model.RunReport{}, false
	}
	return *s.last, true
}

func (s *Service) Running() bool { return s.running.Load() }

// Schedule runs the pipeline every interval until ctx is cancelled.
// A tick that lands while a run is active is skipped.
func (s *Service) Schedule(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}
	tick := time.NewTicker(interval)
	defer tick.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-tick.C:
			if _, err := s.RunNow(ctx); err != nil {
				s.log.Info("scheduled run skipped", zap.Error(err))
			}
		}
	}
}

// StartSchedule runs Schedule in the background; Wait blocks until it has
// returned and its last run has finished.
func (s *Service) StartSchedule(ctx context.Context, interval time.Duration) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.Schedule(ctx, interval)
	}()
}

// Wait blocks until every run and the background schedule have finished.
func (s *Service) Wait() { s.wg.Wait() }
