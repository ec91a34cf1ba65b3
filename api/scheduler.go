/*
scheduler.go - Cron-driven absence sweep

PURPOSE:
  Periodically runs the absence detector so missing-event issues surface
  without any inbound traffic. An employee who never shows up produces no
  check-in to react to; only the sweep notices them.

DESIGN:
  - robfig/cron drives the schedule with a standard 5-field spec
  - Each run is bounded by a timeout so a wedged store cannot pile up
    overlapping sweeps
  - Run outcomes are logged, never thrown; the next tick always fires

CONFIGURATION:
  - Spec: cron expression (default every 15 minutes via config)

USAGE:
  sched := NewSweepScheduler(detector, spec, log)
  if err := sched.Start(); err != nil { ... }
  // ... later
  sched.Stop()

SEE ALSO:
  - engine/detector.go: Sweep implementation
  - handlers.go: TriggerSweep endpoint (manual sweep)
*/
package api

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/warp/attendance-engine/engine"
)

// sweepTimeout bounds one sweep run.
const sweepTimeout = 5 * time.Minute

// SweepScheduler runs the absence detector on a cron schedule.
type SweepScheduler struct {
	detector *engine.Detector
	spec     string
	log      *logrus.Logger

	cron *cron.Cron
}

// NewSweepScheduler creates a scheduler; Start arms it.
func NewSweepScheduler(detector *engine.Detector, spec string, log *logrus.Logger) *SweepScheduler {
	return &SweepScheduler{
		detector: detector,
		spec:     spec,
		log:      log,
	}
}

// Start registers the cron entry and begins ticking.
func (s *SweepScheduler) Start() error {
	s.cron = cron.New()
	if _, err := s.cron.AddFunc(s.spec, s.runOnce); err != nil {
		return err
	}
	s.cron.Start()
	s.log.WithField("spec", s.spec).Info("Sweep scheduler started")
	return nil
}

// Stop halts the ticker and waits for an in-flight run to finish.
func (s *SweepScheduler) Stop() {
	if s.cron == nil {
		return
	}
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.log.Info("Sweep scheduler stopped")
}

// RunNow triggers an immediate sweep outside the cron cadence.
func (s *SweepScheduler) RunNow() {
	s.runOnce()
}

func (s *SweepScheduler) runOnce() {
	ctx, cancel := context.WithTimeout(context.Background(), sweepTimeout)
	defer cancel()

	start := time.Now()
	inserted, err := s.detector.Sweep(ctx, start)
	if err != nil {
		s.log.WithError(err).Error("Absence sweep failed")
		return
	}

	s.log.WithFields(logrus.Fields{
		"inserted": len(inserted),
		"took":     time.Since(start).String(),
	}).Info("Absence sweep completed")
}
