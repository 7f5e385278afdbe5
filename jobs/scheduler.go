// Package jobs runs the periodic background work: reward retries, balance
// repair and housekeeping.
package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	log "github.com/sirupsen/logrus"
)

type Reconciler interface {
	RetryPendingRewards(ctx context.Context, olderThan time.Duration) (int, error)
	RepairBalances(ctx context.Context) (int, error)
}

type Scheduler struct {
	cron       *cron.Cron
	reconciler Reconciler
	spec       string
	grace      time.Duration
}

// NewScheduler builds a scheduler in loc. Runs of the same job never
// overlap; a tick that finds the previous run still going is skipped.
func NewScheduler(reconciler Reconciler, loc *time.Location, spec string, grace time.Duration) *Scheduler {
	logger := cron.PrintfLogger(log.StandardLogger())
	c := cron.New(
		cron.WithLocation(loc),
		cron.WithLogger(logger),
		cron.WithChain(cron.Recover(logger), cron.SkipIfStillRunning(logger)),
	)
	return &Scheduler{cron: c, reconciler: reconciler, spec: spec, grace: grace}
}

// AddJob registers fn under spec. ctx is handed to every run.
func (s *Scheduler) AddJob(ctx context.Context, spec, name string, fn func(ctx context.Context) error) error {
	_, err := s.cron.AddFunc(spec, func() {
		start := time.Now()
		if err := fn(ctx); err != nil {
			log.WithField("job", name).WithError(err).Error("[CRON] job failed")
			return
		}
		log.WithFields(log.Fields{
			"job":         name,
			"duration_ms": time.Since(start).Milliseconds(),
		}).Debug("[CRON] job finished")
	})
	if err != nil {
		return fmt.Errorf("schedule %s (%q): %w", name, spec, err)
	}
	return nil
}

// Start registers the reconcile job and starts the cron loop.
func (s *Scheduler) Start(ctx context.Context) error {
	if err := s.AddJob(ctx, s.spec, "reconcile", s.RunReconcile); err != nil {
		return err
	}
	s.cron.Start()
	log.WithField("schedule", s.spec).Info("scheduler started")
	return nil
}

// RunReconcile retries stuck favorite rewards first so their credits are
// included when balances are compared with the ledger.
func (s *Scheduler) RunReconcile(ctx context.Context) error {
	settled, err := s.reconciler.RetryPendingRewards(ctx, s.grace)
	if err != nil {
		return fmt.Errorf("retry pending rewards: %w", err)
	}
	repaired, err := s.reconciler.RepairBalances(ctx)
	if err != nil {
		return fmt.Errorf("repair balances: %w", err)
	}
	if settled > 0 || repaired > 0 {
		log.WithFields(log.Fields{
			"rewards_settled":   settled,
			"balances_repaired": repaired,
		}).Info("[CRON] reconcile finished")
	}
	return nil
}

// Stop waits for running jobs to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
	log.Info("scheduler stopped")
}
