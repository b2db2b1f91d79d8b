package pipeline

import (
	"context"
	"time"

	"github.com/jmehdipour/points-claimer/internal/metrics"
	"github.com/jmehdipour/points-claimer/internal/model"
	"github.com/jmehdipour/points-claimer/internal/util"
	"go.uber.org/zap"
)

type AccountSource interface {
	Fetch(ctx context.Context) ([]model.Account, error)
}

type PhoneSource interface {
	Fetch(ctx context.Context) ([]string, error)
}

type Options struct {
	SkipDashboard bool
	SkipClaims    bool
	SkipPhones    bool
}

// Runner sequences one full run:
// accounts -> dashboards (joined) -> claims (joined) -> phone refresh.
type Runner struct {
	Accounts   AccountSource
	Phones     PhoneSource
	Dashboards *DashboardRefresher
	Claims     *Orchestrator
	Refresher  *PhoneRefresher
	Opts       Options
	Log        *zap.Logger
}

// Run never fails as a whole: per-phase problems are logged and reflected
// in the report.
func (r *Runner) Run(ctx context.Context) model.RunReport {
	return r.RunWithID(ctx, util.NewRunID())
}

func (r *Runner) RunWithID(ctx context.Context, runID string) model.RunReport {
	log := r.Log
	if log == nil {
		log = zap.NewNop()
	}

	rep := model.RunReport{RunID: runID, StartedAt: time.Now()}
	log = log.With(zap.String("run_id", rep.RunID))
	log.Info("run started")

	if !r.Opts.SkipDashboard || !r.Opts.SkipClaims {
		r.runAccounts(ctx, log, &rep)
	}
	if !r.Opts.SkipPhones {
		r.runPhones(ctx, log, &rep)
	}

	rep.Elapsed = time.Since(rep.StartedAt)
	metrics.RunDuration.Observe(rep.Elapsed.Seconds())

	log.Info("run completed",
		zap.String("elapsed", rep.Elapsed.Round(10*time.Millisecond).String()),
		zap.Int("accounts", rep.Accounts),
		zap.Int("claimed", rep.Claimed),
		zap.Int("no_claim", rep.NoClaim),
		zap.Int("claim_failed", rep.ClaimFailed),
		zap.Int("phones_ok", rep.PhonesOK),
		zap.Int("phones_failed", rep.PhonesFailed),
	)
	return rep
}

func (r *Runner) runAccounts(ctx context.Context, log *zap.Logger, rep *model.RunReport) {
	accounts, err := r.Accounts.Fetch(ctx)
	if err != nil {
		log.Warn("no data to process", zap.Error(err))
		return
	}
	rep.Accounts = len(accounts)

	if !r.Opts.SkipDashboard {
		log.Info("starting dashboard requests", zap.Int("accounts", len(accounts)))
		rep.AddDashboards(r.Dashboards.RefreshAll(ctx, accounts))
		log.Info("all dashboard requests completed", zap.Int("ok", rep.DashboardOK), zap.Int("failed", rep.DashboardFailed))
	}

	if !r.Opts.SkipClaims {
		log.Info("starting claim processes", zap.Int("accounts", len(accounts)))
		rep.AddClaims(r.Claims.ClaimAll(ctx, rep.RunID, accounts))
		log.Info("all claim processes completed", zap.Int("claimed", rep.Claimed))
	}
}

func (r *Runner) runPhones(ctx context.Context, log *zap.Logger, rep *model.RunReport) {
	phones, err := r.Phones.Fetch(ctx)
	if err != nil {
		log.Warn("phone list unavailable", zap.Error(err))
		return
	}

	log.Info("processing phone numbers", zap.Int("total", len(phones)))
	for _, out := range r.Refresher.RefreshAll(ctx, phones) {
		if out.OK {
			rep.PhonesOK++
		} else {
			rep.PhonesFailed++
		}
	}
}
