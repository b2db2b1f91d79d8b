package pipeline

import (
	"context"
	"fmt"

	"github.com/jmehdipour/points-claimer/internal/metrics"
	"github.com/jmehdipour/points-claimer/internal/model"
	"github.com/jmehdipour/points-claimer/internal/outcome"
	"github.com/jmehdipour/points-claimer/internal/worker"
	"go.uber.org/zap"
)

// ClaimAPI resolves and submits claims for one account.
type ClaimAPI interface {
	ResolveClaimable(ctx context.Context, a model.Account) model.Claimable
	SubmitClaim(ctx context.Context, a model.Account, id int64) (ok bool, status int, err error)
}

// Orchestrator runs resolve -> submit for every account concurrently.
// Each account ends in exactly one ClaimOutcome; no step is retried.
type Orchestrator struct {
	api   ClaimAPI
	sink  outcome.Sink
	log   *zap.Logger
	limit int
}

func NewOrchestrator(api ClaimAPI, sink outcome.Sink, log *zap.Logger, limit int) *Orchestrator {
	if sink == nil {
		sink = outcome.Nop{}
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Orchestrator{api: api, sink: sink, log: log, limit: limit}
}

// Claim drives one account to a terminal state.
func (o *Orchestrator) Claim(ctx context.Context, a model.Account) model.ClaimOutcome {
	c := o.api.ResolveClaimable(ctx, a)
	switch c.Kind {
	case model.ClaimableNone:
		return model.ClaimOutcome{Account: a, Status: model.ClaimStatusNoClaim}
	case model.ClaimableFound:
	default:
		return model.ClaimOutcome{Account: a, Status: model.ClaimStatusResolveFailed, Err: c.Err}
	}

	ok, status, err := o.api.SubmitClaim(ctx, a, c.ID)
	if !ok {
		if err == nil {
			err = fmt.Errorf("claim rejected: status=%d", status)
		}
		return model.ClaimOutcome{Account: a, Status: model.ClaimStatusSubmitFailed, ClaimID: c.ID, Err: err}
	}
	return model.ClaimOutcome{Account: a, Status: model.ClaimStatusClaimed, ClaimID: c.ID}
}

// ClaimAll launches one claim flow per account and joins on all of them.
// Results are in input order.
func (o *Orchestrator) ClaimAll(ctx context.Context, runID string, accounts []model.Account) []model.ClaimOutcome {
	g := worker.Group[model.Account, model.ClaimOutcome]{
		Limit: o.limit,
		Recover: func(a model.Account, err error) model.ClaimOutcome {
			out := model.ClaimOutcome{Account: a, Status: model.ClaimStatusResolveFailed, Err: err}
			o.report(ctx, runID, out)
			return out
		},
	}

	return g.Run(ctx, accounts, func(ctx context.Context, a model.Account) model.ClaimOutcome {
		out := o.Claim(ctx, a)
		o.report(ctx, runID, out)
		return out
	})
}

func (o *Orchestrator) report(ctx context.Context, runID string, out model.ClaimOutcome) {
	metrics.ClaimsTotal.WithLabelValues(out.Status.String()).Inc()

	fields := []zap.Field{zap.String("run_id", runID), zap.String("phone", out.Account.Phone)}
	switch out.Status {
	case model.ClaimStatusClaimed:
		o.log.Info("[claim] success", append(fields, zap.Int64("claim_id", out.ClaimID))...)
	case model.ClaimStatusNoClaim:
		o.log.Info("[claim] no available claims", fields...)
	case model.ClaimStatusResolveFailed:
		o.log.Warn("[claim] error checking claims", append(fields, zap.Error(out.Err))...)
	case model.ClaimStatusSubmitFailed:
		o.log.Warn("[claim] failed", append(fields, zap.Int64("claim_id", out.ClaimID), zap.Error(out.Err))...)
	}

	if err := o.sink.Publish(ctx, runID, out); err != nil {
		o.log.Warn("outcome publish failed", append(fields, zap.Error(err))...)
	}
}
