package pipeline

import (
	"context"
	"fmt"

	"github.com/jmehdipour/points-claimer/internal/metrics"
	"github.com/jmehdipour/points-claimer/internal/model"
	"github.com/jmehdipour/points-claimer/internal/worker"
	"go.uber.org/zap"
)

type DashboardAPI interface {
	RefreshDashboard(ctx context.Context, a model.Account) model.DashboardOutcome
}

// DashboardRefresher pings every account's dashboard. Failures are logged
// and otherwise ignored.
type DashboardRefresher struct {
	api   DashboardAPI
	log   *zap.Logger
	limit int
}

func NewDashboardRefresher(api DashboardAPI, log *zap.Logger, limit int) *DashboardRefresher {
	if log == nil {
		log = zap.NewNop()
	}
	return &DashboardRefresher{api: api, log: log, limit: limit}
}

// RefreshAll returns once every dashboard call has finished.
func (d *DashboardRefresher) RefreshAll(ctx context.Context, accounts []model.Account) []model.DashboardOutcome {
	g := worker.Group[model.Account, model.DashboardOutcome]{
		Limit: d.limit,
		Recover: func(a model.Account, err error) model.DashboardOutcome {
			return model.DashboardOutcome{Account: a, Err: fmt.Errorf("dashboard: %w", err)}
		},
	}

	return g.Run(ctx, accounts, func(ctx context.Context, a model.Account) model.DashboardOutcome {
		out := d.api.RefreshDashboard(ctx, a)
		metrics.DashboardTotal.WithLabelValues(metrics.Result(out.OK)).Inc()
		if out.OK {
			d.log.Debug("[dashboard] success", zap.String("phone", a.Phone))
		} else {
			d.log.Warn("[dashboard] failed", zap.String("phone", a.Phone), zap.Int("status", out.StatusCode), zap.Error(out.Err))
		}
		return out
	})
}
