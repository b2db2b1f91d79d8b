package pipeline

import (
	"context"
	"fmt"
	"net/url"

	"github.com/jmehdipour/points-claimer/internal/metrics"
	"github.com/jmehdipour/points-claimer/internal/model"
	"github.com/jmehdipour/points-claimer/internal/transport"
	"github.com/jmehdipour/points-claimer/internal/worker"
	"go.uber.org/zap"
)

type Caller interface {
	Call(ctx context.Context, r transport.Request) transport.Response
}

// PhoneRefresher issues one refresh call per phone number, all at once,
// reporting progress as calls complete.
type PhoneRefresher struct {
	caller Caller
	url    string
	log    *zap.Logger
	limit  int
}

func NewPhoneRefresher(caller Caller, refreshURL string, log *zap.Logger, limit int) *PhoneRefresher {
	if log == nil {
		log = zap.NewNop()
	}
	return &PhoneRefresher{caller: caller, url: refreshURL, log: log, limit: limit}
}

func (p *PhoneRefresher) Refresh(ctx context.Context, phone string) model.PhoneOutcome {
	res := p.caller.Call(ctx, transport.Request{URL: p.url, Query: url.Values{"phone": {phone}}})
	return model.PhoneOutcome{Phone: phone, OK: res.OK(), StatusCode: res.StatusCode, Err: res.Failure()}
}

// RefreshAll returns outcomes in completion order.
func (p *PhoneRefresher) RefreshAll(ctx context.Context, phones []string) []model.PhoneOutcome {
	total := len(phones)
	g := worker.Group[string, model.PhoneOutcome]{
		Limit: p.limit,
		Recover: func(phone string, err error) model.PhoneOutcome {
			return model.PhoneOutcome{Phone: phone, Err: fmt.Errorf("refresh: %w", err)}
		},
	}

	outs := make([]model.PhoneOutcome, 0, total)
	for out := range g.Stream(ctx, phones, p.Refresh) {
		outs = append(outs, out)
		metrics.PhoneRefreshTotal.WithLabelValues(metrics.Result(out.OK)).Inc()

		fields := []zap.Field{
			zap.String("phone", out.Phone),
			zap.String("progress", fmt.Sprintf("%d/%d", len(outs), total)),
		}
		if out.OK {
			p.log.Info("[refresh] refreshed phone number", fields...)
		} else {
			p.log.Warn("[refresh] failed to refresh phone number", append(fields, zap.Int("status", out.StatusCode), zap.Error(out.Err))...)
		}
	}

	return outs
}
