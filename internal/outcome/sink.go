package outcome

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jmehdipour/points-claimer/internal/model"
)

// Sink consumes the stream of per-account claim outcomes.
type Sink interface {
	Publish(ctx context.Context, runID string, o model.ClaimOutcome) error
}

// Publisher is the message-bus surface KafkaSink writes to.
type Publisher interface {
	Publish(ctx context.Context, key, value []byte) error
}

type Nop struct{}

func (Nop) Publish(context.Context, string, model.ClaimOutcome) error { return nil }

// BusSink encodes outcomes as model.OutcomeEvent JSON keyed by phone.
type BusSink struct {
	pub Publisher
	now func() time.Time
}

func NewBusSink(pub Publisher) *BusSink {
	return &BusSink{pub: pub, now: time.Now}
}

func (s *BusSink) Publish(ctx context.Context, runID string, o model.ClaimOutcome) error {
	ev := Event(runID, o, s.now())
	b, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal outcome: %w", err)
	}
	if err := s.pub.Publish(ctx, []byte(ev.Phone), b); err != nil {
		return fmt.Errorf("publish outcome %s: %w", ev.Phone, err)
	}
	return nil
}

func Event(runID string, o model.ClaimOutcome, at time.Time) model.OutcomeEvent {
	ev := model.OutcomeEvent{
		RunID:     runID,
		Phone:     o.Account.Phone,
		UserID:    o.Account.UserID,
		Status:    o.Status.String(),
		ClaimID:   o.ClaimID,
		Succeeded: o.Succeeded(),
		At:        at.UnixMilli(),
	}
	if o.Err != nil {
		ev.Error = o.Err.Error()
	}
	return ev
}
