package source

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jmehdipour/points-claimer/internal/model"
	"github.com/jmehdipour/points-claimer/internal/snapshot"
	"github.com/jmehdipour/points-claimer/internal/transport"
	"go.uber.org/zap"
)

var ErrNoData = errors.New("no account data")

// Caller is the transport surface sources need.
type Caller interface {
	Call(ctx context.Context, r transport.Request) transport.Response
}

// Accounts pulls the current account list and keeps a snapshot of it.
type Accounts struct {
	caller   Caller
	url      string
	store    snapshot.Store
	fallback bool
	log      *zap.Logger
}

func NewAccounts(caller Caller, url string, store snapshot.Store, fallback bool, log *zap.Logger) *Accounts {
	if log == nil {
		log = zap.NewNop()
	}
	return &Accounts{caller: caller, url: url, store: store, fallback: fallback, log: log}
}

// Fetch returns the account list. The raw response is saved to the snapshot
// store; when the API is unavailable and fallback is on, the last snapshot
// is used instead.
func (s *Accounts) Fetch(ctx context.Context) ([]model.Account, error) {
	s.log.Info("fetching account list", zap.String("url", s.url))

	res := s.caller.Call(ctx, transport.Request{URL: s.url})
	if err := res.Failure(); err != nil {
		s.log.Warn("account list fetch failed", zap.Int("status", res.StatusCode), zap.Error(err))
		return s.fromSnapshot(ctx, fmt.Errorf("fetch accounts: %w", err))
	}

	accounts, err := decodeAccounts(res.Body)
	if err != nil {
		s.log.Warn("account list decode failed", zap.Error(err))
		return s.fromSnapshot(ctx, err)
	}

	if s.store != nil {
		if err := s.store.Save(ctx, indent(res.Body)); err != nil {
			s.log.Warn("snapshot save failed", zap.Error(err))
		} else {
			s.log.Info("snapshot saved", zap.Int("accounts", len(accounts)))
		}
	}

	if len(accounts) == 0 {
		return nil, ErrNoData
	}
	s.warnIncomplete(accounts)
	return accounts, nil
}

// warnIncomplete flags records missing a phone, user id or token. They stay
// in the run and end up with a failed outcome.
func (s *Accounts) warnIncomplete(accounts []model.Account) {
	for _, a := range accounts {
		if !a.Valid() {
			s.log.Warn("incomplete account record", zap.String("phone", a.Phone), zap.String("userid", a.UserID))
		}
	}
}

func (s *Accounts) fromSnapshot(ctx context.Context, cause error) ([]model.Account, error) {
	if !s.fallback || s.store == nil {
		return nil, fmt.Errorf("%w: %v", ErrNoData, cause)
	}

	raw, err := s.store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v (snapshot: %v)", ErrNoData, cause, err)
	}
	accounts, err := decodeAccounts(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %v (snapshot: %v)", ErrNoData, cause, err)
	}
	if len(accounts) == 0 {
		return nil, ErrNoData
	}

	s.log.Info("using account snapshot", zap.Int("accounts", len(accounts)))
	s.warnIncomplete(accounts)
	return accounts, nil
}

func decodeAccounts(raw []byte) ([]model.Account, error) {
	var accounts []model.Account
	if err := json.Unmarshal(raw, &accounts); err != nil {
		return nil, fmt.Errorf("decode accounts: %w", err)
	}
	return accounts, nil
}

// indent pretty-prints JSON with a 4-space indent; invalid input is returned as is.
func indent(raw []byte) []byte {
	var buf bytes.Buffer
	if err := json.Indent(&buf, raw, "", "    "); err != nil {
		return raw
	}
	return buf.Bytes()
}
