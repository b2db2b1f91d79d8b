package source

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jmehdipour/points-claimer/internal/transport"
)

var ErrNotList = errors.New("response is not a list of phone numbers")

// Phones pulls the list of phone numbers for the refresh fan-out.
type Phones struct {
	caller Caller
	url    string
}

func NewPhones(caller Caller, url string) *Phones {
	return &Phones{caller: caller, url: url}
}

func (s *Phones) Fetch(ctx context.Context) ([]string, error) {
	res := s.caller.Call(ctx, transport.Request{URL: s.url})
	if err := res.Failure(); err != nil {
		return nil, fmt.Errorf("fetch phones: %w", err)
	}

	var phones []string
	if err := json.Unmarshal(res.Body, &phones); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotList, err)
	}
	return phones, nil
}
