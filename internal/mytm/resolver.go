package mytm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/jmehdipour/points-claimer/internal/model"
	"github.com/jmehdipour/points-claimer/internal/transport"
)

var ErrUnexpectedShape = errors.New("unexpected response shape")

type claimListResponse struct {
	Data *struct {
		Attribute []claimAttribute `json:"attribute"`
	} `json:"data"`
}

type claimAttribute struct {
	ID     json.RawMessage `json:"id"`
	Enable flag            `json:"enable"`
}

// flag decodes "enable" loosely: besides booleans, non-zero numbers and
// non-empty strings, lists or objects count as enabled.
type flag bool

func (f *flag) UnmarshalJSON(b []byte) error {
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	switch x := v.(type) {
	case bool:
		*f = flag(x)
	case float64:
		*f = x != 0
	case string:
		*f = x != ""
	case []any:
		*f = len(x) > 0
	case map[string]any:
		*f = len(x) > 0
	default:
		*f = false
	}
	return nil
}

// ResolveClaimable returns the id of the first enabled attribute in the
// account's claim list.
func (c *Client) ResolveClaimable(ctx context.Context, a model.Account) model.Claimable {
	res := c.caller.Call(ctx, transport.Request{
		Method: http.MethodGet,
		URL:    c.cfg.BaseURL + claimListPath,
		Query:  c.accountQuery(a),
		Token:  a.AccessToken,
	})
	if err := res.Failure(); err != nil {
		return model.FailedClaim(fmt.Errorf("claim-list: %w", err))
	}

	return parseClaimList(res.Body)
}

func parseClaimList(body []byte) model.Claimable {
	var out claimListResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return model.FailedClaim(fmt.Errorf("%w: %v", ErrUnexpectedShape, err))
	}
	if out.Data == nil {
		return model.NoClaim()
	}

	for _, attr := range out.Data.Attribute {
		if !attr.Enable {
			continue
		}
		if len(attr.ID) == 0 || string(attr.ID) == "null" {
			return model.FailedClaim(fmt.Errorf("%w: enabled attribute without id", ErrUnexpectedShape))
		}
		id, err := model.ParseClaimID(string(attr.ID))
		if err != nil {
			return model.FailedClaim(fmt.Errorf("%w: %v", ErrUnexpectedShape, err))
		}
		return model.FoundClaim(id)
	}

	return model.NoClaim()
}
