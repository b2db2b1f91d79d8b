package mytm

import (
	"context"
	"net/http"

	"github.com/jmehdipour/points-claimer/internal/model"
	"github.com/jmehdipour/points-claimer/internal/transport"
)

type claimRequest struct {
	ID int64 `json:"id"`
}

// SubmitClaim posts a claim for id. The call is not idempotent: claiming an
// already claimed id comes back as a non-2xx and is reported as ok=false.
func (c *Client) SubmitClaim(ctx context.Context, a model.Account, id int64) (ok bool, status int, err error) {
	res := c.caller.Call(ctx, transport.Request{
		Method: http.MethodPost,
		URL:    c.cfg.BaseURL + claimPath,
		Query:  c.accountQuery(a),
		Body:   claimRequest{ID: id},
		Token:  a.AccessToken,
	})
	if err := res.Failure(); err != nil {
		return false, res.StatusCode, err
	}
	return true, res.StatusCode, nil
}
