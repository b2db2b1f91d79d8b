package mytm

import (
	"context"
	"net/http"

	"github.com/jmehdipour/points-claimer/internal/model"
	"github.com/jmehdipour/points-claimer/internal/transport"
)

// RefreshDashboard pings the dashboard so the vendor refreshes its cached
// account state. Only the status code is consulted.
func (c *Client) RefreshDashboard(ctx context.Context, a model.Account) model.DashboardOutcome {
	q := c.accountQuery(a)
	q.Set("isFirstTime", c.cfg.IsFirstTime)
	q.Set("isFirstInstall", c.cfg.IsFirstInstall)

	res := c.caller.Call(ctx, transport.Request{
		Method: http.MethodGet,
		URL:    c.cfg.BaseURL + dashboardPath,
		Query:  q,
		Token:  a.AccessToken,
	})

	return model.DashboardOutcome{
		Account:    a,
		OK:         res.OK(),
		StatusCode: res.StatusCode,
		Err:        res.Failure(),
	}
}
