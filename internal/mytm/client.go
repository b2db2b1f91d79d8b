package mytm

import (
	"context"
	"net/url"
	"strings"

	"github.com/jmehdipour/points-claimer/internal/model"
	"github.com/jmehdipour/points-claimer/internal/transport"
	"github.com/jmehdipour/points-claimer/internal/util"
)

const (
	claimListPath = "/point-system/claim-list"
	claimPath     = "/point-system/claim"
	dashboardPath = "/dashboard"
)

// Caller is the transport surface the vendor client needs.
type Caller interface {
	Call(ctx context.Context, r transport.Request) transport.Response
}

type Config struct {
	BaseURL        string
	Version        string // "v" query parameter
	IsFirstTime    string
	IsFirstInstall string
}

// Client talks to the vendor REST API on behalf of individual accounts.
type Client struct {
	caller Caller
	cfg    Config
}

func NewClient(caller Caller, cfg Config) *Client {
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if cfg.IsFirstTime == "" {
		cfg.IsFirstTime = "1"
	}
	if cfg.IsFirstInstall == "" {
		cfg.IsFirstInstall = "0"
	}
	return &Client{caller: caller, cfg: cfg}
}

// accountQuery builds the msisdn/userid/v parameters shared by every call.
func (c *Client) accountQuery(a model.Account) url.Values {
	return url.Values{
		"msisdn": {util.NormalizeMSISDN(a.Phone)},
		"userid": {a.UserID},
		"v":      {c.cfg.Version},
	}
}
