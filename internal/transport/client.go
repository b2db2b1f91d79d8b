package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

const maxBodyBytes = 4 << 20 // 4MB

var (
	ErrTransport = errors.New("transport failure")
	ErrStatus    = errors.New("non-success status")
)

// Headers identifies the client application/device on every call.
type Headers struct {
	UserAgent    string
	ServerSelect string
	DeviceName   string
}

type Options struct {
	Timeout         time.Duration
	MaxIdleConns    int
	IdleConnTimeout time.Duration
}

type Request struct {
	Method string
	URL    string
	Query  url.Values
	Body   any    // JSON-encoded when non-nil
	Token  string // bearer token, optional
}

// Response never carries a transport fault upward as a panic or a bare error:
// Err is set instead, and OK reports the overall classification.
type Response struct {
	StatusCode int
	Body       []byte
	Err        error
}

func (r Response) OK() bool {
	return r.Err == nil && r.StatusCode/100 == 2
}

// Failure returns nil for OK responses, otherwise an error wrapping
// ErrTransport or ErrStatus.
func (r Response) Failure() error {
	if r.Err != nil {
		return r.Err
	}
	if r.StatusCode/100 != 2 {
		return fmt.Errorf("%w: %d", ErrStatus, r.StatusCode)
	}
	return nil
}

// Client is a pooled HTTP client safe for concurrent use.
type Client struct {
	http    *http.Client
	headers Headers
}

func NewClient(h Headers, opts Options) *Client {
	if opts.Timeout <= 0 {
		opts.Timeout = 30 * time.Second
	}
	if opts.MaxIdleConns <= 0 {
		opts.MaxIdleConns = 100
	}
	if opts.IdleConnTimeout <= 0 {
		opts.IdleConnTimeout = 90 * time.Second
	}

	tr := http.DefaultTransport.(*http.Transport).Clone()
	tr.MaxIdleConns = opts.MaxIdleConns
	tr.MaxIdleConnsPerHost = opts.MaxIdleConns
	tr.IdleConnTimeout = opts.IdleConnTimeout

	return &Client{
		http:    &http.Client{Timeout: opts.Timeout, Transport: tr},
		headers: h,
	}
}

// NewClientWithHTTP wraps an existing *http.Client (tests, custom transports).
func NewClientWithHTTP(h Headers, hc *http.Client) *Client {
	return &Client{http: hc, headers: h}
}

func (c *Client) Call(ctx context.Context, r Request) Response {
	u, err := url.Parse(r.URL)
	if err != nil {
		return Response{Err: fmt.Errorf("%w: parse url: %v", ErrTransport, err)}
	}
	if len(r.Query) > 0 {
		q := u.Query()
		for k, vs := range r.Query {
			for _, v := range vs {
				q.Add(k, v)
			}
		}
		u.RawQuery = q.Encode()
	}

	var body io.Reader
	if r.Body != nil {
		b, err := json.Marshal(r.Body)
		if err != nil {
			return Response{Err: fmt.Errorf("%w: marshal body: %v", ErrTransport, err)}
		}
		body = bytes.NewReader(b)
	}

	method := r.Method
	if method == "" {
		method = http.MethodGet
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), body)
	if err != nil {
		return Response{Err: fmt.Errorf("%w: %v", ErrTransport, err)}
	}

	c.setHeaders(req, r.Token)
	if r.Body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	res, err := c.http.Do(req)
	if err != nil {
		return Response{Err: fmt.Errorf("%w: %v", ErrTransport, err)}
	}
	defer res.Body.Close()

	b, err := io.ReadAll(io.LimitReader(res.Body, maxBodyBytes))
	if err != nil {
		return Response{StatusCode: res.StatusCode, Err: fmt.Errorf("%w: read body: %v", ErrTransport, err)}
	}

	return Response{StatusCode: res.StatusCode, Body: b}
}

// CloseIdleConnections releases pooled connections once a run is over.
func (c *Client) CloseIdleConnections() {
	c.http.CloseIdleConnections()
}

func (c *Client) Get(ctx context.Context, rawURL string, q url.Values, token string) Response {
	return c.Call(ctx, Request{Method: http.MethodGet, URL: rawURL, Query: q, Token: token})
}

func (c *Client) PostJSON(ctx context.Context, rawURL string, q url.Values, body any, token string) Response {
	return c.Call(ctx, Request{Method: http.MethodPost, URL: rawURL, Query: q, Body: body, Token: token})
}

func (c *Client) setHeaders(req *http.Request, token string) {
	if c.headers.UserAgent != "" {
		req.Header.Set("User-Agent", c.headers.UserAgent)
	}
	if c.headers.ServerSelect != "" {
		req.Header.Set("X-Server-Select", c.headers.ServerSelect)
	}
	if c.headers.DeviceName != "" {
		req.Header.Set("Device-Name", c.headers.DeviceName)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
}
