package transport

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testHeaders = Headers{
	UserAgent:    "MyTM/4.11.0/Android/30",
	ServerSelect: "production",
	DeviceName:   "Xiaomi Redmi Note 8 Pro",
}

func TestCall_FixedHeadersAndBearer(t *testing.T) {
	var got http.Header
	var gotQuery url.Values
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Clone()
		gotQuery = r.URL.Query()
		_, _ = io.WriteString(w, `{"ok":true}`)
	}))
	defer server.Close()

	c := NewClient(testHeaders, Options{Timeout: 5 * time.Second})
	res := c.Get(context.Background(), server.URL, url.Values{"msisdn": {"+959123"}}, "tok-1")

	require.True(t, res.OK())
	assert.Equal(t, `{"ok":true}`, string(res.Body))
	assert.Equal(t, "MyTM/4.11.0/Android/30", got.Get("User-Agent"))
	assert.Equal(t, "production", got.Get("X-Server-Select"))
	assert.Equal(t, "Xiaomi Redmi Note 8 Pro", got.Get("Device-Name"))
	assert.Equal(t, "Bearer tok-1", got.Get("Authorization"))
	assert.Equal(t, "+959123", gotQuery.Get("msisdn"))
}

func TestCall_NoTokenNoAuthorization(t *testing.T) {
	var auth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
	}))
	defer server.Close()

	c := NewClient(testHeaders, Options{})
	res := c.Get(context.Background(), server.URL, nil, "")

	require.True(t, res.OK())
	assert.Empty(t, auth)
}

func TestCall_EmptyHeadersSendNoDeviceIdentity(t *testing.T) {
	var got http.Header
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Clone()
	}))
	defer server.Close()

	c := NewClient(Headers{}, Options{})
	res := c.Get(context.Background(), server.URL, url.Values{"phone": {"0911"}}, "")

	require.True(t, res.OK())
	assert.NotEqual(t, testHeaders.UserAgent, got.Get("User-Agent"))
	assert.Empty(t, got.Get("X-Server-Select"))
	assert.Empty(t, got.Get("Device-Name"))
	assert.Empty(t, got.Get("Authorization"))
}

func TestCall_QueryMergesWithExisting(t *testing.T) {
	var gotQuery url.Values
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
	}))
	defer server.Close()

	c := NewClient(testHeaders, Options{})
	res := c.Get(context.Background(), server.URL+"/get/?r=1", url.Values{"x": {"2"}}, "")

	require.True(t, res.OK())
	assert.Equal(t, "1", gotQuery.Get("r"))
	assert.Equal(t, "2", gotQuery.Get("x"))
}

func TestPostJSON(t *testing.T) {
	var body map[string]int64
	var ctype string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		ctype = r.Header.Get("Content-Type")
		_ = json.NewDecoder(r.Body).Decode(&body)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	c := NewClient(testHeaders, Options{})
	res := c.PostJSON(context.Background(), server.URL, nil, map[string]int64{"id": 2}, "tok")

	require.True(t, res.OK())
	assert.Equal(t, "application/json", ctype)
	assert.Equal(t, int64(2), body["id"])
}

func TestCall_NonSuccessStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	c := NewClient(testHeaders, Options{})
	res := c.Get(context.Background(), server.URL, nil, "")

	assert.False(t, res.OK())
	assert.NoError(t, res.Err)
	assert.Equal(t, http.StatusInternalServerError, res.StatusCode)
	assert.True(t, errors.Is(res.Failure(), ErrStatus))
}

func TestCall_TransportFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	addr := server.URL
	server.Close()

	c := NewClient(testHeaders, Options{})
	res := c.Get(context.Background(), addr, nil, "")

	assert.False(t, res.OK())
	assert.True(t, errors.Is(res.Failure(), ErrTransport))
}

func TestCall_Timeout(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer server.Close()
	defer close(release)

	c := NewClient(testHeaders, Options{Timeout: 50 * time.Millisecond})
	res := c.Get(context.Background(), server.URL, nil, "")

	assert.False(t, res.OK())
	assert.True(t, errors.Is(res.Err, ErrTransport))
}

func TestCall_BadURL(t *testing.T) {
	c := NewClient(testHeaders, Options{})
	res := c.Get(context.Background(), "://bad", nil, "")

	assert.True(t, errors.Is(res.Err, ErrTransport))
}

func TestCall_UnmarshalableBody(t *testing.T) {
	c := NewClient(testHeaders, Options{})
	res := c.PostJSON(context.Background(), "http://127.0.0.1:1", nil, map[string]any{"c": make(chan int)}, "")

	assert.True(t, errors.Is(res.Err, ErrTransport))
}
