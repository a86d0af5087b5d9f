package worker

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/grapher/pkg/errors"
	"github.com/matzehuels/grapher/pkg/layout"
	"github.com/matzehuels/grapher/pkg/observability"
)

// Name is the engine name reported for a worker client.
const Name = "worker"

// DefaultAckTimeout bounds the wait for a cancel acknowledgement.
const DefaultAckTimeout = time.Second

// Client is a layout.Engine backed by a remote Server.
type Client struct {
	base       *url.URL
	http       *http.Client
	logger     *log.Logger
	ackTimeout time.Duration
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithHTTPClient sets the HTTP client used for requests.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) { c.http = hc }
}

// WithClientLogger sets the client logger.
func WithClientLogger(l *log.Logger) ClientOption {
	return func(c *Client) { c.logger = l }
}

// WithAckTimeout sets how long a cancelled layout waits for the server.
func WithAckTimeout(d time.Duration) ClientOption {
	return func(c *Client) { c.ackTimeout = d }
}

// NewClient returns a client for the worker at baseURL.
func NewClient(baseURL string, opts ...ClientOption) (*Client, error) {
	if err := errors.ValidateURL(baseURL); err != nil {
		return nil, err
	}
	u, err := url.Parse(strings.TrimSuffix(baseURL, "/"))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "worker url %q", baseURL)
	}
	c := &Client{
		base:       u,
		http:       http.DefaultClient,
		logger:     log.Default(),
		ackTimeout: DefaultAckTimeout,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Name implements layout.Namer.
func (c *Client) Name() string { return Name }

type result struct {
	resp *layout.Response
	err  error
}

// Layout implements layout.Engine.
func (c *Client) Layout(ctx context.Context, req *layout.Request) (*layout.Response, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("encode layout request: %w", err)
	}
	id := uuid.NewString()

	// The POST outlives ctx so the cancel acknowledgement can still arrive.
	postCtx, stop := context.WithCancel(context.WithoutCancel(ctx))
	defer stop()

	ch := make(chan result, 1)
	go func() {
		resp, err := c.post(postCtx, id, body)
		ch <- result{resp, err}
	}()

	select {
	case r := <-ch:
		return r.resp, r.err
	case <-ctx.Done():
	}

	c.logger.Debug("cancelling remote layout", "id", id)
	if err := c.cancel(context.WithoutCancel(ctx), id); err != nil {
		c.logger.Warn("cancel remote layout", "id", id, "error", err)
	}
	// A result arriving after cancellation is dropped: the worker may not
	// have seen the DELETE in time.
	select {
	case r := <-ch:
		if r.err == nil && !r.resp.Cancelled() {
			c.logger.Debug("discarding layout finished after cancel", "id", id)
		}
	case <-time.After(c.ackTimeout):
	}
	return layout.CancelResponse(), nil
}

// Health checks that the worker is up.
func (c *Client) Health(ctx context.Context) (*HealthBody, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint("/healthz"), nil)
	if err != nil {
		return nil, err
	}
	res, err := c.do(ctx, httpReq)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusOK {
		return nil, decodeError(res)
	}
	var h HealthBody
	if err := json.NewDecoder(res.Body).Decode(&h); err != nil {
		return nil, fmt.Errorf("decode health: %w", err)
	}
	return &h, nil
}

func (c *Client) post(ctx context.Context, id string, body []byte) (*layout.Response, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint("/v1/layouts"), bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set(HeaderLayoutID, id)

	res, err := c.do(ctx, httpReq)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeLayoutFailed, err, "worker request")
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return nil, decodeError(res)
	}
	data, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeLayoutFailed, err, "read worker response")
	}
	resp, err := layout.UnmarshalResponse(data)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeLayoutFailed, err, "worker response")
	}
	return resp, nil
}

func (c *Client) cancel(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, c.ackTimeout)
	defer cancel()

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodDelete, c.endpoint("/v1/layouts/"+url.PathEscape(id)), nil)
	if err != nil {
		return err
	}
	res, err := c.do(ctx, httpReq)
	if err != nil {
		return err
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusAccepted {
		return decodeError(res)
	}
	return nil
}

func (c *Client) do(ctx context.Context, req *http.Request) (*http.Response, error) {
	hooks := observability.Worker()
	host, path := req.URL.Host, req.URL.Path
	hooks.OnRequest(ctx, req.Method, host, path)
	start := time.Now()

	res, err := c.http.Do(req)
	if err != nil {
		hooks.OnError(ctx, req.Method, host, path, err)
		return nil, err
	}
	hooks.OnResponse(ctx, req.Method, host, path, res.StatusCode, time.Since(start))
	return res, nil
}

func (c *Client) endpoint(path string) string {
	return c.base.String() + path
}

// decodeError turns an error body back into a coded error.
func decodeError(res *http.Response) error {
	var body ErrorBody
	if err := json.NewDecoder(io.LimitReader(res.Body, 1<<20)).Decode(&body); err != nil || body.Code == "" {
		return errors.New(errors.ErrCodeLayoutFailed, "worker answered %s", res.Status)
	}
	return errors.New(body.Code, "%s", body.Message)
}

var _ layout.Engine = (*Client)(nil)
