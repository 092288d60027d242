package httpclient

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/url"
	"path"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/boxsale/pkg/logger"
	"github.com/valyala/fasthttp"
)

const DefaultTimeout = 10 * time.Second

type Config struct {
	// Enable debug mode
	Debug bool

	// Timeout of a single request, DefaultTimeout if zero.
	Timeout time.Duration

	// Default headers
	Headers map[string]string
}

type Client struct {
	baseURL *url.URL
	Config
}

func New(baseURL string, config ...Config) (*Client, error) {
	parsedBaseURL, err := url.Parse(baseURL)
	if err != nil {
		return nil, errors.Wrap(err, "can't parse base url")
	}
	if parsedBaseURL.Scheme != "http" && parsedBaseURL.Scheme != "https" {
		return nil, errors.Errorf("unsupported url scheme %q", parsedBaseURL.Scheme)
	}
	var cf Config
	if len(config) > 0 {
		cf = config[0]
	}
	if cf.Timeout <= 0 {
		cf.Timeout = DefaultTimeout
	}
	return &Client{
		baseURL: parsedBaseURL,
		Config:  cf,
	}, nil
}

type Response struct {
	URL        string
	StatusCode int
	Body       []byte
}

// IsError reports a 4xx or 5xx status.
func (r *Response) IsError() bool {
	return r.StatusCode >= fasthttp.StatusBadRequest
}

// BaseURL returns the cloned base URL of the client.
func (h *Client) BaseURL() *url.URL {
	u := *h.baseURL
	return &u
}

func (h *Client) do(ctx context.Context, method, p string, body []byte) (*Response, error) {
	start := time.Now()
	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.Header.SetMethod(method)
	for k, v := range h.Headers {
		req.Header.Set(k, v)
	}
	u := h.BaseURL()
	if p != "" {
		u.Path = path.Join(u.Path, p)
	}
	req.SetRequestURI(u.String())
	if body != nil {
		req.Header.SetContentType("application/json")
		req.SetBody(body)
	}

	timeout := h.Timeout
	if deadline, ok := ctx.Deadline(); ok {
		if left := time.Until(deadline); left < timeout {
			timeout = left
		}
	}
	if err := fasthttp.DoTimeout(req, resp, timeout); err != nil {
		return nil, errors.Wrapf(err, "url: %s", u)
	}

	if h.Debug {
		logger.DebugContext(ctx, "Finished make request",
			slog.String("package", "httpclient"),
			slog.String("method", method),
			slog.String("url", u.String()),
			slog.Int("status_code", resp.StatusCode()),
			slog.Int("req_content_length", len(body)),
			slog.Int("resp_content_length", len(resp.Body())),
			slog.Duration("duration", time.Since(start)),
		)
	}

	return &Response{
		URL:        u.String(),
		StatusCode: resp.StatusCode(),
		Body:       append([]byte(nil), resp.Body()...),
	}, nil
}

func (h *Client) Get(ctx context.Context, path string) (*Response, error) {
	return h.do(ctx, fasthttp.MethodGet, path, nil)
}

// PostJSON encodes payload as the JSON request body.
func (h *Client) PostJSON(ctx context.Context, path string, payload any) (*Response, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, errors.Wrap(err, "can't marshal payload")
	}
	return h.do(ctx, fasthttp.MethodPost, path, body)
}
