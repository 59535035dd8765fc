// internal/gateway/client.go
//
// REST client used by the request gateway.
//
// Context
// -------
// The dashboard backend is a JSON REST API.  RESTClient implements the
// per-verb Client contract on top of a pooled go-cleanhttp client whose
// transport is wrapped by otelhttp, so outbound calls join whatever trace
// the inbound request carries.  Non-2xx responses become *HTTPError with the
// backend's `message` field decoded when present.
//
// Notes
// -----
// • No retries.  A failed call is terminal for that call.
// • Oxford commas, two spaces after periods.
package gateway

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

	"github.com/hashicorp/go-cleanhttp"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// Response is a decoded backend reply.
type Response struct {
	Status int
	Data   json.RawMessage
}

// RequestConfig carries per-call options.  A nil *RequestConfig is valid.
type RequestConfig struct {
	Headers http.Header
	Query   url.Values
}

// Client issues one call per verb against the backend.
type Client interface {
	Get(ctx context.Context, path string, cfg *RequestConfig) (*Response, error)
	Post(ctx context.Context, path string, data any, cfg *RequestConfig) (*Response, error)
	Put(ctx context.Context, path string, data any, cfg *RequestConfig) (*Response, error)
	Patch(ctx context.Context, path string, data any, cfg *RequestConfig) (*Response, error)
	Delete(ctx context.Context, path string, cfg *RequestConfig) (*Response, error)
}

// HTTPError is returned for non-2xx responses.
type HTTPError struct {
	Status int
	Body   []byte
	msg    string // decoded `message` field, if any
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("backend responded %d %s", e.Status, http.StatusText(e.Status))
}

// ResponseMessage returns the backend-supplied message, or "".
func (e *HTTPError) ResponseMessage() string { return e.msg }

// RESTClient talks JSON to a single base URL.
type RESTClient struct {
	base   string
	http   *http.Client
	header http.Header
}

// NewRESTClient returns a client rooted at baseURL.  header is sent with every
// call (for example the Authorization header forwarded from the browser).
func NewRESTClient(baseURL string, timeout time.Duration, header http.Header) *RESTClient {
	hc := cleanhttp.DefaultPooledClient()
	hc.Timeout = timeout
	hc.Transport = otelhttp.NewTransport(hc.Transport)
	return &RESTClient{
		base:   strings.TrimRight(baseURL, "/"),
		http:   hc,
		header: header,
	}
}

// WithHeader returns a shallow copy that sends h on every call.  The pooled
// transport is shared.
func (c *RESTClient) WithHeader(h http.Header) *RESTClient {
	cp := *c
	cp.header = h
	return &cp
}

func (c *RESTClient) Get(ctx context.Context, path string, cfg *RequestConfig) (*Response, error) {
	return c.do(ctx, http.MethodGet, path, nil, cfg)
}

func (c *RESTClient) Post(ctx context.Context, path string, data any, cfg *RequestConfig) (*Response, error) {
	return c.do(ctx, http.MethodPost, path, data, cfg)
}

func (c *RESTClient) Put(ctx context.Context, path string, data any, cfg *RequestConfig) (*Response, error) {
	return c.do(ctx, http.MethodPut, path, data, cfg)
}

func (c *RESTClient) Patch(ctx context.Context, path string, data any, cfg *RequestConfig) (*Response, error) {
	return c.do(ctx, http.MethodPatch, path, data, cfg)
}

func (c *RESTClient) Delete(ctx context.Context, path string, cfg *RequestConfig) (*Response, error) {
	return c.do(ctx, http.MethodDelete, path, nil, cfg)
}

func (c *RESTClient) do(ctx context.Context, method, path string, data any, cfg *RequestConfig) (*Response, error) {
	target := c.base + "/" + strings.TrimLeft(path, "/")
	if cfg != nil && len(cfg.Query) > 0 {
		target += "?" + cfg.Query.Encode()
	}

	var body io.Reader
	if data != nil {
		raw, err := json.Marshal(data)
		if err != nil {
			return nil, fmt.Errorf("encode %s %s: %w", method, path, err)
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	copyHeader(req.Header, c.header)
	if cfg != nil {
		copyHeader(req.Header, cfg.Headers)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read %s %s: %w", method, path, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &HTTPError{Status: resp.StatusCode, Body: raw, msg: bodyMessage(raw)}
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		raw = []byte("null")
	}
	return &Response{Status: resp.StatusCode, Data: json.RawMessage(raw)}, nil
}

func copyHeader(dst, src http.Header) {
	for k, vs := range src {
		for _, v := range vs {
			dst.Add(k, v)
		}
	}
}

// bodyMessage extracts {"message": "..."} from a JSON error body.
func bodyMessage(raw []byte) string {
	var env struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(raw, &env); err != nil {
		return ""
	}
	return env.Message
}
