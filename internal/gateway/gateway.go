// internal/gateway/gateway.go
//
// Request gateway: one entry point for the five REST verbs.
//
// Context
// -------
// Dashboard forms issue a verb, a path, and optionally a payload.  Request
// dispatches to the matching Client method and normalises the outcome into
// a Result where exactly one of Data or Err is set.  The Gateway also keeps
// shared Loading and LastError state for callers that poll it.
//
// Instances are cheap; give each independent call-site its own Gateway so
// unrelated calls do not share Loading or LastError.
package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/yanizio/flota/internal/metrics"
)

// UnknownErrorMessage is used when a failure carries no usable text.
const UnknownErrorMessage = "Error desconocido"

// ErrUnsupportedMethod is wrapped by results for verbs other than the five
// supported ones.
var ErrUnsupportedMethod = errors.New("unsupported method")

// Result is the outcome of one Request.
type Result struct {
	Data json.RawMessage `json:"data"`
	Err  *Error          `json:"error"`
}

// OK reports whether the call succeeded.
func (r Result) OK() bool { return r.Err == nil }

// Error is a failed call with its user-facing message.
type Error struct {
	Message string `json:"message"`
	Status  int    `json:"status,omitempty"`
	cause   error
}

func (e *Error) Error() string { return e.Message }
func (e *Error) Unwrap() error { return e.cause }

// Gateway wraps a Client with shared loading and error state.
type Gateway struct {
	client Client

	mu       sync.Mutex
	inFlight int
	lastErr  string
}

// New returns a Gateway over client.
func New(client Client) *Gateway {
	return &Gateway{client: client}
}

// Loading reports whether any call on this Gateway is in flight.
func (g *Gateway) Loading() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.inFlight > 0
}

// LastError returns the message of the most recent failure, cleared when a
// new call starts.
func (g *Gateway) LastError() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.lastErr
}

// Request dispatches method to the client.  Failures are returned inside the
// Result, never as a separate error.
func (g *Gateway) Request(ctx context.Context, method, path string, data any, cfg *RequestConfig) Result {
	g.mu.Lock()
	g.inFlight++
	g.lastErr = ""
	g.mu.Unlock()

	verb := strings.ToLower(method)
	start := time.Now()
	defer func() {
		g.mu.Lock()
		g.inFlight--
		g.mu.Unlock()
		metrics.GatewayRequestDuration.WithLabelValues(verb).Observe(time.Since(start).Seconds())
	}()

	resp, err := g.dispatch(ctx, verb, path, data, cfg)
	if err != nil {
		gerr := &Error{Message: errorMessage(err), cause: err}
		var herr *HTTPError
		if errors.As(err, &herr) {
			gerr.Status = herr.Status
		}
		g.mu.Lock()
		g.lastErr = gerr.Message
		g.mu.Unlock()
		metrics.GatewayRequestsTotal.WithLabelValues(verb, "error").Inc()
		return Result{Err: gerr}
	}

	metrics.GatewayRequestsTotal.WithLabelValues(verb, "ok").Inc()
	payload := resp.Data
	if payload == nil {
		payload = json.RawMessage("null")
	}
	return Result{Data: payload}
}

func (g *Gateway) dispatch(ctx context.Context, verb, path string, data any, cfg *RequestConfig) (*Response, error) {
	switch verb {
	case "get":
		return g.client.Get(ctx, path, cfg)
	case "post":
		return g.client.Post(ctx, path, data, cfg)
	case "put":
		return g.client.Put(ctx, path, data, cfg)
	case "patch":
		return g.client.Patch(ctx, path, data, cfg)
	case "delete":
		return g.client.Delete(ctx, path, cfg)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedMethod, verb)
	}
}

// responseMessager is satisfied by errors that carry a backend message.
type responseMessager interface {
	ResponseMessage() string
}

// errorMessage prefers the backend message, then the error text, then the
// generic fallback.
func errorMessage(err error) string {
	var rm responseMessager
	if errors.As(err, &rm) {
		if msg := rm.ResponseMessage(); msg != "" {
			return msg
		}
	}
	if msg := err.Error(); msg != "" {
		return msg
	}
	return UnknownErrorMessage
}
