// Package rpc executes JSON-RPC calls against an ordered list of endpoints
// per network, with a fixed per-attempt timeout and failover to the next
// endpoint on any transport, HTTP, or JSON-RPC level failure.
package rpc

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/sentinelwallet/sentinel/internal/model"
)

// DefaultAttemptTimeout bounds one endpoint attempt; the next endpoint is
// tried when it elapses.
const DefaultAttemptTimeout = 10 * time.Second

// Client is the failover JSON-RPC client shared by the transaction
// dispatcher and the balance/nonce refreshers.
type Client struct {
	endpoints      map[string][]string
	attemptTimeout time.Duration
	httpClient     *http.Client
	logger         *zap.Logger
	nextID         atomic.Uint64
}

// Option tweaks client construction.
type Option func(*Client)

// WithAttemptTimeout overrides the per-attempt timeout.
func WithAttemptTimeout(d time.Duration) Option {
	return func(c *Client) { c.attemptTimeout = d }
}

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// New creates a Client over a network-id -> ordered endpoint list map.
func New(endpoints map[string][]string, logger *zap.Logger, opts ...Option) *Client {
	c := &Client{
		endpoints:      endpoints,
		attemptTimeout: DefaultAttemptTimeout,
		httpClient:     &http.Client{},
		logger:         logger,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type rpcRequest struct {
	JSONRPC string `json:"jsonrpc"`
	ID      uint64 `json:"id"`
	Method  string `json:"method"`
	Params  any    `json:"params"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e *rpcError) Error() string {
	return fmt.Sprintf("rpc error %d: %s", e.Code, e.Message)
}

type rpcResponse struct {
	Result json.RawMessage `json:"result"`
	Error  *rpcError       `json:"error"`
}

// Call posts a JSON-RPC request to each of the network's endpoints in order
// and returns the first successful result. A non-2xx status, a JSON-RPC
// error payload, or a timeout advances to the next endpoint; nothing is
// retried on the same endpoint. When every endpoint fails the returned error
// is AllEndpointsFailed carrying the last observed failure.
func (c *Client) Call(ctx context.Context, network, method string, params any) (json.RawMessage, error) {
	urls := c.endpoints[network]
	if len(urls) == 0 {
		return nil, &model.NetworkError{
			Endpoint: "",
			Err:      fmt.Errorf("no endpoints configured for network %q", network),
		}
	}

	var lastErr error
	attempts := 0
	for _, url := range urls {
		attempts++
		result, err := c.attempt(ctx, url, method, params)
		if err == nil {
			return result, nil
		}
		lastErr = err
		c.logger.Warn("rpc endpoint failed, trying next",
			zap.String("network", network),
			zap.String("method", method),
			zap.String("endpoint", url),
			zap.Error(err))

		// Give up early when the caller's context is gone; the next
		// endpoint would fail the same way.
		if ctx.Err() != nil {
			break
		}
	}

	return nil, &model.AllEndpointsFailed{Network: network, Attempts: attempts, Last: lastErr}
}

// attempt performs a single endpoint request under the per-attempt timeout.
func (c *Client) attempt(ctx context.Context, url, method string, params any) (json.RawMessage, error) {
	attemptCtx, cancel := context.WithTimeout(ctx, c.attemptTimeout)
	defer cancel()

	body, err := json.Marshal(rpcRequest{
		JSONRPC: "2.0",
		ID:      c.nextID.Add(1),
		Method:  method,
		Params:  params,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(attemptCtx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &model.NetworkError{Endpoint: url, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &model.NetworkError{
			Endpoint: url,
			Err:      fmt.Errorf("unexpected status %d", resp.StatusCode),
		}
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &model.NetworkError{Endpoint: url, Err: err}
	}

	var parsed rpcResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, &model.NetworkError{Endpoint: url, Err: fmt.Errorf("invalid response body: %w", err)}
	}
	if parsed.Error != nil {
		return nil, &model.NetworkError{Endpoint: url, Err: parsed.Error}
	}

	return parsed.Result, nil
}
