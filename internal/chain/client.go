package chain

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"

	"poolDetails/internal/metrics"
)

// DefaultRPCURL is the public NEAR mainnet RPC endpoint.
const DefaultRPCURL = "https://rpc.mainnet.fastnear.com"

const (
	jsonRPCVersion = "2.0"
	requestID      = "dontcare"
	queryMethod    = "query"

	requestTypeCallFunction = "call_function"
	finalityFinal           = "final"

	defaultRPCErrorMessage = "RPC call failed"
)

// RPCError is an error reported by the RPC node or the called contract.
type RPCError struct {
	Code    int64           `json:"code"`
	Name    string          `json:"name"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data,omitempty"`
}

func (e *RPCError) Error() string {
	if e.Message == "" {
		return defaultRPCErrorMessage
	}
	return e.Message
}

type rpcRequest struct {
	JSONRPC string `json:"jsonrpc"`
	ID      string `json:"id"`
	Method  string `json:"method"`
	Params  any    `json:"params"`
}

type callFunctionParams struct {
	RequestType string `json:"request_type"`
	Finality    string `json:"finality"`
	AccountID   string `json:"account_id"`
	MethodName  string `json:"method_name"`
	ArgsBase64  string `json:"args_base64"`
}

type rpcResponse struct {
	Result *callFunctionResult `json:"result"`
	Error  *RPCError           `json:"error"`
}

// callFunctionResult carries the raw return value as an array of byte values.
// Contract panics come back in Error with a successful JSON-RPC envelope.
type callFunctionResult struct {
	Result      []int    `json:"result"`
	Logs        []string `json:"logs"`
	BlockHeight uint64   `json:"block_height"`
	BlockHash   string   `json:"block_hash"`
	Error       string   `json:"error"`
}

// Client calls view methods on NEAR contracts over JSON-RPC.
type Client struct {
	rpcURL  string
	http    *fiber.Client
	timeout time.Duration
	metrics *metrics.Metrics
}

// Option configures a Client.
type Option func(*Client)

// WithTimeout bounds each request. Zero leaves requests unbounded.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.timeout = timeout
	}
}

// WithMetrics records request outcomes and latency.
func WithMetrics(m *metrics.Metrics) Option {
	return func(c *Client) {
		c.metrics = m
	}
}

// NewClient creates a new chain client for the RPC URL.
func NewClient(rpcURL string, opts ...Option) (*Client, error) {
	if rpcURL == "" {
		return nil, fmt.Errorf("rpc url is required")
	}

	c := &Client{
		rpcURL: rpcURL,
		http:   fiber.AcquireClient(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Close releases the underlying HTTP client.
func (c *Client) Close() {
	if c.http != nil {
		fiber.ReleaseClient(c.http)
		c.http = nil
	}
}

// CallFunction invokes a read-only contract method with JSON args and
// decodes the JSON value it returns into out.
func (c *Client) CallFunction(ctx context.Context, accountID, method string, args any, out any) error {
	start := time.Now()
	raw, err := c.callFunction(ctx, accountID, method, args)
	if err != nil {
		c.metrics.ObserveRPC(method, "error", time.Since(start))
		return err
	}

	if out != nil {
		if err := json.Unmarshal(raw, out); err != nil {
			c.metrics.ObserveRPC(method, "decode_error", time.Since(start))
			return fmt.Errorf("decode %s result: %w", method, err)
		}
	}
	c.metrics.ObserveRPC(method, "ok", time.Since(start))
	return nil
}

type httpReply struct {
	code int
	body []byte
	errs []error
}

func (c *Client) callFunction(ctx context.Context, accountID, method string, args any) ([]byte, error) {
	if c.http == nil {
		return nil, fmt.Errorf("chain client is closed")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	argsJSON, err := json.Marshal(args)
	if err != nil {
		return nil, fmt.Errorf("encode %s args: %w", method, err)
	}

	req := rpcRequest{
		JSONRPC: jsonRPCVersion,
		ID:      requestID,
		Method:  queryMethod,
		Params: callFunctionParams{
			RequestType: requestTypeCallFunction,
			Finality:    finalityFinal,
			AccountID:   accountID,
			MethodName:  method,
			ArgsBase64:  base64.StdEncoding.EncodeToString(argsJSON),
		},
	}

	agent := c.http.Post(c.rpcURL).JSON(req)
	if timeout := c.requestTimeout(ctx); timeout > 0 {
		agent = agent.Timeout(timeout)
	}

	// The agent cannot be interrupted, so a canceled call stops waiting and
	// leaves the request to finish in the background.
	replyCh := make(chan httpReply, 1)
	go func() {
		code, body, errs := agent.Bytes()
		replyCh <- httpReply{code: code, body: body, errs: errs}
	}()

	var reply httpReply
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case reply = <-replyCh:
	}

	code, body := reply.code, reply.body
	if err := errors.Join(reply.errs...); err != nil {
		return nil, fmt.Errorf("call %s: %w", method, err)
	}

	var resp rpcResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		if code < fiber.StatusOK || code >= fiber.StatusMultipleChoices {
			return nil, fmt.Errorf("http response: %d, body: %s", code, string(body))
		}
		return nil, fmt.Errorf("decode rpc response: %w", err)
	}
	if resp.Error != nil {
		return nil, fmt.Errorf("call %s: %w", method, resp.Error)
	}
	if code < fiber.StatusOK || code >= fiber.StatusMultipleChoices {
		return nil, fmt.Errorf("http response: %d, body: %s", code, string(body))
	}
	if resp.Result == nil {
		return nil, fmt.Errorf("call %s: missing result", method)
	}
	if resp.Result.Error != "" {
		return nil, fmt.Errorf("call %s: %w", method, &RPCError{Message: resp.Result.Error})
	}

	return decodeBytes(resp.Result.Result)
}

// requestTimeout is the configured timeout, shortened to the context deadline.
func (c *Client) requestTimeout(ctx context.Context) time.Duration {
	timeout := c.timeout
	if deadline, ok := ctx.Deadline(); ok {
		remaining := time.Until(deadline)
		if remaining <= 0 {
			remaining = time.Nanosecond
		}
		if timeout == 0 || remaining < timeout {
			timeout = remaining
		}
	}
	return timeout
}

func decodeBytes(values []int) ([]byte, error) {
	out := make([]byte, len(values))
	for i, v := range values {
		if v < 0 || v > 255 {
			return nil, fmt.Errorf("invalid result byte %d at offset %d", v, i)
		}
		out[i] = byte(v)
	}
	return out, nil
}
