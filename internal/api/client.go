package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// Kind classifies a failed dispatch.
type Kind int

const (
	// KindInvalidInput is a malformed or wrongly-shaped user parameter,
	// detected before any network call.
	KindInvalidInput Kind = iota
	// KindTransport covers connection, DNS and timeout failures.
	KindTransport
	// KindHTTP is a non-2xx response; StatusCode carries the status.
	KindHTTP
)

func (k Kind) String() string {
	switch k {
	case KindInvalidInput:
		return "invalid input"
	case KindTransport:
		return "transport"
	case KindHTTP:
		return "http"
	default:
		return "unknown"
	}
}

// Error is the classified failure every dispatch funnels into.
type Error struct {
	Kind       Kind
	Message    string
	StatusCode int
}

func (e *Error) Error() string {
	if e.Kind == KindHTTP {
		return fmt.Sprintf("%s %d: %s", e.Kind, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Result is the uniform outcome handed to the presentation layer and the
// history store. Payload is unvalidated parsed JSON; schema interpretation
// belongs to whoever renders it.
type Result struct {
	Payload any
	Err     *Error
}

func (r Result) OK() bool { return r.Err == nil }

const probeTimeout = 2 * time.Second

// Client dispatches calls against the banking backend. One call at a time;
// nothing is retried.
type Client struct {
	base string
	http *http.Client
}

// NewClient builds a client for base. timeout bounds every dispatch
// (the liveness probe keeps its own fixed window); zero means no limit.
func NewClient(base string, timeout time.Duration) *Client {
	return &Client{
		base: strings.TrimRight(base, "/"),
		http: &http.Client{Timeout: timeout},
	}
}

// BaseURL returns the configured backend address.
func (c *Client) BaseURL() string { return c.base }

// Get performs a GET against endpoint with params serialized as a query
// string. Params must stay flat; array or object values are rejected before
// any network call.
func (c *Client) Get(ctx context.Context, endpoint string, params Params) (any, error) {
	q := url.Values{}
	for k, v := range params {
		s, err := queryValue(v)
		if err != nil {
			return nil, &Error{Kind: KindInvalidInput, Message: fmt.Sprintf("query parameter %q: %v", k, err)}
		}
		q.Set(k, s)
	}
	target := c.target(endpoint)
	if len(q) > 0 {
		target += "?" + q.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, &Error{Kind: KindInvalidInput, Message: err.Error()}
	}
	return c.do(req)
}

// Post sends body as a JSON payload. A nil body posts an empty object.
func (c *Client) Post(ctx context.Context, endpoint string, body Params) (any, error) {
	if body == nil {
		body = Params{}
	}
	raw, err := json.Marshal(body)
	if err != nil {
		return nil, &Error{Kind: KindInvalidInput, Message: fmt.Sprintf("encode body: %v", err)}
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.target(endpoint), bytes.NewReader(raw))
	if err != nil {
		return nil, &Error{Kind: KindInvalidInput, Message: err.Error()}
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req)
}

// Dispatch invokes any registered route through its method, wrapping the
// outcome into a Result. Routes with an unfilled placeholder fail as invalid
// input before dispatch.
func (c *Client) Dispatch(ctx context.Context, r Route, params Params) Result {
	if r.NeedsArg() {
		return Result{Err: &Error{Kind: KindInvalidInput, Message: fmt.Sprintf("endpoint %s needs an id", r.Endpoint)}}
	}
	var (
		payload any
		err     error
	)
	switch r.Method {
	case http.MethodGet:
		payload, err = c.Get(ctx, r.Endpoint, params)
	case http.MethodPost:
		payload, err = c.Post(ctx, r.Endpoint, params)
	default:
		return Result{Err: &Error{Kind: KindInvalidInput, Message: fmt.Sprintf("unsupported method %s", r.Method)}}
	}
	if err != nil {
		return Result{Err: Classify(err)}
	}
	return Result{Payload: payload}
}

// ProbeLiveness checks whether the backend answers on its health endpoint.
// Liveness is binary, not diagnostic: transport failures, non-2xx statuses
// and undecodable bodies all collapse to false within the fixed window.
func (c *Client) ProbeLiveness(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.target("system/health"), nil)
	if err != nil {
		return false
	}
	_, err = c.do(req)
	return err == nil
}

// Classify extracts the dispatch classification from err, wrapping anything
// unclassified as transport.
func Classify(err error) *Error {
	if err == nil {
		return nil
	}
	if e, ok := err.(*Error); ok {
		return e
	}
	return &Error{Kind: KindTransport, Message: err.Error()}
}

func (c *Client) target(endpoint string) string {
	return c.base + "/" + strings.TrimLeft(endpoint, "/")
}

func (c *Client) do(req *http.Request) (any, error) {
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &Error{Kind: KindTransport, Message: err.Error()}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &Error{Kind: KindTransport, Message: fmt.Sprintf("read response: %v", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &Error{Kind: KindHTTP, Message: serverMessage(raw, resp.StatusCode), StatusCode: resp.StatusCode}
	}

	var payload any
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, &Error{Kind: KindTransport, Message: fmt.Sprintf("decode response: %v", err)}
	}
	return payload, nil
}

// serverMessage pulls a human-readable detail out of an error body, falling
// back to the status text.
func serverMessage(raw []byte, status int) string {
	var body map[string]any
	if err := json.Unmarshal(raw, &body); err == nil {
		for _, key := range []string{"detail", "message", "error"} {
			if s, ok := body[key].(string); ok && s != "" {
				return s
			}
		}
	}
	return http.StatusText(status)
}

func queryValue(v any) (string, error) {
	switch val := v.(type) {
	case string:
		return val, nil
	case bool:
		return strconv.FormatBool(val), nil
	case int:
		return strconv.Itoa(val), nil
	case int64:
		return strconv.FormatInt(val, 10), nil
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64), nil
	case json.Number:
		return val.String(), nil
	case nil:
		return "", nil
	default:
		return "", fmt.Errorf("must be a flat scalar, got %T", v)
	}
}
