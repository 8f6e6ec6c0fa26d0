// Package backend talks to the Kosalla backend API. Every call goes through
// Client, which sets the JSON headers and the session token and turns
// non-2xx answers into *domain.RequestError.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/viriyakhulung/kosalla-new/internal/core/domain"
)

const (
	defaultTimeout = 10 * time.Second
	maxBodyBytes   = 4 << 20

	AuthModeBearer  = "bearer"
	AuthModeSanctum = "sanctum"
)

// ObserveFunc receives one sample per backend round trip. status is 0 when
// the request never got a response.
type ObserveFunc func(method, route string, status int, elapsed time.Duration)

type Config struct {
	BaseURL    string
	Timeout    time.Duration
	AuthMode   string
	HTTPClient *http.Client
	Observe    ObserveFunc
}

type Client struct {
	baseURL  string
	http     *http.Client
	authMode string
	observe  ObserveFunc
}

func New(cfg Config) *Client {
	hc := cfg.HTTPClient
	if hc == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = defaultTimeout
		}
		hc = &http.Client{Timeout: timeout}
	}
	mode := strings.ToLower(strings.TrimSpace(cfg.AuthMode))
	if mode == "" {
		mode = AuthModeBearer
	}
	observe := cfg.Observe
	if observe == nil {
		observe = func(string, string, int, time.Duration) {}
	}
	return &Client{
		baseURL:  strings.TrimRight(cfg.BaseURL, "/"),
		http:     hc,
		authMode: mode,
		observe:  observe,
	}
}

// BaseURL is the backend origin requests are sent to.
func (c *Client) BaseURL() string { return c.baseURL }

// response is a completed round trip. data is nil when the body was empty or
// not valid JSON.
type response struct {
	status int
	raw    []byte
	data   json.RawMessage
	header http.Header
}

type requestOption func(*http.Request)

func (c *Client) send(ctx context.Context, token, method, path string, body any, fallback string, opts ...requestOption) (*response, error) {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode %s %s: %w", method, path, err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("build %s %s: %w", method, path, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	for _, opt := range opts {
		opt(req)
	}

	route := routeLabel(path)
	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.observe(method, route, 0, time.Since(start))
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	c.observe(method, route, resp.StatusCode, time.Since(start))

	res := &response{status: resp.StatusCode, raw: raw, data: parseJSON(raw), header: resp.Header}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return res, domain.NewRequestError(resp.StatusCode, messageOf(res.data), fallback)
	}
	return res, nil
}

// exec runs a mutation where only success matters.
func (c *Client) exec(ctx context.Context, s domain.Session, method, path string, body any) error {
	_, err := c.send(ctx, s.Token, method, path, body, "Request failed")
	return err
}

// list fetches a collection endpoint and flattens its envelope.
func list[T any](ctx context.Context, c *Client, s domain.Session, path string) ([]T, error) {
	res, err := c.send(ctx, s.Token, http.MethodGet, path, nil, "Request failed")
	if err != nil {
		return nil, err
	}
	if res.data == nil && len(bytes.TrimSpace(res.raw)) > 0 {
		return nil, fmt.Errorf("%w: GET %s", domain.ErrMalformedResponse, path)
	}
	page, err := Unwrap[T](res.data)
	if err != nil {
		return nil, fmt.Errorf("GET %s: %w", path, err)
	}
	return page.Items, nil
}

func parseJSON(raw []byte) json.RawMessage {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || !json.Valid(trimmed) {
		return nil
	}
	return json.RawMessage(trimmed)
}

func messageOf(data json.RawMessage) string {
	var body struct {
		Message string `json:"message"`
	}
	if len(data) == 0 || json.Unmarshal(data, &body) != nil {
		return ""
	}
	return body.Message
}

var numericSegment = regexp.MustCompile(`/\d+(/|$)`)

// routeLabel collapses ids and drops the query so metric labels stay bounded.
func routeLabel(path string) string {
	if i := strings.IndexByte(path, '?'); i >= 0 {
		path = path[:i]
	}
	for numericSegment.MatchString(path) {
		path = numericSegment.ReplaceAllString(path, "/:id$1")
	}
	return path
}

// Ping reports whether the backend answers HTTP at all. Any status counts;
// only transport failures are errors.
func (c *Client) Ping(ctx context.Context) error {
	_, err := c.send(ctx, "", http.MethodGet, mePath, nil, "Ping failed")
	if err != nil && domain.StatusOf(err) == 0 {
		return err
	}
	return nil
}
