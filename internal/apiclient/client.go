// Package apiclient is the console's HTTP client for the Omnia REST API.
// Each method maps to one endpoint; responses are decoded as-is and every
// failure surfaces as *Error.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const defaultTimeout = 10 * time.Second

// Error is the failure returned by every service method. StatusCode is zero
// when the request never got a response.
type Error struct {
	StatusCode int
	Message    string
	Err        error
}

func (e *Error) Error() string {
	if e.StatusCode == 0 {
		if e.Err != nil {
			return e.Message + ": " + e.Err.Error()
		}
		return e.Message
	}
	return fmt.Sprintf("api: %d %s", e.StatusCode, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// StatusCode extracts the HTTP status from err, or 0.
func StatusCode(err error) int {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode
	}
	return 0
}

// Message extracts the server's message from err, or err's text.
func Message(err error) string {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	return err.Error()
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.httpClient.Timeout = d }
}

type Client struct {
	base       *url.URL
	httpClient *http.Client
}

// New builds a client for the API rooted at baseURL (e.g. http://localhost:8080).
func New(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse api url: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("api url %q must be absolute", baseURL)
	}
	c := &Client{
		base:       u,
		httpClient: &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

func (c *Client) Families() *FamilyService { return &FamilyService{c: c} }
func (c *Client) Users() *UserService       { return &UserService{c: c} }
func (c *Client) Auth() *AuthService        { return &AuthService{c: c} }
func (c *Client) AidTypes() *AidTypeService { return &AidTypeService{c: c} }

// endpoint joins escaped path segments onto the base URL.
func (c *Client) endpoint(query url.Values, segments ...string) string {
	u := *c.base
	escaped := make([]string, len(segments))
	for i, s := range segments {
		escaped[i] = url.PathEscape(s)
	}
	prefix := strings.TrimRight(u.Path, "/")
	u.Path = prefix + "/" + strings.Join(segments, "/")
	u.RawPath = strings.TrimRight(c.base.EscapedPath(), "/") + "/" + strings.Join(escaped, "/")
	if query != nil {
		u.RawQuery = query.Encode()
	}
	return u.String()
}

func (c *Client) do(ctx context.Context, method, endpoint string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return &Error{Message: "encode request", Err: err}
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return &Error{Message: "build request", Err: err}
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &Error{Message: "API injoignable", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return &Error{StatusCode: resp.StatusCode, Message: errorMessage(resp)}
	}
	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &Error{StatusCode: resp.StatusCode, Message: "decode response", Err: err}
	}
	return nil
}

// errorMessage reads the "error" or "message" field of a JSON error body,
// falling back to the status text.
func errorMessage(resp *http.Response) string {
	var body struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	data, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if json.Unmarshal(data, &body) == nil {
		if body.Error != "" {
			return body.Error
		}
		if body.Message != "" {
			return body.Message
		}
	}
	return http.StatusText(resp.StatusCode)
}
