// Package apiclient talks to the shop's REST API on behalf of the admin console.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/shop_admin/internal/models"
)

const maxErrorBody = 64 << 10

// TokenSource yields the bearer token attached to every request. An empty
// token means the request goes out unauthenticated.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

type Client struct {
	baseURL    string
	httpClient *http.Client
	tokens     TokenSource
}

type Option func(*options)

type options struct {
	timeout    time.Duration
	tokens     TokenSource
	logger     *slog.Logger
	httpClient *http.Client
}

// WithTimeout sets an overall per-request timeout. Zero keeps the transport default.
func WithTimeout(d time.Duration) Option { return func(o *options) { o.timeout = d } }

func WithTokenSource(ts TokenSource) Option { return func(o *options) { o.tokens = ts } }

func WithLogger(l *slog.Logger) Option { return func(o *options) { o.logger = l } }

// WithHTTPClient replaces the underlying client; its transport is still wrapped
// with request logging.
func WithHTTPClient(hc *http.Client) Option { return func(o *options) { o.httpClient = hc } }

func NewClient(baseURL string, opts ...Option) *Client {
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}

	hc := o.httpClient
	if hc == nil {
		hc = &http.Client{
			Transport: &http.Transport{
				Proxy:               http.ProxyFromEnvironment,
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		}
	}
	base := hc.Transport
	if base == nil {
		base = http.DefaultTransport
	}
	wrapped := *hc
	wrapped.Transport = &loggingTransport{base: base, logger: o.logger}
	if o.timeout > 0 {
		wrapped.Timeout = o.timeout
	}

	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &wrapped,
		tokens:     o.tokens,
	}
}

func (c *Client) Products() *Resource[models.Product, ProductPayload] {
	return &Resource[models.Product, ProductPayload]{c: c, path: "/products", name: "products", encode: encodeProduct}
}

func (c *Client) Users() *Resource[models.User, UserPayload] {
	return &Resource[models.User, UserPayload]{c: c, path: "/users", name: "users", encode: encodeUser}
}

// do sends one request and returns the body of a 2xx response.
func (c *Client) do(ctx context.Context, op, method, path string, body io.Reader, contentType string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("%s: create request: %w", op, err)
	}
	if contentType != "" {
		req.Header.Set(echo.HeaderContentType, contentType)
	}
	req.Header.Set(echo.HeaderAccept, echo.MIMEApplicationJSON)
	req.Header.Set(echo.HeaderXRequestID, uuid.NewString())

	if c.tokens != nil {
		tok, err := c.tokens.Token(ctx)
		if err != nil {
			return nil, fmt.Errorf("%s: read session token: %w", op, err)
		}
		if tok != "" {
			req.Header.Set(echo.HeaderAuthorization, "Bearer "+tok)
		}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &NetworkError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, &RemoteError{Op: op, Status: resp.StatusCode, Body: strings.TrimSpace(string(b))}
	}

	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &NetworkError{Op: op, Err: fmt.Errorf("read body: %w", err)}
	}
	return b, nil
}

// decodeList accepts a bare JSON array or the {"data": [...]} envelope.
func decodeList[T any](b []byte) ([]T, error) {
	b = bytes.TrimSpace(b)
	if len(b) == 0 {
		return []T{}, nil
	}
	if b[0] == '[' {
		var out []T
		if err := json.Unmarshal(b, &out); err != nil {
			return nil, err
		}
		return nonNil(out), nil
	}
	var env struct {
		Data []T `json:"data"`
	}
	if err := json.Unmarshal(b, &env); err != nil {
		return nil, err
	}
	return nonNil(env.Data), nil
}

// decodeOne accepts a bare object or one wrapped as {"data": {...}}. An empty
// body decodes to the zero value.
func decodeOne[T any](b []byte) (T, error) {
	var out T
	b = bytes.TrimSpace(b)
	if len(b) == 0 {
		return out, nil
	}
	var probe map[string]json.RawMessage
	if err := json.Unmarshal(b, &probe); err != nil {
		return out, err
	}
	if data, ok := probe["data"]; ok && len(probe) == 1 {
		b = data
	}
	err := json.Unmarshal(b, &out)
	return out, err
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

// IsNetwork reports whether err is a transport failure.
func IsNetwork(err error) bool {
	var ne *NetworkError
	return errors.As(err, &ne)
}

// StatusOf returns the HTTP status carried by a RemoteError, or 0.
func StatusOf(err error) int {
	var re *RemoteError
	if errors.As(err, &re) {
		return re.Status
	}
	return 0
}
