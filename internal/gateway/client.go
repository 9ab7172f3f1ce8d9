// Package gateway is the HTTP client of the docket REST API: authentication,
// the process listing and the per court system endpoints.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/net/publicsuffix"

	"github.com/mesh-intelligence/docket/pkg/types"
)

// DefaultUserAgent identifies docket to the API.
const DefaultUserAgent = "docket"

// Client sends requests to the API and keeps the session cookies. It is
// safe for concurrent use.
type Client struct {
	base        *url.URL
	http        *http.Client
	jar         *cookiejar.Jar
	userAgent   string
	sessionPath string
	log         *slog.Logger

	mu   sync.Mutex
	user *types.User
}

// Option configures a Client.
type Option func(*Client)

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.http.Timeout = d
		}
	}
}

// WithTransport replaces the HTTP transport.
func WithTransport(rt http.RoundTripper) Option {
	return func(c *Client) { c.http.Transport = rt }
}

// WithSessionFile persists cookies and the logged in user to path.
func WithSessionFile(path string) Option {
	return func(c *Client) { c.sessionPath = path }
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *Client) { c.userAgent = ua }
}

// WithLogger sets the request logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) { c.log = l }
}

// New returns a client for the API at baseURL. When a session file is
// configured its cookies and user are restored.
func New(baseURL string, opts ...Option) (*Client, error) {
	base, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parsing api url: %w", err)
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("api url %q: missing scheme or host", baseURL)
	}
	jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
	if err != nil {
		return nil, fmt.Errorf("creating cookie jar: %w", err)
	}
	c := &Client{
		base:      base,
		http:      &http.Client{Jar: jar, Timeout: types.DefaultRequestTimeout},
		jar:       jar,
		userAgent: DefaultUserAgent,
		log:       slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.sessionPath != "" {
		s, err := LoadSession(c.sessionPath)
		if err != nil {
			return nil, err
		}
		c.restore(s)
	}
	return c, nil
}

// BaseURL returns the API base URL.
func (c *Client) BaseURL() string { return c.base.String() }

// User returns the user of the current session, or nil.
func (c *Client) User() *types.User {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.user == nil {
		return nil
	}
	u := *c.user
	return &u
}

// SetUser records the session user and persists the session.
func (c *Client) SetUser(u *types.User) error {
	c.mu.Lock()
	c.user = u
	c.mu.Unlock()
	return c.saveSession()
}

// ClearSession forgets the cookies and the user and removes the session
// file.
func (c *Client) ClearSession() error {
	c.mu.Lock()
	c.user = nil
	c.mu.Unlock()
	var expired []*http.Cookie
	for _, ck := range c.jar.Cookies(c.base) {
		expired = append(expired, &http.Cookie{Name: ck.Name, Path: "/", MaxAge: -1})
	}
	c.jar.SetCookies(c.base, expired)
	if c.sessionPath == "" {
		return nil
	}
	return RemoveSession(c.sessionPath)
}

func (c *Client) restore(s Session) {
	cookies := make([]*http.Cookie, 0, len(s.Cookies))
	for _, ck := range s.Cookies {
		cookies = append(cookies, &http.Cookie{Name: ck.Name, Value: ck.Value, Path: "/"})
	}
	c.jar.SetCookies(c.base, cookies)
	c.user = s.User
}

func (c *Client) saveSession() error {
	if c.sessionPath == "" {
		return nil
	}
	var s Session
	for _, ck := range c.jar.Cookies(c.base) {
		s.Cookies = append(s.Cookies, Cookie{Name: ck.Name, Value: ck.Value})
	}
	s.User = c.User()
	return s.Save(c.sessionPath)
}

// endpoint resolves path and query against the base URL.
func (c *Client) endpoint(path string, query url.Values) string {
	u := *c.base
	u.Path = strings.TrimRight(u.Path, "/") + path
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}
	return u.String()
}

// do sends one request and returns the response when its status is 2xx.
// Authentication failures clear the session before the error is returned.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body io.Reader, contentType string) (*http.Response, error) {
	target := c.endpoint(path, query)
	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")
	if id, err := uuid.NewV7(); err == nil {
		req.Header.Set("X-Request-ID", id.String())
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	c.log.Debug("api request", "method", method, "path", path, "status", resp.StatusCode, "elapsed", time.Since(start))

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return resp, nil
	}
	defer resp.Body.Close()
	b, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	herr := &HTTPError{Status: resp.StatusCode, Method: method, URL: path, Body: strings.TrimSpace(string(b))}
	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		if err := c.ClearSession(); err != nil {
			c.log.Warn("clearing session", "error", err)
		}
	}
	return nil, herr
}

// getJSON decodes the JSON response of a GET into out.
func (c *Client) getJSON(ctx context.Context, path string, query url.Values, out any) error {
	resp, err := c.do(ctx, http.MethodGet, path, query, nil, "")
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	return decode(resp, out)
}

// sendJSON encodes in as the request body and decodes the response into
// out when out is non-nil and the response has a body.
func (c *Client) sendJSON(ctx context.Context, method, path string, query url.Values, in, out any) error {
	var body io.Reader
	contentType := ""
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encoding request: %w", err)
		}
		body = bytes.NewReader(b)
		contentType = "application/json"
	}
	resp, err := c.do(ctx, method, path, query, body, contentType)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	return decode(resp, out)
}

// download copies the response body of a GET to w.
func (c *Client) download(ctx context.Context, path string, w io.Writer) (int64, error) {
	resp, err := c.do(ctx, http.MethodGet, path, nil, nil, "")
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()
	n, err := io.Copy(w, resp.Body)
	if err != nil {
		return n, fmt.Errorf("downloading %s: %w", path, err)
	}
	return n, nil
}

func decode(resp *http.Response, out any) error {
	if out == nil || resp.StatusCode == http.StatusNoContent {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		if err == io.EOF {
			return nil
		}
		return fmt.Errorf("decoding %s response: %w", resp.Request.URL.Path, err)
	}
	return nil
}
