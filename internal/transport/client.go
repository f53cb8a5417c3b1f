package transport

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"github.com/Domenick1991/thsrbook/config"
	"github.com/Domenick1991/thsrbook/pkg/logger"
	"golang.org/x/net/publicsuffix"
)

// Client is the single long-lived HTTP client of a booking run. It keeps
// the session cookies and sends the same browser-like headers on every
// request.
type Client struct {
	http    *http.Client
	headers http.Header
	logger  logger.Logger
}

func NewClient(cfg config.SiteConfig, logger logger.Logger) (*Client, error) {
	jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
	if err != nil {
		return nil, fmt.Errorf("create cookie jar: %w", err)
	}

	headers := http.Header{}
	headers.Set("User-Agent", cfg.UserAgent)
	headers.Set("Accept", cfg.Accept)
	headers.Set("Accept-Language", cfg.AcceptLanguage)

	return &Client{
		http: &http.Client{
			Jar:     jar,
			Timeout: time.Duration(cfg.TimeoutSeconds) * time.Second,
		},
		headers: headers,
		logger:  logger,
	}, nil
}

// Get fetches rawURL and returns the response body.
func (c *Client) Get(ctx context.Context, rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	return c.do(req)
}

// PostForm submits form URL-encoded to rawURL and returns the response body.
func (c *Client) PostForm(ctx context.Context, rawURL string, form url.Values) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, rawURL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return c.do(req)
}

// Cookie looks up a cookie the jar would send to rawURL.
func (c *Client) Cookie(rawURL, name string) (string, bool) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", false
	}
	for _, cookie := range c.http.Jar.Cookies(u) {
		if cookie.Name == name {
			return cookie.Value, true
		}
	}
	return "", false
}

func (c *Client) do(req *http.Request) ([]byte, error) {
	for key, values := range c.headers {
		for _, v := range values {
			req.Header.Add(key, v)
		}
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", req.Method, req.URL.Redacted(), err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read %s response: %w", req.URL.Redacted(), err)
	}
	c.logger.Debug("HTTP exchange",
		"method", req.Method,
		"url", req.URL.Redacted(),
		"status", resp.StatusCode,
		"bytes", len(body),
		"elapsed", time.Since(start))

	if resp.StatusCode >= http.StatusBadRequest {
		return nil, fmt.Errorf("%s %s: unexpected status %d", req.Method, req.URL.Redacted(), resp.StatusCode)
	}
	return body, nil
}
