package api

import (
	"log/slog"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"
)

// DefaultCSRFCookieName is the cookie Django stores the CSRF token in.
const DefaultCSRFCookieName = "csrftoken"

// Client provides access to the bingo REST API.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger

	csrfCookie string

	maxRetries   int
	retryBackoff time.Duration
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// NewClient creates a new REST API client. The client keeps its own cookie
// jar so the CSRF cookie set by the server is replayed on later calls.
func NewClient(baseURL string, opts ...ClientOption) *Client {
	jar, _ := cookiejar.New(nil) // never fails with nil options

	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
			Jar:     jar,
		},
		logger:       slog.Default(),
		csrfCookie:   DefaultCSRFCookieName,
		maxRetries:   3,
		retryBackoff: time.Second,
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.httpClient.Jar == nil {
		c.httpClient.Jar = jar
	}

	return c
}

// WithTimeout sets the HTTP client timeout.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) {
		c.httpClient.Timeout = d
	}
}

// WithRetries sets the retry configuration for idempotent requests.
func WithRetries(max int, backoff time.Duration) ClientOption {
	return func(c *Client) {
		c.maxRetries = max
		c.retryBackoff = backoff
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithHTTPClient sets a custom HTTP client. A cookie jar is attached if the
// client has none.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithCSRFCookieName sets the name of the cookie holding the CSRF token.
func WithCSRFCookieName(name string) ClientOption {
	return func(c *Client) {
		c.csrfCookie = name
	}
}

// CSRFToken returns the CSRF token currently held in the cookie jar, or ""
// if the server has not set one.
func (c *Client) CSRFToken() string {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return ""
	}
	for _, cookie := range c.httpClient.Jar.Cookies(u) {
		if cookie.Name == c.csrfCookie {
			if v, err := url.QueryUnescape(cookie.Value); err == nil {
				return v
			}
			return cookie.Value
		}
	}
	return ""
}

// SetCSRFToken stores a token in the cookie jar, for callers that obtained
// it out of band.
func (c *Client) SetCSRFToken(token string) error {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return err
	}
	c.httpClient.Jar.SetCookies(u, []*http.Cookie{{
		Name:  c.csrfCookie,
		Value: token,
		Path:  "/",
	}})
	return nil
}
