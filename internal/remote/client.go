// Package remote is the client for the trip save service: save, list,
// fetch and delete of server-side trip records.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"github.com/theirongolddev/tripvault/internal/model"
)

const (
	requestTimeout = 10 * time.Second
	maxBodySize    = 1 << 20 // 1 MB

	savePath      = "/home/api/save/"
	listPath      = "/home/api/list/"
	tripPath      = "/home/api/trip/%d/"
	deletePath    = "/home/api/trip/%d/delete/"
	loginPath     = "/user/login/"
	savedPagePath = "/home/saved/"

	csrfCookie    = "csrftoken"
	csrfHeader    = "X-CSRFToken"
	sessionCookie = "sessionid"

	// CopySuffix is appended to a trip name when saving it as a new trip.
	CopySuffix = " (copy)"
	untitled   = "Untitled Trip"
)

var (
	// ErrUnauthorized indicates the session is not logged in.
	ErrUnauthorized = errors.New("remote: unauthorized (log in to save trips)")
	// ErrNotFound indicates the trip does not exist or belongs to someone else.
	ErrNotFound = errors.New("remote: trip not found")
)

// AuthError is returned for a 401. It matches ErrUnauthorized and carries
// the page the user should be sent to.
type AuthError struct {
	LoginURL string
}

func (e *AuthError) Error() string { return ErrUnauthorized.Error() }

// Unwrap lets errors.Is match ErrUnauthorized.
func (e *AuthError) Unwrap() error { return ErrUnauthorized }

// SaveError is any other failed request: transport failure, non-2xx
// status, malformed body, or an explicit success=false reply.
type SaveError struct {
	Status  int
	Message string
	Err     error
}

func (e *SaveError) Error() string {
	switch {
	case e.Message != "" && e.Status != 0:
		return fmt.Sprintf("remote: %s (HTTP %d)", e.Message, e.Status)
	case e.Message != "":
		return "remote: " + e.Message
	case e.Err != nil:
		return "remote: " + e.Err.Error()
	default:
		return fmt.Sprintf("remote: unexpected status %d", e.Status)
	}
}

func (e *SaveError) Unwrap() error { return e.Err }

// Client talks to the trip save service.
type Client struct {
	base *url.URL
	http *http.Client
	jar  http.CookieJar
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client. Its cookie jar is
// replaced by the Client's own.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		cp := *hc
		c.http = &cp
	}
}

// WithCookie seeds the cookie jar, e.g. with a csrftoken or sessionid
// copied from a logged-in browser.
func WithCookie(name, value string) Option {
	return func(c *Client) {
		if value == "" {
			return
		}
		c.jar.SetCookies(c.base, []*http.Cookie{{Name: name, Value: value, Path: "/"}})
	}
}

// WithCSRFToken seeds the csrftoken cookie.
func WithCSRFToken(token string) Option { return WithCookie(csrfCookie, token) }

// WithSessionID seeds the sessionid cookie.
func WithSessionID(id string) Option { return WithCookie(sessionCookie, id) }

// NewClient creates a client for the service at baseURL.
func NewClient(baseURL string, opts ...Option) (*Client, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil, errors.New("remote: base url is required")
	}
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("remote: parsing base url: %w", err)
	}
	if base.Scheme != "http" && base.Scheme != "https" {
		return nil, fmt.Errorf("remote: unsupported scheme %q", base.Scheme)
	}

	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("remote: cookie jar: %w", err)
	}

	c := &Client{
		base: base,
		http: &http.Client{Timeout: requestTimeout},
		jar:  jar,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.http.Jar = jar
	return c, nil
}

// LoginURL is where an unauthenticated user is sent.
func (c *Client) LoginURL() string { return c.endpoint(loginPath) }

// SavedTripsURL is the page listing the user's saved trips.
func (c *Client) SavedTripsURL() string { return c.endpoint(savedPagePath) }

func (c *Client) endpoint(path string) string {
	return c.base.String() + path
}

// CopyName returns name with the copy suffix, unless it is already marked.
func CopyName(name string) string {
	if strings.Contains(name, "(copy)") {
		return name
	}
	if strings.TrimSpace(name) == "" {
		name = untitled
	}
	return name + CopySuffix
}

// Save creates (id == nil) or updates a trip record.
func (c *Client) Save(ctx context.Context, id *int64, it model.Itinerary) (SaveResult, error) {
	var res SaveResult
	body, err := json.Marshal(NewSavePayload(id, it))
	if err != nil {
		return res, &SaveError{Err: fmt.Errorf("encoding trip: %w", err)}
	}

	c.ensureCSRF(ctx)

	status, data, err := c.do(ctx, http.MethodPost, savePath, body)
	if err != nil {
		return res, err
	}
	if err := json.Unmarshal(data, &res); err != nil {
		return SaveResult{}, &SaveError{Status: status, Err: fmt.Errorf("parsing save response: %w", err)}
	}
	if !res.Success {
		msg := res.Message
		if msg == "" {
			msg = "Failed to save trip"
		}
		return res, &SaveError{Status: status, Message: msg}
	}
	return res, nil
}

// List returns the user's saved trips.
func (c *Client) List(ctx context.Context) ([]TripSummary, error) {
	status, data, err := c.do(ctx, http.MethodGet, listPath, nil)
	if err != nil {
		return nil, err
	}
	var res listResponse
	if err := json.Unmarshal(data, &res); err != nil {
		return nil, &SaveError{Status: status, Err: fmt.Errorf("parsing trip list: %w", err)}
	}
	if !res.Success {
		return nil, &SaveError{Status: status, Message: res.Message}
	}
	return res.Trips, nil
}

// Get fetches a saved trip's plan and name.
func (c *Client) Get(ctx context.Context, id int64) (model.Itinerary, string, error) {
	status, data, err := c.do(ctx, http.MethodGet, fmt.Sprintf(tripPath, id), nil)
	if err != nil {
		return model.Itinerary{}, "", err
	}
	var res getResponse
	if err := json.Unmarshal(data, &res); err != nil {
		return model.Itinerary{}, "", &SaveError{Status: status, Err: fmt.Errorf("parsing trip: %w", err)}
	}
	if !res.Success {
		return model.Itinerary{}, "", &SaveError{Status: status, Message: res.Message}
	}
	return res.Trip, res.TripName, nil
}

// Delete removes a saved trip and returns the server's message.
func (c *Client) Delete(ctx context.Context, id int64) (string, error) {
	c.ensureCSRF(ctx)

	status, data, err := c.do(ctx, http.MethodDelete, fmt.Sprintf(deletePath, id), nil)
	if err != nil {
		return "", err
	}
	var res messageResponse
	if err := json.Unmarshal(data, &res); err != nil {
		return "", &SaveError{Status: status, Err: fmt.Errorf("parsing delete response: %w", err)}
	}
	if !res.Success {
		return "", &SaveError{Status: status, Message: res.Message}
	}
	return res.Message, nil
}

// csrfToken returns the csrftoken cookie for the service, if any.
func (c *Client) csrfToken() string {
	for _, ck := range c.jar.Cookies(c.base) {
		if ck.Name == csrfCookie {
			return ck.Value
		}
	}
	return ""
}

// ensureCSRF fetches the login page once so the service can set its
// csrftoken cookie. Failures are ignored; the write then fails on its own.
func (c *Client) ensureCSRF(ctx context.Context) {
	if c.csrfToken() != "" {
		return
	}
	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.LoginURL(), nil)
	if err != nil {
		return
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return
	}
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodySize))
	_ = resp.Body.Close()
}

func (c *Client) do(ctx context.Context, method, path string, body []byte) (int, []byte, error) {
	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	var rd io.Reader
	if body != nil {
		rd = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.endpoint(path), rd)
	if err != nil {
		return 0, nil, &SaveError{Err: fmt.Errorf("creating request: %w", err)}
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "tripvault/1.0")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if method != http.MethodGet {
		req.Header.Set(csrfHeader, c.csrfToken())
		req.Header.Set("Referer", c.base.String()+"/")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, nil, &SaveError{Err: fmt.Errorf("request failed: %w", err)}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusUnauthorized || redirectedToLogin(resp) {
		return resp.StatusCode, nil, &AuthError{LoginURL: c.LoginURL()}
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return resp.StatusCode, nil, &SaveError{Status: resp.StatusCode, Err: fmt.Errorf("reading response: %w", err)}
	}

	if resp.StatusCode == http.StatusNotFound {
		return resp.StatusCode, nil, &SaveError{Status: resp.StatusCode, Message: messageOf(data, "Trip not found"), Err: ErrNotFound}
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return resp.StatusCode, nil, &SaveError{Status: resp.StatusCode, Message: messageOf(data, "")}
	}
	return resp.StatusCode, data, nil
}

// redirectedToLogin reports whether a login-required view bounced the
// request to the login page instead of answering 401.
func redirectedToLogin(resp *http.Response) bool {
	return resp.Request != nil && resp.Request.URL != nil &&
		strings.HasPrefix(resp.Request.URL.Path, loginPath) &&
		resp.Request.Method == http.MethodGet && resp.Request.Response != nil
}

// messageOf pulls the "message" field out of an error body.
func messageOf(data []byte, fallback string) string {
	var m messageResponse
	if err := json.Unmarshal(data, &m); err == nil && m.Message != "" {
		return m.Message
	}
	return fallback
}
