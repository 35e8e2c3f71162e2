// Package client is an HTTP client for the site's JSON API. It keeps the
// session cookie in a cookie jar, the way a browser would.
package client

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

	"github.com/alternativa-centar/site/types"
)

const authCookieName = "auth-token"

// ErrUnauthenticated is returned when the route guard redirects a request
// away from the admin API.
var ErrUnauthenticated = errors.New("not signed in or session expired")

// APIError is a non-2xx response.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%d %s: %s", e.Status, http.StatusText(e.Status), e.Message)
}

// IsStatus reports whether err is an APIError with the given status.
func IsStatus(err error, status int) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == status
}

type Client struct {
	baseURL *url.URL
	http    *http.Client
	jar     http.CookieJar
}

func New(baseURL string) (*Client, error) {
	parsed, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if parsed.Scheme == "" || parsed.Host == "" {
		return nil, fmt.Errorf("base url %q must be absolute", baseURL)
	}

	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}

	return &Client{
		baseURL: parsed,
		jar:     jar,
		http: &http.Client{
			Jar:     jar,
			Timeout: 30 * time.Second,
			CheckRedirect: func(*http.Request, []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
	}, nil
}

// SessionToken returns the current session token, if any.
func (c *Client) SessionToken() string {
	for _, cookie := range c.jar.Cookies(c.baseURL) {
		if cookie.Name == authCookieName {
			return cookie.Value
		}
	}
	return ""
}

// SetSessionToken restores a token saved from an earlier Login.
func (c *Client) SetSessionToken(token string) {
	c.jar.SetCookies(c.baseURL, []*http.Cookie{{
		Name:  authCookieName,
		Value: token,
		Path:  "/",
	}})
}

type loginResponse struct {
	Success bool              `json:"success"`
	Message string            `json:"message"`
	User    types.SessionUser `json:"user"`
}

func (c *Client) Login(ctx context.Context, username, password string) (types.SessionUser, error) {
	var resp loginResponse
	err := c.do(ctx, http.MethodPost, "/api/login", map[string]string{
		"username": username,
		"password": password,
	}, &resp)
	if err != nil {
		return types.SessionUser{}, err
	}
	return resp.User, nil
}

func (c *Client) Logout(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, "/api/logout", nil, nil)
}

// Me returns the identity behind the current session.
func (c *Client) Me(ctx context.Context) (types.SessionUser, error) {
	var user types.SessionUser
	err := c.do(ctx, http.MethodGet, "/api/admin/me", nil, &user)
	return user, err
}

func (c *Client) SubmitContact(ctx context.Context, submission types.ContactSubmission) error {
	return c.do(ctx, http.MethodPost, "/api/contact", submission, nil)
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL.String()+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode >= 300 && resp.StatusCode < 400 {
		return ErrUnauthenticated
	}
	if resp.StatusCode >= 400 {
		return &APIError{Status: resp.StatusCode, Message: errorMessage(data)}
	}

	if out == nil || len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// errorMessage extracts the message from either error envelope the API
// uses.
func errorMessage(data []byte) string {
	var envelope struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(data, &envelope); err == nil {
		if envelope.Message != "" && envelope.Error != "" {
			return envelope.Message + ": " + envelope.Error
		}
		if envelope.Message != "" {
			return envelope.Message
		}
		if envelope.Error != "" {
			return envelope.Error
		}
	}
	return strings.TrimSpace(string(data))
}
