// Package github is a minimal GitHub Releases API client. It
// implements the release engine's ReleaseAPI capability.
package github

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/relctl/relctl/internal/release"
)

const (
	// DefaultBaseURL is the public GitHub API endpoint.
	DefaultBaseURL = "https://api.github.com"

	httpTimeout = 30 * time.Second
	acceptV3    = "application/vnd.github.v3+json"
)

// Client talks to the GitHub Releases API for any repository the token
// can reach. The zero value is not usable; construct with NewClient.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client

	token string
}

// NewClient returns a client authenticated with token.
func NewClient(token string) *Client {
	return &Client{
		BaseURL:    DefaultBaseURL,
		HTTPClient: &http.Client{Timeout: httpTimeout},
		token:      token,
	}
}

// APIError is a non-success GitHub response.
type APIError struct {
	Status int
	Method string
	Path   string
	Body   string
}

func (e *APIError) Error() string {
	msg := fmt.Sprintf("github: %s %s: %d", e.Method, e.Path, e.Status)
	if e.Body != "" {
		msg += " - " + e.Body
	}
	return msg
}

// AuthError reports whether the response indicates a credential
// problem rather than a transport or server one.
func (e *APIError) AuthError() bool {
	return e.Status == http.StatusUnauthorized || e.Status == http.StatusForbidden
}

// NotFound reports whether the addressed resource does not exist.
func (e *APIError) NotFound() bool { return e.Status == http.StatusNotFound }

// releaseBody matches the fields of the GitHub release response the
// engine needs.
type releaseBody struct {
	ID      int64  `json:"id"`
	TagName string `json:"tag_name"`
	Name    string `json:"name"`
}

// GetReleaseByTag returns the release published for tag, or nil when
// GitHub reports none. Every other non-success response is an APIError.
func (c *Client) GetReleaseByTag(ctx context.Context, owner, repo, tag string) (*release.ReleaseHandle, error) {
	path := fmt.Sprintf("/repos/%s/%s/releases/tags/%s", owner, repo, tag)
	resp, err := c.do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	switch resp.StatusCode {
	case http.StatusOK:
		var rel releaseBody
		if err := json.NewDecoder(resp.Body).Decode(&rel); err != nil {
			return nil, fmt.Errorf("github: decode release: %w", err)
		}
		return &release.ReleaseHandle{ID: rel.ID, Tag: rel.TagName, Name: rel.Name}, nil
	case http.StatusNotFound:
		return nil, nil
	default:
		return nil, c.apiError(resp, http.MethodGet, path)
	}
}

// DeleteRelease removes the release by id. A 404 is reported as a
// NotFound error so the engine can treat absence-on-delete as success.
func (c *Client) DeleteRelease(ctx context.Context, owner, repo string, id int64) error {
	path := fmt.Sprintf("/repos/%s/%s/releases/%d", owner, repo, id)
	resp, err := c.do(ctx, http.MethodDelete, path, nil)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusNoContent {
		return nil
	}
	return c.apiError(resp, http.MethodDelete, path)
}

// CreateRelease publishes a release for rel.Tag. The tag must already
// exist on the remote.
func (c *Client) CreateRelease(ctx context.Context, owner, repo string, rel release.NewRelease) error {
	body := rel.Body
	if body == "" {
		body = "Release " + rel.Tag
	}
	payload, err := json.Marshal(map[string]any{
		"tag_name":   rel.Tag,
		"name":       rel.Name,
		"body":       body,
		"draft":      false,
		"prerelease": false,
	})
	if err != nil {
		return fmt.Errorf("github: marshal release: %w", err)
	}

	path := fmt.Sprintf("/repos/%s/%s/releases", owner, repo)
	resp, err := c.do(ctx, http.MethodPost, path, payload)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusCreated {
		return nil
	}
	return c.apiError(resp, http.MethodPost, path)
}

func (c *Client) do(ctx context.Context, method, path string, payload []byte) (*http.Response, error) {
	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("github: build request: %w", err)
	}
	req.Header.Set("Accept", acceptV3)
	if c.token != "" {
		req.Header.Set("Authorization", authScheme(c.token)+" "+c.token)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("github: %s %s: %w", method, path, err)
	}
	return resp, nil
}

func (c *Client) apiError(resp *http.Response, method, path string) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	return &APIError{
		Status: resp.StatusCode,
		Method: method,
		Path:   path,
		Body:   strings.TrimSpace(string(raw)),
	}
}

// authScheme picks the header scheme by token flavor: fine-grained
// tokens (github_pat_...) use Bearer, classic tokens use token.
func authScheme(token string) string {
	if strings.HasPrefix(token, "github_pat_") {
		return "Bearer"
	}
	return "token"
}
