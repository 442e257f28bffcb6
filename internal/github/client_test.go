package github

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/relctl/relctl/internal/release"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	c := NewClient("ghp_testtoken")
	c.BaseURL = srv.URL
	t.Cleanup(c.HTTPClient.CloseIdleConnections)
	return c
}

func TestGetReleaseByTag(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/repos/go-lynx/lynx/releases/tags/v1.5.1", r.URL.Path)
			assert.Equal(t, "token ghp_testtoken", r.Header.Get("Authorization"))
			assert.Equal(t, "application/vnd.github.v3+json", r.Header.Get("Accept"))
			_ = json.NewEncoder(w).Encode(map[string]any{
				"id": 123, "tag_name": "v1.5.1", "name": "v1.5.1",
			})
		})

		handle, err := c.GetReleaseByTag(context.Background(), "go-lynx", "lynx", "v1.5.1")
		require.NoError(t, err)
		require.NotNil(t, handle)
		assert.Equal(t, int64(123), handle.ID)
		assert.Equal(t, "v1.5.1", handle.Tag)
	})

	t.Run("404 means no release, not an error", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, `{"message":"Not Found"}`, http.StatusNotFound)
		})

		handle, err := c.GetReleaseByTag(context.Background(), "go-lynx", "lynx", "v1.5.1")
		require.NoError(t, err)
		assert.Nil(t, handle)
	})

	t.Run("401 is an auth error", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, `{"message":"Bad credentials"}`, http.StatusUnauthorized)
		})

		_, err := c.GetReleaseByTag(context.Background(), "go-lynx", "lynx", "v1.5.1")
		require.Error(t, err)
		var apiErr *APIError
		require.True(t, errors.As(err, &apiErr))
		assert.True(t, apiErr.AuthError())
	})

	t.Run("500 is a plain API error", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "boom", http.StatusInternalServerError)
		})

		_, err := c.GetReleaseByTag(context.Background(), "go-lynx", "lynx", "v1.5.1")
		var apiErr *APIError
		require.True(t, errors.As(err, &apiErr))
		assert.False(t, apiErr.AuthError())
		assert.False(t, apiErr.NotFound())
	})
}

func TestDeleteRelease(t *testing.T) {
	t.Run("204 succeeds", func(t *testing.T) {
		var method, path string
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			method, path = r.Method, r.URL.Path
			w.WriteHeader(http.StatusNoContent)
		})

		err := c.DeleteRelease(context.Background(), "go-lynx", "lynx", 123)
		require.NoError(t, err)
		assert.Equal(t, http.MethodDelete, method)
		assert.Equal(t, "/repos/go-lynx/lynx/releases/123", path)
	})

	t.Run("404 reports NotFound", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, `{"message":"Not Found"}`, http.StatusNotFound)
		})

		err := c.DeleteRelease(context.Background(), "go-lynx", "lynx", 123)
		var apiErr *APIError
		require.True(t, errors.As(err, &apiErr))
		assert.True(t, apiErr.NotFound())
	})
}

func TestCreateRelease(t *testing.T) {
	t.Run("201 with expected payload", func(t *testing.T) {
		var got map[string]any
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
			w.WriteHeader(http.StatusCreated)
		})

		err := c.CreateRelease(context.Background(), "go-lynx", "lynx", release.NewRelease{
			Tag:  "v1.5.1",
			Name: "v1.5.1",
			Body: "Release v1.5.1 for lynx",
		})
		require.NoError(t, err)
		assert.Equal(t, "v1.5.1", got["tag_name"])
		assert.Equal(t, "Release v1.5.1 for lynx", got["body"])
		assert.Equal(t, false, got["draft"])
		assert.Equal(t, false, got["prerelease"])
	})

	t.Run("empty body gets a default", func(t *testing.T) {
		var got map[string]any
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
			w.WriteHeader(http.StatusCreated)
		})

		err := c.CreateRelease(context.Background(), "go-lynx", "lynx", release.NewRelease{Tag: "v1.5.1", Name: "v1.5.1"})
		require.NoError(t, err)
		assert.Equal(t, "Release v1.5.1", got["body"])
	})

	t.Run("403 is an auth error", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, `{"message":"Resource not accessible by integration"}`, http.StatusForbidden)
		})

		err := c.CreateRelease(context.Background(), "go-lynx", "lynx", release.NewRelease{Tag: "v1.5.1", Name: "v1.5.1"})
		var apiErr *APIError
		require.True(t, errors.As(err, &apiErr))
		assert.True(t, apiErr.AuthError())
	})
}

func TestAuthScheme(t *testing.T) {
	assert.Equal(t, "Bearer", authScheme("github_pat_abc123"))
	assert.Equal(t, "token", authScheme("ghp_abc123"))
	assert.Equal(t, "token", authScheme("legacy-token"))
}
