package petstore

import (
	"net/http"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCallRender(t *testing.T) {
	base, err := url.Parse("https://petstore.example/v2/")
	require.NoError(t, err)
	defaults := http.Header{"Content-Type": {ContentTypeJSON}, "Accept": {ContentTypeJSON}}

	t.Run("path parameters are escaped", func(t *testing.T) {
		req, err := Call{Method: "delete", Path: "/user/{username}", PathParams: map[string]any{"username": "john doe/1"}}.render(base, defaults)
		require.NoError(t, err)
		assert.Equal(t, http.MethodDelete, req.Method)
		assert.Equal(t, "https://petstore.example/v2/user/john%20doe%2F1", req.URL.String())
	})

	t.Run("negative ids are rendered verbatim", func(t *testing.T) {
		req, err := Call{Path: "/pet/{petId}", PathParams: map[string]any{"petId": int64(-1)}}.render(base, defaults)
		require.NoError(t, err)
		assert.Equal(t, "/v2/pet/-1", req.URL.Path)
		assert.Equal(t, http.MethodGet, req.Method)
	})

	t.Run("missing path parameter", func(t *testing.T) {
		_, err := Call{Path: "/store/order/{orderId}"}.render(base, defaults)
		require.ErrorIs(t, err, ErrMissingPathParam)
	})

	t.Run("query uses exploded form style", func(t *testing.T) {
		req, err := Call{
			Path:  "/pet/findByStatus",
			Query: map[string]any{"status": []string{"available", "sold"}, "skip": nil},
		}.render(base, defaults)
		require.NoError(t, err)
		assert.Equal(t, []string{"available", "sold"}, req.URL.Query()["status"])
		assert.NotContains(t, req.URL.RawQuery, "skip")
	})

	t.Run("query values are escaped", func(t *testing.T) {
		req, err := Call{Path: "/user/login", Query: map[string]any{"username": "a&b", "password": "p w"}}.render(base, defaults)
		require.NoError(t, err)
		assert.Equal(t, "a&b", req.URL.Query().Get("username"))
		assert.Equal(t, "p w", req.URL.Query().Get("password"))
	})

	t.Run("json body and header overrides", func(t *testing.T) {
		req, err := Call{
			Method: http.MethodPost,
			Path:   "/pet",
			Header: http.Header{"Accept": {"text/plain"}},
			Body:   map[string]any{"name": "Max"},
		}.render(base, defaults)
		require.NoError(t, err)
		assert.JSONEq(t, `{"name":"Max"}`, string(req.Body))
		assert.Equal(t, "text/plain", req.Header.Get("Accept"))
		assert.Equal(t, ContentTypeJSON, req.Header.Get("Content-Type"))
		assert.Equal(t, ContentTypeJSON, defaults.Get("Accept"), "defaults must not be mutated")
	})

	t.Run("form body", func(t *testing.T) {
		req, err := Call{Method: http.MethodPost, Path: "/pet/{petId}", PathParams: map[string]any{"petId": 7}, Form: url.Values{"name": {"Luna"}}}.render(base, defaults)
		require.NoError(t, err)
		assert.Equal(t, ContentTypeForm, req.Header.Get("Content-Type"))
		assert.Equal(t, "name=Luna", string(req.Body))
	})

	t.Run("no body", func(t *testing.T) {
		req, err := Call{Path: "/store/inventory"}.render(base, defaults)
		require.NoError(t, err)
		assert.Empty(t, req.Body)
	})
}
