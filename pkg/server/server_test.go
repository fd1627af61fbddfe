package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dreamcatcher45/jserve/pkg/api"
)

func newTestServer(t *testing.T, initial string) (*Server, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "db.json")
	if initial != "" {
		require.NoError(t, os.WriteFile(path, []byte(initial), 0644))
	}
	srv := NewServer()
	require.NoError(t, srv.InitDB(path))
	return srv, path
}

func TestServer_InitDB(t *testing.T) {
	t.Run("creates missing file", func(t *testing.T) {
		srv, path := newTestServer(t, "")
		content, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.JSONEq(t, `{}`, string(content))
		assert.Empty(t, srv.Endpoints("http://127.0.0.1:3000"))
	})

	t.Run("rejects corrupt file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "db.json")
		require.NoError(t, os.WriteFile(path, []byte(`{"users": 5}`), 0644))
		srv := NewServer()
		assert.Error(t, srv.InitDB(path))
	})
}

func TestServer_Endpoints(t *testing.T) {
	srv, _ := newTestServer(t, `{"users":[],"posts":[{"id":"1"}]}`)

	assert.Equal(t, []string{
		"http://127.0.0.1:3000/posts",
		"http://127.0.0.1:3000/users",
	}, srv.Endpoints("http://127.0.0.1:3000"))
}

func TestServer_Routes(t *testing.T) {
	srv, _ := newTestServer(t, `{"users":[{"id":"1","name":"Ana"}]}`)

	tests := []struct {
		method string
		path   string
		body   string
		status int
	}{
		{"GET", "/", "", http.StatusOK},
		{"GET", "/users", "", http.StatusOK},
		{"GET", "/users/1", "", http.StatusOK},
		{"POST", "/users", `{"name":"Bo"}`, http.StatusCreated},
		{"PUT", "/users/1", `{"name":"Cy"}`, http.StatusOK},
		{"DELETE", "/users/1", "", http.StatusOK},
		{"GET", "/users/1/extra", "", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, strings.NewReader(tt.body))
			w := httptest.NewRecorder()
			srv.Router().ServeHTTP(w, req)
			assert.Equal(t, tt.status, w.Code)
		})
	}
}

func TestServer_NotFoundHandler(t *testing.T) {
	srv, _ := newTestServer(t, "")

	req := httptest.NewRequest("GET", "/a/b/c", nil)
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
	var resp api.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "route not found", resp.Message)
}
