package main

import (
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dreamcatcher45/jserve/pkg/server"
)

func TestRunLoad(t *testing.T) {
	srv := server.NewServer()
	require.NoError(t, srv.InitDB(filepath.Join(t.TempDir(), "db.json")))
	ts := httptest.NewServer(srv.Router())
	defer ts.Close()

	stats, err := runLoad(loadConfig{
		ServerURL: ts.URL,
		Resource:  "users",
		Records:   40,
		Workers:   4,
	})
	require.NoError(t, err)

	assert.Equal(t, 40, stats.Succeeded)
	assert.Zero(t, stats.Failed)
	assert.Zero(t, stats.Duplicate)
	assert.Equal(t, 40, stats.Listed)
}
