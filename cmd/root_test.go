package main

import (
	"bytes"
	"context"
	"net/http"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dreamcatcher45/jserve/pkg/storage"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd("1.2.3")
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestRootCmd_Version(t *testing.T) {
	for _, flag := range []string{"-v", "--version"} {
		t.Run(flag, func(t *testing.T) {
			out, err := execute(t, flag)
			require.NoError(t, err)
			assert.Equal(t, "jserve version 1.2.3\n", out)
		})
	}
}

func TestRootCmd_Help(t *testing.T) {
	out, err := execute(t, "-h")
	require.NoError(t, err)
	assert.Contains(t, out, "--file")
	assert.Contains(t, out, "--port")
}

func TestRootCmd_MissingFile(t *testing.T) {
	out, err := execute(t, "-p", "0")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing required -f argument")
	assert.Contains(t, out, "Error:")
}

func TestRootCmd_InvalidArguments(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"unknown flag", []string{"-f", "db.json", "--bogus"}},
		{"non numeric port", []string{"-f", "db.json", "-p", "abc"}},
		{"port out of range", []string{"-f", "db.json", "-p", "70000"}},
		{"positional argument", []string{"-f", "db.json", "extra"}},
		{"interval without snapshot", []string{"-f", "db.json", "--snapshot-interval", "1m"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			args := append([]string{}, tt.args...)
			args[1] = filepath.Join(dir, args[1])

			_, err := execute(t, args...)
			assert.Error(t, err)

			// validation fails before the database file is created
			_, statErr := os.Stat(args[1])
			assert.True(t, os.IsNotExist(statErr))
		})
	}
}

func TestLoadConfig_Sources(t *testing.T) {
	t.Run("environment", func(t *testing.T) {
		t.Setenv("JSERVE_FILE", "/tmp/env.json")
		t.Setenv("JSERVE_PORT", "4000")
		t.Setenv("JSERVE_SNAPSHOT_INTERVAL", "30s")
		t.Setenv("JSERVE_SNAPSHOT", "/tmp/env.jsnap")

		v := viper.New()
		require.NoError(t, initConfig(v, ""))
		cfg, err := loadConfig(v)
		require.NoError(t, err)
		assert.Equal(t, "/tmp/env.json", cfg.File)
		assert.Equal(t, 4000, cfg.Port)
		assert.Equal(t, 30*time.Second, cfg.SnapshotInterval)
		assert.Len(t, cfg.storageOptions(), 1)
	})

	t.Run("config file", func(t *testing.T) {
		cfgPath := filepath.Join(t.TempDir(), "jserve.yaml")
		require.NoError(t, os.WriteFile(cfgPath, []byte("file: /tmp/cfg.json\nport: 5000\n"), 0644))

		v := viper.New()
		require.NoError(t, initConfig(v, cfgPath))
		cfg, err := loadConfig(v)
		require.NoError(t, err)
		assert.Equal(t, "/tmp/cfg.json", cfg.File)
		assert.Equal(t, 5000, cfg.Port)
		assert.Empty(t, cfg.storageOptions())
	})

	t.Run("invalid environment values", func(t *testing.T) {
		tests := []struct {
			name  string
			key   string
			value string
			msg   string
		}{
			{"non numeric port", "JSERVE_PORT", "abc", `invalid port number "abc"`},
			{"negative port", "JSERVE_PORT", "-1", "invalid port number: -1"},
			{"bad interval", "JSERVE_SNAPSHOT_INTERVAL", "soon", `invalid snapshot interval "soon"`},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				t.Setenv("JSERVE_FILE", "/tmp/env.json")
				t.Setenv(tt.key, tt.value)

				v := viper.New()
				require.NoError(t, initConfig(v, ""))
				_, err := loadConfig(v)
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.msg)
			})
		}
	})

	t.Run("non numeric port in config file", func(t *testing.T) {
		cfgPath := filepath.Join(t.TempDir(), "jserve.yaml")
		require.NoError(t, os.WriteFile(cfgPath, []byte("file: /tmp/cfg.json\nport: http\n"), 0644))

		v := viper.New()
		require.NoError(t, initConfig(v, cfgPath))
		_, err := loadConfig(v)
		assert.Error(t, err)
	})

	t.Run("missing config file", func(t *testing.T) {
		v := viper.New()
		assert.Error(t, initConfig(v, filepath.Join(t.TempDir(), "nope.yaml")))
	})
}

func TestServe(t *testing.T) {
	dataFile := filepath.Join(t.TempDir(), "db.json")
	require.NoError(t, os.WriteFile(dataFile, []byte(`{"users":[{"id":"1","name":"Ana"}]}`), 0644))
	before, err := os.ReadFile(dataFile)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	out := &syncBuffer{}
	done := make(chan error, 1)
	go func() {
		done <- serve(ctx, config{File: dataFile, Host: "127.0.0.1", Port: 0}, out)
	}()

	var baseURL string
	require.Eventually(t, func() bool {
		baseURL = out.serverURL()
		return baseURL != ""
	}, 5*time.Second, 10*time.Millisecond)
	assert.Contains(t, out.String(), "Available endpoints:")
	assert.Contains(t, out.String(), baseURL+"/users")

	resp, err := http.Get(baseURL + "/users/1")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}

	// reads never rewrite the file and shutdown does not save
	after, err := os.ReadFile(dataFile)
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestServe_CorruptFile(t *testing.T) {
	dataFile := filepath.Join(t.TempDir(), "db.json")
	require.NoError(t, os.WriteFile(dataFile, []byte(`[1,2,3]`), 0644))

	err := serve(context.Background(), config{File: dataFile, Host: "127.0.0.1", Port: 0}, &bytes.Buffer{})
	assert.Error(t, err)
}

func TestRestoreCmd(t *testing.T) {
	dir := t.TempDir()
	snapPath := filepath.Join(dir, "db.jsnap")
	dataFile := filepath.Join(dir, "restored.json")

	engine := storage.NewStorageEngine(storage.WithSnapshotFile(snapPath))
	_, err := engine.Insert("users", map[string]interface{}{"id": "1", "name": "Ana"})
	require.NoError(t, err)
	require.NoError(t, engine.WriteSnapshot())

	out, err := execute(t, "restore", "--from", snapPath, "-f", dataFile)
	require.NoError(t, err)
	assert.Contains(t, out, "Restored 1 collections")

	db, err := storage.Load(dataFile, nil)
	require.NoError(t, err)
	rec, err := db.GetById("users", "1")
	require.NoError(t, err)
	assert.Equal(t, "Ana", rec["name"])

	t.Run("requires --from", func(t *testing.T) {
		_, err := execute(t, "restore", "-f", dataFile)
		assert.Error(t, err)
	})
}
