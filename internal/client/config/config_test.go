package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	var c Config
	c.LoadDefaults()

	assert.Equal(t, "http://127.0.0.1:8080", c.ServerURL)
	assert.Equal(t, 3*time.Second, c.OnlineCheckInterval)
	assert.Equal(t, 10*time.Second, c.RequestTimeout)
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cli.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"server_url":"http://books:8080","online_check_interval":"5s","request_timeout":2000000000}`), 0o600))

	tests := []struct {
		name    string
		args    []string
		want    *Config
		wantErr bool
	}{
		{
			name: "defaults",
			args: nil,
			want: &Config{ServerURL: "http://127.0.0.1:8080", OnlineCheckInterval: 3 * time.Second, RequestTimeout: 10 * time.Second},
		},
		{
			name: "json file",
			args: []string{"-c", path},
			want: &Config{ServerURL: "http://books:8080", OnlineCheckInterval: 5 * time.Second, RequestTimeout: 2 * time.Second},
		},
		{
			name: "flags override json",
			args: []string{"-config", path, "-a", "http://other:9090", "-i", "10"},
			want: &Config{ServerURL: "http://other:9090", OnlineCheckInterval: 10 * time.Second, RequestTimeout: 2 * time.Second},
		},
		{
			name:    "bad interval",
			args:    []string{"-i", "abc"},
			wantErr: true,
		},
		{
			name:    "missing file",
			args:    []string{"-c", filepath.Join(t.TempDir(), "none.json")},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Load(tt.args)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Empty(t, cmp.Diff(tt.want, got))
		})
	}
}

func TestParseJSON_Malformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cli.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"server_url":`), 0o600))

	var c Config
	c.LoadDefaults()
	require.ErrorContains(t, parseJSON(&c, []string{"-c", path}), "parse config file")
}
