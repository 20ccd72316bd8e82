/*
Copyright 2024 The svnbridge Authors

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

     http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"svnbridge.example.com/svnbridge/pkg/pathutil"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "does-not-exist.yaml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "svnbridge.yaml")
	body := `
upstream:
  base_url: https://cvcs.example.com/rpc
  username: alice
  secret: s3cret
server:
  listen_addr: ":9999"
  case_sensitive_paths: false
loader:
  max_in_flight_requests: 7
logging:
  level: debug
`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "https://cvcs.example.com/rpc", cfg.Upstream.BaseURL)
	assert.Equal(t, "alice", cfg.Upstream.Username)
	assert.Equal(t, ":9999", cfg.Server.ListenAddr)
	assert.Equal(t, pathutil.CaseInsensitive, cfg.CasePolicy())
	assert.Equal(t, 7, cfg.Loader.MaxInFlightRequests)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("SVNBRIDGE_UPSTREAM_BASE_URL", "https://env.example.com/rpc")
	t.Setenv("SVNBRIDGE_UPSTREAM_USERNAME", "from-env")

	dir := t.TempDir()
	path := filepath.Join(dir, "svnbridge.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server:\n  listen_addr: \":1\"\n"), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "https://env.example.com/rpc", cfg.Upstream.BaseURL)
	assert.Equal(t, "from-env", cfg.Upstream.Username)
}

func TestValidateRejectsMissingBaseURL(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Upstream.Username = "alice"
	err := Validate(cfg)
	assert.ErrorContains(t, err, "base_url")
}

func TestValidateRejectsBadLogLevel(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Upstream.BaseURL = "https://cvcs.example.com/rpc"
	cfg.Upstream.Username = "alice"
	cfg.Logging.Level = "not-a-level"
	err := Validate(cfg)
	assert.ErrorContains(t, err, "logging.level")
}

func TestLoaderConfigFillsZerosFromDefault(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Loader.MaxInFlightRequests = 0
	lc := cfg.LoaderConfig()
	assert.NotZero(t, lc.MaxInFlightRequests)
}
