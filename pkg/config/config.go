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

// Package config loads the bridge server's configuration: a YAML file plus
// SVNBRIDGE_-prefixed environment overrides, read through
// github.com/spf13/viper. Precedence is flags (applied by the caller after
// Load returns) over environment over file over defaults, the same order
// marmos91-dittofs's pkg/config documents for its own viper setup.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"svnbridge.example.com/svnbridge/pkg/cvcs"
	"svnbridge.example.com/svnbridge/pkg/cvcs/httpcvcs"
	"svnbridge.example.com/svnbridge/pkg/diffengine"
	"svnbridge.example.com/svnbridge/pkg/loader"
	"svnbridge.example.com/svnbridge/pkg/pathutil"
)

// Config is the bridge server's full static configuration.
type Config struct {
	Upstream UpstreamConfig `mapstructure:"upstream" yaml:"upstream"`
	Server   ServerConfig   `mapstructure:"server" yaml:"server"`
	Loader   LoaderConfig   `mapstructure:"loader" yaml:"loader"`
	Logging  LoggingConfig  `mapstructure:"logging" yaml:"logging"`
	Metrics  MetricsConfig  `mapstructure:"metrics" yaml:"metrics"`
}

// UpstreamConfig addresses and authenticates against the upstream CVCS
// server (spec.md §6's CVCS collaborator, concretely pkg/cvcs/httpcvcs).
type UpstreamConfig struct {
	// BaseURL is the CVCS RPC root, e.g. "https://cvcs.example.com/rpc".
	BaseURL string `mapstructure:"base_url" yaml:"base_url"`

	Username string `mapstructure:"username" yaml:"username"`
	Secret   string `mapstructure:"secret" yaml:"secret"`

	RequestTimeout time.Duration `mapstructure:"request_timeout" yaml:"request_timeout"`
	MaxRetries     int           `mapstructure:"max_retries" yaml:"max_retries"`
}

// ServerConfig controls how the bridge presents itself to DAV-VCS clients.
type ServerConfig struct {
	// ListenAddr is the address internal/httphandlers binds to, e.g. ":8080".
	ListenAddr string `mapstructure:"listen_addr" yaml:"listen_addr"`

	// CaseSensitivePaths selects pathutil's CasePolicy (spec.md §4.3).
	// Most CVCS backends and DAV-VCS clients agree on case-sensitive
	// comparison; set false only for checkouts against a case-folding
	// filesystem.
	CaseSensitivePaths bool `mapstructure:"case_sensitive_paths" yaml:"case_sensitive_paths"`

	// PropertySigil overrides the reserved property-folder segment name
	// (empty uses propstore.DefaultSigil).
	PropertySigil string `mapstructure:"property_sigil" yaml:"property_sigil"`

	// RequireWriteHash, forwarded to cvcs.Options, rejects WriteFile calls
	// missing a checksum instead of silently skipping the guard (DESIGN.md
	// Open Question 3).
	RequireWriteHash bool `mapstructure:"require_write_hash" yaml:"require_write_hash"`

	// SuppressForeignRenameSideAlways, forwarded to diffengine.Options,
	// resolves DESIGN.md Open Question 1 (see diffengine.Options doc).
	SuppressForeignRenameSideAlways bool `mapstructure:"suppress_foreign_rename_side_always" yaml:"suppress_foreign_rename_side_always"`
}

// LoaderConfig maps directly onto loader.Config (spec.md §4.2).
type LoaderConfig struct {
	MaxInFlightRequests    int           `mapstructure:"max_in_flight_requests" yaml:"max_in_flight_requests"`
	MaxBufferedBytes       int64         `mapstructure:"max_buffered_bytes" yaml:"max_buffered_bytes"`
	ProductionDeadline     time.Duration `mapstructure:"production_deadline" yaml:"production_deadline"`
	ConsumptionDeadline    time.Duration `mapstructure:"consumption_deadline" yaml:"consumption_deadline"`
	ConsumptionStepTimeout time.Duration `mapstructure:"consumption_step_timeout" yaml:"consumption_step_timeout"`
}

// LoggingConfig controls logrus's global level and formatter.
type LoggingConfig struct {
	// Level is one of logrus's level names (case-insensitive): panic,
	// fatal, error, warn, info, debug, trace.
	Level string `mapstructure:"level" yaml:"level"`

	// JSON selects logrus.JSONFormatter over the default TextFormatter.
	JSON bool `mapstructure:"json" yaml:"json"`
}

// MetricsConfig controls the Prometheus metrics HTTP endpoint.
type MetricsConfig struct {
	Enabled    bool   `mapstructure:"enabled" yaml:"enabled"`
	ListenAddr string `mapstructure:"listen_addr" yaml:"listen_addr"`
}

// Load reads configPath (or, if empty, the default search path) through
// viper, falling back to DefaultConfig when no file is found — a missing
// config file is not an error, per marmos91-dittofs's readConfigFile.
// Environment overrides apply with or without a file; Validate runs only
// when a file was found.
func Load(configPath string) (*Config, error) {
	v := viper.New()
	setupViper(v, configPath)

	found, err := readConfigFile(v)
	if err != nil {
		return nil, err
	}

	cfg := DefaultConfig()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("config: decoding %s: %w", configPath, err)
	}
	if !found {
		return cfg, nil
	}
	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}

// boundKeys lists every mapstructure dot-path Config exposes. viper's
// AutomaticEnv only resolves a key through Unmarshal if the key is
// already known to viper (from a default, an explicit bind, or the
// config file) — an env-only override of a key absent from the config
// file would otherwise be silently dropped, per viper's documented
// AutomaticEnv-plus-Unmarshal caveat.
var boundKeys = []string{
	"upstream.base_url", "upstream.username", "upstream.secret",
	"upstream.request_timeout", "upstream.max_retries",
	"server.listen_addr", "server.case_sensitive_paths", "server.property_sigil",
	"server.require_write_hash", "server.suppress_foreign_rename_side_always",
	"loader.max_in_flight_requests", "loader.max_buffered_bytes",
	"loader.production_deadline", "loader.consumption_deadline",
	"loader.consumption_step_timeout",
	"logging.level", "logging.json",
	"metrics.enabled", "metrics.listen_addr",
}

func setupViper(v *viper.Viper, configPath string) {
	v.SetEnvPrefix("SVNBRIDGE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for _, key := range boundKeys {
		_ = v.BindEnv(key)
	}

	if configPath != "" {
		v.SetConfigFile(configPath)
		return
	}
	v.AddConfigPath(defaultConfigDir())
	v.AddConfigPath(".")
	v.SetConfigName("svnbridge")
	v.SetConfigType("yaml")
}

func readConfigFile(v *viper.Viper) (bool, error) {
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return false, nil
		}
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("reading config file: %w", err)
	}
	return true, nil
}

func defaultConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "svnbridge")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(home, ".config", "svnbridge")
}

// HTTPCVCSConfig projects Upstream onto httpcvcs.Config.
func (c *Config) HTTPCVCSConfig() httpcvcs.Config {
	return httpcvcs.Config{
		BaseURL:        c.Upstream.BaseURL,
		Username:       c.Upstream.Username,
		Secret:         c.Upstream.Secret,
		RequestTimeout: c.Upstream.RequestTimeout,
		MaxRetries:     c.Upstream.MaxRetries,
	}
}

// Credentials projects Upstream onto cvcs.Credentials.
func (c *Config) Credentials() cvcs.Credentials {
	return cvcs.Credentials{
		ServerURL: c.Upstream.BaseURL,
		Username:  c.Upstream.Username,
		Secret:    c.Upstream.Secret,
	}
}

// CVCSOptions projects Server onto cvcs.Options.
func (c *Config) CVCSOptions() cvcs.Options {
	return cvcs.Options{RequireWriteHash: c.Server.RequireWriteHash}
}

// DiffEngineOptions projects Server onto diffengine.Options.
func (c *Config) DiffEngineOptions() diffengine.Options {
	return diffengine.Options{
		SuppressForeignRenameSideAlways: c.Server.SuppressForeignRenameSideAlways,
		PropertySigil:                   c.Server.PropertySigil,
	}
}

// CasePolicy projects ServerConfig.CaseSensitivePaths onto pathutil.CasePolicy.
func (c *Config) CasePolicy() pathutil.CasePolicy {
	if c.Server.CaseSensitivePaths {
		return pathutil.CaseSensitive
	}
	return pathutil.CaseInsensitive
}

// LoaderConfig projects Loader onto loader.Config, filling any zero fields
// from loader.DefaultConfig.
func (c *Config) LoaderConfig() loader.Config {
	def := loader.DefaultConfig()
	lc := loader.Config{
		MaxInFlightRequests:    c.Loader.MaxInFlightRequests,
		MaxBufferedBytes:       c.Loader.MaxBufferedBytes,
		ProductionDeadline:     c.Loader.ProductionDeadline,
		ConsumptionDeadline:    c.Loader.ConsumptionDeadline,
		ConsumptionStepTimeout: c.Loader.ConsumptionStepTimeout,
	}
	if lc.MaxInFlightRequests == 0 {
		lc.MaxInFlightRequests = def.MaxInFlightRequests
	}
	if lc.MaxBufferedBytes == 0 {
		lc.MaxBufferedBytes = def.MaxBufferedBytes
	}
	if lc.ProductionDeadline == 0 {
		lc.ProductionDeadline = def.ProductionDeadline
	}
	if lc.ConsumptionDeadline == 0 {
		lc.ConsumptionDeadline = def.ConsumptionDeadline
	}
	if lc.ConsumptionStepTimeout == 0 {
		lc.ConsumptionStepTimeout = def.ConsumptionStepTimeout
	}
	return lc
}
