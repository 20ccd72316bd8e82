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
	"time"

	"svnbridge.example.com/svnbridge/pkg/loader"
)

// DefaultConfig returns the configuration used when no file is found and
// no environment override is set. Loader fields mirror
// loader.DefaultConfig rather than duplicating its numbers by hand.
func DefaultConfig() *Config {
	ld := loader.DefaultConfig()
	return &Config{
		Upstream: UpstreamConfig{
			RequestTimeout: 60 * time.Second,
			MaxRetries:     4,
		},
		Server: ServerConfig{
			ListenAddr:         ":8080",
			CaseSensitivePaths: true,
		},
		Loader: LoaderConfig{
			MaxInFlightRequests:    ld.MaxInFlightRequests,
			MaxBufferedBytes:       ld.MaxBufferedBytes,
			ProductionDeadline:     ld.ProductionDeadline,
			ConsumptionDeadline:    ld.ConsumptionDeadline,
			ConsumptionStepTimeout: ld.ConsumptionStepTimeout,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
		Metrics: MetricsConfig{
			Enabled:    true,
			ListenAddr: ":9090",
		},
	}
}
