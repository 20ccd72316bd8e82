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

package httpcvcs

import "time"

// Config configures one upstream CVCS connection.
type Config struct {
	// BaseURL is the upstream CVCS server's RPC root, e.g.
	// "https://cvcs.example.com/rpc". No trailing slash.
	BaseURL string

	Username string
	Secret   string

	// RequestTimeout bounds each HTTP attempt of an RPC; retries each get
	// their own RequestTimeout.
	// Zero means DefaultConfig's value.
	RequestTimeout time.Duration

	// MaxRetries is the number of retryablehttp retry attempts for
	// requests that fail with a retryable status or transport error.
	// Zero means DefaultConfig's value.
	MaxRetries int
}

// DefaultConfig returns conservative defaults: a 60s per-call timeout and
// up to 4 retries, matching the bridge's general stance of giving the
// upstream CVCS generous room before surfacing a failure to the DAV-VCS
// client (spec.md §4.2's multi-hour loader deadlines set the ambient
// tone; individual RPCs stay comparatively short).
func DefaultConfig() Config {
	return Config{
		RequestTimeout: 60 * time.Second,
		MaxRetries:     4,
	}
}
