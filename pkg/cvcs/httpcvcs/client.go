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

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/hashicorp/go-retryablehttp"
	"github.com/sirupsen/logrus"

	"svnbridge.example.com/svnbridge/pkg/cvcs"
)

// Client is a persistent, retrying HTTP client for one upstream CVCS
// server, implementing cvcs.Client.
type Client struct {
	base  string
	creds cvcs.Credentials
	hc    *retryablehttp.Client
	log   *logrus.Entry
	opts  cvcs.Options
}

// New builds a Client against cfg. creds is forwarded on every request as
// HTTP basic auth, per spec.md §1's stance that this package never
// implements authentication itself.
func New(cfg Config, creds cvcs.Credentials, opts cvcs.Options) *Client {
	def := DefaultConfig()
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = def.RequestTimeout
	}
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = def.MaxRetries
	}

	hc := retryablehttp.NewClient()
	hc.RetryMax = cfg.MaxRetries
	hc.HTTPClient.Timeout = cfg.RequestTimeout
	hc.Logger = nil // silenced; request-level logging goes through c.log instead

	return &Client{
		base:  strings.TrimRight(cfg.BaseURL, "/"),
		creds: creds,
		hc:    hc,
		log:   logrus.WithField("component", "httpcvcs"),
		opts:  opts,
	}
}

// call issues one JSON RPC: reqBody (nil for none) is marshaled as the
// request body, and the response body is unmarshaled into respBody (nil
// to discard it). Every call carries a fresh X-Request-Id for upstream
// correlation, the way pkg/client threads a per-operation context through
// its retry machinery.
func (c *Client) call(ctx context.Context, method, rpcPath string, reqBody, respBody interface{}) error {
	var body io.Reader
	if reqBody != nil {
		b, err := json.Marshal(reqBody)
		if err != nil {
			return fmt.Errorf("httpcvcs: encoding request for %s: %w", rpcPath, err)
		}
		body = bytes.NewReader(b)
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, method, c.base+rpcPath, body)
	if err != nil {
		return fmt.Errorf("httpcvcs: building request for %s: %w", rpcPath, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-Id", uuid.New().String())
	req.SetBasicAuth(c.creds.Username, c.creds.Secret)

	resp, err := c.hc.Do(req)
	if err != nil {
		c.log.WithError(err).WithField("rpc", rpcPath).Warn("upstream CVCS request failed")
		return fmt.Errorf("httpcvcs: calling %s: %w", rpcPath, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("httpcvcs: %s returned status %d: %s", rpcPath, resp.StatusCode, msg)
	}
	if respBody == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(respBody); err != nil {
		return fmt.Errorf("httpcvcs: decoding response from %s: %w", rpcPath, err)
	}
	return nil
}

var _ cvcs.Client = (*Client)(nil)
