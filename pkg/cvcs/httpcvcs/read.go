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
	"context"
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/hashicorp/go-retryablehttp"

	"svnbridge.example.com/svnbridge/pkg/cvcs"
	"svnbridge.example.com/svnbridge/pkg/item"
)

// readHandle is the cvcs.ReadHandle this package hands back: a pointer
// whose fields are written exactly once, by the goroutine BeginReadFile
// starts, strictly before that goroutine invokes done — so a caller that
// only calls EndReadFile after done has fired never races the write.
type readHandle struct {
	data []byte
	md5  string
	err  error
}

// BeginReadFile starts an async GET of it's content. The fetch always
// runs on its own goroutine — even when ctx is already done — so done is
// never invoked synchronously from within this call, per cvcs.Client's
// documented contract.
func (c *Client) BeginReadFile(ctx context.Context, it *item.Item, done func(cvcs.ReadHandle, error)) (cvcs.ReadHandle, error) {
	h := &readHandle{}
	go func() {
		data, md5Hex, err := c.fetchContent(ctx, it.Name, it.Revision())
		h.data, h.md5, h.err = data, md5Hex, err
		done(h, err)
	}()
	return h, nil
}

func (c *Client) fetchContent(ctx context.Context, path string, rev int64) ([]byte, string, error) {
	u := fmt.Sprintf("%s/items/content?path=%s&rev=%d", c.base, url.QueryEscape(path), rev)
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, "", fmt.Errorf("httpcvcs: building content request for %q: %w", path, err)
	}
	req.SetBasicAuth(c.creds.Username, c.creds.Secret)

	resp, err := c.hc.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("httpcvcs: fetching content for %q: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, "", fmt.Errorf("httpcvcs: content fetch for %q returned status %d: %s", path, resp.StatusCode, msg)
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", fmt.Errorf("httpcvcs: reading content body for %q: %w", path, err)
	}
	sum := md5.Sum(data)
	return data, hex.EncodeToString(sum[:]), nil
}

// EndReadFile retrieves the result of a completed BeginReadFile. Calling
// it before done has fired for h is a caller error; the Async Item Loader
// (pkg/loader) calls it on its completion-queue goroutine after the
// completion callback has queued the result.
func (c *Client) EndReadFile(h cvcs.ReadHandle) ([]byte, string, error) {
	rh, ok := h.(*readHandle)
	if !ok {
		return nil, "", fmt.Errorf("httpcvcs: invalid read handle %T", h)
	}
	return rh.data, rh.md5, rh.err
}
