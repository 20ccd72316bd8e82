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
	"net/http"
	"sync"

	"golang.org/x/sync/errgroup"

	"svnbridge.example.com/svnbridge/pkg/cvcs"
	"svnbridge.example.com/svnbridge/pkg/item"
)

// queryBatchSize caps how many paths go into one QueryItemsByPaths RPC
// before the call splits into concurrent chunks. A caller can ask for
// hundreds of paths at once; one unbounded request risks an oversized
// upstream payload, so large requests are chunked and issued concurrently
// instead.
const queryBatchSize = 64

type latestRevisionResponse struct {
	Revision int64 `json:"revision"`
}

func (c *Client) LatestRevision(ctx context.Context) (cvcs.Revision, error) {
	var resp latestRevisionResponse
	if err := c.call(ctx, http.MethodGet, "/revision/latest", nil, &resp); err != nil {
		return 0, err
	}
	return cvcs.Revision(resp.Revision), nil
}

func (c *Client) QueryItems(ctx context.Context, path string, recursion cvcs.Recursion, rev cvcs.Revision) ([]*item.Item, error) {
	return c.QueryItemsByPaths(ctx, []string{path}, recursion, rev)
}

func (c *Client) QueryItemsByPaths(ctx context.Context, paths []string, recursion cvcs.Recursion, rev cvcs.Revision) ([]*item.Item, error) {
	if len(paths) <= queryBatchSize {
		return c.queryItemsChunk(ctx, paths, recursion, rev)
	}

	var mu sync.Mutex
	var out []*item.Item
	g, gctx := errgroup.WithContext(ctx)
	for i := 0; i < len(paths); i += queryBatchSize {
		end := i + queryBatchSize
		if end > len(paths) {
			end = len(paths)
		}
		chunk := paths[i:end]
		g.Go(func() error {
			items, err := c.queryItemsChunk(gctx, chunk, recursion, rev)
			if err != nil {
				return err
			}
			mu.Lock()
			out = append(out, items...)
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) queryItemsChunk(ctx context.Context, paths []string, recursion cvcs.Recursion, rev cvcs.Revision) ([]*item.Item, error) {
	req := queryItemsRequest{Paths: paths, Recursion: int(recursion), Revision: int64(rev)}
	var resp queryItemsResponse
	if err := c.call(ctx, http.MethodPost, "/items/query", req, &resp); err != nil {
		return nil, err
	}
	return toItems(resp.Items), nil
}

func (c *Client) QueryItemsByID(ctx context.Context, ids []int64, rev cvcs.Revision) ([]*item.Item, error) {
	req := queryItemsByIDRequest{IDs: ids, Revision: int64(rev)}
	var resp queryItemsResponse
	if err := c.call(ctx, http.MethodPost, "/items/queryById", req, &resp); err != nil {
		return nil, err
	}
	return toItems(resp.Items), nil
}

func (c *Client) GetChangesBetween(ctx context.Context, path string, fromRev, toRev cvcs.Revision) ([]*item.SourceItemChange, error) {
	req := changesBetweenRequest{Path: path, FromRev: int64(fromRev), ToRev: int64(toRev)}
	var resp changesBetweenResponse
	if err := c.call(ctx, http.MethodPost, "/changes/between", req, &resp); err != nil {
		return nil, err
	}
	out := make([]*item.SourceItemChange, len(resp.Changes))
	for i, w := range resp.Changes {
		out[i] = toChange(w)
	}
	return out, nil
}

func (c *Client) GetPreviousVersionOf(ctx context.Context, items []*item.Item, rev cvcs.Revision) ([]*item.Item, error) {
	paths := make([]string, len(items))
	for i, it := range items {
		paths[i] = it.Name
	}
	req := previousVersionRequest{Paths: paths, Revision: int64(rev)}
	var resp previousVersionResponse
	if err := c.call(ctx, http.MethodPost, "/items/previousVersion", req, &resp); err != nil {
		return nil, err
	}
	out := make([]*item.Item, len(resp.Items))
	for i, w := range resp.Items {
		if w == nil {
			continue
		}
		out[i] = toItem(*w)
	}
	return out, nil
}
