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
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"svnbridge.example.com/svnbridge/pkg/cvcs"
	"svnbridge.example.com/svnbridge/pkg/item"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, func()) {
	t.Helper()
	srv := httptest.NewServer(handler)
	cfg := Config{BaseURL: srv.URL, RequestTimeout: 5 * time.Second, MaxRetries: 0}
	c := New(cfg, cvcs.Credentials{Username: "alice", Secret: "s3cret"}, cvcs.Options{})
	return c, srv.Close
}

func TestQueryItemsRoundTrip(t *testing.T) {
	var gotReq queryItemsRequest
	c, closeSrv := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/items/query", r.URL.Path)
		user, pass, ok := r.BasicAuth()
		assert.True(t, ok)
		assert.Equal(t, "alice", user)
		assert.Equal(t, "s3cret", pass)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))
		_ = json.NewEncoder(w).Encode(queryItemsResponse{
			Items: []wireItem{{Path: "/proj/x", IsFolder: false, ItemRevision: 12, LastModified: time.Unix(0, 0).UTC(), Author: "a"}},
		})
	})
	defer closeSrv()

	items, err := c.QueryItems(context.Background(), "/proj/x", cvcs.RecursionNone, 12)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "/proj/x", items[0].Name)
	assert.Equal(t, item.KindFile, items[0].Kind)
	assert.EqualValues(t, 12, items[0].ItemRevision)
	assert.Equal(t, []string{"/proj/x"}, gotReq.Paths)
	assert.EqualValues(t, 12, gotReq.Revision)
}

func TestGetPreviousVersionOfNullEntry(t *testing.T) {
	c, closeSrv := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(previousVersionResponse{Items: []*wireItem{nil}})
	})
	defer closeSrv()

	fresh := item.NewFile("/proj/new", 5, time.Now(), "a")
	prev, err := c.GetPreviousVersionOf(context.Background(), []*item.Item{fresh}, 5)
	require.NoError(t, err)
	require.Len(t, prev, 1)
	assert.Nil(t, prev[0])
}

func TestBeginReadFileEndReadFile(t *testing.T) {
	c, closeSrv := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/items/content", r.URL.Path)
		_, _ = w.Write([]byte("hello world"))
	})
	defer closeSrv()

	it := item.NewFile("/proj/x", 1, time.Now(), "a")
	done := make(chan struct{})
	var gotErr error
	h, err := c.BeginReadFile(context.Background(), it, func(_ cvcs.ReadHandle, ferr error) {
		gotErr = ferr
		close(done)
	})
	require.NoError(t, err)
	<-done
	require.NoError(t, gotErr)

	data, md5Hex, err := c.EndReadFile(h)
	require.NoError(t, err)
	assert.Equal(t, "hello world", string(data))
	assert.NotEmpty(t, md5Hex)
}

func TestWriteFileRequiresHashWhenConfigured(t *testing.T) {
	c, closeSrv := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("server should not be called when the hash guard rejects locally")
	})
	defer closeSrv()
	c.opts.RequireWriteHash = true

	_, err := c.WriteFile(context.Background(), "act-1", "/proj/x", []byte("data"), "", "")
	assert.Error(t, err)
}

func TestSetPropertyRoundTrip(t *testing.T) {
	var got propertyRequest
	c, closeSrv := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusNoContent)
	})
	defer closeSrv()

	err := c.SetProperty(context.Background(), "act-1", "/proj/x", "svn:eol-style", "native")
	require.NoError(t, err)
	assert.Equal(t, "act-1", got.Activity)
	assert.Equal(t, "native", got.Value)
}
