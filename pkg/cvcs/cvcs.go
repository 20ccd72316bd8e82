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

// Package cvcs defines the collaborator interface the core consumes from
// the centralized-changeset version-control system (spec.md §6): item
// listing, previous-version lookup, async file content fetch, and the
// small set of write operations the bridge forwards on behalf of the
// DAV-VCS client. This package never implements authentication — the
// constructor of a concrete Client simply takes a credential triple and
// forwards it on every call, per spec.md §1 Non-goals.
package cvcs

import (
	"context"

	"svnbridge.example.com/svnbridge/pkg/item"
)

// Recursion selects how deep a listing query descends.
type Recursion int

const (
	RecursionNone Recursion = iota
	RecursionOneLevel
	RecursionFull
)

// Revision identifies a point in the CVCS's changeset history.
type Revision int64

// Credentials is the triple the transport layer surfaces; the core never
// inspects it beyond forwarding it to a Client constructor.
type Credentials struct {
	ServerURL string
	Username  string
	Secret    string
}

// ReadHandle identifies an in-flight BeginReadFile fetch.
type ReadHandle interface{}

// Client is the CVCS collaborator interface consumed by the Metadata
// Repository Cache, the Async Item Loader and the Update Diff Engine.
type Client interface {
	// LatestRevision returns the CVCS's current changeset number, used by
	// the bridge server to serve GET/PROPFIND against HEAD when a
	// request doesn't pin a revision.
	LatestRevision(ctx context.Context) (Revision, error)

	// QueryItems lists items under path at rev. recursion controls depth;
	// the cache calls this with RecursionFull (except for its server-root
	// RecursionNone bypass) and fans the result out to narrower keys (spec.md
	// §4.1 population protocol) — Client implementations do not need to
	// special-case recursion themselves beyond honoring it.
	QueryItems(ctx context.Context, path string, recursion Recursion, rev Revision) ([]*item.Item, error)

	// QueryItemsByPaths is the array variant; semantics are the union of
	// per-path calls, but a Client may batch the RPC.
	QueryItemsByPaths(ctx context.Context, paths []string, recursion Recursion, rev Revision) ([]*item.Item, error)

	// QueryItemsByID resolves items by their CVCS-internal numeric id.
	QueryItemsByID(ctx context.Context, ids []int64, rev Revision) ([]*item.Item, error)

	// GetPreviousVersionOf resolves, for each of items, its identity one
	// changeset before rev — used by the Diff Engine's rename algorithm
	// to compute old_name.
	GetPreviousVersionOf(ctx context.Context, items []*item.Item, rev Revision) ([]*item.Item, error)

	// GetChangesBetween returns the Source Item Changes affecting path
	// (and everything under it) strictly after fromRev, up to and
	// including toRev, in changeset order — the list the Update Diff
	// Engine's Apply replays (spec.md §4.4). Producing this list from raw
	// CVCS history is itself outside the core's scope (spec.md §1 excludes
	// the CVCS RPC client's wire transport as an external collaborator);
	// this method is the interface boundary the bridge server calls to
	// get one.
	GetChangesBetween(ctx context.Context, path string, fromRev, toRev Revision) ([]*item.SourceItemChange, error)

	// BeginReadFile starts an async content fetch for it, invoking done
	// exactly once on completion (success or failure). Implementations
	// must not invoke done synchronously from within BeginReadFile itself;
	// done may still run on another goroutine before BeginReadFile has
	// returned, so it receives the handle as its own argument.
	BeginReadFile(ctx context.Context, it *item.Item, done func(ReadHandle, error)) (ReadHandle, error)

	// EndReadFile retrieves the bytes and content hash for a handle whose
	// completion callback has already fired.
	EndReadFile(h ReadHandle) (data []byte, md5Hex string, err error)

	// WriteFile, SetProperty, RemoveProperty, SetActivityComment,
	// MakeCollection and GetItemInActivity round out the write surface
	// spec.md §6 lists; they are consumed by the (external) PUT/MKCOL/
	// PROPPATCH handlers, not by the core, and are declared here only so
	// one interface fully describes the boundary.
	WriteFile(ctx context.Context, activity, path string, data []byte, baseMD5, resultMD5 string) (created bool, err error)
	SetProperty(ctx context.Context, activity, path, name, value string) error
	RemoveProperty(ctx context.Context, activity, path, name string) error
	SetActivityComment(ctx context.Context, activity, comment string) error
	MakeCollection(ctx context.Context, activity, path string) error
	GetItemInActivity(ctx context.Context, activity, path string) (*item.Item, error)
}
