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

// Package httphandlers wires the Metadata Repository Cache, Async Item
// Loader, Update Diff Engine and CVCS client boundary (pkg/metacache,
// pkg/loader, pkg/diffengine, pkg/cvcs) behind an http.Handler. GET,
// PROPFIND, OPTIONS and HEAD are served by golang.org/x/net/webdav's
// webdav.Handler over a read-only webdav.FileSystem adapter, the way
// app/webdav wraps a Camlistore root in one — this module's tree is
// CVCS-backed instead of blob-backed. REPORT — the one DAV-VCS verb
// golang.org/x/net/webdav doesn't know about — is intercepted ahead of
// the wrapped handler and drives the Diff Engine directly.
//
// This package exists so the core is runnably exercised end-to-end; the
// exact update-report XML dialect is this package's own invented
// convention, not a documented wire format (spec.md §1 excludes specific
// DAV-VCS XML bodies as an external collaborator's concern).
package httphandlers
