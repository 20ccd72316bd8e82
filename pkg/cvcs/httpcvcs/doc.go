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

// Package httpcvcs is the real cvcs.Client transport: a persistent,
// retrying HTTP client that speaks a small JSON-over-HTTP RPC surface to
// the upstream CVCS server, the way pkg/client talks to a Camlistore
// server over a discovered URL prefix. The upstream wire protocol itself
// is outside spec.md's scope (the CVCS RPC client is listed as an
// external collaborator, specified only at the interface boundary
// pkg/cvcs.Client describes) — the JSON request/response shapes here are
// this package's own invented convention, not a documented wire format.
package httpcvcs
