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

package httphandlers

import (
	"encoding/xml"
	"net/http"
	"time"

	"svnbridge.example.com/svnbridge/pkg/cvcs"
	"svnbridge.example.com/svnbridge/pkg/diffengine"
	"svnbridge.example.com/svnbridge/pkg/item"
	"svnbridge.example.com/svnbridge/pkg/loader"
)

// handleReport implements the one verb golang.org/x/net/webdav doesn't
// know about: it replays the checkout root's history from the client's
// reported state up to the requested target revision through the Update
// Diff Engine, prefetches the resulting tree's file content through the
// Async Item Loader, and serializes the tree.
func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	var req updateReportRequest
	if err := xml.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "malformed update-report body: "+err.Error(), http.StatusBadRequest)
		return
	}

	ctx := r.Context()
	targetRev := cvcs.Revision(req.TargetRev)

	rootItems, err := s.cache.QueryItems(ctx, targetRev, req.CheckoutRoot, cvcs.RecursionNone)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadGateway)
		return
	}
	var root *item.Item
	for _, it := range rootItems {
		if it.Name == req.CheckoutRoot {
			root = it
			break
		}
	}
	if root == nil {
		root = item.NewFolder(req.CheckoutRoot, int64(targetRev), time.Now(), "")
	} else if root.AsFolder() == nil {
		// fetched a file where a folder root was expected: serve it empty
		// rather than panic deeper in the Diff Engine's folder walk.
		root = item.NewFolder(req.CheckoutRoot, root.ItemRevision, root.LastModified, root.Author)
	}

	var fromRev cvcs.Revision
	for _, e := range req.Existing {
		if cvcs.Revision(e.Revision) > fromRev {
			fromRev = cvcs.Revision(e.Revision)
		}
	}

	rawChanges, err := s.client.GetChangesBetween(ctx, req.CheckoutRoot, fromRev, targetRev)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadGateway)
		return
	}
	// The checkout root itself is supplied directly as diffReq.Root, not
	// walked as a change: the Diff Engine's path-walk only ever resolves
	// segments strictly below the root.
	changes := make([]*item.SourceItemChange, 0, len(rawChanges))
	for _, ch := range rawChanges {
		if ch.Path != req.CheckoutRoot {
			changes = append(changes, ch)
		}
	}

	engine := diffengine.New(s.cache, s.client, s.diffOpts)
	diffReq := &diffengine.Request{
		Root:           root,
		CheckoutRoot:   req.CheckoutRoot,
		TargetRevision: targetRev,
		ClientState:    req.clientState(),
		Forward:        true,
	}
	if err := engine.Apply(ctx, diffReq, changes); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	ld := loader.New(s.client, root, s.loaderCfg)
	if err := ld.Start(ctx); err != nil {
		s.log.WithError(err).Warn("prefetch loader did not complete cleanly")
	}

	w.Header().Set("Content-Type", "application/xml; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	_ = enc.Encode(buildResponse(root))
}
