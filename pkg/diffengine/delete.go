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

package diffengine

import (
	"context"

	"svnbridge.example.com/svnbridge/pkg/item"
)

// ApplyDelete processes a Delete change (spec.md §4.4 apply_delete). Unlike
// Add/Edit, a delete never needs to fetch real CVCS content to decide its
// effect: if nothing earlier in this replay has touched path yet, the
// tombstone is recorded directly rather than first materializing whatever
// the CVCS holds at the target revision (which may already reflect a later
// re-add in the same replay window — see resolveFinal's tombstone
// resurrection, which depends on finding this tombstone here).
func (e *Engine) ApplyDelete(ctx context.Context, req *Request, ch *item.SourceItemChange) error {
	if e.suppressedDelete(ctx, req, ch.Path) {
		return nil
	}
	folder, leaf, err := e.walkIntermediate(ctx, req, ch.Path)
	if err != nil {
		return err
	}
	existing := folder.Child(leaf)
	if existing == nil {
		if ch.ChangeKind == item.ChangeKindFolder {
			folder.Put(leaf, item.NewDeleteFolder(ch.Path))
		} else {
			folder.Put(leaf, item.NewDeleteFile(ch.Path))
		}
		return nil
	}
	applyDeleteTransition(folder, leaf, existing)
	return nil
}

// applyDeleteTransition implements spec.md §4.4's delete algorithm leaf
// transitions.
func applyDeleteTransition(folder *item.Folder, leaf string, existing *item.Item) {
	switch {
	case existing.Kind.IsDelete():
		// already a tombstone; stop.

	case existing.Kind == item.KindFile && existing.Flags.Has(item.FlagOriginallyDeleted):
		folder.Put(leaf, item.NewDeleteFile(existing.Name))

	case existing.Kind == item.KindFolder && existing.Flags.Has(item.FlagOriginallyDeleted):
		folder.Put(leaf, item.NewDeleteFolder(existing.Name))

	case existing.Kind == item.KindStubFolder:
		folder.Put(leaf, item.NewDeleteFolder(existing.Name))

	case existing.Kind == item.KindMissing && existing.Flags.Has(item.FlagEdit):
		folder.Put(leaf, item.NewDeleteFile(existing.Name))

	case existing.Kind == item.KindFile && existing.Flags.Has(item.FlagPropertyOnly):
		folder.Put(leaf, item.NewDeleteFile(existing.Name))

	case existing.Kind == item.KindFolder && existing.Flags.Has(item.FlagPropertyOnly):
		folder.Put(leaf, item.NewDeleteFolder(existing.Name))

	default:
		// A spurious add the client had not yet seen (including a plain
		// Missing marker with edit=false): unlink rather than tombstone it,
		// so no orphan delete is ever emitted for a path the client never
		// observed.
		folder.Remove(leaf)
	}
}

// suppressedDelete implements client-state suppression for deletes
// (spec.md §4.4): if the client already marked path, or an ancestor,
// deleted, suppress and prune any prior Missing marker for path.
func (e *Engine) suppressedDelete(ctx context.Context, req *Request, path string) bool {
	if req.ClientState == nil {
		return false
	}
	ancestorsOf := func(p string) []string { return ancestorChain(p, req.CheckoutRoot) }
	if !req.ClientState.IsMarkedMissing(path, ancestorsOf) {
		return false
	}
	e.pruneMissingMarker(ctx, req, path)
	return true
}

// pruneMissingMarker removes a previously-recorded Missing placeholder at
// path, if the tree happens to already hold one, now that the client has
// confirmed the absence itself.
func (e *Engine) pruneMissingMarker(ctx context.Context, req *Request, path string) {
	folder, leaf, err := e.walkIntermediate(ctx, req, path)
	if err != nil {
		return
	}
	if existing := folder.Child(leaf); existing != nil && existing.Kind == item.KindMissing {
		folder.Remove(leaf)
	}
}
