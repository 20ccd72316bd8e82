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

func (e *Engine) applyAddOrEdit(ctx context.Context, req *Request, ch *item.SourceItemChange, edit bool, op finalOp) error {
	if e.suppressedAdd(req, ch.Path, ch.ChangesetID) {
		return nil
	}
	folder, leaf, err := e.walkIntermediate(ctx, req, ch.Path)
	if err != nil {
		return err
	}
	existing, err := e.materializeFinal(ctx, req, folder, leaf, ch.Path, edit)
	if err != nil {
		return err
	}
	return e.resolveFinal(ctx, req, folder, leaf, existing, ch.ChangesetID, op)
}

// resolveFinal applies the three final-segment transitions spec.md §4.4
// describes for an already-materialized entry: resurrection of a prior
// tombstone, a rename onto a prior tombstone, or a stale (superseded)
// entry being replaced by the current CVCS state. In both tombstone cases
// the fetched item replaces the tombstone in folder; for a Rename it
// carries no FlagOriginallyDeleted and no delete entry is kept beside it.
func (e *Engine) resolveFinal(ctx context.Context, req *Request, folder *item.Folder, leaf string, existing *item.Item, changesetID int64, op finalOp) error {
	switch {
	case existing.Kind.IsDelete():
		canonical, err := e.fetchOne(ctx, req.TargetRevision, existing.Name)
		if err != nil {
			return err
		}
		if canonical == nil {
			return nil // nothing to resurrect or rename onto; tombstone stands
		}
		if op != finalOpRename {
			canonical.Flags |= item.FlagOriginallyDeleted
		}
		folder.Put(leaf, canonical)
		return nil

	case isStale(existing.Revision(), changesetID, req.Forward):
		canonical, err := e.fetchOne(ctx, req.TargetRevision, existing.Name)
		if err != nil {
			return err
		}
		if canonical != nil {
			folder.Put(leaf, canonical)
		}
		return nil

	default:
		return nil
	}
}

// suppressedAdd implements client-state suppression (spec.md §4.4): skip
// emitting an Add/Edit for a path the client already has at revision >=
// the change's.
func (e *Engine) suppressedAdd(req *Request, path string, changesetID int64) bool {
	if req.ClientState == nil {
		return false
	}
	return req.ClientState.HasAtLeast(path, changesetID, func(p string) []string {
		return ancestorChain(p, req.CheckoutRoot)
	})
}
