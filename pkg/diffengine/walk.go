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
	"fmt"

	"svnbridge.example.com/svnbridge/pkg/item"
	"svnbridge.example.com/svnbridge/pkg/pathutil"
)

// finalOp distinguishes how the final path-walk segment should resolve a
// pre-existing Delete* tombstone: resurrection (Add) versus rename-with-
// history (Rename) — see resolveFinal.
type finalOp int

const (
	finalOpAdd finalOp = iota
	finalOpRename
)

// walkIntermediate descends from req.Root through every segment of
// fullPath except the last, fetching and stub-wrapping folders that
// aren't already in the tree (spec.md §4.4 path-walk algorithm). It
// returns the final segment's parent folder and its own name, without
// touching the final segment itself — callers resolve that last step
// differently depending on whether they're adding, deleting, or
// attaching a property.
func (e *Engine) walkIntermediate(ctx context.Context, req *Request, fullPath string) (parent *item.Folder, leaf string, err error) {
	segs := pathutil.Segments(req.CheckoutRoot, fullPath)
	if segs == nil {
		return nil, "", fmt.Errorf("path %q is not under checkout root %q", fullPath, req.CheckoutRoot)
	}
	cur := req.Root
	itemPath := req.CheckoutRoot
	for i, seg := range segs {
		itemPath = pathutil.Join(itemPath, seg)
		final := i == len(segs)-1

		folder := e.folderOf(cur)
		if folder == nil {
			return nil, "", fmt.Errorf("%q is not a folder while walking %q", cur.Name, fullPath)
		}
		if final {
			return folder, seg, nil
		}

		child := folder.Child(seg)
		if child == nil {
			fetched, ferr := e.fetchOne(ctx, req.TargetRevision, itemPath)
			if ferr != nil {
				return nil, "", ferr
			}
			if fetched == nil {
				// No result at an intermediate segment: the engine never
				// takes a shortcut by omitting the entry — a later delete
				// must be able to cancel a prior add.
				fetched = item.NewDeleteFolder(itemPath)
			} else {
				fetched = item.NewStubFolder(fetched)
			}
			folder.Put(seg, fetched)
			child = fetched
		}
		if child.Kind == item.KindStubFolder {
			cur = child.Unwrap()
		} else {
			cur = child
		}
	}
	return nil, "", fmt.Errorf("empty path %q", fullPath)
}

func (e *Engine) folderOf(it *item.Item) *item.Folder {
	if it.Kind == item.KindStubFolder {
		return it.Unwrap().AsFolder()
	}
	return it.AsFolder()
}

// materializeFinal ensures folder.Child(leaf) exists, fetching from the
// cache and synthesizing a MissingItem{edit} if the CVCS has nothing at
// this revision. It returns the (possibly freshly-created) entry.
func (e *Engine) materializeFinal(ctx context.Context, req *Request, folder *item.Folder, leaf, itemPath string, edit bool) (*item.Item, error) {
	if existing := folder.Child(leaf); existing != nil {
		return existing, nil
	}
	fetched, err := e.fetchOne(ctx, req.TargetRevision, itemPath)
	if err != nil {
		return nil, err
	}
	if fetched == nil {
		fetched = item.NewMissing(itemPath, edit)
	}
	folder.Put(leaf, fetched)
	return fetched, nil
}

func isStale(existingRev, changesetID int64, forward bool) bool {
	if forward {
		return existingRev < changesetID
	}
	return existingRev > changesetID
}
