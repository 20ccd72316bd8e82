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

// ApplyRename processes a Rename change (spec.md §4.4 apply_rename):
// resolve old_name/new_name via the previous-version identity, then apply
// delete(old) then add(new) in that fixed order regardless of replay
// direction. If the rename crosses the checkout-root boundary, the side
// falling outside the checkout scope is suppressed.
func (e *Engine) ApplyRename(ctx context.Context, req *Request, ch *item.SourceItemChange) error {
	fetched, err := e.fetchOne(ctx, req.TargetRevision, ch.Path)
	if err != nil {
		return err
	}
	if fetched == nil {
		return fmt.Errorf("rename target %q has no data at revision %d", ch.Path, req.TargetRevision)
	}
	prev, err := e.client.GetPreviousVersionOf(ctx, []*item.Item{fetched}, req.TargetRevision)
	if err != nil {
		return err
	}
	if len(prev) != 1 || prev[0] == nil {
		return fmt.Errorf("rename target %q has no previous-version identity", ch.Path)
	}
	oldName := prev[0].Name
	newName := ch.Path

	oldInScope := inCheckoutScope(req.CheckoutRoot, oldName)
	newInScope := inCheckoutScope(req.CheckoutRoot, newName)

	// DESIGN.md Open Question 1: suppression of the out-of-scope side is
	// gated on the changeset being flagged as a merge/branch (or on the
	// operator opting into SuppressForeignRenameSideAlways). A pure
	// cross-root rename with neither flag set is treated as an ordinary
	// rename and is not suppressed on either side; if one side genuinely
	// falls outside the checkout, its path-walk surfaces the natural
	// "not under checkout root" error instead of being silently dropped.
	foreign := e.opts.SuppressForeignRenameSideAlways || ch.Flags.Has(item.ChangeMerge) || ch.Flags.Has(item.ChangeBranch)

	suppressDelete := foreign && !oldInScope
	suppressAdd := foreign && !newInScope

	if !suppressDelete {
		delCh := &item.SourceItemChange{Path: oldName, ChangeKind: ch.ChangeKind, ChangesetID: ch.ChangesetID, Flags: item.ChangeDelete}
		if err := e.ApplyDelete(ctx, req, delCh); err != nil {
			return err
		}
	}
	if !suppressAdd {
		addCh := &item.SourceItemChange{Path: newName, ChangeKind: ch.ChangeKind, ChangesetID: ch.ChangesetID, Flags: item.ChangeAdd | item.ChangeRename}
		if err := e.applyAddOrEdit(ctx, req, addCh, false, finalOpRename); err != nil {
			return err
		}
	}
	return nil
}

func inCheckoutScope(checkoutRoot, p string) bool {
	return p == checkoutRoot || pathutil.Segments(checkoutRoot, p) != nil
}
