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

// applyPropertyChange handles a change already rewritten (by
// pkg/propstore) from a property-folder path to its logical owner.
// Property-only changes never add new paths to the tree: they attach to
// whatever real item or missing marker already occupies owner, or, if
// nothing does yet — including when owner is already a Delete* tombstone —
// synthesize a Missing placeholder rather than fetching real CVCS content
// or re-surfacing a delete the client already saw.
func (e *Engine) applyPropertyChange(ctx context.Context, req *Request, owner string) error {
	if !inCheckoutScope(req.CheckoutRoot, owner) {
		return nil
	}
	folder, leaf, err := e.walkIntermediate(ctx, req, owner)
	if err != nil {
		return err
	}
	if existing := folder.Child(leaf); existing != nil && !existing.Kind.IsDelete() {
		return nil // attaches to whatever real/placeholder shape is already there
	}
	m := item.NewMissing(owner, false)
	m.Flags |= item.FlagPropertyOnly
	folder.Put(leaf, m)
	return nil
}
