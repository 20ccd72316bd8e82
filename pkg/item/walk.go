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

package item

// Walk visits root and every descendant in depth-first, insertion order —
// the same order the Async Item Loader's producer uses and the Response
// Generator is expected to consume in. fn returning false prunes that
// subtree (its children are not visited) but Walk continues with siblings.
func Walk(root *Item, fn func(*Item) bool) {
	if root == nil {
		return
	}
	if !fn(root) {
		return
	}
	if f := root.AsFolder(); f != nil {
		for _, child := range f.Children() {
			Walk(child, fn)
		}
	}
}

// Files returns every non-deleted, non-folder item reachable from root, in
// depth-first order — the sequence the Async Item Loader prefetches.
func Files(root *Item) []*Item {
	var out []*Item
	Walk(root, func(it *Item) bool {
		if it.Kind == KindFile {
			out = append(out, it)
		}
		return true
	})
	return out
}

// LoadedUnconsumedBytes sums Content length for every file item that has
// data loaded but has not yet been claimed via TakeContent.
func LoadedUnconsumedBytes(root *Item) int64 {
	var total int64
	Walk(root, func(it *Item) bool {
		if it.Kind == KindFile && it.Flags.Has(FlagDataLoaded) {
			total += int64(len(it.Content))
		}
		return true
	})
	return total
}
