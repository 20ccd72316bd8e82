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

// SetContent and TakeContent are not internally synchronized: per spec,
// the only cross-goroutine mutation of an Item's content is the Async Item
// Loader's completion callback (single writer) and its try_rob consumer
// call, both of which run under the loader's own lock. Callers outside
// pkg/loader must provide equivalent external synchronization.

// SetContent publishes freshly fetched bytes and their hash, and marks the
// item data-loaded. Called by the loader's completion callback.
func (it *Item) SetContent(data []byte, md5Hex string) {
	it.Content = data
	it.ContentMD5 = md5Hex
	it.Flags |= FlagDataLoaded
}

// TakeContent atomically (with respect to the loader's lock) moves the
// bytes out of it, freeing buffer capacity for the producer. A second call
// returns ok == false with an empty buffer — try_rob after successful
// completion is a move.
func (it *Item) TakeContent() (data []byte, md5Hex string, ok bool) {
	if !it.Flags.Has(FlagDataLoaded) || it.taken {
		return nil, "", false
	}
	data, md5Hex = it.Content, it.ContentMD5
	it.Content = nil
	it.taken = true
	return data, md5Hex, true
}

// IsDataLoaded reports whether the loader has published content for it.
func (it *Item) IsDataLoaded() bool {
	return it.Flags.Has(FlagDataLoaded)
}
