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

// Options tunes behavior spec.md §9 leaves open.
type Options struct {
	// SuppressForeignRenameSideAlways, when true, suppresses the foreign
	// side of every cross-checkout-root rename, whether or not the CVCS
	// marked the changeset as a merge. When false (default), suppression
	// only applies to changesets flagged as a merge/branch operation —
	// resolving spec.md §9's open question conservatively, preserving the
	// narrower documented behavior unless an operator opts in (DESIGN.md
	// Open Question 1).
	SuppressForeignRenameSideAlways bool

	// PropertySigil overrides the reserved property-folder segment name;
	// empty uses propstore.DefaultSigil.
	PropertySigil string
}
