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

// Package propstore resolves CVCS property-file paths to the logical
// DAV-VCS item they annotate (spec.md §4.4 "Property-file mapping"). The
// CVCS stores a folder's own properties, and a sibling file's properties,
// as ordinary files under a reserved property-folder sigil; this package
// is the one place that sigil convention is known.
package propstore

import "svnbridge.example.com/svnbridge/pkg/pathutil"

// DefaultSigil is the reserved path segment name the CVCS uses for
// property storage. A directory D's own folder properties live at
// "D/<sigil>"; a file "D/name"'s properties live at "D/<sigil>/name".
const DefaultSigil = "$properties"

// Resolver maps property-file paths to their logical owner.
type Resolver struct {
	sigil string
}

// New returns a Resolver using sigil, or DefaultSigil if sigil is empty.
func New(sigil string) *Resolver {
	if sigil == "" {
		sigil = DefaultSigil
	}
	return &Resolver{sigil: sigil}
}

// Owner reports the logical owner path for a property-file path p:
// isFolderProps is true when p names a folder's own properties file
// (owner is the folder itself), false when p names a sibling file's
// properties file (owner is that file). ok is false when p is not a
// property-file path at all.
func (r *Resolver) Owner(p string) (owner string, isFolderProps bool, ok bool) {
	parent, last := pathutil.Split(p)
	if last == r.sigil {
		return parent, true, true
	}
	grandparent, mid := pathutil.Split(parent)
	if mid == r.sigil && last != "" {
		return pathutil.Join(grandparent, last), false, true
	}
	return "", false, false
}
