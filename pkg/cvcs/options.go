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

package cvcs

// Options tunes behavior the spec leaves open (spec.md §9 Open Questions).
type Options struct {
	// RequireWriteHash, when true, rejects WriteFile calls carrying an
	// empty resultMD5 instead of silently skipping the checksum guard; an
	// empty baseMD5 is accepted either way. Default false, matching documented client-compatibility
	// behavior (DESIGN.md Open Question 3).
	RequireWriteHash bool
}
