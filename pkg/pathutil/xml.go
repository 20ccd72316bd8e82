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

package pathutil

import "strings"

// EscapeXML escapes text for embedding in DAV XML bodies. It always
// escapes &, <, > and optionally " and ' when escapeQuotes is true — the
// minimum spec.md §4.3 requires plus the two optional quote characters.
func EscapeXML(s string, escapeQuotes bool) string {
	r := []string{"&", "&amp;", "<", "&lt;", ">", "&gt;"}
	if escapeQuotes {
		r = append(r, `"`, "&quot;", "'", "&apos;")
	}
	return strings.NewReplacer(r...).Replace(s)
}

// UnescapeXML is the exact inverse of EscapeXML for entities it produces.
// It also accepts the quote entities on decode regardless of whether the
// encoder was asked to produce them, since a conformant DAV client may
// emit either form.
func UnescapeXML(s string) string {
	if !strings.ContainsRune(s, '&') {
		return s
	}
	return strings.NewReplacer(
		"&lt;", "<",
		"&gt;", ">",
		"&quot;", `"`,
		"&apos;", "'",
		"&amp;", "&",
	).Replace(s)
}
