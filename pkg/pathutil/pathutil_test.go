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

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecodePercentRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		in   string
	}{
		{name: "plain", in: "trunk/src/file.h"},
		{name: "space-and-hash", in: "my file #1.txt"},
		{name: "braces", in: "{weird}[path];x`y&z"},
		{name: "utf8", in: "café/résumé.txt"},
		{name: "empty", in: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			enc := EncodePercent(tt.in)
			dec, err := DecodePercent(enc)
			require.NoError(t, err)
			assert.Equal(t, tt.in, dec)
		})
	}
}

func TestDecodePercentErrors(t *testing.T) {
	_, err := DecodePercent("foo%")
	assert.Error(t, err)
	_, err = DecodePercent("foo%zz")
	assert.Error(t, err)
}

func TestEscapeUnescapeXMLRoundTrip(t *testing.T) {
	tests := []string{
		"plain text",
		"<tag> & \"quoted\" 'single'",
		"",
	}
	for _, in := range tests {
		esc := EscapeXML(in, true)
		assert.Equal(t, in, UnescapeXML(esc))
	}
}

func TestEscapeXMLMinimalSet(t *testing.T) {
	got := EscapeXML(`"quoted" & 'x' <y>`, false)
	assert.Equal(t, `"quoted" &amp; 'x' &lt;y&gt;`, got)
}

func TestJoinSplitRoundTrip(t *testing.T) {
	tests := []struct {
		path, seg string
	}{
		{"trunk/src", "file.h"},
		{"", "file.h"},
		{"trunk", "src"},
	}
	for _, tt := range tests {
		joined := Join(tt.path, tt.seg)
		gotParent, gotSeg := Split(joined)
		assert.Equal(t, tt.path, gotParent)
		assert.Equal(t, tt.seg, gotSeg)
	}
}

func TestParent(t *testing.T) {
	assert.Equal(t, "trunk", Parent("trunk/file.h"))
	assert.Equal(t, "", Parent("file.h"))
	assert.Equal(t, "", Parent("/"))
}

func TestSegments(t *testing.T) {
	assert.Equal(t, []string{"a", "b.txt"}, Segments("trunk", "trunk/a/b.txt"))
	assert.Nil(t, Segments("trunk", "trunk"))
	assert.Nil(t, Segments("trunk", "other/a"))
}

func TestClassifyAndEqual(t *testing.T) {
	assert.Equal(t, MatchCaseMismatch, Classify("foo", "FOO"))
	assert.Equal(t, MatchEqual, Classify("foo", "foo"))
	assert.True(t, Equal(CaseInsensitive, "foo", "FOO"))
	assert.False(t, Equal(CaseSensitive, "foo", "FOO"))
}
