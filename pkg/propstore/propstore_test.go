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

package propstore

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOwnerFolderProperties(t *testing.T) {
	r := New("")
	owner, isFolderProps, ok := r.Owner("/proj/sub/$properties")
	assert.True(t, ok)
	assert.True(t, isFolderProps)
	assert.Equal(t, "/proj/sub", owner)
}

func TestOwnerSiblingFileProperties(t *testing.T) {
	r := New("")
	owner, isFolderProps, ok := r.Owner("/proj/sub/$properties/readme.txt")
	assert.True(t, ok)
	assert.False(t, isFolderProps)
	assert.Equal(t, "/proj/sub/readme.txt", owner)
}

func TestOwnerNotAPropertyPath(t *testing.T) {
	r := New("")
	_, _, ok := r.Owner("/proj/sub/readme.txt")
	assert.False(t, ok)
}

func TestOwnerRootFolderProperties(t *testing.T) {
	r := New("")
	owner, isFolderProps, ok := r.Owner("$properties")
	assert.True(t, ok)
	assert.True(t, isFolderProps)
	assert.Equal(t, "", owner)
}

func TestOwnerCustomSigil(t *testing.T) {
	r := New(".props")
	owner, isFolderProps, ok := r.Owner("/proj/.props/readme.txt")
	assert.True(t, ok)
	assert.False(t, isFolderProps)
	assert.Equal(t, "/proj/readme.txt", owner)

	// the default sigil no longer matches once a custom one is configured
	_, _, ok = r.Owner("/proj/$properties")
	assert.False(t, ok)
}
