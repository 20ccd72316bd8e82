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

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFolderPutPreservesInsertionOrder(t *testing.T) {
	root := NewFolder("/proj", 1, time.Now(), "alice")
	f := root.AsFolder()
	require.NotNil(t, f)

	f.Put("c", NewFile("/proj/c", 1, time.Now(), "alice"))
	f.Put("a", NewFile("/proj/a", 1, time.Now(), "alice"))
	f.Put("b", NewFile("/proj/b", 1, time.Now(), "alice"))

	var names []string
	for _, it := range f.Children() {
		names = append(names, it.Name)
	}
	assert.Equal(t, []string{"/proj/c", "/proj/a", "/proj/b"}, names)
	assert.Equal(t, 3, f.Len())
}

func TestFolderPutReplaceKeepsPosition(t *testing.T) {
	root := NewFolder("/proj", 1, time.Now(), "alice")
	f := root.AsFolder()
	f.Put("a", NewFile("/proj/a", 1, time.Now(), "alice"))
	f.Put("b", NewFile("/proj/b", 1, time.Now(), "alice"))

	f.Put("a", NewDeleteFile("/proj/a"))

	require.Len(t, f.Children(), 2)
	assert.Equal(t, "/proj/a", f.Children()[0].Name, "replacing a child keeps its original slot")
	assert.Equal(t, KindDeleteFile, f.Child("a").Kind)
}

func TestFolderRemove(t *testing.T) {
	root := NewFolder("/proj", 1, time.Now(), "alice")
	f := root.AsFolder()
	f.Put("a", NewFile("/proj/a", 1, time.Now(), "alice"))
	f.Put("b", NewFile("/proj/b", 1, time.Now(), "alice"))

	f.Remove("a")
	assert.Nil(t, f.Child("a"))
	assert.Equal(t, 1, f.Len())

	// removing an absent child is a no-op
	f.Remove("does-not-exist")
	assert.Equal(t, 1, f.Len())
}

func TestNilFolderChildReturnsNil(t *testing.T) {
	var f *Folder
	assert.Nil(t, f.Child("anything"))
}

func TestStubFolderUnwrap(t *testing.T) {
	real := NewFolder("/proj", 3, time.Now(), "alice")
	stub := NewStubFolder(real)

	assert.Equal(t, KindStubFolder, stub.Kind)
	assert.Equal(t, real, stub.Unwrap())
	assert.Nil(t, stub.AsFolder())
}

func TestNewStubFolderPanicsOnNonFolder(t *testing.T) {
	file := NewFile("/proj/readme.txt", 1, time.Now(), "alice")
	assert.Panics(t, func() { NewStubFolder(file) })
}

func TestUnwrapPanicsOnNonStub(t *testing.T) {
	file := NewFile("/proj/readme.txt", 1, time.Now(), "alice")
	assert.Panics(t, func() { file.Unwrap() })
}

func TestRevisionIsMaxOfAllThree(t *testing.T) {
	it := NewFile("/proj/readme.txt", 5, time.Now(), "alice")
	it.PropertyRevision = 9
	it.SubItemRevision = 3
	assert.Equal(t, int64(9), it.Revision())
}

func TestKindPredicates(t *testing.T) {
	assert.True(t, KindDeleteFile.IsDelete())
	assert.True(t, KindDeleteFolder.IsDelete())
	assert.False(t, KindFile.IsDelete())

	assert.True(t, KindFolder.IsFolder())
	assert.True(t, KindStubFolder.IsFolder())
	assert.True(t, KindDeleteFolder.IsFolder())
	assert.False(t, KindFile.IsFolder())
	assert.False(t, KindMissing.IsFolder())
}

func TestFlagsHas(t *testing.T) {
	var f Flags
	assert.False(t, f.Has(FlagEdit))
	f |= FlagEdit
	assert.True(t, f.Has(FlagEdit))
	assert.False(t, f.Has(FlagDataLoaded))
}

func TestAsFolderNilForNonFolderKind(t *testing.T) {
	file := NewFile("/proj/readme.txt", 1, time.Now(), "alice")
	assert.Nil(t, file.AsFolder())
}

func TestContentSetAndTakeIsOneShot(t *testing.T) {
	it := NewFile("/proj/readme.txt", 1, time.Now(), "alice")
	assert.False(t, it.IsDataLoaded())

	it.SetContent([]byte("hello"), "5d41402abc4b2a76b9719d911017c592")
	assert.True(t, it.IsDataLoaded())

	data, md5, ok := it.TakeContent()
	require.True(t, ok)
	assert.Equal(t, []byte("hello"), data)
	assert.Equal(t, "5d41402abc4b2a76b9719d911017c592", md5)

	_, _, ok = it.TakeContent()
	assert.False(t, ok, "a second TakeContent must report ok=false")
}

func TestNewMissingSetsEditFlag(t *testing.T) {
	m := NewMissing("/proj/gone.txt", true)
	assert.Equal(t, KindMissing, m.Kind)
	assert.True(t, m.Flags.Has(FlagEdit))

	m2 := NewMissing("/proj/gone.txt", false)
	assert.False(t, m2.Flags.Has(FlagEdit))
}
