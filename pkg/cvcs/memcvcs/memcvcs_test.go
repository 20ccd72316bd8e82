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

package memcvcs

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"svnbridge.example.com/svnbridge/pkg/cvcs"
	"svnbridge.example.com/svnbridge/pkg/item"
)

func TestLatestRevisionEmptyRepo(t *testing.T) {
	c := New()
	rev, err := c.LatestRevision(context.Background())
	require.NoError(t, err)
	assert.Equal(t, cvcs.Revision(0), rev)
}

func TestLatestRevisionTracksHighestPut(t *testing.T) {
	c := New()
	now := time.Now()
	c.PutFolder(1, "/proj", "alice", now)
	c.PutFile(4, "/proj/a.txt", []byte("a"), "alice", now)
	c.PutFile(2, "/proj/b.txt", []byte("b"), "alice", now)

	rev, err := c.LatestRevision(context.Background())
	require.NoError(t, err)
	assert.Equal(t, cvcs.Revision(4), rev)
}

func TestGetChangesBetweenClassifiesAddEditDelete(t *testing.T) {
	c := New()
	now := time.Now()
	c.PutFolder(1, "/proj", "alice", now)
	c.PutFile(1, "/proj/a.txt", []byte("v1"), "alice", now)
	c.PutFile(2, "/proj/a.txt", []byte("v2"), "alice", now) // edit
	c.PutFile(2, "/proj/b.txt", []byte("new"), "bob", now)  // add
	c.PutDelete(3, "/proj/a.txt")                           // delete

	changes, err := c.GetChangesBetween(context.Background(), "/proj", 0, 3)
	require.NoError(t, err)

	byRevAndPath := map[int64]map[string]item.ChangeFlag{}
	for _, ch := range changes {
		if byRevAndPath[ch.ChangesetID] == nil {
			byRevAndPath[ch.ChangesetID] = map[string]item.ChangeFlag{}
		}
		byRevAndPath[ch.ChangesetID][ch.Path] = ch.Flags
	}

	assert.True(t, byRevAndPath[1]["/proj"]&item.ChangeAdd != 0)
	assert.True(t, byRevAndPath[1]["/proj/a.txt"]&item.ChangeAdd != 0)
	assert.True(t, byRevAndPath[2]["/proj/a.txt"]&item.ChangeEdit != 0)
	assert.True(t, byRevAndPath[2]["/proj/b.txt"]&item.ChangeAdd != 0)
	assert.True(t, byRevAndPath[3]["/proj/a.txt"]&item.ChangeDelete != 0)
}

func TestGetChangesBetweenRespectsFromRevExclusiveToRevInclusive(t *testing.T) {
	c := New()
	now := time.Now()
	c.PutFolder(1, "/proj", "alice", now)
	c.PutFile(2, "/proj/a.txt", []byte("v1"), "alice", now)
	c.PutFile(3, "/proj/b.txt", []byte("v1"), "alice", now)

	changes, err := c.GetChangesBetween(context.Background(), "/proj", 2, 3)
	require.NoError(t, err)

	require.Len(t, changes, 1)
	assert.Equal(t, "/proj/b.txt", changes[0].Path)
	assert.Equal(t, int64(3), changes[0].ChangesetID)
}

func TestGetChangesBetweenScopesToPath(t *testing.T) {
	c := New()
	now := time.Now()
	c.PutFolder(1, "/proj", "alice", now)
	c.PutFolder(1, "/other", "alice", now)
	c.PutFile(2, "/proj/a.txt", []byte("v1"), "alice", now)
	c.PutFile(2, "/other/b.txt", []byte("v1"), "alice", now)

	changes, err := c.GetChangesBetween(context.Background(), "/proj", 1, 2)
	require.NoError(t, err)

	require.Len(t, changes, 1)
	assert.Equal(t, "/proj/a.txt", changes[0].Path)
}

func TestGetChangesBetweenRenameSetsRenameFlag(t *testing.T) {
	c := New()
	now := time.Now()
	c.PutFolder(1, "/proj", "alice", now)
	c.PutFile(1, "/proj/old.txt", []byte("v1"), "alice", now)
	c.PutRename(2, "/proj/old.txt", "/proj/new.txt", item.KindFile, []byte("v1"), "alice", now)

	changes, err := c.GetChangesBetween(context.Background(), "/proj", 1, 2)
	require.NoError(t, err)

	require.Len(t, changes, 1)
	assert.Equal(t, "/proj/new.txt", changes[0].Path)
	assert.True(t, changes[0].Flags&item.ChangeRename != 0)
}

func TestPutChangeFlagsOrsOntoSynthesizedFlags(t *testing.T) {
	c := New()
	now := time.Now()
	c.PutFolder(1, "/proj", "alice", now)
	c.PutFile(2, "/proj/a.txt", []byte("v1"), "alice", now)
	c.PutChangeFlags(2, "/proj/a.txt", item.ChangeMerge)

	changes, err := c.GetChangesBetween(context.Background(), "/proj", 1, 2)
	require.NoError(t, err)

	require.Len(t, changes, 1)
	assert.True(t, changes[0].Flags&item.ChangeAdd != 0)
	assert.True(t, changes[0].Flags&item.ChangeMerge != 0)
}
