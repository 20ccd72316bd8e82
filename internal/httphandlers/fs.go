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

package httphandlers

import (
	"context"
	"os"
	"path"
	"strings"

	"golang.org/x/net/webdav"

	"svnbridge.example.com/svnbridge/pkg/cvcs"
	"svnbridge.example.com/svnbridge/pkg/item"
	"svnbridge.example.com/svnbridge/pkg/metacache"
)

// treeFS is a read-only webdav.FileSystem backed by the Metadata
// Repository Cache, always read at HEAD: every GET/PROPFIND against it
// sees the latest CVCS changeset, the way app/webdav's webdavFs always
// re-resolves against the live Camlistore root rather than pinning a
// version.
type treeFS struct {
	cache  *metacache.Cache
	client cvcs.Client
}

var _ webdav.FileSystem = (*treeFS)(nil)

func (fs *treeFS) Mkdir(ctx context.Context, name string, perm os.FileMode) error {
	return os.ErrPermission
}

func (fs *treeFS) RemoveAll(ctx context.Context, name string) error {
	return os.ErrPermission
}

func (fs *treeFS) Rename(ctx context.Context, oldName, newName string) error {
	return os.ErrPermission
}

func (fs *treeFS) Stat(ctx context.Context, name string) (os.FileInfo, error) {
	it, err := fs.lookup(ctx, name)
	if err != nil {
		return nil, err
	}
	return fileInfo{it}, nil
}

func (fs *treeFS) OpenFile(ctx context.Context, name string, flag int, perm os.FileMode) (webdav.File, error) {
	if flag != os.O_RDONLY {
		return nil, os.ErrPermission
	}
	it, err := fs.lookup(ctx, name)
	if err != nil {
		return nil, err
	}
	if it.Kind.IsFolder() {
		children, err := fs.cache.QueryItems(ctx, fs.headRevision(ctx), it.Name, cvcs.RecursionOneLevel)
		if err != nil {
			return nil, err
		}
		var dentries []os.FileInfo
		for _, c := range children {
			if c.Name == it.Name {
				continue
			}
			dentries = append(dentries, fileInfo{c})
		}
		return &dirFile{info: fileInfo{it}, entries: dentries}, nil
	}
	data, _, err := fs.readContent(ctx, it)
	if err != nil {
		return nil, err
	}
	return newFileHandle(fileInfo{it}, data), nil
}

func (fs *treeFS) lookup(ctx context.Context, name string) (*item.Item, error) {
	clean := path.Clean("/" + strings.TrimPrefix(name, "/"))
	rev := fs.headRevision(ctx)
	items, err := fs.cache.QueryItems(ctx, rev, clean, cvcs.RecursionNone)
	if err != nil {
		return nil, err
	}
	for _, it := range items {
		if it.Name == clean {
			return it, nil
		}
	}
	return nil, os.ErrNotExist
}

func (fs *treeFS) headRevision(ctx context.Context) cvcs.Revision {
	rev, err := fs.client.LatestRevision(ctx)
	if err != nil {
		return 0
	}
	return rev
}

// readContent fetches one file's bytes via the CVCS client's async
// primitive, driven synchronously for this single-item GET — the buffered
// producer/consumer pipeline in pkg/loader is for prefetching a whole
// checkout tree ahead of a REPORT response, not a standalone GET.
func (fs *treeFS) readContent(ctx context.Context, it *item.Item) ([]byte, string, error) {
	done := make(chan error, 1)
	h, err := fs.client.BeginReadFile(ctx, it, func(_ cvcs.ReadHandle, ferr error) {
		done <- ferr
	})
	if err != nil {
		return nil, "", err
	}
	select {
	case err := <-done:
		if err != nil {
			return nil, "", err
		}
	case <-ctx.Done():
		return nil, "", ctx.Err()
	}
	return fs.client.EndReadFile(h)
}
