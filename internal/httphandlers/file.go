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
	"bytes"
	"io"
	"os"
	"path"
	"time"

	"svnbridge.example.com/svnbridge/pkg/item"
)

// fileInfo adapts an *item.Item to os.FileInfo.
type fileInfo struct {
	it *item.Item
}

func (fi fileInfo) Name() string       { return path.Base(fi.it.Name) }
func (fi fileInfo) Size() int64        { return int64(len(fi.it.Content)) }
func (fi fileInfo) ModTime() time.Time { return fi.it.LastModified }
func (fi fileInfo) IsDir() bool        { return fi.it.Kind.IsFolder() }
func (fi fileInfo) Sys() interface{}   { return fi.it }

func (fi fileInfo) Mode() os.FileMode {
	if fi.IsDir() {
		return os.ModeDir | 0555
	}
	return 0444
}

// fileHandle is a read-only webdav.File backed by eagerly-fetched bytes.
type fileHandle struct {
	info fileInfo
	r    *bytes.Reader
}

func newFileHandle(info fileInfo, data []byte) *fileHandle {
	return &fileHandle{info: info, r: bytes.NewReader(data)}
}

func (f *fileHandle) Close() error                             { return nil }
func (f *fileHandle) Read(p []byte) (int, error)                { return f.r.Read(p) }
func (f *fileHandle) Seek(off int64, whence int) (int64, error) { return f.r.Seek(off, whence) }
func (f *fileHandle) Stat() (os.FileInfo, error)                { return f.info, nil }
func (f *fileHandle) Write(p []byte) (int, error)               { return 0, os.ErrPermission }
func (f *fileHandle) Readdir(count int) ([]os.FileInfo, error) {
	return nil, os.ErrInvalid // not a directory
}

// dirFile is a read-only webdav.File listing a folder's direct children.
type dirFile struct {
	info    fileInfo
	entries []os.FileInfo
	pos     int
}

func (d *dirFile) Close() error { return nil }
func (d *dirFile) Read(p []byte) (int, error) {
	return 0, os.ErrInvalid // directories have no byte content
}
func (d *dirFile) Seek(off int64, whence int) (int64, error) {
	return 0, os.ErrInvalid
}
func (d *dirFile) Stat() (os.FileInfo, error)  { return d.info, nil }
func (d *dirFile) Write(p []byte) (int, error) { return 0, os.ErrPermission }

func (d *dirFile) Readdir(count int) ([]os.FileInfo, error) {
	if count <= 0 {
		out := d.entries[d.pos:]
		d.pos = len(d.entries)
		return out, nil
	}
	if d.pos >= len(d.entries) {
		return nil, io.EOF
	}
	end := d.pos + count
	if end > len(d.entries) {
		end = len(d.entries)
	}
	out := d.entries[d.pos:end]
	d.pos = end
	return out, nil
}
