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

package httpcvcs

import (
	"time"

	"svnbridge.example.com/svnbridge/pkg/item"
)

// wireItem is the JSON shape one item takes on the wire; toItem converts
// it into pkg/item's in-memory model.
type wireItem struct {
	Path             string            `json:"path"`
	IsFolder         bool              `json:"isFolder"`
	ItemRevision     int64             `json:"itemRevision"`
	PropertyRevision int64             `json:"propertyRevision"`
	LastModified     time.Time         `json:"lastModified"`
	Author           string            `json:"author"`
	Properties       map[string]string `json:"properties,omitempty"`
}

func toItem(w wireItem) *item.Item {
	var it *item.Item
	if w.IsFolder {
		it = item.NewFolder(w.Path, w.ItemRevision, w.LastModified, w.Author)
	} else {
		it = item.NewFile(w.Path, w.ItemRevision, w.LastModified, w.Author)
	}
	it.PropertyRevision = w.PropertyRevision
	if w.Properties != nil {
		it.Properties = w.Properties
	}
	return it
}

func toItems(ws []wireItem) []*item.Item {
	out := make([]*item.Item, len(ws))
	for i, w := range ws {
		out[i] = toItem(w)
	}
	return out
}

// queryItemsRequest/queryItemsResponse back QueryItems and
// QueryItemsByPaths: the single-path call is just the array form with one
// element, matching cvcs.Client's documented "union of per-path calls"
// semantics.
type queryItemsRequest struct {
	Paths     []string `json:"paths"`
	Recursion int      `json:"recursion"`
	Revision  int64    `json:"revision"`
}

type queryItemsResponse struct {
	Items []wireItem `json:"items"`
}

type queryItemsByIDRequest struct {
	IDs      []int64 `json:"ids"`
	Revision int64   `json:"revision"`
}

// previousVersionRequest/Response resolve renames: nulls in the response
// array mark items with no previous-version identity (a genuine add).
type previousVersionRequest struct {
	Paths    []string `json:"paths"`
	Revision int64    `json:"revision"`
}

type previousVersionResponse struct {
	Items []*wireItem `json:"items"`
}

// changesBetweenRequest/Response back GetChangesBetween.
type changesBetweenRequest struct {
	Path    string `json:"path"`
	FromRev int64  `json:"fromRev"`
	ToRev   int64  `json:"toRev"`
}

type wireChange struct {
	Path        string `json:"path"`
	IsFolder    bool   `json:"isFolder"`
	ChangesetID int64  `json:"changesetId"`
	Flags       uint8  `json:"flags"`
}

type changesBetweenResponse struct {
	Changes []wireChange `json:"changes"`
}

func toChange(w wireChange) *item.SourceItemChange {
	kind := item.ChangeKindFile
	if w.IsFolder {
		kind = item.ChangeKindFolder
	}
	return &item.SourceItemChange{
		Path:        w.Path,
		ChangeKind:  kind,
		ChangesetID: w.ChangesetID,
		Flags:       item.ChangeFlag(w.Flags),
	}
}
