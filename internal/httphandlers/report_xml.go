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
	"encoding/xml"

	"svnbridge.example.com/svnbridge/pkg/item"
)

// updateReportRequest is the decoded form of the REPORT body this bridge
// expects (spec.md §3 ReportedState): the revision the client wants to
// update to, the checkout root within the server's tree, and the client's
// reported state vector. The element/attribute names are this package's
// own convention — spec.md explicitly leaves the wire dialect unspecified.
type updateReportRequest struct {
	XMLName      xml.Name          `xml:"update-report"`
	TargetRev    int64             `xml:"target-revision"`
	CheckoutRoot string            `xml:"checkout-root"`
	Existing     []existingEntry   `xml:"existing>entry"`
	Missing      []missingEntry    `xml:"missing>entry"`
}

type existingEntry struct {
	Path     string `xml:"path,attr"`
	Revision int64  `xml:"rev,attr"`
}

type missingEntry struct {
	Path   string `xml:"path,attr"`
	Cookie string `xml:"cookie,attr"`
}

func (r *updateReportRequest) clientState() *item.ClientStateVector {
	v := item.NewClientStateVector()
	for _, e := range r.Existing {
		v.Existing[e.Path] = e.Revision
	}
	for _, m := range r.Missing {
		v.Missing[m.Path] = m.Cookie
	}
	return v
}

// updateReportResponse serializes the tree Apply produced. Each entry
// mirrors one item.Item's externally-relevant fields; tombstones and
// missing markers carry no content.
type updateReportResponse struct {
	XMLName xml.Name       `xml:"update-report-response"`
	Entries []responseEntry `xml:"entry"`
}

type responseEntry struct {
	Path       string `xml:"path,attr"`
	Kind       string `xml:"kind,attr"`
	Revision   int64  `xml:"rev,attr"`
	Author     string `xml:"author,attr,omitempty"`
	ContentMD5 string `xml:"md5,attr,omitempty"`
}

func buildResponse(root *item.Item) *updateReportResponse {
	resp := &updateReportResponse{}
	var walk func(it *item.Item)
	walk = func(it *item.Item) {
		resp.Entries = append(resp.Entries, responseEntry{
			Path:       it.Name,
			Kind:       it.Kind.String(),
			Revision:   it.Revision(),
			Author:     it.Author,
			ContentMD5: it.ContentMD5,
		})
		if it.Kind.IsFolder() && it.AsFolder() != nil {
			for _, child := range it.AsFolder().Children() {
				walk(child)
			}
		}
	}
	walk(root)
	return resp
}
