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
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
	"golang.org/x/net/webdav"

	"svnbridge.example.com/svnbridge/pkg/cvcs"
	"svnbridge.example.com/svnbridge/pkg/diffengine"
	"svnbridge.example.com/svnbridge/pkg/loader"
	"svnbridge.example.com/svnbridge/pkg/metacache"
	"svnbridge.example.com/svnbridge/pkg/pathutil"
)

// Server is the bridge's http.Handler: REPORT goes through handleReport,
// everything else (GET, PROPFIND, OPTIONS, HEAD) is delegated to a wrapped
// webdav.Handler over treeFS, mirroring app/webdav's newWebdavHandler.
type Server struct {
	cache     *metacache.Cache
	client    cvcs.Client
	diffOpts  diffengine.Options
	loaderCfg loader.Config
	log       *logrus.Entry
	webdav    *webdav.Handler
}

// Options bundles the knobs NewServer needs beyond the CVCS client — the
// same projection pkg/config.Config exposes via its CasePolicy,
// DiffEngineOptions and LoaderConfig methods.
type Options struct {
	CasePolicy pathutil.CasePolicy
	DiffEngine diffengine.Options
	Loader     loader.Config
}

// NewServer builds a Server. reg may be nil to skip metrics registration.
func NewServer(client cvcs.Client, opts Options, reg prometheus.Registerer, log *logrus.Entry) *Server {
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	cache := metacache.New(client, opts.CasePolicy, reg)
	s := &Server{
		cache:     cache,
		client:    client,
		diffOpts:  opts.DiffEngine,
		loaderCfg: opts.Loader,
		log:       log,
	}
	s.webdav = &webdav.Handler{
		FileSystem: &treeFS{cache: cache, client: client},
		LockSystem: webdav.NewMemLS(),
		Logger: func(r *http.Request, err error) {
			if err != nil {
				s.log.WithError(err).WithField("method", r.Method).Warn("webdav handler error")
			}
		},
	}
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method == "REPORT" {
		s.handleReport(w, r)
		return
	}
	s.webdav.ServeHTTP(w, r)
}
