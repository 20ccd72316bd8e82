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

package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"svnbridge.example.com/svnbridge/internal/httphandlers"
	"svnbridge.example.com/svnbridge/pkg/config"
	"svnbridge.example.com/svnbridge/pkg/cvcs/httpcvcs"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the bridge's HTTP server",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configFile)
	if err != nil {
		return err
	}
	configureLogging(cfg.Logging.Level, cfg.Logging.JSON)
	log := logrus.WithField("component", "svnbridge")

	client := httpcvcs.New(cfg.HTTPCVCSConfig(), cfg.Credentials(), cfg.CVCSOptions())

	reg := prometheus.NewRegistry()
	srv := httphandlers.NewServer(client, httphandlers.Options{
		CasePolicy: cfg.CasePolicy(),
		DiffEngine: cfg.DiffEngineOptions(),
		Loader:     cfg.LoaderConfig(),
	}, reg, log)

	httpServer := &http.Server{Addr: cfg.Server.ListenAddr, Handler: srv}

	var metricsServer *http.Server
	if cfg.Metrics.Enabled {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
		metricsServer = &http.Server{Addr: cfg.Metrics.ListenAddr, Handler: mux}
		go func() {
			if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.WithError(err).Error("metrics server stopped")
			}
		}()
		log.WithField("addr", cfg.Metrics.ListenAddr).Info("metrics server listening")
	}

	serverErr := make(chan error, 1)
	go func() {
		log.WithField("addr", cfg.Server.ListenAddr).Info("bridge server listening")
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
			return
		}
		serverErr <- nil
	}()

	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-sigc:
		log.Info("shutdown signal received")
	case err := <-serverErr:
		if err != nil {
			return err
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		log.WithError(err).Warn("graceful shutdown did not complete in time")
	}
	if metricsServer != nil {
		_ = metricsServer.Shutdown(ctx)
	}
	return nil
}
