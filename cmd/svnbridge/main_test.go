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
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

func TestConfigureLoggingLevel(t *testing.T) {
	defer logrus.SetLevel(logrus.InfoLevel)

	configureLogging("warn", false)
	assert.Equal(t, logrus.WarnLevel, logrus.GetLevel())
}

func TestConfigureLoggingInvalidLevelLeavesLevelUnchanged(t *testing.T) {
	logrus.SetLevel(logrus.InfoLevel)
	defer logrus.SetLevel(logrus.InfoLevel)

	configureLogging("not-a-level", false)
	assert.Equal(t, logrus.InfoLevel, logrus.GetLevel())
}

func TestConfigureLoggingJSON(t *testing.T) {
	defer logrus.SetFormatter(&logrus.TextFormatter{})

	configureLogging("info", true)
	_, ok := logrus.StandardLogger().Formatter.(*logrus.JSONFormatter)
	assert.True(t, ok)
}

func TestRootCommandRegistersSubcommands(t *testing.T) {
	names := map[string]bool{}
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}
	assert.True(t, names["serve"])
	assert.True(t, names["cache-stats"])
}
