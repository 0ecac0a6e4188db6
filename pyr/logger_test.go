// Copyright 2025 go-pyramid Authors. SPDX-License-Identifier: Apache-2.0

package pyr

import (
	"bytes"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
)

func TestLoggerDefaultSilent(t *testing.T) {
	if Logger() == nil {
		t.Fatal("Logger() returned nil")
	}
	// Must not panic or write anywhere.
	Logger().WithField("k", 1).Debug("hidden")
}

func TestSetLogger(t *testing.T) {
	var buf bytes.Buffer
	l := logrus.New()
	l.SetOutput(&buf)
	l.SetLevel(logrus.DebugLevel)
	l.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})

	SetLogger(l)
	defer SetLogger(nil)

	Logger().WithField("level_count", 3).Debug("plan built")
	if !strings.Contains(buf.String(), "plan built") || !strings.Contains(buf.String(), "level_count=3") {
		t.Errorf("log output: got %q", buf.String())
	}

	SetLogger(nil)
	buf.Reset()
	Logger().Info("dropped")
	if buf.Len() != 0 {
		t.Errorf("after SetLogger(nil): got %q, want no output", buf.String())
	}
}
