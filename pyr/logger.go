// Copyright 2025 go-pyramid Authors. SPDX-License-Identifier: Apache-2.0

package pyr

import (
	"io"
	"sync/atomic"

	"github.com/sirupsen/logrus"
)

// loggerBox wraps the interface so atomic.Pointer has a concrete type.
type loggerBox struct {
	l logrus.FieldLogger
}

var loggerPtr atomic.Pointer[loggerBox]

func init() {
	loggerPtr.Store(&loggerBox{l: newNopLogger()})
}

func newNopLogger() logrus.FieldLogger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	l.SetLevel(logrus.PanicLevel)
	return l
}

// SetLogger configures the logger used by pyr and all its sub-packages.
// By default nothing is logged. Pass nil to restore the silent default.
//
// Levels used:
//   - Debug: pyramid levels, filter spec and work buffer sizes
//   - Info: pool lifecycle
//   - Warn: engine approximations (e.g. OpenCV ignoring cubic B/C)
//
// SetLogger is safe for concurrent use.
func SetLogger(l logrus.FieldLogger) {
	if l == nil {
		l = newNopLogger()
	}
	loggerPtr.Store(&loggerBox{l: l})
}

// Logger returns the current logger.
func Logger() logrus.FieldLogger {
	return loggerPtr.Load().l
}
