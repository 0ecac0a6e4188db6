// Copyright 2025 go-pyramid Authors. SPDX-License-Identifier: Apache-2.0

package resize

import (
	"github.com/sirupsen/logrus"

	"github.com/ajroetker/go-pyramid/pyr"
	"github.com/ajroetker/go-pyramid/pyr/engine"
)

type config struct {
	border      engine.Border
	borderValue float64
	logger      logrus.FieldLogger
}

func (c *config) log() logrus.FieldLogger {
	if c.logger != nil {
		return c.logger
	}
	return pyr.Logger()
}

func defaultConfig() config {
	return config{border: engine.BorderReplicate}
}

// Option configures an Operator.
type Option func(*config)

// WithBorder selects how samples outside the source are synthesized.
// The default is engine.BorderReplicate.
func WithBorder(b engine.Border) Option {
	return func(cfg *config) {
		cfg.border = b
	}
}

// WithBorderValue selects engine.BorderConstant with the given value,
// converted to the operator's element type.
func WithBorderValue(v float64) Option {
	return func(cfg *config) {
		cfg.border = engine.BorderConstant
		cfg.borderValue = v
	}
}

// WithLogger routes the operator's log entries to l instead of pyr.Logger().
func WithLogger(l logrus.FieldLogger) Option {
	return func(cfg *config) {
		cfg.logger = l
	}
}
