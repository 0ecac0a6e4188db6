// Copyright 2025 go-pyramid Authors. SPDX-License-Identifier: Apache-2.0

package pyramid

import (
	"github.com/sirupsen/logrus"

	"github.com/ajroetker/go-pyramid/pyr"
	"github.com/ajroetker/go-pyramid/pyr/engine"
	"github.com/ajroetker/go-pyramid/pyr/resize"
)

type config struct {
	policy Policy
	kind   engine.Kind
	opOpts []resize.Option
	logger logrus.FieldLogger
}

func defaultConfig() config {
	return config{
		policy: ContinueWhileAny,
		kind:   engine.Linear(),
	}
}

func (c *config) log() logrus.FieldLogger {
	if c.logger != nil {
		return c.logger
	}
	return pyr.Logger()
}

// Option configures a Pyramid or Pool.
type Option func(*config)

// WithPolicy selects the loop termination policy. Default ContinueWhileAny.
func WithPolicy(p Policy) Option {
	return func(cfg *config) {
		cfg.policy = p
	}
}

// WithKind selects the interpolation used for every step. Default linear.
func WithKind(k engine.Kind) Option {
	return func(cfg *config) {
		cfg.kind = k
	}
}

// WithBorder sets the border policy of every step. Default replicate.
func WithBorder(b engine.Border) Option {
	return func(cfg *config) {
		cfg.opOpts = append(cfg.opOpts, resize.WithBorder(b))
	}
}

// WithBorderValue selects a constant border with value v for every step.
func WithBorderValue(v float64) Option {
	return func(cfg *config) {
		cfg.opOpts = append(cfg.opOpts, resize.WithBorderValue(v))
	}
}

// WithLogger overrides pyr.Logger for this pyramid.
func WithLogger(l logrus.FieldLogger) Option {
	return func(cfg *config) {
		cfg.logger = l
	}
}
