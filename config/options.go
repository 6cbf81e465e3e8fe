// Copyright (c) 2025 Yahya Qadeer Dar. All rights reserved.
// Use of this source code is governed by an Apache 2.0 license that can be found in the LICENSE file.

package config

import (
	"github.com/YahyaDar/querybuilder/errors"
)

// WithDefault sets a default configuration value
func WithDefault(key string, value interface{}) Option {
	return func(cfg *Config) {
		cfg.defaults[key] = value
	}
}

// WithDefaults sets multiple default configuration values
func WithDefaults(values map[string]interface{}) Option {
	return func(cfg *Config) {
		for k, v := range values {
			cfg.defaults[k] = v
		}
	}
}

// WithEnvPrefix changes the environment variable prefix. An empty
// prefix disables environment lookups.
func WithEnvPrefix(prefix string) Option {
	return func(cfg *Config) {
		cfg.envPrefix = prefix
	}
}

// WithValidator adds a validator to the configuration
func WithValidator(validator Validator) Option {
	return func(cfg *Config) {
		cfg.validators = append(cfg.validators, validator)
	}
}

// WithRequiredKeys adds a validator that ensures certain keys are present
func WithRequiredKeys(keys ...string) Option {
	return func(cfg *Config) {
		cfg.validators = append(cfg.validators, NewRequiredKeysValidator(cfg, keys...))
	}
}

// RequiredKeysValidator validates that certain keys are present
type RequiredKeysValidator struct {
	cfg  *Config
	keys []string
}

// NewRequiredKeysValidator creates a new RequiredKeysValidator
func NewRequiredKeysValidator(cfg *Config, keys ...string) *RequiredKeysValidator {
	return &RequiredKeysValidator{
		cfg:  cfg,
		keys: keys,
	}
}

// Validate checks if all required keys are present and non-empty
func (v *RequiredKeysValidator) Validate() error {
	for _, key := range v.keys {
		value, ok := v.cfg.Get(key)
		if !ok || value == nil || value == "" {
			return errors.NewConfigError("required key missing", nil).WithKey(key)
		}
	}
	return nil
}

// ValidatorFunc adapts a function to the Validator interface.
type ValidatorFunc func() error

// Validate calls f.
func (f ValidatorFunc) Validate() error { return f() }
