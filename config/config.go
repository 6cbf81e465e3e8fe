// Copyright (c) 2025 Yahya Qadeer Dar. All rights reserved.
// Use of this source code is governed by an Apache 2.0 license that can be found in the LICENSE file.

// Package config loads query builder settings from files, environment
// variables and defaults. Files may be YAML, JSON or TOML. Environment
// variables override files: QB_DATABASE_DSN sets database.dsn.
package config

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/YahyaDar/querybuilder/errors"
)

// DefaultEnvPrefix prefixes the environment variables read by New.
const DefaultEnvPrefix = "QB"

// Validator defines the interface for configuration validation
type Validator interface {
	// Validate validates the configuration
	Validate() error
}

// Config is the main configuration container
type Config struct {
	// mu protects access to the configuration
	mu sync.RWMutex

	v *viper.Viper

	// validators stores the configuration validators
	validators []Validator

	envPrefix string
	defaults  map[string]interface{}
}

// Option is a function that configures a Config
type Option func(*Config)

// New creates a new configuration with the given options
func New(options ...Option) *Config {
	c := &Config{
		v:         viper.New(),
		envPrefix: DefaultEnvPrefix,
		defaults:  defaultValues(),
	}

	for _, option := range options {
		option(c)
	}

	for k, v := range c.defaults {
		c.v.SetDefault(k, v)
	}
	if c.envPrefix != "" {
		c.v.SetEnvPrefix(c.envPrefix)
		c.v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
		c.v.AutomaticEnv()
	}

	return c
}

// Load creates a configuration and reads the file at path into it.
func Load(path string, options ...Option) (*Config, error) {
	c := New(options...)
	if err := c.ReadFile(path); err != nil {
		return nil, err
	}
	return c, nil
}

// ReadFile reads a YAML, JSON or TOML file, chosen by extension.
func (c *Config) ReadFile(path string) error {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
	switch ext {
	case "yaml", "yml", "json", "toml":
	default:
		return errors.NewConfigError("unsupported config file format", nil).WithKey("config").WithValue(path)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.v.SetConfigFile(path)
	c.v.SetConfigType(ext)
	if err := c.v.ReadInConfig(); err != nil {
		return errors.NewConfigError("cannot read config file", err).WithKey("config").WithValue(path)
	}
	return nil
}

// File returns the path of the file read, or "".
func (c *Config) File() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.v.ConfigFileUsed()
}

// Get retrieves a configuration value
func (c *Config) Get(key string) (interface{}, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if !c.v.IsSet(key) {
		return nil, false
	}
	return c.v.Get(key), true
}

// Has checks if a configuration key exists
func (c *Config) Has(key string) bool {
	_, ok := c.Get(key)
	return ok
}

// Set overrides a configuration value
func (c *Config) Set(key string, value interface{}) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.v.Set(key, value)
}

// GetString retrieves a string configuration value
func (c *Config) GetString(key string) (string, error) {
	value, ok := c.Get(key)
	if !ok {
		return "", errors.NewConfigError("key not found", nil).WithKey(key)
	}

	if str, ok := value.(string); ok {
		return str, nil
	}

	return fmt.Sprintf("%v", value), nil
}

// GetInt retrieves an integer configuration value
func (c *Config) GetInt(key string) (int, error) {
	value, ok := c.Get(key)
	if !ok {
		return 0, errors.NewConfigError("key not found", nil).WithKey(key)
	}

	switch v := value.(type) {
	case int:
		return v, nil
	case int64:
		return int(v), nil
	case float64:
		return int(v), nil
	case string:
		i, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return 0, errors.NewConfigError("invalid integer value", err).WithKey(key).WithValue(v)
		}
		return i, nil
	}

	return 0, errors.NewConfigError("invalid integer value", nil).WithKey(key).WithValue(value)
}

// GetBool retrieves a boolean configuration value
func (c *Config) GetBool(key string) (bool, error) {
	value, ok := c.Get(key)
	if !ok {
		return false, errors.NewConfigError("key not found", nil).WithKey(key)
	}

	switch v := value.(type) {
	case bool:
		return v, nil
	case int:
		return v != 0, nil
	case string:
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "true", "yes", "1", "on", "t", "y":
			return true, nil
		case "false", "no", "0", "off", "f", "n":
			return false, nil
		}
	}

	return false, errors.NewConfigError("invalid boolean value", nil).WithKey(key).WithValue(value)
}

// GetDuration retrieves a duration. Bare numbers are seconds.
func (c *Config) GetDuration(key string) (time.Duration, error) {
	value, ok := c.Get(key)
	if !ok {
		return 0, errors.NewConfigError("key not found", nil).WithKey(key)
	}

	switch v := value.(type) {
	case time.Duration:
		return v, nil
	case int:
		return time.Duration(v) * time.Second, nil
	case int64:
		return time.Duration(v) * time.Second, nil
	case float64:
		return time.Duration(v * float64(time.Second)), nil
	case string:
		d, err := time.ParseDuration(strings.TrimSpace(v))
		if err != nil {
			return 0, errors.NewConfigError("invalid duration value", err).WithKey(key).WithValue(v)
		}
		return d, nil
	}

	return 0, errors.NewConfigError("invalid duration value", nil).WithKey(key).WithValue(value)
}

// GetStringSlice retrieves a string slice. A string value is split on commas.
func (c *Config) GetStringSlice(key string) ([]string, error) {
	value, ok := c.Get(key)
	if !ok {
		return nil, errors.NewConfigError("key not found", nil).WithKey(key)
	}

	switch v := value.(type) {
	case []string:
		return v, nil
	case []interface{}:
		result := make([]string, len(v))
		for i, val := range v {
			result[i] = fmt.Sprintf("%v", val)
		}
		return result, nil
	case string:
		if v == "" {
			return []string{}, nil
		}
		parts := strings.Split(v, ",")
		for i := range parts {
			parts[i] = strings.TrimSpace(parts[i])
		}
		return parts, nil
	}

	return nil, errors.NewConfigError("invalid string slice value", nil).WithKey(key).WithValue(value)
}

// Unmarshal decodes every setting into Settings and validates it.
func (c *Config) Unmarshal() (*Settings, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	var s Settings
	if err := c.v.Unmarshal(&s); err != nil {
		return nil, errors.NewConfigError("cannot decode settings", err)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// UnmarshalKey decodes the subtree at key into out.
func (c *Config) UnmarshalKey(key string, out interface{}) error {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if err := c.v.UnmarshalKey(key, out); err != nil {
		return errors.NewConfigError("cannot decode settings", err).WithKey(key)
	}
	return nil
}

// AddValidator registers a validator run by Validate.
func (c *Config) AddValidator(validator Validator) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.validators = append(c.validators, validator)
}

// Validate runs every registered validator and stops at the first failure.
func (c *Config) Validate() error {
	c.mu.RLock()
	validators := append([]Validator(nil), c.validators...)
	c.mu.RUnlock()

	for _, v := range validators {
		if err := v.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// Watch re-reads the config file whenever it changes and calls fn
// afterwards. It needs a file read with Load or ReadFile.
func (c *Config) Watch(fn func(fsnotify.Event)) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.v.ConfigFileUsed() == "" {
		return errors.NewConfigError("no config file to watch", nil).WithKey("config")
	}
	c.v.OnConfigChange(func(e fsnotify.Event) {
		if fn != nil {
			fn(e)
		}
	})
	c.v.WatchConfig()
	return nil
}

// BindFlag lets a command line flag override key when the flag is set.
func (c *Config) BindFlag(key string, flag *pflag.Flag) error {
	if flag == nil {
		return errors.NewConfigError("unknown flag", nil).WithKey(key)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.v.BindPFlag(key, flag); err != nil {
		return errors.NewConfigError("cannot bind flag", err).WithKey(key).WithValue(flag.Name)
	}
	return nil
}
