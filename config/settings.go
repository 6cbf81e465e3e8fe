// Copyright (c) 2025 Yahya Qadeer Dar. All rights reserved.
// Use of this source code is governed by an Apache 2.0 license that can be found in the LICENSE file.

package config

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/YahyaDar/querybuilder/errors"
	"github.com/YahyaDar/querybuilder/grammar"
	"github.com/YahyaDar/querybuilder/log"
)

// Settings is the decoded form of a configuration file.
type Settings struct {
	Database DatabaseConfig `mapstructure:"database" json:"database"`
	Logging  LoggingConfig  `mapstructure:"logging" json:"logging"`
	Builder  BuilderConfig  `mapstructure:"builder" json:"builder"`
}

// Validate checks every section.
func (s *Settings) Validate() error {
	if err := s.Logging.Validate(); err != nil {
		return err
	}
	return s.Database.validatePool()
}

// DatabaseConfig holds database connection configuration
type DatabaseConfig struct {
	// Driver is the database/sql driver name: postgres, mysql, sqlite3 or sqlite
	Driver string `mapstructure:"driver" json:"driver"`

	// DSN is the data source name
	DSN string `mapstructure:"dsn" json:"dsn"`

	// Dialect overrides the dialect detected from the driver
	Dialect string `mapstructure:"dialect" json:"dialect,omitempty"`

	MaxOpenConns    int           `mapstructure:"max_open_conns" json:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns" json:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime" json:"conn_max_lifetime"`
	ConnMaxIdleTime time.Duration `mapstructure:"conn_max_idle_time" json:"conn_max_idle_time"`
}

// Validate checks what is needed to open a connection.
func (c *DatabaseConfig) Validate() error {
	if c.Driver == "" {
		return errors.NewConfigError("driver is required", nil).WithKey("database.driver")
	}
	if c.DSN == "" {
		return errors.NewConfigError("dsn is required", nil).WithKey("database.dsn")
	}
	return c.validatePool()
}

// validatePool checks the parts that have defaults, so a config used
// only for rendering SQL needs no driver.
func (c *DatabaseConfig) validatePool() error {
	if c.Dialect != "" {
		if _, err := grammar.ByName(c.Dialect); err != nil {
			return errors.NewConfigError("unknown dialect", err).WithKey("database.dialect").WithValue(c.Dialect)
		}
	}
	if c.MaxOpenConns < 0 {
		return errors.NewConfigError("max open connections cannot be negative", nil).
			WithKey("database.max_open_conns").WithValue(c.MaxOpenConns)
	}
	if c.MaxIdleConns < 0 {
		return errors.NewConfigError("max idle connections cannot be negative", nil).
			WithKey("database.max_idle_conns").WithValue(c.MaxIdleConns)
	}
	if c.MaxOpenConns > 0 && c.MaxIdleConns > c.MaxOpenConns {
		return errors.NewConfigError("max idle connections cannot exceed max open connections", nil).
			WithKey("database.max_idle_conns").WithValue(c.MaxIdleConns)
	}
	return nil
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	// Level is one of trace, debug, info, warn, error, fatal, silent
	Level string `mapstructure:"level" json:"level"`

	// Format is text or json
	Format string `mapstructure:"format" json:"format"`

	// Output is stdout, stderr or file
	Output string `mapstructure:"output" json:"output"`

	// FilePath is required when Output is file
	FilePath string `mapstructure:"file_path" json:"file_path,omitempty"`

	Colors       bool `mapstructure:"colors" json:"colors"`
	ReportCaller bool `mapstructure:"report_caller" json:"report_caller"`
}

// Validate validates the logging configuration
func (c *LoggingConfig) Validate() error {
	if _, err := log.ParseLevel(c.Level); err != nil {
		return errors.NewConfigError("invalid log level", err).WithKey("logging.level").WithValue(c.Level)
	}

	switch strings.ToLower(c.Format) {
	case "", "text", "json":
	default:
		return errors.NewConfigError("invalid log format", nil).WithKey("logging.format").WithValue(c.Format)
	}

	switch strings.ToLower(c.Output) {
	case "", "stdout", "stderr":
	case "file":
		if c.FilePath == "" {
			return errors.NewConfigError("file path is required for file output", nil).WithKey("logging.file_path")
		}
	default:
		return errors.NewConfigError("invalid log output", nil).WithKey("logging.output").WithValue(c.Output)
	}

	return nil
}

// Writer returns the log destination. A file is opened for appending.
func (c *LoggingConfig) Writer() (io.Writer, error) {
	switch strings.ToLower(c.Output) {
	case "stdout":
		return os.Stdout, nil
	case "", "stderr":
		return os.Stderr, nil
	case "file":
		if c.FilePath == "" {
			return nil, errors.NewConfigError("file path is required for file output", nil).WithKey("logging.file_path")
		}
		file, err := os.OpenFile(c.FilePath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, errors.NewConfigError("cannot open log file", err).WithKey("logging.file_path").WithValue(c.FilePath)
		}
		return file, nil
	}
	return nil, errors.NewConfigError("invalid log output", nil).WithKey("logging.output").WithValue(c.Output)
}

// LoggerOptions converts the configuration into logger options. The
// output is left to the caller.
func (c *LoggingConfig) LoggerOptions() ([]log.Option, error) {
	level, err := log.ParseLevel(c.Level)
	if err != nil {
		return nil, errors.NewConfigError("invalid log level", err).WithKey("logging.level").WithValue(c.Level)
	}

	options := []log.Option{
		log.WithLevel(level),
		log.WithColors(c.Colors),
		log.WithCaller(c.ReportCaller),
	}
	if strings.EqualFold(c.Format, "json") {
		options = append(options, log.WithFormatter(log.NewJSONFormatter()))
	} else {
		options = append(options, log.WithFormatter(log.NewTextFormatter()))
	}
	return options, nil
}

// NewLogger builds a logger writing to the configured output. Options
// given here are applied last.
func (c *LoggingConfig) NewLogger(extra ...log.Option) (*log.DefaultLogger, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	options, err := c.LoggerOptions()
	if err != nil {
		return nil, err
	}
	w, err := c.Writer()
	if err != nil {
		return nil, err
	}
	options = append(options, log.WithOutput(w))
	options = append(options, extra...)
	return log.NewLogger(options...), nil
}

// BuilderConfig tunes query builders created from a configuration.
type BuilderConfig struct {
	// LogQueries logs every executed statement at debug level
	LogQueries bool `mapstructure:"log_queries" json:"log_queries"`
}

func defaultValues() map[string]interface{} {
	return map[string]interface{}{
		"database.driver":             "",
		"database.dsn":                "",
		"database.dialect":            "",
		"database.max_open_conns":     10,
		"database.max_idle_conns":     5,
		"database.conn_max_lifetime":  5 * time.Minute,
		"database.conn_max_idle_time": 2 * time.Minute,
		"logging.level":               "info",
		"logging.format":              "text",
		"logging.output":              "stderr",
		"logging.file_path":           "",
		"logging.colors":              false,
		"logging.report_caller":       false,
		"builder.log_queries":         true,
	}
}
