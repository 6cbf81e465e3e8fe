// Copyright (c) 2025 Yahya Qadeer Dar. All rights reserved.
// Use of this source code is governed by an Apache 2.0 license that can be found in the LICENSE file.

package config

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/YahyaDar/querybuilder/errors"
	"github.com/YahyaDar/querybuilder/log"
)

const sampleYAML = `
database:
  driver: postgres
  dsn: postgres://localhost/app?sslmode=disable
  max_open_conns: 20
  conn_max_lifetime: 30s
logging:
  level: debug
  format: json
builder:
  log_queries: false
`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadYAML(t *testing.T) {
	cfg, err := Load(writeFile(t, "qb.yaml", sampleYAML))
	require.NoError(t, err)

	s, err := cfg.Unmarshal()
	require.NoError(t, err)
	assert.Equal(t, "postgres", s.Database.Driver)
	assert.Equal(t, "postgres://localhost/app?sslmode=disable", s.Database.DSN)
	assert.Equal(t, 20, s.Database.MaxOpenConns)
	assert.Equal(t, 5, s.Database.MaxIdleConns)
	assert.Equal(t, 30*time.Second, s.Database.ConnMaxLifetime)
	assert.Equal(t, 2*time.Minute, s.Database.ConnMaxIdleTime)
	assert.Equal(t, "debug", s.Logging.Level)
	assert.Equal(t, "json", s.Logging.Format)
	assert.Equal(t, "stderr", s.Logging.Output)
	assert.False(t, s.Builder.LogQueries)
	require.NoError(t, s.Database.Validate())
}

func TestLoadJSON(t *testing.T) {
	cfg, err := Load(writeFile(t, "qb.json", `{"database": {"driver": "mysql", "dsn": "root@/app"}}`))
	require.NoError(t, err)

	driver, err := cfg.GetString("database.driver")
	require.NoError(t, err)
	assert.Equal(t, "mysql", driver)
	assert.NotEmpty(t, cfg.File())
}

func TestLoadRejectsUnknownFormat(t *testing.T) {
	_, err := Load(writeFile(t, "qb.ini", "driver=mysql"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrConfiguration))
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
	assert.Equal(t, errors.KindConfiguration, errors.KindOf(err))
}

func TestEnvironmentOverridesFile(t *testing.T) {
	t.Setenv("QB_DATABASE_DSN", "postgres://env/app")
	t.Setenv("QB_DATABASE_MAX_IDLE_CONNS", "3")

	cfg, err := Load(writeFile(t, "qb.yaml", sampleYAML))
	require.NoError(t, err)

	dsn, err := cfg.GetString("database.dsn")
	require.NoError(t, err)
	assert.Equal(t, "postgres://env/app", dsn)

	idle, err := cfg.GetInt("database.max_idle_conns")
	require.NoError(t, err)
	assert.Equal(t, 3, idle)

	s, err := cfg.Unmarshal()
	require.NoError(t, err)
	assert.Equal(t, "postgres://env/app", s.Database.DSN)
	assert.Equal(t, 3, s.Database.MaxIdleConns)
}

func TestTypedGetters(t *testing.T) {
	cfg := New(WithEnvPrefix(""), WithDefaults(map[string]interface{}{
		"app.retries": "ten",
		"app.verbose": "yes",
		"app.timeout": "1500ms",
		"app.grace":   2,
		"app.tables":  "users, posts",
	}))

	_, err := cfg.GetString("app.missing")
	require.Error(t, err)
	var ce *errors.ConfigError
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, "app.missing", ce.Key)

	_, err = cfg.GetInt("app.retries")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid integer value")

	verbose, err := cfg.GetBool("app.verbose")
	require.NoError(t, err)
	assert.True(t, verbose)

	timeout, err := cfg.GetDuration("app.timeout")
	require.NoError(t, err)
	assert.Equal(t, 1500*time.Millisecond, timeout)

	grace, err := cfg.GetDuration("app.grace")
	require.NoError(t, err)
	assert.Equal(t, 2*time.Second, grace)

	tables, err := cfg.GetStringSlice("app.tables")
	require.NoError(t, err)
	assert.Equal(t, []string{"users", "posts"}, tables)

	cfg.Set("app.retries", 4)
	retries, err := cfg.GetInt("app.retries")
	require.NoError(t, err)
	assert.Equal(t, 4, retries)
	assert.True(t, cfg.Has("app.retries"))
}

func TestRequiredKeys(t *testing.T) {
	cfg := New(WithEnvPrefix(""), WithRequiredKeys("database.driver"))
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "database.driver")

	cfg.Set("database.driver", "sqlite3")
	assert.NoError(t, cfg.Validate())
}

func TestValidatorFunc(t *testing.T) {
	calls := 0
	cfg := New(WithValidator(ValidatorFunc(func() error {
		calls++
		return nil
	})))
	require.NoError(t, cfg.Validate())
	assert.Equal(t, 1, calls)
}

func TestDatabaseConfigValidate(t *testing.T) {
	tests := []struct {
		name string
		cfg  DatabaseConfig
		key  string
	}{
		{"missing driver", DatabaseConfig{DSN: "x"}, "database.driver"},
		{"missing dsn", DatabaseConfig{Driver: "mysql"}, "database.dsn"},
		{"unknown dialect", DatabaseConfig{Driver: "mysql", DSN: "x", Dialect: "oracle"}, "database.dialect"},
		{"negative pool", DatabaseConfig{Driver: "mysql", DSN: "x", MaxOpenConns: -1}, "database.max_open_conns"},
		{"idle over open", DatabaseConfig{Driver: "mysql", DSN: "x", MaxOpenConns: 2, MaxIdleConns: 3}, "database.max_idle_conns"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			require.Error(t, err)
			var ce *errors.ConfigError
			require.True(t, errors.As(err, &ce))
			assert.Equal(t, tt.key, ce.Key)
		})
	}

	ok := DatabaseConfig{Driver: "sqlite3", DSN: ":memory:", Dialect: "sqlite"}
	assert.NoError(t, ok.Validate())
}

func TestUnmarshalRejectsBadLogging(t *testing.T) {
	cfg, err := Load(writeFile(t, "qb.yaml", "logging:\n  format: xml\n"))
	require.NoError(t, err)

	_, err = cfg.Unmarshal()
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrConfiguration))
}

func TestLoggingConfigNewLogger(t *testing.T) {
	var buf bytes.Buffer
	lc := LoggingConfig{Level: "warn", Format: "json", Output: "stdout"}

	logger, err := lc.NewLogger(log.WithOutput(&buf))
	require.NoError(t, err)
	assert.Equal(t, log.WarnLevel, logger.GetLevel())

	logger.Info("hidden")
	logger.Warn("shown", log.F("table", "users"))
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), `"table":"users"`)

	_, err = (&LoggingConfig{Level: "loud"}).NewLogger()
	require.Error(t, err)

	_, err = (&LoggingConfig{Output: "file"}).NewLogger()
	require.Error(t, err)
}

func TestLoggingConfigFileOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "qb.log")
	lc := LoggingConfig{Level: "info", Output: "file", FilePath: path}

	logger, err := lc.NewLogger()
	require.NoError(t, err)
	logger.Info("written")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "written")
}

func TestWatchNeedsFile(t *testing.T) {
	err := New().Watch(nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrConfiguration))
}
