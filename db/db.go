// Copyright (c) 2025 Yahya Qadeer Dar. All rights reserved.
// Use of this source code is governed by an Apache 2.0 license that can be found in the LICENSE file.

// Package db wraps a *sql.DB with a fixed dialect and hands out query
// builders, raw statements and transactions. A DB is safe for
// concurrent use; every Table or Query call returns a new builder.
package db

import (
	"context"
	"database/sql"

	"github.com/YahyaDar/querybuilder/builder"
	"github.com/YahyaDar/querybuilder/config"
	"github.com/YahyaDar/querybuilder/errors"
	"github.com/YahyaDar/querybuilder/grammar"
	"github.com/YahyaDar/querybuilder/internal/driver"
	"github.com/YahyaDar/querybuilder/log"
)

// DB is a database handle bound to one dialect.
type DB struct {
	db         *sql.DB
	dialect    grammar.Dialect
	logger     log.Logger
	logQueries bool
}

// Option configures a DB.
type Option func(*DB)

// WithDialect overrides the dialect detected from the driver.
func WithDialect(d grammar.Dialect) Option {
	return func(db *DB) {
		if d != nil {
			db.dialect = d
		}
	}
}

// WithLogger sets the logger for transactions and statements.
func WithLogger(l log.Logger) Option {
	return func(db *DB) {
		if l != nil {
			db.logger = l
		}
	}
}

// WithQueryLogging turns statement logging on or off. Failures are
// returned either way.
func WithQueryLogging(enable bool) Option {
	return func(db *DB) {
		db.logQueries = enable
	}
}

// Open connects using cfg, applies its pool settings and pings the
// server.
func Open(ctx context.Context, cfg config.DatabaseConfig, opts ...Option) (*DB, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if cfg.Dialect != "" {
		d, err := grammar.ByName(cfg.Dialect)
		if err != nil {
			return nil, errors.NewConfigError("unknown dialect", err).WithKey("database.dialect").WithValue(cfg.Dialect)
		}
		opts = append([]Option{WithDialect(d)}, opts...)
	}

	sqlDB, err := sql.Open(cfg.Driver, cfg.DSN)
	if err != nil {
		return nil, errors.NewConnectionError(cfg.Driver, "cannot open database", err)
	}
	if cfg.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.ConnMaxLifetime > 0 {
		sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}
	if cfg.ConnMaxIdleTime > 0 {
		sqlDB.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)
	}

	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, errors.NewConnectionError(cfg.Driver, "cannot reach database", err)
	}

	db := Wrap(sqlDB, opts...)
	db.logger.Debug("database opened",
		log.F("driver", cfg.Driver),
		log.F("dialect", db.dialect.Name()),
	)
	return db, nil
}

// Wrap uses an existing connection pool. The dialect is detected from
// its driver unless WithDialect is given, falling back to MySQL.
func Wrap(sqlDB *sql.DB, opts ...Option) *DB {
	db := &DB{
		db:         sqlDB,
		logger:     log.Default(),
		logQueries: true,
	}
	for _, opt := range opts {
		opt(db)
	}
	if db.dialect == nil {
		db.dialect = grammar.ForDriver(driver.Detect(sqlDB))
	}
	return db
}

// DB returns the underlying pool.
func (db *DB) DB() *sql.DB { return db.db }

// Dialect returns the dialect statements are compiled with.
func (db *DB) Dialect() grammar.Dialect { return db.dialect }

// Raw returns an expression embedded into SQL verbatim.
func (db *DB) Raw(s string) grammar.Expression { return grammar.Raw(s) }

// Query returns a new builder on the pool.
func (db *DB) Query() *builder.QueryBuilder {
	return newBuilder(db.db, db.dialect, db.queryLogger(db.logger))
}

// Table returns a new builder on the pool selecting from table.
func (db *DB) Table(table interface{}) *builder.QueryBuilder {
	return db.Query().Table(table)
}

// Select runs a raw statement with :name parameters and returns its rows.
func (db *DB) Select(ctx context.Context, query string, params map[string]interface{}) ([]builder.Row, error) {
	return db.Query().RawSelect(ctx, query, params)
}

// Exec runs a raw statement with :name parameters and returns the
// number of affected rows.
func (db *DB) Exec(ctx context.Context, query string, params map[string]interface{}) (int64, error) {
	return db.Query().RawExec(ctx, query, params)
}

// Ping verifies the connection is alive.
func (db *DB) Ping(ctx context.Context) error {
	if err := db.db.PingContext(ctx); err != nil {
		return errors.NewConnectionError(db.dialect.Name(), "ping failed", err)
	}
	return nil
}

// Close closes the pool.
func (db *DB) Close() error {
	if err := db.db.Close(); err != nil {
		return errors.NewConnectionError(db.dialect.Name(), "close failed", err)
	}
	return nil
}

func (db *DB) queryLogger(l log.Logger) log.Logger {
	if !db.logQueries {
		return log.Nop()
	}
	return l
}

func newBuilder(exec builder.Executor, d grammar.Dialect, l log.Logger) *builder.QueryBuilder {
	return builder.New(exec, builder.WithDialect(d), builder.WithLogger(l))
}
