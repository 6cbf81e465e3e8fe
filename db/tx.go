// Copyright (c) 2025 Yahya Qadeer Dar. All rights reserved.
// Use of this source code is governed by an Apache 2.0 license that can be found in the LICENSE file.

package db

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/YahyaDar/querybuilder/builder"
	"github.com/YahyaDar/querybuilder/errors"
	"github.com/YahyaDar/querybuilder/log"
)

// Tx is a transaction. Builders obtained from it run inside the
// transaction and log with its id.
type Tx struct {
	tx     *sql.Tx
	id     string
	db     *DB
	logger log.Logger
}

// Begin starts a transaction.
func (db *DB) Begin(ctx context.Context, opts *sql.TxOptions) (*Tx, error) {
	id := uuid.NewString()
	logger := db.logger.WithField("tx_id", id)

	tx, err := db.db.BeginTx(ctx, opts)
	if err != nil {
		logger.ErrorContext(ctx, "transaction begin failed", log.F("error", err))
		return nil, errors.NewTransactionError("begin", "cannot start transaction", err).WithID(id)
	}
	logger.DebugContext(ctx, "transaction started")

	return &Tx{tx: tx, id: id, db: db, logger: logger}, nil
}

// Transaction runs fn inside a transaction. It commits when fn returns
// nil and rolls back when fn returns an error or panics. A panic is
// re-raised after the rollback.
func (db *DB) Transaction(ctx context.Context, fn func(tx *Tx) error) (err error) {
	tx, err := db.Begin(ctx, nil)
	if err != nil {
		return err
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.rollback(ctx, fmt.Sprintf("panic: %v", p))
			panic(p)
		}
	}()

	if ferr := fn(tx); ferr != nil {
		if rerr := tx.rollback(ctx, ferr.Error()); rerr != nil {
			return errors.NewTransactionError("rollback", fmt.Sprintf("rollback after %q failed", ferr.Error()), rerr).WithID(tx.id)
		}
		return ferr
	}
	return tx.Commit(ctx)
}

// ID returns the id the transaction logs with.
func (tx *Tx) ID() string { return tx.id }

// Tx returns the underlying transaction.
func (tx *Tx) Tx() *sql.Tx { return tx.tx }

// Query returns a new builder running inside the transaction.
func (tx *Tx) Query() *builder.QueryBuilder {
	return newBuilder(tx.tx, tx.db.dialect, tx.db.queryLogger(tx.logger))
}

// Table returns a new builder inside the transaction selecting from table.
func (tx *Tx) Table(table interface{}) *builder.QueryBuilder {
	return tx.Query().Table(table)
}

// Select runs a raw statement inside the transaction.
func (tx *Tx) Select(ctx context.Context, query string, params map[string]interface{}) ([]builder.Row, error) {
	return tx.Query().RawSelect(ctx, query, params)
}

// Exec runs a raw statement inside the transaction.
func (tx *Tx) Exec(ctx context.Context, query string, params map[string]interface{}) (int64, error) {
	return tx.Query().RawExec(ctx, query, params)
}

// Commit commits the transaction.
func (tx *Tx) Commit(ctx context.Context) error {
	if err := tx.tx.Commit(); err != nil {
		tx.logger.ErrorContext(ctx, "transaction commit failed", log.F("error", err))
		return errors.NewTransactionError("commit", "cannot commit transaction", err).WithID(tx.id)
	}
	tx.logger.DebugContext(ctx, "transaction committed")
	return nil
}

// Rollback aborts the transaction.
func (tx *Tx) Rollback(ctx context.Context) error {
	return tx.rollback(ctx, "requested")
}

func (tx *Tx) rollback(ctx context.Context, reason string) error {
	if err := tx.tx.Rollback(); err != nil {
		tx.logger.ErrorContext(ctx, "transaction rollback failed", log.F("error", err), log.F("reason", reason))
		return errors.NewTransactionError("rollback", "cannot roll back transaction", err).WithID(tx.id)
	}
	tx.logger.DebugContext(ctx, "transaction rolled back", log.F("reason", reason))
	return nil
}
