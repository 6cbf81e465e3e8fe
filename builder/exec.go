// Copyright (c) 2025 Yahya Qadeer Dar. All rights reserved.
// Use of this source code is governed by an Apache 2.0 license that can be found in the LICENSE file.

package builder

import (
	"context"
	"database/sql"
	"sort"
	"time"

	"github.com/YahyaDar/querybuilder/errors"
	"github.com/YahyaDar/querybuilder/grammar"
	"github.com/YahyaDar/querybuilder/internal/driver"
	"github.com/YahyaDar/querybuilder/internal/reflect"
	"github.com/YahyaDar/querybuilder/internal/sqlbuilder"
	"github.com/YahyaDar/querybuilder/log"
)

// Bind rewrites the :name markers of query into the form d's driver
// expects and returns the matching arguments: $n for Postgres, ? in
// order of appearance for MySQL, and sql.Named arguments for SQLite.
func Bind(d grammar.Dialect, query string, values map[string]interface{}) (string, []interface{}, error) {
	var (
		rewritten = query
		names     []string
	)
	switch d.BindStyle() {
	case grammar.BindNamed:
		names = sqlbuilder.Names(query)
	case grammar.BindNumbered:
		rewritten, names = sqlbuilder.Rewrite(query, d.Placeholder, true)
	default:
		rewritten, names = sqlbuilder.Rewrite(query, d.Placeholder, false)
	}

	args := make([]interface{}, len(names))
	for i, name := range names {
		v, ok := values[name]
		if !ok {
			return "", nil, errors.InvalidInput("bind", "no value bound for parameter :%s", name)
		}
		if d.BindStyle() == grammar.BindNamed {
			v = sql.Named(name, v)
		}
		args[i] = v
	}
	return rewritten, args, nil
}

// Get runs the SELECT and returns every row.
func (qb *QueryBuilder) Get(ctx context.Context) ([]Row, error) {
	defer qb.reset()

	query, err := qb.compileSelect("get", nil)
	if err != nil {
		return nil, qb.abort(err)
	}
	qb.record(query)

	var out []Row
	err = qb.query(ctx, query, func(rows *sql.Rows) (err error) {
		out, err = scanRows(rows)
		return err
	})
	return out, err
}

// First runs the SELECT with LIMIT 1. columns are selected when no
// Select call was made. It returns errors.ErrNotFound for no rows.
func (qb *QueryBuilder) First(ctx context.Context, columns ...interface{}) (Row, error) {
	if len(qb.columns) == 0 && len(columns) > 0 {
		qb.Select(columns...)
	}
	qb.Limit(1)

	pretend := qb.exec == nil
	rows, err := qb.Get(ctx)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		if pretend {
			return nil, nil
		}
		return nil, errors.Wrap(errors.ErrNotFound, "first")
	}
	return rows[0], nil
}

// Pluck returns the values of one column.
func (qb *QueryBuilder) Pluck(ctx context.Context, column interface{}) ([]interface{}, error) {
	qb.Select(column)
	defer qb.reset()

	query, err := qb.compileSelect("pluck", nil)
	if err != nil {
		return nil, qb.abort(err)
	}
	qb.record(query)

	var out []interface{}
	err = qb.query(ctx, query, func(rows *sql.Rows) error {
		for rows.Next() {
			var v interface{}
			if err := rows.Scan(&v); err != nil {
				return err
			}
			out = append(out, normalize(v))
		}
		return nil
	})
	return out, err
}

// Scan runs the SELECT and fills dest, a pointer to a slice of structs
// or struct pointers, matching columns to db tags.
func (qb *QueryBuilder) Scan(ctx context.Context, dest interface{}) error {
	defer qb.reset()

	query, err := qb.compileSelect("scan", nil)
	if err != nil {
		return qb.abort(err)
	}
	qb.record(query)

	return qb.query(ctx, query, func(rows *sql.Rows) error {
		return scanStructs(rows, dest)
	})
}

// Count returns the number of rows the SELECT would return, ignoring
// ORDER BY, LIMIT and OFFSET.
func (qb *QueryBuilder) Count(ctx context.Context) (int64, error) {
	defer qb.reset()

	query, err := qb.compileSelect("count", countColumns)
	if err != nil {
		return 0, qb.abort(err)
	}
	qb.record(query)

	var total int64
	err = qb.query(ctx, query, scanCount(&total))
	return total, err
}

var countColumns = []grammar.Term{grammar.Raw("COUNT(*)").Term()}

// compileSelect compiles the collected SELECT. Non-nil columns replace
// the selection and drop ordering and paging, as a count query needs.
func (qb *QueryBuilder) compileSelect(op string, columns []grammar.Term) (string, error) {
	stmt, err := qb.selectStatement(op)
	if err != nil {
		return "", err
	}
	if columns != nil {
		stmt = &grammar.Select{Columns: columns, From: stmt.From, Joins: stmt.Joins, Where: stmt.Where}
	}
	query, err := qb.dialect.CompileSelect(stmt)
	if err != nil {
		return "", err
	}
	return terminate(query), nil
}

// Insert inserts rows. Columns are taken from the first row, in
// alphabetical order; every other row must have the same columns.
// It returns the number of affected rows.
func (qb *QueryBuilder) Insert(ctx context.Context, rows ...Row) (int64, error) {
	defer qb.reset()

	query, err := qb.compileInsert("insert", rows, nil)
	if err != nil {
		return 0, qb.abort(err)
	}
	qb.record(query)
	return qb.affected(ctx, query)
}

// InsertModel inserts structs, mapping fields to columns by db tags.
func (qb *QueryBuilder) InsertModel(ctx context.Context, models ...interface{}) (int64, error) {
	rows := make([]Row, 0, len(models))
	for _, m := range models {
		row, err := reflect.ToRow(m)
		if err != nil {
			qb.fail(err)
			break
		}
		rows = append(rows, row)
	}
	return qb.Insert(ctx, rows...)
}

// Upsert inserts rows and updates those that conflict on uniqueBy. With
// no update assignments every non-unique column takes the inserted value.
// A conflict set up with OnConflictDoNothing or OnConflictDoUpdate wins.
func (qb *QueryBuilder) Upsert(ctx context.Context, rows []Row, uniqueBy []string, update ...grammar.Assignment) (int64, error) {
	if len(uniqueBy) == 0 {
		qb.fail(errors.InvalidInput("upsert", "upsert requires at least one unique column"))
	} else if qb.conflict == nil {
		qb.OnConflictDoUpdate(uniqueBy, update...)
	}
	return qb.Insert(ctx, rows...)
}

// InsertReturning inserts rows and returns the requested columns of
// every inserted row. MySQL has no RETURNING clause.
func (qb *QueryBuilder) InsertReturning(ctx context.Context, rows []Row, returning ...string) ([]Row, error) {
	defer qb.reset()

	if !qb.dialect.SupportsReturning() {
		qb.fail(errors.Unsupported("insertReturning", "%s does not support RETURNING", qb.dialect.Name()))
	}
	if len(returning) == 0 {
		returning = []string{"*"}
	}

	query, err := qb.compileInsert("insertReturning", rows, grammar.Idents(returning...))
	if err != nil {
		return nil, qb.abort(err)
	}
	qb.record(query)

	var out []Row
	err = qb.query(ctx, query, func(r *sql.Rows) (err error) {
		out, err = scanRows(r)
		return err
	})
	return out, err
}

func (qb *QueryBuilder) compileInsert(op string, rows []Row, returning []grammar.Term) (string, error) {
	if err := qb.Err(); err != nil {
		return "", err
	}
	if qb.table.IsZero() {
		return "", errors.NewBuildError(errors.KindMissingTable, op, "no table specified, call Table first")
	}
	columns, err := rowColumns(op, rows)
	if err != nil {
		return "", err
	}

	stmt := &grammar.Insert{
		Table:     qb.table,
		Columns:   grammar.Idents(columns...),
		Rows:      make([][]grammar.Term, len(rows)),
		Returning: returning,
	}
	for i, row := range rows {
		values := make([]grammar.Term, len(columns))
		for j, col := range columns {
			values[j] = qb.bindings.AddTerm(row[col])
		}
		stmt.Rows[i] = values
	}

	if qb.conflict != nil {
		if stmt.Conflict, err = qb.onConflict(columns); err != nil {
			return "", err
		}
	}

	query, err := qb.dialect.CompileInsert(stmt)
	if err != nil {
		return "", err
	}
	return terminate(query), nil
}

// rowColumns returns the sorted columns of the first row and checks
// that every row has exactly those columns.
func rowColumns(op string, rows []Row) ([]string, error) {
	if len(rows) == 0 {
		return nil, errors.InvalidInput(op, "at least one row is required")
	}
	if len(rows[0]) == 0 {
		return nil, errors.InvalidInput(op, "row 0 has no columns")
	}

	columns := make([]string, 0, len(rows[0]))
	for col := range rows[0] {
		columns = append(columns, col)
	}
	sort.Strings(columns)

	for i, row := range rows[1:] {
		if len(row) != len(columns) {
			return nil, errors.InvalidInput(op, "row %d has %d columns, the first row has %d", i+1, len(row), len(columns))
		}
		for _, col := range columns {
			if _, ok := row[col]; !ok {
				return nil, errors.InvalidInput(op, "row %d is missing column %q", i+1, col)
			}
		}
	}
	return columns, nil
}

// onConflict renders the requested conflict handling. Assignments are
// rendered here, after the row values, so their bindings follow them.
func (qb *QueryBuilder) onConflict(columns []string) (*grammar.OnConflict, error) {
	c := qb.conflict
	oc := &grammar.OnConflict{Targets: grammar.Idents(c.targets...), Action: c.action}
	if c.action == grammar.DoNothing {
		return oc, nil
	}

	assignments := c.assignments
	if len(assignments) == 0 {
		targets := make(map[string]bool, len(c.targets))
		for _, t := range c.targets {
			targets[t] = true
		}
		for _, col := range columns {
			if !targets[col] {
				assignments = append(assignments, grammar.Inferred(col))
			}
		}
		if len(assignments) == 0 {
			oc.Action = grammar.DoNothing
			return oc, nil
		}
	}

	oc.Sets = make([]grammar.Set, 0, len(assignments))
	for _, a := range assignments {
		if a.Column == "" {
			return nil, errors.InvalidInput("onConflict", "assignment without a column")
		}
		oc.Sets = append(oc.Sets, grammar.Set{
			Column: grammar.Ident(a.Column),
			Value:  qb.dialect.ConflictAssignment(a.Column, a.Value, qb.bindings),
		})
	}
	return oc, nil
}

// Update sets columns to values on the matching rows and returns the
// number of affected rows. Without a WHERE clause it fails unless Force
// was called.
func (qb *QueryBuilder) Update(ctx context.Context, values Row) (int64, error) {
	defer qb.reset()

	query, err := qb.compileUpdate(values)
	if err != nil {
		return 0, qb.abort(err)
	}
	qb.record(query)
	return qb.affected(ctx, query)
}

func (qb *QueryBuilder) compileUpdate(values Row) (string, error) {
	if err := qb.Err(); err != nil {
		return "", err
	}
	if qb.table.IsZero() {
		return "", errors.NewBuildError(errors.KindMissingTable, "update", "no table specified, call Table first")
	}

	columns := make([]string, 0, len(values))
	for col, v := range values {
		if reflect.IsList(v) {
			return "", errors.InvalidInput("update", "value for %q cannot be a list", col)
		}
		columns = append(columns, col)
	}
	sort.Strings(columns)

	stmt := &grammar.Update{
		Table: qb.table,
		Joins: qb.joins,
		Where: qb.where.clause,
		Force: qb.force,
	}
	for _, col := range columns {
		stmt.Sets = append(stmt.Sets, grammar.Set{Column: grammar.Ident(col), Value: qb.bindings.AddTerm(values[col])})
	}

	query, err := qb.dialect.CompileUpdate(stmt)
	if err != nil {
		return "", err
	}
	return terminate(query), nil
}

// Delete removes the matching rows and returns how many were deleted.
// Without a WHERE clause it fails unless Force was called.
func (qb *QueryBuilder) Delete(ctx context.Context) (int64, error) {
	defer qb.reset()

	if err := qb.Err(); err != nil {
		return 0, qb.abort(err)
	}
	if qb.table.IsZero() {
		return 0, qb.abort(errors.NewBuildError(errors.KindMissingTable, "delete", "no table specified, call Table first"))
	}
	query, err := qb.dialect.CompileDelete(&grammar.Delete{
		Table: qb.table,
		Joins: qb.joins,
		Where: qb.where.clause,
		Force: qb.force,
	})
	if err != nil {
		return 0, qb.abort(err)
	}
	query = terminate(query)
	qb.record(query)
	return qb.affected(ctx, query)
}

func (qb *QueryBuilder) record(query string) {
	qb.lastSQL = query
	qb.lastBindings = qb.bindings.Named()
}

// abort records a statement that failed before it compiled.
func (qb *QueryBuilder) abort(err error) error {
	qb.lastSQL = ""
	qb.lastBindings = qb.bindings.Named()
	return err
}

func (qb *QueryBuilder) affected(ctx context.Context, query string) (int64, error) {
	res, err := qb.execute(ctx, query)
	if err != nil || res == nil {
		return 0, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, qb.failed(ctx, query, time.Now(), err)
	}
	return n, nil
}

// execute runs a statement that returns no rows. A builder without an
// executor returns a nil result.
func (qb *QueryBuilder) execute(ctx context.Context, query string) (sql.Result, error) {
	if qb.exec == nil {
		qb.pretended(ctx, query)
		return nil, nil
	}
	stmt, args, err := Bind(qb.dialect, query, qb.bindings.Map())
	if err != nil {
		return nil, err
	}

	start := time.Now()
	res, err := qb.exec.ExecContext(ctx, stmt, args...)
	if err != nil {
		return nil, qb.failed(ctx, query, start, err)
	}
	qb.executed(ctx, query, start)
	return res, nil
}

// query runs a statement returning rows and hands them to fn.
func (qb *QueryBuilder) query(ctx context.Context, query string, fn func(*sql.Rows) error) error {
	if qb.exec == nil {
		qb.pretended(ctx, query)
		return nil
	}
	stmt, args, err := Bind(qb.dialect, query, qb.bindings.Map())
	if err != nil {
		return err
	}

	start := time.Now()
	rows, err := qb.exec.QueryContext(ctx, stmt, args...)
	if err != nil {
		return qb.failed(ctx, query, start, err)
	}
	defer rows.Close()

	if err := fn(rows); err != nil {
		if errors.KindOf(err) != errors.KindUnknown {
			return err
		}
		return qb.failed(ctx, query, start, err)
	}
	if err := rows.Err(); err != nil {
		return qb.failed(ctx, query, start, err)
	}
	qb.executed(ctx, query, start)
	return nil
}

func (qb *QueryBuilder) executed(ctx context.Context, query string, start time.Time) {
	qb.logger.DebugContext(ctx, "query executed",
		log.F("sql", query),
		log.F("bindings", qb.bindings.Values()),
		log.F("dialect", qb.dialect.Name()),
		log.F("elapsed", time.Since(start)),
	)
}

func (qb *QueryBuilder) pretended(ctx context.Context, query string) {
	qb.logger.DebugContext(ctx, "query compiled",
		log.F("sql", query),
		log.F("bindings", qb.bindings.Values()),
		log.F("dialect", qb.dialect.Name()),
	)
}

func (qb *QueryBuilder) failed(ctx context.Context, query string, start time.Time, err error) error {
	qerr := errors.NewQueryError(query, "execution failed", err).
		WithCode(driver.Code(err)).
		WithBindings(qb.bindings.Len())
	qb.logger.ErrorContext(ctx, "query failed",
		log.F("sql", query),
		log.F("dialect", qb.dialect.Name()),
		log.F("elapsed", time.Since(start)),
		log.F("error", err),
	)
	return qerr
}
