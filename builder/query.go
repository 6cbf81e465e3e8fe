// Copyright (c) 2025 Yahya Qadeer Dar. All rights reserved.
// Use of this source code is governed by an Apache 2.0 license that can be found in the LICENSE file.

// Package builder is the fluent query builder. A QueryBuilder collects
// clauses, compiles them with a grammar.Dialect and executes the result
// through database/sql.
//
//	rows, err := builder.New(db).
//		Table("users").
//		Select("id", "name").
//		Where("id", "=", 1).
//		OrWhereGroup(func(w *builder.WhereBuilder) {
//			w.Where("id", "=", 2).Where("name", "=", "Sam")
//		}).
//		Get(ctx)
//
// A QueryBuilder is not safe for concurrent use. Every terminal call
// (Get, Insert, Update, Delete, ...) clears the collected clauses, so a
// builder can be reused sequentially.
package builder

import (
	"context"
	"database/sql"

	"github.com/YahyaDar/querybuilder/errors"
	"github.com/YahyaDar/querybuilder/grammar"
	"github.com/YahyaDar/querybuilder/internal/driver"
	"github.com/YahyaDar/querybuilder/log"
)

// Executor runs SQL. *sql.DB, *sql.Tx and *sql.Conn satisfy it.
type Executor interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
}

// Row is one result row keyed by column name.
type Row map[string]interface{}

// Option configures a QueryBuilder.
type Option func(*QueryBuilder)

// WithDialect fixes the dialect instead of detecting it.
func WithDialect(d grammar.Dialect) Option {
	return func(qb *QueryBuilder) {
		if d != nil {
			qb.dialect = d
		}
	}
}

// WithLogger sets the logger executed statements are reported to.
func WithLogger(l log.Logger) Option {
	return func(qb *QueryBuilder) {
		if l != nil {
			qb.logger = l
		}
	}
}

// conflict is the upsert behaviour requested through OnConflict*.
type conflict struct {
	targets     []string
	action      grammar.ConflictAction
	assignments []grammar.Assignment
}

// QueryBuilder assembles and runs one statement at a time.
type QueryBuilder struct {
	exec    Executor
	dialect grammar.Dialect
	logger  log.Logger

	bindings *grammar.Bindings
	table    grammar.Term
	columns  []grammar.Term
	distinct bool
	joins    []grammar.Join
	where    *WhereBuilder
	orderBy  []grammar.Order
	limit    *grammar.Limit
	offset   *grammar.Offset
	conflict *conflict
	force    bool
	err      error

	lastSQL      string
	lastBindings []grammar.Binding
}

// New returns a builder running statements on exec. Without WithDialect
// the dialect is detected from exec's driver and defaults to MySQL.
// A nil exec gives a builder that compiles terminal calls without
// running them.
func New(exec Executor, opts ...Option) *QueryBuilder {
	qb := &QueryBuilder{
		exec:   exec,
		logger: log.Default(),
	}
	for _, opt := range opts {
		opt(qb)
	}
	if qb.dialect == nil {
		qb.dialect = detectDialect(exec)
	}
	qb.reset()
	return qb
}

func detectDialect(exec Executor) grammar.Dialect {
	if family := driver.Detect(exec); family != "" {
		return grammar.ForDriver(family)
	}
	return grammar.MySQL()
}

func (qb *QueryBuilder) reset() {
	qb.bindings = grammar.NewBindings()
	qb.table = grammar.Term{}
	qb.columns = nil
	qb.distinct = false
	qb.joins = nil
	qb.where = newWhereBuilder(qb.bindings)
	qb.orderBy = nil
	qb.limit = nil
	qb.offset = nil
	qb.conflict = nil
	qb.force = false
	qb.err = nil
}

func (qb *QueryBuilder) fail(err error) *QueryBuilder {
	if qb.err == nil {
		qb.err = err
	}
	return qb
}

// Err returns the first error recorded since the last terminal call.
func (qb *QueryBuilder) Err() error {
	if qb.err != nil {
		return qb.err
	}
	return qb.where.err
}

// Dialect returns the dialect statements are compiled with.
func (qb *QueryBuilder) Dialect() grammar.Dialect { return qb.dialect }

// Raw wraps s so it is neither quoted nor bound.
func (qb *QueryBuilder) Raw(s string) grammar.Expression { return grammar.Raw(s) }

// Table sets the table the statement works on.
func (qb *QueryBuilder) Table(table interface{}) *QueryBuilder {
	t, err := grammar.TermOf(table)
	if err != nil {
		return qb.fail(err)
	}
	qb.table = t
	return qb
}

// Select sets the selected columns. Without it every column is selected.
func (qb *QueryBuilder) Select(columns ...interface{}) *QueryBuilder {
	terms, err := grammar.TermsOf(columns...)
	if err != nil {
		return qb.fail(err)
	}
	qb.columns = terms
	return qb
}

// Distinct selects distinct rows.
func (qb *QueryBuilder) Distinct() *QueryBuilder {
	qb.distinct = true
	return qb
}

// OrderBy sorts by column in direction asc or desc.
func (qb *QueryBuilder) OrderBy(column interface{}, direction string) *QueryBuilder {
	dir, err := grammar.ParseDirection(direction)
	if err != nil {
		return qb.fail(err)
	}
	col, err := grammar.TermOf(column)
	if err != nil {
		return qb.fail(err)
	}
	qb.orderBy = append(qb.orderBy, grammar.Order{Column: col, Direction: dir})
	return qb
}

// OrderByDesc sorts by column descending.
func (qb *QueryBuilder) OrderByDesc(column interface{}) *QueryBuilder {
	return qb.OrderBy(column, string(grammar.Desc))
}

func (qb *QueryBuilder) Limit(n int) *QueryBuilder {
	if n < 0 {
		return qb.fail(errors.InvalidInput("limit", "limit cannot be negative, got %d", n))
	}
	qb.limit = &grammar.Limit{Count: n}
	return qb
}

func (qb *QueryBuilder) Offset(n int) *QueryBuilder {
	if n < 0 {
		return qb.fail(errors.InvalidInput("offset", "offset cannot be negative, got %d", n))
	}
	qb.offset = &grammar.Offset{Count: n}
	return qb
}

// Force allows the next Update or Delete to run without a WHERE clause.
func (qb *QueryBuilder) Force() *QueryBuilder {
	qb.force = true
	return qb
}

// Join adds an INNER JOIN on "first op second".
func (qb *QueryBuilder) Join(table, first interface{}, op string, second interface{}) *QueryBuilder {
	return qb.joinOn(grammar.InnerJoin, table, first, op, second)
}

// LeftJoin adds a LEFT JOIN on "first op second".
func (qb *QueryBuilder) LeftJoin(table, first interface{}, op string, second interface{}) *QueryBuilder {
	return qb.joinOn(grammar.LeftJoin, table, first, op, second)
}

// RightJoin adds a RIGHT JOIN on "first op second".
func (qb *QueryBuilder) RightJoin(table, first interface{}, op string, second interface{}) *QueryBuilder {
	return qb.joinOn(grammar.RightJoin, table, first, op, second)
}

// FullJoin adds a FULL JOIN on "first op second".
func (qb *QueryBuilder) FullJoin(table, first interface{}, op string, second interface{}) *QueryBuilder {
	return qb.joinOn(grammar.FullJoin, table, first, op, second)
}

// JoinWith adds an INNER JOIN whose ON list is set up by fn.
func (qb *QueryBuilder) JoinWith(table interface{}, fn func(*JoinBuilder)) *QueryBuilder {
	return qb.joinFunc(grammar.InnerJoin, table, fn)
}

func (qb *QueryBuilder) LeftJoinWith(table interface{}, fn func(*JoinBuilder)) *QueryBuilder {
	return qb.joinFunc(grammar.LeftJoin, table, fn)
}

func (qb *QueryBuilder) RightJoinWith(table interface{}, fn func(*JoinBuilder)) *QueryBuilder {
	return qb.joinFunc(grammar.RightJoin, table, fn)
}

func (qb *QueryBuilder) FullJoinWith(table interface{}, fn func(*JoinBuilder)) *QueryBuilder {
	return qb.joinFunc(grammar.FullJoin, table, fn)
}

// JoinOfType adds a join whose type is given by name: inner, left,
// right or full in any case.
func (qb *QueryBuilder) JoinOfType(joinType string, table interface{}, fn func(*JoinBuilder)) *QueryBuilder {
	typ, err := grammar.ParseJoinType(joinType)
	if err != nil {
		return qb.fail(err)
	}
	return qb.joinFunc(typ, table, fn)
}

func (qb *QueryBuilder) joinOn(typ grammar.JoinType, table, first interface{}, op string, second interface{}) *QueryBuilder {
	return qb.joinFunc(typ, table, func(j *JoinBuilder) {
		j.On(first, op, second)
	})
}

func (qb *QueryBuilder) joinFunc(typ grammar.JoinType, table interface{}, fn func(*JoinBuilder)) *QueryBuilder {
	if fn == nil {
		return qb.fail(errors.InvalidInput("join", "nil join function"))
	}
	jb := newJoinBuilder(qb.bindings)
	fn(jb)
	join, err := jb.build(typ, table)
	if err != nil {
		return qb.fail(err)
	}
	qb.joins = append(qb.joins, join)
	return qb
}

// OnConflictDoNothing makes the next insert skip rows conflicting on columns.
func (qb *QueryBuilder) OnConflictDoNothing(columns ...string) *QueryBuilder {
	if len(columns) == 0 {
		return qb.fail(errors.InvalidInput("onConflict", "on conflict requires at least one target column"))
	}
	qb.conflict = &conflict{targets: columns, action: grammar.DoNothing}
	return qb
}

// OnConflictDoUpdate makes the next insert update rows conflicting on
// columns. Without assignments every inserted column except the targets
// is updated to the value just inserted.
func (qb *QueryBuilder) OnConflictDoUpdate(columns []string, assignments ...grammar.Assignment) *QueryBuilder {
	if len(columns) == 0 {
		return qb.fail(errors.InvalidInput("onConflict", "on conflict requires at least one target column"))
	}
	qb.conflict = &conflict{targets: columns, action: grammar.DoUpdate, assignments: assignments}
	return qb
}

// Bindings returns the values bound so far, in slot order.
func (qb *QueryBuilder) Bindings() []grammar.Binding { return qb.bindings.Named() }

// Values returns the bound values in slot order.
func (qb *QueryBuilder) Values() []interface{} { return qb.bindings.Values() }

// SQL returns the statement produced by the last terminal call, or ""
// when it failed before compiling.
func (qb *QueryBuilder) SQL() string { return qb.lastSQL }

// LastBindings returns the bindings of the last terminal call.
func (qb *QueryBuilder) LastBindings() []grammar.Binding { return qb.lastBindings }

// WhereSQL returns the compiled WHERE clause, or "" when there is none.
func (qb *QueryBuilder) WhereSQL() string {
	return qb.dialect.CompileWhere(&qb.where.clause)
}

// ToSQL compiles the SELECT collected so far without running or
// resetting it.
func (qb *QueryBuilder) ToSQL() (string, error) {
	stmt, err := qb.selectStatement("select")
	if err != nil {
		return "", err
	}
	query, err := qb.dialect.CompileSelect(stmt)
	if err != nil {
		return "", err
	}
	return terminate(query), nil
}

func (qb *QueryBuilder) selectStatement(op string) (*grammar.Select, error) {
	if err := qb.Err(); err != nil {
		return nil, err
	}
	if qb.table.IsZero() {
		return nil, errors.NewBuildError(errors.KindMissingTable, op, "no table specified, call Table first")
	}
	return &grammar.Select{
		Distinct: qb.distinct,
		Columns:  qb.columns,
		From:     &grammar.From{Table: qb.table},
		Joins:    qb.joins,
		Where:    qb.where.clause,
		OrderBy:  qb.orderBy,
		Limit:    qb.limit,
		Offset:   qb.offset,
	}, nil
}

func terminate(query string) string { return query + ";" }
