// Copyright (c) 2025 Yahya Qadeer Dar. All rights reserved.
// Use of this source code is governed by an Apache 2.0 license that can be found in the LICENSE file.

package builder

import (
	"strings"

	"github.com/YahyaDar/querybuilder/errors"
	"github.com/YahyaDar/querybuilder/grammar"
	"github.com/YahyaDar/querybuilder/internal/reflect"
)

// predicates collects conditions for one WHERE or ON list. The first
// error is kept and later calls are still recorded so chains stay fluent.
type predicates struct {
	bindings *grammar.Bindings
	clause   grammar.ConditionsClause
	err      error
}

func (p *predicates) fail(err error) {
	if p.err == nil {
		p.err = err
	}
}

// compare appends "column op value" with value bound.
func (p *predicates) compare(conj grammar.Conjunction, column interface{}, op string, value interface{}) {
	if err := grammar.ValidateOperator(op); err != nil {
		p.fail(err)
		return
	}
	p.condition(conj, column, op, func() grammar.Term { return p.bindings.AddTerm(value) })
}

// columns appends "first op second" where both sides are identifiers.
func (p *predicates) columns(conj grammar.Conjunction, first interface{}, op string, second interface{}) {
	if err := grammar.ValidateOperator(op); err != nil {
		p.fail(err)
		return
	}
	right, err := grammar.TermOf(second)
	if err != nil {
		p.fail(err)
		return
	}
	p.condition(conj, first, op, func() grammar.Term { return right })
}

// condition resolves the left side before binding the right so a bad
// column never consumes a slot.
func (p *predicates) condition(conj grammar.Conjunction, column interface{}, op string, right func() grammar.Term) {
	left, err := grammar.TermOf(column)
	if err != nil {
		p.fail(err)
		return
	}
	p.clause.AddCondition(grammar.Condition{
		Left:        left,
		Operator:    op,
		Right:       right(),
		Conjunction: conj,
	})
}

func (p *predicates) like(conj grammar.Conjunction, column interface{}, op string, pattern interface{}) {
	p.condition(conj, column, op, func() grammar.Term { return p.bindings.AddTerm(pattern) })
}

func (p *predicates) in(conj grammar.Conjunction, column interface{}, op string, values interface{}) {
	list := reflect.ToSlice(values)
	if len(list) == 0 {
		if op == grammar.OpIn {
			// nothing is in an empty list
			p.clause.AddCondition(grammar.Condition{
				Left:        grammar.Raw("1").Term(),
				Operator:    "=",
				Right:       grammar.Raw("0").Term(),
				Conjunction: conj,
			})
		}
		return
	}
	p.condition(conj, column, op, func() grammar.Term {
		markers := make([]string, len(list))
		for i, v := range list {
			markers[i] = p.bindings.Add(v)
		}
		return grammar.Raw("(" + strings.Join(markers, ", ") + ")").Term()
	})
}

func (p *predicates) null(conj grammar.Conjunction, column interface{}, not bool) {
	right := grammar.Raw("NULL")
	if not {
		right = grammar.Raw("NOT NULL")
	}
	p.condition(conj, column, grammar.OpIs, right.Term)
}

func (p *predicates) between(conj grammar.Conjunction, column interface{}, op string, low, high interface{}) {
	p.condition(conj, column, op, func() grammar.Term {
		return grammar.Raw(p.bindings.Add(low) + " AND " + p.bindings.Add(high)).Term()
	})
}

// WhereBuilder populates a WHERE clause or a parenthesized group inside one.
type WhereBuilder struct {
	predicates
}

func newWhereBuilder(b *grammar.Bindings) *WhereBuilder {
	return &WhereBuilder{predicates{bindings: b}}
}

// Err returns the first error recorded by the builder.
func (w *WhereBuilder) Err() error { return w.err }

// Clause returns the collected conditions.
func (w *WhereBuilder) Clause() *grammar.ConditionsClause { return &w.clause }

// Where adds "column op value" joined with AND.
func (w *WhereBuilder) Where(column interface{}, op string, value interface{}) *WhereBuilder {
	w.compare(grammar.And, column, op, value)
	return w
}

// OrWhere adds "column op value" joined with OR.
func (w *WhereBuilder) OrWhere(column interface{}, op string, value interface{}) *WhereBuilder {
	w.compare(grammar.Or, column, op, value)
	return w
}

// WhereColumn compares two columns.
func (w *WhereBuilder) WhereColumn(first interface{}, op string, second interface{}) *WhereBuilder {
	w.columns(grammar.And, first, op, second)
	return w
}

// OrWhereColumn compares two columns, joined with OR.
func (w *WhereBuilder) OrWhereColumn(first interface{}, op string, second interface{}) *WhereBuilder {
	w.columns(grammar.Or, first, op, second)
	return w
}

// WhereGroup adds the conditions fn sets up as one parenthesized group.
func (w *WhereBuilder) WhereGroup(fn func(*WhereBuilder)) *WhereBuilder {
	w.group(grammar.And, fn)
	return w
}

// OrWhereGroup is WhereGroup joined with OR.
func (w *WhereBuilder) OrWhereGroup(fn func(*WhereBuilder)) *WhereBuilder {
	w.group(grammar.Or, fn)
	return w
}

func (w *WhereBuilder) group(conj grammar.Conjunction, fn func(*WhereBuilder)) {
	if fn == nil {
		w.fail(errors.InvalidInput("where", "nil group function"))
		return
	}
	sub := newWhereBuilder(w.bindings)
	fn(sub)
	if sub.err != nil {
		w.fail(sub.err)
	}
	w.clause.AddGroup(sub.clause.Group(conj))
}

func (w *WhereBuilder) WhereLike(column interface{}, pattern interface{}) *WhereBuilder {
	w.like(grammar.And, column, grammar.OpLike, pattern)
	return w
}

func (w *WhereBuilder) OrWhereLike(column interface{}, pattern interface{}) *WhereBuilder {
	w.like(grammar.Or, column, grammar.OpLike, pattern)
	return w
}

func (w *WhereBuilder) WhereNotLike(column interface{}, pattern interface{}) *WhereBuilder {
	w.like(grammar.And, column, grammar.OpNotLike, pattern)
	return w
}

func (w *WhereBuilder) OrWhereNotLike(column interface{}, pattern interface{}) *WhereBuilder {
	w.like(grammar.Or, column, grammar.OpNotLike, pattern)
	return w
}

// WhereIn adds "column IN (...)". values may be any slice; an empty one
// renders the always false "1 = 0".
func (w *WhereBuilder) WhereIn(column interface{}, values interface{}) *WhereBuilder {
	w.in(grammar.And, column, grammar.OpIn, values)
	return w
}

func (w *WhereBuilder) OrWhereIn(column interface{}, values interface{}) *WhereBuilder {
	w.in(grammar.Or, column, grammar.OpIn, values)
	return w
}

// WhereNotIn adds "column NOT IN (...)". An empty list adds nothing.
func (w *WhereBuilder) WhereNotIn(column interface{}, values interface{}) *WhereBuilder {
	w.in(grammar.And, column, grammar.OpNotIn, values)
	return w
}

func (w *WhereBuilder) OrWhereNotIn(column interface{}, values interface{}) *WhereBuilder {
	w.in(grammar.Or, column, grammar.OpNotIn, values)
	return w
}

func (w *WhereBuilder) WhereNull(column interface{}) *WhereBuilder {
	w.null(grammar.And, column, false)
	return w
}

func (w *WhereBuilder) OrWhereNull(column interface{}) *WhereBuilder {
	w.null(grammar.Or, column, false)
	return w
}

func (w *WhereBuilder) WhereNotNull(column interface{}) *WhereBuilder {
	w.null(grammar.And, column, true)
	return w
}

func (w *WhereBuilder) OrWhereNotNull(column interface{}) *WhereBuilder {
	w.null(grammar.Or, column, true)
	return w
}

// WhereBetween adds "column BETWEEN low AND high".
func (w *WhereBuilder) WhereBetween(column interface{}, low, high interface{}) *WhereBuilder {
	w.between(grammar.And, column, grammar.OpBetween, low, high)
	return w
}

func (w *WhereBuilder) OrWhereBetween(column interface{}, low, high interface{}) *WhereBuilder {
	w.between(grammar.Or, column, grammar.OpBetween, low, high)
	return w
}

func (w *WhereBuilder) WhereNotBetween(column interface{}, low, high interface{}) *WhereBuilder {
	w.between(grammar.And, column, grammar.OpNotBetween, low, high)
	return w
}

func (w *WhereBuilder) OrWhereNotBetween(column interface{}, low, high interface{}) *WhereBuilder {
	w.between(grammar.Or, column, grammar.OpNotBetween, low, high)
	return w
}

// The WHERE family on QueryBuilder forwards to its WhereBuilder.

// Conditions returns the builder's top level WHERE. Predicates added to
// it are the same as those added through the QueryBuilder methods.
func (qb *QueryBuilder) Conditions() *WhereBuilder { return qb.where }

// Where adds "column op value" joined with AND.
func (qb *QueryBuilder) Where(column interface{}, op string, value interface{}) *QueryBuilder {
	qb.where.Where(column, op, value)
	return qb
}

func (qb *QueryBuilder) OrWhere(column interface{}, op string, value interface{}) *QueryBuilder {
	qb.where.OrWhere(column, op, value)
	return qb
}

func (qb *QueryBuilder) WhereColumn(first interface{}, op string, second interface{}) *QueryBuilder {
	qb.where.WhereColumn(first, op, second)
	return qb
}

func (qb *QueryBuilder) OrWhereColumn(first interface{}, op string, second interface{}) *QueryBuilder {
	qb.where.OrWhereColumn(first, op, second)
	return qb
}

// WhereGroup adds the conditions fn sets up as one parenthesized group.
func (qb *QueryBuilder) WhereGroup(fn func(*WhereBuilder)) *QueryBuilder {
	qb.where.WhereGroup(fn)
	return qb
}

func (qb *QueryBuilder) OrWhereGroup(fn func(*WhereBuilder)) *QueryBuilder {
	qb.where.OrWhereGroup(fn)
	return qb
}

func (qb *QueryBuilder) WhereLike(column interface{}, pattern interface{}) *QueryBuilder {
	qb.where.WhereLike(column, pattern)
	return qb
}

func (qb *QueryBuilder) OrWhereLike(column interface{}, pattern interface{}) *QueryBuilder {
	qb.where.OrWhereLike(column, pattern)
	return qb
}

func (qb *QueryBuilder) WhereNotLike(column interface{}, pattern interface{}) *QueryBuilder {
	qb.where.WhereNotLike(column, pattern)
	return qb
}

func (qb *QueryBuilder) OrWhereNotLike(column interface{}, pattern interface{}) *QueryBuilder {
	qb.where.OrWhereNotLike(column, pattern)
	return qb
}

// WhereIn adds "column IN (...)"; an empty list matches nothing.
func (qb *QueryBuilder) WhereIn(column interface{}, values interface{}) *QueryBuilder {
	qb.where.WhereIn(column, values)
	return qb
}

func (qb *QueryBuilder) OrWhereIn(column interface{}, values interface{}) *QueryBuilder {
	qb.where.OrWhereIn(column, values)
	return qb
}

// WhereNotIn adds "column NOT IN (...)"; an empty list adds nothing.
func (qb *QueryBuilder) WhereNotIn(column interface{}, values interface{}) *QueryBuilder {
	qb.where.WhereNotIn(column, values)
	return qb
}

func (qb *QueryBuilder) OrWhereNotIn(column interface{}, values interface{}) *QueryBuilder {
	qb.where.OrWhereNotIn(column, values)
	return qb
}

func (qb *QueryBuilder) WhereNull(column interface{}) *QueryBuilder {
	qb.where.WhereNull(column)
	return qb
}

func (qb *QueryBuilder) OrWhereNull(column interface{}) *QueryBuilder {
	qb.where.OrWhereNull(column)
	return qb
}

func (qb *QueryBuilder) WhereNotNull(column interface{}) *QueryBuilder {
	qb.where.WhereNotNull(column)
	return qb
}

func (qb *QueryBuilder) OrWhereNotNull(column interface{}) *QueryBuilder {
	qb.where.OrWhereNotNull(column)
	return qb
}

func (qb *QueryBuilder) WhereBetween(column interface{}, low, high interface{}) *QueryBuilder {
	qb.where.WhereBetween(column, low, high)
	return qb
}

func (qb *QueryBuilder) OrWhereBetween(column interface{}, low, high interface{}) *QueryBuilder {
	qb.where.OrWhereBetween(column, low, high)
	return qb
}

func (qb *QueryBuilder) WhereNotBetween(column interface{}, low, high interface{}) *QueryBuilder {
	qb.where.WhereNotBetween(column, low, high)
	return qb
}

func (qb *QueryBuilder) OrWhereNotBetween(column interface{}, low, high interface{}) *QueryBuilder {
	qb.where.OrWhereNotBetween(column, low, high)
	return qb
}
