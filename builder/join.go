// Copyright (c) 2025 Yahya Qadeer Dar. All rights reserved.
// Use of this source code is governed by an Apache 2.0 license that can be found in the LICENSE file.

package builder

import (
	"github.com/YahyaDar/querybuilder/errors"
	"github.com/YahyaDar/querybuilder/grammar"
)

// JoinBuilder populates the ON list of a join. On compares columns,
// Where binds values; both share the statement's bindings.
type JoinBuilder struct {
	predicates
}

func newJoinBuilder(b *grammar.Bindings) *JoinBuilder {
	return &JoinBuilder{predicates{bindings: b}}
}

// Err returns the first error recorded by the builder.
func (j *JoinBuilder) Err() error { return j.err }

// On adds "first op second" joined with AND.
func (j *JoinBuilder) On(first interface{}, op string, second interface{}) *JoinBuilder {
	j.columns(grammar.And, first, op, second)
	return j
}

// OrOn adds "first op second" joined with OR.
func (j *JoinBuilder) OrOn(first interface{}, op string, second interface{}) *JoinBuilder {
	j.columns(grammar.Or, first, op, second)
	return j
}

// Where adds "column op value" with value bound.
func (j *JoinBuilder) Where(column interface{}, op string, value interface{}) *JoinBuilder {
	j.compare(grammar.And, column, op, value)
	return j
}

// OrWhere is Where joined with OR.
func (j *JoinBuilder) OrWhere(column interface{}, op string, value interface{}) *JoinBuilder {
	j.compare(grammar.Or, column, op, value)
	return j
}

// WhereGroup adds the conditions fn sets up as one parenthesized group.
func (j *JoinBuilder) WhereGroup(fn func(*JoinBuilder)) *JoinBuilder {
	j.group(grammar.And, fn)
	return j
}

// OrWhereGroup is WhereGroup joined with OR.
func (j *JoinBuilder) OrWhereGroup(fn func(*JoinBuilder)) *JoinBuilder {
	j.group(grammar.Or, fn)
	return j
}

func (j *JoinBuilder) group(conj grammar.Conjunction, fn func(*JoinBuilder)) {
	if fn == nil {
		j.fail(errors.InvalidInput("join", "nil group function"))
		return
	}
	sub := newJoinBuilder(j.bindings)
	fn(sub)
	if sub.err != nil {
		j.fail(sub.err)
	}
	j.clause.AddGroup(sub.clause.Group(conj))
}

// build turns the collected conditions into a join of typ on table.
func (j *JoinBuilder) build(typ grammar.JoinType, table interface{}) (grammar.Join, error) {
	if j.err != nil {
		return grammar.Join{}, j.err
	}
	t, err := grammar.TermOf(table)
	if err != nil {
		return grammar.Join{}, err
	}
	if j.clause.IsEmpty() {
		return grammar.Join{}, errors.InvalidInput("join", "join on %q has no conditions", t.Text())
	}
	return grammar.Join{Type: typ, Table: t, On: j.clause}, nil
}
