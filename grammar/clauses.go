// Copyright (c) 2025 Yahya Qadeer Dar. All rights reserved.
// Use of this source code is governed by an Apache 2.0 license that can be found in the LICENSE file.

package grammar

// From names the table of a SELECT.
type From struct {
	Table Term
}

// Join is one JOIN clause.
type Join struct {
	Type  JoinType
	Table Term
	On    ConditionsClause
}

// Order is one ORDER BY column.
type Order struct {
	Column    Term
	Direction Direction
}

// Limit caps the number of rows.
type Limit struct {
	Count int
}

// Offset skips rows.
type Offset struct {
	Count int
}

// Set is an assignment "column = value". Value is already rendered: a
// placeholder, an Expression or a dialect idiom such as VALUES(col).
type Set struct {
	Column Term
	Value  Term
}

// ConflictAction selects what an upsert does with a conflicting row.
type ConflictAction int

// Conflict actions.
const (
	DoNothing ConflictAction = iota
	DoUpdate
)

// OnConflict describes the upsert tail of an INSERT.
type OnConflict struct {
	Targets []Term
	Action  ConflictAction
	Sets    []Set
}

// Assignment is a requested upsert update before it is rendered by a dialect.
type Assignment struct {
	Column string
	Value  interface{}
}

type inferred struct{}

// Inferred asks the dialect for its "value just inserted" idiom:
// VALUES(col) on MySQL, EXCLUDED.col on Postgres and SQLite.
func Inferred(column string) Assignment {
	return Assignment{Column: column, Value: inferred{}}
}

// Assign sets column to value on conflict. Strings prefixed with
// "EXCLUDED." or "VALUES(" are dialect idioms; Expressions are raw.
func Assign(column string, value interface{}) Assignment {
	return Assignment{Column: column, Value: value}
}

// IsInferred reports whether the assignment was created by Inferred.
func (a Assignment) IsInferred() bool {
	_, ok := a.Value.(inferred)
	return ok
}
