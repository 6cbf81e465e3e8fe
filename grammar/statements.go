// Copyright (c) 2025 Yahya Qadeer Dar. All rights reserved.
// Use of this source code is governed by an Apache 2.0 license that can be found in the LICENSE file.

package grammar

import (
	"github.com/YahyaDar/querybuilder/errors"
)

// Select is a SELECT statement.
type Select struct {
	Distinct bool
	Columns  []Term
	From     *From
	Joins    []Join
	Where    ConditionsClause
	OrderBy  []Order
	Limit    *Limit
	Offset   *Offset
}

// Insert is an INSERT statement. Each row holds one rendered value per column.
type Insert struct {
	Table     Term
	Columns   []Term
	Rows      [][]Term
	Conflict  *OnConflict
	Returning []Term
}

// Update is an UPDATE statement.
type Update struct {
	Table Term
	Sets  []Set
	Joins []Join
	Where ConditionsClause
	Force bool
}

// Delete is a DELETE statement.
type Delete struct {
	Table Term
	Joins []Join
	Where ConditionsClause
	Force bool
}

// EnsureSafe fails unless the update has a WHERE clause or was forced.
func (u *Update) EnsureSafe() error {
	if u.Where.IsEmpty() && !u.Force {
		return errors.NewBuildError(errors.KindUnsafeMutation, "update",
			"update statement requires a where clause, call Force to update every row")
	}
	return nil
}

// EnsureSafe fails unless the delete has a WHERE clause or was forced.
func (d *Delete) EnsureSafe() error {
	if d.Where.IsEmpty() && !d.Force {
		return errors.NewBuildError(errors.KindUnsafeMutation, "delete",
			"delete statement requires a where clause, call Force to delete every row")
	}
	return nil
}

func (i *Insert) validate() error {
	if i.Table.IsZero() {
		return errors.NewBuildError(errors.KindMissingTable, "insert", "no table specified")
	}
	if len(i.Columns) == 0 {
		return errors.InvalidInput("insert", "insert requires at least one column")
	}
	if len(i.Rows) == 0 {
		return errors.InvalidInput("insert", "insert requires at least one row")
	}
	for n, row := range i.Rows {
		if len(row) != len(i.Columns) {
			return errors.InvalidInput("insert", "row %d has %d values, expected %d", n, len(row), len(i.Columns))
		}
	}
	return nil
}
