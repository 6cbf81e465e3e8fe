// Copyright (c) 2025 Yahya Qadeer Dar. All rights reserved.
// Use of this source code is governed by an Apache 2.0 license that can be found in the LICENSE file.

package grammar

import (
	"strings"

	"github.com/YahyaDar/querybuilder/errors"
)

// Operators accepted by Where and its variants.
var comparisonOperators = map[string]bool{
	"=":  true,
	"!=": true,
	">":  true,
	">=": true,
	"<":  true,
	"<=": true,
}

// Operators produced by the dedicated builder methods.
const (
	OpLike       = "LIKE"
	OpNotLike    = "NOT LIKE"
	OpIn         = "IN"
	OpNotIn      = "NOT IN"
	OpIs         = "IS"
	OpBetween    = "BETWEEN"
	OpNotBetween = "NOT BETWEEN"
)

// ValidateOperator checks op against the comparison allow-list.
func ValidateOperator(op string) error {
	if !comparisonOperators[op] {
		return errors.InvalidInput("where", "invalid operator %q", op)
	}
	return nil
}

// JoinType is the kind of a JOIN clause.
type JoinType string

// Supported join types.
const (
	InnerJoin JoinType = "INNER"
	LeftJoin  JoinType = "LEFT"
	RightJoin JoinType = "RIGHT"
	FullJoin  JoinType = "FULL"
)

// ParseJoinType accepts INNER, LEFT, RIGHT or FULL in any case.
func ParseJoinType(s string) (JoinType, error) {
	switch jt := JoinType(strings.ToUpper(strings.TrimSpace(s))); jt {
	case InnerJoin, LeftJoin, RightJoin, FullJoin:
		return jt, nil
	}
	return "", errors.InvalidInput("join", "invalid join type %q", s)
}

// Direction is an ORDER BY direction.
type Direction string

// Sort directions.
const (
	Asc  Direction = "ASC"
	Desc Direction = "DESC"
)

// ParseDirection accepts asc or desc in any case.
func ParseDirection(s string) (Direction, error) {
	switch d := Direction(strings.ToUpper(strings.TrimSpace(s))); d {
	case Asc, Desc:
		return d, nil
	}
	return "", errors.InvalidInput("orderBy", "invalid order direction %q", s)
}
