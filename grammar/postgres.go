// Copyright (c) 2025 Yahya Qadeer Dar. All rights reserved.
// Use of this source code is governed by an Apache 2.0 license that can be found in the LICENSE file.

package grammar

import (
	"strconv"
	"strings"

	"github.com/YahyaDar/querybuilder/errors"
)

const excludedPrefix = "EXCLUDED."

var postgresDialect = &compiler{
	name:        PostgresName,
	quote:       '"',
	bindStyle:   BindNumbered,
	placeholder: func(pos int) string { return "$" + strconv.Itoa(pos) },
	returning:   true,
	upsert:      onConflictUpsert,
	assign:      excludedAssign,
}

// Postgres returns the PostgreSQL dialect.
func Postgres() Dialect { return postgresDialect }

// onConflictUpsert renders ON CONFLICT (targets) DO NOTHING | DO UPDATE SET ...
// Postgres and SQLite share it.
func onConflictUpsert(c *compiler, conflict *OnConflict, _ []Term) (string, error) {
	head := "ON CONFLICT"
	if len(conflict.Targets) > 0 {
		head += " (" + c.quoteAll(conflict.Targets) + ")"
	}

	if conflict.Action == DoNothing || len(conflict.Sets) == 0 {
		return head + " DO NOTHING", nil
	}
	if len(conflict.Targets) == 0 {
		return "", errors.InvalidInput("upsert", "%s requires conflict target columns for DO UPDATE", c.name)
	}
	return head + " DO UPDATE SET " + c.compileSets(conflict.Sets), nil
}

// excludedAssign maps "EXCLUDED.col" to EXCLUDED."col", keeps Expressions
// and binds every other value.
func excludedAssign(c *compiler, column string, value interface{}, b *Bindings) Term {
	switch v := value.(type) {
	case inferred:
		return Raw(excludedPrefix + c.Quote(column)).Term()
	case Expression:
		return v.Term()
	case string:
		if strings.HasPrefix(v, excludedPrefix) {
			return Raw(excludedPrefix + c.Quote(strings.TrimPrefix(v, excludedPrefix))).Term()
		}
	}
	return b.AddTerm(value)
}
