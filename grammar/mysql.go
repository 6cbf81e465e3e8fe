// Copyright (c) 2025 Yahya Qadeer Dar. All rights reserved.
// Use of this source code is governed by an Apache 2.0 license that can be found in the LICENSE file.

package grammar

import (
	"strings"
)

var mysqlDialect = &compiler{
	name:             MySQLName,
	quote:            '`',
	bindStyle:        BindPositional,
	placeholder:      func(int) string { return "?" },
	returning:        false,
	offsetNeedsLimit: "18446744073709551615",
	upsert:           mysqlUpsert,
	assign:           mysqlAssign,
}

// MySQL returns the MySQL and MariaDB dialect.
func MySQL() Dialect { return mysqlDialect }

// mysqlUpsert renders ON DUPLICATE KEY UPDATE. MySQL reacts to any unique
// key, so conflict targets are not written. DO NOTHING becomes a no-op
// self assignment of the first target, or of the first column.
func mysqlUpsert(c *compiler, conflict *OnConflict, columns []Term) (string, error) {
	if conflict.Action == DoNothing || len(conflict.Sets) == 0 {
		col := columns[0]
		if len(conflict.Targets) > 0 {
			col = conflict.Targets[0]
		}
		q := c.QuoteIdentifier(col)
		return "ON DUPLICATE KEY UPDATE " + q + " = " + q, nil
	}
	return "ON DUPLICATE KEY UPDATE " + c.compileSets(conflict.Sets), nil
}

// mysqlAssign keeps Expressions and explicit VALUES(...) strings and
// turns everything else into VALUES(col).
func mysqlAssign(c *compiler, column string, value interface{}, _ *Bindings) Term {
	switch v := value.(type) {
	case Expression:
		return v.Term()
	case string:
		if strings.HasPrefix(v, "VALUES(") {
			return Raw(v).Term()
		}
	}
	return Raw("VALUES(" + c.Quote(column) + ")").Term()
}
