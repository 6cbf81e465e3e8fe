// Copyright (c) 2025 Yahya Qadeer Dar. All rights reserved.
// Use of this source code is governed by an Apache 2.0 license that can be found in the LICENSE file.

package grammar

// SQLite accepts :name parameters natively, supports RETURNING since 3.35
// and needs a LIMIT in front of OFFSET.
var sqliteDialect = &compiler{
	name:             SQLiteName,
	quote:            '"',
	bindStyle:        BindNamed,
	placeholder:      func(int) string { return "?" },
	returning:        true,
	offsetNeedsLimit: "-1",
	upsert:           onConflictUpsert,
	assign:           excludedAssign,
}

// SQLite returns the SQLite dialect.
func SQLite() Dialect { return sqliteDialect }
