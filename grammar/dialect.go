// Copyright (c) 2025 Yahya Qadeer Dar. All rights reserved.
// Use of this source code is governed by an Apache 2.0 license that can be found in the LICENSE file.

package grammar

import (
	"strconv"
	"strings"

	"github.com/YahyaDar/querybuilder/errors"
	"github.com/YahyaDar/querybuilder/internal/sqlbuilder"
)

// BindStyle is how a driver expects parameters to be written.
type BindStyle int

// Bind styles.
const (
	// BindNamed keeps :name markers and passes sql.Named arguments.
	BindNamed BindStyle = iota
	// BindNumbered rewrites to $1, $2 ... with one position per name.
	BindNumbered
	// BindPositional rewrites every marker to ? in order of appearance.
	BindPositional
)

// Dialect renders statements for one database family. Compiled SQL
// has no trailing semicolon and uses :vN placeholders.
type Dialect interface {
	Name() string
	QuoteIdentifier(t Term) string
	Quote(name string) string

	// Placeholder returns the driver's native marker for argument pos (1-based).
	Placeholder(pos int) string
	BindStyle() BindStyle

	CompileSelect(s *Select) (string, error)
	CompileInsert(i *Insert) (string, error)
	CompileUpdate(u *Update) (string, error)
	CompileDelete(d *Delete) (string, error)
	CompileWhere(c *ConditionsClause) string
	CompileJoin(j *Join) string
	CompileConditions(entries []Entry) string

	// ConflictAssignment renders the value side of an upsert assignment.
	// Values that need binding are registered with b.
	ConflictAssignment(column string, value interface{}, b *Bindings) Term
	SupportsReturning() bool
}

// Dialect names.
const (
	MySQLName    = "mysql"
	PostgresName = "postgres"
	SQLiteName   = "sqlite"
)

// compiler is the single Dialect implementation; each database family is
// a configuration of it.
type compiler struct {
	name        string
	quote       byte
	bindStyle   BindStyle
	placeholder func(pos int) string
	returning   bool

	// offsetNeedsLimit is the LIMIT written when only an offset is set
	offsetNeedsLimit string

	upsert func(c *compiler, conflict *OnConflict, columns []Term) (string, error)
	assign func(c *compiler, column string, value interface{}, b *Bindings) Term
}

func (c *compiler) Name() string { return c.name }

func (c *compiler) QuoteIdentifier(t Term) string {
	if t.raw {
		return t.text
	}
	return QuoteIdentifier(t.text, c.quote)
}

func (c *compiler) Quote(name string) string {
	return QuoteIdentifier(name, c.quote)
}

func (c *compiler) Placeholder(pos int) string { return c.placeholder(pos) }

func (c *compiler) BindStyle() BindStyle { return c.bindStyle }

func (c *compiler) SupportsReturning() bool { return c.returning }

func (c *compiler) ConflictAssignment(column string, value interface{}, b *Bindings) Term {
	return c.assign(c, column, value, b)
}

func (c *compiler) quoteAll(terms []Term) string {
	return JoinTo(terms, ", ", c.QuoteIdentifier)
}

func (c *compiler) CompileSelect(s *Select) (string, error) {
	b := sqlbuilder.NewBuilder("SELECT")
	b.AppendIf(s.Distinct, "DISTINCT")

	if len(s.Columns) == 0 {
		b.Append("*")
	} else {
		b.Append(c.quoteAll(s.Columns))
	}

	if s.From != nil {
		if s.From.Table.IsZero() {
			return "", errors.NewBuildError(errors.KindMissingTable, "select", "no table specified")
		}
		b.Append("FROM " + c.QuoteIdentifier(s.From.Table))
	}

	for i := range s.Joins {
		b.Append(c.CompileJoin(&s.Joins[i]))
	}

	b.Append(c.CompileWhere(&s.Where))

	b.AppendList("ORDER BY ", orderItems(c, s.OrderBy), ", ")

	switch {
	case s.Limit != nil:
		b.Append("LIMIT " + strconv.Itoa(s.Limit.Count))
	case s.Offset != nil && c.offsetNeedsLimit != "":
		b.Append("LIMIT " + c.offsetNeedsLimit)
	}
	if s.Offset != nil {
		b.Append("OFFSET " + strconv.Itoa(s.Offset.Count))
	}

	return b.SQL(), nil
}

func orderItems(c *compiler, orders []Order) []string {
	items := make([]string, len(orders))
	for i, o := range orders {
		dir := o.Direction
		if dir == "" {
			dir = Asc
		}
		items[i] = c.QuoteIdentifier(o.Column) + " " + string(dir)
	}
	return items
}

func (c *compiler) CompileInsert(i *Insert) (string, error) {
	if err := i.validate(); err != nil {
		return "", err
	}
	if len(i.Returning) > 0 && !c.returning {
		return "", errors.Unsupported("insert", "%s does not support RETURNING", c.name)
	}

	rows := make([]string, len(i.Rows))
	for n, row := range i.Rows {
		rows[n] = sqlbuilder.Parenthesize(c.quoteAll(row))
	}

	b := sqlbuilder.NewBuilder(
		"INSERT INTO",
		c.QuoteIdentifier(i.Table),
		sqlbuilder.Parenthesize(c.quoteAll(i.Columns)),
		"VALUES",
		strings.Join(rows, ", "),
	)

	if i.Conflict != nil {
		tail, err := c.upsert(c, i.Conflict, i.Columns)
		if err != nil {
			return "", err
		}
		b.Append(tail)
	}

	if len(i.Returning) > 0 {
		b.Append("RETURNING " + c.quoteAll(i.Returning))
	}

	return b.SQL(), nil
}

func (c *compiler) CompileUpdate(u *Update) (string, error) {
	if err := u.EnsureSafe(); err != nil {
		return "", err
	}
	if u.Table.IsZero() {
		return "", errors.NewBuildError(errors.KindMissingTable, "update", "no table specified")
	}
	if len(u.Sets) == 0 {
		return "", errors.InvalidInput("update", "update statement must specify at least one column to update")
	}

	b := sqlbuilder.NewBuilder("UPDATE", c.QuoteIdentifier(u.Table), "SET "+c.compileSets(u.Sets))
	for i := range u.Joins {
		b.Append(c.CompileJoin(&u.Joins[i]))
	}
	b.Append(c.CompileWhere(&u.Where))

	return b.SQL(), nil
}

func (c *compiler) CompileDelete(d *Delete) (string, error) {
	if err := d.EnsureSafe(); err != nil {
		return "", err
	}
	if d.Table.IsZero() {
		return "", errors.NewBuildError(errors.KindMissingTable, "delete", "no table specified")
	}

	b := sqlbuilder.NewBuilder("DELETE FROM", c.QuoteIdentifier(d.Table))
	for i := range d.Joins {
		b.Append(c.CompileJoin(&d.Joins[i]))
	}
	b.Append(c.CompileWhere(&d.Where))

	return b.SQL(), nil
}

func (c *compiler) compileSets(sets []Set) string {
	return JoinTo(sets, ", ", func(s Set) string {
		return c.QuoteIdentifier(s.Column) + " = " + c.QuoteIdentifier(s.Value)
	})
}

func (c *compiler) CompileWhere(where *ConditionsClause) string {
	if where == nil || where.IsEmpty() {
		return ""
	}
	return "WHERE " + c.CompileConditions(where.entries)
}

func (c *compiler) CompileJoin(j *Join) string {
	typ := j.Type
	if typ == "" {
		typ = InnerJoin
	}
	b := sqlbuilder.NewBuilder(string(typ)+" JOIN", c.QuoteIdentifier(j.Table))
	b.AppendPrefixed("ON ", c.CompileConditions(j.On.entries))
	return b.SQL()
}

// CompileConditions renders entries joined by single spaces. Every entry
// after the first is prefixed with its own conjunction.
func (c *compiler) CompileConditions(entries []Entry) string {
	parts := make([]string, 0, len(entries))
	for _, e := range entries {
		var s string
		switch e.Kind {
		case ConditionEntry:
			s = c.compileCondition(e.Condition)
		case GroupEntry:
			inner := c.CompileConditions(e.Group.Entries)
			if inner == "" {
				continue
			}
			s = sqlbuilder.Parenthesize(inner)
		}
		if len(parts) > 0 {
			s = e.Conjunction().String() + " " + s
		}
		parts = append(parts, s)
	}
	return strings.Join(parts, " ")
}

func (c *compiler) compileCondition(cond Condition) string {
	return c.QuoteIdentifier(cond.Left) + " " + cond.Operator + " " + c.QuoteIdentifier(cond.Right)
}

// ForDriver picks a dialect from a database/sql driver name.
// pgsql, postgres and postgresql select Postgres; sqlite and sqlite3
// select SQLite; everything else is MySQL.
func ForDriver(driver string) Dialect {
	switch strings.ToLower(strings.TrimSpace(driver)) {
	case "pgsql", "postgres", "postgresql", "pgx":
		return Postgres()
	case "sqlite", "sqlite3":
		return SQLite()
	default:
		return MySQL()
	}
}

// ByName returns the dialect called name, accepting the same aliases
// as ForDriver, and fails for anything unknown.
func ByName(name string) (Dialect, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "mysql", "mariadb":
		return MySQL(), nil
	case "pgsql", "postgres", "postgresql":
		return Postgres(), nil
	case "sqlite", "sqlite3":
		return SQLite(), nil
	}
	return nil, errors.InvalidInput("dialect", "unknown dialect %q", name)
}

// Names lists the dialects in a stable order.
func Names() []string {
	return []string{MySQLName, PostgresName, SQLiteName}
}
