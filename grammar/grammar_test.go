// Copyright (c) 2025 Yahya Qadeer Dar. All rights reserved.
// Use of this source code is governed by an Apache 2.0 license that can be found in the LICENSE file.

package grammar

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/YahyaDar/querybuilder/errors"
)

func where(b *Bindings, conj Conjunction, col, op string, value interface{}) Condition {
	return Condition{Left: Ident(col), Operator: op, Right: b.AddTerm(value), Conjunction: conj}
}

func TestBindingsAdd(t *testing.T) {
	b := NewBindings()
	assert.Equal(t, ":v1", b.Add(10))
	assert.Equal(t, "NOW()", b.Add(Raw("NOW()")))
	assert.Equal(t, ":v2", b.Add("Sam"))

	assert.Equal(t, []interface{}{10, "Sam"}, b.Values())
	assert.Equal(t, []Binding{{"v1", 10}, {"v2", "Sam"}}, b.Named())
	assert.Equal(t, map[string]interface{}{"v1": 10, "v2": "Sam"}, b.Map())
	assert.Equal(t, 2, b.Len())

	b.Reset()
	assert.Equal(t, 0, b.Len())
	assert.Equal(t, ":v1", b.Add(true))
}

func TestZeroValueBindingsStartAtOne(t *testing.T) {
	var b Bindings
	assert.Equal(t, ":v1", b.Add(1))
}

func TestTermOf(t *testing.T) {
	term, err := TermOf("users.id")
	require.NoError(t, err)
	assert.False(t, term.IsRaw())

	term, err = TermOf(Raw("COUNT(*)"))
	require.NoError(t, err)
	assert.True(t, term.IsRaw())
	assert.Equal(t, "COUNT(*)", term.Text())

	_, err = TermOf(42)
	assert.True(t, errors.Is(err, errors.ErrInvalidInput))

	_, err = TermsOf("id", 3.5)
	assert.Error(t, err)
}

func TestConjunctionPlacement(t *testing.T) {
	b := NewBindings()
	var c ConditionsClause
	c.AddCondition(where(b, Or, "a", "=", 1))
	c.AddCondition(where(b, And, "b", "=", 2))
	c.AddCondition(where(b, Or, "c", "=", 3))

	assert.Equal(t, "`a` = :v1 AND `b` = :v2 OR `c` = :v3", MySQL().CompileConditions(c.Entries()))
}

func TestEmptyClauseCompilesToNothing(t *testing.T) {
	var c ConditionsClause
	assert.Equal(t, "", MySQL().CompileWhere(&c))
	assert.Equal(t, "", Postgres().CompileConditions(nil))

	c.AddGroup(ConditionsGroup{Conjunction: Or})
	assert.True(t, c.IsEmpty())
}

func TestSelectRoundTrip(t *testing.T) {
	for name, want := range map[string]string{
		MySQLName:    "SELECT `id`, `name` FROM `users` WHERE `id` = :v1",
		PostgresName: `SELECT "id", "name" FROM "users" WHERE "id" = :v1`,
		SQLiteName:   `SELECT "id", "name" FROM "users" WHERE "id" = :v1`,
	} {
		d, err := ByName(name)
		require.NoError(t, err)

		b := NewBindings()
		s := &Select{Columns: Idents("id", "name"), From: &From{Table: Ident("users")}}
		s.Where.AddCondition(where(b, And, "id", "=", 1))

		sql, err := d.CompileSelect(s)
		require.NoError(t, err)
		assert.Equal(t, want, sql, name)
		assert.Equal(t, map[string]interface{}{"v1": 1}, b.Map())
	}
}

func TestNestedGroupNumbering(t *testing.T) {
	b := NewBindings()
	s := &Select{From: &From{Table: Ident("users")}}
	s.Where.AddCondition(where(b, And, "id", "=", 1))

	var inner ConditionsClause
	inner.AddCondition(where(b, And, "id", "=", 2))
	inner.AddCondition(where(b, And, "name", "=", "Sam"))
	s.Where.AddGroup(inner.Group(Or))

	sql, err := Postgres().CompileSelect(s)
	require.NoError(t, err)
	assert.Equal(t, `SELECT * FROM "users" WHERE "id" = :v1 OR ("id" = :v2 AND "name" = :v3)`, sql)
	assert.Equal(t, []interface{}{1, 2, "Sam"}, b.Values())
}

func TestSelectFullShape(t *testing.T) {
	b := NewBindings()
	join := Join{Type: LeftJoin, Table: Ident("images AS i")}
	join.On.AddCondition(Condition{Left: Ident("i.user_id"), Operator: "=", Right: Ident("u.id")})

	s := &Select{
		Distinct: true,
		Columns:  []Term{Ident("u.*"), Raw("COUNT(*) AS total").Term()},
		From:     &From{Table: Ident("users u")},
		Joins:    []Join{join},
		OrderBy:  []Order{{Column: Ident("u.name"), Direction: Desc}, {Column: Ident("u.id")}},
		Limit:    &Limit{Count: 10},
		Offset:   &Offset{Count: 20},
	}
	s.Where.AddCondition(where(b, And, "u.active", "=", true))

	sql, err := MySQL().CompileSelect(s)
	require.NoError(t, err)
	assert.Equal(t, "SELECT DISTINCT `u`.*, COUNT(*) AS total FROM `users` `u` "+
		"LEFT JOIN `images` AS `i` ON `i`.`user_id` = `u`.`id` "+
		"WHERE `u`.`active` = :v1 ORDER BY `u`.`name` DESC, `u`.`id` ASC LIMIT 10 OFFSET 20", sql)
}

func TestOffsetWithoutLimit(t *testing.T) {
	s := &Select{From: &From{Table: Ident("t")}, Offset: &Offset{Count: 5}}

	sql, err := MySQL().CompileSelect(s)
	require.NoError(t, err)
	assert.Equal(t, "SELECT * FROM `t` LIMIT 18446744073709551615 OFFSET 5", sql)

	sql, err = SQLite().CompileSelect(s)
	require.NoError(t, err)
	assert.Equal(t, `SELECT * FROM "t" LIMIT -1 OFFSET 5`, sql)

	sql, err = Postgres().CompileSelect(s)
	require.NoError(t, err)
	assert.Equal(t, `SELECT * FROM "t" OFFSET 5`, sql)
}

func TestJoinWithBoundAndNestedConditions(t *testing.T) {
	b := NewBindings()
	j := Join{Type: InnerJoin, Table: Ident("images")}
	j.On.AddCondition(Condition{Left: Ident("images.user_id"), Operator: "=", Right: Ident("users.id")})
	j.On.AddCondition(where(b, Or, "images.user_id", "=", 1))

	var group ConditionsClause
	group.AddCondition(where(b, And, "images.user_id", "=", 2))
	group.AddCondition(where(b, Or, "images.id", "=", 3))
	j.On.AddGroup(group.Group(And))

	assert.Equal(t, `INNER JOIN "images" ON "images"."user_id" = "users"."id" OR "images"."user_id" = :v1 `+
		`AND ("images"."user_id" = :v2 OR "images"."id" = :v3)`, Postgres().CompileJoin(&j))
}

func TestUpdateAndDelete(t *testing.T) {
	b := NewBindings()
	u := &Update{Table: Ident("users")}
	u.Where.AddCondition(where(b, And, "id", "=", 1))
	u.Sets = []Set{{Column: Ident("name"), Value: b.AddTerm("Sam")}}

	sql, err := Postgres().CompileUpdate(u)
	require.NoError(t, err)
	assert.Equal(t, `UPDATE "users" SET "name" = :v2 WHERE "id" = :v1`, sql)

	b.Reset()
	d := &Delete{Table: Ident("users")}
	d.Where.AddCondition(where(b, And, "id", "=", 1))
	d.Where.AddCondition(where(b, Or, "id", "=", 2))

	sql, err = Postgres().CompileDelete(d)
	require.NoError(t, err)
	assert.Equal(t, `DELETE FROM "users" WHERE "id" = :v1 OR "id" = :v2`, sql)
}

func TestUnsafeMutation(t *testing.T) {
	u := &Update{Table: Ident("users"), Sets: []Set{{Column: Ident("a"), Value: Raw("1").Term()}}}
	_, err := MySQL().CompileUpdate(u)
	assert.True(t, errors.Is(err, errors.ErrUnsafeMutation))

	u.Force = true
	sql, err := MySQL().CompileUpdate(u)
	require.NoError(t, err)
	assert.Equal(t, "UPDATE `users` SET `a` = 1", sql)

	d := &Delete{Table: Ident("users")}
	_, err = MySQL().CompileDelete(d)
	assert.Equal(t, errors.KindUnsafeMutation, errors.KindOf(err))

	d.Force = true
	sql, err = MySQL().CompileDelete(d)
	require.NoError(t, err)
	assert.Equal(t, "DELETE FROM `users`", sql)
}

func TestMissingTableAndEmptySet(t *testing.T) {
	_, err := MySQL().CompileDelete(&Delete{Force: true})
	assert.True(t, errors.Is(err, errors.ErrMissingTable))

	_, err = MySQL().CompileUpdate(&Update{Table: Ident("t"), Force: true})
	assert.True(t, errors.Is(err, errors.ErrInvalidInput))

	_, err = MySQL().CompileInsert(&Insert{Table: Ident("t")})
	assert.True(t, errors.Is(err, errors.ErrInvalidInput))

	_, err = MySQL().CompileInsert(&Insert{Columns: Idents("a"), Rows: [][]Term{{Raw("1").Term()}}})
	assert.True(t, errors.Is(err, errors.ErrMissingTable))
}

func insertOf(b *Bindings, table string, cols []string, rows ...[]interface{}) *Insert {
	ins := &Insert{Table: Ident(table), Columns: Idents(cols...)}
	for _, row := range rows {
		terms := make([]Term, len(row))
		for i, v := range row {
			terms[i] = b.AddTerm(v)
		}
		ins.Rows = append(ins.Rows, terms)
	}
	return ins
}

func TestInsertMultipleRows(t *testing.T) {
	b := NewBindings()
	ins := insertOf(b, "users", []string{"id", "name"}, []interface{}{1, "a"}, []interface{}{2, Raw("DEFAULT")})

	sql, err := MySQL().CompileInsert(ins)
	require.NoError(t, err)
	assert.Equal(t, "INSERT INTO `users` (`id`, `name`) VALUES (:v1, :v2), (:v3, DEFAULT)", sql)
	assert.Equal(t, 3, b.Len())
}

func TestInsertReturning(t *testing.T) {
	b := NewBindings()
	ins := insertOf(b, "users", []string{"name"}, []interface{}{"a"})
	ins.Returning = Idents("id")

	sql, err := Postgres().CompileInsert(ins)
	require.NoError(t, err)
	assert.Equal(t, `INSERT INTO "users" ("name") VALUES (:v1) RETURNING "id"`, sql)

	_, err = MySQL().CompileInsert(ins)
	assert.True(t, errors.Is(err, errors.ErrUnsupportedFeature))
}

func inferredSets(d Dialect, b *Bindings, cols ...string) []Set {
	sets := make([]Set, len(cols))
	for i, c := range cols {
		a := Inferred(c)
		sets[i] = Set{Column: Ident(c), Value: d.ConflictAssignment(a.Column, a.Value, b)}
	}
	return sets
}

func TestMySQLUpsertInferred(t *testing.T) {
	b := NewBindings()
	ins := insertOf(b, "users", []string{"id", "name"}, []interface{}{1, "Sam"})
	ins.Conflict = &OnConflict{Targets: Idents("id"), Action: DoUpdate, Sets: inferredSets(MySQL(), b, "name")}

	sql, err := MySQL().CompileInsert(ins)
	require.NoError(t, err)
	assert.Equal(t, "INSERT INTO `users` (`id`, `name`) VALUES (:v1, :v2) ON DUPLICATE KEY UPDATE `name` = VALUES(`name`)", sql)
}

func TestPostgresUpsertInferred(t *testing.T) {
	b := NewBindings()
	ins := insertOf(b, "users", []string{"id", "name"}, []interface{}{1, "Sam"})
	ins.Conflict = &OnConflict{Targets: Idents("id"), Action: DoUpdate, Sets: inferredSets(Postgres(), b, "name")}

	sql, err := Postgres().CompileInsert(ins)
	require.NoError(t, err)
	assert.Equal(t, `INSERT INTO "users" ("id", "name") VALUES (:v1, :v2) ON CONFLICT ("id") DO UPDATE SET "name" = EXCLUDED."name"`, sql)
}

func TestConflictAssignments(t *testing.T) {
	b := NewBindings()

	my := MySQL()
	assert.Equal(t, "VALUES(`n`)", my.ConflictAssignment("n", 5, b).Text())
	assert.Equal(t, "VALUES(`n`)", my.ConflictAssignment("n", ":v9", b).Text())
	assert.Equal(t, "VALUES(`other`)", my.ConflictAssignment("n", "VALUES(`other`)", b).Text())
	assert.Equal(t, "`n` + 1", my.ConflictAssignment("n", Raw("`n` + 1"), b).Text())
	assert.Equal(t, 0, b.Len())

	pg := Postgres()
	assert.Equal(t, `EXCLUDED."score"`, pg.ConflictAssignment("n", "EXCLUDED.score", b).Text())
	assert.Equal(t, `"n" + 1`, pg.ConflictAssignment("n", Raw(`"n" + 1`), b).Text())
	assert.Equal(t, ":v1", pg.ConflictAssignment("n", 42, b).Text())
	assert.Equal(t, []interface{}{42}, b.Values())
}

func TestDoNothing(t *testing.T) {
	b := NewBindings()
	ins := insertOf(b, "users", []string{"id", "name"}, []interface{}{1, "Sam"})
	ins.Conflict = &OnConflict{Targets: Idents("id"), Action: DoNothing}

	sql, err := MySQL().CompileInsert(ins)
	require.NoError(t, err)
	assert.Equal(t, "INSERT INTO `users` (`id`, `name`) VALUES (:v1, :v2) ON DUPLICATE KEY UPDATE `id` = `id`", sql)

	sql, err = SQLite().CompileInsert(ins)
	require.NoError(t, err)
	assert.Equal(t, `INSERT INTO "users" ("id", "name") VALUES (:v1, :v2) ON CONFLICT ("id") DO NOTHING`, sql)

	ins.Conflict = &OnConflict{Action: DoNothing}
	sql, err = Postgres().CompileInsert(ins)
	require.NoError(t, err)
	assert.Equal(t, `INSERT INTO "users" ("id", "name") VALUES (:v1, :v2) ON CONFLICT DO NOTHING`, sql)

	ins.Conflict = &OnConflict{Action: DoUpdate, Sets: inferredSets(Postgres(), b, "name")}
	_, err = Postgres().CompileInsert(ins)
	assert.True(t, errors.Is(err, errors.ErrInvalidInput))
}

func TestInsertRowWidthMismatch(t *testing.T) {
	ins := &Insert{Table: Ident("t"), Columns: Idents("a", "b"), Rows: [][]Term{{Raw("1").Term()}}}
	_, err := Postgres().CompileInsert(ins)
	assert.True(t, errors.Is(err, errors.ErrInvalidInput))
}

func TestValidation(t *testing.T) {
	for _, op := range []string{"=", "!=", ">", ">=", "<", "<="} {
		assert.NoError(t, ValidateOperator(op), op)
	}
	assert.Error(t, ValidateOperator("<>"))
	assert.Error(t, ValidateOperator("LIKE"))

	jt, err := ParseJoinType("left")
	require.NoError(t, err)
	assert.Equal(t, LeftJoin, jt)
	_, err = ParseJoinType("cross")
	assert.True(t, errors.Is(err, errors.ErrInvalidInput))

	dir, err := ParseDirection("desc")
	require.NoError(t, err)
	assert.Equal(t, Desc, dir)
	_, err = ParseDirection("up")
	assert.Error(t, err)
}

func TestDialectSelection(t *testing.T) {
	assert.Equal(t, PostgresName, ForDriver("pgsql").Name())
	assert.Equal(t, PostgresName, ForDriver("postgres").Name())
	assert.Equal(t, SQLiteName, ForDriver("sqlite3").Name())
	assert.Equal(t, MySQLName, ForDriver("mysql").Name())
	assert.Equal(t, MySQLName, ForDriver("anything").Name())

	_, err := ByName("oracle")
	assert.Error(t, err)

	assert.Equal(t, "$3", Postgres().Placeholder(3))
	assert.Equal(t, "?", MySQL().Placeholder(3))
	assert.Equal(t, BindNamed, SQLite().BindStyle())
	assert.False(t, MySQL().SupportsReturning())
}

func TestBindingsNamedSlots(t *testing.T) {
	b := NewBindings()
	assert.Equal(t, ":id", b.Bind("id", 1))
	assert.Equal(t, ":v1", b.Add("Sam"))
	assert.Equal(t, ":id", b.Bind("id", 2))

	assert.Equal(t, []Binding{{Name: "id", Value: 2}, {Name: "v1", Value: "Sam"}}, b.Named())
	assert.Equal(t, 2, b.Len())
}
