// Copyright (c) 2025 Yahya Qadeer Dar. All rights reserved.
// Use of this source code is governed by an Apache 2.0 license that can be found in the LICENSE file.

package sqlbuilder

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuilderSkipsEmptySegments(t *testing.T) {
	b := NewBuilder("SELECT", "")
	b.AppendIf(false, "DISTINCT").
		Append("*", "FROM `users`").
		AppendPrefixed("WHERE ", "").
		AppendList("ORDER BY ", []string{"`id` ASC", "`name` DESC"}, ", ")

	assert.Equal(t, "SELECT * FROM `users` ORDER BY `id` ASC, `name` DESC", b.SQL())
	assert.Equal(t, 4, b.Len())

	b.Reset()
	assert.Equal(t, "", b.String())
}

func TestParams(t *testing.T) {
	q := `SELECT * FROM "t" WHERE "a" = :v1 AND "b"::text = ':v9' AND "c" = :v2 OR ":v3" = :name_1`
	params := Params(q)

	names := make([]string, len(params))
	for i, p := range params {
		names[i] = p.Name
	}
	assert.Equal(t, []string{"v1", "v2", "name_1"}, names)
	assert.Equal(t, ":v1", q[params[0].Start:params[0].End])
}

func TestParamsIgnoresBareColonAndEscapedQuotes(t *testing.T) {
	assert.Empty(t, Params("SELECT @x := 1"))
	assert.Empty(t, Params("SELECT 'it''s :v1'"))
	assert.Empty(t, Params("SELECT :1"))
}

func TestRewriteDollar(t *testing.T) {
	sql, order := Rewrite(`UPDATE "users" SET "name" = :v2 WHERE "id" = :v1 OR "owner" = :v2;`,
		func(pos int) string { return "$" + strconv.Itoa(pos) }, true)

	assert.Equal(t, `UPDATE "users" SET "name" = $1 WHERE "id" = $2 OR "owner" = $1;`, sql)
	assert.Equal(t, []string{"v2", "v1"}, order)
}

func TestRewriteQuestion(t *testing.T) {
	sql, order := Rewrite("SELECT * FROM `t` WHERE `a` = :v1 AND `b` = :v2 OR `c` = :v1;",
		func(int) string { return "?" }, false)

	assert.Equal(t, "SELECT * FROM `t` WHERE `a` = ? AND `b` = ? OR `c` = ?;", sql)
	assert.Equal(t, []string{"v1", "v2", "v1"}, order)
}

func TestRewriteWithoutParams(t *testing.T) {
	sql, order := Rewrite("SELECT 1;", func(int) string { return "?" }, false)
	assert.Equal(t, "SELECT 1;", sql)
	assert.Nil(t, order)
}

func TestNames(t *testing.T) {
	assert.Equal(t, []string{"id", "name"}, Names("SELECT :id, :name, :id"))
}
