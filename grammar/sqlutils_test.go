// Copyright (c) 2025 Yahya Qadeer Dar. All rights reserved.
// Use of this source code is governed by an Apache 2.0 license that can be found in the LICENSE file.

package grammar

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestQuoteIdentifier(t *testing.T) {
	tests := []struct {
		name  string
		in    string
		quote byte
		want  string
	}{
		{"plain mysql", "users", '`', "`users`"},
		{"plain postgres", "users", '"', `"users"`},
		{"dotted", "users.id", '"', `"users"."id"`},
		{"star", "users.*", '"', `"users".*`},
		{"bare star", "*", '`', "*"},
		{"as alias", "users AS u", '"', `"users" AS "u"`},
		{"lower as alias", "users.name as n", '`', "`users`.`name` AS `n`"},
		{"space alias", "users u", '"', `"users" "u"`},
		{"space alias quoted", `users "u"`, '"', `"users" "u"`},
		{"schema table", "public.users", '"', `"public"."users"`},
		{"embedded quote", `we"ird`, '"', `"we""ird"`},
		{"embedded backtick", "we`ird", '`', "`we``ird`"},
		{"single char identifier part", "a b", '"', `"a b"`},
		{"not aliasable", "COUNT(*) total", '"', `"COUNT(*) total"`},
		{"surrounding spaces", "  users  ", '"', `"users"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, QuoteIdentifier(tt.in, tt.quote))
		})
	}
}

func TestQuoteIdentifierIdempotent(t *testing.T) {
	inputs := []string{"users", "users.id", `we"ird`, "users AS u", "users u", "users.*"}
	for _, in := range inputs {
		once := QuoteIdentifier(in, '"')
		assert.Equal(t, once, QuoteIdentifier(once, '"'), in)
	}

	once := QuoteIdentifier("we`ird.col", '`')
	assert.Equal(t, "`we``ird.col`", once)
	assert.Equal(t, once, QuoteIdentifier(once, '`'))
}

func TestJoinTo(t *testing.T) {
	got := JoinTo([]int{1, 2, 3}, "-", func(i int) string { return string(rune('a' + i - 1)) })
	assert.Equal(t, "a-b-c", got)
	assert.Equal(t, "", JoinTo(nil, ", ", func(s string) string { return s }))
}
