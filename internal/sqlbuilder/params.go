// Copyright (c) 2025 Yahya Qadeer Dar. All rights reserved.
// Use of this source code is governed by an Apache 2.0 license that can be found in the LICENSE file.

package sqlbuilder

import (
	"strings"
)

// Param is a :name marker located in a statement.
type Param struct {
	Name  string
	Start int
	End   int
}

// Params lists every :name marker of query in order of appearance.
// Quoted strings, quoted identifiers and :: casts are skipped.
func Params(query string) []Param {
	var params []Param
	for i := 0; i < len(query); i++ {
		c := query[i]
		switch c {
		case '\'', '"', '`':
			i = skipQuoted(query, i)
		case ':':
			if i+1 < len(query) && query[i+1] == ':' {
				i++
				continue
			}
			j := i + 1
			for j < len(query) && isNameByte(query[j], j == i+1) {
				j++
			}
			if j > i+1 {
				params = append(params, Param{Name: query[i+1 : j], Start: i, End: j})
				i = j - 1
			}
		}
	}
	return params
}

// skipQuoted returns the index of the quote closing the segment opened at i.
// A doubled quote inside the segment is an escaped quote.
func skipQuoted(s string, i int) int {
	quote := s[i]
	for j := i + 1; j < len(s); j++ {
		if s[j] != quote {
			continue
		}
		if j+1 < len(s) && s[j+1] == quote {
			j++
			continue
		}
		return j
	}
	return len(s) - 1
}

func isNameByte(c byte, first bool) bool {
	switch {
	case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c == '_':
		return true
	case c >= '0' && c <= '9':
		return !first
	}
	return false
}

// Names returns the distinct parameter names of query in order of first appearance.
func Names(query string) []string {
	seen := make(map[string]bool)
	var names []string
	for _, p := range Params(query) {
		if !seen[p.Name] {
			seen[p.Name] = true
			names = append(names, p.Name)
		}
	}
	return names
}

// Rewrite replaces every :name marker with marker(pos). With reuse, each
// distinct name gets one position ($1, $2 ...) and repeats share it;
// without, every occurrence takes the next position (?). The returned
// names give the argument order.
func Rewrite(query string, marker func(pos int) string, reuse bool) (string, []string) {
	params := Params(query)
	if len(params) == 0 {
		return query, nil
	}

	var b strings.Builder
	b.Grow(len(query))

	positions := make(map[string]int)
	var order []string
	last := 0
	for _, p := range params {
		b.WriteString(query[last:p.Start])
		last = p.End

		if reuse {
			pos, ok := positions[p.Name]
			if !ok {
				order = append(order, p.Name)
				pos = len(order)
				positions[p.Name] = pos
			}
			b.WriteString(marker(pos))
			continue
		}

		order = append(order, p.Name)
		b.WriteString(marker(len(order)))
	}
	b.WriteString(query[last:])

	return b.String(), order
}
