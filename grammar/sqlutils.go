// Copyright (c) 2025 Yahya Qadeer Dar. All rights reserved.
// Use of this source code is governed by an Apache 2.0 license that can be found in the LICENSE file.

package grammar

import (
	"strings"
)

// JoinTo renders every item with fn and joins the results with sep.
func JoinTo[T any](items []T, sep string, fn func(T) string) string {
	parts := make([]string, len(items))
	for i, item := range items {
		parts[i] = fn(item)
	}
	return strings.Join(parts, sep)
}

// QuoteIdentifier quotes ident with the quote character q.
//
//	users           -> "users"
//	users.*         -> "users".*
//	users AS u      -> "users" AS "u"
//	users u         -> "users" "u"
//	"users"."id"    -> "users"."id"
//
// Embedded quote characters are doubled. Identifiers holding anything
// besides letters, digits, underscores, dots, spaces, quotes and * are
// never split on aliases; wrap such fragments in Raw.
func QuoteIdentifier(ident string, q byte) string {
	ident = strings.TrimSpace(ident)

	if aliasable(ident) {
		if left, right, ok := splitAs(ident); ok {
			return QuoteIdentifier(left, q) + " AS " + QuoteIdentifier(right, q)
		}
		if left, right, ok := splitSpaceAlias(ident); ok {
			return QuoteIdentifier(left, q) + " " + QuoteIdentifier(right, q)
		}
	}

	segments := splitOutsideQuotes(ident, '.', q)
	for i, seg := range segments {
		switch {
		case seg == "*":
		case isQuoted(seg, q):
		default:
			quote := string(q)
			segments[i] = quote + strings.ReplaceAll(seg, quote, quote+quote) + quote
		}
	}
	return strings.Join(segments, ".")
}

func aliasable(s string) bool {
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9':
		case c == '_', c == '.', c == '"', c == '`', c == '*':
		case isSpace(c):
		default:
			return false
		}
	}
	return true
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\f' || c == '\v'
}

// splitAs finds the first " AS " outside quoted segments, ignoring case.
func splitAs(s string) (string, string, bool) {
	var quote byte
	for i := 0; i < len(s); i++ {
		c := s[i]
		if quote != 0 {
			if c == quote {
				quote = 0
			}
			continue
		}
		if c == '"' || c == '`' {
			quote = c
			continue
		}
		if !isSpace(c) || i+3 >= len(s) {
			continue
		}
		if strings.EqualFold(s[i+1:i+3], "as") && isSpace(s[i+3]) {
			left := strings.TrimSpace(s[:i])
			right := strings.TrimSpace(s[i+3:])
			if left != "" && right != "" {
				return left, right, true
			}
		}
	}
	return "", "", false
}

// splitSpaceAlias splits "expr alias" on the last token, which may be a
// quoted segment. The expression part must be longer than one character.
func splitSpaceAlias(s string) (string, string, bool) {
	i := len(s) - 1
	for i >= 0 && isSpace(s[i]) {
		i--
	}
	if i < 0 {
		return "", "", false
	}
	end := i + 1

	if s[i] == '"' || s[i] == '`' {
		quote := s[i]
		i--
		for i >= 0 && s[i] != quote {
			i--
		}
		if i < 0 {
			return "", "", false
		}
	} else {
		for i >= 0 && !isSpace(s[i]) {
			i--
		}
		i++
	}

	start := i
	if start <= 0 || !isSpace(s[start-1]) {
		return "", "", false
	}

	left := strings.TrimSpace(s[:start])
	if len(left) <= 1 {
		return "", "", false
	}
	return left, s[start:end], true
}

// splitOutsideQuotes splits s on sep, ignoring separators inside q-quoted segments.
func splitOutsideQuotes(s string, sep, q byte) []string {
	var parts []string
	inQuote := false
	start := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case q:
			inQuote = !inQuote
		case sep:
			if !inQuote {
				parts = append(parts, s[start:i])
				start = i + 1
			}
		}
	}
	return append(parts, s[start:])
}

// isQuoted reports whether seg is already a correctly escaped q-quoted identifier.
func isQuoted(seg string, q byte) bool {
	if len(seg) < 2 || seg[0] != q || seg[len(seg)-1] != q {
		return false
	}
	inner := seg[1 : len(seg)-1]
	for i := 0; i < len(inner); i++ {
		if inner[i] != q {
			continue
		}
		if i+1 >= len(inner) || inner[i+1] != q {
			return false
		}
		i++
	}
	return true
}
