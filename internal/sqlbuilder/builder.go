// Copyright (c) 2025 Yahya Qadeer Dar. All rights reserved.
// Use of this source code is governed by an Apache 2.0 license that can be found in the LICENSE file.

// Package sqlbuilder holds the low-level text utilities shared by the
// dialect compilers and the executor: a segment writer that joins SQL
// fragments with single spaces, and a scanner that rewrites :name
// parameters into a driver's native placeholder syntax.
package sqlbuilder

import (
	"strings"
)

// Builder accumulates the segments of one statement.
// Empty segments are dropped so optional clauses never leave gaps.
type Builder struct {
	segments []string
}

// NewBuilder creates an empty builder
func NewBuilder(first ...string) *Builder {
	b := &Builder{}
	return b.Append(first...)
}

// Reset clears the builder for reuse
func (b *Builder) Reset() {
	b.segments = b.segments[:0]
}

// Append adds non-empty segments.
func (b *Builder) Append(segments ...string) *Builder {
	for _, s := range segments {
		if s != "" {
			b.segments = append(b.segments, s)
		}
	}
	return b
}

// AppendIf adds segments when cond holds.
func (b *Builder) AppendIf(cond bool, segments ...string) *Builder {
	if cond {
		b.Append(segments...)
	}
	return b
}

// AppendPrefixed adds prefix followed by body, or nothing when body is empty.
func (b *Builder) AppendPrefixed(prefix, body string) *Builder {
	if body == "" {
		return b
	}
	return b.Append(prefix + body)
}

// AppendList adds "prefix item, item, ..." when items is not empty.
func (b *Builder) AppendList(prefix string, items []string, sep string) *Builder {
	if len(items) == 0 {
		return b
	}
	return b.AppendPrefixed(prefix, strings.Join(items, sep))
}

// Len returns the number of segments.
func (b *Builder) Len() int { return len(b.segments) }

// SQL returns the segments joined by single spaces.
func (b *Builder) SQL() string {
	return strings.Join(b.segments, " ")
}

// String returns the SQL query as a string (implements fmt.Stringer)
func (b *Builder) String() string {
	return b.SQL()
}

// Parenthesize wraps s in parentheses.
func Parenthesize(s string) string {
	return "(" + s + ")"
}
