// Copyright (c) 2025 Yahya Qadeer Dar. All rights reserved.
// Use of this source code is governed by an Apache 2.0 license that can be found in the LICENSE file.

package grammar

import (
	"github.com/YahyaDar/querybuilder/errors"
)

// Expression is a raw SQL fragment. It is never quoted and never bound.
type Expression struct {
	value string
}

// Raw wraps s as an Expression.
func Raw(s string) Expression {
	return Expression{value: s}
}

// Value returns the wrapped SQL.
func (e Expression) Value() string { return e.value }

// String implements fmt.Stringer.
func (e Expression) String() string { return e.value }

// Term returns the expression as a raw Term.
func (e Expression) Term() Term { return Term{text: e.value, raw: true} }

// Term is an identifier position in a statement: either a name that is
// quoted when rendered, or raw text emitted as is.
type Term struct {
	text string
	raw  bool
}

// Ident returns a Term for a plain identifier such as "users.id" or "users AS u".
func Ident(name string) Term {
	return Term{text: name}
}

// Idents converts names to Terms.
func Idents(names ...string) []Term {
	terms := make([]Term, len(names))
	for i, n := range names {
		terms[i] = Ident(n)
	}
	return terms
}

// TermOf accepts a string, an Expression or a Term.
func TermOf(v interface{}) (Term, error) {
	switch t := v.(type) {
	case string:
		return Ident(t), nil
	case Expression:
		return t.Term(), nil
	case *Expression:
		if t != nil {
			return t.Term(), nil
		}
	case Term:
		return t, nil
	}
	return Term{}, errors.InvalidInput("identifier", "expected string or Expression, got %T", v)
}

// TermsOf converts every value with TermOf and stops at the first failure.
func TermsOf(values ...interface{}) ([]Term, error) {
	terms := make([]Term, 0, len(values))
	for _, v := range values {
		t, err := TermOf(v)
		if err != nil {
			return nil, err
		}
		terms = append(terms, t)
	}
	return terms, nil
}

// IsRaw reports whether the term bypasses quoting.
func (t Term) IsRaw() bool { return t.raw }

// Text returns the unrendered text.
func (t Term) Text() string { return t.text }

// IsZero reports whether the term is empty.
func (t Term) IsZero() bool { return t.text == "" }
