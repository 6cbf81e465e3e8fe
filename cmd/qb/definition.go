// Copyright (c) 2025 Yahya Qadeer Dar. All rights reserved.
// Use of this source code is governed by an Apache 2.0 license that can be found in the LICENSE file.

package main

import (
	"bytes"
	"context"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/YahyaDar/querybuilder/builder"
	"github.com/YahyaDar/querybuilder/errors"
	"github.com/YahyaDar/querybuilder/grammar"
)

// Definition is a query described in YAML.
//
//	table: users
//	select: [id, name]
//	where:
//	  - {column: id, op: "=", value: 1}
//	  - or: true
//	    group:
//	      - {column: name, op: like, value: "S%"}
//	order:
//	  - {column: id, direction: desc}
//	limit: 10
type Definition struct {
	Table    string      `yaml:"table"`
	Select   []string    `yaml:"select"`
	Distinct bool        `yaml:"distinct"`
	Joins    []JoinDef   `yaml:"joins"`
	Where    []Predicate `yaml:"where"`
	Order    []OrderDef  `yaml:"order"`
	Limit    *int        `yaml:"limit"`
	Offset   *int        `yaml:"offset"`

	Insert    []map[string]interface{} `yaml:"insert"`
	Returning []string                 `yaml:"returning"`
	Upsert    *UpsertDef               `yaml:"upsert"`
	Update    map[string]interface{}   `yaml:"update"`
	Delete    bool                     `yaml:"delete"`
	Force     bool                     `yaml:"force"`

	Count    bool         `yaml:"count"`
	First    bool         `yaml:"first"`
	Paginate *PaginateDef `yaml:"paginate"`
}

// Predicate is one WHERE entry. Op is a comparison operator or one of
// like, not like, in, not in, null, not null, between, not between.
// Column compares against another column instead of a value. A
// non-empty Group nests its predicates in parentheses.
type Predicate struct {
	Or     bool        `yaml:"or"`
	Column string      `yaml:"column"`
	Op     string      `yaml:"op"`
	Value  interface{} `yaml:"value"`
	Other  string      `yaml:"other"`
	Group  []Predicate `yaml:"group"`
}

// JoinDef joins a table. Each On entry compares two columns unless it
// carries a Value.
type JoinDef struct {
	Type  string      `yaml:"type"`
	Table string      `yaml:"table"`
	On    []Predicate `yaml:"on"`
}

// OrderDef is one ORDER BY column.
type OrderDef struct {
	Column    string `yaml:"column"`
	Direction string `yaml:"direction"`
}

// UpsertDef inserts rows and updates those conflicting on UniqueBy.
// Update lists the columns to overwrite; empty means every other column.
type UpsertDef struct {
	Rows     []map[string]interface{} `yaml:"rows"`
	UniqueBy []string                 `yaml:"unique_by"`
	Update   []string                 `yaml:"update"`
}

// PaginateDef requests one page of a SELECT.
type PaginateDef struct {
	Page    int  `yaml:"page"`
	PerPage int  `yaml:"per_page"`
	Simple  bool `yaml:"simple"`
}

// LoadDefinition reads a definition file.
func LoadDefinition(path string) (*Definition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.InvalidInput("load", "cannot read %s: %v", path, err)
	}
	return ParseDefinition(data)
}

// ParseDefinition decodes YAML, rejecting unknown keys.
func ParseDefinition(data []byte) (*Definition, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var def Definition
	if err := dec.Decode(&def); err != nil {
		return nil, errors.InvalidInput("load", "invalid query definition: %v", err)
	}
	if def.Table == "" {
		return nil, errors.NewBuildError(errors.KindMissingTable, "load", "query definition has no table")
	}
	if def.statements() > 1 {
		return nil, errors.InvalidInput("load", "only one of insert, upsert, update and delete may be given")
	}
	return &def, nil
}

func (d *Definition) statements() int {
	n := 0
	for _, set := range []bool{len(d.Insert) > 0, d.Upsert != nil, len(d.Update) > 0, d.Delete} {
		if set {
			n++
		}
	}
	return n
}

// Apply adds the definition's clauses to qb.
func (d *Definition) Apply(qb *builder.QueryBuilder) *builder.QueryBuilder {
	qb.Table(d.Table)
	if len(d.Select) > 0 {
		qb.Select(strings2any(d.Select)...)
	}
	if d.Distinct {
		qb.Distinct()
	}
	for _, j := range d.Joins {
		on := j.On
		typ := j.Type
		if typ == "" {
			typ = "inner"
		}
		qb.JoinOfType(typ, j.Table, func(jb *builder.JoinBuilder) {
			applyJoin(jb, on)
		})
	}
	applyWhere(qb.Conditions(), d.Where)
	for _, o := range d.Order {
		dir := o.Direction
		if dir == "" {
			dir = "asc"
		}
		qb.OrderBy(o.Column, dir)
	}
	if d.Limit != nil {
		qb.Limit(*d.Limit)
	}
	if d.Offset != nil {
		qb.Offset(*d.Offset)
	}
	if d.Force {
		qb.Force()
	}
	return qb
}

func applyWhere(w *builder.WhereBuilder, preds []Predicate) {
	for _, p := range preds {
		p := p
		if len(p.Group) > 0 {
			fn := func(g *builder.WhereBuilder) { applyWhere(g, p.Group) }
			if p.Or {
				w.OrWhereGroup(fn)
			} else {
				w.WhereGroup(fn)
			}
			continue
		}
		applyPredicate(w, p)
	}
}

func applyPredicate(w *builder.WhereBuilder, p Predicate) {
	op := strings.ToLower(strings.Join(strings.Fields(p.Op), " "))
	or := p.Or
	pick := func(and, orFn func()) {
		if or {
			orFn()
		} else {
			and()
		}
	}

	switch {
	case p.Other != "":
		pick(func() { w.WhereColumn(p.Column, p.Op, p.Other) }, func() { w.OrWhereColumn(p.Column, p.Op, p.Other) })
	case op == "like":
		pick(func() { w.WhereLike(p.Column, p.Value) }, func() { w.OrWhereLike(p.Column, p.Value) })
	case op == "not like":
		pick(func() { w.WhereNotLike(p.Column, p.Value) }, func() { w.OrWhereNotLike(p.Column, p.Value) })
	case op == "in":
		pick(func() { w.WhereIn(p.Column, listOf(p.Value)) }, func() { w.OrWhereIn(p.Column, listOf(p.Value)) })
	case op == "not in":
		pick(func() { w.WhereNotIn(p.Column, listOf(p.Value)) }, func() { w.OrWhereNotIn(p.Column, listOf(p.Value)) })
	case op == "null":
		pick(func() { w.WhereNull(p.Column) }, func() { w.OrWhereNull(p.Column) })
	case op == "not null":
		pick(func() { w.WhereNotNull(p.Column) }, func() { w.OrWhereNotNull(p.Column) })
	case op == "between" || op == "not between":
		low, high := bounds(p.Value)
		switch {
		case op == "between" && or:
			w.OrWhereBetween(p.Column, low, high)
		case op == "between":
			w.WhereBetween(p.Column, low, high)
		case or:
			w.OrWhereNotBetween(p.Column, low, high)
		default:
			w.WhereNotBetween(p.Column, low, high)
		}
	default:
		pick(func() { w.Where(p.Column, p.Op, p.Value) }, func() { w.OrWhere(p.Column, p.Op, p.Value) })
	}
}

func applyJoin(j *builder.JoinBuilder, preds []Predicate) {
	for _, p := range preds {
		switch {
		case p.Value != nil && p.Or:
			j.OrWhere(p.Column, p.Op, p.Value)
		case p.Value != nil:
			j.Where(p.Column, p.Op, p.Value)
		case p.Or:
			j.OrOn(p.Column, p.Op, p.Other)
		default:
			j.On(p.Column, p.Op, p.Other)
		}
	}
}

// listOf keeps a YAML list as is and wraps a scalar.
func listOf(v interface{}) []interface{} {
	switch l := v.(type) {
	case nil:
		return nil
	case []interface{}:
		return l
	}
	return []interface{}{v}
}

func bounds(v interface{}) (interface{}, interface{}) {
	l := listOf(v)
	var low, high interface{}
	if len(l) > 0 {
		low = l[0]
	}
	if len(l) > 1 {
		high = l[1]
	}
	return low, high
}

func strings2any(s []string) []interface{} {
	out := make([]interface{}, len(s))
	for i, v := range s {
		out[i] = v
	}
	return out
}

func rowsOf(maps []map[string]interface{}) []builder.Row {
	rows := make([]builder.Row, len(maps))
	for i, m := range maps {
		rows[i] = builder.Row(m)
	}
	return rows
}

// Run applies the definition to qb and runs its terminal call. The
// result is the rows, the affected count or a page.
func (d *Definition) Run(ctx context.Context, qb *builder.QueryBuilder) (interface{}, error) {
	d.Apply(qb)

	switch {
	case len(d.Insert) > 0 && len(d.Returning) > 0:
		return qb.InsertReturning(ctx, rowsOf(d.Insert), d.Returning...)
	case len(d.Insert) > 0:
		return qb.Insert(ctx, rowsOf(d.Insert)...)
	case d.Upsert != nil:
		assignments := make([]grammar.Assignment, len(d.Upsert.Update))
		for i, col := range d.Upsert.Update {
			assignments[i] = grammar.Inferred(col)
		}
		return qb.Upsert(ctx, rowsOf(d.Upsert.Rows), d.Upsert.UniqueBy, assignments...)
	case len(d.Update) > 0:
		return qb.Update(ctx, builder.Row(d.Update))
	case d.Delete:
		return qb.Delete(ctx)
	case d.Count:
		return qb.Count(ctx)
	case d.First:
		return qb.First(ctx)
	case d.Paginate != nil && d.Paginate.Simple:
		return qb.SimplePaginate(ctx, d.Paginate.Page, d.Paginate.PerPage)
	case d.Paginate != nil:
		return qb.Paginate(ctx, d.Paginate.Page, d.Paginate.PerPage)
	}
	return qb.Get(ctx)
}
