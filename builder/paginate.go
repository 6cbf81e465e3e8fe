// Copyright (c) 2025 Yahya Qadeer Dar. All rights reserved.
// Use of this source code is governed by an Apache 2.0 license that can be found in the LICENSE file.

package builder

import (
	"context"
	"database/sql"

	"github.com/YahyaDar/querybuilder/grammar"
	"github.com/YahyaDar/querybuilder/pagination"
)

// Paginate returns page of the SELECT, perPage rows at a time, with the
// total row count. A Limit set earlier overrides perPage in the query.
func (qb *QueryBuilder) Paginate(ctx context.Context, page, perPage int) (*pagination.LengthAware[Row], error) {
	defer qb.reset()

	pageSQL, err := qb.pageQuery("paginate", page, perPage)
	if err != nil {
		return nil, qb.abort(err)
	}
	countSQL, err := qb.compileSelect("paginate", countColumns)
	if err != nil {
		return nil, qb.abort(err)
	}
	qb.record(pageSQL)

	var items []Row
	err = qb.query(ctx, pageSQL, func(rows *sql.Rows) (err error) {
		items, err = scanRows(rows)
		return err
	})
	if err != nil {
		return nil, err
	}

	var total int64
	if err := qb.query(ctx, countSQL, scanCount(&total)); err != nil {
		return nil, err
	}
	return pagination.NewLengthAware(items, int(total), perPage, page)
}

// SimplePaginate returns page of the SELECT without counting the rows.
// A full page is taken to have a successor.
func (qb *QueryBuilder) SimplePaginate(ctx context.Context, page, perPage int) (*pagination.Simple[Row], error) {
	defer qb.reset()

	pageSQL, err := qb.pageQuery("simplePaginate", page, perPage)
	if err != nil {
		return nil, qb.abort(err)
	}
	qb.record(pageSQL)

	var items []Row
	err = qb.query(ctx, pageSQL, func(rows *sql.Rows) (err error) {
		items, err = scanRows(rows)
		return err
	})
	if err != nil {
		return nil, err
	}
	return pagination.NewSimple(items, perPage, page)
}

func (qb *QueryBuilder) pageQuery(op string, page, perPage int) (string, error) {
	offset, err := pagination.Offset(page, perPage)
	if err != nil {
		return "", err
	}
	qb.offset = &grammar.Offset{Count: offset}
	if qb.limit == nil {
		qb.limit = &grammar.Limit{Count: perPage}
	}
	return qb.compileSelect(op, nil)
}
