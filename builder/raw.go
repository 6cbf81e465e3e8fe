// Copyright (c) 2025 Yahya Qadeer Dar. All rights reserved.
// Use of this source code is governed by an Apache 2.0 license that can be found in the LICENSE file.

package builder

import (
	"context"
	"database/sql"
	"sort"
	"strings"

	"github.com/YahyaDar/querybuilder/errors"
)

// RawSelect runs a hand written statement with :name parameters taken
// from params and returns its rows. Clauses collected on the builder
// are ignored and cleared.
func (qb *QueryBuilder) RawSelect(ctx context.Context, query string, params map[string]interface{}) ([]Row, error) {
	defer qb.reset()

	query, err := qb.prepareRaw("select", query, params)
	if err != nil {
		return nil, qb.abort(err)
	}

	var out []Row
	err = qb.query(ctx, query, func(rows *sql.Rows) (err error) {
		out, err = scanRows(rows)
		return err
	})
	return out, err
}

// RawExec runs a hand written statement with :name parameters and
// returns the number of affected rows.
func (qb *QueryBuilder) RawExec(ctx context.Context, query string, params map[string]interface{}) (int64, error) {
	defer qb.reset()

	query, err := qb.prepareRaw("exec", query, params)
	if err != nil {
		return 0, qb.abort(err)
	}
	return qb.affected(ctx, query)
}

func (qb *QueryBuilder) prepareRaw(op, query string, params map[string]interface{}) (string, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return "", errors.InvalidInput(op, "statement is empty")
	}

	qb.bindings.Reset()
	names := make([]string, 0, len(params))
	for name := range params {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		qb.bindings.Bind(strings.TrimPrefix(name, ":"), params[name])
	}

	if !strings.HasSuffix(query, ";") {
		query = terminate(query)
	}
	qb.record(query)
	return query, nil
}
