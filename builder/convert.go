// Copyright (c) 2025 Yahya Qadeer Dar. All rights reserved.
// Use of this source code is governed by an Apache 2.0 license that can be found in the LICENSE file.

package builder

import (
	"context"
	"database/sql"
	"reflect"

	"github.com/YahyaDar/querybuilder/errors"
	ireflect "github.com/YahyaDar/querybuilder/internal/reflect"
)

// Map runs the SELECT of qb and converts every row with fn.
func Map[T any](ctx context.Context, qb *QueryBuilder, fn func(Row) (T, error)) ([]T, error) {
	rows, err := qb.Get(ctx)
	if err != nil {
		return nil, err
	}
	return convertRows(rows, fn)
}

func convertRows[T any](rows []Row, fn func(Row) (T, error)) ([]T, error) {
	out := make([]T, 0, len(rows))
	for i, row := range rows {
		v, err := fn(row)
		if err != nil {
			return nil, errors.NewModelError("row conversion failed", err).WithValue(i)
		}
		out = append(out, v)
	}
	return out, nil
}

// Into returns a converter that fills a new T from a row by db tags.
func Into[T any]() func(Row) (T, error) {
	return func(row Row) (T, error) {
		var v T
		err := ireflect.SetFieldValues(&v, row)
		return v, err
	}
}

// scanRows reads every row into a Row map.
func scanRows(rows *sql.Rows) ([]Row, error) {
	columns, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	var out []Row
	for rows.Next() {
		values := make([]interface{}, len(columns))
		targets := make([]interface{}, len(columns))
		for i := range values {
			targets[i] = &values[i]
		}
		if err := rows.Scan(targets...); err != nil {
			return nil, err
		}

		row := make(Row, len(columns))
		for i, col := range columns {
			row[col] = normalize(values[i])
		}
		out = append(out, row)
	}
	return out, nil
}

// normalize copies driver-owned byte slices into strings.
func normalize(v interface{}) interface{} {
	if b, ok := v.([]byte); ok {
		return string(b)
	}
	return v
}

// scanStructs fills dest, a pointer to a slice of structs or struct pointers.
func scanStructs(rows *sql.Rows, dest interface{}) error {
	v := reflect.ValueOf(dest)
	if v.Kind() != reflect.Ptr || v.IsNil() || v.Elem().Kind() != reflect.Slice {
		return errors.NewModelError("scan destination must be a pointer to a slice", nil).
			WithModel(reflect.TypeOf(dest).String())
	}

	slice := v.Elem()
	elem := slice.Type().Elem()
	base := ireflect.IndirectType(elem)
	if base.Kind() != reflect.Struct {
		return errors.NewModelError("scan destination must hold structs", nil).
			WithModel(elem.String())
	}

	columns, err := rows.Columns()
	if err != nil {
		return err
	}

	for rows.Next() {
		item := reflect.New(base)
		targets, err := ireflect.ScanTargets(item, columns)
		if err != nil {
			return err
		}
		if err := rows.Scan(targets...); err != nil {
			return err
		}
		if elem.Kind() == reflect.Ptr {
			slice.Set(reflect.Append(slice, item))
		} else {
			slice.Set(reflect.Append(slice, item.Elem()))
		}
	}
	return nil
}

func scanCount(total *int64) func(*sql.Rows) error {
	return func(rows *sql.Rows) error {
		if rows.Next() {
			return rows.Scan(total)
		}
		return nil
	}
}
