// Copyright (c) 2025 Yahya Qadeer Dar. All rights reserved.
// Use of this source code is governed by an Apache 2.0 license that can be found in the LICENSE file.

package reflect

import (
	"database/sql"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/YahyaDar/querybuilder/errors"
)

type Timestamps struct {
	CreatedAt string
}

type status string

type user struct {
	ID       int64  `db:"id;readonly"`
	Name     string `db:"name"`
	Nickname string `db:"column:nick;omitempty"`
	Email    sql.NullString
	Status   status
	Secret   string `db:"-"`
	hidden   string
	Timestamps
}

func TestFields(t *testing.T) {
	ClearCache()
	fields, err := Fields(reflect.TypeOf(&user{}))
	require.NoError(t, err)

	columns := make([]string, len(fields))
	for i, f := range fields {
		columns[i] = f.Column
	}
	assert.Equal(t, []string{"id", "name", "nick", "email", "status", "created_at"}, columns)
	assert.True(t, fields[0].IsReadOnly)
	assert.True(t, fields[2].OmitEmpty)
	assert.Equal(t, []int{7, 0}, fields[5].Index)

	_, err = Fields(reflect.TypeOf(3))
	assert.True(t, errors.Is(err, errors.ErrInvalidModel))
}

func TestToRow(t *testing.T) {
	row, err := ToRow(user{ID: 1, Name: "Sam", Status: "active", Timestamps: Timestamps{CreatedAt: "now"}})
	require.NoError(t, err)

	assert.Equal(t, map[string]interface{}{
		"name":       "Sam",
		"email":      sql.NullString{},
		"status":     status("active"),
		"created_at": "now",
	}, row)

	row, err = ToRow(&user{Nickname: "s"})
	require.NoError(t, err)
	assert.Equal(t, "s", row["nick"])

	_, err = ToRow(nil)
	assert.Error(t, err)
}

func TestSetFieldValues(t *testing.T) {
	var u user
	err := SetFieldValues(&u, map[string]interface{}{
		"id":         int32(7),
		"name":       []byte("Sam"),
		"email":      "sam@example.com",
		"status":     "active",
		"created_at": nil,
		"unknown":    1,
	})
	require.NoError(t, err)

	assert.Equal(t, int64(7), u.ID)
	assert.Equal(t, "Sam", u.Name)
	assert.Equal(t, sql.NullString{String: "sam@example.com", Valid: true}, u.Email)
	assert.Equal(t, status("active"), u.Status)

	err = SetFieldValues(&u, map[string]interface{}{"name": 12})
	assert.True(t, errors.Is(err, errors.ErrInvalidModel))

	assert.Error(t, SetFieldValues(u, nil))
}

func TestScanTargets(t *testing.T) {
	var u user
	targets, err := ScanTargets(reflect.ValueOf(&u), []string{"name", "extra", "id"})
	require.NoError(t, err)
	require.Len(t, targets, 3)

	*(targets[0].(*string)) = "Sam"
	*(targets[2].(*int64)) = 9
	assert.Equal(t, "Sam", u.Name)
	assert.Equal(t, int64(9), u.ID)

	_, err = ScanTargets(reflect.ValueOf(u), []string{"name"})
	assert.Error(t, err)
}

func TestToSnakeCase(t *testing.T) {
	assert.Equal(t, "user_id", ToSnakeCase("UserID"))
	assert.Equal(t, "created_at", ToSnakeCase("CreatedAt"))
	assert.Equal(t, "id", ToSnakeCase("ID"))
	assert.Equal(t, "http_server", ToSnakeCase("HTTPServer"))
}

func TestToSlice(t *testing.T) {
	assert.Equal(t, []interface{}{1, 2}, ToSlice([]int{1, 2}))
	assert.Equal(t, []interface{}{"a"}, ToSlice([1]string{"a"}))
	assert.Equal(t, []interface{}{5}, ToSlice(5))
	assert.Equal(t, []interface{}{[]byte("x")}, ToSlice([]byte("x")))
	assert.Nil(t, ToSlice(nil))
	assert.Empty(t, ToSlice([]string{}))
	assert.True(t, IsStructOrStructPtr(&user{}))
	assert.False(t, IsStructOrStructPtr("x"))
}

func TestIsList(t *testing.T) {
	assert.True(t, IsList([]int{1}))
	assert.True(t, IsList(map[string]int{}))
	assert.False(t, IsList([]byte("raw")))
	assert.False(t, IsList("text"))
	assert.False(t, IsList(nil))
}
