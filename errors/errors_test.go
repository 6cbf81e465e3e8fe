// Copyright (c) 2025 Yahya Qadeer Dar. All rights reserved.
// Use of this source code is governed by an Apache 2.0 license that can be found in the LICENSE file.

package errors

import (
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildErrorMatchesSentinel(t *testing.T) {
	err := NewBuildError(KindUnsafeMutation, "delete", "delete statement requires a where clause")
	assert.True(t, Is(err, ErrUnsafeMutation))
	assert.False(t, Is(err, ErrInvalidInput))
	assert.Equal(t, KindUnsafeMutation, KindOf(err))
	assert.Equal(t, "dangerous query (delete): delete statement requires a where clause", err.Error())
}

func TestInvalidInputFormatsMessage(t *testing.T) {
	err := InvalidInput("where", "invalid operator %q", "<>")
	assert.Equal(t, `invalid input (where): invalid operator "<>"`, err.Error())
	assert.True(t, Is(err, ErrInvalidInput))
}

func TestKindOfWrapped(t *testing.T) {
	inner := NewQueryError("SELECT 1;", "exec failed", fmt.Errorf("boom")).WithCode("42P01")
	wrapped := Wrap(inner, "get")
	assert.Equal(t, KindExecutionFailure, KindOf(wrapped))
	assert.True(t, Is(wrapped, ErrExecutionFailed))

	var qe *QueryError
	require.True(t, As(wrapped, &qe))
	assert.Equal(t, "42P01", qe.Code)
	assert.Equal(t, "get: query error: exec failed [42P01]: boom", wrapped.Error())
}

func TestKindOfSentinelAndForeign(t *testing.T) {
	assert.Equal(t, KindNotFound, KindOf(Wrapf(ErrNotFound, "first %s", "users")))
	assert.Equal(t, KindUnknown, KindOf(fmt.Errorf("plain")))
	assert.Equal(t, KindUnknown, KindOf(nil))
	assert.Nil(t, Wrap(nil, "noop"))
}

func TestConfigErrorBuilders(t *testing.T) {
	err := NewConfigError("key not found", nil).WithKey("database.dsn")
	assert.Equal(t, "config error (database.dsn): key not found", err.Error())
	assert.True(t, Is(err, ErrConfiguration))

	err = NewConfigError("invalid integer value", nil).WithKey("database.max_open_conns").WithValue("ten")
	assert.Contains(t, err.Error(), "[value=ten]")
}

func TestFormatterIncludesKindAndSQL(t *testing.T) {
	f := NewDefaultFormatter()
	err := NewBuildError(KindUnsupportedFeature, "insert", "mysql does not support RETURNING").
		WithSQL("INSERT INTO `users` (`id`) VALUES (:v1)")

	out := f.Format(err)
	assert.Equal(t, "[UnsupportedFeature] unsupported feature (insert): mysql does not support RETURNING\n"+
		"SQL: INSERT INTO `users` (`id`) VALUES (:v1)", out)
	assert.Equal(t, "", f.Format(nil))
}

func TestFormatJSON(t *testing.T) {
	f := NewDefaultFormatter()
	f.Now = func() time.Time { return time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC) }

	data, err := f.FormatJSON(NewQueryError("DELETE FROM t;", "exec failed", nil).WithCode("1062"))
	require.NoError(t, err)

	var got map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, "ExecutionFailure", got["kind"])
	assert.Equal(t, "DELETE FROM t;", got["sql"])
	assert.Equal(t, "1062", got["code"])
	assert.Equal(t, "2025-01-02T03:04:05Z", got["time"])
	assert.NotContains(t, got, "stack_trace")

	data, err = f.FormatJSON(nil)
	require.NoError(t, err)
	assert.Equal(t, "null", string(data))
}

func TestInternalErrorContext(t *testing.T) {
	err := NewInternalError("section not marked", nil).WithContext("section", "where")
	assert.Equal(t, "where", err.Context["section"])
	assert.Equal(t, KindInternal, KindOf(err))

	s, jerr := JSONFormat(err)
	require.NoError(t, jerr)
	assert.Contains(t, s, `"section": "where"`)
}
