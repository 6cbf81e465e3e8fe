// Copyright (c) 2025 Yahya Qadeer Dar. All rights reserved.
// Use of this source code is governed by an Apache 2.0 license that can be found in the LICENSE file.

package driver

import (
	"database/sql"
	"fmt"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-sql-driver/mysql"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFamily(t *testing.T) {
	assert.Equal(t, Postgres, Family(&pq.Driver{}))
	assert.Equal(t, MySQL, Family(&mysql.MySQLDriver{}))
	assert.Equal(t, "", Family(nil))
}

func TestDetectRegisteredDrivers(t *testing.T) {
	for name, want := range map[string]string{
		"postgres": Postgres,
		"mysql":    MySQL,
		"sqlite":   SQLite,
	} {
		db, err := sql.Open(name, "")
		require.NoError(t, err, name)
		assert.Equal(t, want, Detect(db), name)
		require.NoError(t, db.Close())
	}
}

func TestDetectUnknown(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	assert.Equal(t, "", Detect(db))
	assert.Equal(t, "", Detect("not a db"))
}

func TestCode(t *testing.T) {
	pgErr := &pq.Error{Code: "23505", Message: "duplicate key"}
	assert.Equal(t, "23505", Code(fmt.Errorf("exec: %w", pgErr)))
	assert.True(t, IsUniqueViolation(pgErr))

	myErr := &mysql.MySQLError{Number: 1062, Message: "Duplicate entry"}
	assert.Equal(t, "1062", Code(myErr))
	assert.True(t, IsUniqueViolation(myErr))

	assert.Equal(t, "", Code(fmt.Errorf("plain")))
	assert.False(t, IsUniqueViolation(nil))
	assert.True(t, IsUniqueViolation(fmt.Errorf("UNIQUE constraint failed: users.email")))
}
