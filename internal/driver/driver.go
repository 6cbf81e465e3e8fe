// Copyright (c) 2025 Yahya Qadeer Dar. All rights reserved.
// Use of this source code is governed by an Apache 2.0 license that can be found in the LICENSE file.

// Package driver identifies the SQL driver behind a connection and
// extracts vendor error codes. Importing it registers the postgres,
// mysql, sqlite3 and sqlite drivers with database/sql.
package driver

import (
	"database/sql/driver"
	"errors"
	"strconv"
	"strings"

	"github.com/go-sql-driver/mysql"
	"github.com/lib/pq"
	"github.com/mattn/go-sqlite3"
	"modernc.org/sqlite"
)

// Driver family names, matching the grammar dialect names.
const (
	Postgres = "postgres"
	MySQL    = "mysql"
	SQLite   = "sqlite"
)

// Family returns the family of a database/sql driver, or "" when unknown.
func Family(d driver.Driver) string {
	switch d.(type) {
	case *pq.Driver:
		return Postgres
	case *mysql.MySQLDriver:
		return MySQL
	case *sqlite3.SQLiteDriver, *sqlite.Driver:
		return SQLite
	}
	return ""
}

// Driverer is implemented by *sql.DB.
type Driverer interface {
	Driver() driver.Driver
}

// Detect returns the family of v's driver when v exposes one.
func Detect(v interface{}) string {
	if d, ok := v.(Driverer); ok && d.Driver() != nil {
		return Family(d.Driver())
	}
	return ""
}

// Code returns the vendor error code carried by err: the SQLSTATE for
// Postgres, the error number for MySQL and the result code for SQLite.
func Code(err error) string {
	if err == nil {
		return ""
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code)
	}

	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		return strconv.Itoa(int(myErr.Number))
	}

	var liteErr *sqlite.Error
	if errors.As(err, &liteErr) {
		return strconv.Itoa(liteErr.Code())
	}

	return ""
}

// Postgres SQLSTATE and MySQL error numbers for unique violations.
const (
	pgUniqueViolation    = "23505"
	mysqlDuplicateEntry  = "1062"
	sqliteConstraintUniq = "2067"
)

// IsUniqueViolation reports whether err is a unique constraint violation.
func IsUniqueViolation(err error) bool {
	switch Code(err) {
	case pgUniqueViolation, mysqlDuplicateEntry, sqliteConstraintUniq:
		return true
	}
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
