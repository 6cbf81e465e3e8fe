// Copyright (c) 2025 Yahya Qadeer Dar. All rights reserved.
// Use of this source code is governed by an Apache 2.0 license that can be found in the LICENSE file.

// Package errors provides the typed errors returned by the query builder.
// Every error carries a stable Kind so callers can branch on the category
// of a failure without parsing messages.
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Kind classifies a failure.
type Kind int

const (
	// KindUnknown is reported for errors that did not originate in this module.
	KindUnknown Kind = iota
	// KindInvalidInput is a bad operator, join type, direction or value supplied by the caller.
	KindInvalidInput
	// KindUnsafeMutation is an UPDATE or DELETE without WHERE that was not forced.
	KindUnsafeMutation
	// KindMissingTable is a terminal call made before a table was configured.
	KindMissingTable
	// KindExecutionFailure is a failure reported by the database driver.
	KindExecutionFailure
	// KindUnsupportedFeature is a capability the target dialect does not have.
	KindUnsupportedFeature
	// KindNotFound is a lookup that matched no rows.
	KindNotFound
	// KindConfiguration is an invalid or missing configuration value.
	KindConfiguration
	// KindConnection is a failure to open or reach the database.
	KindConnection
	// KindTransaction is a failure to begin, commit or roll back a transaction.
	KindTransaction
	// KindModel is a struct that cannot be mapped to or from a row.
	KindModel
	// KindInternal is a broken invariant inside the module.
	KindInternal
)

// String returns the name of the kind
func (k Kind) String() string {
	switch k {
	case KindInvalidInput:
		return "InvalidInput"
	case KindUnsafeMutation:
		return "UnsafeMutation"
	case KindMissingTable:
		return "MissingTable"
	case KindExecutionFailure:
		return "ExecutionFailure"
	case KindUnsupportedFeature:
		return "UnsupportedFeature"
	case KindNotFound:
		return "NotFound"
	case KindConfiguration:
		return "Configuration"
	case KindConnection:
		return "Connection"
	case KindTransaction:
		return "Transaction"
	case KindModel:
		return "Model"
	case KindInternal:
		return "Internal"
	default:
		return "Unknown"
	}
}

// Sentinel errors, one per kind. Typed errors match them through errors.Is.
var (
	// ErrInvalidInput indicates that the caller supplied an invalid argument.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnsafeMutation indicates an UPDATE or DELETE without a WHERE clause.
	ErrUnsafeMutation = errors.New("dangerous query: mutation without where clause")

	// ErrMissingTable indicates that no table was specified.
	ErrMissingTable = errors.New("missing table")

	// ErrExecutionFailed indicates that the database rejected a statement.
	ErrExecutionFailed = errors.New("query execution failed")

	// ErrUnsupportedFeature indicates a feature the dialect cannot render.
	ErrUnsupportedFeature = errors.New("unsupported feature")

	// ErrNotFound indicates that a requested row could not be found.
	ErrNotFound = errors.New("entity not found")

	// ErrConfiguration indicates an invalid configuration.
	ErrConfiguration = errors.New("invalid configuration")

	// ErrConnectionFailed indicates a failure to establish a database connection.
	ErrConnectionFailed = errors.New("database connection failed")

	// ErrTransactionFailed indicates a failure during a transaction operation.
	ErrTransactionFailed = errors.New("transaction operation failed")

	// ErrInvalidModel indicates that a value cannot be used as a model.
	ErrInvalidModel = errors.New("invalid model structure")

	// ErrInternal indicates a broken internal invariant.
	ErrInternal = errors.New("internal error")
)

var sentinels = map[Kind]error{
	KindInvalidInput:       ErrInvalidInput,
	KindUnsafeMutation:     ErrUnsafeMutation,
	KindMissingTable:       ErrMissingTable,
	KindExecutionFailure:   ErrExecutionFailed,
	KindUnsupportedFeature: ErrUnsupportedFeature,
	KindNotFound:           ErrNotFound,
	KindConfiguration:      ErrConfiguration,
	KindConnection:         ErrConnectionFailed,
	KindTransaction:        ErrTransactionFailed,
	KindModel:              ErrInvalidModel,
	KindInternal:           ErrInternal,
}

// label is the lower-case prefix used in messages.
func label(k Kind) string {
	switch k {
	case KindUnsafeMutation:
		return "dangerous query"
	case KindUnsupportedFeature:
		return "unsupported feature"
	case KindMissingTable:
		return "missing table"
	case KindInvalidInput:
		return "invalid input"
	default:
		return strings.ToLower(k.String())
	}
}

// Sentinel returns the sentinel error for a kind, or nil for KindUnknown.
func Sentinel(k Kind) error {
	return sentinels[k]
}

// Error is implemented by every error defined in this package.
type Error interface {
	error
	Kind() Kind
}

// Error types returned by the module.
type (
	// BuildError is raised while a statement is assembled or compiled.
	BuildError struct {
		kind    Kind
		Op      string
		Message string
		SQL     string
		Err     error
	}

	// QueryError is a driver failure while executing a compiled statement.
	QueryError struct {
		Query    string
		Bindings int
		Message  string
		Code     string
		Err      error
	}

	// ConfigError is an invalid or missing configuration value.
	ConfigError struct {
		Key     string
		Value   interface{}
		Message string
		Err     error
	}

	// ConnectionError represents errors that occur when connecting to a database.
	ConnectionError struct {
		Driver  string
		Message string
		Err     error
	}

	// TransactionError represents errors that occur during a transaction.
	TransactionError struct {
		ID        string
		Operation string
		Message   string
		Err       error
	}

	// ModelError is a struct that cannot be mapped to or from a row.
	ModelError struct {
		Model   string
		Field   string
		Value   interface{}
		Message string
		Err     error
	}

	// InternalError is a broken invariant.
	InternalError struct {
		Message string
		Context map[string]interface{}
		Err     error
	}
)

// NewBuildError creates a BuildError of the given kind.
func NewBuildError(kind Kind, op, message string) *BuildError {
	return &BuildError{kind: kind, Op: op, Message: message}
}

// InvalidInput creates an InvalidInput BuildError with a formatted message.
func InvalidInput(op, format string, args ...interface{}) *BuildError {
	return NewBuildError(KindInvalidInput, op, fmt.Sprintf(format, args...))
}

// Unsupported creates an UnsupportedFeature BuildError with a formatted message.
func Unsupported(op, format string, args ...interface{}) *BuildError {
	return NewBuildError(KindUnsupportedFeature, op, fmt.Sprintf(format, args...))
}

// WithSQL attaches the SQL produced so far.
func (e *BuildError) WithSQL(sql string) *BuildError {
	e.SQL = sql
	return e
}

// WithCause attaches an underlying error.
func (e *BuildError) WithCause(err error) *BuildError {
	e.Err = err
	return e
}

// Kind returns the error kind.
func (e *BuildError) Kind() Kind { return e.kind }

// Error returns the error message.
func (e *BuildError) Error() string {
	var b strings.Builder
	b.WriteString(label(e.kind))
	if e.Op != "" {
		b.WriteString(" (")
		b.WriteString(e.Op)
		b.WriteString(")")
	}
	b.WriteString(": ")
	b.WriteString(e.Message)
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

// Is matches the sentinel of the error's kind.
func (e *BuildError) Is(target error) bool { return target == Sentinel(e.kind) }

// Unwrap returns the underlying error.
func (e *BuildError) Unwrap() error { return e.Err }

// NewQueryError creates a new QueryError.
func NewQueryError(query, message string, err error) *QueryError {
	return &QueryError{Query: query, Message: message, Err: err}
}

// WithCode attaches the driver error code.
func (e *QueryError) WithCode(code string) *QueryError {
	e.Code = code
	return e
}

// WithBindings records how many values were bound.
func (e *QueryError) WithBindings(n int) *QueryError {
	e.Bindings = n
	return e
}

// Kind returns KindExecutionFailure.
func (e *QueryError) Kind() Kind { return KindExecutionFailure }

// Error returns the error message.
func (e *QueryError) Error() string {
	msg := "query error: " + e.Message
	if e.Code != "" {
		msg += " [" + e.Code + "]"
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Is matches ErrExecutionFailed.
func (e *QueryError) Is(target error) bool { return target == ErrExecutionFailed }

// Unwrap returns the underlying error.
func (e *QueryError) Unwrap() error { return e.Err }

// NewConfigError creates a new ConfigError.
func NewConfigError(message string, err error) *ConfigError {
	return &ConfigError{Message: message, Err: err}
}

// WithKey sets the offending key.
func (e *ConfigError) WithKey(key string) *ConfigError {
	e.Key = key
	return e
}

// WithValue sets the offending value.
func (e *ConfigError) WithValue(value interface{}) *ConfigError {
	e.Value = value
	return e
}

// Kind returns KindConfiguration.
func (e *ConfigError) Kind() Kind { return KindConfiguration }

// Error returns the error message.
func (e *ConfigError) Error() string {
	msg := "config error"
	if e.Key != "" {
		msg += " (" + e.Key + ")"
	}
	msg += ": " + e.Message
	if e.Value != nil {
		msg += fmt.Sprintf(" [value=%v]", e.Value)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Is matches ErrConfiguration.
func (e *ConfigError) Is(target error) bool { return target == ErrConfiguration }

// Unwrap returns the underlying error.
func (e *ConfigError) Unwrap() error { return e.Err }

// NewConnectionError creates a new ConnectionError.
func NewConnectionError(driver, message string, err error) *ConnectionError {
	return &ConnectionError{Driver: driver, Message: message, Err: err}
}

// Kind returns KindConnection.
func (e *ConnectionError) Kind() Kind { return KindConnection }

// Error returns the error message.
func (e *ConnectionError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("connection error (%s): %s: %v", e.Driver, e.Message, e.Err)
	}
	return fmt.Sprintf("connection error (%s): %s", e.Driver, e.Message)
}

// Is matches ErrConnectionFailed.
func (e *ConnectionError) Is(target error) bool { return target == ErrConnectionFailed }

// Unwrap returns the underlying error.
func (e *ConnectionError) Unwrap() error { return e.Err }

// NewTransactionError creates a new TransactionError.
func NewTransactionError(operation, message string, err error) *TransactionError {
	return &TransactionError{Operation: operation, Message: message, Err: err}
}

// WithID sets the transaction id.
func (e *TransactionError) WithID(id string) *TransactionError {
	e.ID = id
	return e
}

// Kind returns KindTransaction.
func (e *TransactionError) Kind() Kind { return KindTransaction }

// Error returns the error message.
func (e *TransactionError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("transaction error (%s): %s: %v", e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("transaction error (%s): %s", e.Operation, e.Message)
}

// Is matches ErrTransactionFailed.
func (e *TransactionError) Is(target error) bool { return target == ErrTransactionFailed }

// Unwrap returns the underlying error.
func (e *TransactionError) Unwrap() error { return e.Err }

// NewModelError creates a new ModelError.
func NewModelError(message string, err error) *ModelError {
	return &ModelError{Message: message, Err: err}
}

// WithModel sets the model name.
func (e *ModelError) WithModel(model string) *ModelError {
	e.Model = model
	return e
}

// WithField sets the offending field.
func (e *ModelError) WithField(field string) *ModelError {
	e.Field = field
	return e
}

// WithValue sets the offending value.
func (e *ModelError) WithValue(value interface{}) *ModelError {
	e.Value = value
	return e
}

// Kind returns KindModel.
func (e *ModelError) Kind() Kind { return KindModel }

// Error returns the error message.
func (e *ModelError) Error() string {
	msg := fmt.Sprintf("model error (%s)", e.Model)
	if e.Field != "" {
		msg += " field " + e.Field
	}
	msg += ": " + e.Message
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Is matches ErrInvalidModel.
func (e *ModelError) Is(target error) bool { return target == ErrInvalidModel }

// Unwrap returns the underlying error.
func (e *ModelError) Unwrap() error { return e.Err }

// NewInternalError creates a new InternalError.
func NewInternalError(message string, err error) *InternalError {
	return &InternalError{Message: message, Err: err}
}

// WithContext adds a context value.
func (e *InternalError) WithContext(key string, value interface{}) *InternalError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// Kind returns KindInternal.
func (e *InternalError) Kind() Kind { return KindInternal }

// Error returns the error message.
func (e *InternalError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("internal error: %s: %v", e.Message, e.Err)
	}
	return "internal error: " + e.Message
}

// Is matches ErrInternal.
func (e *InternalError) Is(target error) bool { return target == ErrInternal }

// Unwrap returns the underlying error.
func (e *InternalError) Unwrap() error { return e.Err }

// KindOf returns the kind of the first typed error in err's tree.
// Bare sentinels are recognised too.
func KindOf(err error) Kind {
	if err == nil {
		return KindUnknown
	}
	var typed Error
	if errors.As(err, &typed) {
		return typed.Kind()
	}
	for k, s := range sentinels {
		if errors.Is(err, s) {
			return k
		}
	}
	return KindUnknown
}

// Is reports whether any error in err's tree matches target.
// It's a wrapper around the standard errors.Is function.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's tree that matches the target type.
// It's a wrapper around the standard errors.As function.
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}

// Wrap wraps an error with a message.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Wrapf wraps an error with a formatted message.
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}
