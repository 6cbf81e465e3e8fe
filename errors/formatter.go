// Copyright (c) 2025 Yahya Qadeer Dar. All rights reserved.
// Use of this source code is governed by an Apache 2.0 license that can be found in the LICENSE file.

package errors

import (
	"bytes"
	"encoding/json"
	"fmt"
	"runtime"
	"sort"
	"strings"
	"time"
)

// Formatter renders errors for humans or machines.
type Formatter interface {
	// Format converts an error into a formatted string representation
	Format(err error) string

	// FormatJSON returns a JSON representation of the error
	FormatJSON(err error) ([]byte, error)
}

// DefaultFormatter is the standard error formatter
type DefaultFormatter struct {
	// IncludeTimestamp prefixes messages with the current UTC time
	IncludeTimestamp bool

	// IncludeStackTrace appends the caller's stack
	IncludeStackTrace bool

	// MaxStackDepth is the maximum number of stack frames to include
	MaxStackDepth int

	// Now is the clock used for timestamps
	Now func() time.Time
}

// NewDefaultFormatter creates a formatter suited to command line output:
// no timestamp and no stack trace.
func NewDefaultFormatter() *DefaultFormatter {
	return &DefaultFormatter{
		MaxStackDepth: 10,
		Now:           time.Now,
	}
}

// Format converts an error into a formatted string representation.
// Typed errors are prefixed with their kind, and the SQL they carry
// is printed on its own line.
func (f *DefaultFormatter) Format(err error) string {
	if err == nil {
		return ""
	}

	var buffer bytes.Buffer

	if f.IncludeTimestamp {
		buffer.WriteString(fmt.Sprintf("[%s] ", f.now().UTC().Format("2006-01-02 15:04:05")))
	}

	kind := KindOf(err)
	if kind != KindUnknown {
		buffer.WriteString("[" + kind.String() + "] ")
	}
	buffer.WriteString(err.Error())

	if sql := sqlOf(err); sql != "" {
		buffer.WriteString("\nSQL: ")
		buffer.WriteString(sql)
	}

	if f.IncludeStackTrace {
		buffer.WriteString("\nStack Trace:\n")
		buffer.WriteString(f.getStackTrace(f.MaxStackDepth))
	}

	return buffer.String()
}

// FormatJSON returns a JSON representation of the error
func (f *DefaultFormatter) FormatJSON(err error) ([]byte, error) {
	if err == nil {
		return []byte("null"), nil
	}

	errorMap := map[string]interface{}{
		"message": err.Error(),
		"kind":    KindOf(err).String(),
		"time":    f.now().UTC().Format(time.RFC3339),
	}

	if sql := sqlOf(err); sql != "" {
		errorMap["sql"] = sql
	}

	var qe *QueryError
	if As(err, &qe) && qe.Code != "" {
		errorMap["code"] = qe.Code
	}

	var ce *ConfigError
	if As(err, &ce) && ce.Key != "" {
		errorMap["key"] = ce.Key
	}

	var ie *InternalError
	if As(err, &ie) && len(ie.Context) > 0 {
		keys := make([]string, 0, len(ie.Context))
		for k := range ie.Context {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		ctx := make(map[string]string, len(keys))
		for _, k := range keys {
			ctx[k] = fmt.Sprintf("%v", ie.Context[k])
		}
		errorMap["context"] = ctx
	}

	if f.IncludeStackTrace {
		errorMap["stack_trace"] = strings.Split(strings.TrimSpace(f.getStackTrace(f.MaxStackDepth)), "\n")
	}

	return json.MarshalIndent(errorMap, "", "  ")
}

func (f *DefaultFormatter) now() time.Time {
	if f.Now == nil {
		return time.Now()
	}
	return f.Now()
}

// sqlOf returns the statement attached to a build or query error.
func sqlOf(err error) string {
	var be *BuildError
	if As(err, &be) && be.SQL != "" {
		return be.SQL
	}
	var qe *QueryError
	if As(err, &qe) {
		return qe.Query
	}
	return ""
}

// getStackTrace returns a formatted stack trace limited to the specified depth
func (f *DefaultFormatter) getStackTrace(maxDepth int) string {
	var buffer bytes.Buffer

	// Skip the frames of the formatter itself
	skip := 3

	for i := 0; i < maxDepth; i++ {
		pc, file, line, ok := runtime.Caller(skip + i)
		if !ok {
			break
		}

		fn := runtime.FuncForPC(pc)
		funcName := "unknown"
		if fn != nil {
			funcName = fn.Name()
		}

		if idx := strings.LastIndex(file, "/src/"); idx >= 0 {
			file = file[idx+5:]
		}

		buffer.WriteString(fmt.Sprintf("  %d: %s\n    %s:%d\n", i, funcName, file, line))
	}

	return buffer.String()
}

// PrettyFormat returns a human-readable formatted error message
func PrettyFormat(err error) string {
	return NewDefaultFormatter().Format(err)
}

// JSONFormat returns a JSON representation of the error
func JSONFormat(err error) (string, error) {
	data, err := NewDefaultFormatter().FormatJSON(err)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
