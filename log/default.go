// Copyright (c) 2025 Yahya Qadeer Dar. All rights reserved.
// Use of this source code is governed by an Apache 2.0 license that can be found in the LICENSE file.

package log

import (
	"context"
	"fmt"
	"io"
	"os"
	"runtime"
	"strings"
	"sync"
)

// DefaultLogger writes formatted entries to one or more writers.
// Derived loggers share the parent's outputs and lock.
type DefaultLogger struct {
	config        *LoggerConfig
	mu            *sync.Mutex
	defaultFields Fields
}

// NewLogger creates a new logger with the given options
func NewLogger(options ...Option) *DefaultLogger {
	cfg := LoggerConfig{
		Level:            InfoLevel,
		Outputs:          []io.Writer{os.Stderr},
		Formatter:        NewTextFormatter(),
		ReportCaller:     false,
		CallerSkipFrames: 3,
		EnableColors:     false,
		ExitFunc:         os.Exit,
		Clock:            &SystemClock{},
	}

	for _, option := range options {
		option(&cfg)
	}

	return &DefaultLogger{
		config:        &cfg,
		mu:            &sync.Mutex{},
		defaultFields: Fields{},
	}
}

// write formats and writes a log entry
func (l *DefaultLogger) write(entry *Entry) {
	l.mu.Lock()
	defer l.mu.Unlock()

	data, err := l.config.Formatter.Format(entry)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error formatting log entry: %v\n", err)
		return
	}

	for _, output := range l.config.Outputs {
		if _, err := output.Write(data); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing log entry: %v\n", err)
		}
	}
}

func (l *DefaultLogger) log(level Level, ctx context.Context, msg string, fields ...Field) {
	if !l.Enabled(level) {
		return
	}

	merged := make(Fields, len(l.defaultFields)+len(fields))
	copy(merged, l.defaultFields)
	copy(merged[len(l.defaultFields):], fields)

	if ctx == nil {
		ctx = context.Background()
	}

	entry := &Entry{
		Time:    l.config.Clock.Now(),
		Level:   level,
		Message: msg,
		Fields:  merged,
		Context: ctx,
		colored: l.config.EnableColors,
	}

	if l.config.ReportCaller {
		entry.Caller = caller(l.config.CallerSkipFrames)
	}

	l.write(entry)

	if level == FatalLevel && l.config.ExitFunc != nil {
		l.config.ExitFunc(1)
	}
}

func caller(skip int) *CallerInfo {
	pc, file, line, ok := runtime.Caller(skip)
	if !ok {
		return &CallerInfo{File: "unknown", Function: "unknown"}
	}

	funcName := "unknown"
	if fn := runtime.FuncForPC(pc); fn != nil {
		funcName = fn.Name()
		if idx := strings.LastIndex(funcName, "/"); idx >= 0 {
			funcName = funcName[idx+1:]
		}
	}

	if idx := strings.LastIndex(file, "/"); idx >= 0 {
		file = file[idx+1:]
	}

	return &CallerInfo{File: file, Line: line, Function: funcName}
}

// Trace logs a message at the trace level
func (l *DefaultLogger) Trace(msg string, fields ...Field) {
	l.log(TraceLevel, nil, msg, fields...)
}

// Debug logs a message at the debug level
func (l *DefaultLogger) Debug(msg string, fields ...Field) {
	l.log(DebugLevel, nil, msg, fields...)
}

// Info logs a message at the info level
func (l *DefaultLogger) Info(msg string, fields ...Field) {
	l.log(InfoLevel, nil, msg, fields...)
}

// Warn logs a message at the warn level
func (l *DefaultLogger) Warn(msg string, fields ...Field) {
	l.log(WarnLevel, nil, msg, fields...)
}

// Error logs a message at the error level
func (l *DefaultLogger) Error(msg string, fields ...Field) {
	l.log(ErrorLevel, nil, msg, fields...)
}

// Fatal logs a message at the fatal level and then exits
func (l *DefaultLogger) Fatal(msg string, fields ...Field) {
	l.log(FatalLevel, nil, msg, fields...)
}

// DebugContext logs a message with context at the debug level
func (l *DefaultLogger) DebugContext(ctx context.Context, msg string, fields ...Field) {
	l.log(DebugLevel, ctx, msg, fields...)
}

// InfoContext logs a message with context at the info level
func (l *DefaultLogger) InfoContext(ctx context.Context, msg string, fields ...Field) {
	l.log(InfoLevel, ctx, msg, fields...)
}

// ErrorContext logs a message with context at the error level
func (l *DefaultLogger) ErrorContext(ctx context.Context, msg string, fields ...Field) {
	l.log(ErrorLevel, ctx, msg, fields...)
}

// Debugf logs a formatted message at the debug level
func (l *DefaultLogger) Debugf(format string, args ...interface{}) {
	l.log(DebugLevel, nil, fmt.Sprintf(format, args...))
}

// Infof logs a formatted message at the info level
func (l *DefaultLogger) Infof(format string, args ...interface{}) {
	l.log(InfoLevel, nil, fmt.Sprintf(format, args...))
}

// Errorf logs a formatted message at the error level
func (l *DefaultLogger) Errorf(format string, args ...interface{}) {
	l.log(ErrorLevel, nil, fmt.Sprintf(format, args...))
}

// WithField returns a logger with the given field added
func (l *DefaultLogger) WithField(key string, value interface{}) Logger {
	return l.WithFields(Field{Key: key, Value: value})
}

// WithFields returns a logger with the given fields added
func (l *DefaultLogger) WithFields(fields ...Field) Logger {
	clone := &DefaultLogger{
		config:        l.config,
		mu:            l.mu,
		defaultFields: make(Fields, 0, len(l.defaultFields)+len(fields)),
	}
	clone.defaultFields = append(clone.defaultFields, l.defaultFields...)
	clone.defaultFields = append(clone.defaultFields, fields...)
	return clone
}

// WithError returns a logger with the given error added as a field
func (l *DefaultLogger) WithError(err error) Logger {
	if err == nil {
		return l
	}
	return l.WithField("error", err.Error())
}

// Enabled reports whether level passes the configured threshold.
func (l *DefaultLogger) Enabled(level Level) bool {
	return level >= l.GetLevel() && level != SilentLevel
}

// SetLevel sets the minimum severity level to log
func (l *DefaultLogger) SetLevel(level Level) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.config.Level = level
}

// GetLevel returns the current minimum severity level
func (l *DefaultLogger) GetLevel() Level {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.config.Level
}

// SetOutput replaces the output destinations.
func (l *DefaultLogger) SetOutput(outputs ...io.Writer) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.config.Outputs = outputs
}

// SetFormatter sets the formatter to use for log entries
func (l *DefaultLogger) SetFormatter(formatter Formatter) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.config.Formatter = formatter
}

type nopLogger struct{}

// Nop returns a logger that discards everything.
func Nop() Logger { return nopLogger{} }

func (nopLogger) Trace(string, ...Field)                                 {}
func (nopLogger) Debug(string, ...Field)                                 {}
func (nopLogger) Info(string, ...Field)                                  {}
func (nopLogger) Warn(string, ...Field)                                  {}
func (nopLogger) Error(string, ...Field)                                 {}
func (nopLogger) Fatal(string, ...Field)                                 {}
func (nopLogger) DebugContext(context.Context, string, ...Field)         {}
func (nopLogger) InfoContext(context.Context, string, ...Field)          {}
func (nopLogger) ErrorContext(context.Context, string, ...Field)         {}
func (nopLogger) Debugf(string, ...interface{})                          {}
func (nopLogger) Infof(string, ...interface{})                           {}
func (nopLogger) Errorf(string, ...interface{})                          {}
func (n nopLogger) WithField(string, interface{}) Logger                 { return n }
func (n nopLogger) WithFields(...Field) Logger                           { return n }
func (n nopLogger) WithError(error) Logger                               { return n }
func (nopLogger) Enabled(Level) bool                                     { return false }
func (nopLogger) SetLevel(Level)                                         {}
func (nopLogger) GetLevel() Level                                        { return SilentLevel }
