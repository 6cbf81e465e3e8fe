// Copyright (c) 2025 Yahya Qadeer Dar. All rights reserved.
// Use of this source code is governed by an Apache 2.0 license that can be found in the LICENSE file.

package log

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"
)

// TextFormatter formats log entries as human-readable text
type TextFormatter struct {
	DisableTimestamp bool
	TimestampFormat  string
	DisableCaller    bool
	// DisableQuote writes string values as is
	DisableQuote bool
	SortFields   bool
	PadLevelText bool
}

// NewTextFormatter creates a new TextFormatter with default settings
func NewTextFormatter() *TextFormatter {
	return &TextFormatter{
		TimestampFormat: "2006-01-02 15:04:05.000",
		SortFields:      true,
		PadLevelText:    true,
	}
}

// Format formats a log entry as text
//
//	[2025-01-02 03:04:05.000] [DEBUG] query executed {bindings=1, dialect=mysql, sql="SELECT ..."}
func (f *TextFormatter) Format(entry *Entry) ([]byte, error) {
	b := &bytes.Buffer{}
	if entry.colored {
		b.WriteString(entry.Level.Color())
	}

	if !f.DisableTimestamp {
		format := f.TimestampFormat
		if format == "" {
			format = "2006-01-02 15:04:05.000"
		}
		b.WriteString("[")
		b.WriteString(entry.Time.Format(format))
		b.WriteString("] ")
	}

	level := entry.Level.String()
	if f.PadLevelText && len(level) < 5 {
		level += strings.Repeat(" ", 5-len(level))
	}
	b.WriteString("[")
	b.WriteString(level)
	b.WriteString("] ")

	if !f.DisableCaller && entry.Caller != nil {
		fmt.Fprintf(b, "[%s:%d] ", entry.Caller.File, entry.Caller.Line)
	}

	b.WriteString(entry.Message)

	if len(entry.Fields) > 0 {
		fields := entry.Fields
		if f.SortFields {
			fields = sortFields(fields)
		}
		b.WriteString(" {")
		for i, field := range fields {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(field.Key)
			b.WriteString("=")
			f.writeValue(b, field.Value)
		}
		b.WriteString("}")
	}

	if entry.colored {
		b.WriteString("\033[0m")
	}
	b.WriteByte('\n')

	return b.Bytes(), nil
}

func (f *TextFormatter) writeValue(b *bytes.Buffer, value interface{}) {
	switch v := value.(type) {
	case string:
		if !f.DisableQuote && needsQuoting(v) {
			fmt.Fprintf(b, "%q", v)
		} else {
			b.WriteString(v)
		}
	case error:
		fmt.Fprintf(b, "%q", v.Error())
	default:
		fmt.Fprint(b, v)
	}
}

// needsQuoting returns true if the string contains spaces or special characters
func needsQuoting(s string) bool {
	return s == "" || strings.ContainsAny(s, " \t\r\n\"=:{},[]")
}

// JSONFormatter formats log entries as one JSON object per line.
type JSONFormatter struct {
	DisableTimestamp bool
	TimestampFormat  string
	DisableCaller    bool
	PrettyPrint      bool
}

// NewJSONFormatter creates a new JSONFormatter with default settings
func NewJSONFormatter() *JSONFormatter {
	return &JSONFormatter{TimestampFormat: time.RFC3339Nano}
}

// Format formats a log entry as JSON
func (f *JSONFormatter) Format(entry *Entry) ([]byte, error) {
	data := make(map[string]interface{}, len(entry.Fields)+4)

	if !f.DisableTimestamp {
		format := f.TimestampFormat
		if format == "" {
			format = time.RFC3339Nano
		}
		data["time"] = entry.Time.Format(format)
	}
	data["level"] = entry.Level.String()
	data["msg"] = entry.Message

	if !f.DisableCaller && entry.Caller != nil {
		data["caller"] = fmt.Sprintf("%s:%d", entry.Caller.File, entry.Caller.Line)
		data["function"] = entry.Caller.Function
	}

	for _, field := range entry.Fields {
		switch v := field.Value.(type) {
		case error:
			data[field.Key] = v.Error()
		case time.Duration:
			data[field.Key] = v.String()
		default:
			data[field.Key] = v
		}
	}

	var encoded []byte
	var err error
	if f.PrettyPrint {
		encoded, err = json.MarshalIndent(data, "", "  ")
	} else {
		encoded, err = json.Marshal(data)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to marshal log entry to JSON: %w", err)
	}

	return append(encoded, '\n'), nil
}

func sortFields(fields Fields) Fields {
	sorted := make(Fields, len(fields))
	copy(sorted, fields)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Key < sorted[j].Key
	})
	return sorted
}

// WithLevel returns an option to set the minimum severity level to log
func WithLevel(level Level) Option {
	return func(cfg *LoggerConfig) {
		cfg.Level = level
	}
}

// WithOutput returns an option to set the output destinations
func WithOutput(outputs ...io.Writer) Option {
	return func(cfg *LoggerConfig) {
		cfg.Outputs = outputs
	}
}

// WithFormatter returns an option to set the formatter
func WithFormatter(formatter Formatter) Option {
	return func(cfg *LoggerConfig) {
		cfg.Formatter = formatter
	}
}

// WithColors returns an option to enable or disable colors
func WithColors(enable bool) Option {
	return func(cfg *LoggerConfig) {
		cfg.EnableColors = enable
	}
}

// WithCaller returns an option to enable or disable caller information
func WithCaller(enable bool) Option {
	return func(cfg *LoggerConfig) {
		cfg.ReportCaller = enable
	}
}

// WithClock replaces the time source, mostly for tests.
func WithClock(clock Clock) Option {
	return func(cfg *LoggerConfig) {
		cfg.Clock = clock
	}
}

// WithExitFunc replaces the function called after a Fatal entry.
func WithExitFunc(fn func(int)) Option {
	return func(cfg *LoggerConfig) {
		cfg.ExitFunc = fn
	}
}

var std Logger = NewLogger(WithLevel(WarnLevel))

// Default returns the package-level logger.
func Default() Logger {
	return std
}

// SetDefaultLogger sets the global logger
func SetDefaultLogger(logger Logger) {
	if logger == nil {
		logger = Nop()
	}
	std = logger
}

// Debug logs a message at the debug level
func Debug(msg string, fields ...Field) {
	std.Debug(msg, fields...)
}

// Info logs a message at the info level
func Info(msg string, fields ...Field) {
	std.Info(msg, fields...)
}

// Warn logs a message at the warn level
func Warn(msg string, fields ...Field) {
	std.Warn(msg, fields...)
}

// Error logs a message at the error level
func Error(msg string, fields ...Field) {
	std.Error(msg, fields...)
}
