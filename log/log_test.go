// Copyright (c) 2025 Yahya Qadeer Dar. All rights reserved.
// Use of this source code is governed by an Apache 2.0 license that can be found in the LICENSE file.

package log

import (
	"bytes"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/YahyaDar/querybuilder/errors"
)

type fixedClock struct{ t time.Time }

func (c fixedClock) Now() time.Time { return c.t }

func newTestLogger(buf *bytes.Buffer, opts ...Option) *DefaultLogger {
	base := []Option{
		WithOutput(buf),
		WithLevel(DebugLevel),
		WithClock(fixedClock{time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)}),
	}
	return NewLogger(append(base, opts...)...)
}

func TestParseLevel(t *testing.T) {
	cases := map[string]Level{
		"trace":   TraceLevel,
		"DEBUG":   DebugLevel,
		"":        InfoLevel,
		"warning": WarnLevel,
		" error ": ErrorLevel,
		"off":     SilentLevel,
	}
	for in, want := range cases {
		got, err := ParseLevel(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseLevel("loud")
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrConfiguration))
}

func TestTextFormatterOutput(t *testing.T) {
	var buf bytes.Buffer
	logger := newTestLogger(&buf)

	logger.Debug("query executed", F("sql", "SELECT 1;"), F("dialect", "mysql"), F("bindings", 0))

	assert.Equal(t, "[2025-01-02 03:04:05.000] [DEBUG] query executed {bindings=0, dialect=mysql, sql=\"SELECT 1;\"}\n", buf.String())
}

func TestLevelThreshold(t *testing.T) {
	var buf bytes.Buffer
	logger := newTestLogger(&buf, WithLevel(ErrorLevel))

	logger.Debug("hidden")
	logger.Info("hidden")
	assert.Empty(t, buf.String())
	assert.False(t, logger.Enabled(DebugLevel))
	assert.True(t, logger.Enabled(ErrorLevel))

	logger.Error("shown")
	assert.Contains(t, buf.String(), "[ERROR] shown")

	logger.SetLevel(SilentLevel)
	assert.False(t, logger.Enabled(FatalLevel))
}

func TestWithFieldsDoesNotLeak(t *testing.T) {
	var buf bytes.Buffer
	logger := newTestLogger(&buf)

	child := logger.WithField("tx_id", "abc").WithError(fmt.Errorf("boom"))
	child.Info("rolled back")
	logger.Info("plain")

	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	require.Len(t, lines, 2)
	assert.Contains(t, string(lines[0]), `{error=boom, tx_id=abc}`)
	assert.NotContains(t, string(lines[1]), "tx_id")
}

func TestJSONFormatter(t *testing.T) {
	var buf bytes.Buffer
	logger := newTestLogger(&buf, WithFormatter(NewJSONFormatter()))

	logger.Debug("query executed", F("elapsed", 1500*time.Microsecond), F("error", fmt.Errorf("bad")))

	var got map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, "DEBUG", got["level"])
	assert.Equal(t, "query executed", got["msg"])
	assert.Equal(t, "1.5ms", got["elapsed"])
	assert.Equal(t, "bad", got["error"])
	assert.Equal(t, "2025-01-02T03:04:05Z", got["time"])
}

func TestFatalCallsExitFunc(t *testing.T) {
	var buf bytes.Buffer
	code := -1
	logger := newTestLogger(&buf, WithExitFunc(func(c int) { code = c }))

	logger.Fatal("cannot continue")
	assert.Equal(t, 1, code)
	assert.Contains(t, buf.String(), "[FATAL] cannot continue")
}

func TestCallerReported(t *testing.T) {
	var buf bytes.Buffer
	logger := newTestLogger(&buf, WithCaller(true))

	logger.Info("where am I")
	assert.Contains(t, buf.String(), "[log_test.go:")
}

func TestNop(t *testing.T) {
	n := Nop()
	n.Error("ignored")
	assert.False(t, n.Enabled(ErrorLevel))
	assert.Equal(t, SilentLevel, n.WithField("a", 1).GetLevel())
}
