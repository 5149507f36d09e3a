package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type logEntry struct {
	Level     string `json:"level"`
	Message   string `json:"message"`
	Component string `json:"component"`
}

func TestLogger(t *testing.T) {
	tests := []struct {
		name          string
		verbosity     int
		logFunc       func(Logger)
		expectedLevel string
		expectedMsg   string
		shouldLog     bool
	}{
		{
			name:          "info with default verbosity",
			verbosity:     0,
			logFunc:       func(l Logger) { l.Info("info message") },
			expectedLevel: "info",
			expectedMsg:   "info message",
			shouldLog:     true,
		},
		{
			name:      "debug suppressed at verbosity 0",
			verbosity: 0,
			logFunc:   func(l Logger) { l.Debug("debug message") },
			shouldLog: false,
		},
		{
			name:          "debug shown at verbosity 1",
			verbosity:     1,
			logFunc:       func(l Logger) { l.Debug("debug message") },
			expectedLevel: "debug",
			expectedMsg:   "debug message",
			shouldLog:     true,
		},
		{
			name:      "trace suppressed at verbosity 1",
			verbosity: 1,
			logFunc:   func(l Logger) { l.Trace("trace message") },
			shouldLog: false,
		},
		{
			name:          "trace shown at verbosity 2",
			verbosity:     2,
			logFunc:       func(l Logger) { l.Trace("trace message") },
			expectedLevel: "debug",
			expectedMsg:   "TRACE: trace message",
			shouldLog:     true,
		},
		{
			name:          "error always shown",
			verbosity:     0,
			logFunc:       func(l Logger) { l.Error("boom") },
			expectedLevel: "error",
			expectedMsg:   "boom",
			shouldLog:     true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			log := NewLogger(Config{Verbosity: tt.verbosity, Output: &buf})

			tt.logFunc(log)

			if !tt.shouldLog {
				assert.Empty(t, buf.String())
				return
			}

			var entry logEntry
			require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
			assert.Equal(t, tt.expectedLevel, entry.Level)
			assert.Equal(t, tt.expectedMsg, entry.Message)
		})
	}
}

func TestLoggerWithFields(t *testing.T) {
	var buf bytes.Buffer
	log := NewLogger(Config{Output: &buf, Component: "cfg"})

	log.WithFields(Fields{
		"file":  "/etc/app.conf",
		"line":  7,
		"error": errors.New("bad value"),
	}).Error("wrong value")

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))

	assert.Equal(t, "/etc/app.conf", entry["file"])
	assert.Equal(t, float64(7), entry["line"])
	assert.Equal(t, "bad value", entry["error"])
	assert.Equal(t, "cfg", entry["component"])
	assert.Equal(t, "wrong value", entry["message"])
}

func TestNop(t *testing.T) {
	log := Nop()
	assert.NotPanics(t, func() {
		log.WithFields(Fields{"k": "v"}).Error("discarded")
		log.Trace("discarded")
	})
}
