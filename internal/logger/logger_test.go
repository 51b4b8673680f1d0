package logger

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func resetLogger() {
	defaultLogger = nil
	once = *new(sync.Once)
}

func TestInitWithFile(t *testing.T) {
	resetLogger()
	SetOutput(&bytes.Buffer{})

	tempDir := t.TempDir()
	require.NoError(t, InitWithFile("debug", tempDir))
	defer Close()

	logPath := GetLogFilePath()
	require.NotEmpty(t, logPath)

	Debug("test debug message")
	Info("test info message")
	Warn("test warn message")
	Error("test error message")
	Close()

	content, err := os.ReadFile(logPath)
	require.NoError(t, err)
	logContent := string(content)

	assert.Contains(t, logContent, "test debug message")
	assert.Contains(t, logContent, "test info message")
	assert.Contains(t, logContent, "[WARN] test warn message")
	assert.NotContains(t, logContent, "\033[", "log file must not contain ANSI color codes")
	assert.Equal(t, tempDir, filepath.Dir(logPath))
}

func TestLogFilenameFormat(t *testing.T) {
	resetLogger()
	SetOutput(&bytes.Buffer{})

	require.NoError(t, InitWithFile("info", t.TempDir()))
	defer Close()

	filename := filepath.Base(GetLogFilePath())
	assert.True(t, strings.HasSuffix(filename, ".log"), filename)

	parts := strings.Split(strings.TrimSuffix(filename, ".log"), "_")
	assert.Len(t, parts, 3, filename)
	assert.Equal(t, "covtree", parts[0])
}

func TestLevelFiltering(t *testing.T) {
	resetLogger()
	Init("warn")
	var buf bytes.Buffer
	SetOutput(&buf)
	SetColorEnable(false)

	Debug("hidden debug")
	Info("hidden info")
	Warn("shown warn %d", 1)
	Error("shown error")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "[WARN] shown warn 1")
	assert.Contains(t, out, "[ERROR] shown error")

	SetLevel("debug")
	Debug("now visible")
	assert.Contains(t, buf.String(), "[DEBUG] now visible")
}

func TestColorOutput(t *testing.T) {
	resetLogger()
	Init("info")
	var buf bytes.Buffer
	SetOutput(&buf)
	SetColorEnable(true)

	Info("colored")
	assert.Contains(t, buf.String(), levelColors[INFO]+"[INFO]"+colorReset)
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want Level
	}{
		{"debug", DEBUG},
		{"INFO", INFO},
		{"warning", WARN},
		{"Warn", WARN},
		{"error", ERROR},
		{"fatal", FATAL},
		{"bogus", INFO},
		{"", INFO},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, parseLevel(tt.in), tt.in)
	}
}

func TestGetLogFilePathWithoutFile(t *testing.T) {
	resetLogger()
	assert.Empty(t, GetLogFilePath())
	Init("info")
	assert.Empty(t, GetLogFilePath())
	Close()
}
