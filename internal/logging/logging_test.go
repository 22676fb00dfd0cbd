package logging

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(Config{
		Format: HumanFormat,
		Level:  WarnLevel,
		Output: &buf,
	})

	logger.Debug("debug message", nil)
	logger.Info("info message", nil)
	logger.Warn("warn message", nil)
	logger.Error("error message", nil)

	out := buf.String()
	if strings.Contains(out, "debug message") {
		t.Error("debug message should be filtered at warn level")
	}
	if strings.Contains(out, "info message") {
		t.Error("info message should be filtered at warn level")
	}
	if !strings.Contains(out, "warn message") {
		t.Error("warn message should be logged")
	}
	if !strings.Contains(out, "error message") {
		t.Error("error message should be logged")
	}
}

func TestJSONFormat(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(Config{
		Format: JSONFormat,
		Level:  InfoLevel,
		Output: &buf,
	})

	logger.Info("server started", map[string]interface{}{
		"socket": "/tmp/test.sock",
	})

	var entry struct {
		Timestamp string                 `json:"timestamp"`
		Level     string                 `json:"level"`
		Message   string                 `json:"message"`
		Fields    map[string]interface{} `json:"fields"`
	}
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if entry.Level != "info" {
		t.Errorf("level = %q, want %q", entry.Level, "info")
	}
	if entry.Message != "server started" {
		t.Errorf("message = %q, want %q", entry.Message, "server started")
	}
	if entry.Fields["socket"] != "/tmp/test.sock" {
		t.Errorf("fields[socket] = %v, want /tmp/test.sock", entry.Fields["socket"])
	}
}

func TestHumanFormatStableFieldOrder(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(Config{
		Format: HumanFormat,
		Level:  InfoLevel,
		Output: &buf,
	})

	logger.Info("request handled", map[string]interface{}{
		"method": "analyze",
		"conn":   "abc",
		"files":  3,
	})

	out := buf.String()
	connIdx := strings.Index(out, "conn=")
	filesIdx := strings.Index(out, "files=")
	methodIdx := strings.Index(out, "method=")
	if connIdx < 0 || filesIdx < 0 || methodIdx < 0 {
		t.Fatalf("missing fields in output: %q", out)
	}
	if !(connIdx < filesIdx && filesIdx < methodIdx) {
		t.Errorf("fields not in sorted order: %q", out)
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want LogLevel
	}{
		{"debug", DebugLevel},
		{"info", InfoLevel},
		{"warn", WarnLevel},
		{"error", ErrorLevel},
		{"", InfoLevel},
		{"verbose", InfoLevel},
	}

	for _, tt := range tests {
		if got := ParseLevel(tt.in); got != tt.want {
			t.Errorf("ParseLevel(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
