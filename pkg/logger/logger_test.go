package logger

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"

	"bskybatch/pkg/config"
)

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		input   string
		want    zerolog.Level
		wantErr bool
	}{
		{"debug", zerolog.DebugLevel, false},
		{"info", zerolog.InfoLevel, false},
		{"warn", zerolog.WarnLevel, false},
		{"warning", zerolog.WarnLevel, false},
		{"error", zerolog.ErrorLevel, false},
		{"fatal", zerolog.FatalLevel, false},
		{"disabled", zerolog.Disabled, false},
		{"DEBUG", zerolog.DebugLevel, false},
		{"verbose", zerolog.InfoLevel, true},
		{"", zerolog.InfoLevel, true},
	}

	for _, tt := range tests {
		got, err := parseLogLevel(tt.input)
		if (err != nil) != tt.wantErr {
			t.Errorf("parseLogLevel(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
		}
		if got != tt.want {
			t.Errorf("parseLogLevel(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestNew(t *testing.T) {
	log, err := New(&config.LoggingConfig{Level: "info"})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	if log == nil {
		t.Fatal("New returned nil logger")
	}
	if log.GetZerolog() == nil {
		t.Error("GetZerolog returned nil")
	}
}

func TestNewInvalidLevel(t *testing.T) {
	if _, err := New(&config.LoggingConfig{Level: "bogus"}); err == nil {
		t.Error("Expected error for invalid log level")
	}
}

func TestNewWithFileOutput(t *testing.T) {
	dir := t.TempDir()
	logFile := filepath.Join(dir, "logs", "bskybatch.log")

	log, err := New(&config.LoggingConfig{Level: "debug", File: logFile})
	if err != nil {
		t.Fatalf("New with file output returned error: %v", err)
	}

	log.Info("test message")
}

func TestGetLoggerDefault(t *testing.T) {
	globalLogger = nil
	log := GetLogger()
	if log == nil {
		t.Fatal("GetLogger returned nil")
	}
}

func TestTestLoggerCapturesMessages(t *testing.T) {
	log := NewTestLogger()

	log.Info("hello")
	log.Error("boom")
	log.InfoWithFields("with fields", map[string]interface{}{"count": 3})

	messages := log.GetMessages()
	if len(messages) != 3 {
		t.Fatalf("Expected 3 messages, got %d", len(messages))
	}

	if !log.HasMessage("hello") {
		t.Error("Expected 'hello' to be captured")
	}

	if !log.HasError() {
		t.Error("Expected an error to be captured")
	}

	errs := log.GetMessagesByLevel("ERROR")
	if len(errs) != 1 || errs[0].Message != "boom" {
		t.Errorf("Expected one ERROR message 'boom', got %v", errs)
	}

	infos := log.GetMessagesByLevel("INFO")
	if len(infos) != 2 {
		t.Fatalf("Expected 2 INFO messages, got %d", len(infos))
	}
	if infos[1].Fields["count"] != 3 {
		t.Errorf("Expected count field 3, got %v", infos[1].Fields["count"])
	}
}

func TestTestLoggerContextChaining(t *testing.T) {
	log := NewTestLogger()

	log.WithField("feed", "hot").WithField("page", 2).Info("page fetched")
	log.WithError(errors.New("network down")).Error("fetch failed")

	messages := log.GetMessages()
	if len(messages) != 2 {
		t.Fatalf("Expected 2 messages, got %d", len(messages))
	}

	if messages[0].Fields["feed"] != "hot" || messages[0].Fields["page"] != 2 {
		t.Errorf("Expected chained fields, got %v", messages[0].Fields)
	}

	if messages[1].Error == nil || messages[1].Error.Error() != "network down" {
		t.Errorf("Expected captured error, got %v", messages[1].Error)
	}
}
