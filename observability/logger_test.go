package observability

import (
	"bytes"
	"context"
	"strings"
	"testing"
)

func TestLogger_StructuredProperties(t *testing.T) {
	buf := &bytes.Buffer{}
	log := NewLogger(buf, InfoLevel)

	log.Info("Parsed {Path} with {Count} properties", "/repo/Directory.Build.props", 3)

	output := buf.String()
	if !strings.Contains(output, "/repo/Directory.Build.props") {
		t.Errorf("Output missing Path: %s", output)
	}
	if !strings.Contains(output, "3") {
		t.Errorf("Output missing Count: %s", output)
	}
}

func TestLogger_Levels(t *testing.T) {
	tests := []struct {
		name          string
		level         LogLevel
		logFunc       func(Logger)
		shouldContain bool
	}{
		{"Warn level allows Warn", WarnLevel, func(l Logger) { l.Warn("Warn message") }, true},
		{"Warn level blocks Info", WarnLevel, func(l Logger) { l.Info("Info message") }, false},
		{"Debug level allows Debug", DebugLevel, func(l Logger) { l.Debug("Debug message") }, true},
		{"Silent level blocks Error", SilentLevel, func(l Logger) { l.Error("Error message") }, false},
		{"Verbose level allows context Verbose", VerboseLevel, func(l Logger) {
			l.VerboseContext(context.Background(), "Verbose message")
		}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := &bytes.Buffer{}
			tt.logFunc(NewLogger(buf, tt.level))

			contains := buf.Len() > 0
			if contains != tt.shouldContain {
				t.Errorf("Message presence = %v, want %v. Output: %s", contains, tt.shouldContain, buf.String())
			}
		})
	}
}

func TestLogger_ForContext(t *testing.T) {
	buf := &bytes.Buffer{}
	log := NewLogger(buf, InfoLevel).ForContext("Component", "sources")

	log.Info("Merged {Count} sources", 4)

	if !strings.Contains(buf.String(), "4") {
		t.Errorf("Output missing template property: %s", buf.String())
	}
}

func TestNullLogger(t *testing.T) {
	log := NewNullLogger()
	log.Info("ignored")
	log.ErrorContext(context.Background(), "ignored")
	if log.ForContext("k", "v") == nil {
		t.Error("ForContext() returned nil")
	}
}

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		input   string
		want    LogLevel
		wantErr bool
	}{
		{"quiet", SilentLevel, false},
		{"minimal", WarnLevel, false},
		{"", WarnLevel, false},
		{"normal", InfoLevel, false},
		{"Detailed", DebugLevel, false},
		{"diagnostic", VerboseLevel, false},
		{"error", ErrorLevel, false},
		{"loud", WarnLevel, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseLogLevel(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseLogLevel(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseLogLevel(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}
