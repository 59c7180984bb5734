package output

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseVerbosity(t *testing.T) {
	tests := []struct {
		name string
		want Verbosity
	}{
		{"quiet", VerbosityQuiet},
		{"q", VerbosityQuiet},
		{"minimal", VerbosityMinimal},
		{"normal", VerbosityNormal},
		{"Detailed", VerbosityDetailed},
		{"diag", VerbosityDiagnostic},
		{"bogus", VerbosityNormal},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseVerbosity(tt.name))
		})
	}
}

func TestConsole_Verbosity(t *testing.T) {
	tests := []struct {
		verbosity Verbosity
		wantOut   []string
		wantErr   []string
		notOut    []string
	}{
		{VerbosityQuiet, []string{"result"}, []string{"Error: boom"}, []string{"info", "detail"}},
		{VerbosityMinimal, []string{"result"}, []string{"Warning: careful"}, []string{"info"}},
		{VerbosityNormal, []string{"result", "info"}, []string{"Warning: careful"}, []string{"detail"}},
		{VerbosityDiagnostic, []string{"result", "info", "detail"}, []string{"[DEBUG] trace"}, nil},
	}
	for _, tt := range tests {
		var out, errOut bytes.Buffer
		c := NewConsole(&out, &errOut, tt.verbosity)
		c.Println("result")
		c.Info("info")
		c.Detail("detail")
		c.Warning("careful")
		c.Error("boom")
		c.Debug("trace")

		for _, s := range tt.wantOut {
			assert.Contains(t, out.String(), s)
		}
		for _, s := range tt.notOut {
			assert.NotContains(t, out.String(), s)
		}
		for _, s := range tt.wantErr {
			assert.Contains(t, errOut.String(), s)
		}
	}
}

func TestConsole_NoColorsForBuffers(t *testing.T) {
	var out bytes.Buffer
	c := NewConsole(&out, &out, VerbosityNormal)
	assert.False(t, c.Colors())

	c.Styled(ColorWarning, "plain %d", 1)
	assert.Equal(t, "plain 1\n", out.String())
}

func TestWriteJSON_Envelope(t *testing.T) {
	var buf bytes.Buffer
	env := NewEnvelope("frameworks", "/repo/App.sln", map[string]int{"count": 2}, time.Now())
	require.NoError(t, WriteJSON(&buf, env))

	s := buf.String()
	assert.Contains(t, s, `"schemaVersion": "1.0.0"`)
	assert.Contains(t, s, `"command": "frameworks"`)
	assert.Contains(t, s, `"count": 2`)
}

func TestRenderTable(t *testing.T) {
	var buf bytes.Buffer
	RenderTable(&buf, []string{"Project", "Framework"}, [][]any{
		{"Api", "net8.0"},
		{"Legacy", "net481"},
	})

	s := buf.String()
	assert.Contains(t, s, "Api")
	assert.Contains(t, s, "net481")
	assert.True(t, strings.HasSuffix(s, "(2 rows)\n"))

	buf.Reset()
	RenderTable(&buf, []string{"Project"}, nil)
	assert.Equal(t, "(0 rows)\n", buf.String())
}
