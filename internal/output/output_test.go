package output

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSetupLogging_DefaultHidesInfo(t *testing.T) {
	var buf bytes.Buffer
	SetupLogging(LogConfig{Writer: &buf})
	t.Cleanup(func() { SetupLogging(LogConfig{}) })

	Info("hidden")
	Debug("hidden too")
	Warn("shown")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "shown")
}

func TestSetupLogging_VerboseShowsDebug(t *testing.T) {
	var buf bytes.Buffer
	SetupLogging(LogConfig{Verbose: true, Writer: &buf})
	t.Cleanup(func() { SetupLogging(LogConfig{}) })

	Debug("scan skipped", "path", "a/b")
	assert.Contains(t, buf.String(), "scan skipped")
	assert.Contains(t, buf.String(), "a/b")
}

func TestTable_String(t *testing.T) {
	tbl := NewTable("Template Name", "Short Name").
		Row("Console Application", "console").
		Row("Class Library", "classlib")

	out := tbl.String()
	assert.Equal(t, 2, tbl.Len())
	assert.Contains(t, out, "Template Name")
	assert.Contains(t, out, "Console Application")
	assert.Contains(t, out, "classlib")
}

func TestTable_Plain(t *testing.T) {
	out := NewTable("Identity", "Precedence").
		Plain().
		Row("Newt.Console.CSharp", "100").
		String()

	assert.Contains(t, out, "Newt.Console.CSharp")
	assert.Contains(t, out, "100")
	assert.NotContains(t, out, "│")
}
