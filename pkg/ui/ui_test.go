package ui

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func capture(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	SetOutput(&buf)
	t.Cleanup(func() {
		SetQuiet(false)
		SetOutput(nil)
	})
	return &buf
}

func TestPrintWithoutColor(t *testing.T) {
	buf := capture(t)

	PrintSuccess("5/5 diagrams generated")
	PrintInfo("Output", "chess_openings")
	PrintError("Download failed", errors.New("user not found"))

	assert.Equal(t, "5/5 diagrams generated\nOutput: chess_openings\nDownload failed: user not found\n", buf.String())
}

func TestPrintWithColor(t *testing.T) {
	buf := capture(t)
	SetColor(true)

	PrintWarning("skipped")
	assert.Equal(t, "\033[33mskipped\033[0m\n", buf.String())
}

func TestQuietKeepsErrors(t *testing.T) {
	buf := capture(t)
	SetQuiet(true)

	PrintSuccess("done")
	PrintHighlight("hello")
	PrintError("broken")

	assert.Equal(t, "broken\n", buf.String())
}

func TestProgress(t *testing.T) {
	buf := capture(t)

	p := NewProgress("[diagrams]", 4)
	p.Step(false)
	p.Step(true)
	assert.Equal(t, "["+strings.Repeat(ProgressBar, 10)+strings.Repeat(ProgressEmpty, 10)+"] 2/4", p.Bar())
	assert.Equal(t, 1, p.Failed)

	p.PrintStep("Ruy_Lopez_white", nil)
	assert.Contains(t, buf.String(), "Ruy_Lopez_white ok")

	empty := NewProgress("x", 0)
	assert.Equal(t, "["+strings.Repeat(ProgressEmpty, 20)+"] 0/0", empty.Bar())
}
