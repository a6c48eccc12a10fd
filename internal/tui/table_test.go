package tui

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newPlainTable(buf *bytes.Buffer) *Table {
	return NewTable(buf, []TableColumn{
		{Name: "ID", Width: 8},
		{Name: "TITLE", Width: 20},
		{Name: "PRI", Width: 3, Align: AlignRight},
	})
}

func TestTable_WriteHeader(t *testing.T) {
	var buf bytes.Buffer
	newPlainTable(&buf).WriteHeader()

	out := buf.String()
	assert.Contains(t, out, "ID")
	assert.Contains(t, out, "TITLE")
	assert.Contains(t, out, "PRI")
}

func TestTable_WriteRow(t *testing.T) {
	var buf bytes.Buffer
	tbl := newPlainTable(&buf)
	tbl.WriteRow("t-1", "Ship the report", "2")

	out := strings.TrimRight(buf.String(), "\n")
	assert.Contains(t, out, "t-1")
	assert.Contains(t, out, "Ship the report")
	// Right-aligned cell ends the line.
	assert.True(t, strings.HasSuffix(out, "2"), "got %q", out)
}

func TestTable_TruncatesLongCells(t *testing.T) {
	var buf bytes.Buffer
	tbl := newPlainTable(&buf)
	tbl.WriteRow("t-1", "An extremely long title that cannot possibly fit", "2")

	assert.Contains(t, buf.String(), "…")
	assert.NotContains(t, buf.String(), "cannot possibly fit")
}

func TestTable_MissingCellsRenderEmpty(t *testing.T) {
	var buf bytes.Buffer
	tbl := newPlainTable(&buf)
	tbl.WriteRow("t-1")

	require.NotEmpty(t, buf.String())
}

func TestVisibleWidth(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 5, visibleWidth("hello"))
	assert.Equal(t, 5, visibleWidth("\x1b[32mhello\x1b[0m"))
	assert.Equal(t, 1, visibleWidth("●"))
}

func TestPad(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "ab   ", pad("ab", 5, AlignLeft))
	assert.Equal(t, "   ab", pad("ab", 5, AlignRight))
	assert.Equal(t, "abcdef", pad("abcdef", 5, AlignLeft))
}

func TestTaskStatusLabelFallsBackOnUnknown(t *testing.T) {
	t.Parallel()

	label := TaskStatusLabel("archived")
	assert.Contains(t, label, "?")
	assert.Contains(t, label, "archived")
}
